package store

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/smohan/deckard/internal/timing"
)

// TimingStat fetches the timing stat for one card, or nil if never timed.
func (s *Store) TimingStat(cardID string) (*timing.Stat, error) {
	var stat timing.Stat
	err := s.db.First(&stat, "card_id = ?", cardID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "get timing stat %s", cardID)
	}
	return &stat, nil
}

// SaveTimingStat upserts a card's running average.
func (s *Store) SaveTimingStat(stat *timing.Stat) error {
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "card_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"average_seconds", "sample_count"}),
	}).Create(stat).Error
	if err != nil {
		return pkgerrors.Wrapf(err, "save timing stat %s", stat.CardID)
	}
	return nil
}

// AllTimingStats returns every stored timing stat.
func (s *Store) AllTimingStats() ([]timing.Stat, error) {
	var stats []timing.Stat
	if err := s.db.Find(&stats).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "list timing stats")
	}
	return stats, nil
}

// DeleteTimingStat removes a card's timing stat.
func (s *Store) DeleteTimingStat(cardID string) error {
	if err := s.db.Delete(&timing.Stat{}, "card_id = ?", cardID).Error; err != nil {
		return pkgerrors.Wrapf(err, "delete timing stat %s", cardID)
	}
	return nil
}

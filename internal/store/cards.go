package store

import (
	"github.com/pkg/errors"

	"github.com/smohan/deckard/internal/card"
	"github.com/smohan/deckard/internal/timing"
)

// CreateCard inserts a new card.
func (s *Store) CreateCard(c *card.Card) error {
	if err := s.db.Create(c).Error; err != nil {
		return errors.Wrapf(err, "create card %s", c.ID)
	}
	return nil
}

// GetCard fetches one card by id.
func (s *Store) GetCard(id string) (*card.Card, error) {
	var c card.Card
	if err := s.db.First(&c, "id = ?", id).Error; err != nil {
		return nil, errors.Wrapf(err, "get card %s", id)
	}
	return &c, nil
}

// SaveCard writes a card's mutated fields back. Called after every
// recorded outcome, so interrupted sessions lose nothing.
func (s *Store) SaveCard(c *card.Card) error {
	err := s.db.Model(&card.Card{}).Where("id = ?", c.ID).Updates(map[string]any{
		"front_primary":   c.FrontPrimary,
		"front_secondary": c.FrontSecondary,
		"back_primary":    c.BackPrimary,
		"back_secondary":  c.BackSecondary,
		"correct_streak":  c.CorrectStreak,
		"needs_review":    c.NeedsReview,
	}).Error
	if err != nil {
		return errors.Wrapf(err, "save card %s", c.ID)
	}
	return nil
}

// DeleteCard removes the card and its timing stat.
func (s *Store) DeleteCard(id string) error {
	if err := s.db.Where("card_id = ?", id).Delete(&timing.Stat{}).Error; err != nil {
		return errors.Wrapf(err, "delete timing stat of card %s", id)
	}
	if err := s.db.Delete(&card.Card{}, "id = ?", id).Error; err != nil {
		return errors.Wrapf(err, "delete card %s", id)
	}
	return nil
}

package store

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/smohan/deckard/internal/card"
	"github.com/smohan/deckard/internal/timing"
)

// CreateDeck inserts a new deck.
func (s *Store) CreateDeck(d *card.Deck) error {
	if err := s.db.Create(d).Error; err != nil {
		return errors.Wrapf(err, "create deck %q", d.Name)
	}
	return nil
}

// ListDecks returns all decks with their cards, ordered by name.
func (s *Store) ListDecks() ([]card.Deck, error) {
	var decks []card.Deck
	err := s.db.
		Preload("Cards", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Order("name ASC").
		Find(&decks).Error
	if err != nil {
		return nil, errors.Wrap(err, "list decks")
	}
	return decks, nil
}

// GetDeck fetches one deck by id with its cards in creation order.
func (s *Store) GetDeck(id string) (*card.Deck, error) {
	var d card.Deck
	err := s.db.
		Preload("Cards", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&d, "id = ?", id).Error
	if err != nil {
		return nil, errors.Wrapf(err, "get deck %s", id)
	}
	return &d, nil
}

// FindDeckByName fetches one deck by its exact name.
func (s *Store) FindDeckByName(name string) (*card.Deck, error) {
	var d card.Deck
	err := s.db.
		Preload("Cards", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&d, "name = ?", name).Error
	if err != nil {
		return nil, errors.Wrapf(err, "find deck %q", name)
	}
	return &d, nil
}

// SaveDeck writes the deck's own fields back. Cards are saved
// individually at their own checkpoints.
func (s *Store) SaveDeck(d *card.Deck) error {
	err := s.db.Model(&card.Deck{}).Where("id = ?", d.ID).Updates(map[string]any{
		"name":            d.Name,
		"emoji":           d.Emoji,
		"is_mastered":     d.IsMastered,
		"last_quiz_score": d.LastQuizScore,
	}).Error
	if err != nil {
		return errors.Wrapf(err, "save deck %s", d.ID)
	}
	return nil
}

// DeleteDeck removes the deck, its cards and their timing stats.
func (s *Store) DeleteDeck(id string) error {
	var cardIDs []string
	if err := s.db.Model(&card.Card{}).Where("deck_id = ?", id).Pluck("id", &cardIDs).Error; err != nil {
		return errors.Wrapf(err, "list cards of deck %s", id)
	}
	if len(cardIDs) > 0 {
		if err := s.db.Where("card_id IN ?", cardIDs).Delete(&timing.Stat{}).Error; err != nil {
			return errors.Wrapf(err, "delete timing stats of deck %s", id)
		}
	}
	if err := s.db.Where("deck_id = ?", id).Delete(&card.Card{}).Error; err != nil {
		return errors.Wrapf(err, "delete cards of deck %s", id)
	}
	if err := s.db.Delete(&card.Deck{}, "id = ?", id).Error; err != nil {
		return errors.Wrapf(err, "delete deck %s", id)
	}
	return nil
}

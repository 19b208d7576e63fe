package card

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Side identifies which face of a card an attachment belongs to.
type Side string

const (
	SideFront Side = "front"
	SideBack  Side = "back"
)

// Card is the persisted study state of a single flashcard.
// ID is the join key to the media store and the timing stats.
type Card struct {
	ID             string    `gorm:"primaryKey;size:36"`
	DeckID         string    `gorm:"size:36;not null;index"`
	FrontPrimary   string    `gorm:"not null;size:1000"`
	FrontSecondary string    `gorm:"size:1000"`
	BackPrimary    string    `gorm:"not null;size:1000"`
	BackSecondary  string    `gorm:"size:1000"`
	CreatedAt      time.Time
	CorrectStreak  int  `gorm:"default:0"`
	NeedsReview    bool `gorm:"default:false"`
}

// Deck groups cards and carries the aggregate study state.
// IsMastered is recomputed from the cards, never set directly.
type Deck struct {
	ID            string `gorm:"primaryKey;size:36"`
	Name          string `gorm:"not null;size:100"`
	Emoji         string `gorm:"size:16"`
	CreatedAt     time.Time
	IsMastered    bool    `gorm:"default:false"`
	LastQuizScore float64 `gorm:"default:0"` // percentage in [0,100]; 0 = never quizzed
	Cards         []Card  `gorm:"foreignKey:DeckID"`
}

// NewDeck creates an unsaved deck with a fresh ID.
func NewDeck(name, emoji string) *Deck {
	if emoji == "" {
		emoji = "📚"
	}
	return &Deck{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Emoji:     emoji,
		CreatedAt: time.Now(),
	}
}

// NewCard creates an unsaved card belonging to deckID.
func NewCard(deckID, frontPrimary, frontSecondary, backPrimary, backSecondary string) *Card {
	return &Card{
		ID:             uuid.NewString(),
		DeckID:         deckID,
		FrontPrimary:   strings.TrimSpace(frontPrimary),
		FrontSecondary: strings.TrimSpace(frontSecondary),
		BackPrimary:    strings.TrimSpace(backPrimary),
		BackSecondary:  strings.TrimSpace(backSecondary),
		CreatedAt:      time.Now(),
	}
}

// CardsInOrder returns the deck's cards sorted by creation time ascending.
// Display order only; study logic shuffles its own working lists.
func (d *Deck) CardsInOrder() []*Card {
	out := make([]*Card, len(d.Cards))
	for i := range d.Cards {
		out[i] = &d.Cards[i]
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

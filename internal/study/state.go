// Package study drives study sessions: it walks a shuffled card list,
// applies correctness outcomes, hands leftover cards to a nested review
// pass, and re-evaluates deck mastery on completion.
package study

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/smohan/deckard/internal/card"
	"github.com/smohan/deckard/internal/timing"
)

// Mode selects which cards a session covers.
type Mode int

const (
	// ModePlain studies the full deck.
	ModePlain Mode = iota
	// ModeReview studies only cards due for review.
	ModeReview
	// ModeStudyAll studies the union of cards across several decks.
	ModeStudyAll
)

func (m Mode) String() string {
	switch m {
	case ModePlain:
		return "plain"
	case ModeReview:
		return "review"
	case ModeStudyAll:
		return "study-all"
	}
	return "unknown"
}

// Phase is the session's position in its lifecycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseInProgress
	// PhaseAwaitingReviewDecision: a plain session finished with cards
	// still flagged for review; the caller chooses to review them now
	// or finish.
	PhaseAwaitingReviewDecision
	PhaseCompleted
)

// Recorder persists study mutations. Satisfied by store.Store.
// Saves happen at each outcome, so an abandoned session leaves no
// unsaved progress behind.
type Recorder interface {
	SaveCard(*card.Card) error
	SaveDeck(*card.Deck) error
}

// Session is a single ordered traversal of a card subset.
// Not safe for concurrent use; one session drives one deck at a time.
type Session struct {
	ID    string
	Mode  Mode
	Phase Phase

	deck  *card.Deck   // nil in ModeStudyAll
	decks []*card.Deck // ModeStudyAll participants

	cards       []*card.Card
	index       int
	showingBack bool

	// reviewingLeftovers marks the nested review pass a plain session
	// runs over its leftover cards. Correct answers clear review flags
	// in this pass just as they do in ModeReview.
	reviewingLeftovers bool
	leftovers          []*card.Card

	// mastered collects decks that flipped to mastered when this
	// session completed, for celebratory UI upstream.
	mastered []*card.Deck

	recorder Recorder
	timing   *timing.Manager
	rng      *rand.Rand
	logger   *slog.Logger
}

// New creates an idle session. timing may be nil to study without the
// latency heuristic.
func New(recorder Recorder, tm *timing.Manager, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		ID:       uuid.NewString(),
		Phase:    PhaseIdle,
		recorder: recorder,
		timing:   tm,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:   logger,
	}
}

// Current returns the card being studied, or nil outside PhaseInProgress.
func (s *Session) Current() *card.Card {
	if s.Phase != PhaseInProgress || s.index >= len(s.cards) {
		return nil
	}
	return s.cards[s.index]
}

// Index returns the zero-based position of the current card.
func (s *Session) Index() int { return s.index }

// Total returns the size of the working card list.
func (s *Session) Total() int { return len(s.cards) }

// ShowingBack reports whether the back face is revealed.
func (s *Session) ShowingBack() bool { return s.showingBack }

// Flip toggles the visible face. The answer timer keeps running; it
// measures presentation to answer, not flip to answer.
func (s *Session) Flip() { s.showingBack = !s.showingBack }

// Reviewing reports whether outcomes are being recorded in a review
// context (ModeReview or the nested leftover pass).
func (s *Session) Reviewing() bool {
	return s.Mode == ModeReview || s.reviewingLeftovers
}

// Leftovers returns the cards still flagged for review when a plain
// session reached PhaseAwaitingReviewDecision.
func (s *Session) Leftovers() []*card.Card { return s.leftovers }

// MasteredDecks returns decks that transitioned to mastered at completion.
func (s *Session) MasteredDecks() []*card.Deck { return s.mastered }

// DeckMastered reports whether completion mastered at least one deck.
func (s *Session) DeckMastered() bool { return len(s.mastered) > 0 }

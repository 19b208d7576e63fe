package study

import (
	"github.com/smohan/deckard/internal/card"
)

// Start begins a session over deck. In ModeReview an explicit card set
// may be supplied (the leftover set from a previous session); when nil,
// the review selector picks flagged and timing-promoted cards. An empty
// working list completes immediately without entering PhaseInProgress.
func (s *Session) Start(deck *card.Deck, mode Mode, explicit []*card.Card) {
	s.deck = deck
	s.decks = nil
	s.Mode = mode

	var working []*card.Card
	switch mode {
	case ModeReview:
		if explicit != nil {
			working = explicit
		} else {
			working = card.SelectReviewCards(deck.CardsInOrder(), s.advisor())
		}
	default:
		working = deck.CardsInOrder()
	}

	s.begin(working)
}

// StartAll begins a ModeStudyAll session over the union of cards across
// decks. Mastery is re-checked for every participating deck on completion.
func (s *Session) StartAll(decks []*card.Deck) {
	s.deck = nil
	s.decks = decks
	s.Mode = ModeStudyAll

	var working []*card.Card
	for _, d := range decks {
		working = append(working, d.CardsInOrder()...)
	}

	s.begin(working)
}

func (s *Session) begin(working []*card.Card) {
	s.index = 0
	s.showingBack = false
	s.reviewingLeftovers = false
	s.leftovers = nil
	s.mastered = nil

	s.cards = make([]*card.Card, len(working))
	copy(s.cards, working)
	s.rng.Shuffle(len(s.cards), func(i, j int) {
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	})

	if len(s.cards) == 0 {
		// Nothing to study or review; report complete right away.
		s.Phase = PhaseCompleted
		return
	}

	s.Phase = PhaseInProgress
	s.startTimer(s.cards[0])
}

// RecordOutcome applies a correctness outcome to the current card,
// persists it, and advances. Outside PhaseInProgress it is a no-op.
func (s *Session) RecordOutcome(correct bool) {
	c := s.Current()
	if c == nil {
		return
	}

	// The timer stops regardless of the outcome; a slow correct answer
	// still raises the card's average.
	s.endTimer(c)

	if correct {
		c.MarkCorrect(s.Reviewing())
	} else {
		c.MarkIncorrect()
	}

	if err := s.recorder.SaveCard(c); err != nil {
		// Optimistic: in-memory state stands, no retry, no rollback.
		s.logger.Error("save card progress", "card", c.ID, "error", err)
	}

	if s.index < len(s.cards)-1 {
		s.index++
		s.showingBack = false
		s.startTimer(s.cards[s.index])
		return
	}

	s.complete()
}

func (s *Session) complete() {
	// Only a first-pass plain session offers the leftover-review prompt.
	if s.Mode == ModePlain && !s.reviewingLeftovers {
		s.leftovers = flaggedCards(s.deck)
		if len(s.leftovers) > 0 {
			s.Phase = PhaseAwaitingReviewDecision
			return
		}
	}
	s.finishWithMasteryCheck()
}

// StartLeftoverReview runs the nested review pass over exactly the
// leftover set exposed by PhaseAwaitingReviewDecision.
func (s *Session) StartLeftoverReview() {
	if s.Phase != PhaseAwaitingReviewDecision {
		return
	}
	working := s.leftovers
	s.leftovers = nil

	s.cards = make([]*card.Card, len(working))
	copy(s.cards, working)
	s.rng.Shuffle(len(s.cards), func(i, j int) {
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	})

	s.index = 0
	s.showingBack = false
	s.reviewingLeftovers = true
	s.Phase = PhaseInProgress
	s.startTimer(s.cards[0])
}

// Finish declines the leftover review and completes the session.
func (s *Session) Finish() {
	if s.Phase != PhaseAwaitingReviewDecision {
		return
	}
	s.leftovers = nil
	s.finishWithMasteryCheck()
}

func (s *Session) finishWithMasteryCheck() {
	for _, d := range s.participants() {
		if s.syncMastery(d) {
			s.mastered = append(s.mastered, d)
		}
	}
	s.Phase = PhaseCompleted
}

// syncMastery recomputes the deck's mastery flag, persisting only when it
// changes. Returns true when the deck transitioned to mastered.
func (s *Session) syncMastery(d *card.Deck) bool {
	mastered := card.IsMastered(d.CardsInOrder())
	if mastered == d.IsMastered {
		return false
	}
	d.IsMastered = mastered
	if err := s.recorder.SaveDeck(d); err != nil {
		s.logger.Error("save deck mastery", "deck", d.ID, "error", err)
	}
	return mastered
}

func (s *Session) participants() []*card.Deck {
	if s.Mode == ModeStudyAll {
		return s.decks
	}
	if s.deck != nil {
		return []*card.Deck{s.deck}
	}
	return nil
}

func (s *Session) advisor() card.FrequencyAdvisor {
	if s.timing == nil {
		return nil
	}
	return s.timing
}

func (s *Session) startTimer(c *card.Card) {
	if s.timing != nil {
		s.timing.StartTimer(c.ID)
	}
}

func (s *Session) endTimer(c *card.Card) {
	if s.timing != nil {
		s.timing.EndTimer(c.ID)
	}
}

// flaggedCards returns the deck's cards still carrying the review flag.
// The leftover prompt counts only explicit misses; timing promotion
// applies to full review sessions, not the end-of-session pass.
func flaggedCards(d *card.Deck) []*card.Card {
	var out []*card.Card
	for _, c := range d.CardsInOrder() {
		if c.NeedsReview {
			out = append(out, c)
		}
	}
	return out
}

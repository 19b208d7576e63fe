package study

import (
	"errors"
	"testing"
	"time"

	"github.com/smohan/deckard/internal/card"
	"github.com/smohan/deckard/internal/timing"
)

type memRecorder struct {
	cardSaves []string
	deckSaves []string
	cardErr   error
}

func (r *memRecorder) SaveCard(c *card.Card) error {
	r.cardSaves = append(r.cardSaves, c.ID)
	return r.cardErr
}

func (r *memRecorder) SaveDeck(d *card.Deck) error {
	r.deckSaves = append(r.deckSaves, d.ID)
	return nil
}

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time { return f.now }

func testDeck(cards ...card.Card) *card.Deck {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	for i := range cards {
		cards[i].CreatedAt = base.Add(time.Duration(i) * time.Minute)
		cards[i].DeckID = "d1"
	}
	return &card.Deck{ID: "d1", Name: "Greek", Cards: cards}
}

// forceOrder rearranges the shuffled working list into the given id
// order and restarts the answer timer for the forced first card.
func forceOrder(s *Session, ids ...string) {
	byID := make(map[string]*card.Card, len(s.cards))
	for _, c := range s.cards {
		byID[c.ID] = c
	}
	for i, id := range ids {
		s.cards[i] = byID[id]
	}
	s.startTimer(s.cards[0])
}

func TestStart_EmptyDeck(t *testing.T) {
	rec := &memRecorder{}
	s := New(rec, nil, nil)
	s.Start(testDeck(), ModePlain, nil)

	if s.Phase != PhaseCompleted {
		t.Errorf("Phase = %v, want PhaseCompleted", s.Phase)
	}
	if s.Total() != 0 {
		t.Errorf("Total = %d, want 0", s.Total())
	}
	if s.DeckMastered() {
		t.Error("empty deck reported mastered")
	}
}

func TestStart_ReviewWithNothingDue(t *testing.T) {
	rec := &memRecorder{}
	s := New(rec, nil, nil)
	s.Start(testDeck(card.Card{ID: "a"}), ModeReview, nil)

	if s.Phase != PhaseCompleted {
		t.Errorf("Phase = %v, want immediate PhaseCompleted", s.Phase)
	}
}

func TestRecordOutcome_Incorrect(t *testing.T) {
	rec := &memRecorder{}
	s := New(rec, nil, nil)
	s.Start(testDeck(card.Card{ID: "a", CorrectStreak: 5}), ModePlain, nil)

	s.RecordOutcome(false)

	c := &s.deck.Cards[0]
	if !c.NeedsReview {
		t.Error("NeedsReview = false, want true")
	}
	if c.CorrectStreak != 0 {
		t.Errorf("CorrectStreak = %d, want 0", c.CorrectStreak)
	}
	if len(rec.cardSaves) != 1 {
		t.Errorf("card saves = %d, want 1 (persisted before advancing)", len(rec.cardSaves))
	}
}

func TestRecordOutcome_PlainDoesNotClearFlag(t *testing.T) {
	rec := &memRecorder{}
	s := New(rec, nil, nil)
	s.Start(testDeck(card.Card{ID: "a", CorrectStreak: 2, NeedsReview: true}), ModePlain, nil)

	s.RecordOutcome(true)

	c := &s.deck.Cards[0]
	if c.CorrectStreak != 3 {
		t.Errorf("CorrectStreak = %d, want 3", c.CorrectStreak)
	}
	if !c.NeedsReview {
		t.Error("plain session cleared NeedsReview at threshold, want kept")
	}
}

func TestRecordOutcome_ReviewClearsFlagAtThreshold(t *testing.T) {
	rec := &memRecorder{}
	s := New(rec, nil, nil)
	d := testDeck(card.Card{ID: "a", CorrectStreak: 2, NeedsReview: true})
	s.Start(d, ModeReview, nil)

	if s.Total() != 1 {
		t.Fatalf("review working set = %d cards, want 1", s.Total())
	}
	s.RecordOutcome(true)

	c := &d.Cards[0]
	if c.CorrectStreak != 3 {
		t.Errorf("CorrectStreak = %d, want 3", c.CorrectStreak)
	}
	if c.NeedsReview {
		t.Error("NeedsReview = true, want cleared in review mode")
	}
}

func TestPlainSession_EndToEnd(t *testing.T) {
	rec := &memRecorder{}
	s := New(rec, nil, nil)
	d := testDeck(
		card.Card{ID: "A", FrontPrimary: "alpha"},
		card.Card{ID: "B", FrontPrimary: "beta"},
		card.Card{ID: "C", FrontPrimary: "gamma"},
	)
	s.Start(d, ModePlain, nil)
	forceOrder(s, "A", "B", "C")

	s.RecordOutcome(true)  // A
	s.RecordOutcome(false) // B
	s.RecordOutcome(true)  // C

	byID := map[string]*card.Card{}
	for i := range d.Cards {
		byID[d.Cards[i].ID] = &d.Cards[i]
	}
	if a := byID["A"]; a.CorrectStreak != 1 || a.NeedsReview {
		t.Errorf("A = streak %d review %v, want streak 1 review false", a.CorrectStreak, a.NeedsReview)
	}
	if b := byID["B"]; b.CorrectStreak != 0 || !b.NeedsReview {
		t.Errorf("B = streak %d review %v, want streak 0 review true", b.CorrectStreak, b.NeedsReview)
	}
	if c := byID["C"]; c.CorrectStreak != 1 || c.NeedsReview {
		t.Errorf("C = streak %d review %v, want streak 1 review false", c.CorrectStreak, c.NeedsReview)
	}

	if d.IsMastered {
		t.Error("deck reported mastered")
	}
	if s.Phase != PhaseAwaitingReviewDecision {
		t.Fatalf("Phase = %v, want PhaseAwaitingReviewDecision", s.Phase)
	}
	if n := len(s.Leftovers()); n != 1 {
		t.Fatalf("leftovers = %d, want 1", n)
	}
	if s.Leftovers()[0].ID != "B" {
		t.Errorf("leftover = %s, want B", s.Leftovers()[0].ID)
	}

	// Accepting the prompt reviews exactly the leftover set.
	s.StartLeftoverReview()
	if s.Phase != PhaseInProgress {
		t.Fatalf("Phase = %v, want PhaseInProgress", s.Phase)
	}
	if s.Total() != 1 || s.Current().ID != "B" {
		t.Errorf("nested review covers %d cards starting at %v, want only B", s.Total(), s.Current())
	}
	if !s.Reviewing() {
		t.Error("nested pass not flagged as reviewing")
	}
}

func TestFinish_DeclinesLeftoverReview(t *testing.T) {
	rec := &memRecorder{}
	s := New(rec, nil, nil)
	d := testDeck(card.Card{ID: "a"})
	s.Start(d, ModePlain, nil)
	s.RecordOutcome(false)

	if s.Phase != PhaseAwaitingReviewDecision {
		t.Fatalf("Phase = %v, want PhaseAwaitingReviewDecision", s.Phase)
	}
	s.Finish()
	if s.Phase != PhaseCompleted {
		t.Errorf("Phase = %v, want PhaseCompleted", s.Phase)
	}
	if s.DeckMastered() {
		t.Error("deck with flagged card reported mastered")
	}
}

func TestCompletion_MasteryEvent(t *testing.T) {
	rec := &memRecorder{}
	s := New(rec, nil, nil)
	d := testDeck(
		card.Card{ID: "a", CorrectStreak: 2},
		card.Card{ID: "b", CorrectStreak: 3},
	)
	s.Start(d, ModePlain, nil)
	s.RecordOutcome(true)
	s.RecordOutcome(true)

	if s.Phase != PhaseCompleted {
		t.Fatalf("Phase = %v, want PhaseCompleted", s.Phase)
	}
	if !d.IsMastered {
		t.Error("deck not marked mastered")
	}
	if !s.DeckMastered() {
		t.Error("mastered event not signaled")
	}
	if len(rec.deckSaves) != 1 {
		t.Errorf("deck saves = %d, want exactly 1 (persist only on change)", len(rec.deckSaves))
	}
}

func TestCompletion_NoRedundantDeckWrite(t *testing.T) {
	rec := &memRecorder{}
	s := New(rec, nil, nil)
	d := testDeck(card.Card{ID: "a", CorrectStreak: 3})
	d.IsMastered = true
	s.Start(d, ModePlain, nil)
	s.RecordOutcome(true)

	if len(rec.deckSaves) != 0 {
		t.Errorf("deck saves = %d, want 0 for an unchanged flag", len(rec.deckSaves))
	}
	if s.DeckMastered() {
		t.Error("already-mastered deck signaled a fresh mastery event")
	}
}

func TestCompletion_UnmastersOnMiss(t *testing.T) {
	rec := &memRecorder{}
	s := New(rec, nil, nil)
	d := testDeck(card.Card{ID: "a", CorrectStreak: 3})
	d.IsMastered = true
	s.Start(d, ModeReview, []*card.Card{&d.Cards[0]})
	s.RecordOutcome(false)

	if d.IsMastered {
		t.Error("deck still mastered after a miss")
	}
	if len(rec.deckSaves) != 1 {
		t.Errorf("deck saves = %d, want 1", len(rec.deckSaves))
	}
	if s.DeckMastered() {
		t.Error("unmastering signaled a mastery event")
	}
}

func TestStudyAll_ChecksEveryDeck(t *testing.T) {
	rec := &memRecorder{}
	s := New(rec, nil, nil)
	d1 := testDeck(card.Card{ID: "a", CorrectStreak: 2})
	d2 := &card.Deck{ID: "d2", Name: "Latin", Cards: []card.Card{{ID: "b", DeckID: "d2", CorrectStreak: 2}}}

	s.StartAll([]*card.Deck{d1, d2})
	if s.Total() != 2 {
		t.Fatalf("Total = %d, want 2", s.Total())
	}
	s.RecordOutcome(true)
	s.RecordOutcome(true)

	if s.Phase != PhaseCompleted {
		t.Fatalf("Phase = %v, want PhaseCompleted (no leftover prompt in study-all)", s.Phase)
	}
	if !d1.IsMastered || !d2.IsMastered {
		t.Errorf("mastered = %v/%v, want both true", d1.IsMastered, d2.IsMastered)
	}
	if len(s.MasteredDecks()) != 2 {
		t.Errorf("mastered events = %d, want 2", len(s.MasteredDecks()))
	}
}

func TestRecordOutcome_SaveFailureDoesNotStall(t *testing.T) {
	rec := &memRecorder{cardErr: errors.New("disk full")}
	s := New(rec, nil, nil)
	d := testDeck(card.Card{ID: "a"}, card.Card{ID: "b"})
	s.Start(d, ModePlain, nil)

	s.RecordOutcome(true)
	if s.Phase != PhaseInProgress || s.Index() != 1 {
		t.Errorf("session did not advance past a failed save: phase %v index %d", s.Phase, s.Index())
	}
}

func TestTimingIntegration(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	tm := timing.NewManager(clock, nil, nil)
	rec := &memRecorder{}
	s := New(rec, tm, nil)

	d := testDeck(card.Card{ID: "a"}, card.Card{ID: "b"})
	s.Start(d, ModePlain, nil)
	forceOrder(s, "a", "b")

	clock.now = clock.now.Add(4 * time.Second)
	s.RecordOutcome(true) // a answered in 4s; b's timer starts now

	clock.now = clock.now.Add(7 * time.Second)
	s.RecordOutcome(false) // b answered in 7s; wrong answers are timed too

	if got := tm.AverageFor("a"); got != 4 {
		t.Errorf("average(a) = %v, want 4", got)
	}
	if got := tm.AverageFor("b"); got != 7 {
		t.Errorf("average(b) = %v, want 7", got)
	}
	if !tm.ShouldAppearMoreFrequently("b") {
		t.Error("slow card b not promoted")
	}
}

func TestReviewSelection_IncludesTimingPromoted(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	tm := timing.NewManager(clock, nil, nil)
	rec := &memRecorder{}

	d := testDeck(
		card.Card{ID: "a", NeedsReview: true}, // flagged, fast
		card.Card{ID: "b", CorrectStreak: 3},  // unflagged, slow
	)
	tm.StartTimer("b")
	clock.now = clock.now.Add(6 * time.Second)
	tm.EndTimer("b")

	s := New(rec, tm, nil)
	s.Start(d, ModeReview, nil)
	if s.Total() != 2 {
		t.Errorf("review working set = %d, want union of flagged and slow (2)", s.Total())
	}
}

package quiz

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/smohan/deckard/internal/card"
)

type memRecorder struct {
	saves int
	err   error
}

func (r *memRecorder) SaveDeck(d *card.Deck) error {
	r.saves++
	return r.err
}

func testDeck(backs ...string) *card.Deck {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	d := &card.Deck{ID: "d1", Name: "Capitals"}
	for i, back := range backs {
		d.Cards = append(d.Cards, card.Card{
			ID:           string(rune('a' + i)),
			DeckID:       d.ID,
			FrontPrimary: "front-" + back,
			BackPrimary:  back,
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		})
	}
	return d
}

func newTestQuiz(rec *memRecorder) *Quiz {
	q := New(rec, nil)
	q.rng = rand.New(rand.NewSource(42))
	return q
}

func checkQuestion(t *testing.T, q *Question) {
	t.Helper()
	if len(q.Options) != OptionCount {
		t.Fatalf("options = %d, want %d", len(q.Options), OptionCount)
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= OptionCount {
		t.Fatalf("correct index %d out of range", q.CorrectIndex)
	}
	if q.Options[q.CorrectIndex] != q.Card.BackPrimary {
		t.Errorf("option at correct index = %q, want %q", q.Options[q.CorrectIndex], q.Card.BackPrimary)
	}
	correct := 0
	for _, opt := range q.Options {
		if opt == q.Card.BackPrimary {
			correct++
		}
	}
	if correct != 1 {
		t.Errorf("correct answer appears %d times, want exactly 1", correct)
	}
}

func TestBuildQuestion_SingleCardPadsWithFillers(t *testing.T) {
	q := newTestQuiz(&memRecorder{})
	q.Setup(testDeck("Paris"))

	question := q.Current()
	if question == nil {
		t.Fatal("no question for single-card deck")
	}
	checkQuestion(t, question)

	fillers := 0
	for _, opt := range question.Options {
		if strings.HasPrefix(opt, "Answer ") {
			fillers++
		}
	}
	if fillers != 3 {
		t.Errorf("fillers = %d, want 3", fillers)
	}
}

func TestBuildQuestion_FourCardsNoFillers(t *testing.T) {
	q := newTestQuiz(&memRecorder{})
	q.Setup(testDeck("Paris", "Rome", "Oslo", "Lima"))

	for q.State == StateQuestion {
		question := q.Current()
		checkQuestion(t, question)
		for _, opt := range question.Options {
			if strings.HasPrefix(opt, "Answer ") {
				t.Errorf("unexpected filler %q with 4 distinct answers", opt)
			}
		}
		q.SubmitAnswer(question.CorrectIndex)
		q.Advance()
	}
}

func TestBuildQuestion_SkipsEmptyAndDuplicateBacks(t *testing.T) {
	q := newTestQuiz(&memRecorder{})
	d := testDeck("Paris", "", "Paris", "Rome")
	q.Setup(d)

	for q.State == StateQuestion {
		question := q.Current()
		seen := map[string]int{}
		for _, opt := range question.Options {
			seen[opt]++
		}
		for opt, n := range seen {
			if n > 1 {
				t.Errorf("option %q appears %d times for card %s, want distinct options",
					opt, n, question.Card.ID)
			}
		}
		for i, opt := range question.Options {
			if opt == "" && i != question.CorrectIndex {
				t.Errorf("empty string used as a distractor for card %s", question.Card.ID)
			}
		}
		q.SubmitAnswer(question.CorrectIndex)
		q.Advance()
	}
}

func TestSubmitAnswer_LocksIn(t *testing.T) {
	q := newTestQuiz(&memRecorder{})
	q.Setup(testDeck("Paris", "Rome"))

	question := q.Current()
	wrong := (question.CorrectIndex + 1) % OptionCount
	q.SubmitAnswer(wrong)
	if q.Score() != 0 {
		t.Errorf("score = %d after wrong answer, want 0", q.Score())
	}
	// A second submission must not change the locked answer or score.
	q.SubmitAnswer(question.CorrectIndex)
	if q.Score() != 0 {
		t.Errorf("score = %d after re-submission, want still 0", q.Score())
	}
	if question.ChosenIndex != wrong {
		t.Errorf("chosen = %d, want the first submission %d", question.ChosenIndex, wrong)
	}
}

func TestAdvance_PersistsRoundedScore(t *testing.T) {
	rec := &memRecorder{}
	q := newTestQuiz(rec)
	d := testDeck("Paris", "Rome", "Oslo")
	q.Setup(d)

	// 2 of 3 correct.
	answers := []bool{true, false, true}
	for i := 0; q.State == StateQuestion; i++ {
		question := q.Current()
		if answers[i] {
			q.SubmitAnswer(question.CorrectIndex)
		} else {
			q.SubmitAnswer((question.CorrectIndex + 1) % OptionCount)
		}
		q.Advance()
	}

	if q.State != StateFinished {
		t.Fatalf("state = %v, want StateFinished", q.State)
	}
	if d.LastQuizScore != 66.67 {
		t.Errorf("LastQuizScore = %v, want 66.67", d.LastQuizScore)
	}
	if rec.saves != 1 {
		t.Errorf("deck saves = %d, want 1 at quiz finish", rec.saves)
	}
}

func TestQuiz_DoesNotTouchStudyState(t *testing.T) {
	q := newTestQuiz(&memRecorder{})
	d := testDeck("Paris", "Rome")
	d.Cards[0].CorrectStreak = 2
	d.Cards[1].NeedsReview = true
	q.Setup(d)

	for q.State == StateQuestion {
		q.SubmitAnswer((q.Current().CorrectIndex + 1) % OptionCount)
		q.Advance()
	}

	if d.Cards[0].CorrectStreak != 2 || d.Cards[1].NeedsReview != true {
		t.Error("quiz mutated streak or review flag")
	}
}

func TestSetup_EmptyDeck(t *testing.T) {
	rec := &memRecorder{}
	q := newTestQuiz(rec)
	d := testDeck()
	q.Setup(d)

	if q.State != StateFinished {
		t.Errorf("state = %v, want immediate StateFinished", q.State)
	}
	if rec.saves != 0 {
		t.Errorf("deck saves = %d, want 0 (no score for an empty quiz)", rec.saves)
	}
	if d.LastQuizScore != 0 {
		t.Errorf("LastQuizScore = %v, want untouched 0", d.LastQuizScore)
	}
}

func TestFinalPercent(t *testing.T) {
	tests := []struct {
		score, total int
		want         float64
	}{
		{0, 3, 0},
		{1, 3, 33.33},
		{2, 3, 66.67},
		{3, 3, 100},
		{1, 8, 12.5},
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := FinalPercent(tt.score, tt.total); got != tt.want {
			t.Errorf("FinalPercent(%d, %d) = %v, want %v", tt.score, tt.total, got, tt.want)
		}
	}
}

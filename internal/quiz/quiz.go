// Package quiz builds multiple-choice quizzes from deck content and
// persists the resulting score. Quizzing is informational: it never
// touches a card's streak or review flag.
package quiz

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/smohan/deckard/internal/card"
)

// OptionCount is the fixed number of options per question.
const OptionCount = 4

// State is the quiz's position in its lifecycle.
type State int

const (
	StateNotStarted State = iota
	StateQuestion
	StateFinished
)

// Recorder persists the final score. Satisfied by store.Store.
type Recorder interface {
	SaveDeck(*card.Deck) error
}

// Question is one multiple-choice question. Exactly one option is
// correct; the rest are sibling back texts padded with synthetic
// fillers when the deck is small.
type Question struct {
	Card         *card.Card
	Prompt       string
	Options      []string
	CorrectIndex int
	Answered     bool
	ChosenIndex  int
}

// Correct reports whether the locked-in answer was right.
func (q *Question) Correct() bool {
	return q.Answered && q.ChosenIndex == q.CorrectIndex
}

// Quiz runs one pass of multiple-choice questions over a deck.
type Quiz struct {
	State State

	deck     *card.Deck
	cards    []*card.Card
	index    int
	score    int
	current  *Question
	recorder Recorder
	rng      *rand.Rand
	logger   *slog.Logger
}

// New creates an idle quiz.
func New(recorder Recorder, logger *slog.Logger) *Quiz {
	if logger == nil {
		logger = slog.Default()
	}
	return &Quiz{
		recorder: recorder,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:   logger,
	}
}

// Setup starts a quiz over the deck's full card list in random order.
// An empty deck finishes immediately and records no score.
func (q *Quiz) Setup(deck *card.Deck) {
	q.deck = deck
	q.index = 0
	q.score = 0
	q.current = nil

	q.cards = deck.CardsInOrder()
	q.rng.Shuffle(len(q.cards), func(i, j int) {
		q.cards[i], q.cards[j] = q.cards[j], q.cards[i]
	})

	if len(q.cards) == 0 {
		q.State = StateFinished
		return
	}

	q.State = StateQuestion
	q.current = q.buildQuestion(q.cards[0])
}

// Current returns the active question, or nil outside StateQuestion.
func (q *Quiz) Current() *Question {
	if q.State != StateQuestion {
		return nil
	}
	return q.current
}

// Index returns the zero-based number of the active question.
func (q *Quiz) Index() int { return q.index }

// Total returns the number of questions in the quiz.
func (q *Quiz) Total() int { return len(q.cards) }

// Score returns the number of correct answers so far.
func (q *Quiz) Score() int { return q.score }

// SubmitAnswer locks in the selected option for the active question.
// Further submissions for the same question are ignored.
func (q *Quiz) SubmitAnswer(selected int) {
	if q.State != StateQuestion || q.current == nil || q.current.Answered {
		return
	}
	if selected < 0 || selected >= len(q.current.Options) {
		return
	}
	q.current.Answered = true
	q.current.ChosenIndex = selected
	if selected == q.current.CorrectIndex {
		q.score++
	}
}

// Advance moves to the next question, or finishes the quiz and persists
// the score percentage to the deck.
func (q *Quiz) Advance() {
	if q.State != StateQuestion {
		return
	}
	if q.index < len(q.cards)-1 {
		q.index++
		q.current = q.buildQuestion(q.cards[q.index])
		return
	}

	q.current = nil
	q.State = StateFinished

	percent := FinalPercent(q.score, len(q.cards))
	q.deck.LastQuizScore = percent
	if err := q.recorder.SaveDeck(q.deck); err != nil {
		q.logger.Error("save quiz score", "deck", q.deck.ID, "error", err)
	}
}

// FinalPercent converts a score into a percentage rounded to two
// decimal places, so 2 of 3 is exactly 66.67.
func FinalPercent(score, total int) float64 {
	if total == 0 {
		return 0
	}
	p := float64(score) / float64(total) * 100
	return math.Round(p*100) / 100
}

// buildQuestion assembles the four options for c: its back text plus up
// to three distinct sibling back texts, padded with synthetic fillers
// when the deck is too small. Empty sibling texts contribute nothing.
func (q *Quiz) buildQuestion(c *card.Card) *Question {
	pool := distractorPool(c, q.cards)
	q.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	if len(pool) > OptionCount-1 {
		pool = pool[:OptionCount-1]
	}

	options := append(pool, c.BackPrimary)
	for i := 1; len(options) < OptionCount; i++ {
		options = append(options, fmt.Sprintf("Answer %d", i))
	}

	// Swap-aware shuffle: track where the correct answer lands.
	correct := len(pool)
	q.rng.Shuffle(len(options), func(i, j int) {
		switch correct {
		case i:
			correct = j
		case j:
			correct = i
		}
		options[i], options[j] = options[j], options[i]
	})

	return &Question{
		Card:         c,
		Prompt:       c.FrontPrimary,
		Options:      options,
		CorrectIndex: correct,
		ChosenIndex:  -1,
	}
}

// distractorPool collects the distinct non-empty back texts of every
// other card in the quiz, excluding duplicates of the correct answer.
func distractorPool(c *card.Card, cards []*card.Card) []string {
	seen := map[string]bool{c.BackPrimary: true}
	var pool []string
	for _, other := range cards {
		if other.ID == c.ID {
			continue
		}
		text := other.BackPrimary
		if text == "" || seen[text] {
			continue
		}
		seen[text] = true
		pool = append(pool, text)
	}
	return pool
}

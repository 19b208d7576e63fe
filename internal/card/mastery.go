package card

// MasteryStreak is the consecutive-correct count a card must reach
// before it counts toward deck mastery.
const MasteryStreak = 3

// IsMastered reports whether a set of cards is fully mastered.
// An empty set is never mastered. Pure; no side effects.
func IsMastered(cards []*Card) bool {
	if len(cards) == 0 {
		return false
	}
	for _, c := range cards {
		if c.NeedsReview || c.CorrectStreak < MasteryStreak {
			return false
		}
	}
	return true
}

// FrequencyAdvisor reports cards whose answer latency warrants extra exposure.
// Satisfied by timing.Manager.
type FrequencyAdvisor interface {
	ShouldAppearMoreFrequently(cardID string) bool
}

// SelectReviewCards returns the cards due for review: those explicitly
// flagged plus those the advisor promotes. A card matching both predicates
// appears once. Deck order is preserved; sessions shuffle before presenting.
// A nil advisor selects on the review flag alone.
func SelectReviewCards(cards []*Card, advisor FrequencyAdvisor) []*Card {
	var due []*Card
	for _, c := range cards {
		if c.NeedsReview || (advisor != nil && advisor.ShouldAppearMoreFrequently(c.ID)) {
			due = append(due, c)
		}
	}
	return due
}

// MarkCorrect records a correct answer. The review flag is cleared only
// when the card is being studied in a review context and the streak has
// reached the mastery threshold.
func (c *Card) MarkCorrect(reviewing bool) {
	c.CorrectStreak++
	if reviewing && c.CorrectStreak >= MasteryStreak {
		c.NeedsReview = false
	}
}

// MarkIncorrect flags the card for review and resets its streak.
// The two mutations are inseparable: the streak drops to zero exactly
// when the flag is raised.
func (c *Card) MarkIncorrect() {
	c.NeedsReview = true
	c.CorrectStreak = 0
}

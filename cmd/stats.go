package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smohan/deckard/internal/timing"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show deck mastery and answer-time statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices(cmd)
		if err != nil {
			return err
		}
		defer svc.close()

		decks, err := svc.store.ListDecks()
		if err != nil {
			return err
		}

		fronts := map[string]string{}
		for _, d := range decks {
			mastered := "in progress"
			if d.IsMastered {
				mastered = "mastered"
			}
			quizNote := "never quizzed"
			if d.LastQuizScore > 0 {
				quizNote = fmt.Sprintf("last quiz %.2f%%", d.LastQuizScore)
			}
			reviewCount := 0
			for _, c := range d.Cards {
				fronts[c.ID] = c.FrontPrimary
				if c.NeedsReview {
					reviewCount++
				}
			}
			fmt.Printf("%s %s - %d card(s), %d to review, %s, %s\n",
				d.Emoji, d.Name, len(d.Cards), reviewCount, mastered, quizNote)
		}

		slow := 0
		for _, s := range svc.timing.Stats() {
			if s.AverageSeconds <= timing.SlowAnswerThreshold {
				continue
			}
			if slow == 0 {
				fmt.Println("\nSlow cards (promoted into review):")
			}
			slow++
			front := fronts[s.CardID]
			if front == "" {
				front = s.CardID
			}
			fmt.Printf("  %s - avg %.1fs over %d answer(s)\n", front, s.AverageSeconds, s.SampleCount)
		}
		return nil
	},
}

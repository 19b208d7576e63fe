package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/smohan/deckard/internal/quiz"
	"github.com/smohan/deckard/internal/tui"
)

var quizCmd = &cobra.Command{
	Use:   "quiz <deck>",
	Short: "Take a multiple-choice quiz over a deck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices(cmd)
		if err != nil {
			return err
		}
		defer svc.close()

		d, err := svc.store.FindDeckByName(args[0])
		if err != nil {
			return err
		}

		q := quiz.New(svc.store, slog.Default())
		q.Setup(d)
		return tui.RunQuiz(q)
	},
}

package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/smohan/deckard/internal/card"
	"github.com/smohan/deckard/internal/study"
	"github.com/smohan/deckard/internal/tui"
)

var studyCmd = &cobra.Command{
	Use:   "study [deck]",
	Short: "Study a deck (or every deck with --all)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices(cmd)
		if err != nil {
			return err
		}
		defer svc.close()

		session := study.New(svc.store, svc.timing, slog.Default())

		all, _ := cmd.Flags().GetBool("all")
		review, _ := cmd.Flags().GetBool("review")

		switch {
		case all:
			decks, err := svc.store.ListDecks()
			if err != nil {
				return err
			}
			ptrs := make([]*card.Deck, len(decks))
			for i := range decks {
				ptrs[i] = &decks[i]
			}
			session.StartAll(ptrs)

		case len(args) == 1:
			d, err := svc.store.FindDeckByName(args[0])
			if err != nil {
				return err
			}
			mode := study.ModePlain
			if review {
				mode = study.ModeReview
			}
			session.Start(d, mode, nil)

		default:
			return fmt.Errorf("name a deck or pass --all")
		}

		return tui.RunStudy(session)
	},
}

func init() {
	studyCmd.Flags().Bool("review", false, "Study only cards due for review")
	studyCmd.Flags().Bool("all", false, "Study the union of cards across every deck")
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smohan/deckard/internal/card"
)

var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Manage study decks",
}

var deckCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new deck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices(cmd)
		if err != nil {
			return err
		}
		defer svc.close()

		emoji, _ := cmd.Flags().GetString("emoji")
		d := card.NewDeck(args[0], emoji)
		if err := svc.store.CreateDeck(d); err != nil {
			return err
		}
		fmt.Printf("Created deck %s %q\n", d.Emoji, d.Name)
		return nil
	},
}

var deckListCmd = &cobra.Command{
	Use:   "list",
	Short: "List decks with their study state",
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
		if len(decks) == 0 {
			fmt.Println("No decks yet. Create one with: deckard deck create <name>")
			return nil
		}
		for _, d := range decks {
			status := ""
			if d.IsMastered {
				status = "  ✔ mastered"
			}
			quiz := ""
			if d.LastQuizScore > 0 {
				quiz = fmt.Sprintf("  last quiz %.2f%%", d.LastQuizScore)
			}
			fmt.Printf("%s %s - %d card(s)%s%s\n", d.Emoji, d.Name, len(d.Cards), status, quiz)
		}
		return nil
	},
}

var deckDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a deck, its cards, stats and attachments",
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
		for _, c := range d.Cards {
			if err := svc.media.Purge(c.ID); err != nil {
				return err
			}
			svc.timing.Forget(c.ID)
		}
		if err := svc.store.DeleteDeck(d.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted deck %q\n", d.Name)
		return nil
	},
}

func init() {
	deckCreateCmd.Flags().String("emoji", "", "Deck emoji (defaults to 📚)")
	deckCmd.AddCommand(deckCreateCmd)
	deckCmd.AddCommand(deckListCmd)
	deckCmd.AddCommand(deckDeleteCmd)
}

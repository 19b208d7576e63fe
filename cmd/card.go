package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smohan/deckard/internal/card"
	"github.com/smohan/deckard/internal/media"
)

var cardCmd = &cobra.Command{
	Use:   "card",
	Short: "Manage flashcards",
}

var cardAddCmd = &cobra.Command{
	Use:   "add <deck>",
	Short: "Add a flashcard to a deck",
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

		front, _ := cmd.Flags().GetString("front")
		front2, _ := cmd.Flags().GetString("front2")
		back, _ := cmd.Flags().GetString("back")
		back2, _ := cmd.Flags().GetString("back2")
		if front == "" || back == "" {
			return fmt.Errorf("both --front and --back are required")
		}

		c := card.NewCard(d.ID, front, front2, back, back2)
		if err := svc.store.CreateCard(c); err != nil {
			return err
		}
		fmt.Printf("Added card %s to %q\n", c.ID, d.Name)
		return nil
	},
}

var cardListCmd = &cobra.Command{
	Use:   "list <deck>",
	Short: "List a deck's cards",
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
		for _, c := range d.CardsInOrder() {
			flag := ""
			if c.NeedsReview {
				flag = "  ⚠ review"
			}
			audio := ""
			if svc.media.Has(c.ID, card.SideFront, media.KindAudio) ||
				svc.media.Has(c.ID, card.SideBack, media.KindAudio) {
				audio = "  🔊"
			}
			fmt.Printf("%s  %s → %s  (streak %d)%s%s\n",
				c.ID[:8], c.FrontPrimary, c.BackPrimary, c.CorrectStreak, flag, audio)
		}
		return nil
	},
}

var cardDeleteCmd = &cobra.Command{
	Use:   "delete <card-id>",
	Short: "Delete a card, its timing stats and attachments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices(cmd)
		if err != nil {
			return err
		}
		defer svc.close()

		c, err := svc.store.GetCard(args[0])
		if err != nil {
			return err
		}
		if err := svc.media.Purge(c.ID); err != nil {
			return err
		}
		svc.timing.Forget(c.ID)
		if err := svc.store.DeleteTimingStat(c.ID); err != nil {
			return err
		}
		if err := svc.store.DeleteCard(c.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted card %s\n", c.ID)
		return nil
	},
}

var cardAttachCmd = &cobra.Command{
	Use:   "attach <card-id> <file>",
	Short: "Attach an audio or photo file to a card side",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices(cmd)
		if err != nil {
			return err
		}
		defer svc.close()

		c, err := svc.store.GetCard(args[0])
		if err != nil {
			return err
		}
		side, kind, err := attachmentFlags(cmd)
		if err != nil {
			return err
		}
		if err := svc.media.Import(args[1], c.ID, side, kind); err != nil {
			return err
		}
		fmt.Printf("Attached %s to %s side of card %s\n", kind, side, c.ID)
		return nil
	},
}

var cardDetachCmd = &cobra.Command{
	Use:   "detach <card-id>",
	Short: "Remove an attachment from a card side",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices(cmd)
		if err != nil {
			return err
		}
		defer svc.close()

		side, kind, err := attachmentFlags(cmd)
		if err != nil {
			return err
		}
		if err := svc.media.Delete(args[0], side, kind); err != nil {
			return err
		}
		fmt.Printf("Removed %s from %s side of card %s\n", kind, side, args[0])
		return nil
	},
}

func attachmentFlags(cmd *cobra.Command) (card.Side, media.Kind, error) {
	sideFlag, _ := cmd.Flags().GetString("side")
	kindFlag, _ := cmd.Flags().GetString("kind")

	var side card.Side
	switch sideFlag {
	case "front":
		side = card.SideFront
	case "back":
		side = card.SideBack
	default:
		return "", "", fmt.Errorf("--side must be front or back")
	}

	var kind media.Kind
	switch kindFlag {
	case "audio":
		kind = media.KindAudio
	case "photo":
		kind = media.KindPhoto
	default:
		return "", "", fmt.Errorf("--kind must be audio or photo")
	}
	return side, kind, nil
}

func init() {
	cardAddCmd.Flags().String("front", "", "Front text (required)")
	cardAddCmd.Flags().String("front2", "", "Front secondary text")
	cardAddCmd.Flags().String("back", "", "Back text (required)")
	cardAddCmd.Flags().String("back2", "", "Back secondary text")

	for _, c := range []*cobra.Command{cardAttachCmd, cardDetachCmd} {
		c.Flags().String("side", "front", "Card side: front or back")
		c.Flags().String("kind", "audio", "Attachment kind: audio or photo")
	}

	cardCmd.AddCommand(cardAddCmd)
	cardCmd.AddCommand(cardListCmd)
	cardCmd.AddCommand(cardDeleteCmd)
	cardCmd.AddCommand(cardAttachCmd)
	cardCmd.AddCommand(cardDetachCmd)
}

package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/smohan/deckard/internal/media"
	"github.com/smohan/deckard/internal/store"
	"github.com/smohan/deckard/internal/timing"
)

var rootCmd = &cobra.Command{
	Use:   "deckard",
	Short: "Personal flashcard study app",
	Long:  "Deckard - terminal flashcards with streak-based mastery, review scheduling and multiple-choice quizzes.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// .env is optional; absence is the normal case.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides DECKARD_DB env var)")

	rootCmd.AddCommand(deckCmd)
	rootCmd.AddCommand(cardCmd)
	rootCmd.AddCommand(studyCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
}

func setupLogging() {
	level := slog.LevelInfo
	if os.Getenv("DECKARD_LOG") == "debug" {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then DECKARD_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if p := os.Getenv("DECKARD_DB"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// services bundles the stores every command needs.
type services struct {
	store  *store.Store
	media  *media.Store
	timing *timing.Manager
}

func (s *services) close() {
	if err := s.store.Close(); err != nil {
		slog.Error("close store", "error", err)
	}
}

// openServices opens the database and media directory and reconciles
// dangling attachments against the known cards.
func openServices(cmd *cobra.Command) (*services, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}

	ms, err := media.NewStore(media.DefaultDir(dbPath), slog.Default())
	if err != nil {
		st.Close()
		return nil, err
	}

	decks, err := st.ListDecks()
	if err != nil {
		st.Close()
		return nil, err
	}
	known := media.KnownCardIDs{}
	for _, d := range decks {
		for _, c := range d.Cards {
			known[c.ID] = true
		}
	}
	if _, err := ms.Reconcile(known); err != nil {
		slog.Warn("media reconcile", "error", err)
	}

	tm := timing.NewManager(timing.SystemClock(), st, slog.Default())

	return &services{store: st, media: ms, timing: tm}, nil
}

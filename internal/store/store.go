// Package store persists decks, cards and timing stats in a local
// SQLite database.
package store

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/smohan/deckard/internal/card"
	"github.com/smohan/deckard/internal/timing"
)

// Store wraps the gorm handle. It satisfies study.Recorder,
// quiz.Recorder and timing.StatStore.
type Store struct {
	db *gorm.DB
}

// Open connects to the SQLite database at path, creating the parent
// directory and migrating the schema as needed.
func Open(path string) (*Store, error) {
	if err := EnsureDir(path); err != nil {
		return nil, err
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	if err := db.AutoMigrate(&card.Deck{}, &card.Card{}, &timing.Stat{}); err != nil {
		return nil, errors.Wrap(err, "auto-migrate")
	}

	return &Store{db: db}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.Wrap(err, "underlying db")
	}
	return sqlDB.Close()
}

// DefaultDBPath returns the XDG data-dir database path, creating the
// directory if needed.
func DefaultDBPath() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "resolve home directory")
		}
		base = filepath.Join(home, ".local", "share")
	}
	path := filepath.Join(base, "deckard", "deckard.db")
	return path, EnsureDir(path)
}

// EnsureDir creates the parent directory of path.
func EnsureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create data directory")
	}
	return nil
}

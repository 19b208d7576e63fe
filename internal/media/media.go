// Package media stores card attachments on the filesystem, keyed by
// card id, side and kind. It only moves and checks files; it never
// inspects media bytes.
package media

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/smohan/deckard/internal/card"
)

// Kind is the attachment type.
type Kind string

const (
	KindAudio Kind = "audio"
	KindPhoto Kind = "photo"
)

func (k Kind) ext() string {
	if k == KindPhoto {
		return ".jpg"
	}
	return ".m4a"
}

// Store keeps attachments in a flat directory as <cardID>_<side>.<ext>.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore opens (creating if needed) the attachment directory.
func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create media directory")
	}
	return &Store{dir: dir, logger: logger}, nil
}

// DefaultDir returns the attachment directory next to the database.
func DefaultDir(dbPath string) string {
	return filepath.Join(filepath.Dir(dbPath), "media")
}

func (s *Store) fileName(cardID string, side card.Side, kind Kind) string {
	return fmt.Sprintf("%s_%s%s", cardID, side, kind.ext())
}

// Path returns the attachment's path, or "" when absent.
func (s *Store) Path(cardID string, side card.Side, kind Kind) string {
	p := filepath.Join(s.dir, s.fileName(cardID, side, kind))
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}

// Has reports whether the attachment exists. Presence is all callers
// need to decide whether to show a play/view affordance.
func (s *Store) Has(cardID string, side card.Side, kind Kind) bool {
	return s.Path(cardID, side, kind) != ""
}

// Import copies src into the store, replacing any prior attachment for
// the same card, side and kind.
func (s *Store) Import(src string, cardID string, side card.Side, kind Kind) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrap(err, "open source")
	}
	defer in.Close()

	dst := filepath.Join(s.dir, s.fileName(cardID, side, kind))
	out, err := os.Create(dst)
	if err != nil {
		return errors.Wrap(err, "create attachment")
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		os.Remove(dst)
		return errors.Wrap(err, "copy attachment")
	}
	return nil
}

// Delete removes one attachment. Missing files are not an error.
func (s *Store) Delete(cardID string, side card.Side, kind Kind) error {
	p := filepath.Join(s.dir, s.fileName(cardID, side, kind))
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "delete attachment")
	}
	return nil
}

// Purge removes every attachment belonging to cardID, both sides and
// kinds. Called when the card is deleted.
func (s *Store) Purge(cardID string) error {
	for _, side := range []card.Side{card.SideFront, card.SideBack} {
		for _, kind := range []Kind{KindAudio, KindPhoto} {
			if err := s.Delete(cardID, side, kind); err != nil {
				return err
			}
		}
	}
	return nil
}

// KnownCardIDs is the set of card ids attachments may belong to; see
// Reconcile.
type KnownCardIDs map[string]bool

// Reconcile drops attachments whose card no longer exists and ignores
// files that don't follow the naming scheme. Returns the number of
// files removed.
func (s *Store) Reconcile(known KnownCardIDs) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, errors.Wrap(err, "read media directory")
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		base := strings.TrimSuffix(name, filepath.Ext(name))
		idx := strings.LastIndex(base, "_")
		if idx <= 0 {
			continue
		}
		cardID := base[:idx]
		if known[cardID] {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
			s.logger.Error("remove dangling attachment", "file", name, "error", err)
			continue
		}
		removed++
	}
	if removed > 0 {
		s.logger.Info("reconciled media directory", "removed", removed)
	}
	return removed, nil
}

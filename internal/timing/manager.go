// Package timing tracks per-card answer latency and promotes slow cards
// into the review rotation.
package timing

import (
	"log/slog"
	"sync"
	"time"
)

// SlowAnswerThreshold is the average answer time, in seconds, above which
// a card should appear more frequently. Strictly greater-than: an average
// of exactly 5.0 does not promote.
const SlowAnswerThreshold = 5.0

// Clock abstracts time reads so tests can drive elapsed durations.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

// Stat is the persisted running average for one card.
// The sample count never decreases; there is no decay or windowing,
// so the average adapts slowly by construction.
type Stat struct {
	CardID         string  `gorm:"primaryKey;size:36"`
	AverageSeconds float64 `gorm:"default:0"`
	SampleCount    int     `gorm:"default:0"`
}

// StatStore persists timing stats. Satisfied by store.Store.
type StatStore interface {
	SaveTimingStat(*Stat) error
	AllTimingStats() ([]Stat, error)
}

// Manager records reveal-to-answer durations and maintains per-card
// running averages. Safe for use from a single session at a time; the
// mutex protects the per-card maps, not cross-session ordering.
type Manager struct {
	mu     sync.Mutex
	clock  Clock
	starts map[string]time.Time
	stats  map[string]*Stat
	store  StatStore
	logger *slog.Logger
}

// NewManager creates a manager. store may be nil for an in-memory-only
// manager (tests); existing stats are loaded eagerly when it is not.
func NewManager(clock Clock, store StatStore, logger *slog.Logger) *Manager {
	if clock == nil {
		clock = SystemClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		clock:  clock,
		starts: make(map[string]time.Time),
		stats:  make(map[string]*Stat),
		store:  store,
		logger: logger,
	}
	if store != nil {
		stats, err := store.AllTimingStats()
		if err != nil {
			logger.Error("load timing stats", "error", err)
			return m
		}
		for i := range stats {
			s := stats[i]
			m.stats[s.CardID] = &s
		}
	}
	return m
}

// StartTimer records the current time for cardID, overwriting any prior
// unstopped timer for the same card.
func (m *Manager) StartTimer(cardID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.starts[cardID] = m.clock.Now()
}

// EndTimer stops the timer for cardID and folds the elapsed seconds into
// the card's running average. Returns the elapsed seconds, or 0 without
// any update when no timer was started.
func (m *Manager) EndTimer(cardID string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	start, ok := m.starts[cardID]
	if !ok {
		return 0
	}
	delete(m.starts, cardID)

	elapsed := m.clock.Now().Sub(start).Seconds()

	s := m.stats[cardID]
	if s == nil {
		s = &Stat{CardID: cardID}
		m.stats[cardID] = s
	}
	s.AverageSeconds = (s.AverageSeconds*float64(s.SampleCount) + elapsed) / float64(s.SampleCount+1)
	s.SampleCount++

	if m.store != nil {
		if err := m.store.SaveTimingStat(s); err != nil {
			// In-memory state stands; the next successful save reconciles.
			m.logger.Error("save timing stat", "card", cardID, "error", err)
		}
	}
	return elapsed
}

// AverageFor returns the running average answer time in seconds, or 0 if
// the card has never been timed.
func (m *Manager) AverageFor(cardID string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s := m.stats[cardID]; s != nil {
		return s.AverageSeconds
	}
	return 0
}

// SampleCountFor returns how many timed answers the card has accumulated.
func (m *Manager) SampleCountFor(cardID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s := m.stats[cardID]; s != nil {
		return s.SampleCount
	}
	return 0
}

// ShouldAppearMoreFrequently reports whether the card's average answer
// time exceeds SlowAnswerThreshold.
func (m *Manager) ShouldAppearMoreFrequently(cardID string) bool {
	return m.AverageFor(cardID) > SlowAnswerThreshold
}

// Forget drops the in-memory stat and any pending timer for cardID.
// Called when a card is deleted; the store row is removed by the caller.
func (m *Manager) Forget(cardID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.starts, cardID)
	delete(m.stats, cardID)
}

// Stats returns a copy of all tracked stats, for display.
func (m *Manager) Stats() []Stat {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Stat, 0, len(m.stats))
	for _, s := range m.stats {
		out = append(out, *s)
	}
	return out
}

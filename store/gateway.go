package store

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/ayoisaiah/toolbox/internal/models"
)

// Kind identifies one of the persisted records.
type Kind string

// The keys must stay stable across releases of the same installation.
const (
	KindTimerState  Kind = "pomodoro_timer_state"
	KindPreferences Kind = "pomodoro_preferences"
	KindHistory     Kind = "pomodoro_session_history"
	KindStats       Kind = "pomodoro_stats"
)

// Kinds lists every record the Gateway knows about.
var Kinds = []Kind{KindTimerState, KindPreferences, KindHistory, KindStats}

// MaxHistoryEntries is the number of history entries kept. Older entries are
// evicted first.
const MaxHistoryEntries = 1000

const probeKey = "__storage_test__"

// Gateway reads and writes records as JSON. Persistence is best effort:
// failures are logged and loads fall back to the supplied default. A Gateway
// without a DB behaves as if storage were disabled.
type Gateway struct {
	db DB
}

// NewGateway returns a Gateway over db. db may be nil.
func NewGateway(db DB) *Gateway {
	return &Gateway{db: db}
}

func (g *Gateway) absent() bool {
	return g == nil || g.db == nil
}

// Save serializes v and writes it under the key of kind.
func Save[T any](g *Gateway, kind Kind, v T) {
	if g.absent() {
		slog.Debug("storage unavailable, dropping write", slog.String("key", string(kind)))
		return
	}

	b, err := json.Marshal(v)
	if err != nil {
		slog.Error(
			"encoding record failed",
			slog.String("key", string(kind)),
			slog.Any("error", err),
		)

		return
	}

	if err := g.db.Put(string(kind), b); err != nil {
		slog.Error(
			"saving record failed",
			slog.String("key", string(kind)),
			slog.Any("error", err),
		)
	}
}

// Load returns the record stored for kind. def is returned when the record
// is missing, cannot be parsed or storage is unavailable. Fields absent from
// the stored JSON keep their value from def.
func Load[T any](g *Gateway, kind Kind, def T) T {
	if g.absent() {
		return def
	}

	b, err := g.db.Get(string(kind))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			slog.Error(
				"loading record failed",
				slog.String("key", string(kind)),
				slog.Any("error", err),
			)
		}

		return def
	}

	v := def

	if err := json.Unmarshal(b, &v); err != nil {
		slog.Warn(
			"discarding corrupt record",
			slog.String("key", string(kind)),
			slog.Any("error", err),
		)

		return def
	}

	return v
}

func (g *Gateway) SaveTimerState(s models.Snapshot) {
	Save(g, KindTimerState, s)
}

func (g *Gateway) LoadTimerState(def models.Snapshot) models.Snapshot {
	return Load(g, KindTimerState, def)
}

func (g *Gateway) SavePreferences(p models.Preferences) {
	Save(g, KindPreferences, p)
}

// LoadPreferences returns the stored preferences layered over the defaults.
func (g *Gateway) LoadPreferences() models.Preferences {
	return Load(g, KindPreferences, models.DefaultPreferences())
}

func (g *Gateway) SaveHistory(h []models.HistoryEntry) {
	Save(g, KindHistory, h)
}

func (g *Gateway) LoadHistory() []models.HistoryEntry {
	return Load[[]models.HistoryEntry](g, KindHistory, nil)
}

// AppendHistory adds entry to the stored history, keeping at most
// MaxHistoryEntries.
func (g *Gateway) AppendHistory(entry models.HistoryEntry) {
	history := append(g.LoadHistory(), entry)

	if len(history) > MaxHistoryEntries {
		history = history[len(history)-MaxHistoryEntries:]
	}

	g.SaveHistory(history)
}

func (g *Gateway) SaveStats(s models.Statistics) {
	Save(g, KindStats, s)
}

func (g *Gateway) LoadStats() models.Statistics {
	return Load(g, KindStats, models.Statistics{})
}

// Clear removes a single record.
func (g *Gateway) Clear(kind Kind) {
	if g.absent() {
		return
	}

	if err := g.db.Delete(string(kind)); err != nil {
		slog.Error(
			"clearing record failed",
			slog.String("key", string(kind)),
			slog.Any("error", err),
		)
	}
}

// ClearAll removes every known record.
func (g *Gateway) ClearAll() {
	for _, k := range Kinds {
		g.Clear(k)
	}
}

// IsAvailable reports whether a throwaway write and delete succeed.
func (g *Gateway) IsAvailable() bool {
	if g.absent() {
		return false
	}

	if err := g.db.Put(probeKey, []byte("test")); err != nil {
		slog.Debug("storage probe failed", slog.Any("error", err))
		return false
	}

	if err := g.db.Delete(probeKey); err != nil {
		slog.Debug("storage probe failed", slog.Any("error", err))
		return false
	}

	return true
}

// Size returns the number of bytes taken up by the stored records.
func (g *Gateway) Size() int {
	if g.absent() {
		return 0
	}

	var total int

	for _, k := range Kinds {
		b, err := g.db.Get(string(k))
		if err != nil {
			continue
		}

		total += len(k) + len(b)
	}

	return total
}

// Close releases the underlying database.
func (g *Gateway) Close() error {
	if g.absent() {
		return nil
	}

	return g.db.Close()
}

// Package repository wraps the key-value store with entity-specific
// defaulting and coercion. Corrupt or absent stored values never surface
// as errors; each Load substitutes documented defaults instead.
package repository

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"focusloop/internal/session"
	"focusloop/internal/storage"
)

// Persisted-state keys, one logical value each.
const (
	KeyCompleted    = "focusloop.completed"
	KeyFocusMinutes = "focusloop.focusMinutes"
	KeyTasks        = "focusloop.tasks"
	KeySettings     = "focusloop.settings"
	KeyHistory      = "focusloop.sessionHistory"
)

// Stats persists the two lifetime counters as separate numeric keys.
type Stats struct {
	store storage.Store
}

func NewStats(store storage.Store) *Stats {
	return &Stats{store: store}
}

func (r *Stats) Load() session.Stats {
	return session.Stats{
		Completed:    r.store.LoadNumber(KeyCompleted, 0),
		FocusMinutes: r.store.LoadNumber(KeyFocusMinutes, 0),
	}
}

func (r *Stats) Save(stats session.Stats) {
	_ = r.store.SaveNumber(KeyCompleted, stats.Completed)
	_ = r.store.SaveNumber(KeyFocusMinutes, stats.FocusMinutes)
}

// Settings falls back per-field to the defaults, so one corrupt field
// does not reset the others.
type Settings struct {
	store storage.Store
}

func NewSettings(store storage.Store) *Settings {
	return &Settings{store: store}
}

func (r *Settings) Load() session.Settings {
	defaults := session.DefaultSettings()

	var raw struct {
		Focus             json.RawMessage `json:"focus"`
		ShortBreak        json.RawMessage `json:"shortBreak"`
		LongBreak         json.RawMessage `json:"longBreak"`
		LongBreakInterval json.RawMessage `json:"longBreakInterval"`
	}
	if !r.store.LoadJSON(KeySettings, &raw) {
		return defaults
	}

	return session.Settings{
		Focus:             coerceMinutes(raw.Focus, defaults.Focus),
		ShortBreak:        coerceMinutes(raw.ShortBreak, defaults.ShortBreak),
		LongBreak:         coerceMinutes(raw.LongBreak, defaults.LongBreak),
		LongBreakInterval: coerceMinutes(raw.LongBreakInterval, defaults.LongBreakInterval),
	}
}

func (r *Settings) Save(settings session.Settings) {
	_ = r.store.SaveJSON(KeySettings, settings)
}

// Tasks stores the ordered task list under a single key.
type Tasks struct {
	store storage.Store
}

func NewTasks(store storage.Store) *Tasks {
	return &Tasks{store: store}
}

func (r *Tasks) Load() []session.Task {
	var tasks []session.Task
	if !r.store.LoadJSON(KeyTasks, &tasks) || tasks == nil {
		return []session.Task{}
	}
	return tasks
}

func (r *Tasks) Save(tasks []session.Task) {
	_ = r.store.SaveJSON(KeyTasks, tasks)
}

// History drops entries without a usable timestamp, regenerates missing
// ids, and coerces non-numeric focus minutes to zero so one bad entry
// never poisons the log.
type History struct {
	store storage.Store
}

func NewHistory(store storage.Store) *History {
	return &History{store: store}
}

func (r *History) Load() []session.HistoryEntry {
	var raw []struct {
		ID           string          `json:"id"`
		CompletedAt  string          `json:"completedAt"`
		FocusMinutes json.RawMessage `json:"focusMinutes"`
	}
	if !r.store.LoadJSON(KeyHistory, &raw) {
		return []session.HistoryEntry{}
	}

	entries := make([]session.HistoryEntry, 0, len(raw))
	for _, e := range raw {
		if strings.TrimSpace(e.CompletedAt) == "" {
			continue
		}
		id := e.ID
		if id == "" {
			id = uuid.NewString()
		}
		entries = append(entries, session.HistoryEntry{
			ID:           id,
			CompletedAt:  e.CompletedAt,
			FocusMinutes: coerceMinutes(e.FocusMinutes, 0),
		})
	}
	return entries
}

func (r *History) Save(history []session.HistoryEntry) {
	_ = r.store.SaveJSON(KeyHistory, history)
}

// coerceMinutes accepts a JSON number or a numeric string; anything else
// falls back. Mirrors the lenient reads legacy stored state may need.
func coerceMinutes(raw json.RawMessage, fallback int) int {
	if len(raw) == 0 {
		return fallback
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return int(f)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return v
		}
	}
	return fallback
}

package app

import (
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"focusloop/internal/analytics"
	"focusloop/internal/clock"
	"focusloop/internal/notify"
	"focusloop/internal/repository"
	"focusloop/internal/session"
	"focusloop/internal/timer"
)

// TimerState is the timer sub-state carried in every snapshot.
type TimerState struct {
	Remaining int  `json:"remaining"`
	Total     int  `json:"total"`
	Running   bool `json:"running"`
}

// SettingsStatus reports the outcome of the last settings update so the
// presentation layer can surface feedback.
type SettingsStatus struct {
	Kind    string `json:"kind"` // "success" or "error"
	Message string `json:"message"`
}

// State is the complete immutable view emitted after every mutation. It
// is the sole contract between the core and the presentation layer.
type State struct {
	Mode           session.Mode        `json:"mode"`
	Settings       session.Settings    `json:"settings"`
	Stats          session.Stats       `json:"stats"`
	Tasks          []session.Task      `json:"tasks"`
	Timer          TimerState          `json:"timer"`
	Analytics      analytics.Analytics `json:"analytics"`
	SettingsStatus *SettingsStatus     `json:"settingsStatus,omitempty"`
}

// SettingsCandidate carries raw user input for a settings update. Fields
// are strings so coercion and rejection of non-numeric input stay inside
// the core.
type SettingsCandidate struct {
	Focus             string `json:"focus"`
	ShortBreak        string `json:"shortBreak"`
	LongBreak         string `json:"longBreak"`
	LongBreakInterval string `json:"longBreakInterval"`
}

// ValidationResult is the structured outcome of a settings update. On
// failure, Field names the first invalid field in validation order.
type ValidationResult struct {
	OK      bool   `json:"ok"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Repos bundles the per-entity repositories injected into the controller.
type Repos struct {
	Stats    *repository.Stats
	Settings *repository.Settings
	Tasks    *repository.Tasks
	History  *repository.History
}

// Controller owns all application state and mediates between the timer
// and the persistence/notification collaborators. Every public operation
// runs as one logical turn: validate, mutate, persist, recompute
// analytics, emit.
type Controller struct {
	mu      sync.Mutex
	mode    session.Mode
	stats   session.Stats
	tasks   []session.Task
	setting session.Settings
	history []session.HistoryEntry

	timer   *timer.Timer
	repos   Repos
	notify  notify.Notifier
	clk     clock.Clock
	onState func(State)
}

// NewController loads all entities once and wires the timer to the
// completion and tick handlers. onState receives a snapshot after every
// mutation and must not call back into the controller synchronously.
func NewController(repos Repos, notifier notify.Notifier, clk clock.Clock, onState func(State)) *Controller {
	c := &Controller{
		mode:    session.ModeFocus,
		stats:   repos.Stats.Load(),
		tasks:   repos.Tasks.Load(),
		setting: repos.Settings.Load(),
		history: repos.History.Load(),
		repos:   repos,
		notify:  notifier,
		clk:     clk,
		onState: onState,
	}
	c.timer = timer.New(clk, c.handleTick, c.handleComplete)
	c.timer.SetDuration(c.setting.ModeMinutes(c.mode) * 60)
	return c
}

// Initialize requests notification permission (fire-and-forget) and
// emits the initial snapshot.
func (c *Controller) Initialize() {
	go c.notify.Init()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.emitLocked(nil)
}

// Dispose releases the timer's scheduling resource. Safe to call more
// than once.
func (c *Controller) Dispose() {
	c.timer.Dispose()
}

// SetMode switches the active mode and resizes the countdown to that
// mode's configured duration.
func (c *Controller) SetMode(mode session.Mode) {
	if !mode.Valid() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setModeLocked(mode)
	c.emitLocked(nil)
}

// ToggleTimer pauses a running countdown or starts a paused one.
func (c *Controller) ToggleTimer() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer.Running() {
		c.timer.Pause()
	} else {
		c.timer.Start()
	}
	c.emitLocked(nil)
}

// ResetTimer restores the countdown to its full duration. Emission
// happens through the tick callback the reset triggers.
func (c *Controller) ResetTimer() {
	c.timer.Reset()
}

// AddTask prepends a new task. Blank input is ignored.
func (c *Controller) AddTask(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks = append([]session.Task{{ID: uuid.NewString(), Text: text, Done: false}}, c.tasks...)
	c.repos.Tasks.Save(c.tasks)
	c.emitLocked(nil)
}

// ToggleTask flips a task's done flag. Unknown ids are silent no-ops so
// the UI can tolerate stale references.
func (c *Controller) ToggleTask(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			c.tasks[i].Done = !c.tasks[i].Done
			break
		}
	}
	c.repos.Tasks.Save(c.tasks)
	c.emitLocked(nil)
}

// DeleteTask removes a task by id. Unknown ids are silent no-ops.
func (c *Controller) DeleteTask(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.tasks[:0]
	for _, t := range c.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	c.tasks = kept
	c.repos.Tasks.Save(c.tasks)
	c.emitLocked(nil)
}

// UpdateSettings validates the candidate and, on success, replaces the
// settings and reapplies the current mode's duration so an in-progress
// countdown is resized immediately. An invalid candidate leaves prior
// settings untouched.
func (c *Controller) UpdateSettings(candidate SettingsCandidate) ValidationResult {
	next, result := validateSettings(candidate)
	c.mu.Lock()
	defer c.mu.Unlock()
	if !result.OK {
		c.emitLocked(&SettingsStatus{Kind: "error", Message: result.Message})
		return result
	}
	c.applySettingsLocked(next, "Settings saved.")
	return result
}

// ResetSettingsToDefaults restores the fixed default settings.
func (c *Controller) ResetSettingsToDefaults() ValidationResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applySettingsLocked(session.DefaultSettings(), "Default settings restored.")
	return ValidationResult{OK: true, Message: "Default settings restored."}
}

func (c *Controller) applySettingsLocked(next session.Settings, message string) {
	c.setting = next
	c.repos.Settings.Save(c.setting)
	c.setModeLocked(c.mode)
	c.emitLocked(&SettingsStatus{Kind: "success", Message: message})
}

func (c *Controller) setModeLocked(mode session.Mode) {
	c.mode = mode
	c.timer.SetDuration(c.setting.ModeMinutes(mode) * 60)
}

// handleTick runs on the timer goroutine whenever the displayed
// remaining value changes, and synchronously from ResetTimer.
func (c *Controller) handleTick(remaining, total int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.emitLocked(nil)
}

// handleComplete runs on the timer goroutine exactly once per finished
// countdown.
func (c *Controller) handleComplete() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode != session.ModeFocus {
		c.notify.Notify("Break over. Back to focus.")
		c.setModeLocked(session.ModeFocus)
		c.emitLocked(nil)
		return
	}

	c.stats.Completed++
	c.stats.FocusMinutes += c.setting.Focus
	c.repos.Stats.Save(c.stats)

	entry := session.HistoryEntry{
		ID:           uuid.NewString(),
		CompletedAt:  session.FormatCompletedAt(c.clk.Now()),
		FocusMinutes: c.setting.Focus,
	}
	c.history = append([]session.HistoryEntry{entry}, c.history...)
	if len(c.history) > session.HistoryCap {
		c.history = c.history[:session.HistoryCap]
	}
	c.repos.History.Save(c.history)

	c.notify.Notify("Focus done. Break time.")

	next := session.ModeShortBreak
	if c.stats.Completed%c.setting.LongBreakInterval == 0 {
		next = session.ModeLongBreak
	}
	c.setModeLocked(next)
	c.emitLocked(nil)
}

func (c *Controller) emitLocked(status *SettingsStatus) {
	if c.onState == nil {
		return
	}
	remaining, total, running := c.timer.Snapshot()

	tasks := make([]session.Task, len(c.tasks))
	copy(tasks, c.tasks)

	c.onState(State{
		Mode:           c.mode,
		Settings:       c.setting,
		Stats:          c.stats,
		Tasks:          tasks,
		Timer:          TimerState{Remaining: remaining, Total: total, Running: running},
		Analytics:      analytics.Build(c.history, c.clk.Now()),
		SettingsStatus: status,
	})
}

type settingsBound struct {
	field   string
	value   string
	min     int
	max     int
	message string
}

// validateSettings coerces each field and checks them in fixed order,
// short-circuiting on the first invalid one. All bounds are inclusive.
func validateSettings(candidate SettingsCandidate) (session.Settings, ValidationResult) {
	bounds := []settingsBound{
		{"focus", candidate.Focus, 10, 90, "Focus must be between 10 and 90 minutes."},
		{"shortBreak", candidate.ShortBreak, 1, 30, "Short break must be between 1 and 30 minutes."},
		{"longBreak", candidate.LongBreak, 5, 60, "Long break must be between 5 and 60 minutes."},
		{"longBreakInterval", candidate.LongBreakInterval, 2, 8, "Long break interval must be between 2 and 8 focus sessions."},
	}

	values := make([]int, len(bounds))
	for i, b := range bounds {
		v, err := strconv.ParseFloat(strings.TrimSpace(b.value), 64)
		if err != nil || v < float64(b.min) || v > float64(b.max) {
			return session.Settings{}, ValidationResult{OK: false, Field: b.field, Message: b.message}
		}
		values[i] = int(v)
	}

	return session.Settings{
		Focus:             values[0],
		ShortBreak:        values[1],
		LongBreak:         values[2],
		LongBreakInterval: values[3],
	}, ValidationResult{OK: true, Message: "Settings saved."}
}

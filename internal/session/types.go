package session

// Mode identifies which countdown is active.
type Mode string

const (
	ModeFocus      Mode = "focus"
	ModeShortBreak Mode = "shortBreak"
	ModeLongBreak  Mode = "longBreak"
)

// Valid reports whether m is one of the three known modes.
func (m Mode) Valid() bool {
	return m == ModeFocus || m == ModeShortBreak || m == ModeLongBreak
}

// Settings holds the configurable durations, all in minutes except
// LongBreakInterval which counts focus sessions between long breaks.
type Settings struct {
	Focus             int `json:"focus"`
	ShortBreak        int `json:"shortBreak"`
	LongBreak         int `json:"longBreak"`
	LongBreakInterval int `json:"longBreakInterval"`
}

// DefaultSettings returns the fixed out-of-the-box settings.
func DefaultSettings() Settings {
	return Settings{Focus: 25, ShortBreak: 5, LongBreak: 15, LongBreakInterval: 4}
}

// ModeMinutes returns the duration in minutes for the given mode.
func (s Settings) ModeMinutes(m Mode) int {
	switch m {
	case ModeShortBreak:
		return s.ShortBreak
	case ModeLongBreak:
		return s.LongBreak
	default:
		return s.Focus
	}
}

// Stats is the lifetime aggregate, mutated only on focus-session completion.
type Stats struct {
	Completed    int `json:"completed"`
	FocusMinutes int `json:"focusMinutes"`
}

// Task is a simple checklist item, independent of the timer.
type Task struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// HistoryEntry records one completed focus session. CompletedAt is an
// RFC3339 timestamp kept as a string so a single corrupt entry can be
// dropped at load time without losing the rest of the log.
type HistoryEntry struct {
	ID           string `json:"id"`
	CompletedAt  string `json:"completedAt"`
	FocusMinutes int    `json:"focusMinutes"`
}

// HistoryCap bounds the session-history log; oldest entries are evicted
// once the cap is exceeded.
const HistoryCap = 365

// Package gamification derives XP, levels, achievements, and daily
// quests from the emitted application state. All values are recomputed
// from the snapshot on every call; nothing here holds state of its own.
package gamification

import "focusloop/internal/app"

const (
	XPPerSession     = 100
	XPPerFocusMinute = 2
	xpPerLevel       = 500
)

// Progress describes the level curve position for a given state.
type Progress struct {
	XP            int     `json:"xp"`
	Level         int     `json:"level"`
	XPToNextLevel int     `json:"xpToNextLevel"`
	LevelProgress float64 `json:"levelProgress"` // percent into the current level
}

// BuildProgress computes total XP and the level it lands on. Levels are
// 500 XP wide starting at level 1.
func BuildProgress(state app.State) Progress {
	xp := state.Stats.Completed*XPPerSession + state.Stats.FocusMinutes*XPPerFocusMinute
	level := xp/xpPerLevel + 1
	xpIntoLevel := xp - (level-1)*xpPerLevel

	return Progress{
		XP:            xp,
		Level:         level,
		XPToNextLevel: xpPerLevel - xpIntoLevel,
		LevelProgress: clampPercent(float64(xpIntoLevel) / xpPerLevel * 100),
	}
}

// Achievement is a lifetime milestone with progress toward a fixed target.
type Achievement struct {
	ID       string  `json:"id"`
	Icon     string  `json:"icon"`
	Title    string  `json:"title"`
	Target   int     `json:"target"`
	Unit     string  `json:"unit"`
	Value    int     `json:"value"`
	Progress float64 `json:"progress"` // percent, capped at 100
	Unlocked bool    `json:"unlocked"`
}

type achievementDef struct {
	id     string
	icon   string
	title  string
	target int
	unit   string
	value  func(app.State) int
}

var achievementDefs = []achievementDef{
	{"ach-first-session", "🥉", "First Win", 1, "session",
		func(s app.State) int { return s.Stats.Completed }},
	{"ach-focus-1000", "🥈", "1,000 Focus Minutes", 1000, "minutes",
		func(s app.State) int { return s.Stats.FocusMinutes }},
	{"ach-streak-7", "🥇", "7-Day Streak", 7, "days",
		func(s app.State) int { return s.Analytics.Streak.Current }},
}

// BuildAchievements evaluates every achievement against the state.
func BuildAchievements(state app.State) []Achievement {
	out := make([]Achievement, 0, len(achievementDefs))
	for _, def := range achievementDefs {
		value := def.value(state)
		out = append(out, Achievement{
			ID:       def.id,
			Icon:     def.icon,
			Title:    def.title,
			Target:   def.target,
			Unit:     def.unit,
			Value:    value,
			Progress: clampPercent(float64(value) / float64(def.target) * 100),
			Unlocked: value >= def.target,
		})
	}
	return out
}

// Quest is a daily challenge that resets implicitly because its progress
// reads from today's analytics rather than stored counters.
type Quest struct {
	ID          string  `json:"id"`
	Icon        string  `json:"icon"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Target      int     `json:"target"`
	Value       int     `json:"value"`
	Progress    float64 `json:"progress"` // percent, capped at 100
	Complete    bool    `json:"complete"`
}

type questDef struct {
	id          string
	icon        string
	title       string
	description string
	target      int
	value       func(app.State) int
}

var questDefs = []questDef{
	{"quest-focus-minutes", "⚡", "Focus Momentum",
		"Accumulate 120 focused minutes today.", 120,
		func(s app.State) int { return s.Analytics.Today.FocusMinutes }},
	{"quest-sessions", "🍅", "Pomodoro Finisher",
		"Complete 4 sessions in a day.", 4,
		func(s app.State) int { return s.Analytics.Today.Sessions }},
	{"quest-task-clear", "✅", "Task Clarity",
		"Close out 3 tasks from your queue.", 3,
		func(s app.State) int {
			done := 0
			for _, t := range s.Tasks {
				if t.Done {
					done++
				}
			}
			return done
		}},
}

// BuildQuests evaluates today's quests against the state.
func BuildQuests(state app.State) []Quest {
	out := make([]Quest, 0, len(questDefs))
	for _, def := range questDefs {
		value := def.value(state)
		out = append(out, Quest{
			ID:          def.id,
			Icon:        def.icon,
			Title:       def.title,
			Description: def.description,
			Target:      def.target,
			Value:       value,
			Progress:    clampPercent(float64(value) / float64(def.target) * 100),
			Complete:    value >= def.target,
		})
	}
	return out
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Package planner contains the session-planning heuristics: given a
// settings bundle and an available planning window it estimates sessions,
// focus output and XP, lays out a block timeline, and scores the preset
// catalog against the window or a user profile. Everything is a pure
// function over its inputs.
package planner

import (
	"fmt"
	"math"
	"sort"

	"focusloop/internal/gamification"
	"focusloop/internal/session"
)

// Planning-window bounds: 1 to 6 hours in 15-minute steps.
const (
	PlanningMinutesMin  = 60
	PlanningMinutesMax  = 360
	PlanningMinutesStep = 15
)

// NormalizePlanningMinutes snaps a requested window to the nearest step
// and clamps it to the supported range.
func NormalizePlanningMinutes(minutes int) int {
	stepped := int(math.Round(float64(minutes)/PlanningMinutesStep)) * PlanningMinutesStep
	if stepped < PlanningMinutesMin {
		return PlanningMinutesMin
	}
	if stepped > PlanningMinutesMax {
		return PlanningMinutesMax
	}
	return stepped
}

// Summary estimates what a planning window yields under the given
// settings.
type Summary struct {
	EstimatedSessions     int `json:"estimatedSessions"`
	EstimatedFocusMinutes int `json:"estimatedFocusMinutes"`
	EstimatedXP           int `json:"estimatedXp"`
	EstimatedWeeklyXP     int `json:"estimatedWeeklyXp"`
	CycleMinutes          int `json:"cycleMinutes"`
}

func BuildSummary(settings session.Settings, planningMinutes int) Summary {
	cycle := settings.Focus + settings.ShortBreak
	sessions := planningMinutes / cycle
	if sessions < 1 {
		sessions = 1
	}
	focusMinutes := sessions * settings.Focus
	xp := sessions*gamification.XPPerSession + focusMinutes*gamification.XPPerFocusMinute

	return Summary{
		EstimatedSessions:     sessions,
		EstimatedFocusMinutes: focusMinutes,
		EstimatedXP:           xp,
		EstimatedWeeklyXP:     xp * 5,
		CycleMinutes:          cycle,
	}
}

// TimelineBlock is one focus or break block in a planned session layout.
type TimelineBlock struct {
	ID             string       `json:"id"`
	Kind           session.Mode `json:"kind"`
	Minutes        int          `json:"minutes"`
	StartsAtMinute int          `json:"startsAtMinute"`
	EndsAtMinute   int          `json:"endsAtMinute"`
}

// BuildTimeline lays out alternating focus and break blocks until the
// window can no longer fit a whole block, honoring the long-break
// interval.
func BuildTimeline(settings session.Settings, planningMinutes int) []TimelineBlock {
	var blocks []TimelineBlock
	elapsed := 0
	completedFocus := 0

	for elapsed < planningMinutes {
		focusEnd := elapsed + settings.Focus
		if focusEnd > planningMinutes {
			break
		}

		completedFocus++
		blocks = append(blocks, TimelineBlock{
			ID:             fmt.Sprintf("focus-%d", completedFocus),
			Kind:           session.ModeFocus,
			Minutes:        settings.Focus,
			StartsAtMinute: elapsed,
			EndsAtMinute:   focusEnd,
		})
		elapsed = focusEnd

		if elapsed >= planningMinutes {
			break
		}

		kind := session.ModeShortBreak
		breakMinutes := settings.ShortBreak
		if completedFocus%settings.LongBreakInterval == 0 {
			kind = session.ModeLongBreak
			breakMinutes = settings.LongBreak
		}
		breakEnd := elapsed + breakMinutes
		if breakEnd > planningMinutes {
			break
		}

		blocks = append(blocks, TimelineBlock{
			ID:             fmt.Sprintf("%s-%d", kind, completedFocus),
			Kind:           kind,
			Minutes:        breakMinutes,
			StartsAtMinute: elapsed,
			EndsAtMinute:   breakEnd,
		})
		elapsed = breakEnd
	}

	return blocks
}

// Performance breaks down how efficiently a settings bundle uses the
// planning window.
type Performance struct {
	Sessions     int     `json:"sessions"`
	FocusMinutes int     `json:"focusMinutes"`
	Remainder    int     `json:"remainder"`
	FocusRatio   float64 `json:"focusRatio"`
	XPPerHour    int     `json:"xpPerHour"`
	EstimatedXP  int     `json:"estimatedXp"`
	CycleMinutes int     `json:"cycleMinutes"`
}

func BuildPerformance(settings session.Settings, planningMinutes int) Performance {
	normalized := planningMinutes
	if normalized < settings.Focus {
		normalized = settings.Focus
	}
	cycle := settings.Focus + settings.ShortBreak
	sessions := normalized / cycle
	if sessions < 1 {
		sessions = 1
	}
	focusMinutes := sessions * settings.Focus
	remainder := normalized - sessions*cycle
	focusRatio := float64(focusMinutes) / float64(normalized)
	xp := sessions*gamification.XPPerSession + focusMinutes*gamification.XPPerFocusMinute

	return Performance{
		Sessions:     sessions,
		FocusMinutes: focusMinutes,
		Remainder:    remainder,
		FocusRatio:   focusRatio,
		XPPerHour:    int(math.Round(float64(xp) / float64(normalized) * 60)),
		EstimatedXP:  xp,
		CycleMinutes: cycle,
	}
}

// ReadinessSignal labels how demanding a plan is.
type ReadinessSignal struct {
	Label   string `json:"label"` // Balanced, Intense, or Recovery
	Tone    string `json:"tone"`  // positive, caution, or neutral
	Summary string `json:"summary"`
}

func BuildReadinessSignal(settings session.Settings, planningMinutes int) ReadinessSignal {
	performance := BuildPerformance(settings, planningMinutes)
	breakMinutesPerHour := int(math.Round(float64(settings.ShortBreak) / float64(settings.Focus+settings.ShortBreak) * 60))

	if settings.Focus >= 40 || performance.FocusRatio >= 0.82 {
		return ReadinessSignal{
			Label:   "Intense",
			Tone:    "caution",
			Summary: fmt.Sprintf("High-output cadence. Protect it with at least %dm recovery per hour.", breakMinutesPerHour),
		}
	}

	if settings.Focus <= 18 || performance.FocusRatio <= 0.62 {
		return ReadinessSignal{
			Label:   "Recovery",
			Tone:    "neutral",
			Summary: "Lower-friction rhythm for restart days and interruption-heavy schedules.",
		}
	}

	return ReadinessSignal{
		Label:   "Balanced",
		Tone:    "positive",
		Summary: "Sustainable tempo for multi-hour consistency without overloading energy.",
	}
}

// WeeklyForecast projects a daily plan across a five-day week and
// estimates how long the next level milestone will take.
type WeeklyForecast struct {
	FocusHours       float64 `json:"focusHours"`
	Sessions         int     `json:"sessions"`
	XP               int     `json:"xp"`
	MilestoneETADays int     `json:"milestoneEtaDays"`
}

func BuildWeeklyForecast(settings session.Settings, planningMinutes, xpToNextLevel int) WeeklyForecast {
	summary := BuildSummary(settings, planningMinutes)
	dailyXP := summary.EstimatedXP
	if dailyXP < 1 {
		dailyXP = 1
	}
	if xpToNextLevel < 0 {
		xpToNextLevel = 0
	}
	etaDays := (xpToNextLevel + dailyXP - 1) / dailyXP
	if etaDays < 1 {
		etaDays = 1
	}

	return WeeklyForecast{
		FocusHours:       math.Round(float64(summary.EstimatedFocusMinutes*5)/60*10) / 10,
		Sessions:         summary.EstimatedSessions * 5,
		XP:               summary.EstimatedWeeklyXP,
		MilestoneETADays: etaDays,
	}
}

// RankedPlan is one preset scored against a planning window.
type RankedPlan struct {
	Preset       Preset  `json:"preset"`
	Sessions     int     `json:"sessions"`
	FocusMinutes int     `json:"focusMinutes"`
	Remainder    int     `json:"remainder"`
	Score        float64 `json:"score"`
	FocusRatio   float64 `json:"focusRatio"`
	XPPerHour    int     `json:"xpPerHour"`
}

// SortMode selects the ordering for preset plans.
type SortMode string

const (
	SortBestFit    SortMode = "best-fit"
	SortXPPerHour  SortMode = "xp-hour"
	SortFastFinish SortMode = "fast-finish"
)

// RankPresets scores every preset for the window. The score rewards a
// high focus ratio and penalizes unusable leftover minutes; results come
// back best first.
func RankPresets(presets []Preset, planningMinutes int) []RankedPlan {
	plans := make([]RankedPlan, 0, len(presets))
	for _, preset := range presets {
		performance := BuildPerformance(preset.Settings, planningMinutes)
		plans = append(plans, RankedPlan{
			Preset:       preset,
			Sessions:     performance.Sessions,
			FocusMinutes: performance.FocusMinutes,
			Remainder:    performance.Remainder,
			Score:        performance.FocusRatio*100 - float64(performance.Remainder),
			FocusRatio:   performance.FocusRatio,
			XPPerHour:    performance.XPPerHour,
		})
	}
	sort.SliceStable(plans, func(i, j int) bool {
		return plans[i].Score > plans[j].Score
	})
	return plans
}

// SortPlans reorders ranked plans by the given mode, falling back to the
// best-fit score to break ties.
func SortPlans(plans []RankedPlan, mode SortMode) []RankedPlan {
	sorted := make([]RankedPlan, len(plans))
	copy(sorted, plans)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		switch mode {
		case SortXPPerHour:
			if a.XPPerHour != b.XPPerHour {
				return a.XPPerHour > b.XPPerHour
			}
		case SortFastFinish:
			aCycle := a.Preset.Settings.Focus + a.Preset.Settings.ShortBreak
			bCycle := b.Preset.Settings.Focus + b.Preset.Settings.ShortBreak
			if aCycle != bCycle {
				return aCycle < bCycle
			}
		}
		return a.Score > b.Score
	})

	return sorted
}

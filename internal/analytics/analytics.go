// Package analytics turns the session-history log into day-bucketed
// aggregates, a rolling 7-day window, and streak counts. Everything is
// recomputed from scratch on each call; the history is capped at 365
// entries so incremental bookkeeping would buy nothing.
package analytics

import (
	"sort"
	"time"

	"focusloop/internal/session"
)

// DayStat aggregates one calendar day's completed focus sessions.
type DayStat struct {
	Sessions     int `json:"sessions"`
	FocusMinutes int `json:"focusMinutes"`
}

// WeekDay is one slot of the trailing 7-day window. Day is the "MM-DD"
// label of the local calendar day.
type WeekDay struct {
	Day          string `json:"day"`
	Sessions     int    `json:"sessions"`
	FocusMinutes int    `json:"focusMinutes"`
}

// Streak counts consecutive local calendar days with at least one
// completed session.
type Streak struct {
	Current int `json:"current"`
	Best    int `json:"best"`
}

// Analytics is the aggregate snapshot derived from the full history.
type Analytics struct {
	Today  DayStat   `json:"today"`
	Last7  DayStat   `json:"last7"`
	Streak Streak    `json:"streak"`
	Week   []WeekDay `json:"week"`
}

const dayKeyLayout = "2006-01-02"

// Build aggregates history relative to now. Entries with unparsable
// timestamps are skipped. Bucketing uses the local calendar day of now's
// location so "today" matches what the user perceives.
func Build(history []session.HistoryEntry, now time.Time) Analytics {
	loc := now.Location()

	byDay := make(map[string]DayStat)
	for _, entry := range history {
		completedAt, ok := session.ParseCompletedAt(entry.CompletedAt)
		if !ok {
			continue
		}
		key := dayKey(completedAt.In(loc))
		stat := byDay[key]
		stat.Sessions++
		stat.FocusMinutes += entry.FocusMinutes
		byDay[key] = stat
	}

	today := startOfDay(now)
	week := make([]WeekDay, 0, 7)
	var last7 DayStat
	for offset := -6; offset <= 0; offset++ {
		day := today.AddDate(0, 0, offset)
		key := dayKey(day)
		stat := byDay[key]
		week = append(week, WeekDay{Day: key[5:], Sessions: stat.Sessions, FocusMinutes: stat.FocusMinutes})
		last7.Sessions += stat.Sessions
		last7.FocusMinutes += stat.FocusMinutes
	}

	return Analytics{
		Today:  byDay[dayKey(today)],
		Last7:  last7,
		Streak: computeStreak(byDay, today),
		Week:   week,
	}
}

func computeStreak(byDay map[string]DayStat, today time.Time) Streak {
	if len(byDay) == 0 {
		return Streak{}
	}

	keys := make([]string, 0, len(byDay))
	for key := range byDay {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	// Longest run anywhere in the history. Consecutiveness is decided by
	// date arithmetic, so month and year boundaries count.
	best, run := 0, 0
	var previous time.Time
	for i, key := range keys {
		current, err := time.ParseInLocation(dayKeyLayout, key, today.Location())
		if err != nil {
			continue
		}
		if i > 0 && previous.AddDate(0, 0, 1).Equal(current) {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
		previous = current
	}

	// Walk backward from today until the first empty day. An empty today
	// means the current streak is zero regardless of yesterday.
	current := 0
	for cursor := today; ; cursor = cursor.AddDate(0, 0, -1) {
		if _, ok := byDay[dayKey(cursor)]; !ok {
			break
		}
		current++
	}

	return Streak{Current: current, Best: best}
}

func dayKey(t time.Time) string {
	return t.Format(dayKeyLayout)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

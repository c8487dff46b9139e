package gamification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusloop/internal/analytics"
	"focusloop/internal/app"
	"focusloop/internal/session"
)

func stateWithStats(completed, focusMinutes int) app.State {
	return app.State{Stats: session.Stats{Completed: completed, FocusMinutes: focusMinutes}}
}

func TestProgressAtZeroIsLevelOne(t *testing.T) {
	p := BuildProgress(app.State{})

	assert.Equal(t, 0, p.XP)
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, 500, p.XPToNextLevel)
	assert.Zero(t, p.LevelProgress)
}

func TestProgressAccumulatesSessionAndMinuteXP(t *testing.T) {
	// 2 sessions and 50 focus minutes: 2*100 + 50*2 = 300 XP.
	p := BuildProgress(stateWithStats(2, 50))

	assert.Equal(t, 300, p.XP)
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, 200, p.XPToNextLevel)
	assert.InDelta(t, 60.0, p.LevelProgress, 0.001)
}

func TestProgressLevelBoundary(t *testing.T) {
	// Exactly 500 XP starts level 2 with a fresh bar.
	p := BuildProgress(stateWithStats(5, 0))

	assert.Equal(t, 500, p.XP)
	assert.Equal(t, 2, p.Level)
	assert.Equal(t, 500, p.XPToNextLevel)
	assert.Zero(t, p.LevelProgress)
}

func TestProgressDeepIntoLevels(t *testing.T) {
	// 10 sessions and 250 minutes: 1000 + 500 = 1500 XP, level 4 start.
	p := BuildProgress(stateWithStats(10, 250))

	assert.Equal(t, 1500, p.XP)
	assert.Equal(t, 4, p.Level)
	assert.Equal(t, 500, p.XPToNextLevel)
}

func TestAchievementsLockedOnFreshState(t *testing.T) {
	got := BuildAchievements(app.State{})

	require.Len(t, got, 3)
	for _, a := range got {
		assert.False(t, a.Unlocked, a.ID)
		assert.Zero(t, a.Progress, a.ID)
	}
}

func TestFirstSessionAchievementUnlocks(t *testing.T) {
	got := BuildAchievements(stateWithStats(1, 25))

	require.Len(t, got, 3)
	first := got[0]
	assert.Equal(t, "ach-first-session", first.ID)
	assert.True(t, first.Unlocked)
	assert.Equal(t, 100.0, first.Progress)
}

func TestFocusMinutesAchievementProgressIsCapped(t *testing.T) {
	got := BuildAchievements(stateWithStats(80, 2500))

	minutes := got[1]
	assert.Equal(t, "ach-focus-1000", minutes.ID)
	assert.True(t, minutes.Unlocked)
	assert.Equal(t, 2500, minutes.Value)
	assert.Equal(t, 100.0, minutes.Progress)
}

func TestStreakAchievementReadsCurrentStreak(t *testing.T) {
	state := app.State{
		Analytics: analytics.Analytics{Streak: analytics.Streak{Current: 5, Best: 9}},
	}

	got := BuildAchievements(state)

	streak := got[2]
	assert.Equal(t, "ach-streak-7", streak.ID)
	assert.False(t, streak.Unlocked, "current streak counts, not best")
	assert.Equal(t, 5, streak.Value)
	assert.InDelta(t, 5.0/7.0*100, streak.Progress, 0.001)
}

func TestQuestsTrackTodayOnly(t *testing.T) {
	state := app.State{
		Stats: session.Stats{Completed: 200, FocusMinutes: 5000},
		Analytics: analytics.Analytics{
			Today: analytics.DayStat{Sessions: 2, FocusMinutes: 60},
		},
	}

	got := BuildQuests(state)

	require.Len(t, got, 3)
	focus := got[0]
	assert.Equal(t, "quest-focus-minutes", focus.ID)
	assert.Equal(t, 60, focus.Value, "lifetime totals must not leak into daily quests")
	assert.False(t, focus.Complete)
	assert.InDelta(t, 50.0, focus.Progress, 0.001)

	sessions := got[1]
	assert.Equal(t, 2, sessions.Value)
	assert.False(t, sessions.Complete)
}

func TestSessionQuestCompletesAtTarget(t *testing.T) {
	state := app.State{
		Analytics: analytics.Analytics{Today: analytics.DayStat{Sessions: 4, FocusMinutes: 100}},
	}

	got := BuildQuests(state)

	assert.True(t, got[1].Complete)
	assert.Equal(t, 100.0, got[1].Progress)
}

func TestTaskQuestCountsOnlyDoneTasks(t *testing.T) {
	state := app.State{
		Tasks: []session.Task{
			{ID: "a", Text: "done one", Done: true},
			{ID: "b", Text: "open one", Done: false},
			{ID: "c", Text: "done two", Done: true},
		},
	}

	got := BuildQuests(state)

	tasks := got[2]
	assert.Equal(t, "quest-task-clear", tasks.ID)
	assert.Equal(t, 2, tasks.Value)
	assert.False(t, tasks.Complete)
}

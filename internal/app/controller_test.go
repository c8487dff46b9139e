package app

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusloop/internal/clock"
	"focusloop/internal/repository"
	"focusloop/internal/session"
	"focusloop/internal/storage/memory"
)

type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *fakeNotifier) Init() {}

func (n *fakeNotifier) Notify(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

func (n *fakeNotifier) Messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.messages))
	copy(out, n.messages)
	return out
}

func testRepos(store *memory.Store) Repos {
	return Repos{
		Stats:    repository.NewStats(store),
		Settings: repository.NewSettings(store),
		Tasks:    repository.NewTasks(store),
		History:  repository.NewHistory(store),
	}
}

func newTestController(t *testing.T, store *memory.Store) (*Controller, *clock.Fake, chan State, *fakeNotifier) {
	t.Helper()
	fake := clock.NewFake(time.Date(2025, 6, 15, 9, 0, 0, 0, time.Local))
	states := make(chan State, 256)
	notifier := &fakeNotifier{}
	c := NewController(testRepos(store), notifier, fake, func(s State) { states <- s })
	t.Cleanup(c.Dispose)
	return c, fake, states, notifier
}

// waitState drains snapshots until one satisfies the predicate.
func waitState(t *testing.T, states chan State, match func(State) bool) State {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case s := <-states:
			if match(s) {
				return s
			}
		case <-deadline:
			t.Fatal("timed out waiting for matching snapshot")
			return State{}
		}
	}
}

func drain(states chan State) {
	for {
		select {
		case <-states:
		default:
			return
		}
	}
}

func assertNoState(t *testing.T, states chan State) {
	t.Helper()
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, states)
}

func TestInitializeEmitsDefaultSnapshot(t *testing.T) {
	c, _, states, _ := newTestController(t, memory.New())

	c.Initialize()

	s := waitState(t, states, func(State) bool { return true })
	assert.Equal(t, session.ModeFocus, s.Mode)
	assert.Equal(t, session.DefaultSettings(), s.Settings)
	assert.Equal(t, session.Stats{}, s.Stats)
	assert.Empty(t, s.Tasks)
	assert.Equal(t, TimerState{Remaining: 1500, Total: 1500, Running: false}, s.Timer)
	assert.Zero(t, s.Analytics.Today.Sessions)
	assert.Nil(t, s.SettingsStatus)
}

func TestSetModeResizesCountdown(t *testing.T) {
	c, _, states, _ := newTestController(t, memory.New())

	c.SetMode(session.ModeShortBreak)

	s := waitState(t, states, func(s State) bool { return s.Mode == session.ModeShortBreak })
	assert.Equal(t, TimerState{Remaining: 300, Total: 300, Running: false}, s.Timer)
}

func TestSetModeRejectsUnknownMode(t *testing.T) {
	c, _, states, _ := newTestController(t, memory.New())
	drain(states)

	c.SetMode(session.Mode("nap"))

	assertNoState(t, states)
}

func TestToggleTimerStartsThenPauses(t *testing.T) {
	c, _, states, _ := newTestController(t, memory.New())

	c.ToggleTimer()
	s := waitState(t, states, func(s State) bool { return s.Timer.Running })
	assert.Equal(t, 1500, s.Timer.Remaining)

	c.ToggleTimer()
	s = waitState(t, states, func(s State) bool { return !s.Timer.Running })
	assert.Equal(t, 1500, s.Timer.Remaining)
}

func TestAddTaskPrependsNewestFirst(t *testing.T) {
	store := memory.New()
	c, _, states, _ := newTestController(t, store)

	c.AddTask("write report")
	c.AddTask("review notes")

	s := waitState(t, states, func(s State) bool { return len(s.Tasks) == 2 })
	assert.Equal(t, "review notes", s.Tasks[0].Text)
	assert.Equal(t, "write report", s.Tasks[1].Text)
	assert.NotEmpty(t, s.Tasks[0].ID)
	assert.NotEqual(t, s.Tasks[0].ID, s.Tasks[1].ID)

	persisted := repository.NewTasks(store).Load()
	require.Len(t, persisted, 2)
	assert.Equal(t, "review notes", persisted[0].Text)
}

func TestAddTaskIgnoresBlankInput(t *testing.T) {
	c, _, states, _ := newTestController(t, memory.New())
	drain(states)

	c.AddTask("   ")

	assertNoState(t, states)
}

func TestToggleTaskFlipsDoneFlag(t *testing.T) {
	c, _, states, _ := newTestController(t, memory.New())
	c.AddTask("write report")
	s := waitState(t, states, func(s State) bool { return len(s.Tasks) == 1 })
	id := s.Tasks[0].ID

	c.ToggleTask(id)
	s = waitState(t, states, func(s State) bool { return len(s.Tasks) == 1 && s.Tasks[0].Done })

	c.ToggleTask(id)
	s = waitState(t, states, func(s State) bool { return len(s.Tasks) == 1 && !s.Tasks[0].Done })
	assert.Equal(t, "write report", s.Tasks[0].Text)
}

func TestToggleTaskUnknownIDLeavesTasksUnchanged(t *testing.T) {
	c, _, states, _ := newTestController(t, memory.New())
	c.AddTask("write report")
	waitState(t, states, func(s State) bool { return len(s.Tasks) == 1 })

	c.ToggleTask("no-such-id")

	s := waitState(t, states, func(State) bool { return true })
	require.Len(t, s.Tasks, 1)
	assert.False(t, s.Tasks[0].Done)
}

func TestDeleteTaskRemovesOnlyMatch(t *testing.T) {
	store := memory.New()
	c, _, states, _ := newTestController(t, store)
	c.AddTask("first")
	c.AddTask("second")
	s := waitState(t, states, func(s State) bool { return len(s.Tasks) == 2 })
	keepID := s.Tasks[0].ID

	c.DeleteTask(s.Tasks[1].ID)

	s = waitState(t, states, func(s State) bool { return len(s.Tasks) == 1 })
	assert.Equal(t, keepID, s.Tasks[0].ID)
	assert.Len(t, repository.NewTasks(store).Load(), 1)
}

func TestAddThenDeleteRestoresTaskList(t *testing.T) {
	c, _, states, _ := newTestController(t, memory.New())
	c.AddTask("existing")
	s := waitState(t, states, func(s State) bool { return len(s.Tasks) == 1 })
	before := s.Tasks

	c.AddTask("transient")
	s = waitState(t, states, func(s State) bool { return len(s.Tasks) == 2 })
	c.DeleteTask(s.Tasks[0].ID)

	s = waitState(t, states, func(s State) bool { return len(s.Tasks) == 1 })
	assert.Equal(t, before, s.Tasks)
}

func TestDeleteTaskUnknownIDIsNoOp(t *testing.T) {
	c, _, states, _ := newTestController(t, memory.New())
	c.AddTask("first")
	waitState(t, states, func(s State) bool { return len(s.Tasks) == 1 })

	c.DeleteTask("no-such-id")

	s := waitState(t, states, func(State) bool { return true })
	assert.Len(t, s.Tasks, 1)
}

func TestUpdateSettingsValidPersistsAndResizesTimer(t *testing.T) {
	store := memory.New()
	c, _, states, _ := newTestController(t, store)

	result := c.UpdateSettings(SettingsCandidate{
		Focus: "50", ShortBreak: "10", LongBreak: "20", LongBreakInterval: "3",
	})

	assert.True(t, result.OK)
	want := session.Settings{Focus: 50, ShortBreak: 10, LongBreak: 20, LongBreakInterval: 3}
	s := waitState(t, states, func(s State) bool { return s.Settings == want })
	assert.Equal(t, TimerState{Remaining: 3000, Total: 3000, Running: false}, s.Timer)
	require.NotNil(t, s.SettingsStatus)
	assert.Equal(t, "success", s.SettingsStatus.Kind)
	assert.Equal(t, "Settings saved.", s.SettingsStatus.Message)
	assert.Equal(t, want, repository.NewSettings(store).Load())
}

func TestUpdateSettingsValidationOrderAndMessages(t *testing.T) {
	cases := []struct {
		name      string
		candidate SettingsCandidate
		field     string
		message   string
	}{
		{
			"focus checked first",
			SettingsCandidate{Focus: "9", ShortBreak: "0", LongBreak: "0", LongBreakInterval: "0"},
			"focus",
			"Focus must be between 10 and 90 minutes.",
		},
		{
			"focus above bound",
			SettingsCandidate{Focus: "91", ShortBreak: "5", LongBreak: "15", LongBreakInterval: "4"},
			"focus",
			"Focus must be between 10 and 90 minutes.",
		},
		{
			"short break second",
			SettingsCandidate{Focus: "25", ShortBreak: "31", LongBreak: "0", LongBreakInterval: "0"},
			"shortBreak",
			"Short break must be between 1 and 30 minutes.",
		},
		{
			"long break third",
			SettingsCandidate{Focus: "25", ShortBreak: "5", LongBreak: "61", LongBreakInterval: "0"},
			"longBreak",
			"Long break must be between 5 and 60 minutes.",
		},
		{
			"interval last",
			SettingsCandidate{Focus: "25", ShortBreak: "5", LongBreak: "15", LongBreakInterval: "9"},
			"longBreakInterval",
			"Long break interval must be between 2 and 8 focus sessions.",
		},
		{
			"non-numeric rejected",
			SettingsCandidate{Focus: "abc", ShortBreak: "5", LongBreak: "15", LongBreakInterval: "4"},
			"focus",
			"Focus must be between 10 and 90 minutes.",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := memory.New()
			c, _, states, _ := newTestController(t, store)

			result := c.UpdateSettings(tc.candidate)

			assert.False(t, result.OK)
			assert.Equal(t, tc.field, result.Field)
			assert.Equal(t, tc.message, result.Message)

			s := waitState(t, states, func(s State) bool { return s.SettingsStatus != nil })
			assert.Equal(t, "error", s.SettingsStatus.Kind)
			assert.Equal(t, tc.message, s.SettingsStatus.Message)
			assert.Equal(t, session.DefaultSettings(), s.Settings, "rejected input must not mutate settings")
			assert.Equal(t, session.DefaultSettings(), repository.NewSettings(store).Load())
		})
	}
}

func TestUpdateSettingsMidCountdownResetsToNewDuration(t *testing.T) {
	c, fake, states, _ := newTestController(t, memory.New())
	c.ToggleTimer()
	waitState(t, states, func(s State) bool { return s.Timer.Running })
	fake.Advance(time.Second)
	waitState(t, states, func(s State) bool { return s.Timer.Remaining == 1499 })

	result := c.UpdateSettings(SettingsCandidate{
		Focus: "30", ShortBreak: "5", LongBreak: "15", LongBreakInterval: "4",
	})

	require.True(t, result.OK)
	s := waitState(t, states, func(s State) bool { return s.SettingsStatus != nil })
	// No proration: the countdown restarts paused at the new full duration.
	assert.Equal(t, TimerState{Remaining: 1800, Total: 1800, Running: false}, s.Timer)
}

func TestUpdateSettingsTruncatesDecimalInput(t *testing.T) {
	c, _, states, _ := newTestController(t, memory.New())

	result := c.UpdateSettings(SettingsCandidate{
		Focus: "25.7", ShortBreak: "5", LongBreak: "15", LongBreakInterval: "4",
	})

	assert.True(t, result.OK)
	s := waitState(t, states, func(s State) bool { return s.SettingsStatus != nil })
	assert.Equal(t, 25, s.Settings.Focus)
}

func TestResetSettingsRestoresDefaults(t *testing.T) {
	store := memory.New()
	c, _, states, _ := newTestController(t, store)
	c.UpdateSettings(SettingsCandidate{Focus: "50", ShortBreak: "10", LongBreak: "20", LongBreakInterval: "3"})
	drain(states)

	result := c.ResetSettingsToDefaults()

	assert.True(t, result.OK)
	s := waitState(t, states, func(s State) bool { return s.SettingsStatus != nil })
	assert.Equal(t, session.DefaultSettings(), s.Settings)
	assert.Equal(t, "Default settings restored.", s.SettingsStatus.Message)
	assert.Equal(t, session.DefaultSettings(), repository.NewSettings(store).Load())
}

func TestFocusCompletionAdvancesStatsHistoryAndMode(t *testing.T) {
	store := memory.New()
	c, fake, states, notifier := newTestController(t, store)
	c.Initialize()

	c.ToggleTimer()
	waitState(t, states, func(s State) bool { return s.Timer.Running })
	fake.Advance(25 * time.Minute)

	s := waitState(t, states, func(s State) bool { return s.Stats.Completed == 1 })
	assert.Equal(t, session.ModeShortBreak, s.Mode)
	assert.Equal(t, 25, s.Stats.FocusMinutes)
	assert.Equal(t, TimerState{Remaining: 300, Total: 300, Running: false}, s.Timer)
	assert.Equal(t, 1, s.Analytics.Today.Sessions)
	assert.Equal(t, 25, s.Analytics.Today.FocusMinutes)
	assert.Equal(t, 1, s.Analytics.Streak.Current)

	history := repository.NewHistory(store).Load()
	require.Len(t, history, 1)
	assert.Equal(t, 25, history[0].FocusMinutes)
	assert.Equal(t, session.FormatCompletedAt(fake.Now()), history[0].CompletedAt)

	assert.Equal(t, session.Stats{Completed: 1, FocusMinutes: 25}, repository.NewStats(store).Load())
	assert.Contains(t, notifier.Messages(), "Focus done. Break time.")
}

func TestEveryFourthFocusSessionEarnsLongBreak(t *testing.T) {
	store := memory.New()
	repository.NewStats(store).Save(session.Stats{Completed: 3, FocusMinutes: 75})
	c, fake, states, _ := newTestController(t, store)

	c.ToggleTimer()
	waitState(t, states, func(s State) bool { return s.Timer.Running })
	fake.Advance(25 * time.Minute)

	s := waitState(t, states, func(s State) bool { return s.Stats.Completed == 4 })
	assert.Equal(t, session.ModeLongBreak, s.Mode)
	assert.Equal(t, TimerState{Remaining: 900, Total: 900, Running: false}, s.Timer)
}

func TestBreakCompletionReturnsToFocusWithoutStats(t *testing.T) {
	store := memory.New()
	c, fake, states, notifier := newTestController(t, store)

	c.SetMode(session.ModeShortBreak)
	c.ToggleTimer()
	waitState(t, states, func(s State) bool { return s.Timer.Running })
	fake.Advance(5 * time.Minute)

	s := waitState(t, states, func(s State) bool { return s.Mode == session.ModeFocus })
	assert.Equal(t, session.Stats{}, s.Stats)
	assert.Equal(t, TimerState{Remaining: 1500, Total: 1500, Running: false}, s.Timer)
	assert.Empty(t, repository.NewHistory(store).Load())
	assert.Contains(t, notifier.Messages(), "Break over. Back to focus.")
}

func TestHistoryCapEvictsOldestEntry(t *testing.T) {
	store := memory.New()
	seeded := make([]session.HistoryEntry, session.HistoryCap)
	base := time.Date(2025, 6, 14, 12, 0, 0, 0, time.Local)
	for i := range seeded {
		seeded[i] = session.HistoryEntry{
			ID:           fmt.Sprintf("old-%d", i),
			CompletedAt:  session.FormatCompletedAt(base.AddDate(0, 0, -i)),
			FocusMinutes: 25,
		}
	}
	repository.NewHistory(store).Save(seeded)

	c, fake, states, _ := newTestController(t, store)
	c.ToggleTimer()
	waitState(t, states, func(s State) bool { return s.Timer.Running })
	fake.Advance(25 * time.Minute)
	waitState(t, states, func(s State) bool { return s.Stats.Completed == 1 })

	history := repository.NewHistory(store).Load()
	require.Len(t, history, session.HistoryCap)
	assert.NotEqual(t, "old-0", history[0].ID, "newest entry sits at the head")
	assert.Equal(t, "old-0", history[1].ID)
	assert.Equal(t, fmt.Sprintf("old-%d", session.HistoryCap-2), history[session.HistoryCap-1].ID)
}

func TestResetTimerRestoresFullDuration(t *testing.T) {
	c, fake, states, _ := newTestController(t, memory.New())

	c.ToggleTimer()
	waitState(t, states, func(s State) bool { return s.Timer.Running })
	fake.Advance(3 * time.Second)
	waitState(t, states, func(s State) bool { return s.Timer.Remaining == 1497 })

	c.ResetTimer()

	s := waitState(t, states, func(s State) bool {
		return !s.Timer.Running && s.Timer.Remaining == 1500
	})
	assert.Equal(t, 1500, s.Timer.Total)
}

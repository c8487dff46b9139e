package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"focusloop/internal/app"
	"focusloop/internal/gamification"
	"focusloop/internal/ipc"
	"focusloop/internal/planner"
	"focusloop/internal/session"
)

var socketPath string

var rootCmd = &cobra.Command{
	Use:   "focusloop-cli",
	Short: "CLI tool to interact with the focusloop daemon",
	Long:  `A command-line interface to drive the running focusloop daemon (timer, tasks, settings) via its Unix socket, and to explore presets and session plans.`,
}

// --- Client Helpers ---

func request(cmd ipc.Command) ipc.Response {
	conn, err := net.DialTimeout("unix", socketPath, 2*time.Second)
	if err != nil {
		log.Fatalf("Error connecting to daemon socket (%s): %v\nIs the focusloop daemon running?", socketPath, err)
	}
	defer conn.Close()

	conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	encoder := json.NewEncoder(conn)
	decoder := json.NewDecoder(conn)

	if err := encoder.Encode(cmd); err != nil {
		log.Fatalf("Error sending command: %v", err)
	}

	var resp ipc.Response
	if err := decoder.Decode(&resp); err != nil {
		log.Fatalf("Error receiving response: %v", err)
	}
	return resp
}

func sendCommand(cmd ipc.Command) {
	resp := request(cmd)
	if !resp.Success {
		fmt.Fprintf(os.Stderr, "Error: %s\n", resp.Message)
		os.Exit(1)
	}
	fmt.Println("Success:", resp.Message)
}

// fetchState retrieves the daemon's latest snapshot.
func fetchState() app.State {
	resp := request(ipc.Command{Name: ipc.CmdState})
	if !resp.Success {
		log.Fatalf("Error fetching state: %s", resp.Message)
	}
	raw, err := json.Marshal(resp.Data)
	if err != nil {
		log.Fatalf("Error re-encoding state: %v", err)
	}
	var state app.State
	if err := json.Unmarshal(raw, &state); err != nil {
		log.Fatalf("Error decoding state: %v", err)
	}
	return state
}

func formatClock(totalSeconds int) string {
	m := totalSeconds / 60
	s := totalSeconds % 60
	return fmt.Sprintf("%02d:%02d", m, s)
}

// --- Command Definitions ---

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check if the focusloop daemon is running",
	Run: func(cmd *cobra.Command, args []string) {
		sendCommand(ipc.Command{Name: ipc.CmdPing})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current timer, stats, and streak",
	Run: func(cmd *cobra.Command, args []string) {
		state := fetchState()
		running := "paused"
		if state.Timer.Running {
			running = "running"
		}
		fmt.Printf("Mode:     %s (%s)\n", state.Mode, running)
		fmt.Printf("Timer:    %s / %s\n", formatClock(state.Timer.Remaining), formatClock(state.Timer.Total))
		fmt.Printf("Today:    %d sessions, %d focus minutes\n", state.Analytics.Today.Sessions, state.Analytics.Today.FocusMinutes)
		fmt.Printf("Lifetime: %d sessions, %d focus minutes\n", state.Stats.Completed, state.Stats.FocusMinutes)
		fmt.Printf("Streak:   %d days (best %d)\n", state.Analytics.Streak.Current, state.Analytics.Streak.Best)
	},
}

// Mode Command Group

var modeCmd = &cobra.Command{
	Use:   "mode",
	Short: "Switch the active mode",
}

var modeSetCmd = &cobra.Command{
	Use:   "set [focus|short|long]",
	Short: "Set the active mode (resets the countdown to that mode's duration)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var mode session.Mode
		switch strings.ToLower(args[0]) {
		case "focus":
			mode = session.ModeFocus
		case "short", "shortbreak":
			mode = session.ModeShortBreak
		case "long", "longbreak":
			mode = session.ModeLongBreak
		default:
			log.Fatalf("Invalid mode: %s. Use 'focus', 'short', or 'long'", args[0])
		}
		sendCommand(ipc.Command{Name: ipc.CmdSetMode, Args: ipc.SetModeArgs{Mode: string(mode)}})
	},
}

// Timer Command Group

var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Control the countdown",
}

var timerToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Start a paused countdown or pause a running one",
	Run: func(cmd *cobra.Command, args []string) {
		sendCommand(ipc.Command{Name: ipc.CmdToggleTimer})
	},
}

var timerResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the countdown to its full duration",
	Run: func(cmd *cobra.Command, args []string) {
		sendCommand(ipc.Command{Name: ipc.CmdResetTimer})
	},
}

// Task Command Group

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage the task list",
}

var taskAddCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add a task (newest first)",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		text := strings.TrimSpace(strings.Join(args, " "))
		if text == "" {
			log.Fatal("Task text cannot be empty")
		}
		sendCommand(ipc.Command{Name: ipc.CmdAddTask, Args: ipc.AddTaskArgs{Text: text}})
	},
}

var taskToggleCmd = &cobra.Command{
	Use:   "toggle [id]",
	Short: "Toggle a task's done flag",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sendCommand(ipc.Command{Name: ipc.CmdToggleTask, Args: ipc.TaskIDArgs{ID: args[0]}})
	},
}

var taskDeleteCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sendCommand(ipc.Command{Name: ipc.CmdDeleteTask, Args: ipc.TaskIDArgs{ID: args[0]}})
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Run: func(cmd *cobra.Command, args []string) {
		state := fetchState()
		if len(state.Tasks) == 0 {
			fmt.Println("No tasks.")
			return
		}
		for _, t := range state.Tasks {
			check := " "
			if t.Done {
				check = "x"
			}
			fmt.Printf("[%s] %s  %s\n", check, t.ID, t.Text)
		}
	},
}

// Settings Command Group

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect or change timer settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current settings",
	Run: func(cmd *cobra.Command, args []string) {
		state := fetchState()
		s := state.Settings
		fmt.Printf("Focus:               %d min\n", s.Focus)
		fmt.Printf("Short break:         %d min\n", s.ShortBreak)
		fmt.Printf("Long break:          %d min\n", s.LongBreak)
		fmt.Printf("Long break interval: every %d sessions\n", s.LongBreakInterval)
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update settings (focus 10-90, short 1-30, long 5-60, interval 2-8)",
	Run: func(cmd *cobra.Command, args []string) {
		state := fetchState()
		current := state.Settings

		// Unset flags keep their current values; the daemon validates.
		read := func(name string, current int) string {
			if cmd.Flags().Changed(name) {
				v, _ := cmd.Flags().GetString(name)
				return v
			}
			return fmt.Sprintf("%d", current)
		}

		sendCommand(ipc.Command{Name: ipc.CmdUpdateSettings, Args: ipc.UpdateSettingsArgs{
			Focus:             read("focus", current.Focus),
			ShortBreak:        read("short", current.ShortBreak),
			LongBreak:         read("long", current.LongBreak),
			LongBreakInterval: read("interval", current.LongBreakInterval),
		}})
	},
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default settings",
	Run: func(cmd *cobra.Command, args []string) {
		sendCommand(ipc.Command{Name: ipc.CmdResetSettings})
	},
}

// Stats Command

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the 7-day activity window and streaks",
	Run: func(cmd *cobra.Command, args []string) {
		state := fetchState()
		a := state.Analytics
		fmt.Printf("Today:  %d sessions, %d focus minutes\n", a.Today.Sessions, a.Today.FocusMinutes)
		fmt.Printf("Last 7: %d sessions, %d focus minutes\n", a.Last7.Sessions, a.Last7.FocusMinutes)
		fmt.Printf("Streak: %d days (best %d)\n\n", a.Streak.Current, a.Streak.Best)
		for _, day := range a.Week {
			bar := strings.Repeat("#", day.Sessions)
			fmt.Printf("%s  %2d  %s\n", day.Day, day.Sessions, bar)
		}
	},
}

// Level Command (gamification, derived client-side from the snapshot)

var levelCmd = &cobra.Command{
	Use:   "level",
	Short: "Show XP, level, achievements, and daily quests",
	Run: func(cmd *cobra.Command, args []string) {
		state := fetchState()
		progress := gamification.BuildProgress(state)
		fmt.Printf("Level %d: %d XP (%d XP to next level, %.0f%% there)\n\n",
			progress.Level, progress.XP, progress.XPToNextLevel, progress.LevelProgress)

		fmt.Println("Achievements:")
		for _, ach := range gamification.BuildAchievements(state) {
			mark := " "
			if ach.Unlocked {
				mark = "x"
			}
			fmt.Printf("  [%s] %s %s: %d/%d %s\n", mark, ach.Icon, ach.Title, ach.Value, ach.Target, ach.Unit)
		}

		fmt.Println("\nDaily quests:")
		for _, quest := range gamification.BuildQuests(state) {
			mark := " "
			if quest.Complete {
				mark = "x"
			}
			fmt.Printf("  [%s] %s %s: %d/%d (%s)\n", mark, quest.Icon, quest.Title, quest.Value, quest.Target, quest.Description)
		}
	},
}

// Plan Command Group (planner heuristics, derived client-side)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan a focus window and rank presets against it",
	Run: func(cmd *cobra.Command, args []string) {
		minutes, _ := cmd.Flags().GetInt("minutes")
		minutes = planner.NormalizePlanningMinutes(minutes)

		state := fetchState()
		settings := state.Settings
		label := "current settings"
		if presetID, _ := cmd.Flags().GetString("preset"); presetID != "" {
			preset, ok := planner.PresetByID(presetID)
			if !ok {
				log.Fatalf("Unknown preset: %s", presetID)
			}
			settings = preset.Settings
			label = preset.Name
		}

		summary := planner.BuildSummary(settings, minutes)
		signal := planner.BuildReadinessSignal(settings, minutes)
		forecast := planner.BuildWeeklyForecast(settings, minutes, gamification.BuildProgress(state).XPToNextLevel)

		fmt.Printf("Plan for %d minutes with %s:\n", minutes, label)
		fmt.Printf("  %d sessions, %d focus minutes, ~%d XP (%d-minute cycle)\n",
			summary.EstimatedSessions, summary.EstimatedFocusMinutes, summary.EstimatedXP, summary.CycleMinutes)
		fmt.Printf("  Readiness: %s: %s\n", signal.Label, signal.Summary)
		fmt.Printf("  Weekly pace: %.1f focus hours, %d sessions, ~%d XP; next level in ~%d days\n\n",
			forecast.FocusHours, forecast.Sessions, forecast.XP, forecast.MilestoneETADays)

		fmt.Println("Timeline:")
		for _, block := range planner.BuildTimeline(settings, minutes) {
			fmt.Printf("  %3dm-%3dm  %s (%dm)\n", block.StartsAtMinute, block.EndsAtMinute, block.Kind, block.Minutes)
		}
	},
}

var planPresetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "Rank the preset catalog against a planning window",
	Run: func(cmd *cobra.Command, args []string) {
		minutes, _ := cmd.Flags().GetInt("minutes")
		minutes = planner.NormalizePlanningMinutes(minutes)
		mode, _ := cmd.Flags().GetString("sort")

		plans := planner.RankPresets(planner.Presets, minutes)
		plans = planner.SortPlans(plans, planner.SortMode(mode))

		fmt.Printf("Presets ranked for a %d-minute window (%s):\n", minutes, mode)
		for i, plan := range plans {
			fmt.Printf("%d. %s %s: %d sessions, %dm focus, %d XP/h, %dm leftover\n",
				i+1, plan.Preset.Icon, plan.Preset.Name,
				plan.Sessions, plan.FocusMinutes, plan.XPPerHour, plan.Remainder)
		}
	},
}

var planBlueprintsCmd = &cobra.Command{
	Use:   "blueprints",
	Short: "Browse outcome-first starting points for the preset catalog",
	Run: func(cmd *cobra.Command, args []string) {
		for _, bp := range planner.Blueprints {
			preset, ok := planner.PresetByID(bp.PresetID)
			if !ok {
				continue
			}
			fmt.Printf("%s %s: %s\n", bp.Icon, bp.Title, bp.Summary)
			fmt.Printf("   -> %s %s (focus %dm / short %dm)\n",
				preset.Icon, preset.Name, preset.Settings.Focus, preset.Settings.ShortBreak)
		}
	},
}

var planRecommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend a preset for your energy, context, and goal",
	Run: func(cmd *cobra.Command, args []string) {
		energyRaw, _ := cmd.Flags().GetString("energy")
		contextRaw, _ := cmd.Flags().GetString("context")
		goalRaw, _ := cmd.Flags().GetString("goal")

		energy, ok := planner.ParseEnergy(energyRaw)
		if !ok {
			log.Fatalf("Invalid energy: %s. Use 'low', 'steady', or 'high'", energyRaw)
		}
		context, ok := planner.ParseContext(contextRaw)
		if !ok {
			log.Fatalf("Invalid context: %s. Use 'desk' or 'mobile'", contextRaw)
		}
		goal, ok := planner.ParseGoal(goalRaw)
		if !ok {
			log.Fatalf("Invalid goal: %s. Use 'consistency', 'depth', or 'restart'", goalRaw)
		}

		rec, found := planner.RecommendPreset(planner.Presets, planner.Profile{
			Energy: energy, Context: context, Goal: goal,
		})
		if !found {
			log.Fatal("No presets available")
		}

		fmt.Printf("%s %s (%d%% match)\n", rec.Preset.Icon, rec.Preset.Name, rec.Confidence)
		fmt.Printf("  %s\n", rec.Preset.Description)
		for _, reason := range rec.Reasons {
			fmt.Printf("  - %s\n", reason)
		}
		fmt.Printf("  Settings: focus %dm, short %dm, long %dm, long break every %d\n",
			rec.Preset.Settings.Focus, rec.Preset.Settings.ShortBreak,
			rec.Preset.Settings.LongBreak, rec.Preset.Settings.LongBreakInterval)

		if apply, _ := cmd.Flags().GetBool("apply"); apply {
			sendCommand(ipc.Command{Name: ipc.CmdUpdateSettings, Args: ipc.UpdateSettingsArgs{
				Focus:             fmt.Sprintf("%d", rec.Preset.Settings.Focus),
				ShortBreak:        fmt.Sprintf("%d", rec.Preset.Settings.ShortBreak),
				LongBreak:         fmt.Sprintf("%d", rec.Preset.Settings.LongBreak),
				LongBreakInterval: fmt.Sprintf("%d", rec.Preset.Settings.LongBreakInterval),
			}})
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", ipc.DefaultSocketPath, "Path to the daemon's unix socket")

	modeCmd.AddCommand(modeSetCmd)
	timerCmd.AddCommand(timerToggleCmd, timerResetCmd)
	taskCmd.AddCommand(taskAddCmd, taskToggleCmd, taskDeleteCmd, taskListCmd)

	settingsSetCmd.Flags().String("focus", "", "Focus minutes (10-90)")
	settingsSetCmd.Flags().String("short", "", "Short break minutes (1-30)")
	settingsSetCmd.Flags().String("long", "", "Long break minutes (5-60)")
	settingsSetCmd.Flags().String("interval", "", "Focus sessions between long breaks (2-8)")
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd, settingsResetCmd)

	planCmd.Flags().Int("minutes", 120, "Planning window in minutes (60-360)")
	planCmd.Flags().String("preset", "", "Plan with a preset's settings instead of the current ones")
	planPresetsCmd.Flags().Int("minutes", 120, "Planning window in minutes (60-360)")
	planPresetsCmd.Flags().String("sort", string(planner.SortBestFit), "Sort mode: best-fit, xp-hour, or fast-finish")
	planRecommendCmd.Flags().String("energy", "steady", "Current energy: low, steady, or high")
	planRecommendCmd.Flags().String("context", "desk", "Where you'll work: desk or mobile")
	planRecommendCmd.Flags().String("goal", "consistency", "What you're after: consistency, depth, or restart")
	planRecommendCmd.Flags().Bool("apply", false, "Apply the recommended preset's settings to the daemon")
	planCmd.AddCommand(planPresetsCmd, planRecommendCmd, planBlueprintsCmd)

	rootCmd.AddCommand(pingCmd, statusCmd, modeCmd, timerCmd, taskCmd, settingsCmd, statsCmd, levelCmd, planCmd)
}

func main() {
	log.SetFlags(0)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package planner

import "focusloop/internal/session"

// Audience tags which launch context a preset suits.
type Audience string

const (
	AudienceDesk   Audience = "desk"
	AudienceMobile Audience = "mobile"
	AudienceReset  Audience = "reset"
)

// TaskTemplate is a ready-made starter task shipped with a preset.
type TaskTemplate struct {
	Icon string `json:"icon"`
	Text string `json:"text"`
}

// Preset is a curated settings bundle with the guidance that ships
// alongside it.
type Preset struct {
	ID            string           `json:"id"`
	Icon          string           `json:"icon"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Outcome       string           `json:"outcome"`
	IdealFor      []string         `json:"idealFor"`
	Audience      []Audience       `json:"audience"`
	MomentumTip   string           `json:"momentumTip"`
	TaskTemplates []TaskTemplate   `json:"taskTemplates"`
	Settings      session.Settings `json:"settings"`
}

// Presets is the curated catalog, ordered as presented to users.
var Presets = []Preset{
	{
		ID:          "student-revision",
		Icon:        "🎓",
		Name:        "Student Revision",
		Description: "Steady pace for lectures, homework, and exam prep.",
		Outcome:     "Best for consistency over long study days.",
		IdealFor:    []string{"Exam prep", "Lecture backlog", "Balanced energy"},
		Audience:    []Audience{AudienceDesk},
		MomentumTip: "Batch 2-3 related chapters per cycle to avoid context switching.",
		TaskTemplates: []TaskTemplate{
			{Icon: "🧠", Text: "Summarize one chapter into 10 active-recall prompts"},
			{Icon: "✍️", Text: "Complete one past-paper section and mark weak spots"},
			{Icon: "📌", Text: "Create a 15-card flashcard set for today's topic"},
		},
		Settings: session.Settings{Focus: 25, ShortBreak: 5, LongBreak: 15, LongBreakInterval: 4},
	},
	{
		ID:          "deep-work",
		Icon:        "🧠",
		Name:        "Deep Work Sprint",
		Description: "Longer focus windows for coding or writing sessions.",
		Outcome:     "Fewer switches, more deep concentration.",
		IdealFor:    []string{"Feature shipping", "Writing drafts", "High clarity windows"},
		Audience:    []Audience{AudienceDesk},
		MomentumTip: "Define one hard outcome before pressing start to protect the block.",
		TaskTemplates: []TaskTemplate{
			{Icon: "🛠️", Text: "Ship one feature slice end-to-end (build + test + commit)"},
			{Icon: "🧪", Text: "Close one edge-case bug and add regression coverage"},
			{Icon: "📝", Text: "Draft and finalize one high-leverage design note"},
		},
		Settings: session.Settings{Focus: 50, ShortBreak: 10, LongBreak: 20, LongBreakInterval: 3},
	},
	{
		ID:          "high-energy",
		Icon:        "⚡",
		Name:        "High-Energy Loop",
		Description: "Short cycles for quick wins when motivation is low.",
		Outcome:     "Fast momentum when energy is scattered.",
		IdealFor:    []string{"Low motivation", "Task anxiety", "Quick restart days"},
		Audience:    []Audience{AudienceDesk, AudienceReset},
		MomentumTip: "Aim for 3 fast wins first; confidence usually rebounds by session 2.",
		TaskTemplates: []TaskTemplate{
			{Icon: "✅", Text: "Finish one avoided 15-minute starter task"},
			{Icon: "🧹", Text: "Clear your top-priority inbox or notes backlog batch"},
			{Icon: "📍", Text: "Set tomorrow's first action and prep all materials"},
		},
		Settings: session.Settings{Focus: 15, ShortBreak: 3, LongBreak: 10, LongBreakInterval: 4},
	},
	{
		ID:          "mobile-commute",
		Icon:        "🚇",
		Name:        "Commute Micro-Sprints",
		Description: "Phone-friendly loops for trains, buses, and waiting windows.",
		Outcome:     "Turn fragmented travel time into measurable progress.",
		IdealFor:    []string{"Transit sessions", "Errand gaps", "On-the-go planning"},
		Audience:    []Audience{AudienceMobile, AudienceReset},
		MomentumTip: "Queue bite-sized tasks before leaving home so you can start instantly.",
		TaskTemplates: []TaskTemplate{
			{Icon: "📱", Text: "Process and archive one quick message triage batch"},
			{Icon: "🎧", Text: "Review one audio lesson and capture 3 key takeaways"},
			{Icon: "🗂️", Text: "Organize tomorrow's top 3 priorities in notes"},
		},
		Settings: session.Settings{Focus: 10, ShortBreak: 2, LongBreak: 8, LongBreakInterval: 5},
	},
	{
		ID:          "meeting-buffer",
		Icon:        "🗓️",
		Name:        "Meeting Buffer Flow",
		Description: "Structured blocks for days split by meetings and context switching.",
		Outcome:     "Protect maker time between calls while staying responsive.",
		IdealFor:    []string{"Meeting-heavy days", "Context switching", "Office or hybrid schedules"},
		Audience:    []Audience{AudienceDesk, AudienceMobile},
		MomentumTip: "Anchor one must-ship output in every 2 focus blocks to avoid meeting-day drift.",
		TaskTemplates: []TaskTemplate{
			{Icon: "📦", Text: "Ship one scoped deliverable before your next meeting starts"},
			{Icon: "📝", Text: "Write agenda + decisions for the next meeting in one draft"},
			{Icon: "📬", Text: "Process follow-ups from your last meeting and close top 3 actions"},
		},
		Settings: session.Settings{Focus: 20, ShortBreak: 5, LongBreak: 12, LongBreakInterval: 3},
	},
}

// PresetByID looks up a preset in the catalog.
func PresetByID(id string) (Preset, bool) {
	for _, p := range Presets {
		if p.ID == id {
			return p, true
		}
	}
	return Preset{}, false
}

// Blueprint maps a desired outcome to the preset that delivers it.
type Blueprint struct {
	ID       string `json:"id"`
	Icon     string `json:"icon"`
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	PresetID string `json:"presetId"`
}

// Blueprints is the outcome-first index into the preset catalog.
var Blueprints = []Blueprint{
	{"exam-week", "📚", "Exam Week Coverage", "Sustain 4-6 hours/day without burnout.", "student-revision"},
	{"ship-feature", "🚀", "Ship a Feature Fast", "Protect deep blocks and reduce context switching.", "deep-work"},
	{"reset-momentum", "🪫", "Recover Momentum", "Use shorter loops to rebuild consistency.", "high-energy"},
	{"commute-bites", "📱", "Make Commute Time Count", "Ship bite-sized wins from your phone during transit.", "mobile-commute"},
	{"meeting-day-ship", "🗓️", "Ship Between Meetings", "Protect delivery windows across a call-heavy day.", "meeting-buffer"},
}

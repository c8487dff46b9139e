package ipc

// DefaultSocketPath is where the daemon listens unless overridden by
// configuration.
const DefaultSocketPath = "/tmp/focusloop.sock"

// Command represents a command sent over the socket.
type Command struct {
	Name string `json:"name"`
	Args any    `json:"args,omitempty"`
}

// Response represents a response sent back over the socket.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// --- Command Argument Structs ---

type SetModeArgs struct {
	Mode string `json:"mode"` // focus, shortBreak, longBreak
}

type AddTaskArgs struct {
	Text string `json:"text"`
}

type TaskIDArgs struct {
	ID string `json:"id"`
}

type UpdateSettingsArgs struct {
	Focus             string `json:"focus"`
	ShortBreak        string `json:"shortBreak"`
	LongBreak         string `json:"longBreak"`
	LongBreakInterval string `json:"longBreakInterval"`
}

// --- Command Names ---

const (
	CmdPing           = "ping"
	CmdState          = "state"
	CmdSetMode        = "set_mode"
	CmdToggleTimer    = "toggle_timer"
	CmdResetTimer     = "reset_timer"
	CmdAddTask        = "add_task"
	CmdToggleTask     = "toggle_task"
	CmdDeleteTask     = "delete_task"
	CmdUpdateSettings = "update_settings"
	CmdResetSettings  = "reset_settings"
)

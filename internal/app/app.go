package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"focusloop/internal/clock"
	"focusloop/internal/config"
	"focusloop/internal/ipc"
	"focusloop/internal/notify"
	"focusloop/internal/repository"
	"focusloop/internal/session"
	"focusloop/internal/storage"
	"focusloop/internal/storage/sqlite"
)

// App is the daemon shell: it owns the controller, the storage backend,
// and the command socket through which the CLI drives the core.
type App struct {
	cfg        *config.Config
	store      storage.Store
	controller *Controller

	socketPath string
	listener   *net.UnixListener

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc

	// Latest snapshot, retained for the state command.
	latestState State
	stateMutex  sync.RWMutex
}

func NewApp(cfg *config.Config) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		cfg:        cfg,
		socketPath: cfg.SocketPath,
		ctx:        ctx,
		cancel:     cancel,
	}

	store := sqlite.New(cfg.DatabasePath)
	if err := store.Init(ctx); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	a.store = store

	var notifier notify.Notifier = notify.NewDesktop()
	if !cfg.NotificationsEnabled {
		notifier = notify.Nop{}
	}

	a.controller = NewController(
		Repos{
			Stats:    repository.NewStats(store),
			Settings: repository.NewSettings(store),
			Tasks:    repository.NewTasks(store),
			History:  repository.NewHistory(store),
		},
		notifier,
		clock.NewReal(),
		a.onState,
	)

	return a, nil
}

// onState retains the newest snapshot; it must not call back into the
// controller.
func (a *App) onState(state State) {
	a.stateMutex.Lock()
	a.latestState = state
	a.stateMutex.Unlock()
}

// setupSocket checks for an existing socket and creates the listener.
func (a *App) setupSocket() error {
	if _, err := os.Stat(a.socketPath); err == nil {
		conn, err := net.DialTimeout("unix", a.socketPath, 1*time.Second)
		if err == nil {
			conn.Close()
			return fmt.Errorf("socket %s already active, another instance might be running", a.socketPath)
		}
		log.Printf("Stale socket file found at %s, removing.", a.socketPath)
		if err := os.Remove(a.socketPath); err != nil {
			return fmt.Errorf("failed to remove stale socket file %s: %w", a.socketPath, err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("error checking socket file %s: %w", a.socketPath, err)
	}

	addr, err := net.ResolveUnixAddr("unix", a.socketPath)
	if err != nil {
		return fmt.Errorf("failed to resolve unix addr %s: %w", a.socketPath, err)
	}

	listener, err := net.ListenUnix("unix", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on socket %s: %w", a.socketPath, err)
	}

	a.listener = listener
	log.Printf("Listening for commands on %s", a.socketPath)
	return nil
}

// listenForCommands accepts connections and handles them.
func (a *App) listenForCommands() {
	defer a.wg.Done()
	defer log.Println("Socket command listener stopped.")

	for {
		conn, err := a.listener.AcceptUnix()
		if err != nil {
			select {
			case <-a.ctx.Done():
				return // Expected error on shutdown
			default:
				log.Printf("Failed to accept connection: %v", err)
				if ne, ok := err.(net.Error); ok && !ne.Temporary() {
					log.Printf("Non-temporary accept error, stopping listener.")
					return
				}
				time.Sleep(100 * time.Millisecond)
			}
			continue
		}
		a.wg.Add(1)
		go a.handleConnection(conn)
	}
}

// handleConnection reads one command, processes it, and sends a response.
func (a *App) handleConnection(conn *net.UnixConn) {
	defer conn.Close()
	defer a.wg.Done()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	decoder := json.NewDecoder(conn)
	encoder := json.NewEncoder(conn)

	var cmd ipc.Command
	if err := decoder.Decode(&cmd); err != nil {
		if err != io.EOF {
			log.Printf("Failed to decode command: %v", err)
		}
		_ = encoder.Encode(ipc.Response{Success: false, Message: "Failed to decode command: " + err.Error()})
		return
	}

	conn.SetReadDeadline(time.Time{})
	conn.SetWriteDeadline(time.Now().Add(5 * time.Second))

	response := a.processCommand(cmd)

	if err := encoder.Encode(response); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

// processCommand routes the command to the controller. Controller calls
// serialize internally, so each command is one complete logical turn.
func (a *App) processCommand(cmd ipc.Command) ipc.Response {
	switch cmd.Name {
	case ipc.CmdPing:
		return ipc.Response{Success: true, Message: "pong"}

	case ipc.CmdState:
		a.stateMutex.RLock()
		state := a.latestState
		a.stateMutex.RUnlock()
		return ipc.Response{Success: true, Data: state}

	case ipc.CmdSetMode:
		var args ipc.SetModeArgs
		if err := mapToStruct(cmd.Args, &args); err != nil {
			return ipc.Response{Success: false, Message: fmt.Sprintf("Invalid args for %s: %v", cmd.Name, err)}
		}
		mode := session.Mode(args.Mode)
		if !mode.Valid() {
			return ipc.Response{Success: false, Message: "Invalid mode specified"}
		}
		a.controller.SetMode(mode)
		return ipc.Response{Success: true, Message: fmt.Sprintf("Mode set to %s", mode)}

	case ipc.CmdToggleTimer:
		a.controller.ToggleTimer()
		return ipc.Response{Success: true, Message: "Timer toggled"}

	case ipc.CmdResetTimer:
		a.controller.ResetTimer()
		return ipc.Response{Success: true, Message: "Timer reset"}

	case ipc.CmdAddTask:
		var args ipc.AddTaskArgs
		if err := mapToStruct(cmd.Args, &args); err != nil {
			return ipc.Response{Success: false, Message: fmt.Sprintf("Invalid args for %s: %v", cmd.Name, err)}
		}
		if args.Text == "" {
			return ipc.Response{Success: false, Message: "Task text cannot be empty"}
		}
		a.controller.AddTask(args.Text)
		return ipc.Response{Success: true, Message: fmt.Sprintf("Task added: %s", args.Text)}

	case ipc.CmdToggleTask:
		var args ipc.TaskIDArgs
		if err := mapToStruct(cmd.Args, &args); err != nil {
			return ipc.Response{Success: false, Message: fmt.Sprintf("Invalid args for %s: %v", cmd.Name, err)}
		}
		a.controller.ToggleTask(args.ID)
		return ipc.Response{Success: true, Message: "Task toggled"}

	case ipc.CmdDeleteTask:
		var args ipc.TaskIDArgs
		if err := mapToStruct(cmd.Args, &args); err != nil {
			return ipc.Response{Success: false, Message: fmt.Sprintf("Invalid args for %s: %v", cmd.Name, err)}
		}
		a.controller.DeleteTask(args.ID)
		return ipc.Response{Success: true, Message: "Task deleted"}

	case ipc.CmdUpdateSettings:
		var args ipc.UpdateSettingsArgs
		if err := mapToStruct(cmd.Args, &args); err != nil {
			return ipc.Response{Success: false, Message: fmt.Sprintf("Invalid args for %s: %v", cmd.Name, err)}
		}
		result := a.controller.UpdateSettings(SettingsCandidate{
			Focus:             args.Focus,
			ShortBreak:        args.ShortBreak,
			LongBreak:         args.LongBreak,
			LongBreakInterval: args.LongBreakInterval,
		})
		return ipc.Response{Success: result.OK, Message: result.Message, Data: result}

	case ipc.CmdResetSettings:
		result := a.controller.ResetSettingsToDefaults()
		return ipc.Response{Success: true, Message: result.Message}

	default:
		return ipc.Response{Success: false, Message: fmt.Sprintf("Unknown command: %s", cmd.Name)}
	}
}

// mapToStruct converts the decoded args map into the expected struct.
func mapToStruct(input any, output any) error {
	if input == nil {
		return nil
	}
	jsonBytes, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("failed to marshal args map: %w", err)
	}
	if err := json.Unmarshal(jsonBytes, output); err != nil {
		return fmt.Errorf("failed to unmarshal args into struct: %w", err)
	}
	return nil
}

func (a *App) Run() error {
	defer a.cleanup()

	log.Println("Starting focusloop daemon...")
	log.Printf("Config: %+v", a.cfg)

	if err := a.setupSocket(); err != nil {
		return err
	}

	a.handleSignals()
	a.controller.Initialize()

	a.wg.Add(1)
	go a.listenForCommands()

	log.Println("focusloop daemon running. Send commands via focusloop-cli or socket.")
	<-a.ctx.Done()

	log.Println("Shutdown signal received, waiting for components...")

	// Close the listener before waiting so accept() returns.
	if a.listener != nil {
		if err := a.listener.Close(); err != nil {
			log.Printf("Error closing socket listener: %v", err)
		}
	}

	waitChan := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(waitChan)
	}()

	select {
	case <-waitChan:
		log.Println("All application goroutines finished.")
	case <-time.After(5 * time.Second):
		log.Println("Warning: Timeout waiting for application goroutines to stop.")
	}

	log.Println("focusloop daemon finished.")
	return nil
}

func (a *App) handleSignals() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Printf("Received signal: %v. Initiating shutdown...", sig)
		a.cancel()
	}()
}

func (a *App) cleanup() {
	log.Println("Running cleanup...")

	if a.controller != nil {
		a.controller.Dispose()
	}

	if a.store != nil {
		if err := a.store.Close(); err != nil {
			log.Printf("Error closing storage: %v", err)
		}
	}

	if _, err := os.Stat(a.socketPath); err == nil {
		log.Printf("Removing socket file: %s", a.socketPath)
		if err := os.Remove(a.socketPath); err != nil {
			log.Printf("Warning: Failed to remove socket file %s: %v", a.socketPath, err)
		}
	}

	log.Println("Cleanup finished.")
}

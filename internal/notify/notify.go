// Package notify wraps desktop notifications behind a collaborator that
// never propagates platform failures back into the core.
package notify

import (
	"log"

	"github.com/gen2brain/beeep"
)

// Notifier is the notification collaborator. Init is best-effort and
// fire-and-forget; Notify must never fail back into the caller.
type Notifier interface {
	Init()
	Notify(message string)
}

const appName = "focusloop"

// Desktop sends notifications through the platform notification service.
// Missing platform support is silently tolerated.
type Desktop struct{}

func NewDesktop() Desktop { return Desktop{} }

func (Desktop) Init() {
	beeep.AppName = appName
}

func (Desktop) Notify(message string) {
	if err := beeep.Notify(appName, message, ""); err != nil {
		// Absence of a notification backend is not an error worth surfacing.
		log.Printf("Notification suppressed: %v", err)
	}
}

// Nop discards all notifications. Used in tests and headless runs.
type Nop struct{}

func (Nop) Init() {}

func (Nop) Notify(message string) {}

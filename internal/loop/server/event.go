package server

import "github.com/tomz197/blaster/internal/economy"

// EventKind names a player intent.
type EventKind string

const (
	EventAim      EventKind = "aim"      // Move the player to X, Y
	EventFire     EventKind = "fire"     // Shoot one volley
	EventPause    EventKind = "pause"    // Toggle pause
	EventStart    EventKind = "start"    // Begin a new run
	EventShop     EventKind = "shop"     // Open the shop from the menu
	EventMenu     EventKind = "menu"     // Return to the menu
	EventPurchase EventKind = "purchase" // Buy Upgrade
)

// Event is one input intent from a client. Aim uses X and Y, Purchase uses
// Upgrade, the rest carry nothing.
type Event struct {
	Kind    EventKind       `json:"type"`
	X       float64         `json:"x,omitempty"`
	Y       float64         `json:"y,omitempty"`
	Upgrade economy.Upgrade `json:"upgrade,omitempty"`
}

// AimAt builds an aim event.
func AimAt(x, y float64) Event {
	return Event{Kind: EventAim, X: x, Y: y}
}

// Buy builds a purchase event.
func Buy(u economy.Upgrade) Event {
	return Event{Kind: EventPurchase, Upgrade: u}
}

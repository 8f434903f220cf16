package client

import (
	"github.com/tomz197/blaster/internal/economy"
	"github.com/tomz197/blaster/internal/input"
	"github.com/tomz197/blaster/internal/loop/config"
	"github.com/tomz197/blaster/internal/loop/server"
)

// ClientState holds what the client remembers between frames.
type ClientState struct {
	Input      input.Input
	Running    bool
	prevMode   server.Mode // Mode drawn last frame; a change forces a full clear
	prevPaused bool
	drawnOnce  bool
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{Running: true}
}

// eventsFor maps one frame of key state to intents for the current screen.
// Screen switches and purchases are edge triggered; aiming follows held keys.
func eventsFor(in input.Input, snap *server.Snapshot) []server.Event {
	var events []server.Event

	switch snap.Mode {
	case server.ModeMenu:
		switch {
		case in.Tapped('\r', '\n', ' '):
			events = append(events, server.Event{Kind: server.EventStart})
		case in.Tapped('u', 'U'):
			events = append(events, server.Event{Kind: server.EventShop})
		}

	case server.ModeShop:
		if in.Tapped('1') {
			events = append(events, server.Buy(economy.UpgradeDamage))
		}
		if in.Tapped('2') {
			events = append(events, server.Buy(economy.UpgradeFireRate))
		}
		if in.Tapped('m', 'M', 'b', 'B', '\x1b') {
			events = append(events, server.Event{Kind: server.EventMenu})
		}

	case server.ModeGameOver:
		switch {
		case in.Tapped('\r', '\n', ' '):
			events = append(events, server.Event{Kind: server.EventStart})
		case in.Tapped('m', 'M', 'b', 'B'):
			events = append(events, server.Event{Kind: server.EventMenu})
		}

	case server.ModePlaying:
		if in.Tapped('p', 'P') {
			events = append(events, server.Event{Kind: server.EventPause})
			return events
		}
		if snap.Paused {
			return events
		}

		var dx, dy float64
		if in.Left {
			dx--
		}
		if in.Right {
			dx++
		}
		if in.Up {
			dy--
		}
		if in.Down {
			dy++
		}
		if dx != 0 || dy != 0 {
			step := config.AimStep * snap.Player.Speed
			events = append(events, server.AimAt(snap.Player.X+dx*step, snap.Player.Y+dy*step))
		}
		if in.Tapped(' ') {
			events = append(events, server.Event{Kind: server.EventFire})
		}
	}
	return events
}

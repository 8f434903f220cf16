// Package input turns a raw terminal byte stream into per-frame key state.
package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
// Terminals only report repeats, so a held arrow looks like a burst of presses.
const keyHoldDuration = 60 * time.Millisecond

// Input represents the current frame's input state.
type Input struct {
	Quit   bool
	Left   bool
	Right  bool
	Up     bool
	Down   bool
	Space  bool
	Enter  bool
	Pause  bool
	Shop   bool
	Menu   bool
	Number int // Last digit pressed this frame, -1 if none

	// Pressed holds the raw bytes read this frame. Held-state flags above stay
	// true for keyHoldDuration; use Pressed for edge-triggered actions.
	Pressed []byte
}

// Tapped reports whether any of keys arrived this frame.
func (in Input) Tapped(keys ...byte) bool {
	for _, b := range in.Pressed {
		for _, k := range keys {
			if b == k {
				return true
			}
		}
	}
	return false
}

// keyState tracks the last time each held key was pressed.
type keyState struct {
	quit  time.Time
	left  time.Time
	right time.Time
	up    time.Time
	down  time.Time
	space time.Time
	enter time.Time
	pause time.Time
	shop  time.Time
	menu  time.Time
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch     chan byte
	state  keyState
	closed bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := newStream()
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

func newStream() *Stream {
	return &Stream{ch: make(chan byte, 128)}
}

// Closed reports whether the underlying reader has hit EOF or an error.
func (s *Stream) Closed() bool {
	return s.closed
}

// ResetKeyInput forgets all held keys, so a key used to switch screens does
// not leak into the next one.
func ResetKeyInput(s *Stream) {
	s.state = keyState{}
}

// ReadInput drains all available bytes from the stream (non-blocking).
// Handles escape sequences for arrow keys and accumulates all pressed keys.
func ReadInput(s *Stream) Input {
	now := time.Now()
	var buf []byte

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	return parse(&s.state, buf, now)
}

// parse applies buf to the key state and builds the frame's Input.
func parse(state *keyState, buf []byte, now time.Time) Input {
	number := -1
	var pressed []byte

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI sequence: ESC [ <code>
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'A':
				state.up = now
			case 'B':
				state.down = now
			case 'C':
				state.right = now
			case 'D':
				state.left = now
			}
			i += 2
			continue
		}

		pressed = append(pressed, b)
		if b >= '0' && b <= '9' {
			number = int(b - '0')
		}
		applyByteToState(state, b, now)
	}

	held := func(t time.Time) bool { return now.Sub(t) < keyHoldDuration }
	return Input{
		Quit:    held(state.quit),
		Left:    held(state.left),
		Right:   held(state.right),
		Up:      held(state.up),
		Down:    held(state.down),
		Space:   held(state.space),
		Enter:   held(state.enter),
		Pause:   held(state.pause),
		Shop:    held(state.shop),
		Menu:    held(state.menu),
		Number:  number,
		Pressed: pressed,
	}
}

// applyByteToState updates the key state timestamps based on the pressed byte.
func applyByteToState(state *keyState, b byte, now time.Time) {
	switch b {
	case 'q', 'Q', '\x03': // Ctrl+C in raw mode
		state.quit = now
	case 'a', 'A', 'h', 'H':
		state.left = now
	case 'd', 'D', 'l', 'L':
		state.right = now
	case 'w', 'W', 'k', 'K':
		state.up = now
	case 's', 'S', 'j', 'J':
		state.down = now
	case ' ':
		state.space = now
	case '\n', '\r':
		state.enter = now
	case 'p', 'P':
		state.pause = now
	case 'u', 'U':
		state.shop = now
	case 'm', 'M', 'b', 'B':
		state.menu = now
	}
}

package input

import (
	"bufio"
	"strings"
	"testing"
	"time"
)

func TestParseArrowsAndLetters(t *testing.T) {
	var st keyState
	now := time.Now()

	in := parse(&st, []byte("\x1b[A\x1b[Dp2"), now)

	if !in.Up || !in.Left || in.Right || in.Down {
		t.Fatalf("arrows = up %v left %v right %v down %v", in.Up, in.Left, in.Right, in.Down)
	}
	if !in.Pause {
		t.Fatalf("p should set Pause")
	}
	if in.Number != 2 {
		t.Fatalf("Number = %d, want 2", in.Number)
	}
	if string(in.Pressed) != "p2" {
		t.Fatalf("Pressed = %q, escape sequences should be stripped", in.Pressed)
	}
}

func TestHeldKeysExpire(t *testing.T) {
	var st keyState
	now := time.Now()

	parse(&st, []byte("d"), now)
	if in := parse(&st, nil, now.Add(keyHoldDuration/2)); !in.Right {
		t.Fatalf("key released too early")
	}
	if in := parse(&st, nil, now.Add(keyHoldDuration)); in.Right {
		t.Fatalf("key still held after %v", keyHoldDuration)
	}
	if in := parse(&st, nil, now); in.Number != -1 || len(in.Pressed) != 0 {
		t.Fatalf("empty frame = %+v", in)
	}
}

func TestTapped(t *testing.T) {
	in := Input{Pressed: []byte("xu ")}
	if !in.Tapped('u', 'U') {
		t.Fatalf("u not tapped")
	}
	if in.Tapped('q') {
		t.Fatalf("q reported tapped")
	}
}

func TestStreamDrainsAndCloses(t *testing.T) {
	s := StartStream(bufio.NewReader(strings.NewReader("q")))

	deadline := time.Now().Add(time.Second)
	var quit bool
	for !s.Closed() && time.Now().Before(deadline) {
		quit = quit || ReadInput(s).Quit
		time.Sleep(time.Millisecond)
	}
	if !s.Closed() {
		t.Fatalf("stream not closed after EOF")
	}
	if !quit {
		t.Fatalf("q never observed")
	}

	ResetKeyInput(s)
	if ReadInput(s).Quit {
		t.Fatalf("reset did not clear held keys")
	}
}

// Package client renders a session to an ANSI terminal and turns key presses
// into input events.
package client

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/blaster/internal/draw"
	"github.com/tomz197/blaster/internal/input"
	"github.com/tomz197/blaster/internal/loop/config"
	"github.com/tomz197/blaster/internal/loop/server"
)

// Client handles rendering and input for a single connection.
type Client struct {
	server       server.GameServer
	state        *ClientState
	canvas       *draw.Canvas
	frame        *draw.Frame // Pending output of the current update
	writer       io.Writer
	inputStream  *input.Stream
	termSizeFunc draw.TermSizeFunc
	logger       *log.Logger
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Logger       *log.Logger
}

// NewClient creates a new client connected to the given server.
func NewClient(gs server.GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	snap := gs.GetSnapshot()
	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, snap.Field.Width, snap.Field.Height)
	canvas.SetOffset(offsetCol, offsetRow)

	return &Client{
		server:       gs,
		state:        NewClientState(),
		canvas:       canvas,
		frame:        draw.NewFrame(w, offsetCol, offsetRow),
		writer:       w,
		inputStream:  input.StartStream(r),
		termSizeFunc: termSizeFunc,
		logger:       logger,
	}
}

// Run starts the client loop. Blocks until the player quits, the input
// stream ends, or ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	io.WriteString(c.writer, draw.EscHideCursor)
	defer io.WriteString(c.writer, draw.EscShowCursor)
	io.WriteString(c.writer, draw.EscClear)

	for c.state.Running {
		frameStart := time.Now()

		select {
		case <-ctx.Done():
			c.state.Running = false
			continue
		default:
		}

		c.processInput()
		c.updateScreen()

		if err := c.drawFrame(); err != nil {
			return err
		}

		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	io.WriteString(c.writer, draw.EscClear)
	return nil
}

// processInput reads input and forwards the resulting events to the server.
func (c *Client) processInput() {
	c.state.Input = input.ReadInput(c.inputStream)

	if c.state.Input.Tapped('q', 'Q', '\x03') || c.inputStream.Closed() {
		c.state.Running = false
		return
	}

	for _, ev := range eventsFor(c.state.Input, c.server.GetSnapshot()) {
		c.server.SendInput(ev)
		if ev.Kind == server.EventStart || ev.Kind == server.EventMenu || ev.Kind == server.EventShop {
			input.ResetKeyInput(c.inputStream)
		}
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		io.WriteString(c.writer, draw.EscClear)
		c.canvas.ForceRedraw()
		c.logger.Debug("terminal resized", "width", termWidth, "height", termHeight)
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.frame.SetOrigin(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, config.MaxTermWidth)
	renderHeight = min(termHeight, config.MaxTermHeight)
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

package draw

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/term"
)

// Escape sequences for whole-screen control.
const (
	EscClear      = "\033[H\033[2J"
	EscHideCursor = "\033[?25l"
	EscShowCursor = "\033[?25h"
)

// Frame collects everything drawn during one screen update: canvas output
// written through io.Writer and text placed with Text or Centered. Nothing
// reaches the terminal until Flush, which sends the frame in chunks of at
// most maxChunkSize bytes so a slow SSH channel never sees one huge write.
type Frame struct {
	pending bytes.Buffer
	out     *bufio.Writer
	col     int // Added to every text column
	row     int // Added to every text row
}

var _ io.Writer = (*Frame)(nil)

// NewFrame creates a frame that flushes to w, with text positions shifted
// by (col, row).
func NewFrame(w io.Writer, col, row int) *Frame {
	return &Frame{out: bufio.NewWriterSize(w, 8192), col: col, row: row}
}

// SetOrigin changes the shift applied to text positions, matching the canvas
// offset after a resize.
func (f *Frame) SetOrigin(col, row int) {
	f.col, f.row = col, row
}

// Write appends raw terminal output.
func (f *Frame) Write(p []byte) (int, error) {
	return f.pending.Write(p)
}

// Text places s with its first rune at the 1-based position (col, row).
func (f *Frame) Text(col, row int, s string) {
	f.pending.WriteString(cursor(col+f.col, row+f.row))
	f.pending.WriteString(s)
}

// Centered places s so that its middle rune sits on column mid. Text never
// starts left of column 1.
func (f *Frame) Centered(mid, row int, s string) {
	f.Text(max(mid-utf8.RuneCountInString(s)/2, 1), row, s)
}

// Flush sends the frame and starts an empty one.
func (f *Frame) Flush() error {
	writeChunked(f.out, f.pending.String())
	f.pending.Reset()
	return f.out.Flush()
}

// TermSizeFunc reports the terminal size in cells.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc measures the terminal attached to stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

package draw

import (
	"bytes"
	"io"
	"os"
	"strconv"

	"golang.org/x/term"
)

// BlockUpperHalf is the glyph every canvas cell is drawn with: foreground
// colours the top sub-pixel, background the bottom one.
const BlockUpperHalf = '▀'

// Escape sequences
const (
	styleReset   = "\033[0m"
	styleDim     = "\033[2m"
	clearScreen  = "\033[H\033[2J"
	hideCursor   = "\033[?25l"
	showCursor   = "\033[?25h"
	mouseOn      = "\033[?1003h\033[?1006h" // Any-motion tracking, SGR encoding
	mouseOff     = "\033[?1006l\033[?1003l"
	maxChunkSize = 1400 // Stays under a typical MTU on SSH channels
)

// TermSizeFunc reports terminal dimensions in cells.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc reads the size of os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// SetupTerminal hides the cursor, turns on mouse reporting and clears the
// screen. RestoreTerminal undoes it.
func SetupTerminal(w io.Writer) error {
	_, err := io.WriteString(w, hideCursor+mouseOn+clearScreen)
	return err
}

// RestoreTerminal turns mouse reporting off, resets colours, shows the
// cursor and clears the screen.
func RestoreTerminal(w io.Writer) error {
	_, err := io.WriteString(w, mouseOff+styleReset+showCursor+clearScreen)
	return err
}

// FrameWriter collects one frame of terminal output and sends it on Flush.
// Cursor positions passed to WriteAt are 1-based and shifted by the offset,
// which centres a clamped canvas in a larger terminal.
type FrameWriter struct {
	w      io.Writer
	buf    bytes.Buffer
	num    [20]byte
	offCol int
	offRow int
}

var _ io.Writer = (*FrameWriter)(nil)

// NewFrameWriter returns a FrameWriter sending to w.
func NewFrameWriter(w io.Writer, offsetCol, offsetRow int) *FrameWriter {
	return &FrameWriter{w: w, offCol: offsetCol, offRow: offsetRow}
}

// SetOffset changes the offset applied by WriteAt.
func (fw *FrameWriter) SetOffset(offsetCol, offsetRow int) {
	fw.offCol, fw.offRow = offsetCol, offsetRow
}

func (fw *FrameWriter) Write(p []byte) (int, error) {
	return fw.buf.Write(p)
}

// ClearScreen queues a style reset and a full clear.
func (fw *FrameWriter) ClearScreen() {
	fw.buf.WriteString(styleReset + clearScreen)
}

// WriteAt queues s at the given cell, dimmed when dim is set.
func (fw *FrameWriter) WriteAt(col, row int, s string, dim bool) {
	fw.buf.WriteString("\033[")
	fw.buf.Write(strconv.AppendInt(fw.num[:0], int64(row+fw.offRow), 10))
	fw.buf.WriteByte(';')
	fw.buf.Write(strconv.AppendInt(fw.num[:0], int64(col+fw.offCol), 10))
	fw.buf.WriteByte('H')
	if dim {
		fw.buf.WriteString(styleReset + styleDim)
	}
	fw.buf.WriteString(s)
	if dim {
		fw.buf.WriteString(styleReset)
	}
}

// Flush sends the queued frame in chunks of at most maxChunkSize bytes.
// The queue is emptied even when a write fails.
func (fw *FrameWriter) Flush() error {
	defer fw.buf.Reset()
	for data := fw.buf.Bytes(); len(data) > 0; {
		n := min(len(data), maxChunkSize)
		if _, err := fw.w.Write(data[:n]); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

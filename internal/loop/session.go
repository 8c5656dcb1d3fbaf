// Package loop runs the particle field inside a terminal: a raw ANSI
// session fed by a byte stream, used locally and once per SSH connection.
package loop

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/tomz197/particlefield/internal/config"
	"github.com/tomz197/particlefield/internal/draw"
	"github.com/tomz197/particlefield/internal/field"
	"github.com/tomz197/particlefield/internal/input"
)

const keyHint = " q quit · r reseed "

// Session renders one particle field to one terminal.
type Session struct {
	opts        Options
	field       *field.Field
	canvas      *draw.Canvas
	out         *draw.FrameWriter
	writer      io.Writer
	inputStream *input.Stream
	lastInput   time.Time
	frames      uint64
}

// NewSession creates a session reading input from r and drawing to w.
// The input goroutine starts immediately.
func NewSession(r *bufio.Reader, w io.Writer, opts Options) *Session {
	opts = opts.withDefaults()

	termWidth, termHeight, err := opts.TermSizeFunc()
	if err != nil {
		opts.Logger.Warn("terminal size unavailable, assuming 80x24", "err", err)
		termWidth, termHeight = 80, 24
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	lw, lh := logicalSize(renderWidth, renderHeight, opts)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, float64(lw), float64(lh))
	canvas.SetPalette(opts.Palette)
	canvas.SetOffset(offsetCol, offsetRow)

	return &Session{
		opts:        opts,
		field:       field.New(lw, lh, field.Options{Count: opts.Count, Rand: opts.Rand}),
		canvas:      canvas,
		out:         draw.NewFrameWriter(w, offsetCol, offsetRow),
		writer:      w,
		inputStream: input.StartStream(r),
		lastInput:   time.Now(),
	}
}

// Field exposes the session's field. Not safe to use while Run is active.
func (s *Session) Field() *field.Field {
	return s.field
}

// Frames returns how many frames have been drawn.
func (s *Session) Frames() uint64 {
	return s.frames
}

// Run drives the field until the user quits, the input ends, the idle
// timeout fires or ctx is cancelled. The terminal is restored on return.
func (s *Session) Run(ctx context.Context) error {
	if err := draw.SetupTerminal(s.writer); err != nil {
		return fmt.Errorf("set up terminal: %w", err)
	}
	defer func() {
		_ = draw.RestoreTerminal(s.writer)
	}()

	frameTime := s.opts.frameTime()
	w, h := s.field.Size()
	s.opts.Logger.Debug("session started", "width", w, "height", h, "particles", s.field.Len())

	for s.field.Running() {
		frameStart := time.Now()

		s.processInput()
		s.updateScreen()

		if !s.field.Frame(s.canvas) {
			break
		}
		s.frames++

		if err := s.canvas.Render(s.out); err != nil {
			return fmt.Errorf("render frame: %w", err)
		}
		s.drawHint()
		if err := s.out.Flush(); err != nil {
			return fmt.Errorf("write frame: %w", err)
		}

		// Frame timing
		wait := frameTime - time.Since(frameStart)
		if wait < 0 {
			wait = 0
		}
		select {
		case <-ctx.Done():
			s.field.Stop()
		case <-time.After(wait):
		}
	}

	s.opts.Logger.Debug("session ended", "frames", s.frames)
	return nil
}

// processInput applies pending input to the field.
func (s *Session) processInput() {
	in := input.ReadInput(s.inputStream)

	if len(in.Pressed) > 0 {
		s.lastInput = time.Now()
	} else if s.opts.IdleTimeout > 0 && time.Since(s.lastInput) > s.opts.IdleTimeout {
		s.opts.Logger.Info("idle timeout", "after", s.opts.IdleTimeout)
		s.field.Stop()
	}

	if in.HasMouse {
		col := in.Mouse.Col - s.canvas.OffsetCol()
		row := in.Mouse.Row - s.canvas.OffsetRow()
		s.field.MovePointer(s.canvas.TerminalToLogical(col, row))
	}
	if in.Reseed {
		s.field.Reinit()
	}
	if in.Quit || in.Closed {
		s.field.Stop()
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual cells
// outside the new canvas area.
func (s *Session) updateScreen() {
	termWidth, termHeight, err := s.opts.TermSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth == s.canvas.TerminalWidth() && renderHeight == s.canvas.TerminalHeight() &&
		offsetCol == s.canvas.OffsetCol() && offsetRow == s.canvas.OffsetRow() {
		return
	}

	lw, lh := logicalSize(renderWidth, renderHeight, s.opts)
	s.opts.Logger.Debug("resize", "cols", renderWidth, "rows", renderHeight, "width", lw, "height", lh)

	s.out.ClearScreen()
	s.canvas.Resize(renderWidth, renderHeight)
	s.canvas.SetLogicalSize(float64(lw), float64(lh))
	s.canvas.SetOffset(offsetCol, offsetRow)
	s.canvas.ForceRedraw()
	s.out.SetOffset(offsetCol, offsetRow)
	s.field.Resize(lw, lh)
}

// drawHint writes the key hint in the bottom-right corner.
func (s *Session) drawHint() {
	width := s.canvas.TerminalWidth()
	height := s.canvas.TerminalHeight()
	hintLen := len([]rune(keyHint))
	if width < hintLen || height < 2 {
		return
	}
	s.out.WriteAt(width-hintLen+1, height, keyHint, true)
}

// logicalSize returns the field dimensions for a render area.
func logicalSize(cols, rows int, opts Options) (width, height int) {
	return cols * opts.CellWidth, rows * opts.CellHeight
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = max(min(termWidth, config.MaxTermWidth), 0)
	renderHeight = max(min(termHeight, config.MaxTermHeight), 0)
	offsetCol = max((termWidth-renderWidth)/2, 0)
	offsetRow = max((termHeight-renderHeight)/2, 0)
	return
}

package loop

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/tomz197/particlefield/internal/draw"
	"github.com/tomz197/particlefield/internal/field"
)

// ScreenSession renders a particle field through a tcell.Screen. tcell
// delivers resize, mouse and key events itself, so no byte stream or size
// polling is involved.
type ScreenSession struct {
	opts   Options
	screen tcell.Screen
	field  *field.Field
	canvas *draw.Canvas
	frames uint64
}

// NewScreenSession prepares a session on an initialised screen.
// The caller keeps ownership of the screen and calls Fini.
func NewScreenSession(screen tcell.Screen, opts Options) *ScreenSession {
	opts = opts.withDefaults()

	cols, rows := screen.Size()
	lw, lh := logicalSize(cols, rows, opts)
	canvas := draw.NewScaledCanvas(cols, rows, float64(lw), float64(lh))
	canvas.SetPalette(opts.Palette)

	return &ScreenSession{
		opts:   opts,
		screen: screen,
		field:  field.New(lw, lh, field.Options{Count: opts.Count, Rand: opts.Rand}),
		canvas: canvas,
	}
}

// Field exposes the session's field. Not safe to use while Run is active.
func (s *ScreenSession) Field() *field.Field {
	return s.field
}

// Frames returns how many frames have been drawn.
func (s *ScreenSession) Frames() uint64 {
	return s.frames
}

// Run pumps screen events and draws a frame per tick until the user quits
// or ctx is cancelled.
func (s *ScreenSession) Run(ctx context.Context) error {
	s.screen.EnableMouse(tcell.MouseMotionEvents)
	s.screen.HideCursor()
	s.screen.Clear()
	defer s.screen.DisableMouse()

	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go s.screen.ChannelEvents(events, quit)

	ticker := time.NewTicker(s.opts.frameTime())
	defer ticker.Stop()

	for s.field.Running() {
		select {
		case <-ctx.Done():
			s.field.Stop()

		case ev, ok := <-events:
			if !ok {
				// The screen was finalised underneath us.
				s.field.Stop()
				continue
			}
			s.handleEvent(ev)

		case <-ticker.C:
			if s.field.Frame(s.canvas) {
				s.frames++
				s.blit()
				s.screen.Show()
			}
		}
	}

	s.opts.Logger.Debug("screen session ended", "frames", s.frames)
	return nil
}

func (s *ScreenSession) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			s.field.Stop()
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q', 'Q':
				s.field.Stop()
			case 'r', 'R':
				s.field.Reinit()
			}
		}

	case *tcell.EventMouse:
		col, row := ev.Position()
		s.field.MovePointer(s.canvas.TerminalToLogical(col, row))

	case *tcell.EventResize:
		cols, rows := ev.Size()
		lw, lh := logicalSize(cols, rows, s.opts)
		s.opts.Logger.Debug("resize", "cols", cols, "rows", rows, "width", lw, "height", lh)
		s.canvas.Resize(cols, rows)
		s.canvas.SetLogicalSize(float64(lw), float64(lh))
		s.field.Resize(lw, lh)
		s.screen.Sync()
	}
}

// blit copies the canvas into the screen's cell buffer.
func (s *ScreenSession) blit() {
	s.canvas.Blit(func(col, row int, top, bottom draw.RGB) {
		style := tcell.StyleDefault.
			Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
			Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
		s.screen.SetContent(col, row, draw.BlockUpperHalf, nil, style)
	})
}

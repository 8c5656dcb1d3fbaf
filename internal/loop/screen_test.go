package loop

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/tomz197/particlefield/internal/config"
	"github.com/tomz197/particlefield/internal/draw"
	"github.com/tomz197/particlefield/internal/field"
)

func newSimScreen(t *testing.T, cols, rows int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(cols, rows)
	return screen
}

// runScreenSession runs s in the background and returns a wait function.
func runScreenSession(t *testing.T, s *ScreenSession) func() {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background()) }()
	return func() {
		t.Helper()
		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("screen session did not stop")
		}
	}
}

func TestScreenSessionDrawsAndQuits(t *testing.T) {
	screen := newSimScreen(t, 30, 10)
	s := NewScreenSession(screen, testOptions(nil))

	wait := runScreenSession(t, s)
	time.Sleep(50 * time.Millisecond)
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	wait()

	if s.Frames() == 0 {
		t.Fatal("no frames drawn")
	}
	cells, w, h := screen.GetContents()
	if w != 30 || h != 10 {
		t.Fatalf("screen size = %dx%d", w, h)
	}
	for i, c := range cells {
		if len(c.Runes) == 0 || c.Runes[0] != draw.BlockUpperHalf {
			t.Fatalf("cell %d = %q, want half block", i, c.Runes)
		}
	}
}

func TestScreenSessionMouseAndResize(t *testing.T) {
	screen := newSimScreen(t, 30, 10)
	s := NewScreenSession(screen, testOptions(nil))

	wait := runScreenSession(t, s)
	screen.InjectMouse(6, 3, tcell.ButtonNone, tcell.ModNone)
	screen.SetSize(50, 20)
	screen.PostEvent(tcell.NewEventResize(50, 20))
	screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
	wait()

	// The pointer maps through the canvas scale in place before the resize.
	want := field.Point{X: 6.5 * config.DefaultCellWidth, Y: 3.5 * config.DefaultCellHeight}
	if got := s.Field().Pointer(); got != want {
		t.Errorf("pointer = %v, want %v", got, want)
	}
	w, h := s.Field().Size()
	if w != 50*config.DefaultCellWidth || h != 20*config.DefaultCellHeight {
		t.Errorf("field size = %dx%d after resize", w, h)
	}
}

func TestScreenSessionStopsOnCancel(t *testing.T) {
	screen := newSimScreen(t, 10, 5)
	s := NewScreenSession(screen, testOptions(nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if s.Field().Running() {
		t.Error("field still running after cancel")
	}
}

func TestScreenSessionStopsWhenScreenFinalised(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	screen.SetSize(20, 8)
	s := NewScreenSession(screen, testOptions(nil))

	wait := runScreenSession(t, s)
	time.Sleep(50 * time.Millisecond)
	screen.Fini()
	wait()

	if s.Field().Running() {
		t.Error("field still running after the screen was finalised")
	}
}

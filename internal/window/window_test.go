package window

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/tomz197/particlefield/internal/field"
)

func newTestGame(t *testing.T) *Game {
	t.Helper()
	g, err := NewGame(800, 600, Options{Rand: rand.New(rand.NewSource(1))})
	if err != nil {
		t.Fatal(err)
	}
	g.cursor = func() (int, int) { return 400, 300 }
	g.pressed = func(ebiten.Key) bool { return false }
	g.justPressed = func(ebiten.Key) bool { return false }
	return g
}

func TestUpdateMovesPointer(t *testing.T) {
	g := newTestGame(t)
	if err := g.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := g.Field().Pointer(); got != (field.Point{X: 400, Y: 300}) {
		t.Errorf("pointer = %v, want {400 300}", got)
	}
}

func TestUpdateQuitTerminates(t *testing.T) {
	g := newTestGame(t)
	g.pressed = func(k ebiten.Key) bool { return k == ebiten.KeyQ }

	if err := g.Update(); !errors.Is(err, ebiten.Termination) {
		t.Fatalf("Update = %v, want ebiten.Termination", err)
	}
	if g.Field().Running() {
		t.Error("field still running after quit")
	}
}

func TestUpdateReseed(t *testing.T) {
	g := newTestGame(t)
	before := g.Field().Particles()
	g.justPressed = func(k ebiten.Key) bool { return k == ebiten.KeyR }

	if err := g.Update(); err != nil {
		t.Fatal(err)
	}
	after := g.Field().Particles()
	if len(after) != len(before) {
		t.Fatalf("reseed changed count %d -> %d", len(before), len(after))
	}
	if after[0] == before[0] {
		t.Error("reseed kept the first particle")
	}
}

func TestLayoutResizesField(t *testing.T) {
	g := newTestGame(t)
	if w, h := g.Layout(1024, 768); w != 1024 || h != 768 {
		t.Fatalf("Layout = %dx%d", w, h)
	}
	if w, h := g.Field().Size(); w != 1024 || h != 768 {
		t.Errorf("field size = %dx%d, want 1024x768", w, h)
	}
}

func TestNewGameRejectsBadColour(t *testing.T) {
	if _, err := NewGame(10, 10, Options{BgFrom: "mauve"}); err == nil {
		t.Error("expected colour error")
	}
}

func TestWhiteAlpha(t *testing.T) {
	if c := white(0.1); c.A != 26 {
		t.Errorf("white(0.1).A = %d, want 26", c.A)
	}
	if c := white(2); c.A != 255 {
		t.Errorf("white(2).A = %d, want 255", c.A)
	}
}

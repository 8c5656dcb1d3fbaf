package draw

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestFillCircleLightsCentre(t *testing.T) {
	// 10x5 terminal, logical 80x80: each sub-pixel is 8x8 logical units.
	c := NewScaledCanvas(10, 5, 80, 80)
	c.FillCircle(20, 20, 2, 0.5)

	if got := c.Intensity(2, 2); got != 0.5 {
		t.Errorf("centre intensity = %v, want 0.5", got)
	}
	if got := c.Intensity(0, 0); got != 0 {
		t.Errorf("far pixel intensity = %v, want 0", got)
	}
}

func TestFillCircleLargeRadius(t *testing.T) {
	c := NewCanvas(20, 10) // 1:1, 20x20 sub-pixels
	c.FillCircle(10, 10, 4, 1)

	lit := 0
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			if c.Intensity(x, y) > 0 {
				lit++
			}
		}
	}
	// Area of r=4 is ~50 sub-pixels.
	if lit < 40 || lit > 60 {
		t.Errorf("lit = %d sub-pixels, want about 50", lit)
	}
	if c.Intensity(10, 10) != 1 {
		t.Errorf("centre not fully lit")
	}
}

func TestCompositingIsSourceOver(t *testing.T) {
	c := NewCanvas(4, 2)
	c.FillCircle(1, 1, 0.1, 0.5)
	c.FillCircle(1, 1, 0.1, 0.5)

	if got := c.Intensity(1, 1); got != 0.75 {
		t.Errorf("intensity = %v, want 0.75", got)
	}
	c.Clear()
	if got := c.Intensity(1, 1); got != 0 {
		t.Errorf("intensity after Clear = %v, want 0", got)
	}
}

func TestStrokeLineHorizontal(t *testing.T) {
	c := NewCanvas(10, 3)
	c.StrokeLine(1, 2, 8, 2, 0.5, 0.1)

	for x := 1; x <= 8; x++ {
		if got := c.Intensity(x, 2); got != 0.1 {
			t.Errorf("x=%d intensity = %v, want 0.1", x, got)
		}
	}
	if got := c.Intensity(9, 2); got != 0 {
		t.Errorf("past endpoint intensity = %v, want 0", got)
	}
	if got := c.Intensity(4, 3); got != 0 {
		t.Errorf("thin line bled to next row: %v", got)
	}
}

func TestStrokeLineOffCanvasIsClipped(t *testing.T) {
	c := NewCanvas(5, 5)
	c.StrokeLine(-20, -20, 30, 30, 1, 0.5)
	if got := c.Intensity(2, 2); got != 0.5 {
		t.Errorf("diagonal intensity = %v, want 0.5", got)
	}
}

func TestRenderSkipsUnchangedCells(t *testing.T) {
	c := NewCanvas(4, 2)
	c.FillCircle(1, 0, 0.1, 1) // top half of cell (1, 0)

	var first bytes.Buffer
	c.Render(&first)
	if strings.Count(first.String(), string(BlockUpperHalf)) != 8 {
		t.Fatalf("first render drew %d cells, want 8", strings.Count(first.String(), string(BlockUpperHalf)))
	}
	if !strings.Contains(first.String(), "\033[38;2;255;255;255m") {
		t.Errorf("lit sub-pixel not rendered white: %q", first.String())
	}

	var second bytes.Buffer
	c.Render(&second)
	if second.Len() != 0 {
		t.Errorf("unchanged frame rendered %d bytes", second.Len())
	}

	c.Clear()
	var third bytes.Buffer
	c.Render(&third)
	if got := strings.Count(third.String(), string(BlockUpperHalf)); got != 1 {
		t.Errorf("changed frame drew %d cells, want 1", got)
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestRenderReportsWriteError(t *testing.T) {
	c := NewCanvas(3, 2)
	if err := c.Render(failWriter{}); err == nil {
		t.Fatal("Render swallowed the write error")
	}

	var buf bytes.Buffer
	if err := c.Render(&buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := strings.Count(buf.String(), string(BlockUpperHalf)); got != 6 {
		t.Errorf("render after a failed write drew %d cells, want 6", got)
	}
}

func TestRenderForceRedrawAndOffset(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Render(&bytes.Buffer{})

	c.SetOffset(3, 4)
	var buf bytes.Buffer
	c.Render(&buf)
	if !strings.HasPrefix(buf.String(), "\033[5;4H") {
		t.Errorf("render did not start at offset cell: %q", buf.String())
	}
	if got := strings.Count(buf.String(), string(BlockUpperHalf)); got != 2 {
		t.Errorf("offset change redrew %d cells, want 2", got)
	}
}

func TestResizeReallocates(t *testing.T) {
	c := NewScaledCanvas(10, 5, 80, 80)
	c.FillCircle(20, 20, 2, 1)
	c.Resize(20, 10)

	if c.TerminalWidth() != 20 || c.TerminalHeight() != 10 {
		t.Fatalf("size = %dx%d, want 20x10", c.TerminalWidth(), c.TerminalHeight())
	}
	if got := c.Intensity(2, 2); got != 0 {
		t.Errorf("intensity survived resize: %v", got)
	}
	if c.LogicalWidth() != 80 || c.LogicalHeight() != 80 {
		t.Errorf("logical size changed on Resize")
	}
}

func TestTerminalToLogical(t *testing.T) {
	c := NewScaledCanvas(10, 5, 80, 80)
	x, y := c.TerminalToLogical(2, 1)
	if x != 20 || y != 24 {
		t.Errorf("TerminalToLogical(2, 1) = (%v, %v), want (20, 24)", x, y)
	}
}

func TestBlitVisitsEveryCell(t *testing.T) {
	c := NewCanvas(3, 2)
	c.FillCircle(0, 0, 0.1, 1)

	seen := 0
	var corner RGB
	c.Blit(func(col, row int, top, bottom RGB) {
		seen++
		if col == 0 && row == 0 {
			corner = top
		}
	})
	if seen != 6 {
		t.Errorf("Blit visited %d cells, want 6", seen)
	}
	if corner != (RGB{255, 255, 255}) {
		t.Errorf("corner = %v, want white", corner)
	}
}

func TestPaletteGradient(t *testing.T) {
	p, err := NewPalette("#000000", "#ffffff")
	if err != nil {
		t.Fatal(err)
	}
	p.resize(3, 3)

	if got := p.Background(0, 0); got != (RGB{0, 0, 0}) {
		t.Errorf("top-left = %v, want black", got)
	}
	if got := p.Background(2, 2); got != (RGB{255, 255, 255}) {
		t.Errorf("bottom-right = %v, want white", got)
	}
	if got := p.Shade(0, 0, 1); got != (RGB{255, 255, 255}) {
		t.Errorf("full intensity = %v, want white", got)
	}
	if got := p.Shade(0, 0, 0.5); got.R < 127 || got.R > 128 {
		t.Errorf("half intensity over black = %v", got)
	}
}

func TestNewPaletteRejectsBadHex(t *testing.T) {
	if _, err := NewPalette("purple", "#ffffff"); err == nil {
		t.Error("expected error for bad hex")
	}
}

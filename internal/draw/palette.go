package draw

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/tomz197/particlefield/internal/config"
)

// RGB is an 8-bit per channel colour.
type RGB struct {
	R, G, B uint8
}

// Palette maps sub-pixel intensities to colours: white composited over a
// diagonal background gradient. A Palette belongs to one Canvas.
type Palette struct {
	from, to colorful.Color
	cols     int
	rows     int
	bg       []RGB // [y * cols + x], rows in sub-pixels
}

// NewPalette builds a palette blending between two hex colours ("#667eea").
func NewPalette(fromHex, toHex string) (*Palette, error) {
	from, err := colorful.Hex(fromHex)
	if err != nil {
		return nil, fmt.Errorf("background from %q: %w", fromHex, err)
	}
	to, err := colorful.Hex(toHex)
	if err != nil {
		return nil, fmt.Errorf("background to %q: %w", toHex, err)
	}
	return &Palette{from: from, to: to}, nil
}

// DefaultPalette returns the stock purple gradient.
func DefaultPalette() *Palette {
	p, err := NewPalette(config.DefaultBackgroundFrom, config.DefaultBackgroundTo)
	if err != nil {
		panic(err)
	}
	return p
}

// resize recomputes the background for a cols x rows sub-pixel grid.
// The gradient runs top-left to bottom-right and is blended in CIE-Lab.
func (p *Palette) resize(cols, rows int) {
	if cols == p.cols && rows == p.rows && len(p.bg) == cols*rows {
		return
	}
	p.cols, p.rows = cols, rows
	p.bg = make([]RGB, cols*rows)

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			t := (ratio(x, cols) + ratio(y, rows)) / 2
			r, g, b := p.from.BlendLab(p.to, t).Clamped().RGB255()
			p.bg[y*cols+x] = RGB{R: r, G: g, B: b}
		}
	}
}

func ratio(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(i) / float64(n-1)
}

// Background returns the gradient colour at sub-pixel (x, y).
func (p *Palette) Background(x, y int) RGB {
	if x < 0 || x >= p.cols || y < 0 || y >= p.rows {
		r, g, b := p.from.Clamped().RGB255()
		return RGB{R: r, G: g, B: b}
	}
	return p.bg[y*p.cols+x]
}

// Shade composites white at the given intensity over the background at
// sub-pixel (x, y).
func (p *Palette) Shade(x, y int, intensity float64) RGB {
	bg := p.Background(x, y)
	if intensity <= 0 {
		return bg
	}
	if intensity > 1 {
		intensity = 1
	}
	return RGB{
		R: towardWhite(bg.R, intensity),
		G: towardWhite(bg.G, intensity),
		B: towardWhite(bg.B, intensity),
	}
}

func towardWhite(c uint8, a float64) uint8 {
	return uint8(float64(c) + (255-float64(c))*a + 0.5)
}

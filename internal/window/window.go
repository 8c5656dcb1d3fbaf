// Package window hosts the particle field in a desktop window using ebiten.
package window

import (
	"fmt"
	"image/color"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/tomz197/particlefield/internal/config"
	"github.com/tomz197/particlefield/internal/field"
)

// Options configures the window host.
type Options struct {
	Count  int
	Rand   *rand.Rand
	BgFrom string // Hex colours blended for the background fill
	BgTo   string
}

// Game adapts a field.Field to ebiten.Game. The window's pixel grid is the
// field's coordinate space; the cursor is the pointer.
type Game struct {
	field  *field.Field
	bg     color.Color
	width  int
	height int

	// Input sources, replaceable for tests.
	cursor      func() (int, int)
	pressed     func(ebiten.Key) bool
	justPressed func(ebiten.Key) bool
}

var _ ebiten.Game = (*Game)(nil)

// NewGame creates a game for an initial window size.
func NewGame(width, height int, opts Options) (*Game, error) {
	if opts.BgFrom == "" {
		opts.BgFrom = config.DefaultBackgroundFrom
	}
	if opts.BgTo == "" {
		opts.BgTo = config.DefaultBackgroundTo
	}
	from, err := colorful.Hex(opts.BgFrom)
	if err != nil {
		return nil, fmt.Errorf("background from %q: %w", opts.BgFrom, err)
	}
	to, err := colorful.Hex(opts.BgTo)
	if err != nil {
		return nil, fmt.Errorf("background to %q: %w", opts.BgTo, err)
	}
	r, g, b := from.BlendLab(to, 0.5).Clamped().RGB255()

	return &Game{
		field:       field.New(width, height, field.Options{Count: opts.Count, Rand: opts.Rand}),
		bg:          color.RGBA{R: r, G: g, B: b, A: 0xff},
		width:       width,
		height:      height,
		cursor:      ebiten.CursorPosition,
		pressed:     ebiten.IsKeyPressed,
		justPressed: inpututil.IsKeyJustPressed,
	}, nil
}

// Field exposes the game's field.
func (g *Game) Field() *field.Field {
	return g.field
}

// Update feeds the cursor position into the field and handles keys.
func (g *Game) Update() error {
	x, y := g.cursor()
	g.field.MovePointer(float64(x), float64(y))

	if g.pressed(ebiten.KeyQ) || g.pressed(ebiten.KeyEscape) {
		g.field.Stop()
		return ebiten.Termination
	}
	if g.justPressed(ebiten.KeyR) {
		g.field.Reinit()
	}
	return nil
}

// Draw runs one field frame onto the screen image.
func (g *Game) Draw(screen *ebiten.Image) {
	g.field.Frame(&imageSurface{img: screen, bg: g.bg})
}

// Layout keeps the field the size of the window, so resizing the window is a
// field resize.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.field.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// Run opens a resizable window and blocks until it is closed or the user quits.
func Run(opts Options) error {
	g, err := NewGame(config.WindowWidth, config.WindowHeight, opts)
	if err != nil {
		return err
	}
	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowTitle(config.WindowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(g)
}

// imageSurface implements field.Surface on an ebiten image.
type imageSurface struct {
	img *ebiten.Image
	bg  color.Color
}

func (s *imageSurface) Clear() {
	s.img.Fill(s.bg)
}

func (s *imageSurface) FillCircle(x, y, r, alpha float64) {
	vector.DrawFilledCircle(s.img, float32(x), float32(y), float32(r), white(alpha), true)
}

func (s *imageSurface) StrokeLine(x1, y1, x2, y2, width, alpha float64) {
	vector.StrokeLine(s.img, float32(x1), float32(y1), float32(x2), float32(y2), float32(width), white(alpha), true)
}

// white returns white at the given straight alpha.
func white(alpha float64) color.NRGBA {
	alpha = min(max(alpha, 0), 1)
	return color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: uint8(alpha*255 + 0.5)}
}

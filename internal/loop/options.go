package loop

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/particlefield/internal/config"
	"github.com/tomz197/particlefield/internal/draw"
)

// Options configures a terminal session.
type Options struct {
	TermSizeFunc draw.TermSizeFunc // nil means draw.DefaultTermSizeFunc
	Count        int               // Particle count; 0 means config.ParticleCount
	Rand         *rand.Rand        // nil means time-seeded
	Palette      *draw.Palette     // nil means draw.DefaultPalette
	CellWidth    int               // Logical units per terminal column
	CellHeight   int               // Logical units per terminal row
	FPS          int
	IdleTimeout  time.Duration // 0 disables the idle disconnect
	Logger       *log.Logger
}

// OptionsFromSettings maps environment settings onto session options.
// Each call builds a fresh palette and random source, so the result must
// not be shared between sessions.
func OptionsFromSettings(s config.Settings, logger *log.Logger) (Options, error) {
	palette, err := draw.NewPalette(s.BgFrom, s.BgTo)
	if err != nil {
		return Options{}, fmt.Errorf("palette: %w", err)
	}

	opts := Options{
		Count:      s.Count,
		Palette:    palette,
		CellWidth:  s.CellWidth,
		CellHeight: s.CellHeight,
		FPS:        s.FPS,
		Logger:     logger,
	}
	if s.Seed != 0 {
		opts.Rand = rand.New(rand.NewSource(s.Seed))
	}
	return opts, nil
}

// withDefaults fills unset fields.
func (o Options) withDefaults() Options {
	if o.TermSizeFunc == nil {
		o.TermSizeFunc = draw.DefaultTermSizeFunc
	}
	if o.Palette == nil {
		o.Palette = draw.DefaultPalette()
	}
	if o.CellWidth <= 0 {
		o.CellWidth = config.DefaultCellWidth
	}
	if o.CellHeight <= 0 {
		o.CellHeight = config.DefaultCellHeight
	}
	if o.FPS <= 0 {
		o.FPS = config.TargetFPS
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o
}

func (o Options) frameTime() time.Duration {
	return time.Second / time.Duration(o.FPS)
}

// Package field implements the animated particle field: a fixed set of
// particles stepped once per frame, reflected off the surface bounds, drawn
// toward the pointer and linked by fading lines when close.
//
// A Field is not safe for concurrent use. Hosts drive it from a single
// goroutine: pointer and resize events are applied between frames.
package field

import (
	"math/rand"
	"time"

	"github.com/tomz197/particlefield/internal/config"
	"github.com/tomz197/particlefield/internal/physics"
)

// Surface is a 2D raster the field draws onto. Alpha values are in [0, 1].
type Surface interface {
	Clear()
	FillCircle(x, y, r, alpha float64)
	StrokeLine(x1, y1, x2, y2, width, alpha float64)
}

// Options configures a Field.
type Options struct {
	Count int        // Particle count; 0 means config.ParticleCount
	Rand  *rand.Rand // Random source; nil means a time-seeded one
}

// Field owns the particles plus the shared surface and pointer state.
type Field struct {
	width     int
	height    int
	pointer   Point
	particles []Particle
	rng       *rand.Rand
	grid      *physics.SpatialGrid
	running   bool
}

// New creates a field for a width x height surface and populates it.
// Negative dimensions are treated as zero.
func New(width, height int, opts Options) *Field {
	count := opts.Count
	if count <= 0 {
		count = config.ParticleCount
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	f := &Field{
		particles: make([]Particle, count),
		rng:       rng,
		grid:      physics.NewSpatialGrid(0, 0, config.ConnectionThreshold),
		running:   true,
	}
	f.Resize(width, height)
	f.Reinit()
	return f
}

// Reinit replaces every particle with a fresh random draw.
// The particle count never changes.
func (f *Field) Reinit() {
	for i := range f.particles {
		f.particles[i] = newParticle(f.rng, f.width, f.height)
	}
}

// Resize updates the surface dimensions. Particles are left where they are
// and find their way back through reflection.
func (f *Field) Resize(width, height int) {
	f.width = max(width, 0)
	f.height = max(height, 0)
	f.grid.Reset(float64(f.width), float64(f.height))
}

// MovePointer records the pointer position for the next frame.
// Non-finite coordinates are ignored.
func (f *Field) MovePointer(x, y float64) {
	if !physics.Finite(x) || !physics.Finite(y) {
		return
	}
	f.pointer = Point{X: x, Y: y}
}

// Frame runs one scheduled frame. It reports false, leaving the field
// untouched, once the field has been stopped.
func (f *Field) Frame(s Surface) bool {
	if !f.running {
		return false
	}
	f.Step(s)
	return true
}

// Stop marks the field as stopped; subsequent Frame calls are no-ops.
func (f *Field) Stop() {
	f.running = false
}

// Running reports whether the field still accepts frames.
func (f *Field) Running() bool {
	return f.running
}

// Step advances every particle by one frame and draws the result:
// particles first, then the connecting lines.
func (f *Field) Step(s Surface) {
	s.Clear()

	w, h := float64(f.width), float64(f.height)
	for i := range f.particles {
		p := &f.particles[i]
		p.advance(w, h, f.pointer)
		s.FillCircle(p.X, p.Y, p.Radius, p.Opacity)
	}

	f.Connect(func(a, b Particle, dist float64) {
		s.StrokeLine(a.X, a.Y, b.X, b.Y, config.LineWidth, LineAlpha(dist))
	})
}

// Connect calls fn once for every unordered pair of particles closer than
// config.ConnectionThreshold.
func (f *Field) Connect(fn func(a, b Particle, dist float64)) {
	f.grid.Clear()
	for i := range f.particles {
		f.grid.Insert(f.particles[i].X, f.particles[i].Y, i)
	}

	for i := range f.particles {
		a := f.particles[i]
		f.grid.QueryAround(a.X, a.Y, func(j int) bool {
			if j <= i {
				return false
			}
			b := f.particles[j]
			if d := physics.Distance(a.X, a.Y, b.X, b.Y); d < config.ConnectionThreshold {
				fn(a, b, d)
			}
			return false
		})
	}
}

// LineAlpha is the translucency of a connection of the given length:
// config.MaxLineAlpha at zero, falling linearly to zero at the threshold.
func LineAlpha(dist float64) float64 {
	if dist >= config.ConnectionThreshold {
		return 0
	}
	return config.MaxLineAlpha * (1 - dist/config.ConnectionThreshold)
}

// Size returns the surface dimensions.
func (f *Field) Size() (width, height int) {
	return f.width, f.height
}

// Pointer returns the last recorded pointer position.
func (f *Field) Pointer() Point {
	return f.pointer
}

// Len returns the particle count.
func (f *Field) Len() int {
	return len(f.particles)
}

// Particles returns a copy of the current particle set.
func (f *Field) Particles() []Particle {
	return append([]Particle(nil), f.particles...)
}

// SetParticle overwrites particle i. Used to stage exact scenarios.
func (f *Field) SetParticle(i int, p Particle) {
	f.particles[i] = p
}

package field

import (
	"math/rand"

	"github.com/tomz197/particlefield/internal/config"
)

// Particle is one drifting point of the field.
// Radius and Opacity are fixed at creation.
type Particle struct {
	X, Y    float64 // Position
	VX, VY  float64 // Velocity, units per frame
	Radius  float64 // [MinRadius, MaxRadius)
	Opacity float64 // [MinOpacity, MaxOpacity)
}

// Point is a 2D coordinate in surface units.
type Point struct {
	X, Y float64
}

// newParticle draws a particle uniformly inside a width x height surface.
func newParticle(rng *rand.Rand, width, height int) Particle {
	return Particle{
		X:       rng.Float64() * float64(width),
		Y:       rng.Float64() * float64(height),
		VX:      (rng.Float64() - 0.5) * 2 * config.MaxSpeed,
		VY:      (rng.Float64() - 0.5) * 2 * config.MaxSpeed,
		Radius:  config.MinRadius + rng.Float64()*(config.MaxRadius-config.MinRadius),
		Opacity: config.MinOpacity + rng.Float64()*(config.MaxOpacity-config.MinOpacity),
	}
}

// advance integrates one frame of motion: move, bounce off the surface
// bounds, then drift toward the pointer when it is close.
//
// Bouncing only inverts velocity; positions are never corrected. Attraction
// runs after the bounce without re-checking bounds, so a particle may end the
// frame slightly outside the surface.
func (p *Particle) advance(width, height float64, pointer Point) {
	p.X += p.VX
	p.Y += p.VY

	p.VX = bounce(p.X, p.VX, width)
	p.VY = bounce(p.Y, p.VY, height)

	dx := pointer.X - p.X
	dy := pointer.Y - p.Y
	if dx*dx+dy*dy < config.ProximityThreshold*config.ProximityThreshold {
		p.X += dx * config.AttractionFactor
		p.Y += dy * config.AttractionFactor
	}
}

// bounce returns the velocity along one axis after checking pos against
// [0, size]. Outside the range the velocity always inverts. Inside the
// EdgeMargin band next to a bound it inverts only when heading toward that
// bound, so a slow particle in the band does not flip back and forth.
func bounce(pos, vel, size float64) float64 {
	margin := min(config.EdgeMargin, size/2)
	switch {
	case pos < 0 || pos > size:
		return -vel
	case pos < margin && vel < 0, pos > size-margin && vel > 0:
		return -vel
	}
	return vel
}

package config

import "time"

// Field behaviour. All tunable particle parameters are centralized here.
const (
	ParticleCount = 50

	MaxSpeed   = 0.25 // Per axis, units per frame
	MinRadius  = 1.0
	MaxRadius  = 4.0 // Exclusive
	MinOpacity = 0.2
	MaxOpacity = 0.7 // Exclusive

	EdgeMargin = MaxRadius // Outward-moving particles this close to an edge reflect

	ProximityThreshold  = 100.0 // Pointer attraction radius
	AttractionFactor    = 0.01  // Fraction of the pointer offset applied per frame
	ConnectionThreshold = 150.0 // Max distance for a connecting line
	MaxLineAlpha        = 0.1
	LineWidth           = 0.5
)

// Terminal hosts map each cell to CellWidth x CellHeight logical units,
// roughly the pixel size of a glyph, so the thresholds above keep their
// on-screen proportions.
const (
	DefaultCellWidth  = 8
	DefaultCellHeight = 16
)

// Max render resolution in terminal cells. Larger terminals are centered.
const (
	MaxTermWidth  = 240
	MaxTermHeight = 80
)

// Frame pacing
const (
	TargetFPS       = 60
	TargetFrameTime = time.Second / TargetFPS
)

// Background gradient, top-left to bottom-right.
const (
	DefaultBackgroundFrom = "#667eea"
	DefaultBackgroundTo   = "#764ba2"
)

// Window host
const (
	WindowWidth  = 800
	WindowHeight = 600
	WindowTitle  = "particlefield"
)

// SSH sessions are dropped after this long without input.
const DefaultIdleTimeout = 2 * time.Minute

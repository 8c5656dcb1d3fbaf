package config

import "time"

// Settings holds the environment-derived runtime configuration shared by
// all hosts.
type Settings struct {
	Count       int           // PARTICLE_COUNT
	Seed        int64         // PARTICLE_SEED, 0 = seed from the clock
	FPS         int           // FIELD_FPS
	CellWidth   int           // CELL_WIDTH
	CellHeight  int           // CELL_HEIGHT
	Backend     string        // FIELD_BACKEND: ansi or tcell
	LogLevel    string        // LOG_LEVEL
	IdleTimeout time.Duration // IDLE_TIMEOUT
	BgFrom      string        // BG_FROM
	BgTo        string        // BG_TO
}

// Load reads Settings from the environment. Values that are missing,
// unparsable or out of range fall back to their defaults.
func Load() Settings {
	s := Settings{
		Count:       GetEnvInt("PARTICLE_COUNT", ParticleCount),
		Seed:        GetEnvInt64("PARTICLE_SEED", 0),
		FPS:         GetEnvInt("FIELD_FPS", TargetFPS),
		CellWidth:   GetEnvInt("CELL_WIDTH", DefaultCellWidth),
		CellHeight:  GetEnvInt("CELL_HEIGHT", DefaultCellHeight),
		Backend:     GetEnv("FIELD_BACKEND", "ansi"),
		LogLevel:    GetEnv("LOG_LEVEL", "info"),
		IdleTimeout: GetEnvDuration("IDLE_TIMEOUT", DefaultIdleTimeout),
		BgFrom:      GetEnv("BG_FROM", DefaultBackgroundFrom),
		BgTo:        GetEnv("BG_TO", DefaultBackgroundTo),
	}

	if s.Count < 0 {
		s.Count = ParticleCount
	}
	if s.FPS <= 0 {
		s.FPS = TargetFPS
	}
	if s.CellWidth <= 0 {
		s.CellWidth = DefaultCellWidth
	}
	if s.CellHeight <= 0 {
		s.CellHeight = DefaultCellHeight
	}
	if s.IdleTimeout < 0 {
		s.IdleTimeout = 0
	}
	return s
}

// FrameTime returns the frame budget for the configured FPS.
func (s Settings) FrameTime() time.Duration {
	if s.FPS <= 0 {
		return TargetFrameTime
	}
	return time.Second / time.Duration(s.FPS)
}

package config

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Logger returns a timestamped logger writing to stderr at s.LogLevel.
func (s Settings) Logger(prefix string) *log.Logger {
	return NewLoggerTo(os.Stderr, prefix, s.LogLevel)
}

// NewLoggerTo returns a timestamped logger writing to w at the named level.
// Unknown level names fall back to info.
func NewLoggerTo(w io.Writer, prefix, level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          prefix,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})
}

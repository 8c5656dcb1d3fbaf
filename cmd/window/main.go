package main

import (
	"math/rand"

	"github.com/tomz197/particlefield/internal/config"
	"github.com/tomz197/particlefield/internal/window"
)

func main() {
	settings := config.Load()
	logger := settings.Logger("window")

	opts := window.Options{
		Count:  settings.Count,
		BgFrom: settings.BgFrom,
		BgTo:   settings.BgTo,
	}
	if settings.Seed != 0 {
		opts.Rand = rand.New(rand.NewSource(settings.Seed))
	}

	logger.Info("Hi there, enjoy the particles", "count", settings.Count)
	if err := window.Run(opts); err != nil {
		logger.Fatal("window error", "err", err)
	}
	logger.Info("Window closed")
}

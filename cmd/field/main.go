package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/tomz197/particlefield/internal/config"
	"github.com/tomz197/particlefield/internal/loop"
)

func main() {
	settings := config.Load()
	logger := settings.Logger("field")

	opts, err := loop.OptionsFromSettings(settings, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid settings: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Hi there, enjoy the particles", "backend", settings.Backend, "count", settings.Count, "fps", settings.FPS)

	switch settings.Backend {
	case "ansi":
		err = runANSI(ctx, opts)
	case "tcell":
		err = runTcell(ctx, opts)
	default:
		err = fmt.Errorf("unknown backend %q (want ansi or tcell)", settings.Backend)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "field error: %v\n", err)
		os.Exit(1)
	}
}

// runANSI drives the field with raw escape sequences on stdin/stdout.
func runANSI(ctx context.Context, opts loop.Options) error {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	// Logging to stderr would tear the canvas while raw mode is active.
	opts.Logger = nil

	reader := bufio.NewReader(os.Stdin)
	return loop.NewSession(reader, os.Stdout, opts).Run(ctx)
}

// runTcell drives the field through a tcell screen.
func runTcell(ctx context.Context, opts loop.Options) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	opts.Logger = nil
	return loop.NewScreenSession(screen, opts).Run(ctx)
}

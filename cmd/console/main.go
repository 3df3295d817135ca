// Package main implements a Chip-8 interpreter rendering into the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gochip8/pkg/chip8"
	"gochip8/pkg/config"
	"gochip8/pkg/driver"

	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/term"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

// keyHold is how long a terminal key press keeps the keypad key down.
const keyHold = 150 * time.Millisecond

func main() {
	ctx := app.Context()

	cfg, err := config.Parse("gochip8-console", os.Args[1:], os.Stderr)
	if err != nil {
		var usageErr *config.UsageError
		if errors.As(err, &usageErr) {
			usageErr.ShowUsage()
		}
		os.Exit(1)
	}
	if cfg.Version {
		fmt.Printf("gochip8-console version: %s\n", buildinfo.Version(version, commit, date))
		return
	}

	logger := config.CreateLogger(cfg.Debug || cfg.Trace, cfg.Quiet)
	if err := run(ctx, logger, cfg); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal(err.Error())
	}
}

func run(ctx context.Context, logger *log.Logger, cfg config.Config) error {
	m, err := cfg.NewMachine(logger)
	if err != nil {
		return err
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return errors.New("stdin is not a terminal")
	}
	if width, height, err := term.GetSize(fd); err == nil &&
		(width < chip8.DisplayWidth || height < renderedRows) {
		logger.Warn("Terminal is smaller than the display",
			log.Int("width", width),
			log.Int("height", height))
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("setting raw mode: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	keys := newKeyReader(keyHold, cancel)
	go keys.run(ctx, os.Stdin)

	out := os.Stdout
	_, _ = io.WriteString(out, clearScreen+hideCursor)
	runner := driver.New(logger, cfg.NewInterpreter(logger), m, driver.Options{
		Rate:     cfg.Rate,
		MaxTicks: cfg.Ticks,
		Policy:   cfg.ErrorPolicy(),
		Input:    keys.events,
		OnFrame: func(d chip8.Display) {
			_, _ = io.WriteString(out, render(&d))
		},
	})
	runErr := runner.Run(ctx)

	_, _ = io.WriteString(out, showCursor)
	_ = term.Restore(fd, oldState)
	fmt.Println()

	if err := cfg.SaveOutputs(logger, m); err != nil {
		return errors.Join(runErr, err)
	}
	return runErr
}

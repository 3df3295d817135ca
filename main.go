// Package main implements a headless Chip-8 interpreter that runs a ROM for a
// number of ticks and writes screenshots and snapshots of the result.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gochip8/pkg/chip8"
	"gochip8/pkg/config"
	"gochip8/pkg/driver"

	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	cfg, err := config.Parse("gochip8", os.Args[1:], os.Stderr)
	if err != nil {
		var usageErr *config.UsageError
		if errors.As(err, &usageErr) {
			printBanner()
			usageErr.ShowUsage()
		}
		os.Exit(1)
	}
	if cfg.Version {
		printBanner()
		return
	}

	logger := config.CreateLogger(cfg.Debug || cfg.Trace, cfg.Quiet)
	if err := run(ctx, logger, cfg); err != nil {
		// Handle context cancellation (Ctrl+C) gracefully
		if errors.Is(err, context.Canceled) {
			logger.Info("Operation cancelled")
			return
		}
		logger.Fatal(err.Error())
	}
}

func printBanner() {
	fmt.Printf("gochip8 - Chip-8 interpreter\nversion: %s\n\n", buildinfo.Version(version, commit, date))
}

// run executes the configured ROM headless. Requested outputs are written even
// when the run ends with a fault, so that the faulting state can be examined.
func run(ctx context.Context, logger *log.Logger, cfg config.Config) error {
	m, err := cfg.NewMachine(logger)
	if err != nil {
		return err
	}

	runner := driver.New(logger, cfg.NewInterpreter(logger), m, driver.Options{
		Rate:     cfg.Rate,
		MaxTicks: cfg.Ticks,
		Policy:   cfg.ErrorPolicy(),
	})
	runErr := runner.Run(ctx)
	logSummary(logger, m, runner.Stats())

	if err := cfg.SaveOutputs(logger, m); err != nil {
		return errors.Join(runErr, err)
	}
	return runErr
}

func logSummary(logger *log.Logger, m *chip8.Machine, stats driver.Stats) {
	display := m.Display()
	logger.Info("Run finished",
		log.Int("ticks", stats.Ticks),
		log.Int("frames", stats.Frames),
		log.Int("skipped", stats.Skipped),
		log.Int("lit_pixels", display.Lit()),
		log.Hex("pc", m.PC))
}

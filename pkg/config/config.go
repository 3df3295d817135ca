// Package config handles application configuration and setup
package config

import (
	"errors"
	"flag"
	"fmt"

	"gochip8/pkg/chip8"
	"gochip8/pkg/driver"

	"github.com/retroenv/retrogolib/log"
)

// Config holds the runtime options shared by all frontends.
type Config struct {
	ROM string

	Ticks        int
	Rate         int
	StartAddress uint
	Seed         uint64
	OnError      string

	Screenshot string
	Scale      int
	Hibernate  string
	Restore    string

	Trace   bool
	Debug   bool
	Quiet   bool
	Version bool
}

// MaxRate is the highest accepted tick rate.
const MaxRate = 1_000_000

// Default returns the configuration used when no flags are given.
func Default() Config {
	return Config{
		Rate:         60,
		StartAddress: chip8.DefaultStartAddress,
		OnError:      driver.Halt.String(),
		Scale:        10,
	}
}

// RegisterFlags binds all options to flags, using the current values as
// defaults.
func (c *Config) RegisterFlags(flags *flag.FlagSet) {
	flags.StringVar(&c.ROM, "rom", c.ROM, "name of the ROM file to run")
	flags.IntVar(&c.Ticks, "ticks", c.Ticks, "stop after this many ticks, 0 runs until interrupted")
	flags.IntVar(&c.Rate, "rate", c.Rate, "ticks per second, 0 runs unthrottled")
	flags.UintVar(&c.StartAddress, "start", c.StartAddress, "program load and start address, for example 0x600")
	flags.Uint64Var(&c.Seed, "seed", c.Seed, "seed for the random number instruction, 0 picks a random seed")
	flags.StringVar(&c.OnError, "on-error", c.OnError, "reaction to a faulting instruction (halt/skip)")
	flags.StringVar(&c.Screenshot, "screenshot", c.Screenshot, "write a PNG of the final display to this file")
	flags.IntVar(&c.Scale, "scale", c.Scale, "pixel scale factor of screenshots and the desktop window")
	flags.StringVar(&c.Hibernate, "hibernate", c.Hibernate, "write a snapshot of the machine to this file on exit")
	flags.StringVar(&c.Restore, "restore", c.Restore, "restore the machine from this snapshot before running")
	flags.BoolVar(&c.Trace, "trace", c.Trace, "log every executed instruction, implies -debug")
	flags.BoolVar(&c.Debug, "debug", c.Debug, "enable debugging options for extended logging")
	flags.BoolVar(&c.Quiet, "q", c.Quiet, "perform operations quietly")
	flags.BoolVar(&c.Quiet, "quiet", c.Quiet, "perform operations quietly")
	flags.BoolVar(&c.Version, "version", c.Version, "print the version and exit")
}

// Validate checks the option values and their combinations.
func (c *Config) Validate() error {
	if c.ROM == "" && c.Restore == "" {
		return errors.New("no ROM given, use -rom <file> or -restore <snapshot>")
	}
	if c.Ticks < 0 {
		return fmt.Errorf("invalid tick count %d", c.Ticks)
	}
	if c.Rate < 0 || c.Rate > MaxRate {
		return fmt.Errorf("invalid tick rate %d, must be between 0 and %d", c.Rate, MaxRate)
	}
	if c.StartAddress < uint(len(chip8.FontSet)) || c.StartAddress >= chip8.MemorySize {
		return fmt.Errorf("%w: 0x%X", chip8.ErrInvalidStartAddress, c.StartAddress)
	}
	if _, err := driver.ParseErrorPolicy(c.OnError); err != nil {
		return err
	}
	if c.Scale < 1 {
		return fmt.Errorf("invalid scale %d", c.Scale)
	}
	if c.Trace && c.Quiet {
		return errors.New("-trace can not be combined with -quiet")
	}
	if c.Debug && c.Quiet {
		return errors.New("-debug can not be combined with -quiet")
	}
	return nil
}

// ErrorPolicy returns the parsed -on-error value. Validate must have passed.
func (c *Config) ErrorPolicy() driver.ErrorPolicy {
	p, _ := driver.ParseErrorPolicy(c.OnError)
	return p
}

// MachineOptions returns the machine options selected by the configuration.
func (c *Config) MachineOptions() []chip8.Option {
	opts := []chip8.Option{
		chip8.WithStartAddress(uint16(c.StartAddress)),
	}
	if c.Seed != 0 {
		opts = append(opts, chip8.WithSeed(c.Seed))
	}
	return opts
}

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

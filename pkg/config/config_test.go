package config

import (
	"errors"
	"flag"
	"io"
	"testing"

	"gochip8/pkg/chip8"
	"gochip8/pkg/driver"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func parse(t *testing.T, args ...string) Config {
	t.Helper()
	cfg := Default()
	flags := flag.NewFlagSet("test", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	cfg.RegisterFlags(flags)
	assert.NoError(t, flags.Parse(args))
	return cfg
}

func TestRegisterFlags_Defaults(t *testing.T) {
	cfg := parse(t)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 60, cfg.Rate)
	assert.Equal(t, uint(0x200), cfg.StartAddress)
	assert.Equal(t, "halt", cfg.OnError)
}

func TestRegisterFlags(t *testing.T) {
	cfg := parse(t,
		"-rom", "pong.ch8",
		"-ticks", "500",
		"-rate", "0",
		"-start", "0x600",
		"-seed", "42",
		"-on-error", "skip",
		"-screenshot", "out.png",
		"-scale", "4",
		"-hibernate", "state.zip",
		"-trace",
	)

	assert.Equal(t, "pong.ch8", cfg.ROM)
	assert.Equal(t, 500, cfg.Ticks)
	assert.Equal(t, 0, cfg.Rate)
	assert.Equal(t, uint(0x600), cfg.StartAddress)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, "out.png", cfg.Screenshot)
	assert.Equal(t, 4, cfg.Scale)
	assert.Equal(t, "state.zip", cfg.Hibernate)
	assert.True(t, cfg.Trace)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, driver.Skip, cfg.ErrorPolicy())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"restore without rom", func(c *Config) { c.ROM, c.Restore = "", "state.zip" }, false},
		{"no rom", func(c *Config) { c.ROM = "" }, true},
		{"negative ticks", func(c *Config) { c.Ticks = -1 }, true},
		{"negative rate", func(c *Config) { c.Rate = -1 }, true},
		{"rate too high", func(c *Config) { c.Rate = MaxRate + 1 }, true},
		{"start inside font", func(c *Config) { c.StartAddress = 0x10 }, true},
		{"start outside memory", func(c *Config) { c.StartAddress = 0x1000 }, true},
		{"unknown policy", func(c *Config) { c.OnError = "retry" }, true},
		{"zero scale", func(c *Config) { c.Scale = 0 }, true},
		{"trace and quiet", func(c *Config) { c.Trace, c.Quiet = true, true }, true},
		{"debug and quiet", func(c *Config) { c.Debug, c.Quiet = true, true }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.ROM = "game.ch8"
			tt.modify(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	cfg := Default()
	cfg.ROM = "game.ch8"
	cfg.StartAddress = 0x20
	assert.True(t, errors.Is(cfg.Validate(), chip8.ErrInvalidStartAddress))
}

func TestMachineOptions(t *testing.T) {
	cfg := Default()
	cfg.StartAddress = 0x600
	cfg.Seed = 7

	m, err := chip8.NewMachine(cfg.MachineOptions()...)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x600), m.PC)
	assert.Equal(t, uint16(0x600), m.StartAddress())
}

func TestCreateLogger(t *testing.T) {
	assert.Equal(t, log.InfoLevel, CreateLogger(false, false).Level())
	assert.Equal(t, log.DebugLevel, CreateLogger(true, false).Level())
	assert.Equal(t, log.ErrorLevel, CreateLogger(false, true).Level())
	assert.Equal(t, log.DebugLevel, CreateLogger(true, true).Level())
}

package config

import (
	"fmt"

	"gochip8/pkg/chip8"
	"gochip8/pkg/rom"

	"github.com/retroenv/retrogolib/log"
)

// NewMachine creates the machine described by the configuration. With
// -restore set the snapshot replaces the whole machine state, otherwise the
// ROM is loaded into a fresh machine.
func (c *Config) NewMachine(logger *log.Logger) (*chip8.Machine, error) {
	m, err := chip8.NewMachine(c.MachineOptions()...)
	if err != nil {
		return nil, fmt.Errorf("creating machine: %w", err)
	}

	if c.Restore != "" {
		if err := m.RestoreFromFile(c.Restore); err != nil {
			return nil, fmt.Errorf("restoring snapshot '%s': %w", c.Restore, err)
		}
		logger.Info("Restored snapshot",
			log.String("file", c.Restore),
			log.Hex("pc", m.PC))
		return m, nil
	}

	data, err := rom.Load(c.ROM, m.StartAddress())
	if err != nil {
		return nil, fmt.Errorf("loading ROM: %w", err)
	}
	if err := m.LoadProgram(data); err != nil {
		return nil, fmt.Errorf("loading ROM: %w", err)
	}
	logger.Info("Loaded ROM",
		log.String("file", c.ROM),
		log.Int("size", len(data)),
		log.Hex("start", m.StartAddress()))
	return m, nil
}

// NewInterpreter returns an interpreter honouring -trace.
func (c *Config) NewInterpreter(logger *log.Logger) *chip8.Interpreter {
	return chip8.NewInterpreter(logger, chip8.WithTrace(c.Trace))
}

// SaveOutputs writes the screenshot and snapshot files requested by
// -screenshot and -hibernate.
func (c *Config) SaveOutputs(logger *log.Logger, m *chip8.Machine) error {
	if c.Screenshot != "" {
		display := m.Display()
		if err := display.SaveScreenshot(c.Screenshot, chip8.DefaultPalette, c.Scale); err != nil {
			return fmt.Errorf("saving screenshot '%s': %w", c.Screenshot, err)
		}
		logger.Info("Saved screenshot", log.String("file", c.Screenshot))
	}

	if c.Hibernate != "" {
		if err := m.HibernateToFile(c.Hibernate); err != nil {
			return fmt.Errorf("saving snapshot '%s': %w", c.Hibernate, err)
		}
		logger.Info("Saved snapshot", log.String("file", c.Hibernate))
	}
	return nil
}

// SnapshotPath names the snapshot written and read by frontend hotkeys.
func (c *Config) SnapshotPath() string {
	if c.Hibernate != "" {
		return c.Hibernate
	}
	if c.Restore != "" {
		return c.Restore
	}
	return rom.SiblingPath(c.ROM, ".state.zip")
}

// ScreenshotPath names the screenshot written by frontend hotkeys.
func (c *Config) ScreenshotPath() string {
	if c.Screenshot != "" {
		return c.Screenshot
	}
	if c.ROM != "" {
		return rom.SiblingPath(c.ROM, ".png")
	}
	return rom.SiblingPath(c.Restore, ".png")
}

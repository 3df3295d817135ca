// Package main implements a Chip-8 interpreter with a desktop window.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"

	"gochip8/pkg/chip8"
	"gochip8/pkg/config"
	"gochip8/pkg/driver"
	"gochip8/pkg/keypad"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

// keyCodes binds every keypad index to the host key of keypad.Layout.
var keyCodes = [keypad.Size]ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4,
	ebiten.KeyQ, ebiten.KeyW, ebiten.KeyE, ebiten.KeyR,
	ebiten.KeyA, ebiten.KeyS, ebiten.KeyD, ebiten.KeyF,
	ebiten.KeyZ, ebiten.KeyX, ebiten.KeyC, ebiten.KeyV,
}

const statusDuration = 2 * time.Second

type Game struct {
	logger  *log.Logger
	cfg     config.Config
	machine *chip8.Machine
	runner  *driver.Runner

	ticksPerUpdate int
	screenImg      *ebiten.Image // reused 64×32 canvas
	dirty          bool
	halted         error

	status      string
	statusUntil time.Time
}

func newGame(logger *log.Logger, cfg config.Config, m *chip8.Machine) *Game {
	_, perUpdate := pacing(cfg.Rate)
	return &Game{
		logger:         logger,
		cfg:            cfg,
		machine:        m,
		runner:         newRunner(logger, cfg, m),
		ticksPerUpdate: perUpdate,
		dirty:          true,
	}
}

func newRunner(logger *log.Logger, cfg config.Config, m *chip8.Machine) *driver.Runner {
	return driver.New(logger, cfg.NewInterpreter(logger), m, driver.Options{
		Policy: cfg.ErrorPolicy(),
	})
}

// pacing splits a tick rate into ebiten updates per second and ticks per
// update. A rate of 0 runs as many ticks per update as a 1 MHz clock would.
func pacing(rate int) (tps, perUpdate int) {
	switch {
	case rate == 0:
		return ebiten.DefaultTPS, config.MaxRate / ebiten.DefaultTPS
	case rate < ebiten.DefaultTPS:
		return rate, 1
	default:
		return ebiten.DefaultTPS, rate / ebiten.DefaultTPS
	}
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	g.handleHotkeys()
	if g.halted != nil {
		return nil
	}

	for i, key := range keyCodes {
		_ = g.machine.SetKey(i, ebiten.IsKeyPressed(key))
	}

	for i := 0; i < g.ticksPerUpdate; i++ {
		dirty, err := g.runner.Step()
		if err != nil {
			g.halted = err
			g.logger.Error("Execution halted", log.Err(err))
			g.setStatus("halted, F9 restores a snapshot")
			break
		}
		g.dirty = g.dirty || dirty

		if g.cfg.Ticks > 0 && g.runner.Stats().Ticks >= g.cfg.Ticks {
			return ebiten.Termination
		}
	}
	return nil
}

func (g *Game) handleHotkeys() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyF5):
		path := g.cfg.SnapshotPath()
		if err := g.machine.HibernateToFile(path); err != nil {
			g.fail("snapshot failed", err)
			return
		}
		g.logger.Info("Saved snapshot", log.String("file", path))
		g.setStatus("saved " + path)

	case inpututil.IsKeyJustPressed(ebiten.KeyF9):
		path := g.cfg.SnapshotPath()
		if err := g.machine.RestoreFromFile(path); err != nil {
			g.fail("restore failed", err)
			return
		}
		g.logger.Info("Restored snapshot", log.String("file", path))
		g.halted = nil
		g.dirty = true
		g.setStatus("restored " + path)

	case inpututil.IsKeyJustPressed(ebiten.KeyF12):
		path := g.cfg.ScreenshotPath()
		display := g.machine.Display()
		if err := display.SaveScreenshot(path, chip8.DefaultPalette, g.cfg.Scale); err != nil {
			g.fail("screenshot failed", err)
			return
		}
		g.logger.Info("Saved screenshot", log.String("file", path))
		g.setStatus("saved " + path)
	}
}

func (g *Game) fail(msg string, err error) {
	g.logger.Error(msg, log.Err(err))
	g.setStatus(msg)
}

func (g *Game) setStatus(msg string) {
	g.status = msg
	g.statusUntil = time.Now().Add(statusDuration)
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.screenImg == nil {
		g.screenImg = ebiten.NewImage(chip8.DisplayWidth, chip8.DisplayHeight)
	}
	if g.dirty {
		display := g.machine.Display()
		g.screenImg.WritePixels(display.FramebufferRGBA(chip8.DefaultPalette))
		g.dirty = false
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.cfg.Scale), float64(g.cfg.Scale))
	screen.DrawImage(g.screenImg, op)

	if g.status != "" && time.Now().Before(g.statusUntil) {
		ebitenutil.DebugPrintAt(screen, g.status, 2, 2)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return chip8.DisplayWidth * g.cfg.Scale, chip8.DisplayHeight * g.cfg.Scale
}

func main() {
	cfg, err := config.Parse("gochip8-desktop", os.Args[1:], os.Stderr)
	if err != nil {
		var usageErr *config.UsageError
		if errors.As(err, &usageErr) {
			usageErr.ShowUsage()
		}
		os.Exit(1)
	}
	if cfg.Version {
		fmt.Printf("gochip8-desktop version: %s\n", buildinfo.Version(version, commit, date))
		return
	}

	logger := config.CreateLogger(cfg.Debug || cfg.Trace, cfg.Quiet)
	m, err := cfg.NewMachine(logger)
	if err != nil {
		logger.Fatal(err.Error())
	}

	tps, _ := pacing(cfg.Rate)
	ebiten.SetTPS(tps)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(chip8.DisplayWidth*cfg.Scale, chip8.DisplayHeight*cfg.Scale)
	ebiten.SetWindowTitle("gochip8")

	game := newGame(logger, cfg, m)
	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Fatal(err.Error())
	}

	if err := cfg.SaveOutputs(logger, m); err != nil {
		logger.Fatal(err.Error())
	}
}

package main

import (
	"strings"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"

	"gochip8/pkg/chip8"
	"gochip8/pkg/config"
	"gochip8/pkg/keypad"
)

func TestKeyCodesMatchLayout(t *testing.T) {
	for i, key := range keyCodes {
		want, ok := keypad.KeyAt(i)
		assert.True(t, ok)
		name := strings.TrimPrefix(key.String(), "Digit")
		assert.Equal(t, string(want), name)
	}
}

func TestPacing(t *testing.T) {
	tests := []struct {
		rate      int
		tps       int
		perUpdate int
	}{
		{0, ebiten.DefaultTPS, config.MaxRate / ebiten.DefaultTPS},
		{30, 30, 1},
		{60, 60, 1},
		{600, 60, 10},
		{700, 60, 11},
	}

	for _, tt := range tests {
		tps, perUpdate := pacing(tt.rate)
		assert.Equal(t, tt.tps, tps)
		assert.Equal(t, tt.perUpdate, perUpdate)
	}
}

func TestGameWiring(t *testing.T) {
	logger := log.NewTestLogger(t)
	cfg := config.Default()
	cfg.Rate = 600

	m, err := chip8.NewMachine(cfg.MachineOptions()...)
	assert.NoError(t, err)
	// LD I, 0x000; DRW V0, V1, 5; RET with empty stack
	assert.NoError(t, m.LoadProgram([]byte{0xA0, 0x00, 0xD0, 0x15, 0x00, 0xEE}))

	g := newGame(logger, cfg, m)
	assert.Equal(t, 10, g.ticksPerUpdate)

	w, h := g.Layout(0, 0)
	assert.Equal(t, chip8.DisplayWidth*cfg.Scale, w)
	assert.Equal(t, chip8.DisplayHeight*cfg.Scale, h)

	for i := 0; i < 2; i++ {
		_, err := g.runner.Step()
		assert.NoError(t, err)
	}
	_, err = g.runner.Step()
	assert.Error(t, err)
	display := m.Display()
	assert.Equal(t, 14, display.Lit())
}

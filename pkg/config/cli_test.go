package config

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestParse(t *testing.T) {
	var out bytes.Buffer
	cfg, err := Parse("gochip8", []string{"-rate", "500", "pong.ch8"}, &out)
	assert.NoError(t, err)
	assert.Equal(t, "pong.ch8", cfg.ROM)
	assert.Equal(t, 500, cfg.Rate)

	cfg, err = Parse("gochip8", []string{"-rom", "maze.ch8"}, &out)
	assert.NoError(t, err)
	assert.Equal(t, "maze.ch8", cfg.ROM)

	cfg, err = Parse("gochip8", []string{"-version"}, &out)
	assert.NoError(t, err)
	assert.True(t, cfg.Version)
}

func TestParse_Usage(t *testing.T) {
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"no rom", nil, "no ROM given"},
		{"unknown flag", []string{"-foo"}, "flag provided but not defined"},
		{"two roms", []string{"-rom", "a.ch8", "b.ch8"}, "ROM given both"},
		{"extra arguments", []string{"a.ch8", "b.ch8"}, "unexpected arguments"},
		{"bad policy", []string{"-on-error", "retry", "a.ch8"}, "unsupported error policy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			_, err := Parse("gochip8", tt.args, &out)

			var usageErr *UsageError
			assert.True(t, errors.As(err, &usageErr))
			assert.ErrorContains(t, err, tt.msg)

			usageErr.ShowUsage()
			assert.True(t, strings.Contains(out.String(), "usage: gochip8"))
			assert.True(t, strings.Contains(out.String(), "-on-error"))
		})
	}
}

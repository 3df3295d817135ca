package chip8

import (
	"testing"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/retroenv/retrogolib/assert"
)

func TestMnemonic(t *testing.T) {
	tests := []struct {
		word uint16
		want string
	}{
		{0x00E0, chip8.ClsName},
		{0x00EE, chip8.RetName},
		{0x1234, chip8.JpName},
		{0x2345, chip8.CallName},
		{0x8124, chip8.AddName},
		{0x8125, chip8.SubName},
		{0x8126, chip8.ShrName},
		{0xC1FF, chip8.RndName},
		{0xD235, chip8.DrwName},
		{0xE19E, chip8.SkpName},
		{0xE1A1, chip8.SknpName},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Mnemonic(tt.word))
	}
	assert.Equal(t, "drw", Mnemonic(0xD235))
}

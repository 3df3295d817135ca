package keypad

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestIndexOf(t *testing.T) {
	tests := []struct {
		key   rune
		index int
		ok    bool
	}{
		{'1', 0x0, true},
		{'4', 0x3, true},
		{'Q', 0x4, true},
		{'q', 0x4, true},
		{'r', 0x7, true},
		{'A', 0x8, true},
		{'f', 0xB, true},
		{'Z', 0xC, true},
		{'v', 0xF, true},
		{'5', 0, false},
		{'p', 0, false},
		{' ', 0, false},
	}

	for _, tt := range tests {
		index, ok := IndexOf(tt.key)
		assert.Equal(t, tt.ok, ok)
		assert.Equal(t, tt.index, index)
	}
}

func TestKeyAt(t *testing.T) {
	assert.Equal(t, 16, Size)

	for i := 0; i < Size; i++ {
		key, ok := KeyAt(i)
		assert.True(t, ok)
		index, ok := IndexOf(key)
		assert.True(t, ok)
		assert.Equal(t, i, index)
	}

	_, ok := KeyAt(-1)
	assert.False(t, ok)
	_, ok = KeyAt(Size)
	assert.False(t, ok)
}

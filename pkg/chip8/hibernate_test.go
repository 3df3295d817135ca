package chip8

import (
	"archive/zip"
	"bytes"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/retroenv/retrogolib/assert"
)

func TestHibernate_RoundTrip(t *testing.T) {
	m := newTestMachine(t, words(0xA000, 0xD015, 0x2200)...)
	it := NewInterpreter(nil)
	tick(t, it, m, 3)
	m.V[7] = 0x77
	m.DelayTimer = 30
	m.SoundTimer = 3
	assert.NoError(t, m.SetKey(0xA, true))

	data, err := m.HibernateToBytes()
	assert.NoError(t, err)

	restored, err := NewMachine(WithStartAddress(0x600))
	assert.NoError(t, err)
	assert.NoError(t, restored.RestoreFromBytes(data))

	assert.Equal(t, m.V, restored.V)
	assert.Equal(t, m.I, restored.I)
	assert.Equal(t, m.PC, restored.PC)
	assert.Equal(t, m.DelayTimer, restored.DelayTimer)
	assert.Equal(t, m.SoundTimer, restored.SoundTimer)
	assert.Equal(t, m.StartAddress(), restored.StartAddress())
	assert.Equal(t, m.Keys(), restored.Keys())
	assert.Equal(t, m.Stack(), restored.Stack())
	if diff := cmp.Diff(m.Memory(), restored.Memory()); diff != "" {
		t.Errorf("memory (-want, +got)\n%s", diff)
	}
	if diff := cmp.Diff(m.Display(), restored.Display()); diff != "" {
		t.Errorf("display (-want, +got)\n%s", diff)
	}
}

func TestHibernate_File(t *testing.T) {
	m := newTestMachine(t, words(0x6042)...)
	tick(t, NewInterpreter(nil), m, 1)

	path := filepath.Join(t.TempDir(), "state.zip")
	assert.NoError(t, m.HibernateToFile(path))

	restored := newTestMachine(t)
	assert.NoError(t, restored.RestoreFromFile(path))
	assert.Equal(t, byte(0x42), restored.V[0])
	assert.Equal(t, uint16(0x202), restored.PC)

	assert.Error(t, restored.RestoreFromFile(filepath.Join(t.TempDir(), "missing.zip")))
}

func TestHibernate_InvalidArchive(t *testing.T) {
	zipOf := func(entries map[string][]byte) []byte {
		buf := new(bytes.Buffer)
		zw := zip.NewWriter(buf)
		for name, data := range entries {
			assert.NoError(t, writeZipEntry(zw, name, data))
		}
		assert.NoError(t, zw.Close())
		return buf.Bytes()
	}
	validState := []byte(`{"sp": 0, "start_address": 512, "pc": 512}`)

	tests := []struct {
		name string
		data []byte
	}{
		{"not a zip", []byte("garbage")},
		{"missing state", zipOf(map[string][]byte{
			memoryEntry:  make([]byte, MemorySize),
			displayEntry: make([]byte, DisplayWidth*DisplayHeight),
		})},
		{"bad json", zipOf(map[string][]byte{
			stateEntry:   []byte("{"),
			memoryEntry:  make([]byte, MemorySize),
			displayEntry: make([]byte, DisplayWidth*DisplayHeight),
		})},
		{"stack pointer out of range", zipOf(map[string][]byte{
			stateEntry:   []byte(`{"sp": 17, "start_address": 512}`),
			memoryEntry:  make([]byte, MemorySize),
			displayEntry: make([]byte, DisplayWidth*DisplayHeight),
		})},
		{"start address inside font", zipOf(map[string][]byte{
			stateEntry:   []byte(`{"sp": 0, "start_address": 16}`),
			memoryEntry:  make([]byte, MemorySize),
			displayEntry: make([]byte, DisplayWidth*DisplayHeight),
		})},
		{"short memory", zipOf(map[string][]byte{
			stateEntry:   validState,
			memoryEntry:  make([]byte, 16),
			displayEntry: make([]byte, DisplayWidth*DisplayHeight),
		})},
		{"missing display", zipOf(map[string][]byte{
			stateEntry:  validState,
			memoryEntry: make([]byte, MemorySize),
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t, words(0x6001)...)
			m.V[2] = 0x22
			before := m.Memory()

			assert.Error(t, m.RestoreFromBytes(tt.data))
			assert.Equal(t, byte(0x22), m.V[2])
			assert.Equal(t, uint16(DefaultStartAddress), m.PC)
			if diff := cmp.Diff(before, m.Memory()); diff != "" {
				t.Errorf("memory changed by failed restore (-want, +got)\n%s", diff)
			}
		})
	}
}

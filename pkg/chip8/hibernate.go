package chip8

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// humanReadableState is the JSON-serializable snapshot of the CPU state.
type humanReadableState struct {
	V            [RegisterCount]byte `json:"v"`
	I            uint16              `json:"i"`
	PC           uint16              `json:"pc"`
	SP           uint8               `json:"sp"`
	Stack        [StackSize]uint16   `json:"stack"`
	DelayTimer   byte                `json:"delay_timer"`
	SoundTimer   byte                `json:"sound_timer"`
	Keys         [KeyCount]bool      `json:"keys"`
	StartAddress uint16              `json:"start_address"`
}

const (
	stateEntry   = "machine_state.json"
	memoryEntry  = "memory.bin"
	displayEntry = "display.bin"
)

// HibernateToBytes serialises the complete machine into an in-memory ZIP
// archive and returns the raw bytes. The random source is not saved.
func (m *Machine) HibernateToBytes() ([]byte, error) {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	state := humanReadableState{
		V:            m.V,
		I:            m.I,
		PC:           m.PC,
		SP:           m.sp,
		Stack:        m.stack,
		DelayTimer:   m.DelayTimer,
		SoundTimer:   m.SoundTimer,
		Keys:         m.keys,
		StartAddress: m.start,
	}
	jsonData, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal machine_state: %w", err)
	}
	if err := writeZipEntry(zw, stateEntry, jsonData); err != nil {
		return nil, err
	}

	if err := writeZipEntry(zw, memoryEntry, m.memory[:]); err != nil {
		return nil, err
	}

	pixels := make([]byte, len(m.display))
	for i, on := range m.display {
		pixels[i] = boolToByte(on)
	}
	if err := writeZipEntry(zw, displayEntry, pixels); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close zip: %w", err)
	}
	return buf.Bytes(), nil
}

// RestoreFromBytes applies an archive produced by HibernateToBytes. The
// machine is only modified if the whole archive is valid.
func (m *Machine) RestoreFromBytes(data []byte) error {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}

	fileMap := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		fileMap[f.Name] = f
	}

	jsonData, err := readZipEntry(fileMap, stateEntry)
	if err != nil {
		return err
	}
	var state humanReadableState
	if err := json.Unmarshal(jsonData, &state); err != nil {
		return fmt.Errorf("unmarshal machine_state: %w", err)
	}
	if int(state.SP) > StackSize {
		return fmt.Errorf("invalid stack pointer %d in snapshot", state.SP)
	}
	if int(state.StartAddress) < len(FontSet) || int(state.StartAddress) >= MemorySize {
		return fmt.Errorf("%w in snapshot: 0x%04X", ErrInvalidStartAddress, state.StartAddress)
	}

	memData, err := readZipEntry(fileMap, memoryEntry)
	if err != nil {
		return err
	}
	if len(memData) != MemorySize {
		return fmt.Errorf("invalid memory size %d in snapshot", len(memData))
	}

	pixels, err := readZipEntry(fileMap, displayEntry)
	if err != nil {
		return err
	}
	if len(pixels) != len(m.display) {
		return fmt.Errorf("invalid display size %d in snapshot", len(pixels))
	}

	m.V = state.V
	m.I = state.I & AddressMask
	m.PC = state.PC & AddressMask
	m.sp = state.SP
	m.stack = state.Stack
	m.DelayTimer = state.DelayTimer
	m.SoundTimer = state.SoundTimer
	m.keys = state.Keys
	m.start = state.StartAddress
	copy(m.memory[:], memData)
	for i, p := range pixels {
		m.display[i] = p != 0
	}
	return nil
}

// HibernateToFile writes the hibernation archive to the given file path.
func (m *Machine) HibernateToFile(path string) error {
	data, err := m.HibernateToBytes()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// RestoreFromFile reads a hibernation archive from the given file path and
// restores the machine state.
func (m *Machine) RestoreFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return m.RestoreFromBytes(data)
}

func writeZipEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create zip entry %q: %w", name, err)
	}
	_, err = w.Write(data)
	return err
}

func readZipEntry(fileMap map[string]*zip.File, name string) ([]byte, error) {
	f, ok := fileMap[name]
	if !ok {
		return nil, fmt.Errorf("zip entry %q not found", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open zip entry %q: %w", name, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

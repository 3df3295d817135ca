package chip8

import (
	"fmt"
	"math/rand/v2"
)

// Machine holds the complete state of one emulated Chip-8 session. It is not
// safe for concurrent use; a driver must serialize calls to Interpreter.Tick,
// SetKey and the accessors.
type Machine struct {
	V  [RegisterCount]byte
	I  uint16
	PC uint16

	DelayTimer byte
	SoundTimer byte

	memory  [MemorySize]byte
	stack   [StackSize]uint16
	sp      uint8
	display Display
	keys    [KeyCount]bool

	start uint16
	rng   *rand.Rand
}

// Option configures a Machine in NewMachine.
type Option func(*Machine) error

// WithStartAddress sets the address programs are loaded to and execution
// starts from.
func WithStartAddress(addr uint16) Option {
	return func(m *Machine) error {
		if int(addr) < len(FontSet) || int(addr) >= MemorySize {
			return fmt.Errorf("%w: 0x%04X", ErrInvalidStartAddress, addr)
		}
		m.start = addr
		return nil
	}
}

// WithSeed makes the random source used by Cxkk deterministic.
func WithSeed(seed uint64) Option {
	return func(m *Machine) error {
		m.rng = rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
		return nil
	}
}

// WithRand injects the random source used by Cxkk.
func WithRand(rng *rand.Rand) Option {
	return func(m *Machine) error {
		m.rng = rng
		return nil
	}
}

// NewMachine creates a machine with the font table at 0x000, all other
// memory zeroed and the program counter at the start address.
func NewMachine(opts ...Option) (*Machine, error) {
	m := &Machine{
		start: DefaultStartAddress,
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	copy(m.memory[:], FontSet[:])
	m.PC = m.start
	return m, nil
}

// LoadProgram copies rom into memory at the start address. The machine is
// left unchanged if the program does not fit.
func (m *Machine) LoadProgram(rom []byte) error {
	limit := MemorySize - int(m.start)
	if len(rom) > limit {
		return &RomTooLargeError{Size: len(rom), Max: limit}
	}
	copy(m.memory[m.start:], rom)
	return nil
}

// SetKey marks the key at index as pressed or released.
func (m *Machine) SetKey(index int, pressed bool) error {
	if index < 0 || index >= KeyCount {
		return &InvalidKeyIndexError{Index: index}
	}
	m.keys[index] = pressed
	return nil
}

// Key reports whether the key at index is pressed. Out of range indices are
// never pressed.
func (m *Machine) Key(index int) bool {
	if index < 0 || index >= KeyCount {
		return false
	}
	return m.keys[index]
}

// Keys returns a copy of the key states.
func (m *Machine) Keys() [KeyCount]bool {
	return m.keys
}

// Reset puts the CPU back into its power-on state: program counter at the
// start address, I, stack and registers zeroed. Loaded program memory is kept
// unless clearProgram is set, in which case everything from the start address
// to the end of memory is zeroed. The font table, the memory below the start
// address, the timers, the display and the keys are never touched.
func (m *Machine) Reset(clearProgram bool) {
	m.PC = m.start
	m.I = 0
	m.sp = 0
	m.stack = [StackSize]uint16{}
	m.V = [RegisterCount]byte{}

	if clearProgram {
		clear(m.memory[m.start:])
	}
}

// StartAddress returns the configured program start address.
func (m *Machine) StartAddress() uint16 {
	return m.start
}

// StackPointer returns the number of return addresses on the stack.
func (m *Machine) StackPointer() int {
	return int(m.sp)
}

// Stack returns a copy of the return addresses currently on the stack, the
// oldest first.
func (m *Machine) Stack() []uint16 {
	out := make([]uint16, m.sp)
	copy(out, m.stack[:m.sp])
	return out
}

// Display returns a copy of the frame buffer.
func (m *Machine) Display() Display {
	return m.display
}

// ReadByte reads the byte at addr, wrapping the address into memory.
func (m *Machine) ReadByte(addr uint16) byte {
	return m.memory[addr&AddressMask]
}

// WriteByte writes the byte at addr, wrapping the address into memory.
func (m *Machine) WriteByte(addr uint16, val byte) {
	m.memory[addr&AddressMask] = val
}

// Memory returns a copy of the complete address space.
func (m *Machine) Memory() []byte {
	out := make([]byte, MemorySize)
	copy(out, m.memory[:])
	return out
}

// Word returns the big-endian instruction word at addr.
func (m *Machine) Word(addr uint16) uint16 {
	return uint16(m.ReadByte(addr))<<8 | uint16(m.ReadByte(addr+1))
}

func (m *Machine) push(addr uint16) bool {
	if int(m.sp) >= StackSize {
		return false
	}
	m.stack[m.sp] = addr
	m.sp++
	return true
}

func (m *Machine) pop() (uint16, bool) {
	if m.sp == 0 {
		return 0, false
	}
	m.sp--
	addr := m.stack[m.sp]
	m.stack[m.sp] = 0
	return addr, true
}

func (m *Machine) decrementTimers() {
	if m.DelayTimer > 0 {
		m.DelayTimer--
	}
	if m.SoundTimer > 0 {
		m.SoundTimer--
	}
}

package chip8

import (
	"github.com/retroenv/retrogolib/log"
)

// Instruction is a decoded 2-byte instruction word.
type Instruction struct {
	Word  uint16
	Group byte   // top nibble, selects the operation group
	X     byte   // second nibble, register index
	Y     byte   // third nibble, register index
	N     byte   // lowest nibble
	KK    byte   // low byte immediate
	NNN   uint16 // 12-bit address
}

// Decode splits an instruction word into its fields.
func Decode(word uint16) Instruction {
	return Instruction{
		Word:  word,
		Group: byte(word >> 12),
		X:     byte(word>>8) & 0x0F,
		Y:     byte(word>>4) & 0x0F,
		N:     byte(word) & 0x0F,
		KK:    byte(word),
		NNN:   word & 0x0FFF,
	}
}

// Interpreter executes instructions on a Machine. It keeps no machine state
// of its own, so one interpreter can drive any number of machines as long as
// each machine is ticked by one caller at a time.
type Interpreter struct {
	logger *log.Logger
	trace  bool
}

// InterpreterOption configures an Interpreter.
type InterpreterOption func(*Interpreter)

// WithTrace enables debug logging of every executed instruction.
func WithTrace(enabled bool) InterpreterOption {
	return func(it *Interpreter) {
		it.trace = enabled
	}
}

// NewInterpreter returns an interpreter logging to logger. A nil logger
// disables tracing.
func NewInterpreter(logger *log.Logger, opts ...InterpreterOption) *Interpreter {
	it := &Interpreter{
		logger: logger,
	}
	for _, opt := range opts {
		opt(it)
	}
	if it.logger == nil {
		it.trace = false
	}
	return it
}

// Tick performs one fetch-decode-execute step and decrements both timers. It
// reports whether the display was modified. On error the program counter
// points at the faulting instruction, the timers are not decremented and no
// register, memory or stack state has been changed.
func (it *Interpreter) Tick(m *Machine) (bool, error) {
	pc := m.PC
	ins := Decode(m.Word(pc))
	m.PC = (pc + opcodeSize) & AddressMask

	if it.trace {
		it.logger.Debug("Executing instruction",
			log.Hex("pc", pc),
			log.Hex("opcode", ins.Word),
			log.String("instruction", Mnemonic(ins.Word)),
			log.Hex("i", m.I),
			log.Int("sp", int(m.sp)))
	}

	dirty, err := it.execute(m, pc, ins)
	if err != nil {
		m.PC = pc
		return false, err
	}

	m.decrementTimers()
	return dirty, nil
}

// Skip steps over the instruction at the program counter without executing
// it. It counts as a tick, so both timers are decremented.
func (it *Interpreter) Skip(m *Machine) {
	m.PC = (m.PC + opcodeSize) & AddressMask
	m.decrementTimers()
}

func (it *Interpreter) execute(m *Machine, pc uint16, ins Instruction) (bool, error) {
	x, y := ins.X, ins.Y

	switch ins.Group {
	case 0x0:
		switch ins.Word {
		case 0x00E0:
			m.display.clear()
			return true, nil

		case 0x00EE:
			addr, ok := m.pop()
			if !ok {
				return false, &StackUnderflowError{PC: pc}
			}
			m.PC = addr

		default:
			return false, &UnsupportedOpcodeError{PC: pc, Word: ins.Word}
		}

	case 0x1:
		m.PC = ins.NNN

	case 0x2:
		if !m.push(m.PC) {
			return false, &StackOverflowError{PC: pc}
		}
		m.PC = ins.NNN

	case 0x3:
		m.skipIf(m.V[x] == ins.KK)

	case 0x4:
		m.skipIf(m.V[x] != ins.KK)

	case 0x5:
		if ins.N != 0 {
			return false, &UnsupportedOpcodeError{PC: pc, Word: ins.Word}
		}
		m.skipIf(m.V[x] == m.V[y])

	case 0x6:
		m.V[x] = ins.KK

	case 0x7:
		m.V[x] += ins.KK

	case 0x8:
		if !m.arithmetic(ins) {
			return false, &UnsupportedOpcodeError{PC: pc, Word: ins.Word}
		}

	case 0x9:
		if ins.N != 0 {
			return false, &UnsupportedOpcodeError{PC: pc, Word: ins.Word}
		}
		m.skipIf(m.V[x] != m.V[y])

	case 0xA:
		m.I = ins.NNN

	case 0xC:
		m.V[x] = byte(m.rng.UintN(256)) & ins.KK

	case 0xD:
		m.drawSprite(m.V[x], m.V[y], ins.N)
		return true, nil

	case 0xE:
		pressed := m.keys[m.V[x]&0x0F]
		switch ins.KK {
		case 0x9E:
			m.skipIf(pressed)
		case 0xA1:
			m.skipIf(!pressed)
		default:
			return false, &UnsupportedOpcodeError{PC: pc, Word: ins.Word}
		}

	case 0xF:
		if !m.misc(ins) {
			return false, &UnsupportedOpcodeError{PC: pc, Word: ins.Word}
		}

	default:
		return false, &UnsupportedOpcodeError{PC: pc, Word: ins.Word}
	}

	return false, nil
}

func (m *Machine) skipIf(cond bool) {
	if cond {
		m.PC = (m.PC + opcodeSize) & AddressMask
	}
}

// arithmetic executes the 8xyN register group. The flag is written after the
// result so that it survives when x is VF.
func (m *Machine) arithmetic(ins Instruction) bool {
	vx, vy := m.V[ins.X], m.V[ins.Y]

	switch ins.N {
	case 0x0:
		m.V[ins.X] = vy

	case 0x1:
		m.V[ins.X] = vx | vy

	case 0x2:
		m.V[ins.X] = vx & vy

	case 0x3:
		m.V[ins.X] = vx ^ vy

	case 0x4:
		sum := uint16(vx) + uint16(vy)
		m.V[ins.X] = byte(sum)
		m.V[FlagRegister] = boolToByte(sum > 0xFF)

	case 0x5:
		m.V[ins.X] = vx - vy
		m.V[FlagRegister] = boolToByte(vx >= vy)

	case 0x6:
		m.V[ins.X] = vy >> 1
		m.V[FlagRegister] = vy & 0x01

	default:
		return false
	}
	return true
}

// misc executes the Fxkk group.
func (m *Machine) misc(ins Instruction) bool {
	x := ins.X

	switch ins.KK {
	case 0x07:
		m.V[x] = m.DelayTimer

	case 0x0A:
		key, ok := m.pressedKey()
		if !ok {
			// stall on this instruction until a key is down
			m.PC = (m.PC - opcodeSize) & AddressMask
			return true
		}
		m.V[x] = key

	case 0x15:
		m.DelayTimer = m.V[x]

	case 0x1E:
		m.I = (m.I + uint16(m.V[x])) & AddressMask

	case 0x29:
		m.I = uint16(m.V[x]) * GlyphSize

	case 0x33:
		v := m.V[x]
		m.store(m.I, v/100)
		m.store(m.I+1, v/10%10)
		m.store(m.I+2, v%10)

	case 0x55:
		for i := uint16(0); i <= uint16(x); i++ {
			m.store(m.I+i, m.V[i])
		}

	case 0x65:
		for i := uint16(0); i <= uint16(x); i++ {
			m.V[i] = m.ReadByte(m.I + i)
		}
		m.I = (m.I + uint16(x) + 1) & AddressMask

	default:
		return false
	}
	return true
}

// store writes a byte for Fx33 and Fx55. The font table is read-only for
// programs, stores into it are dropped.
func (m *Machine) store(addr uint16, val byte) {
	addr &= AddressMask
	if int(addr) < len(FontSet) {
		return
	}
	m.memory[addr] = val
}

// pressedKey returns the highest pressed key index.
func (m *Machine) pressedKey() (byte, bool) {
	for i := KeyCount - 1; i >= 0; i-- {
		if m.keys[i] {
			return byte(i), true
		}
	}
	return 0, false
}

// drawSprite XORs an n-row sprite read from memory at I onto the display.
// Every pixel wraps around the display edges individually. VF is set when a
// lit pixel gets switched off.
func (m *Machine) drawSprite(vx, vy, n byte) {
	originX := int(vx) % DisplayWidth
	originY := int(vy) % DisplayHeight

	m.V[FlagRegister] = 0
	var collision byte
	for row := 0; row < int(n); row++ {
		bits := m.ReadByte(m.I + uint16(row))
		for col := 0; col < 8; col++ {
			if bits&(0x80>>col) == 0 {
				continue
			}
			if m.display.flip(originX+col, originY+row) {
				collision = 1
			}
		}
	}
	m.V[FlagRegister] = collision
}

func boolToByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

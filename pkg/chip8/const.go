package chip8

// Chip-8 memory map (4KB total):
//
//	0x000-0x04F: font glyphs (16 x 5 bytes)
//	0x050-0x1FF: unused interpreter area
//	0x200-0xFFF: program and work RAM
//
// The display, stack and keypad live outside of addressable memory.
const (
	MemorySize          = 0x1000
	AddressMask         = MemorySize - 1
	DefaultStartAddress = 0x200

	RegisterCount = 16
	StackSize     = 16
	KeyCount      = 16

	DisplayWidth  = 64
	DisplayHeight = 32

	// FlagRegister is VF, overwritten by arithmetic, shift and draw instructions.
	FlagRegister = 0xF

	opcodeSize = 2
)

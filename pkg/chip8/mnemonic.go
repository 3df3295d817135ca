package chip8

import (
	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Mnemonic returns the assembler name of the instruction encoded by word, or
// an empty string if the word matches no known opcode pattern.
func Mnemonic(word uint16) string {
	nibble := int(word >> 12)
	for _, op := range chip8.Opcodes[nibble] {
		if op.Instruction == nil {
			continue
		}
		if op.Info.Mask&word == op.Info.Value {
			return op.Instruction.Name
		}
	}
	return ""
}

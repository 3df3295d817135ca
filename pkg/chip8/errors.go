package chip8

import (
	"errors"
	"fmt"
)

// ErrInvalidStartAddress is returned when a start address would overlap the
// font table or lie outside of memory.
var ErrInvalidStartAddress = errors.New("invalid program start address")

// UnsupportedOpcodeError reports an instruction word the interpreter does not
// implement. PC is the address the word was fetched from.
type UnsupportedOpcodeError struct {
	PC   uint16
	Word uint16
}

func (e *UnsupportedOpcodeError) Error() string {
	return fmt.Sprintf("unsupported opcode 0x%04X at 0x%03X", e.Word, e.PC)
}

// StackOverflowError is returned by a call when all stack slots are in use.
type StackOverflowError struct {
	PC uint16
}

func (e *StackOverflowError) Error() string {
	return fmt.Sprintf("stack overflow at 0x%03X: %d nested calls", e.PC, StackSize)
}

// StackUnderflowError is returned by a return with an empty stack.
type StackUnderflowError struct {
	PC uint16
}

func (e *StackUnderflowError) Error() string {
	return fmt.Sprintf("stack underflow at 0x%03X: return without call", e.PC)
}

// RomTooLargeError is returned when a program does not fit between the start
// address and the end of memory.
type RomTooLargeError struct {
	Size int
	Max  int
}

func (e *RomTooLargeError) Error() string {
	return fmt.Sprintf("program too large for memory: %d bytes > %d bytes", e.Size, e.Max)
}

// InvalidKeyIndexError is returned by SetKey for indices outside of 0x0-0xF.
type InvalidKeyIndexError struct {
	Index int
}

func (e *InvalidKeyIndexError) Error() string {
	return fmt.Sprintf("invalid key index %d: must be in [0,%d)", e.Index, KeyCount)
}

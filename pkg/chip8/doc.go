// Package chip8 implements the Chip-8 virtual machine: the machine state
// (memory, registers, stack, timers, keypad and display) and an interpreter
// that advances it one instruction per Tick.
//
// A minimal driver loop:
//
//	m, err := chip8.NewMachine()
//	if err != nil {
//		return err
//	}
//	if err := m.LoadProgram(rom); err != nil {
//		return err
//	}
//	it := chip8.NewInterpreter(logger)
//	for {
//		dirty, err := it.Tick(m)
//		if err != nil {
//			return err
//		}
//		if dirty {
//			display := m.Display()
//			render(&display)
//		}
//	}
//
// Drivers are expected to call Tick at 60 Hz, the rate at which the delay
// and sound timers count down.
package chip8

// Package driver runs a Chip-8 machine outside of a graphical frontend. It
// owns the tick loop, applies queued key events between ticks and decides what
// happens when an instruction faults.
package driver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gochip8/pkg/chip8"

	"github.com/retroenv/retrogolib/log"
)

// ErrorPolicy selects how the runner reacts to a failing instruction.
type ErrorPolicy int

const (
	// Halt stops the run and returns the fault.
	Halt ErrorPolicy = iota
	// Skip logs the fault and continues with the following instruction.
	Skip
)

var policyNames = []string{
	Halt: "halt",
	Skip: "skip",
}

// ParseErrorPolicy converts a policy name as used on the command line.
func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range policyNames {
		if n == name {
			return ErrorPolicy(i), nil
		}
	}
	return Halt, fmt.Errorf("unsupported error policy: %s. Valid options: %s",
		s, strings.Join(policyNames, ", "))
}

func (p ErrorPolicy) String() string {
	if int(p) < 0 || int(p) >= len(policyNames) {
		return fmt.Sprintf("ErrorPolicy(%d)", int(p))
	}
	return policyNames[p]
}

// KeyEvent changes the state of one keypad key.
type KeyEvent struct {
	Index   int
	Pressed bool
}

// Options configures a Runner.
type Options struct {
	Rate     int // ticks per second, 0 runs unthrottled
	MaxTicks int // 0 runs until cancelled or halted
	Policy   ErrorPolicy

	// OnFrame receives a copy of the display after every tick that changed it.
	OnFrame func(d chip8.Display)

	// Input delivers key events from other goroutines. Events are applied
	// before every tick.
	Input <-chan KeyEvent
}

// Stats counts what a runner has done so far.
type Stats struct {
	Ticks   int
	Frames  int
	Skipped int
}

// Runner ticks a single machine. Only the goroutine calling Run or Step may
// touch the machine while the runner is in use.
type Runner struct {
	logger  *log.Logger
	interp  *chip8.Interpreter
	machine *chip8.Machine
	opts    Options
	stats   Stats
}

// New returns a runner for the machine.
func New(logger *log.Logger, interp *chip8.Interpreter, m *chip8.Machine, opts Options) *Runner {
	return &Runner{
		logger:  logger,
		interp:  interp,
		machine: m,
		opts:    opts,
	}
}

// Stats returns the counters of the runner.
func (r *Runner) Stats() Stats {
	return r.stats
}

// Run ticks the machine until the context is cancelled, the tick budget is
// used up or an instruction faults under the Halt policy.
func (r *Runner) Run(ctx context.Context) error {
	var tick <-chan time.Time
	if r.opts.Rate > 0 {
		if interval := time.Second / time.Duration(r.opts.Rate); interval > 0 {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			tick = ticker.C
		}
	}

	for r.opts.MaxTicks == 0 || r.stats.Ticks < r.opts.MaxTicks {
		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		if _, err := r.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Step applies pending key events and executes one instruction. It reports
// whether the display changed.
func (r *Runner) Step() (bool, error) {
	r.applyInput()

	m := r.machine
	dirty, err := r.interp.Tick(m)
	if err != nil {
		pc := m.PC
		word := m.Word(pc)
		if r.opts.Policy != Skip {
			return false, fmt.Errorf("executing %s at 0x%03X: %w", describe(word), pc, err)
		}

		r.logger.Warn("Skipping faulting instruction",
			log.Hex("pc", pc),
			log.Hex("opcode", word),
			log.Err(err))
		r.interp.Skip(m)
		r.stats.Ticks++
		r.stats.Skipped++
		return false, nil
	}

	r.stats.Ticks++
	if dirty {
		r.stats.Frames++
		if r.opts.OnFrame != nil {
			r.opts.OnFrame(m.Display())
		}
	}
	return dirty, nil
}

func (r *Runner) applyInput() {
	if r.opts.Input == nil {
		return
	}
	for {
		select {
		case ev, ok := <-r.opts.Input:
			if !ok {
				r.opts.Input = nil
				return
			}
			if err := r.machine.SetKey(ev.Index, ev.Pressed); err != nil {
				r.logger.Warn("Ignoring key event", log.Err(err))
			}
		default:
			return
		}
	}
}

func describe(word uint16) string {
	name := chip8.Mnemonic(word)
	if name == "" {
		return fmt.Sprintf("opcode %04X", word)
	}
	return fmt.Sprintf("%s (%04X)", name, word)
}

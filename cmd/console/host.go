package main

import (
	"context"
	"io"
	"sync"
	"time"

	"gochip8/pkg/driver"
	"gochip8/pkg/keypad"
)

const ctrlC = 0x03

// keyReader turns raw terminal bytes into key events. Terminals only report
// key presses, so every press is followed by a release after hold. A repeated
// press of the same key restarts its hold.
type keyReader struct {
	events chan driver.KeyEvent
	hold   time.Duration
	quit   func()

	mu      sync.Mutex
	presses [keypad.Size]uint64 // press generation per key
}

func newKeyReader(hold time.Duration, quit func()) *keyReader {
	return &keyReader{
		events: make(chan driver.KeyEvent, 64),
		hold:   hold,
		quit:   quit,
	}
}

// run reads r until it fails or the context ends. Ctrl+C and Escape call quit
// since raw mode disables the terminal's own signal handling.
func (k *keyReader) run(ctx context.Context, r io.Reader) {
	buf := make([]byte, 16)
	for {
		n, err := r.Read(buf)
		for _, b := range buf[:n] {
			if b == ctrlC || b == 0x1b {
				k.quit()
				return
			}
			index, ok := keypad.IndexOf(rune(b))
			if !ok {
				continue
			}
			gen := k.press(ctx, index)
			time.AfterFunc(k.hold, func() {
				k.release(ctx, index, gen)
			})
		}
		if err != nil || ctx.Err() != nil {
			return
		}
	}
}

// press sends a press event for index and returns its generation.
func (k *keyReader) press(ctx context.Context, index int) uint64 {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.presses[index]++
	k.send(ctx, driver.KeyEvent{Index: index, Pressed: true})
	return k.presses[index]
}

// release sends the release for index unless the key was pressed again after
// the press identified by gen.
func (k *keyReader) release(ctx context.Context, index int, gen uint64) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.presses[index] != gen {
		return
	}
	k.send(ctx, driver.KeyEvent{Index: index, Pressed: false})
}

func (k *keyReader) send(ctx context.Context, ev driver.KeyEvent) {
	select {
	case k.events <- ev:
	case <-ctx.Done():
	}
}

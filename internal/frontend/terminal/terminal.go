// Package terminal implements a text terminal front end that renders the
// display with block characters and reads keypad input from the TTY.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	tm "github.com/buger/goterm"
	"github.com/pkg/term"
	"github.com/retroenv/chip8vm/internal/chip8"
	"github.com/retroenv/retrogolib/log"
)

// DefaultKeyHold is the time a key stays pressed after it was typed. Terminals
// do not report key releases, the hold time bridges the gap between the
// first typed character and the keyboard auto repeat.
const DefaultKeyHold = 150 * time.Millisecond

const (
	ttyDevice   = "/dev/tty"
	readTimeout = 100 * time.Millisecond
)

// Config contains the terminal front end options.
type Config struct {
	// KeyHold is the time a typed key stays pressed, DefaultKeyHold if 0.
	KeyHold time.Duration

	// OnQuit is called when the user presses the escape key.
	OnQuit func()
}

// Terminal renders frames to the terminal and feeds typed keys into a keypad.
type Terminal struct {
	logger *log.Logger
	keypad *chip8.Keypad
	config Config

	tty  *term.Term
	done chan struct{}

	mu       sync.Mutex
	releases [chip8.KeyCount]*time.Timer

	toneOn bool
}

// New returns a new terminal front end feeding the keypad.
func New(logger *log.Logger, keypad *chip8.Keypad, cfg Config) *Terminal {
	if cfg.KeyHold == 0 {
		cfg.KeyHold = DefaultKeyHold
	}
	return &Terminal{
		logger: logger,
		keypad: keypad,
		config: cfg,
	}
}

// Start switches the terminal to cbreak mode and starts reading keys until
// the context is canceled or Close is called.
func (t *Terminal) Start(ctx context.Context) error {
	tty, err := term.Open(ttyDevice, term.CBreakMode, term.ReadTimeout(readTimeout))
	if err != nil {
		return fmt.Errorf("opening terminal: %w", err)
	}
	t.tty = tty
	t.done = make(chan struct{})

	tm.Clear()
	tm.MoveCursor(1, 1)
	tm.Flush()

	go t.readKeys(ctx)
	return nil
}

// Run starts the terminal, executes the run function and restores the
// terminal when it returns. Pressing escape cancels the run context.
func (t *Terminal) Run(ctx context.Context, run func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	onQuit := t.config.OnQuit
	t.config.OnQuit = func() {
		if onQuit != nil {
			onQuit()
		}
		cancel()
	}

	if err := t.Start(ctx); err != nil {
		return err
	}

	runErr := run(ctx)
	if err := t.Close(); err != nil {
		return errors.Join(runErr, err)
	}
	return runErr
}

// Close stops reading keys and restores the terminal mode.
func (t *Terminal) Close() error {
	if t.tty == nil {
		return nil
	}

	close(t.done)
	restoreErr := t.tty.Restore()
	closeErr := t.tty.Close()
	t.tty = nil

	t.mu.Lock()
	for _, timer := range t.releases {
		if timer != nil {
			timer.Stop()
		}
	}
	t.mu.Unlock()

	if err := errors.Join(restoreErr, closeErr); err != nil {
		return fmt.Errorf("restoring terminal: %w", err)
	}
	return nil
}

// Render draws the frame at the top left corner of the terminal.
func (t *Terminal) Render(frame chip8.Frame) {
	tm.MoveCursor(1, 1)
	_, _ = tm.Print(renderFrame(frame))
	tm.Flush()
}

// Tone rings the terminal bell when the tone starts.
func (t *Terminal) Tone(on bool) {
	if on && !t.toneOn {
		_, _ = tm.Output.WriteString("\a")
		_ = tm.Output.Flush()
	}
	t.toneOn = on
}

func (t *Terminal) readKeys(ctx context.Context) {
	tty := t.tty
	buf := make([]byte, 16)

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.done:
			return
		default:
		}

		n, err := tty.Read(buf)
		if err != nil {
			// the read timeout is reported as EOF
			if errors.Is(err, io.EOF) {
				continue
			}
			select {
			case <-t.done:
			default:
				t.logger.Error("Reading terminal input failed", log.Err(err))
			}
			return
		}

		for _, b := range buf[:n] {
			t.handleKey(b)
		}
	}
}

// handleKey presses the mapped keypad key and schedules its release.
func (t *Terminal) handleKey(b byte) {
	if b == keyEscape {
		if t.config.OnQuit != nil {
			t.config.OnQuit()
		}
		return
	}

	key, ok := mapKey(b)
	if !ok {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// every typed character is a new press, auto repeat releases the held
	// key first so that a pending key wait sees it
	timer := t.releases[key]
	if timer != nil {
		_ = t.keypad.Release(key)
	}
	if err := t.keypad.Press(key); err != nil {
		t.logger.Error("Pressing key failed", log.Err(err))
		return
	}

	if timer != nil {
		timer.Reset(t.config.KeyHold)
		return
	}
	t.releases[key] = time.AfterFunc(t.config.KeyHold, func() {
		_ = t.keypad.Release(key)
	})
}

// renderFrame converts the frame to text, every character covers two
// vertically adjacent pixels.
func renderFrame(frame chip8.Frame) string {
	var sb strings.Builder
	sb.Grow((chip8.DisplayWidth*3 + 1) * (chip8.DisplayHeight / 2))

	for y := 0; y < chip8.DisplayHeight; y += 2 {
		for x := range chip8.DisplayWidth {
			top := frame.Pixel(x, y)
			bottom := frame.Pixel(x, y+1)

			switch {
			case top && bottom:
				sb.WriteString("█")
			case top:
				sb.WriteString("▀")
			case bottom:
				sb.WriteString("▄")
			default:
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

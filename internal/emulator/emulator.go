// Package emulator implements the run loop that drives a CHIP-8 machine at a
// configured instruction rate and ticks its timers at a fixed rate.
package emulator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/retroenv/chip8vm/internal/chip8"
	"github.com/retroenv/chip8vm/internal/disasm"
	"github.com/retroenv/retrogolib/log"
)

// Default rates of the run loop.
const (
	DefaultInstructionsPerSecond = 700
	DefaultTimerHz               = 60
)

// maxBacklog limits how long the run loop catches up on instructions and
// timer ticks after it was delayed, for example by a suspended process.
const maxBacklog = 250 * time.Millisecond

var errInvalidRate = errors.New("rate must be positive")

// Config contains the run loop options.
type Config struct {
	InstructionsPerSecond int
	TimerHz               int

	// Trace logs every executed instruction at debug level.
	Trace bool
}

// DefaultConfig returns the default run loop configuration.
func DefaultConfig() Config {
	return Config{
		InstructionsPerSecond: DefaultInstructionsPerSecond,
		TimerHz:               DefaultTimerHz,
	}
}

// Emulator drives a machine and forwards its output to the host collaborators.
// It owns the machine, which must not be accessed while Run is executing.
type Emulator struct {
	logger  *log.Logger
	machine *chip8.Machine
	display Display
	audio   Audio
	config  Config
	clock   clock

	toneOn bool
}

// New returns a new emulator for the machine. Nil display or audio outputs
// discard the output.
func New(logger *log.Logger, machine *chip8.Machine, display Display, audio Audio, cfg Config) (*Emulator, error) {
	if cfg.InstructionsPerSecond <= 0 {
		return nil, fmt.Errorf("%w: instructions per second %d", errInvalidRate, cfg.InstructionsPerSecond)
	}
	if cfg.TimerHz <= 0 {
		return nil, fmt.Errorf("%w: timer rate %d", errInvalidRate, cfg.TimerHz)
	}
	if display == nil {
		display = nopOutput{}
	}
	if audio == nil {
		audio = nopOutput{}
	}

	return &Emulator{
		logger:  logger,
		machine: machine,
		display: display,
		audio:   audio,
		config:  cfg,
		clock:   systemClock{},
	}, nil
}

// Machine returns the emulated machine.
func (e *Emulator) Machine() *chip8.Machine {
	return e.machine
}

// Step executes a single instruction and renders the display if it changed.
func (e *Emulator) Step() (chip8.Effects, error) {
	if e.config.Trace {
		e.trace()
	}

	effects, err := e.machine.Step()
	if err != nil {
		return chip8.Effects{}, err //nolint:wrapcheck // machine errors contain the address already
	}
	if effects.Redraw {
		e.display.Render(e.machine.Frame())
	}
	return effects, nil
}

// Run executes the machine until an error occurs or the context is canceled.
// On cancellation the context error is returned and the machine is left in
// the state after the last completed instruction.
func (e *Emulator) Run(ctx context.Context) error {
	now := e.clock.Now()
	instructions := newPacer(e.config.InstructionsPerSecond, now)
	timers := newPacer(e.config.TimerHz, now)

	e.logger.Debug("Starting run loop",
		log.Int("ips", e.config.InstructionsPerSecond),
		log.Int("timer_hz", e.config.TimerHz),
		log.String("shift_source", shiftSource(e.machine.Quirks())))

	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("running machine: %w", err)
		}

		now = e.clock.Now()
		e.tickTimers(timers, now)

		if _, waiting := e.machine.AwaitingKey(); waiting {
			if err := e.waitForKey(ctx, timers, now); err != nil {
				return err
			}
			// instructions that were due while waiting are not caught up
			instructions.restart(e.clock.Now())
			continue
		}

		if err := e.runInstructions(ctx, instructions, timers, now); err != nil {
			return fmt.Errorf("running machine: %w", err)
		}
		if _, waiting := e.machine.AwaitingKey(); waiting {
			continue
		}

		next := instructions.next()
		if timerNext := timers.next(); timerNext.Before(next) {
			next = timerNext
		}
		if err := e.sleep(ctx, next.Sub(now)); err != nil {
			return err
		}
	}
}

// runInstructions executes all instructions that are due. Timer ticks that
// fall between two instructions are delivered in between. Execution stops
// early when the context is canceled or the machine starts waiting for a key.
func (e *Emulator) runInstructions(ctx context.Context, instructions, timers *pacer, now time.Time) error {
	due := instructions.due(now)
	backlog := uint64(e.config.InstructionsPerSecond) * uint64(maxBacklog) / uint64(time.Second)
	if due > backlog+1 {
		instructions.deliver(due - backlog)
		due = backlog
	}

	redraw := false
	defer func() {
		if redraw {
			e.display.Render(e.machine.Frame())
		}
	}()

	for range due {
		if err := ctx.Err(); err != nil {
			return err //nolint:wrapcheck // wrapped by the caller
		}
		e.tickTimers(timers, instructions.next())

		if e.config.Trace {
			e.trace()
		}

		effects, err := e.machine.Step()
		if err != nil {
			return err //nolint:wrapcheck // wrapped by the caller
		}
		instructions.deliver(1)
		redraw = redraw || effects.Redraw

		if effects.AwaitKey {
			e.logger.Debug("Waiting for key press", log.Hex("pc", e.machine.PC()))
			return nil
		}
	}
	return nil
}

// waitForKey blocks until a key is pressed, the next timer tick is due or the
// context is canceled.
func (e *Emulator) waitForKey(ctx context.Context, timers *pacer, now time.Time) error {
	select {
	case key := <-e.machine.Keypad().Presses():
		if err := e.machine.ResumeWithKey(key); err != nil {
			return fmt.Errorf("resuming with key: %w", err)
		}
		e.logger.Debug("Key pressed", log.Uint8("key", key))
		return nil

	case <-e.clock.After(timers.next().Sub(now)):
		return nil

	case <-ctx.Done():
		return fmt.Errorf("waiting for key: %w", ctx.Err())
	}
}

// tickTimers delivers all due timer ticks and updates the tone.
func (e *Emulator) tickTimers(timers *pacer, now time.Time) {
	due := timers.due(now)
	backlog := uint64(e.config.TimerHz) * uint64(maxBacklog) / uint64(time.Second)
	if due > backlog+1 {
		timers.deliver(due - backlog)
		due = backlog
	}

	for range due {
		e.setTone(e.machine.TickTimers())
		timers.deliver(1)
	}
}

func (e *Emulator) setTone(on bool) {
	e.audio.Tone(on)
	if on != e.toneOn {
		e.toneOn = on
		if on {
			e.logger.Debug("Tone started")
		} else {
			e.logger.Debug("Tone stopped")
		}
	}
}

func (e *Emulator) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	select {
	case <-e.clock.After(d):
		return nil
	case <-ctx.Done():
		return fmt.Errorf("running machine: %w", ctx.Err())
	}
}

// trace logs the instruction at PC.
func (e *Emulator) trace() {
	if _, waiting := e.machine.AwaitingKey(); waiting {
		return
	}

	pc := e.machine.PC()
	data, err := e.machine.ReadMemory(pc, 2)
	if err != nil {
		return
	}

	word := uint16(data[0])<<8 | uint16(data[1])
	op, err := chip8.Decode(word)
	if err != nil {
		return
	}
	e.logger.Debug("Executing",
		log.Hex("pc", pc),
		log.Hex("word", word),
		log.String("op", disasm.FormatOperation(op)))
}

// shiftSource names the register that 8xy6 and 8xyE shift.
func shiftSource(quirks chip8.Quirks) string {
	if quirks.ShiftUsesVX {
		return "vx"
	}
	return "vy"
}

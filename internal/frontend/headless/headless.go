// Package headless implements a front end without any output, used for
// automated runs and when no terminal is attached.
package headless

import (
	"context"

	"github.com/retroenv/chip8vm/internal/chip8"
	"github.com/retroenv/retrogolib/log"
)

// Headless records the output of the machine instead of presenting it.
type Headless struct {
	logger *log.Logger

	frames    int
	toneTicks int
	last      chip8.Frame
}

// New returns a new headless front end.
func New(logger *log.Logger) *Headless {
	return &Headless{
		logger: logger,
	}
}

// Run executes the run function.
func (h *Headless) Run(ctx context.Context, run func(ctx context.Context) error) error {
	return run(ctx)
}

// Close does nothing.
func (h *Headless) Close() error {
	return nil
}

// Render stores the frame.
func (h *Headless) Render(frame chip8.Frame) {
	h.frames++
	h.last = frame
}

// Tone counts the timer ticks with an audible tone.
func (h *Headless) Tone(on bool) {
	if on {
		h.toneTicks++
	}
}

// Frames returns the number of rendered frames.
func (h *Headless) Frames() int {
	return h.frames
}

// ToneTicks returns the number of timer ticks with an audible tone.
func (h *Headless) ToneTicks() int {
	return h.toneTicks
}

// LastFrame returns the last rendered frame.
func (h *Headless) LastFrame() chip8.Frame {
	return h.last
}

// LogSummary logs the recorded output statistics.
func (h *Headless) LogSummary() {
	h.logger.Debug("Headless run finished",
		log.Int("frames", h.frames),
		log.Int("tone_ticks", h.toneTicks),
		log.Int("lit_pixels", h.last.Lit()))
}

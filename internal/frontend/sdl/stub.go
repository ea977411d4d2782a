//go:build !sdl

package sdl

import (
	"context"

	"github.com/retroenv/chip8vm/internal/chip8"
	"github.com/retroenv/retrogolib/log"
)

// DefaultScale is the default window size factor of a display pixel.
const DefaultScale = 10

// Config contains the SDL front end options.
type Config struct {
	Scale int
}

// SDL is not available in this build.
type SDL struct{}

// Available returns whether the SDL front end was built in.
func Available() bool {
	return false
}

// New returns ErrNotAvailable.
func New(*log.Logger, *chip8.Keypad, Config) (*SDL, error) {
	return nil, ErrNotAvailable
}

// Close does nothing.
func (s *SDL) Close() error { return nil }

// Render does nothing.
func (s *SDL) Render(chip8.Frame) {}

// Tone does nothing.
func (s *SDL) Tone(bool) {}

// Run returns ErrNotAvailable.
func (s *SDL) Run(context.Context, func(ctx context.Context) error) error {
	return ErrNotAvailable
}

// PickROM returns ErrNotAvailable.
func PickROM() (string, error) {
	return "", ErrNotAvailable
}

package headless

import (
	"context"
	"testing"

	"github.com/retroenv/chip8vm/internal/chip8"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestHeadless(t *testing.T) {
	h := New(log.NewTestLogger(t))

	var frame chip8.Frame
	frame[3][4] = true
	h.Render(chip8.Frame{})
	h.Render(frame)
	h.Tone(true)
	h.Tone(false)
	h.Tone(true)

	assert.Equal(t, 2, h.Frames())
	assert.Equal(t, 2, h.ToneTicks())
	last := h.LastFrame()
	assert.True(t, last.Pixel(4, 3))

	h.LogSummary()
	assert.NoError(t, h.Close())
}

func TestRun(t *testing.T) {
	h := New(log.NewTestLogger(t))

	called := false
	err := h.Run(context.Background(), func(ctx context.Context) error {
		called = true
		return ctx.Err()
	})
	assert.NoError(t, err)
	assert.True(t, called)
}

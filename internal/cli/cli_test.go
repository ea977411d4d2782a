package cli

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/retroenv/chip8vm/internal/options"
	"github.com/retroenv/retrogolib/assert"
)

func TestParseDefaults(t *testing.T) {
	var buf bytes.Buffer
	opts, err := Parse("chip8vm", []string{"pong.ch8"}, &buf)
	assert.NoError(t, err)

	assert.Equal(t, "pong.ch8", opts.Input)
	assert.Equal(t, 700, opts.InstructionsPerSecond)
	assert.Equal(t, 60, opts.TimerHz)
	assert.Equal(t, "", opts.Frontend)
	assert.False(t, opts.Disasm)
	assert.False(t, opts.ShiftUsesVX)
	assert.Equal(t, uint64(0), opts.Seed)
}

//nolint:funlen // table driven test
func TestParseFlags(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, opts options.Program)
	}{
		{
			name: "input flag",
			args: []string{"-i", "game.ch8"},
			check: func(t *testing.T, opts options.Program) {
				t.Helper()
				assert.Equal(t, "game.ch8", opts.Input)
			},
		},
		{
			name: "emulation options",
			args: []string{"-ips", "1000", "-timerhz", "50", "-seed", "42", "-shift-vx", "game.ch8"},
			check: func(t *testing.T, opts options.Program) {
				t.Helper()
				assert.Equal(t, 1000, opts.InstructionsPerSecond)
				assert.Equal(t, 50, opts.TimerHz)
				assert.Equal(t, uint64(42), opts.Seed)
				assert.True(t, opts.ShiftUsesVX)
			},
		},
		{
			name: "front end is normalized",
			args: []string{"-frontend", "Headless", "-duration", "2s", "game.ch8"},
			check: func(t *testing.T, opts options.Program) {
				t.Helper()
				assert.Equal(t, options.FrontendHeadless, opts.Frontend)
				assert.Equal(t, 2*time.Second, opts.Duration)
			},
		},
		{
			name: "trace implies debug",
			args: []string{"-trace", "game.ch8"},
			check: func(t *testing.T, opts options.Program) {
				t.Helper()
				assert.True(t, opts.Trace)
				assert.True(t, opts.Debug)
			},
		},
		{
			name: "disassembly output",
			args: []string{"-disasm", "-o", "game.asm", "-wav", "tone.wav", "game.ch8"},
			check: func(t *testing.T, opts options.Program) {
				t.Helper()
				assert.True(t, opts.Disasm)
				assert.Equal(t, "game.asm", opts.Output)
				assert.Equal(t, "tone.wav", opts.Wav)
			},
		},
		{
			name: "sdl without ROM file",
			args: []string{"-frontend", "sdl"},
			check: func(t *testing.T, opts options.Program) {
				t.Helper()
				assert.Equal(t, "", opts.Input)
				assert.Equal(t, options.FrontendSDL, opts.Frontend)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			opts, err := Parse("chip8vm", tt.args, &buf)
			assert.NoError(t, err)
			tt.check(t, opts)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		usageError bool
		contains   string
	}{
		{"no ROM file", []string{"-q"}, true, "no ROM file given"},
		{"unknown flag", []string{"-unknown", "game.ch8"}, true, "-unknown"},
		{"flag after file", []string{"game.ch8", "-q"}, true, "after ROM file"},
		{"multiple files", []string{"a.ch8", "b.ch8"}, true, "only one ROM file"},
		{"invalid front end", []string{"-frontend", "gl", "game.ch8"}, false, "unsupported front end"},
		{"invalid rate", []string{"-ips", "0", "game.ch8"}, false, "instructions per second"},
		{"invalid timer rate", []string{"-timerhz", "-5", "game.ch8"}, false, "timer rate"},
		{"negative duration", []string{"-duration", "-1s", "game.ch8"}, false, "duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			_, err := Parse("chip8vm", tt.args, &buf)
			assert.ErrorContains(t, err, tt.contains)

			var usageErr *UsageError
			assert.Equal(t, tt.usageError, errors.As(err, &usageErr))
		})
	}
}

func TestShowUsage(t *testing.T) {
	var buf bytes.Buffer
	_, err := Parse("chip8vm", nil, &buf)

	var usageErr *UsageError
	assert.True(t, errors.As(err, &usageErr))
	usageErr.ShowUsage()

	output := buf.String()
	assert.Contains(t, output, "usage: chip8vm")
	assert.Contains(t, output, "-frontend")
	assert.Contains(t, output, "-shift-vx")
}

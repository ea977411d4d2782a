package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/retroenv/chip8vm/internal/chip8"
	"github.com/retroenv/chip8vm/internal/frontend/headless"
	"github.com/retroenv/chip8vm/internal/frontend/sdl"
	"github.com/retroenv/chip8vm/internal/loader"
	"github.com/retroenv/chip8vm/internal/options"
	"github.com/retroenv/chip8vm/internal/statsview"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

// loopROM sets the sound timer and spins in place.
var loopROM = []byte{
	0x60, 0x3C, // ld V0, $3C
	0xF0, 0x18, // ld ST, V0
	0x12, 0x04, // jp $204
}

func testOptions(input string) options.Program {
	return options.Program{
		Parameters: options.Parameters{Input: input},
		Flags: options.Flags{
			Frontend: options.FrontendHeadless,
			Duration: 50 * time.Millisecond,
			Quiet:    true,
		},
		Machine: options.Machine{
			InstructionsPerSecond: 700,
			TimerHz:               60,
			Seed:                  1,
		},
	}
}

func TestNew(t *testing.T) {
	p := New(log.NewTestLogger(t))

	assert.NotNil(t, p)
	assert.NotNil(t, p.logger)
	assert.NotNil(t, p.detector)
	assert.NotNil(t, p.loader)
}

func TestExecute(t *testing.T) {
	t.Run("run headless for a duration", func(t *testing.T) {
		p := New(log.NewTestLogger(t))
		tmpFile := createTempFile(t, loopROM)

		err := p.Execute(context.Background(), testOptions(tmpFile))
		assert.NoError(t, err)
	})

	t.Run("record the tone", func(t *testing.T) {
		p := New(log.NewTestLogger(t))
		tmpFile := createTempFile(t, loopROM)
		wavFile := filepath.Join(t.TempDir(), "tone.wav")

		opts := testOptions(tmpFile)
		opts.Wav = wavFile
		assert.NoError(t, p.Execute(context.Background(), opts))

		info, err := os.Stat(wavFile)
		assert.NoError(t, err)
		assert.True(t, info.Size() > 44)
	})

	t.Run("write disassembly listing", func(t *testing.T) {
		p := New(log.NewTestLogger(t))
		tmpFile := createTempFile(t, loopROM)
		output := filepath.Join(t.TempDir(), "listing.asm")

		opts := testOptions(tmpFile)
		opts.Disasm = true
		opts.Output = output
		assert.NoError(t, p.Execute(context.Background(), opts))

		data, err := os.ReadFile(output)
		assert.NoError(t, err)
		assert.Contains(t, string(data), "Start:")
		assert.Contains(t, string(data), "  204  1204  jp ")
	})

	t.Run("stats server requested", func(t *testing.T) {
		if statsview.Available() {
			t.Skip("stats server is built in")
		}

		p := New(log.NewTestLogger(t))
		tmpFile := createTempFile(t, loopROM)

		opts := testOptions(tmpFile)
		opts.Statsview = true
		assert.NoError(t, p.Execute(context.Background(), opts))
	})

	t.Run("error on non-existent file", func(t *testing.T) {
		p := New(log.NewTestLogger(t))

		err := p.Execute(context.Background(), testOptions("/nonexistent/file.ch8"))
		assert.ErrorContains(t, err, "loading ROM")
	})

	t.Run("error on empty file", func(t *testing.T) {
		p := New(log.NewTestLogger(t))
		tmpFile := createTempFile(t, nil)

		err := p.Execute(context.Background(), testOptions(tmpFile))
		assert.True(t, errors.Is(err, loader.ErrEmptyROM))
	})

	t.Run("machine fault ends the run", func(t *testing.T) {
		p := New(log.NewTestLogger(t))
		tmpFile := createTempFile(t, []byte{0xFF, 0xFF})

		err := p.Execute(context.Background(), testOptions(tmpFile))
		assert.ErrorContains(t, err, "emulating")
		assert.True(t, errors.Is(err, chip8.ErrUnrecognizedInstruction))
	})

	t.Run("canceled context", func(t *testing.T) {
		p := New(log.NewTestLogger(t))
		tmpFile := createTempFile(t, loopROM)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		opts := testOptions(tmpFile)
		opts.Duration = 0
		err := p.Execute(ctx, opts)
		assert.True(t, errors.Is(err, context.Canceled))
	})
}

func TestDisassemble(t *testing.T) {
	p := New(log.NewTestLogger(t))

	var buf bytes.Buffer
	assert.NoError(t, p.Disassemble(context.Background(), []byte{0x12, 0x00}, &buf))
	assert.Equal(t, "Start:\n  200  1200  jp Start\n", buf.String())

	err := p.Disassemble(context.Background(), make([]byte, chip8.MaxROMSize+1), &buf)
	assert.True(t, errors.Is(err, chip8.ErrRomTooLarge))
}

func TestCreateFrontend(t *testing.T) {
	p := New(log.NewTestLogger(t))
	keypad := chip8.NewKeypad()

	fe, err := p.createFrontend(options.FrontendHeadless, keypad)
	assert.NoError(t, err)
	_, ok := fe.(*headless.Headless)
	assert.True(t, ok)

	fe, err = p.createFrontend(options.FrontendTerminal, keypad)
	assert.NoError(t, err)
	assert.NotNil(t, fe)

	_, err = p.createFrontend("unknown", keypad)
	assert.ErrorContains(t, err, "unsupported front end")
}

func TestCreateFrontendSDLNotBuilt(t *testing.T) {
	if sdl.Available() {
		t.Skip("SDL front end is built in")
	}

	p := New(log.NewTestLogger(t))
	_, err := p.createFrontend(options.FrontendSDL, chip8.NewKeypad())
	assert.True(t, errors.Is(err, sdl.ErrNotAvailable))
}

func TestPrintInfo(t *testing.T) {
	p := New(log.NewTestLogger(t))
	opts := testOptions("game.ch8")

	// should not panic in either mode
	p.printInfo(opts, loopROM, options.FrontendHeadless)
	opts.Quiet = false
	p.printInfo(opts, loopROM, options.FrontendHeadless)
}

func createTempFile(t *testing.T, data []byte) string {
	t.Helper()
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test.ch8")
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return tmpFile
}

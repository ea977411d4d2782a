// Package pipeline orchestrates the stages of loading, disassembling and
// emulating a ROM.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/retroenv/chip8vm/internal/chip8"
	"github.com/retroenv/chip8vm/internal/detector"
	"github.com/retroenv/chip8vm/internal/disasm"
	"github.com/retroenv/chip8vm/internal/emulator"
	"github.com/retroenv/chip8vm/internal/frontend/headless"
	"github.com/retroenv/chip8vm/internal/frontend/sdl"
	"github.com/retroenv/chip8vm/internal/frontend/terminal"
	"github.com/retroenv/chip8vm/internal/loader"
	"github.com/retroenv/chip8vm/internal/options"
	"github.com/retroenv/chip8vm/internal/statsview"
	"github.com/retroenv/chip8vm/internal/wavwriter"
	"github.com/retroenv/retrogolib/log"
)

// frontend presents the machine output to the user and feeds input into the
// keypad while the run function executes.
type frontend interface {
	emulator.Display
	emulator.Audio

	Run(ctx context.Context, run func(ctx context.Context) error) error
	Close() error
}

// Pipeline orchestrates the complete workflow.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
	loader   *loader.Loader
}

// New creates a new pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger:   logger,
		detector: detector.New(logger),
		loader:   loader.New(),
	}
}

// Execute loads the ROM and either writes its disassembly listing or runs it
// with the selected front end.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program) error {
	if opts.Input == "" {
		filename, err := sdl.PickROM()
		if err != nil {
			return fmt.Errorf("selecting ROM: %w", err)
		}
		opts.Input = filename
	}

	rom, err := p.loader.Load(opts.Input)
	if err != nil {
		return fmt.Errorf("loading ROM: %w", err)
	}

	if opts.Disasm {
		return p.disassembleToOutput(ctx, rom, opts)
	}

	frontendName := p.detector.Detect(opts)
	p.printInfo(opts, rom, frontendName)

	return p.Emulate(ctx, rom, opts, frontendName)
}

// Disassemble writes the disassembly listing of the ROM.
func (p *Pipeline) Disassemble(ctx context.Context, rom []byte, writer io.Writer) error {
	dis, err := disasm.New(p.logger, rom)
	if err != nil {
		return fmt.Errorf("creating disassembler: %w", err)
	}

	lines, err := dis.Process(ctx)
	if err != nil {
		return fmt.Errorf("disassembling: %w", err)
	}

	if err := disasm.Write(writer, lines); err != nil {
		return fmt.Errorf("writing listing: %w", err)
	}
	return nil
}

func (p *Pipeline) disassembleToOutput(ctx context.Context, rom []byte, opts options.Program) error {
	writer, err := createWriter(opts)
	if err != nil {
		return fmt.Errorf("creating writer: %w", err)
	}

	disErr := p.Disassemble(ctx, rom, writer)
	if closer, ok := writer.(io.Closer); ok && writer != io.Writer(os.Stdout) {
		if err := closer.Close(); err != nil {
			return errors.Join(disErr, fmt.Errorf("closing output file: %w", err))
		}
	}
	return disErr
}

// Emulate runs the ROM with the named front end until the machine faults, the
// user quits or the configured duration elapsed.
func (p *Pipeline) Emulate(ctx context.Context, rom []byte, opts options.Program, frontendName string) (err error) {
	keypad := chip8.NewKeypad()
	machine, err := chip8.New(rom, chip8.Config{
		Quirks: chip8.Quirks{ShiftUsesVX: opts.ShiftUsesVX},
		Seed:   opts.Seed,
		Keypad: keypad,
	})
	if err != nil {
		return fmt.Errorf("creating machine: %w", err)
	}

	fe, err := p.createFrontend(frontendName, keypad)
	if err != nil {
		return fmt.Errorf("creating front end: %w", err)
	}
	defer func() {
		if closeErr := fe.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	audio := emulator.Audio(fe)
	if opts.Wav != "" {
		recorder, recErr := wavwriter.New(p.logger, opts.Wav, opts.TimerHz)
		if recErr != nil {
			return fmt.Errorf("creating audio recorder: %w", recErr)
		}
		defer func() {
			if closeErr := recorder.Close(); closeErr != nil {
				err = errors.Join(err, closeErr)
			}
		}()
		audio = emulator.MultiAudio(fe, recorder)
	}

	emu, err := emulator.New(p.logger, machine, fe, audio, emulator.Config{
		InstructionsPerSecond: opts.InstructionsPerSecond,
		TimerHz:               opts.TimerHz,
		Trace:                 opts.Trace,
	})
	if err != nil {
		return fmt.Errorf("creating emulator: %w", err)
	}

	if opts.Statsview {
		if statsview.Available() {
			statsview.Launch(p.logger)
		} else {
			p.logger.Warn("Stats server not available, build with -tags statsview")
		}
	}

	if opts.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Duration)
		defer cancel()
	}

	runErr := fe.Run(ctx, emu.Run)
	p.logResult(machine, fe)

	if opts.Duration > 0 && errors.Is(runErr, context.DeadlineExceeded) {
		p.logger.Info("Emulation duration elapsed", log.String("duration", opts.Duration.String()))
		return nil
	}
	if runErr != nil {
		return fmt.Errorf("emulating: %w", runErr)
	}
	return nil
}

// createFrontend creates the named front end.
func (p *Pipeline) createFrontend(name string, keypad *chip8.Keypad) (frontend, error) {
	switch name {
	case options.FrontendHeadless:
		return headless.New(p.logger), nil

	case options.FrontendTerminal:
		return terminal.New(p.logger, keypad, terminal.Config{}), nil

	case options.FrontendSDL:
		if !sdl.Available() {
			return nil, sdl.ErrNotAvailable
		}
		s, err := sdl.New(p.logger, keypad, sdl.Config{})
		if err != nil {
			return nil, fmt.Errorf("creating SDL front end: %w", err)
		}
		return s, nil

	default:
		return nil, fmt.Errorf("unsupported front end '%s'", name)
	}
}

// logResult logs the final state of the machine at debug level.
func (p *Pipeline) logResult(machine *chip8.Machine, fe frontend) {
	if h, ok := fe.(*headless.Headless); ok {
		h.LogSummary()
	}

	var sb strings.Builder
	machine.Dump(&sb)
	p.logger.Debug("Final machine state", log.String("state", sb.String()))
}

// printInfo prints information about the ROM being processed.
func (p *Pipeline) printInfo(opts options.Program, rom []byte, frontendName string) {
	if opts.Quiet {
		return
	}

	p.logger.Info("Running CHIP-8 ROM",
		log.String("file", opts.Input),
		log.Int("size", len(rom)),
		log.String("frontend", frontendName),
		log.Int("ips", opts.InstructionsPerSecond),
	)
}

func createWriter(opts options.Program) (io.Writer, error) {
	if opts.Output == "" {
		return os.Stdout, nil
	}

	file, err := os.Create(opts.Output)
	if err != nil {
		return nil, fmt.Errorf("creating output file %s: %w", opts.Output, err)
	}
	return file, nil
}

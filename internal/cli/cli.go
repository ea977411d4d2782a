// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/retroenv/chip8vm/internal/emulator"
	"github.com/retroenv/chip8vm/internal/options"
)

// ParseFlags parses the command line flags of the process.
func ParseFlags() (options.Program, error) {
	return Parse(os.Args[0], os.Args[1:], os.Stdout)
}

// Parse parses the given arguments into program options. Usage information is
// written to output.
func Parse(name string, args []string, output io.Writer) (options.Program, error) {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(output)
	// usage is printed by UsageError.ShowUsage
	flags.Usage = func() {}
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(args)
	args = flags.Args()
	if err != nil {
		return opts, &UsageError{flags: flags, output: output, msg: err.Error()}
	}

	if err := validateArgs(flags, output, args); err != nil {
		return opts, err
	}
	if len(args) > 0 {
		opts.Input = args[0]
	}
	// the SDL front end offers a file dialog instead
	if opts.Input == "" && !strings.EqualFold(opts.Frontend, options.FrontendSDL) {
		return opts, &UsageError{flags: flags, output: output, msg: "no ROM file given"}
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}

	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags  *flag.FlagSet
	output io.Writer
	msg    string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the usage information and all flags.
func (e *UsageError) ShowUsage() {
	_, _ = fmt.Fprintf(e.output, "usage: chip8vm [options] <ROM file>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	_, _ = fmt.Fprintln(e.output)
}

// validateArgs checks if arguments are in correct order
func validateArgs(flags *flag.FlagSet, output io.Writer, args []string) error {
	for i, arg := range args {
		if i > 0 && arg != "" && arg[0] == '-' {
			return &UsageError{
				flags:  flags,
				output: output,
				msg:    fmt.Sprintf("Potential argument %s found after ROM file, please pass the ROM file as last argument", arg),
			}
		}
	}
	if len(args) > 1 {
		return &UsageError{flags: flags, output: output, msg: "only one ROM file can be passed"}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	if opts.Trace {
		opts.Debug = true
	}

	if opts.InstructionsPerSecond <= 0 {
		return fmt.Errorf("invalid instructions per second %d, must be positive", opts.InstructionsPerSecond)
	}
	if opts.TimerHz <= 0 {
		return fmt.Errorf("invalid timer rate %d, must be positive", opts.TimerHz)
	}
	if opts.Duration < 0 {
		return fmt.Errorf("invalid duration %s, must not be negative", opts.Duration)
	}

	opts.Frontend = strings.ToLower(opts.Frontend)
	if opts.Frontend == "" {
		return nil
	}

	validFrontends := []string{options.FrontendTerminal, options.FrontendHeadless, options.FrontendSDL}
	for _, valid := range validFrontends {
		if opts.Frontend == valid {
			return nil
		}
	}

	return fmt.Errorf("unsupported front end: %s. Valid options: %s",
		opts.Frontend, strings.Join(validFrontends, ", "))
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input ROM file")
	flags.StringVar(&opts.Output, "o", "", "name of the output file of the disassembly listing, printed on console if no name given")
	flags.StringVar(&opts.Wav, "wav", "", "name of a .wav file to record the tone to")
	flags.StringVar(&opts.Frontend, "frontend", "", "front end to use (terminal/headless/sdl), auto-detected if not set")
	flags.BoolVar(&opts.Disasm, "disasm", false, "output a disassembly listing of the ROM instead of running it")
	flags.DurationVar(&opts.Duration, "duration", 0, "stop the emulation after the given duration, for example 10s")
	flags.BoolVar(&opts.Statsview, "statsview", false, "serve runtime statistics over HTTP, needs a build with the statsview tag")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction, implies -debug")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
	flags.BoolVar(&opts.ShiftUsesVX, "shift-vx", false, "shift instructions use Vx as source instead of Vy")
	flags.IntVar(&opts.InstructionsPerSecond, "ips", emulator.DefaultInstructionsPerSecond, "instructions executed per second")
	flags.IntVar(&opts.TimerHz, "timerhz", emulator.DefaultTimerHz, "delay and sound timer rate in Hz")
	flags.Uint64Var(&opts.Seed, "seed", 0, "random number generator seed, 0 for a random seed")
}

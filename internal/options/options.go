// Package options contains the program options.
package options

import "time"

// Front end names.
const (
	FrontendTerminal = "terminal"
	FrontendHeadless = "headless"
	FrontendSDL      = "sdl"
)

// Parameters contains file path options.
type Parameters struct {
	Input  string `flag:"i" usage:"input ROM file"`
	Output string `flag:"o" usage:"output file of the disassembly listing (default: stdout)"`
	Wav    string `flag:"wav" usage:"record the tone to a .wav file"`
}

// Flags contains behavior options.
type Flags struct {
	Frontend    string        `flag:"frontend" usage:"front end: terminal, headless, sdl (default: auto-detect)"`
	Disasm      bool          `flag:"disasm" usage:"output a disassembly listing of the ROM instead of running it"`
	Duration    time.Duration `flag:"duration" usage:"stop the emulation after the given duration"`
	Statsview   bool          `flag:"statsview" usage:"serve runtime statistics over HTTP"`
	Trace       bool          `flag:"trace" usage:"log every executed instruction, implies -debug"`
	Debug       bool          `flag:"debug" usage:"enable debug logging"`
	Quiet       bool          `flag:"q" usage:"quiet mode"`
	ShiftUsesVX bool          `flag:"shift-vx" usage:"shift instructions use Vx as source instead of Vy"`
}

// Machine contains the emulation options.
type Machine struct {
	InstructionsPerSecond int    `flag:"ips" usage:"instructions executed per second" default:"700"`
	TimerHz               int    `flag:"timerhz" usage:"delay and sound timer rate in Hz" default:"60"`
	Seed                  uint64 `flag:"seed" usage:"random number generator seed, 0 for a random seed"`
}

// Program options of the emulator.
type Program struct {
	Parameters
	Flags
	Machine
}

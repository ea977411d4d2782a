// Package disasm implements a CHIP-8 program disassembler that traces the
// execution flow of a ROM to separate code from data.
package disasm

import (
	"context"
	"errors"
	"fmt"

	"github.com/retroenv/chip8vm/internal/chip8"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

// Line is a single line of the disassembly listing.
type Line struct {
	Address uint16
	Data    []byte // instruction word or data byte
	Label   string
	Code    string
}

// Disasm implements a disassembler.
type Disasm struct {
	logger *log.Logger
	rom    []byte

	pc uint16 // address of the currently processed instruction

	offsetsToParse      []uint16
	offsetsToParseAdded set.Set[uint16]

	code   set.Set[uint16]   // start addresses of traced instructions
	ops    map[uint16]chip8.Operation
	labels map[uint16]string // label names of branch and data destinations
}

// New creates a new disassembler for the given ROM.
func New(logger *log.Logger, rom []byte) (*Disasm, error) {
	if len(rom) > chip8.MaxROMSize {
		return nil, fmt.Errorf("%w: %d bytes, maximum is %d", chip8.ErrRomTooLarge, len(rom), chip8.MaxROMSize)
	}

	return &Disasm{
		logger:              logger,
		rom:                 rom,
		offsetsToParseAdded: set.New[uint16](),
		code:                set.New[uint16](),
		ops:                 map[uint16]chip8.Operation{},
		labels: map[uint16]string{
			chip8.ProgramStart: "Start",
		},
	}, nil
}

// Process disassembles the ROM and returns the listing.
func (dis *Disasm) Process(ctx context.Context) ([]Line, error) {
	if err := dis.followExecutionFlow(ctx); err != nil {
		return nil, err
	}

	lines := dis.buildLines()
	dis.logger.Debug("Disassembled program",
		log.Int("lines", len(lines)),
		log.Int("instructions", len(dis.ops)))
	return lines, nil
}

// followExecutionFlow parses all code reachable from the program start.
func (dis *Disasm) followExecutionFlow(ctx context.Context) error {
	dis.addAddressToParse(chip8.ProgramStart)

	for len(dis.offsetsToParse) > 0 {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("following execution flow: %w", err)
		}

		dis.pc = dis.offsetsToParse[0]
		dis.offsetsToParse = dis.offsetsToParse[1:]

		word, ok := dis.readWord(dis.pc)
		if !ok {
			continue
		}

		op, err := chip8.Decode(word)
		if err != nil {
			if !errors.Is(err, chip8.ErrUnrecognizedInstruction) {
				return fmt.Errorf("decoding instruction at $%03X: %w", dis.pc, err)
			}
			// unknown words are emitted as data
			dis.logger.Debug("Unknown instruction",
				log.Hex("address", dis.pc),
				log.Hex("word", word))
			continue
		}

		dis.code.Add(dis.pc)
		dis.ops[dis.pc] = op
		dis.handleControlFlow(op)
	}

	return nil
}

// handleControlFlow queues the addresses that can execute after the operation.
func (dis *Disasm) handleControlFlow(op chip8.Operation) {
	next := dis.pc + 2

	switch op.Kind {
	case chip8.Jump:
		dis.addBranchDestination(op.NNN, labelNaming)

	case chip8.CallSubroutine:
		dis.addBranchDestination(op.NNN, funcNaming)
		dis.addAddressToParse(next)

	case chip8.Return:

	case chip8.JumpWithOffset:
		// the destination depends on V0 at runtime
		dis.addLabel(op.NNN, labelNaming)

	case chip8.SkipEqual, chip8.SkipNotEqual, chip8.SkipRegisterEqual, chip8.SkipRegisterNotEqual,
		chip8.SkipIfPressed, chip8.SkipIfNotPressed:
		dis.addAddressToParse(next)
		dis.addAddressToParse(next + 2)

	case chip8.SetIndex:
		dis.addLabel(op.NNN, dataNaming)
		dis.addAddressToParse(next)

	default:
		dis.addAddressToParse(next)
	}
}

// addBranchDestination names the destination and queues it for parsing.
func (dis *Disasm) addBranchDestination(address uint16, naming string) {
	dis.addLabel(address, naming)
	dis.addAddressToParse(address)
}

// addAddressToParse queues an address for parsing if it is inside the ROM
// and was not queued before.
func (dis *Disasm) addAddressToParse(address uint16) {
	if !dis.inROM(address) || dis.offsetsToParseAdded.Contains(address) {
		return
	}
	dis.offsetsToParseAdded.Add(address)
	dis.offsetsToParse = append(dis.offsetsToParse, address)
}

// readWord reads the big-endian word at the given memory address.
func (dis *Disasm) readWord(address uint16) (uint16, bool) {
	if !dis.inROM(address) || !dis.inROM(address+1) {
		return 0, false
	}
	offset := address - chip8.ProgramStart
	return uint16(dis.rom[offset])<<8 | uint16(dis.rom[offset+1]), true
}

// inROM returns whether the memory address is backed by ROM data.
func (dis *Disasm) inROM(address uint16) bool {
	return address >= chip8.ProgramStart && int(address-chip8.ProgramStart) < len(dis.rom)
}

package chip8

import "errors"

var (
	// ErrUnrecognizedInstruction is returned for instruction words that do not
	// map to any CHIP-8 operation.
	ErrUnrecognizedInstruction = errors.New("unrecognized instruction")
	// ErrStackOverflow is returned when calling a subroutine with a full stack.
	ErrStackOverflow = errors.New("stack overflow")
	// ErrStackUnderflow is returned when returning from a subroutine with an empty stack.
	ErrStackUnderflow = errors.New("stack underflow")
	// ErrMemoryOutOfBounds is returned when PC, I or a memory range leaves the address space.
	ErrMemoryOutOfBounds = errors.New("memory out of bounds")
	// ErrRomTooLarge is returned when a ROM does not fit into program memory.
	ErrRomTooLarge = errors.New("rom too large")
	// ErrInvalidOperand is returned for operations carrying a register index outside V0-VF.
	ErrInvalidOperand = errors.New("invalid operand")
	// ErrInvalidKey is returned for keypad keys outside 0x0-0xF.
	ErrInvalidKey = errors.New("invalid key")
)

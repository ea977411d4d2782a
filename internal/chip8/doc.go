// Package chip8 implements the CHIP-8 virtual machine core.
//
// # Memory Layout
//
// CHIP-8 systems have 4KB of memory (0x000-MaxAddress):
//   - 0x000-0x1FF: Interpreter area, the built-in font is stored at FontBase
//   - ProgramStart-MaxAddress: User program and data area
//
// # Machine State
//
//   - 16 general-purpose 8-bit registers (V0-VF), VF doubles as flag register
//   - I index register, PC program counter
//   - a 16 entry call stack
//   - delay and sound timers counting down at the timer rate
//   - a 64x32 monochrome display
//   - a 16 key hexadecimal keypad
//
// # Execution
//
// Every instruction is 2 bytes, stored big-endian. Decode maps an instruction
// word to an Operation, which Execute applies to the Machine. Step combines
// fetch, decode and execute for the instruction at PC.
//
// The Machine is not safe for concurrent use, it is owned by the run loop that
// steps it and ticks its timers. Only the Keypad may be written from other
// goroutines.
package chip8

package chip8

import (
	"fmt"
	"io"
	"math/rand/v2"
)

// CHIP-8 memory layout and machine constants.
const (
	// MemorySize is the size of the addressable memory.
	MemorySize = 0x1000

	// ProgramStart is the memory address where CHIP-8 programs are loaded
	// and begin execution.
	ProgramStart = 0x200

	// MaxAddress is the highest valid address in CHIP-8 memory space.
	MaxAddress = MemorySize - 1

	// MaxROMSize is the largest program that fits into memory.
	MaxROMSize = MemorySize - ProgramStart

	// StackDepth is the number of return addresses the stack can hold.
	StackDepth = 16

	// RegisterCount is the number of general purpose registers.
	RegisterCount = 16

	// FlagRegister is the index of VF, which receives carry, borrow and
	// collision flags.
	FlagRegister = 0xF
)

// Quirks selects between diverging behaviors of historical interpreters.
type Quirks struct {
	// ShiftUsesVX makes 8xy6 and 8xyE shift Vx in place instead of
	// shifting Vy into Vx.
	ShiftUsesVX bool
}

// Config contains the machine options.
type Config struct {
	Quirks Quirks

	// Seed seeds the random source used by Cxnn, 0 selects a random seed.
	Seed uint64

	// Keypad to read key state from, a new keypad is created if nil.
	Keypad *Keypad
}

// Machine is the CHIP-8 machine state.
type Machine struct {
	quirks Quirks
	rng    *rand.Rand
	keypad *Keypad
	rom    []byte

	memory [MemorySize]byte
	v      [RegisterCount]uint8
	index  uint16
	pc     uint16
	stack  [StackDepth]uint16
	sp     int
	timers Timers
	screen Frame

	awaitingKey bool
	keyRegister uint8

	cycles uint64
}

// New returns a machine with the ROM loaded at ProgramStart.
func New(rom []byte, cfg Config) (*Machine, error) {
	if len(rom) > MaxROMSize {
		return nil, fmt.Errorf("%w: %d bytes, maximum is %d", ErrRomTooLarge, len(rom), MaxROMSize)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	keypad := cfg.Keypad
	if keypad == nil {
		keypad = NewKeypad()
	}

	m := &Machine{
		quirks: cfg.Quirks,
		rng:    rand.New(rand.NewPCG(seed, seed>>32|seed<<32)),
		keypad: keypad,
		rom:    append([]byte(nil), rom...),
	}
	m.Reset()
	return m, nil
}

// Reset restores the machine to the state right after loading the ROM.
func (m *Machine) Reset() {
	m.memory = [MemorySize]byte{}
	for i, sprite := range font {
		copy(m.memory[fontAddress(uint8(i)):], sprite[:])
	}
	copy(m.memory[ProgramStart:], m.rom)

	m.v = [RegisterCount]uint8{}
	m.index = 0
	m.pc = ProgramStart
	m.stack = [StackDepth]uint16{}
	m.sp = 0
	m.timers = Timers{}
	m.screen.clear()
	m.awaitingKey = false
	m.keyRegister = 0
	m.cycles = 0
	m.keypad.Reset()
}

// Keypad returns the keypad the machine reads keys from.
func (m *Machine) Keypad() *Keypad {
	return m.keypad
}

// Quirks returns the active quirks.
func (m *Machine) Quirks() Quirks {
	return m.quirks
}

// PC returns the program counter.
func (m *Machine) PC() uint16 {
	return m.pc
}

// Index returns the index register I.
func (m *Machine) Index() uint16 {
	return m.index
}

// Register returns the value of register Vx.
func (m *Machine) Register(x uint8) uint8 {
	return m.v[x&0xF]
}

// Registers returns a copy of the registers V0-VF.
func (m *Machine) Registers() [RegisterCount]uint8 {
	return m.v
}

// Stack returns a copy of the return addresses on the stack, oldest first.
func (m *Machine) Stack() []uint16 {
	return append([]uint16(nil), m.stack[:m.sp]...)
}

// Timers returns the current timer values.
func (m *Machine) Timers() Timers {
	return m.timers
}

// SoundActive returns whether the sound timer is counting and a tone
// should be audible.
func (m *Machine) SoundActive() bool {
	return m.timers.SoundActive()
}

// Frame returns a copy of the display buffer.
func (m *Machine) Frame() Frame {
	return m.screen
}

// Cycles returns the number of executed instructions since the last reset.
func (m *Machine) Cycles() uint64 {
	return m.cycles
}

// AwaitingKey returns whether execution is suspended until a key is pressed
// and the register that will receive the key.
func (m *Machine) AwaitingKey() (uint8, bool) {
	return m.keyRegister, m.awaitingKey
}

// ReadMemory returns a copy of length bytes of memory starting at address.
func (m *Machine) ReadMemory(address uint16, length int) ([]byte, error) {
	if err := checkRange(address, length); err != nil {
		return nil, err
	}
	end := int(address) + length
	return append([]byte(nil), m.memory[address:end]...), nil
}

// TickTimers decrements the delay and sound timers by one tick. It returns
// whether the sound timer was counting during the elapsed tick interval.
func (m *Machine) TickTimers() bool {
	return m.timers.Tick()
}

// ResumeWithKey ends a key wait started by GetKey, storing the key in the
// waiting register. It does nothing if no key wait is active.
func (m *Machine) ResumeWithKey(key uint8) error {
	if key >= KeyCount {
		return fmt.Errorf("%w: %d", ErrInvalidKey, key)
	}
	if !m.awaitingKey {
		return nil
	}
	m.v[m.keyRegister] = key
	m.awaitingKey = false
	return nil
}

// Step executes the instruction at PC. While a key wait is active it only
// checks for a pending key press and does not execute an instruction.
// If the instruction fails the machine state is left unchanged.
func (m *Machine) Step() (Effects, error) {
	if m.awaitingKey {
		select {
		case key := <-m.keypad.Presses():
			if err := m.ResumeWithKey(key); err != nil {
				return Effects{}, err
			}
			return Effects{}, nil
		default:
			return Effects{AwaitKey: true}, nil
		}
	}

	address := m.pc
	word, err := m.fetch()
	if err != nil {
		return Effects{}, fmt.Errorf("fetching instruction at $%03X: %w", address, err)
	}

	op, err := Decode(word)
	if err != nil {
		return Effects{}, fmt.Errorf("decoding instruction at $%03X: %w", address, err)
	}

	m.pc += 2
	effects, err := m.Execute(op)
	if err != nil {
		m.pc = address
		return Effects{}, fmt.Errorf("executing %s at $%03X: %w", op, address, err)
	}

	m.cycles++
	return effects, nil
}

// fetch reads the big-endian instruction word at PC.
func (m *Machine) fetch() (uint16, error) {
	if err := checkRange(m.pc, 2); err != nil {
		return 0, err
	}
	return uint16(m.memory[m.pc])<<8 | uint16(m.memory[m.pc+1]), nil
}

// Dump writes the register state in a human readable form.
func (m *Machine) Dump(w io.Writer) {
	_, _ = fmt.Fprintf(w, "Cycles #%d\n", m.cycles)
	_, _ = fmt.Fprintf(w, "PC = $%03X, SP = %d, I = $%03X, DT = %d, ST = %d\n",
		m.pc, m.sp, m.index, m.timers.Delay, m.timers.Sound)
	for i := 0; i < len(m.v); i += 4 {
		_, _ = fmt.Fprintf(w, "V%X = $%02X, V%X = $%02X, V%X = $%02X, V%X = $%02X\n",
			i, m.v[i], i+1, m.v[i+1], i+2, m.v[i+2], i+3, m.v[i+3])
	}
}

// checkRange verifies that length bytes starting at address are inside memory.
func checkRange(address uint16, length int) error {
	if length < 0 || int(address)+length > MemorySize {
		return fmt.Errorf("%w: $%04X+%d", ErrMemoryOutOfBounds, address, length)
	}
	return nil
}

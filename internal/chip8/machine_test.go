package chip8

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/retroenv/retrogolib/assert"
)

func TestNew(t *testing.T) {
	rom := []byte{0x60, 0x01, 0x12, 0x00}
	m, err := New(rom, Config{})
	assert.NoError(t, err)

	assert.Equal(t, uint16(ProgramStart), m.PC())
	assert.Equal(t, uint16(0), m.Index())
	assert.Equal(t, [RegisterCount]uint8{}, m.Registers())
	assert.Empty(t, m.Stack())
	assert.Equal(t, Timers{}, m.Timers())
	assert.Equal(t, Frame{}, m.Frame())

	program, err := m.ReadMemory(ProgramStart, len(rom))
	assert.NoError(t, err)
	if diff := cmp.Diff(rom, program); diff != "" {
		t.Errorf("program mismatch (-want +got):\n%s", diff)
	}

	fontData, err := m.ReadMemory(FontBase, len(font)*FontCharSize)
	assert.NoError(t, err)
	for digit, sprite := range font {
		start := digit * FontCharSize
		if diff := cmp.Diff(sprite[:], fontData[start:start+FontCharSize]); diff != "" {
			t.Errorf("font digit %X mismatch (-want +got):\n%s", digit, diff)
		}
	}

	// rom is copied
	rom[0] = 0xFF
	m.Reset()
	assert.Equal(t, uint8(0x60), m.memory[ProgramStart])
}

func TestNewRomSize(t *testing.T) {
	_, err := New(make([]byte, MaxROMSize), Config{})
	assert.NoError(t, err)

	_, err = New(make([]byte, MaxROMSize+1), Config{})
	assert.True(t, errors.Is(err, ErrRomTooLarge))
	assert.ErrorContains(t, err, "3585 bytes")
}

func TestReset(t *testing.T) {
	m := newTestMachine(t, 0x6A42, 0xA300, 0x2300)
	for range 3 {
		_, err := m.Step()
		assert.NoError(t, err)
	}
	m.memory[0x300] = 0xD0
	m.timers.Delay = 9
	assert.NoError(t, m.Keypad().Press(3))

	m.Reset()
	assert.Equal(t, uint16(ProgramStart), m.PC())
	assert.Equal(t, uint8(0), m.Register(0xA))
	assert.Equal(t, uint16(0), m.Index())
	assert.Empty(t, m.Stack())
	assert.Equal(t, uint64(0), m.Cycles())
	assert.Equal(t, Timers{}, m.Timers())
	assert.Equal(t, uint8(0), m.memory[0x300])
	assert.False(t, m.Keypad().IsPressed(3))
}

func TestStepCycles(t *testing.T) {
	m := newTestMachine(t, 0x6001, 0x7001, 0x1202)

	for range 10 {
		_, err := m.Step()
		assert.NoError(t, err)
	}
	assert.Equal(t, uint64(10), m.Cycles())
	assert.Equal(t, uint8(6), m.Register(0))
}

func TestStepRegisterSkipIgnoresLowNibble(t *testing.T) {
	m := newTestMachine(t, 0x6105, 0x6205, 0x5121, 0x6301, 0x9122, 0x6401)

	for range 4 {
		_, err := m.Step()
		assert.NoError(t, err)
	}
	// 5121 skipped 6301, 9122 did not skip 6401
	assert.Equal(t, uint16(0x20A), m.PC())
	assert.Equal(t, uint8(0), m.Register(3))

	_, err := m.Step()
	assert.NoError(t, err)
	assert.Equal(t, uint8(1), m.Register(4))
}

func TestStepUnrecognized(t *testing.T) {
	m := newTestMachine(t, 0x6001, 0xFFFF)

	_, err := m.Step()
	assert.NoError(t, err)

	_, err = m.Step()
	assert.True(t, errors.Is(err, ErrUnrecognizedInstruction))
	assert.ErrorContains(t, err, "$202")
	assert.Equal(t, uint16(0x202), m.PC())
	assert.Equal(t, uint64(1), m.Cycles())
}

func TestStepFetchOutOfBounds(t *testing.T) {
	m := newTestMachine(t)
	m.pc = MaxAddress

	_, err := m.Step()
	assert.True(t, errors.Is(err, ErrMemoryOutOfBounds))
	assert.Equal(t, uint16(MaxAddress), m.PC())
}

func TestGetKey(t *testing.T) {
	m := newTestMachine(t, 0xF30A, 0x6001)

	// presses before the instruction do not satisfy the wait
	assert.NoError(t, m.Keypad().Press(0x7))

	effects, err := m.Step()
	assert.NoError(t, err)
	assert.True(t, effects.AwaitKey)
	register, waiting := m.AwaitingKey()
	assert.True(t, waiting)
	assert.Equal(t, uint8(3), register)

	for range 3 {
		effects, err = m.Step()
		assert.NoError(t, err)
		assert.True(t, effects.AwaitKey)
		assert.Equal(t, uint16(0x202), m.PC())
	}

	// held key needs to be released and pressed again
	assert.NoError(t, m.Keypad().Press(0x7))
	effects, err = m.Step()
	assert.NoError(t, err)
	assert.True(t, effects.AwaitKey)

	assert.NoError(t, m.Keypad().Release(0x7))
	assert.NoError(t, m.Keypad().Press(0xC))
	effects, err = m.Step()
	assert.NoError(t, err)
	assert.False(t, effects.AwaitKey)
	_, waiting = m.AwaitingKey()
	assert.False(t, waiting)
	assert.Equal(t, uint8(0xC), m.Register(3))

	_, err = m.Step()
	assert.NoError(t, err)
	assert.Equal(t, uint8(1), m.Register(0))
}

func TestResumeWithKey(t *testing.T) {
	m := newTestMachine(t, 0xF50A)

	assert.NoError(t, m.ResumeWithKey(1))
	assert.Equal(t, uint8(0), m.Register(5))

	_, err := m.Step()
	assert.NoError(t, err)

	err = m.ResumeWithKey(16)
	assert.True(t, errors.Is(err, ErrInvalidKey))

	assert.NoError(t, m.ResumeWithKey(0xE))
	assert.Equal(t, uint8(0xE), m.Register(5))
	_, waiting := m.AwaitingKey()
	assert.False(t, waiting)
}

func TestTimersDuringKeyWait(t *testing.T) {
	m := newTestMachine(t, 0x6105, 0xF115, 0xF118, 0xF00A)
	for range 4 {
		_, err := m.Step()
		assert.NoError(t, err)
	}

	assert.True(t, m.SoundActive())
	assert.True(t, m.TickTimers())
	assert.Equal(t, Timers{Delay: 4, Sound: 4}, m.Timers())
}

func TestReadMemory(t *testing.T) {
	m := newTestMachine(t)

	data, err := m.ReadMemory(MaxAddress, 1)
	assert.NoError(t, err)
	assert.Len(t, data, 1)

	_, err = m.ReadMemory(MaxAddress, 2)
	assert.True(t, errors.Is(err, ErrMemoryOutOfBounds))

	_, err = m.ReadMemory(0, -1)
	assert.True(t, errors.Is(err, ErrMemoryOutOfBounds))
}

func TestDump(t *testing.T) {
	m := newTestMachine(t, 0x6A42)
	_, err := m.Step()
	assert.NoError(t, err)

	var buf bytes.Buffer
	m.Dump(&buf)
	output := buf.String()
	assert.Contains(t, output, "Cycles #1")
	assert.Contains(t, output, "PC = $202")
	assert.Contains(t, output, "VA = $42")
}

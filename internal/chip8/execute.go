package chip8

import "fmt"

// Effects signals the side effects of an executed operation to the run loop.
type Effects struct {
	// Redraw is set when the display buffer was changed.
	Redraw bool
	// AwaitKey is set while execution is suspended until a key is pressed.
	AwaitKey bool
}

type handler func(m *Machine, op Operation) (Effects, error)

var handlers = [kindCount]handler{
	ClearScreen:           (*Machine).clearScreen,
	Return:                (*Machine).returnFromSubroutine,
	Jump:                  (*Machine).jump,
	CallSubroutine:        (*Machine).callSubroutine,
	SkipEqual:             (*Machine).skipEqual,
	SkipNotEqual:          (*Machine).skipNotEqual,
	SkipRegisterEqual:     (*Machine).skipRegisterEqual,
	Set:                   (*Machine).set,
	Add:                   (*Machine).add,
	SetRegister:           (*Machine).setRegister,
	OrRegister:            (*Machine).orRegister,
	AndRegister:           (*Machine).andRegister,
	XorRegister:           (*Machine).xorRegister,
	AddRegister:           (*Machine).addRegister,
	SubtractYFromX:        (*Machine).subtractYFromX,
	ShiftRight:            (*Machine).shiftRight,
	SubtractXFromY:        (*Machine).subtractXFromY,
	ShiftLeft:             (*Machine).shiftLeft,
	SkipRegisterNotEqual:  (*Machine).skipRegisterNotEqual,
	SetIndex:              (*Machine).setIndex,
	JumpWithOffset:        (*Machine).jumpWithOffset,
	Random:                (*Machine).random,
	Display:               (*Machine).display,
	SkipIfPressed:         (*Machine).skipIfPressed,
	SkipIfNotPressed:      (*Machine).skipIfNotPressed,
	SetRegisterDelayTimer: (*Machine).setRegisterDelayTimer,
	GetKey:                (*Machine).getKey,
	SetDelayTimer:         (*Machine).setDelayTimer,
	SetSoundTimer:         (*Machine).setSoundTimer,
	AddToIndex:            (*Machine).addToIndex,
	FontCharacter:         (*Machine).fontCharacter,
	DecimalConversion:     (*Machine).decimalConversion,
	Store:                 (*Machine).store,
	Load:                  (*Machine).load,
}

// Execute applies the operation to the machine state. PC is expected to
// already point to the instruction following the operation. On error the
// state is unchanged.
func (m *Machine) Execute(op Operation) (Effects, error) {
	if !op.Kind.Valid() {
		return Effects{}, fmt.Errorf("%w: %s", ErrUnrecognizedInstruction, op.Kind)
	}
	if op.X >= RegisterCount || op.Y >= RegisterCount {
		return Effects{}, fmt.Errorf("%w: register V%d or V%d", ErrInvalidOperand, op.X, op.Y)
	}
	return handlers[op.Kind](m, op)
}

func (m *Machine) skipIf(condition bool) (Effects, error) {
	if condition {
		m.pc += 2
	}
	return Effects{}, nil
}

// setWithFlag writes the result before the flag so that VF holds the flag
// when it is also the destination register.
func (m *Machine) setWithFlag(x, result uint8, flag bool) (Effects, error) {
	m.v[x] = result
	m.v[FlagRegister] = 0
	if flag {
		m.v[FlagRegister] = 1
	}
	return Effects{}, nil
}

func (m *Machine) clearScreen(Operation) (Effects, error) {
	m.screen.clear()
	return Effects{Redraw: true}, nil
}

func (m *Machine) returnFromSubroutine(Operation) (Effects, error) {
	if m.sp == 0 {
		return Effects{}, ErrStackUnderflow
	}
	m.sp--
	m.pc = m.stack[m.sp]
	m.stack[m.sp] = 0
	return Effects{}, nil
}

func (m *Machine) jump(op Operation) (Effects, error) {
	m.pc = op.NNN
	return Effects{}, nil
}

func (m *Machine) callSubroutine(op Operation) (Effects, error) {
	if m.sp == StackDepth {
		return Effects{}, fmt.Errorf("%w: depth %d", ErrStackOverflow, StackDepth)
	}
	m.stack[m.sp] = m.pc
	m.sp++
	m.pc = op.NNN
	return Effects{}, nil
}

func (m *Machine) skipEqual(op Operation) (Effects, error) {
	return m.skipIf(m.v[op.X] == op.NN)
}

func (m *Machine) skipNotEqual(op Operation) (Effects, error) {
	return m.skipIf(m.v[op.X] != op.NN)
}

func (m *Machine) skipRegisterEqual(op Operation) (Effects, error) {
	return m.skipIf(m.v[op.X] == m.v[op.Y])
}

func (m *Machine) skipRegisterNotEqual(op Operation) (Effects, error) {
	return m.skipIf(m.v[op.X] != m.v[op.Y])
}

func (m *Machine) set(op Operation) (Effects, error) {
	m.v[op.X] = op.NN
	return Effects{}, nil
}

func (m *Machine) add(op Operation) (Effects, error) {
	m.v[op.X] += op.NN
	return Effects{}, nil
}

func (m *Machine) setRegister(op Operation) (Effects, error) {
	m.v[op.X] = m.v[op.Y]
	return Effects{}, nil
}

func (m *Machine) orRegister(op Operation) (Effects, error) {
	m.v[op.X] |= m.v[op.Y]
	return Effects{}, nil
}

func (m *Machine) andRegister(op Operation) (Effects, error) {
	m.v[op.X] &= m.v[op.Y]
	return Effects{}, nil
}

func (m *Machine) xorRegister(op Operation) (Effects, error) {
	m.v[op.X] ^= m.v[op.Y]
	return Effects{}, nil
}

func (m *Machine) addRegister(op Operation) (Effects, error) {
	sum := uint16(m.v[op.X]) + uint16(m.v[op.Y])
	return m.setWithFlag(op.X, uint8(sum), sum > 0xFF)
}

func (m *Machine) subtractYFromX(op Operation) (Effects, error) {
	vx, vy := m.v[op.X], m.v[op.Y]
	return m.setWithFlag(op.X, vx-vy, vx >= vy)
}

func (m *Machine) subtractXFromY(op Operation) (Effects, error) {
	vx, vy := m.v[op.X], m.v[op.Y]
	return m.setWithFlag(op.X, vy-vx, vy >= vx)
}

// shiftSource returns the register value that the shift operations read.
func (m *Machine) shiftSource(op Operation) uint8 {
	if m.quirks.ShiftUsesVX {
		return m.v[op.X]
	}
	return m.v[op.Y]
}

func (m *Machine) shiftRight(op Operation) (Effects, error) {
	value := m.shiftSource(op)
	return m.setWithFlag(op.X, value>>1, value&0x01 != 0)
}

func (m *Machine) shiftLeft(op Operation) (Effects, error) {
	value := m.shiftSource(op)
	return m.setWithFlag(op.X, value<<1, value&0x80 != 0)
}

func (m *Machine) setIndex(op Operation) (Effects, error) {
	m.index = op.NNN
	return Effects{}, nil
}

func (m *Machine) jumpWithOffset(op Operation) (Effects, error) {
	target := op.NNN + uint16(m.v[0])
	if target > MaxAddress {
		return Effects{}, fmt.Errorf("%w: jump target $%04X", ErrMemoryOutOfBounds, target)
	}
	m.pc = target
	return Effects{}, nil
}

func (m *Machine) random(op Operation) (Effects, error) {
	m.v[op.X] = uint8(m.rng.UintN(256)) & op.NN
	return Effects{}, nil
}

func (m *Machine) display(op Operation) (Effects, error) {
	length := int(op.N)
	if err := checkRange(m.index, length); err != nil {
		return Effects{}, fmt.Errorf("reading sprite: %w", err)
	}

	sprite := m.memory[m.index : int(m.index)+length]
	collision := m.screen.draw(sprite, m.v[op.X], m.v[op.Y])
	m.v[FlagRegister] = 0
	if collision {
		m.v[FlagRegister] = 1
	}
	return Effects{Redraw: true}, nil
}

func (m *Machine) skipIfPressed(op Operation) (Effects, error) {
	return m.skipIf(m.keypad.IsPressed(m.v[op.X]))
}

func (m *Machine) skipIfNotPressed(op Operation) (Effects, error) {
	return m.skipIf(!m.keypad.IsPressed(m.v[op.X]))
}

func (m *Machine) setRegisterDelayTimer(op Operation) (Effects, error) {
	m.v[op.X] = m.timers.Delay
	return Effects{}, nil
}

// getKey suspends execution until a key is pressed. Key presses that
// happened before the instruction are discarded.
func (m *Machine) getKey(op Operation) (Effects, error) {
	m.keypad.flush()
	m.awaitingKey = true
	m.keyRegister = op.X
	return Effects{AwaitKey: true}, nil
}

func (m *Machine) setDelayTimer(op Operation) (Effects, error) {
	m.timers.Delay = m.v[op.X]
	return Effects{}, nil
}

func (m *Machine) setSoundTimer(op Operation) (Effects, error) {
	m.timers.Sound = m.v[op.X]
	return Effects{}, nil
}

func (m *Machine) addToIndex(op Operation) (Effects, error) {
	m.index += uint16(m.v[op.X])
	return Effects{}, nil
}

func (m *Machine) fontCharacter(op Operation) (Effects, error) {
	m.index = fontAddress(m.v[op.X])
	return Effects{}, nil
}

func (m *Machine) decimalConversion(op Operation) (Effects, error) {
	if err := checkRange(m.index, 3); err != nil {
		return Effects{}, fmt.Errorf("writing digits: %w", err)
	}

	value := m.v[op.X]
	m.memory[m.index] = value / 100
	m.memory[m.index+1] = value / 10 % 10
	m.memory[m.index+2] = value % 10
	return Effects{}, nil
}

func (m *Machine) store(op Operation) (Effects, error) {
	count := int(op.X) + 1
	if err := checkRange(m.index, count); err != nil {
		return Effects{}, fmt.Errorf("storing registers: %w", err)
	}
	copy(m.memory[m.index:], m.v[:count])
	return Effects{}, nil
}

func (m *Machine) load(op Operation) (Effects, error) {
	count := int(op.X) + 1
	if err := checkRange(m.index, count); err != nil {
		return Effects{}, fmt.Errorf("loading registers: %w", err)
	}
	copy(m.v[:count], m.memory[m.index:])
	return Effects{}, nil
}

package chip8

import "fmt"

// Decode maps an instruction word to its operation. Words that do not encode a
// known CHIP-8 instruction return an error wrapping ErrUnrecognizedInstruction.
// Decode has no side effects and does not panic for any input.
func Decode(word uint16) (Operation, error) {
	kind := decodeKind(word)
	if kind == 0 {
		return Operation{}, fmt.Errorf("%w: $%04X", ErrUnrecognizedInstruction, word)
	}

	return Operation{
		Kind: kind,
		Word: word,
		X:    uint8(word >> 8 & 0xF),
		Y:    uint8(word >> 4 & 0xF),
		N:    uint8(word & 0xF),
		NN:   uint8(word & 0xFF),
		NNN:  word & 0xFFF,
	}, nil
}

// decodeKind returns the operation kind of the word or 0 if it is unknown.
func decodeKind(word uint16) Kind {
	switch word >> 12 {
	case 0x0:
		switch word {
		case 0x00E0:
			return ClearScreen
		case 0x00EE:
			return Return
		}

	case 0x1:
		return Jump

	case 0x2:
		return CallSubroutine

	case 0x3:
		return SkipEqual

	case 0x4:
		return SkipNotEqual

	case 0x5:
		return SkipRegisterEqual

	case 0x6:
		return Set

	case 0x7:
		return Add

	case 0x8:
		return decodeArithmetic(word)

	case 0x9:
		return SkipRegisterNotEqual

	case 0xA:
		return SetIndex

	case 0xB:
		return JumpWithOffset

	case 0xC:
		return Random

	case 0xD:
		return Display

	case 0xE:
		switch word & 0xFF {
		case 0x9E:
			return SkipIfPressed
		case 0xA1:
			return SkipIfNotPressed
		}

	case 0xF:
		return decodeMisc(word)
	}

	return 0
}

// decodeArithmetic decodes the 8xyN logical and arithmetic group.
func decodeArithmetic(word uint16) Kind {
	switch word & 0xF {
	case 0x0:
		return SetRegister
	case 0x1:
		return OrRegister
	case 0x2:
		return AndRegister
	case 0x3:
		return XorRegister
	case 0x4:
		return AddRegister
	case 0x5:
		return SubtractYFromX
	case 0x6:
		return ShiftRight
	case 0x7:
		return SubtractXFromY
	case 0xE:
		return ShiftLeft
	}
	return 0
}

// decodeMisc decodes the FxNN timer, keypad and memory group.
func decodeMisc(word uint16) Kind {
	switch word & 0xFF {
	case 0x07:
		return SetRegisterDelayTimer
	case 0x0A:
		return GetKey
	case 0x15:
		return SetDelayTimer
	case 0x18:
		return SetSoundTimer
	case 0x1E:
		return AddToIndex
	case 0x29:
		return FontCharacter
	case 0x33:
		return DecimalConversion
	case 0x55:
		return Store
	case 0x65:
		return Load
	}
	return 0
}

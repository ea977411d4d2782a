package disasm

import (
	"fmt"

	"github.com/retroenv/chip8vm/internal/chip8"
	cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// mnemonics is used for operations that the CPU opcode table does not list.
var mnemonics = map[chip8.Kind]string{
	chip8.ClearScreen:           "cls",
	chip8.Return:                "ret",
	chip8.Jump:                  "jp",
	chip8.CallSubroutine:        "call",
	chip8.SkipEqual:             "se",
	chip8.SkipNotEqual:          "sne",
	chip8.SkipRegisterEqual:     "se",
	chip8.Set:                   "ld",
	chip8.Add:                   "add",
	chip8.SetRegister:           "ld",
	chip8.OrRegister:            "or",
	chip8.AndRegister:           "and",
	chip8.XorRegister:           "xor",
	chip8.AddRegister:           "add",
	chip8.SubtractYFromX:        "sub",
	chip8.ShiftRight:            "shr",
	chip8.SubtractXFromY:        "subn",
	chip8.ShiftLeft:             "shl",
	chip8.SkipRegisterNotEqual:  "sne",
	chip8.SetIndex:              "ld",
	chip8.JumpWithOffset:        "jp",
	chip8.Random:                "rnd",
	chip8.Display:               "drw",
	chip8.SkipIfPressed:         "skp",
	chip8.SkipIfNotPressed:      "sknp",
	chip8.SetRegisterDelayTimer: "ld",
	chip8.GetKey:                "ld",
	chip8.SetDelayTimer:         "ld",
	chip8.SetSoundTimer:         "ld",
	chip8.AddToIndex:            "add",
	chip8.FontCharacter:         "ld",
	chip8.DecimalConversion:     "ld",
	chip8.Store:                 "ld",
	chip8.Load:                  "ld",
}

// FormatOperation returns the assembly code for a single operation, addresses
// are printed as numbers.
func FormatOperation(op chip8.Operation) string {
	var dis Disasm
	return dis.formatOperation(op)
}

// formatOperation returns the assembly code for the operation.
func (dis *Disasm) formatOperation(op chip8.Operation) string {
	name := mnemonic(op)
	if params := dis.formatOperands(op); params != "" {
		return fmt.Sprintf("%s %s", name, params)
	}
	return name
}

// mnemonic returns the instruction name of the CPU opcode matching the word.
func mnemonic(op chip8.Operation) string {
	for _, opcode := range cpu.Opcodes[int(op.Word>>12)] {
		if opcode.Info.Mask&op.Word == opcode.Info.Value && opcode.Instruction != nil {
			return opcode.Instruction.Name
		}
	}
	return mnemonics[op.Kind]
}

// formatOperands formats the parameters of the operation.
func (dis *Disasm) formatOperands(op chip8.Operation) string {
	switch op.Kind {
	case chip8.ClearScreen, chip8.Return:
		return ""

	case chip8.Jump, chip8.CallSubroutine:
		return dis.formatAddress(op.NNN)

	case chip8.JumpWithOffset:
		return "V0, " + dis.formatAddress(op.NNN)

	case chip8.SetIndex:
		return "I, " + dis.formatAddress(op.NNN)

	case chip8.SkipEqual, chip8.SkipNotEqual, chip8.Set, chip8.Add, chip8.Random:
		return fmt.Sprintf("V%X, $%02X", op.X, op.NN)

	case chip8.Display:
		return fmt.Sprintf("V%X, V%X, $%X", op.X, op.Y, op.N)

	case chip8.SkipIfPressed, chip8.SkipIfNotPressed:
		return fmt.Sprintf("V%X", op.X)

	case chip8.SetRegisterDelayTimer:
		return fmt.Sprintf("V%X, DT", op.X)
	case chip8.GetKey:
		return fmt.Sprintf("V%X, K", op.X)
	case chip8.SetDelayTimer:
		return fmt.Sprintf("DT, V%X", op.X)
	case chip8.SetSoundTimer:
		return fmt.Sprintf("ST, V%X", op.X)
	case chip8.AddToIndex:
		return fmt.Sprintf("I, V%X", op.X)
	case chip8.FontCharacter:
		return fmt.Sprintf("F, V%X", op.X)
	case chip8.DecimalConversion:
		return fmt.Sprintf("B, V%X", op.X)
	case chip8.Store:
		return fmt.Sprintf("[I], V%X", op.X)
	case chip8.Load:
		return fmt.Sprintf("V%X, [I]", op.X)

	default: // register pair operations
		return fmt.Sprintf("V%X, V%X", op.X, op.Y)
	}
}

// formatAddress returns the label of an address or the address itself.
func (dis *Disasm) formatAddress(address uint16) string {
	if name, ok := dis.labels[address]; ok {
		return name
	}
	return fmt.Sprintf("$%03X", address)
}

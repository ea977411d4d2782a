package chip8

import "fmt"

// Kind identifies the operation an instruction word decodes to.
type Kind uint8

// All operation kinds of the CHIP-8 instruction set.
const (
	ClearScreen           Kind = iota + 1 // 00E0
	Return                                // 00EE
	Jump                                  // 1nnn
	CallSubroutine                        // 2nnn
	SkipEqual                             // 3xnn
	SkipNotEqual                          // 4xnn
	SkipRegisterEqual                     // 5xy0
	Set                                   // 6xnn
	Add                                   // 7xnn
	SetRegister                           // 8xy0
	OrRegister                            // 8xy1
	AndRegister                           // 8xy2
	XorRegister                           // 8xy3
	AddRegister                           // 8xy4
	SubtractYFromX                        // 8xy5
	ShiftRight                            // 8xy6
	SubtractXFromY                        // 8xy7
	ShiftLeft                             // 8xyE
	SkipRegisterNotEqual                  // 9xy0
	SetIndex                              // Annn
	JumpWithOffset                        // Bnnn
	Random                                // Cxnn
	Display                               // Dxyn
	SkipIfPressed                         // Ex9E
	SkipIfNotPressed                      // ExA1
	SetRegisterDelayTimer                 // Fx07
	GetKey                                // Fx0A
	SetDelayTimer                         // Fx15
	SetSoundTimer                         // Fx18
	AddToIndex                            // Fx1E
	FontCharacter                         // Fx29
	DecimalConversion                     // Fx33
	Store                                 // Fx55
	Load                                  // Fx65

	kindCount
)

// operandLayout describes which operands of an instruction word an operation uses.
type operandLayout uint8

const (
	layoutNone operandLayout = iota
	layoutAddress
	layoutXNN
	layoutXY
	layoutX
	layoutXYN
)

type kindInfo struct {
	name   string
	layout operandLayout
}

var kinds = [kindCount]kindInfo{
	ClearScreen:           {"ClearScreen", layoutNone},
	Return:                {"Return", layoutNone},
	Jump:                  {"Jump", layoutAddress},
	CallSubroutine:        {"CallSubroutine", layoutAddress},
	SkipEqual:             {"SkipEqual", layoutXNN},
	SkipNotEqual:          {"SkipNotEqual", layoutXNN},
	SkipRegisterEqual:     {"SkipRegisterEqual", layoutXY},
	Set:                   {"Set", layoutXNN},
	Add:                   {"Add", layoutXNN},
	SetRegister:           {"SetRegister", layoutXY},
	OrRegister:            {"OrRegister", layoutXY},
	AndRegister:           {"AndRegister", layoutXY},
	XorRegister:           {"XorRegister", layoutXY},
	AddRegister:           {"AddRegister", layoutXY},
	SubtractYFromX:        {"SubtractYFromX", layoutXY},
	ShiftRight:            {"ShiftRight", layoutXY},
	SubtractXFromY:        {"SubtractXFromY", layoutXY},
	ShiftLeft:             {"ShiftLeft", layoutXY},
	SkipRegisterNotEqual:  {"SkipRegisterNotEqual", layoutXY},
	SetIndex:              {"SetIndex", layoutAddress},
	JumpWithOffset:        {"JumpWithOffset", layoutAddress},
	Random:                {"Random", layoutXNN},
	Display:               {"Display", layoutXYN},
	SkipIfPressed:         {"SkipIfPressed", layoutX},
	SkipIfNotPressed:      {"SkipIfNotPressed", layoutX},
	SetRegisterDelayTimer: {"SetRegisterDelayTimer", layoutX},
	GetKey:                {"GetKey", layoutX},
	SetDelayTimer:         {"SetDelayTimer", layoutX},
	SetSoundTimer:         {"SetSoundTimer", layoutX},
	AddToIndex:            {"AddToIndex", layoutX},
	FontCharacter:         {"FontCharacter", layoutX},
	DecimalConversion:     {"DecimalConversion", layoutX},
	Store:                 {"Store", layoutX},
	Load:                  {"Load", layoutX},
}

// Valid returns whether the kind is a known operation.
func (k Kind) Valid() bool {
	return k > 0 && k < kindCount
}

// String returns the name of the operation kind.
func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return kinds[k].name
}

// Operation is a decoded instruction: its kind plus the operands extracted
// from the instruction word. Operands that the kind does not use are ignored.
type Operation struct {
	Kind Kind
	Word uint16 // raw instruction word

	X   uint8  // register index, bits 8-11
	Y   uint8  // register index, bits 4-7
	N   uint8  // 4-bit immediate, bits 0-3
	NN  uint8  // 8-bit immediate, bits 0-7
	NNN uint16 // 12-bit address, bits 0-11
}

// String returns a readable representation of the operation with its operands.
func (o Operation) String() string {
	if !o.Kind.Valid() {
		return fmt.Sprintf("%s $%04X", o.Kind, o.Word)
	}

	name := kinds[o.Kind].name
	switch kinds[o.Kind].layout {
	case layoutAddress:
		return fmt.Sprintf("%s $%03X", name, o.NNN)
	case layoutXNN:
		return fmt.Sprintf("%s V%X, $%02X", name, o.X, o.NN)
	case layoutXY:
		return fmt.Sprintf("%s V%X, V%X", name, o.X, o.Y)
	case layoutX:
		return fmt.Sprintf("%s V%X", name, o.X)
	case layoutXYN:
		return fmt.Sprintf("%s V%X, V%X, %d", name, o.X, o.Y, o.N)
	default:
		return name
	}
}

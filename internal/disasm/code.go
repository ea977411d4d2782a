package disasm

import (
	"fmt"

	"github.com/retroenv/chip8vm/internal/chip8"
	"github.com/retroenv/retrogolib/log"
)

const (
	dataNaming  = "_data_%04x"
	funcNaming  = "_func_%04x"
	labelNaming = "_label_%04x"
)

// addLabel names an address unless it already has a name. Calls take
// precedence over plain jump labels.
func (dis *Disasm) addLabel(address uint16, naming string) {
	if !dis.inROM(address) {
		return
	}

	name, ok := dis.labels[address]
	if ok && (naming != funcNaming || name == "Start") {
		return
	}
	dis.labels[address] = fmt.Sprintf(naming, address)
}

// buildLines converts the traced code and the remaining data into listing lines.
func (dis *Disasm) buildLines() []Line {
	var lines []Line
	lineStarts := map[uint16]bool{}

	end := chip8.ProgramStart + len(dis.rom)
	for address := chip8.ProgramStart; address < end; {
		addr := uint16(address)
		lineStarts[addr] = true

		if dis.code.Contains(addr) {
			offset := address - chip8.ProgramStart
			lines = append(lines, Line{
				Address: addr,
				Data:    dis.rom[offset : offset+2],
			})
			address += 2
			continue
		}

		lines = append(lines, Line{
			Address: addr,
			Data:    dis.rom[address-chip8.ProgramStart : address-chip8.ProgramStart+1],
		})
		address++
	}

	// labels pointing into the middle of an instruction can not be emitted
	for address := range dis.labels {
		if !lineStarts[address] {
			dis.logger.Debug("Dropping label inside instruction", log.Hex("address", address))
			delete(dis.labels, address)
		}
	}

	for i := range lines {
		line := &lines[i]
		line.Label = dis.labels[line.Address]

		if len(line.Data) == 1 {
			line.Code = fmt.Sprintf("db $%02X", line.Data[0])
			continue
		}

		op := dis.ops[line.Address]
		line.Code = dis.formatOperation(op)
	}

	return lines
}

package disasm

import (
	"fmt"
	"io"
)

// Write outputs the listing. Every line shows the address, the raw bytes
// and the assembly code, labels are written on their own line.
func Write(w io.Writer, lines []Line) error {
	for _, line := range lines {
		if line.Label != "" {
			if _, err := fmt.Fprintf(w, "%s:\n", line.Label); err != nil {
				return fmt.Errorf("writing label: %w", err)
			}
		}

		var data string
		switch len(line.Data) {
		case 2:
			data = fmt.Sprintf("%02X%02X", line.Data[0], line.Data[1])
		case 1:
			data = fmt.Sprintf("%02X  ", line.Data[0])
		}

		if _, err := fmt.Fprintf(w, "  %03X  %s  %s\n", line.Address, data, line.Code); err != nil {
			return fmt.Errorf("writing line: %w", err)
		}
	}
	return nil
}

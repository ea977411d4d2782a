package emulator

import "github.com/retroenv/chip8vm/internal/chip8"

// Display renders the display buffer of the machine.
type Display interface {
	// Render is called with a copy of the display buffer after instructions
	// changed it.
	Render(frame chip8.Frame)
}

// Audio produces the tone of the sound timer.
type Audio interface {
	// Tone is called on every timer tick with whether the tone is audible
	// during the elapsed tick interval.
	Tone(on bool)
}

type multiAudio []Audio

func (m multiAudio) Tone(on bool) {
	for _, a := range m {
		a.Tone(on)
	}
}

// MultiAudio returns an Audio that forwards the tone to all passed outputs.
// Nil outputs are skipped.
func MultiAudio(outputs ...Audio) Audio {
	var m multiAudio
	for _, a := range outputs {
		if a != nil {
			m = append(m, a)
		}
	}
	return m
}

type nopOutput struct{}

func (nopOutput) Render(chip8.Frame) {}

func (nopOutput) Tone(bool) {}

package chip8

// Timers holds the delay and sound countdown timers. A timer is idle at 0 and
// counting while it holds a value between 1 and 255.
type Timers struct {
	Delay uint8
	Sound uint8
}

// Tick decrements every counting timer by one. It returns whether the sound
// timer was counting during the elapsed tick interval.
func (t *Timers) Tick() bool {
	soundActive := t.Sound > 0
	if t.Delay > 0 {
		t.Delay--
	}
	if t.Sound > 0 {
		t.Sound--
	}
	return soundActive
}

// SoundActive returns whether the sound timer is counting.
func (t Timers) SoundActive() bool {
	return t.Sound > 0
}

package chip8

import (
	"fmt"
	"sync"
)

// KeyCount is the number of keys on the hexadecimal keypad.
const KeyCount = 16

// Keypad holds the state of the 16 key hexadecimal keypad. It is written by
// the input collaborator and read by the machine, all methods are safe for
// concurrent use.
type Keypad struct {
	mu   sync.Mutex
	keys [KeyCount]bool

	// presses receives every transition of a key from released to pressed.
	presses chan uint8
}

// NewKeypad returns a keypad with all keys released.
func NewKeypad() *Keypad {
	return &Keypad{
		presses: make(chan uint8, KeyCount),
	}
}

// Press marks the key as pressed.
func (k *Keypad) Press(key uint8) error {
	if key >= KeyCount {
		return fmt.Errorf("%w: %d", ErrInvalidKey, key)
	}

	k.mu.Lock()
	wasPressed := k.keys[key]
	k.keys[key] = true
	k.mu.Unlock()

	if !wasPressed {
		// a full buffer means nobody is waiting for key presses
		select {
		case k.presses <- key:
		default:
		}
	}
	return nil
}

// Release marks the key as released.
func (k *Keypad) Release(key uint8) error {
	if key >= KeyCount {
		return fmt.Errorf("%w: %d", ErrInvalidKey, key)
	}

	k.mu.Lock()
	k.keys[key] = false
	k.mu.Unlock()
	return nil
}

// IsPressed returns whether the key is currently pressed.
// Only the lower nibble of the key is used.
func (k *Keypad) IsPressed(key uint8) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.keys[key&0xF]
}

// State returns a snapshot of all keys.
func (k *Keypad) State() [KeyCount]bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.keys
}

// Presses returns the channel that receives key press events.
func (k *Keypad) Presses() <-chan uint8 {
	return k.presses
}

// Reset releases all keys and discards pending press events.
func (k *Keypad) Reset() {
	k.mu.Lock()
	k.keys = [KeyCount]bool{}
	k.mu.Unlock()
	k.flush()
}

// flush discards pending press events.
func (k *Keypad) flush() {
	for {
		select {
		case <-k.presses:
		default:
			return
		}
	}
}

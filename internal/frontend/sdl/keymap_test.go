//go:build sdl

package sdl

import (
	"testing"

	"github.com/retroenv/chip8vm/internal/chip8"
	"github.com/retroenv/retrogolib/assert"
	"github.com/veandco/go-sdl2/sdl"
)

func TestKeyMap(t *testing.T) {
	seen := map[uint8]bool{}
	for _, key := range keyMap {
		seen[key] = true
	}
	assert.Equal(t, chip8.KeyCount, len(seen))

	assert.Equal(t, uint8(0xC), keyMap[sdl.SCANCODE_4])
	assert.Equal(t, uint8(0x0), keyMap[sdl.SCANCODE_X])
}

package chip8

// Display dimensions in pixels.
const (
	DisplayWidth  = 64
	DisplayHeight = 32
)

// Frame is the monochrome display buffer, stored row-major.
type Frame [DisplayHeight][DisplayWidth]bool

// Pixel returns whether the pixel at the given position is set.
// Coordinates outside the display return false.
func (f *Frame) Pixel(x, y int) bool {
	if x < 0 || x >= DisplayWidth || y < 0 || y >= DisplayHeight {
		return false
	}
	return f[y][x]
}

// Lit returns the number of set pixels.
func (f *Frame) Lit() int {
	var count int
	for y := range f {
		for x := range f[y] {
			if f[y][x] {
				count++
			}
		}
	}
	return count
}

func (f *Frame) clear() {
	*f = Frame{}
}

// draw XORs the sprite rows onto the frame with the top left corner at the
// wrapped x, y position. Columns wrap around the right edge, rows below the
// bottom edge are clipped. It returns whether any set pixel was turned off.
func (f *Frame) draw(sprite []byte, x, y uint8) bool {
	col := int(x) % DisplayWidth
	row := int(y) % DisplayHeight
	collision := false

	for i, bits := range sprite {
		py := row + i
		if py >= DisplayHeight {
			break
		}

		for bit := range 8 {
			if bits&(0x80>>bit) == 0 {
				continue
			}
			px := (col + bit) % DisplayWidth
			if f[py][px] {
				collision = true
			}
			f[py][px] = !f[py][px]
		}
	}

	return collision
}

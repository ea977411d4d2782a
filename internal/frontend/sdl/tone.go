package sdl

// Audio format of the tone played by the front end.
const (
	sampleRate = 22050
	toneHz     = 440
	volume     = 48
	silence    = 0x80
)

// squareWave fills buf with unsigned 8 bit samples of the tone, starting at
// the given sample index, and returns the index following the last sample.
func squareWave(buf []byte, index uint64) uint64 {
	for i := range buf {
		halfPeriods := index * toneHz * 2 / sampleRate
		if halfPeriods%2 == 0 {
			buf[i] = silence + volume
		} else {
			buf[i] = silence - volume
		}
		index++
	}
	return index
}

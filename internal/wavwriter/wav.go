// Package wavwriter records the tone of the sound timer as a square wave to a
// WAV file.
package wavwriter

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/retroenv/retrogolib/log"
)

// Audio format of the written file.
const (
	SampleRate = 22050
	ToneHz     = 440

	bitDepth     = 16
	channels     = 1
	pcmFormat    = 1
	amplitude    = 8000
	defaultTimer = 60
)

// WavWriter implements the emulator audio output by writing one timer tick
// worth of samples for every tone signal.
type WavWriter struct {
	logger   *log.Logger
	filename string
	file     *os.File
	encoder  *wav.Encoder
	timerHz  int

	ticks   uint64
	samples uint64
	buf     *audio.IntBuffer
	err     error
}

// New creates the WAV file. timerHz is the rate at which Tone is called.
func New(logger *log.Logger, filename string, timerHz int) (*WavWriter, error) {
	if timerHz <= 0 {
		timerHz = defaultTimer
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("creating wav file: %w", err)
	}

	return &WavWriter{
		logger:   logger,
		filename: filename,
		file:     f,
		encoder:  wav.NewEncoder(f, SampleRate, bitDepth, channels, pcmFormat),
		timerHz:  timerHz,
		buf: &audio.IntBuffer{
			Format: &audio.Format{
				NumChannels: channels,
				SampleRate:  SampleRate,
			},
			SourceBitDepth: bitDepth,
		},
	}, nil
}

// Tone writes the samples of one timer tick. Write errors are returned by Close.
func (w *WavWriter) Tone(on bool) {
	if w.err != nil {
		return
	}

	// the sample count per tick is fractional, the total is derived from the
	// tick count to avoid drift
	w.ticks++
	target := w.ticks * SampleRate / uint64(w.timerHz)

	w.buf.Data = w.buf.Data[:0]
	for ; w.samples < target; w.samples++ {
		w.buf.Data = append(w.buf.Data, sample(w.samples, on))
	}

	if err := w.encoder.Write(w.buf); err != nil {
		w.err = fmt.Errorf("writing samples: %w", err)
	}
}

// Close finalizes the WAV header and closes the file.
func (w *WavWriter) Close() error {
	encErr := w.encoder.Close()
	closeErr := w.file.Close()
	if err := errors.Join(w.err, encErr, closeErr); err != nil {
		return fmt.Errorf("closing wav file: %w", err)
	}

	w.logger.Info("Wrote audio recording",
		log.String("file", w.filename),
		log.Int("samples", int(w.samples)))
	return nil
}

// sample returns the value of the square wave at the given sample index.
func sample(index uint64, on bool) int {
	if !on {
		return 0
	}
	halfPeriods := index * ToneHz * 2 / SampleRate
	if halfPeriods%2 == 0 {
		return amplitude
	}
	return -amplitude
}

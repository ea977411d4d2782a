//go:build sdl

package sdl

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/retroenv/chip8vm/internal/chip8"
	"github.com/retroenv/retrogolib/log"
	"github.com/sqweek/dialog"
	"github.com/veandco/go-sdl2/sdl"
)

// DefaultScale is the default window size factor of a display pixel.
const DefaultScale = 10

const (
	windowTitle = "CHIP-8"
	refreshRate = 60

	audioBufferSamples = 512
	// queue enough tone for two refresh intervals to avoid gaps
	audioQueueTarget = 2 * sampleRate / refreshRate
)

var keyMap = map[sdl.Scancode]uint8{
	sdl.SCANCODE_X: 0x0,
	sdl.SCANCODE_1: 0x1,
	sdl.SCANCODE_2: 0x2,
	sdl.SCANCODE_3: 0x3,
	sdl.SCANCODE_Q: 0x4,
	sdl.SCANCODE_W: 0x5,
	sdl.SCANCODE_E: 0x6,
	sdl.SCANCODE_A: 0x7,
	sdl.SCANCODE_S: 0x8,
	sdl.SCANCODE_D: 0x9,
	sdl.SCANCODE_Z: 0xA,
	sdl.SCANCODE_C: 0xB,
	sdl.SCANCODE_4: 0xC,
	sdl.SCANCODE_R: 0xD,
	sdl.SCANCODE_F: 0xE,
	sdl.SCANCODE_V: 0xF,
}

// SDL calls have to be made from the main thread.
func init() {
	runtime.LockOSThread()
}

// Config contains the SDL front end options.
type Config struct {
	// Scale is the window size factor of a display pixel, DefaultScale if 0.
	Scale int
}

// SDL presents frames in a window and feeds keyboard input into a keypad.
// Render and Tone may be called from any goroutine, all SDL calls are made by
// the goroutine executing Run.
type SDL struct {
	logger *log.Logger
	keypad *chip8.Keypad

	window   *sdl.Window
	renderer *sdl.Renderer
	audioID  sdl.AudioDeviceID

	mu      sync.Mutex
	frame   chip8.Frame
	changed bool

	toneOn      atomic.Bool
	toneIndex   uint64
	audioBuffer []byte
}

// Available returns whether the SDL front end was built in.
func Available() bool {
	return true
}

// New initializes SDL and opens the window and the audio device.
func New(logger *log.Logger, keypad *chip8.Keypad, cfg Config) (*SDL, error) {
	if cfg.Scale <= 0 {
		cfg.Scale = DefaultScale
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO); err != nil {
		return nil, fmt.Errorf("initializing SDL: %w", err)
	}

	s := &SDL{
		logger:      logger,
		keypad:      keypad,
		audioBuffer: make([]byte, audioQueueTarget),
		changed:     true,
	}

	var err error
	s.window, err = sdl.CreateWindow(windowTitle, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(chip8.DisplayWidth*cfg.Scale), int32(chip8.DisplayHeight*cfg.Scale), sdl.WINDOW_SHOWN)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("creating window: %w", err)
	}

	s.renderer, err = sdl.CreateRenderer(s.window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("creating renderer: %w", err)
	}
	if err := s.renderer.SetLogicalSize(chip8.DisplayWidth, chip8.DisplayHeight); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("setting renderer size: %w", err)
	}

	if err := s.openAudio(); err != nil {
		// the emulator is usable without sound
		logger.Warn("Opening audio device failed", log.Err(err))
	}

	return s, nil
}

func (s *SDL) openAudio() error {
	spec := &sdl.AudioSpec{
		Freq:     sampleRate,
		Format:   sdl.AUDIO_U8,
		Channels: 1,
		Samples:  audioBufferSamples,
	}

	var actual sdl.AudioSpec
	id, err := sdl.OpenAudioDevice("", false, spec, &actual, 0)
	if err != nil {
		return fmt.Errorf("opening audio device: %w", err)
	}
	s.audioID = id
	sdl.PauseAudioDevice(id, false)
	return nil
}

// Close releases all SDL resources.
func (s *SDL) Close() error {
	if s.audioID != 0 {
		sdl.CloseAudioDevice(s.audioID)
		s.audioID = 0
	}

	var errs []error
	if s.renderer != nil {
		errs = append(errs, s.renderer.Destroy())
		s.renderer = nil
	}
	if s.window != nil {
		errs = append(errs, s.window.Destroy())
		s.window = nil
	}
	sdl.Quit()

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("closing SDL: %w", err)
	}
	return nil
}

// Render stores the frame to be presented by the event loop.
func (s *SDL) Render(frame chip8.Frame) {
	s.mu.Lock()
	s.frame = frame
	s.changed = true
	s.mu.Unlock()
}

// Tone stores the tone state to be played by the event loop.
func (s *SDL) Tone(on bool) {
	s.toneOn.Store(on)
}

// Run executes the run function in a new goroutine and processes SDL events
// on the calling goroutine until the window is closed, escape is pressed or
// run returns. It returns the error of the run function.
func (s *SDL) Run(ctx context.Context, run func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errs := make(chan error, 1)
	go func() {
		errs <- run(ctx)
	}()

	ticker := time.NewTicker(time.Second / refreshRate)
	defer ticker.Stop()

	for {
		if !s.processEvents() {
			s.logger.Debug("Window closed")
			cancel()
		}
		s.present()
		s.queueAudio()

		select {
		case err := <-errs:
			return err
		case <-ticker.C:
		}
	}
}

// processEvents maps keyboard events to the keypad, it returns false if the
// user requested to quit.
func (s *SDL) processEvents() bool {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch ev := event.(type) {
		case *sdl.QuitEvent:
			return false

		case *sdl.KeyboardEvent:
			if ev.Keysym.Scancode == sdl.SCANCODE_ESCAPE {
				return false
			}
			key, ok := keyMap[ev.Keysym.Scancode]
			if !ok || ev.Repeat != 0 {
				continue
			}

			var err error
			if ev.Type == sdl.KEYDOWN {
				err = s.keypad.Press(key)
			} else {
				err = s.keypad.Release(key)
			}
			if err != nil {
				s.logger.Error("Updating keypad failed", log.Err(err))
			}
		}
	}
	return true
}

func (s *SDL) present() {
	s.mu.Lock()
	frame := s.frame
	changed := s.changed
	s.changed = false
	s.mu.Unlock()

	if !changed {
		return
	}

	_ = s.renderer.SetDrawColor(143, 145, 133, 255)
	_ = s.renderer.Clear()
	_ = s.renderer.SetDrawColor(17, 29, 43, 255)

	for y := range chip8.DisplayHeight {
		for x := range chip8.DisplayWidth {
			if frame.Pixel(x, y) {
				_ = s.renderer.FillRect(&sdl.Rect{X: int32(x), Y: int32(y), W: 1, H: 1})
			}
		}
	}
	s.renderer.Present()
}

// queueAudio keeps the audio queue filled while the tone is on and drops it
// as soon as the tone stops.
func (s *SDL) queueAudio() {
	if s.audioID == 0 {
		return
	}

	if !s.toneOn.Load() {
		sdl.ClearQueuedAudio(s.audioID)
		return
	}

	queued := int(sdl.GetQueuedAudioSize(s.audioID))
	if queued >= audioQueueTarget {
		return
	}

	buf := s.audioBuffer[:audioQueueTarget-queued]
	s.toneIndex = squareWave(buf, s.toneIndex)
	if err := sdl.QueueAudio(s.audioID, buf); err != nil {
		s.logger.Error("Queueing audio failed", log.Err(err))
	}
}

// PickROM shows a file dialog to select a ROM file.
func PickROM() (string, error) {
	filename, err := dialog.File().
		Title("Open CHIP-8 ROM").
		Filter("CHIP-8 ROM", "ch8", "c8", "rom").
		Filter("All files", "*").
		Load()
	if err != nil {
		if errors.Is(err, dialog.ErrCancelled) {
			return "", ErrNoROMSelected
		}
		return "", fmt.Errorf("showing file dialog: %w", err)
	}
	return filename, nil
}

package sdl

import "errors"

var (
	// ErrNotAvailable is returned when the binary was built without SDL support.
	ErrNotAvailable = errors.New("SDL front end not available, build with -tags sdl")

	// ErrNoROMSelected is returned when the ROM file dialog was canceled.
	ErrNoROMSelected = errors.New("no ROM file selected")
)

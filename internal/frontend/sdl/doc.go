// Package sdl implements a windowed front end with keyboard input and a
// square wave tone. The SDL implementation is only built with the sdl build
// tag, as it needs the SDL2 development libraries and cgo.
package sdl

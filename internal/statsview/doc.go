// Package statsview serves runtime statistics of the emulator process over
// HTTP. The server is only available when built with the statsview build tag.
//
// After launch the charts are available at:
//
//	localhost:12600/debug/statsview
//
// and the standard Go pprof statistics at:
//
//	localhost:12600/debug/pprof/
package statsview

//go:build !statsview

package statsview

import "github.com/retroenv/retrogolib/log"

// Launch does nothing in builds without the stats server.
func Launch(*log.Logger) {}

// Available returns whether the stats server was built in.
func Available() bool {
	return false
}

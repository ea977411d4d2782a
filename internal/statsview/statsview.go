//go:build statsview

package statsview

import (
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/retroenv/retrogolib/log"
)

// Address is the local address the stats server listens on.
const Address = "localhost:12600"

const url = "/debug/statsview"

// Launch starts the stats server in a new goroutine.
func Launch(logger *log.Logger) {
	viewer.SetConfiguration(viewer.WithAddr(Address))
	mgr := statsview.New()

	go func() {
		if err := mgr.Start(); err != nil {
			logger.Error("Stats server failed", log.Err(err))
		}
	}()

	logger.Info("Stats server available", log.String("url", "http://"+Address+url))
}

// Available returns whether the stats server was built in.
func Available() bool {
	return true
}

// Package detector handles the front end detection.
package detector

import (
	"os"

	"github.com/retroenv/chip8vm/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// Detector selects the front end from the options or the attached output.
type Detector struct {
	logger     *log.Logger
	isTerminal func() bool
}

// New creates a new front end detector that checks whether stdout is a
// terminal.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger:     logger,
		isTerminal: stdoutIsTerminal,
	}
}

// Detect returns the front end to use. An explicitly requested front end is
// used as is, otherwise the terminal front end is used if stdout is a
// terminal and the headless front end if not.
func (d *Detector) Detect(opts options.Program) string {
	if opts.Frontend != "" {
		return opts.Frontend
	}

	frontend := options.FrontendHeadless
	if d.isTerminal() {
		frontend = options.FrontendTerminal
	}
	d.logger.Debug("Auto-detected front end", log.String("frontend", frontend))
	return frontend
}

func stdoutIsTerminal() bool {
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

package detector

import (
	"testing"

	"github.com/retroenv/chip8vm/internal/options"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name         string
		frontendOpt  string
		terminal     bool
		wantFrontend string
	}{
		{
			name:         "explicit headless on terminal",
			frontendOpt:  options.FrontendHeadless,
			terminal:     true,
			wantFrontend: options.FrontendHeadless,
		},
		{
			name:         "explicit sdl",
			frontendOpt:  options.FrontendSDL,
			terminal:     false,
			wantFrontend: options.FrontendSDL,
		},
		{
			name:         "explicit terminal without terminal",
			frontendOpt:  options.FrontendTerminal,
			terminal:     false,
			wantFrontend: options.FrontendTerminal,
		},
		{
			name:         "detect terminal",
			terminal:     true,
			wantFrontend: options.FrontendTerminal,
		},
		{
			name:         "detect headless",
			terminal:     false,
			wantFrontend: options.FrontendHeadless,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(log.NewTestLogger(t))
			d.isTerminal = func() bool { return tt.terminal }

			opts := options.Program{
				Flags: options.Flags{Frontend: tt.frontendOpt},
			}
			assert.Equal(t, tt.wantFrontend, d.Detect(opts))
		})
	}
}

func TestStdoutIsTerminal(t *testing.T) {
	// the result depends on how the tests are run, it must not panic
	_ = stdoutIsTerminal()
}

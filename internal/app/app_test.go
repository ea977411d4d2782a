package app

import (
	"testing"

	"github.com/retroenv/chip8vm/internal/options"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestVersionString(t *testing.T) {
	assert.Equal(t, "dev", VersionString("dev", ""))
	assert.Equal(t, "1.0.0 (abc1234)", VersionString("1.0.0", "abc1234def"))
	assert.Equal(t, "1.0.0 (abc)", VersionString("1.0.0", "abc"))
}

func TestPrintBanner(t *testing.T) {
	logger := log.NewTestLogger(t)

	PrintBanner(logger, options.Program{}, "dev", "0123456789", "2026-10-01")
	PrintBanner(logger, options.Program{}, "dev", "", "unknown")
	PrintBanner(logger, options.Program{Flags: options.Flags{Quiet: true}}, "dev", "", "")
}

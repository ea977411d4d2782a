package disasm

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/retroenv/chip8vm/internal/chip8"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func disassemble(t *testing.T, rom []byte) []Line {
	t.Helper()

	dis, err := New(log.NewTestLogger(t), rom)
	assert.NoError(t, err)
	lines, err := dis.Process(context.Background())
	assert.NoError(t, err)
	return lines
}

func TestProcess(t *testing.T) {
	rom := []byte{
		0x00, 0xE0, // 200 cls
		0xA2, 0x0C, // 202 ld I, _data_020c
		0x22, 0x0A, // 204 call _func_020a
		0x31, 0x00, // 206 se V1, $00
		0x12, 0x06, // 208 jp _label_0206 (skipped over target)
		0x00, 0xEE, // 20A ret
		0xF0, 0x90, // 20C data
	}

	lines := disassemble(t, rom)

	codes := make([]string, 0, len(lines))
	for _, line := range lines {
		codes = append(codes, line.Code)
	}
	assert.Equal(t, strings.Join([]string{
		"cls",
		"ld I, _data_020c",
		"call _func_020a",
		"se V1, $00",
		"jp _label_0206",
		"ret",
		"db $F0",
		"db $90",
	}, "\n"), strings.Join(codes, "\n"))

	assert.Equal(t, "Start", lines[0].Label)
	assert.Equal(t, "_label_0206", lines[3].Label)
	assert.Equal(t, "_func_020a", lines[5].Label)
	assert.Equal(t, "_data_020c", lines[6].Label)
}

func TestProcessUnknownWord(t *testing.T) {
	rom := []byte{
		0x60, 0x05, // ld V0, $05
		0xFF, 0xFF, // unknown
	}

	lines := disassemble(t, rom)
	assert.Len(t, lines, 3)
	assert.Equal(t, "ld V0, $05", lines[0].Code)
	assert.Equal(t, "db $FF", lines[1].Code)
	assert.Equal(t, "db $FF", lines[2].Code)
}

func TestFormatOperands(t *testing.T) {
	tests := []struct {
		word uint16
		want string
	}{
		{0x8126, "V1, V2"},
		{0xD125, "V1, V2, $5"},
		{0xF30A, "V3, K"},
		{0xF433, "B, V4"},
		{0xF555, "[I], V5"},
		{0xF665, "V6, [I]"},
		{0xB300, "V0, $300"},
	}

	dis, err := New(log.NewTestLogger(t), nil)
	assert.NoError(t, err)
	for _, tt := range tests {
		op, err := chip8.Decode(tt.word)
		assert.NoError(t, err)
		assert.Equal(t, tt.want, dis.formatOperands(op))
	}
}

func TestFormatOperation(t *testing.T) {
	tests := []struct {
		word uint16
		want string
	}{
		{0x6105, "ld V1, $05"},
		{0x1300, "jp $300"},
		{0xA20C, "ld I, $20C"},
		{0x00E0, "cls"},
	}

	for _, tt := range tests {
		op, err := chip8.Decode(tt.word)
		assert.NoError(t, err)
		assert.Equal(t, tt.want, FormatOperation(op))
	}
}

func TestWrite(t *testing.T) {
	lines := disassemble(t, []byte{0x12, 0x00, 0x42})

	var buf bytes.Buffer
	assert.NoError(t, Write(&buf, lines))
	assert.Equal(t, "Start:\n  200  1200  jp Start\n  202  42    db $42\n", buf.String())
}

func TestNewRomTooLarge(t *testing.T) {
	_, err := New(log.NewTestLogger(t), make([]byte, chip8.MaxROMSize+1))
	assert.ErrorContains(t, err, "rom too large")
}

func TestProcessCanceled(t *testing.T) {
	dis, err := New(log.NewTestLogger(t), []byte{0x00, 0xE0})
	assert.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = dis.Process(ctx)
	assert.ErrorContains(t, err, "context canceled")
}

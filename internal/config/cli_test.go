package config

import (
	"bytes"
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestParseRunFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want Options
	}{
		{
			name: "defaults",
			args: []string{"pong.ch8"},
			want: Options{Input: "pong.ch8", ClockHz: 500, Scale: 20},
		},
		{
			name: "clock and scale",
			args: []string{"-clock", "1000", "-scale", "10", "pong.ch8"},
			want: Options{Input: "pong.ch8", ClockHz: 1000, Scale: 10},
		},
		{
			name: "seed and quiet",
			args: []string{"-seed", "7", "-q", "pong.ch8"},
			want: Options{Input: "pong.ch8", ClockHz: 500, Scale: 20, Seed: 7, Quiet: true},
		},
		{
			name: "trace implies debug",
			args: []string{"-trace", "pong.ch8"},
			want: Options{Input: "pong.ch8", ClockHz: 500, Scale: 20, Trace: true, Debug: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRunFlags("chip8", tt.args)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRunFlagsUsage(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no program", nil},
		{"unknown flag", []string{"-nope", "pong.ch8"}},
		{"flag after program", []string{"pong.ch8", "-q"}},
		{"two programs", []string{"pong.ch8", "tetris.ch8"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRunFlags("chip8", tt.args)
			var usageErr *UsageError
			assert.True(t, errors.As(err, &usageErr))

			var buf bytes.Buffer
			usageErr.ShowUsage(&buf)
			assert.Contains(t, buf.String(), "usage: chip8 [options] <CHIP-8 program>")
			assert.Contains(t, buf.String(), "-clock")
		})
	}
}

func TestParseRunFlagsInvalid(t *testing.T) {
	_, err := ParseRunFlags("chip8", []string{"-clock", "10", "pong.ch8"})
	assert.True(t, errors.Is(err, errInvalidClock))

	var usageErr *UsageError
	assert.False(t, errors.As(err, &usageErr))
}

func TestParseDisasmFlags(t *testing.T) {
	got, err := ParseDisasmFlags("chip8disasm", []string{"-o", "pong.asm", "pong.ch8"})
	assert.NoError(t, err)
	assert.Equal(t, "pong.ch8", got.Input)
	assert.Equal(t, "pong.asm", got.Output)

	_, err = ParseDisasmFlags("chip8disasm", []string{"-clock", "500", "pong.ch8"})
	var usageErr *UsageError
	assert.True(t, errors.As(err, &usageErr))
}

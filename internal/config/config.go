// Package config handles emulator configuration and setup
package config

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/mnafees/chip8vm/internal"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// Limits of the configurable values.
const (
	MinClockHz = internal.TimerFrequency
	MaxClockHz = 100000

	DefaultScale = 20
)

var (
	errInvalidClock = errors.New("invalid clock rate")
	errInvalidScale = errors.New("invalid scale")
)

// Options contains the settings shared by all commands.
type Options struct {
	Input  string // ROM file to load
	Output string // disassembly output file, stdout if empty

	ClockHz int   // instructions executed per second
	Scale   int   // window pixels per CHIP-8 pixel
	Seed    int64 // random seed for RND, 0 picks a time based seed

	Debug bool // debug level logging
	Quiet bool // only log errors
	Trace bool // log every executed instruction
}

// Default returns the options used when no flags are given.
func Default() Options {
	return Options{
		ClockHz: internal.DefaultClockHz,
		Scale:   DefaultScale,
	}
}

// Validate checks that the options describe a runnable emulator.
func (o Options) Validate() error {
	if o.ClockHz < MinClockHz || o.ClockHz > MaxClockHz {
		return fmt.Errorf("%w: %d Hz, must be between %d and %d", errInvalidClock, o.ClockHz, MinClockHz, MaxClockHz)
	}
	if o.Scale < 1 {
		return fmt.Errorf("%w: %d", errInvalidScale, o.Scale)
	}
	return nil
}

// CyclesPerTimerTick returns how many instructions run per 60 Hz timer tick.
// The driver renders at the same rate, so this is also the number of cycles
// per frame.
func (o Options) CyclesPerTimerTick() int {
	n := o.ClockHz / internal.TimerFrequency
	if n < 1 {
		return 1
	}
	return n
}

// RandSource returns the random source for the RND instruction.
func (o Options) RandSource() rand.Source {
	seed := o.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.NewSource(seed)
}

// VMOptions returns the VM options matching the configuration.
func (o Options) VMOptions(logger *log.Logger) []internal.Option {
	return []internal.Option{
		internal.WithLogger(logger),
		internal.WithCyclesPerTimerTick(o.CyclesPerTimerTick()),
		internal.WithRandSource(o.RandSource()),
		internal.WithTrace(o.Trace),
	}
}

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// PrintBanner logs the program name and version unless quiet output is requested.
func PrintBanner(logger *log.Logger, opts Options, name, version, commit, date string) {
	if opts.Quiet {
		return
	}
	logger.Info(name, log.String("version", buildinfo.Version(version, commit, date)))
}

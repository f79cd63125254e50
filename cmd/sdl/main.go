// Package main implements the SDL window frontend of the CHIP-8 emulator
package main

import (
	"context"
	"errors"
	"os"
	"runtime"

	"github.com/mnafees/chip8vm/internal"
	"github.com/mnafees/chip8vm/internal/config"
	"github.com/mnafees/chip8vm/internal/driver"
	"github.com/mnafees/chip8vm/pkg/sdl"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
)

const name = "chopper"

var (
	version = "dev"
	commit  = ""
	date    = ""
)

// SDL calls have to be made from the main thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	ctx := app.Context()

	opts, err := config.ParseRunFlags(name, os.Args[1:])
	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	if err != nil {
		var usageErr *config.UsageError
		if errors.As(err, &usageErr) {
			config.PrintBanner(logger, opts, name, version, commit, date)
			usageErr.ShowUsage(os.Stdout)
		} else {
			logger.Error(err.Error())
		}
		os.Exit(1)
	}
	config.PrintBanner(logger, opts, name, version, commit, date)

	if err := run(ctx, logger, opts); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("Emulation cancelled")
			return
		}
		logger.Error("Emulation failed", log.Err(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *log.Logger, opts config.Options) error {
	vm := internal.NewC8VM(opts.VMOptions(logger)...)
	if err := vm.LoadFile(opts.Input); err != nil {
		return err
	}

	io := sdl.NewIO(opts.Scale, logger)
	if err := io.SetupWindow("Chopper | CHIP-8 Emulator"); err != nil {
		return err
	}
	defer io.Destroy()

	d := driver.New(vm, io, logger,
		driver.WithCyclesPerFrame(opts.CyclesPerTimerTick()),
		driver.WithROM(opts.Input))
	return d.Run(ctx)
}

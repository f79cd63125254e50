// Package main implements a CHIP-8 program disassembler
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mnafees/chip8vm/internal"
	"github.com/mnafees/chip8vm/internal/config"
	"github.com/mnafees/chip8vm/internal/disasm"
	"github.com/retroenv/retrogolib/log"
)

const name = "chopper-disasm"

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	opts, err := config.ParseDisasmFlags(name, os.Args[1:])
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
	if opts.Output != "" {
		config.PrintBanner(logger, opts, name, version, commit, date)
	}

	if err := disasmFile(logger, opts); err != nil {
		logger.Error("Disassembling failed", log.Err(err))
		os.Exit(1)
	}
}

func disasmFile(logger *log.Logger, opts config.Options) error {
	data, err := os.ReadFile(opts.Input)
	if err != nil {
		return fmt.Errorf("reading file '%s': %w", opts.Input, err)
	}
	if len(data) > internal.MaxProgramSize {
		return fmt.Errorf("%w: %d bytes", internal.ErrProgramTooLarge, len(data))
	}

	lines := disasm.Listing(data, internal.ProgramAddress)
	if opts.Output == "" {
		return writeListing(os.Stdout, lines)
	}

	out, err := os.Create(opts.Output)
	if err != nil {
		return fmt.Errorf("creating file '%s': %w", opts.Output, err)
	}
	if err := writeListing(out, lines); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing file: %w", err)
	}

	logger.Info("Disassembly written",
		log.String("file", opts.Output),
		log.Int("instructions", len(lines)))
	return nil
}

func writeListing(w io.Writer, lines []disasm.Line) error {
	buf := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := fmt.Fprintln(buf, line.String()); err != nil {
			return fmt.Errorf("writing listing: %w", err)
		}
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("writing listing: %w", err)
	}
	return nil
}

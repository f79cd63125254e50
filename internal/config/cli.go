package config

import (
	"flag"
	"fmt"
	"io"
)

// ParseRunFlags parses the arguments of an emulator command. The ROM file
// is expected as the last argument.
func ParseRunFlags(name string, args []string) (Options, error) {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	opts := Default()
	readCommonFlags(flags, &opts)
	flags.IntVar(&opts.ClockHz, "clock", opts.ClockHz, "instructions executed per second")
	flags.IntVar(&opts.Scale, "scale", opts.Scale, "window pixels per CHIP-8 pixel")
	flags.Int64Var(&opts.Seed, "seed", 0, "random seed for the RND instruction, 0 uses the current time")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction, implies -debug")

	if err := parseInput(name, flags, args, &opts); err != nil {
		return opts, err
	}
	if opts.Trace {
		opts.Debug = true
	}
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

// ParseDisasmFlags parses the arguments of the disassembler command.
func ParseDisasmFlags(name string, args []string) (Options, error) {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	opts := Default()
	readCommonFlags(flags, &opts)
	flags.StringVar(&opts.Output, "o", "", "name of the output file, printed on console if no name given")

	if err := parseInput(name, flags, args, &opts); err != nil {
		return opts, err
	}
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	name  string
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the command usage and the flag defaults.
func (e *UsageError) ShowUsage(w io.Writer) {
	if e.msg != "" {
		_, _ = fmt.Fprintf(w, "%s\n\n", e.msg)
	}
	_, _ = fmt.Fprintf(w, "usage: %s [options] <CHIP-8 program>\n\n", e.name)
	e.flags.SetOutput(w)
	e.flags.PrintDefaults()
	_, _ = fmt.Fprintln(w)
}

func readCommonFlags(flags *flag.FlagSet, opts *Options) {
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}

func parseInput(name string, flags *flag.FlagSet, args []string, opts *Options) error {
	err := flags.Parse(args)
	rest := flags.Args()
	if err != nil {
		return &UsageError{name: name, flags: flags, msg: err.Error()}
	}
	if len(rest) == 0 {
		return &UsageError{name: name, flags: flags}
	}

	for _, arg := range rest[1:] {
		if arg != "" && arg[0] == '-' {
			return &UsageError{
				name:  name,
				flags: flags,
				msg:   fmt.Sprintf("Potential argument %s found after the program file, please pass the program file as last argument", arg),
			}
		}
	}
	if len(rest) > 1 {
		return &UsageError{name: name, flags: flags, msg: "only a single program file can be passed"}
	}

	opts.Input = rest[0]
	return nil
}

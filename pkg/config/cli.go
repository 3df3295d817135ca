package config

import (
	"flag"
	"fmt"
	"io"
)

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the usage line and all flag defaults.
func (e *UsageError) ShowUsage() {
	out := e.flags.Output()
	if e.msg != "" {
		_, _ = fmt.Fprintf(out, "%s\n\n", e.msg)
	}
	_, _ = fmt.Fprintf(out, "usage: %s [options] <ROM file>\n\n", e.flags.Name())
	e.flags.PrintDefaults()
	_, _ = fmt.Fprintln(out)
}

// Parse parses command line arguments into a validated configuration. A
// single positional argument is accepted as the ROM file.
func Parse(name string, args []string, output io.Writer) (Config, error) {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(output)
	flags.Usage = func() {}

	cfg := Default()
	cfg.RegisterFlags(flags)

	if err := flags.Parse(args); err != nil {
		return cfg, &UsageError{flags: flags, msg: err.Error()}
	}
	if cfg.Version {
		return cfg, nil
	}

	rest := flags.Args()
	switch {
	case len(rest) > 1:
		return cfg, &UsageError{flags: flags, msg: fmt.Sprintf("unexpected arguments %v", rest[1:])}
	case len(rest) == 1 && cfg.ROM != "":
		return cfg, &UsageError{flags: flags, msg: "ROM given both as -rom and as argument"}
	case len(rest) == 1:
		cfg.ROM = rest[0]
	}

	if err := cfg.Validate(); err != nil {
		return cfg, &UsageError{flags: flags, msg: err.Error()}
	}
	return cfg, nil
}

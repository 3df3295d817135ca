// Package main implements an assembler that turns Chip-8 assembly source into
// ROM images.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gochip8/pkg/asm"
	"gochip8/pkg/chip8"
	"gochip8/pkg/config"

	"github.com/retroenv/retrogolib/log"
)

type optionFlags struct {
	input   string
	output  string
	start   uint
	listing bool
	debug   bool
	quiet   bool
}

func main() {
	opts := readArguments()
	logger := config.CreateLogger(opts.debug, opts.quiet)

	size, err := assembleFile(logger, opts)
	if err != nil {
		logger.Fatal(err.Error())
	}
	if !opts.quiet {
		fmt.Printf("assembled %d bytes -> %s\n", size, opts.output)
	}
}

func readArguments() optionFlags {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	opts := optionFlags{}

	flags.StringVar(&opts.input, "in", "", "input assembly file path")
	flags.StringVar(&opts.output, "out", "", "output ROM file path (default: input with .ch8 extension)")
	flags.UintVar(&opts.start, "start", chip8.DefaultStartAddress, "address the program is loaded to")
	flags.BoolVar(&opts.listing, "listing", false, "log the address of every assembled line")
	flags.BoolVar(&opts.debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.quiet, "q", false, "perform operations quietly")

	err := flags.Parse(os.Args[1:])
	if err == nil && opts.input == "" && flags.NArg() == 1 {
		opts.input = flags.Arg(0)
	}
	if err != nil || opts.input == "" {
		fmt.Printf("usage: gochip8-asm [options] <file to assemble>\n\n")
		flags.PrintDefaults()
		os.Exit(1)
	}
	if opts.output == "" {
		opts.output = defaultOutputPath(opts.input)
	}
	return opts
}

func defaultOutputPath(inPath string) string {
	ext := filepath.Ext(inPath)
	if ext == "" {
		return inPath + ".ch8"
	}
	return strings.TrimSuffix(inPath, ext) + ".ch8"
}

func assembleFile(logger *log.Logger, opts optionFlags) (int, error) {
	if opts.start < uint(len(chip8.FontSet)) || opts.start >= chip8.MemorySize {
		return 0, fmt.Errorf("%w: 0x%X", chip8.ErrInvalidStartAddress, opts.start)
	}

	source, err := os.ReadFile(opts.input)
	if err != nil {
		return 0, fmt.Errorf("reading file '%s': %w", opts.input, err)
	}

	code, sourceMap, err := asm.NewAssembler(uint16(opts.start)).Assemble(string(source))
	if err != nil {
		return 0, fmt.Errorf("assembly failed: %w", err)
	}

	if opts.listing {
		addresses := make([]uint16, 0, len(sourceMap))
		for addr := range sourceMap {
			addresses = append(addresses, addr)
		}
		sort.Slice(addresses, func(i, j int) bool { return addresses[i] < addresses[j] })
		for _, addr := range addresses {
			logger.Info("Assembled line",
				log.Hex("address", addr),
				log.Int("line", sourceMap[addr]))
		}
	}

	if err := os.WriteFile(opts.output, code, 0o644); err != nil {
		return 0, fmt.Errorf("writing file '%s': %w", opts.output, err)
	}
	return len(code), nil
}

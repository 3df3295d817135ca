// Package rom loads Chip-8 program images from disk.
package rom

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gochip8/pkg/asm"
	"gochip8/pkg/chip8"
)

// MaxSize returns the largest program that fits a machine loading at start.
func MaxSize(start uint16) int {
	return chip8.MemorySize - int(start)
}

// SourceExtension marks assembly source files that Load assembles instead of
// reading them as binary images.
const SourceExtension = ".asm"

// Load reads the ROM file at path. Files with the SourceExtension are
// assembled for the start address. Images that would not fit a machine
// loading at start are rejected with a *chip8.RomTooLargeError before any
// machine is touched.
func Load(path string, start uint16) ([]byte, error) {
	fullPath, _, err := PathInfo(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path '%s': %w", path, err)
	}

	f, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("opening file '%s': %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	if strings.EqualFold(filepath.Ext(path), SourceExtension) {
		source, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("reading file '%s': %w", path, err)
		}
		data, _, err := asm.NewAssembler(start).Assemble(string(source))
		if err != nil {
			return nil, fmt.Errorf("assembling '%s': %w", path, err)
		}
		return Read(bytes.NewReader(data), start)
	}

	data, err := Read(f, start)
	if err != nil {
		return nil, fmt.Errorf("reading file '%s': %w", path, err)
	}
	return data, nil
}

// Read reads a ROM image from r.
func Read(r io.Reader, start uint16) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if limit := MaxSize(start); len(data) > limit {
		return nil, &chip8.RomTooLargeError{Size: len(data), Max: limit}
	}
	return data, nil
}

// PathInfo returns the absolute path of relPath and the directory containing
// it.
func PathInfo(relPath string) (fullPath string, parentDir string, err error) {
	fullPath, err = filepath.Abs(relPath)
	if err != nil {
		return "", "", err
	}
	return fullPath, filepath.Dir(fullPath), nil
}

// SiblingPath returns a file name next to the ROM, with the ROM extension
// replaced by suffix. It names snapshots and screenshots taken by the
// frontends.
func SiblingPath(romPath, suffix string) string {
	ext := filepath.Ext(romPath)
	return strings.TrimSuffix(romPath, ext) + suffix
}

// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/gogpu/spirvcross/diag"
	"github.com/gogpu/spirvcross/spirv"
)

var (
	errorColor = color.New(color.FgRed, color.Bold)
	kindColor  = color.New(color.FgYellow)
	noteColor  = color.New(color.FgCyan)
)

// configureColor applies the --color flag. In auto mode colors are used
// only when w is a terminal.
func configureColor(mode string, w io.Writer) error {
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		color.NoColor = !isTerminal(w)
	default:
		return fmt.Errorf("invalid --color %q, want auto, on or off", mode)
	}
	return nil
}

// isTerminal reports whether w is a terminal file.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // descriptors fit in int
}

// printError writes err with its kind highlighted.
func printError(w io.Writer, err error) {
	msg := err.Error()
	if kind := diag.KindOf(err); kind != 0 {
		msg = strings.Replace(msg, kind.String(), kindColor.Sprint(kind), 1)
	}
	fmt.Fprintf(w, "%s %s\n", errorColor.Sprint("error:"), msg)
}

// printNote writes an informational line.
func printNote(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", noteColor.Sprint("note:"), fmt.Sprintf(format, args...))
}

// loadModule reads and checks a SPIR-V binary.
func loadModule(path string) (*spirv.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	m, err := spirv.FromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

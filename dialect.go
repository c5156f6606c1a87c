// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spirvcross

import "github.com/gogpu/spirvcross/ir"

// Dialect is a target shading language with options of type O.
type Dialect[O any] interface {
	// Name identifies the dialect in error messages.
	Name() string

	// Reserved reports whether name cannot be used as an identifier.
	Reserved(name string) bool

	// Escape rewrites a valid identifier into one the dialect accepts,
	// for rules a numeric suffix cannot satisfy such as reserved prefixes.
	Escape(name string) string

	// Prepare makes the debug names of a freshly parsed module valid and
	// unique identifiers of the dialect.
	Prepare(m *ir.Module)

	// DefaultOptions returns the options used until SetCompilerOptions.
	DefaultOptions() O

	// ValidateOptions checks that o can be satisfied for m.
	ValidateOptions(m *ir.Module, o O) error

	// Generate writes the source for one entry point.
	Generate(m *ir.Module, o O, req Request) (string, error)
}

// Request carries the per-compile state an Ast holds outside the module.
type Request struct {
	EntryPoint  *ir.EntryPoint
	HeaderLines []string
}

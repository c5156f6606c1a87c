// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"github.com/gogpu/spirvcross"
	"github.com/gogpu/spirvcross/ir"
	"github.com/gogpu/spirvcross/spirv"
)

// Ast is a module parsed for GLSL output.
type Ast = spirvcross.Ast[CompilerOptions]

// Target is the GLSL dialect.
type Target struct{}

var _ spirvcross.Dialect[CompilerOptions] = Target{}

// Parse parses m for GLSL output.
func Parse(m *spirv.Module) (*Ast, error) {
	return spirvcross.Parse[CompilerOptions](m, Target{})
}

// Name implements spirvcross.Dialect.
func (Target) Name() string {
	return "glsl"
}

// Reserved implements spirvcross.Dialect.
func (Target) Reserved(name string) bool {
	return isKeyword(name)
}

// Escape implements spirvcross.Dialect.
func (Target) Escape(name string) string {
	return escapeIdentifier(name)
}

// DefaultOptions implements spirvcross.Dialect.
func (Target) DefaultOptions() CompilerOptions {
	return DefaultOptions()
}

// Prepare renames every debug name that is not a legal GLSL identifier or
// that collides with an earlier one. Ids are visited in ascending order so
// the result does not depend on map iteration.
func (t Target) Prepare(m *ir.Module) {
	entry := make(map[ir.ID]bool, len(m.EntryPoints))
	for _, ep := range m.EntryPoints {
		entry[ep.Function] = true
	}
	for _, id := range m.Named() {
		if entry[id] || m.IsBuiltInBlock(id) {
			continue
		}
		if _, ok := m.BuiltIn(id); ok {
			continue
		}
		// A failure leaves the parsed name, which the parser already
		// reduced to an identifier.
		_, _ = m.SetName(id, t.Escape(m.Name(id)), t.Reserved)
	}
	for _, id := range m.Types {
		st, ok := m.Inner(id).(ir.StructType)
		if !ok || m.IsBuiltInBlock(id) {
			continue
		}
		for i := range st.Members {
			name := m.MemberName(id, i)
			if name == "" {
				continue
			}
			_, _ = m.SetMemberName(id, uint32(i), t.Escape(name), t.Reserved) //nolint:gosec // member counts fit in uint32
		}
	}
}

// Generate implements spirvcross.Dialect.
func (Target) Generate(m *ir.Module, o CompilerOptions, req spirvcross.Request) (string, error) {
	w := newWriter(m, &o, req)
	if err := w.writeModule(); err != nil {
		return "", err
	}
	return w.String(), nil
}

// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package spirvcross decompiles SPIR-V binaries into shading language
// source.
//
// A module is parsed once into an Ast bound to a target dialect. The Ast
// can then be inspected (resources, names, entry points), rewritten by
// passes (renaming, buffer flattening, header lines) and compiled as often
// as needed:
//
//	module, err := spirv.FromBytes(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ast, err := glsl.Parse(module)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	opts := glsl.DefaultOptions()
//	opts.Version = glsl.Version330
//	if err := ast.SetCompilerOptions(opts); err != nil {
//	    log.Fatal(err)
//	}
//	source, err := ast.Compile()
//
// An Ast is not safe for concurrent use. Parse the same spirv.Module into
// several Asts to compile in parallel; see glsl.CompileVersions.
package spirvcross

import (
	"fmt"

	"github.com/gogpu/spirvcross/diag"
	"github.com/gogpu/spirvcross/ir"
	"github.com/gogpu/spirvcross/parser"
	"github.com/gogpu/spirvcross/reflection"
	"github.com/gogpu/spirvcross/spirv"
	"github.com/gogpu/spirvcross/transform"
)

// Ast is a parsed module under edit, bound to dialect options O.
type Ast[O any] struct {
	module  *ir.Module
	dialect Dialect[O]
	options O

	headerLines []string
	entryPoint  int
}

// Parse builds an Ast for dialect d from m. The module is read, never
// modified, and may be shared by several Asts.
func Parse[O any](m *spirv.Module, d Dialect[O]) (*Ast[O], error) {
	module, err := parser.Parse(m)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.Name(), err)
	}
	d.Prepare(module)
	return &Ast[O]{
		module:  module,
		dialect: d,
		options: d.DefaultOptions(),
	}, nil
}

// Module exposes the underlying IR for inspection.
func (a *Ast[O]) Module() *ir.Module {
	return a.module
}

// SetCompilerOptions validates o against the module and makes it the
// options of later Compile calls. Invalid options leave the previous ones
// in place.
func (a *Ast[O]) SetCompilerOptions(o O) error {
	if err := a.dialect.ValidateOptions(a.module, o); err != nil {
		return err
	}
	a.options = o
	return nil
}

// CompilerOptions returns the active options.
func (a *Ast[O]) CompilerOptions() O {
	return a.options
}

// Compile generates source for the selected entry point. Compiling twice
// without changes in between returns identical text. On error nothing is
// returned.
func (a *Ast[O]) Compile() (string, error) {
	transform.BuildCombinedImageSamplers(a.module)
	if err := a.dialect.ValidateOptions(a.module, a.options); err != nil {
		return "", err
	}
	req := Request{
		EntryPoint:  &a.module.EntryPoints[a.entryPoint],
		HeaderLines: a.headerLines,
	}
	out, err := a.dialect.Generate(a.module, a.options, req)
	if err != nil {
		return "", err
	}
	return out, nil
}

// GetShaderResources classifies the global variables of the module. The
// result is a snapshot; call again after a pass to see its effect.
func (a *Ast[O]) GetShaderResources() (reflection.ShaderResources, error) {
	return reflection.Resources(a.module), nil
}

// GetCombinedImageSamplers returns the combined sampler variables that
// replace image/sampler pairs, creating them on first use.
func (a *Ast[O]) GetCombinedImageSamplers() ([]ir.CombinedImageSampler, error) {
	return transform.BuildCombinedImageSamplers(a.module), nil
}

// GetName returns the identifier emitted for id.
func (a *Ast[O]) GetName(id ir.ID) (string, error) {
	if !a.module.Live(id) {
		return "", diag.Errorf(diag.InvalidResource, "id %d does not name an entity", id)
	}
	if name := a.module.Name(id); name != "" {
		return name, nil
	}
	return ir.DefaultName(id), nil
}

// SetName renames id. Reserved words and names already in use are
// disambiguated with a numeric suffix.
func (a *Ast[O]) SetName(id ir.ID, name string) error {
	if err := ir.ValidateIdentifier(name); err != nil {
		return err
	}
	_, err := a.module.SetName(id, a.dialect.Escape(name), a.dialect.Reserved)
	return err
}

// GetMemberName returns the identifier emitted for member index of struct
// type id.
func (a *Ast[O]) GetMemberName(id ir.ID, index uint32) (string, error) {
	st, ok := a.module.Inner(id).(ir.StructType)
	if !ok {
		return "", diag.Errorf(diag.InvalidResource, "id %d is not a struct type", id)
	}
	if int(index) >= len(st.Members) {
		return "", diag.Errorf(diag.IndexOutOfRange, "member index %d out of range for struct %d with %d members",
			index, id, len(st.Members))
	}
	if name := a.module.MemberName(id, int(index)); name != "" {
		return name, nil
	}
	return ir.DefaultMemberName(int(index)), nil
}

// SetMemberName renames member index of struct type id.
func (a *Ast[O]) SetMemberName(id ir.ID, index uint32, name string) error {
	if err := ir.ValidateIdentifier(name); err != nil {
		return err
	}
	_, err := a.module.SetMemberName(id, index, a.dialect.Escape(name), a.dialect.Reserved)
	return err
}

// GetDecoration returns the first operand of decoration dec on id, or 0
// when id does not carry it.
func (a *Ast[O]) GetDecoration(id ir.ID, dec spirv.Decoration) (uint32, error) {
	if !a.module.Live(id) {
		return 0, diag.Errorf(diag.InvalidResource, "id %d does not name an entity", id)
	}
	v, _ := a.module.Decoration(id, dec)
	return v, nil
}

// RenameInterfaceVariable renames the stage input or output at index of
// resources, a list taken from GetShaderResources.
func (a *Ast[O]) RenameInterfaceVariable(resources []reflection.Resource, index int, name string) error {
	return transform.RenameInterfaceVariable(a.module, resources, index, a.dialect.Escape(name), a.dialect.Reserved)
}

// FlattenBufferBlock emits uniform buffer id as a plain vec4 array and
// rewrites its accesses into indexed reads.
func (a *Ast[O]) FlattenBufferBlock(id ir.ID) error {
	return transform.FlattenBufferBlock(a.module, id)
}

// AddHeaderLine appends a line written verbatim right after the version
// directive. The text is not checked.
func (a *Ast[O]) AddHeaderLine(text string) error {
	a.headerLines = append(a.headerLines, text)
	return nil
}

// EntryPoint describes one entry point of the module.
type EntryPoint struct {
	Name  string
	Model spirv.ExecutionModel
	// WorkGroupSize is the LocalSize of compute entry points.
	WorkGroupSize [3]uint32
}

// EntryPoints lists the entry points of the module in declaration order.
func (a *Ast[O]) EntryPoints() []EntryPoint {
	out := make([]EntryPoint, 0, len(a.module.EntryPoints))
	for i := range a.module.EntryPoints {
		ep := &a.module.EntryPoints[i]
		info := EntryPoint{Name: ep.Name, Model: ep.Model}
		if args, ok := ep.Mode(spirv.ExecutionModeLocalSize); ok {
			copy(info.WorkGroupSize[:], args)
		}
		out = append(out, info)
	}
	return out
}

// SetEntryPoint selects the entry point Compile emits. The first entry
// point is selected after Parse.
func (a *Ast[O]) SetEntryPoint(name string, model spirv.ExecutionModel) error {
	for i, ep := range a.module.EntryPoints {
		if ep.Name == name && ep.Model == model {
			a.entryPoint = i
			return nil
		}
	}
	return diag.Errorf(diag.InvalidResource, "no %s entry point named %q", model, name)
}

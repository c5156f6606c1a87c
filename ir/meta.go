// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ir

import (
	"github.com/gogpu/spirvcross/diag"
	"github.com/gogpu/spirvcross/spirv"
)

// Decorations maps a decoration to its literal arguments.
type Decorations map[spirv.Decoration][]uint32

// Meta holds the debug name and decorations of one id.
type Meta struct {
	Name        string
	Decorations Decorations
	Members     []MemberMeta
}

// MemberMeta holds the name and decorations of one struct member.
type MemberMeta struct {
	Name        string
	Decorations Decorations
}

// Meta returns the metadata of id, creating it on first use.
func (m *Module) Meta(id ID) *Meta {
	meta, ok := m.meta[id]
	if !ok {
		meta = &Meta{Decorations: make(Decorations)}
		m.meta[id] = meta
	}
	return meta
}

// member returns the metadata of member index of id, growing the member
// list as needed. Callers check index with checkMember first.
func (meta *Meta) member(index uint32) *MemberMeta {
	for uint32(len(meta.Members)) <= index { //nolint:gosec // member counts fit in uint32
		meta.Members = append(meta.Members, MemberMeta{Decorations: make(Decorations)})
	}
	return &meta.Members[index]
}

// checkMember reports whether index names a member of struct type id.
func (m *Module) checkMember(id ID, index uint32) (StructType, error) {
	st, ok := m.Inner(id).(StructType)
	if !ok {
		return st, diag.Errorf(diag.InvalidResource, "id %d is not a struct type", id)
	}
	if int(index) >= len(st.Members) {
		return st, diag.Errorf(diag.IndexOutOfRange, "member index %d out of range for struct %d with %d members",
			index, id, len(st.Members))
	}
	return st, nil
}

// Decorate records a decoration on id.
func (m *Module) Decorate(id ID, dec spirv.Decoration, args ...uint32) {
	m.Meta(id).Decorations[dec] = args
}

// DecorateMember records a decoration on member index of struct id.
func (m *Module) DecorateMember(id ID, index uint32, dec spirv.Decoration, args ...uint32) error {
	if _, err := m.checkMember(id, index); err != nil {
		return err
	}
	m.Meta(id).member(index).Decorations[dec] = args
	return nil
}

// NameMember records the debug name of member index of struct id as it
// is, without resolving collisions.
func (m *Module) NameMember(id ID, index uint32, name string) error {
	if _, err := m.checkMember(id, index); err != nil {
		return err
	}
	m.Meta(id).member(index).Name = name
	return nil
}

// HasDecoration reports whether id carries dec.
func (m *Module) HasDecoration(id ID, dec spirv.Decoration) bool {
	meta, ok := m.meta[id]
	if !ok {
		return false
	}
	_, ok = meta.Decorations[dec]
	return ok
}

// Decoration returns the first argument of dec on id.
func (m *Module) Decoration(id ID, dec spirv.Decoration) (uint32, bool) {
	meta, ok := m.meta[id]
	if !ok {
		return 0, false
	}
	args, ok := meta.Decorations[dec]
	if !ok || len(args) == 0 {
		return 0, false
	}
	return args[0], true
}

// HasMemberDecoration reports whether member index of id carries dec.
func (m *Module) HasMemberDecoration(id ID, index uint32, dec spirv.Decoration) bool {
	meta, ok := m.meta[id]
	if !ok || int(index) >= len(meta.Members) {
		return false
	}
	_, ok = meta.Members[index].Decorations[dec]
	return ok
}

// MemberDecoration returns the first argument of dec on member index of id.
func (m *Module) MemberDecoration(id ID, index uint32, dec spirv.Decoration) (uint32, bool) {
	meta, ok := m.meta[id]
	if !ok || int(index) >= len(meta.Members) {
		return 0, false
	}
	args, ok := meta.Members[index].Decorations[dec]
	if !ok || len(args) == 0 {
		return 0, false
	}
	return args[0], true
}

// BuiltIn returns the builtin decoration of id.
func (m *Module) BuiltIn(id ID) (spirv.BuiltIn, bool) {
	v, ok := m.Decoration(id, spirv.DecorationBuiltIn)
	return spirv.BuiltIn(v), ok
}

// MemberBuiltIn returns the builtin decoration of member index of id.
func (m *Module) MemberBuiltIn(id ID, index uint32) (spirv.BuiltIn, bool) {
	v, ok := m.MemberDecoration(id, index, spirv.DecorationBuiltIn)
	return spirv.BuiltIn(v), ok
}

// IsBlock reports whether struct type id is a Block or BufferBlock.
func (m *Module) IsBlock(id ID) bool {
	return m.HasDecoration(id, spirv.DecorationBlock) || m.HasDecoration(id, spirv.DecorationBufferBlock)
}

// IsBuiltInBlock reports whether every member of struct id is a builtin,
// as in gl_PerVertex.
func (m *Module) IsBuiltInBlock(id ID) bool {
	st, ok := m.Inner(id).(StructType)
	if !ok || len(st.Members) == 0 {
		return false
	}
	for i := range st.Members {
		if _, ok := m.MemberBuiltIn(id, uint32(i)); !ok { //nolint:gosec // member counts fit in uint32
			return false
		}
	}
	return true
}

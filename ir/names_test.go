// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/spirvcross/diag"
	"github.com/gogpu/spirvcross/spirv"
)

func newTestModule() (*Module, ID, ID, ID) {
	m := NewModule(10)
	f32 := ID(1)
	m.Set(f32, &Type{ID: f32, Inner: ScalarType{Kind: ScalarFloat, Width: 4}})
	st := ID(2)
	m.Set(st, &Type{ID: st, Inner: StructType{Members: []StructMember{{Type: f32}, {Type: f32}}}})
	ptr := ID(3)
	m.Set(ptr, &Type{ID: ptr, Inner: PointerType{Storage: spirv.StorageClassPrivate, Base: f32}})
	v := ID(4)
	m.Set(v, &Variable{ID: v, Type: ptr, Storage: spirv.StorageClassPrivate})
	w := ID(5)
	m.Set(w, &Variable{ID: w, Type: ptr, Storage: spirv.StorageClassPrivate})
	return m, st, v, w
}

func isFloat(s string) bool { return s == "float" }

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"a", true},
		{"_a1", true},
		{"Camel_Case9", true},
		{"", false},
		{"1a", false},
		{"a-b", false},
		{"a b", false},
		{"é", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentifier(tt.name)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.True(t, diag.IsKind(err, diag.InvalidIdentifier), "got %v", err)
			}
		})
	}
}

func TestSetName(t *testing.T) {
	m, _, v, w := newTestModule()

	got, err := m.SetName(v, "color", isFloat)
	require.NoError(t, err)
	assert.Equal(t, "color", got)
	assert.Equal(t, "color", m.Name(v))

	// Renaming to the same name is not a collision with itself.
	got, err = m.SetName(v, "color", isFloat)
	require.NoError(t, err)
	assert.Equal(t, "color", got)

	got, err = m.SetName(w, "color", isFloat)
	require.NoError(t, err)
	assert.Equal(t, "color_1", got)

	got, err = m.SetName(w, "float", isFloat)
	require.NoError(t, err)
	assert.Equal(t, "float_1", got)
}

func TestSetNameDefaultCollision(t *testing.T) {
	m, _, v, w := newTestModule()

	// _5 is the implicit name of w while it is unnamed.
	got, err := m.SetName(v, DefaultName(w), nil)
	require.NoError(t, err)
	assert.Equal(t, "_5_1", got)

	// _9 is not a live entity.
	got, err = m.SetName(v, "_9", nil)
	require.NoError(t, err)
	assert.Equal(t, "_9", got)
}

func TestSetNameErrors(t *testing.T) {
	m, _, v, _ := newTestModule()

	_, err := m.SetName(v, "2d", nil)
	assert.True(t, diag.IsKind(err, diag.InvalidIdentifier))
	assert.Empty(t, m.Name(v), "failed rename must not change the name")

	_, err = m.SetName(7, "ok", nil)
	assert.True(t, diag.IsKind(err, diag.InvalidResource))

	_, err = m.SetName(1000, "ok", nil)
	assert.True(t, diag.IsKind(err, diag.InvalidResource))
}

func TestSetMemberName(t *testing.T) {
	m, st, v, _ := newTestModule()

	got, err := m.SetMemberName(st, 0, "x", nil)
	require.NoError(t, err)
	assert.Equal(t, "x", got)
	assert.Equal(t, "x", m.MemberName(st, 0))

	got, err = m.SetMemberName(st, 1, "x", nil)
	require.NoError(t, err)
	assert.Equal(t, "x_1", got)

	got, err = m.SetMemberName(st, 1, DefaultMemberName(0), nil)
	require.NoError(t, err)
	assert.Equal(t, "_m0", got, "member 0 is named, so _m0 is free")

	_, err = m.SetMemberName(st, 2, "y", nil)
	assert.True(t, diag.IsKind(err, diag.IndexOutOfRange))

	_, err = m.SetMemberName(v, 0, "y", nil)
	assert.True(t, diag.IsKind(err, diag.InvalidResource))
}

func TestAlloc(t *testing.T) {
	m := NewModule(4)
	assert.Equal(t, uint32(4), m.Bound())
	a := m.Alloc()
	b := m.Alloc()
	assert.Equal(t, ID(4), a)
	assert.Equal(t, ID(5), b)
	assert.Equal(t, uint32(6), m.Bound())
	assert.False(t, m.Live(a))

	ty := m.AddType(SamplerType{})
	assert.Equal(t, ID(6), ty)
	assert.True(t, m.Live(ty))
	assert.Equal(t, []ID{ty}, m.Types)
}

func TestSetNameTrailingUnderscore(t *testing.T) {
	m, _, v, w := newTestModule()
	_, err := m.SetName(v, "a_", nil)
	require.NoError(t, err)

	got, err := m.SetName(w, "a_", nil)
	require.NoError(t, err)
	assert.Equal(t, "a_1", got)
	assert.NotContains(t, got, "__")
}

func TestFreshName(t *testing.T) {
	m, _, v, _ := newTestModule()
	_, err := m.SetName(v, "x_copy", nil)
	require.NoError(t, err)

	assert.Equal(t, "y_copy", m.FreshName("y_copy", nil))
	assert.Equal(t, "x_copy_1", m.FreshName("x_copy", nil))
	assert.Equal(t, "_5_1", m.FreshName("_5", nil), "default name of a live entity")
	assert.Equal(t, "float_1", m.FreshName("float", isFloat))
}

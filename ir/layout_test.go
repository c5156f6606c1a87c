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

type layoutBuilder struct {
	m *Module
}

func (b layoutBuilder) add(inner TypeInner) ID {
	return b.m.AddType(inner)
}

func TestDecoratedOffsets(t *testing.T) {
	b := layoutBuilder{NewModule(1)}
	f32 := b.add(ScalarType{Kind: ScalarFloat, Width: 4})
	st := b.add(StructType{Members: []StructMember{{Type: f32}, {Type: f32}, {Type: f32}}})
	require.NoError(t, b.m.DecorateMember(st, 0, spirv.DecorationOffset, 24))
	require.NoError(t, b.m.DecorateMember(st, 1, spirv.DecorationOffset, 64))
	require.NoError(t, b.m.DecorateMember(st, 2, spirv.DecorationOffset, 100))

	assert.Equal(t, uint32(24), b.m.MemberOffset(st, 0))
	assert.Equal(t, uint32(64), b.m.MemberOffset(st, 1))
	assert.Equal(t, uint32(100), b.m.MemberOffset(st, 2))
	assert.Equal(t, uint32(104), b.m.DeclaredSize(st))
	assert.Equal(t, uint32(7), b.m.Vec4Count(st))
}

func TestStd140Fallback(t *testing.T) {
	b := layoutBuilder{NewModule(1)}
	f32 := b.add(ScalarType{Kind: ScalarFloat, Width: 4})
	vec2 := b.add(VectorType{Size: 2, Scalar: ScalarType{Kind: ScalarFloat, Width: 4}})
	vec3 := b.add(VectorType{Size: 3, Scalar: ScalarType{Kind: ScalarFloat, Width: 4}})
	vec4 := b.add(VectorType{Size: 4, Scalar: ScalarType{Kind: ScalarFloat, Width: 4}})
	mat4 := b.add(MatrixType{Columns: 4, Rows: 4, Scalar: ScalarType{Kind: ScalarFloat, Width: 4}})
	arr := b.add(ArrayType{Base: f32, Length: 3})

	tests := []struct {
		name    string
		members []ID
		offsets []uint32
		size    uint32
	}{
		{"vec3 then float packs", []ID{vec3, f32}, []uint32{0, 12}, 16},
		{"float then vec4 aligns", []ID{f32, vec4}, []uint32{0, 16}, 32},
		{"float then vec2", []ID{f32, vec2}, []uint32{0, 8}, 16},
		{"mat4 then vec2", []ID{mat4, vec2}, []uint32{0, 64}, 72},
		{"float array strides 16", []ID{arr, f32}, []uint32{0, 48}, 52},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			members := make([]StructMember, len(tt.members))
			for i, id := range tt.members {
				members[i] = StructMember{Type: id}
			}
			st := b.add(StructType{Members: members})
			for i, want := range tt.offsets {
				assert.Equal(t, want, b.m.MemberOffset(st, i), "member %d", i)
			}
			assert.Equal(t, tt.size, b.m.DeclaredSize(st))
		})
	}
}

func TestMatrixLayout(t *testing.T) {
	b := layoutBuilder{NewModule(1)}
	mat3 := b.add(MatrixType{Columns: 3, Rows: 3, Scalar: ScalarType{Kind: ScalarFloat, Width: 4}})
	st := b.add(StructType{Members: []StructMember{{Type: mat3}, {Type: mat3}}})
	require.NoError(t, b.m.DecorateMember(st, 0, spirv.DecorationOffset, 0))
	require.NoError(t, b.m.DecorateMember(st, 0, spirv.DecorationColMajor))
	require.NoError(t, b.m.DecorateMember(st, 0, spirv.DecorationMatrixStride, 16))
	require.NoError(t, b.m.DecorateMember(st, 1, spirv.DecorationOffset, 48))
	require.NoError(t, b.m.DecorateMember(st, 1, spirv.DecorationRowMajor))
	require.NoError(t, b.m.DecorateMember(st, 1, spirv.DecorationMatrixStride, 16))

	stride, rowMajor := b.m.MatrixLayout(st, 1)
	assert.Equal(t, uint32(16), stride)
	assert.True(t, rowMajor)
	_, rowMajor = b.m.MatrixLayout(st, 0)
	assert.False(t, rowMajor)
	assert.Equal(t, uint32(96), b.m.DeclaredSize(st))
}

func TestArrayStrideDecoration(t *testing.T) {
	b := layoutBuilder{NewModule(1)}
	f32 := b.add(ScalarType{Kind: ScalarFloat, Width: 4})
	arr := b.add(ArrayType{Base: f32, Length: 4})
	assert.Equal(t, uint32(16), b.m.ArrayStride(arr))
	b.m.Decorate(arr, spirv.DecorationArrayStride, 4)
	assert.Equal(t, uint32(4), b.m.ArrayStride(arr))
	assert.Equal(t, uint32(16), b.m.DeclaredSize(arr))
}

func TestDecorateMemberRange(t *testing.T) {
	b := layoutBuilder{NewModule(1)}
	f32 := b.add(ScalarType{Kind: ScalarFloat, Width: 4})
	st := b.add(StructType{Members: []StructMember{{Type: f32}}})

	err := b.m.DecorateMember(st, 20000000, spirv.DecorationOffset, 0)
	require.Error(t, err)
	assert.True(t, diag.IsKind(err, diag.IndexOutOfRange))
	assert.Empty(t, b.m.Meta(st).Members)

	err = b.m.NameMember(f32, 0, "x")
	assert.True(t, diag.IsKind(err, diag.InvalidResource))

	require.NoError(t, b.m.NameMember(st, 0, "x"))
	assert.Equal(t, "x", b.m.MemberName(st, 0))
}

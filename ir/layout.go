// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ir

import (
	"fortio.org/safecast"

	"github.com/gogpu/spirvcross/spirv"
)

// Block layout. Offset, ArrayStride and MatrixStride decorations are
// authoritative; std140 rules fill in whatever the module leaves out.

const vec4Bytes = 16

func roundUp(v, align uint32) uint32 {
	if align == 0 {
		return v
	}
	return (v + align - 1) / align * align
}

// MemberOffset returns the byte offset of member index of struct id.
func (m *Module) MemberOffset(id ID, index int) uint32 {
	st, ok := m.Inner(id).(StructType)
	if !ok || index < 0 || index >= len(st.Members) {
		return 0
	}
	var end uint32
	for i := 0; i <= index; i++ {
		idx, err := safecast.Conv[uint32](i)
		if err != nil {
			return 0
		}
		off, decorated := m.MemberDecoration(id, idx, spirv.DecorationOffset)
		if !decorated {
			align, _ := m.std140(st.Members[i].Type)
			off = roundUp(end, align)
		}
		if i == index {
			return off
		}
		end = off + m.MemberSize(id, i)
	}
	return 0
}

// MatrixLayout returns the matrix stride and majorness of member index of
// struct id. Column-major with a 16-byte stride is the default.
func (m *Module) MatrixLayout(id ID, index int) (stride uint32, rowMajor bool) {
	idx, err := safecast.Conv[uint32](index)
	if err != nil {
		return vec4Bytes, false
	}
	rowMajor = m.HasMemberDecoration(id, idx, spirv.DecorationRowMajor)
	if s, ok := m.MemberDecoration(id, idx, spirv.DecorationMatrixStride); ok {
		return s, rowMajor
	}
	return vec4Bytes, rowMajor
}

// ArrayStride returns the element stride of array type id.
func (m *Module) ArrayStride(id ID) uint32 {
	if s, ok := m.Decoration(id, spirv.DecorationArrayStride); ok {
		return s
	}
	arr, ok := m.Inner(id).(ArrayType)
	if !ok {
		return 0
	}
	align, size := m.std140(arr.Base)
	return roundUp(size, roundUp(align, vec4Bytes))
}

// MemberSize returns the number of bytes member index of struct id
// occupies, honoring its matrix layout.
func (m *Module) MemberSize(id ID, index int) uint32 {
	st, ok := m.Inner(id).(StructType)
	if !ok || index < 0 || index >= len(st.Members) {
		return 0
	}
	mt := st.Members[index].Type
	switch t := m.Inner(mt).(type) {
	case MatrixType:
		stride, rowMajor := m.MatrixLayout(id, index)
		if rowMajor {
			return uint32(t.Rows) * stride
		}
		return uint32(t.Columns) * stride
	case ArrayType:
		if t.Runtime {
			return 0
		}
		return t.Length * m.ArrayStride(mt)
	}
	return m.DeclaredSize(mt)
}

// DeclaredSize returns the size in bytes of type id inside a block.
// Structs end after their last member.
func (m *Module) DeclaredSize(id ID) uint32 {
	switch t := m.Inner(id).(type) {
	case ScalarType:
		return uint32(t.Width)
	case VectorType:
		return uint32(t.Size) * uint32(t.Scalar.Width)
	case MatrixType:
		return uint32(t.Columns) * vec4Bytes
	case ArrayType:
		if t.Runtime {
			return 0
		}
		return t.Length * m.ArrayStride(id)
	case StructType:
		var size uint32
		for i := range t.Members {
			if end := m.MemberOffset(id, i) + m.MemberSize(id, i); end > size {
				size = end
			}
		}
		return size
	}
	return 0
}

// std140 returns the base alignment and size of type id under std140.
func (m *Module) std140(id ID) (align, size uint32) {
	switch t := m.Inner(id).(type) {
	case ScalarType:
		w := uint32(t.Width)
		return w, w
	case VectorType:
		w := uint32(t.Scalar.Width)
		n := uint32(t.Size)
		if n == 3 {
			return 4 * w, 3 * w
		}
		return n * w, n * w
	case MatrixType:
		colAlign := roundUp(uint32(t.Rows)*uint32(t.Scalar.Width), vec4Bytes)
		return colAlign, uint32(t.Columns) * colAlign
	case ArrayType:
		a, s := m.std140(t.Base)
		a = roundUp(a, vec4Bytes)
		stride := roundUp(s, a)
		if t.Runtime {
			return a, 0
		}
		return a, t.Length * stride
	case StructType:
		var end, maxAlign uint32
		for i, mem := range t.Members {
			a, _ := m.std140(mem.Type)
			if a > maxAlign {
				maxAlign = a
			}
			end = m.MemberOffset(id, i) + m.MemberSize(id, i)
		}
		maxAlign = roundUp(maxAlign, vec4Bytes)
		return maxAlign, roundUp(end, maxAlign)
	}
	return 0, 0
}

// Vec4Count returns how many vec4 slots a flattened block of type id needs.
func (m *Module) Vec4Count(id ID) uint32 {
	return (m.DeclaredSize(id) + vec4Bytes - 1) / vec4Bytes
}

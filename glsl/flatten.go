// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"strconv"
	"strings"

	"github.com/gogpu/spirvcross/diag"
	"github.com/gogpu/spirvcross/ir"
)

// flatSlot is the byte size of one element of a flattened buffer.
const flatSlot = 16

// writeFlattenedBuffer declares a flattened uniform block as an array of
// four-component vectors named after the block type.
func (w *Writer) writeFlattenedBuffer(v *ir.Variable) {
	block := w.module.Pointee(v.Type)
	kind := w.flatKind(block)
	vec := vectorToGLSL(ir.VectorType{Size: 4, Scalar: ir.ScalarType{Kind: kind, Width: 4}})
	w.writeLine("uniform %s%s %s[%d];", w.scalarPrecision(kind, false), vec, w.name(block), w.module.Vec4Count(block))
}

// flatKind returns the component kind of the flattened array for block:
// the kind every member shares, or float when they differ. Booleans are
// stored as unsigned integers.
func (w *Writer) flatKind(block ir.ID) ir.ScalarKind {
	kinds := make(map[ir.ScalarKind]bool)
	var visit func(id ir.ID)
	visit = func(id ir.ID) {
		switch t := w.module.Inner(id).(type) {
		case ir.ArrayType:
			visit(t.Base)
		case ir.StructType:
			for _, m := range t.Members {
				visit(m.Type)
			}
		default:
			if s, ok := w.module.ScalarOf(id); ok {
				k := s.Kind
				if k == ir.ScalarBool {
					k = ir.ScalarUint
				}
				kinds[k] = true
			}
		}
	}
	visit(block)
	if len(kinds) == 1 {
		for k := range kinds {
			return k
		}
	}
	return ir.ScalarFloat
}

// flatRead addresses the elements of one flattened buffer.
type flatRead struct {
	base string
	// dyn is the sum of runtime index terms, in vec4 units.
	dyn  string
	kind ir.ScalarKind
}

// slot returns the element holding byte offset o.
func (f flatRead) slot(o uint32) string {
	idx := o / flatSlot
	switch {
	case f.dyn == "":
		return f.base + "[" + strconv.FormatUint(uint64(idx), 10) + "]"
	case idx == 0:
		return f.base + "[" + f.dyn + "]"
	}
	return f.base + "[" + strconv.FormatUint(uint64(idx), 10) + " + " + f.dyn + "]"
}

// components reads n consecutive components starting at byte o.
func (f flatRead) components(o uint32, n int, want ir.ScalarKind) string {
	c := int(o % flatSlot / 4)
	s := f.slot(o)
	if c != 0 || n != 4 {
		s += "." + swizzle[c:c+n]
	}
	return f.convert(s, n, want)
}

// convert reinterprets n components read from the buffer as want.
func (f flatRead) convert(s string, n int, want ir.ScalarKind) string {
	if want == f.kind {
		return s
	}
	switch {
	case f.kind == ir.ScalarFloat && want == ir.ScalarSint:
		return "floatBitsToInt(" + s + ")"
	case f.kind == ir.ScalarFloat && want == ir.ScalarUint:
		return "floatBitsToUint(" + s + ")"
	case want == ir.ScalarBool && f.kind == ir.ScalarFloat:
		s = "floatBitsToUint(" + s + ")"
	}
	return shapeName(want, n) + "(" + s + ")"
}

func shapeName(kind ir.ScalarKind, n int) string {
	scalar := ir.ScalarType{Kind: kind, Width: 4}
	if n == 1 {
		return scalarToGLSL(scalar)
	}
	return vectorToGLSL(ir.VectorType{Size: uint8(n), Scalar: scalar}) //nolint:gosec // at most 4
}

// flatLoad renders a load out of a flattened buffer.
func (w *Writer) flatLoad(e *ir.Expression, k ir.ExprFlatLoad) (string, error) {
	block := w.module.Pointee(w.module.Variable(k.Buffer).Type)
	f := flatRead{base: w.name(block), kind: w.flatKind(block)}
	terms := make([]string, 0, len(k.Dynamic))
	for _, d := range k.Dynamic {
		idx, err := w.expr(d.Index)
		if err != nil {
			return "", err
		}
		idx = w.castInt(idx, w.module.TypeOf(d.Index), ir.ScalarSint)
		if n := d.Stride / flatSlot; n != 1 {
			idx = enclose(idx) + " * " + strconv.FormatUint(uint64(n), 10)
		}
		terms = append(terms, idx)
	}
	f.dyn = strings.Join(terms, " + ")
	return w.flatValue(f, k.Offset, e.Type, k.RowMajor, k.MatrixStride)
}

// flatValue reads a value of type t at byte offset o. rowMajor and stride
// describe the matrix that t is or belongs to.
func (w *Writer) flatValue(f flatRead, o uint32, t ir.ID, rowMajor bool, stride uint32) (string, error) {
	switch tt := w.module.Inner(t).(type) {
	case ir.ScalarType:
		return f.components(o, 1, tt.Kind), nil
	case ir.VectorType:
		n := int(tt.Size)
		if rowMajor {
			parts := make([]string, n)
			for i := range parts {
				parts[i] = f.components(o+uint32(i)*stride, 1, tt.Scalar.Kind) //nolint:gosec // at most 4
			}
			return vectorToGLSL(tt) + "(" + strings.Join(parts, ", ") + ")", nil
		}
		if int(o%flatSlot/4)+n > 4 {
			return "", diag.Errorf(diag.InvalidResource, "vector at offset %d straddles a vec4 boundary", o)
		}
		return f.components(o, n, tt.Scalar.Kind), nil
	case ir.MatrixType:
		return f.matrix(o, tt, rowMajor, stride), nil
	case ir.ArrayType:
		elemStride := w.module.ArrayStride(t)
		parts := make([]string, tt.Length)
		for i := range parts {
			s, err := w.flatValue(f, o+uint32(i)*elemStride, tt.Base, rowMajor, stride) //nolint:gosec // array lengths fit in uint32
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return w.constructorName(t) + "(" + strings.Join(parts, ", ") + ")", nil
	case ir.StructType:
		parts := make([]string, len(tt.Members))
		for i, m := range tt.Members {
			ms, rm := w.module.MatrixLayout(t, i)
			if !w.containsMatrix(m.Type) {
				rm = false
			}
			s, err := w.flatValue(f, o+w.module.MemberOffset(t, i), m.Type, rm, ms)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return w.name(t) + "(" + strings.Join(parts, ", ") + ")", nil
	}
	return "", diag.Errorf(diag.InvalidResource, "type %d has no flat layout", t)
}

// matrix rebuilds a matrix column by column. Row-major matrices are read
// one component at a time.
func (f flatRead) matrix(o uint32, t ir.MatrixType, rowMajor bool, stride uint32) string {
	cols, rows := int(t.Columns), int(t.Rows)
	parts := make([]string, 0, cols*rows)
	for c := 0; c < cols; c++ {
		if !rowMajor {
			parts = append(parts, f.components(o+uint32(c)*stride, rows, t.Scalar.Kind)) //nolint:gosec // at most 4
			continue
		}
		for r := 0; r < rows; r++ {
			parts = append(parts, f.components(o+uint32(r)*stride+uint32(c)*4, 1, t.Scalar.Kind)) //nolint:gosec // at most 4
		}
	}
	return matrixToGLSL(t) + "(" + strings.Join(parts, ", ") + ")"
}

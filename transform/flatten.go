// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package transform

import (
	"github.com/gogpu/spirvcross/diag"
	"github.com/gogpu/spirvcross/ir"
	"github.com/gogpu/spirvcross/spirv"
)

// flatSlot is the size in bytes of one element of a flattened buffer.
const flatSlot = 16

// FlattenBufferBlock marks uniform block id to be emitted as a vec4 array
// and rewrites every load from it into an ir.ExprFlatLoad. Offsets follow
// the Offset, ArrayStride and MatrixStride decorations of the block, with
// std140 rules for anything undecorated.
//
// Flattening the same buffer twice is a no-op.
func FlattenBufferBlock(m *ir.Module, id ir.ID) error {
	v := m.Variable(id)
	if v == nil || v.Function != 0 || v.Storage != spirv.StorageClassUniform {
		return diag.Errorf(diag.InvalidResource, "id %d is not a uniform buffer", id)
	}
	block := m.Pointee(v.Type)
	if _, ok := m.Inner(block).(ir.StructType); !ok || !m.HasDecoration(block, spirv.DecorationBlock) {
		return diag.Errorf(diag.InvalidResource, "uniform %d is not a uniform block", id)
	}
	if m.Flattened[id] {
		return nil
	}
	if err := checkFlatType(m, block); err != nil {
		return diag.Errorf(diag.InvalidResource, "uniform block %d cannot be flattened: %s", id, err.Message)
	}

	type rewrite struct {
		expr *ir.Expression
		load ir.ExprFlatLoad
	}
	var rewrites []rewrite
	var failure error

	check := func(pointer ir.ID, what string) {
		if failure == nil && m.ChainRoot(pointer) == id {
			failure = diag.Errorf(diag.InvalidResource, "uniform block %d cannot be flattened: %s", id, what)
		}
	}

	for _, fid := range m.Functions {
		f := m.Function(fid)
		if f == nil {
			continue
		}
		ir.WalkStatements(f.Body, func(s ir.Statement) {
			switch k := s.Kind.(type) {
			case ir.StmtEmit:
				e := m.Expression(k.Expr)
				if e == nil {
					return
				}
				switch ek := e.Kind.(type) {
				case ir.ExprLoad:
					if m.ChainRoot(ek.Pointer) != id {
						return
					}
					load, err := flatLoad(m, id, block, ek.Pointer)
					if err != nil {
						if failure == nil {
							failure = err
						}
						return
					}
					rewrites = append(rewrites, rewrite{expr: e, load: load})
				case ir.ExprAccessChain, ir.ExprCopy:
				default:
					for _, op := range ir.Operands(ek) {
						check(op, "a pointer into the block escapes a load")
					}
				}
			case ir.StmtStore:
				check(k.Pointer, "the block is written")
			case ir.StmtCopyMemory:
				check(k.Source, "the block is copied by pointer")
			case ir.StmtCall:
				for _, arg := range k.Args {
					check(arg, "a pointer into the block is passed to a function")
				}
			case ir.StmtAtomicStore:
				check(k.Pointer, "the block is written")
			}
		})
	}
	if failure != nil {
		return failure
	}

	for _, r := range rewrites {
		r.expr.Kind = r.load
	}
	m.Flattened[id] = true
	return nil
}

// checkFlatType rejects types that have no vec4 representation.
func checkFlatType(m *ir.Module, id ir.ID) *diag.Error {
	switch t := m.Inner(id).(type) {
	case ir.ScalarType:
		if t.Width != 4 {
			return diag.Errorf(diag.InvalidResource, "member type %d is not 32-bit", id)
		}
	case ir.VectorType:
		if t.Scalar.Width != 4 {
			return diag.Errorf(diag.InvalidResource, "member type %d is not 32-bit", id)
		}
	case ir.MatrixType:
		if t.Scalar.Width != 4 {
			return diag.Errorf(diag.InvalidResource, "member type %d is not 32-bit", id)
		}
	case ir.ArrayType:
		if t.Runtime {
			return diag.Errorf(diag.InvalidResource, "type %d is a runtime array", id)
		}
		return checkFlatType(m, t.Base)
	case ir.StructType:
		for _, mem := range t.Members {
			if err := checkFlatType(m, mem.Type); err != nil {
				return err
			}
		}
	default:
		return diag.Errorf(diag.InvalidResource, "type %d has no flat layout", id)
	}
	return nil
}

// chainIndices lists the indices applied to the root of pointer, outermost
// first.
func chainIndices(m *ir.Module, pointer ir.ID) []ir.ID {
	e := m.Expression(pointer)
	if e == nil {
		return nil
	}
	switch k := e.Kind.(type) {
	case ir.ExprAccessChain:
		return append(chainIndices(m, k.Base), k.Indices...)
	case ir.ExprCopy:
		return chainIndices(m, k.Value)
	}
	return nil
}

// flatLoad computes the byte offset of the value pointer refers to.
//
//nolint:gocyclo,cyclop // one case per aggregate kind
func flatLoad(m *ir.Module, buffer, block, pointer ir.ID) (ir.ExprFlatLoad, error) {
	load := ir.ExprFlatLoad{Buffer: buffer, MatrixStride: flatSlot}
	cur := block
	inner := m.Inner(block)
	inMatrix := false

	for _, idx := range chainIndices(m, pointer) {
		c, constant := constIndex(m, idx)
		switch t := inner.(type) {
		case ir.StructType:
			if !constant || int(c) >= len(t.Members) {
				return load, diag.Errorf(diag.InvalidResource, "block %d: bad member index %d", block, idx)
			}
			load.Offset += m.MemberOffset(cur, int(c))
			load.MatrixStride, load.RowMajor = m.MatrixLayout(cur, int(c))
			cur = t.Members[c].Type
			inner = m.Inner(cur)
		case ir.ArrayType:
			stride := m.ArrayStride(cur)
			if constant {
				load.Offset += c * stride
			} else {
				if stride%flatSlot != 0 {
					return load, diag.Errorf(diag.InvalidResource,
						"block %d: dynamic index with stride %d is not vec4 aligned", block, stride)
				}
				load.Dynamic = append(load.Dynamic, ir.FlatIndex{Index: idx, Stride: stride})
			}
			cur = t.Base
			inner = m.Inner(cur)
		case ir.MatrixType:
			stride := load.MatrixStride
			if load.RowMajor {
				stride = uint32(t.Scalar.Width)
			}
			if constant {
				load.Offset += c * stride
			} else {
				if stride%flatSlot != 0 {
					return load, diag.Errorf(diag.InvalidResource,
						"block %d: dynamic column index with stride %d is not vec4 aligned", block, stride)
				}
				load.Dynamic = append(load.Dynamic, ir.FlatIndex{Index: idx, Stride: stride})
			}
			inMatrix = true
			cur = 0
			inner = ir.VectorType{Size: t.Rows, Scalar: t.Scalar}
		case ir.VectorType:
			if !constant {
				return load, diag.Errorf(diag.InvalidResource, "block %d: dynamic vector component index", block)
			}
			stride := uint32(t.Scalar.Width)
			if inMatrix && load.RowMajor {
				stride = load.MatrixStride
			}
			load.Offset += c * stride
			cur = 0
			inner = t.Scalar
		default:
			return load, diag.Errorf(diag.InvalidResource, "block %d: index into a scalar", block)
		}
	}
	if !inMatrix {
		if _, ok := inner.(ir.VectorType); ok {
			load.RowMajor = false
		}
	}
	return load, nil
}

// constIndex returns the value of an index that is a non-specialization
// integer constant.
func constIndex(m *ir.Module, id ir.ID) (uint32, bool) {
	c := m.Constant(id)
	if c == nil || c.Spec {
		return 0, false
	}
	sv, ok := c.Value.(ir.ScalarValue)
	if !ok {
		return 0, false
	}
	return uint32(sv.Bits), true //nolint:gosec // indices are 32-bit literals
}

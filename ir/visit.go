// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ir

// Operands returns the value ids an expression reads, in evaluation order.
//
//nolint:gocyclo,cyclop,funlen // one case per expression kind
func Operands(kind ExpressionKind) []ID {
	switch k := kind.(type) {
	case ExprLoad:
		return []ID{k.Pointer}
	case ExprAccessChain:
		return append([]ID{k.Base}, k.Indices...)
	case ExprCompositeConstruct:
		return k.Components
	case ExprSplat:
		return []ID{k.Value}
	case ExprCompositeExtract:
		return []ID{k.Composite}
	case ExprCompositeInsert:
		return []ID{k.Object, k.Composite}
	case ExprVectorShuffle:
		return []ID{k.A, k.B}
	case ExprVectorExtractDynamic:
		return []ID{k.Vector, k.Index}
	case ExprVectorInsertDynamic:
		return []ID{k.Vector, k.Component, k.Index}
	case ExprCopy:
		return []ID{k.Value}
	case ExprUnary:
		return []ID{k.Operand}
	case ExprBinary:
		return []ID{k.Left, k.Right}
	case ExprSelect:
		return []ID{k.Condition, k.Accept, k.Reject}
	case ExprConvert:
		return []ID{k.Operand}
	case ExprBitcast:
		return []ID{k.Operand}
	case ExprExtInst:
		return k.Args
	case ExprIntrinsic:
		return k.Args
	case ExprSampledImage:
		return []ID{k.Image, k.Sampler}
	case ExprImage:
		return []ID{k.SampledImage}
	case ExprImageSample:
		return nonZero(append([]ID{k.SampledImage, k.Coordinate, k.Dref}, k.Operands.ids()...))
	case ExprImageFetch:
		return nonZero(append([]ID{k.Image, k.Coordinate}, k.Operands.ids()...))
	case ExprImageGather:
		return nonZero(append([]ID{k.SampledImage, k.Coordinate, k.Component, k.Dref}, k.Operands.ids()...))
	case ExprImageRead:
		return nonZero([]ID{k.Image, k.Coordinate, k.Sample})
	case ExprImageQuery:
		return nonZero([]ID{k.Image, k.Lod, k.Coordinate})
	case ExprCall:
		return k.Args
	case ExprArrayLength:
		return []ID{k.Structure}
	case ExprAtomic:
		return nonZero([]ID{k.Pointer, k.Value, k.Comparator})
	case ExprFlatLoad:
		ids := make([]ID, 0, len(k.Dynamic))
		for _, d := range k.Dynamic {
			ids = append(ids, d.Index)
		}
		return ids
	}
	return nil
}

// StatementOperands returns the value ids a statement reads directly.
// Nested blocks are not included.
func StatementOperands(kind StatementKind) []ID {
	switch k := kind.(type) {
	case StmtStore:
		return []ID{k.Pointer, k.Value}
	case StmtCopyMemory:
		return []ID{k.Target, k.Source}
	case StmtImageWrite:
		return []ID{k.Image, k.Coordinate, k.Texel}
	case StmtCall:
		return k.Args
	case StmtAtomicStore:
		return []ID{k.Pointer, k.Value}
	case StmtReturn:
		return nonZero([]ID{k.Value})
	case StmtIf:
		return []ID{k.Condition}
	case StmtSwitch:
		return []ID{k.Selector}
	case StmtPhiStores:
		ids := make([]ID, 0, len(k.Copies))
		for _, c := range k.Copies {
			ids = append(ids, c.Value)
		}
		return ids
	}
	return nil
}

func (o ImageOperands) ids() []ID {
	return []ID{o.Bias, o.Lod, o.GradX, o.GradY, o.Offset, o.Sample, o.MinLod}
}

func nonZero(ids []ID) []ID {
	out := ids[:0]
	for _, id := range ids {
		if id != 0 {
			out = append(out, id)
		}
	}
	return out
}

// HasSideEffects reports whether evaluating an expression changes state.
// Such expressions are evaluated exactly once, where they are emitted.
func HasSideEffects(kind ExpressionKind) bool {
	switch kind.(type) {
	case ExprCall, ExprAtomic:
		return true
	}
	return false
}

// ReadsMemory reports whether an expression observes memory that a later
// store may change.
func ReadsMemory(kind ExpressionKind) bool {
	switch kind.(type) {
	case ExprLoad, ExprImageRead:
		return true
	}
	return false
}

// WalkStatements calls fn for every statement of block and of its nested
// blocks, outer statements first.
func WalkStatements(block Block, fn func(Statement)) {
	for _, s := range block {
		fn(s)
		switch k := s.Kind.(type) {
		case StmtIf:
			WalkStatements(k.Accept, fn)
			WalkStatements(k.Reject, fn)
		case StmtSwitch:
			for _, c := range k.Cases {
				WalkStatements(c.Body, fn)
			}
		case StmtLoop:
			WalkStatements(k.Body, fn)
			WalkStatements(k.Continuing, fn)
		}
	}
}

// Rewrite replaces the kind of every expression of f for which fn returns
// true. It is used by passes that lower accesses in place.
func (m *Module) Rewrite(f *Function, fn func(e *Expression) (ExpressionKind, bool)) {
	WalkStatements(f.Body, func(s Statement) {
		emit, ok := s.Kind.(StmtEmit)
		if !ok {
			return
		}
		e := m.Expression(emit.Expr)
		if e == nil {
			return
		}
		if kind, ok := fn(e); ok {
			e.Kind = kind
		}
	})
}

// GlobalOf returns the global variable a value was loaded from, looking
// through copies.
func (m *Module) GlobalOf(value ID) (ID, bool) {
	for {
		e := m.Expression(value)
		if e == nil {
			return 0, false
		}
		switch k := e.Kind.(type) {
		case ExprLoad:
			v := m.Variable(k.Pointer)
			if v == nil || v.Function != 0 {
				return 0, false
			}
			return v.ID, true
		case ExprCopy:
			value = k.Value
		default:
			return 0, false
		}
	}
}

// ChainRoot returns the variable an access chain or pointer value is
// rooted at.
func (m *Module) ChainRoot(pointer ID) ID {
	for {
		e := m.Expression(pointer)
		if e == nil {
			return pointer
		}
		switch k := e.Kind.(type) {
		case ExprAccessChain:
			pointer = k.Base
		case ExprCopy:
			pointer = k.Value
		default:
			return pointer
		}
	}
}

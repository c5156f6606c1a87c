// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"github.com/gogpu/spirvcross/ir"
	"github.com/gogpu/spirvcross/spirv"
)

// scope is one GLSL block: a function body, an if arm, a case or a loop
// body. Values declared in a scope are visible to its descendants only.
type scope struct {
	parent *scope
}

// within reports whether s is outer or nested inside it.
func (s *scope) within(outer *scope) bool {
	for c := s; c != nil; c = c.parent {
		if c == outer {
			return true
		}
	}
	return false
}

// useSite is one read of a value.
type useSite struct {
	// user is the reading expression, or 0 for a statement.
	user ir.ID
	at   *scope
}

type loopState struct {
	continuing ir.Block
	// replay is set when the continuing block is written out before every
	// continue and at the end of the body.
	replay bool
}

// funcState tracks how the expressions of one function are materialized.
//
// Every expression is either forwarded, rendered in place at its single
// use, or baked into a temporary where it is emitted. Temporaries that are
// read outside the scope they are emitted in are hoisted: declared at the
// top of the function and assigned where they are emitted.
type funcState struct {
	fn    *ir.Function
	entry bool

	uses  map[ir.ID]int
	def   map[ir.ID]*scope
	sites map[ir.ID][]useSite

	forward map[ir.ID]bool
	hoisted map[ir.ID]bool

	baked    map[ir.ID]bool
	consumed map[ir.ID]bool
	// pending holds forwarded expressions per open scope, in emission
	// order, until they are rendered or baked.
	pending [][]ir.ID
	loops   []loopState
	// temps holds the names of phi copy temporaries declared so far.
	temps map[string]bool
}

// analyze decides how every expression of f is materialized.
func (w *Writer) analyze(f *ir.Function, entry bool) *funcState {
	fs := &funcState{
		fn:       f,
		entry:    entry,
		uses:     make(map[ir.ID]int),
		def:      make(map[ir.ID]*scope),
		sites:    make(map[ir.ID][]useSite),
		forward:  make(map[ir.ID]bool),
		hoisted:  make(map[ir.ID]bool),
		baked:    make(map[ir.ID]bool),
		consumed: make(map[ir.ID]bool),
		pending:  [][]ir.ID{nil},
		temps:    make(map[string]bool),
	}
	fs.scan(w.module, f.Body, &scope{})

	// Expressions that are always rendered in place read their operands
	// wherever they themselves are used.
	var effective func(id ir.ID, depth int) []*scope
	effective = func(id ir.ID, depth int) []*scope {
		var out []*scope
		for _, s := range fs.sites[id] {
			if s.user != 0 && depth < maxInlineDepth {
				if u := w.module.Expression(s.user); u != nil && w.inlineAlways(u) {
					out = append(out, effective(s.user, depth+1)...)
					continue
				}
			}
			out = append(out, s.at)
		}
		return out
	}

	for id, d := range fs.def {
		e := w.module.Expression(id)
		if e == nil {
			continue
		}
		at := effective(id, 0)
		fs.uses[id] = len(at)
		if w.inlineAlways(e) {
			continue
		}
		hoist := false
		for _, s := range at {
			if !s.within(d) {
				hoist = true
				break
			}
		}
		if hoist {
			fs.hoisted[id] = true
			continue
		}
		if len(at) != 1 || at[0] != d || ir.HasSideEffects(e.Kind) {
			continue
		}
		switch e.Kind.(type) {
		case ir.ExprCompositeInsert, ir.ExprVectorInsertDynamic, ir.ExprPhi:
			continue
		}
		fs.forward[id] = true
	}
	return fs
}

// maxInlineDepth bounds the walk through chains of in-place expressions.
const maxInlineDepth = 64

// scan records where every expression is emitted and read.
func (fs *funcState) scan(m *ir.Module, block ir.Block, sc *scope) {
	use := func(id, user ir.ID) {
		if id == 0 || m.Expression(id) == nil {
			return
		}
		fs.sites[id] = append(fs.sites[id], useSite{user: user, at: sc})
	}
	child := func(b ir.Block) {
		fs.scan(m, b, &scope{parent: sc})
	}
	for _, s := range block {
		switch k := s.Kind.(type) {
		case ir.StmtEmit:
			fs.def[k.Expr] = sc
			if e := m.Expression(k.Expr); e != nil {
				for _, op := range ir.Operands(e.Kind) {
					use(op, k.Expr)
				}
			}
		case ir.StmtStore:
			use(k.Pointer, 0)
			use(k.Value, 0)
		case ir.StmtCopyMemory:
			use(k.Target, 0)
			use(k.Source, 0)
		case ir.StmtImageWrite:
			use(k.Image, 0)
			use(k.Coordinate, 0)
			use(k.Texel, 0)
		case ir.StmtIf:
			use(k.Condition, 0)
			child(k.Accept)
			child(k.Reject)
		case ir.StmtSwitch:
			use(k.Selector, 0)
			for _, c := range k.Cases {
				child(c.Body)
			}
		case ir.StmtLoop:
			child(k.Body)
			child(k.Continuing)
		case ir.StmtReturn:
			use(k.Value, 0)
		case ir.StmtCall:
			for _, a := range k.Args {
				use(a, 0)
			}
		case ir.StmtAtomicStore:
			use(k.Pointer, 0)
			use(k.Value, 0)
		case ir.StmtPhiStores:
			for _, c := range k.Copies {
				use(c.Value, 0)
			}
		}
	}
}

// inlineAlways reports whether e is rendered wherever it is used. Pointers
// and opaque handles cannot be stored in GLSL temporaries.
func (w *Writer) inlineAlways(e *ir.Expression) bool {
	switch e.Kind.(type) {
	case ir.ExprAccessChain, ir.ExprSampledImage, ir.ExprImage:
		return true
	}
	switch w.module.Inner(e.Type).(type) {
	case ir.PointerType, ir.ImageType, ir.SampledImageType, ir.SamplerType:
		return true
	}
	return false
}

// quiet reports whether emitting id writes nothing.
func (w *Writer) quiet(id ir.ID) bool {
	e := w.module.Expression(id)
	if e == nil {
		return true
	}
	if _, ok := e.Kind.(ir.ExprPhi); ok {
		return true
	}
	if w.inlineAlways(e) || w.fs.forward[id] {
		return true
	}
	return w.fs.uses[id] == 0 && !ir.HasSideEffects(e.Kind)
}

// quietPrefix returns the number of leading emits of block that write
// nothing.
func (w *Writer) quietPrefix(block ir.Block) int {
	n := 0
	for _, s := range block {
		emit, ok := s.Kind.(ir.StmtEmit)
		if !ok || !w.quiet(emit.Expr) {
			break
		}
		n++
	}
	return n
}

// volatile reports whether the value of an unrendered expression may be
// changed by a later statement of the same scope.
func (w *Writer) volatile(id ir.ID) bool {
	e := w.module.Expression(id)
	if e == nil || w.fs.baked[id] {
		return false
	}
	switch k := e.Kind.(type) {
	case ir.ExprPhi, ir.ExprImageRead, ir.ExprAtomic, ir.ExprCall:
		return true
	case ir.ExprLoad:
		if !w.immutable(w.module.ChainRoot(k.Pointer)) {
			return true
		}
	}
	for _, op := range ir.Operands(e.Kind) {
		if w.volatile(op) {
			return true
		}
	}
	return false
}

// immutable reports whether the variable behind a pointer is read-only for
// the shader.
func (w *Writer) immutable(root ir.ID) bool {
	v := w.module.Variable(root)
	if v == nil {
		return false
	}
	switch v.Storage {
	case spirv.StorageClassInput, spirv.StorageClassUniformConstant, spirv.StorageClassPushConstant:
		return true
	case spirv.StorageClassUniform:
		block, _ := w.stripArrays(w.module.Pointee(v.Type))
		return !w.module.HasDecoration(block, spirv.DecorationBufferBlock)
	}
	return false
}

// reads reports whether rendering id now would read target.
func (w *Writer) reads(id, target ir.ID) bool {
	if id == target {
		return true
	}
	e := w.module.Expression(id)
	if e == nil || w.fs.baked[id] {
		return false
	}
	if _, ok := e.Kind.(ir.ExprPhi); ok {
		return false
	}
	for _, op := range ir.Operands(e.Kind) {
		if w.reads(op, target) {
			return true
		}
	}
	return false
}

// terminates reports whether control never falls off the end of block.
func terminates(block ir.Block) bool {
	if len(block) == 0 {
		return false
	}
	switch block[len(block)-1].Kind.(type) {
	case ir.StmtReturn, ir.StmtKill, ir.StmtBreak, ir.StmtContinue:
		return true
	}
	return false
}

// isBreak reports whether block is a lone break.
func isBreak(block ir.Block) bool {
	if len(block) != 1 {
		return false
	}
	_, ok := block[0].Kind.(ir.StmtBreak)
	return ok
}

// continues reports whether block continues its own loop. Nested loops
// are not searched.
func continues(block ir.Block) bool {
	for _, s := range block {
		switch k := s.Kind.(type) {
		case ir.StmtContinue:
			return true
		case ir.StmtIf:
			if continues(k.Accept) || continues(k.Reject) {
				return true
			}
		case ir.StmtSwitch:
			for _, c := range k.Cases {
				if continues(c.Body) {
					return true
				}
			}
		}
	}
	return false
}

// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"strconv"
	"strings"

	"github.com/gogpu/spirvcross/ir"
	"github.com/gogpu/spirvcross/spirv"
)

// writeFunction writes a function definition. The entry point is named
// main.
func (w *Writer) writeFunction(id ir.ID) error {
	f := w.module.Function(id)
	if f == nil {
		return nil
	}
	entry := id == w.entry.Function
	w.fs = w.analyze(f, entry)
	defer func() { w.fs = nil }()

	name := w.name(id)
	if entry {
		name = "main"
	}
	params := make([]string, 0, len(f.Params))
	for _, pid := range f.Params {
		params = append(params, w.parameter(pid))
	}
	w.writeLine("%s%s %s(%s)", w.precision(f.Result, w.relaxed(id)), w.constructorName(f.Result), name, strings.Join(params, ", "))
	w.writeLine("{")
	w.pushIndent()
	if err := w.writeDeclarations(f); err != nil {
		return err
	}
	if err := w.writeBlock(f.Body, true); err != nil {
		return err
	}
	if entry && !terminates(f.Body) {
		w.writeEntryEpilogue()
	}
	w.popIndent()
	w.writeLine("}")
	w.writeLine("")
	return nil
}

// parameter declares one function parameter. Pointers become inout
// parameters; opaque handles are passed as they are.
func (w *Writer) parameter(id ir.ID) string {
	p := w.module.Parameter(id)
	if p == nil {
		return ""
	}
	relaxed := w.module.HasDecoration(id, spirv.DecorationRelaxedPrecision)
	t := p.Type
	qualifier := ""
	if ptr, ok := w.module.Inner(t).(ir.PointerType); ok {
		t = ptr.Base
		elem, _ := w.stripArrays(t)
		switch w.module.Inner(elem).(type) {
		case ir.ImageType, ir.SampledImageType, ir.SamplerType:
		default:
			qualifier = "inout "
		}
	}
	return qualifier + w.precision(t, relaxed) + w.declare(t, w.name(id))
}

// writeDeclarations declares locals, phi variables and hoisted
// temporaries at the top of the function.
func (w *Writer) writeDeclarations(f *ir.Function) error {
	for _, id := range f.Locals {
		v := w.module.Variable(id)
		if v == nil {
			continue
		}
		t := w.module.Pointee(v.Type)
		init, err := w.initializer(v)
		if err != nil {
			return err
		}
		w.writeLine("%s%s%s;", w.precision(t, w.relaxed(id)), w.declare(t, w.name(id)), init)
	}
	for _, id := range f.Phis {
		w.declareVariable(id)
	}
	for _, id := range sortedIDs(w.fs.hoisted) {
		w.declareVariable(id)
	}
	return nil
}

func (w *Writer) declareVariable(id ir.ID) {
	e := w.module.Expression(id)
	if e == nil {
		return
	}
	w.writeLine("%s%s;", w.precision(e.Type, w.relaxed(id)), w.declare(e.Type, w.name(id)))
}

func (w *Writer) relaxed(id ir.ID) bool {
	return w.module.HasDecoration(id, spirv.DecorationRelaxedPrecision)
}

// writeBlock writes a block of statements. Top is set for the function
// body, where a trailing return is implied.
func (w *Writer) writeBlock(block ir.Block, top bool) error {
	for i, s := range block {
		if err := w.writeStatement(s, top && i == len(block)-1); err != nil {
			return err
		}
	}
	return nil
}

// writeScope writes block between braces.
func (w *Writer) writeScope(block ir.Block) error {
	w.writeLine("{")
	w.pushIndent()
	w.openScope()
	err := w.writeBlock(block, false)
	w.closeScope()
	w.popIndent()
	w.writeLine("}")
	return err
}

func (w *Writer) openScope() {
	w.fs.pending = append(w.fs.pending, nil)
}

func (w *Writer) closeScope() {
	w.fs.pending = w.fs.pending[:len(w.fs.pending)-1]
}

// writeStatement writes a single statement.
//
//nolint:gocyclo,cyclop,funlen // one case per statement kind
func (w *Writer) writeStatement(s ir.Statement, last bool) error {
	switch k := s.Kind.(type) {
	case ir.StmtEmit:
		return w.emit(k.Expr)

	case ir.StmtStore:
		return w.store(k.Pointer, k.Value)

	case ir.StmtCopyMemory:
		return w.copyMemory(k)

	case ir.StmtImageWrite:
		line, err := w.imageStore(k)
		if err != nil {
			return err
		}
		if err := w.flush(); err != nil {
			return err
		}
		w.writeLine("%s", line)
		return nil

	case ir.StmtIf:
		cond, err := w.condition(k)
		if err != nil {
			return err
		}
		if err := w.flush(); err != nil {
			return err
		}
		w.writeLine("if (%s)", cond)
		return w.writeIfArms(k)

	case ir.StmtSwitch:
		return w.writeSwitch(k)

	case ir.StmtLoop:
		return w.writeLoop(k)

	case ir.StmtBreak:
		if err := w.flush(); err != nil {
			return err
		}
		w.writeLine("break;")
		return nil

	case ir.StmtContinue:
		if err := w.flush(); err != nil {
			return err
		}
		if n := len(w.fs.loops); n > 0 && w.fs.loops[n-1].replay {
			if err := w.writeContinuing(w.fs.loops[n-1].continuing); err != nil {
				return err
			}
		}
		w.writeLine("continue;")
		return nil

	case ir.StmtReturn:
		if k.Value != 0 {
			v, err := w.expr(k.Value)
			if err != nil {
				return err
			}
			if err := w.flush(); err != nil {
				return err
			}
			w.writeLine("return %s;", v)
			return nil
		}
		if err := w.flush(); err != nil {
			return err
		}
		if w.fs.entry {
			w.writeEntryEpilogue()
		}
		if !last {
			w.writeLine("return;")
		}
		return nil

	case ir.StmtKill:
		if err := w.flush(); err != nil {
			return err
		}
		w.writeLine("discard;")
		return nil

	case ir.StmtBarrier:
		if err := w.flush(); err != nil {
			return err
		}
		w.writeBarrier(k)
		return nil

	case ir.StmtCall:
		args, err := w.exprs(k.Args)
		if err != nil {
			return err
		}
		if err := w.flush(); err != nil {
			return err
		}
		w.writeLine("%s(%s);", w.name(k.Function), strings.Join(args, ", "))
		return nil

	case ir.StmtAtomicStore:
		p, err := w.expr(k.Pointer)
		if err != nil {
			return err
		}
		v, err := w.expr(k.Value)
		if err != nil {
			return err
		}
		if kind, ok := w.scalarKind(w.module.ValueType(k.Pointer)); ok {
			v = w.castInt(v, w.module.TypeOf(k.Value), kind)
		}
		if err := w.flush(); err != nil {
			return err
		}
		w.writeLine("atomicExchange(%s, %s);", p, v)
		return nil

	case ir.StmtPhiStores:
		return w.writePhiStores(k)
	}
	return unsupported("statement %T cannot be expressed in GLSL", s.Kind)
}

// Expression materialization

// emit handles an expression at the point it is evaluated.
func (w *Writer) emit(id ir.ID) error {
	fs := w.fs
	e := w.module.Expression(id)
	if e == nil {
		return nil
	}
	if _, ok := e.Kind.(ir.ExprPhi); ok {
		return nil
	}
	if w.inlineAlways(e) {
		return nil
	}
	if fs.forward[id] {
		top := len(fs.pending) - 1
		fs.pending[top] = append(fs.pending[top], id)
		return nil
	}
	sideEffects := ir.HasSideEffects(e.Kind)
	if fs.uses[id] == 0 && !sideEffects {
		return nil
	}
	if sideEffects {
		s, err := w.expression(e)
		if err != nil {
			return err
		}
		if err := w.flush(); err != nil {
			return err
		}
		if fs.uses[id] == 0 {
			w.writeLine("%s;", s)
			return nil
		}
		w.declareTemp(e, s)
		fs.baked[id] = true
		return nil
	}
	return w.bake(id)
}

// bake stores an expression in its temporary.
func (w *Writer) bake(id ir.ID) error {
	fs := w.fs
	e := w.module.Expression(id)
	fs.consumed[id] = true
	switch k := e.Kind.(type) {
	case ir.ExprCompositeInsert:
		comp, err := w.expr(k.Composite)
		if err != nil {
			return err
		}
		obj, err := w.expr(k.Object)
		if err != nil {
			return err
		}
		w.declareTemp(e, comp)
		path, t := w.name(id), e.Type
		for _, i := range k.Indices {
			path, t = w.indexLiteral(path, t, i)
		}
		w.writeLine("%s = %s;", path, obj)
	case ir.ExprVectorInsertDynamic:
		args, err := w.exprs([]ir.ID{k.Vector, k.Component, k.Index})
		if err != nil {
			return err
		}
		w.declareTemp(e, args[0])
		w.writeLine("%s[%s] = %s;", w.name(id), args[2], args[1])
	default:
		s, err := w.expression(e)
		if err != nil {
			return err
		}
		w.declareTemp(e, s)
	}
	fs.baked[id] = true
	return nil
}

// declareTemp writes the declaration of a temporary, or only the
// assignment when it was hoisted.
func (w *Writer) declareTemp(e *ir.Expression, value string) {
	name := w.name(e.ID)
	if w.fs.hoisted[e.ID] {
		w.writeLine("%s = %s;", name, value)
		return
	}
	w.writeLine("%s%s = %s;", w.precision(e.Type, w.relaxed(e.ID)), w.declare(e.Type, name), value)
}

// flush bakes the forwarded expressions of the current scope that a
// following write could change. It is called after the operands of a
// statement are rendered and before the statement is written.
func (w *Writer) flush() error {
	fs := w.fs
	top := len(fs.pending) - 1
	ids := fs.pending[top]
	fs.pending[top] = nil
	var keep []ir.ID
	for _, id := range ids {
		if fs.consumed[id] || fs.baked[id] {
			continue
		}
		if !w.volatile(id) {
			keep = append(keep, id)
			continue
		}
		if err := w.bake(id); err != nil {
			return err
		}
	}
	fs.pending[top] = append(keep, fs.pending[top]...)
	return nil
}

// Stores

func (w *Writer) store(pointer, value ir.ID) error {
	if v := w.module.Variable(pointer); v != nil && w.isStructIO(v) {
		return w.storeStructIO(v, value)
	}
	lhs, err := w.expr(pointer)
	if err != nil {
		return err
	}
	rhs, err := w.expr(value)
	if err != nil {
		return err
	}
	if err := w.flush(); err != nil {
		return err
	}
	w.writeLine("%s = %s;", lhs, rhs)
	return nil
}

// storeStructIO writes a struct value to the member variables of a struct
// output. The value is baked first so it is evaluated once.
func (w *Writer) storeStructIO(v *ir.Variable, value ir.ID) error {
	if e := w.module.Expression(value); e != nil && !w.fs.baked[value] {
		if _, phi := e.Kind.(ir.ExprPhi); !phi {
			if err := w.bake(value); err != nil {
				return err
			}
		}
	}
	rhs, err := w.expr(value)
	if err != nil {
		return err
	}
	return w.assignStructIO(v, rhs)
}

func (w *Writer) assignStructIO(v *ir.Variable, rhs string) error {
	if err := w.flush(); err != nil {
		return err
	}
	t := w.module.Pointee(v.Type)
	st, _ := w.module.Inner(t).(ir.StructType)
	for i := range st.Members {
		member := w.memberName(t, i)
		w.writeLine("%s_%s = %s.%s;", w.name(v.ID), member, enclose(rhs), member)
	}
	return nil
}

func (w *Writer) copyMemory(k ir.StmtCopyMemory) error {
	var rhs string
	var err error
	if v := w.module.Variable(k.Source); v != nil && w.isStructIO(v) {
		rhs, err = w.structIOValue(v)
	} else {
		rhs, err = w.expr(k.Source)
	}
	if err != nil {
		return err
	}
	if v := w.module.Variable(k.Target); v != nil && w.isStructIO(v) {
		return w.assignStructIO(v, rhs)
	}
	lhs, err := w.expr(k.Target)
	if err != nil {
		return err
	}
	if err := w.flush(); err != nil {
		return err
	}
	w.writeLine("%s = %s;", lhs, rhs)
	return nil
}

// writePhiStores assigns the phi variables of one edge. The copies are
// parallel, so when one reads a phi that an earlier copy assigns, every
// value goes through a temporary first.
func (w *Writer) writePhiStores(k ir.StmtPhiStores) error {
	parallel := false
	for i, c := range k.Copies {
		for _, later := range k.Copies[i+1:] {
			if w.reads(later.Value, c.Phi) {
				parallel = true
			}
		}
	}
	values := make([]string, len(k.Copies))
	for i, c := range k.Copies {
		v, err := w.expr(c.Value)
		if err != nil {
			return err
		}
		values[i] = v
	}
	if err := w.flush(); err != nil {
		return err
	}
	if parallel {
		for i, c := range k.Copies {
			e := w.module.Expression(c.Phi)
			tmp := w.module.FreshName(w.name(c.Phi)+"_copy", func(n string) bool {
				return w.fs.temps[n] || isKeyword(n)
			})
			w.fs.temps[tmp] = true
			w.writeLine("%s%s = %s;", w.precision(e.Type, w.relaxed(c.Phi)), w.declare(e.Type, tmp), values[i])
			values[i] = tmp
		}
	}
	for i, c := range k.Copies {
		w.writeLine("%s = %s;", w.name(c.Phi), values[i])
	}
	return nil
}

// Control flow

// condition renders the condition of an if statement.
func (w *Writer) condition(k ir.StmtIf) (string, error) {
	cond, err := w.expr(k.Condition)
	if err != nil {
		return "", err
	}
	if k.Negate {
		cond = "!" + enclose(cond)
	}
	return cond, nil
}

// writeIfArms writes the arms of an if whose header is already written.
// An else arm that holds nothing but another if is written as else if.
func (w *Writer) writeIfArms(k ir.StmtIf) error {
	if err := w.writeScope(k.Accept); err != nil {
		return err
	}
	if len(k.Reject) == 0 {
		return nil
	}
	n := w.quietPrefix(k.Reject)
	if n == len(k.Reject)-1 {
		if next, ok := k.Reject[n].Kind.(ir.StmtIf); ok {
			w.openScope()
			defer w.closeScope()
			for _, s := range k.Reject[:n] {
				if err := w.emit(s.Kind.(ir.StmtEmit).Expr); err != nil {
					return err
				}
			}
			cond, err := w.condition(next)
			if err != nil {
				return err
			}
			w.writeLine("else if (%s)", cond)
			return w.writeIfArms(next)
		}
	}
	w.writeLine("else")
	return w.writeScope(k.Reject)
}

func (w *Writer) writeSwitch(k ir.StmtSwitch) error {
	sel, err := w.expr(k.Selector)
	if err != nil {
		return err
	}
	if err := w.flush(); err != nil {
		return err
	}
	kind, _ := w.scalarKind(w.module.TypeOf(k.Selector))
	w.writeLine("switch (%s)", sel)
	w.writeLine("{")
	w.pushIndent()
	for _, c := range k.Cases {
		for _, v := range c.Values {
			w.writeLine("case %s:", caseLabel(v, kind))
		}
		if c.Default {
			w.writeLine("default:")
		}
		w.writeLine("{")
		w.pushIndent()
		w.openScope()
		if err := w.writeBlock(c.Body, false); err != nil {
			return err
		}
		if !c.FallThrough && !terminates(c.Body) {
			w.writeLine("break;")
		}
		w.closeScope()
		w.popIndent()
		w.writeLine("}")
	}
	w.popIndent()
	w.writeLine("}")
	return nil
}

func caseLabel(v uint64, kind ir.ScalarKind) string {
	if kind == ir.ScalarUint {
		return strconv.FormatUint(uint64(uint32(v)), 10) + "u" //nolint:gosec // 32-bit selector
	}
	return strconv.Itoa(int(int32(uint32(v)))) //nolint:gosec // reinterprets the literal bits
}

// writeLoop writes a loop as while, for or do-while when its header and
// continuing block allow it, and as for (;;) otherwise.
//
//nolint:gocyclo,cyclop,funlen // loop shape selection
func (w *Writer) writeLoop(k ir.StmtLoop) error {
	if err := w.flush(); err != nil {
		return err
	}
	w.openScope()
	defer w.closeScope()

	body := k.Body
	cond := ""
	if n := w.quietPrefix(body); n < len(body) {
		if st, ok := body[n].Kind.(ir.StmtIf); ok && len(st.Reject) == 0 && isBreak(st.Accept) {
			for _, s := range body[:n] {
				if err := w.emit(s.Kind.(ir.StmtEmit).Expr); err != nil {
					return err
				}
			}
			c, err := w.expr(st.Condition)
			if err != nil {
				return err
			}
			if !st.Negate {
				c = "!" + enclose(c)
			}
			cond, body = c, body[n+1:]
		}
	}

	step, stepped, err := w.loopStep(k.Continuing)
	if err != nil {
		return err
	}

	if cond == "" && !stepped && !continues(body) {
		if n := w.quietPrefix(k.Continuing); n == len(k.Continuing)-1 {
			if st, ok := k.Continuing[n].Kind.(ir.StmtIf); ok && len(st.Reject) == 0 && isBreak(st.Accept) {
				return w.writeDoWhile(body, k.Continuing[:n], st)
			}
		}
	}

	switch {
	case cond == "" && step == "":
		w.writeLine("for (;;)")
	case step == "":
		w.writeLine("while (%s)", cond)
	case cond == "":
		w.writeLine("for (;; %s)", step)
	default:
		w.writeLine("for (; %s; %s)", cond, step)
	}
	w.writeLine("{")
	w.pushIndent()
	w.fs.loops = append(w.fs.loops, loopState{continuing: k.Continuing, replay: !stepped})
	err = w.writeBlock(body, false)
	if err == nil && !stepped && !terminates(body) {
		err = w.writeContinuing(k.Continuing)
	}
	w.fs.loops = w.fs.loops[:len(w.fs.loops)-1]
	w.popIndent()
	w.writeLine("}")
	return err
}

// loopStep renders a continuing block as the step of a for loop. It
// succeeds for an empty block and for a single assignment.
func (w *Writer) loopStep(block ir.Block) (string, bool, error) {
	if len(block) == 0 {
		return "", true, nil
	}
	n := w.quietPrefix(block)
	if n != len(block)-1 {
		return "", false, nil
	}
	switch s := block[n].Kind.(type) {
	case ir.StmtStore:
		if v := w.module.Variable(s.Pointer); v != nil && w.isStructIO(v) {
			return "", false, nil
		}
	case ir.StmtPhiStores:
		if len(s.Copies) != 1 {
			return "", false, nil
		}
	default:
		return "", false, nil
	}

	w.openScope()
	defer w.closeScope()
	for _, s := range block[:n] {
		if err := w.emit(s.Kind.(ir.StmtEmit).Expr); err != nil {
			return "", false, err
		}
	}
	var lhs, rhs string
	var err error
	switch s := block[n].Kind.(type) {
	case ir.StmtStore:
		if lhs, err = w.expr(s.Pointer); err != nil {
			return "", false, err
		}
		if rhs, err = w.expr(s.Value); err != nil {
			return "", false, err
		}
	case ir.StmtPhiStores:
		lhs = w.name(s.Copies[0].Phi)
		if rhs, err = w.expr(s.Copies[0].Value); err != nil {
			return "", false, err
		}
	}
	return lhs + " = " + rhs, true, nil
}

// writeDoWhile writes a loop whose continuing block ends in its exit test.
func (w *Writer) writeDoWhile(body, prefix ir.Block, exit ir.StmtIf) error {
	w.writeLine("do")
	w.writeLine("{")
	w.pushIndent()
	w.fs.loops = append(w.fs.loops, loopState{})
	err := w.writeBlock(body, false)
	w.fs.loops = w.fs.loops[:len(w.fs.loops)-1]
	if err != nil {
		return err
	}
	for _, s := range prefix {
		if err := w.emit(s.Kind.(ir.StmtEmit).Expr); err != nil {
			return err
		}
	}
	cond, err := w.expr(exit.Condition)
	if err != nil {
		return err
	}
	if !exit.Negate {
		cond = "!" + enclose(cond)
	}
	if err := w.flush(); err != nil {
		return err
	}
	w.popIndent()
	w.writeLine("} while (%s);", cond)
	return nil
}

// writeContinuing writes the continuing block of a loop in place. Its
// expressions are evaluated afresh every time it is written.
func (w *Writer) writeContinuing(block ir.Block) error {
	if len(block) == 0 {
		return nil
	}
	ir.WalkStatements(block, func(s ir.Statement) {
		if emit, ok := s.Kind.(ir.StmtEmit); ok {
			delete(w.fs.baked, emit.Expr)
			delete(w.fs.consumed, emit.Expr)
		}
	})
	w.openScope()
	defer w.closeScope()
	return w.writeBlock(block, false)
}

// writeBarrier writes the GLSL form of a control or memory barrier.
func (w *Writer) writeBarrier(k ir.StmtBarrier) {
	sem := k.Semantics
	if sem&spirv.MemorySemanticsUniformMemory != 0 {
		w.writeLine("memoryBarrierBuffer();")
	}
	if sem&spirv.MemorySemanticsImageMemory != 0 {
		w.writeLine("memoryBarrierImage();")
	}
	if sem&spirv.MemorySemanticsAtomicCounterMemory != 0 {
		w.writeLine("memoryBarrierAtomicCounter();")
	}
	if sem&spirv.MemorySemanticsWorkgroupMemory != 0 && !k.Control {
		w.writeLine("memoryBarrierShared();")
	}
	const specific = spirv.MemorySemanticsUniformMemory | spirv.MemorySemanticsImageMemory |
		spirv.MemorySemanticsAtomicCounterMemory | spirv.MemorySemanticsWorkgroupMemory
	if !k.Control && sem&specific == 0 {
		w.writeLine("memoryBarrier();")
	}
	if k.Control {
		w.writeLine("barrier();")
	}
}

// writeEntryEpilogue writes the clip space fixups of a vertex entry point.
func (w *Writer) writeEntryEpilogue() {
	if w.stage != spirv.ExecutionModelVertex {
		return
	}
	if w.options.Vertex.TransformClipSpace {
		w.writeLine("gl_Position.z = 2.0 * gl_Position.z - gl_Position.w;")
	}
	if w.options.Vertex.InvertY {
		w.writeLine("gl_Position.y = -gl_Position.y;")
	}
}

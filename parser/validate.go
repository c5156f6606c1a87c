// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package parser

import (
	"fortio.org/safecast"

	"github.com/gogpu/spirvcross/diag"
	"github.com/gogpu/spirvcross/ir"
	"github.com/gogpu/spirvcross/spirv"
)

// Reference checks. Every result id lies inside the header bound and is
// defined once. Operands name entities declared earlier in the stream,
// except phi operands, branch targets and callees, which may be forward
// references and are checked once their function or the module ends.
// Together these keep the expression graph acyclic.

func (p *Parser) errorAt(o *operands, format string, args ...any) error {
	return diag.Errorf(diag.ParseError, "%s at word %d: "+format,
		append([]any{spirv.OpcodeName(o.inst.Opcode), o.inst.Offset}, args...)...)
}

// define claims id for the instruction being decoded.
func (p *Parser) define(o *operands, id ir.ID) error {
	if o.err != nil {
		return o.err
	}
	switch {
	case id == 0 || uint32(id) >= p.module.Bound():
		return p.errorAt(o, "result id %d is outside the id bound %d", id, p.module.Bound())
	case p.module.Live(id) || p.labels[id]:
		return p.errorAt(o, "id %d is defined more than once", id)
	}
	return nil
}

// result claims id for a value of type typ.
func (p *Parser) result(o *operands, typ, id ir.ID) error {
	if err := p.typeRef(o, typ); err != nil {
		return err
	}
	return p.define(o, id)
}

// typeRef checks that id is a type declared earlier.
func (p *Parser) typeRef(o *operands, ids ...ir.ID) error {
	if o.err != nil {
		return o.err
	}
	for _, id := range ids {
		if p.module.Type(id) == nil {
			return p.errorAt(o, "%d is not a declared type", id)
		}
	}
	return nil
}

// constRef checks that ids are constants or undefined values declared
// earlier.
func (p *Parser) constRef(o *operands, ids ...ir.ID) error {
	if o.err != nil {
		return o.err
	}
	for _, id := range ids {
		switch p.module.Entity(id).(type) {
		case *ir.Constant, *ir.Undef:
		case nil:
			return p.errorAt(o, "id %d is used before it is defined", id)
		default:
			return p.errorAt(o, "id %d is not a constant", id)
		}
	}
	return nil
}

// value checks that id is a value visible at this point: a constant,
// undef or global, or a local, parameter or expression of the current
// function.
func (p *Parser) value(o *operands, id ir.ID) error {
	var owner ir.ID
	switch e := p.module.Entity(id).(type) {
	case *ir.Constant, *ir.Undef:
		return nil
	case *ir.Variable:
		owner = e.Function
		if owner == 0 {
			return nil
		}
	case *ir.Parameter:
		owner = e.Function
	case *ir.Expression:
		owner = e.Function
	case nil:
		return p.errorAt(o, "id %d is used before it is defined", id)
	default:
		return p.errorAt(o, "id %d is not a value", id)
	}
	if p.fn == nil || owner != p.fn.ID {
		return p.errorAt(o, "id %d belongs to function %d", id, owner)
	}
	return nil
}

// use checks the operands of an instruction in the current block and
// records them for the dominance check.
func (p *Parser) use(o *operands, ids ...ir.ID) error {
	if o.err != nil {
		return o.err
	}
	for _, id := range ids {
		if err := p.value(o, id); err != nil {
			return err
		}
		p.uses = append(p.uses, blockUse{block: len(p.blocks), id: id, offset: o.inst.Offset})
	}
	return nil
}

// checkFunction verifies that every operand defined in another block of
// the function comes from a block that dominates the use, and that phi
// operands name values of the function.
func (p *Parser) checkFunction(g *cfg) error {
	for _, u := range p.uses {
		def, ok := p.defBlock[u.id]
		if !ok || def == u.block || g.order[u.block] < 0 {
			continue
		}
		if !g.dominates(def, u.block) {
			return diag.Errorf(diag.ParseError,
				"function %d: id %d used at word %d is not defined in a dominating block", p.fn.ID, u.id, u.offset)
		}
	}
	for _, u := range p.phiUses {
		o := &operands{inst: spirv.Instruction{Opcode: spirv.OpPhi, Offset: u.offset}}
		if err := p.value(o, u.id); err != nil {
			return err
		}
	}
	return nil
}

// checkCalls verifies callees and rejects recursion, which GLSL cannot
// express.
func (p *Parser) checkCalls() error {
	if err := p.checkCallArgs(); err != nil {
		return err
	}

	const (
		unvisited = iota
		active
		done
	)
	state := make(map[ir.ID]int, len(p.module.Functions))
	var visit func(id ir.ID) error
	visit = func(id ir.ID) error {
		switch state[id] {
		case active:
			return diag.Errorf(diag.ParseError, "function %d is recursive", id)
		case done:
			return nil
		}
		state[id] = active
		for _, callee := range p.module.Function(id).Calls {
			if err := visit(callee); err != nil {
				return err
			}
		}
		state[id] = done
		return nil
	}
	for _, id := range p.module.Functions {
		if err := visit(id); err != nil {
			return err
		}
	}
	return nil
}

// checkCallArgs matches each call against the callee's signature once
// every function is known.
func (p *Parser) checkCallArgs() error {
	for _, c := range p.calls {
		f := p.module.Function(c.callee)
		if f == nil {
			return diag.Errorf(diag.ParseError, "OpFunctionCall at word %d: %d is not a function", c.offset, c.callee)
		}
		if len(f.Params) != c.args {
			return diag.Errorf(diag.ParseError, "OpFunctionCall at word %d: function %d takes %d arguments, got %d",
				c.offset, c.callee, len(f.Params), c.args)
		}
		if f.Result != c.result {
			return diag.Errorf(diag.ParseError, "OpFunctionCall at word %d: result type %d does not match function %d",
				c.offset, c.result, c.callee)
		}
	}
	return nil
}

// literalConst reads the value of the 32-bit integer constant named by
// operand i. Scopes and memory semantics are passed this way.
func (p *Parser) literalConst(o *operands, i int) (uint32, error) {
	id := o.id(i)
	if err := p.constRef(o, id); err != nil {
		return 0, err
	}
	c := p.module.Constant(id)
	if c == nil || c.Spec {
		return 0, p.errorAt(o, "%d is not a literal integer constant", id)
	}
	sv, ok := c.Value.(ir.ScalarValue)
	if !ok {
		return 0, p.errorAt(o, "%d is not a literal integer constant", id)
	}
	v, err := safecast.Conv[uint32](sv.Bits)
	if err != nil {
		return 0, p.errorAt(o, "constant %d does not fit 32 bits", id)
	}
	return v, nil
}

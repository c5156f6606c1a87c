// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package parser builds an ir.Module from a SPIR-V binary.
//
// Declarations (types, constants, globals, decorations, entry points) are
// decoded in one pass. Each function body is collected as basic blocks,
// analysed as a control flow graph and then structurized into nested
// if, switch and loop statements.
package parser

import (
	"strings"

	"github.com/gogpu/spirvcross/diag"
	"github.com/gogpu/spirvcross/ir"
	"github.com/gogpu/spirvcross/spirv"
)

// Parser converts a SPIR-V module to IR.
type Parser struct {
	module *ir.Module

	// extSets maps OpExtInstImport ids to whether the set is
	// GLSL.std.450 (true) or an ignored NonSemantic set (false).
	extSets map[ir.ID]bool

	// labels holds ids defined without an arena entity: block labels and
	// decoration groups.
	labels map[ir.ID]bool

	// members holds member names and decorations until the struct types
	// they refer to are declared.
	members []memberNote
	calls   []callNote

	// Current function state
	fn     *ir.Function
	blocks []*rawBlock
	cur    *rawBlock
	// defBlock maps an expression of the current function to the index
	// of the block that defines it.
	defBlock map[ir.ID]int
	uses     []blockUse
	phiUses  []blockUse
}

// blockUse records that block reads id.
type blockUse struct {
	block  int
	id     ir.ID
	offset int
}

// callNote is an OpFunctionCall whose callee may not be declared yet.
type callNote struct {
	callee ir.ID
	result ir.ID
	args   int
	offset int
}

// memberNote is an OpMemberName or member decoration waiting for its
// struct type.
type memberNote struct {
	op     spirv.OpCode
	offset int
	id     ir.ID
	index  uint32
	name   string
	dec    spirv.Decoration
	args   []uint32
}

// Parse decodes m into a structured IR module.
func Parse(m *spirv.Module) (*ir.Module, error) {
	insts, err := m.Instructions()
	if err != nil {
		return nil, err
	}
	h := m.Header()
	p := &Parser{
		module:  ir.NewModule(h.Bound),
		extSets: make(map[ir.ID]bool),
		labels:  make(map[ir.ID]bool),
	}
	p.module.Version = h.Version

	for _, inst := range insts {
		if err := p.instruction(inst); err != nil {
			return nil, err
		}
	}
	if p.fn != nil {
		return nil, diag.Errorf(diag.ParseError, "function %d is missing OpFunctionEnd", p.fn.ID)
	}
	if err := p.applyMembers(); err != nil {
		return nil, err
	}
	if err := p.checkEntryPoints(); err != nil {
		return nil, err
	}
	if err := p.checkCalls(); err != nil {
		return nil, err
	}
	return p.module, nil
}

func (p *Parser) checkEntryPoints() error {
	if len(p.module.EntryPoints) == 0 {
		return diag.New(diag.ParseError, "module has no entry point")
	}
	for _, ep := range p.module.EntryPoints {
		switch ep.Model {
		case spirv.ExecutionModelVertex, spirv.ExecutionModelFragment, spirv.ExecutionModelGLCompute:
		default:
			return diag.Errorf(diag.ParseError, "entry point %q: unsupported execution model %s", ep.Name, ep.Model)
		}
		if p.module.Function(ep.Function) == nil {
			return diag.Errorf(diag.ParseError, "entry point %q names missing function %d", ep.Name, ep.Function)
		}
		for _, id := range ep.Interface {
			if v := p.module.Variable(id); v == nil || v.Function != 0 {
				return diag.Errorf(diag.ParseError, "entry point %q: interface id %d is not a global variable", ep.Name, id)
			}
		}
	}
	return nil
}

// operands gives typed access to instruction words with bounds checks.
type operands struct {
	inst spirv.Instruction
	err  error
}

func (o *operands) word(i int) uint32 {
	if i >= len(o.inst.Words) {
		if o.err == nil {
			o.err = diag.Errorf(diag.ParseError, "%s at word %d: missing operand %d",
				spirv.OpcodeName(o.inst.Opcode), o.inst.Offset, i)
		}
		return 0
	}
	return o.inst.Words[i]
}

func (o *operands) id(i int) ir.ID {
	return ir.ID(o.word(i))
}

func (o *operands) ids(from int) []ir.ID {
	if from > len(o.inst.Words) {
		o.word(from)
		return nil
	}
	out := make([]ir.ID, 0, len(o.inst.Words)-from)
	for _, w := range o.inst.Words[from:] {
		out = append(out, ir.ID(w))
	}
	return out
}

func (o *operands) literals(from int) []uint32 {
	if from >= len(o.inst.Words) {
		return nil
	}
	out := make([]uint32, len(o.inst.Words)-from)
	copy(out, o.inst.Words[from:])
	return out
}

func (o *operands) str(from int) (string, int) {
	if from >= len(o.inst.Words) {
		o.word(from)
		return "", 0
	}
	return spirv.DecodeString(o.inst.Words[from:])
}

func (o *operands) count() int {
	return len(o.inst.Words)
}

// instruction dispatches one instruction at module or function scope.
//
//nolint:gocyclo,cyclop,funlen // one case per declaration opcode
func (p *Parser) instruction(inst spirv.Instruction) error {
	o := &operands{inst: inst}
	var err error

	switch inst.Opcode {
	case spirv.OpNop, spirv.OpSource, spirv.OpSourceContinued, spirv.OpSourceExtension,
		spirv.OpString, spirv.OpLine, spirv.OpNoLine, spirv.OpModuleProcessed, spirv.OpMemoryModel,
		spirv.OpDecorateString, spirv.OpMemberDecorateString, spirv.OpTypeForwardPointer:
		// No effect on the generated code.
	case spirv.OpCapability:
		p.module.Capabilities = append(p.module.Capabilities, spirv.Capability(o.word(0)))
	case spirv.OpExtension:
		name, _ := o.str(0)
		p.module.Extensions = append(p.module.Extensions, name)
	case spirv.OpExtInstImport:
		err = p.extInstImport(o)
	case spirv.OpEntryPoint:
		name, n := o.str(2)
		p.module.EntryPoints = append(p.module.EntryPoints, ir.EntryPoint{
			Name:      name,
			Model:     spirv.ExecutionModel(o.word(0)),
			Function:  o.id(1),
			Interface: o.ids(2 + n),
		})
	case spirv.OpExecutionMode, spirv.OpExecutionModeID:
		target := o.id(0)
		mode := ir.ExecutionMode{Mode: spirv.ExecutionMode(o.word(1)), Args: o.literals(2)}
		for i := range p.module.EntryPoints {
			if p.module.EntryPoints[i].Function == target {
				p.module.EntryPoints[i].Modes = append(p.module.EntryPoints[i].Modes, mode)
			}
		}
	case spirv.OpName:
		name, _ := o.str(1)
		if s := sanitizeName(name); s != "" {
			p.module.Meta(o.id(0)).Name = s
		}
	case spirv.OpMemberName:
		name, _ := o.str(2)
		if s := sanitizeName(name); s != "" {
			p.noteMember(o, memberNote{id: o.id(0), index: o.word(1), name: s})
		}
	case spirv.OpDecorate, spirv.OpDecorateID:
		p.module.Decorate(o.id(0), spirv.Decoration(o.word(1)), o.literals(2)...)
	case spirv.OpMemberDecorate:
		p.noteMember(o, memberNote{
			id: o.id(0), index: o.word(1), dec: spirv.Decoration(o.word(2)), args: o.literals(3),
		})
	case spirv.OpDecorationGroup:
		// Decorations were recorded on the group id already.
		if err = p.define(o, o.id(0)); err == nil {
			p.labels[o.id(0)] = true
		}
	case spirv.OpGroupDecorate:
		group := p.module.Meta(o.id(0))
		for _, target := range o.ids(1) {
			for dec, args := range group.Decorations {
				p.module.Decorate(target, dec, args...)
			}
		}
	case spirv.OpGroupMemberDecorate:
		group := p.module.Meta(o.id(0))
		words := o.literals(1)
		for i := 0; i+1 < len(words); i += 2 {
			for dec, args := range group.Decorations {
				p.noteMember(o, memberNote{id: ir.ID(words[i]), index: words[i+1], dec: dec, args: args})
			}
		}
	case spirv.OpTypeVoid, spirv.OpTypeBool, spirv.OpTypeInt, spirv.OpTypeFloat, spirv.OpTypeVector,
		spirv.OpTypeMatrix, spirv.OpTypeImage, spirv.OpTypeSampler, spirv.OpTypeSampledImage,
		spirv.OpTypeArray, spirv.OpTypeRuntimeArray, spirv.OpTypeStruct, spirv.OpTypePointer,
		spirv.OpTypeFunction:
		err = p.typeDecl(o)
	case spirv.OpConstantTrue, spirv.OpConstantFalse, spirv.OpConstant, spirv.OpConstantComposite,
		spirv.OpConstantNull, spirv.OpSpecConstantTrue, spirv.OpSpecConstantFalse, spirv.OpSpecConstant,
		spirv.OpSpecConstantComposite, spirv.OpSpecConstantOp:
		err = p.constantDecl(o)
	case spirv.OpVariable:
		if p.fn == nil {
			err = p.globalVariable(o)
		} else {
			err = p.localVariable(o)
		}
	case spirv.OpUndef:
		id := o.id(1)
		if err = p.result(o, o.id(0), id); err == nil {
			p.module.Set(id, &ir.Undef{ID: id, Type: o.id(0)})
			p.module.Undefs = append(p.module.Undefs, id)
		}
	case spirv.OpFunction:
		err = p.beginFunction(o)
	case spirv.OpFunctionParameter:
		err = p.parameter(o)
	case spirv.OpFunctionEnd:
		err = p.endFunction()
	default:
		if p.fn == nil {
			return diag.Errorf(diag.ParseError, "unexpected %s at word %d outside a function",
				spirv.OpcodeName(inst.Opcode), inst.Offset)
		}
		err = p.bodyInstruction(o)
	}

	if err != nil {
		return err
	}
	return o.err
}

func (p *Parser) extInstImport(o *operands) error {
	name, _ := o.str(1)
	id := o.id(0)
	if err := p.define(o, id); err != nil {
		return err
	}
	switch {
	case name == "GLSL.std.450":
		p.extSets[id] = true
	case strings.HasPrefix(name, "NonSemantic."):
		p.extSets[id] = false
	default:
		return diag.Errorf(diag.ParseError, "unsupported extended instruction set %q", name)
	}
	p.module.Set(id, &ir.ExtInstSet{ID: id, Name: name})
	return nil
}

func (p *Parser) noteMember(o *operands, n memberNote) {
	n.op = o.inst.Opcode
	n.offset = o.inst.Offset
	p.members = append(p.members, n)
}

// applyMembers attaches member names and decorations once every struct
// type is known. The member index must exist in the struct.
func (p *Parser) applyMembers() error {
	for _, n := range p.members {
		st, ok := p.module.Inner(n.id).(ir.StructType)
		if !ok {
			return diag.Errorf(diag.ParseError, "%s at word %d: %d is not a struct type",
				spirv.OpcodeName(n.op), n.offset, n.id)
		}
		if int(n.index) >= len(st.Members) {
			return diag.Errorf(diag.ParseError, "%s at word %d: member %d out of range for struct %d with %d members",
				spirv.OpcodeName(n.op), n.offset, n.index, n.id, len(st.Members))
		}
		var err error
		if n.name != "" {
			err = p.module.NameMember(n.id, n.index, n.name)
		} else {
			err = p.module.DecorateMember(n.id, n.index, n.dec, n.args...)
		}
		if err != nil {
			return err
		}
	}
	p.members = nil
	return nil
}

// sanitizeName turns a debug name into an identifier. Mangled function
// names such as "foo(vf4;" keep the part before the parenthesis.
func sanitizeName(name string) string {
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = name[:i]
	}
	var sb strings.Builder
	for i, c := range name {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
			sb.WriteRune(c)
		case c >= '0' && c <= '9':
			if i == 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(c)
		default:
			sb.WriteByte('_')
		}
	}
	s := sb.String()
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	if s == "_" {
		return ""
	}
	return s
}

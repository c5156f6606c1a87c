// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package parser

import (
	"github.com/gogpu/spirvcross/diag"
	"github.com/gogpu/spirvcross/ir"
	"github.com/gogpu/spirvcross/spirv"
)

type mergeKind uint8

const (
	mergeNone mergeKind = iota
	mergeSelection
	mergeLoop
)

type termKind uint8

const (
	termNone termKind = iota
	termBranch
	termConditional
	termSwitch
	termReturn
	termKill
	termUnreachable
)

type switchTarget struct {
	literal uint64
	label   ir.ID
}

// rawBlock is a basic block before structurization.
type rawBlock struct {
	label ir.ID
	body  ir.Block
	phis  []ir.ID

	merge     mergeKind
	mergeID   ir.ID
	continueI ir.ID

	term      termKind
	cond      ir.ID // condition, switch selector or return value
	targets   []ir.ID
	cases     []switchTarget
	defaultID ir.ID
}

func (b *rawBlock) emit(kind ir.StatementKind) {
	b.body = append(b.body, ir.Statement{Kind: kind})
}

func (p *Parser) beginFunction(o *operands) error {
	if p.fn != nil {
		return diag.Errorf(diag.ParseError, "nested OpFunction %d", o.id(1))
	}
	f := &ir.Function{
		Result: o.id(0),
		ID:     o.id(1),
		Type:   o.id(3),
	}
	if err := p.result(o, f.Result, f.ID); err != nil {
		return err
	}
	ft, ok := p.module.Inner(f.Type).(ir.FunctionType)
	if !ok {
		return diag.Errorf(diag.ParseError, "function %d: type %d is not a function type", f.ID, f.Type)
	}
	if ft.Result != f.Result {
		return diag.Errorf(diag.ParseError, "function %d: result type %d does not match its function type", f.ID, f.Result)
	}
	p.fn = f
	p.blocks = nil
	p.cur = nil
	p.defBlock = make(map[ir.ID]int)
	p.uses = nil
	p.phiUses = nil
	p.module.Set(f.ID, f)
	p.module.Functions = append(p.module.Functions, f.ID)
	return nil
}

func (p *Parser) parameter(o *operands) error {
	if p.fn == nil || len(p.blocks) > 0 {
		return diag.Errorf(diag.ParseError, "OpFunctionParameter %d outside a function header", o.id(1))
	}
	param := &ir.Parameter{Type: o.id(0), ID: o.id(1), Function: p.fn.ID}
	if err := p.result(o, param.Type, param.ID); err != nil {
		return err
	}
	ft, _ := p.module.Inner(p.fn.Type).(ir.FunctionType)
	if len(p.fn.Params) >= len(ft.Params) || ft.Params[len(p.fn.Params)] != param.Type {
		return diag.Errorf(diag.ParseError, "function %d: parameter %d does not match its function type", p.fn.ID, param.ID)
	}
	p.module.Set(param.ID, param)
	p.fn.Params = append(p.fn.Params, param.ID)
	return nil
}

func (p *Parser) localVariable(o *operands) error {
	v := &ir.Variable{
		Type:     o.id(0),
		ID:       o.id(1),
		Storage:  spirv.StorageClass(o.word(2)),
		Function: p.fn.ID,
	}
	if o.count() > 3 {
		v.Init = o.id(3)
	}
	if v.Storage != spirv.StorageClassFunction {
		return diag.Errorf(diag.ParseError, "variable %d: %s storage inside a function", v.ID, v.Storage)
	}
	if p.cur == nil {
		return diag.Errorf(diag.ParseError, "variable %d outside a block", v.ID)
	}
	if err := p.result(o, v.Type, v.ID); err != nil {
		return err
	}
	if _, ok := p.module.Inner(v.Type).(ir.PointerType); !ok {
		return diag.Errorf(diag.ParseError, "variable %d: type %d is not a pointer", v.ID, v.Type)
	}
	if v.Init != 0 {
		if err := p.value(o, v.Init); err != nil {
			return err
		}
	}
	p.module.Set(v.ID, v)
	p.fn.Locals = append(p.fn.Locals, v.ID)
	return nil
}

func (p *Parser) endFunction() error {
	f := p.fn
	if f == nil {
		return diag.New(diag.ParseError, "OpFunctionEnd without OpFunction")
	}
	if p.cur != nil {
		return diag.Errorf(diag.ParseError, "function %d: block %d has no terminator", f.ID, p.cur.label)
	}
	if len(p.blocks) > 0 {
		g, err := newCFG(f.ID, p.blocks)
		if err != nil {
			return err
		}
		if err := p.checkFunction(g); err != nil {
			return err
		}
		body, err := structurize(p.module, f, g)
		if err != nil {
			return err
		}
		f.Body = body
	}
	p.fn = nil
	p.blocks = nil
	p.defBlock = nil
	p.uses = nil
	p.phiUses = nil
	return nil
}

// addExpr registers an expression result and emits it in the current block.
func (p *Parser) addExpr(o *operands, kind ir.ExpressionKind) error {
	id := o.id(1)
	if err := p.result(o, o.id(0), id); err != nil {
		return err
	}
	if err := p.use(o, ir.Operands(kind)...); err != nil {
		return err
	}
	p.module.Set(id, &ir.Expression{ID: id, Type: o.id(0), Kind: kind, Function: p.fn.ID})
	p.defBlock[id] = len(p.blocks)
	p.cur.emit(ir.StmtEmit{Expr: id})
	return nil
}

// emit appends a statement to the current block after checking the
// values it reads.
func (p *Parser) emit(o *operands, kind ir.StatementKind) error {
	if err := p.use(o, ir.StatementOperands(kind)...); err != nil {
		return err
	}
	p.cur.emit(kind)
	return nil
}

// terminate ends the current block. Value operands of the terminator
// are checked like any other use.
func (p *Parser) terminate(o *operands, kind termKind, values ...ir.ID) error {
	if err := p.use(o, values...); err != nil {
		return err
	}
	p.cur.term = kind
	p.blocks = append(p.blocks, p.cur)
	p.cur = nil
	return nil
}

// bodyInstruction decodes an instruction inside a function body.
//
//nolint:gocyclo,cyclop,funlen // one case per opcode family
func (p *Parser) bodyInstruction(o *operands) error {
	op := o.inst.Opcode
	if op == spirv.OpLabel {
		if p.cur != nil {
			return diag.Errorf(diag.ParseError, "block %d has no terminator", p.cur.label)
		}
		if err := p.define(o, o.id(0)); err != nil {
			return err
		}
		p.labels[o.id(0)] = true
		p.cur = &rawBlock{label: o.id(0)}
		return nil
	}
	if p.cur == nil {
		return diag.Errorf(diag.ParseError, "%s at word %d outside a block", spirv.OpcodeName(op), o.inst.Offset)
	}

	switch op {
	// Control flow
	case spirv.OpSelectionMerge:
		p.cur.merge = mergeSelection
		p.cur.mergeID = o.id(0)
	case spirv.OpLoopMerge:
		p.cur.merge = mergeLoop
		p.cur.mergeID = o.id(0)
		p.cur.continueI = o.id(1)
	case spirv.OpBranch:
		p.cur.targets = []ir.ID{o.id(0)}
		return p.terminate(o, termBranch)
	case spirv.OpBranchConditional:
		p.cur.cond = o.id(0)
		p.cur.targets = []ir.ID{o.id(1), o.id(2)}
		return p.terminate(o, termConditional, p.cur.cond)
	case spirv.OpSwitch:
		return p.switchTerminator(o)
	case spirv.OpReturn:
		return p.terminate(o, termReturn)
	case spirv.OpReturnValue:
		p.cur.cond = o.id(0)
		return p.terminate(o, termReturn, p.cur.cond)
	case spirv.OpKill, spirv.OpTerminateInvocation:
		return p.terminate(o, termKill)
	case spirv.OpUnreachable:
		return p.terminate(o, termUnreachable)
	case spirv.OpPhi:
		return p.phi(o)

	// Memory
	case spirv.OpLoad:
		return p.addExpr(o, ir.ExprLoad{Pointer: o.id(2)})
	case spirv.OpStore:
		return p.emit(o, ir.StmtStore{Pointer: o.id(0), Value: o.id(1)})
	case spirv.OpCopyMemory:
		return p.emit(o, ir.StmtCopyMemory{Target: o.id(0), Source: o.id(1)})
	case spirv.OpAccessChain, spirv.OpInBoundsAccessChain:
		return p.addExpr(o, ir.ExprAccessChain{Base: o.id(2), Indices: o.ids(3)})
	case spirv.OpArrayLength:
		return p.addExpr(o, ir.ExprArrayLength{Structure: o.id(2), Member: o.word(3)})

	// Composites
	case spirv.OpCompositeConstruct:
		return p.addExpr(o, p.construct(o.id(0), o.ids(2)))
	case spirv.OpCompositeExtract:
		return p.addExpr(o, ir.ExprCompositeExtract{Composite: o.id(2), Indices: o.literals(3)})
	case spirv.OpCompositeInsert:
		return p.addExpr(o, ir.ExprCompositeInsert{Object: o.id(2), Composite: o.id(3), Indices: o.literals(4)})
	case spirv.OpVectorShuffle:
		return p.addExpr(o, ir.ExprVectorShuffle{A: o.id(2), B: o.id(3), Components: o.literals(4)})
	case spirv.OpVectorExtractDynamic:
		return p.addExpr(o, ir.ExprVectorExtractDynamic{Vector: o.id(2), Index: o.id(3)})
	case spirv.OpVectorInsertDynamic:
		return p.addExpr(o, ir.ExprVectorInsertDynamic{Vector: o.id(2), Component: o.id(3), Index: o.id(4)})
	case spirv.OpCopyObject, spirv.OpCopyLogical:
		return p.addExpr(o, ir.ExprCopy{Value: o.id(2)})
	case spirv.OpTranspose:
		return p.addExpr(o, ir.ExprIntrinsic{Op: ir.IntrinsicTranspose, Args: o.ids(2)})

	// Arithmetic, logic and conversions
	case spirv.OpSelect:
		return p.addExpr(o, ir.ExprSelect{Condition: o.id(2), Accept: o.id(3), Reject: o.id(4)})
	case spirv.OpConvertFToU, spirv.OpConvertFToS, spirv.OpFConvert:
		return p.addExpr(o, ir.ExprConvert{Operand: o.id(2)})
	case spirv.OpConvertSToF, spirv.OpSConvert:
		return p.addExpr(o, ir.ExprConvert{Operand: o.id(2), Source: ir.SignSigned})
	case spirv.OpConvertUToF, spirv.OpUConvert:
		return p.addExpr(o, ir.ExprConvert{Operand: o.id(2), Source: ir.SignUnsigned})
	case spirv.OpBitcast:
		return p.addExpr(o, ir.ExprBitcast{Operand: o.id(2)})
	case spirv.OpExtInst:
		set, known := p.extSets[o.id(2)]
		if !known {
			return diag.Errorf(diag.ParseError, "OpExtInst %d uses unknown set %d", o.id(1), o.id(2))
		}
		if !set {
			return nil
		}
		return p.addExpr(o, ir.ExprExtInst{Inst: spirv.GLSLstd450(o.word(3)), Args: o.ids(4)})

	// Images
	case spirv.OpSampledImage:
		return p.addExpr(o, ir.ExprSampledImage{Image: o.id(2), Sampler: o.id(3)})
	case spirv.OpImage:
		return p.addExpr(o, ir.ExprImage{SampledImage: o.id(2)})
	case spirv.OpImageSampleImplicitLod, spirv.OpImageSampleExplicitLod,
		spirv.OpImageSampleProjImplicitLod, spirv.OpImageSampleProjExplicitLod:
		return p.addExpr(o, ir.ExprImageSample{
			SampledImage: o.id(2),
			Coordinate:   o.id(3),
			Proj:         op == spirv.OpImageSampleProjImplicitLod || op == spirv.OpImageSampleProjExplicitLod,
			Operands:     imageOperands(o, 4),
		})
	case spirv.OpImageSampleDrefImplicitLod, spirv.OpImageSampleDrefExplicitLod,
		spirv.OpImageSampleProjDrefImplicitLod, spirv.OpImageSampleProjDrefExplicitLod:
		return p.addExpr(o, ir.ExprImageSample{
			SampledImage: o.id(2),
			Coordinate:   o.id(3),
			Dref:         o.id(4),
			Proj:         op == spirv.OpImageSampleProjDrefImplicitLod || op == spirv.OpImageSampleProjDrefExplicitLod,
			Operands:     imageOperands(o, 5),
		})
	case spirv.OpImageFetch:
		return p.addExpr(o, ir.ExprImageFetch{Image: o.id(2), Coordinate: o.id(3), Operands: imageOperands(o, 4)})
	case spirv.OpImageGather:
		return p.addExpr(o, ir.ExprImageGather{
			SampledImage: o.id(2), Coordinate: o.id(3), Component: o.id(4), Operands: imageOperands(o, 5),
		})
	case spirv.OpImageDrefGather:
		return p.addExpr(o, ir.ExprImageGather{
			SampledImage: o.id(2), Coordinate: o.id(3), Dref: o.id(4), Operands: imageOperands(o, 5),
		})
	case spirv.OpImageRead:
		ops := imageOperands(o, 4)
		return p.addExpr(o, ir.ExprImageRead{Image: o.id(2), Coordinate: o.id(3), Sample: ops.Sample})
	case spirv.OpImageWrite:
		return p.emit(o, ir.StmtImageWrite{Image: o.id(0), Coordinate: o.id(1), Texel: o.id(2)})
	case spirv.OpImageQuerySize:
		return p.addExpr(o, ir.ExprImageQuery{Query: ir.ImageQuerySize, Image: o.id(2)})
	case spirv.OpImageQuerySizeLod:
		return p.addExpr(o, ir.ExprImageQuery{Query: ir.ImageQuerySizeLod, Image: o.id(2), Lod: o.id(3)})
	case spirv.OpImageQueryLevels:
		return p.addExpr(o, ir.ExprImageQuery{Query: ir.ImageQueryLevels, Image: o.id(2)})
	case spirv.OpImageQuerySamples:
		return p.addExpr(o, ir.ExprImageQuery{Query: ir.ImageQuerySamples, Image: o.id(2)})
	case spirv.OpImageQueryLod:
		return p.addExpr(o, ir.ExprImageQuery{Query: ir.ImageQueryLod, Image: o.id(2), Coordinate: o.id(3)})

	// Calls
	case spirv.OpFunctionCall:
		return p.call(o)

	// Synchronization
	case spirv.OpControlBarrier, spirv.OpMemoryBarrier:
		return p.barrier(o)
	case spirv.OpAtomicStore:
		return p.emit(o, ir.StmtAtomicStore{Pointer: o.id(0), Value: o.id(3)})
	case spirv.OpAtomicLoad, spirv.OpAtomicExchange, spirv.OpAtomicCompareExchange,
		spirv.OpAtomicCompareExchangeWeak, spirv.OpAtomicIIncrement, spirv.OpAtomicIDecrement,
		spirv.OpAtomicIAdd, spirv.OpAtomicISub, spirv.OpAtomicSMin, spirv.OpAtomicUMin,
		spirv.OpAtomicSMax, spirv.OpAtomicUMax, spirv.OpAtomicAnd, spirv.OpAtomicOr, spirv.OpAtomicXor:
		return p.addExpr(o, atomic(o))

	default:
		if kind, ok := arithmetic(o); ok {
			return p.addExpr(o, kind)
		}
		return diag.Errorf(diag.ParseError, "unsupported instruction %s at word %d", spirv.OpcodeName(op), o.inst.Offset)
	}
	return nil
}

func (p *Parser) switchTerminator(o *operands) error {
	p.cur.cond = o.id(0)
	p.cur.defaultID = o.id(1)
	if err := p.use(o, p.cur.cond); err != nil {
		return err
	}

	width := 4
	if s, ok := p.module.ScalarOf(p.module.TypeOf(p.cur.cond)); ok {
		width = int(s.Width)
	}
	step := 2
	if width == 8 {
		step = 3
	}
	words := o.literals(2)
	for i := 0; i+step <= len(words); i += step {
		lit := uint64(words[i])
		if step == 3 {
			lit |= uint64(words[i+1]) << 32
		}
		p.cur.cases = append(p.cur.cases, switchTarget{literal: lit, label: ir.ID(words[i+step-1])})
	}
	if len(words)%step != 0 {
		return diag.Errorf(diag.ParseError, "OpSwitch at word %d has a truncated case list", o.inst.Offset)
	}
	return p.terminate(o, termSwitch)
}

// phi records a phi result. Its operands may be defined later in the
// function and are checked when the function ends.
func (p *Parser) phi(o *operands) error {
	id := o.id(1)
	if err := p.result(o, o.id(0), id); err != nil {
		return err
	}
	words := o.literals(2)
	if len(words)%2 != 0 {
		return p.errorAt(o, "odd number of operands")
	}
	incoming := make([]ir.PhiIncoming, 0, len(words)/2)
	for i := 0; i+1 < len(words); i += 2 {
		in := ir.PhiIncoming{Value: ir.ID(words[i]), Block: ir.ID(words[i+1])}
		incoming = append(incoming, in)
		p.phiUses = append(p.phiUses, blockUse{block: len(p.blocks), id: in.Value, offset: o.inst.Offset})
	}
	p.module.Set(id, &ir.Expression{ID: id, Type: o.id(0), Kind: ir.ExprPhi{Incoming: incoming}, Function: p.fn.ID})
	p.defBlock[id] = len(p.blocks)
	p.cur.phis = append(p.cur.phis, id)
	p.fn.Phis = append(p.fn.Phis, id)
	return nil
}

// call decodes OpFunctionCall. Calls to void functions are statements.
func (p *Parser) call(o *operands) error {
	callee, args := o.id(2), o.ids(3)
	if err := p.typeRef(o, o.id(0)); err != nil {
		return err
	}
	p.calls = append(p.calls, callNote{callee: callee, result: o.id(0), args: len(args), offset: o.inst.Offset})
	p.noteCall(callee)
	if _, void := p.module.Inner(o.id(0)).(ir.VoidType); void {
		return p.emit(o, ir.StmtCall{Function: callee, Args: args})
	}
	return p.addExpr(o, ir.ExprCall{Function: callee, Args: args})
}

// barrier decodes OpControlBarrier and OpMemoryBarrier. Their scope
// and semantics operands are constant ids.
func (p *Parser) barrier(o *operands) error {
	var words []uint32
	for i := 0; i < o.count(); i++ {
		v, err := p.literalConst(o, i)
		if err != nil {
			return err
		}
		words = append(words, v)
	}
	if o.inst.Opcode == spirv.OpControlBarrier {
		if len(words) != 3 {
			return p.errorAt(o, "expected 3 operands, got %d", len(words))
		}
		return p.emit(o, ir.StmtBarrier{
			Control:   true,
			Execution: spirv.Scope(words[0]),
			Memory:    spirv.Scope(words[1]),
			Semantics: spirv.MemorySemantics(words[2]),
		})
	}
	if len(words) != 2 {
		return p.errorAt(o, "expected 2 operands, got %d", len(words))
	}
	return p.emit(o, ir.StmtBarrier{Memory: spirv.Scope(words[0]), Semantics: spirv.MemorySemantics(words[1])})
}

func (p *Parser) noteCall(callee ir.ID) {
	for _, c := range p.fn.Calls {
		if c == callee {
			return
		}
	}
	p.fn.Calls = append(p.fn.Calls, callee)
}

// construct recognizes splats: vectors built from one repeated scalar.
func (p *Parser) construct(resultType ir.ID, components []ir.ID) ir.ExpressionKind {
	if vec, ok := p.module.Inner(resultType).(ir.VectorType); ok && len(components) == int(vec.Size) {
		same := true
		for _, c := range components[1:] {
			if c != components[0] {
				same = false
				break
			}
		}
		_, scalar := p.module.Inner(p.module.TypeOf(components[0])).(ir.ScalarType)
		if same && scalar {
			return ir.ExprSplat{Value: components[0]}
		}
	}
	return ir.ExprCompositeConstruct{Components: components}
}

// imageOperands decodes the optional image operand mask starting at word i.
func imageOperands(o *operands, i int) ir.ImageOperands {
	var out ir.ImageOperands
	if i >= o.count() {
		return out
	}
	mask := spirv.ImageOperands(o.word(i))
	next := i + 1
	take := func() ir.ID {
		id := o.id(next)
		next++
		return id
	}
	if mask&spirv.ImageOperandsBias != 0 {
		out.Bias = take()
	}
	if mask&spirv.ImageOperandsLod != 0 {
		out.Lod = take()
	}
	if mask&spirv.ImageOperandsGrad != 0 {
		out.GradX = take()
		out.GradY = take()
	}
	if mask&spirv.ImageOperandsConstOffset != 0 {
		out.Offset = take()
		out.ConstOffset = true
	}
	if mask&spirv.ImageOperandsOffset != 0 {
		out.Offset = take()
	}
	if mask&spirv.ImageOperandsConstOffsets != 0 {
		take()
	}
	if mask&spirv.ImageOperandsSample != 0 {
		out.Sample = take()
	}
	if mask&spirv.ImageOperandsMinLod != 0 {
		out.MinLod = take()
	}
	return out
}

func atomic(o *operands) ir.ExprAtomic {
	a := ir.ExprAtomic{Pointer: o.id(2)}
	switch o.inst.Opcode {
	case spirv.OpAtomicLoad:
		a.Op = ir.AtomicLoad
	case spirv.OpAtomicExchange:
		a.Op, a.Value = ir.AtomicExchange, o.id(5)
	case spirv.OpAtomicCompareExchange, spirv.OpAtomicCompareExchangeWeak:
		a.Op, a.Value, a.Comparator = ir.AtomicCompareExchange, o.id(6), o.id(7)
	case spirv.OpAtomicIIncrement:
		a.Op = ir.AtomicIncrement
	case spirv.OpAtomicIDecrement:
		a.Op = ir.AtomicDecrement
	case spirv.OpAtomicIAdd:
		a.Op, a.Value = ir.AtomicAdd, o.id(5)
	case spirv.OpAtomicISub:
		a.Op, a.Value = ir.AtomicSubtract, o.id(5)
	case spirv.OpAtomicSMin:
		a.Op, a.Sign, a.Value = ir.AtomicMin, ir.SignSigned, o.id(5)
	case spirv.OpAtomicUMin:
		a.Op, a.Sign, a.Value = ir.AtomicMin, ir.SignUnsigned, o.id(5)
	case spirv.OpAtomicSMax:
		a.Op, a.Sign, a.Value = ir.AtomicMax, ir.SignSigned, o.id(5)
	case spirv.OpAtomicUMax:
		a.Op, a.Sign, a.Value = ir.AtomicMax, ir.SignUnsigned, o.id(5)
	case spirv.OpAtomicAnd:
		a.Op, a.Value = ir.AtomicAnd, o.id(5)
	case spirv.OpAtomicOr:
		a.Op, a.Value = ir.AtomicOr, o.id(5)
	case spirv.OpAtomicXor:
		a.Op, a.Value = ir.AtomicExclusiveOr, o.id(5)
	}
	return a
}

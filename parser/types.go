// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package parser

import (
	"fortio.org/safecast"

	"github.com/gogpu/spirvcross/diag"
	"github.com/gogpu/spirvcross/ir"
	"github.com/gogpu/spirvcross/spirv"
)

// typeDecl decodes an OpType* instruction.
//
//nolint:gocyclo,cyclop,funlen // one case per type opcode
func (p *Parser) typeDecl(o *operands) error {
	id := o.id(0)
	if err := p.define(o, id); err != nil {
		return err
	}
	var inner ir.TypeInner

	switch o.inst.Opcode {
	case spirv.OpTypeVoid:
		inner = ir.VoidType{}
	case spirv.OpTypeBool:
		inner = ir.ScalarType{Kind: ir.ScalarBool, Width: 1}
	case spirv.OpTypeInt:
		width, err := byteWidth(o.word(1))
		if err != nil {
			return err
		}
		kind := ir.ScalarUint
		if o.word(2) != 0 {
			kind = ir.ScalarSint
		}
		inner = ir.ScalarType{Kind: kind, Width: width}
	case spirv.OpTypeFloat:
		width, err := byteWidth(o.word(1))
		if err != nil {
			return err
		}
		inner = ir.ScalarType{Kind: ir.ScalarFloat, Width: width}
	case spirv.OpTypeVector:
		scalar, ok := p.module.Inner(o.id(1)).(ir.ScalarType)
		if !ok {
			return diag.Errorf(diag.ParseError, "vector type %d: component %d is not a scalar", id, o.id(1))
		}
		size := o.word(2)
		if size < 2 || size > 4 {
			return diag.Errorf(diag.ParseError, "vector type %d: unsupported size %d", id, size)
		}
		inner = ir.VectorType{Size: uint8(size), Scalar: scalar}
	case spirv.OpTypeMatrix:
		col, ok := p.module.Inner(o.id(1)).(ir.VectorType)
		if !ok {
			return diag.Errorf(diag.ParseError, "matrix type %d: column %d is not a vector", id, o.id(1))
		}
		cols := o.word(2)
		if cols < 2 || cols > 4 {
			return diag.Errorf(diag.ParseError, "matrix type %d: unsupported column count %d", id, cols)
		}
		inner = ir.MatrixType{Columns: uint8(cols), Rows: col.Size, Scalar: col.Scalar}
	case spirv.OpTypeImage:
		if err := p.typeRef(o, o.id(1)); err != nil {
			return err
		}
		scalar, _ := p.module.Inner(o.id(1)).(ir.ScalarType)
		inner = ir.ImageType{
			SampledType:  scalar,
			Dim:          spirv.Dim(o.word(2)),
			Depth:        o.word(3) == 1,
			Arrayed:      o.word(4) != 0,
			Multisampled: o.word(5) != 0,
			Sampled:      o.word(6),
			Format:       spirv.ImageFormat(o.word(7)),
		}
	case spirv.OpTypeSampler:
		inner = ir.SamplerType{}
	case spirv.OpTypeSampledImage:
		if _, ok := p.module.Inner(o.id(1)).(ir.ImageType); !ok {
			return diag.Errorf(diag.ParseError, "sampled image type %d: %d is not an image type", id, o.id(1))
		}
		inner = ir.SampledImageType{Image: o.id(1)}
	case spirv.OpTypeArray:
		if err := p.typeRef(o, o.id(1)); err != nil {
			return err
		}
		lengthID := o.id(2)
		c := p.module.Constant(lengthID)
		if c == nil {
			return diag.Errorf(diag.ParseError, "array type %d: length %d is not a constant", id, lengthID)
		}
		sv, ok := c.Value.(ir.ScalarValue)
		if !ok {
			return diag.Errorf(diag.ParseError, "array type %d: length %d is not a scalar constant", id, lengthID)
		}
		length, err := safecast.Conv[uint32](sv.Bits)
		if err != nil {
			return diag.Errorf(diag.ParseError, "array type %d: length %d too large", id, sv.Bits)
		}
		inner = ir.ArrayType{Base: o.id(1), Length: length, LengthID: lengthID}
	case spirv.OpTypeRuntimeArray:
		if err := p.typeRef(o, o.id(1)); err != nil {
			return err
		}
		inner = ir.ArrayType{Base: o.id(1), Runtime: true}
	case spirv.OpTypeStruct:
		ids := o.ids(1)
		if err := p.typeRef(o, ids...); err != nil {
			return err
		}
		members := make([]ir.StructMember, 0, len(ids))
		for _, m := range ids {
			members = append(members, ir.StructMember{Type: m})
		}
		inner = ir.StructType{Members: members}
	case spirv.OpTypePointer:
		if err := p.typeRef(o, o.id(2)); err != nil {
			return err
		}
		inner = ir.PointerType{Storage: spirv.StorageClass(o.word(1)), Base: o.id(2)}
	case spirv.OpTypeFunction:
		if err := p.typeRef(o, append([]ir.ID{o.id(1)}, o.ids(2)...)...); err != nil {
			return err
		}
		inner = ir.FunctionType{Result: o.id(1), Params: o.ids(2)}
	}

	if o.err != nil {
		return o.err
	}
	p.module.Set(id, &ir.Type{ID: id, Inner: inner})
	p.module.Types = append(p.module.Types, id)
	return nil
}

func byteWidth(bits uint32) (uint8, error) {
	switch bits {
	case 8, 16, 32, 64:
		return uint8(bits / 8), nil
	}
	return 0, diag.Errorf(diag.ParseError, "unsupported scalar width %d", bits)
}

// constantDecl decodes constants and specialization constants.
func (p *Parser) constantDecl(o *operands) error {
	c := &ir.Constant{Type: o.id(0), ID: o.id(1)}
	if err := p.result(o, c.Type, c.ID); err != nil {
		return err
	}

	switch o.inst.Opcode {
	case spirv.OpConstantTrue, spirv.OpSpecConstantTrue:
		c.Value = ir.ScalarValue{Bits: 1}
	case spirv.OpConstantFalse, spirv.OpSpecConstantFalse:
		c.Value = ir.ScalarValue{Bits: 0}
	case spirv.OpConstant, spirv.OpSpecConstant:
		bits := uint64(o.word(2))
		if o.count() > 3 {
			bits |= uint64(o.word(3)) << 32
		}
		c.Value = ir.ScalarValue{Bits: bits}
	case spirv.OpConstantComposite, spirv.OpSpecConstantComposite:
		components := o.ids(2)
		if err := p.constRef(o, components...); err != nil {
			return err
		}
		c.Value = ir.CompositeValue{Components: components}
	case spirv.OpConstantNull:
		c.Value = ir.NullValue{}
	case spirv.OpSpecConstantOp:
		v, err := specOp(o)
		if err != nil {
			return err
		}
		if err := p.constRef(o, v.Operands...); err != nil {
			return err
		}
		c.Value = v
	}

	switch o.inst.Opcode {
	case spirv.OpSpecConstantTrue, spirv.OpSpecConstantFalse, spirv.OpSpecConstant,
		spirv.OpSpecConstantComposite, spirv.OpSpecConstantOp:
		c.Spec = true
	}

	if o.err != nil {
		return o.err
	}
	p.module.Set(c.ID, c)
	p.module.Constants = append(p.module.Constants, c.ID)
	return nil
}

// specOp decodes the OpSpecConstantOp subset that GLSL can express as a
// constant expression.
func specOp(o *operands) (ir.SpecOpValue, error) {
	op := spirv.OpCode(o.word(2)) //nolint:gosec // opcodes are 16-bit
	v := ir.SpecOpValue{Op: op}

	switch op {
	case spirv.OpSConvert, spirv.OpUConvert, spirv.OpFConvert,
		spirv.OpSNegate, spirv.OpNot, spirv.OpIAdd, spirv.OpISub, spirv.OpIMul,
		spirv.OpUDiv, spirv.OpSDiv, spirv.OpUMod, spirv.OpSRem, spirv.OpSMod,
		spirv.OpShiftRightLogical, spirv.OpShiftRightArithmetic, spirv.OpShiftLeftLogical,
		spirv.OpBitwiseOr, spirv.OpBitwiseXor, spirv.OpBitwiseAnd,
		spirv.OpLogicalOr, spirv.OpLogicalAnd, spirv.OpLogicalNot,
		spirv.OpLogicalEqual, spirv.OpLogicalNotEqual, spirv.OpSelect,
		spirv.OpIEqual, spirv.OpINotEqual, spirv.OpULessThan, spirv.OpSLessThan,
		spirv.OpUGreaterThan, spirv.OpSGreaterThan, spirv.OpULessThanEqual,
		spirv.OpSLessThanEqual, spirv.OpUGreaterThanEqual, spirv.OpSGreaterThanEqual:
		v.Operands = o.ids(3)
	case spirv.OpCompositeExtract:
		v.Operands = []ir.ID{o.id(3)}
		v.Literals = o.literals(4)
	case spirv.OpCompositeInsert:
		v.Operands = []ir.ID{o.id(3), o.id(4)}
		v.Literals = o.literals(5)
	case spirv.OpVectorShuffle:
		v.Operands = []ir.ID{o.id(3), o.id(4)}
		v.Literals = o.literals(5)
	default:
		return v, diag.Errorf(diag.ParseError, "spec constant %d: unsupported operation %s", o.id(1), op)
	}
	return v, o.err
}

func (p *Parser) globalVariable(o *operands) error {
	v := &ir.Variable{
		Type:    o.id(0),
		ID:      o.id(1),
		Storage: spirv.StorageClass(o.word(2)),
	}
	if o.count() > 3 {
		v.Init = o.id(3)
	}
	if err := p.define(o, v.ID); err != nil {
		return err
	}
	if v.Init != 0 {
		if err := p.value(o, v.Init); err != nil {
			return err
		}
	}
	if _, ok := p.module.Inner(v.Type).(ir.PointerType); !ok {
		return diag.Errorf(diag.ParseError, "variable %d: type %d is not a pointer", v.ID, v.Type)
	}
	switch v.Storage {
	case spirv.StorageClassFunction:
		return diag.Errorf(diag.ParseError, "variable %d: Function storage at module scope", v.ID)
	case spirv.StorageClassGeneric, spirv.StorageClassCrossWorkgroup:
		return diag.Errorf(diag.ParseError, "variable %d: unsupported storage class %s", v.ID, v.Storage)
	}
	p.module.Set(v.ID, v)
	p.module.Globals = append(p.module.Globals, v.ID)
	return nil
}

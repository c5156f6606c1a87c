// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package parser

import (
	"github.com/gogpu/spirvcross/ir"
	"github.com/gogpu/spirvcross/spirv"
)

type binaryOp struct {
	op   ir.BinaryOperator
	sign ir.Sign
}

var binaryOps = map[spirv.OpCode]binaryOp{
	spirv.OpIAdd:                   {ir.BinaryAdd, ir.SignAny},
	spirv.OpFAdd:                   {ir.BinaryAdd, ir.SignAny},
	spirv.OpISub:                   {ir.BinarySubtract, ir.SignAny},
	spirv.OpFSub:                   {ir.BinarySubtract, ir.SignAny},
	spirv.OpIMul:                   {ir.BinaryMultiply, ir.SignAny},
	spirv.OpFMul:                   {ir.BinaryMultiply, ir.SignAny},
	spirv.OpVectorTimesScalar:      {ir.BinaryMultiply, ir.SignAny},
	spirv.OpMatrixTimesScalar:      {ir.BinaryMultiply, ir.SignAny},
	spirv.OpVectorTimesMatrix:      {ir.BinaryMultiply, ir.SignAny},
	spirv.OpMatrixTimesVector:      {ir.BinaryMultiply, ir.SignAny},
	spirv.OpMatrixTimesMatrix:      {ir.BinaryMultiply, ir.SignAny},
	spirv.OpUDiv:                   {ir.BinaryDivide, ir.SignUnsigned},
	spirv.OpSDiv:                   {ir.BinaryDivide, ir.SignSigned},
	spirv.OpFDiv:                   {ir.BinaryDivide, ir.SignAny},
	spirv.OpUMod:                   {ir.BinaryModulo, ir.SignUnsigned},
	spirv.OpSRem:                   {ir.BinaryModulo, ir.SignSigned},
	spirv.OpSMod:                   {ir.BinaryModulo, ir.SignSigned},
	spirv.OpFMod:                   {ir.BinaryFMod, ir.SignAny},
	spirv.OpFRem:                   {ir.BinaryFRem, ir.SignAny},
	spirv.OpIEqual:                 {ir.BinaryEqual, ir.SignAny},
	spirv.OpFOrdEqual:              {ir.BinaryEqual, ir.SignAny},
	spirv.OpFUnordEqual:            {ir.BinaryEqual, ir.SignAny},
	spirv.OpLogicalEqual:           {ir.BinaryEqual, ir.SignAny},
	spirv.OpINotEqual:              {ir.BinaryNotEqual, ir.SignAny},
	spirv.OpFOrdNotEqual:           {ir.BinaryNotEqual, ir.SignAny},
	spirv.OpFUnordNotEqual:         {ir.BinaryNotEqual, ir.SignAny},
	spirv.OpLogicalNotEqual:        {ir.BinaryNotEqual, ir.SignAny},
	spirv.OpULessThan:              {ir.BinaryLess, ir.SignUnsigned},
	spirv.OpSLessThan:              {ir.BinaryLess, ir.SignSigned},
	spirv.OpFOrdLessThan:           {ir.BinaryLess, ir.SignAny},
	spirv.OpFUnordLessThan:         {ir.BinaryLess, ir.SignAny},
	spirv.OpULessThanEqual:         {ir.BinaryLessEqual, ir.SignUnsigned},
	spirv.OpSLessThanEqual:         {ir.BinaryLessEqual, ir.SignSigned},
	spirv.OpFOrdLessThanEqual:      {ir.BinaryLessEqual, ir.SignAny},
	spirv.OpFUnordLessThanEqual:    {ir.BinaryLessEqual, ir.SignAny},
	spirv.OpUGreaterThan:           {ir.BinaryGreater, ir.SignUnsigned},
	spirv.OpSGreaterThan:           {ir.BinaryGreater, ir.SignSigned},
	spirv.OpFOrdGreaterThan:        {ir.BinaryGreater, ir.SignAny},
	spirv.OpFUnordGreaterThan:      {ir.BinaryGreater, ir.SignAny},
	spirv.OpUGreaterThanEqual:      {ir.BinaryGreaterEqual, ir.SignUnsigned},
	spirv.OpSGreaterThanEqual:      {ir.BinaryGreaterEqual, ir.SignSigned},
	spirv.OpFOrdGreaterThanEqual:   {ir.BinaryGreaterEqual, ir.SignAny},
	spirv.OpFUnordGreaterThanEqual: {ir.BinaryGreaterEqual, ir.SignAny},
	spirv.OpBitwiseAnd:             {ir.BinaryAnd, ir.SignAny},
	spirv.OpBitwiseOr:              {ir.BinaryInclusiveOr, ir.SignAny},
	spirv.OpBitwiseXor:             {ir.BinaryExclusiveOr, ir.SignAny},
	spirv.OpLogicalAnd:             {ir.BinaryLogicalAnd, ir.SignAny},
	spirv.OpLogicalOr:              {ir.BinaryLogicalOr, ir.SignAny},
	spirv.OpShiftLeftLogical:       {ir.BinaryShiftLeft, ir.SignAny},
	spirv.OpShiftRightLogical:      {ir.BinaryShiftRight, ir.SignUnsigned},
	spirv.OpShiftRightArithmetic:   {ir.BinaryShiftRight, ir.SignSigned},
}

var intrinsicOps = map[spirv.OpCode]ir.Intrinsic{
	spirv.OpDot:              ir.IntrinsicDot,
	spirv.OpOuterProduct:     ir.IntrinsicOuterProduct,
	spirv.OpAny:              ir.IntrinsicAny,
	spirv.OpAll:              ir.IntrinsicAll,
	spirv.OpIsNan:            ir.IntrinsicIsNan,
	spirv.OpIsInf:            ir.IntrinsicIsInf,
	spirv.OpBitCount:         ir.IntrinsicBitCount,
	spirv.OpBitReverse:       ir.IntrinsicBitReverse,
	spirv.OpBitFieldInsert:   ir.IntrinsicBitFieldInsert,
	spirv.OpBitFieldSExtract: ir.IntrinsicBitFieldSExtract,
	spirv.OpBitFieldUExtract: ir.IntrinsicBitFieldUExtract,
	spirv.OpDPdx:             ir.IntrinsicDPdx,
	spirv.OpDPdy:             ir.IntrinsicDPdy,
	spirv.OpFwidth:           ir.IntrinsicFwidth,
	spirv.OpDPdxFine:         ir.IntrinsicDPdxFine,
	spirv.OpDPdyFine:         ir.IntrinsicDPdyFine,
	spirv.OpFwidthFine:       ir.IntrinsicFwidthFine,
	spirv.OpDPdxCoarse:       ir.IntrinsicDPdxCoarse,
	spirv.OpDPdyCoarse:       ir.IntrinsicDPdyCoarse,
	spirv.OpFwidthCoarse:     ir.IntrinsicFwidthCoarse,
}

// arithmetic decodes unary, binary and intrinsic value instructions.
func arithmetic(o *operands) (ir.ExpressionKind, bool) {
	op := o.inst.Opcode
	if b, ok := binaryOps[op]; ok {
		return ir.ExprBinary{Op: b.op, Sign: b.sign, Left: o.id(2), Right: o.id(3)}, true
	}
	if in, ok := intrinsicOps[op]; ok {
		return ir.ExprIntrinsic{Op: in, Args: o.ids(2)}, true
	}
	switch op {
	case spirv.OpSNegate:
		return ir.ExprUnary{Op: ir.UnaryNegate, Sign: ir.SignSigned, Operand: o.id(2)}, true
	case spirv.OpFNegate:
		return ir.ExprUnary{Op: ir.UnaryNegate, Operand: o.id(2)}, true
	case spirv.OpNot:
		return ir.ExprUnary{Op: ir.UnaryBitwiseNot, Operand: o.id(2)}, true
	case spirv.OpLogicalNot:
		return ir.ExprUnary{Op: ir.UnaryLogicalNot, Operand: o.id(2)}, true
	}
	return nil, false
}

// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"github.com/gogpu/spirvcross/diag"
	"github.com/gogpu/spirvcross/ir"
	"github.com/gogpu/spirvcross/spirv"
)

// requirement is the first desktop and ES version with a feature. Zero
// means the profile has no such version.
type requirement struct {
	desktop, es int
}

var (
	needCompute      = requirement{430, 310}
	needStorage      = requirement{430, 310}
	needStorageImage = requirement{420, 310}
	needIntegers     = requirement{130, 300}
	needBitcast      = requirement{330, 300}
	needDouble       = requirement{400, 0}
	needArrayCtor    = requirement{120, 300}
	needTextureLod   = requirement{130, 300}
	needGather       = requirement{400, 310}
)

// extInstVersions lists GLSL.std.450 instructions that are newer than
// GLSL 1.10.
var extInstVersions = map[spirv.GLSLstd450]requirement{
	spirv.GLSLstd450Round:                 {130, 300},
	spirv.GLSLstd450RoundEven:             {130, 300},
	spirv.GLSLstd450Trunc:                 {130, 300},
	spirv.GLSLstd450Modf:                  {130, 300},
	spirv.GLSLstd450Sinh:                  {130, 300},
	spirv.GLSLstd450Cosh:                  {130, 300},
	spirv.GLSLstd450Tanh:                  {130, 300},
	spirv.GLSLstd450Asinh:                 {130, 300},
	spirv.GLSLstd450Acosh:                 {130, 300},
	spirv.GLSLstd450Atanh:                 {130, 300},
	spirv.GLSLstd450SAbs:                  {130, 300},
	spirv.GLSLstd450SSign:                 {130, 300},
	spirv.GLSLstd450SMin:                  {130, 300},
	spirv.GLSLstd450UMin:                  {130, 300},
	spirv.GLSLstd450SMax:                  {130, 300},
	spirv.GLSLstd450UMax:                  {130, 300},
	spirv.GLSLstd450SClamp:                {130, 300},
	spirv.GLSLstd450UClamp:                {130, 300},
	spirv.GLSLstd450IMix:                  {450, 310},
	spirv.GLSLstd450MatrixInverse:         {140, 300},
	spirv.GLSLstd450Determinant:           {150, 300},
	spirv.GLSLstd450Fma:                   {400, 320},
	spirv.GLSLstd450Frexp:                 {400, 310},
	spirv.GLSLstd450Ldexp:                 {400, 310},
	spirv.GLSLstd450FindILsb:              {400, 310},
	spirv.GLSLstd450FindSMsb:              {400, 310},
	spirv.GLSLstd450FindUMsb:              {400, 310},
	spirv.GLSLstd450PackSnorm4x8:          {400, 310},
	spirv.GLSLstd450PackUnorm4x8:          {400, 310},
	spirv.GLSLstd450UnpackSnorm4x8:        {400, 310},
	spirv.GLSLstd450UnpackUnorm4x8:        {400, 310},
	spirv.GLSLstd450PackSnorm2x16:         {420, 300},
	spirv.GLSLstd450PackUnorm2x16:         {400, 300},
	spirv.GLSLstd450UnpackSnorm2x16:       {420, 300},
	spirv.GLSLstd450UnpackUnorm2x16:       {400, 300},
	spirv.GLSLstd450PackHalf2x16:          {420, 300},
	spirv.GLSLstd450UnpackHalf2x16:        {420, 300},
	spirv.GLSLstd450PackDouble2x32:        {400, 0},
	spirv.GLSLstd450UnpackDouble2x32:      {400, 0},
	spirv.GLSLstd450InterpolateAtCentroid: {400, 320},
	spirv.GLSLstd450InterpolateAtSample:   {400, 320},
	spirv.GLSLstd450InterpolateAtOffset:   {400, 320},
}

// intrinsicVersions lists intrinsics that are newer than GLSL 1.10.
var intrinsicVersions = map[ir.Intrinsic]requirement{
	ir.IntrinsicOuterProduct:     {120, 300},
	ir.IntrinsicTranspose:        {120, 300},
	ir.IntrinsicIsNan:            {130, 300},
	ir.IntrinsicIsInf:            {130, 300},
	ir.IntrinsicBitCount:         {400, 310},
	ir.IntrinsicBitReverse:       {400, 310},
	ir.IntrinsicBitFieldInsert:   {400, 310},
	ir.IntrinsicBitFieldSExtract: {400, 310},
	ir.IntrinsicBitFieldUExtract: {400, 310},
	ir.IntrinsicDPdxFine:         {450, 0},
	ir.IntrinsicDPdyFine:         {450, 0},
	ir.IntrinsicFwidthFine:       {450, 0},
	ir.IntrinsicDPdxCoarse:       {450, 0},
	ir.IntrinsicDPdyCoarse:       {450, 0},
	ir.IntrinsicFwidthCoarse:     {450, 0},
}

// validator collects the first feature the target version lacks.
type validator struct {
	m   *ir.Module
	o   CompilerOptions
	err error
}

func (v *validator) require(r requirement, what string) {
	if v.err == nil && !v.o.Version.atLeast(r.desktop, r.es) {
		v.err = diag.Errorf(diag.UnsupportedVersion, "GLSL %s does not support %s", v.o.Version, what)
	}
}

func (v *validator) refuse(what string) {
	if v.err == nil {
		v.err = diag.Errorf(diag.UnsupportedVersion, "GLSL %s does not support %s", v.o.Version, what)
	}
}

// ValidateOptions implements spirvcross.Dialect. It rejects versions the
// writer does not know and versions that lack a feature the module uses.
func (Target) ValidateOptions(m *ir.Module, o CompilerOptions) error {
	if !o.Version.Supported() {
		return diag.Errorf(diag.UnsupportedVersion, "unsupported GLSL version %d", o.Version.Number())
	}
	v := &validator{m: m, o: o}
	v.stages()
	v.globals()
	v.bodies()
	return v.err
}

// stages checks the execution models. A module whose entry points are all
// compute shaders needs compute support.
func (v *validator) stages() {
	if len(v.m.EntryPoints) == 0 {
		return
	}
	for _, ep := range v.m.EntryPoints {
		if ep.Model != spirv.ExecutionModelGLCompute {
			return
		}
	}
	v.require(needCompute, "compute shaders")
}

//nolint:gocyclo,cyclop // one check per resource kind
func (v *validator) globals() {
	m := v.m
	for _, id := range m.Globals {
		g := m.Variable(id)
		if g == nil {
			continue
		}
		t := m.Pointee(g.Type)
		v.valueType(t)
		block := t
		for {
			arr, ok := m.Inner(block).(ir.ArrayType)
			if !ok {
				break
			}
			block = arr.Base
		}
		switch g.Storage {
		case spirv.StorageClassStorageBuffer:
			v.require(needStorage, "storage buffers")
		case spirv.StorageClassUniform:
			if m.HasDecoration(block, spirv.DecorationBufferBlock) {
				v.require(needStorage, "storage buffers")
			}
			if m.Flattened[id] {
				v.flattened(block)
			}
		case spirv.StorageClassUniformConstant:
			if img, ok := m.Inner(block).(ir.ImageType); ok && img.Sampled == 2 && img.Dim != spirv.DimSubpassData {
				v.require(needStorageImage, "storage images")
			}
		case spirv.StorageClassInput, spirv.StorageClassOutput:
			if _, builtin := m.BuiltIn(id); builtin || m.IsBuiltInBlock(block) {
				continue
			}
			if s, ok := m.ScalarOf(block); ok && (s.Kind == ir.ScalarSint || s.Kind == ir.ScalarUint) {
				v.require(needIntegers, "integer inputs and outputs")
			}
		case spirv.StorageClassWorkgroup:
			v.require(needCompute, "shared variables")
		case spirv.StorageClassPrivate:
			if g.Init == 0 && v.o.ForceZeroInitializedVariables {
				v.zeroInit(t)
			}
		}
		if g.Init != 0 {
			v.constant(g.Init)
		}
	}
}

// flattened checks the array a flattened block is declared as.
func (v *validator) flattened(block ir.ID) {
	w := &Writer{module: v.m}
	switch w.flatKind(block) {
	case ir.ScalarSint, ir.ScalarUint:
		v.require(needIntegers, "integer members of flattened buffers")
	case ir.ScalarFloat:
		mixed := false
		var visit func(id ir.ID)
		visit = func(id ir.ID) {
			switch t := v.m.Inner(id).(type) {
			case ir.ArrayType:
				visit(t.Base)
			case ir.StructType:
				for _, mem := range t.Members {
					visit(mem.Type)
				}
			default:
				if s, ok := v.m.ScalarOf(id); ok && s.Kind != ir.ScalarFloat {
					mixed = true
				}
			}
		}
		visit(block)
		if mixed {
			v.require(needBitcast, "integer members of flattened buffers")
		}
	}
}

// valueType checks a type that appears in the output.
func (v *validator) valueType(id ir.ID) {
	switch t := v.m.Inner(id).(type) {
	case ir.ScalarType, ir.VectorType, ir.MatrixType:
		s, _ := v.m.ScalarOf(id)
		switch {
		case s.Kind == ir.ScalarUint:
			v.require(needIntegers, "unsigned integers")
		case s.Kind == ir.ScalarFloat && s.Width == 8:
			v.require(needDouble, "double precision floats")
		}
	case ir.ArrayType:
		v.valueType(t.Base)
	case ir.StructType:
		for _, mem := range t.Members {
			v.valueType(mem.Type)
		}
	}
}

// constant checks a constant that is written by value.
func (v *validator) constant(id ir.ID) {
	c := v.m.Constant(id)
	if c == nil {
		return
	}
	v.valueType(c.Type)
	if _, ok := v.m.Inner(c.Type).(ir.ArrayType); ok {
		v.require(needArrayCtor, "array constructors")
	}
	if comp, ok := c.Value.(ir.CompositeValue); ok {
		for _, part := range comp.Components {
			v.constant(part)
		}
	}
}

// zeroInit checks the zero constructor of a forced initializer.
func (v *validator) zeroInit(t ir.ID) {
	switch tt := v.m.Inner(t).(type) {
	case ir.ArrayType:
		v.require(needArrayCtor, "zero-initialized arrays")
	case ir.StructType:
		for _, mem := range tt.Members {
			v.zeroInit(mem.Type)
		}
	}
}

// bodies checks every function reachable from an entry point.
func (v *validator) bodies() {
	m := v.m
	seen := make(map[ir.ID]bool)
	var visit func(id ir.ID, stage spirv.ExecutionModel)
	visit = func(id ir.ID, stage spirv.ExecutionModel) {
		if seen[id] {
			return
		}
		seen[id] = true
		f := m.Function(id)
		if f == nil {
			return
		}
		for _, local := range f.Locals {
			if l := m.Variable(local); l != nil {
				v.valueType(m.Pointee(l.Type))
				if l.Init != 0 {
					v.constant(l.Init)
				} else if v.o.ForceZeroInitializedVariables {
					v.zeroInit(m.Pointee(l.Type))
				}
			}
		}
		ir.WalkStatements(f.Body, func(s ir.Statement) {
			switch k := s.Kind.(type) {
			case ir.StmtEmit:
				v.expression(k.Expr, stage)
			case ir.StmtSwitch:
				v.require(needIntegers, "switch statements")
			case ir.StmtStore:
				v.operand(k.Value)
			case ir.StmtReturn:
				v.operand(k.Value)
			case ir.StmtPhiStores:
				for _, c := range k.Copies {
					v.operand(c.Value)
				}
			}
		})
		for _, callee := range f.Calls {
			visit(callee, stage)
		}
	}
	for _, ep := range m.EntryPoints {
		clear(seen)
		visit(ep.Function, ep.Model)
	}
}

// operand checks a constant read by a statement.
func (v *validator) operand(id ir.ID) {
	if id != 0 && v.m.Constant(id) != nil {
		v.constant(id)
	}
}

//nolint:gocyclo,cyclop // one check per expression kind
func (v *validator) expression(id ir.ID, stage spirv.ExecutionModel) {
	e := v.m.Expression(id)
	if e == nil {
		return
	}
	v.valueType(e.Type)
	// Constant chain indices are written as literals.
	if _, chain := e.Kind.(ir.ExprAccessChain); !chain {
		for _, op := range ir.Operands(e.Kind) {
			v.operand(op)
		}
	}
	switch k := e.Kind.(type) {
	case ir.ExprBinary:
		switch k.Op {
		case ir.BinaryAnd, ir.BinaryInclusiveOr, ir.BinaryExclusiveOr, ir.BinaryShiftLeft, ir.BinaryShiftRight:
			v.require(needIntegers, "integer bitwise operators")
		case ir.BinaryModulo:
			if s, ok := v.m.ScalarOf(e.Type); ok && s.Kind != ir.ScalarFloat {
				v.require(needIntegers, "integer modulo")
			}
		}
	case ir.ExprUnary:
		if k.Op == ir.UnaryBitwiseNot {
			v.require(needIntegers, "integer bitwise operators")
		}
	case ir.ExprBitcast:
		from, _ := v.m.ScalarOf(v.m.TypeOf(k.Operand))
		to, _ := v.m.ScalarOf(e.Type)
		if (from.Kind == ir.ScalarFloat) != (to.Kind == ir.ScalarFloat) {
			v.require(needBitcast, "floating point bit casts")
		}
	case ir.ExprExtInst:
		if r, ok := extInstVersions[k.Inst]; ok {
			v.require(r, "GLSL.std.450 instruction "+extInstNames[k.Inst])
		}
	case ir.ExprIntrinsic:
		if r, ok := intrinsicVersions[k.Op]; ok {
			v.require(r, intrinsicNames[k.Op])
		}
	case ir.ExprImageFetch:
		v.require(needIntegers, "texelFetch")
	case ir.ExprImageQuery:
		v.require(needIntegers, "texture queries")
	case ir.ExprImageGather:
		v.require(needGather, "textureGather")
	case ir.ExprImageSample:
		explicit := k.Operands.Lod != 0 || k.Operands.GradX != 0
		if explicit && stage == spirv.ExecutionModelFragment && v.o.Version.legacy() {
			v.require(needTextureLod, "explicit-LOD sampling in fragment shaders")
		}
	case ir.ExprImageRead:
		if v.imageDim(k.Image) == spirv.DimSubpassData {
			v.refuse("subpass inputs")
		}
	case ir.ExprAtomic:
		v.require(needStorage, "atomic operations")
	}
}

func (v *validator) imageDim(id ir.ID) spirv.Dim {
	switch t := v.m.Inner(v.m.ValueType(id)).(type) {
	case ir.ImageType:
		return t.Dim
	case ir.SampledImageType:
		if img, ok := v.m.Inner(t.Image).(ir.ImageType); ok {
			return img.Dim
		}
	}
	return spirv.Dim1D
}

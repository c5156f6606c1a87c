// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/spirvcross/diag"
	"github.com/gogpu/spirvcross/ir"
	"github.com/gogpu/spirvcross/spirv"
)

// swizzle names vector components.
const swizzle = "xyzw"

// expr returns the GLSL text of a value: a constant, variable, parameter,
// undef or expression. Expressions that were stored in a temporary are
// referenced by name; forwarded ones are rendered in place.
func (w *Writer) expr(id ir.ID) (string, error) {
	switch ent := w.module.Entity(id).(type) {
	case *ir.Constant:
		if ent.Spec {
			return w.name(id), nil
		}
		return w.constantValue(ent)
	case *ir.Variable:
		return w.variable(ent), nil
	case *ir.Parameter, *ir.Undef:
		return w.name(id), nil
	case *ir.Expression:
		if _, ok := ent.Kind.(ir.ExprPhi); ok {
			return w.name(id), nil
		}
		if fs := w.fs; fs != nil {
			if fs.baked[id] || fs.hoisted[id] {
				return w.name(id), nil
			}
			fs.consumed[id] = true
		}
		return w.expression(ent)
	}
	return "", diag.Errorf(diag.InvalidResource, "id %d is not a value", id)
}

// expression renders the operation of e.
//
//nolint:gocyclo,cyclop,funlen // one case per expression kind
func (w *Writer) expression(e *ir.Expression) (string, error) {
	switch k := e.Kind.(type) {
	case ir.ExprLoad:
		if v := w.module.Variable(k.Pointer); v != nil && w.isStructIO(v) {
			return w.structIOValue(v)
		}
		return w.expr(k.Pointer)
	case ir.ExprAccessChain:
		s, _, err := w.accessChain(k)
		return s, err
	case ir.ExprCompositeConstruct:
		args, err := w.exprs(k.Components)
		if err != nil {
			return "", err
		}
		return w.constructorName(e.Type) + "(" + strings.Join(args, ", ") + ")", nil
	case ir.ExprSplat:
		v, err := w.expr(k.Value)
		if err != nil {
			return "", err
		}
		return w.typeName(e.Type) + "(" + v + ")", nil
	case ir.ExprCompositeExtract:
		s, err := w.expr(k.Composite)
		if err != nil {
			return "", err
		}
		s = enclose(s)
		t := w.module.TypeOf(k.Composite)
		for _, i := range k.Indices {
			s, t = w.indexLiteral(s, t, i)
		}
		return s, nil
	case ir.ExprVectorShuffle:
		return w.shuffle(e, k)
	case ir.ExprVectorExtractDynamic:
		v, err := w.expr(k.Vector)
		if err != nil {
			return "", err
		}
		i, err := w.expr(k.Index)
		if err != nil {
			return "", err
		}
		return enclose(v) + "[" + i + "]", nil
	case ir.ExprCopy:
		return w.expr(k.Value)
	case ir.ExprUnary:
		return w.unary(e, k)
	case ir.ExprBinary:
		return w.binary(e, k)
	case ir.ExprSelect:
		return w.selectValue(e, k)
	case ir.ExprConvert:
		x, err := w.expr(k.Operand)
		if err != nil {
			return "", err
		}
		t := w.module.TypeOf(k.Operand)
		switch k.Source {
		case ir.SignSigned:
			x = w.castInt(x, t, ir.ScalarSint)
		case ir.SignUnsigned:
			x = w.castInt(x, t, ir.ScalarUint)
		}
		return w.constructorName(e.Type) + "(" + x + ")", nil
	case ir.ExprBitcast:
		return w.bitcast(e, k)
	case ir.ExprExtInst:
		return w.extInst(e, k)
	case ir.ExprIntrinsic:
		return w.intrinsic(e, k)
	case ir.ExprSampledImage:
		return w.sampledImage(e, k)
	case ir.ExprImage:
		return w.expr(k.SampledImage)
	case ir.ExprImageSample:
		return w.imageSample(e, k)
	case ir.ExprImageFetch:
		return w.imageFetch(k)
	case ir.ExprImageGather:
		return w.imageGather(k)
	case ir.ExprImageRead:
		return w.imageRead(e, k)
	case ir.ExprImageQuery:
		return w.imageQuery(e, k)
	case ir.ExprCall:
		args, err := w.exprs(k.Args)
		if err != nil {
			return "", err
		}
		return w.name(k.Function) + "(" + strings.Join(args, ", ") + ")", nil
	case ir.ExprArrayLength:
		s, err := w.expr(k.Structure)
		if err != nil {
			return "", err
		}
		st := w.module.ValueType(k.Structure)
		return fmt.Sprintf("%s(%s.%s.length())", w.typeName(e.Type), s, w.memberName(st, int(k.Member))), nil
	case ir.ExprAtomic:
		return w.atomic(e, k)
	case ir.ExprFlatLoad:
		return w.flatLoad(e, k)
	case ir.ExprCompositeInsert, ir.ExprVectorInsertDynamic:
		return "", diag.Errorf(diag.InvalidResource, "expression %d is used before it is written", e.ID)
	}
	return "", unsupported("expression %d cannot be expressed in GLSL", e.ID)
}

func (w *Writer) exprs(ids []ir.ID) ([]string, error) {
	out := make([]string, len(ids))
	for i, id := range ids {
		s, err := w.expr(id)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// enclose wraps s in parentheses unless it is already a single operand.
func enclose(s string) string {
	if needsParens(s) {
		return "(" + s + ")"
	}
	return s
}

func needsParens(s string) bool {
	if s == "" {
		return false
	}
	switch s[0] {
	case '-', '!', '~':
		return true
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ' ':
			if depth == 0 {
				return true
			}
		}
	}
	return false
}

// Constants

// constantValue renders a constant by value.
func (w *Writer) constantValue(c *ir.Constant) (string, error) {
	switch v := c.Value.(type) {
	case ir.ScalarValue:
		return w.scalarLiteral(c.Type, v.Bits)
	case ir.CompositeValue:
		parts, err := w.exprs(v.Components)
		if err != nil {
			return "", err
		}
		if _, ok := w.module.Inner(c.Type).(ir.VectorType); ok && allEqual(parts) {
			return w.typeName(c.Type) + "(" + parts[0] + ")", nil
		}
		return w.constructorName(c.Type) + "(" + strings.Join(parts, ", ") + ")", nil
	case ir.NullValue:
		return w.zeroValue(c.Type)
	case ir.SpecOpValue:
		return w.specOp(c, v)
	}
	return "", diag.Errorf(diag.InvalidResource, "constant %d has no value", c.ID)
}

func allEqual(parts []string) bool {
	if len(parts) == 0 {
		return false
	}
	for _, p := range parts[1:] {
		if p != parts[0] {
			return false
		}
	}
	return true
}

// scalarLiteral renders the bits of a scalar constant of type t.
func (w *Writer) scalarLiteral(t ir.ID, bits uint64) (string, error) {
	s, ok := w.module.Inner(t).(ir.ScalarType)
	if !ok {
		return "", diag.Errorf(diag.InvalidResource, "type %d is not a scalar", t)
	}
	switch s.Kind {
	case ir.ScalarBool:
		if bits != 0 {
			return "true", nil
		}
		return "false", nil
	case ir.ScalarSint:
		v := int32(uint32(bits)) //nolint:gosec // reinterprets the literal bits
		if v == math.MinInt32 {
			return "int(0x80000000)", nil
		}
		return strconv.Itoa(int(v)), nil
	case ir.ScalarUint:
		return strconv.FormatUint(uint64(uint32(bits)), 10) + "u", nil
	case ir.ScalarFloat:
		if s.Width == 8 {
			return formatFloat64(math.Float64frombits(bits)), nil
		}
		return formatFloat(math.Float32frombits(uint32(bits))), nil //nolint:gosec // 32-bit payload
	}
	return "", diag.Errorf(diag.InvalidResource, "type %d is not a scalar", t)
}

// zeroValue renders the zero value of a type.
func (w *Writer) zeroValue(t ir.ID) (string, error) {
	switch tt := w.module.Inner(t).(type) {
	case ir.ScalarType:
		return zeroScalar(tt), nil
	case ir.VectorType:
		return vectorToGLSL(tt) + "(" + zeroScalar(tt.Scalar) + ")", nil
	case ir.MatrixType:
		column := vectorToGLSL(ir.VectorType{Size: tt.Rows, Scalar: tt.Scalar}) + "(" + zeroScalar(tt.Scalar) + ")"
		return matrixToGLSL(tt) + "(" + repeatJoin(column, int(tt.Columns)) + ")", nil
	case ir.ArrayType:
		if tt.Runtime {
			return "", diag.Errorf(diag.InvalidResource, "runtime array %d has no zero value", t)
		}
		elem, err := w.zeroValue(tt.Base)
		if err != nil {
			return "", err
		}
		return w.constructorName(t) + "(" + repeatJoin(elem, int(tt.Length)) + ")", nil
	case ir.StructType:
		parts := make([]string, len(tt.Members))
		for i, m := range tt.Members {
			s, err := w.zeroValue(m.Type)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return w.name(t) + "(" + strings.Join(parts, ", ") + ")", nil
	}
	return "", diag.Errorf(diag.InvalidResource, "type %d has no zero value", t)
}

func zeroScalar(s ir.ScalarType) string {
	switch s.Kind {
	case ir.ScalarBool:
		return "false"
	case ir.ScalarSint:
		return "0"
	case ir.ScalarUint:
		return "0u"
	}
	if s.Width == 8 {
		return "0.0lf"
	}
	return "0.0"
}

func repeatJoin(s string, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = s
	}
	return strings.Join(parts, ", ")
}

// specOp renders an OpSpecConstantOp as a constant expression.
//
//nolint:gocyclo,cyclop // one case per operation
func (w *Writer) specOp(c *ir.Constant, v ir.SpecOpValue) (string, error) {
	args, err := w.exprs(v.Operands)
	if err != nil {
		return "", err
	}
	binary := func(op string) (string, error) {
		if len(args) != 2 {
			return "", diag.Errorf(diag.InvalidResource, "spec constant %d: %s takes two operands", c.ID, v.Op)
		}
		return enclose(args[0]) + " " + op + " " + enclose(args[1]), nil
	}
	switch v.Op {
	case spirv.OpIAdd:
		return binary("+")
	case spirv.OpISub:
		return binary("-")
	case spirv.OpIMul:
		return binary("*")
	case spirv.OpUDiv, spirv.OpSDiv:
		return binary("/")
	case spirv.OpUMod, spirv.OpSRem, spirv.OpSMod:
		return binary("%")
	case spirv.OpShiftLeftLogical:
		return binary("<<")
	case spirv.OpShiftRightLogical, spirv.OpShiftRightArithmetic:
		return binary(">>")
	case spirv.OpBitwiseAnd:
		return binary("&")
	case spirv.OpBitwiseOr:
		return binary("|")
	case spirv.OpBitwiseXor:
		return binary("^")
	case spirv.OpLogicalAnd:
		return binary("&&")
	case spirv.OpLogicalOr:
		return binary("||")
	case spirv.OpLogicalEqual, spirv.OpIEqual:
		return binary("==")
	case spirv.OpLogicalNotEqual, spirv.OpINotEqual:
		return binary("!=")
	case spirv.OpULessThan, spirv.OpSLessThan:
		return binary("<")
	case spirv.OpUGreaterThan, spirv.OpSGreaterThan:
		return binary(">")
	case spirv.OpULessThanEqual, spirv.OpSLessThanEqual:
		return binary("<=")
	case spirv.OpUGreaterThanEqual, spirv.OpSGreaterThanEqual:
		return binary(">=")
	case spirv.OpSNegate:
		return "-" + enclose(args[0]), nil
	case spirv.OpNot:
		return "~" + enclose(args[0]), nil
	case spirv.OpLogicalNot:
		return "!" + enclose(args[0]), nil
	case spirv.OpSConvert, spirv.OpUConvert, spirv.OpFConvert:
		return w.typeName(c.Type) + "(" + args[0] + ")", nil
	case spirv.OpSelect:
		return enclose(args[0]) + " ? " + enclose(args[1]) + " : " + enclose(args[2]), nil
	case spirv.OpCompositeExtract:
		s, t := enclose(args[0]), w.module.TypeOf(v.Operands[0])
		for _, i := range v.Literals {
			s, t = w.indexLiteral(s, t, i)
		}
		return s, nil
	}
	return "", unsupported("spec constant %d: %s cannot be expressed in GLSL", c.ID, v.Op)
}

// Variables and access chains

// variable renders a reference to a variable.
func (w *Writer) variable(v *ir.Variable) string {
	if b, ok := w.module.BuiltIn(v.ID); ok {
		return builtinName(b, v.Storage)
	}
	if w.legacyFragmentOutput(v) {
		return w.fragData(v)
	}
	block, _ := w.stripArrays(w.module.Pointee(v.Type))
	if w.module.IsBuiltInBlock(block) && block != w.module.Pointee(v.Type) {
		if v.Storage == spirv.StorageClassInput {
			return "gl_in"
		}
		return "gl_out"
	}
	return w.name(v.ID)
}

// fragData renders a legacy fragment output as a gl_FragData element,
// narrowed to the declared width.
func (w *Writer) fragData(v *ir.Variable) string {
	loc, _ := w.module.Decoration(v.ID, spirv.DecorationLocation)
	t := w.module.Pointee(v.Type)
	if _, ok := w.module.Inner(t).(ir.ArrayType); ok && loc == 0 {
		return "gl_FragData"
	}
	s := fmt.Sprintf("gl_FragData[%d]", loc)
	if n := w.components(t); n < 4 {
		s += "." + swizzle[:n]
	}
	return s
}

// isStructIO reports whether v is a user input or output of struct type.
// Those are declared one variable per member.
func (w *Writer) isStructIO(v *ir.Variable) bool {
	if v.Storage != spirv.StorageClassInput && v.Storage != spirv.StorageClassOutput {
		return false
	}
	if w.isBuiltinVar(v) {
		return false
	}
	_, ok := w.module.Inner(w.module.Pointee(v.Type)).(ir.StructType)
	return ok
}

// structIOValue reassembles a struct input from its member variables.
func (w *Writer) structIOValue(v *ir.Variable) (string, error) {
	t := w.module.Pointee(v.Type)
	st, _ := w.module.Inner(t).(ir.StructType)
	parts := make([]string, len(st.Members))
	for i := range st.Members {
		parts[i] = w.name(v.ID) + "_" + w.memberName(t, i)
	}
	return w.name(t) + "(" + strings.Join(parts, ", ") + ")", nil
}

// accessChain renders a pointer chain as an lvalue and returns the type it
// points to.
func (w *Writer) accessChain(k ir.ExprAccessChain) (string, ir.ID, error) {
	indices := k.Indices
	var s string
	var t ir.ID
	if v := w.module.Variable(k.Base); v != nil && v.Function == 0 && len(indices) > 0 {
		t = w.module.Pointee(v.Type)
		first, isConst := w.constIndex(indices[0])
		switch {
		case w.module.IsBuiltInBlock(t) && isConst:
			s = w.memberName(t, int(first))
			t = w.memberType(t, first)
			indices = indices[1:]
		case w.isStructIO(v) && isConst:
			s = w.name(v.ID) + "_" + w.memberName(t, int(first))
			t = w.memberType(t, first)
			indices = indices[1:]
		default:
			s = w.variable(v)
		}
	} else {
		base, err := w.expr(k.Base)
		if err != nil {
			return "", 0, err
		}
		s, t = base, w.module.ValueType(k.Base)
	}
	for _, idx := range indices {
		if i, ok := w.constIndex(idx); ok {
			s, t = w.indexLiteral(s, t, i)
			continue
		}
		index, err := w.expr(idx)
		if err != nil {
			return "", 0, err
		}
		s, t = w.indexDynamic(s, t, index)
	}
	return s, t, nil
}

// indexLiteral applies one constant index to s of type t.
func (w *Writer) indexLiteral(s string, t ir.ID, i uint32) (string, ir.ID) {
	switch tt := w.module.Inner(t).(type) {
	case ir.StructType:
		return s + "." + w.memberName(t, int(i)), w.memberType(t, i)
	case ir.VectorType:
		if i < 4 {
			return s + "." + swizzle[i:i+1], w.lookupType(tt.Scalar)
		}
	}
	return w.indexDynamic(s, t, strconv.FormatUint(uint64(i), 10))
}

// indexDynamic applies a runtime index to s of type t.
func (w *Writer) indexDynamic(s string, t ir.ID, index string) (string, ir.ID) {
	s = s + "[" + index + "]"
	switch tt := w.module.Inner(t).(type) {
	case ir.ArrayType:
		return s, tt.Base
	case ir.MatrixType:
		return s, w.lookupType(ir.VectorType{Size: tt.Rows, Scalar: tt.Scalar})
	case ir.VectorType:
		return s, w.lookupType(tt.Scalar)
	}
	return s, 0
}

func (w *Writer) memberType(t ir.ID, i uint32) ir.ID {
	st, ok := w.module.Inner(t).(ir.StructType)
	if !ok || int(i) >= len(st.Members) {
		return 0
	}
	return st.Members[i].Type
}

// lookupType finds the id of a declared scalar or vector type. Vector and
// matrix declarations always reference their component types, so the
// search succeeds for every type reached through an index.
func (w *Writer) lookupType(inner ir.TypeInner) ir.ID {
	for _, id := range w.module.Types {
		if w.module.Inner(id) == inner {
			return id
		}
	}
	return 0
}

// constIndex returns the value of a non-specialization integer constant.
func (w *Writer) constIndex(id ir.ID) (uint32, bool) {
	c := w.module.Constant(id)
	if c == nil || c.Spec {
		return 0, false
	}
	v, ok := c.Value.(ir.ScalarValue)
	if !ok || !w.isInteger(c.Type) {
		return 0, false
	}
	return uint32(v.Bits), true //nolint:gosec // indices are 32-bit
}

// Operators

func (w *Writer) unary(e *ir.Expression, k ir.ExprUnary) (string, error) {
	x, err := w.expr(k.Operand)
	if err != nil {
		return "", err
	}
	t := w.module.TypeOf(k.Operand)
	switch k.Op {
	case ir.UnaryNegate:
		if k.Sign == ir.SignSigned && w.isInteger(t) {
			s := "-" + enclose(w.castInt(x, t, ir.ScalarSint))
			if got, _ := w.scalarKind(e.Type); got != ir.ScalarSint {
				s = w.retype(e.Type, got) + "(" + s + ")"
			}
			return s, nil
		}
		return "-" + enclose(x), nil
	case ir.UnaryLogicalNot:
		if w.components(t) > 1 {
			return "not(" + x + ")", nil
		}
		return "!" + enclose(x), nil
	case ir.UnaryBitwiseNot:
		return "~" + enclose(x), nil
	}
	return "", unsupported("unary operator %d", k.Op)
}

var binaryOps = map[ir.BinaryOperator]string{
	ir.BinaryAdd:          "+",
	ir.BinarySubtract:     "-",
	ir.BinaryMultiply:     "*",
	ir.BinaryDivide:       "/",
	ir.BinaryModulo:       "%",
	ir.BinaryEqual:        "==",
	ir.BinaryNotEqual:     "!=",
	ir.BinaryLess:         "<",
	ir.BinaryLessEqual:    "<=",
	ir.BinaryGreater:      ">",
	ir.BinaryGreaterEqual: ">=",
	ir.BinaryAnd:          "&",
	ir.BinaryExclusiveOr:  "^",
	ir.BinaryInclusiveOr:  "|",
	ir.BinaryLogicalAnd:   "&&",
	ir.BinaryLogicalOr:    "||",
	ir.BinaryShiftLeft:    "<<",
	ir.BinaryShiftRight:   ">>",
}

var vectorComparisons = map[ir.BinaryOperator]string{
	ir.BinaryEqual:        "equal",
	ir.BinaryNotEqual:     "notEqual",
	ir.BinaryLess:         "lessThan",
	ir.BinaryLessEqual:    "lessThanEqual",
	ir.BinaryGreater:      "greaterThan",
	ir.BinaryGreaterEqual: "greaterThanEqual",
}

func isComparison(op ir.BinaryOperator) bool {
	_, ok := vectorComparisons[op]
	return ok
}

func isShift(op ir.BinaryOperator) bool {
	return op == ir.BinaryShiftLeft || op == ir.BinaryShiftRight
}

func signKind(s ir.Sign) (ir.ScalarKind, bool) {
	switch s {
	case ir.SignSigned:
		return ir.ScalarSint, true
	case ir.SignUnsigned:
		return ir.ScalarUint, true
	}
	return 0, false
}

// binary renders a binary operator. Integer operands whose signedness
// differs from what the operation reads are cast, and so is the result.
func (w *Writer) binary(e *ir.Expression, k ir.ExprBinary) (string, error) {
	l, err := w.expr(k.Left)
	if err != nil {
		return "", err
	}
	r, err := w.expr(k.Right)
	if err != nil {
		return "", err
	}
	lt, rt := w.module.TypeOf(k.Left), w.module.TypeOf(k.Right)
	comparison := isComparison(k.Op)

	want, cast := signKind(k.Sign)
	switch {
	case cast:
	case comparison && w.isInteger(lt):
		want, cast = w.scalarKind(lt)
	case !comparison && w.isInteger(e.Type):
		want, cast = w.scalarKind(e.Type)
	}
	if cast {
		l = w.castInt(l, lt, want)
		if !isShift(k.Op) {
			r = w.castInt(r, rt, want)
		}
	}

	var s string
	vector := w.components(lt) > 1
	switch {
	case comparison && vector:
		s = vectorComparisons[k.Op] + "(" + l + ", " + r + ")"
	case (k.Op == ir.BinaryLogicalAnd || k.Op == ir.BinaryLogicalOr) && vector:
		n := w.components(lt)
		parts := make([]string, n)
		for i := range parts {
			c := swizzle[i : i+1]
			parts[i] = enclose(l) + "." + c + " " + binaryOps[k.Op] + " " + enclose(r) + "." + c
		}
		s = w.typeName(e.Type) + "(" + strings.Join(parts, ", ") + ")"
	case k.Op == ir.BinaryFMod:
		s = "mod(" + l + ", " + r + ")"
	case k.Op == ir.BinaryFRem:
		s = fmt.Sprintf("%s - %s * trunc(%s / %s)", enclose(l), enclose(r), enclose(l), enclose(r))
	default:
		op, ok := binaryOps[k.Op]
		if !ok {
			return "", unsupported("binary operator %d", k.Op)
		}
		s = enclose(l) + " " + op + " " + enclose(r)
	}
	if cast && !comparison && w.isInteger(e.Type) {
		if got, _ := w.scalarKind(e.Type); got != want {
			s = w.retype(e.Type, got) + "(" + s + ")"
		}
	}
	return s, nil
}

// castInt converts an integer value of type t to kind when its own kind
// differs.
func (w *Writer) castInt(s string, t ir.ID, kind ir.ScalarKind) string {
	got, ok := w.scalarKind(t)
	if !ok || got == kind || (got != ir.ScalarSint && got != ir.ScalarUint) {
		return s
	}
	return w.retype(t, kind) + "(" + s + ")"
}

func (w *Writer) selectValue(e *ir.Expression, k ir.ExprSelect) (string, error) {
	args, err := w.exprs([]ir.ID{k.Condition, k.Accept, k.Reject})
	if err != nil {
		return "", err
	}
	cond, a, b := args[0], args[1], args[2]
	n := w.components(w.module.TypeOf(k.Condition))
	if n == 1 {
		return enclose(cond) + " ? " + enclose(a) + " : " + enclose(b), nil
	}
	if kind, _ := w.scalarKind(e.Type); kind == ir.ScalarFloat && !w.version.legacy() {
		return "mix(" + b + ", " + a + ", " + cond + ")", nil
	}
	parts := make([]string, n)
	for i := range parts {
		c := "." + swizzle[i:i+1]
		parts[i] = enclose(cond) + c + " ? " + enclose(a) + c + " : " + enclose(b) + c
	}
	return w.typeName(e.Type) + "(" + strings.Join(parts, ", ") + ")", nil
}

func (w *Writer) shuffle(e *ir.Expression, k ir.ExprVectorShuffle) (string, error) {
	sizeA := uint32(w.components(w.module.TypeOf(k.A))) //nolint:gosec // at most 4
	fromA, fromB := true, true
	for _, c := range k.Components {
		if c == math.MaxUint32 {
			continue
		}
		if c < sizeA {
			fromB = false
		} else {
			fromA = false
		}
	}
	pick := func(id ir.ID, comps []uint32, offset uint32) (string, error) {
		s, err := w.expr(id)
		if err != nil {
			return "", err
		}
		var b strings.Builder
		identity := uint32(len(comps)) == sizeA //nolint:gosec // at most 4
		for i, c := range comps {
			if c == math.MaxUint32 {
				c = offset
			}
			if c-offset != uint32(i) { //nolint:gosec // at most 4
				identity = false
			}
			b.WriteByte(swizzle[c-offset])
		}
		if identity && offset == 0 {
			return s, nil
		}
		return enclose(s) + "." + b.String(), nil
	}
	switch {
	case fromA:
		return pick(k.A, k.Components, 0)
	case fromB:
		return pick(k.B, k.Components, sizeA)
	}
	a, err := w.expr(k.A)
	if err != nil {
		return "", err
	}
	b, err := w.expr(k.B)
	if err != nil {
		return "", err
	}
	parts := make([]string, len(k.Components))
	for i, c := range k.Components {
		switch {
		case c == math.MaxUint32:
			parts[i] = enclose(a) + ".x"
		case c < sizeA:
			parts[i] = enclose(a) + "." + swizzle[c:c+1]
		default:
			parts[i] = enclose(b) + "." + swizzle[c-sizeA:c-sizeA+1]
		}
	}
	return w.typeName(e.Type) + "(" + strings.Join(parts, ", ") + ")", nil
}

func (w *Writer) bitcast(e *ir.Expression, k ir.ExprBitcast) (string, error) {
	x, err := w.expr(k.Operand)
	if err != nil {
		return "", err
	}
	from, _ := w.scalarKind(w.module.TypeOf(k.Operand))
	to, _ := w.scalarKind(e.Type)
	switch {
	case from == to:
		return x, nil
	case from == ir.ScalarFloat && to == ir.ScalarSint:
		return "floatBitsToInt(" + x + ")", nil
	case from == ir.ScalarFloat && to == ir.ScalarUint:
		return "floatBitsToUint(" + x + ")", nil
	case from == ir.ScalarSint && to == ir.ScalarFloat:
		return "intBitsToFloat(" + x + ")", nil
	case from == ir.ScalarUint && to == ir.ScalarFloat:
		return "uintBitsToFloat(" + x + ")", nil
	}
	return w.typeName(e.Type) + "(" + x + ")", nil
}

// Built-in functions

var extInstNames = map[spirv.GLSLstd450]string{
	spirv.GLSLstd450Round:                 "round",
	spirv.GLSLstd450RoundEven:             "roundEven",
	spirv.GLSLstd450Trunc:                 "trunc",
	spirv.GLSLstd450FAbs:                  "abs",
	spirv.GLSLstd450SAbs:                  "abs",
	spirv.GLSLstd450FSign:                 "sign",
	spirv.GLSLstd450SSign:                 "sign",
	spirv.GLSLstd450Floor:                 "floor",
	spirv.GLSLstd450Ceil:                  "ceil",
	spirv.GLSLstd450Fract:                 "fract",
	spirv.GLSLstd450Radians:               "radians",
	spirv.GLSLstd450Degrees:               "degrees",
	spirv.GLSLstd450Sin:                   "sin",
	spirv.GLSLstd450Cos:                   "cos",
	spirv.GLSLstd450Tan:                   "tan",
	spirv.GLSLstd450Asin:                  "asin",
	spirv.GLSLstd450Acos:                  "acos",
	spirv.GLSLstd450Atan:                  "atan",
	spirv.GLSLstd450Sinh:                  "sinh",
	spirv.GLSLstd450Cosh:                  "cosh",
	spirv.GLSLstd450Tanh:                  "tanh",
	spirv.GLSLstd450Asinh:                 "asinh",
	spirv.GLSLstd450Acosh:                 "acosh",
	spirv.GLSLstd450Atanh:                 "atanh",
	spirv.GLSLstd450Atan2:                 "atan",
	spirv.GLSLstd450Pow:                   "pow",
	spirv.GLSLstd450Exp:                   "exp",
	spirv.GLSLstd450Log:                   "log",
	spirv.GLSLstd450Exp2:                  "exp2",
	spirv.GLSLstd450Log2:                  "log2",
	spirv.GLSLstd450Sqrt:                  "sqrt",
	spirv.GLSLstd450InverseSqrt:           "inversesqrt",
	spirv.GLSLstd450Determinant:           "determinant",
	spirv.GLSLstd450MatrixInverse:         "inverse",
	spirv.GLSLstd450Modf:                  "modf",
	spirv.GLSLstd450FMin:                  "min",
	spirv.GLSLstd450UMin:                  "min",
	spirv.GLSLstd450SMin:                  "min",
	spirv.GLSLstd450FMax:                  "max",
	spirv.GLSLstd450UMax:                  "max",
	spirv.GLSLstd450SMax:                  "max",
	spirv.GLSLstd450FClamp:                "clamp",
	spirv.GLSLstd450UClamp:                "clamp",
	spirv.GLSLstd450SClamp:                "clamp",
	spirv.GLSLstd450FMix:                  "mix",
	spirv.GLSLstd450IMix:                  "mix",
	spirv.GLSLstd450Step:                  "step",
	spirv.GLSLstd450SmoothStep:            "smoothstep",
	spirv.GLSLstd450Fma:                   "fma",
	spirv.GLSLstd450Frexp:                 "frexp",
	spirv.GLSLstd450Ldexp:                 "ldexp",
	spirv.GLSLstd450PackSnorm4x8:          "packSnorm4x8",
	spirv.GLSLstd450PackUnorm4x8:          "packUnorm4x8",
	spirv.GLSLstd450PackSnorm2x16:         "packSnorm2x16",
	spirv.GLSLstd450PackUnorm2x16:         "packUnorm2x16",
	spirv.GLSLstd450PackHalf2x16:          "packHalf2x16",
	spirv.GLSLstd450PackDouble2x32:        "packDouble2x32",
	spirv.GLSLstd450UnpackSnorm2x16:       "unpackSnorm2x16",
	spirv.GLSLstd450UnpackUnorm2x16:       "unpackUnorm2x16",
	spirv.GLSLstd450UnpackHalf2x16:        "unpackHalf2x16",
	spirv.GLSLstd450UnpackSnorm4x8:        "unpackSnorm4x8",
	spirv.GLSLstd450UnpackUnorm4x8:        "unpackUnorm4x8",
	spirv.GLSLstd450UnpackDouble2x32:      "unpackDouble2x32",
	spirv.GLSLstd450Length:                "length",
	spirv.GLSLstd450Distance:              "distance",
	spirv.GLSLstd450Cross:                 "cross",
	spirv.GLSLstd450Normalize:             "normalize",
	spirv.GLSLstd450FaceForward:           "faceforward",
	spirv.GLSLstd450Reflect:               "reflect",
	spirv.GLSLstd450Refract:               "refract",
	spirv.GLSLstd450FindILsb:              "findLSB",
	spirv.GLSLstd450FindSMsb:              "findMSB",
	spirv.GLSLstd450FindUMsb:              "findMSB",
	spirv.GLSLstd450InterpolateAtCentroid: "interpolateAtCentroid",
	spirv.GLSLstd450InterpolateAtSample:   "interpolateAtSample",
	spirv.GLSLstd450InterpolateAtOffset:   "interpolateAtOffset",
	spirv.GLSLstd450NMin:                  "min",
	spirv.GLSLstd450NMax:                  "max",
	spirv.GLSLstd450NClamp:                "clamp",
}

// extInstSign is the signedness GLSL.std.450 integer instructions read
// their operands with.
var extInstSign = map[spirv.GLSLstd450]ir.ScalarKind{
	spirv.GLSLstd450SAbs:     ir.ScalarSint,
	spirv.GLSLstd450SSign:    ir.ScalarSint,
	spirv.GLSLstd450SMin:     ir.ScalarSint,
	spirv.GLSLstd450SMax:     ir.ScalarSint,
	spirv.GLSLstd450SClamp:   ir.ScalarSint,
	spirv.GLSLstd450FindSMsb: ir.ScalarSint,
	spirv.GLSLstd450UMin:     ir.ScalarUint,
	spirv.GLSLstd450UMax:     ir.ScalarUint,
	spirv.GLSLstd450UClamp:   ir.ScalarUint,
	spirv.GLSLstd450FindUMsb: ir.ScalarUint,
}

func (w *Writer) extInst(e *ir.Expression, k ir.ExprExtInst) (string, error) {
	name, ok := extInstNames[k.Inst]
	if !ok {
		return "", unsupported("GLSL.std.450 instruction %d cannot be expressed in GLSL", k.Inst)
	}
	args, err := w.exprs(k.Args)
	if err != nil {
		return "", err
	}
	want, signed := extInstSign[k.Inst]
	if signed {
		for i, id := range k.Args {
			args[i] = w.castInt(args[i], w.module.TypeOf(id), want)
		}
	}
	s := name + "(" + strings.Join(args, ", ") + ")"
	// The find* functions always return int.
	switch k.Inst {
	case spirv.GLSLstd450FindILsb, spirv.GLSLstd450FindSMsb, spirv.GLSLstd450FindUMsb:
		want, signed = ir.ScalarSint, true
	}
	if signed && w.isInteger(e.Type) {
		if got, _ := w.scalarKind(e.Type); got != want {
			s = w.retype(e.Type, got) + "(" + s + ")"
		}
	}
	return s, nil
}

var intrinsicNames = map[ir.Intrinsic]string{
	ir.IntrinsicDot:              "dot",
	ir.IntrinsicOuterProduct:     "outerProduct",
	ir.IntrinsicTranspose:        "transpose",
	ir.IntrinsicAny:              "any",
	ir.IntrinsicAll:              "all",
	ir.IntrinsicIsNan:            "isnan",
	ir.IntrinsicIsInf:            "isinf",
	ir.IntrinsicBitCount:         "bitCount",
	ir.IntrinsicBitReverse:       "bitfieldReverse",
	ir.IntrinsicBitFieldInsert:   "bitfieldInsert",
	ir.IntrinsicBitFieldSExtract: "bitfieldExtract",
	ir.IntrinsicBitFieldUExtract: "bitfieldExtract",
	ir.IntrinsicDPdx:             "dFdx",
	ir.IntrinsicDPdy:             "dFdy",
	ir.IntrinsicFwidth:           "fwidth",
	ir.IntrinsicDPdxFine:         "dFdxFine",
	ir.IntrinsicDPdyFine:         "dFdyFine",
	ir.IntrinsicFwidthFine:       "fwidthFine",
	ir.IntrinsicDPdxCoarse:       "dFdxCoarse",
	ir.IntrinsicDPdyCoarse:       "dFdyCoarse",
	ir.IntrinsicFwidthCoarse:     "fwidthCoarse",
}

func isDerivative(op ir.Intrinsic) bool {
	return op >= ir.IntrinsicDPdx && op <= ir.IntrinsicFwidthCoarse
}

func (w *Writer) intrinsic(e *ir.Expression, k ir.ExprIntrinsic) (string, error) {
	name, ok := intrinsicNames[k.Op]
	if !ok {
		return "", unsupported("intrinsic %d cannot be expressed in GLSL", k.Op)
	}
	args, err := w.exprs(k.Args)
	if err != nil {
		return "", err
	}
	switch k.Op {
	case ir.IntrinsicBitFieldInsert, ir.IntrinsicBitFieldSExtract, ir.IntrinsicBitFieldUExtract:
		// Offset and count are the last two operands and must be int.
		for i := max(len(args)-2, 0); i < len(args); i++ {
			args[i] = w.castInt(args[i], w.module.TypeOf(k.Args[i]), ir.ScalarSint)
		}
		if k.Op == ir.IntrinsicBitFieldSExtract {
			args[0] = w.castInt(args[0], w.module.TypeOf(k.Args[0]), ir.ScalarSint)
		}
		if k.Op == ir.IntrinsicBitFieldUExtract {
			args[0] = w.castInt(args[0], w.module.TypeOf(k.Args[0]), ir.ScalarUint)
		}
	}
	s := name + "(" + strings.Join(args, ", ") + ")"
	// Returned kind of the GLSL function when it differs from the operands.
	var returned ir.ScalarKind
	switch k.Op {
	case ir.IntrinsicBitCount, ir.IntrinsicBitFieldSExtract:
		returned = ir.ScalarSint
	case ir.IntrinsicBitFieldUExtract:
		returned = ir.ScalarUint
	default:
		return s, nil
	}
	if got, ok := w.scalarKind(e.Type); ok && got != returned {
		s = w.retype(e.Type, got) + "(" + s + ")"
	}
	return s, nil
}

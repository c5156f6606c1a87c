// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ir

import "github.com/gogpu/spirvcross/spirv"

// Expression is an SSA value computed inside a function body.
// It is evaluated where its Emit statement appears.
type Expression struct {
	ID   ID
	Type ID
	Kind ExpressionKind
	// Function owns the expression.
	Function ID
}

func (*Expression) entity() {}

// ExpressionKind represents the different kinds of expressions.
type ExpressionKind interface {
	expressionKind()
}

// Sign is the signedness an operation imposes on its integer operands.
type Sign uint8

const (
	SignAny      Sign = iota // Operand types are used as they are
	SignSigned               // Operands are read as signed
	SignUnsigned             // Operands are read as unsigned
)

// ExprLoad reads through a pointer.
type ExprLoad struct {
	Pointer ID
}

// ExprAccessChain indexes into a composite behind a pointer. Struct indices
// are constants.
type ExprAccessChain struct {
	Base    ID
	Indices []ID
}

// ExprCompositeConstruct builds a vector, matrix, array or struct.
type ExprCompositeConstruct struct {
	Components []ID
}

// ExprSplat builds a vector whose components are all Value.
type ExprSplat struct {
	Value ID
}

// ExprCompositeExtract reads a literal path out of a composite.
type ExprCompositeExtract struct {
	Composite ID
	Indices   []uint32
}

// ExprCompositeInsert copies Composite with the element at Indices
// replaced by Object.
type ExprCompositeInsert struct {
	Object    ID
	Composite ID
	Indices   []uint32
}

// ExprVectorShuffle selects components from the concatenation of A and B.
type ExprVectorShuffle struct {
	A, B       ID
	Components []uint32
}

// ExprVectorExtractDynamic reads one component at a runtime index.
type ExprVectorExtractDynamic struct {
	Vector ID
	Index  ID
}

// ExprVectorInsertDynamic replaces one component at a runtime index.
type ExprVectorInsertDynamic struct {
	Vector    ID
	Component ID
	Index     ID
}

// ExprCopy is OpCopyObject or OpCopyLogical.
type ExprCopy struct {
	Value ID
}

// UnaryOperator represents unary operators.
type UnaryOperator uint8

const (
	UnaryNegate     UnaryOperator = iota // Arithmetic negation
	UnaryLogicalNot                      // Logical not (!)
	UnaryBitwiseNot                      // Bitwise not (~)
)

// ExprUnary applies a unary operator.
type ExprUnary struct {
	Op      UnaryOperator
	Sign    Sign
	Operand ID
}

// BinaryOperator represents binary operators.
type BinaryOperator uint8

const (
	// Arithmetic
	BinaryAdd      BinaryOperator = iota // Addition
	BinarySubtract                       // Subtraction
	BinaryMultiply                       // Multiplication, including matrix and vector products
	BinaryDivide                         // Division
	BinaryModulo                         // Integer remainder (%)
	BinaryFMod                           // Float modulo with the sign of the divisor
	BinaryFRem                           // Float remainder with the sign of the dividend

	// Comparison
	BinaryEqual        // Equal (==)
	BinaryNotEqual     // Not equal (!=)
	BinaryLess         // Less than (<)
	BinaryLessEqual    // Less than or equal (<=)
	BinaryGreater      // Greater than (>)
	BinaryGreaterEqual // Greater than or equal (>=)

	// Bitwise
	BinaryAnd         // Bitwise AND
	BinaryExclusiveOr // Bitwise XOR
	BinaryInclusiveOr // Bitwise OR

	// Logical
	BinaryLogicalAnd // Logical AND (&&)
	BinaryLogicalOr  // Logical OR (||)

	// Shift
	BinaryShiftLeft  // Left shift (<<)
	BinaryShiftRight // Right shift (>>), arithmetic when Sign is SignSigned
)

// ExprBinary applies a binary operator.
type ExprBinary struct {
	Op    BinaryOperator
	Sign  Sign
	Left  ID
	Right ID
}

// ExprSelect picks Accept or Reject by Condition, per component for
// vector conditions.
type ExprSelect struct {
	Condition ID
	Accept    ID
	Reject    ID
}

// ExprConvert converts numerically to the expression's type.
type ExprConvert struct {
	Operand ID
	// Source is the signedness of an integer operand.
	Source Sign
}

// ExprBitcast reinterprets the bits of Operand as the expression's type.
type ExprBitcast struct {
	Operand ID
}

// ExprExtInst is a GLSL.std.450 extended instruction.
type ExprExtInst struct {
	Inst spirv.GLSLstd450
	Args []ID
}

// Intrinsic is a core instruction that maps to a built-in function.
type Intrinsic uint8

const (
	IntrinsicDot Intrinsic = iota
	IntrinsicOuterProduct
	IntrinsicTranspose
	IntrinsicAny
	IntrinsicAll
	IntrinsicIsNan
	IntrinsicIsInf
	IntrinsicBitCount
	IntrinsicBitReverse
	IntrinsicBitFieldInsert
	IntrinsicBitFieldSExtract
	IntrinsicBitFieldUExtract
	IntrinsicDPdx
	IntrinsicDPdy
	IntrinsicFwidth
	IntrinsicDPdxFine
	IntrinsicDPdyFine
	IntrinsicFwidthFine
	IntrinsicDPdxCoarse
	IntrinsicDPdyCoarse
	IntrinsicFwidthCoarse
)

// ExprIntrinsic calls a built-in function of the core instruction set.
type ExprIntrinsic struct {
	Op   Intrinsic
	Args []ID
}

// ExprSampledImage pairs a separate image and sampler.
type ExprSampledImage struct {
	Image   ID
	Sampler ID
}

// ExprImage extracts the image from a sampled image.
type ExprImage struct {
	SampledImage ID
}

// ImageOperands are the optional operands of image instructions.
// Unused operands are 0.
type ImageOperands struct {
	Bias   ID
	Lod    ID
	GradX  ID
	GradY  ID
	Offset ID
	// ConstOffset marks Offset as a compile-time constant.
	ConstOffset bool
	Sample      ID
	MinLod      ID
}

// ExprImageSample samples a sampled image.
type ExprImageSample struct {
	SampledImage ID
	Coordinate   ID
	// Dref is the depth comparison reference, or 0.
	Dref     ID
	Proj     bool
	Operands ImageOperands
}

// ExprImageFetch reads one texel of a sampled image without filtering.
type ExprImageFetch struct {
	Image      ID
	Coordinate ID
	Operands   ImageOperands
}

// ExprImageGather gathers one component from four texels.
type ExprImageGather struct {
	SampledImage ID
	Coordinate   ID
	Component    ID
	Dref         ID
	Operands     ImageOperands
}

// ExprImageRead reads a storage image texel.
type ExprImageRead struct {
	Image      ID
	Coordinate ID
	Sample     ID
}

// ImageQueryKind selects what ExprImageQuery returns.
type ImageQueryKind uint8

const (
	ImageQuerySize    ImageQueryKind = iota // Dimensions of a storage or buffer image
	ImageQuerySizeLod                       // Dimensions of one mip level
	ImageQueryLevels                        // Number of mip levels
	ImageQuerySamples                       // Number of samples
	ImageQueryLod                           // Mip level that would be sampled
)

// ExprImageQuery queries image properties.
type ExprImageQuery struct {
	Query      ImageQueryKind
	Image      ID
	Lod        ID
	Coordinate ID
}

// ExprCall calls a function with a non-void result.
type ExprCall struct {
	Function ID
	Args     []ID
}

// ExprArrayLength is the length of the runtime array that ends a storage
// buffer block.
type ExprArrayLength struct {
	Structure ID
	Member    uint32
}

// AtomicOp enumerates atomic read-modify-write operations.
type AtomicOp uint8

const (
	AtomicLoad AtomicOp = iota
	AtomicExchange
	AtomicCompareExchange
	AtomicIncrement
	AtomicDecrement
	AtomicAdd
	AtomicSubtract
	AtomicMin
	AtomicMax
	AtomicAnd
	AtomicOr
	AtomicExclusiveOr
)

// ExprAtomic performs an atomic operation and yields the original value.
type ExprAtomic struct {
	Op         AtomicOp
	Sign       Sign
	Pointer    ID
	Value      ID
	Comparator ID
}

// PhiIncoming is one (value, predecessor) pair of a phi.
type PhiIncoming struct {
	Value ID
	Block ID
}

// ExprPhi marks a phi result. Its value is held in a function-scope
// variable written by PhiStores statements on each incoming edge.
type ExprPhi struct {
	Incoming []PhiIncoming
}

// FlatIndex is a runtime index into a flattened buffer. The index is
// scaled by Stride bytes.
type FlatIndex struct {
	Index  ID
	Stride uint32
}

// ExprFlatLoad reads a value out of a uniform buffer that is emitted as a
// vec4 array.
type ExprFlatLoad struct {
	Buffer ID
	// Offset is the constant byte offset of the value in the block.
	Offset  uint32
	Dynamic []FlatIndex
	// RowMajor and MatrixStride describe matrix values.
	RowMajor     bool
	MatrixStride uint32
}

func (ExprLoad) expressionKind()                 {}
func (ExprAccessChain) expressionKind()          {}
func (ExprCompositeConstruct) expressionKind()   {}
func (ExprSplat) expressionKind()                {}
func (ExprCompositeExtract) expressionKind()     {}
func (ExprCompositeInsert) expressionKind()      {}
func (ExprVectorShuffle) expressionKind()        {}
func (ExprVectorExtractDynamic) expressionKind() {}
func (ExprVectorInsertDynamic) expressionKind()  {}
func (ExprCopy) expressionKind()                 {}
func (ExprUnary) expressionKind()                {}
func (ExprBinary) expressionKind()               {}
func (ExprSelect) expressionKind()               {}
func (ExprConvert) expressionKind()              {}
func (ExprBitcast) expressionKind()              {}
func (ExprExtInst) expressionKind()              {}
func (ExprIntrinsic) expressionKind()            {}
func (ExprSampledImage) expressionKind()         {}
func (ExprImage) expressionKind()                {}
func (ExprImageSample) expressionKind()          {}
func (ExprImageFetch) expressionKind()           {}
func (ExprImageGather) expressionKind()          {}
func (ExprImageRead) expressionKind()            {}
func (ExprImageQuery) expressionKind()           {}
func (ExprCall) expressionKind()                 {}
func (ExprArrayLength) expressionKind()          {}
func (ExprAtomic) expressionKind()               {}
func (ExprPhi) expressionKind()                  {}
func (ExprFlatLoad) expressionKind()             {}

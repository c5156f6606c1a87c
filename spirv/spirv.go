// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spirv

// Version represents a SPIR-V version.
type Version struct {
	Major uint8
	Minor uint8
}

// Common SPIR-V versions
var (
	Version1_0 = Version{1, 0}
	Version1_3 = Version{1, 3}
	Version1_4 = Version{1, 4}
	Version1_5 = Version{1, 5}
	Version1_6 = Version{1, 6}
)

// Word encodes the version as it appears in the module header.
func (v Version) Word() uint32 {
	return (uint32(v.Major) << 16) | (uint32(v.Minor) << 8)
}

// Supported reports whether modules of this version can be decoded.
func (v Version) Supported() bool {
	return v.Major == 1 && v.Minor <= 6
}

// SPIR-V magic number and constants
const (
	MagicNumber        = 0x07230203
	MagicNumberSwapped = 0x03022307
	GeneratorID        = 0x00000000 // Unregistered generator
	HeaderWords        = 5
)

// OpCode represents a SPIR-V opcode.
type OpCode uint16

// Opcodes understood by the decoder.
const (
	OpNop                            OpCode = 0
	OpUndef                          OpCode = 1
	OpSourceContinued                OpCode = 2
	OpSource                         OpCode = 3
	OpSourceExtension                OpCode = 4
	OpName                           OpCode = 5
	OpMemberName                     OpCode = 6
	OpString                         OpCode = 7
	OpLine                           OpCode = 8
	OpExtension                      OpCode = 10
	OpExtInstImport                  OpCode = 11
	OpExtInst                        OpCode = 12
	OpMemoryModel                    OpCode = 14
	OpEntryPoint                     OpCode = 15
	OpExecutionMode                  OpCode = 16
	OpCapability                     OpCode = 17
	OpTypeVoid                       OpCode = 19
	OpTypeBool                       OpCode = 20
	OpTypeInt                        OpCode = 21
	OpTypeFloat                      OpCode = 22
	OpTypeVector                     OpCode = 23
	OpTypeMatrix                     OpCode = 24
	OpTypeImage                      OpCode = 25
	OpTypeSampler                    OpCode = 26
	OpTypeSampledImage               OpCode = 27
	OpTypeArray                      OpCode = 28
	OpTypeRuntimeArray               OpCode = 29
	OpTypeStruct                     OpCode = 30
	OpTypeOpaque                     OpCode = 31
	OpTypePointer                    OpCode = 32
	OpTypeFunction                   OpCode = 33
	OpTypeForwardPointer             OpCode = 39
	OpConstantTrue                   OpCode = 41
	OpConstantFalse                  OpCode = 42
	OpConstant                       OpCode = 43
	OpConstantComposite              OpCode = 44
	OpConstantSampler                OpCode = 45
	OpConstantNull                   OpCode = 46
	OpSpecConstantTrue               OpCode = 48
	OpSpecConstantFalse              OpCode = 49
	OpSpecConstant                   OpCode = 50
	OpSpecConstantComposite          OpCode = 51
	OpSpecConstantOp                 OpCode = 52
	OpFunction                       OpCode = 54
	OpFunctionParameter              OpCode = 55
	OpFunctionEnd                    OpCode = 56
	OpFunctionCall                   OpCode = 57
	OpVariable                       OpCode = 59
	OpImageTexelPointer              OpCode = 60
	OpLoad                           OpCode = 61
	OpStore                          OpCode = 62
	OpCopyMemory                     OpCode = 63
	OpCopyMemorySized                OpCode = 64
	OpAccessChain                    OpCode = 65
	OpInBoundsAccessChain            OpCode = 66
	OpPtrAccessChain                 OpCode = 67
	OpArrayLength                    OpCode = 68
	OpDecorate                       OpCode = 71
	OpMemberDecorate                 OpCode = 72
	OpDecorationGroup                OpCode = 73
	OpGroupDecorate                  OpCode = 74
	OpGroupMemberDecorate            OpCode = 75
	OpVectorExtractDynamic           OpCode = 77
	OpVectorInsertDynamic            OpCode = 78
	OpVectorShuffle                  OpCode = 79
	OpCompositeConstruct             OpCode = 80
	OpCompositeExtract               OpCode = 81
	OpCompositeInsert                OpCode = 82
	OpCopyObject                     OpCode = 83
	OpTranspose                      OpCode = 84
	OpSampledImage                   OpCode = 86
	OpImageSampleImplicitLod         OpCode = 87
	OpImageSampleExplicitLod         OpCode = 88
	OpImageSampleDrefImplicitLod     OpCode = 89
	OpImageSampleDrefExplicitLod     OpCode = 90
	OpImageSampleProjImplicitLod     OpCode = 91
	OpImageSampleProjExplicitLod     OpCode = 92
	OpImageSampleProjDrefImplicitLod OpCode = 93
	OpImageSampleProjDrefExplicitLod OpCode = 94
	OpImageFetch                     OpCode = 95
	OpImageGather                    OpCode = 96
	OpImageDrefGather                OpCode = 97
	OpImageRead                      OpCode = 98
	OpImageWrite                     OpCode = 99
	OpImage                          OpCode = 100
	OpImageQuerySizeLod              OpCode = 103
	OpImageQuerySize                 OpCode = 104
	OpImageQueryLod                  OpCode = 105
	OpImageQueryLevels               OpCode = 106
	OpImageQuerySamples              OpCode = 107
	OpConvertFToU                    OpCode = 109
	OpConvertFToS                    OpCode = 110
	OpConvertSToF                    OpCode = 111
	OpConvertUToF                    OpCode = 112
	OpUConvert                       OpCode = 113
	OpSConvert                       OpCode = 114
	OpFConvert                       OpCode = 115
	OpQuantizeToF16                  OpCode = 116
	OpBitcast                        OpCode = 124
	OpSNegate                        OpCode = 126
	OpFNegate                        OpCode = 127
	OpIAdd                           OpCode = 128
	OpFAdd                           OpCode = 129
	OpISub                           OpCode = 130
	OpFSub                           OpCode = 131
	OpIMul                           OpCode = 132
	OpFMul                           OpCode = 133
	OpUDiv                           OpCode = 134
	OpSDiv                           OpCode = 135
	OpFDiv                           OpCode = 136
	OpUMod                           OpCode = 137
	OpSRem                           OpCode = 138
	OpSMod                           OpCode = 139
	OpFRem                           OpCode = 140
	OpFMod                           OpCode = 141
	OpVectorTimesScalar              OpCode = 142
	OpMatrixTimesScalar              OpCode = 143
	OpVectorTimesMatrix              OpCode = 144
	OpMatrixTimesVector              OpCode = 145
	OpMatrixTimesMatrix              OpCode = 146
	OpOuterProduct                   OpCode = 147
	OpDot                            OpCode = 148
	OpAny                            OpCode = 154
	OpAll                            OpCode = 155
	OpIsNan                          OpCode = 156
	OpIsInf                          OpCode = 157
	OpLogicalEqual                   OpCode = 164
	OpLogicalNotEqual                OpCode = 165
	OpLogicalOr                      OpCode = 166
	OpLogicalAnd                     OpCode = 167
	OpLogicalNot                     OpCode = 168
	OpSelect                         OpCode = 169
	OpIEqual                         OpCode = 170
	OpINotEqual                      OpCode = 171
	OpUGreaterThan                   OpCode = 172
	OpSGreaterThan                   OpCode = 173
	OpUGreaterThanEqual              OpCode = 174
	OpSGreaterThanEqual              OpCode = 175
	OpULessThan                      OpCode = 176
	OpSLessThan                      OpCode = 177
	OpULessThanEqual                 OpCode = 178
	OpSLessThanEqual                 OpCode = 179
	OpFOrdEqual                      OpCode = 180
	OpFUnordEqual                    OpCode = 181
	OpFOrdNotEqual                   OpCode = 182
	OpFUnordNotEqual                 OpCode = 183
	OpFOrdLessThan                   OpCode = 184
	OpFUnordLessThan                 OpCode = 185
	OpFOrdGreaterThan                OpCode = 186
	OpFUnordGreaterThan              OpCode = 187
	OpFOrdLessThanEqual              OpCode = 188
	OpFUnordLessThanEqual            OpCode = 189
	OpFOrdGreaterThanEqual           OpCode = 190
	OpFUnordGreaterThanEqual         OpCode = 191
	OpShiftRightLogical              OpCode = 194
	OpShiftRightArithmetic           OpCode = 195
	OpShiftLeftLogical               OpCode = 196
	OpBitwiseOr                      OpCode = 197
	OpBitwiseXor                     OpCode = 198
	OpBitwiseAnd                     OpCode = 199
	OpNot                            OpCode = 200
	OpBitFieldInsert                 OpCode = 201
	OpBitFieldSExtract               OpCode = 202
	OpBitFieldUExtract               OpCode = 203
	OpBitReverse                     OpCode = 204
	OpBitCount                       OpCode = 205
	OpDPdx                           OpCode = 207
	OpDPdy                           OpCode = 208
	OpFwidth                         OpCode = 209
	OpDPdxFine                       OpCode = 210
	OpDPdyFine                       OpCode = 211
	OpFwidthFine                     OpCode = 212
	OpDPdxCoarse                     OpCode = 213
	OpDPdyCoarse                     OpCode = 214
	OpFwidthCoarse                   OpCode = 215
	OpEmitVertex                     OpCode = 218
	OpEndPrimitive                   OpCode = 219
	OpControlBarrier                 OpCode = 224
	OpMemoryBarrier                  OpCode = 225
	OpAtomicLoad                     OpCode = 227
	OpAtomicStore                    OpCode = 228
	OpAtomicExchange                 OpCode = 229
	OpAtomicCompareExchange          OpCode = 230
	OpAtomicCompareExchangeWeak      OpCode = 231
	OpAtomicIIncrement               OpCode = 232
	OpAtomicIDecrement               OpCode = 233
	OpAtomicIAdd                     OpCode = 234
	OpAtomicISub                     OpCode = 235
	OpAtomicSMin                     OpCode = 236
	OpAtomicUMin                     OpCode = 237
	OpAtomicSMax                     OpCode = 238
	OpAtomicUMax                     OpCode = 239
	OpAtomicAnd                      OpCode = 240
	OpAtomicOr                       OpCode = 241
	OpAtomicXor                      OpCode = 242
	OpPhi                            OpCode = 245
	OpLoopMerge                      OpCode = 246
	OpSelectionMerge                 OpCode = 247
	OpLabel                          OpCode = 248
	OpBranch                         OpCode = 249
	OpBranchConditional              OpCode = 250
	OpSwitch                         OpCode = 251
	OpKill                           OpCode = 252
	OpReturn                         OpCode = 253
	OpReturnValue                    OpCode = 254
	OpUnreachable                    OpCode = 255
	OpNoLine                         OpCode = 317
	OpModuleProcessed                OpCode = 330
	OpExecutionModeID                OpCode = 331
	OpDecorateID                     OpCode = 332
	OpCopyLogical                    OpCode = 400
	OpTerminateInvocation            OpCode = 4416
	OpDecorateString                 OpCode = 5632
	OpMemberDecorateString           OpCode = 5633
)

// Capability represents a SPIR-V capability.
type Capability uint32

// Capabilities referenced by the decoder.
const (
	CapabilityMatrix             Capability = 0
	CapabilityShader             Capability = 1
	CapabilityGeometry           Capability = 2
	CapabilityTessellation       Capability = 3
	CapabilityAddresses          Capability = 4
	CapabilityLinkage            Capability = 5
	CapabilityKernel             Capability = 6
	CapabilityFloat64            Capability = 10
	CapabilityInt64              Capability = 11
	CapabilitySampled1D          Capability = 43
	CapabilityImage1D            Capability = 44
	CapabilityStorageImageFormat Capability = 49 // StorageImageExtendedFormats
	CapabilityImageQuery         Capability = 50
	CapabilityDerivativeControl  Capability = 51
)

// AddressingModel represents a SPIR-V addressing model.
type AddressingModel uint32

// Addressing models.
const (
	AddressingModelLogical    AddressingModel = 0
	AddressingModelPhysical32 AddressingModel = 1
	AddressingModelPhysical64 AddressingModel = 2
)

// MemoryModel represents a SPIR-V memory model.
type MemoryModel uint32

// Memory models.
const (
	MemoryModelSimple  MemoryModel = 0
	MemoryModelGLSL450 MemoryModel = 1
	MemoryModelOpenCL  MemoryModel = 2
	MemoryModelVulkan  MemoryModel = 3
)

// ExecutionModel represents a shader stage.
type ExecutionModel uint32

// Execution models.
const (
	ExecutionModelVertex                 ExecutionModel = 0
	ExecutionModelTessellationControl    ExecutionModel = 1
	ExecutionModelTessellationEvaluation ExecutionModel = 2
	ExecutionModelGeometry               ExecutionModel = 3
	ExecutionModelFragment               ExecutionModel = 4
	ExecutionModelGLCompute              ExecutionModel = 5
	ExecutionModelKernel                 ExecutionModel = 6
)

// ExecutionMode represents a SPIR-V execution mode.
type ExecutionMode uint32

// Execution modes.
const (
	ExecutionModeInvocations        ExecutionMode = 0
	ExecutionModePixelCenterInteger ExecutionMode = 6
	ExecutionModeOriginUpperLeft    ExecutionMode = 7
	ExecutionModeOriginLowerLeft    ExecutionMode = 8
	ExecutionModeEarlyFragmentTests ExecutionMode = 9
	ExecutionModeDepthReplacing     ExecutionMode = 12
	ExecutionModeDepthGreater       ExecutionMode = 14
	ExecutionModeDepthLess          ExecutionMode = 15
	ExecutionModeDepthUnchanged     ExecutionMode = 16
	ExecutionModeLocalSize          ExecutionMode = 17
	ExecutionModeLocalSizeHint      ExecutionMode = 18
	ExecutionModeLocalSizeID        ExecutionMode = 38
)

// StorageClass represents a SPIR-V storage class.
type StorageClass uint32

// Storage classes.
const (
	StorageClassUniformConstant StorageClass = 0
	StorageClassInput           StorageClass = 1
	StorageClassUniform         StorageClass = 2
	StorageClassOutput          StorageClass = 3
	StorageClassWorkgroup       StorageClass = 4
	StorageClassCrossWorkgroup  StorageClass = 5
	StorageClassPrivate         StorageClass = 6
	StorageClassFunction        StorageClass = 7
	StorageClassGeneric         StorageClass = 8
	StorageClassPushConstant    StorageClass = 9
	StorageClassAtomicCounter   StorageClass = 10
	StorageClassImage           StorageClass = 11
	StorageClassStorageBuffer   StorageClass = 12
)

// Decoration represents a SPIR-V decoration.
type Decoration uint32

// Decorations.
const (
	DecorationRelaxedPrecision     Decoration = 0
	DecorationSpecID               Decoration = 1
	DecorationBlock                Decoration = 2
	DecorationBufferBlock          Decoration = 3
	DecorationRowMajor             Decoration = 4
	DecorationColMajor             Decoration = 5
	DecorationArrayStride          Decoration = 6
	DecorationMatrixStride         Decoration = 7
	DecorationGLSLShared           Decoration = 8
	DecorationGLSLPacked           Decoration = 9
	DecorationBuiltIn              Decoration = 11
	DecorationNoPerspective        Decoration = 13
	DecorationFlat                 Decoration = 14
	DecorationPatch                Decoration = 15
	DecorationCentroid             Decoration = 16
	DecorationSample               Decoration = 17
	DecorationInvariant            Decoration = 18
	DecorationRestrict             Decoration = 19
	DecorationAliased              Decoration = 20
	DecorationVolatile             Decoration = 21
	DecorationCoherent             Decoration = 23
	DecorationNonWritable          Decoration = 24
	DecorationNonReadable          Decoration = 25
	DecorationLocation             Decoration = 30
	DecorationComponent            Decoration = 31
	DecorationIndex                Decoration = 32
	DecorationBinding              Decoration = 33
	DecorationDescriptorSet        Decoration = 34
	DecorationOffset               Decoration = 35
	DecorationNoContraction        Decoration = 42
	DecorationInputAttachmentIndex Decoration = 43
)

// BuiltIn represents a SPIR-V built-in variable.
type BuiltIn uint32

// Built-ins.
const (
	BuiltInPosition             BuiltIn = 0
	BuiltInPointSize            BuiltIn = 1
	BuiltInClipDistance         BuiltIn = 3
	BuiltInCullDistance         BuiltIn = 4
	BuiltInVertexID             BuiltIn = 5
	BuiltInInstanceID           BuiltIn = 6
	BuiltInPrimitiveID          BuiltIn = 7
	BuiltInLayer                BuiltIn = 9
	BuiltInViewportIndex        BuiltIn = 10
	BuiltInFragCoord            BuiltIn = 15
	BuiltInPointCoord           BuiltIn = 16
	BuiltInFrontFacing          BuiltIn = 17
	BuiltInSampleID             BuiltIn = 18
	BuiltInSamplePosition       BuiltIn = 19
	BuiltInSampleMask           BuiltIn = 20
	BuiltInFragDepth            BuiltIn = 22
	BuiltInHelperInvocation     BuiltIn = 23
	BuiltInNumWorkgroups        BuiltIn = 24
	BuiltInWorkgroupSize        BuiltIn = 25
	BuiltInWorkgroupID          BuiltIn = 26
	BuiltInLocalInvocationID    BuiltIn = 27
	BuiltInGlobalInvocationID   BuiltIn = 28
	BuiltInLocalInvocationIndex BuiltIn = 29
	BuiltInVertexIndex          BuiltIn = 42
	BuiltInInstanceIndex        BuiltIn = 43
)

// Dim represents an image dimensionality.
type Dim uint32

// Image dimensions.
const (
	Dim1D          Dim = 0
	Dim2D          Dim = 1
	Dim3D          Dim = 2
	DimCube        Dim = 3
	DimRect        Dim = 4
	DimBuffer      Dim = 5
	DimSubpassData Dim = 6
)

// ImageFormat represents a storage image texel format.
type ImageFormat uint32

// Image formats.
const (
	ImageFormatUnknown      ImageFormat = 0
	ImageFormatRgba32f      ImageFormat = 1
	ImageFormatRgba16f      ImageFormat = 2
	ImageFormatR32f         ImageFormat = 3
	ImageFormatRgba8        ImageFormat = 4
	ImageFormatRgba8Snorm   ImageFormat = 5
	ImageFormatRg32f        ImageFormat = 6
	ImageFormatRg16f        ImageFormat = 7
	ImageFormatR11fG11fB10f ImageFormat = 8
	ImageFormatR16f         ImageFormat = 9
	ImageFormatRgba16       ImageFormat = 10
	ImageFormatRgb10A2      ImageFormat = 11
	ImageFormatRg16         ImageFormat = 12
	ImageFormatRg8          ImageFormat = 13
	ImageFormatR16          ImageFormat = 14
	ImageFormatR8           ImageFormat = 15
	ImageFormatRgba16Snorm  ImageFormat = 16
	ImageFormatRg16Snorm    ImageFormat = 17
	ImageFormatRg8Snorm     ImageFormat = 18
	ImageFormatR16Snorm     ImageFormat = 19
	ImageFormatR8Snorm      ImageFormat = 20
	ImageFormatRgba32i      ImageFormat = 21
	ImageFormatRgba16i      ImageFormat = 22
	ImageFormatRgba8i       ImageFormat = 23
	ImageFormatR32i         ImageFormat = 24
	ImageFormatRg32i        ImageFormat = 25
	ImageFormatRg16i        ImageFormat = 26
	ImageFormatRg8i         ImageFormat = 27
	ImageFormatR16i         ImageFormat = 28
	ImageFormatR8i          ImageFormat = 29
	ImageFormatRgba32ui     ImageFormat = 30
	ImageFormatRgba16ui     ImageFormat = 31
	ImageFormatRgba8ui      ImageFormat = 32
	ImageFormatR32ui        ImageFormat = 33
	ImageFormatRgb10a2ui    ImageFormat = 34
	ImageFormatRg32ui       ImageFormat = 35
	ImageFormatRg16ui       ImageFormat = 36
	ImageFormatRg8ui        ImageFormat = 37
	ImageFormatR16ui        ImageFormat = 38
	ImageFormatR8ui         ImageFormat = 39
)

// ImageOperands is the optional operand mask of image instructions.
type ImageOperands uint32

// Image operand bits.
const (
	ImageOperandsBias         ImageOperands = 0x1
	ImageOperandsLod          ImageOperands = 0x2
	ImageOperandsGrad         ImageOperands = 0x4
	ImageOperandsConstOffset  ImageOperands = 0x8
	ImageOperandsOffset       ImageOperands = 0x10
	ImageOperandsConstOffsets ImageOperands = 0x20
	ImageOperandsSample       ImageOperands = 0x40
	ImageOperandsMinLod       ImageOperands = 0x80
)

// FunctionControl is the function control mask.
type FunctionControl uint32

// Function control bits.
const (
	FunctionControlNone     FunctionControl = 0
	FunctionControlInline   FunctionControl = 1
	FunctionControlDontInln FunctionControl = 2
)

// SelectionControl is the selection merge control mask.
type SelectionControl uint32

// Selection control bits.
const (
	SelectionControlNone SelectionControl = 0
)

// LoopControl is the loop merge control mask.
type LoopControl uint32

// Loop control bits.
const (
	LoopControlNone LoopControl = 0
)

// MemorySemantics is the memory semantics mask of barriers and atomics.
type MemorySemantics uint32

// Memory semantics bits.
const (
	MemorySemanticsAcquireRelease         MemorySemantics = 0x8
	MemorySemanticsUniformMemory          MemorySemantics = 0x40
	MemorySemanticsWorkgroupMemory        MemorySemantics = 0x100
	MemorySemanticsAtomicCounterMemory    MemorySemantics = 0x400
	MemorySemanticsImageMemory            MemorySemantics = 0x800
	MemorySemanticsSubgroupMemory         MemorySemantics = 0x80
	MemorySemanticsCrossWorkgroupMemory   MemorySemantics = 0x200
	MemorySemanticsSequentiallyConsistent MemorySemantics = 0x10
)

// Scope is the execution or memory scope of barriers and atomics.
type Scope uint32

// Scopes.
const (
	ScopeCrossDevice Scope = 0
	ScopeDevice      Scope = 1
	ScopeWorkgroup   Scope = 2
	ScopeSubgroup    Scope = 3
	ScopeInvocation  Scope = 4
)

// GLSLstd450 is an instruction of the GLSL.std.450 extended set.
type GLSLstd450 uint32

// GLSL.std.450 instructions.
const (
	GLSLstd450Round                 GLSLstd450 = 1
	GLSLstd450RoundEven             GLSLstd450 = 2
	GLSLstd450Trunc                 GLSLstd450 = 3
	GLSLstd450FAbs                  GLSLstd450 = 4
	GLSLstd450SAbs                  GLSLstd450 = 5
	GLSLstd450FSign                 GLSLstd450 = 6
	GLSLstd450SSign                 GLSLstd450 = 7
	GLSLstd450Floor                 GLSLstd450 = 8
	GLSLstd450Ceil                  GLSLstd450 = 9
	GLSLstd450Fract                 GLSLstd450 = 10
	GLSLstd450Radians               GLSLstd450 = 11
	GLSLstd450Degrees               GLSLstd450 = 12
	GLSLstd450Sin                   GLSLstd450 = 13
	GLSLstd450Cos                   GLSLstd450 = 14
	GLSLstd450Tan                   GLSLstd450 = 15
	GLSLstd450Asin                  GLSLstd450 = 16
	GLSLstd450Acos                  GLSLstd450 = 17
	GLSLstd450Atan                  GLSLstd450 = 18
	GLSLstd450Sinh                  GLSLstd450 = 19
	GLSLstd450Cosh                  GLSLstd450 = 20
	GLSLstd450Tanh                  GLSLstd450 = 21
	GLSLstd450Asinh                 GLSLstd450 = 22
	GLSLstd450Acosh                 GLSLstd450 = 23
	GLSLstd450Atanh                 GLSLstd450 = 24
	GLSLstd450Atan2                 GLSLstd450 = 25
	GLSLstd450Pow                   GLSLstd450 = 26
	GLSLstd450Exp                   GLSLstd450 = 27
	GLSLstd450Log                   GLSLstd450 = 28
	GLSLstd450Exp2                  GLSLstd450 = 29
	GLSLstd450Log2                  GLSLstd450 = 30
	GLSLstd450Sqrt                  GLSLstd450 = 31
	GLSLstd450InverseSqrt           GLSLstd450 = 32
	GLSLstd450Determinant           GLSLstd450 = 33
	GLSLstd450MatrixInverse         GLSLstd450 = 34
	GLSLstd450Modf                  GLSLstd450 = 35
	GLSLstd450ModfStruct            GLSLstd450 = 36
	GLSLstd450FMin                  GLSLstd450 = 37
	GLSLstd450UMin                  GLSLstd450 = 38
	GLSLstd450SMin                  GLSLstd450 = 39
	GLSLstd450FMax                  GLSLstd450 = 40
	GLSLstd450UMax                  GLSLstd450 = 41
	GLSLstd450SMax                  GLSLstd450 = 42
	GLSLstd450FClamp                GLSLstd450 = 43
	GLSLstd450UClamp                GLSLstd450 = 44
	GLSLstd450SClamp                GLSLstd450 = 45
	GLSLstd450FMix                  GLSLstd450 = 46
	GLSLstd450IMix                  GLSLstd450 = 47
	GLSLstd450Step                  GLSLstd450 = 48
	GLSLstd450SmoothStep            GLSLstd450 = 49
	GLSLstd450Fma                   GLSLstd450 = 50
	GLSLstd450Frexp                 GLSLstd450 = 51
	GLSLstd450FrexpStruct           GLSLstd450 = 52
	GLSLstd450Ldexp                 GLSLstd450 = 53
	GLSLstd450PackSnorm4x8          GLSLstd450 = 54
	GLSLstd450PackUnorm4x8          GLSLstd450 = 55
	GLSLstd450PackSnorm2x16         GLSLstd450 = 56
	GLSLstd450PackUnorm2x16         GLSLstd450 = 57
	GLSLstd450PackHalf2x16          GLSLstd450 = 58
	GLSLstd450PackDouble2x32        GLSLstd450 = 59
	GLSLstd450UnpackSnorm2x16       GLSLstd450 = 60
	GLSLstd450UnpackUnorm2x16       GLSLstd450 = 61
	GLSLstd450UnpackHalf2x16        GLSLstd450 = 62
	GLSLstd450UnpackSnorm4x8        GLSLstd450 = 63
	GLSLstd450UnpackUnorm4x8        GLSLstd450 = 64
	GLSLstd450UnpackDouble2x32      GLSLstd450 = 65
	GLSLstd450Length                GLSLstd450 = 66
	GLSLstd450Distance              GLSLstd450 = 67
	GLSLstd450Cross                 GLSLstd450 = 68
	GLSLstd450Normalize             GLSLstd450 = 69
	GLSLstd450FaceForward           GLSLstd450 = 70
	GLSLstd450Reflect               GLSLstd450 = 71
	GLSLstd450Refract               GLSLstd450 = 72
	GLSLstd450FindILsb              GLSLstd450 = 73
	GLSLstd450FindSMsb              GLSLstd450 = 74
	GLSLstd450FindUMsb              GLSLstd450 = 75
	GLSLstd450InterpolateAtCentroid GLSLstd450 = 76
	GLSLstd450InterpolateAtSample   GLSLstd450 = 77
	GLSLstd450InterpolateAtOffset   GLSLstd450 = 78
	GLSLstd450NMin                  GLSLstd450 = 79
	GLSLstd450NMax                  GLSLstd450 = 80
	GLSLstd450NClamp                GLSLstd450 = 81
)

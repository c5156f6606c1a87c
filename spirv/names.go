// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spirv

import "fmt"

// opInfo describes how an opcode lays out its leading operands.
type opInfo struct {
	name      string
	hasType   bool // first operand is a result type id
	hasResult bool // next operand is a result id
}

var opcodeInfo = map[OpCode]opInfo{
	OpNop: {"OpNop", false, false}, OpUndef: {"OpUndef", true, true},
	OpSourceContinued: {"OpSourceContinued", false, false}, OpSource: {"OpSource", false, false},
	OpSourceExtension: {"OpSourceExtension", false, false}, OpName: {"OpName", false, false},
	OpMemberName: {"OpMemberName", false, false}, OpString: {"OpString", false, true},
	OpLine: {"OpLine", false, false}, OpExtension: {"OpExtension", false, false},
	OpExtInstImport: {"OpExtInstImport", false, true}, OpExtInst: {"OpExtInst", true, true},
	OpMemoryModel: {"OpMemoryModel", false, false}, OpEntryPoint: {"OpEntryPoint", false, false},
	OpExecutionMode: {"OpExecutionMode", false, false}, OpCapability: {"OpCapability", false, false},
	OpTypeVoid: {"OpTypeVoid", false, true}, OpTypeBool: {"OpTypeBool", false, true},
	OpTypeInt: {"OpTypeInt", false, true}, OpTypeFloat: {"OpTypeFloat", false, true},
	OpTypeVector: {"OpTypeVector", false, true}, OpTypeMatrix: {"OpTypeMatrix", false, true},
	OpTypeImage: {"OpTypeImage", false, true}, OpTypeSampler: {"OpTypeSampler", false, true},
	OpTypeSampledImage: {"OpTypeSampledImage", false, true}, OpTypeArray: {"OpTypeArray", false, true},
	OpTypeRuntimeArray: {"OpTypeRuntimeArray", false, true}, OpTypeStruct: {"OpTypeStruct", false, true},
	OpTypeOpaque: {"OpTypeOpaque", false, true}, OpTypePointer: {"OpTypePointer", false, true},
	OpTypeFunction: {"OpTypeFunction", false, true}, OpTypeForwardPointer: {"OpTypeForwardPointer", false, false}, OpConstantTrue: {"OpConstantTrue", true, true},
	OpConstantFalse: {"OpConstantFalse", true, true}, OpConstant: {"OpConstant", true, true},
	OpConstantComposite: {"OpConstantComposite", true, true}, OpConstantSampler: {"OpConstantSampler", true, true},
	OpConstantNull: {"OpConstantNull", true, true}, OpSpecConstantTrue: {"OpSpecConstantTrue", true, true},
	OpSpecConstantFalse: {"OpSpecConstantFalse", true, true}, OpSpecConstant: {"OpSpecConstant", true, true},
	OpSpecConstantComposite: {"OpSpecConstantComposite", true, true}, OpSpecConstantOp: {"OpSpecConstantOp", true, true},
	OpFunction: {"OpFunction", true, true}, OpFunctionParameter: {"OpFunctionParameter", true, true},
	OpFunctionEnd: {"OpFunctionEnd", false, false}, OpFunctionCall: {"OpFunctionCall", true, true},
	OpVariable: {"OpVariable", true, true}, OpImageTexelPointer: {"OpImageTexelPointer", true, true},
	OpLoad: {"OpLoad", true, true}, OpStore: {"OpStore", false, false},
	OpCopyMemory: {"OpCopyMemory", false, false}, OpCopyMemorySized: {"OpCopyMemorySized", false, false},
	OpAccessChain: {"OpAccessChain", true, true}, OpInBoundsAccessChain: {"OpInBoundsAccessChain", true, true},
	OpPtrAccessChain: {"OpPtrAccessChain", true, true}, OpArrayLength: {"OpArrayLength", true, true},
	OpDecorate: {"OpDecorate", false, false}, OpMemberDecorate: {"OpMemberDecorate", false, false},
	OpDecorationGroup: {"OpDecorationGroup", false, true}, OpGroupDecorate: {"OpGroupDecorate", false, false},
	OpGroupMemberDecorate:  {"OpGroupMemberDecorate", false, false},
	OpVectorExtractDynamic: {"OpVectorExtractDynamic", true, true}, OpVectorInsertDynamic: {"OpVectorInsertDynamic", true, true},
	OpVectorShuffle: {"OpVectorShuffle", true, true}, OpCompositeConstruct: {"OpCompositeConstruct", true, true},
	OpCompositeExtract: {"OpCompositeExtract", true, true}, OpCompositeInsert: {"OpCompositeInsert", true, true},
	OpCopyObject: {"OpCopyObject", true, true}, OpTranspose: {"OpTranspose", true, true},
	OpSampledImage: {"OpSampledImage", true, true}, OpImageSampleImplicitLod: {"OpImageSampleImplicitLod", true, true},
	OpImageSampleExplicitLod: {"OpImageSampleExplicitLod", true, true}, OpImageSampleDrefImplicitLod: {"OpImageSampleDrefImplicitLod", true, true},
	OpImageSampleDrefExplicitLod: {"OpImageSampleDrefExplicitLod", true, true}, OpImageSampleProjImplicitLod: {"OpImageSampleProjImplicitLod", true, true},
	OpImageSampleProjExplicitLod: {"OpImageSampleProjExplicitLod", true, true}, OpImageSampleProjDrefImplicitLod: {"OpImageSampleProjDrefImplicitLod", true, true},
	OpImageSampleProjDrefExplicitLod: {"OpImageSampleProjDrefExplicitLod", true, true}, OpImageFetch: {"OpImageFetch", true, true},
	OpImageGather: {"OpImageGather", true, true}, OpImageDrefGather: {"OpImageDrefGather", true, true},
	OpImageRead: {"OpImageRead", true, true}, OpImageWrite: {"OpImageWrite", false, false},
	OpImage: {"OpImage", true, true}, OpImageQuerySizeLod: {"OpImageQuerySizeLod", true, true},
	OpImageQuerySize: {"OpImageQuerySize", true, true}, OpImageQueryLod: {"OpImageQueryLod", true, true},
	OpImageQueryLevels: {"OpImageQueryLevels", true, true}, OpImageQuerySamples: {"OpImageQuerySamples", true, true},
	OpConvertFToU: {"OpConvertFToU", true, true}, OpConvertFToS: {"OpConvertFToS", true, true},
	OpConvertSToF: {"OpConvertSToF", true, true}, OpConvertUToF: {"OpConvertUToF", true, true},
	OpUConvert: {"OpUConvert", true, true}, OpSConvert: {"OpSConvert", true, true},
	OpFConvert: {"OpFConvert", true, true}, OpQuantizeToF16: {"OpQuantizeToF16", true, true},
	OpBitcast: {"OpBitcast", true, true}, OpSNegate: {"OpSNegate", true, true},
	OpFNegate: {"OpFNegate", true, true}, OpIAdd: {"OpIAdd", true, true},
	OpFAdd: {"OpFAdd", true, true}, OpISub: {"OpISub", true, true},
	OpFSub: {"OpFSub", true, true}, OpIMul: {"OpIMul", true, true},
	OpFMul: {"OpFMul", true, true}, OpUDiv: {"OpUDiv", true, true},
	OpSDiv: {"OpSDiv", true, true}, OpFDiv: {"OpFDiv", true, true},
	OpUMod: {"OpUMod", true, true}, OpSRem: {"OpSRem", true, true},
	OpSMod: {"OpSMod", true, true}, OpFRem: {"OpFRem", true, true},
	OpFMod: {"OpFMod", true, true}, OpVectorTimesScalar: {"OpVectorTimesScalar", true, true},
	OpMatrixTimesScalar: {"OpMatrixTimesScalar", true, true}, OpVectorTimesMatrix: {"OpVectorTimesMatrix", true, true},
	OpMatrixTimesVector: {"OpMatrixTimesVector", true, true}, OpMatrixTimesMatrix: {"OpMatrixTimesMatrix", true, true},
	OpOuterProduct: {"OpOuterProduct", true, true}, OpDot: {"OpDot", true, true},
	OpAny: {"OpAny", true, true}, OpAll: {"OpAll", true, true},
	OpIsNan: {"OpIsNan", true, true}, OpIsInf: {"OpIsInf", true, true},
	OpLogicalEqual: {"OpLogicalEqual", true, true}, OpLogicalNotEqual: {"OpLogicalNotEqual", true, true},
	OpLogicalOr: {"OpLogicalOr", true, true}, OpLogicalAnd: {"OpLogicalAnd", true, true},
	OpLogicalNot: {"OpLogicalNot", true, true}, OpSelect: {"OpSelect", true, true},
	OpIEqual: {"OpIEqual", true, true}, OpINotEqual: {"OpINotEqual", true, true},
	OpUGreaterThan: {"OpUGreaterThan", true, true}, OpSGreaterThan: {"OpSGreaterThan", true, true},
	OpUGreaterThanEqual: {"OpUGreaterThanEqual", true, true}, OpSGreaterThanEqual: {"OpSGreaterThanEqual", true, true},
	OpULessThan: {"OpULessThan", true, true}, OpSLessThan: {"OpSLessThan", true, true},
	OpULessThanEqual: {"OpULessThanEqual", true, true}, OpSLessThanEqual: {"OpSLessThanEqual", true, true},
	OpFOrdEqual: {"OpFOrdEqual", true, true}, OpFUnordEqual: {"OpFUnordEqual", true, true},
	OpFOrdNotEqual: {"OpFOrdNotEqual", true, true}, OpFUnordNotEqual: {"OpFUnordNotEqual", true, true},
	OpFOrdLessThan: {"OpFOrdLessThan", true, true}, OpFUnordLessThan: {"OpFUnordLessThan", true, true},
	OpFOrdGreaterThan: {"OpFOrdGreaterThan", true, true}, OpFUnordGreaterThan: {"OpFUnordGreaterThan", true, true},
	OpFOrdLessThanEqual: {"OpFOrdLessThanEqual", true, true}, OpFUnordLessThanEqual: {"OpFUnordLessThanEqual", true, true},
	OpFOrdGreaterThanEqual: {"OpFOrdGreaterThanEqual", true, true}, OpFUnordGreaterThanEqual: {"OpFUnordGreaterThanEqual", true, true},
	OpShiftRightLogical: {"OpShiftRightLogical", true, true}, OpShiftRightArithmetic: {"OpShiftRightArithmetic", true, true},
	OpShiftLeftLogical: {"OpShiftLeftLogical", true, true}, OpBitwiseOr: {"OpBitwiseOr", true, true},
	OpBitwiseXor: {"OpBitwiseXor", true, true}, OpBitwiseAnd: {"OpBitwiseAnd", true, true},
	OpNot: {"OpNot", true, true}, OpBitFieldInsert: {"OpBitFieldInsert", true, true},
	OpBitFieldSExtract: {"OpBitFieldSExtract", true, true}, OpBitFieldUExtract: {"OpBitFieldUExtract", true, true},
	OpBitReverse: {"OpBitReverse", true, true}, OpBitCount: {"OpBitCount", true, true},
	OpDPdx: {"OpDPdx", true, true}, OpDPdy: {"OpDPdy", true, true},
	OpFwidth: {"OpFwidth", true, true}, OpDPdxFine: {"OpDPdxFine", true, true},
	OpDPdyFine: {"OpDPdyFine", true, true}, OpFwidthFine: {"OpFwidthFine", true, true},
	OpDPdxCoarse: {"OpDPdxCoarse", true, true}, OpDPdyCoarse: {"OpDPdyCoarse", true, true},
	OpFwidthCoarse: {"OpFwidthCoarse", true, true}, OpEmitVertex: {"OpEmitVertex", false, false},
	OpEndPrimitive: {"OpEndPrimitive", false, false}, OpControlBarrier: {"OpControlBarrier", false, false},
	OpMemoryBarrier: {"OpMemoryBarrier", false, false}, OpAtomicLoad: {"OpAtomicLoad", true, true},
	OpAtomicStore: {"OpAtomicStore", false, false}, OpAtomicExchange: {"OpAtomicExchange", true, true},
	OpAtomicCompareExchange: {"OpAtomicCompareExchange", true, true}, OpAtomicCompareExchangeWeak: {"OpAtomicCompareExchangeWeak", true, true},
	OpAtomicIIncrement: {"OpAtomicIIncrement", true, true}, OpAtomicIDecrement: {"OpAtomicIDecrement", true, true},
	OpAtomicIAdd: {"OpAtomicIAdd", true, true}, OpAtomicISub: {"OpAtomicISub", true, true},
	OpAtomicSMin: {"OpAtomicSMin", true, true}, OpAtomicUMin: {"OpAtomicUMin", true, true},
	OpAtomicSMax: {"OpAtomicSMax", true, true}, OpAtomicUMax: {"OpAtomicUMax", true, true},
	OpAtomicAnd: {"OpAtomicAnd", true, true}, OpAtomicOr: {"OpAtomicOr", true, true},
	OpAtomicXor: {"OpAtomicXor", true, true}, OpPhi: {"OpPhi", true, true},
	OpLoopMerge: {"OpLoopMerge", false, false}, OpSelectionMerge: {"OpSelectionMerge", false, false},
	OpLabel: {"OpLabel", false, true}, OpBranch: {"OpBranch", false, false},
	OpBranchConditional: {"OpBranchConditional", false, false}, OpSwitch: {"OpSwitch", false, false},
	OpKill: {"OpKill", false, false}, OpReturn: {"OpReturn", false, false},
	OpReturnValue: {"OpReturnValue", false, false}, OpUnreachable: {"OpUnreachable", false, false},
	OpNoLine: {"OpNoLine", false, false}, OpModuleProcessed: {"OpModuleProcessed", false, false},
	OpExecutionModeID: {"OpExecutionModeId", false, false}, OpDecorateID: {"OpDecorateId", false, false},
	OpCopyLogical: {"OpCopyLogical", true, true}, OpTerminateInvocation: {"OpTerminateInvocation", false, false},
	OpDecorateString: {"OpDecorateString", false, false}, OpMemberDecorateString: {"OpMemberDecorateString", false, false},
}

// OpcodeName returns the mnemonic of op, or "Op<n>" for unknown opcodes.
func OpcodeName(op OpCode) string {
	if info, ok := opcodeInfo[op]; ok {
		return info.name
	}
	return fmt.Sprintf("Op%d", op)
}

// String implements fmt.Stringer.
func (op OpCode) String() string {
	return OpcodeName(op)
}

// HasResult reports whether op produces a result id, and whether that id is
// preceded by a result type.
func HasResult(op OpCode) (hasType, hasResult bool) {
	info := opcodeInfo[op]
	return info.hasType, info.hasResult
}

var storageClassNames = map[StorageClass]string{
	StorageClassUniformConstant: "UniformConstant", StorageClassInput: "Input",
	StorageClassUniform: "Uniform", StorageClassOutput: "Output",
	StorageClassWorkgroup: "Workgroup", StorageClassCrossWorkgroup: "CrossWorkgroup",
	StorageClassPrivate: "Private", StorageClassFunction: "Function",
	StorageClassGeneric: "Generic", StorageClassPushConstant: "PushConstant",
	StorageClassAtomicCounter: "AtomicCounter", StorageClassImage: "Image",
	StorageClassStorageBuffer: "StorageBuffer",
}

func (s StorageClass) String() string {
	return lookupName(storageClassNames, s)
}

var decorationNames = map[Decoration]string{
	DecorationRelaxedPrecision: "RelaxedPrecision", DecorationSpecID: "SpecId",
	DecorationBlock: "Block", DecorationBufferBlock: "BufferBlock",
	DecorationRowMajor: "RowMajor", DecorationColMajor: "ColMajor",
	DecorationArrayStride: "ArrayStride", DecorationMatrixStride: "MatrixStride",
	DecorationGLSLShared: "GLSLShared", DecorationGLSLPacked: "GLSLPacked",
	DecorationBuiltIn: "BuiltIn", DecorationNoPerspective: "NoPerspective",
	DecorationFlat: "Flat", DecorationPatch: "Patch", DecorationCentroid: "Centroid",
	DecorationSample: "Sample", DecorationInvariant: "Invariant",
	DecorationRestrict: "Restrict", DecorationAliased: "Aliased",
	DecorationVolatile: "Volatile", DecorationCoherent: "Coherent",
	DecorationNonWritable: "NonWritable", DecorationNonReadable: "NonReadable",
	DecorationLocation: "Location", DecorationComponent: "Component",
	DecorationIndex: "Index", DecorationBinding: "Binding",
	DecorationDescriptorSet: "DescriptorSet", DecorationOffset: "Offset",
	DecorationNoContraction: "NoContraction", DecorationInputAttachmentIndex: "InputAttachmentIndex",
}

func (d Decoration) String() string {
	return lookupName(decorationNames, d)
}

var builtInNames = map[BuiltIn]string{
	BuiltInPosition: "Position", BuiltInPointSize: "PointSize",
	BuiltInClipDistance: "ClipDistance", BuiltInCullDistance: "CullDistance",
	BuiltInVertexID: "VertexId", BuiltInInstanceID: "InstanceId",
	BuiltInPrimitiveID: "PrimitiveId", BuiltInLayer: "Layer",
	BuiltInViewportIndex: "ViewportIndex", BuiltInFragCoord: "FragCoord",
	BuiltInPointCoord: "PointCoord", BuiltInFrontFacing: "FrontFacing",
	BuiltInSampleID: "SampleId", BuiltInSamplePosition: "SamplePosition",
	BuiltInSampleMask: "SampleMask", BuiltInFragDepth: "FragDepth",
	BuiltInHelperInvocation: "HelperInvocation", BuiltInNumWorkgroups: "NumWorkgroups",
	BuiltInWorkgroupSize: "WorkgroupSize", BuiltInWorkgroupID: "WorkgroupId",
	BuiltInLocalInvocationID: "LocalInvocationId", BuiltInGlobalInvocationID: "GlobalInvocationId",
	BuiltInLocalInvocationIndex: "LocalInvocationIndex", BuiltInVertexIndex: "VertexIndex",
	BuiltInInstanceIndex: "InstanceIndex",
}

func (b BuiltIn) String() string {
	return lookupName(builtInNames, b)
}

var executionModelNames = map[ExecutionModel]string{
	ExecutionModelVertex: "Vertex", ExecutionModelTessellationControl: "TessellationControl",
	ExecutionModelTessellationEvaluation: "TessellationEvaluation", ExecutionModelGeometry: "Geometry",
	ExecutionModelFragment: "Fragment", ExecutionModelGLCompute: "GLCompute",
	ExecutionModelKernel: "Kernel",
}

func (e ExecutionModel) String() string {
	return lookupName(executionModelNames, e)
}

var executionModeNames = map[ExecutionMode]string{
	ExecutionModeInvocations: "Invocations", ExecutionModePixelCenterInteger: "PixelCenterInteger",
	ExecutionModeOriginUpperLeft: "OriginUpperLeft", ExecutionModeOriginLowerLeft: "OriginLowerLeft",
	ExecutionModeEarlyFragmentTests: "EarlyFragmentTests", ExecutionModeDepthReplacing: "DepthReplacing",
	ExecutionModeDepthGreater: "DepthGreater", ExecutionModeDepthLess: "DepthLess",
	ExecutionModeDepthUnchanged: "DepthUnchanged", ExecutionModeLocalSize: "LocalSize",
	ExecutionModeLocalSizeHint: "LocalSizeHint", ExecutionModeLocalSizeID: "LocalSizeId",
}

func (e ExecutionMode) String() string {
	return lookupName(executionModeNames, e)
}

var dimNames = map[Dim]string{
	Dim1D: "1D", Dim2D: "2D", Dim3D: "3D", DimCube: "Cube",
	DimRect: "Rect", DimBuffer: "Buffer", DimSubpassData: "SubpassData",
}

func (d Dim) String() string {
	return lookupName(dimNames, d)
}

var capabilityNames = map[Capability]string{
	CapabilityMatrix: "Matrix", CapabilityShader: "Shader", CapabilityGeometry: "Geometry",
	CapabilityTessellation: "Tessellation", CapabilityAddresses: "Addresses",
	CapabilityLinkage: "Linkage", CapabilityKernel: "Kernel", CapabilityFloat64: "Float64",
	CapabilityInt64: "Int64", CapabilitySampled1D: "Sampled1D", CapabilityImage1D: "Image1D",
	CapabilityStorageImageFormat: "StorageImageExtendedFormats", CapabilityImageQuery: "ImageQuery",
	CapabilityDerivativeControl: "DerivativeControl",
}

func (c Capability) String() string {
	return lookupName(capabilityNames, c)
}

func lookupName[K ~uint32](m map[K]string, v K) string {
	if s, ok := m[v]; ok {
		return s
	}
	return fmt.Sprintf("%d", uint32(v))
}

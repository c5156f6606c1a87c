// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spirv

import (
	"encoding/binary"
	"math"
)

// EncodeString packs s as a nul-terminated literal padded to a whole word.
// It is the inverse of DecodeString.
func EncodeString(s string) []uint32 {
	words := make([]uint32, len(s)/4+1)
	for i := 0; i < len(s); i++ {
		words[i/4] |= uint32(s[i]) << (8 * (i % 4))
	}
	return words
}

// Encode returns the instruction words led by its word count and opcode.
func (i Instruction) Encode() []uint32 {
	out := make([]uint32, 0, len(i.Words)+1)
	out = append(out, uint32(len(i.Words)+1)<<16|uint32(i.Opcode)) //nolint:gosec // instructions are short
	return append(out, i.Words...)
}

// section is one part of the logical module layout. Words writes the
// sections in this order whatever order they were filled in.
type section int

const (
	secCapabilities section = iota
	secExtensions
	secExtInstImports
	secMemoryModel
	secEntryPoints
	secExecutionModes
	secDebugStrings
	secDebugNames
	secAnnotations
	secTypes // types, constants and undefs
	secGlobals
	secFunctions
	sectionCount
)

// ModuleBuilder assembles a SPIR-V module. Ids are allocated in call
// order and the bound is the next free id when Words is called.
type ModuleBuilder struct {
	version  Version
	sections [sectionCount][]Instruction
	nextID   uint32
}

// NewModuleBuilder returns an empty module for the given SPIR-V version.
func NewModuleBuilder(version Version) *ModuleBuilder {
	return &ModuleBuilder{version: version, nextID: 1}
}

// AllocID reserves an id, typically for a label or phi that is referenced
// before it is emitted.
func (b *ModuleBuilder) AllocID() uint32 {
	id := b.nextID
	b.nextID++
	return id
}

// SetNextID moves the id allocator forward so the next AllocID returns id.
// It never moves backwards; ids already handed out stay unique.
func (b *ModuleBuilder) SetNextID(id uint32) {
	if id > b.nextID {
		b.nextID = id
	}
}

// NextID returns the id the next AllocID call will return.
func (b *ModuleBuilder) NextID() uint32 {
	return b.nextID
}

func (b *ModuleBuilder) add(s section, op OpCode, words ...uint32) {
	b.sections[s] = append(b.sections[s], Instruction{Opcode: op, Words: words})
}

// declare adds an instruction whose first operand is its own result id,
// as the OpType* family has.
func (b *ModuleBuilder) declare(op OpCode, operands ...uint32) uint32 {
	id := b.AllocID()
	b.add(secTypes, op, append([]uint32{id}, operands...)...)
	return id
}

// value adds an instruction laid out as result type, result id, operands.
func (b *ModuleBuilder) value(s section, op OpCode, typ uint32, operands ...uint32) uint32 {
	id := b.AllocID()
	b.add(s, op, append([]uint32{typ, id}, operands...)...)
	return id
}

// Module header and debug information

func (b *ModuleBuilder) AddCapability(capability Capability) {
	b.add(secCapabilities, OpCapability, uint32(capability))
}

func (b *ModuleBuilder) AddExtension(name string) {
	b.add(secExtensions, OpExtension, EncodeString(name)...)
}

// AddExtInstImport imports an extended instruction set and returns its id.
func (b *ModuleBuilder) AddExtInstImport(name string) uint32 {
	id := b.AllocID()
	b.add(secExtInstImports, OpExtInstImport, append([]uint32{id}, EncodeString(name)...)...)
	return id
}

// SetMemoryModel sets the memory model, replacing any earlier one.
func (b *ModuleBuilder) SetMemoryModel(addressing AddressingModel, memory MemoryModel) {
	b.sections[secMemoryModel] = []Instruction{{Opcode: OpMemoryModel, Words: []uint32{uint32(addressing), uint32(memory)}}}
}

func (b *ModuleBuilder) AddEntryPoint(execModel ExecutionModel, funcID uint32, name string, interfaces []uint32) {
	words := append([]uint32{uint32(execModel), funcID}, EncodeString(name)...)
	b.add(secEntryPoints, OpEntryPoint, append(words, interfaces...)...)
}

func (b *ModuleBuilder) AddExecutionMode(entryPoint uint32, mode ExecutionMode, params ...uint32) {
	b.add(secExecutionModes, OpExecutionMode, append([]uint32{entryPoint, uint32(mode)}, params...)...)
}

// AddString adds an OpString, as used by NonSemantic.DebugPrintf formats.
func (b *ModuleBuilder) AddString(text string) uint32 {
	id := b.AllocID()
	b.add(secDebugStrings, OpString, append([]uint32{id}, EncodeString(text)...)...)
	return id
}

func (b *ModuleBuilder) AddName(id uint32, name string) {
	b.add(secDebugNames, OpName, append([]uint32{id}, EncodeString(name)...)...)
}

func (b *ModuleBuilder) AddMemberName(structID, member uint32, name string) {
	b.add(secDebugNames, OpMemberName, append([]uint32{structID, member}, EncodeString(name)...)...)
}

func (b *ModuleBuilder) AddDecorate(id uint32, decoration Decoration, params ...uint32) {
	b.add(secAnnotations, OpDecorate, append([]uint32{id, uint32(decoration)}, params...)...)
}

func (b *ModuleBuilder) AddMemberDecorate(structID, member uint32, decoration Decoration, params ...uint32) {
	b.add(secAnnotations, OpMemberDecorate, append([]uint32{structID, member, uint32(decoration)}, params...)...)
}

// Types

func (b *ModuleBuilder) AddTypeVoid() uint32    { return b.declare(OpTypeVoid) }
func (b *ModuleBuilder) AddTypeBool() uint32    { return b.declare(OpTypeBool) }
func (b *ModuleBuilder) AddTypeSampler() uint32 { return b.declare(OpTypeSampler) }

func (b *ModuleBuilder) AddTypeFloat(width uint32) uint32 {
	return b.declare(OpTypeFloat, width)
}

func (b *ModuleBuilder) AddTypeInt(width uint32, signed bool) uint32 {
	return b.declare(OpTypeInt, width, boolWord(signed))
}

func (b *ModuleBuilder) AddTypeVector(componentType, count uint32) uint32 {
	return b.declare(OpTypeVector, componentType, count)
}

func (b *ModuleBuilder) AddTypeMatrix(columnType, columnCount uint32) uint32 {
	return b.declare(OpTypeMatrix, columnType, columnCount)
}

// AddTypeArray declares a sized array. The length is the id of a constant.
func (b *ModuleBuilder) AddTypeArray(elementType, length uint32) uint32 {
	return b.declare(OpTypeArray, elementType, length)
}

func (b *ModuleBuilder) AddTypeRuntimeArray(elementType uint32) uint32 {
	return b.declare(OpTypeRuntimeArray, elementType)
}

func (b *ModuleBuilder) AddTypePointer(storageClass StorageClass, baseType uint32) uint32 {
	return b.declare(OpTypePointer, uint32(storageClass), baseType)
}

func (b *ModuleBuilder) AddTypeFunction(returnType uint32, paramTypes ...uint32) uint32 {
	return b.declare(OpTypeFunction, append([]uint32{returnType}, paramTypes...)...)
}

func (b *ModuleBuilder) AddTypeStruct(memberTypes ...uint32) uint32 {
	return b.declare(OpTypeStruct, memberTypes...)
}

func (b *ModuleBuilder) AddTypeImage(sampledType uint32, dim Dim, depth, arrayed, ms bool, sampled uint32, format ImageFormat) uint32 {
	return b.declare(OpTypeImage, sampledType, uint32(dim), boolWord(depth), boolWord(arrayed), boolWord(ms),
		sampled, uint32(format))
}

func (b *ModuleBuilder) AddTypeSampledImage(imageType uint32) uint32 {
	return b.declare(OpTypeSampledImage, imageType)
}

// Constants

// AddConstant adds an OpConstant from its raw value words, low word first.
func (b *ModuleBuilder) AddConstant(typeID uint32, values ...uint32) uint32 {
	return b.value(secTypes, OpConstant, typeID, values...)
}

func (b *ModuleBuilder) AddConstantFloat32(typeID uint32, value float32) uint32 {
	return b.AddConstant(typeID, math.Float32bits(value))
}

func (b *ModuleBuilder) AddConstantBool(typeID uint32, value bool) uint32 {
	if value {
		return b.value(secTypes, OpConstantTrue, typeID)
	}
	return b.value(secTypes, OpConstantFalse, typeID)
}

func (b *ModuleBuilder) AddConstantComposite(typeID uint32, constituents ...uint32) uint32 {
	return b.value(secTypes, OpConstantComposite, typeID, constituents...)
}

func (b *ModuleBuilder) AddConstantNull(typeID uint32) uint32 {
	return b.value(secTypes, OpConstantNull, typeID)
}

// AddSpecConstant adds an OpSpecConstant decorated with specID.
func (b *ModuleBuilder) AddSpecConstant(typeID, specID uint32, values ...uint32) uint32 {
	id := b.value(secTypes, OpSpecConstant, typeID, values...)
	b.AddDecorate(id, DecorationSpecID, specID)
	return id
}

// AddUndef adds a module-scope OpUndef.
func (b *ModuleBuilder) AddUndef(typeID uint32) uint32 {
	return b.value(secTypes, OpUndef, typeID)
}

// Global variables

func (b *ModuleBuilder) AddVariable(pointerType uint32, storageClass StorageClass) uint32 {
	return b.value(secGlobals, OpVariable, pointerType, uint32(storageClass))
}

func (b *ModuleBuilder) AddVariableWithInit(pointerType uint32, storageClass StorageClass, initID uint32) uint32 {
	return b.value(secGlobals, OpVariable, pointerType, uint32(storageClass), initID)
}

// Functions. Instructions are appended to the function being built, in
// order; callers open it with AddFunction and close it with
// AddFunctionEnd.

func (b *ModuleBuilder) AddFunction(funcType, returnType uint32, control FunctionControl) uint32 {
	return b.value(secFunctions, OpFunction, returnType, uint32(control), funcType)
}

func (b *ModuleBuilder) AddFunctionParameter(typeID uint32) uint32 {
	return b.value(secFunctions, OpFunctionParameter, typeID)
}

func (b *ModuleBuilder) AddFunctionEnd() { b.AddStatement(OpFunctionEnd) }

// AddLocalVariable adds a Function storage variable with an optional
// initializer. It belongs in the first block.
func (b *ModuleBuilder) AddLocalVariable(pointerType uint32, initID ...uint32) uint32 {
	return b.value(secFunctions, OpVariable, pointerType, append([]uint32{uint32(StorageClassFunction)}, initID...)...)
}

// AddLabel opens a block with a fresh id.
func (b *ModuleBuilder) AddLabel() uint32 {
	id := b.AllocID()
	b.AddLabelID(id)
	return id
}

// AddLabelID opens a block whose id was reserved with AllocID, so it can
// be branched to before it is emitted.
func (b *ModuleBuilder) AddLabelID(id uint32) { b.AddStatement(OpLabel, id) }

// AddOp adds an instruction with a result type and result id, such as the
// image sampling, composite and conversion opcodes, and returns the id.
func (b *ModuleBuilder) AddOp(opcode OpCode, resultType uint32, operands ...uint32) uint32 {
	return b.value(secFunctions, opcode, resultType, operands...)
}

// AddStatement adds an instruction without a result, such as OpStore or
// OpControlBarrier.
func (b *ModuleBuilder) AddStatement(opcode OpCode, operands ...uint32) {
	b.add(secFunctions, opcode, operands...)
}

func (b *ModuleBuilder) AddBinaryOp(opcode OpCode, resultType, left, right uint32) uint32 {
	return b.AddOp(opcode, resultType, left, right)
}

func (b *ModuleBuilder) AddUnaryOp(opcode OpCode, resultType, operand uint32) uint32 {
	return b.AddOp(opcode, resultType, operand)
}

func (b *ModuleBuilder) AddLoad(resultType, pointer uint32) uint32 {
	return b.AddOp(OpLoad, resultType, pointer)
}

func (b *ModuleBuilder) AddStore(pointer, value uint32) {
	b.AddStatement(OpStore, pointer, value)
}

func (b *ModuleBuilder) AddAccessChain(resultType, base uint32, indices ...uint32) uint32 {
	return b.AddOp(OpAccessChain, resultType, append([]uint32{base}, indices...)...)
}

func (b *ModuleBuilder) AddCompositeConstruct(resultType uint32, constituents ...uint32) uint32 {
	return b.AddOp(OpCompositeConstruct, resultType, constituents...)
}

// AddVectorShuffle picks components of vec1 followed by vec2 by index.
func (b *ModuleBuilder) AddVectorShuffle(resultType, vec1, vec2 uint32, components []uint32) uint32 {
	return b.AddOp(OpVectorShuffle, resultType, append([]uint32{vec1, vec2}, components...)...)
}

func (b *ModuleBuilder) AddSelect(resultType, condition, accept, reject uint32) uint32 {
	return b.AddOp(OpSelect, resultType, condition, accept, reject)
}

// AddExtInst calls instruction of the imported set extSet.
func (b *ModuleBuilder) AddExtInst(resultType, extSet, instruction uint32, operands ...uint32) uint32 {
	return b.AddOp(OpExtInst, resultType, append([]uint32{extSet, instruction}, operands...)...)
}

func (b *ModuleBuilder) AddFunctionCall(resultType, function uint32, args ...uint32) uint32 {
	return b.AddOp(OpFunctionCall, resultType, append([]uint32{function}, args...)...)
}

// PhiIncoming is one value/parent pair of an OpPhi.
type PhiIncoming struct {
	Value  uint32
	Parent uint32
}

// AddPhi adds an OpPhi whose incoming values already have ids. Loop
// header phis that read later values reserve their id with AllocID and
// use AddStatement instead.
func (b *ModuleBuilder) AddPhi(resultType uint32, incoming ...PhiIncoming) uint32 {
	operands := make([]uint32, 0, 2*len(incoming))
	for _, in := range incoming {
		operands = append(operands, in.Value, in.Parent)
	}
	return b.AddOp(OpPhi, resultType, operands...)
}

// Control flow

func (b *ModuleBuilder) AddSelectionMerge(mergeLabel uint32, control SelectionControl) {
	b.AddStatement(OpSelectionMerge, mergeLabel, uint32(control))
}

func (b *ModuleBuilder) AddLoopMerge(mergeLabel, continueLabel uint32, control LoopControl) {
	b.AddStatement(OpLoopMerge, mergeLabel, continueLabel, uint32(control))
}

func (b *ModuleBuilder) AddBranch(target uint32) { b.AddStatement(OpBranch, target) }

func (b *ModuleBuilder) AddBranchConditional(condition, trueLabel, falseLabel uint32) {
	b.AddStatement(OpBranchConditional, condition, trueLabel, falseLabel)
}

// SwitchTarget is one literal/label pair of an OpSwitch.
type SwitchTarget struct {
	Literal uint32
	Label   uint32
}

// AddSwitch adds an OpSwitch on a 32-bit selector.
func (b *ModuleBuilder) AddSwitch(selector, defaultLabel uint32, targets ...SwitchTarget) {
	operands := []uint32{selector, defaultLabel}
	for _, t := range targets {
		operands = append(operands, t.Literal, t.Label)
	}
	b.AddStatement(OpSwitch, operands...)
}

func (b *ModuleBuilder) AddReturn()                    { b.AddStatement(OpReturn) }
func (b *ModuleBuilder) AddReturnValue(valueID uint32) { b.AddStatement(OpReturnValue, valueID) }
func (b *ModuleBuilder) AddKill()                      { b.AddStatement(OpKill) }
func (b *ModuleBuilder) AddUnreachable()               { b.AddStatement(OpUnreachable) }

// Output

// Words returns the module as host-order words. The bound is the next
// unallocated id.
func (b *ModuleBuilder) Words() []uint32 {
	words := []uint32{MagicNumber, b.version.Word(), GeneratorID, b.nextID, 0}
	for _, insts := range b.sections {
		for _, inst := range insts {
			words = append(words, inst.Encode()...)
		}
	}
	return words
}

// Build returns the module as little-endian bytes.
func (b *ModuleBuilder) Build() []byte {
	words := b.Words()
	out := make([]byte, 4*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint32(out[4*i:], w)
	}
	return out
}

func boolWord(v bool) uint32 {
	if v {
		return 1
	}
	return 0
}

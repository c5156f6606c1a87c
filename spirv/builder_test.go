// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spirv

import (
	"encoding/binary"
	"strconv"
	"strings"
	"testing"
)

func TestModuleBuilder_MinimalModule(t *testing.T) {
	builder := NewModuleBuilder(Version1_3)
	builder.AddCapability(CapabilityShader)
	builder.SetMemoryModel(AddressingModelLogical, MemoryModelGLSL450)

	data := builder.Build()
	if len(data) < HeaderWords*4 {
		t.Fatalf("module too small: got %d bytes, want at least %d", len(data), HeaderWords*4)
	}
	if magic := binary.LittleEndian.Uint32(data[0:4]); magic != MagicNumber {
		t.Errorf("magic: got 0x%08X, want 0x%08X", magic, MagicNumber)
	}
	if version := binary.LittleEndian.Uint32(data[4:8]); version != Version1_3.Word() {
		t.Errorf("version: got 0x%08X, want 0x%08X", version, Version1_3.Word())
	}
	if bound := binary.LittleEndian.Uint32(data[12:16]); bound != 1 {
		t.Errorf("bound: got %d, want 1", bound)
	}
	if schema := binary.LittleEndian.Uint32(data[16:20]); schema != 0 {
		t.Errorf("schema: got %d, want 0", schema)
	}
}

func TestModuleBuilder_IDAllocation(t *testing.T) {
	builder := NewModuleBuilder(Version1_0)

	if id := builder.AllocID(); id != 1 {
		t.Errorf("first id: got %d, want 1", id)
	}
	builder.SetNextID(10)
	if id := builder.AddTypeVoid(); id != 10 {
		t.Errorf("pinned id: got %d, want 10", id)
	}
	builder.SetNextID(5)
	if next := builder.NextID(); next != 11 {
		t.Errorf("SetNextID moved backwards: next is %d, want 11", next)
	}
	if bound := builder.Words()[3]; bound != 11 {
		t.Errorf("bound: got %d, want 11", bound)
	}
}

func TestModuleBuilder_RoundTrip(t *testing.T) {
	b := NewModuleBuilder(Version1_0)
	b.AddCapability(CapabilityShader)
	b.AddExtInstImport("GLSL.std.450")
	b.SetMemoryModel(AddressingModelLogical, MemoryModelGLSL450)
	void := b.AddTypeVoid()
	fnType := b.AddTypeFunction(void)
	float := b.AddTypeFloat(32)
	vec4 := b.AddTypeVector(float, 4)
	ptr := b.AddTypePointer(StorageClassOutput, vec4)
	out := b.AddVariable(ptr, StorageClassOutput)
	b.AddName(out, "color")
	b.AddDecorate(out, DecorationLocation, 0)
	half := b.AddConstantFloat32(float, 0.5)
	value := b.AddConstantComposite(vec4, half, half, half, half)
	fn := b.AddFunction(fnType, void, FunctionControlNone)
	b.AddLabel()
	b.AddStore(out, value)
	b.AddReturn()
	b.AddFunctionEnd()
	b.AddEntryPoint(ExecutionModelFragment, fn, "main", []uint32{out})
	b.AddExecutionMode(fn, ExecutionModeOriginUpperLeft)

	m, err := FromBytes(b.Build())
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if got := m.Header().Bound; got != b.NextID() {
		t.Errorf("bound: got %d, want %d", got, b.NextID())
	}

	insts, err := m.Instructions()
	if err != nil {
		t.Fatalf("Instructions: %v", err)
	}
	// Logical layout: capabilities and imports before the memory model,
	// then entry points, debug, annotations, types, globals, functions.
	var order []OpCode
	for _, inst := range insts {
		order = append(order, inst.Opcode)
	}
	want := []OpCode{
		OpCapability, OpExtInstImport, OpMemoryModel, OpEntryPoint, OpExecutionMode,
		OpName, OpDecorate, OpTypeVoid, OpTypeFunction, OpTypeFloat, OpTypeVector,
		OpTypePointer, OpConstant, OpConstantComposite, OpVariable,
		OpFunction, OpLabel, OpStore, OpReturn, OpFunctionEnd,
	}
	if len(order) != len(want) {
		t.Fatalf("got %d instructions %v, want %v", len(order), order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("instruction %d: got %s, want %s", i, order[i], want[i])
		}
	}

	text := Disassemble(m)
	for _, s := range []string{
		`OpCapability Shader`,
		`OpExtInstImport "GLSL.std.450"`,
		`OpEntryPoint Fragment %` + u(fn) + ` "main" %` + u(out),
		`OpName %` + u(out) + ` "color"`,
		`OpDecorate %` + u(out) + ` Location 0`,
		`OpVariable %` + u(ptr) + ` Output`,
	} {
		if !strings.Contains(text, s) {
			t.Errorf("disassembly lacks %q:\n%s", s, text)
		}
	}
}

func TestEncodeString(t *testing.T) {
	tests := []struct {
		text  string
		words int
	}{
		{"", 1},
		{"abc", 1},
		{"main", 2},
		{"GLSL.std.450", 4},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			words := EncodeString(tt.text)
			if len(words) != tt.words {
				t.Fatalf("%q encoded in %d words, want %d", tt.text, len(words), tt.words)
			}
			got, n := DecodeString(words)
			if got != tt.text || n != tt.words {
				t.Errorf("DecodeString = %q, %d; want %q, %d", got, n, tt.text, tt.words)
			}
		})
	}
}

func TestInstruction_Encode(t *testing.T) {
	words := Instruction{Opcode: OpTypeVector, Words: []uint32{7, 9}}.Encode()
	if len(words) != 3 {
		t.Fatalf("got %d words, want 3", len(words))
	}
	if words[0] != 3<<16|uint32(OpTypeVector) {
		t.Errorf("first word: got 0x%08X", words[0])
	}
}

// Sections are written in layout order whatever order they are filled in.
func TestModuleBuilder_SectionOrder(t *testing.T) {
	b := NewModuleBuilder(Version1_0)
	void := b.AddTypeVoid()
	fn := b.AddFunction(b.AddTypeFunction(void), void, FunctionControlNone)
	b.AddLabel()
	b.AddReturn()
	b.AddFunctionEnd()
	float := b.AddTypeFloat(32)
	ptr := b.AddTypePointer(StorageClassPrivate, float)
	b.AddVariableWithInit(ptr, StorageClassPrivate, b.AddConstantNull(float))
	b.AddUndef(float)
	b.AddString("fmt")
	b.AddEntryPoint(ExecutionModelFragment, fn, "main", nil)
	b.SetMemoryModel(AddressingModelLogical, MemoryModelGLSL450)
	b.AddExtension("SPV_KHR_non_semantic_info")
	b.AddCapability(CapabilityShader)

	m, err := FromWords(b.Words())
	if err != nil {
		t.Fatalf("FromWords: %v", err)
	}
	insts, err := m.Instructions()
	if err != nil {
		t.Fatalf("Instructions: %v", err)
	}
	want := []OpCode{
		OpCapability, OpExtension, OpMemoryModel, OpEntryPoint, OpString,
		OpTypeVoid, OpTypeFunction, OpTypeFloat, OpTypePointer, OpConstantNull, OpUndef,
		OpVariable, OpFunction, OpLabel, OpReturn, OpFunctionEnd,
	}
	if len(insts) != len(want) {
		t.Fatalf("got %d instructions, want %d", len(insts), len(want))
	}
	for i, inst := range insts {
		if inst.Opcode != want[i] {
			t.Errorf("instruction %d: got %s, want %s", i, inst.Opcode, want[i])
		}
	}
	if name, _ := DecodeString(insts[1].Words); name != "SPV_KHR_non_semantic_info" {
		t.Errorf("extension name: got %q", name)
	}
	if init := insts[11].Words; len(init) != 4 || init[3] != insts[9].Words[1] {
		t.Errorf("variable initializer: got %v", init)
	}
}

func TestModuleBuilder_Phi(t *testing.T) {
	b := NewModuleBuilder(Version1_0)
	b.SetNextID(7)
	id := b.AddPhi(3, PhiIncoming{Value: 4, Parent: 5}, PhiIncoming{Value: 6, Parent: 2})
	if id != 7 {
		t.Fatalf("phi id: got %d, want 7", id)
	}
	words := b.Words()[HeaderWords:]
	want := []uint32{7<<16 | uint32(OpPhi), 3, 7, 4, 5, 6, 2}
	if len(words) != len(want) {
		t.Fatalf("got %v, want %v", words, want)
	}
	for i := range want {
		if words[i] != want[i] {
			t.Errorf("word %d: got %d, want %d", i, words[i], want[i])
		}
	}
}

func u(n uint32) string { return strconv.FormatUint(uint64(n), 10) }

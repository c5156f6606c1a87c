// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package shaders builds the SPIR-V modules used by the tests.
//
// Each function returns the words glslang would emit for a small shader,
// with the ids that matter to generated names pinned through
// ModuleBuilder.SetNextID. The GLSL each module was compiled from is
// shown above the function.
package shaders

import (
	"math"

	"github.com/gogpu/spirvcross/spirv"
)

// module carries the ids every fixture starts with.
type module struct {
	*spirv.ModuleBuilder
	void   uint32
	voidFn uint32
	std450 uint32
}

func newModule() *module {
	b := spirv.NewModuleBuilder(spirv.Version1_0)
	b.AddCapability(spirv.CapabilityShader)
	m := &module{ModuleBuilder: b}
	m.std450 = b.AddExtInstImport("GLSL.std.450")
	b.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)
	m.void = b.AddTypeVoid()
	m.voidFn = b.AddTypeFunction(m.void)
	return m
}

// named declares a global variable with a name.
func (m *module) named(ptr uint32, sc spirv.StorageClass, name string) uint32 {
	id := m.AddVariable(ptr, sc)
	m.AddName(id, name)
	return id
}

// located declares a named interface variable at a location.
func (m *module) located(ptr uint32, sc spirv.StorageClass, name string, loc uint32) uint32 {
	id := m.named(ptr, sc, name)
	m.AddDecorate(id, spirv.DecorationLocation, loc)
	return id
}

// perVertex declares the gl_PerVertex output block and returns the
// variable with the pointer type of gl_Position.
func (m *module) perVertex(float, vec4 uint32) (variable, position uint32) {
	u32 := m.AddTypeInt(32, false)
	one := m.AddConstant(u32, 1)
	clip := m.AddTypeArray(float, one)
	block := m.AddTypeStruct(vec4, float, clip, clip)
	m.AddName(block, "gl_PerVertex")
	for i, name := range []string{"gl_Position", "gl_PointSize", "gl_ClipDistance", "gl_CullDistance"} {
		m.AddMemberName(block, uint32(i), name) //nolint:gosec // four members
	}
	m.AddMemberDecorate(block, 0, spirv.DecorationBuiltIn, uint32(spirv.BuiltInPosition))
	m.AddMemberDecorate(block, 1, spirv.DecorationBuiltIn, uint32(spirv.BuiltInPointSize))
	m.AddMemberDecorate(block, 2, spirv.DecorationBuiltIn, uint32(spirv.BuiltInClipDistance))
	m.AddMemberDecorate(block, 3, spirv.DecorationBuiltIn, uint32(spirv.BuiltInCullDistance))
	m.AddDecorate(block, spirv.DecorationBlock)
	ptr := m.AddTypePointer(spirv.StorageClassOutput, block)
	variable = m.AddVariable(ptr, spirv.StorageClassOutput)
	position = m.AddTypePointer(spirv.StorageClassOutput, vec4)
	return variable, position
}

func (m *module) main() uint32 {
	fn := m.AddFunction(m.voidFn, m.void, spirv.FunctionControlNone)
	m.AddName(fn, "main")
	return fn
}

func (m *module) end() {
	m.AddReturn()
	m.AddFunctionEnd()
}

func floatBits(f float32) uint32 { return math.Float32bits(f) }

// SimpleVert is
//
//	#version 450
//	layout(location = 0) in vec4 a_position;
//	layout(location = 1) in vec3 a_normal;
//	layout(location = 0) out vec3 v_normal;
//	uniform uniform_buffer_object {
//	    mat4 u_model_view_projection;
//	    float u_scale;
//	};
//	void main() {
//	    v_normal = a_normal;
//	    gl_Position = u_model_view_projection * a_position * u_scale;
//	}
//
// The unnamed block instance is id 22.
func SimpleVert() []uint32 {
	m := newModule()
	float := m.AddTypeFloat(32)
	vec3 := m.AddTypeVector(float, 3)
	vec4 := m.AddTypeVector(float, 4)
	mat4 := m.AddTypeMatrix(vec4, 4)
	outVec3 := m.AddTypePointer(spirv.StorageClassOutput, vec3)
	vNormal := m.located(outVec3, spirv.StorageClassOutput, "v_normal", 0)
	inVec3 := m.AddTypePointer(spirv.StorageClassInput, vec3)
	aNormal := m.located(inVec3, spirv.StorageClassInput, "a_normal", 1)

	ubo := m.AddTypeStruct(mat4, float)
	m.AddName(ubo, "uniform_buffer_object")
	m.AddMemberName(ubo, 0, "u_model_view_projection")
	m.AddMemberName(ubo, 1, "u_scale")
	m.AddMemberDecorate(ubo, 0, spirv.DecorationColMajor)
	m.AddMemberDecorate(ubo, 0, spirv.DecorationOffset, 0)
	m.AddMemberDecorate(ubo, 0, spirv.DecorationMatrixStride, 16)
	m.AddMemberDecorate(ubo, 1, spirv.DecorationOffset, 64)
	m.AddDecorate(ubo, spirv.DecorationBlock)
	uniformUBO := m.AddTypePointer(spirv.StorageClassUniform, ubo)
	m.SetNextID(22)
	block := m.AddVariable(uniformUBO, spirv.StorageClassUniform)
	m.AddName(block, "")
	m.AddDecorate(block, spirv.DecorationDescriptorSet, 0)

	i32 := m.AddTypeInt(32, true)
	int0 := m.AddConstant(i32, 0)
	int1 := m.AddConstant(i32, 1)
	uniformMat4 := m.AddTypePointer(spirv.StorageClassUniform, mat4)
	inVec4 := m.AddTypePointer(spirv.StorageClassInput, vec4)
	aPosition := m.located(inVec4, spirv.StorageClassInput, "a_position", 0)
	perVertex, outVec4 := m.perVertex(float, vec4)
	uniformFloat := m.AddTypePointer(spirv.StorageClassUniform, float)

	fn := m.main()
	m.AddLabel()
	normal := m.AddLoad(vec3, aNormal)
	m.AddStore(vNormal, normal)
	mvpPtr := m.AddAccessChain(uniformMat4, block, int0)
	mvp := m.AddLoad(mat4, mvpPtr)
	position := m.AddLoad(vec4, aPosition)
	transformed := m.AddBinaryOp(spirv.OpMatrixTimesVector, vec4, mvp, position)
	scalePtr := m.AddAccessChain(uniformFloat, block, int1)
	scale := m.AddLoad(float, scalePtr)
	scaled := m.AddBinaryOp(spirv.OpVectorTimesScalar, vec4, transformed, scale)
	out := m.AddAccessChain(outVec4, perVertex, int0)
	m.AddStore(out, scaled)
	m.end()

	m.AddEntryPoint(spirv.ExecutionModelVertex, fn, "main", []uint32{vNormal, aNormal, aPosition, perVertex})
	return m.Words()
}

// vertexStruct declares the four-vec4 struct shared by the struct fixtures.
func (m *module) vertexStruct(vec4 uint32) uint32 {
	st := m.AddTypeStruct(vec4, vec4, vec4, vec4)
	m.AddName(st, "Vertex")
	for i, name := range []string{"position", "normal", "uv", "color"} {
		m.AddMemberName(st, uint32(i), name) //nolint:gosec // four members
	}
	return st
}

// StructVert is
//
//	#version 310 es
//	struct Vertex { vec4 position; vec4 normal; vec4 uv; vec4 color; };
//	layout(location = 0) out Vertex v;
//	layout(location = 0) in vec4 a;
//	layout(location = 1) in vec4 b;
//	layout(location = 2) in vec4 c;
//	layout(location = 3) in vec4 d;
//	void main() { v = Vertex(a, b, c, d); }
//
// The constructed struct is id 20.
func StructVert() []uint32 {
	m := newModule()
	float := m.AddTypeFloat(32)
	vec4 := m.AddTypeVector(float, 4)
	st := m.vertexStruct(vec4)
	outStruct := m.AddTypePointer(spirv.StorageClassOutput, st)
	v := m.located(outStruct, spirv.StorageClassOutput, "v", 0)
	inVec4 := m.AddTypePointer(spirv.StorageClassInput, vec4)
	inputs := make([]uint32, 4)
	for i, name := range []string{"a", "b", "c", "d"} {
		inputs[i] = m.located(inVec4, spirv.StorageClassInput, name, uint32(i)) //nolint:gosec // four inputs
	}

	fn := m.main()
	m.AddLabel()
	values := make([]uint32, 4)
	for i, in := range inputs {
		values[i] = m.AddLoad(vec4, in)
	}
	m.SetNextID(20)
	value := m.AddCompositeConstruct(st, values...)
	m.AddStore(v, value)
	m.end()

	m.AddEntryPoint(spirv.ExecutionModelVertex, fn, "main", append([]uint32{v}, inputs...))
	return m.Words()
}

// StructFrag is
//
//	#version 310 es
//	precision mediump float;
//	struct Vertex { vec4 position; vec4 normal; vec4 uv; vec4 color; };
//	layout(location = 0) in Vertex v;
//	layout(location = 0) out highp vec4 color;
//	void main() {
//	    color = vec4(v.position.x, v.normal.y, v.uv.z, v.color.w);
//	}
func StructFrag() []uint32 {
	m := newModule()
	float := m.AddTypeFloat(32)
	vec4 := m.AddTypeVector(float, 4)
	st := m.vertexStruct(vec4)
	for i := uint32(0); i < 4; i++ {
		m.AddMemberDecorate(st, i, spirv.DecorationRelaxedPrecision)
	}
	inStruct := m.AddTypePointer(spirv.StorageClassInput, st)
	v := m.located(inStruct, spirv.StorageClassInput, "v", 0)
	m.AddDecorate(v, spirv.DecorationRelaxedPrecision)
	outVec4 := m.AddTypePointer(spirv.StorageClassOutput, vec4)
	color := m.located(outVec4, spirv.StorageClassOutput, "color", 0)
	i32 := m.AddTypeInt(32, true)
	u32 := m.AddTypeInt(32, false)
	inFloat := m.AddTypePointer(spirv.StorageClassInput, float)

	fn := m.main()
	m.AddLabel()
	parts := make([]uint32, 4)
	for i := range parts {
		member := m.AddConstant(i32, uint32(i))    //nolint:gosec // four members
		component := m.AddConstant(u32, uint32(i)) //nolint:gosec // four components
		ptr := m.AddAccessChain(inFloat, v, member, component)
		parts[i] = m.AddLoad(float, ptr)
		m.AddDecorate(parts[i], spirv.DecorationRelaxedPrecision)
	}
	value := m.AddCompositeConstruct(vec4, parts...)
	m.AddStore(color, value)
	m.end()

	m.AddEntryPoint(spirv.ExecutionModelFragment, fn, "main", []uint32{v, color})
	m.AddExecutionMode(fn, spirv.ExecutionModeOriginUpperLeft)
	return m.Words()
}

// SamplerFrag is
//
//	#version 450
//	layout(location = 0) in vec2 v_uv;
//	layout(location = 0) out vec4 target0;
//	uniform texture2D u_texture;
//	uniform sampler u_sampler;
//	void main() { target0 = texture(sampler2D(u_texture, u_sampler), v_uv); }
//
// The texture is id 12, the sampler id 16 and the bound 26, so the
// combined sampler becomes id 26.
func SamplerFrag() []uint32 {
	m := newModule()
	float := m.AddTypeFloat(32)
	vec4 := m.AddTypeVector(float, 4)
	outVec4 := m.AddTypePointer(spirv.StorageClassOutput, vec4)
	target := m.located(outVec4, spirv.StorageClassOutput, "target0", 0)
	image := m.AddTypeImage(float, spirv.Dim2D, false, false, false, 1, spirv.ImageFormatUnknown)
	imagePtr := m.AddTypePointer(spirv.StorageClassUniformConstant, image)
	vec2 := m.AddTypeVector(float, 2)
	inVec2 := m.AddTypePointer(spirv.StorageClassInput, vec2)
	m.SetNextID(12)
	texture := m.named(imagePtr, spirv.StorageClassUniformConstant, "u_texture")
	sampler := m.AddTypeSampler()
	samplerPtr := m.AddTypePointer(spirv.StorageClassUniformConstant, sampler)
	uv := m.located(inVec2, spirv.StorageClassInput, "v_uv", 0)
	m.SetNextID(16)
	smp := m.named(samplerPtr, spirv.StorageClassUniformConstant, "u_sampler")
	sampledImage := m.AddTypeSampledImage(image)

	fn := m.main()
	m.AddLabel()
	img := m.AddLoad(image, texture)
	s := m.AddLoad(sampler, smp)
	combined := m.AddOp(spirv.OpSampledImage, sampledImage, img, s)
	coord := m.AddLoad(vec2, uv)
	color := m.AddOp(spirv.OpImageSampleImplicitLod, vec4, combined, coord)
	m.AddStore(target, color)
	m.end()

	m.AddEntryPoint(spirv.ExecutionModelFragment, fn, "main", []uint32{target, uv})
	m.AddExecutionMode(fn, spirv.ExecutionModeOriginUpperLeft)
	m.SetNextID(26)
	return m.Words()
}

// TwoUBOVert is
//
//	#version 450
//	layout(binding = 0) uniform ubo1 {
//	    vec4 m0; vec4 m1; vec4 arr[2]; vec4 m3; vec4 m4; vec2 m5;
//	} u1;
//	layout(binding = 1) uniform ubo2 { float a; vec4 b; vec3 c; } u2;
//	void main() {
//	    float s = u1.m1.z + u1.m3.x + u1.m5.y + u2.a + u2.b.x + u2.c.z;
//	    gl_Position = vec4(s, s, s, s);
//	}
func TwoUBOVert() []uint32 {
	m := newModule()
	float := m.AddTypeFloat(32)
	vec2 := m.AddTypeVector(float, 2)
	vec3 := m.AddTypeVector(float, 3)
	vec4 := m.AddTypeVector(float, 4)
	i32 := m.AddTypeInt(32, true)
	u32 := m.AddTypeInt(32, false)
	consts := make([]uint32, 6)
	for i := range consts {
		consts[i] = m.AddConstant(i32, uint32(i)) //nolint:gosec // six members
	}
	comps := make([]uint32, 3)
	for i := range comps {
		comps[i] = m.AddConstant(u32, uint32(i)) //nolint:gosec // three components
	}
	two := m.AddConstant(u32, 2)
	arr := m.AddTypeArray(vec4, two)
	m.AddDecorate(arr, spirv.DecorationArrayStride, 16)

	ubo1 := m.AddTypeStruct(vec4, vec4, arr, vec4, vec4, vec2)
	m.AddName(ubo1, "ubo1")
	for i, name := range []string{"m0", "m1", "arr", "m3", "m4", "m5"} {
		m.AddMemberName(ubo1, uint32(i), name) //nolint:gosec // six members
	}
	for i, off := range []uint32{0, 16, 32, 64, 80, 96} {
		m.AddMemberDecorate(ubo1, uint32(i), spirv.DecorationOffset, off) //nolint:gosec // six members
	}
	m.AddDecorate(ubo1, spirv.DecorationBlock)
	ubo2 := m.AddTypeStruct(float, vec4, vec3)
	m.AddName(ubo2, "ubo2")
	for i, name := range []string{"a", "b", "c"} {
		m.AddMemberName(ubo2, uint32(i), name) //nolint:gosec // three members
	}
	for i, off := range []uint32{0, 16, 32} {
		m.AddMemberDecorate(ubo2, uint32(i), spirv.DecorationOffset, off) //nolint:gosec // three members
	}
	m.AddDecorate(ubo2, spirv.DecorationBlock)

	u1 := m.named(m.AddTypePointer(spirv.StorageClassUniform, ubo1), spirv.StorageClassUniform, "u1")
	m.AddDecorate(u1, spirv.DecorationDescriptorSet, 0)
	m.AddDecorate(u1, spirv.DecorationBinding, 0)
	u2 := m.named(m.AddTypePointer(spirv.StorageClassUniform, ubo2), spirv.StorageClassUniform, "u2")
	m.AddDecorate(u2, spirv.DecorationDescriptorSet, 0)
	m.AddDecorate(u2, spirv.DecorationBinding, 1)
	uniformFloat := m.AddTypePointer(spirv.StorageClassUniform, float)
	perVertex, outVec4 := m.perVertex(float, vec4)

	fn := m.main()
	m.AddLabel()
	read := func(block uint32, indices ...uint32) uint32 {
		return m.AddLoad(float, m.AddAccessChain(uniformFloat, block, indices...))
	}
	terms := []uint32{
		read(u1, consts[1], comps[2]),
		read(u1, consts[3], comps[0]),
		read(u1, consts[5], comps[1]),
		read(u2, consts[0]),
		read(u2, consts[1], comps[0]),
		read(u2, consts[2], comps[2]),
	}
	sum := terms[0]
	for _, t := range terms[1:] {
		sum = m.AddBinaryOp(spirv.OpFAdd, float, sum, t)
	}
	splat := m.AddCompositeConstruct(vec4, sum, sum, sum, sum)
	m.AddStore(m.AddAccessChain(outVec4, perVertex, consts[0]), splat)
	m.end()

	m.AddEntryPoint(spirv.ExecutionModelVertex, fn, "main", []uint32{perVertex})
	return m.Words()
}

// InitializationVert is
//
//	#version 450
//	layout(location = 0) in float rand;
//	void main() {
//	    vec4 pos;
//	    if (rand > 0.5) {
//	        pos = vec4(1.0);
//	    }
//	    gl_Position = pos;
//	}
func InitializationVert() []uint32 {
	m := newModule()
	float := m.AddTypeFloat(32)
	vec4 := m.AddTypeVector(float, 4)
	boolean := m.AddTypeBool()
	funcVec4 := m.AddTypePointer(spirv.StorageClassFunction, vec4)
	inFloat := m.AddTypePointer(spirv.StorageClassInput, float)
	rand := m.located(inFloat, spirv.StorageClassInput, "rand", 0)
	half := m.AddConstantFloat32(float, 0.5)
	one := m.AddConstantFloat32(float, 1)
	ones := m.AddConstantComposite(vec4, one, one, one, one)
	i32 := m.AddTypeInt(32, true)
	int0 := m.AddConstant(i32, 0)
	perVertex, outVec4 := m.perVertex(float, vec4)

	fn := m.main()
	m.AddLabel()
	pos := m.AddLocalVariable(funcVec4)
	m.AddName(pos, "pos")
	then := m.AllocID()
	merge := m.AllocID()
	r := m.AddLoad(float, rand)
	cond := m.AddBinaryOp(spirv.OpFOrdGreaterThan, boolean, r, half)
	m.AddSelectionMerge(merge, spirv.SelectionControlNone)
	m.AddBranchConditional(cond, then, merge)
	m.AddLabelID(then)
	m.AddStore(pos, ones)
	m.AddBranch(merge)
	m.AddLabelID(merge)
	p := m.AddLoad(vec4, pos)
	m.AddStore(m.AddAccessChain(outVec4, perVertex, int0), p)
	m.end()

	m.AddEntryPoint(spirv.ExecutionModelVertex, fn, "main", []uint32{rand, perVertex})
	return m.Words()
}

// LoopFrag is
//
//	#version 450
//	layout(location = 0) out vec4 color;
//	void main() {
//	    float acc = 0.0;
//	    for (int i = 0; i < 4; i++) {
//	        acc += float(i);
//	    }
//	    color = vec4(acc);
//	}
//
// after mem2reg, so the counters are phis.
func LoopFrag() []uint32 {
	m := newModule()
	float := m.AddTypeFloat(32)
	vec4 := m.AddTypeVector(float, 4)
	i32 := m.AddTypeInt(32, true)
	boolean := m.AddTypeBool()
	outVec4 := m.AddTypePointer(spirv.StorageClassOutput, vec4)
	color := m.located(outVec4, spirv.StorageClassOutput, "color", 0)
	zero := m.AddConstant(i32, 0)
	one := m.AddConstant(i32, 1)
	four := m.AddConstant(i32, 4)
	fzero := m.AddConstantFloat32(float, 0)

	fn := m.main()
	entry := m.AddLabel()
	header, body, cont, merge := m.AllocID(), m.AllocID(), m.AllocID(), m.AllocID()
	i, acc, next, sum := m.AllocID(), m.AllocID(), m.AllocID(), m.AllocID()
	m.AddName(i, "i")
	m.AddName(acc, "acc")
	m.AddBranch(header)

	m.AddLabelID(header)
	m.AddStatement(spirv.OpPhi, i32, i, zero, entry, next, cont)
	m.AddStatement(spirv.OpPhi, float, acc, fzero, entry, sum, cont)
	m.AddLoopMerge(merge, cont, spirv.LoopControlNone)
	cond := m.AddBinaryOp(spirv.OpSLessThan, boolean, i, four)
	m.AddBranchConditional(cond, body, merge)

	m.AddLabelID(body)
	f := m.AddUnaryOp(spirv.OpConvertSToF, float, i)
	m.AddStatement(spirv.OpFAdd, float, sum, acc, f)
	m.AddBranch(cont)

	m.AddLabelID(cont)
	m.AddStatement(spirv.OpIAdd, i32, next, i, one)
	m.AddBranch(header)

	m.AddLabelID(merge)
	value := m.AddCompositeConstruct(vec4, acc, acc, acc, acc)
	m.AddStore(color, value)
	m.end()

	m.AddEntryPoint(spirv.ExecutionModelFragment, fn, "main", []uint32{color})
	m.AddExecutionMode(fn, spirv.ExecutionModeOriginUpperLeft)
	return m.Words()
}

// SwitchFrag is
//
//	#version 450
//	layout(location = 0) flat in int mode;
//	layout(location = 0) out vec4 color;
//	void main() {
//	    switch (mode) {
//	    case 0: color = vec4(1.0, 0.0, 0.0, 1.0); break;
//	    case 1: color = vec4(0.0, 1.0, 0.0, 1.0); break;
//	    default: color = vec4(0.0, 0.0, 0.0, 1.0); break;
//	    }
//	}
func SwitchFrag() []uint32 {
	m := newModule()
	float := m.AddTypeFloat(32)
	vec4 := m.AddTypeVector(float, 4)
	i32 := m.AddTypeInt(32, true)
	outVec4 := m.AddTypePointer(spirv.StorageClassOutput, vec4)
	color := m.located(outVec4, spirv.StorageClassOutput, "color", 0)
	inInt := m.AddTypePointer(spirv.StorageClassInput, i32)
	mode := m.located(inInt, spirv.StorageClassInput, "mode", 0)
	m.AddDecorate(mode, spirv.DecorationFlat)
	zero := m.AddConstantFloat32(float, 0)
	one := m.AddConstantFloat32(float, 1)
	red := m.AddConstantComposite(vec4, one, zero, zero, one)
	green := m.AddConstantComposite(vec4, zero, one, zero, one)
	black := m.AddConstantComposite(vec4, zero, zero, zero, one)

	fn := m.main()
	m.AddLabel()
	case0, case1, def, merge := m.AllocID(), m.AllocID(), m.AllocID(), m.AllocID()
	sel := m.AddLoad(i32, mode)
	m.AddSelectionMerge(merge, spirv.SelectionControlNone)
	m.AddSwitch(sel, def, spirv.SwitchTarget{Literal: 0, Label: case0}, spirv.SwitchTarget{Literal: 1, Label: case1})
	for _, c := range []struct{ label, value uint32 }{{case0, red}, {case1, green}, {def, black}} {
		m.AddLabelID(c.label)
		m.AddStore(color, c.value)
		m.AddBranch(merge)
	}
	m.AddLabelID(merge)
	m.end()

	m.AddEntryPoint(spirv.ExecutionModelFragment, fn, "main", []uint32{mode, color})
	m.AddExecutionMode(fn, spirv.ExecutionModeOriginUpperLeft)
	return m.Words()
}

// ComputeShader is
//
//	#version 450
//	layout(local_size_x = 64) in;
//	layout(constant_id = 3) const float scale = 2.0;
//	layout(std430, binding = 0) buffer Data { float values[]; } data;
//	void main() {
//	    uint i = gl_GlobalInvocationID.x;
//	    data.values[i] *= scale;
//	    barrier();
//	}
func ComputeShader() []uint32 {
	m := newModule()
	float := m.AddTypeFloat(32)
	u32 := m.AddTypeInt(32, false)
	i32 := m.AddTypeInt(32, true)
	uvec3 := m.AddTypeVector(u32, 3)
	int0 := m.AddConstant(i32, 0)
	uint0 := m.AddConstant(u32, 0)
	scale := m.AddSpecConstant(float, 3, floatBits(2))
	m.AddName(scale, "scale")
	values := m.AddTypeRuntimeArray(float)
	m.AddDecorate(values, spirv.DecorationArrayStride, 4)
	data := m.AddTypeStruct(values)
	m.AddName(data, "Data")
	m.AddMemberName(data, 0, "values")
	m.AddMemberDecorate(data, 0, spirv.DecorationOffset, 0)
	m.AddDecorate(data, spirv.DecorationBufferBlock)
	buffer := m.named(m.AddTypePointer(spirv.StorageClassUniform, data), spirv.StorageClassUniform, "data")
	m.AddDecorate(buffer, spirv.DecorationDescriptorSet, 0)
	m.AddDecorate(buffer, spirv.DecorationBinding, 0)
	gid := m.named(m.AddTypePointer(spirv.StorageClassInput, uvec3), spirv.StorageClassInput, "gl_GlobalInvocationID")
	m.AddDecorate(gid, spirv.DecorationBuiltIn, uint32(spirv.BuiltInGlobalInvocationID))
	inUint := m.AddTypePointer(spirv.StorageClassInput, u32)
	uniformFloat := m.AddTypePointer(spirv.StorageClassUniform, float)
	workgroup := m.AddConstant(u32, uint32(spirv.ScopeWorkgroup))
	semantics := m.AddConstant(u32, uint32(spirv.MemorySemanticsAcquireRelease|spirv.MemorySemanticsWorkgroupMemory))

	fn := m.main()
	m.AddLabel()
	index := m.AddLoad(u32, m.AddAccessChain(inUint, gid, uint0))
	ptr := m.AddAccessChain(uniformFloat, buffer, int0, index)
	value := m.AddLoad(float, ptr)
	m.AddStore(ptr, m.AddBinaryOp(spirv.OpFMul, float, value, scale))
	m.AddStatement(spirv.OpControlBarrier, workgroup, workgroup, semantics)
	m.end()

	m.AddEntryPoint(spirv.ExecutionModelGLCompute, fn, "main", []uint32{gid})
	m.AddExecutionMode(fn, spirv.ExecutionModeLocalSize, 64, 1, 1)
	return m.Words()
}

// TwoEntries holds an empty vertex entry point vs_main and an empty
// fragment entry point fs_main.
func TwoEntries() []uint32 {
	m := newModule()
	vs := m.AddFunction(m.voidFn, m.void, spirv.FunctionControlNone)
	m.AddName(vs, "vs_main")
	m.AddLabel()
	m.end()
	fs := m.AddFunction(m.voidFn, m.void, spirv.FunctionControlNone)
	m.AddName(fs, "fs_main")
	m.AddLabel()
	m.end()
	m.AddEntryPoint(spirv.ExecutionModelVertex, vs, "vs_main", nil)
	m.AddEntryPoint(spirv.ExecutionModelFragment, fs, "fs_main", nil)
	m.AddExecutionMode(fs, spirv.ExecutionModeOriginUpperLeft)
	return m.Words()
}

// Irreducible has a loop with two entries: the entry block branches into
// both a and b, which branch to each other.
func Irreducible() []uint32 {
	m := newModule()
	boolean := m.AddTypeBool()
	cond := m.AddConstantBool(boolean, true)
	fn := m.main()
	m.AddLabel()
	a, b := m.AllocID(), m.AllocID()
	m.AddBranchConditional(cond, a, b)
	m.AddLabelID(a)
	m.AddBranch(b)
	m.AddLabelID(b)
	m.AddBranch(a)
	m.AddFunctionEnd()
	m.AddEntryPoint(spirv.ExecutionModelVertex, fn, "main", nil)
	return m.Words()
}

// Unsupported emits a geometry-only instruction from a vertex shader.
func Unsupported() []uint32 {
	m := newModule()
	fn := m.main()
	m.AddLabel()
	m.AddStatement(spirv.OpEmitVertex)
	m.end()
	m.AddEntryPoint(spirv.ExecutionModelVertex, fn, "main", nil)
	return m.Words()
}

// CallFrag is
//
//	#version 450
//	#extension GL_EXT_debug_printf : require
//	layout(location = 0) in vec4 v_color;
//	layout(location = 0) out vec4 frag;
//	vec4 tint = vec4(0.0);
//	float shade(vec4 c, float k) {
//	    return clamp(dot(c.xyz, c.xyz) * k, 0.0, 1.0);
//	}
//	void main() {
//	    float s = shade(v_color, 0.5);
//	    debugPrintfEXT("shade %f", s);
//	    if (s < 0.1) discard;
//	    vec4 lit = v_color;
//	    lit.w = s > 0.5 ? s : 0.5;
//	    vec2 pair;
//	    pair.x = s;
//	    frag = vec4(lit.zyx, lit.w) * pair.x + tint;
//	}
//
// The callee comes first in the module and takes its arguments by value.
func CallFrag() []uint32 {
	m := newModule()
	m.AddExtension("SPV_KHR_non_semantic_info")
	printf := m.AddExtInstImport("NonSemantic.DebugPrintf")
	float := m.AddTypeFloat(32)
	vec2 := m.AddTypeVector(float, 2)
	vec3 := m.AddTypeVector(float, 3)
	vec4 := m.AddTypeVector(float, 4)
	boolean := m.AddTypeBool()
	inVec4 := m.AddTypePointer(spirv.StorageClassInput, vec4)
	vColor := m.located(inVec4, spirv.StorageClassInput, "v_color", 0)
	outVec4 := m.AddTypePointer(spirv.StorageClassOutput, vec4)
	frag := m.located(outVec4, spirv.StorageClassOutput, "frag", 0)
	privateVec4 := m.AddTypePointer(spirv.StorageClassPrivate, vec4)
	tint := m.AddVariableWithInit(privateVec4, spirv.StorageClassPrivate, m.AddConstantNull(vec4))
	m.AddName(tint, "tint")
	fzero := m.AddConstantFloat32(float, 0)
	fone := m.AddConstantFloat32(float, 1)
	half := m.AddConstantFloat32(float, 0.5)
	tenth := m.AddConstantFloat32(float, 0.1)
	undef := m.AddUndef(vec2)
	format := m.AddString("shade %f")

	shade := m.AddFunction(m.AddTypeFunction(float, vec4, float), float, spirv.FunctionControlNone)
	m.AddName(shade, "shade")
	c := m.AddFunctionParameter(vec4)
	m.AddName(c, "c")
	k := m.AddFunctionParameter(float)
	m.AddName(k, "k")
	m.AddLabel()
	xyz := m.AddVectorShuffle(vec3, c, c, []uint32{0, 1, 2})
	scaled := m.AddBinaryOp(spirv.OpFMul, float, m.AddBinaryOp(spirv.OpDot, float, xyz, xyz), k)
	m.AddReturnValue(m.AddExtInst(float, m.std450, uint32(spirv.GLSLstd450FClamp), scaled, fzero, fone))
	m.AddFunctionEnd()

	fn := m.main()
	m.AddLabel()
	color := m.AddLoad(vec4, vColor)
	s := m.AddFunctionCall(float, shade, color, half)
	m.AddName(s, "s")
	m.AddExtInst(m.void, printf, 1, format, s)
	discard, keep := m.AllocID(), m.AllocID()
	low := m.AddBinaryOp(spirv.OpFOrdLessThan, boolean, s, tenth)
	m.AddSelectionMerge(keep, spirv.SelectionControlNone)
	m.AddBranchConditional(low, discard, keep)
	m.AddLabelID(discard)
	m.AddKill()

	m.AddLabelID(keep)
	bright := m.AddBinaryOp(spirv.OpFOrdGreaterThan, boolean, s, half)
	lit := m.AddOp(spirv.OpCompositeInsert, vec4, m.AddSelect(float, bright, s, half), color, 3)
	m.AddName(lit, "lit")
	pair := m.AddOp(spirv.OpCompositeInsert, vec2, s, undef, 0)
	m.AddName(pair, "pair")
	weight := m.AddOp(spirv.OpCompositeExtract, float, pair, 0)
	zyx := m.AddVectorShuffle(vec3, lit, lit, []uint32{2, 1, 0})
	out := m.AddCompositeConstruct(vec4, zyx, m.AddOp(spirv.OpCompositeExtract, float, lit, 3))
	weighted := m.AddBinaryOp(spirv.OpVectorTimesScalar, vec4, out, weight)
	m.AddStore(frag, m.AddBinaryOp(spirv.OpFAdd, vec4, weighted, m.AddLoad(vec4, tint)))
	m.end()

	m.AddEntryPoint(spirv.ExecutionModelFragment, fn, "main", []uint32{vColor, frag})
	m.AddExecutionMode(fn, spirv.ExecutionModeOriginUpperLeft)
	return m.Words()
}

// FetchFrag is
//
//	#version 450
//	layout(binding = 0) uniform sampler2D tex;
//	layout(location = 0) flat in ivec2 coord;
//	layout(location = 0) out vec4 color;
//	void main() {
//	    ivec2 size = textureSize(tex, 0);
//	    int levels = textureQueryLevels(tex);
//	    color = texelFetch(tex, min(coord, size - ivec2(1)), levels - 1);
//	}
func FetchFrag() []uint32 {
	m := newModule()
	float := m.AddTypeFloat(32)
	vec4 := m.AddTypeVector(float, 4)
	i32 := m.AddTypeInt(32, true)
	ivec2 := m.AddTypeVector(i32, 2)
	image := m.AddTypeImage(float, spirv.Dim2D, false, false, false, 1, spirv.ImageFormatUnknown)
	sampledImage := m.AddTypeSampledImage(image)
	texPtr := m.AddTypePointer(spirv.StorageClassUniformConstant, sampledImage)
	tex := m.named(texPtr, spirv.StorageClassUniformConstant, "tex")
	m.AddDecorate(tex, spirv.DecorationDescriptorSet, 0)
	m.AddDecorate(tex, spirv.DecorationBinding, 0)
	inIvec2 := m.AddTypePointer(spirv.StorageClassInput, ivec2)
	coord := m.located(inIvec2, spirv.StorageClassInput, "coord", 0)
	m.AddDecorate(coord, spirv.DecorationFlat)
	outVec4 := m.AddTypePointer(spirv.StorageClassOutput, vec4)
	color := m.located(outVec4, spirv.StorageClassOutput, "color", 0)
	zero := m.AddConstant(i32, 0)
	one := m.AddConstant(i32, 1)
	ones := m.AddConstantComposite(ivec2, one, one)

	fn := m.main()
	m.AddLabel()
	img := m.AddOp(spirv.OpImage, image, m.AddLoad(sampledImage, tex))
	size := m.AddOp(spirv.OpImageQuerySizeLod, ivec2, img, zero)
	levels := m.AddOp(spirv.OpImageQueryLevels, i32, img)
	last := m.AddBinaryOp(spirv.OpISub, ivec2, size, ones)
	at := m.AddExtInst(ivec2, m.std450, uint32(spirv.GLSLstd450SMin), m.AddLoad(ivec2, coord), last)
	lod := m.AddBinaryOp(spirv.OpISub, i32, levels, one)
	texel := m.AddOp(spirv.OpImageFetch, vec4, img, at, uint32(spirv.ImageOperandsLod), lod)
	m.AddStore(color, texel)
	m.end()

	m.AddEntryPoint(spirv.ExecutionModelFragment, fn, "main", []uint32{coord, color})
	m.AddExecutionMode(fn, spirv.ExecutionModeOriginUpperLeft)
	return m.Words()
}

// NestedLoopFrag is
//
//	#version 450
//	layout(location = 0) flat in int count;
//	layout(location = 0) out vec4 color;
//	void main() {
//	    float acc = 0.0;
//	    for (int i = 0; i < count; i++) {
//	        for (int j = 0; j < 4; j++) {
//	            if (j == i) continue;
//	            acc += 1.0;
//	        }
//	    }
//	    float w = acc > 8.0 ? acc * 0.5 : acc * 2.0;
//	    color = vec4(w);
//	}
//
// The counters live in function variables. The final select is an
// if/else joined by a phi.
func NestedLoopFrag() []uint32 {
	m := newModule()
	float := m.AddTypeFloat(32)
	vec4 := m.AddTypeVector(float, 4)
	i32 := m.AddTypeInt(32, true)
	boolean := m.AddTypeBool()
	inInt := m.AddTypePointer(spirv.StorageClassInput, i32)
	count := m.located(inInt, spirv.StorageClassInput, "count", 0)
	m.AddDecorate(count, spirv.DecorationFlat)
	outVec4 := m.AddTypePointer(spirv.StorageClassOutput, vec4)
	color := m.located(outVec4, spirv.StorageClassOutput, "color", 0)
	funcFloat := m.AddTypePointer(spirv.StorageClassFunction, float)
	funcInt := m.AddTypePointer(spirv.StorageClassFunction, i32)
	zero := m.AddConstant(i32, 0)
	one := m.AddConstant(i32, 1)
	four := m.AddConstant(i32, 4)
	fzero := m.AddConstantFloat32(float, 0)
	fone := m.AddConstantFloat32(float, 1)
	half := m.AddConstantFloat32(float, 0.5)
	two := m.AddConstantFloat32(float, 2)
	eight := m.AddConstantFloat32(float, 8)

	fn := m.main()
	m.AddLabel()
	acc := m.AddLocalVariable(funcFloat, fzero)
	m.AddName(acc, "acc")
	i := m.AddLocalVariable(funcInt, zero)
	m.AddName(i, "i")
	j := m.AddLocalVariable(funcInt)
	m.AddName(j, "j")
	outerHead, outerBody, outerCont, outerMerge := m.AllocID(), m.AllocID(), m.AllocID(), m.AllocID()
	innerHead, innerBody, skip, rest, innerCont, innerMerge := m.AllocID(), m.AllocID(), m.AllocID(), m.AllocID(), m.AllocID(), m.AllocID()
	m.AddBranch(outerHead)

	m.AddLabelID(outerHead)
	more := m.AddBinaryOp(spirv.OpSLessThan, boolean, m.AddLoad(i32, i), m.AddLoad(i32, count))
	m.AddLoopMerge(outerMerge, outerCont, spirv.LoopControlNone)
	m.AddBranchConditional(more, outerBody, outerMerge)

	m.AddLabelID(outerBody)
	m.AddStore(j, zero)
	m.AddBranch(innerHead)

	m.AddLabelID(innerHead)
	inner := m.AddBinaryOp(spirv.OpSLessThan, boolean, m.AddLoad(i32, j), four)
	m.AddLoopMerge(innerMerge, innerCont, spirv.LoopControlNone)
	m.AddBranchConditional(inner, innerBody, innerMerge)

	m.AddLabelID(innerBody)
	same := m.AddBinaryOp(spirv.OpIEqual, boolean, m.AddLoad(i32, j), m.AddLoad(i32, i))
	m.AddSelectionMerge(rest, spirv.SelectionControlNone)
	m.AddBranchConditional(same, skip, rest)

	m.AddLabelID(skip)
	m.AddBranch(innerCont)

	m.AddLabelID(rest)
	m.AddStore(acc, m.AddBinaryOp(spirv.OpFAdd, float, m.AddLoad(float, acc), fone))
	m.AddBranch(innerCont)

	m.AddLabelID(innerCont)
	m.AddStore(j, m.AddBinaryOp(spirv.OpIAdd, i32, m.AddLoad(i32, j), one))
	m.AddBranch(innerHead)

	m.AddLabelID(innerMerge)
	m.AddBranch(outerCont)

	m.AddLabelID(outerCont)
	m.AddStore(i, m.AddBinaryOp(spirv.OpIAdd, i32, m.AddLoad(i32, i), one))
	m.AddBranch(outerHead)

	m.AddLabelID(outerMerge)
	total := m.AddLoad(float, acc)
	big := m.AddBinaryOp(spirv.OpFOrdGreaterThan, boolean, total, eight)
	then, otherwise, join := m.AllocID(), m.AllocID(), m.AllocID()
	m.AddSelectionMerge(join, spirv.SelectionControlNone)
	m.AddBranchConditional(big, then, otherwise)
	m.AddLabelID(then)
	damped := m.AddBinaryOp(spirv.OpFMul, float, total, half)
	m.AddBranch(join)
	m.AddLabelID(otherwise)
	boosted := m.AddBinaryOp(spirv.OpFMul, float, total, two)
	m.AddBranch(join)
	m.AddLabelID(join)
	w := m.AddPhi(float, spirv.PhiIncoming{Value: damped, Parent: then}, spirv.PhiIncoming{Value: boosted, Parent: otherwise})
	m.AddName(w, "w")
	m.AddStore(color, m.AddCompositeConstruct(vec4, w, w, w, w))
	m.end()

	m.AddEntryPoint(spirv.ExecutionModelFragment, fn, "main", []uint32{count, color})
	m.AddExecutionMode(fn, spirv.ExecutionModeOriginUpperLeft)
	return m.Words()
}

// FallthroughFrag is
//
//	#version 450
//	layout(location = 0) flat in int mode;
//	layout(location = 0) out vec4 color;
//	void main() {
//	    vec4 c = vec4(0.0);
//	    switch (mode) {
//	    case 0: c.x = 1.0;
//	    case 1: c.y = 1.0; break;
//	    case 2: c.z = 1.0; break;
//	    }
//	    color = c;
//	}
//
// The default label is an unreachable block, as optimizers emit for
// switches that cover every value.
func FallthroughFrag() []uint32 {
	m := newModule()
	float := m.AddTypeFloat(32)
	vec4 := m.AddTypeVector(float, 4)
	i32 := m.AddTypeInt(32, true)
	u32 := m.AddTypeInt(32, false)
	inInt := m.AddTypePointer(spirv.StorageClassInput, i32)
	mode := m.located(inInt, spirv.StorageClassInput, "mode", 0)
	m.AddDecorate(mode, spirv.DecorationFlat)
	outVec4 := m.AddTypePointer(spirv.StorageClassOutput, vec4)
	color := m.located(outVec4, spirv.StorageClassOutput, "color", 0)
	funcVec4 := m.AddTypePointer(spirv.StorageClassFunction, vec4)
	funcFloat := m.AddTypePointer(spirv.StorageClassFunction, float)
	null := m.AddConstantNull(vec4)
	fone := m.AddConstantFloat32(float, 1)
	var lanes [3]uint32
	for n := range lanes {
		lanes[n] = m.AddConstant(u32, uint32(n)) //nolint:gosec // three lanes
	}

	fn := m.main()
	m.AddLabel()
	c := m.AddLocalVariable(funcVec4)
	m.AddName(c, "c")
	m.AddStore(c, null)
	sel := m.AddLoad(i32, mode)
	cases := [3]uint32{m.AllocID(), m.AllocID(), m.AllocID()}
	def, merge := m.AllocID(), m.AllocID()
	m.AddSelectionMerge(merge, spirv.SelectionControlNone)
	m.AddSwitch(sel, def,
		spirv.SwitchTarget{Literal: 0, Label: cases[0]},
		spirv.SwitchTarget{Literal: 1, Label: cases[1]},
		spirv.SwitchTarget{Literal: 2, Label: cases[2]})
	next := [3]uint32{cases[1], merge, merge}
	for n, label := range cases {
		m.AddLabelID(label)
		m.AddStore(m.AddAccessChain(funcFloat, c, lanes[n]), fone)
		m.AddBranch(next[n])
	}
	m.AddLabelID(def)
	m.AddUnreachable()

	m.AddLabelID(merge)
	m.AddStore(color, m.AddLoad(vec4, c))
	m.end()

	m.AddEntryPoint(spirv.ExecutionModelFragment, fn, "main", []uint32{mode, color})
	m.AddExecutionMode(fn, spirv.ExecutionModeOriginUpperLeft)
	return m.Words()
}

// SwapFrag is
//
//	#version 450
//	layout(location = 0) out vec4 a_copy;
//	void main() {
//	    float a = 1.0, b = 2.0;
//	    for (int i = 0; i < 3; i++) {
//	        float t = a; a = b; b = t;
//	    }
//	    a_copy = vec4(a, b, 0.0, 1.0);
//	}
//
// after mem2reg. The back edge assigns a and b from each other, so the
// copies go through temporaries, and the output already owns the name
// a_copy.
func SwapFrag() []uint32 {
	m := newModule()
	float := m.AddTypeFloat(32)
	vec4 := m.AddTypeVector(float, 4)
	i32 := m.AddTypeInt(32, true)
	boolean := m.AddTypeBool()
	outVec4 := m.AddTypePointer(spirv.StorageClassOutput, vec4)
	out := m.located(outVec4, spirv.StorageClassOutput, "a_copy", 0)
	zero := m.AddConstant(i32, 0)
	one := m.AddConstant(i32, 1)
	three := m.AddConstant(i32, 3)
	fzero := m.AddConstantFloat32(float, 0)
	fone := m.AddConstantFloat32(float, 1)
	ftwo := m.AddConstantFloat32(float, 2)

	fn := m.main()
	entry := m.AddLabel()
	header, body, cont, merge := m.AllocID(), m.AllocID(), m.AllocID(), m.AllocID()
	i, a, b, next := m.AllocID(), m.AllocID(), m.AllocID(), m.AllocID()
	m.AddName(i, "i")
	m.AddName(a, "a")
	m.AddName(b, "b")
	m.AddBranch(header)

	m.AddLabelID(header)
	m.AddStatement(spirv.OpPhi, i32, i, zero, entry, next, cont)
	m.AddStatement(spirv.OpPhi, float, a, fone, entry, b, cont)
	m.AddStatement(spirv.OpPhi, float, b, ftwo, entry, a, cont)
	cond := m.AddBinaryOp(spirv.OpSLessThan, boolean, i, three)
	m.AddLoopMerge(merge, cont, spirv.LoopControlNone)
	m.AddBranchConditional(cond, body, merge)

	m.AddLabelID(body)
	m.AddBranch(cont)

	m.AddLabelID(cont)
	m.AddStatement(spirv.OpIAdd, i32, next, i, one)
	m.AddBranch(header)

	m.AddLabelID(merge)
	m.AddStore(out, m.AddCompositeConstruct(vec4, a, b, fzero, fone))
	m.end()

	m.AddEntryPoint(spirv.ExecutionModelFragment, fn, "main", []uint32{out})
	m.AddExecutionMode(fn, spirv.ExecutionModeOriginUpperLeft)
	return m.Words()
}

// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package transform_test

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/spirvcross/diag"
	"github.com/gogpu/spirvcross/internal/shaders"
	"github.com/gogpu/spirvcross/ir"
	"github.com/gogpu/spirvcross/parser"
	"github.com/gogpu/spirvcross/reflection"
	"github.com/gogpu/spirvcross/spirv"
	"github.com/gogpu/spirvcross/transform"
)

func module(t testing.TB, words []uint32) *ir.Module {
	t.Helper()
	m, err := spirv.FromWords(words)
	require.NoError(t, err)
	mod, err := parser.Parse(m)
	require.NoError(t, err)
	return mod
}

// flatLoads returns the rewritten loads of buffer in body order.
func flatLoads(m *ir.Module, buffer ir.ID) []ir.ExprFlatLoad {
	var out []ir.ExprFlatLoad
	for _, fid := range m.Functions {
		ir.WalkStatements(m.Function(fid).Body, func(s ir.Statement) {
			emit, ok := s.Kind.(ir.StmtEmit)
			if !ok {
				return
			}
			if k, ok := m.Expression(emit.Expr).Kind.(ir.ExprFlatLoad); ok && k.Buffer == buffer {
				out = append(out, k)
			}
		})
	}
	return out
}

func offsets(loads []ir.ExprFlatLoad) []uint32 {
	out := make([]uint32, len(loads))
	for i, l := range loads {
		out[i] = l.Offset
	}
	return out
}

func TestCombinedImageSamplers(t *testing.T) {
	m := module(t, shaders.SamplerFrag())
	bound := m.Bound()

	combined := transform.BuildCombinedImageSamplers(m)
	require.Len(t, combined, 1)
	c := combined[0]
	assert.Equal(t, ir.ID(bound), c.CombinedID)
	assert.EqualValues(t, 12, c.ImageID)
	assert.EqualValues(t, 16, c.SamplerID)

	v := m.Variable(c.CombinedID)
	require.NotNil(t, v)
	assert.Equal(t, spirv.StorageClassUniformConstant, v.Storage)
	_, ok := m.Inner(m.Pointee(v.Type)).(ir.SampledImageType)
	assert.True(t, ok)
	assert.Equal(t, reflection.CategorySampledImage, reflection.Classify(m, c.CombinedID))

	after := m.Bound()
	assert.Equal(t, combined, transform.BuildCombinedImageSamplers(m))
	assert.Equal(t, after, m.Bound(), "a second call must not allocate")
}

func TestCombinedImageSamplersNone(t *testing.T) {
	m := module(t, shaders.SimpleVert())
	assert.Empty(t, transform.BuildCombinedImageSamplers(m))
	assert.True(t, m.CombinedBuilt)
}

func TestFlattenBufferBlockOffsets(t *testing.T) {
	m := module(t, shaders.TwoUBOVert())
	res := reflection.Resources(m)
	require.Len(t, res.UniformBuffers, 2)
	u1, u2 := res.UniformBuffers[0].ID, res.UniformBuffers[1].ID

	require.NoError(t, transform.FlattenBufferBlock(m, u1))
	require.NoError(t, transform.FlattenBufferBlock(m, u2))
	assert.True(t, m.Flattened[u1])
	assert.True(t, m.Flattened[u2])

	assert.Equal(t, []uint32{24, 64, 100}, offsets(flatLoads(m, u1)))
	assert.Equal(t, []uint32{0, 16, 40}, offsets(flatLoads(m, u2)))
	assert.Equal(t, uint32(7), m.Vec4Count(res.UniformBuffers[0].BaseTypeID))
	assert.Equal(t, uint32(3), m.Vec4Count(res.UniformBuffers[1].BaseTypeID))

	// Flattening again changes nothing.
	require.NoError(t, transform.FlattenBufferBlock(m, u1))
	assert.Len(t, flatLoads(m, u1), 3)
}

func TestFlattenBufferBlockMatrix(t *testing.T) {
	m := module(t, shaders.SimpleVert())
	require.NoError(t, transform.FlattenBufferBlock(m, 22))
	loads := flatLoads(m, 22)
	require.Len(t, loads, 2)
	assert.Equal(t, uint32(0), loads[0].Offset)
	assert.Equal(t, uint32(16), loads[0].MatrixStride)
	assert.False(t, loads[0].RowMajor)
	assert.Equal(t, uint32(64), loads[1].Offset)
}

func TestFlattenBufferBlockErrors(t *testing.T) {
	compute := module(t, shaders.ComputeShader())
	storage := reflection.Resources(compute).StorageBuffers
	require.Len(t, storage, 1)

	vertex := module(t, shaders.SimpleVert())
	inputs := reflection.Resources(vertex).StageInputs

	tests := []struct {
		name string
		m    *ir.Module
		id   ir.ID
	}{
		{"storage buffer", compute, storage[0].ID},
		{"stage input", vertex, inputs[0].ID},
		{"missing id", vertex, 100000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := transform.FlattenBufferBlock(tt.m, tt.id)
			assert.True(t, diag.IsKind(err, diag.InvalidResource), "got %v", err)
			assert.False(t, tt.m.Flattened[tt.id])
		})
	}
}

func TestRenameInterfaceVariable(t *testing.T) {
	m := module(t, shaders.StructVert())
	res := reflection.Resources(m)
	require.Len(t, res.StageOutputs, 1)
	out := res.StageOutputs[0]

	require.NoError(t, transform.RenameInterfaceVariable(m, res.StageOutputs, 0, "renamed", nil))
	assert.Equal(t, "renamed", m.Name(out.ID))
	assert.Equal(t, transform.InterfaceStructName(0), m.Name(out.BaseTypeID))
	for i := 0; i < 4; i++ {
		assert.Equal(t, transform.InterfaceMemberName(i), m.MemberName(out.BaseTypeID, i))
	}

	// Plain inputs only change their own name.
	require.NoError(t, transform.RenameInterfaceVariable(m, res.StageInputs, 1, "second", nil))
	assert.Equal(t, "second", m.Name(res.StageInputs[1].ID))
}

func TestRenameInterfaceVariableErrors(t *testing.T) {
	m := module(t, shaders.SimpleVert())
	res := reflection.Resources(m)
	before := m.Name(res.StageInputs[0].ID)

	tests := []struct {
		name  string
		list  []reflection.Resource
		index int
		ident string
		kind  diag.Kind
	}{
		{"negative index", res.StageInputs, -1, "x", diag.IndexOutOfRange},
		{"index past end", res.StageInputs, 2, "x", diag.IndexOutOfRange},
		{"not an interface", res.UniformBuffers, 0, "x", diag.InvalidResource},
		{"bad identifier", res.StageInputs, 0, "0x", diag.InvalidIdentifier},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := transform.RenameInterfaceVariable(m, tt.list, tt.index, tt.ident, nil)
			assert.True(t, diag.IsKind(err, tt.kind), "got %v", err)
		})
	}
	assert.Equal(t, before, m.Name(res.StageInputs[0].ID))
}

// floatBlock builds a vertex shader with a uniform block of n floats at
// offsets 4*i that loads member k.
func floatBlock(n, k int) []uint32 {
	b := spirv.NewModuleBuilder(spirv.Version1_0)
	b.AddCapability(spirv.CapabilityShader)
	b.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)
	void := b.AddTypeVoid()
	fnType := b.AddTypeFunction(void)
	float := b.AddTypeFloat(32)
	i32 := b.AddTypeInt(32, true)
	members := make([]uint32, n)
	for i := range members {
		members[i] = float
	}
	block := b.AddTypeStruct(members...)
	for i := range members {
		b.AddMemberDecorate(block, uint32(i), spirv.DecorationOffset, uint32(4*i)) //nolint:gosec // small
	}
	b.AddDecorate(block, spirv.DecorationBlock)
	ubo := b.AddVariable(b.AddTypePointer(spirv.StorageClassUniform, block), spirv.StorageClassUniform)
	ptr := b.AddTypePointer(spirv.StorageClassUniform, float)
	index := b.AddConstant(i32, uint32(k)) //nolint:gosec // small
	fn := b.AddFunction(fnType, void, spirv.FunctionControlNone)
	b.AddLabel()
	b.AddLoad(float, b.AddAccessChain(ptr, ubo, index))
	b.AddReturn()
	b.AddFunctionEnd()
	b.AddEntryPoint(spirv.ExecutionModelVertex, fn, "main", nil)
	return b.Words()
}

func TestFlattenOffsetProperty(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 50
	properties := gopter.NewProperties(params)

	properties.Property("flattened loads address the decorated offset", prop.ForAll(
		func(n, k int) bool {
			k %= n
			m := module(t, floatBlock(n, k))
			ubo := reflection.Resources(m).UniformBuffers[0]
			if err := transform.FlattenBufferBlock(m, ubo.ID); err != nil {
				return false
			}
			loads := flatLoads(m, ubo.ID)
			return len(loads) == 1 &&
				loads[0].Offset == uint32(4*k) && //nolint:gosec // small
				m.Vec4Count(ubo.BaseTypeID) == uint32((4*n+15)/16) //nolint:gosec // small
		},
		gen.IntRange(1, 40),
		gen.IntRange(0, 39),
	))

	properties.TestingRun(t)
}

// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package reflection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/spirvcross/internal/shaders"
	"github.com/gogpu/spirvcross/ir"
	"github.com/gogpu/spirvcross/parser"
	"github.com/gogpu/spirvcross/reflection"
	"github.com/gogpu/spirvcross/spirv"
)

func module(t *testing.T, words []uint32) *ir.Module {
	t.Helper()
	m, err := spirv.FromWords(words)
	require.NoError(t, err)
	mod, err := parser.Parse(m)
	require.NoError(t, err)
	return mod
}

func names(list []reflection.Resource) []string {
	out := make([]string, len(list))
	for i, r := range list {
		out[i] = r.Name
	}
	return out
}

func TestResourcesVertex(t *testing.T) {
	m := module(t, shaders.SimpleVert())
	res := reflection.Resources(m)

	require.Len(t, res.UniformBuffers, 1)
	ubo := res.UniformBuffers[0]
	assert.EqualValues(t, 22, ubo.ID)
	// Unnamed blocks are reported under their type name.
	assert.Equal(t, "uniform_buffer_object", ubo.Name)
	assert.Equal(t, m.Pointee(ubo.TypeID), ubo.BaseTypeID)

	assert.Equal(t, []string{"a_normal", "a_position"}, names(res.StageInputs))
	// gl_PerVertex is a builtin block and is left out.
	assert.Equal(t, []string{"v_normal"}, names(res.StageOutputs))
	assert.Empty(t, res.StorageBuffers)
	assert.Empty(t, res.SampledImages)
}

func TestResourcesSeparateImages(t *testing.T) {
	m := module(t, shaders.SamplerFrag())
	res := reflection.Resources(m)

	require.Len(t, res.SeparateImages, 1)
	assert.EqualValues(t, 12, res.SeparateImages[0].ID)
	require.Len(t, res.SeparateSamplers, 1)
	assert.EqualValues(t, 16, res.SeparateSamplers[0].ID)
	assert.Equal(t, reflection.CategorySeparateImage, reflection.Classify(m, 12))
	assert.Equal(t, reflection.CategorySeparateSampler, reflection.Classify(m, 16))
}

func TestResourcesCompute(t *testing.T) {
	m := module(t, shaders.ComputeShader())
	res := reflection.Resources(m)

	assert.Equal(t, []string{"data"}, names(res.StorageBuffers))
	assert.Empty(t, res.UniformBuffers)
	// gl_GlobalInvocationID is a builtin.
	assert.Empty(t, res.StageInputs)
}

func TestClassifyNonGlobals(t *testing.T) {
	m := module(t, shaders.InitializationVert())
	f := m.Function(m.EntryPoints[0].Function)
	require.NotNil(t, f)
	require.Len(t, f.Locals, 1)
	assert.Equal(t, reflection.CategoryNone, reflection.Classify(m, f.Locals[0]))
	assert.Equal(t, reflection.CategoryNone, reflection.Classify(m, f.ID))
}

func TestCategoryString(t *testing.T) {
	tests := []struct {
		c    reflection.Category
		want string
	}{
		{reflection.CategoryUniformBuffer, "uniform_buffers"},
		{reflection.CategoryStageInput, "stage_inputs"},
		{reflection.CategorySeparateSampler, "separate_samplers"},
		{reflection.CategoryNone, "none"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.c.String())
	}
}

// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spirvcross_test

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/spirvcross/diag"
	"github.com/gogpu/spirvcross/glsl"
	"github.com/gogpu/spirvcross/internal/shaders"
	"github.com/gogpu/spirvcross/spirv"
)

func parse(t *testing.T, words []uint32) *glsl.Ast {
	t.Helper()
	m, err := spirv.FromWords(words)
	require.NoError(t, err)
	ast, err := glsl.Parse(m)
	require.NoError(t, err)
	return ast
}

func compile(t *testing.T, ast *glsl.Ast, opts glsl.CompilerOptions) string {
	t.Helper()
	require.NoError(t, ast.SetCompilerOptions(opts))
	src, err := ast.Compile()
	require.NoError(t, err)
	return src
}

func options(v glsl.Version, pack bool) glsl.CompilerOptions {
	opts := glsl.DefaultOptions()
	opts.Version = v
	opts.Enable420PackExtension = pack
	return opts
}

func TestSimpleVertAllVersions(t *testing.T) {
	versions := glsl.Versions()
	require.Contains(t, versions, glsl.VersionES310)
	require.Contains(t, versions, glsl.VersionES320)
	ast := parse(t, shaders.SimpleVert())
	for _, v := range versions {
		t.Run(v.String(), func(t *testing.T) {
			require.NoError(t, ast.SetCompilerOptions(options(v, true)))
			src, err := ast.Compile()
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(src, "#version "+v.String()+"\n"), src)
			assert.Contains(t, src, "gl_Position = ")
		})
	}
}

func TestCompileIsDeterministic(t *testing.T) {
	ast := parse(t, shaders.SimpleVert())
	opts := options(glsl.Version330, false)
	first := compile(t, ast, opts)
	second := compile(t, ast, opts)
	assert.Equal(t, first, second)
}

func TestAddHeaderLine(t *testing.T) {
	ast := parse(t, shaders.SimpleVert())
	require.NoError(t, ast.AddHeaderLine("// Comment"))
	opts := options(glsl.Version330, false)
	opts.EmitUniformBufferAsPlainUniforms = true
	src := compile(t, ast, opts)
	lines := strings.Split(src, "\n")
	require.Greater(t, len(lines), 2)
	assert.Equal(t, "#version 330", lines[0])
	assert.Equal(t, "// Comment", lines[1])
	assert.Contains(t, src, "uniform uniform_buffer_object _22;")
}

func TestNames(t *testing.T) {
	ast := parse(t, shaders.SimpleVert())

	name, err := ast.GetName(22)
	require.NoError(t, err)
	assert.Equal(t, "_22", name)

	res, err := ast.GetShaderResources()
	require.NoError(t, err)
	require.Len(t, res.UniformBuffers, 1)
	block := res.UniformBuffers[0].BaseTypeID
	member, err := ast.GetMemberName(block, 1)
	require.NoError(t, err)
	assert.Equal(t, "u_scale", member)

	require.NoError(t, ast.SetName(22, "ubo"))
	require.NoError(t, ast.SetMemberName(block, 1, "scale"))
	src := compile(t, ast, options(glsl.Version450, false))
	assert.Contains(t, src, "} ubo;")
	assert.Contains(t, src, "* ubo.scale;")

	_, err = ast.GetMemberName(block, 9)
	assert.True(t, diag.IsKind(err, diag.IndexOutOfRange))
	_, err = ast.GetName(100000)
	assert.True(t, diag.IsKind(err, diag.InvalidResource))
	assert.True(t, diag.IsKind(ast.SetName(22, "1abc"), diag.InvalidIdentifier))
}

func TestGetDecoration(t *testing.T) {
	ast := parse(t, shaders.SimpleVert())
	res, err := ast.GetShaderResources()
	require.NoError(t, err)
	require.Len(t, res.StageInputs, 2)
	for _, in := range res.StageInputs {
		loc, err := ast.GetDecoration(in.ID, spirv.DecorationLocation)
		require.NoError(t, err)
		switch in.Name {
		case "a_normal":
			assert.Equal(t, uint32(1), loc)
		case "a_position":
			assert.Equal(t, uint32(0), loc)
		default:
			t.Errorf("unexpected stage input %q", in.Name)
		}
	}
	binding, err := ast.GetDecoration(22, spirv.DecorationBinding)
	require.NoError(t, err)
	assert.Zero(t, binding)
}

func renameFirst(t *testing.T, ast *glsl.Ast, output bool) {
	t.Helper()
	res, err := ast.GetShaderResources()
	require.NoError(t, err)
	list := res.StageInputs
	if output {
		list = res.StageOutputs
	}
	require.NoError(t, ast.RenameInterfaceVariable(list, 0, "renamed"))
}

func TestStructVertRenamed(t *testing.T) {
	ast := parse(t, shaders.StructVert())
	renameFirst(t, ast, true)
	got := compile(t, ast, options(glsl.VersionES100, false))
	want := `#version 100

struct SPIRV_Cross_Interface_Location0
{
    vec4 InterfaceMember0;
    vec4 InterfaceMember1;
    vec4 InterfaceMember2;
    vec4 InterfaceMember3;
};

varying vec4 renamed_InterfaceMember0;
varying vec4 renamed_InterfaceMember1;
varying vec4 renamed_InterfaceMember2;
varying vec4 renamed_InterfaceMember3;
attribute vec4 a;
attribute vec4 b;
attribute vec4 c;
attribute vec4 d;

void main()
{
    SPIRV_Cross_Interface_Location0 _20 = SPIRV_Cross_Interface_Location0(a, b, c, d);
    renamed_InterfaceMember0 = _20.InterfaceMember0;
    renamed_InterfaceMember1 = _20.InterfaceMember1;
    renamed_InterfaceMember2 = _20.InterfaceMember2;
    renamed_InterfaceMember3 = _20.InterfaceMember3;
}

`
	assert.Equal(t, want, got)
}

func TestStructFragRenamed(t *testing.T) {
	ast := parse(t, shaders.StructFrag())
	renameFirst(t, ast, false)
	got := compile(t, ast, options(glsl.VersionES100, false))
	want := `#version 100
precision mediump float;
precision highp int;

struct SPIRV_Cross_Interface_Location0
{
    vec4 InterfaceMember0;
    vec4 InterfaceMember1;
    vec4 InterfaceMember2;
    vec4 InterfaceMember3;
};

varying vec4 renamed_InterfaceMember0;
varying vec4 renamed_InterfaceMember1;
varying vec4 renamed_InterfaceMember2;
varying vec4 renamed_InterfaceMember3;

void main()
{
    gl_FragData[0] = vec4(renamed_InterfaceMember0.x, renamed_InterfaceMember1.y, renamed_InterfaceMember2.z, renamed_InterfaceMember3.w);
}

`
	assert.Equal(t, want, got)
}

func TestRenameInterfaceVariableErrors(t *testing.T) {
	ast := parse(t, shaders.SimpleVert())
	res, err := ast.GetShaderResources()
	require.NoError(t, err)

	err = ast.RenameInterfaceVariable(res.StageInputs, len(res.StageInputs), "x")
	assert.True(t, diag.IsKind(err, diag.IndexOutOfRange))
	err = ast.RenameInterfaceVariable(res.UniformBuffers, 0, "x")
	assert.True(t, diag.IsKind(err, diag.InvalidResource))
	err = ast.RenameInterfaceVariable(res.StageInputs, 0, "not valid")
	assert.True(t, diag.IsKind(err, diag.InvalidIdentifier))
}

func TestCombinedImageSampler(t *testing.T) {
	ast := parse(t, shaders.SamplerFrag())
	combined, err := ast.GetCombinedImageSamplers()
	require.NoError(t, err)
	require.Len(t, combined, 1)
	c := combined[0]
	assert.EqualValues(t, 26, c.CombinedID)
	assert.EqualValues(t, 12, c.ImageID)
	assert.EqualValues(t, 16, c.SamplerID)

	again, err := ast.GetCombinedImageSamplers()
	require.NoError(t, err)
	assert.Equal(t, combined, again)

	require.NoError(t, ast.SetName(c.CombinedID, "combined_sampler_16_12_26"))
	got := compile(t, ast, options(glsl.Version410, true))
	want := `#version 410
#ifdef GL_ARB_shading_language_420pack
#extension GL_ARB_shading_language_420pack : require
#endif

uniform sampler2D combined_sampler_16_12_26;

layout(location = 0) out vec4 target0;
layout(location = 0) in vec2 v_uv;

void main()
{
    target0 = texture(combined_sampler_16_12_26, v_uv);
}

`
	assert.Equal(t, want, got)
}

func TestSampledImagesReflectCombined(t *testing.T) {
	ast := parse(t, shaders.SamplerFrag())
	res, err := ast.GetShaderResources()
	require.NoError(t, err)
	assert.Len(t, res.SeparateImages, 1)
	assert.Len(t, res.SeparateSamplers, 1)
	assert.Empty(t, res.SampledImages)

	_, err = ast.GetCombinedImageSamplers()
	require.NoError(t, err)
	res, err = ast.GetShaderResources()
	require.NoError(t, err)
	require.Len(t, res.SampledImages, 1)
	assert.EqualValues(t, 26, res.SampledImages[0].ID)
}

func TestFlattenBufferBlocks(t *testing.T) {
	ast := parse(t, shaders.TwoUBOVert())
	res, err := ast.GetShaderResources()
	require.NoError(t, err)
	require.Len(t, res.UniformBuffers, 2)
	for _, ubo := range res.UniformBuffers {
		require.NoError(t, ast.FlattenBufferBlock(ubo.ID))
	}
	opts := options(glsl.Version330, false)
	opts.EmitUniformBufferAsPlainUniforms = true
	got := compile(t, ast, opts)
	want := `#version 330

uniform vec4 ubo1[7];
uniform vec4 ubo2[3];
void main()
{
    gl_Position = vec4(((((ubo1[1].z + ubo1[4].x) + ubo1[6].y) + ubo2[0].x) + ubo2[1].x) + ubo2[2].z);
}

`
	assert.Equal(t, want, got)
}

func TestFlattenBufferBlockRejectsNonBuffers(t *testing.T) {
	ast := parse(t, shaders.SimpleVert())
	res, err := ast.GetShaderResources()
	require.NoError(t, err)
	err = ast.FlattenBufferBlock(res.StageInputs[0].ID)
	assert.True(t, diag.IsKind(err, diag.InvalidResource))
}

func TestInitialization(t *testing.T) {
	ast := parse(t, shaders.InitializationVert())
	want := `#version 450

layout(location = 0) in float rand;

void main()
{
    vec4 pos;
    if (rand > 0.5)
    {
        pos = vec4(1.0);
    }
    gl_Position = pos;
}

`
	assert.Equal(t, want, compile(t, ast, glsl.DefaultOptions()))

	opts := glsl.DefaultOptions()
	opts.ForceZeroInitializedVariables = true
	zeroed := strings.Replace(want, "vec4 pos;", "vec4 pos = vec4(0.0);", 1)
	assert.Equal(t, zeroed, compile(t, ast, opts))
}

func TestSetCompilerOptionsKeepsPreviousOnError(t *testing.T) {
	ast := parse(t, shaders.ComputeShader())
	require.NoError(t, ast.SetCompilerOptions(options(glsl.Version450, false)))
	err := ast.SetCompilerOptions(options(glsl.Version330, false))
	assert.True(t, diag.IsKind(err, diag.UnsupportedVersion))
	assert.Equal(t, glsl.Version450, ast.CompilerOptions().Version)
}

func TestEntryPoints(t *testing.T) {
	ast := parse(t, shaders.TwoEntries())
	eps := ast.EntryPoints()
	require.Len(t, eps, 2)
	assert.Equal(t, "vs_main", eps[0].Name)
	assert.Equal(t, spirv.ExecutionModelVertex, eps[0].Model)
	assert.Equal(t, "fs_main", eps[1].Name)
	assert.Equal(t, spirv.ExecutionModelFragment, eps[1].Model)

	opts := options(glsl.VersionES300, false)
	src := compile(t, ast, opts)
	assert.NotContains(t, src, "precision")

	require.NoError(t, ast.SetEntryPoint("fs_main", spirv.ExecutionModelFragment))
	src = compile(t, ast, opts)
	assert.Contains(t, src, "precision mediump float;")
	assert.Contains(t, src, "void main()")

	err := ast.SetEntryPoint("fs_main", spirv.ExecutionModelVertex)
	assert.True(t, diag.IsKind(err, diag.InvalidResource))
}

func TestComputeWorkGroupSize(t *testing.T) {
	ast := parse(t, shaders.ComputeShader())
	eps := ast.EntryPoints()
	require.Len(t, eps, 1)
	assert.Equal(t, [3]uint32{64, 1, 1}, eps[0].WorkGroupSize)

	src := compile(t, ast, options(glsl.Version450, false))
	for _, want := range []string{
		"layout(local_size_x = 64, local_size_y = 1, local_size_z = 1) in;",
		"#ifndef SPIRV_CROSS_CONSTANT_ID_3",
		"layout(binding = 0, std430) buffer Data",
		"float values[];",
		"gl_GlobalInvocationID.x",
		"barrier();",
	} {
		assert.Contains(t, src, want)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		words []uint32
	}{
		{"irreducible", shaders.Irreducible()},
		{"unsupported", shaders.Unsupported()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := spirv.FromWords(tt.words)
			require.NoError(t, err)
			_, err = glsl.Parse(m)
			assert.True(t, diag.IsKind(err, diag.ParseError), "got %v", err)
		})
	}
}

func TestCompileProperties(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 40
	properties := gopter.NewProperties(params)

	versions := glsl.Versions()
	fixtures := []func() []uint32{shaders.SimpleVert, shaders.SamplerFrag, shaders.InitializationVert, shaders.SwitchFrag}

	properties.Property("compile output is stable and starts with the version", prop.ForAll(
		func(vi, fi int, plain, zero bool) bool {
			m, err := spirv.FromWords(fixtures[fi]())
			if err != nil {
				return false
			}
			ast, err := glsl.Parse(m)
			if err != nil {
				return false
			}
			opts := options(versions[vi], false)
			opts.EmitUniformBufferAsPlainUniforms = plain
			opts.ForceZeroInitializedVariables = zero
			if err := ast.SetCompilerOptions(opts); err != nil {
				// Rejected options are reported, never half applied.
				return diag.IsKind(err, diag.UnsupportedVersion) && ast.CompilerOptions().Version == glsl.Version450
			}
			first, err := ast.Compile()
			if err != nil {
				return false
			}
			second, err := ast.Compile()
			if err != nil {
				return false
			}
			return first == second && strings.HasPrefix(first, "#version "+versions[vi].String()+"\n")
		},
		gen.IntRange(0, len(versions)-1),
		gen.IntRange(0, len(fixtures)-1),
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

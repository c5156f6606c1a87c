// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/spirvcross/diag"
	"github.com/gogpu/spirvcross/glsl"
	"github.com/gogpu/spirvcross/internal/shaders"
	"github.com/gogpu/spirvcross/spirv"
)

func module(t *testing.T, words []uint32) *spirv.Module {
	t.Helper()
	m, err := spirv.FromWords(words)
	require.NoError(t, err)
	return m
}

func compileAt(t *testing.T, words []uint32, v glsl.Version) (string, error) {
	t.Helper()
	ast, err := glsl.Parse(module(t, words))
	require.NoError(t, err)
	opts := glsl.DefaultOptions()
	opts.Version = v
	if err := ast.SetCompilerOptions(opts); err != nil {
		return "", err
	}
	return ast.Compile()
}

func TestCompileVersionsOrder(t *testing.T) {
	versions := []glsl.Version{glsl.Version330, glsl.Version430, glsl.VersionES310, glsl.VersionES300}
	results, err := glsl.CompileVersions(context.Background(), module(t, shaders.ComputeShader()),
		glsl.DefaultOptions(), nil, versions...)
	require.NoError(t, err)
	require.Len(t, results, len(versions))

	for i, r := range results {
		assert.Equal(t, versions[i], r.Version)
	}
	assert.True(t, diag.IsKind(results[0].Err, diag.UnsupportedVersion))
	assert.Empty(t, results[0].Source)
	require.NoError(t, results[1].Err)
	assert.True(t, strings.HasPrefix(results[1].Source, "#version 430\n"))
	require.NoError(t, results[2].Err)
	assert.True(t, strings.HasPrefix(results[2].Source, "#version 310 es\n"))
	assert.True(t, diag.IsKind(results[3].Err, diag.UnsupportedVersion))
}

func TestCompileVersionsMatchesCompile(t *testing.T) {
	m := module(t, shaders.SimpleVert())
	results, err := glsl.CompileVersions(context.Background(), m, glsl.DefaultOptions(), nil, glsl.Versions()...)
	require.NoError(t, err)
	for _, r := range results {
		require.NoError(t, r.Err, r.Version.String())
		want, err := compileAt(t, shaders.SimpleVert(), r.Version)
		require.NoError(t, err)
		assert.Equal(t, want, r.Source, r.Version.String())
	}
}

func TestCompileVersionsPrepare(t *testing.T) {
	prepare := func(ast *glsl.Ast) error {
		return ast.AddHeaderLine("// generated")
	}
	results, err := glsl.CompileVersions(context.Background(), module(t, shaders.SimpleVert()),
		glsl.DefaultOptions(), prepare, glsl.Version330, glsl.VersionES300)
	require.NoError(t, err)
	for _, r := range results {
		require.NoError(t, r.Err)
		assert.Equal(t, "// generated", strings.Split(r.Source, "\n")[1])
	}
}

func TestCompileVersionsPrepareFailure(t *testing.T) {
	boom := errors.New("boom")
	prepare := func(*glsl.Ast) error { return boom }
	results, err := glsl.CompileVersions(context.Background(), module(t, shaders.SimpleVert()),
		glsl.DefaultOptions(), prepare, glsl.Version330, glsl.Version450)
	require.ErrorIs(t, err, boom)
	assert.Nil(t, results)
}

func TestCompileVersionsCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := glsl.CompileVersions(ctx, module(t, shaders.SimpleVert()), glsl.DefaultOptions(), nil, glsl.Version330)
	require.ErrorIs(t, err, context.Canceled)
}

func TestCompileVersionsEmpty(t *testing.T) {
	results, err := glsl.CompileVersions(context.Background(), module(t, shaders.SimpleVert()), glsl.DefaultOptions(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestValidateOptions(t *testing.T) {
	tests := []struct {
		name    string
		words   func() []uint32
		version glsl.Version
	}{
		{"compute at 330", shaders.ComputeShader, glsl.Version330},
		{"compute at ES 300", shaders.ComputeShader, glsl.VersionES300},
		{"integer input at 120", shaders.SwitchFrag, glsl.Version120},
		{"switch at ES 100", shaders.SwitchFrag, glsl.VersionES100},
		{"unknown version", shaders.SimpleVert, glsl.Version{Major: 3, Minor: 35}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compileAt(t, tt.words(), tt.version)
			assert.True(t, diag.IsKind(err, diag.UnsupportedVersion), "got %v", err)
		})
	}
}

func TestLoopOutput(t *testing.T) {
	for _, v := range []glsl.Version{glsl.Version330, glsl.Version450, glsl.VersionES300} {
		t.Run(v.String(), func(t *testing.T) {
			src, err := compileAt(t, shaders.LoopFrag(), v)
			require.NoError(t, err)
			assert.Contains(t, src, "i < 4")
			assert.Contains(t, src, "float(i)")
			assert.Equal(t, strings.Count(src, "{"), strings.Count(src, "}"))
			assert.Equal(t, strings.Count(src, "("), strings.Count(src, ")"))
		})
	}
}

func TestSwitchOutput(t *testing.T) {
	src, err := compileAt(t, shaders.SwitchFrag(), glsl.Version330)
	require.NoError(t, err)
	for _, want := range []string{"switch (mode)", "case 0:", "case 1:", "default:", "flat in int mode;", "break;"} {
		assert.Contains(t, src, want)
	}
	assert.Equal(t, strings.Count(src, "{"), strings.Count(src, "}"))
}

func TestComputeOutput(t *testing.T) {
	src, err := compileAt(t, shaders.ComputeShader(), glsl.Version430)
	require.NoError(t, err)
	assert.Contains(t, src, "layout(local_size_x = 64, local_size_y = 1, local_size_z = 1) in;")
	assert.Contains(t, src, "gl_GlobalInvocationID")
	assert.Contains(t, src, "barrier();")
}

func TestESPrecisionStatements(t *testing.T) {
	src, err := compileAt(t, shaders.SwitchFrag(), glsl.VersionES300)
	require.NoError(t, err)
	assert.Contains(t, src, "precision mediump float;")
	assert.Contains(t, src, "precision highp int;")

	desktop, err := compileAt(t, shaders.SwitchFrag(), glsl.Version330)
	require.NoError(t, err)
	assert.NotContains(t, desktop, "precision ")
}

func TestCallOutput(t *testing.T) {
	src, err := compileAt(t, shaders.CallFrag(), glsl.Version450)
	require.NoError(t, err)
	for _, want := range []string{
		"float shade(vec4 c, float k)",
		"clamp(",
		"shade(v_color, 0.5)",
		"discard;",
		" ? ",
		".zyx",
		"vec4 tint = vec4(0.0);",
	} {
		assert.Contains(t, src, want)
	}
	assert.NotContains(t, src, "debugPrintf")
	assert.Less(t, strings.Index(src, "float shade("), strings.Index(src, "void main()"))
	assert.Equal(t, strings.Count(src, "{"), strings.Count(src, "}"))
}

func TestESFunctionPrecision(t *testing.T) {
	tests := []struct {
		version glsl.Version
		want    string
	}{
		{glsl.VersionES300, "highp float shade(highp vec4 c, highp float k)"},
		{glsl.VersionES310, "highp float shade(highp vec4 c, highp float k)"},
		{glsl.Version450, "\nfloat shade(vec4 c, float k)"},
	}
	for _, tt := range tests {
		t.Run(tt.version.String(), func(t *testing.T) {
			src, err := compileAt(t, shaders.CallFrag(), tt.version)
			require.NoError(t, err)
			assert.Contains(t, src, tt.want)
		})
	}
}

func TestNestedLoopOutput(t *testing.T) {
	for _, v := range []glsl.Version{glsl.Version330, glsl.VersionES300} {
		t.Run(v.String(), func(t *testing.T) {
			src, err := compileAt(t, shaders.NestedLoopFrag(), v)
			require.NoError(t, err)
			assert.Contains(t, src, "continue;")
			assert.GreaterOrEqual(t, strings.Count(src, "for (")+strings.Count(src, "while ("), 2)
			assert.Contains(t, src, "flat in int count;")
			assert.Contains(t, src, "w = ")
			assert.Equal(t, strings.Count(src, "{"), strings.Count(src, "}"))
			assert.Equal(t, strings.Count(src, "("), strings.Count(src, ")"))
		})
	}
}

func TestSwitchFallthrough(t *testing.T) {
	src, err := compileAt(t, shaders.FallthroughFrag(), glsl.Version450)
	require.NoError(t, err)
	assert.Contains(t, src, "switch (mode)")
	first, second := strings.Index(src, "case 0:"), strings.Index(src, "case 1:")
	require.NotEqual(t, -1, first)
	require.Less(t, first, second)
	assert.NotContains(t, src[first:second], "break;")
	assert.Contains(t, src[second:], "break;")
	assert.Equal(t, strings.Count(src, "{"), strings.Count(src, "}"))
}

func TestTexelFetchAndQueries(t *testing.T) {
	tests := []struct {
		version glsl.Version
		wants   []string
	}{
		{glsl.Version450, []string{"textureSize(tex, 0)", "textureQueryLevels(tex)", "texelFetch(tex, ", "min(", "uniform sampler2D tex;"}},
		{glsl.Version430, []string{"textureSize(tex, 0)", "texelFetch(tex, ", "layout(binding = 0) uniform sampler2D tex;"}},
	}
	for _, tt := range tests {
		t.Run(tt.version.String(), func(t *testing.T) {
			src, err := compileAt(t, shaders.FetchFrag(), tt.version)
			require.NoError(t, err)
			for _, want := range tt.wants {
				assert.Contains(t, src, want)
			}
		})
	}
}

func TestPhiCopyNamesAvoidGlobals(t *testing.T) {
	src, err := compileAt(t, shaders.SwapFrag(), glsl.Version450)
	require.NoError(t, err)
	assert.Contains(t, src, "out vec4 a_copy;")
	assert.Contains(t, src, "float a_copy_1 = b;")
	assert.Contains(t, src, "a = a_copy_1;")
	assert.NotContains(t, src, "float a_copy =")
	assert.NotContains(t, src, "__")
}

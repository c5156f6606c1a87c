// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/spirvcross/diag"
	"github.com/gogpu/spirvcross/glsl"
	"github.com/gogpu/spirvcross/internal/config"
	"github.com/gogpu/spirvcross/internal/shaders"
	"github.com/gogpu/spirvcross/spirv"
)

const tomlProfile = `
versions = ["330", "300 es"]
enable_420pack = true
plain_uniforms = true
header = ["// generated"]
flatten = ["u1"]

[vertex]
invert_y = true

[fragment]
float_precision = "highp"
int_precision = "medium"
`

const yamlProfile = `
version: "310 es"
zero_initialize: true
push_constant_as_uniform: true
vertex:
  transform_clip_space: true
fragment:
  float_precision: lowp
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadTOML(t *testing.T) {
	p, err := config.Load(writeFile(t, "profile.toml", tomlProfile))
	require.NoError(t, err)

	versions, err := p.TargetVersions()
	require.NoError(t, err)
	assert.Equal(t, []glsl.Version{glsl.Version330, glsl.VersionES300}, versions)

	opts, err := p.Options()
	require.NoError(t, err)
	assert.Equal(t, glsl.Version330, opts.Version)
	assert.True(t, opts.Enable420PackExtension)
	assert.True(t, opts.EmitUniformBufferAsPlainUniforms)
	assert.True(t, opts.Vertex.InvertY)
	assert.False(t, opts.Vertex.TransformClipSpace)
	assert.Equal(t, glsl.PrecisionHigh, opts.Fragment.DefaultFloatPrecision)
	assert.Equal(t, glsl.PrecisionMedium, opts.Fragment.DefaultIntPrecision)
	assert.Equal(t, []string{"// generated"}, p.Header)
	assert.Equal(t, []string{"u1"}, p.Flatten)
}

func TestLoadYAML(t *testing.T) {
	for _, name := range []string{"profile.yaml", "profile.yml"} {
		t.Run(name, func(t *testing.T) {
			p, err := config.Load(writeFile(t, name, yamlProfile))
			require.NoError(t, err)
			opts, err := p.Options()
			require.NoError(t, err)
			assert.Equal(t, glsl.VersionES310, opts.Version)
			assert.True(t, opts.ForceZeroInitializedVariables)
			assert.True(t, opts.EmitPushConstantAsUniformBuffer)
			assert.True(t, opts.Vertex.TransformClipSpace)
			assert.Equal(t, glsl.PrecisionLow, opts.Fragment.DefaultFloatPrecision)
			assert.Equal(t, glsl.PrecisionHigh, opts.Fragment.DefaultIntPrecision)
		})
	}
}

func TestEmptyProfileKeepsDefaults(t *testing.T) {
	for _, format := range []config.Format{config.FormatTOML, config.FormatYAML} {
		p, err := config.Decode(strings.NewReader(""), format)
		require.NoError(t, err, format)
		opts, err := p.Options()
		require.NoError(t, err)
		assert.Equal(t, glsl.DefaultOptions(), opts)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		format  config.Format
		content string
	}{
		{"bad toml", config.FormatTOML, "version = ["},
		{"unknown toml key", config.FormatTOML, "colour = true"},
		{"unknown yaml key", config.FormatYAML, "colour: true"},
		{"bad version", config.FormatTOML, `version = "335"`},
		{"bad version in list", config.FormatYAML, "versions: [\"330\", \"999\"]"},
		{"bad precision", config.FormatYAML, "fragment:\n  int_precision: ultra"},
		{"unknown format", config.Format("json"), "{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Decode(strings.NewReader(tt.content), tt.format)
			assert.Error(t, err)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := config.Load(writeFile(t, "profile.json", "{}"))
	assert.ErrorContains(t, err, "unknown profile format")

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = config.Load(writeFile(t, "broken.toml", `version = "335"`))
	assert.True(t, diag.IsKind(err, diag.UnsupportedVersion))
}

func TestPrepare(t *testing.T) {
	m, err := spirv.FromWords(shaders.TwoUBOVert())
	require.NoError(t, err)
	p, err := config.Decode(strings.NewReader(tomlProfile), config.FormatTOML)
	require.NoError(t, err)

	ast, err := glsl.Parse(m)
	require.NoError(t, err)
	require.NoError(t, p.Prepare(ast))
	opts, err := p.Options()
	require.NoError(t, err)
	require.NoError(t, ast.SetCompilerOptions(opts))
	src, err := ast.Compile()
	require.NoError(t, err)

	lines := strings.Split(src, "\n")
	assert.Equal(t, "#version 330", lines[0])
	assert.Equal(t, "// generated", lines[1])
	assert.Contains(t, src, "uniform vec4 ubo1[7];")
	assert.NotContains(t, src, "uniform vec4 ubo2[")
}

func TestPrepareUnknownBuffer(t *testing.T) {
	m, err := spirv.FromWords(shaders.TwoUBOVert())
	require.NoError(t, err)
	ast, err := glsl.Parse(m)
	require.NoError(t, err)
	p := &config.Profile{Flatten: []string{"missing"}}
	err = p.Prepare(ast)
	assert.True(t, diag.IsKind(err, diag.InvalidResource))
}

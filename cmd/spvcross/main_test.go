// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/spirvcross/diag"
	"github.com/gogpu/spirvcross/internal/shaders"
	"github.com/gogpu/spirvcross/reflection"
)

// writeSPIRV stores words as a little-endian binary and returns its path.
func writeSPIRV(t *testing.T, name string, words []uint32) string {
	t.Helper()
	data := make([]byte, 0, len(words)*4)
	for _, w := range words {
		data = binary.LittleEndian.AppendUint32(data, w)
	}
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

// run executes the command line and returns stdout, stderr and the error.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(t.Context())
	return stdout.String(), stderr.String(), err
}

// =============================================================================
// compile
// =============================================================================

func TestCompileToStdout(t *testing.T) {
	path := writeSPIRV(t, "simple.spv", shaders.SimpleVert())
	out, _, err := run(t, "compile", "-V", "330", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "#version 330\n"), out)
	assert.Contains(t, out, "gl_Position")
}

func TestCompileDefaultVersion(t *testing.T) {
	path := writeSPIRV(t, "simple.spv", shaders.SimpleVert())
	out, _, err := run(t, "compile", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "#version 450\n"))
}

func TestCompileSeveralVersionsToStdout(t *testing.T) {
	path := writeSPIRV(t, "simple.spv", shaders.SimpleVert())
	out, _, err := run(t, "compile", "-V", "330", "-V", "300 es", path)
	require.NoError(t, err)
	assert.Contains(t, out, "// "+path+" (GLSL 330)\n#version 330\n")
	assert.Contains(t, out, "// "+path+" (GLSL 300 es)\n#version 300 es\n")
	assert.Less(t, strings.Index(out, "#version 330"), strings.Index(out, "#version 300 es"))
}

func TestCompileToDirectory(t *testing.T) {
	a := writeSPIRV(t, "a.spv", shaders.SimpleVert())
	b := writeSPIRV(t, "b.spv", shaders.StructFrag())
	dir := filepath.Join(t.TempDir(), "out")
	_, stderr, err := run(t, "compile", "-V", "330", "-V", "300 es", "-o", dir, a, b)
	require.NoError(t, err)
	for _, name := range []string{"a.330.glsl", "a.300es.glsl", "b.330.glsl", "b.300es.glsl"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.True(t, strings.HasPrefix(string(data), "#version "), name)
		assert.Contains(t, stderr, name)
	}
}

func TestCompileToFile(t *testing.T) {
	path := writeSPIRV(t, "simple.spv", shaders.SimpleVert())
	target := filepath.Join(t.TempDir(), "simple.vert")
	out, _, err := run(t, "compile", "-V", "410", "-o", target, path)
	require.NoError(t, err)
	assert.Empty(t, out)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "#version 410\n"))
}

func TestCompileReportsUnsupportedVersions(t *testing.T) {
	path := writeSPIRV(t, "compute.spv", shaders.ComputeShader())
	out, stderr, err := run(t, "compile", "-V", "330", "-V", "430", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 compilations failed")
	assert.Contains(t, stderr, "UnsupportedVersion")
	assert.Contains(t, out, "#version 430")
}

func TestCompileFlags(t *testing.T) {
	path := writeSPIRV(t, "simple.spv", shaders.SimpleVert())
	out, _, err := run(t, "compile", "-V", "330", "--plain-uniforms", "--header", "// one", "--header", "// two", path)
	require.NoError(t, err)
	lines := strings.Split(out, "\n")
	assert.Equal(t, []string{"#version 330", "// one", "// two"}, lines[:3])
	assert.Contains(t, out, "uniform uniform_buffer_object _22;")
}

func TestCompileWithProfile(t *testing.T) {
	profile := filepath.Join(t.TempDir(), "profile.toml")
	require.NoError(t, os.WriteFile(profile, []byte("versions = [\"410\"]\nheader = [\"// profile\"]\n"), 0o600))
	path := writeSPIRV(t, "simple.spv", shaders.SimpleVert())

	out, _, err := run(t, "--config", profile, "compile", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "#version 410\n// profile\n"), out)

	// Flags override the profile.
	out, _, err = run(t, "--config", profile, "compile", "-V", "330", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "#version 330\n// profile\n"), out)
}

func TestCompileSelectsEntryPoint(t *testing.T) {
	path := writeSPIRV(t, "two.spv", shaders.TwoEntries())

	out, _, err := run(t, "compile", "-V", "300 es", "--stage", "fragment", path)
	require.NoError(t, err)
	assert.Contains(t, out, "precision mediump float;")

	out, _, err = run(t, "compile", "-V", "300 es", "--entry", "vs_main", path)
	require.NoError(t, err)
	assert.NotContains(t, out, "precision ")

	_, _, err = run(t, "compile", "--entry", "missing", path)
	assert.True(t, diag.IsKind(err, diag.InvalidResource), "got %v", err)

	_, _, err = run(t, "compile", "--stage", "geometry", path)
	assert.ErrorContains(t, err, "unknown stage")
}

func TestCompileErrors(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.spv")
	require.NoError(t, os.WriteFile(bad, []byte("not a shader"), 0o600))

	_, _, err := run(t, "compile", bad)
	assert.True(t, diag.IsKind(err, diag.FormatError), "got %v", err)

	_, _, err = run(t, "compile", "-V", "335", bad)
	assert.True(t, diag.IsKind(err, diag.UnsupportedVersion), "got %v", err)

	_, _, err = run(t, "compile", filepath.Join(t.TempDir(), "missing.spv"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, _, err = run(t, "compile")
	assert.Error(t, err)

	path := writeSPIRV(t, "simple.spv", shaders.SimpleVert())
	_, _, err = run(t, "compile", "--flatten", "missing", path)
	assert.True(t, diag.IsKind(err, diag.InvalidResource), "got %v", err)

	_, _, err = run(t, "--color", "sometimes", "compile", path)
	assert.ErrorContains(t, err, "invalid --color")
}

// =============================================================================
// reflect
// =============================================================================

func TestReflectJSON(t *testing.T) {
	path := writeSPIRV(t, "simple.spv", shaders.SimpleVert())
	out, _, err := run(t, "reflect", path)
	require.NoError(t, err)

	var r report
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	require.Len(t, r.EntryPoints, 1)
	assert.Equal(t, "main", r.EntryPoints[0].Name)
	assert.Equal(t, "Vertex", r.EntryPoints[0].Stage)
	require.Len(t, r.Resources.UniformBuffers, 1)
	assert.EqualValues(t, 22, r.Resources.UniformBuffers[0].ID)
}

func TestReflectFormatsAgree(t *testing.T) {
	path := writeSPIRV(t, "sampler.spv", shaders.SamplerFrag())

	jsonOut, _, err := run(t, "reflect", "--format", "json", path)
	require.NoError(t, err)
	var fromJSON report
	require.NoError(t, json.Unmarshal([]byte(jsonOut), &fromJSON))

	yamlOut, _, err := run(t, "reflect", "--format", "yaml", path)
	require.NoError(t, err)
	var fromYAML report
	require.NoError(t, yaml.Unmarshal([]byte(yamlOut), &fromYAML))

	packed, _, err := run(t, "reflect", "-f", "msgpack", path)
	require.NoError(t, err)
	var fromMsgpack report
	require.NoError(t, msgpack.Unmarshal([]byte(packed), &fromMsgpack))

	for _, other := range []report{fromYAML, fromMsgpack} {
		assert.Equal(t, fromJSON.EntryPoints, other.EntryPoints)
		assert.Equal(t, fromJSON.CombinedImages, other.CombinedImages)
		for i, list := range resourceLists(fromJSON) {
			assert.ElementsMatch(t, list, resourceLists(other)[i])
		}
	}
	require.Len(t, fromJSON.CombinedImages, 1)
	assert.EqualValues(t, 12, fromJSON.CombinedImages[0].Image)
	assert.EqualValues(t, 16, fromJSON.CombinedImages[0].Sampler)
	assert.EqualValues(t, 26, fromJSON.CombinedImages[0].Combined)
}

func resourceLists(r report) [][]reflection.Resource {
	res := r.Resources
	return [][]reflection.Resource{
		res.UniformBuffers, res.StorageBuffers, res.StageInputs, res.StageOutputs,
		res.SubpassInputs, res.StorageImages, res.SampledImages, res.AtomicCounters,
		res.PushConstantBuffers, res.SeparateImages, res.SeparateSamplers,
	}
}

func TestReflectComputeWorkGroupSize(t *testing.T) {
	path := writeSPIRV(t, "compute.spv", shaders.ComputeShader())
	out, _, err := run(t, "reflect", path)
	require.NoError(t, err)
	var r report
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	require.Len(t, r.EntryPoints, 1)
	assert.Equal(t, [3]uint32{64, 1, 1}, r.EntryPoints[0].WorkGroupSize)
	assert.Len(t, r.Resources.StorageBuffers, 1)
}

func TestReflectUnknownFormat(t *testing.T) {
	path := writeSPIRV(t, "simple.spv", shaders.SimpleVert())
	_, _, err := run(t, "reflect", "--format", "xml", path)
	assert.ErrorContains(t, err, "unknown format")
}

// =============================================================================
// disasm and versions
// =============================================================================

func TestDisasm(t *testing.T) {
	path := writeSPIRV(t, "simple.spv", shaders.SimpleVert())
	out, _, err := run(t, "disasm", path)
	require.NoError(t, err)
	assert.Contains(t, out, "OpEntryPoint")
	assert.Contains(t, out, "OpFunctionEnd")
}

func TestVersions(t *testing.T) {
	out, _, err := run(t, "versions")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 17)
	assert.Equal(t, "110", lines[0])
	assert.Contains(t, lines, "300 es")
	assert.Contains(t, lines, "100")
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, configureColor("off", &buf))
	printError(&buf, diag.New(diag.ParseError, "bad block"))
	assert.Equal(t, "error: ParseError: bad block\n", buf.String())
}

// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package snapshot_test holds golden snapshot tests for the GLSL output.
//
// Each case decompiles one fixture from internal/shaders with one set of
// options and compares the result with testdata/golden/<case>.glsl.
//
// To regenerate golden files after intentional changes:
//
//	UPDATE_GOLDEN=1 go test ./snapshot/...
package snapshot_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/spirvcross/glsl"
	"github.com/gogpu/spirvcross/internal/shaders"
	"github.com/gogpu/spirvcross/spirv"
)

// ---------------------------------------------------------------------------
// Test Runner
// ---------------------------------------------------------------------------

// snapshotCase is one fixture compiled with one configuration.
type snapshotCase struct {
	name    string // golden file name without extension
	words   func() []uint32
	options func(*glsl.CompilerOptions)
	prepare glsl.Prepare
}

var cases = []snapshotCase{
	{
		name:  "simple_vert.460",
		words: shaders.SimpleVert,
		options: func(o *glsl.CompilerOptions) {
			o.Version = glsl.Version460
			o.Enable420PackExtension = true
		},
	},
	{
		name:  "sampler_frag.300es.lowp",
		words: shaders.SamplerFrag,
		options: func(o *glsl.CompilerOptions) {
			o.Version = glsl.VersionES300
			o.Fragment.DefaultFloatPrecision = glsl.PrecisionLow
			o.Fragment.DefaultIntPrecision = glsl.PrecisionLow
		},
	},
	{
		name:  "two_ubo_vert.330.flatten",
		words: shaders.TwoUBOVert,
		options: func(o *glsl.CompilerOptions) {
			o.Version = glsl.Version330
			o.EmitUniformBufferAsPlainUniforms = true
		},
		prepare: flattenAll,
	},
	{
		name:  "initialization_vert.450",
		words: shaders.InitializationVert,
	},
	{
		name:  "initialization_vert.450.zero",
		words: shaders.InitializationVert,
		options: func(o *glsl.CompilerOptions) {
			o.ForceZeroInitializedVariables = true
		},
	},
}

// TestSnapshots compiles every case and compares it with its golden file.
func TestSnapshots(t *testing.T) {
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			code := compileGLSL(t, c)
			compareGolden(t, filepath.Join("testdata", "golden", c.name+".glsl"), code)
		})
	}
}

// TestGoldenFilesHaveCases keeps testdata free of stale snapshots.
func TestGoldenFilesHaveCases(t *testing.T) {
	entries, err := os.ReadDir(filepath.Join("testdata", "golden"))
	if err != nil {
		t.Fatalf("read golden directory: %v", err)
	}
	known := make(map[string]bool, len(cases))
	for _, c := range cases {
		known[c.name+".glsl"] = true
	}
	for _, entry := range entries {
		if !known[entry.Name()] {
			t.Errorf("golden file %s has no snapshot case", entry.Name())
		}
	}
}

// ---------------------------------------------------------------------------
// Compilation Helpers
// ---------------------------------------------------------------------------

// compileGLSL decompiles the fixture of c with its options.
func compileGLSL(t *testing.T, c snapshotCase) string {
	t.Helper()

	m, err := spirv.FromWords(c.words())
	if err != nil {
		t.Fatalf("[%s] load failed: %v", c.name, err)
	}
	ast, err := glsl.Parse(m)
	if err != nil {
		t.Fatalf("[%s] parse failed: %v", c.name, err)
	}
	if c.prepare != nil {
		if err := c.prepare(ast); err != nil {
			t.Fatalf("[%s] prepare failed: %v", c.name, err)
		}
	}
	opts := glsl.DefaultOptions()
	if c.options != nil {
		c.options(&opts)
	}
	if err := ast.SetCompilerOptions(opts); err != nil {
		t.Fatalf("[%s] options rejected: %v", c.name, err)
	}
	code, err := ast.Compile()
	if err != nil {
		t.Fatalf("[%s] GLSL compile failed: %v", c.name, err)
	}
	return code
}

// flattenAll flattens every uniform buffer of the module.
func flattenAll(ast *glsl.Ast) error {
	res, err := ast.GetShaderResources()
	if err != nil {
		return err
	}
	for _, ubo := range res.UniformBuffers {
		if err := ast.FlattenBufferBlock(ubo.ID); err != nil {
			return err
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Golden File Comparison
// ---------------------------------------------------------------------------

// compareGolden compares actual output against a golden file.
// If UPDATE_GOLDEN is set, writes actual output as the new golden file.
func compareGolden(t *testing.T, path, actual string) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDEN") != "" {
		if mkErr := os.MkdirAll(filepath.Dir(path), 0o755); mkErr != nil {
			t.Fatalf("create golden dir: %v", mkErr)
		}
		if wErr := os.WriteFile(path, []byte(actual), 0o644); wErr != nil { //nolint:gosec // test fixtures
			t.Fatalf("write golden file: %v", wErr)
		}
		t.Logf("updated golden file: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		t.Fatalf("golden file missing: %s\nRun with UPDATE_GOLDEN=1 to create.\n\nActual output:\n%s", path, truncate(actual, 500))
	}
	if err != nil {
		t.Fatalf("read golden file %s: %v", path, err)
	}

	// Git may check golden files out with CRLF line endings.
	expectedStr := strings.ReplaceAll(string(expected), "\r\n", "\n")
	actualStr := strings.ReplaceAll(actual, "\r\n", "\n")

	if expectedStr != actualStr {
		t.Errorf("output differs from golden %s:\n%s", path, diffStrings(expectedStr, actualStr))
	}
}

// diffStrings reports the first differing line with some context.
func diffStrings(expected, actual string) string {
	expectedLines := strings.Split(expected, "\n")
	actualLines := strings.Split(actual, "\n")
	maxLines := max(len(expectedLines), len(actualLines))

	line := func(lines []string, i int) string {
		if i < len(lines) {
			return lines[i]
		}
		return ""
	}

	firstDiff := -1
	for i := range maxLines {
		if line(expectedLines, i) != line(actualLines, i) {
			firstDiff = i
			break
		}
	}
	if firstDiff < 0 {
		return "(no difference found)"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "first difference at line %d:\n", firstDiff+1)
	fmt.Fprintf(&sb, "  expected lines: %d\n", len(expectedLines))
	fmt.Fprintf(&sb, "  actual lines:   %d\n\n", len(actualLines))

	const contextLines = 3
	for i := max(firstDiff-contextLines, 0); i < min(firstDiff+contextLines+1, maxLines); i++ {
		e, a := line(expectedLines, i), line(actualLines, i)
		prefix := " "
		if e != a {
			prefix = "!"
		}
		fmt.Fprintf(&sb, "%s %4d expected: %s\n", prefix, i+1, truncate(e, 120))
		if e != a {
			fmt.Fprintf(&sb, "%s %4d actual:   %s\n", prefix, i+1, truncate(a, 120))
		}
	}
	return sb.String()
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

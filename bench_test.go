// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spirvcross_test

import (
	"context"
	"runtime"
	"testing"

	"github.com/gogpu/spirvcross/glsl"
	"github.com/gogpu/spirvcross/internal/shaders"
	"github.com/gogpu/spirvcross/spirv"
)

// ---------------------------------------------------------------------------
// Fixtures grouped by shape
// ---------------------------------------------------------------------------

type shaderCase struct {
	name  string
	words []uint32
}

var benchShaders = []shaderCase{
	{"simple_vertex", shaders.SimpleVert()},
	{"struct_vertex", shaders.StructVert()},
	{"sampler_fragment", shaders.SamplerFrag()},
	{"loop_fragment", shaders.LoopFrag()},
	{"switch_fragment", shaders.SwitchFrag()},
	{"compute", shaders.ComputeShader()},
}

func mustModule(b *testing.B, words []uint32) *spirv.Module {
	b.Helper()
	m, err := spirv.FromWords(words)
	if err != nil {
		b.Fatalf("load failed: %v", err)
	}
	return m
}

// ---------------------------------------------------------------------------
// Stage benchmarks
// ---------------------------------------------------------------------------

// BenchmarkLoad measures header validation and the word copy.
func BenchmarkLoad(b *testing.B) {
	for _, sc := range benchShaders {
		b.Run(sc.name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(sc.words) * 4))
			var m *spirv.Module
			for b.Loop() {
				m = mustModule(b, sc.words)
			}
			runtime.KeepAlive(m)
		})
	}
}

// BenchmarkParse measures building the IR from a loaded module.
func BenchmarkParse(b *testing.B) {
	for _, sc := range benchShaders {
		b.Run(sc.name, func(b *testing.B) {
			m := mustModule(b, sc.words)
			b.ReportAllocs()
			b.SetBytes(int64(len(sc.words) * 4))
			var ast *glsl.Ast
			for b.Loop() {
				var err error
				if ast, err = glsl.Parse(m); err != nil {
					b.Fatalf("parse failed: %v", err)
				}
			}
			runtime.KeepAlive(ast)
		})
	}
}

// BenchmarkCompile measures GLSL generation on an already parsed Ast.
func BenchmarkCompile(b *testing.B) {
	for _, sc := range benchShaders {
		b.Run(sc.name, func(b *testing.B) {
			ast, err := glsl.Parse(mustModule(b, sc.words))
			if err != nil {
				b.Fatalf("parse failed: %v", err)
			}
			b.ReportAllocs()
			var src string
			for b.Loop() {
				if src, err = ast.Compile(); err != nil {
					b.Fatalf("compile failed: %v", err)
				}
			}
			runtime.KeepAlive(src)
		})
	}
}

// ---------------------------------------------------------------------------
// Full pipeline benchmarks
// ---------------------------------------------------------------------------

// BenchmarkFullPipeline measures load, parse and compile together.
func BenchmarkFullPipeline(b *testing.B) {
	for _, sc := range benchShaders {
		b.Run(sc.name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(sc.words) * 4))
			var src string
			for b.Loop() {
				ast, err := glsl.Parse(mustModule(b, sc.words))
				if err != nil {
					b.Fatalf("parse failed: %v", err)
				}
				if src, err = ast.Compile(); err != nil {
					b.Fatalf("compile failed: %v", err)
				}
			}
			runtime.KeepAlive(src)
		})
	}
}

// BenchmarkCompileVersions measures the concurrent fan-out over every
// supported version.
func BenchmarkCompileVersions(b *testing.B) {
	m := mustModule(b, shaders.SimpleVert())
	versions := glsl.Versions()
	ctx := context.Background()
	b.ReportAllocs()
	var results []glsl.Result
	for b.Loop() {
		var err error
		if results, err = glsl.CompileVersions(ctx, m, glsl.DefaultOptions(), nil, versions...); err != nil {
			b.Fatalf("compile failed: %v", err)
		}
	}
	runtime.KeepAlive(results)
}

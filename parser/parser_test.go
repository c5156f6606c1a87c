// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/spirvcross/diag"
	"github.com/gogpu/spirvcross/internal/shaders"
	"github.com/gogpu/spirvcross/ir"
	"github.com/gogpu/spirvcross/parser"
	"github.com/gogpu/spirvcross/spirv"
)

func parse(t *testing.T, words []uint32) (*ir.Module, error) {
	t.Helper()
	m, err := spirv.FromWords(words)
	require.NoError(t, err)
	return parser.Parse(m)
}

func mustParse(t *testing.T, words []uint32) *ir.Module {
	t.Helper()
	m, err := parse(t, words)
	require.NoError(t, err)
	return m
}

func entry(t *testing.T, m *ir.Module) *ir.Function {
	t.Helper()
	require.NotEmpty(t, m.EntryPoints)
	f := m.Function(m.EntryPoints[0].Function)
	require.NotNil(t, f)
	return f
}

// count returns how many statements of f's body satisfy match.
func count(f *ir.Function, match func(ir.StatementKind) bool) int {
	n := 0
	ir.WalkStatements(f.Body, func(s ir.Statement) {
		if match(s.Kind) {
			n++
		}
	})
	return n
}

func TestParseNamesAndDecorations(t *testing.T) {
	m := mustParse(t, shaders.SimpleVert())

	require.Len(t, m.EntryPoints, 1)
	ep := m.EntryPoints[0]
	assert.Equal(t, "main", ep.Name)
	assert.Equal(t, spirv.ExecutionModelVertex, ep.Model)

	// OpName with an empty string leaves the block instance unnamed.
	assert.Empty(t, m.Name(22))
	v := m.Variable(22)
	require.NotNil(t, v)
	assert.Equal(t, spirv.StorageClassUniform, v.Storage)

	block := m.Pointee(v.Type)
	assert.Equal(t, "uniform_buffer_object", m.Name(block))
	assert.Equal(t, "u_scale", m.MemberName(block, 1))
	assert.True(t, m.IsBlock(block))
	assert.Equal(t, uint32(64), m.MemberOffset(block, 1))
}

func TestParseLoopWithPhis(t *testing.T) {
	f := entry(t, mustParse(t, shaders.LoopFrag()))
	assert.Len(t, f.Phis, 2)
	assert.Equal(t, 1, count(f, func(k ir.StatementKind) bool {
		_, ok := k.(ir.StmtLoop)
		return ok
	}))
	// One set of copies on entry and one on the back edge.
	assert.GreaterOrEqual(t, count(f, func(k ir.StatementKind) bool {
		_, ok := k.(ir.StmtPhiStores)
		return ok
	}), 2)
}

func TestParseSwitch(t *testing.T) {
	f := entry(t, mustParse(t, shaders.SwitchFrag()))
	var sw *ir.StmtSwitch
	ir.WalkStatements(f.Body, func(s ir.Statement) {
		if k, ok := s.Kind.(ir.StmtSwitch); ok {
			sw = &k
		}
	})
	require.NotNil(t, sw)
	require.Len(t, sw.Cases, 3)

	var values []uint64
	defaults := 0
	for _, c := range sw.Cases {
		values = append(values, c.Values...)
		if c.Default {
			defaults++
		}
	}
	assert.ElementsMatch(t, []uint64{0, 1}, values)
	assert.Equal(t, 1, defaults)
}

func TestParseSelection(t *testing.T) {
	f := entry(t, mustParse(t, shaders.InitializationVert()))
	assert.Len(t, f.Locals, 1)
	assert.Equal(t, 1, count(f, func(k ir.StatementKind) bool {
		_, ok := k.(ir.StmtIf)
		return ok
	}))
}

func TestParseCompute(t *testing.T) {
	m := mustParse(t, shaders.ComputeShader())
	ep := m.EntryPoints[0]
	size, ok := ep.Mode(spirv.ExecutionModeLocalSize)
	require.True(t, ok)
	assert.Equal(t, []uint32{64, 1, 1}, size)

	f := entry(t, m)
	assert.Equal(t, 1, count(f, func(k ir.StatementKind) bool {
		b, ok := k.(ir.StmtBarrier)
		return ok && b.Control && b.Execution == spirv.ScopeWorkgroup
	}))
}

func TestParseCalls(t *testing.T) {
	m := mustParse(t, shaders.CallFrag())
	assert.Contains(t, m.Extensions, "SPV_KHR_non_semantic_info")

	f := entry(t, m)
	require.Len(t, f.Calls, 1)
	callee := m.Function(f.Calls[0])
	require.NotNil(t, callee)
	assert.Len(t, callee.Params, 2)
	assert.Empty(t, callee.Calls)
	assert.Equal(t, 1, count(f, func(k ir.StatementKind) bool {
		_, ok := k.(ir.StmtKill)
		return ok
	}))
}

func TestParseNestedLoops(t *testing.T) {
	f := entry(t, mustParse(t, shaders.NestedLoopFrag()))
	assert.Equal(t, 2, count(f, func(k ir.StatementKind) bool {
		_, ok := k.(ir.StmtLoop)
		return ok
	}))
	assert.GreaterOrEqual(t, count(f, func(k ir.StatementKind) bool {
		_, ok := k.(ir.StmtContinue)
		return ok
	}), 1)
	assert.Len(t, f.Phis, 1)
}

func TestParseSwitchFallthrough(t *testing.T) {
	f := entry(t, mustParse(t, shaders.FallthroughFrag()))
	var sw *ir.StmtSwitch
	ir.WalkStatements(f.Body, func(s ir.Statement) {
		if k, ok := s.Kind.(ir.StmtSwitch); ok {
			sw = &k
		}
	})
	require.NotNil(t, sw)

	falls := map[uint64]bool{}
	for _, c := range sw.Cases {
		for _, v := range c.Values {
			falls[v] = c.FallThrough
		}
	}
	assert.Equal(t, map[uint64]bool{0: true, 1: false, 2: false}, falls)
}

func TestParseErrors(t *testing.T) {
	noEntry := func() []uint32 {
		b := spirv.NewModuleBuilder(spirv.Version1_0)
		b.AddCapability(spirv.CapabilityShader)
		b.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)
		b.AddTypeVoid()
		return b.Words()
	}
	geometry := func() []uint32 {
		b := spirv.NewModuleBuilder(spirv.Version1_0)
		b.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)
		void := b.AddTypeVoid()
		fn := b.AddFunction(b.AddTypeFunction(void), void, spirv.FunctionControlNone)
		b.AddLabel()
		b.AddReturn()
		b.AddFunctionEnd()
		b.AddEntryPoint(spirv.ExecutionModelGeometry, fn, "main", nil)
		return b.Words()
	}

	// fragment wraps body in the entry point of a fragment shader.
	fragment := func(body func(b *spirv.ModuleBuilder, float uint32)) []uint32 {
		b := spirv.NewModuleBuilder(spirv.Version1_0)
		b.AddCapability(spirv.CapabilityShader)
		b.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)
		void := b.AddTypeVoid()
		float := b.AddTypeFloat(32)
		fn := b.AddFunction(b.AddTypeFunction(void), void, spirv.FunctionControlNone)
		b.AddLabel()
		body(b, float)
		b.AddReturn()
		b.AddFunctionEnd()
		b.AddEntryPoint(spirv.ExecutionModelFragment, fn, "main", nil)
		b.AddExecutionMode(fn, spirv.ExecutionModeOriginUpperLeft)
		return b.Words()
	}
	outOfBound := func() []uint32 {
		words := fragment(func(*spirv.ModuleBuilder, uint32) {})
		words[3] = 2
		return words
	}
	recursive := func() []uint32 {
		b := spirv.NewModuleBuilder(spirv.Version1_0)
		b.AddCapability(spirv.CapabilityShader)
		b.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)
		void := b.AddTypeVoid()
		fn := b.AddFunction(b.AddTypeFunction(void), void, spirv.FunctionControlNone)
		b.AddLabel()
		b.AddFunctionCall(void, fn)
		b.AddReturn()
		b.AddFunctionEnd()
		b.AddEntryPoint(spirv.ExecutionModelFragment, fn, "main", nil)
		return b.Words()
	}
	arity := func() []uint32 {
		b := spirv.NewModuleBuilder(spirv.Version1_0)
		b.AddCapability(spirv.CapabilityShader)
		b.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)
		void := b.AddTypeVoid()
		float := b.AddTypeFloat(32)
		helper := b.AddFunction(b.AddTypeFunction(void, float), void, spirv.FunctionControlNone)
		b.AddFunctionParameter(float)
		b.AddLabel()
		b.AddReturn()
		b.AddFunctionEnd()
		fn := b.AddFunction(b.AddTypeFunction(void), void, spirv.FunctionControlNone)
		b.AddLabel()
		b.AddFunctionCall(void, helper)
		b.AddReturn()
		b.AddFunctionEnd()
		b.AddEntryPoint(spirv.ExecutionModelFragment, fn, "main", nil)
		return b.Words()
	}

	tests := []struct {
		name  string
		words []uint32
		want  string
	}{
		{"irreducible", shaders.Irreducible(), "irreducible control flow"},
		{"unsupported instruction", shaders.Unsupported(), "unsupported instruction OpEmitVertex"},
		{"no entry point", noEntry(), "no entry point"},
		{"geometry", geometry(), "unsupported execution model Geometry"},
		{"forward operand", fragment(func(b *spirv.ModuleBuilder, float uint32) {
			later := b.AllocID()
			b.AddBinaryOp(spirv.OpFAdd, float, later, later)
		}), "used before it is defined"},
		{"undeclared type", fragment(func(b *spirv.ModuleBuilder, _ uint32) {
			b.AddConstant(b.AllocID(), 1)
		}), "is not a declared type"},
		{"self-referencing pointer", fragment(func(b *spirv.ModuleBuilder, _ uint32) {
			b.AddTypePointer(spirv.StorageClassFunction, b.NextID())
		}), "is not a declared type"},
		{"id outside bound", outOfBound(), "outside the id bound 2"},
		{"duplicate id", fragment(func(b *spirv.ModuleBuilder, float uint32) {
			one := b.AddConstantFloat32(float, 1)
			sum := b.AddBinaryOp(spirv.OpFAdd, float, one, one)
			b.SetNextID(sum)
			b.AddBinaryOp(spirv.OpFMul, float, one, one)
		}), "defined more than once"},
		{"member index", fragment(func(b *spirv.ModuleBuilder, float uint32) {
			st := b.AddTypeStruct(float)
			b.AddMemberName(st, 20000000, "far")
		}), "member 20000000 out of range"},
		{"member decoration index", fragment(func(b *spirv.ModuleBuilder, float uint32) {
			st := b.AddTypeStruct(float)
			b.AddMemberDecorate(st, 1, spirv.DecorationOffset, 4)
		}), "member 1 out of range"},
		{"use outside dominating block", fragment(func(b *spirv.ModuleBuilder, float uint32) {
			one := b.AddConstantFloat32(float, 1)
			cond := b.AddConstantBool(b.AddTypeBool(), true)
			then, merge := b.AllocID(), b.AllocID()
			b.AddSelectionMerge(merge, spirv.SelectionControlNone)
			b.AddBranchConditional(cond, then, merge)
			b.AddLabelID(then)
			sum := b.AddBinaryOp(spirv.OpFAdd, float, one, one)
			b.AddBranch(merge)
			b.AddLabelID(merge)
			b.AddBinaryOp(spirv.OpFMul, float, sum, one)
		}), "not defined in a dominating block"},
		{"recursion", recursive(), "is recursive"},
		{"call arity", arity(), "takes 1 arguments, got 0"},
		{"barrier scope from memory", fragment(func(b *spirv.ModuleBuilder, _ uint32) {
			u32 := b.AddTypeInt(32, false)
			local := b.AddLocalVariable(b.AddTypePointer(spirv.StorageClassFunction, u32))
			scope := b.AddLoad(u32, local)
			b.AddStatement(spirv.OpControlBarrier, scope, scope, scope)
		}), "is not a constant"},
		{"barrier scope from spec constant", fragment(func(b *spirv.ModuleBuilder, _ uint32) {
			scope := b.AddSpecConstant(b.AddTypeInt(32, false), 0, uint32(spirv.ScopeWorkgroup))
			b.AddStatement(spirv.OpMemoryBarrier, scope, scope)
		}), "is not a literal integer constant"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(t, tt.words)
			require.Error(t, err)
			assert.True(t, diag.IsKind(err, diag.ParseError), "got %v", err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

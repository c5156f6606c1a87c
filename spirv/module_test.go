// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spirv_test

import (
	"math/bits"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/spirvcross/diag"
	"github.com/gogpu/spirvcross/spirv"
)

func header(version uint32, bound uint32) []uint32 {
	return []uint32{spirv.MagicNumber, version, spirv.GeneratorID, bound, 0}
}

func TestFromWordsRejectsBadHeaders(t *testing.T) {
	tests := []struct {
		name  string
		words []uint32
	}{
		{"empty", nil},
		{"short", []uint32{spirv.MagicNumber, spirv.Version1_0.Word()}},
		{"magic", []uint32{0xDEADBEEF, spirv.Version1_0.Word(), 0, 1, 0}},
		{"version 2.0", header(2<<16, 1)},
		{"version 1.7", header(1<<16|7<<8, 1)},
		{"malformed version", header(1<<16|1, 1)},
		{"zero bound", header(spirv.Version1_0.Word(), 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := spirv.FromWords(tt.words)
			require.Error(t, err)
			assert.True(t, diag.IsKind(err, diag.FormatError), "got %v", err)
		})
	}
}

func TestFromWordsCopiesInput(t *testing.T) {
	words := header(spirv.Version1_5.Word(), 7)
	m, err := spirv.FromWords(words)
	require.NoError(t, err)
	words[3] = 99

	assert.Equal(t, uint32(7), m.Header().Bound)
	assert.Equal(t, uint32(7), m.Words()[3])
	assert.Equal(t, spirv.Version1_5, m.Header().Version)
	assert.Equal(t, spirv.HeaderWords, m.Len())
}

func TestFromWordsByteSwapped(t *testing.T) {
	b := spirv.NewModuleBuilder(spirv.Version1_3)
	b.AddCapability(spirv.CapabilityShader)
	b.AddTypeVoid()
	host := b.Words()
	swapped := make([]uint32, len(host))
	for i, w := range host {
		swapped[i] = bits.ReverseBytes32(w)
	}

	m, err := spirv.FromWords(swapped)
	require.NoError(t, err)
	assert.Equal(t, host, m.Words())
	assert.Equal(t, spirv.Version1_3, m.Header().Version)
}

func TestFromBytes(t *testing.T) {
	b := spirv.NewModuleBuilder(spirv.Version1_0)
	b.AddTypeBool()
	data := b.Build()

	m, err := spirv.FromBytes(data)
	require.NoError(t, err)
	assert.Equal(t, b.Words(), m.Words())

	_, err = spirv.FromBytes(data[:len(data)-1])
	assert.True(t, diag.IsKind(err, diag.FormatError))
}

func TestInstructionsRejectsTruncatedStream(t *testing.T) {
	words := append(header(spirv.Version1_0.Word(), 2), 3<<16|uint32(spirv.OpTypeInt), 1)
	m, err := spirv.FromWords(words)
	require.NoError(t, err)
	_, err = m.Instructions()
	assert.True(t, diag.IsKind(err, diag.ParseError))
	assert.Contains(t, spirv.Disassemble(m), "; ERROR:")

	words = append(header(spirv.Version1_0.Word(), 2), uint32(spirv.OpNop))
	m, err = spirv.FromWords(words)
	require.NoError(t, err)
	_, err = m.Instructions()
	assert.True(t, diag.IsKind(err, diag.ParseError))
}

func TestOpcodeName(t *testing.T) {
	assert.Equal(t, "OpLoad", spirv.OpcodeName(spirv.OpLoad))
	assert.Equal(t, "Op65000", spirv.OpcodeName(spirv.OpCode(65000)))

	hasType, hasResult := spirv.HasResult(spirv.OpLoad)
	assert.True(t, hasType)
	assert.True(t, hasResult)
	hasType, hasResult = spirv.HasResult(spirv.OpStore)
	assert.False(t, hasType)
	assert.False(t, hasResult)
}

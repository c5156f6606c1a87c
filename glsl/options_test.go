// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/spirvcross/diag"
	"github.com/gogpu/spirvcross/glsl"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in   string
		want glsl.Version
	}{
		{"330", glsl.Version330},
		{"110", glsl.Version110},
		{"460", glsl.Version460},
		{"100", glsl.VersionES100},
		{"300 es", glsl.VersionES300},
		{"300es", glsl.VersionES300},
		{" 310 ES ", glsl.VersionES310},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := glsl.ParseVersion(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseVersionErrors(t *testing.T) {
	for _, in := range []string{"", "abc", "99", "1000", "310", "450 es", "335"} {
		t.Run(in, func(t *testing.T) {
			_, err := glsl.ParseVersion(in)
			assert.True(t, diag.IsKind(err, diag.UnsupportedVersion), "got %v", err)
		})
	}
}

func TestVersionString(t *testing.T) {
	assert.Equal(t, "330", glsl.Version330.String())
	assert.Equal(t, "100", glsl.VersionES100.String())
	assert.Equal(t, "300 es", glsl.VersionES300.String())
	assert.Equal(t, 450, glsl.Version450.Number())
}

func TestVersionText(t *testing.T) {
	for _, v := range glsl.Versions() {
		text, err := v.MarshalText()
		require.NoError(t, err)
		var back glsl.Version
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, v, back)
	}
	var v glsl.Version
	assert.Error(t, v.UnmarshalText([]byte("9000")))
}

func TestVersionsAreSupported(t *testing.T) {
	versions := glsl.Versions()
	assert.Len(t, versions, 17)
	for _, v := range versions {
		assert.True(t, v.Supported(), v.String())
	}
	assert.False(t, glsl.Version{Major: 3, Minor: 35}.Supported())

	// The returned slice is a copy.
	versions[0] = glsl.Version{}
	assert.Equal(t, glsl.Version110, glsl.Versions()[0])
}

func TestPrecisionText(t *testing.T) {
	tests := []struct {
		in   string
		want glsl.Precision
	}{
		{"lowp", glsl.PrecisionLow},
		{"low", glsl.PrecisionLow},
		{"Medium", glsl.PrecisionMedium},
		{"highp", glsl.PrecisionHigh},
	}
	for _, tt := range tests {
		var p glsl.Precision
		require.NoError(t, p.UnmarshalText([]byte(tt.in)))
		assert.Equal(t, tt.want, p)
	}
	var p glsl.Precision
	assert.Error(t, p.UnmarshalText([]byte("ultra")))

	text, err := glsl.PrecisionMedium.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "mediump", string(text))
}

func TestDefaultOptions(t *testing.T) {
	opts := glsl.DefaultOptions()
	assert.Equal(t, glsl.Version450, opts.Version)
	assert.Equal(t, glsl.PrecisionMedium, opts.Fragment.DefaultFloatPrecision)
	assert.Equal(t, glsl.PrecisionHigh, opts.Fragment.DefaultIntPrecision)
	assert.False(t, opts.Enable420PackExtension)
}

// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/spirvcross/diag"
)

// Version represents a GLSL version.
type Version struct {
	Major uint8
	Minor uint8
	ES    bool // true for GLSL ES (OpenGL ES / WebGL)
}

// Supported GLSL versions.
var (
	// Desktop OpenGL versions
	Version110 = Version{Major: 1, Minor: 10} // OpenGL 2.0
	Version120 = Version{Major: 1, Minor: 20} // OpenGL 2.1
	Version130 = Version{Major: 1, Minor: 30} // OpenGL 3.0
	Version140 = Version{Major: 1, Minor: 40} // OpenGL 3.1 (uniform blocks)
	Version150 = Version{Major: 1, Minor: 50} // OpenGL 3.2
	Version330 = Version{Major: 3, Minor: 30} // OpenGL 3.3 Core
	Version400 = Version{Major: 4, Minor: 0}  // OpenGL 4.0
	Version410 = Version{Major: 4, Minor: 10} // OpenGL 4.1
	Version420 = Version{Major: 4, Minor: 20} // OpenGL 4.2
	Version430 = Version{Major: 4, Minor: 30} // OpenGL 4.3 (compute shaders)
	Version440 = Version{Major: 4, Minor: 40} // OpenGL 4.4
	Version450 = Version{Major: 4, Minor: 50} // OpenGL 4.5
	Version460 = Version{Major: 4, Minor: 60} // OpenGL 4.6

	// OpenGL ES / WebGL versions
	VersionES100 = Version{Major: 1, Minor: 0, ES: true}  // ES 2.0 / WebGL 1.0
	VersionES300 = Version{Major: 3, Minor: 0, ES: true}  // ES 3.0 / WebGL 2.0
	VersionES310 = Version{Major: 3, Minor: 10, ES: true} // ES 3.1 (compute shaders)
	VersionES320 = Version{Major: 3, Minor: 20, ES: true} // ES 3.2
)

var supportedVersions = []Version{
	Version110, Version120, Version130, Version140, Version150, Version330,
	Version400, Version410, Version420, Version430, Version440, Version450, Version460,
	VersionES100, VersionES300, VersionES310, VersionES320,
}

// Versions returns every supported version, desktop versions first.
func Versions() []Version {
	out := make([]Version, len(supportedVersions))
	copy(out, supportedVersions)
	return out
}

// Supported reports whether v is one of the supported versions.
func (v Version) Supported() bool {
	for _, s := range supportedVersions {
		if s == v {
			return true
		}
	}
	return false
}

// String returns the version as written in the #version directive.
func (v Version) String() string {
	if v.ES && v.Number() >= 300 {
		return fmt.Sprintf("%d es", v.Number())
	}
	return strconv.Itoa(v.Number())
}

// Number returns the numeric version, 330 for GLSL 3.30.
func (v Version) Number() int {
	return int(v.Major)*100 + int(v.Minor)
}

// atLeast reports whether v reaches the desktop or ES requirement that
// applies to it. A zero requirement means the profile never supports the
// feature.
func (v Version) atLeast(desktop, es int) bool {
	if v.ES {
		return es != 0 && v.Number() >= es
	}
	return desktop != 0 && v.Number() >= desktop
}

// legacy reports whether v predates in/out qualifiers.
func (v Version) legacy() bool {
	return !v.atLeast(130, 300)
}

// supportsUniformBlocks reports whether interface blocks are available for
// uniforms.
func (v Version) supportsUniformBlocks() bool {
	return v.atLeast(140, 300)
}

// supportsBinding reports whether layout(binding = N) is core.
func (v Version) supportsBinding() bool {
	return v.atLeast(420, 310)
}

// ParseVersion parses "330", "300 es", "300es" or "100". Version 100 only
// exists for ES.
func ParseVersion(s string) (Version, error) {
	text := strings.ToLower(strings.TrimSpace(s))
	es := false
	if rest, ok := strings.CutSuffix(text, "es"); ok {
		es = true
		text = strings.TrimSpace(rest)
	}
	n, err := strconv.Atoi(text)
	if err != nil || n < 100 || n > 999 {
		return Version{}, diag.Errorf(diag.UnsupportedVersion, "malformed GLSL version %q", s)
	}
	if n == 100 {
		es = true
	}
	v := Version{Major: uint8(n / 100), Minor: uint8(n % 100), ES: es} //nolint:gosec // bounded above
	if !v.Supported() {
		return Version{}, diag.Errorf(diag.UnsupportedVersion, "unsupported GLSL version %s", v)
	}
	return v, nil
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := ParseVersion(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Precision is a GLSL ES precision qualifier.
type Precision uint8

const (
	PrecisionLow    Precision = iota // lowp
	PrecisionMedium                  // mediump
	PrecisionHigh                    // highp
)

// String returns the qualifier keyword.
func (p Precision) String() string {
	switch p {
	case PrecisionLow:
		return "lowp"
	case PrecisionMedium:
		return "mediump"
	case PrecisionHigh:
		return "highp"
	}
	return fmt.Sprintf("Precision(%d)", uint8(p))
}

// MarshalText implements encoding.TextMarshaler.
func (p Precision) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText accepts low, medium and high with or without the p
// suffix.
func (p *Precision) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "low", "lowp":
		*p = PrecisionLow
	case "medium", "mediump":
		*p = PrecisionMedium
	case "high", "highp":
		*p = PrecisionHigh
	default:
		return fmt.Errorf("unknown precision %q", text)
	}
	return nil
}

// VertexOptions apply to vertex shaders.
type VertexOptions struct {
	// InvertY negates gl_Position.y before every return.
	InvertY bool
	// TransformClipSpace remaps depth from [0, 1] to [-1, 1] before every
	// return.
	TransformClipSpace bool
}

// FragmentOptions apply to fragment shaders.
type FragmentOptions struct {
	// DefaultFloatPrecision is the precision statement for float on ES.
	DefaultFloatPrecision Precision
	// DefaultIntPrecision is the precision statement for int on ES.
	DefaultIntPrecision Precision
}

// CompilerOptions configures GLSL generation.
type CompilerOptions struct {
	// Version is the target GLSL version.
	Version Version

	// Enable420PackExtension lets desktop versions below 4.20 use binding
	// layouts through GL_ARB_shading_language_420pack when available.
	Enable420PackExtension bool

	// EmitUniformBufferAsPlainUniforms declares uniform blocks as struct
	// uniforms even when the version has interface blocks.
	EmitUniformBufferAsPlainUniforms bool

	// EmitPushConstantAsUniformBuffer declares push constants as std140
	// uniform blocks instead of struct uniforms.
	EmitPushConstantAsUniformBuffer bool

	// ForceZeroInitializedVariables initializes function and private
	// variables that have no initializer.
	ForceZeroInitializedVariables bool

	Vertex   VertexOptions
	Fragment FragmentOptions
}

// DefaultOptions returns the options an Ast starts with.
func DefaultOptions() CompilerOptions {
	return CompilerOptions{
		Version: Version450,
		Fragment: FragmentOptions{
			DefaultFloatPrecision: PrecisionMedium,
			DefaultIntPrecision:   PrecisionHigh,
		},
	}
}

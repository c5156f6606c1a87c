// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package config loads compile profiles for the spvcross command. A profile
// is a TOML or YAML file that selects GLSL versions and compiler options
// and lists the uniform buffers to flatten.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/spirvcross/diag"
	"github.com/gogpu/spirvcross/glsl"
)

// Format is the encoding of a profile file.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%s: unknown profile format, want .toml, .yaml or .yml", path)
}

// Profile is a decoded profile file. Empty fields keep the defaults of
// glsl.DefaultOptions.
type Profile struct {
	// Version is a single target such as "330" or "300 es".
	Version string `toml:"version" yaml:"version"`
	// Versions lists several targets. It takes precedence over Version.
	Versions []string `toml:"versions" yaml:"versions"`

	Enable420Pack         bool `toml:"enable_420pack" yaml:"enable_420pack"`
	PlainUniforms         bool `toml:"plain_uniforms" yaml:"plain_uniforms"`
	PushConstantAsUniform bool `toml:"push_constant_as_uniform" yaml:"push_constant_as_uniform"`
	ZeroInitialize        bool `toml:"zero_initialize" yaml:"zero_initialize"`

	Vertex struct {
		InvertY            bool `toml:"invert_y" yaml:"invert_y"`
		TransformClipSpace bool `toml:"transform_clip_space" yaml:"transform_clip_space"`
	} `toml:"vertex" yaml:"vertex"`

	Fragment struct {
		FloatPrecision string `toml:"float_precision" yaml:"float_precision"`
		IntPrecision   string `toml:"int_precision" yaml:"int_precision"`
	} `toml:"fragment" yaml:"fragment"`

	// Header lines are added after the #version directive.
	Header []string `toml:"header" yaml:"header"`
	// Flatten names uniform buffers to emit as vec4 arrays.
	Flatten []string `toml:"flatten" yaml:"flatten"`
}

// Load reads the profile at path.
func Load(path string) (*Profile, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	p, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Decode reads a profile in the given format.
func Decode(r io.Reader, format Format) (*Profile, error) {
	p := &Profile{}
	switch format {
	case FormatTOML:
		meta, err := toml.NewDecoder(r).Decode(p)
		if err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown key %q", undecoded[0].String())
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(p); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown profile format %q", format)
	}
	if _, err := p.Options(); err != nil {
		return nil, err
	}
	if _, err := p.TargetVersions(); err != nil {
		return nil, err
	}
	return p, nil
}

// Options returns the compiler options of the profile. The version is the
// first target version.
func (p *Profile) Options() (glsl.CompilerOptions, error) {
	opts := glsl.DefaultOptions()
	versions, err := p.TargetVersions()
	if err != nil {
		return opts, err
	}
	opts.Version = versions[0]
	opts.Enable420PackExtension = p.Enable420Pack
	opts.EmitUniformBufferAsPlainUniforms = p.PlainUniforms
	opts.EmitPushConstantAsUniformBuffer = p.PushConstantAsUniform
	opts.ForceZeroInitializedVariables = p.ZeroInitialize
	opts.Vertex.InvertY = p.Vertex.InvertY
	opts.Vertex.TransformClipSpace = p.Vertex.TransformClipSpace
	if s := p.Fragment.FloatPrecision; s != "" {
		if err := opts.Fragment.DefaultFloatPrecision.UnmarshalText([]byte(s)); err != nil {
			return opts, fmt.Errorf("fragment.float_precision: %w", err)
		}
	}
	if s := p.Fragment.IntPrecision; s != "" {
		if err := opts.Fragment.DefaultIntPrecision.UnmarshalText([]byte(s)); err != nil {
			return opts, fmt.Errorf("fragment.int_precision: %w", err)
		}
	}
	return opts, nil
}

// TargetVersions returns the versions the profile compiles for, never
// empty.
func (p *Profile) TargetVersions() ([]glsl.Version, error) {
	texts := p.Versions
	if len(texts) == 0 && p.Version != "" {
		texts = []string{p.Version}
	}
	if len(texts) == 0 {
		return []glsl.Version{glsl.DefaultOptions().Version}, nil
	}
	out := make([]glsl.Version, 0, len(texts))
	for _, text := range texts {
		v, err := glsl.ParseVersion(text)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Prepare adds the header lines of the profile and flattens its buffers.
// It has the shape of glsl.Prepare.
func (p *Profile) Prepare(ast *glsl.Ast) error {
	for _, line := range p.Header {
		if err := ast.AddHeaderLine(line); err != nil {
			return err
		}
	}
	if len(p.Flatten) == 0 {
		return nil
	}
	res, err := ast.GetShaderResources()
	if err != nil {
		return err
	}
	for _, name := range p.Flatten {
		found := false
		for _, ubo := range res.UniformBuffers {
			if ubo.Name != name {
				continue
			}
			if err := ast.FlattenBufferBlock(ubo.ID); err != nil {
				return err
			}
			found = true
		}
		if !found {
			return diag.Errorf(diag.InvalidResource, "no uniform buffer named %q to flatten", name)
		}
	}
	return nil
}

// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import "testing"

func TestEscapeIdentifier(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"color", "color"},
		{"a__b", "a_b"},
		{"a____b", "a_b"},
		{"gl_Foo", "_gl_Foo"},
		{"gl__x", "_gl_x"},
		{"_x", "_x"},
	}
	for _, tt := range tests {
		if got := escapeIdentifier(tt.in); got != tt.want {
			t.Errorf("escapeIdentifier(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsKeyword(t *testing.T) {
	for _, name := range []string{"texture", "sampler2D", "main", "input", "atomicAdd"} {
		if !isKeyword(name) {
			t.Errorf("%q should be reserved", name)
		}
	}
	for _, name := range []string{"color", "ubo", "acc"} {
		if isKeyword(name) {
			t.Errorf("%q should not be reserved", name)
		}
	}
}

func TestVersionFeatures(t *testing.T) {
	tests := []struct {
		v                        Version
		legacy, blocks, bindings bool
	}{
		{Version110, true, false, false},
		{Version130, false, false, false},
		{Version140, false, true, false},
		{Version420, false, true, true},
		{VersionES100, true, false, false},
		{VersionES300, false, true, false},
		{VersionES310, false, true, true},
	}
	for _, tt := range tests {
		if got := tt.v.legacy(); got != tt.legacy {
			t.Errorf("%s legacy = %v", tt.v, got)
		}
		if got := tt.v.supportsUniformBlocks(); got != tt.blocks {
			t.Errorf("%s uniform blocks = %v", tt.v, got)
		}
		if got := tt.v.supportsBinding(); got != tt.bindings {
			t.Errorf("%s binding = %v", tt.v, got)
		}
	}
}

// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package transform holds the passes that rewrite a parsed module before
// code generation: combining separate images and samplers, flattening
// uniform buffers into vec4 arrays and renaming interface variables.
//
// Every pass validates its input before touching the module, so a failed
// pass leaves names and types as they were.
package transform

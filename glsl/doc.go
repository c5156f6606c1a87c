// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package glsl generates GLSL source from a parsed SPIR-V module.
//
// Every GLSL version from desktop 1.10 to 4.60 and GLSL ES 1.00 to 3.20 is
// supported. Features a version cannot express are rejected when options
// are applied, never while writing:
//
//	ast, err := glsl.Parse(module)
//	if err != nil {
//	    return err
//	}
//	opts := glsl.DefaultOptions()
//	opts.Version = glsl.VersionES300
//	if err := ast.SetCompilerOptions(opts); err != nil {
//	    return err // diag.UnsupportedVersion
//	}
//	source, err := ast.Compile()
//
// # Expressions
//
// Pure values used once are forwarded into their single use. Everything
// else is stored in a temporary named after its SPIR-V id (_N), so the
// output can be matched against a disassembly.
//
// # Reserved Words
//
// Debug names that collide with GLSL keywords get a numeric suffix. Names
// starting with the reserved gl_ prefix are prefixed with an underscore.
package glsl

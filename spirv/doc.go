// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package spirv loads and decodes SPIR-V binary modules.
//
// SPIR-V is the standard intermediate language for GPU shaders,
// used by Vulkan, OpenGL and other APIs.
//
// # Loading
//
// A Module is an immutable copy of the word stream. The header is checked
// before anything else is decoded:
//
//	m, err := spirv.FromWords(words)
//	if err != nil {
//		return err // diag.FormatError
//	}
//	insts, err := m.Instructions()
//
// # Binary Writer
//
// The package also provides a low-level binary writer for constructing
// SPIR-V modules programmatically using ModuleBuilder. It is used by the
// test fixtures and by tools that synthesize modules:
//
//	b := spirv.NewModuleBuilder(spirv.Version1_0)
//	b.AddCapability(spirv.CapabilityShader)
//	b.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)
//	// ... types, variables, functions
//	words := b.Words()
//
// # Disassembly
//
// Disassemble renders a module as spvasm-like text for debugging.
package spirv

// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package ir defines the intermediate representation of a parsed SPIR-V
// module.
//
// Every entity (type, constant, variable, function, parameter, expression)
// lives in one arena indexed by its SPIR-V result id. Ids allocated after
// parsing come from Module.Alloc and continue past the original bound, so
// an id is never reused.
//
// Function bodies are structured: the parser turns the control flow graph
// into nested If, Switch and Loop statements. Expressions are evaluated at
// the point of their Emit statement, which lets a backend decide whether to
// forward an expression into its single use or bake it into a temporary.
//
// Debug names and decorations are kept per id in Meta. Renaming goes
// through SetName and SetMemberName, which validate the identifier and
// resolve collisions deterministically.
package ir

// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package transform

import (
	"fmt"

	"github.com/gogpu/spirvcross/diag"
	"github.com/gogpu/spirvcross/ir"
	"github.com/gogpu/spirvcross/reflection"
	"github.com/gogpu/spirvcross/spirv"
)

// InterfaceStructName is the name given to a struct type used by a stage
// interface variable at location loc. Both stages of a pipeline derive the
// same name, so their flattened members match.
func InterfaceStructName(loc uint32) string {
	return fmt.Sprintf("SPIRV_Cross_Interface_Location%d", loc)
}

// InterfaceMemberName is the name given to member i of an interface
// struct.
func InterfaceMemberName(i int) string {
	return fmt.Sprintf("InterfaceMember%d", i)
}

// RenameInterfaceVariable renames the stage input or output at index of
// resources. Struct-typed variables with a location also get their type
// and members renamed after the location, so the emitted
// <name>_InterfaceMember<i> variables line up across stages.
func RenameInterfaceVariable(m *ir.Module, resources []reflection.Resource, index int, name string,
	reserved func(string) bool,
) error {
	if index < 0 || index >= len(resources) {
		return diag.Errorf(diag.IndexOutOfRange, "resource index %d out of range for %d resources", index, len(resources))
	}
	if err := ir.ValidateIdentifier(name); err != nil {
		return err
	}
	r := resources[index]
	switch reflection.Classify(m, r.ID) {
	case reflection.CategoryStageInput, reflection.CategoryStageOutput:
	default:
		return diag.Errorf(diag.InvalidResource, "resource %d (%q) is not a stage input or output", r.ID, r.Name)
	}

	v := m.Variable(r.ID)
	base := m.Pointee(v.Type)
	if st, ok := m.Inner(base).(ir.StructType); ok {
		if loc, ok := m.Decoration(r.ID, spirv.DecorationLocation); ok {
			if _, err := m.SetName(base, InterfaceStructName(loc), reserved); err != nil {
				return err
			}
			for i := range st.Members {
				if _, err := m.SetMemberName(base, uint32(i), InterfaceMemberName(i), reserved); err != nil { //nolint:gosec // member counts fit in uint32
					return err
				}
			}
		}
	}
	_, err := m.SetName(r.ID, name, reserved)
	return err
}

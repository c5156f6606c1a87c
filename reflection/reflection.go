// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package reflection classifies the global variables of a module into the
// resource categories a host API binds.
package reflection

import (
	"github.com/gogpu/spirvcross/ir"
	"github.com/gogpu/spirvcross/spirv"
)

// Resource is one shader interface variable.
type Resource struct {
	// ID is the variable.
	ID ir.ID `json:"id" yaml:"id" msgpack:"id"`
	// TypeID is the pointer type of the variable.
	TypeID ir.ID `json:"type_id" yaml:"type_id" msgpack:"type_id"`
	// BaseTypeID is the type the variable points to.
	BaseTypeID ir.ID `json:"base_type_id" yaml:"base_type_id" msgpack:"base_type_id"`
	// Name is the variable name, or the block type name for unnamed
	// blocks.
	Name string `json:"name" yaml:"name" msgpack:"name"`
}

// ShaderResources is a snapshot of the resources of a module. It does not
// follow later changes to the module.
type ShaderResources struct {
	UniformBuffers      []Resource `json:"uniform_buffers" yaml:"uniform_buffers" msgpack:"uniform_buffers"`
	StorageBuffers      []Resource `json:"storage_buffers" yaml:"storage_buffers" msgpack:"storage_buffers"`
	StageInputs         []Resource `json:"stage_inputs" yaml:"stage_inputs" msgpack:"stage_inputs"`
	StageOutputs        []Resource `json:"stage_outputs" yaml:"stage_outputs" msgpack:"stage_outputs"`
	SubpassInputs       []Resource `json:"subpass_inputs" yaml:"subpass_inputs" msgpack:"subpass_inputs"`
	StorageImages       []Resource `json:"storage_images" yaml:"storage_images" msgpack:"storage_images"`
	SampledImages       []Resource `json:"sampled_images" yaml:"sampled_images" msgpack:"sampled_images"`
	AtomicCounters      []Resource `json:"atomic_counters" yaml:"atomic_counters" msgpack:"atomic_counters"`
	PushConstantBuffers []Resource `json:"push_constant_buffers" yaml:"push_constant_buffers" msgpack:"push_constant_buffers"`
	SeparateImages      []Resource `json:"separate_images" yaml:"separate_images" msgpack:"separate_images"`
	SeparateSamplers    []Resource `json:"separate_samplers" yaml:"separate_samplers" msgpack:"separate_samplers"`
}

// Category names a ShaderResources list.
type Category uint8

const (
	CategoryNone Category = iota
	CategoryUniformBuffer
	CategoryStorageBuffer
	CategoryStageInput
	CategoryStageOutput
	CategorySubpassInput
	CategoryStorageImage
	CategorySampledImage
	CategoryAtomicCounter
	CategoryPushConstantBuffer
	CategorySeparateImage
	CategorySeparateSampler
)

// String returns the list name of a category.
func (c Category) String() string {
	switch c {
	case CategoryUniformBuffer:
		return "uniform_buffers"
	case CategoryStorageBuffer:
		return "storage_buffers"
	case CategoryStageInput:
		return "stage_inputs"
	case CategoryStageOutput:
		return "stage_outputs"
	case CategorySubpassInput:
		return "subpass_inputs"
	case CategoryStorageImage:
		return "storage_images"
	case CategorySampledImage:
		return "sampled_images"
	case CategoryAtomicCounter:
		return "atomic_counters"
	case CategoryPushConstantBuffer:
		return "push_constant_buffers"
	case CategorySeparateImage:
		return "separate_images"
	case CategorySeparateSampler:
		return "separate_samplers"
	}
	return "none"
}

// Resources classifies every global variable of m. Builtins and variables
// of no known category are left out. Each list keeps declaration order.
func Resources(m *ir.Module) ShaderResources {
	var res ShaderResources
	for _, id := range m.Globals {
		v := m.Variable(id)
		if v == nil {
			continue
		}
		r := Resource{ID: id, TypeID: v.Type, BaseTypeID: m.Pointee(v.Type), Name: resourceName(m, v)}
		if list := res.list(Classify(m, id)); list != nil {
			*list = append(*list, r)
		}
	}
	return res
}

func (res *ShaderResources) list(c Category) *[]Resource {
	switch c {
	case CategoryUniformBuffer:
		return &res.UniformBuffers
	case CategoryStorageBuffer:
		return &res.StorageBuffers
	case CategoryStageInput:
		return &res.StageInputs
	case CategoryStageOutput:
		return &res.StageOutputs
	case CategorySubpassInput:
		return &res.SubpassInputs
	case CategoryStorageImage:
		return &res.StorageImages
	case CategorySampledImage:
		return &res.SampledImages
	case CategoryAtomicCounter:
		return &res.AtomicCounters
	case CategoryPushConstantBuffer:
		return &res.PushConstantBuffers
	case CategorySeparateImage:
		return &res.SeparateImages
	case CategorySeparateSampler:
		return &res.SeparateSamplers
	}
	return nil
}

// Classify returns the category of global variable id.
func Classify(m *ir.Module, id ir.ID) Category {
	v := m.Variable(id)
	if v == nil || v.Function != 0 || isBuiltIn(m, v) {
		return CategoryNone
	}
	base := elementType(m, m.Pointee(v.Type))

	switch v.Storage {
	case spirv.StorageClassInput:
		return CategoryStageInput
	case spirv.StorageClassOutput:
		return CategoryStageOutput
	case spirv.StorageClassUniform:
		switch {
		case m.HasDecoration(base, spirv.DecorationBufferBlock):
			return CategoryStorageBuffer
		case m.HasDecoration(base, spirv.DecorationBlock):
			return CategoryUniformBuffer
		}
	case spirv.StorageClassStorageBuffer:
		return CategoryStorageBuffer
	case spirv.StorageClassPushConstant:
		return CategoryPushConstantBuffer
	case spirv.StorageClassAtomicCounter:
		return CategoryAtomicCounter
	case spirv.StorageClassUniformConstant:
		switch t := m.Inner(base).(type) {
		case ir.ImageType:
			switch {
			case t.Dim == spirv.DimSubpassData:
				return CategorySubpassInput
			case t.Sampled == 2:
				return CategoryStorageImage
			default:
				return CategorySeparateImage
			}
		case ir.SampledImageType:
			return CategorySampledImage
		case ir.SamplerType:
			return CategorySeparateSampler
		}
	}
	return CategoryNone
}

// elementType strips array levels.
func elementType(m *ir.Module, id ir.ID) ir.ID {
	for {
		arr, ok := m.Inner(id).(ir.ArrayType)
		if !ok {
			return id
		}
		id = arr.Base
	}
}

func isBuiltIn(m *ir.Module, v *ir.Variable) bool {
	if _, ok := m.BuiltIn(v.ID); ok {
		return true
	}
	return m.IsBuiltInBlock(elementType(m, m.Pointee(v.Type)))
}

func resourceName(m *ir.Module, v *ir.Variable) string {
	if name := m.Name(v.ID); name != "" {
		return name
	}
	base := elementType(m, m.Pointee(v.Type))
	if m.IsBlock(base) {
		return m.Name(base)
	}
	return ""
}

// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package transform

import (
	"github.com/gogpu/spirvcross/ir"
	"github.com/gogpu/spirvcross/spirv"
)

// BuildCombinedImageSamplers gives every image/sampler pair used together
// a combined sampler variable. Images read without a sampler pair with
// sampler 0. The first call records the pairs on the module and later
// calls return the same records, so combined ids stay stable across
// renames.
func BuildCombinedImageSamplers(m *ir.Module) []ir.CombinedImageSampler {
	if !m.CombinedBuilt {
		for _, fid := range m.Functions {
			f := m.Function(fid)
			if f == nil {
				continue
			}
			ir.WalkStatements(f.Body, func(s ir.Statement) {
				emit, ok := s.Kind.(ir.StmtEmit)
				if !ok {
					return
				}
				if e := m.Expression(emit.Expr); e != nil {
					combineUse(m, e.Kind)
				}
			})
		}
		m.CombinedBuilt = true
	}
	out := make([]ir.CombinedImageSampler, len(m.CombinedSamplers))
	copy(out, m.CombinedSamplers)
	return out
}

func combineUse(m *ir.Module, kind ir.ExpressionKind) {
	switch k := kind.(type) {
	case ir.ExprSampledImage:
		image, ok := m.GlobalOf(k.Image)
		if !ok {
			return
		}
		sampler, ok := m.GlobalOf(k.Sampler)
		if !ok {
			return
		}
		addCombined(m, image, sampler)
	case ir.ExprImageFetch:
		combineImageOnly(m, k.Image)
	case ir.ExprImageQuery:
		combineImageOnly(m, k.Image)
	}
}

// combineImageOnly pairs a separate sampled image that is fetched or
// queried without a sampler.
func combineImageOnly(m *ir.Module, value ir.ID) {
	image, ok := m.GlobalOf(value)
	if !ok {
		return
	}
	if img, ok := m.Inner(m.ValueType(image)).(ir.ImageType); ok && img.Sampled == 1 {
		addCombined(m, image, 0)
	}
}

func addCombined(m *ir.Module, image, sampler ir.ID) {
	if _, ok := m.CombinedFor(image, sampler); ok {
		return
	}
	imageType := m.ValueType(image)
	if _, ok := m.Inner(imageType).(ir.ImageType); !ok {
		return
	}

	// The variable takes the first fresh id so that combined ids follow
	// the module bound.
	id := m.Alloc()
	sampled, ok := m.LookupSampledImage(imageType)
	if !ok {
		sampled = m.AddType(ir.SampledImageType{Image: imageType})
	}
	ptr, ok := m.LookupPointer(spirv.StorageClassUniformConstant, sampled)
	if !ok {
		ptr = m.AddType(ir.PointerType{Storage: spirv.StorageClassUniformConstant, Base: sampled})
	}
	m.Set(id, &ir.Variable{ID: id, Type: ptr, Storage: spirv.StorageClassUniformConstant})
	m.Globals = append(m.Globals, id)
	if m.HasDecoration(image, spirv.DecorationRelaxedPrecision) {
		m.Decorate(id, spirv.DecorationRelaxedPrecision)
	}

	m.CombinedSamplers = append(m.CombinedSamplers, ir.CombinedImageSampler{
		CombinedID: id,
		ImageID:    image,
		SamplerID:  sampler,
	})
}

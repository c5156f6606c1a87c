// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/spirvcross/ir"
	"github.com/gogpu/spirvcross/spirv"
)

// GLSL type names used in several places.
const (
	glslTypeInt   = "int"
	glslTypeUint  = "uint"
	glslTypeFloat = "float"
)

// typeName returns the GLSL name of a type without array dimensions.
func (w *Writer) typeName(id ir.ID) string {
	switch t := w.module.Inner(id).(type) {
	case ir.VoidType:
		return "void"
	case ir.ScalarType:
		return scalarToGLSL(t)
	case ir.VectorType:
		return vectorToGLSL(t)
	case ir.MatrixType:
		return matrixToGLSL(t)
	case ir.ArrayType:
		return w.typeName(t.Base)
	case ir.StructType:
		return w.name(id)
	case ir.PointerType:
		// GLSL doesn't have explicit pointers, return the pointee type
		return w.typeName(t.Base)
	case ir.ImageType:
		return imageToGLSL(t, false)
	case ir.SampledImageType:
		img, _ := w.module.Inner(t.Image).(ir.ImageType)
		return imageToGLSL(img, true)
	case ir.SamplerType:
		return "sampler"
	}
	return "void"
}

// declare returns "T name[N]" for a declaration of name with type id.
func (w *Writer) declare(id ir.ID, name string) string {
	elem, suffix := w.stripArrays(id)
	return w.typeName(elem) + " " + name + suffix
}

// constructorName returns the type as written in a constructor call,
// including array dimensions.
func (w *Writer) constructorName(id ir.ID) string {
	elem, suffix := w.stripArrays(id)
	return w.typeName(elem) + suffix
}

// stripArrays returns the element type of a possibly nested array and the
// array dimensions, outermost first.
func (w *Writer) stripArrays(id ir.ID) (ir.ID, string) {
	var b strings.Builder
	for {
		arr, ok := w.module.Inner(id).(ir.ArrayType)
		if !ok {
			return id, b.String()
		}
		switch {
		case arr.Runtime:
			b.WriteString("[]")
		case arr.LengthID != 0 && w.isSpecConstant(arr.LengthID):
			fmt.Fprintf(&b, "[%s]", w.name(arr.LengthID))
		default:
			fmt.Fprintf(&b, "[%d]", arr.Length)
		}
		id = arr.Base
	}
}

func (w *Writer) isSpecConstant(id ir.ID) bool {
	c := w.module.Constant(id)
	return c != nil && c.Spec
}

// containsMatrix reports whether a member type is a matrix or an array of
// matrices.
func (w *Writer) containsMatrix(id ir.ID) bool {
	elem, _ := w.stripArrays(id)
	_, ok := w.module.Inner(elem).(ir.MatrixType)
	return ok
}

// precision returns the precision qualifier a declaration needs on ES, or
// "" when the default precision of the stage already applies.
func (w *Writer) precision(id ir.ID, relaxed bool) string {
	if !w.version.ES {
		return ""
	}
	elem, _ := w.stripArrays(id)
	switch w.module.Inner(elem).(type) {
	case ir.ImageType, ir.SampledImageType:
		if relaxed {
			return "mediump "
		}
		return "highp "
	case ir.ScalarType, ir.VectorType, ir.MatrixType:
	default:
		return ""
	}
	scalar, _ := w.module.ScalarOf(elem)
	return w.scalarPrecision(scalar.Kind, relaxed)
}

// scalarPrecision returns the qualifier for a value with components of
// the given kind.
func (w *Writer) scalarPrecision(kind ir.ScalarKind, relaxed bool) string {
	if !w.version.ES || kind == ir.ScalarBool {
		return ""
	}
	def := PrecisionHigh
	if w.stage == spirv.ExecutionModelFragment {
		def = w.options.Fragment.DefaultIntPrecision
		if kind == ir.ScalarFloat {
			def = w.options.Fragment.DefaultFloatPrecision
		}
	}
	if relaxed {
		if def == PrecisionMedium {
			return ""
		}
		return "mediump "
	}
	if def == PrecisionHigh {
		return ""
	}
	return "highp "
}

// scalarKind returns the scalar kind of a scalar, vector or matrix type.
func (w *Writer) scalarKind(id ir.ID) (ir.ScalarKind, bool) {
	s, ok := w.module.ScalarOf(id)
	return s.Kind, ok
}

// isInteger reports whether a value type has signed or unsigned integer
// components.
func (w *Writer) isInteger(id ir.ID) bool {
	k, ok := w.scalarKind(id)
	return ok && (k == ir.ScalarSint || k == ir.ScalarUint)
}

// components returns the component count of a scalar or vector type.
func (w *Writer) components(id ir.ID) int {
	if v, ok := w.module.Inner(id).(ir.VectorType); ok {
		return int(v.Size)
	}
	return 1
}

// retype returns the name of a scalar or vector type with the same shape
// as id and components of the given kind.
func (w *Writer) retype(id ir.ID, kind ir.ScalarKind) string {
	scalar := ir.ScalarType{Kind: kind, Width: 4}
	if v, ok := w.module.Inner(id).(ir.VectorType); ok {
		return vectorToGLSL(ir.VectorType{Size: v.Size, Scalar: scalar})
	}
	return scalarToGLSL(scalar)
}

// scalarToGLSL returns the GLSL name for a scalar type.
func scalarToGLSL(t ir.ScalarType) string {
	switch t.Kind {
	case ir.ScalarBool:
		return "bool"
	case ir.ScalarSint:
		return glslTypeInt
	case ir.ScalarUint:
		return glslTypeUint
	case ir.ScalarFloat:
		if t.Width == 8 {
			return "double"
		}
		return glslTypeFloat
	}
	return glslTypeInt
}

// vectorToGLSL returns the GLSL name for a vector type.
func vectorToGLSL(t ir.VectorType) string {
	switch t.Scalar.Kind {
	case ir.ScalarBool:
		return fmt.Sprintf("bvec%d", t.Size)
	case ir.ScalarSint:
		return fmt.Sprintf("ivec%d", t.Size)
	case ir.ScalarUint:
		return fmt.Sprintf("uvec%d", t.Size)
	}
	if t.Scalar.Width == 8 {
		return fmt.Sprintf("dvec%d", t.Size)
	}
	return fmt.Sprintf("vec%d", t.Size)
}

// matrixToGLSL returns the GLSL name for a matrix type.
func matrixToGLSL(t ir.MatrixType) string {
	prefix := "mat"
	if t.Scalar.Width == 8 {
		prefix = "dmat"
	}
	if t.Columns == t.Rows {
		return prefix + strconv.Itoa(int(t.Columns))
	}
	return fmt.Sprintf("%s%dx%d", prefix, t.Columns, t.Rows)
}

// imageToGLSL returns the GLSL name for an image/texture type. Storage
// images are imageN, everything read through a sampler is samplerN.
func imageToGLSL(t ir.ImageType, sampled bool) string {
	var b strings.Builder
	switch t.SampledType.Kind {
	case ir.ScalarSint:
		b.WriteByte('i')
	case ir.ScalarUint:
		b.WriteByte('u')
	}
	storage := t.Sampled == 2 && !sampled
	if storage {
		b.WriteString("image")
	} else {
		b.WriteString("sampler")
	}
	b.WriteString(dimName(t.Dim))
	if t.Multisampled {
		b.WriteString("MS")
	}
	if t.Arrayed {
		b.WriteString("Array")
	}
	if t.Depth && !storage {
		b.WriteString("Shadow")
	}
	return b.String()
}

func dimName(d spirv.Dim) string {
	switch d {
	case spirv.Dim1D:
		return "1D"
	case spirv.Dim3D:
		return "3D"
	case spirv.DimCube:
		return "Cube"
	case spirv.DimRect:
		return "2DRect"
	case spirv.DimBuffer:
		return "Buffer"
	}
	return "2D"
}

// imageFormat returns the layout qualifier of a storage image format.
//
//nolint:gocyclo,cyclop // one case per format
func imageFormat(f spirv.ImageFormat) string {
	switch f {
	case spirv.ImageFormatRgba32f:
		return "rgba32f"
	case spirv.ImageFormatRgba16f:
		return "rgba16f"
	case spirv.ImageFormatR32f:
		return "r32f"
	case spirv.ImageFormatRgba8:
		return "rgba8"
	case spirv.ImageFormatRgba8Snorm:
		return "rgba8_snorm"
	case spirv.ImageFormatRg32f:
		return "rg32f"
	case spirv.ImageFormatRg16f:
		return "rg16f"
	case spirv.ImageFormatR11fG11fB10f:
		return "r11f_g11f_b10f"
	case spirv.ImageFormatR16f:
		return "r16f"
	case spirv.ImageFormatRgba16:
		return "rgba16"
	case spirv.ImageFormatRgb10A2:
		return "rgb10_a2"
	case spirv.ImageFormatRg16:
		return "rg16"
	case spirv.ImageFormatRg8:
		return "rg8"
	case spirv.ImageFormatR16:
		return "r16"
	case spirv.ImageFormatR8:
		return "r8"
	case spirv.ImageFormatRgba16Snorm:
		return "rgba16_snorm"
	case spirv.ImageFormatRg16Snorm:
		return "rg16_snorm"
	case spirv.ImageFormatRg8Snorm:
		return "rg8_snorm"
	case spirv.ImageFormatR16Snorm:
		return "r16_snorm"
	case spirv.ImageFormatR8Snorm:
		return "r8_snorm"
	case spirv.ImageFormatRgba32i:
		return "rgba32i"
	case spirv.ImageFormatRgba16i:
		return "rgba16i"
	case spirv.ImageFormatRgba8i:
		return "rgba8i"
	case spirv.ImageFormatR32i:
		return "r32i"
	case spirv.ImageFormatRg32i:
		return "rg32i"
	case spirv.ImageFormatRg16i:
		return "rg16i"
	case spirv.ImageFormatRg8i:
		return "rg8i"
	case spirv.ImageFormatR16i:
		return "r16i"
	case spirv.ImageFormatR8i:
		return "r8i"
	case spirv.ImageFormatRgba32ui:
		return "rgba32ui"
	case spirv.ImageFormatRgba16ui:
		return "rgba16ui"
	case spirv.ImageFormatRgba8ui:
		return "rgba8ui"
	case spirv.ImageFormatR32ui:
		return "r32ui"
	case spirv.ImageFormatRgb10a2ui:
		return "rgb10_a2ui"
	case spirv.ImageFormatRg32ui:
		return "rg32ui"
	case spirv.ImageFormatRg16ui:
		return "rg16ui"
	case spirv.ImageFormatRg8ui:
		return "rg8ui"
	case spirv.ImageFormatR16ui:
		return "r16ui"
	case spirv.ImageFormatR8ui:
		return "r8ui"
	}
	return ""
}

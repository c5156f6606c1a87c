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

// sampledImage renders an image/sampler pair. Pairs of globals use their
// combined sampler; anything else is constructed in place.
func (w *Writer) sampledImage(e *ir.Expression, k ir.ExprSampledImage) (string, error) {
	image, imageOK := w.module.GlobalOf(k.Image)
	sampler, samplerOK := w.module.GlobalOf(k.Sampler)
	if imageOK && samplerOK {
		if c, ok := w.module.CombinedFor(image, sampler); ok {
			return w.name(c), nil
		}
	}
	args, err := w.exprs([]ir.ID{k.Image, k.Sampler})
	if err != nil {
		return "", err
	}
	return w.typeName(e.Type) + "(" + args[0] + ", " + args[1] + ")", nil
}

// imageOperand renders the image of a fetch, read or query. Separate
// images that were paired without a sampler use their combined variable.
func (w *Writer) imageOperand(id ir.ID) (string, error) {
	if g, ok := w.module.GlobalOf(id); ok {
		if c, ok := w.module.CombinedFor(g, 0); ok {
			return w.name(c), nil
		}
	}
	return w.expr(id)
}

// imageInfo returns the image type behind an image or sampled image value.
func (w *Writer) imageInfo(id ir.ID) ir.ImageType {
	switch t := w.module.Inner(w.module.ValueType(id)).(type) {
	case ir.ImageType:
		return t
	case ir.SampledImageType:
		img, _ := w.module.Inner(t.Image).(ir.ImageType)
		return img
	}
	return ir.ImageType{}
}

// legacyTextureName returns the GLSL 1.x sampling function for an image.
func legacyTextureName(img ir.ImageType, shadow bool) string {
	if shadow {
		return "shadow" + dimName(img.Dim)
	}
	return "texture" + dimName(img.Dim)
}

// imageSample renders texture(), textureLod() and friends. A depth
// reference is appended to the coordinate except for cube arrays, which
// take it as a separate argument.
func (w *Writer) imageSample(e *ir.Expression, k ir.ExprImageSample) (string, error) {
	s, err := w.expr(k.SampledImage)
	if err != nil {
		return "", err
	}
	coord, err := w.expr(k.Coordinate)
	if err != nil {
		return "", err
	}
	img := w.imageInfo(k.SampledImage)
	ops := k.Operands
	legacy := w.version.legacy()

	var extra []string
	if k.Dref != 0 {
		dref, err := w.expr(k.Dref)
		if err != nil {
			return "", err
		}
		n := w.components(w.module.TypeOf(k.Coordinate))
		switch {
		case img.Dim == spirv.DimCube && img.Arrayed:
			extra = append(extra, dref)
		case k.Proj && n == 2:
			coord = fmt.Sprintf("vec4(%s.x, 0.0, %s, %s.y)", enclose(coord), dref, enclose(coord))
		case k.Proj:
			coord = fmt.Sprintf("vec4(%s.xy, %s, %s.z)", enclose(coord), dref, enclose(coord))
		default:
			coord = fmt.Sprintf("vec%d(%s, %s)", n+1, coord, dref)
		}
	}

	name := "texture"
	if legacy {
		name = legacyTextureName(img, k.Dref != 0)
	}
	if k.Proj {
		name += "Proj"
	}
	switch {
	case ops.Lod != 0:
		lod, err := w.expr(ops.Lod)
		if err != nil {
			return "", err
		}
		name += "Lod"
		extra = append(extra, lod)
	case ops.GradX != 0:
		grads, err := w.exprs([]ir.ID{ops.GradX, ops.GradY})
		if err != nil {
			return "", err
		}
		name += "Grad"
		extra = append(extra, grads...)
	}
	if ops.Offset != 0 {
		offset, err := w.expr(ops.Offset)
		if err != nil {
			return "", err
		}
		name += "Offset"
		extra = append(extra, offset)
	}
	if ops.Bias != 0 {
		bias, err := w.expr(ops.Bias)
		if err != nil {
			return "", err
		}
		extra = append(extra, bias)
	}
	args := append([]string{s, coord}, extra...)
	out := name + "(" + strings.Join(args, ", ") + ")"
	if legacy && k.Dref != 0 && w.components(e.Type) == 1 {
		out += ".r"
	}
	return out, nil
}

// imageFetch renders texelFetch. Every non-buffer, single-sampled image
// takes a level, 0 unless the instruction names one.
func (w *Writer) imageFetch(k ir.ExprImageFetch) (string, error) {
	img, err := w.imageOperand(k.Image)
	if err != nil {
		return "", err
	}
	coord, err := w.expr(k.Coordinate)
	if err != nil {
		return "", err
	}
	info := w.imageInfo(k.Image)
	ops := k.Operands
	args := []string{img, w.castInt(coord, w.module.TypeOf(k.Coordinate), ir.ScalarSint)}
	switch {
	case info.Multisampled:
		sample, err := w.expr(ops.Sample)
		if err != nil {
			return "", err
		}
		args = append(args, w.castInt(sample, w.module.TypeOf(ops.Sample), ir.ScalarSint))
	case info.Dim != spirv.DimBuffer:
		lod := "0"
		if ops.Lod != 0 {
			if lod, err = w.expr(ops.Lod); err != nil {
				return "", err
			}
			lod = w.castInt(lod, w.module.TypeOf(ops.Lod), ir.ScalarSint)
		}
		args = append(args, lod)
	}
	name := "texelFetch"
	if ops.Offset != 0 {
		offset, err := w.expr(ops.Offset)
		if err != nil {
			return "", err
		}
		name = "texelFetchOffset"
		args = append(args, offset)
	}
	return name + "(" + strings.Join(args, ", ") + ")", nil
}

// imageGather renders textureGather with its optional reference, offset
// and component arguments.
func (w *Writer) imageGather(k ir.ExprImageGather) (string, error) {
	s, err := w.expr(k.SampledImage)
	if err != nil {
		return "", err
	}
	coord, err := w.expr(k.Coordinate)
	if err != nil {
		return "", err
	}
	name := "textureGather"
	args := []string{s, coord}
	if k.Dref != 0 {
		dref, err := w.expr(k.Dref)
		if err != nil {
			return "", err
		}
		args = append(args, dref)
	}
	if k.Operands.Offset != 0 {
		offset, err := w.expr(k.Operands.Offset)
		if err != nil {
			return "", err
		}
		name += "Offset"
		args = append(args, offset)
	}
	if k.Dref == 0 {
		if comp, ok := w.constIndex(k.Component); ok && comp != 0 {
			args = append(args, strconv.FormatUint(uint64(comp), 10))
		}
	}
	return name + "(" + strings.Join(args, ", ") + ")", nil
}

// imageRead renders imageLoad, narrowed to the result width.
func (w *Writer) imageRead(e *ir.Expression, k ir.ExprImageRead) (string, error) {
	info := w.imageInfo(k.Image)
	if info.Sampled != 2 {
		return "", unsupported("subpass inputs cannot be expressed in GLSL")
	}
	img, err := w.imageOperand(k.Image)
	if err != nil {
		return "", err
	}
	coord, err := w.expr(k.Coordinate)
	if err != nil {
		return "", err
	}
	args := []string{img, w.castInt(coord, w.module.TypeOf(k.Coordinate), ir.ScalarSint)}
	if k.Sample != 0 {
		sample, err := w.expr(k.Sample)
		if err != nil {
			return "", err
		}
		args = append(args, sample)
	}
	s := "imageLoad(" + strings.Join(args, ", ") + ")"
	if n := w.components(e.Type); n < 4 {
		s += "." + swizzle[:n]
	}
	return s, nil
}

// imageQuery renders the size, level, sample and lod queries. GLSL returns
// signed sizes, which are cast when the instruction wants unsigned ones.
func (w *Writer) imageQuery(e *ir.Expression, k ir.ExprImageQuery) (string, error) {
	var s string
	switch k.Query {
	case ir.ImageQueryLod:
		args, err := w.exprs([]ir.ID{k.Image, k.Coordinate})
		if err != nil {
			return "", err
		}
		return "textureQueryLod(" + args[0] + ", " + args[1] + ")", nil
	case ir.ImageQuerySize, ir.ImageQuerySizeLod, ir.ImageQueryLevels, ir.ImageQuerySamples:
		img, err := w.imageOperand(k.Image)
		if err != nil {
			return "", err
		}
		storage := w.imageInfo(k.Image).Sampled == 2
		switch k.Query {
		case ir.ImageQuerySize:
			if storage {
				s = "imageSize(" + img + ")"
			} else {
				s = "textureSize(" + img + ")"
			}
		case ir.ImageQuerySizeLod:
			lod, err := w.expr(k.Lod)
			if err != nil {
				return "", err
			}
			s = "textureSize(" + img + ", " + w.castInt(lod, w.module.TypeOf(k.Lod), ir.ScalarSint) + ")"
		case ir.ImageQueryLevels:
			s = "textureQueryLevels(" + img + ")"
		case ir.ImageQuerySamples:
			if storage {
				s = "imageSamples(" + img + ")"
			} else {
				s = "textureSamples(" + img + ")"
			}
		}
	default:
		return "", unsupported("image query %d", k.Query)
	}
	if got, ok := w.scalarKind(e.Type); ok && got == ir.ScalarUint {
		s = w.retype(e.Type, got) + "(" + s + ")"
	}
	return s, nil
}

// imageStore renders an imageStore statement.
func (w *Writer) imageStore(k ir.StmtImageWrite) (string, error) {
	img, err := w.imageOperand(k.Image)
	if err != nil {
		return "", err
	}
	args, err := w.exprs([]ir.ID{k.Coordinate, k.Texel})
	if err != nil {
		return "", err
	}
	coord := w.castInt(args[0], w.module.TypeOf(k.Coordinate), ir.ScalarSint)
	return "imageStore(" + img + ", " + coord + ", " + args[1] + ");", nil
}

var atomicNames = map[ir.AtomicOp]string{
	ir.AtomicExchange:    "atomicExchange",
	ir.AtomicAdd:         "atomicAdd",
	ir.AtomicMin:         "atomicMin",
	ir.AtomicMax:         "atomicMax",
	ir.AtomicAnd:         "atomicAnd",
	ir.AtomicOr:          "atomicOr",
	ir.AtomicExclusiveOr: "atomicXor",
}

// atomic renders an atomic read-modify-write on a buffer or shared
// variable.
func (w *Writer) atomic(e *ir.Expression, k ir.ExprAtomic) (string, error) {
	p, err := w.expr(k.Pointer)
	if err != nil {
		return "", err
	}
	kind, _ := w.scalarKind(e.Type)
	value := ""
	if k.Value != 0 {
		if value, err = w.expr(k.Value); err != nil {
			return "", err
		}
		value = w.castInt(value, w.module.TypeOf(k.Value), kind)
	}
	one := "1"
	if kind == ir.ScalarUint {
		one = "1u"
	}
	switch k.Op {
	case ir.AtomicLoad:
		return p, nil
	case ir.AtomicCompareExchange:
		cmp, err := w.expr(k.Comparator)
		if err != nil {
			return "", err
		}
		cmp = w.castInt(cmp, w.module.TypeOf(k.Comparator), kind)
		return "atomicCompSwap(" + p + ", " + cmp + ", " + value + ")", nil
	case ir.AtomicIncrement:
		return "atomicAdd(" + p + ", " + one + ")", nil
	case ir.AtomicDecrement:
		if kind == ir.ScalarUint {
			return "atomicAdd(" + p + ", 4294967295u)", nil
		}
		return "atomicAdd(" + p + ", -1)", nil
	case ir.AtomicSubtract:
		return "atomicAdd(" + p + ", -" + enclose(value) + ")", nil
	}
	name, ok := atomicNames[k.Op]
	if !ok {
		return "", unsupported("atomic operation %d", k.Op)
	}
	return name + "(" + p + ", " + value + ")", nil
}

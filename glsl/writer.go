// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/gogpu/spirvcross"
	"github.com/gogpu/spirvcross/diag"
	"github.com/gogpu/spirvcross/ir"
	"github.com/gogpu/spirvcross/spirv"
)

// Writer generates GLSL source code for one entry point of a module.
type Writer struct {
	module  *ir.Module
	options *CompilerOptions
	version Version
	entry   *ir.EntryPoint
	stage   spirv.ExecutionModel
	header  []string

	out    strings.Builder
	indent int

	// iface holds the interface variables of the entry point.
	iface map[ir.ID]bool
	// functions lists the functions reachable from the entry point,
	// callees first.
	functions []ir.ID
	// plainBlocks are block types declared as structs.
	plainBlocks map[ir.ID]bool
	extensions  []string

	// fs is the state of the function being written.
	fs *funcState
}

// newWriter creates a new GLSL writer.
func newWriter(module *ir.Module, options *CompilerOptions, req spirvcross.Request) *Writer {
	w := &Writer{
		module:      module,
		options:     options,
		version:     options.Version,
		entry:       req.EntryPoint,
		stage:       req.EntryPoint.Model,
		header:      req.HeaderLines,
		iface:       make(map[ir.ID]bool, len(req.EntryPoint.Interface)),
		plainBlocks: make(map[ir.ID]bool),
	}
	for _, id := range req.EntryPoint.Interface {
		w.iface[id] = true
	}
	return w
}

// String returns the generated GLSL source code.
func (w *Writer) String() string {
	return w.out.String()
}

// writeModule generates GLSL code for the entry point.
func (w *Writer) writeModule() error {
	w.collectFunctions()
	w.collectExtensions()
	w.collectPlainBlocks()

	w.writeHeader()
	if err := w.writeSpecConstants(); err != nil {
		return err
	}
	w.writeStructs()
	w.writeBuffers()
	w.writeUniformConstants()
	w.writeInterface()
	if err := w.writePrivates(); err != nil {
		return err
	}
	for _, id := range w.functions {
		if err := w.writeFunction(id); err != nil {
			return err
		}
	}
	return nil
}

// collectFunctions orders the call graph of the entry point so that every
// function is declared before its first caller.
func (w *Writer) collectFunctions() {
	seen := make(map[ir.ID]bool)
	var visit func(id ir.ID)
	visit = func(id ir.ID) {
		if seen[id] {
			return
		}
		seen[id] = true
		f := w.module.Function(id)
		if f == nil {
			return
		}
		for _, callee := range f.Calls {
			visit(callee)
		}
		w.functions = append(w.functions, id)
	}
	visit(w.entry.Function)
}

// collectExtensions records the #extension lines the body needs.
func (w *Writer) collectExtensions() {
	if !(w.version.ES && w.version.Number() == 100 && w.stage == spirv.ExecutionModelFragment) {
		return
	}
	derivatives := false
	for _, id := range w.functions {
		ir.WalkStatements(w.module.Function(id).Body, func(s ir.Statement) {
			emit, ok := s.Kind.(ir.StmtEmit)
			if !ok {
				return
			}
			if e := w.module.Expression(emit.Expr); e != nil {
				if k, ok := e.Kind.(ir.ExprIntrinsic); ok && isDerivative(k.Op) {
					derivatives = true
				}
			}
		})
	}
	if derivatives {
		w.extensions = append(w.extensions, "GL_OES_standard_derivatives")
	}
}

// collectPlainBlocks finds the block types that are declared as structs
// because the target cannot declare them as interface blocks.
func (w *Writer) collectPlainBlocks() {
	for _, id := range w.module.Globals {
		v := w.module.Variable(id)
		if v == nil || w.module.Flattened[id] {
			continue
		}
		if w.plainBuffer(v) {
			block, _ := w.stripArrays(w.module.Pointee(v.Type))
			w.plainBlocks[block] = true
		}
	}
}

// plainBuffer reports whether a uniform or push constant block is declared
// as a struct uniform.
func (w *Writer) plainBuffer(v *ir.Variable) bool {
	switch v.Storage {
	case spirv.StorageClassUniform:
		block, _ := w.stripArrays(w.module.Pointee(v.Type))
		if w.module.HasDecoration(block, spirv.DecorationBufferBlock) {
			return false
		}
		return !w.version.supportsUniformBlocks() || w.options.EmitUniformBufferAsPlainUniforms
	case spirv.StorageClassPushConstant:
		return !w.options.EmitPushConstantAsUniformBuffer || !w.version.supportsUniformBlocks()
	}
	return false
}

// writeHeader writes the #version line and everything that must precede
// declarations.
func (w *Writer) writeHeader() {
	w.writeLine("#version %s", w.version)
	for _, line := range w.header {
		w.writeLine("%s", line)
	}
	if !w.version.ES && w.version.Number() < 420 && w.options.Enable420PackExtension {
		w.writeLine("#ifdef GL_ARB_shading_language_420pack")
		w.writeLine("#extension GL_ARB_shading_language_420pack : require")
		w.writeLine("#endif")
	}
	for _, ext := range w.extensions {
		w.writeLine("#extension %s : require", ext)
	}
	if w.version.ES && w.stage == spirv.ExecutionModelFragment {
		w.writeLine("precision %s float;", w.options.Fragment.DefaultFloatPrecision)
		w.writeLine("precision %s int;", w.options.Fragment.DefaultIntPrecision)
	}
	switch w.stage {
	case spirv.ExecutionModelGLCompute:
		size := [3]uint32{1, 1, 1}
		if args, ok := w.entry.Mode(spirv.ExecutionModeLocalSize); ok && len(args) == 3 {
			copy(size[:], args)
		}
		w.writeLine("layout(local_size_x = %d, local_size_y = %d, local_size_z = %d) in;", size[0], size[1], size[2])
	case spirv.ExecutionModelFragment:
		if _, ok := w.entry.Mode(spirv.ExecutionModeEarlyFragmentTests); ok {
			w.writeLine("layout(early_fragment_tests) in;")
		}
	}
	w.writeLine("")
}

// writeSpecConstants declares specialization constants. Scalars can be
// overridden at compile time through a SPIRV_CROSS_CONSTANT_ID macro.
func (w *Writer) writeSpecConstants() error {
	written := false
	for _, id := range w.module.Constants {
		c := w.module.Constant(id)
		if c == nil || !c.Spec {
			continue
		}
		name := w.name(id)
		decl := w.declare(c.Type, name)
		switch v := c.Value.(type) {
		case ir.ScalarValue:
			value, err := w.scalarLiteral(c.Type, v.Bits)
			if err != nil {
				return err
			}
			specID, ok := w.module.Decoration(id, spirv.DecorationSpecID)
			if !ok {
				w.writeLine("const %s = %s;", decl, value)
				break
			}
			macro := fmt.Sprintf("SPIRV_CROSS_CONSTANT_ID_%d", specID)
			w.writeLine("#ifndef %s", macro)
			w.writeLine("#define %s %s", macro, value)
			w.writeLine("#endif")
			w.writeLine("const %s = %s;", decl, macro)
		default:
			value, err := w.constantValue(c)
			if err != nil {
				return err
			}
			w.writeLine("const %s = %s;", decl, value)
		}
		written = true
	}
	if written {
		w.writeLine("")
	}
	return nil
}

// writeStructs declares every struct type except interface blocks.
func (w *Writer) writeStructs() {
	for _, id := range w.module.Types {
		st, ok := w.module.Inner(id).(ir.StructType)
		if !ok || w.module.IsBuiltInBlock(id) {
			continue
		}
		if w.module.IsBlock(id) && !w.plainBlocks[id] {
			continue
		}
		w.writeLine("struct %s", w.name(id))
		w.writeLine("{")
		w.pushIndent()
		w.writeMembers(id, st, false)
		w.popIndent()
		w.writeLine("};")
		w.writeLine("")
	}
}

// writeMembers declares the members of a struct or block body.
func (w *Writer) writeMembers(id ir.ID, st ir.StructType, block bool) {
	for i, mem := range st.Members {
		index := uint32(i) //nolint:gosec // member counts fit in uint32
		prefix := ""
		if block && w.module.HasMemberDecoration(id, index, spirv.DecorationRowMajor) && w.containsMatrix(mem.Type) {
			prefix = "layout(row_major) "
		}
		relaxed := w.module.HasMemberDecoration(id, index, spirv.DecorationRelaxedPrecision)
		w.writeLine("%s%s%s;", prefix, w.precision(mem.Type, relaxed), w.declare(mem.Type, w.memberName(id, i)))
	}
}

// writeBuffers declares uniform, storage and push constant blocks in
// declaration order. Flattened buffers are single lines with no spacing.
func (w *Writer) writeBuffers() {
	for _, id := range w.module.Globals {
		v := w.module.Variable(id)
		if v == nil {
			continue
		}
		switch v.Storage {
		case spirv.StorageClassUniform, spirv.StorageClassStorageBuffer, spirv.StorageClassPushConstant:
		default:
			continue
		}
		if w.module.Flattened[id] {
			w.writeFlattenedBuffer(v)
			continue
		}
		block, suffix := w.stripArrays(w.module.Pointee(v.Type))
		if _, ok := w.module.Inner(block).(ir.StructType); !ok {
			continue
		}
		if w.plainBuffer(v) {
			w.writeLine("uniform %s %s%s;", w.name(block), w.name(id), suffix)
			w.writeLine("")
			continue
		}
		w.writeBufferBlock(v, block, suffix)
	}
}

// writeBufferBlock writes an interface block for a uniform or storage buffer.
func (w *Writer) writeBufferBlock(v *ir.Variable, block ir.ID, suffix string) {
	storage := "uniform"
	packing := "std140"
	if v.Storage == spirv.StorageClassStorageBuffer || w.module.HasDecoration(block, spirv.DecorationBufferBlock) {
		storage = "buffer"
		packing = "std430"
		switch {
		case w.module.HasDecoration(v.ID, spirv.DecorationNonWritable) || w.allMembers(block, spirv.DecorationNonWritable):
			storage = "readonly buffer"
		case w.module.HasDecoration(v.ID, spirv.DecorationNonReadable) || w.allMembers(block, spirv.DecorationNonReadable):
			storage = "writeonly buffer"
		}
	}
	qualifiers := append(w.bindingLayout(v.ID), packing)
	st, _ := w.module.Inner(block).(ir.StructType)
	w.writeLine("layout(%s) %s %s", strings.Join(qualifiers, ", "), storage, w.name(block))
	w.writeLine("{")
	w.pushIndent()
	w.writeMembers(block, st, true)
	w.popIndent()
	w.writeLine("} %s%s;", w.name(v.ID), suffix)
	w.writeLine("")
}

func (w *Writer) allMembers(block ir.ID, dec spirv.Decoration) bool {
	st, ok := w.module.Inner(block).(ir.StructType)
	if !ok || len(st.Members) == 0 {
		return false
	}
	for i := range st.Members {
		if !w.module.HasMemberDecoration(block, uint32(i), dec) { //nolint:gosec // member counts fit in uint32
			return false
		}
	}
	return true
}

// bindingLayout returns the binding qualifier of a resource when the
// target can express it.
func (w *Writer) bindingLayout(id ir.ID) []string {
	binding, ok := w.module.Decoration(id, spirv.DecorationBinding)
	if !ok || !w.canBind() {
		return nil
	}
	return []string{fmt.Sprintf("binding = %d", binding)}
}

func (w *Writer) canBind() bool {
	return w.version.supportsBinding() || (!w.version.ES && w.options.Enable420PackExtension)
}

func layoutPrefix(qualifiers []string) string {
	if len(qualifiers) == 0 {
		return ""
	}
	return "layout(" + strings.Join(qualifiers, ", ") + ") "
}

// writeUniformConstants declares combined samplers and storage images.
// Separate images and samplers are replaced by their combinations.
func (w *Writer) writeUniformConstants() {
	written := false
	for _, id := range w.module.Globals {
		v := w.module.Variable(id)
		if v == nil || v.Storage != spirv.StorageClassUniformConstant {
			continue
		}
		elem, suffix := w.stripArrays(w.module.Pointee(v.Type))
		relaxed := w.module.HasDecoration(id, spirv.DecorationRelaxedPrecision)
		switch t := w.module.Inner(elem).(type) {
		case ir.SampledImageType:
			w.writeLine("%suniform %s%s %s%s;", layoutPrefix(w.bindingLayout(id)),
				w.precision(elem, relaxed), w.typeName(elem), w.name(id), suffix)
		case ir.ImageType:
			if t.Sampled != 2 || t.Dim == spirv.DimSubpassData {
				continue
			}
			qualifiers := w.bindingLayout(id)
			if f := imageFormat(t.Format); f != "" {
				qualifiers = append(qualifiers, f)
			}
			access := ""
			switch {
			case w.module.HasDecoration(id, spirv.DecorationNonWritable):
				access = "readonly "
			case w.module.HasDecoration(id, spirv.DecorationNonReadable):
				access = "writeonly "
			}
			w.writeLine("%suniform %s%s%s %s%s;", layoutPrefix(qualifiers), access,
				w.precision(elem, relaxed), w.typeName(elem), w.name(id), suffix)
		default:
			continue
		}
		written = true
	}
	if written {
		w.writeLine("")
	}
}

// writeInterface declares the user inputs and outputs of the entry point.
func (w *Writer) writeInterface() {
	written := false
	for _, id := range w.module.Globals {
		v := w.module.Variable(id)
		if v == nil || (v.Storage != spirv.StorageClassInput && v.Storage != spirv.StorageClassOutput) {
			continue
		}
		if !w.iface[id] || w.isBuiltinVar(v) || w.legacyFragmentOutput(v) {
			continue
		}
		t := w.module.Pointee(v.Type)
		loc, hasLoc := w.module.Decoration(id, spirv.DecorationLocation)
		if st, ok := w.module.Inner(t).(ir.StructType); ok {
			for i, mem := range st.Members {
				index := uint32(i) //nolint:gosec // member counts fit in uint32
				memberLoc, memberHasLoc := w.module.MemberDecoration(t, index, spirv.DecorationLocation)
				if !memberHasLoc && hasLoc {
					memberLoc, memberHasLoc = loc, true
				}
				has := func(dec spirv.Decoration) bool {
					return w.module.HasMemberDecoration(t, index, dec) || w.module.HasDecoration(id, dec)
				}
				w.writeInterfaceVariable(v, mem.Type, w.name(id)+"_"+w.memberName(t, i), memberLoc, memberHasLoc, has)
				loc += w.locationSlots(mem.Type)
			}
		} else {
			has := func(dec spirv.Decoration) bool { return w.module.HasDecoration(id, dec) }
			w.writeInterfaceVariable(v, t, w.name(id), loc, hasLoc, has)
		}
		written = true
	}
	if written {
		w.writeLine("")
	}
}

// writeInterfaceVariable declares one input or output.
func (w *Writer) writeInterfaceVariable(v *ir.Variable, t ir.ID, name string, loc uint32, hasLoc bool,
	has func(spirv.Decoration) bool) {
	input := v.Storage == spirv.StorageClassInput
	var b strings.Builder
	if hasLoc && w.ioLocations(input) {
		fmt.Fprintf(&b, "layout(location = %d) ", loc)
	}
	varying := !(input && w.stage == spirv.ExecutionModelVertex) &&
		!(!input && w.stage == spirv.ExecutionModelFragment)
	if varying {
		switch {
		case has(spirv.DecorationFlat) && !w.version.legacy():
			b.WriteString("flat ")
		case has(spirv.DecorationNoPerspective) && !w.version.ES && !w.version.legacy():
			b.WriteString("noperspective ")
		}
		switch {
		case has(spirv.DecorationCentroid) && !w.version.legacy():
			b.WriteString("centroid ")
		case has(spirv.DecorationSample) && w.version.atLeast(400, 320):
			b.WriteString("sample ")
		}
	}
	switch {
	case !w.version.legacy():
		if input {
			b.WriteString("in ")
		} else {
			b.WriteString("out ")
		}
	case input && w.stage == spirv.ExecutionModelVertex:
		b.WriteString("attribute ")
	default:
		b.WriteString("varying ")
	}
	b.WriteString(w.precision(t, has(spirv.DecorationRelaxedPrecision)))
	b.WriteString(w.declare(t, name))
	w.writeLine("%s;", b.String())
}

// ioLocations reports whether location layouts are allowed on inputs or
// outputs of the current stage.
func (w *Writer) ioLocations(input bool) bool {
	attribute := (input && w.stage == spirv.ExecutionModelVertex) ||
		(!input && w.stage == spirv.ExecutionModelFragment)
	if attribute {
		return w.version.atLeast(330, 300)
	}
	return w.version.atLeast(410, 310)
}

// locationSlots is the number of locations a value of type id occupies.
func (w *Writer) locationSlots(id ir.ID) uint32 {
	switch t := w.module.Inner(id).(type) {
	case ir.MatrixType:
		return uint32(t.Columns)
	case ir.ArrayType:
		return t.Length * w.locationSlots(t.Base)
	case ir.StructType:
		var n uint32
		for _, m := range t.Members {
			n += w.locationSlots(m.Type)
		}
		return n
	}
	return 1
}

// legacyFragmentOutput reports whether v is written through gl_FragData.
func (w *Writer) legacyFragmentOutput(v *ir.Variable) bool {
	return w.stage == spirv.ExecutionModelFragment && v.Storage == spirv.StorageClassOutput &&
		w.version.legacy() && !w.isBuiltinVar(v)
}

// isBuiltinVar reports whether v is a builtin or a builtin block.
func (w *Writer) isBuiltinVar(v *ir.Variable) bool {
	if _, ok := w.module.BuiltIn(v.ID); ok {
		return true
	}
	block, _ := w.stripArrays(w.module.Pointee(v.Type))
	return w.module.IsBuiltInBlock(block)
}

// writePrivates declares private and workgroup globals and undefined
// values.
func (w *Writer) writePrivates() error {
	written := false
	for _, id := range w.module.Globals {
		v := w.module.Variable(id)
		if v == nil {
			continue
		}
		t := w.module.Pointee(v.Type)
		relaxed := w.module.HasDecoration(id, spirv.DecorationRelaxedPrecision)
		switch v.Storage {
		case spirv.StorageClassPrivate:
			init, err := w.initializer(v)
			if err != nil {
				return err
			}
			w.writeLine("%s%s%s;", w.precision(t, relaxed), w.declare(t, w.name(id)), init)
		case spirv.StorageClassWorkgroup:
			w.writeLine("shared %s%s;", w.precision(t, relaxed), w.declare(t, w.name(id)))
		default:
			continue
		}
		written = true
	}
	for _, id := range w.module.Undefs {
		u := w.module.Undef(id)
		if u == nil {
			continue
		}
		w.writeLine("%s%s;", w.precision(u.Type, false), w.declare(u.Type, w.name(id)))
		written = true
	}
	if written {
		w.writeLine("")
	}
	return nil
}

// initializer returns the " = value" suffix of a variable declaration.
func (w *Writer) initializer(v *ir.Variable) (string, error) {
	if v.Init != 0 {
		value, err := w.expr(v.Init)
		if err != nil {
			return "", err
		}
		return " = " + value, nil
	}
	if w.options.ForceZeroInitializedVariables {
		value, err := w.zeroValue(w.module.Pointee(v.Type))
		if err != nil {
			return "", err
		}
		return " = " + value, nil
	}
	return "", nil
}

// name returns the identifier of id.
func (w *Writer) name(id ir.ID) string {
	if n := w.module.Name(id); n != "" {
		return n
	}
	return ir.DefaultName(id)
}

// memberName returns the identifier of a struct member.
func (w *Writer) memberName(id ir.ID, index int) string {
	if b, ok := w.module.MemberBuiltIn(id, uint32(index)); ok { //nolint:gosec // member counts fit in uint32
		return builtinName(b, spirv.StorageClassOutput)
	}
	if n := w.module.MemberName(id, index); n != "" {
		return n
	}
	return ir.DefaultMemberName(index)
}

// builtinName returns the GLSL variable of a SPIR-V builtin.
//
//nolint:gocyclo,cyclop // one case per builtin
func builtinName(b spirv.BuiltIn, storage spirv.StorageClass) string {
	switch b {
	case spirv.BuiltInPosition:
		return "gl_Position"
	case spirv.BuiltInPointSize:
		return "gl_PointSize"
	case spirv.BuiltInClipDistance:
		return "gl_ClipDistance"
	case spirv.BuiltInCullDistance:
		return "gl_CullDistance"
	case spirv.BuiltInVertexID, spirv.BuiltInVertexIndex:
		return "gl_VertexID"
	case spirv.BuiltInInstanceID, spirv.BuiltInInstanceIndex:
		return "gl_InstanceID"
	case spirv.BuiltInPrimitiveID:
		return "gl_PrimitiveID"
	case spirv.BuiltInLayer:
		return "gl_Layer"
	case spirv.BuiltInViewportIndex:
		return "gl_ViewportIndex"
	case spirv.BuiltInFragCoord:
		return "gl_FragCoord"
	case spirv.BuiltInPointCoord:
		return "gl_PointCoord"
	case spirv.BuiltInFrontFacing:
		return "gl_FrontFacing"
	case spirv.BuiltInSampleID:
		return "gl_SampleID"
	case spirv.BuiltInSamplePosition:
		return "gl_SamplePosition"
	case spirv.BuiltInSampleMask:
		if storage == spirv.StorageClassInput {
			return "gl_SampleMaskIn"
		}
		return "gl_SampleMask"
	case spirv.BuiltInFragDepth:
		return "gl_FragDepth"
	case spirv.BuiltInHelperInvocation:
		return "gl_HelperInvocation"
	case spirv.BuiltInNumWorkgroups:
		return "gl_NumWorkGroups"
	case spirv.BuiltInWorkgroupSize:
		return "gl_WorkGroupSize"
	case spirv.BuiltInWorkgroupID:
		return "gl_WorkGroupID"
	case spirv.BuiltInLocalInvocationID:
		return "gl_LocalInvocationID"
	case spirv.BuiltInGlobalInvocationID:
		return "gl_GlobalInvocationID"
	case spirv.BuiltInLocalInvocationIndex:
		return "gl_LocalInvocationIndex"
	}
	return "gl_BuiltIn" + strconv.Itoa(int(b))
}

// sortedIDs returns the keys of set in ascending order.
func sortedIDs(set map[ir.ID]bool) []ir.ID {
	out := make([]ir.ID, 0, len(set))
	for id, ok := range set {
		if ok {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// unsupported reports a construct the writer cannot express.
func unsupported(format string, args ...any) error {
	return diag.Errorf(diag.UnsupportedVersion, format, args...)
}

// Output helpers

// writeLine writes a line with indentation and newline.
//
//nolint:goprintffuncname
func (w *Writer) writeLine(format string, args ...any) {
	if format == "" && len(args) == 0 {
		w.out.WriteByte('\n')
		return
	}
	w.writeIndent()
	if len(args) == 0 {
		w.out.WriteString(format)
	} else {
		fmt.Fprintf(&w.out, format, args...)
	}
	w.out.WriteByte('\n')
}

// writeIndent writes the current indentation.
func (w *Writer) writeIndent() {
	for i := 0; i < w.indent; i++ {
		w.out.WriteString("    ")
	}
}

// pushIndent increases indentation.
func (w *Writer) pushIndent() {
	w.indent++
}

// popIndent decreases indentation.
func (w *Writer) popIndent() {
	if w.indent > 0 {
		w.indent--
	}
}

// formatFloat formats a float32 for GLSL output.
func formatFloat(f float32) string {
	if s, ok := nonFinite(float64(f)); ok {
		return s
	}
	s := strconv.FormatFloat(float64(f), 'g', -1, 32)
	// Ensure it has a decimal point or exponent
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// formatFloat64 formats a float64 for GLSL output.
func formatFloat64(f float64) string {
	if s, ok := nonFinite(f); ok {
		return s
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	// Ensure it has a decimal point or exponent
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s + "lf" // double literal suffix
}

// nonFinite spells NaN and infinities as constant divisions.
func nonFinite(f float64) (string, bool) {
	switch {
	case math.IsNaN(f):
		return "(0.0 / 0.0)", true
	case math.IsInf(f, 1):
		return "(1.0 / 0.0)", true
	case math.IsInf(f, -1):
		return "(-1.0 / 0.0)", true
	}
	return "", false
}

// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ir

import (
	"github.com/gogpu/spirvcross/spirv"
)

// ID is a SPIR-V result id and the index of an entity in the arena.
type ID uint32

// Entity is anything that can occupy an arena slot.
type Entity interface {
	entity()
}

// Module is the parsed form of a SPIR-V module.
type Module struct {
	// Version is the SPIR-V version the module was encoded with.
	Version spirv.Version

	// Declaration order of module-level entities.
	Types     []ID
	Constants []ID
	Undefs    []ID
	Globals   []ID
	Functions []ID

	EntryPoints  []EntryPoint
	Capabilities []spirv.Capability
	Extensions   []string

	// CombinedSamplers records the image/sampler pairs that were given a
	// combined variable, in first-use order.
	CombinedSamplers []CombinedImageSampler
	// CombinedBuilt is set once combined samplers have been collected.
	CombinedBuilt bool

	// Flattened holds the uniform buffers emitted as vec4 arrays.
	Flattened map[ID]bool

	entities []Entity
	meta     map[ID]*Meta
}

// NewModule creates an empty module whose arena spans ids [0, bound).
func NewModule(bound uint32) *Module {
	return &Module{
		entities:  make([]Entity, bound),
		meta:      make(map[ID]*Meta),
		Flattened: make(map[ID]bool),
	}
}

// Bound returns one past the largest id the arena can hold.
func (m *Module) Bound() uint32 {
	return uint32(len(m.entities)) //nolint:gosec // arena never exceeds a uint32 bound
}

// Alloc reserves a fresh id past every id in use.
func (m *Module) Alloc() ID {
	id := ID(len(m.entities)) //nolint:gosec // arena never exceeds a uint32 bound
	m.entities = append(m.entities, nil)
	return id
}

// Set stores e at id. Ids outside the arena are ignored; the parser
// rejects result ids at or past the bound before storing them.
func (m *Module) Set(id ID, e Entity) {
	if int(id) < len(m.entities) {
		m.entities[id] = e
	}
}

// Entity returns the entity stored at id, or nil.
func (m *Module) Entity(id ID) Entity {
	if id == 0 || int(id) >= len(m.entities) {
		return nil
	}
	return m.entities[id]
}

// Live reports whether id names an entity.
func (m *Module) Live(id ID) bool {
	return m.Entity(id) != nil
}

// Type returns the type at id, or nil.
func (m *Module) Type(id ID) *Type {
	t, _ := m.Entity(id).(*Type)
	return t
}

// Constant returns the constant at id, or nil.
func (m *Module) Constant(id ID) *Constant {
	c, _ := m.Entity(id).(*Constant)
	return c
}

// Variable returns the variable at id, or nil.
func (m *Module) Variable(id ID) *Variable {
	v, _ := m.Entity(id).(*Variable)
	return v
}

// Function returns the function at id, or nil.
func (m *Module) Function(id ID) *Function {
	f, _ := m.Entity(id).(*Function)
	return f
}

// Parameter returns the function parameter at id, or nil.
func (m *Module) Parameter(id ID) *Parameter {
	p, _ := m.Entity(id).(*Parameter)
	return p
}

// Expression returns the expression at id, or nil.
func (m *Module) Expression(id ID) *Expression {
	e, _ := m.Entity(id).(*Expression)
	return e
}

// Undef returns the undefined value at id, or nil.
func (m *Module) Undef(id ID) *Undef {
	u, _ := m.Entity(id).(*Undef)
	return u
}

// AddType allocates a new type after parsing and appends it to the
// declaration order.
func (m *Module) AddType(inner TypeInner) ID {
	id := m.Alloc()
	m.Set(id, &Type{ID: id, Inner: inner})
	m.Types = append(m.Types, id)
	return id
}

// TypeOf returns the type id of a value: the result type of an expression,
// constant, parameter or undef, and the pointer type of a variable.
func (m *Module) TypeOf(id ID) ID {
	switch e := m.Entity(id).(type) {
	case *Expression:
		return e.Type
	case *Constant:
		return e.Type
	case *Variable:
		return e.Type
	case *Parameter:
		return e.Type
	case *Undef:
		return e.Type
	}
	return 0
}

// Inner returns the inner description of type id, or nil.
func (m *Module) Inner(id ID) TypeInner {
	if t := m.Type(id); t != nil {
		return t.Inner
	}
	return nil
}

// Pointee strips one pointer level from type id. Non-pointer types are
// returned unchanged.
func (m *Module) Pointee(id ID) ID {
	if p, ok := m.Inner(id).(PointerType); ok {
		return p.Base
	}
	return id
}

// ValueType returns the type of the value id refers to, looking through
// variable pointers.
func (m *Module) ValueType(id ID) ID {
	return m.Pointee(m.TypeOf(id))
}

// LookupPointer finds an existing pointer type.
func (m *Module) LookupPointer(storage spirv.StorageClass, base ID) (ID, bool) {
	for _, id := range m.Types {
		if p, ok := m.Inner(id).(PointerType); ok && p.Storage == storage && p.Base == base {
			return id, true
		}
	}
	return 0, false
}

// LookupSampledImage finds an existing sampled image type over image.
func (m *Module) LookupSampledImage(image ID) (ID, bool) {
	for _, id := range m.Types {
		if s, ok := m.Inner(id).(SampledImageType); ok && s.Image == image {
			return id, true
		}
	}
	return 0, false
}

// EntryPointFor returns the entry point with the given name and model.
func (m *Module) EntryPointFor(name string, model spirv.ExecutionModel) (*EntryPoint, bool) {
	for i := range m.EntryPoints {
		ep := &m.EntryPoints[i]
		if ep.Name == name && ep.Model == model {
			return ep, true
		}
	}
	return nil, false
}

// ---------------------------------------------------------------------------
// Types
// ---------------------------------------------------------------------------

// Type is a SPIR-V type declaration.
type Type struct {
	ID    ID
	Inner TypeInner
}

func (*Type) entity() {}

// TypeInner describes the shape of a type.
type TypeInner interface {
	typeInner()
}

// ScalarKind is the basic kind of a scalar.
type ScalarKind uint8

const (
	ScalarBool  ScalarKind = iota // bool
	ScalarSint                    // signed integer
	ScalarUint                    // unsigned integer
	ScalarFloat                   // floating point
)

// VoidType is the void type.
type VoidType struct{}

// ScalarType is a bool, integer or float.
type ScalarType struct {
	Kind  ScalarKind
	Width uint8 // Bytes
}

// VectorType is a vector of 2 to 4 scalars.
type VectorType struct {
	Size   uint8
	Scalar ScalarType
}

// MatrixType is a column-major matrix of float vectors.
type MatrixType struct {
	Columns uint8
	Rows    uint8
	Scalar  ScalarType
}

// ArrayType is a fixed-size or runtime-sized array.
type ArrayType struct {
	Base ID
	// Length is the element count of a sized array.
	Length uint32
	// LengthID is the constant holding the length. It may be a
	// specialization constant.
	LengthID ID
	Runtime  bool
}

// StructMember is one member of a struct type. Names, offsets and other
// member decorations live in the owning type's Meta.
type StructMember struct {
	Type ID
}

// StructType is an aggregate of members.
type StructType struct {
	Members []StructMember
}

// PointerType is a pointer into a storage class.
type PointerType struct {
	Storage spirv.StorageClass
	Base    ID
}

// ImageType is an OpTypeImage.
type ImageType struct {
	SampledType  ScalarType
	Dim          spirv.Dim
	Depth        bool
	Arrayed      bool
	Multisampled bool
	// Sampled is 1 for images used with a sampler and 2 for storage images.
	Sampled uint32
	Format  spirv.ImageFormat
}

// SampledImageType is an image combined with a sampler.
type SampledImageType struct {
	Image ID
}

// SamplerType is an opaque sampler.
type SamplerType struct{}

// FunctionType is a function signature.
type FunctionType struct {
	Result ID
	Params []ID
}

func (VoidType) typeInner()         {}
func (ScalarType) typeInner()       {}
func (VectorType) typeInner()       {}
func (MatrixType) typeInner()       {}
func (ArrayType) typeInner()        {}
func (StructType) typeInner()       {}
func (PointerType) typeInner()      {}
func (ImageType) typeInner()        {}
func (SampledImageType) typeInner() {}
func (SamplerType) typeInner()      {}
func (FunctionType) typeInner()     {}

// ScalarOf returns the scalar component of a scalar, vector or matrix
// type.
func (m *Module) ScalarOf(id ID) (ScalarType, bool) {
	switch t := m.Inner(id).(type) {
	case ScalarType:
		return t, true
	case VectorType:
		return t.Scalar, true
	case MatrixType:
		return t.Scalar, true
	}
	return ScalarType{}, false
}

// ---------------------------------------------------------------------------
// Constants
// ---------------------------------------------------------------------------

// Constant is a constant or specialization constant.
type Constant struct {
	ID    ID
	Type  ID
	Value ConstantValue
	// Spec marks a specialization constant.
	Spec bool
}

func (*Constant) entity() {}

// ConstantValue is the payload of a constant.
type ConstantValue interface {
	constantValue()
}

// ScalarValue holds the raw bits of a scalar. Booleans use 0 and 1.
type ScalarValue struct {
	Bits uint64
}

// CompositeValue lists the constituents of a composite constant.
type CompositeValue struct {
	Components []ID
}

// NullValue is OpConstantNull.
type NullValue struct{}

// SpecOpValue is an OpSpecConstantOp computed from other constants.
type SpecOpValue struct {
	Op       spirv.OpCode
	Operands []ID
	Literals []uint32
}

func (ScalarValue) constantValue()    {}
func (CompositeValue) constantValue() {}
func (NullValue) constantValue()      {}
func (SpecOpValue) constantValue()    {}

// Undef is an OpUndef value.
type Undef struct {
	ID   ID
	Type ID
}

func (*Undef) entity() {}

// ---------------------------------------------------------------------------
// Variables and functions
// ---------------------------------------------------------------------------

// Variable is an OpVariable, global or function-local.
type Variable struct {
	ID ID
	// Type is the pointer type of the variable.
	Type    ID
	Storage spirv.StorageClass
	// Init is the initializer constant, or 0.
	Init ID
	// Function owns a Function-storage variable.
	Function ID
}

func (*Variable) entity() {}

// Parameter is an OpFunctionParameter.
type Parameter struct {
	ID       ID
	Type     ID
	Function ID
}

func (*Parameter) entity() {}

// Function is a structured function body.
type Function struct {
	ID     ID
	Type   ID
	Result ID
	Params []ID
	// Locals are Function-storage variables in declaration order.
	Locals []ID
	// Phis are phi results, declared as function-scope variables.
	Phis []ID
	Body Block
	// Calls lists callees in first-call order.
	Calls []ID
}

func (*Function) entity() {}

// EntryPoint is an OpEntryPoint plus its execution modes.
type EntryPoint struct {
	Name      string
	Model     spirv.ExecutionModel
	Function  ID
	Interface []ID
	Modes     []ExecutionMode
}

// ExecutionMode is one OpExecutionMode for an entry point.
type ExecutionMode struct {
	Mode spirv.ExecutionMode
	Args []uint32
}

// Mode returns the arguments of an execution mode.
func (ep *EntryPoint) Mode(mode spirv.ExecutionMode) ([]uint32, bool) {
	for _, m := range ep.Modes {
		if m.Mode == mode {
			return m.Args, true
		}
	}
	return nil, false
}

// CombinedImageSampler links a synthesized combined variable to the image
// and sampler it replaces. SamplerID is 0 for image-only uses.
type CombinedImageSampler struct {
	CombinedID ID
	ImageID    ID
	SamplerID  ID
}

// CombinedFor returns the combined variable for an image/sampler pair.
func (m *Module) CombinedFor(image, sampler ID) (ID, bool) {
	for _, c := range m.CombinedSamplers {
		if c.ImageID == image && c.SamplerID == sampler {
			return c.CombinedID, true
		}
	}
	return 0, false
}

// ExtInstSet is an OpExtInstImport.
type ExtInstSet struct {
	ID   ID
	Name string
}

func (*ExtInstSet) entity() {}

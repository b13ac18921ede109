// Package types implements the shader3d Type Registry: a structural,
// value-typed description of every scalar, vector, matrix, array, struct,
// texture, sampler, and pointer type the compiler can reason about, along
// with their WGSL-style size and alignment.
package types

import (
	"fmt"
	"strings"
)

// Primitive enumerates the scalar kinds.
type Primitive uint8

const (
	F32 Primitive = iota
	F16
	I32
	U32
	Bool
)

func (p Primitive) String() string {
	switch p {
	case F32:
		return "f32"
	case F16:
		return "f16"
	case I32:
		return "i32"
	case U32:
		return "u32"
	case Bool:
		return "bool"
	default:
		return "?"
	}
}

// Kind tags the variant held by a Ref.
type Kind uint8

const (
	// KindInvalid is the zero value, distinguishing an unresolved/unknown
	// type (e.g. a checker lookup failure) from a valid Primitive(f32).
	KindInvalid Kind = iota
	KindPrimitive
	KindVector
	KindMatrix
	KindArray
	KindStruct
	KindTexture
	KindSampler
	KindPointer
)

// TextureDim enumerates texture dimensionality.
type TextureDim uint8

const (
	Dim1D TextureDim = iota
	Dim2D
	Dim3D
	DimCube
	Dim2DArray
)

func (d TextureDim) String() string {
	switch d {
	case Dim1D:
		return "1d"
	case Dim2D:
		return "2d"
	case Dim3D:
		return "3d"
	case DimCube:
		return "cube"
	case Dim2DArray:
		return "2d_array"
	default:
		return "?"
	}
}

// SampleType enumerates texel sample classes.
type SampleType uint8

const (
	SampleFloat SampleType = iota
	SampleSint
	SampleUint
	SampleDepth
)

func (s SampleType) String() string {
	switch s {
	case SampleFloat:
		return "float"
	case SampleSint:
		return "sint"
	case SampleUint:
		return "uint"
	case SampleDepth:
		return "depth"
	default:
		return "?"
	}
}

// AddressSpace enumerates pointer/variable address spaces.
type AddressSpace uint8

const (
	SpaceFunction AddressSpace = iota
	SpacePrivate
	SpaceWorkgroup
	SpaceUniform
	SpaceStorage
	SpaceHandle
)

func (s AddressSpace) String() string {
	switch s {
	case SpaceFunction:
		return "function"
	case SpacePrivate:
		return "private"
	case SpaceWorkgroup:
		return "workgroup"
	case SpaceUniform:
		return "uniform"
	case SpaceStorage:
		return "storage"
	case SpaceHandle:
		return "handle"
	default:
		return "?"
	}
}

// AccessMode enumerates pointer access modes.
type AccessMode uint8

const (
	AccessRead AccessMode = iota
	AccessWrite
	AccessReadWrite
)

func (a AccessMode) String() string {
	switch a {
	case AccessRead:
		return "read"
	case AccessWrite:
		return "write"
	case AccessReadWrite:
		return "read_write"
	default:
		return "?"
	}
}

// Ref is the structural, sum-type type reference described by the
// language's data model: exactly one Kind is meaningful at a time, the
// rest of the fields are zero. Ref is a plain value (no internal pointers
// except Elem, needed for recursive Array/Pointer element types) so two
// structurally identical types compare equal via Equal.
type Ref struct {
	Kind Kind

	Prim Primitive // KindPrimitive, and the element type for Vector/Matrix

	VecSize uint8 // KindVector: 2, 3, or 4

	MatCols uint8 // KindMatrix
	MatRows uint8 // KindMatrix

	Elem      *Ref    // KindArray element, KindPointer pointee
	ArraySize *uint32 // KindArray: nil means runtime-sized

	StructName string // KindStruct

	TexDim    TextureDim // KindTexture
	TexSample SampleType // KindTexture

	SamplerComparison bool // KindSampler

	Space  AddressSpace // KindPointer
	Access AccessMode   // KindPointer
}

// Equal reports whether two Refs describe the same structural type.
func (r Ref) Equal(o Ref) bool {
	if r.Kind != o.Kind {
		return false
	}
	switch r.Kind {
	case KindPrimitive:
		return r.Prim == o.Prim
	case KindVector:
		return r.VecSize == o.VecSize && r.Prim == o.Prim
	case KindMatrix:
		return r.MatCols == o.MatCols && r.MatRows == o.MatRows && r.Prim == o.Prim
	case KindArray:
		if (r.ArraySize == nil) != (o.ArraySize == nil) {
			return false
		}
		if r.ArraySize != nil && *r.ArraySize != *o.ArraySize {
			return false
		}
		if r.Elem == nil || o.Elem == nil {
			return r.Elem == o.Elem
		}
		return r.Elem.Equal(*o.Elem)
	case KindStruct:
		return r.StructName == o.StructName
	case KindTexture:
		return r.TexDim == o.TexDim && r.TexSample == o.TexSample
	case KindSampler:
		return r.SamplerComparison == o.SamplerComparison
	case KindPointer:
		if r.Space != o.Space || r.Access != o.Access {
			return false
		}
		if r.Elem == nil || o.Elem == nil {
			return r.Elem == o.Elem
		}
		return r.Elem.Equal(*o.Elem)
	default:
		return false
	}
}

// IsScalar reports whether the Ref is a bare primitive.
func (r Ref) IsScalar() bool { return r.Kind == KindPrimitive }

// Prm builds a primitive Ref.
func Prm(p Primitive) Ref { return Ref{Kind: KindPrimitive, Prim: p} }

// Vec builds a vector Ref.
func Vec(size uint8, elem Primitive) Ref {
	return Ref{Kind: KindVector, VecSize: size, Prim: elem}
}

// Mat builds a matrix Ref.
func Mat(cols, rows uint8, elem Primitive) Ref {
	return Ref{Kind: KindMatrix, MatCols: cols, MatRows: rows, Prim: elem}
}

// Arr builds an array Ref. size == nil means runtime-sized.
func Arr(elem Ref, size *uint32) Ref {
	e := elem
	return Ref{Kind: KindArray, Elem: &e, ArraySize: size}
}

// Struct builds a named struct reference (resolved via the Registry).
func Struct(name string) Ref { return Ref{Kind: KindStruct, StructName: name} }

// Tex builds a texture Ref.
func Tex(dim TextureDim, sample SampleType) Ref {
	return Ref{Kind: KindTexture, TexDim: dim, TexSample: sample}
}

// Sampler builds a sampler Ref.
func Sampler(comparison bool) Ref {
	return Ref{Kind: KindSampler, SamplerComparison: comparison}
}

// Ptr builds a pointer Ref.
func Ptr(space AddressSpace, elem Ref, access AccessMode) Ref {
	e := elem
	return Ref{Kind: KindPointer, Space: space, Elem: &e, Access: access}
}

// Field is one member of a registered struct, in declaration order.
type Field struct {
	Name string
	Type Ref
}

// Info is everything the registry knows about a registered type: its
// structural shape plus its WGSL-style byte size and alignment.
type Info struct {
	Ref   Ref
	Size  uint32
	Align uint32
}

var primitiveSize = map[Primitive]uint32{
	F32: 4, F16: 2, I32: 4, U32: 4, Bool: 4,
}

// Registry owns the canonical name -> TypeInfo mapping and the ordered
// field lists of every registered struct. One Registry is created per
// compilation and discarded with it; nothing is shared across
// compilations except the (read-only) builtin primitive size table above.
type Registry struct {
	byName       map[string]Info
	structFields map[string][]Field
	structOrder  []string
}

// New constructs a Registry pre-populated with scalars, the twelve vector
// variants, the eighteen matrix variants, eighteen texture variants, and
// both sampler kinds.
func New() *Registry {
	r := &Registry{
		byName:       make(map[string]Info, 64),
		structFields: make(map[string][]Field, 8),
	}
	r.registerBuiltins()
	return r
}

func (r *Registry) put(name string, ref Ref) {
	size, align := sizeAlign(r, ref)
	r.byName[name] = Info{Ref: ref, Size: size, Align: align}
}

func (r *Registry) registerBuiltins() {
	for _, p := range []Primitive{F32, F16, I32, U32, Bool} {
		r.put(p.String(), Prm(p))
	}

	vecElems := []Primitive{F32, F16, I32, U32} // 4 elems x 3 sizes = 12 variants
	for _, size := range []uint8{2, 3, 4} {
		for _, e := range vecElems {
			ref := Vec(size, e)
			r.put(TypeToString(ref), ref)
		}
	}

	matElems := []Primitive{F32, F16} // 9 shapes x 2 elems = 18 variants
	for _, cols := range []uint8{2, 3, 4} {
		for _, rows := range []uint8{2, 3, 4} {
			for _, e := range matElems {
				ref := Mat(cols, rows, e)
				r.put(TypeToString(ref), ref)
			}
		}
	}

	dims := []TextureDim{Dim1D, Dim2D, Dim3D, DimCube, Dim2DArray}
	samples := []SampleType{SampleFloat, SampleSint, SampleUint, SampleDepth}
	for _, d := range dims {
		depthAllowed := d == Dim2D || d == DimCube || d == Dim2DArray
		for _, s := range samples {
			if s == SampleDepth && !depthAllowed {
				continue
			}
			ref := Tex(d, s)
			r.put(TypeToString(ref), ref)
		}
	}

	r.put("sampler", Sampler(false))
	r.put("sampler_comparison", Sampler(true))
}

// RegisterStruct computes the struct's layout by walking its fields in
// declared order, bumping each field's offset up to its own alignment,
// tracking the maximum field alignment, and rounding the total size up to
// that maximum. Re-registering an existing name is last-write-wins (see
// DESIGN.md for why this resolves the spec's open question).
func (r *Registry) RegisterStruct(name string, fields []Field) Info {
	var offset, maxAlign uint32 = 0, 1
	for _, f := range fields {
		align, size := r.AlignAndSize(f.Type)
		if align > maxAlign {
			maxAlign = align
		}
		offset = roundUp(offset, align)
		offset += size
	}
	size := roundUp(offset, maxAlign)

	ref := Struct(name)
	info := Info{Ref: ref, Size: size, Align: maxAlign}
	r.byName[name] = info
	r.structFields[name] = append([]Field(nil), fields...)
	r.structOrder = append(r.structOrder, name)
	return info
}

// Fields returns the ordered field list of a registered struct.
func (r *Registry) Fields(structName string) ([]Field, bool) {
	f, ok := r.structFields[structName]
	return f, ok
}

// Lookup finds a registered type by its canonical (or builtin short) name.
func (r *Registry) Lookup(name string) (Info, bool) {
	info, ok := r.byName[name]
	return info, ok
}

// ParseType resolves a type spelling the same way the package-level
// ParseType does, but additionally recognizes registered struct names
// (and any other exact canonical spelling already in the registry) so
// that ParseType(TypeToString(T)) round-trips for every registered T,
// structs included.
func (r *Registry) ParseType(text string) (Ref, bool) {
	text = strings.TrimSpace(text)
	if info, ok := r.byName[text]; ok {
		return info.Ref, true
	}
	return ParseType(text)
}

// AlignAndSize returns the WGSL-style alignment and size of a Ref,
// resolving struct members through the registry.
func (r *Registry) AlignAndSize(ref Ref) (align, size uint32) {
	return sizeAlign(r, ref)
}

func sizeAlign(r *Registry, ref Ref) (align, size uint32) {
	switch ref.Kind {
	case KindPrimitive:
		s := primitiveSize[ref.Prim]
		return s, s
	case KindVector:
		e := primitiveSize[ref.Prim]
		switch ref.VecSize {
		case 2:
			return 2 * e, 2 * e
		case 3:
			return 4 * e, 3 * e
		case 4:
			return 4 * e, 4 * e
		}
		return e, e
	case KindMatrix:
		colAlign, _ := sizeAlign(r, Vec(ref.MatRows, ref.Prim))
		return colAlign, colAlign * uint32(ref.MatCols)
	case KindArray:
		if ref.Elem == nil {
			return 1, 0
		}
		elemAlign, elemSize := sizeAlign(r, *ref.Elem)
		stride := roundUp(elemSize, elemAlign)
		if ref.ArraySize == nil {
			return elemAlign, 0
		}
		return elemAlign, stride * *ref.ArraySize
	case KindStruct:
		if info, ok := r.byName[ref.StructName]; ok {
			return info.Align, info.Size
		}
		return 1, 0
	default: // texture, sampler, pointer: opaque handles, not host-resident
		return 1, 0
	}
}

func roundUp(offset, align uint32) uint32 {
	if align == 0 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}

// TypeToString renders the canonical long form of a Ref: `vec{n}<{elem}>`,
// `mat{cols}x{rows}<{elem}>`, and so on. This is the form ParseType always
// round-trips back to a structurally equal Ref.
func TypeToString(ref Ref) string {
	switch ref.Kind {
	case KindPrimitive:
		return ref.Prim.String()
	case KindVector:
		return fmt.Sprintf("vec%d<%s>", ref.VecSize, ref.Prim)
	case KindMatrix:
		return fmt.Sprintf("mat%dx%d<%s>", ref.MatCols, ref.MatRows, ref.Prim)
	case KindArray:
		elem := ""
		if ref.Elem != nil {
			elem = TypeToString(*ref.Elem)
		}
		if ref.ArraySize == nil {
			return fmt.Sprintf("array<%s>", elem)
		}
		return fmt.Sprintf("array<%s, %d>", elem, *ref.ArraySize)
	case KindStruct:
		return ref.StructName
	case KindTexture:
		if ref.TexSample == SampleDepth {
			return fmt.Sprintf("texture_depth_%s", ref.TexDim)
		}
		return fmt.Sprintf("texture_%s<%s>", ref.TexDim, sampleTypeElem(ref.TexSample))
	case KindSampler:
		if ref.SamplerComparison {
			return "sampler_comparison"
		}
		return "sampler"
	case KindPointer:
		elem := ""
		if ref.Elem != nil {
			elem = TypeToString(*ref.Elem)
		}
		return fmt.Sprintf("ptr<%s, %s, %s>", ref.Space, elem, ref.Access)
	default:
		return "?"
	}
}

package types

import (
	"strconv"
	"strings"
)

// ParseType recognizes both the short form (`vec3f`, `mat4x4h`) and the
// long form (`vec3<f32>`, `mat4x4<f32>`) of a type spelling. It returns
// false for unrecognized text rather than an error: unknown type names
// are a checker-level diagnostic, not a registry-level failure.
func ParseType(text string) (Ref, bool) {
	text = strings.TrimSpace(text)

	switch text {
	case "sampler":
		return Sampler(false), true
	case "sampler_comparison":
		return Sampler(true), true
	}

	if p, ok := parsePrimitiveName(text); ok {
		return Prm(p), true
	}
	if ref, ok := parseShortVec(text); ok {
		return ref, true
	}
	if ref, ok := parseShortMat(text); ok {
		return ref, true
	}

	if strings.HasPrefix(text, "texture_depth_") {
		if dim, ok := parseDim(strings.TrimPrefix(text, "texture_depth_")); ok {
			return Tex(dim, SampleDepth), true
		}
		return Ref{}, false
	}

	name, inner, ok := splitGeneric(text)
	if !ok {
		return Ref{}, false
	}

	switch {
	case strings.HasPrefix(name, "vec"):
		size, err := strconv.Atoi(name[3:])
		if err != nil {
			return Ref{}, false
		}
		elem, ok := parsePrimitiveName(strings.TrimSpace(inner))
		if !ok {
			return Ref{}, false
		}
		return Vec(uint8(size), elem), true

	case strings.HasPrefix(name, "mat"):
		dims := strings.SplitN(name[3:], "x", 2)
		if len(dims) != 2 {
			return Ref{}, false
		}
		cols, err1 := strconv.Atoi(dims[0])
		rows, err2 := strconv.Atoi(dims[1])
		if err1 != nil || err2 != nil {
			return Ref{}, false
		}
		elem, ok := parsePrimitiveName(strings.TrimSpace(inner))
		if !ok {
			return Ref{}, false
		}
		return Mat(uint8(cols), uint8(rows), elem), true

	case name == "array":
		args := splitTopLevel(inner, ',')
		if len(args) == 0 {
			return Ref{}, false
		}
		elemRef, ok := ParseType(strings.TrimSpace(args[0]))
		if !ok {
			return Ref{}, false
		}
		if len(args) > 1 {
			n, err := strconv.ParseUint(strings.TrimSpace(args[1]), 10, 32)
			if err != nil {
				return Ref{}, false
			}
			nn := uint32(n)
			return Arr(elemRef, &nn), true
		}
		return Arr(elemRef, nil), true

	case strings.HasPrefix(name, "texture_"):
		dim, ok := parseDim(strings.TrimPrefix(name, "texture_"))
		if !ok {
			return Ref{}, false
		}
		elem, ok := parsePrimitiveName(strings.TrimSpace(inner))
		if !ok {
			return Ref{}, false
		}
		return Tex(dim, sampleTypeFromElem(elem)), true

	case name == "ptr":
		args := splitTopLevel(inner, ',')
		if len(args) < 2 {
			return Ref{}, false
		}
		space, ok := parseSpaceName(strings.TrimSpace(args[0]))
		if !ok {
			return Ref{}, false
		}
		elemRef, ok := ParseType(strings.TrimSpace(args[1]))
		if !ok {
			return Ref{}, false
		}
		access := AccessRead
		if len(args) > 2 {
			if a, ok := parseAccessName(strings.TrimSpace(args[2])); ok {
				access = a
			}
		}
		return Ptr(space, elemRef, access), true
	}

	return Ref{}, false
}

func parsePrimitiveName(s string) (Primitive, bool) {
	switch s {
	case "f32":
		return F32, true
	case "f16":
		return F16, true
	case "i32":
		return I32, true
	case "u32":
		return U32, true
	case "bool":
		return Bool, true
	default:
		return 0, false
	}
}

// parseShortVec recognizes vec2f, vec3h, vec4i, vec2u and similar.
func parseShortVec(text string) (Ref, bool) {
	if len(text) != 5 || !strings.HasPrefix(text, "vec") {
		return Ref{}, false
	}
	sizeCh, suffix := text[3], text[4]
	if sizeCh < '2' || sizeCh > '4' {
		return Ref{}, false
	}
	elem, ok := suffixToPrimitive(suffix)
	if !ok {
		return Ref{}, false
	}
	return Vec(uint8(sizeCh-'0'), elem), true
}

// parseShortMat recognizes mat2x2f, mat4x4h and similar.
func parseShortMat(text string) (Ref, bool) {
	if len(text) != 7 || !strings.HasPrefix(text, "mat") || text[4] != 'x' {
		return Ref{}, false
	}
	c, r, suffix := text[3], text[5], text[6]
	if c < '2' || c > '4' || r < '2' || r > '4' {
		return Ref{}, false
	}
	elem, ok := suffixToPrimitive(suffix)
	if !ok {
		return Ref{}, false
	}
	return Mat(uint8(c-'0'), uint8(r-'0'), elem), true
}

func suffixToPrimitive(b byte) (Primitive, bool) {
	switch b {
	case 'f':
		return F32, true
	case 'h':
		return F16, true
	case 'i':
		return I32, true
	case 'u':
		return U32, true
	default:
		return 0, false
	}
}

func parseDim(s string) (TextureDim, bool) {
	switch s {
	case "1d":
		return Dim1D, true
	case "2d":
		return Dim2D, true
	case "3d":
		return Dim3D, true
	case "cube":
		return DimCube, true
	case "2d_array":
		return Dim2DArray, true
	default:
		return 0, false
	}
}

func parseSpaceName(s string) (AddressSpace, bool) {
	switch s {
	case "function":
		return SpaceFunction, true
	case "private":
		return SpacePrivate, true
	case "workgroup":
		return SpaceWorkgroup, true
	case "uniform":
		return SpaceUniform, true
	case "storage":
		return SpaceStorage, true
	case "handle":
		return SpaceHandle, true
	default:
		return 0, false
	}
}

func parseAccessName(s string) (AccessMode, bool) {
	switch s {
	case "read":
		return AccessRead, true
	case "write":
		return AccessWrite, true
	case "read_write":
		return AccessReadWrite, true
	default:
		return 0, false
	}
}

func sampleTypeFromElem(p Primitive) SampleType {
	switch p {
	case I32:
		return SampleSint
	case U32:
		return SampleUint
	default:
		return SampleFloat
	}
}

func sampleTypeElem(s SampleType) Primitive {
	switch s {
	case SampleSint:
		return I32
	case SampleUint:
		return U32
	default:
		return F32
	}
}

// splitGeneric splits "name<inner>" into ("name", "inner"), respecting
// nested angle brackets so e.g. "ptr<function, array<f32, 4>, read>"
// splits correctly.
func splitGeneric(text string) (name, inner string, ok bool) {
	idx := strings.IndexByte(text, '<')
	if idx < 0 {
		return "", "", false
	}
	name = text[:idx]
	depth := 0
	for i := idx; i < len(text); i++ {
		switch text[i] {
		case '<':
			depth++
		case '>':
			depth--
			if depth == 0 {
				return name, text[idx+1 : i], true
			}
		}
	}
	return "", "", false
}

// splitTopLevel splits s on sep, ignoring occurrences nested inside angle
// brackets.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth, last := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
	}
	parts = append(parts, s[last:])
	return parts
}

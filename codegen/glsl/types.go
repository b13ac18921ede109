// Package glsl implements spec.md 4.9's versioned-GLSL target: a
// vertex/fragment pair at `#version 300 es`, built by rewriting the
// same IR the modern target consumes through GLSL's narrower type and
// statement vocabulary.
package glsl

import (
	"fmt"

	"github.com/shader3d/compiler/types"
)

// typeToGLSL renders ref in GLSL spelling: scalars drop their width
// suffix, vectors/matrices take GLSL's prefix-letter convention
// (bvec/ivec/uvec/vec, mat{n} for square, mat{c}x{r} otherwise).
func typeToGLSL(ref types.Ref) string {
	switch ref.Kind {
	case types.KindPrimitive:
		return scalarToGLSL(ref.Prim)
	case types.KindVector:
		return fmt.Sprintf("%svec%d", vecPrefix(ref.Prim), ref.VecSize)
	case types.KindMatrix:
		if ref.MatCols == ref.MatRows {
			return fmt.Sprintf("mat%d", ref.MatCols)
		}
		return fmt.Sprintf("mat%dx%d", ref.MatCols, ref.MatRows)
	case types.KindArray:
		elem := ""
		if ref.Elem != nil {
			elem = typeToGLSL(*ref.Elem)
		}
		return elem // array-ness is rendered in the declarator, GLSL-style
	case types.KindStruct:
		return ref.StructName
	case types.KindSampler:
		return "sampler2D"
	case types.KindTexture:
		return "sampler2D"
	default:
		return "float"
	}
}

func scalarToGLSL(p types.Primitive) string {
	switch p {
	case types.Bool:
		return "bool"
	case types.I32:
		return "int"
	case types.U32:
		return "uint"
	default:
		return "float"
	}
}

func vecPrefix(p types.Primitive) string {
	switch p {
	case types.Bool:
		return "b"
	case types.I32:
		return "i"
	case types.U32:
		return "u"
	default:
		return ""
	}
}

// arraySuffix renders `array<T, N>`'s trailing `[N]` GLSL declarator
// suffix, or "" for non-array / unsized-array types.
func arraySuffix(ref types.Ref) string {
	if ref.Kind != types.KindArray || ref.ArraySize == nil {
		return ""
	}
	return fmt.Sprintf("[%d]", *ref.ArraySize)
}

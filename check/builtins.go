package check

import "github.com/shader3d/compiler/types"

// builtinKind classifies how a builtin function's return type relates
// to its arguments.
type builtinKind uint8

const (
	builtinElementwise builtinKind = iota // returns same type as arg0
	builtinToScalarF32                    // always returns f32 (length, distance, dot)
	builtinTexture                        // always returns vec4<f32>
	builtinSameAsArg0Vector                // normalize/reflect/refract: vector in, same vector out
)

type builtinSig struct {
	kind builtinKind
}

var builtins = map[string]builtinSig{
	"sin": {builtinElementwise}, "cos": {builtinElementwise}, "tan": {builtinElementwise},
	"abs": {builtinElementwise}, "floor": {builtinElementwise}, "ceil": {builtinElementwise},
	"round": {builtinElementwise}, "trunc": {builtinElementwise}, "fract": {builtinElementwise},
	"saturate": {builtinElementwise}, "exp": {builtinElementwise}, "log": {builtinElementwise},
	"sqrt": {builtinElementwise}, "inverseSqrt": {builtinElementwise},
	"radians": {builtinElementwise}, "degrees": {builtinElementwise},
	"min": {builtinElementwise}, "max": {builtinElementwise}, "pow": {builtinElementwise},
	"atan2": {builtinElementwise}, "step": {builtinElementwise}, "clamp": {builtinElementwise},
	"mix": {builtinElementwise}, "smoothstep": {builtinElementwise}, "fma": {builtinElementwise},

	"dot": {builtinToScalarF32}, "length": {builtinToScalarF32}, "distance": {builtinToScalarF32},

	"cross": {builtinSameAsArg0Vector}, "normalize": {builtinSameAsArg0Vector},
	"reflect": {builtinSameAsArg0Vector}, "refract": {builtinSameAsArg0Vector},

	"textureSample": {builtinTexture}, "textureLoad": {builtinTexture}, "textureStore": {builtinTexture},

	"dpdx": {builtinElementwise}, "dpdy": {builtinElementwise}, "fwidth": {builtinElementwise},
}

var builtinNames = func() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	return names
}()

// inferBuiltinCall resolves a builtin function call's return type given
// its already-inferred argument types. Returns (type, true) on success.
func inferBuiltinCall(name string, args []types.Ref) (types.Ref, bool) {
	sig, ok := builtins[name]
	if !ok {
		return types.Ref{}, false
	}
	switch sig.kind {
	case builtinToScalarF32:
		return types.Prm(types.F32), true
	case builtinTexture:
		return types.Vec(4, types.F32), true
	case builtinSameAsArg0Vector, builtinElementwise:
		if len(args) > 0 {
			return args[0], true
		}
		return types.Prm(types.F32), true
	default:
		return types.Prm(types.F32), true
	}
}

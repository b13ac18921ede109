package transform

import (
	"github.com/shader3d/compiler/ast"
	"github.com/shader3d/compiler/ir"
	"github.com/shader3d/compiler/types"
)

// mathRewrite is the spec.md 4.6 table mapping `Math.NAME` to the
// target builtin of the same name. Every entry happens to be the
// identity, since the surface builtins already use the target
// spelling; the table exists so a future divergent target name has a
// single place to land, and so unknown Math.* members fall back to
// their bare name rather than panicking.
var mathRewrite = map[string]string{
	"sin": "sin", "cos": "cos", "tan": "tan", "abs": "abs",
	"floor": "floor", "ceil": "ceil", "round": "round", "sqrt": "sqrt",
	"pow": "pow", "min": "min", "max": "max", "exp": "exp",
	"log": "log", "atan2": "atan2",
}

func mathBuiltinName(member string) string {
	if target, ok := mathRewrite[member]; ok {
		return target
	}
	return member
}

// mathConstant rewrites a bare (non-called) Math.PI / Math.E reference
// to the corresponding decimal literal, per spec.md 4.6.
func mathConstant(n *ast.MemberExpr) (*ir.Literal, bool) {
	obj, ok := n.Object.(*ast.IdentExpr)
	if !ok || obj.Name != "Math" {
		return nil, false
	}
	switch n.Name {
	case "PI":
		return &ir.Literal{Type: types.Prm(types.F32), Kind: "float", Text: "3.141592653589793"}, true
	case "E":
		return &ir.Literal{Type: types.Prm(types.F32), Kind: "float", Text: "2.718281828459045"}, true
	default:
		return nil, false
	}
}

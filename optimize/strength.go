package optimize

import "github.com/shader3d/compiler/ir"

// strengthReductionPass implements spec.md 4.7's Strength Reduction
// row: x/2 -> x*0.5; x/4 -> x*0.25; x/8 -> x*0.125; x*2 -> x+x.
func strengthReductionPass(m *ir.Module) (changed bool, reduced int) {
	rule := func(e ir.Expression) (ir.Expression, bool) {
		b, ok := e.(*ir.Binary)
		if !ok {
			return e, false
		}
		switch {
		case b.Op == "/" && isLiteralValue(b.Right, 2):
			reduced++
			return &ir.Binary{Type: b.Type, Op: "*", Left: b.Left, Right: &ir.Literal{Type: b.Type, Kind: "float", Text: "0.5"}}, true
		case b.Op == "/" && isLiteralValue(b.Right, 4):
			reduced++
			return &ir.Binary{Type: b.Type, Op: "*", Left: b.Left, Right: &ir.Literal{Type: b.Type, Kind: "float", Text: "0.25"}}, true
		case b.Op == "/" && isLiteralValue(b.Right, 8):
			reduced++
			return &ir.Binary{Type: b.Type, Op: "*", Left: b.Left, Right: &ir.Literal{Type: b.Type, Kind: "float", Text: "0.125"}}, true
		case b.Op == "*" && isLiteralValue(b.Right, 2) && ir.IsPure(b.Left):
			reduced++
			return &ir.Binary{Type: b.Type, Op: "+", Left: b.Left, Right: cloneExpr(b.Left)}, true
		}
		return e, false
	}
	changed = forEachFunctionBody(m, func(body []ir.Statement) bool {
		return rewriteStmts(body, rule)
	})
	return changed, reduced
}

package optimize

import "github.com/shader3d/compiler/ir"

// algebraicPass implements spec.md 4.7's Algebraic Simplification row:
// x+0, 0+x, x-0 -> x; x*1, 1*x, x/1 -> x; x*0, 0*x -> 0; x-x -> 0;
// x/x -> 1; -(-x) -> x; clamp(x,0,1) -> saturate(x).
func algebraicPass(m *ir.Module) (changed bool, simplified int) {
	rule := func(e ir.Expression) (ir.Expression, bool) {
		if out, ok := simplifyBinary(e); ok {
			simplified++
			return out, true
		}
		if out, ok := simplifyUnary(e); ok {
			simplified++
			return out, true
		}
		if out, ok := simplifyClamp(e); ok {
			simplified++
			return out, true
		}
		return e, false
	}
	changed = forEachFunctionBody(m, func(body []ir.Statement) bool {
		return rewriteStmts(body, rule)
	})
	return changed, simplified
}

func isLiteralValue(e ir.Expression, v float64) bool {
	lit, ok := asLiteral(e)
	if !ok {
		return false
	}
	lv, ok := litValue(lit)
	return ok && lv == v
}

func simplifyBinary(e ir.Expression) (ir.Expression, bool) {
	b, ok := e.(*ir.Binary)
	if !ok {
		return nil, false
	}
	switch b.Op {
	case "+":
		if isLiteralValue(b.Right, 0) {
			return b.Left, true
		}
		if isLiteralValue(b.Left, 0) {
			return b.Right, true
		}
	case "-":
		if isLiteralValue(b.Right, 0) {
			return b.Left, true
		}
		if ir.Equal(b.Left, b.Right) && ir.IsPure(b.Left) {
			return formatNumber(0, "float", b.Type), true
		}
	case "*":
		if isLiteralValue(b.Right, 1) {
			return b.Left, true
		}
		if isLiteralValue(b.Left, 1) {
			return b.Right, true
		}
		if (isLiteralValue(b.Right, 0) || isLiteralValue(b.Left, 0)) && ir.IsPure(b.Left) && ir.IsPure(b.Right) {
			return formatNumber(0, "float", b.Type), true
		}
	case "/":
		if isLiteralValue(b.Right, 1) {
			return b.Left, true
		}
		if ir.Equal(b.Left, b.Right) && ir.IsPure(b.Left) {
			return formatNumber(1, "float", b.Type), true
		}
	}
	return nil, false
}

func simplifyUnary(e ir.Expression) (ir.Expression, bool) {
	u, ok := e.(*ir.Unary)
	if !ok || u.Op != "-" {
		return nil, false
	}
	inner, ok := u.Expr.(*ir.Unary)
	if !ok || inner.Op != "-" {
		return nil, false
	}
	return inner.Expr, true
}

func simplifyClamp(e ir.Expression) (ir.Expression, bool) {
	c, ok := e.(*ir.Call)
	if !ok || c.Callee != "clamp" || len(c.Args) != 3 {
		return nil, false
	}
	if isLiteralValue(c.Args[1], 0) && isLiteralValue(c.Args[2], 1) {
		return &ir.Call{Type: c.Type, Callee: "saturate", Args: c.Args[:1]}, true
	}
	return nil, false
}

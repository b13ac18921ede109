package optimize

import "github.com/shader3d/compiler/ir"

// constantFoldPass implements spec.md 4.7's Constant Folding row:
// numeric (a op b) where both are literals; sin(0)->0, cos(0)->1;
// pow(x,2)->x*x, pow(x,3)->x*x*x, pow(x,0.5)->sqrt(x), pow(x,-1)->1/x;
// sqrt(0)->0, sqrt(1)->1; abs/floor/ceil of a literal.
func constantFoldPass(m *ir.Module) (changed bool, folded int) {
	rule := func(e ir.Expression) (ir.Expression, bool) {
		if out, ok := foldBinary(e); ok {
			folded++
			return out, true
		}
		if out, ok := foldCall(e); ok {
			folded++
			return out, true
		}
		return e, false
	}
	changed = forEachFunctionBody(m, func(body []ir.Statement) bool {
		return rewriteStmts(body, rule)
	})
	return changed, folded
}

func foldBinary(e ir.Expression) (ir.Expression, bool) {
	b, ok := e.(*ir.Binary)
	if !ok {
		return nil, false
	}
	lLit, lok := asLiteral(b.Left)
	rLit, rok := asLiteral(b.Right)
	if !lok || !rok {
		return nil, false
	}
	lv, lvok := litValue(lLit)
	rv, rvok := litValue(rLit)
	if !lvok || !rvok {
		return nil, false
	}
	kind := resultKind(lLit.Kind, rLit.Kind)
	switch b.Op {
	case "+":
		return formatNumber(lv+rv, kind, b.Type), true
	case "-":
		return formatNumber(lv-rv, kind, b.Type), true
	case "*":
		return formatNumber(lv*rv, kind, b.Type), true
	case "/":
		if rv == 0 {
			return nil, false
		}
		return formatNumber(lv/rv, kind, b.Type), true
	}
	return nil, false
}

func foldCall(e ir.Expression) (ir.Expression, bool) {
	c, ok := e.(*ir.Call)
	if !ok {
		return nil, false
	}
	switch c.Callee {
	case "sin", "cos", "sqrt":
		if len(c.Args) != 1 {
			return nil, false
		}
		lit, ok := asLiteral(c.Args[0])
		if !ok {
			return nil, false
		}
		v, ok := litValue(lit)
		if !ok {
			return nil, false
		}
		switch {
		case c.Callee == "sin" && v == 0:
			return formatNumber(0, "float", c.Type), true
		case c.Callee == "cos" && v == 0:
			return formatNumber(1, "float", c.Type), true
		case c.Callee == "sqrt" && v == 0:
			return formatNumber(0, "float", c.Type), true
		case c.Callee == "sqrt" && v == 1:
			return formatNumber(1, "float", c.Type), true
		}
		return nil, false
	case "abs", "floor", "ceil":
		if len(c.Args) != 1 {
			return nil, false
		}
		lit, ok := asLiteral(c.Args[0])
		if !ok {
			return nil, false
		}
		v, ok := litValue(lit)
		if !ok {
			return nil, false
		}
		switch c.Callee {
		case "abs":
			if v < 0 {
				v = -v
			}
		case "floor":
			v = float64(int64(v)) - boolToFloat(v < 0 && v != float64(int64(v)))
		case "ceil":
			v = float64(int64(v)) + boolToFloat(v > 0 && v != float64(int64(v)))
		}
		return formatNumber(v, lit.Kind, c.Type), true
	case "pow":
		if len(c.Args) != 2 {
			return nil, false
		}
		exp, ok := asLiteral(c.Args[1])
		if !ok {
			return nil, false
		}
		ev, ok := litValue(exp)
		if !ok {
			return nil, false
		}
		base := c.Args[0]
		switch ev {
		case 2:
			return &ir.Binary{Type: c.Type, Op: "*", Left: base, Right: cloneExpr(base)}, true
		case 3:
			sq := &ir.Binary{Type: c.Type, Op: "*", Left: base, Right: cloneExpr(base)}
			return &ir.Binary{Type: c.Type, Op: "*", Left: sq, Right: cloneExpr(base)}, true
		case 0.5:
			return &ir.Call{Type: c.Type, Callee: "sqrt", Args: []ir.Expression{base}}, true
		case -1:
			return &ir.Binary{Type: c.Type, Op: "/", Left: &ir.Literal{Type: c.Type, Kind: "float", Text: "1.0"}, Right: base}, true
		}
		return nil, false
	}
	return nil, false
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// cloneExpr makes a shallow copy of a literal/ident leaf so the same
// sub-tree isn't aliased twice in the rewritten tree (pow(x,2) -> x*x
// duplicates the base expression; CSE downstream will happily dedupe it
// back if it's pure).
func cloneExpr(e ir.Expression) ir.Expression {
	switch n := e.(type) {
	case *ir.Literal:
		c := *n
		return &c
	case *ir.Ident:
		c := *n
		return &c
	default:
		return e
	}
}

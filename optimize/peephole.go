package optimize

import "github.com/shader3d/compiler/ir"

// peepholePass implements spec.md 4.7's Peephole row: (a*b)+c ->
// fma(a,b,c); max(min(x,1),0) or min(max(x,0),1) -> saturate(x);
// length(a-b) -> distance(a,b); x/length(y) -> normalize(y) when x==y.
func peepholePass(m *ir.Module) (changed bool, rewritten int) {
	rule := func(e ir.Expression) (ir.Expression, bool) {
		if out, ok := fmaRewrite(e); ok {
			rewritten++
			return out, true
		}
		if out, ok := saturateRewrite(e); ok {
			rewritten++
			return out, true
		}
		if out, ok := distanceRewrite(e); ok {
			rewritten++
			return out, true
		}
		if out, ok := normalizeRewrite(e); ok {
			rewritten++
			return out, true
		}
		return e, false
	}
	changed = forEachFunctionBody(m, func(body []ir.Statement) bool {
		return rewriteStmts(body, rule)
	})
	return changed, rewritten
}

func fmaRewrite(e ir.Expression) (ir.Expression, bool) {
	b, ok := e.(*ir.Binary)
	if !ok || b.Op != "+" {
		return nil, false
	}
	mul, ok := b.Left.(*ir.Binary)
	if !ok || mul.Op != "*" {
		return nil, false
	}
	return &ir.Call{Type: b.Type, Callee: "fma", Args: []ir.Expression{mul.Left, mul.Right, b.Right}}, true
}

func saturateRewrite(e ir.Expression) (ir.Expression, bool) {
	c, ok := e.(*ir.Call)
	if !ok || len(c.Args) != 2 {
		return nil, false
	}
	switch c.Callee {
	case "max":
		if inner, ok := c.Args[0].(*ir.Call); ok && inner.Callee == "min" && len(inner.Args) == 2 &&
			isLiteralValue(inner.Args[1], 1) && isLiteralValue(c.Args[1], 0) {
			return &ir.Call{Type: c.Type, Callee: "saturate", Args: []ir.Expression{inner.Args[0]}}, true
		}
	case "min":
		if inner, ok := c.Args[0].(*ir.Call); ok && inner.Callee == "max" && len(inner.Args) == 2 &&
			isLiteralValue(inner.Args[1], 0) && isLiteralValue(c.Args[1], 1) {
			return &ir.Call{Type: c.Type, Callee: "saturate", Args: []ir.Expression{inner.Args[0]}}, true
		}
	}
	return nil, false
}

func distanceRewrite(e ir.Expression) (ir.Expression, bool) {
	c, ok := e.(*ir.Call)
	if !ok || c.Callee != "length" || len(c.Args) != 1 {
		return nil, false
	}
	sub, ok := c.Args[0].(*ir.Binary)
	if !ok || sub.Op != "-" {
		return nil, false
	}
	return &ir.Call{Type: c.Type, Callee: "distance", Args: []ir.Expression{sub.Left, sub.Right}}, true
}

func normalizeRewrite(e ir.Expression) (ir.Expression, bool) {
	b, ok := e.(*ir.Binary)
	if !ok || b.Op != "/" {
		return nil, false
	}
	call, ok := b.Right.(*ir.Call)
	if !ok || call.Callee != "length" || len(call.Args) != 1 {
		return nil, false
	}
	if !ir.Equal(b.Left, call.Args[0]) {
		return nil, false
	}
	return &ir.Call{Type: b.Type, Callee: "normalize", Args: []ir.Expression{call.Args[0]}}, true
}

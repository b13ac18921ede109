package optimize

import "github.com/shader3d/compiler/ir"

const defaultInlineSizeThreshold = 8

// inliningPass implements spec.md 4.7's Inlining row: replace a call
// to a non-recursive function whose body size <= threshold with its
// substituted body (parameter -> argument); cycles detected via DFS on
// the call graph. Inlining only fires where a call appears as the
// whole right-hand side of a statement (a VarDecl initializer, a bare
// ExprStmt, or a ReturnStmt value) — splicing a multi-statement body
// into the middle of an arbitrary expression tree would require a
// temporary-variable hoist this pass doesn't perform, so calls nested
// inside a larger expression are left for a future pass (documented in
// DESIGN.md rather than silently mishandled).
func inliningPass(m *ir.Module, threshold int) (changed bool, inlined int) {
	if threshold <= 0 {
		threshold = defaultInlineSizeThreshold
	}
	funcs := make(map[string]*ir.Function, len(m.Functions))
	for i := range m.Functions {
		funcs[m.Functions[i].Name] = &m.Functions[i]
	}
	cg := ir.BuildCallGraph(m)

	for i := range m.Functions {
		newBody, n := inlineBlock(m.Functions[i].Body, funcs, cg, threshold)
		if n > 0 {
			m.Functions[i].Body = newBody
			inlined += n
			changed = true
		}
	}
	return changed, inlined
}

func inlineBlock(stmts []ir.Statement, funcs map[string]*ir.Function, cg ir.CallGraph, threshold int) ([]ir.Statement, int) {
	out := make([]ir.Statement, 0, len(stmts))
	total := 0
	for _, s := range stmts {
		switch n := s.(type) {
		case *ir.IfStmt:
			then, c1 := inlineBlock(n.Then, funcs, cg, threshold)
			els, c2 := inlineBlock(n.Else, funcs, cg, threshold)
			n.Then, n.Else = then, els
			total += c1 + c2
			out = append(out, n)
			continue
		case *ir.ForStmt:
			body, c := inlineBlock(n.Body, funcs, cg, threshold)
			n.Body = body
			total += c
			out = append(out, n)
			continue
		case *ir.WhileStmt:
			body, c := inlineBlock(n.Body, funcs, cg, threshold)
			n.Body = body
			total += c
			out = append(out, n)
			continue
		case *ir.BlockStmt:
			body, c := inlineBlock(n.Body, funcs, cg, threshold)
			n.Body = body
			total += c
			out = append(out, n)
			continue
		}

		call, callSite := extractCallSite(s, funcs, cg, threshold)
		if call == nil {
			out = append(out, s)
			continue
		}
		prelude, result := expandInline(call, funcs)
		out = append(out, prelude...)
		total++
		switch n := s.(type) {
		case *ir.VarDecl:
			n.Init = result
			out = append(out, n)
		case *ir.ReturnStmt:
			n.Value = result
			out = append(out, n)
		case *ir.ExprStmt:
			if callSite { // value unused: the side-effect-free prelude already covers it
				continue
			}
			n.Expr = result
			out = append(out, n)
		}
	}
	return out, total
}

// extractCallSite returns the Call to inline if s is exactly a VarDecl
// init, ReturnStmt value, or ExprStmt expression that is itself a
// direct call to a small, non-recursive, known function.
func extractCallSite(s ir.Statement, funcs map[string]*ir.Function, cg ir.CallGraph, threshold int) (*ir.Call, bool) {
	var e ir.Expression
	switch n := s.(type) {
	case *ir.VarDecl:
		e = n.Init
	case *ir.ReturnStmt:
		e = n.Value
	case *ir.ExprStmt:
		e = n.Expr
		call, ok := e.(*ir.Call)
		if ok && inlinable(call, funcs, cg, threshold) {
			return call, true
		}
		return nil, false
	}
	call, ok := e.(*ir.Call)
	if !ok || !inlinable(call, funcs, cg, threshold) {
		return nil, false
	}
	return call, false
}

func inlinable(call *ir.Call, funcs map[string]*ir.Function, cg ir.CallGraph, threshold int) bool {
	fn, ok := funcs[call.Callee]
	if !ok || fn.EntryPoint {
		return false
	}
	if cg.HasCycle(fn.Name) {
		return false
	}
	return statementCount(fn.Body) <= threshold
}

func statementCount(stmts []ir.Statement) int {
	n := 0
	for _, s := range stmts {
		n++
		switch b := s.(type) {
		case *ir.IfStmt:
			n += statementCount(b.Then) + statementCount(b.Else)
		case *ir.ForStmt:
			n += statementCount(b.Body)
		case *ir.WhileStmt:
			n += statementCount(b.Body)
		case *ir.BlockStmt:
			n += statementCount(b.Body)
		}
	}
	return n
}

// expandInline substitutes call.Args for fn's parameters throughout a
// fresh copy of its body, returning every statement but the trailing
// return as the prelude and the (substituted) return value as result.
// A body with no trailing return yields a zero-literal result, which
// only matters if the call's value was actually consumed (rare: a
// void-style helper used as an expression is already a checker error).
func expandInline(call *ir.Call, funcs map[string]*ir.Function) ([]ir.Statement, ir.Expression) {
	fn := funcs[call.Callee]
	subst := make(map[string]ir.Expression, len(fn.Params))
	for i, p := range fn.Params {
		if i < len(call.Args) {
			subst[p.Name] = call.Args[i]
		}
	}

	body := make([]ir.Statement, len(fn.Body))
	copy(body, fn.Body)
	substituteStmts(body, subst)

	if n := len(body); n > 0 {
		if ret, ok := body[n-1].(*ir.ReturnStmt); ok {
			return body[:n-1], ret.Value
		}
	}
	return body, &ir.Literal{Type: call.Type, Kind: "int", Text: "0"}
}

func substituteStmts(stmts []ir.Statement, subst map[string]ir.Expression) {
	rule := func(e ir.Expression) (ir.Expression, bool) {
		if id, ok := e.(*ir.Ident); ok {
			if v, ok := subst[id.Name]; ok {
				return v, true
			}
		}
		return e, false
	}
	rewriteStmts(stmts, rule)
}

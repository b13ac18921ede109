// Package optimize is the level-gated fixpoint driver over an ordered
// pass list (spec.md 4.7): each pass rewrites the ir.Module returned by
// transform.Transform in place and reports whether it changed anything;
// the driver reruns the full ordered list until a pass cycle makes no
// change or the iteration cap is hit.
package optimize

import "github.com/shader3d/compiler/ir"

// exprRule rewrites a single expression node (its children already
// rewritten) and reports whether it changed. Returning the same
// pointer with ok=false means "no rewrite here".
type exprRule func(ir.Expression) (ir.Expression, bool)

// rewriteExprTree applies rule bottom-up: children first, then the
// node itself, so e.g. constant folding sees already-folded operands.
func rewriteExprTree(e ir.Expression, rule exprRule) (ir.Expression, bool) {
	if e == nil {
		return nil, false
	}
	changed := false
	switch n := e.(type) {
	case *ir.Unary:
		if c, ok := rewriteExprTree(n.Expr, rule); ok {
			n.Expr = c
			changed = true
		}
	case *ir.Binary:
		if c, ok := rewriteExprTree(n.Left, rule); ok {
			n.Left = c
			changed = true
		}
		if c, ok := rewriteExprTree(n.Right, rule); ok {
			n.Right = c
			changed = true
		}
	case *ir.Call:
		for i, a := range n.Args {
			if c, ok := rewriteExprTree(a, rule); ok {
				n.Args[i] = c
				changed = true
			}
		}
	case *ir.VectorConstruct:
		for i, a := range n.Args {
			if c, ok := rewriteExprTree(a, rule); ok {
				n.Args[i] = c
				changed = true
			}
		}
	case *ir.Member:
		if c, ok := rewriteExprTree(n.Object, rule); ok {
			n.Object = c
			changed = true
		}
	case *ir.Index:
		if c, ok := rewriteExprTree(n.Array, rule); ok {
			n.Array = c
			changed = true
		}
		if c, ok := rewriteExprTree(n.Idx, rule); ok {
			n.Idx = c
			changed = true
		}
	case *ir.Assign:
		if c, ok := rewriteExprTree(n.Value, rule); ok {
			n.Value = c
			changed = true
		}
	}
	if out, ok := rule(e); ok {
		return out, true
	}
	if changed {
		return e, true
	}
	return e, false
}

// rewriteStmts walks a statement list, rewriting every reachable
// expression with rule and recursing into nested bodies. Reports
// whether anything changed.
func rewriteStmts(stmts []ir.Statement, rule exprRule) bool {
	changed := false
	for _, s := range stmts {
		switch n := s.(type) {
		case *ir.VarDecl:
			if n.Init != nil {
				if c, ok := rewriteExprTree(n.Init, rule); ok {
					n.Init = c
					changed = true
				}
			}
		case *ir.ExprStmt:
			if c, ok := rewriteExprTree(n.Expr, rule); ok {
				n.Expr = c
				changed = true
			}
		case *ir.ReturnStmt:
			if n.Value != nil {
				if c, ok := rewriteExprTree(n.Value, rule); ok {
					n.Value = c
					changed = true
				}
			}
		case *ir.IfStmt:
			if c, ok := rewriteExprTree(n.Cond, rule); ok {
				n.Cond = c
				changed = true
			}
			if rewriteStmts(n.Then, rule) {
				changed = true
			}
			if rewriteStmts(n.Else, rule) {
				changed = true
			}
		case *ir.ForStmt:
			if n.Init != nil && rewriteStmts([]ir.Statement{n.Init}, rule) {
				changed = true
			}
			if n.Cond != nil {
				if c, ok := rewriteExprTree(n.Cond, rule); ok {
					n.Cond = c
					changed = true
				}
			}
			if n.Post != nil && rewriteStmts([]ir.Statement{n.Post}, rule) {
				changed = true
			}
			if rewriteStmts(n.Body, rule) {
				changed = true
			}
		case *ir.WhileStmt:
			if c, ok := rewriteExprTree(n.Cond, rule); ok {
				n.Cond = c
				changed = true
			}
			if rewriteStmts(n.Body, rule) {
				changed = true
			}
		case *ir.BlockStmt:
			if rewriteStmts(n.Body, rule) {
				changed = true
			}
		}
	}
	return changed
}

// forEachFunctionBody runs fn over every function body in m, reporting
// whether any call changed its body.
func forEachFunctionBody(m *ir.Module, fn func([]ir.Statement) bool) bool {
	changed := false
	for i := range m.Functions {
		if fn(m.Functions[i].Body) {
			changed = true
		}
	}
	return changed
}

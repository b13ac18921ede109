package transform

import "github.com/shader3d/compiler/ast"

// ScanBuiltinUniforms walks every function body in declaration order
// and returns the names from builtinUniforms referenced anywhere,
// ordered by first use, per spec.md 4.6: "record the set of used names
// ... emit one global uniform per used name ... bindings assigned in
// first-use order".
func ScanBuiltinUniforms(prog *ast.Program) []string {
	seen := make(map[string]bool, len(builtinUniforms))
	var order []string
	mark := func(name string) {
		if _, known := builtinUniforms[name]; !known || seen[name] {
			return
		}
		seen[name] = true
		order = append(order, name)
	}

	for _, fn := range prog.Shaders {
		walkBlockExprs(fn.Body, func(e ast.Expression) {
			if id, ok := e.(*ast.IdentExpr); ok {
				mark(id.Name)
			}
		})
	}
	return order
}

// walkBlockExprs visits every Expression reachable from stmts,
// depth-first, in source order — the same recursive-match-with-callback
// shape as ir.WalkExpression (Design Note 9: no visitor class).
func walkBlockExprs(stmts []ast.Statement, fn func(ast.Expression)) {
	for _, s := range stmts {
		switch n := s.(type) {
		case *ast.VarStmt:
			if n.Init != nil {
				walkExpr(n.Init, fn)
			}
		case *ast.ExprStmt:
			walkExpr(n.Expr, fn)
		case *ast.ReturnStmt:
			if n.Value != nil {
				walkExpr(n.Value, fn)
			}
		case *ast.IfStmt:
			walkExpr(n.Cond, fn)
			walkBlockExprs(n.Then, fn)
			walkBlockExprs(n.Else, fn)
		case *ast.ForStmt:
			if n.Init != nil {
				walkBlockExprs([]ast.Statement{n.Init}, fn)
			}
			if n.Cond != nil {
				walkExpr(n.Cond, fn)
			}
			if n.Post != nil {
				walkBlockExprs([]ast.Statement{n.Post}, fn)
			}
			walkBlockExprs(n.Body, fn)
		case *ast.WhileStmt:
			walkExpr(n.Cond, fn)
			walkBlockExprs(n.Body, fn)
		case *ast.BlockStmt:
			walkBlockExprs(n.Body, fn)
		}
	}
}

func walkExpr(e ast.Expression, fn func(ast.Expression)) {
	if e == nil {
		return
	}
	fn(e)
	switch n := e.(type) {
	case *ast.AssignExpr:
		walkExpr(n.Target, fn)
		walkExpr(n.Value, fn)
	case *ast.BinaryExpr:
		walkExpr(n.Left, fn)
		walkExpr(n.Right, fn)
	case *ast.LogicalExpr:
		walkExpr(n.Left, fn)
		walkExpr(n.Right, fn)
	case *ast.UnaryExpr:
		walkExpr(n.Expr, fn)
	case *ast.CallExpr:
		walkExpr(n.Callee, fn)
		for _, a := range n.Args {
			walkExpr(a, fn)
		}
	case *ast.MemberExpr:
		walkExpr(n.Object, fn)
	case *ast.IndexExpr:
		walkExpr(n.Array, fn)
		walkExpr(n.Index, fn)
	case *ast.ArrayLiteralExpr:
		for _, el := range n.Elements {
			walkExpr(el, fn)
		}
	case *ast.ParenExpr:
		walkExpr(n.Expr, fn)
	}
}

package ir

// CallGraph is a set of name->name edges (caller calls callee), per
// Design Note 9: the call graph is the only potentially cyclic
// structure besides struct references, and it is modeled as plain name
// edges rather than pointers so cycle detection is a simple DFS.
type CallGraph map[string]map[string]bool

// BuildCallGraph walks every function body and records which named
// functions it calls. Builtins aren't function names in m.Functions so
// they're naturally absent from the graph.
func BuildCallGraph(m *Module) CallGraph {
	names := make(map[string]bool, len(m.Functions))
	for _, f := range m.Functions {
		names[f.Name] = true
	}
	g := make(CallGraph, len(m.Functions))
	for _, f := range m.Functions {
		edges := make(map[string]bool)
		walkStatements(f.Body, func(e Expression) {
			if c, ok := e.(*Call); ok && names[c.Callee] {
				edges[c.Callee] = true
			}
		})
		g[f.Name] = edges
	}
	return g
}

// ReachableFrom returns the set of function names transitively
// reachable from any of roots (roots themselves included).
func (g CallGraph) ReachableFrom(roots []string) map[string]bool {
	seen := make(map[string]bool)
	var visit func(name string)
	visit = func(name string) {
		if seen[name] {
			return
		}
		seen[name] = true
		for callee := range g[name] {
			visit(callee)
		}
	}
	for _, r := range roots {
		visit(r)
	}
	return seen
}

// HasCycle reports whether name participates in a cycle (directly or
// transitively calls itself) — used to refuse recursive inlining.
func (g CallGraph) HasCycle(name string) bool {
	visiting := make(map[string]bool)
	var visit func(n string) bool
	visit = func(n string) bool {
		if visiting[n] {
			return true
		}
		visiting[n] = true
		for callee := range g[n] {
			if visit(callee) {
				return true
			}
		}
		delete(visiting, n)
		return false
	}
	return visit(name)
}

// walkStatements visits every Expression reachable from stmts,
// recursively, calling fn on each. This is the uniform-scan pass's
// pattern per Design Note 9: a recursive match with a callback, no
// visitor class.
func walkStatements(stmts []Statement, fn func(Expression)) {
	for _, s := range stmts {
		switch n := s.(type) {
		case *VarDecl:
			if n.Init != nil {
				WalkExpression(n.Init, fn)
			}
		case *ExprStmt:
			WalkExpression(n.Expr, fn)
		case *ReturnStmt:
			if n.Value != nil {
				WalkExpression(n.Value, fn)
			}
		case *IfStmt:
			WalkExpression(n.Cond, fn)
			walkStatements(n.Then, fn)
			walkStatements(n.Else, fn)
		case *ForStmt:
			if n.Init != nil {
				walkStatements([]Statement{n.Init}, fn)
			}
			if n.Cond != nil {
				WalkExpression(n.Cond, fn)
			}
			if n.Post != nil {
				walkStatements([]Statement{n.Post}, fn)
			}
			walkStatements(n.Body, fn)
		case *WhileStmt:
			WalkExpression(n.Cond, fn)
			walkStatements(n.Body, fn)
		case *BlockStmt:
			walkStatements(n.Body, fn)
		}
	}
}

// WalkExpression visits e and every expression nested within it,
// depth-first, calling fn on each node including e itself.
func WalkExpression(e Expression, fn func(Expression)) {
	if e == nil {
		return
	}
	fn(e)
	switch n := e.(type) {
	case *Unary:
		WalkExpression(n.Expr, fn)
	case *Binary:
		WalkExpression(n.Left, fn)
		WalkExpression(n.Right, fn)
	case *Call:
		for _, a := range n.Args {
			WalkExpression(a, fn)
		}
	case *VectorConstruct:
		for _, a := range n.Args {
			WalkExpression(a, fn)
		}
	case *Member:
		WalkExpression(n.Object, fn)
	case *Index:
		WalkExpression(n.Array, fn)
		WalkExpression(n.Idx, fn)
	case *Assign:
		WalkExpression(n.Target, fn)
		WalkExpression(n.Value, fn)
	}
}

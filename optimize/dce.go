package optimize

import "github.com/shader3d/compiler/ir"

// dcePass implements spec.md 4.7's Dead-Code Elimination row: drop
// statements following a return inside the same block; drop variable
// declarations whose name never appears outside its own LHS; drop
// non-entry-point functions never transitively called from any entry
// point.
func dcePass(m *ir.Module) (changed bool, eliminated int) {
	for i := range m.Functions {
		newBody, n := dropAfterReturn(m.Functions[i].Body)
		if n > 0 {
			m.Functions[i].Body = newBody
			eliminated += n
			changed = true
		}
	}
	for i := range m.Functions {
		newBody, n := dropDeadLocals(m.Functions[i].Body)
		if n > 0 {
			m.Functions[i].Body = newBody
			eliminated += n
			changed = true
		}
	}
	if n := dropUnreachableFunctions(m); n > 0 {
		eliminated += n
		changed = true
	}
	return changed, eliminated
}

// dropAfterReturn truncates each block at its first return — anything
// after is unreachable — and recurses into nested block-bearing
// statements. Statements after a discard, break or continue are kept.
func dropAfterReturn(body []ir.Statement) ([]ir.Statement, int) {
	dropped := 0
	out := make([]ir.Statement, 0, len(body))
	for _, s := range body {
		out = append(out, s)
		switch n := s.(type) {
		case *ir.IfStmt:
			then, d1 := dropAfterReturn(n.Then)
			els, d2 := dropAfterReturn(n.Else)
			n.Then, n.Else = then, els
			dropped += d1 + d2
		case *ir.ForStmt:
			b, d := dropAfterReturn(n.Body)
			n.Body = b
			dropped += d
		case *ir.WhileStmt:
			b, d := dropAfterReturn(n.Body)
			n.Body = b
			dropped += d
		case *ir.BlockStmt:
			b, d := dropAfterReturn(n.Body)
			n.Body = b
			dropped += d
		case *ir.ReturnStmt:
			dropped += len(body) - len(out)
			return out, dropped
		}
	}
	return out, dropped
}

// dropDeadLocals removes top-level VarDecls (within this statement
// list) whose name is never referenced anywhere else in the function
// body's remaining statements.
func dropDeadLocals(body []ir.Statement) ([]ir.Statement, int) {
	used := make(map[string]int)
	var countUses func(stmts []ir.Statement)
	countUses = func(stmts []ir.Statement) {
		for _, s := range stmts {
			switch n := s.(type) {
			case *ir.VarDecl:
				if n.Init != nil {
					ir.WalkExpression(n.Init, func(e ir.Expression) {
						if id, ok := e.(*ir.Ident); ok {
							used[id.Name]++
						}
					})
				}
			case *ir.ExprStmt:
				ir.WalkExpression(n.Expr, func(e ir.Expression) {
					if id, ok := e.(*ir.Ident); ok {
						used[id.Name]++
					}
				})
			case *ir.ReturnStmt:
				if n.Value != nil {
					ir.WalkExpression(n.Value, func(e ir.Expression) {
						if id, ok := e.(*ir.Ident); ok {
							used[id.Name]++
						}
					})
				}
			case *ir.IfStmt:
				ir.WalkExpression(n.Cond, func(e ir.Expression) {
					if id, ok := e.(*ir.Ident); ok {
						used[id.Name]++
					}
				})
				countUses(n.Then)
				countUses(n.Else)
			case *ir.ForStmt:
				if n.Init != nil {
					countUses([]ir.Statement{n.Init})
				}
				if n.Cond != nil {
					ir.WalkExpression(n.Cond, func(e ir.Expression) {
						if id, ok := e.(*ir.Ident); ok {
							used[id.Name]++
						}
					})
				}
				if n.Post != nil {
					countUses([]ir.Statement{n.Post})
				}
				countUses(n.Body)
			case *ir.WhileStmt:
				ir.WalkExpression(n.Cond, func(e ir.Expression) {
					if id, ok := e.(*ir.Ident); ok {
						used[id.Name]++
					}
				})
				countUses(n.Body)
			case *ir.BlockStmt:
				countUses(n.Body)
			}
		}
	}
	countUses(body)

	dropped := 0
	out := make([]ir.Statement, 0, len(body))
	for _, s := range body {
		if decl, ok := s.(*ir.VarDecl); ok && used[decl.Name] == 0 && (decl.Init == nil || ir.IsPure(decl.Init)) {
			dropped++
			continue
		}
		out = append(out, s)
	}
	return out, dropped
}

// dropUnreachableFunctions removes Functions never transitively called
// from an entry point, per the call graph.
func dropUnreachableFunctions(m *ir.Module) int {
	if len(m.Functions) == 0 {
		return 0
	}
	g := ir.BuildCallGraph(m)
	roots := make([]string, 0, len(m.EntryPoints))
	for _, i := range m.EntryPoints {
		roots = append(roots, m.Functions[i].Name)
	}
	reach := g.ReachableFrom(roots)

	kept := make([]ir.Function, 0, len(m.Functions))
	dropped := 0
	for _, f := range m.Functions {
		if f.EntryPoint || reach[f.Name] {
			kept = append(kept, f)
		} else {
			dropped++
		}
	}
	if dropped > 0 {
		m.Functions = kept
		m.EntryPoints = m.EntryPoints[:0]
		for i, f := range m.Functions {
			if f.EntryPoint {
				m.EntryPoints = append(m.EntryPoints, i)
			}
		}
	}
	return dropped
}

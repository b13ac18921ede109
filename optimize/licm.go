package optimize

import "github.com/shader3d/compiler/ir"

// licmPass implements spec.md 4.7's LICM row, conservatively: for each
// for-loop, hoist top-level pure VarDecls whose initializer references
// neither the loop's induction variable nor any name written anywhere
// in the loop body, to a pre-header placed immediately before the
// loop. Design Note 9(c) explicitly allows shipping LICM as a
// deliberately narrow subset of the full contract, so this pass only
// considers ForStmt (the only shape with a syntactically obvious
// induction variable) and only top-level declarations (not nested
// inside if/while within the loop), rather than attempting a full
// def-use dataflow analysis.
func licmPass(m *ir.Module) (changed bool, hoisted int) {
	for i := range m.Functions {
		newBody, n := licmBlock(m.Functions[i].Body)
		if n > 0 {
			m.Functions[i].Body = newBody
			hoisted += n
			changed = true
		}
	}
	return changed, hoisted
}

func licmBlock(stmts []ir.Statement) ([]ir.Statement, int) {
	out := make([]ir.Statement, 0, len(stmts))
	total := 0
	for _, s := range stmts {
		switch n := s.(type) {
		case *ir.ForStmt:
			body, c := licmBlock(n.Body)
			n.Body = body
			total += c
			pre, remaining := hoistFromFor(n)
			out = append(out, pre...)
			n.Body = remaining
			out = append(out, n)
			total += len(pre)
		case *ir.IfStmt:
			then, c1 := licmBlock(n.Then)
			els, c2 := licmBlock(n.Else)
			n.Then, n.Else = then, els
			total += c1 + c2
			out = append(out, n)
		case *ir.WhileStmt:
			body, c := licmBlock(n.Body)
			n.Body = body
			total += c
			out = append(out, n)
		case *ir.BlockStmt:
			body, c := licmBlock(n.Body)
			n.Body = body
			total += c
			out = append(out, n)
		default:
			out = append(out, s)
		}
	}
	return out, total
}

func hoistFromFor(f *ir.ForStmt) (preheader []ir.Statement, remaining []ir.Statement) {
	inductionVar := ""
	if init, ok := f.Init.(*ir.VarDecl); ok {
		inductionVar = init.Name
	}
	written := writtenNames(f.Body)

	remaining = make([]ir.Statement, 0, len(f.Body))
	for _, s := range f.Body {
		decl, ok := s.(*ir.VarDecl)
		if !ok || decl.Init == nil || !ir.IsPure(decl.Init) || referencesAny(decl.Init, inductionVar, written) {
			remaining = append(remaining, s)
			continue
		}
		preheader = append(preheader, decl)
	}
	return preheader, remaining
}

func writtenNames(body []ir.Statement) map[string]bool {
	out := make(map[string]bool)
	var walk func([]ir.Statement)
	walk = func(stmts []ir.Statement) {
		for _, s := range stmts {
			switch n := s.(type) {
			case *ir.VarDecl:
				out[n.Name] = true
			case *ir.ExprStmt:
				if a, ok := n.Expr.(*ir.Assign); ok {
					if id, ok := a.Target.(*ir.Ident); ok {
						out[id.Name] = true
					}
				}
			case *ir.IfStmt:
				walk(n.Then)
				walk(n.Else)
			case *ir.ForStmt:
				walk(n.Body)
			case *ir.WhileStmt:
				walk(n.Body)
			case *ir.BlockStmt:
				walk(n.Body)
			}
		}
	}
	walk(body)
	return out
}

func referencesAny(e ir.Expression, induction string, written map[string]bool) bool {
	found := false
	ir.WalkExpression(e, func(n ir.Expression) {
		if id, ok := n.(*ir.Ident); ok {
			if id.Name == induction || written[id.Name] {
				found = true
			}
		}
	})
	return found
}

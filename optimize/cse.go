package optimize

import "github.com/shader3d/compiler/ir"

type cseBinding struct {
	expr ir.Expression
	name string
}

// csePass implements spec.md 4.7's CSE row: hash pure expressions by
// structural identity; when the same pure expression would be assigned
// a second time, reuse the prior binding. Purity excludes texture
// samples and atomics (ir.IsPure). "Assigned" is read as "bound by a
// let/var/const declaration" — csePass rewrites a later declaration
// whose initializer duplicates an earlier one into an alias of the
// earlier binding's name, rather than rewriting every call site (the
// alias declaration stays in the body; dcePass removes it only when the
// alias name is never used, and the rewrite stays local to one
// statement). Tie-break
// for identical expressions is first-written wins, per spec.md 4.7's
// ordering note.
func csePass(m *ir.Module) (changed bool, eliminated int) {
	for i := range m.Functions {
		var bindings []cseBinding
		if cseBlock(m.Functions[i].Body, &bindings, &eliminated) {
			changed = true
		}
	}
	return changed, eliminated
}

func cseBlock(stmts []ir.Statement, bindings *[]cseBinding, eliminated *int) bool {
	changed := false
	for _, s := range stmts {
		switch n := s.(type) {
		case *ir.VarDecl:
			if n.Init != nil && ir.IsPure(n.Init) {
				if prior, ok := findBinding(*bindings, n.Init); ok {
					n.Init = &ir.Ident{Type: n.Type, Name: prior}
					*eliminated++
					changed = true
				} else {
					*bindings = append(*bindings, cseBinding{expr: n.Init, name: n.Name})
				}
			}
		case *ir.IfStmt:
			// Each branch gets its own binding scope copied from the
			// enclosing one: a binding made inside an if/else shouldn't
			// leak to the other branch or past the statement.
			thenBindings := append([]cseBinding(nil), *bindings...)
			elseBindings := append([]cseBinding(nil), *bindings...)
			if cseBlock(n.Then, &thenBindings, eliminated) {
				changed = true
			}
			if cseBlock(n.Else, &elseBindings, eliminated) {
				changed = true
			}
		case *ir.ForStmt:
			loopBindings := append([]cseBinding(nil), *bindings...)
			if cseBlock(n.Body, &loopBindings, eliminated) {
				changed = true
			}
		case *ir.WhileStmt:
			loopBindings := append([]cseBinding(nil), *bindings...)
			if cseBlock(n.Body, &loopBindings, eliminated) {
				changed = true
			}
		case *ir.BlockStmt:
			if cseBlock(n.Body, bindings, eliminated) {
				changed = true
			}
		}
	}
	return changed
}

func findBinding(bindings []cseBinding, e ir.Expression) (string, bool) {
	for _, b := range bindings {
		if ir.Equal(b.expr, e) {
			return b.name, true
		}
	}
	return "", false
}

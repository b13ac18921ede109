package optimize

import "github.com/shader3d/compiler/ir"

const defaultUnrollThreshold = 16

// unrollPass implements spec.md 4.7's Unrolling row: only when init is
// a literal, the test has the form `i CMP literal`, and the update is
// a constant additive step; expand fully when the iteration count is
// at or below threshold.
func unrollPass(m *ir.Module, threshold int) (changed bool, unrolled int) {
	if threshold <= 0 {
		threshold = defaultUnrollThreshold
	}
	for i := range m.Functions {
		newBody, n := unrollBlock(m.Functions[i].Body, threshold)
		if n > 0 {
			m.Functions[i].Body = newBody
			unrolled += n
			changed = true
		}
	}
	return changed, unrolled
}

func unrollBlock(stmts []ir.Statement, threshold int) ([]ir.Statement, int) {
	out := make([]ir.Statement, 0, len(stmts))
	total := 0
	for _, s := range stmts {
		f, ok := s.(*ir.ForStmt)
		if !ok {
			switch n := s.(type) {
			case *ir.IfStmt:
				then, c1 := unrollBlock(n.Then, threshold)
				els, c2 := unrollBlock(n.Else, threshold)
				n.Then, n.Else = then, els
				total += c1 + c2
			case *ir.WhileStmt:
				body, c := unrollBlock(n.Body, threshold)
				n.Body = body
				total += c
			case *ir.BlockStmt:
				body, c := unrollBlock(n.Body, threshold)
				n.Body = body
				total += c
			}
			out = append(out, s)
			continue
		}
		body, c := unrollBlock(f.Body, threshold)
		f.Body = body
		total += c

		unrolledBody, ok := tryUnroll(f, threshold)
		if !ok {
			out = append(out, f)
			continue
		}
		out = append(out, unrolledBody...)
		total++
	}
	return out, total
}

func tryUnroll(f *ir.ForStmt, threshold int) ([]ir.Statement, bool) {
	initDecl, ok := f.Init.(*ir.VarDecl)
	if !ok || initDecl.Init == nil {
		return nil, false
	}
	startLit, ok := asLiteral(initDecl.Init)
	if !ok {
		return nil, false
	}
	start, ok := litValue(startLit)
	if !ok {
		return nil, false
	}

	cond, ok := f.Cond.(*ir.Binary)
	if !ok {
		return nil, false
	}
	lhs, ok := cond.Left.(*ir.Ident)
	if !ok || lhs.Name != initDecl.Name {
		return nil, false
	}
	limitLit, ok := asLiteral(cond.Right)
	if !ok {
		return nil, false
	}
	limit, ok := litValue(limitLit)
	if !ok {
		return nil, false
	}

	step, ok := constantStep(f.Post, initDecl.Name)
	if !ok || step == 0 {
		return nil, false
	}

	var count int
	switch cond.Op {
	case "<":
		if step <= 0 || start >= limit {
			return nil, false
		}
		count = int((limit-start)/step) + 1
		if start+float64(count-1)*step >= limit {
			count--
		}
	case "<=":
		if step <= 0 || start > limit {
			return nil, false
		}
		count = int((limit-start)/step) + 1
	default:
		return nil, false
	}
	if count <= 0 || count > threshold {
		return nil, false
	}

	var out []ir.Statement
	v := start
	for i := 0; i < count; i++ {
		body := make([]ir.Statement, len(f.Body))
		copy(body, f.Body)
		substituteStmts(body, map[string]ir.Expression{
			initDecl.Name: &ir.Literal{Type: initDecl.Type, Kind: startLit.Kind, Text: formatNumber(v, startLit.Kind, initDecl.Type).Text},
		})
		out = append(out, body...)
		v += step
	}
	return out, true
}

// constantStep recognizes `i += step`, `i = i + step`, and `i = i - step`
// (as a negative step) forms in the loop's post-statement.
func constantStep(post ir.Statement, name string) (float64, bool) {
	exprStmt, ok := post.(*ir.ExprStmt)
	if !ok {
		return 0, false
	}
	assign, ok := exprStmt.Expr.(*ir.Assign)
	if !ok {
		return 0, false
	}
	target, ok := assign.Target.(*ir.Ident)
	if !ok || target.Name != name {
		return 0, false
	}
	if assign.Op == "+=" {
		if lit, ok := asLiteral(assign.Value); ok {
			return litValue(lit)
		}
		return 0, false
	}
	if assign.Op != "=" {
		return 0, false
	}
	bin, ok := assign.Value.(*ir.Binary)
	if !ok {
		return 0, false
	}
	lhs, ok := bin.Left.(*ir.Ident)
	if !ok || lhs.Name != name {
		return 0, false
	}
	lit, ok := asLiteral(bin.Right)
	if !ok {
		return 0, false
	}
	v, ok := litValue(lit)
	if !ok {
		return 0, false
	}
	if bin.Op == "+" {
		return v, true
	}
	if bin.Op == "-" {
		return -v, true
	}
	return 0, false
}

package transform

import (
	"strings"

	"github.com/shader3d/compiler/ast"
	"github.com/shader3d/compiler/ir"
	"github.com/shader3d/compiler/types"
)

func (l *lowerer) lowerBlock(stmts []ast.Statement) []ir.Statement {
	out := make([]ir.Statement, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, l.lowerStmt(s))
	}
	return out
}

func (l *lowerer) lowerStmt(s ast.Statement) ir.Statement {
	switch n := s.(type) {
	case *ast.VarStmt:
		t := l.resolveTypeSpec(n.Type)
		var init ir.Expression
		if n.Init != nil {
			init = l.lowerExpr(n.Init)
			if n.Type == nil {
				t = l.typeOf(n.Init)
			}
		}
		// const -> let: VarDecl has no Kind field at all, so every
		// surface `const`/`let`/`var` local lowers to the same form.
		return &ir.VarDecl{Name: n.Name, Type: t, Init: init}
	case *ast.ExprStmt:
		return &ir.ExprStmt{Expr: l.lowerExpr(n.Expr)}
	case *ast.ReturnStmt:
		var v ir.Expression
		if n.Value != nil {
			v = l.lowerExpr(n.Value)
		}
		return &ir.ReturnStmt{Value: v}
	case *ast.IfStmt:
		return &ir.IfStmt{Cond: l.lowerExpr(n.Cond), Then: l.lowerBlock(n.Then), Else: l.lowerBlock(n.Else)}
	case *ast.ForStmt:
		var initS, postS ir.Statement
		if n.Init != nil {
			initS = l.lowerStmt(n.Init)
		}
		if n.Post != nil {
			postS = l.lowerStmt(n.Post)
		}
		var cond ir.Expression
		if n.Cond != nil {
			cond = l.lowerExpr(n.Cond)
		}
		return &ir.ForStmt{Init: initS, Cond: cond, Post: postS, Body: l.lowerBlock(n.Body)}
	case *ast.WhileStmt:
		return &ir.WhileStmt{Cond: l.lowerExpr(n.Cond), Body: l.lowerBlock(n.Body)}
	case *ast.BlockStmt:
		return &ir.BlockStmt{Body: l.lowerBlock(n.Body)}
	case *ast.DiscardStmt:
		return &ir.DiscardStmt{}
	case *ast.BreakStmt:
		return &ir.BreakStmt{}
	case *ast.ContinueStmt:
		return &ir.ContinueStmt{}
	default:
		return &ir.BlockStmt{}
	}
}

func (l *lowerer) lowerExpr(e ast.Expression) ir.Expression {
	switch n := e.(type) {
	case *ast.LiteralExpr:
		return &ir.Literal{Type: l.typeOf(n), Kind: n.Kind, Text: normalizeLiteralText(n.Kind, n.Text)}
	case *ast.IdentExpr:
		return &ir.Ident{Type: l.typeOf(n), Name: n.Name}
	case *ast.AssignExpr:
		return &ir.Assign{Type: l.typeOf(n), Op: n.Op, Target: l.lowerExpr(n.Target), Value: l.lowerExpr(n.Value)}
	case *ast.BinaryExpr:
		return &ir.Binary{Type: l.typeOf(n), Op: n.Op, Left: l.lowerExpr(n.Left), Right: l.lowerExpr(n.Right)}
	case *ast.LogicalExpr:
		return &ir.Binary{Type: l.typeOf(n), Op: n.Op, Left: l.lowerExpr(n.Left), Right: l.lowerExpr(n.Right)}
	case *ast.UnaryExpr:
		return &ir.Unary{Type: l.typeOf(n), Op: n.Op, Expr: l.lowerExpr(n.Expr)}
	case *ast.CallExpr:
		return l.lowerCall(n)
	case *ast.MemberExpr:
		if lit, ok := mathConstant(n); ok {
			return lit
		}
		return &ir.Member{Type: l.typeOf(n), Object: l.lowerExpr(n.Object), Name: n.Name}
	case *ast.IndexExpr:
		return &ir.Index{Type: l.typeOf(n), Array: l.lowerExpr(n.Array), Idx: l.lowerExpr(n.Index)}
	case *ast.ArrayLiteralExpr:
		args := make([]ir.Expression, 0, len(n.Elements))
		for _, el := range n.Elements {
			args = append(args, l.lowerExpr(el))
		}
		return &ir.VectorConstruct{Type: l.typeOf(n), Args: args}
	case *ast.ParenExpr:
		return l.lowerExpr(n.Expr)
	default:
		return &ir.Literal{Kind: "int", Text: "0"}
	}
}

func (l *lowerer) lowerCall(n *ast.CallExpr) ir.Expression {
	args := make([]ir.Expression, 0, len(n.Args))
	for _, a := range n.Args {
		args = append(args, l.lowerExpr(a))
	}
	resultType := l.typeOf(n)

	if member, ok := n.Callee.(*ast.MemberExpr); ok {
		if obj, ok := member.Object.(*ast.IdentExpr); ok && obj.Name == "Math" {
			return &ir.Call{Type: resultType, Callee: mathBuiltinName(member.Name), Args: args}
		}
	}

	if ident, ok := n.Callee.(*ast.IdentExpr); ok {
		// A call is a vector/matrix *constructor* only when its callee
		// spells one, the same test check.inferCall uses — not whenever
		// the call happens to evaluate to a vector/matrix type. Builtins
		// like normalize/cross/reflect and user functions that return a
		// vector or matrix must still lower to a plain Call, or codegen
		// would silently replace the operation with a bare re-construction
		// of its result type.
		if isVectorOrMatrixConstructorName(l.registry, ident.Name) {
			return &ir.VectorConstruct{Type: resultType, Args: args}
		}
		return &ir.Call{Type: resultType, Callee: ident.Name, Args: args}
	}
	return &ir.Call{Type: resultType, Callee: "", Args: args}
}

// isVectorOrMatrixConstructorName reports whether name spells a vector
// or matrix constructor (vec3f, mat4x4<f32>, ...) rather than a
// builtin or user-defined function, mirroring check.inferCall's own
// vectorConstructors/ParseType test.
func isVectorOrMatrixConstructorName(registry *types.Registry, name string) bool {
	if _, ok := vectorConstructorNames[name]; ok {
		return true
	}
	ref, ok := registry.ParseType(name)
	return ok && (ref.Kind == types.KindVector || ref.Kind == types.KindMatrix)
}

// vectorConstructorNames lists the short vector constructor spellings,
// matching check.vectorConstructors.
var vectorConstructorNames = map[string]struct{}{
	"vec2f": {}, "vec3f": {}, "vec4f": {},
	"vec2i": {}, "vec3i": {}, "vec4i": {},
	"vec2u": {}, "vec3u": {}, "vec4u": {},
	"vec2h": {}, "vec3h": {}, "vec4h": {},
}

// normalizeLiteralText strips the surface u/i/f/h type suffix (the
// resolved types.Ref already carries that information structurally)
// and, for float-kind literals, ensures a decimal point is present so
// every target language parses the constant as floating-point rather
// than integer — spec.md 4.6's "ensure numeric literals used as floats
// carry a decimal point".
func normalizeLiteralText(kind, text string) string {
	body := text
	if n := len(body); n > 0 {
		switch body[n-1] {
		case 'u', 'i', 'f', 'h':
			body = body[:n-1]
		}
	}
	if kind == "float" && !strings.ContainsAny(body, ".eE") {
		body += ".0"
	}
	return body
}

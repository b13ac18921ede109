package ir

import "github.com/shader3d/compiler/types"

// Expression is the IR's expression sum type: one marker method per
// concrete kind, matched with a type switch rather than a visitor
// hierarchy (mirrors ast.Expression, but decoupled — the IR owns its
// own tree once the transformer has consumed the AST).
type Expression interface {
	exprNode()
	ResultType() types.Ref
}

// Literal is a folded or surface numeric/boolean constant. Kind is one
// of "int" | "float" | "bool", matching ast.LiteralExpr's convention.
type Literal struct {
	Type types.Ref
	Kind string
	Text string
}

// Ident is a reference to a parameter, local, or uniform by name.
type Ident struct {
	Type types.Ref
	Name string
}

// Unary is a prefix operator application.
type Unary struct {
	Type types.Ref
	Op   string
	Expr Expression
}

// Binary is an infix operator application, including the three
// multiply shapes the checker already resolved (scalar/vector/matrix).
type Binary struct {
	Type  types.Ref
	Op    string
	Left  Expression
	Right Expression
}

// Call is a builtin or user-function invocation.
type Call struct {
	Type   types.Ref
	Callee string
	Args   []Expression
}

// VectorConstruct is an explicit `vec{n}[f|i|u|h](...)` /
// `mat{c}x{r}[f|h](...)` constructor call, kept distinct from a plain
// Call so codegen can emit the target's native constructor syntax.
type VectorConstruct struct {
	Type types.Ref
	Args []Expression
}

// Member is a swizzle or struct-field access.
type Member struct {
	Type   types.Ref
	Object Expression
	Name   string
}

// Index is an array element access.
type Index struct {
	Type  types.Ref
	Array Expression
	Idx   Expression
}

// Assign is `target op= value`; Op is "=", "+=", "-=", "*=", or "/=".
type Assign struct {
	Type   types.Ref
	Op     string
	Target Expression
	Value  Expression
}

func (e *Literal) exprNode()         {}
func (e *Ident) exprNode()           {}
func (e *Unary) exprNode()           {}
func (e *Binary) exprNode()          {}
func (e *Call) exprNode()            {}
func (e *VectorConstruct) exprNode() {}
func (e *Member) exprNode()          {}
func (e *Index) exprNode()           {}
func (e *Assign) exprNode()          {}

func (e *Literal) ResultType() types.Ref         { return e.Type }
func (e *Ident) ResultType() types.Ref           { return e.Type }
func (e *Unary) ResultType() types.Ref           { return e.Type }
func (e *Binary) ResultType() types.Ref          { return e.Type }
func (e *Call) ResultType() types.Ref            { return e.Type }
func (e *VectorConstruct) ResultType() types.Ref { return e.Type }
func (e *Member) ResultType() types.Ref          { return e.Type }
func (e *Index) ResultType() types.Ref           { return e.Type }
func (e *Assign) ResultType() types.Ref          { return e.Type }

// Equal performs the structural-identity comparison CSE needs: two
// expressions hash/compare equal iff they'd evaluate to the same value
// given the same variable bindings. Purity is the caller's concern
// (CSE excludes texture samples and atomics before ever calling Equal).
func Equal(a, b Expression) bool {
	switch x := a.(type) {
	case *Literal:
		y, ok := b.(*Literal)
		return ok && x.Kind == y.Kind && x.Text == y.Text
	case *Ident:
		y, ok := b.(*Ident)
		return ok && x.Name == y.Name
	case *Unary:
		y, ok := b.(*Unary)
		return ok && x.Op == y.Op && Equal(x.Expr, y.Expr)
	case *Binary:
		y, ok := b.(*Binary)
		return ok && x.Op == y.Op && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case *Call:
		y, ok := b.(*Call)
		if !ok || x.Callee != y.Callee || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !Equal(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	case *VectorConstruct:
		y, ok := b.(*VectorConstruct)
		if !ok || !x.Type.Equal(y.Type) || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !Equal(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	case *Member:
		y, ok := b.(*Member)
		return ok && x.Name == y.Name && Equal(x.Object, y.Object)
	case *Index:
		y, ok := b.(*Index)
		return ok && Equal(x.Array, y.Array) && Equal(x.Idx, y.Idx)
	default:
		return false // Assign and anything else: never pure, never CSE'd
	}
}

// IsPure reports whether e is safe for CSE: excludes texture samples,
// atomics (modeled here as any call to a texture* builtin), and
// assignment expressions.
func IsPure(e Expression) bool {
	switch x := e.(type) {
	case *Assign:
		return false
	case *Call:
		if len(x.Callee) >= 7 && x.Callee[:7] == "texture" {
			return false
		}
		for _, a := range x.Args {
			if !IsPure(a) {
				return false
			}
		}
		return true
	case *Unary:
		return IsPure(x.Expr)
	case *Binary:
		return IsPure(x.Left) && IsPure(x.Right)
	case *Member:
		return IsPure(x.Object)
	case *Index:
		return IsPure(x.Array) && IsPure(x.Idx)
	case *VectorConstruct:
		for _, a := range x.Args {
			if !IsPure(a) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

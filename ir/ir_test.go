package ir

import "testing"

import "github.com/shader3d/compiler/types"

func f32() types.Ref { return types.Prm(types.F32) }

func TestEqualLiteralsSameTextSameKind(t *testing.T) {
	a := &Literal{Type: f32(), Kind: "float", Text: "1.5"}
	b := &Literal{Type: f32(), Kind: "float", Text: "1.5"}
	if !Equal(a, b) {
		t.Fatal("expected equal literals to compare equal")
	}
}

func TestEqualLiteralsDifferentTextNotEqual(t *testing.T) {
	a := &Literal{Type: f32(), Kind: "float", Text: "1.5"}
	b := &Literal{Type: f32(), Kind: "float", Text: "2.5"}
	if Equal(a, b) {
		t.Fatal("expected differing literals to compare unequal")
	}
}

func TestEqualBinaryRecursesIntoOperands(t *testing.T) {
	x := &Ident{Type: f32(), Name: "x"}
	y := &Ident{Type: f32(), Name: "y"}
	a := &Binary{Type: f32(), Op: "+", Left: x, Right: y}
	b := &Binary{Type: f32(), Op: "+", Left: &Ident{Type: f32(), Name: "x"}, Right: &Ident{Type: f32(), Name: "y"}}
	if !Equal(a, b) {
		t.Fatal("expected structurally identical binaries to compare equal")
	}
	c := &Binary{Type: f32(), Op: "+", Left: y, Right: x}
	if Equal(a, c) {
		t.Fatal("expected operand-order-swapped binaries to compare unequal")
	}
}

func TestEqualAssignNeverEqual(t *testing.T) {
	a := &Assign{Type: f32(), Op: "=", Target: &Ident{Name: "x"}, Value: &Literal{Kind: "int", Text: "1"}}
	b := &Assign{Type: f32(), Op: "=", Target: &Ident{Name: "x"}, Value: &Literal{Kind: "int", Text: "1"}}
	if Equal(a, b) {
		t.Fatal("Assign should never be considered CSE-equal, even to itself structurally")
	}
}

func TestIsPureRejectsTextureCall(t *testing.T) {
	call := &Call{Callee: "textureSample", Args: []Expression{&Ident{Name: "tex"}}}
	if IsPure(call) {
		t.Fatal("expected textureSample call to be impure")
	}
}

func TestIsPureAcceptsArithmetic(t *testing.T) {
	e := &Binary{Op: "+", Left: &Ident{Name: "x"}, Right: &Literal{Kind: "int", Text: "1"}}
	if !IsPure(e) {
		t.Fatal("expected plain arithmetic to be pure")
	}
}

func TestIsPureRejectsAssignEvenNested(t *testing.T) {
	e := &Call{Callee: "foo", Args: []Expression{&Assign{Target: &Ident{Name: "x"}, Value: &Literal{Kind: "int", Text: "1"}}}}
	if IsPure(e) {
		t.Fatal("expected a call with an assignment argument to be impure")
	}
}

func TestIsPureRejectsTextureNestedInsideBinary(t *testing.T) {
	e := &Binary{Op: "+", Left: &Call{Callee: "textureLoad"}, Right: &Literal{Kind: "int", Text: "1"}}
	if IsPure(e) {
		t.Fatal("expected a binary expression containing a texture call to be impure")
	}
}

func TestBuildCallGraphAndReachability(t *testing.T) {
	m := &Module{
		Functions: []Function{
			{Name: "main", EntryPoint: true, Body: []Statement{
				&ExprStmt{Expr: &Call{Callee: "helper"}},
			}},
			{Name: "helper", Body: []Statement{
				&ExprStmt{Expr: &Call{Callee: "unused"}},
			}},
			{Name: "unused", Body: nil},
			{Name: "dead", Body: nil},
		},
	}
	g := BuildCallGraph(m)
	reach := g.ReachableFrom([]string{"main"})
	if !reach["main"] || !reach["helper"] || !reach["unused"] {
		t.Fatalf("expected main, helper, unused reachable, got %v", reach)
	}
	if reach["dead"] {
		t.Fatal("expected dead to be unreachable from main")
	}
}

func TestHasCycleDetectsSelfRecursion(t *testing.T) {
	m := &Module{
		Functions: []Function{
			{Name: "fact", Body: []Statement{
				&ExprStmt{Expr: &Call{Callee: "fact"}},
			}},
		},
	}
	g := BuildCallGraph(m)
	if !g.HasCycle("fact") {
		t.Fatal("expected self-recursive function to be flagged as cyclic")
	}
}

func TestHasCycleFalseForAcyclicGraph(t *testing.T) {
	m := &Module{
		Functions: []Function{
			{Name: "a", Body: []Statement{&ExprStmt{Expr: &Call{Callee: "b"}}}},
			{Name: "b", Body: nil},
		},
	}
	g := BuildCallGraph(m)
	if g.HasCycle("a") {
		t.Fatal("expected acyclic graph to report no cycle")
	}
}

func TestWalkExpressionVisitsNestedNodes(t *testing.T) {
	e := &VectorConstruct{Args: []Expression{
		&Ident{Name: "x"},
		&Member{Object: &Ident{Name: "v"}, Name: "xy"},
	}}
	var names []string
	WalkExpression(e, func(n Expression) {
		if id, ok := n.(*Ident); ok {
			names = append(names, id.Name)
		}
	})
	if len(names) != 2 || names[0] != "x" || names[1] != "v" {
		t.Fatalf("expected to visit idents x and v, got %v", names)
	}
}

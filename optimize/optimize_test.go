package optimize

import (
	"testing"

	"github.com/shader3d/compiler/ir"
	"github.com/shader3d/compiler/types"
)

func intLit(text string) *ir.Literal { return &ir.Literal{Type: types.Prm(types.I32), Kind: "int", Text: text} }
func floatLit(text string) *ir.Literal {
	return &ir.Literal{Type: types.Prm(types.F32), Kind: "float", Text: text}
}

func moduleWithExpr(name string, e ir.Expression) *ir.Module {
	return &ir.Module{
		Functions: []ir.Function{
			{
				Name:       name,
				EntryPoint: true,
				Stage:      ir.StageFragment,
				ReturnType: types.Prm(types.I32),
				Body:       []ir.Statement{&ir.ReturnStmt{Value: e}},
			},
		},
		EntryPoints: []int{0},
	}
}

// S4 — Constant folding: (2+3)*4 folds to 20 in one iteration at
// optimize level 1; stats.ConstantsFolded >= 1.
func TestConstantFoldingS4(t *testing.T) {
	inner := &ir.Binary{Type: types.Prm(types.I32), Op: "+", Left: intLit("2"), Right: intLit("3")}
	expr := &ir.Binary{Type: types.Prm(types.I32), Op: "*", Left: inner, Right: intLit("4")}
	m := moduleWithExpr("main", expr)

	stats := Run(m, Options{Level: 1})

	ret := m.Functions[0].Body[0].(*ir.ReturnStmt)
	lit, ok := ret.Value.(*ir.Literal)
	if !ok || lit.Text != "20" {
		t.Fatalf("expected folded literal 20, got %+v", ret.Value)
	}
	if stats.ConstantsFolded < 1 {
		t.Fatalf("expected ConstantsFolded >= 1, got %d", stats.ConstantsFolded)
	}
}

// S5 — Algebraic: x+0 -> x; x*0 -> 0; x-x -> 0.
func TestAlgebraicSimplificationS5(t *testing.T) {
	cases := []struct {
		name string
		expr ir.Expression
		want string // "" means "identical to x", else expected literal text
	}{
		{"x+0", &ir.Binary{Op: "+", Left: &ir.Ident{Name: "x", Type: types.Prm(types.F32)}, Right: floatLit("0.0")}, ""},
		{"x*0", &ir.Binary{Op: "*", Left: &ir.Ident{Name: "x", Type: types.Prm(types.F32)}, Right: floatLit("0.0")}, "0.0"},
		{"x-x", &ir.Binary{Op: "-", Left: &ir.Ident{Name: "x", Type: types.Prm(types.F32)}, Right: &ir.Ident{Name: "x", Type: types.Prm(types.F32)}}, "0.0"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m := moduleWithExpr("main", c.expr)
			Run(m, Options{Level: 1})
			ret := m.Functions[0].Body[0].(*ir.ReturnStmt)
			if c.want == "" {
				id, ok := ret.Value.(*ir.Ident)
				if !ok || id.Name != "x" {
					t.Fatalf("expected bare ident x, got %+v", ret.Value)
				}
				return
			}
			lit, ok := ret.Value.(*ir.Literal)
			if !ok || lit.Text != c.want {
				t.Fatalf("expected literal %s, got %+v", c.want, ret.Value)
			}
		})
	}
}

func TestDCEDropsStatementsAfterReturn(t *testing.T) {
	m := &ir.Module{
		Functions: []ir.Function{{
			Name:       "main",
			EntryPoint: true,
			Body: []ir.Statement{
				&ir.ReturnStmt{Value: intLit("1")},
				&ir.ExprStmt{Expr: &ir.Call{Callee: "unreachable"}},
			},
		}},
		EntryPoints: []int{0},
	}
	changed, n := dcePass(m)
	if !changed || n == 0 {
		t.Fatalf("expected dce to drop the unreachable statement, changed=%v n=%d", changed, n)
	}
	if len(m.Functions[0].Body) != 1 {
		t.Fatalf("expected 1 statement remaining, got %d", len(m.Functions[0].Body))
	}
}

func TestDCEDropsUnreachableFunctions(t *testing.T) {
	m := &ir.Module{
		Functions: []ir.Function{
			{Name: "main", EntryPoint: true, Body: []ir.Statement{&ir.ReturnStmt{Value: intLit("1")}}},
			{Name: "helper", Body: []ir.Statement{&ir.ReturnStmt{Value: intLit("2")}}},
		},
		EntryPoints: []int{0},
	}
	_, n := dcePass(m)
	if n == 0 {
		t.Fatal("expected helper (never called) to be dropped")
	}
	for _, f := range m.Functions {
		if f.Name == "helper" {
			t.Fatal("expected helper to have been removed")
		}
	}
}

func TestDCEKeepsReachableFunction(t *testing.T) {
	m := &ir.Module{
		Functions: []ir.Function{
			{Name: "main", EntryPoint: true, Body: []ir.Statement{
				&ir.ReturnStmt{Value: &ir.Call{Callee: "helper"}},
			}},
			{Name: "helper", Body: []ir.Statement{&ir.ReturnStmt{Value: intLit("2")}}},
		},
		EntryPoints: []int{0},
	}
	dcePass(m)
	found := false
	for _, f := range m.Functions {
		if f.Name == "helper" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected helper (reachable from main) to survive DCE")
	}
}

func TestCSEReusesPriorBinding(t *testing.T) {
	f32 := types.Prm(types.F32)
	expr := func() ir.Expression {
		return &ir.Binary{Type: f32, Op: "+", Left: &ir.Ident{Name: "a", Type: f32}, Right: &ir.Ident{Name: "b", Type: f32}}
	}
	m := &ir.Module{
		Functions: []ir.Function{{
			Name:       "main",
			EntryPoint: true,
			Body: []ir.Statement{
				&ir.VarDecl{Name: "x", Type: f32, Init: expr()},
				&ir.VarDecl{Name: "y", Type: f32, Init: expr()},
				&ir.ReturnStmt{Value: &ir.Ident{Name: "y", Type: f32}},
			},
		}},
		EntryPoints: []int{0},
	}
	changed, n := csePass(m)
	if !changed || n != 1 {
		t.Fatalf("expected 1 CSE rewrite, got changed=%v n=%d", changed, n)
	}
	yDecl := m.Functions[0].Body[1].(*ir.VarDecl)
	id, ok := yDecl.Init.(*ir.Ident)
	if !ok || id.Name != "x" {
		t.Fatalf("expected y's init to alias x, got %+v", yDecl.Init)
	}
}

func TestCSEDoesNotReuseImpureExpression(t *testing.T) {
	f32 := types.Prm(types.F32)
	sample := func() ir.Expression {
		return &ir.Call{Type: f32, Callee: "textureSample", Args: []ir.Expression{&ir.Ident{Name: "tex"}}}
	}
	m := &ir.Module{
		Functions: []ir.Function{{
			Name:       "main",
			EntryPoint: true,
			Body: []ir.Statement{
				&ir.VarDecl{Name: "x", Type: f32, Init: sample()},
				&ir.VarDecl{Name: "y", Type: f32, Init: sample()},
			},
		}},
		EntryPoints: []int{0},
	}
	_, n := csePass(m)
	if n != 0 {
		t.Fatalf("expected texture samples to be excluded from CSE, got %d eliminated", n)
	}
}

func TestStrengthReductionDivisionByTwo(t *testing.T) {
	f32 := types.Prm(types.F32)
	m := moduleWithExpr("main", &ir.Binary{Type: f32, Op: "/", Left: &ir.Ident{Name: "x", Type: f32}, Right: floatLit("2.0")})
	_, n := strengthReductionPass(m)
	if n != 1 {
		t.Fatalf("expected 1 strength reduction, got %d", n)
	}
	ret := m.Functions[0].Body[0].(*ir.ReturnStmt)
	bin, ok := ret.Value.(*ir.Binary)
	if !ok || bin.Op != "*" {
		t.Fatalf("expected x/2 rewritten to a multiply, got %+v", ret.Value)
	}
}

func TestPeepholeFMA(t *testing.T) {
	f32 := types.Prm(types.F32)
	mul := &ir.Binary{Type: f32, Op: "*", Left: &ir.Ident{Name: "a", Type: f32}, Right: &ir.Ident{Name: "b", Type: f32}}
	expr := &ir.Binary{Type: f32, Op: "+", Left: mul, Right: &ir.Ident{Name: "c", Type: f32}}
	m := moduleWithExpr("main", expr)
	_, n := peepholePass(m)
	if n != 1 {
		t.Fatalf("expected 1 peephole rewrite, got %d", n)
	}
	ret := m.Functions[0].Body[0].(*ir.ReturnStmt)
	call, ok := ret.Value.(*ir.Call)
	if !ok || call.Callee != "fma" || len(call.Args) != 3 {
		t.Fatalf("expected fma(a,b,c), got %+v", ret.Value)
	}
}

// Testable Property 4: the driver terminates within MaxIterations.
func TestDriverTerminatesWithinMaxIterations(t *testing.T) {
	m := moduleWithExpr("main", intLit("1"))
	stats := Run(m, Options{Level: 3, MaxIterations: 3})
	if stats.Iterations > 3 {
		t.Fatalf("expected at most 3 iterations, got %d", stats.Iterations)
	}
}

func TestDriverStopsEarlyWhenNoPassChanges(t *testing.T) {
	m := moduleWithExpr("main", &ir.Ident{Name: "x", Type: types.Prm(types.F32)})
	stats := Run(m, Options{Level: 3, MaxIterations: 10})
	if stats.Iterations >= 10 {
		t.Fatalf("expected early termination well before the cap, got %d iterations", stats.Iterations)
	}
}

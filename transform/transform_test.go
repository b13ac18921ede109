package transform

import (
	"testing"

	"github.com/shader3d/compiler/ast"
	"github.com/shader3d/compiler/check"
	"github.com/shader3d/compiler/diag"
	"github.com/shader3d/compiler/ir"
	"github.com/shader3d/compiler/lexer"
	"github.com/shader3d/compiler/types"
)

func compileToIR(t *testing.T, src string) (*ast.Program, *ir.Module) {
	t.Helper()
	toks := lexer.New(src, "test.s3d").Tokenize()
	var diags diag.List
	prog := ast.New("test.s3d", toks, &diags).ParseProgram()
	if diags.HasErrors() {
		t.Fatalf("parse errors: %s", diags.FormatAll(src))
	}
	registry := types.New()
	c := check.New(registry, &diags, check.ValidateBasic)
	exprTypes := c.Check(prog)
	if diags.HasErrors() {
		t.Fatalf("check errors: %s", diags.FormatAll(src))
	}
	return prog, Transform(prog, exprTypes, registry)
}

// S2 — Auto uniform: exactly one uniform named "time" of type f32 at
// group=0, binding=0; fragment entry present.
func TestScanBuiltinUniformsS2(t *testing.T) {
	src := `
@fragment
function main(): vec4f {
  return vec4f(sin(time), 0.0, 0.0, 1.0);
}
`
	_, mod := compileToIR(t, src)
	if len(mod.Uniforms) != 1 {
		t.Fatalf("expected exactly 1 uniform, got %d: %+v", len(mod.Uniforms), mod.Uniforms)
	}
	u := mod.Uniforms[0]
	if u.Name != "time" || u.Group != 0 || u.Binding != 0 {
		t.Fatalf("expected uniform time@0:0, got %+v", u)
	}
	if !u.Type.Equal(types.Prm(types.F32)) {
		t.Fatalf("expected time: f32, got %v", u.Type)
	}
	if len(mod.EntryPointFuncs()) != 1 || mod.EntryPointFuncs()[0].Stage != ir.StageFragment {
		t.Fatalf("expected one fragment entry point, got %+v", mod.EntryPointFuncs())
	}
}

func TestScanBuiltinUniformsFirstUseOrderAndDedup(t *testing.T) {
	src := `
@fragment
function main(): vec4f {
  let a = mouse.x + time;
  let b = time + resolution.x;
  return vec4f(a, b, deltaTime, 1.0);
}
`
	_, mod := compileToIR(t, src)
	var names []string
	for _, u := range mod.Uniforms {
		names = append(names, u.Name)
	}
	want := []string{"mouse", "time", "resolution", "deltaTime"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, names)
		}
	}
	for i, u := range mod.Uniforms {
		if u.Binding != uint32(i) {
			t.Fatalf("expected monotonic bindings, got %+v", mod.Uniforms)
		}
	}
}

func TestLowerMathDotRewrite(t *testing.T) {
	src := `
@fragment
function main(): vec4f {
  let a = Math.sin(Math.PI);
  return vec4f(a, 0.0, 0.0, 1.0);
}
`
	_, mod := compileToIR(t, src)
	fn := mod.Functions[0]
	decl, ok := fn.Body[0].(*ir.VarDecl)
	if !ok {
		t.Fatalf("expected first statement to be a VarDecl, got %T", fn.Body[0])
	}
	call, ok := decl.Init.(*ir.Call)
	if !ok || call.Callee != "sin" {
		t.Fatalf("expected Math.sin to lower to Call{sin}, got %+v", decl.Init)
	}
	lit, ok := call.Args[0].(*ir.Literal)
	if !ok || lit.Text != "3.141592653589793" {
		t.Fatalf("expected Math.PI to lower to a decimal literal, got %+v", call.Args[0])
	}
}

func TestLowerIntLiteralUsedAsFloatGetsDecimalPoint(t *testing.T) {
	src := `
@fragment
function main(): vec4f {
  let x: f32 = 2f;
  return vec4f(x, 0.0, 0.0, 1.0);
}
`
	_, mod := compileToIR(t, src)
	decl, ok := mod.Functions[0].Body[0].(*ir.VarDecl)
	if !ok {
		t.Fatalf("expected VarDecl, got %T", mod.Functions[0].Body[0])
	}
	lit, ok := decl.Init.(*ir.Literal)
	if !ok || lit.Text != "2.0" {
		t.Fatalf("expected literal text '2.0', got %+v", decl.Init)
	}
}

func TestLowerVectorConstructorCall(t *testing.T) {
	src := `
@fragment
function main(): vec4f {
  return vec4f(1.0, 0.0, 0.0, 1.0);
}
`
	_, mod := compileToIR(t, src)
	ret, ok := mod.Functions[0].Body[0].(*ir.ReturnStmt)
	if !ok {
		t.Fatalf("expected ReturnStmt, got %T", mod.Functions[0].Body[0])
	}
	vc, ok := ret.Value.(*ir.VectorConstruct)
	if !ok || len(vc.Args) != 4 {
		t.Fatalf("expected a 4-arg VectorConstruct, got %+v", ret.Value)
	}
}

// A builtin that returns a vector (normalize) must lower to a plain
// Call, not a VectorConstruct — codegen relies on Callee to emit the
// actual operation rather than re-constructing its argument.
func TestLowerVectorValuedBuiltinStaysCall(t *testing.T) {
	src := `
@fragment
function main(@location(0) n: vec3f): vec4f {
  let v = normalize(n);
  return vec4f(v, 1.0);
}
`
	_, mod := compileToIR(t, src)
	decl, ok := mod.Functions[0].Body[0].(*ir.VarDecl)
	if !ok {
		t.Fatalf("expected VarDecl, got %T", mod.Functions[0].Body[0])
	}
	call, ok := decl.Init.(*ir.Call)
	if !ok || call.Callee != "normalize" {
		t.Fatalf("expected normalize(n) to lower to Call{normalize}, got %+v", decl.Init)
	}
}

// A user-defined function returning a vector type must likewise lower
// its call sites to a plain Call, not a VectorConstruct.
func TestLowerUserFunctionReturningVectorStaysCall(t *testing.T) {
	src := `
function tint(): vec3f {
  return vec3f(1.0, 0.0, 0.0);
}

@fragment
function main(): vec4f {
  let c = tint();
  return vec4f(c, 1.0);
}
`
	_, mod := compileToIR(t, src)
	var mainFn *ir.Function
	for i := range mod.Functions {
		if mod.Functions[i].Name == "main" {
			mainFn = &mod.Functions[i]
		}
	}
	if mainFn == nil {
		t.Fatal("expected a main function")
	}
	decl, ok := mainFn.Body[0].(*ir.VarDecl)
	if !ok {
		t.Fatalf("expected VarDecl, got %T", mainFn.Body[0])
	}
	call, ok := decl.Init.(*ir.Call)
	if !ok || call.Callee != "tint" {
		t.Fatalf("expected tint() to lower to Call{tint}, got %+v", decl.Init)
	}
}

func TestLowerComputeWorkgroupSizeDefaultsYZ(t *testing.T) {
	src := `
@compute
@workgroup_size(64)
function main() {
  let x = 1;
}
`
	_, mod := compileToIR(t, src)
	fn := mod.Functions[0]
	if fn.WorkgroupSize == nil || fn.WorkgroupSize.X != 64 || fn.WorkgroupSize.Y != 1 || fn.WorkgroupSize.Z != 1 {
		t.Fatalf("expected workgroup size 64x1x1, got %+v", fn.WorkgroupSize)
	}
}

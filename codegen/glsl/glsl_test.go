package glsl

import (
	"strings"
	"testing"

	"github.com/shader3d/compiler/ast"
	"github.com/shader3d/compiler/check"
	"github.com/shader3d/compiler/diag"
	"github.com/shader3d/compiler/ir"
	"github.com/shader3d/compiler/lexer"
	"github.com/shader3d/compiler/transform"
	"github.com/shader3d/compiler/types"
)

func compileToIR(t *testing.T, src string) *ir.Module {
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
	return transform.Transform(prog, exprTypes, registry)
}

func TestGenerateFragmentHeaderAndUniform(t *testing.T) {
	mod := compileToIR(t, `
@fragment
function main(): vec4f {
  return vec4f(sin(time), 0.0, 0.0, 1.0);
}
`)
	out := Generate(mod).Fragment
	if !strings.HasPrefix(out, "#version 300 es\n") {
		t.Fatalf("expected #version header, got:\n%s", out)
	}
	if !strings.Contains(out, "precision highp float;") {
		t.Fatalf("expected precision declaration, got:\n%s", out)
	}
	if !strings.Contains(out, "uniform float time;") {
		t.Fatalf("expected uniform float time, got:\n%s", out)
	}
	if !strings.Contains(out, "layout(location=0) out vec4 fragColor;") {
		t.Fatalf("expected fragColor output decl, got:\n%s", out)
	}
	if !strings.Contains(out, "fragColor = ") {
		t.Fatalf("expected return rewritten to fragColor assignment, got:\n%s", out)
	}
}

func TestGenerateVertexGLPositionRewrite(t *testing.T) {
	mod := compileToIR(t, `
@vertex
function vs_main(@location(0) pos: vec3f): @builtin(position) vec4f {
  return vec4f(pos, 1.0);
}
`)
	out := Generate(mod).Vertex
	if !strings.Contains(out, "layout(location=0) in vec3 pos;") {
		t.Fatalf("expected layout-qualified vec3 input, got:\n%s", out)
	}
	if !strings.Contains(out, "gl_Position = ") {
		t.Fatalf("expected return rewritten to gl_Position assignment, got:\n%s", out)
	}
	if strings.Contains(out, "vec3<f32>") || strings.Contains(out, "vec4<f32>") {
		t.Fatalf("expected GLSL type spellings (no angle brackets), got:\n%s", out)
	}
}

func TestGenerateVectorConstructorDropsTypeArg(t *testing.T) {
	mod := compileToIR(t, `
@fragment
function main(): vec4f {
  return vec4f(1.0, 0.0, 0.0, 1.0);
}
`)
	out := Generate(mod).Fragment
	if !strings.Contains(out, "vec4(1.0, 0.0, 0.0, 1.0)") {
		t.Fatalf("expected vec4(...) constructor with no type argument, got:\n%s", out)
	}
}

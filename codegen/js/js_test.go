package js

import (
	"strings"
	"testing"

	"github.com/shader3d/compiler/ast"
	"github.com/shader3d/compiler/check"
	"github.com/shader3d/compiler/codegen/modern"
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

func TestGenerateEmbedsSourceAndMetadata(t *testing.T) {
	mod := compileToIR(t, `
@fragment
function main(): vec4f {
  return vec4f(sin(time), 0.0, 0.0, 1.0);
}
`)
	modernSrc := modern.Generate(mod)
	out, err := Generate(mod, modernSrc, "")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(out, "export const source = `") {
		t.Fatalf("expected exported source constant, got:\n%s", out)
	}
	if !strings.Contains(out, modernSrc) {
		t.Fatalf("expected embedded modern source, got:\n%s", out)
	}
	if !strings.Contains(out, `"name": "main"`) {
		t.Fatalf("expected entry point metadata, got:\n%s", out)
	}
	if !strings.Contains(out, `"name": "time"`) {
		t.Fatalf("expected uniform metadata, got:\n%s", out)
	}
	if !strings.Contains(out, "export default source;") {
		t.Fatalf("expected default export, got:\n%s", out)
	}
}

func TestGenerateAppendsSourceMapComment(t *testing.T) {
	mod := compileToIR(t, `
@fragment
function main(): vec4f {
  return vec4f(1.0, 0.0, 0.0, 1.0);
}
`)
	out, err := Generate(mod, "fn main() {}", "data:application/json;base64,abc")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.HasSuffix(strings.TrimRight(out, "\n"), "//# sourceMappingURL=data:application/json;base64,abc") {
		t.Fatalf("expected trailing sourceMappingURL comment, got:\n%s", out)
	}
}

func TestEscapeTemplateLiteralGuardsBackticksAndInterpolation(t *testing.T) {
	mod := compileToIR(t, `
@fragment
function main(): vec4f {
  return vec4f(1.0, 0.0, 0.0, 1.0);
}
`)
	out, err := Generate(mod, "let x = `nested ${y}`;", "")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if strings.Contains(out, "`nested") {
		t.Fatalf("expected embedded backtick to be escaped, got:\n%s", out)
	}
}

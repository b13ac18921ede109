package shader3d

import (
	"strings"
	"testing"

	"github.com/shader3d/compiler/check"
)

func TestCompileSuccessPopulatesAllTargets(t *testing.T) {
	src := `
@fragment
function main(): vec4f {
  return vec4f(sin(time), 0.0, 0.0, 1.0);
}
`
	res := Compile(src, "test.s3d", CompileOptions{Validate: check.ValidateBasic, Optimize: 2})
	if res.Errors.HasErrors() {
		t.Fatalf("unexpected errors: %s", res.Errors.FormatAll(src))
	}
	if res.Modern == "" {
		t.Fatal("expected non-empty modern output")
	}
	if res.GLSLFragment == "" {
		t.Fatal("expected non-empty GLSL fragment output")
	}
	if res.JS == "" {
		t.Fatal("expected non-empty JS wrapper output")
	}
	if !strings.Contains(res.Modern, "@group(0) @binding(0) var<uniform> time: f32;") {
		t.Fatalf("expected auto-detected time uniform in modern output, got:\n%s", res.Modern)
	}
	if res.AST == nil {
		t.Fatal("expected populated AST")
	}
	if res.Stats.TotalMs < 0 {
		t.Fatalf("expected non-negative total time, got %v", res.Stats.TotalMs)
	}
}

// spec.md 6/7: a compilation with >=1 error diagnostic returns empty
// text artifacts but a populated AST and diagnostic list.
func TestCompileErrorPathReturnsEmptyArtifacts(t *testing.T) {
	src := `
@fragment
function main(): vec4f {
  return undefinedIdentifier;
}
`
	res := Compile(src, "test.s3d", CompileOptions{Validate: check.ValidateBasic})
	if !res.Errors.HasErrors() {
		t.Fatal("expected at least one error diagnostic")
	}
	if res.Modern != "" || res.JS != "" || res.GLSLVertex != "" || res.GLSLFragment != "" {
		t.Fatalf("expected empty text artifacts on error, got modern=%q js=%q", res.Modern, res.JS)
	}
	if res.AST == nil {
		t.Fatal("expected AST to remain populated even on error")
	}
}

func TestCompileTargetsSubsetRestrictsOutput(t *testing.T) {
	src := `
@fragment
function main(): vec4f {
  return vec4f(1.0, 0.0, 0.0, 1.0);
}
`
	res := Compile(src, "test.s3d", CompileOptions{Validate: check.ValidateBasic, Targets: []Target{TargetGLSL}})
	if res.GLSLFragment == "" {
		t.Fatal("expected GLSL output when GLSL is the only requested target")
	}
	if res.JS != "" {
		t.Fatalf("expected no JS output when only glsl was requested, got %q", res.JS)
	}
}

func TestCompileSourceMapProducesV3JSON(t *testing.T) {
	src := `
@fragment
function main(): vec4f {
  return vec4f(1.0, 0.0, 0.0, 1.0);
}
`
	res := Compile(src, "test.s3d", CompileOptions{Validate: check.ValidateBasic, SourceMap: true})
	if res.SourceMap == "" {
		t.Fatal("expected a non-empty source map")
	}
	if !strings.Contains(res.SourceMap, `"version":3`) {
		t.Fatalf("expected version 3 in source map, got %s", res.SourceMap)
	}
	if !strings.Contains(res.JS, "sourceMappingURL") {
		t.Fatalf("expected JS wrapper to carry the source map URL, got:\n%s", res.JS)
	}
}

func TestCompileMinifyCollapsesBlankLines(t *testing.T) {
	src := `
@fragment
function main(): vec4f {
  return vec4f(1.0, 0.0, 0.0, 1.0);
}
`
	plain := Compile(src, "test.s3d", CompileOptions{Validate: check.ValidateBasic})
	minified := Compile(src, "test.s3d", CompileOptions{Validate: check.ValidateBasic, Minify: true})
	if len(minified.Modern) >= len(plain.Modern) {
		t.Fatalf("expected minified output to be shorter: plain=%d minified=%d", len(plain.Modern), len(minified.Modern))
	}
}

// Testable Property 1: compile(S,O) is deterministic.
func TestCompileDeterministic(t *testing.T) {
	src := `
@fragment
function main(): vec4f {
  let a = (2.0 + 3.0) * time;
  return vec4f(a, 0.0, 0.0, 1.0);
}
`
	opts := CompileOptions{Validate: check.ValidateBasic, Optimize: 3, SourceMap: true}
	first := Compile(src, "test.s3d", opts)
	second := Compile(src, "test.s3d", opts)
	if first.Modern != second.Modern || first.JS != second.JS || first.GLSLFragment != second.GLSLFragment {
		t.Fatal("expected identical output across repeated compiles of the same source and options")
	}
}

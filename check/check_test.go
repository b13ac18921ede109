package check

import (
	"testing"

	"github.com/shader3d/compiler/ast"
	"github.com/shader3d/compiler/diag"
	"github.com/shader3d/compiler/lexer"
	"github.com/shader3d/compiler/types"
)

func parseAndCheck(t *testing.T, src string) (*ast.Program, diag.List) {
	t.Helper()
	toks := lexer.New(src, "t.s3d").Tokenize()
	var diags diag.List
	prog := ast.New("t.s3d", toks, &diags).ParseProgram()
	registry := types.New()
	c := New(registry, &diags, ValidateOff)
	c.Check(prog)
	return prog, diags
}

func TestMatrixVectorMultiplyTyping(t *testing.T) {
	src := `
function main() {
  let m: mat4x4<f32> = 0;
  let v: vec4<f32> = 0;
  let r = m * v;
}
`
	_, diags := parseAndCheck(t, src)
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags)
	}
}

func TestVectorTimesMatrixIsError(t *testing.T) {
	src := `
function main() {
  let m: mat4x4<f32> = 0;
  let v: vec4<f32> = 0;
  let r = v * m;
}
`
	_, diags := parseAndCheck(t, src)
	if !diags.HasErrors() {
		t.Fatal("expected an error for vector * matrix")
	}
	found := false
	for _, d := range diags {
		if d.Code == "E009" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected E009 diagnostic, got %+v", diags)
	}
}

func TestVertexEntryPointMustReturnVec4(t *testing.T) {
	src := `
@vertex
function main(): f32 {
  return 1.0;
}
`
	_, diags := parseAndCheck(t, src)
	if !diags.HasErrors() {
		t.Fatal("expected entry point error")
	}
	hasVec4OrPosition := false
	for _, d := range diags {
		if containsSubstr(d.Message, "vec4") || containsSubstr(d.Message, "position") {
			hasVec4OrPosition = true
		}
	}
	if !hasVec4OrPosition {
		t.Errorf("expected message mentioning vec4 or position, got %+v", diags)
	}
}

func TestFragmentEntryPointMustReturnVec4OrLocation(t *testing.T) {
	src := `
@fragment
function main(): f32 {
  return 1.0;
}
`
	_, diags := parseAndCheck(t, src)
	if !diags.HasErrors() {
		t.Fatal("expected entry point error")
	}
	found := false
	for _, d := range diags {
		if containsSubstr(d.Message, "vec4") || containsSubstr(d.Message, "location") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected message mentioning vec4 or location, got %+v", diags)
	}
}

func TestVertexEntryPointVec4MustBeF32(t *testing.T) {
	src := `
@vertex
function main(): vec4<i32> {
  return vec4<i32>(1, 1, 1, 1);
}
`
	_, diags := parseAndCheck(t, src)
	if !diags.HasErrors() {
		t.Fatal("expected an error: vertex entry points must return vec4<f32>, not vec4<i32>")
	}
	found := false
	for _, d := range diags {
		if d.Code == "E020" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected E020 diagnostic, got %+v", diags)
	}
}

func TestMatrixConstructorArityMismatchIsError(t *testing.T) {
	src := `
function main() {
  let m = mat4x4f(1.0, 2.0, 3.0);
}
`
	_, diags := parseAndCheck(t, src)
	if !diags.HasErrors() {
		t.Fatal("expected an arity error for an under-full mat4x4f constructor")
	}
	found := false
	for _, d := range diags {
		if d.Code == "E004" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected E004 diagnostic, got %+v", diags)
	}
}

func TestMatrixConstructorFromColumnVectorsIsValid(t *testing.T) {
	src := `
function main() {
  let m = mat4x4f(
    vec4f(1.0, 0.0, 0.0, 0.0),
    vec4f(0.0, 1.0, 0.0, 0.0),
    vec4f(0.0, 0.0, 1.0, 0.0),
    vec4f(0.0, 0.0, 0.0, 1.0));
}
`
	_, diags := parseAndCheck(t, src)
	if diags.HasErrors() {
		t.Fatalf("unexpected errors for a fully-specified column-vector matrix constructor: %+v", diags)
	}
}

func TestComputeRequiresWorkgroupSize(t *testing.T) {
	src := `
@compute
function main() {
  let x = 1;
}
`
	_, diags := parseAndCheck(t, src)
	found := false
	for _, d := range diags {
		if d.Code == "E003" && containsSubstr(d.Message, "@workgroup_size") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected E003 referencing @workgroup_size, got %+v", diags)
	}
}

func TestUnknownIdentifierSuggestsClosestMatch(t *testing.T) {
	src := `
function main() {
  let time2 = 1.0;
  let x = tim2;
}
`
	_, diags := parseAndCheck(t, src)
	if !diags.HasErrors() {
		t.Fatal("expected unknown identifier error")
	}
	suggested := false
	for _, d := range diags {
		if d.Code != "E002" {
			continue
		}
		for _, s := range d.Suggestions {
			if s == "time2" {
				suggested = true
			}
		}
	}
	if !suggested {
		t.Errorf("expected E002 suggesting %q, got %+v", "time2", diags)
	}
}

func containsSubstr(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}

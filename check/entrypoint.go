package check

import (
	"github.com/shader3d/compiler/ast"
	"github.com/shader3d/compiler/diag"
	"github.com/shader3d/compiler/lexer"
	"github.com/shader3d/compiler/types"
)

func diagErrorWithSuggestion(span lexer.Span, code, message, suggestion string) diag.Diagnostic {
	d := diag.New(diag.Error, code, message, &diag.Span{File: span.File, Start: diag.Position(span.Start), End: diag.Position(span.End)})
	d.Suggestions = []string{suggestion}
	return d
}

// checkEntryPoint enforces the stage contracts from spec.md 4.5.
func (c *Checker) checkEntryPoint(fn *ast.FunctionDecl, retType types.Ref) {
	switch fn.Stage {
	case ast.StageVertex:
		c.checkVertexContract(fn, retType)
	case ast.StageFragment:
		c.checkFragmentContract(fn, retType)
	case ast.StageCompute:
		c.checkComputeContract(fn)
	}
}

func (c *Checker) checkVertexContract(fn *ast.FunctionDecl, retType types.Ref) {
	if fn.ReturnType == nil {
		c.errorf("E020", fn.Span, "vertex entry point %q must declare a return type (vec4<f32> or a struct with @builtin(position))", fn.Name)
		return
	}
	if retType.Kind == types.KindVector && retType.VecSize == 4 && retType.Prim == types.F32 {
		return
	}
	if retType.Kind == types.KindStruct {
		if c.structHasBuiltin(retType.StructName, "position") {
			return
		}
		c.errorf("E020", fn.Span, "vertex entry point %q return struct must have an @builtin(position) member", fn.Name)
		return
	}
	c.errorf("E020", fn.Span, "vertex entry point %q must return vec4<f32> or a struct with @builtin(position)", fn.Name)
}

func (c *Checker) checkFragmentContract(fn *ast.FunctionDecl, retType types.Ref) {
	if fn.ReturnType == nil {
		c.errorf("E021", fn.Span, "fragment entry point %q must declare a return type (vec4<*> or a struct with @location members)", fn.Name)
		return
	}
	if retType.Kind == types.KindVector && retType.VecSize == 4 {
		return
	}
	if retType.Kind == types.KindStruct {
		if c.structHasLocation(retType.StructName) {
			return
		}
		c.errorf("E021", fn.Span, "fragment entry point %q return struct must have at least one @location member", fn.Name)
		return
	}
	c.errorf("E021", fn.Span, "fragment entry point %q must return vec4<*> or a struct with @location members", fn.Name)
}

func (c *Checker) checkComputeContract(fn *ast.FunctionDecl) {
	if fn.WorkgroupSize == nil {
		c.errorf("E003", fn.Span, "compute entry point %q must carry @workgroup_size(...)", fn.Name)
		return
	}
	ws := fn.WorkgroupSize
	product := uint64(ws.X)
	if ws.Y != nil {
		product *= uint64(*ws.Y)
	}
	if ws.Z != nil {
		product *= uint64(*ws.Z)
	}
	if product > 1024 {
		c.errorf("E022", fn.Span, "compute entry point %q workgroup size product %d exceeds the limit of 1024", fn.Name, product)
	}
	if product != 64 && product != 128 && product != 256 {
		c.strictf("S006", fn.Span, ValidateBasic, "compute entry point %q workgroup size product %d is not one of the recommended sizes (64, 128, 256)", fn.Name, product)
	}
	if product&(product-1) != 0 {
		c.warnf("W003", fn.Span, "compute entry point %q workgroup size product %d is not a power of two", fn.Name, product)
	}
}

// structHasBuiltin/structHasLocation inspect field attribute metadata.
// Since types.Field carries no attribute list (that lives on
// ast.Field), these walk the original struct declarations the checker
// cached during registration instead of the registry's resolved form.
func (c *Checker) structHasBuiltin(structName, builtin string) bool {
	decl, ok := c.structDecls[structName]
	if !ok {
		return false
	}
	for _, f := range decl.Fields {
		for _, a := range f.Attributes {
			if a.Name == "builtin" && a.Value == "("+builtin+")" {
				return true
			}
			if a.Name == "builtin" && a.Value == builtin {
				return true
			}
		}
	}
	return false
}

func (c *Checker) structHasLocation(structName string) bool {
	decl, ok := c.structDecls[structName]
	if !ok {
		return false
	}
	for _, f := range decl.Fields {
		for _, a := range f.Attributes {
			if a.Name == "location" {
				return true
			}
		}
	}
	return false
}

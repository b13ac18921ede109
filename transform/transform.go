// Package transform lowers a checked surface Program into the
// optimizer's ir.Module, per spec.md 4.6: a builtin-uniform scan
// followed by per-function lowering. It consumes the checker's typed
// expression map (github.com/shader3d/compiler/check.Check's return
// value) rather than re-deriving types, since the checker already
// populates that map defensively even when diagnostics were raised.
package transform

import (
	"strings"

	"github.com/shader3d/compiler/ast"
	"github.com/shader3d/compiler/ir"
	"github.com/shader3d/compiler/types"
)

// builtinUniforms is the fixed auto-detected uniform table from
// spec.md 4.6/6: name -> declared type. Iteration order here is
// irrelevant; ScanBuiltinUniforms reports first-use order separately.
var builtinUniforms = map[string]types.Ref{
	"time":       types.Prm(types.F32),
	"deltaTime":  types.Prm(types.F32),
	"frame":      types.Prm(types.U32),
	"resolution": types.Vec(2, types.F32),
	"mouse":      types.Vec(4, types.F32),
}

// Transform runs both passes and returns the lowered module. registry
// must be the same Registry the checker used, so struct field layouts
// and type names resolve identically.
func Transform(prog *ast.Program, exprTypes map[ast.Expression]types.Ref, registry *types.Registry) *ir.Module {
	l := &lowerer{exprTypes: exprTypes, registry: registry}

	m := &ir.Module{}

	for _, s := range prog.Structs {
		m.Structs = append(m.Structs, l.lowerStruct(s))
	}

	used := ScanBuiltinUniforms(prog)
	for i, name := range used {
		m.Uniforms = append(m.Uniforms, ir.Uniform{
			Name:    name,
			Type:    builtinUniforms[name],
			Group:   0,
			Binding: uint32(i),
			Space:   types.SpaceUniform,
		})
	}

	for _, fn := range prog.Shaders {
		f := l.lowerFunction(fn)
		m.Functions = append(m.Functions, f)
		if f.EntryPoint {
			m.EntryPoints = append(m.EntryPoints, len(m.Functions)-1)
		}
	}

	return m
}

type lowerer struct {
	exprTypes map[ast.Expression]types.Ref
	registry  *types.Registry
}

func (l *lowerer) typeOf(e ast.Expression) types.Ref {
	if t, ok := l.exprTypes[e]; ok {
		return t
	}
	return types.Ref{}
}

func (l *lowerer) resolveTypeSpec(ts *ast.TypeSpec) types.Ref {
	if ts == nil {
		return types.Ref{}
	}
	if r, ok := l.registry.ParseType(ts.String()); ok {
		return r
	}
	return types.Ref{}
}

func (l *lowerer) lowerAttrs(attrs []*ast.Attribute) []ir.Attribute {
	out := make([]ir.Attribute, 0, len(attrs))
	for _, a := range attrs {
		// The surface Value keeps the decorator's "(...)"; ir.Attribute
		// holds the bare argument, which codegen wraps itself.
		value := strings.TrimSuffix(strings.TrimPrefix(a.Value, "("), ")")
		out = append(out, ir.Attribute{Name: a.Name, Value: value})
	}
	return out
}

func (l *lowerer) lowerStruct(s *ast.StructDecl) ir.Struct {
	fields, _ := l.registry.Fields(s.Name)
	out := ir.Struct{Name: s.Name, Fields: make([]ir.StructField, 0, len(s.Fields))}
	for i, f := range s.Fields {
		t := types.Ref{}
		if i < len(fields) {
			t = fields[i].Type
		} else {
			t = l.resolveTypeSpec(f.Type)
		}
		out.Fields = append(out.Fields, ir.StructField{
			Name:       f.Name,
			Type:       t,
			Attributes: l.lowerAttrs(f.Attributes),
		})
	}
	return out
}

func lowerStage(s ast.Stage) ir.Stage {
	switch s {
	case ast.StageVertex:
		return ir.StageVertex
	case ast.StageFragment:
		return ir.StageFragment
	case ast.StageCompute:
		return ir.StageCompute
	default:
		return ir.StageNone
	}
}

func lowerWorkgroupSize(w *ast.WorkgroupSize) *ir.WorkgroupSize {
	if w == nil {
		return nil
	}
	out := &ir.WorkgroupSize{X: w.X, Y: 1, Z: 1}
	if w.Y != nil {
		out.Y = *w.Y
	}
	if w.Z != nil {
		out.Z = *w.Z
	}
	return out
}

func (l *lowerer) lowerFunction(fn *ast.FunctionDecl) ir.Function {
	out := ir.Function{
		Name:          fn.Name,
		Stage:         lowerStage(fn.Stage),
		EntryPoint:    fn.Stage != ast.StageNone,
		ReturnType:    l.resolveTypeSpec(fn.ReturnType),
		ReturnAttrs:   l.lowerAttrs(fn.ReturnAttrs),
		WorkgroupSize: lowerWorkgroupSize(fn.WorkgroupSize),
	}
	for _, p := range fn.Params {
		out.Params = append(out.Params, ir.Param{
			Name:       p.Name,
			Type:       l.resolveTypeSpec(p.Type),
			Attributes: l.lowerAttrs(p.Attributes),
		})
	}
	out.Body = l.lowerBlock(fn.Body)
	return out
}

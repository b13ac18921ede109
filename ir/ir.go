// Package ir is the optimizer's working form: functions lowered from
// the surface AST, each with a structured statement body (not a
// string) so passes can pattern-match precisely instead of rewriting
// text with regular expressions.
package ir

import "github.com/shader3d/compiler/types"

// Stage mirrors ast.Stage without importing ast: the IR is built by
// consuming the AST, and nothing downstream of the transformer should
// need to reach back into surface-syntax types.
type Stage uint8

const (
	StageNone Stage = iota
	StageVertex
	StageFragment
	StageCompute
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	case StageCompute:
		return "compute"
	default:
		return "none"
	}
}

// Attribute is a carried-through decorator, e.g. @builtin(position) or
// @location(0).
type Attribute struct {
	Name  string
	Value string
}

// Param is a function parameter: name, type, and its attribute list
// (carried through to codegen for @builtin/@location spelling).
type Param struct {
	Name       string
	Type       types.Ref
	Attributes []Attribute
}

// WorkgroupSize is a compute entry point's thread-block shape.
type WorkgroupSize struct {
	X, Y, Z uint32
}

// Function is a lowered shader function. Entry-point functions carry a
// non-StageNone Stage; EntryPoint additionally flags them for the
// optimizer's reachability analysis (DCE keeps only functions
// transitively reachable from an entry point).
type Function struct {
	Name          string
	Stage         Stage
	EntryPoint    bool
	Params        []Param
	ReturnType    types.Ref
	ReturnAttrs   []Attribute
	WorkgroupSize *WorkgroupSize
	Body          []Statement
}

// StructField is an ordered member of a lowered struct type.
type StructField struct {
	Name       string
	Type       types.Ref
	Attributes []Attribute
}

// Struct is a lowered struct declaration (the registry independently
// tracks its computed layout; this keeps source field order and
// attributes for codegen).
type Struct struct {
	Name   string
	Fields []StructField
}

// Uniform is a module-level uniform declaration: its name and type, its
// bind group and binding slot, and its address space.
type Uniform struct {
	Name    string
	Type    types.Ref
	Group   uint32
	Binding uint32
	Space   types.AddressSpace
}

// Module is the complete lowered program: every struct, every
// auto-detected or user-declared uniform, every function, and an index
// of which Functions entries are entry points.
type Module struct {
	Structs      []Struct
	Uniforms     []Uniform
	Functions    []Function
	EntryPoints  []int // indices into Functions
}

// EntryPointFuncs returns the subset of Functions flagged as entry
// points, in declaration order.
func (m *Module) EntryPointFuncs() []*Function {
	out := make([]*Function, 0, len(m.EntryPoints))
	for _, i := range m.EntryPoints {
		out = append(out, &m.Functions[i])
	}
	return out
}

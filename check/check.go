// Package check is the type inference / semantic checker: a single
// traversal over the surface AST that infers expression types, enforces
// entry-point contracts, and reports diagnostics. Per spec.md 4.5 the
// traversal always returns a typed-expression map, even when diagnostics
// were raised — downstream phases (the transformer, the optimizer)
// consult it defensively rather than aborting on the first error.
package check

import (
	"strings"

	"github.com/shader3d/compiler/ast"
	"github.com/shader3d/compiler/diag"
	"github.com/shader3d/compiler/lexer"
	"github.com/shader3d/compiler/types"
	"github.com/xrash/smetrics"
)

// ValidationLevel gates the strict-mode checks (S### diagnostics).
type ValidationLevel uint8

const (
	ValidateOff ValidationLevel = iota
	ValidateBasic
	ValidateStandard
	ValidateStrict
	ValidatePedantic
)

// scope is a single lexical block's variable table.
type scope map[string]types.Ref

// Checker carries the inference context: variables, functions, structs,
// and the accumulated diagnostics/expression-type map for one
// compilation.
type Checker struct {
	registry    *types.Registry
	diags       *diag.List
	level       ValidationLevel
	functions   map[string]*ast.FunctionDecl
	structDecls map[string]*ast.StructDecl
	scopes      []scope
	exprTypes   map[ast.Expression]types.Ref
}

// New creates a Checker over a Type Registry (already populated with
// builtins). Check additionally registers every struct declaration in
// the program before checking function bodies.
func New(registry *types.Registry, diags *diag.List, level ValidationLevel) *Checker {
	return &Checker{
		registry:    registry,
		diags:       diags,
		level:       level,
		functions:   make(map[string]*ast.FunctionDecl),
		structDecls: make(map[string]*ast.StructDecl),
		exprTypes:   make(map[ast.Expression]types.Ref),
	}
}

// Check runs the full traversal and returns the typed-expression map.
// It is populated defensively even in the presence of errors.
func (c *Checker) Check(prog *ast.Program) map[ast.Expression]types.Ref {
	c.registerStructs(prog.Structs)

	for _, fn := range prog.Shaders {
		c.functions[fn.Name] = fn
	}

	c.pushScope()
	for _, g := range prog.Globals {
		c.declare(g.Name, c.resolveType(g.Type, g.Span))
	}
	for _, fn := range prog.Shaders {
		c.checkFunction(fn)
	}
	c.popScope()

	return c.exprTypes
}

func (c *Checker) registerStructs(structs []*ast.StructDecl) {
	for _, s := range structs {
		c.structDecls[s.Name] = s
		if fieldReferencesOwnStruct(s) {
			c.errorf("E010", s.Span, "struct %q cannot contain itself (recursive struct references are forbidden)", s.Name)
			continue
		}
		fields := make([]types.Field, 0, len(s.Fields))
		for _, f := range s.Fields {
			fields = append(fields, types.Field{Name: f.Name, Type: c.resolveType(f.Type, f.Span)})
		}
		c.registry.RegisterStruct(s.Name, fields)
	}
}

func fieldReferencesOwnStruct(s *ast.StructDecl) bool {
	for _, f := range s.Fields {
		if f.Type != nil && f.Type.Name == s.Name {
			return true
		}
	}
	return false
}

// resolveType turns a parsed TypeSpec into a registry-backed Ref,
// reporting a diagnostic and returning the zero Ref (treated as
// "unknown" by the rest of the checker) on failure.
func (c *Checker) resolveType(ts *ast.TypeSpec, span lexer.Span) types.Ref {
	if ts == nil {
		return types.Ref{}
	}
	if r, ok := c.registry.ParseType(ts.String()); ok {
		return r
	}
	c.errorf("E001", span, "unknown type %q", ts.String())
	return types.Ref{}
}

func isUnknown(r types.Ref) bool { return r.Kind == types.KindInvalid }

// --- scopes ---

func (c *Checker) pushScope() { c.scopes = append(c.scopes, make(scope)) }
func (c *Checker) popScope()  { c.scopes = c.scopes[:len(c.scopes)-1] }

func (c *Checker) declare(name string, t types.Ref) {
	c.scopes[len(c.scopes)-1][name] = t
}

func (c *Checker) lookup(name string) (types.Ref, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if t, ok := c.scopes[i][name]; ok {
			return t, true
		}
	}
	return types.Ref{}, false
}

// suggestName finds the closest known identifier to name (variables in
// scope, function names, and builtins) by Jaro-Winkler similarity, for
// "did you mean" diagnostics.
func (c *Checker) suggestName(name string) string {
	best, bestScore := "", 0.75 // below this threshold, no suggestion is offered
	consider := func(candidate string) {
		if candidate == name {
			return
		}
		score := smetrics.JaroWinkler(strings.ToLower(name), strings.ToLower(candidate), 0.7, 4)
		if score > bestScore {
			bestScore, best = score, candidate
		}
	}
	for _, s := range c.scopes {
		for n := range s {
			consider(n)
		}
	}
	for n := range c.functions {
		consider(n)
	}
	for _, n := range builtinNames {
		consider(n)
	}
	return best
}

func (c *Checker) errorf(code string, span lexer.Span, format string, args ...interface{}) {
	c.diags.Errorf(code, &diag.Span{File: span.File, Start: diag.Position(span.Start), End: diag.Position(span.End)}, format, args...)
}

func (c *Checker) warnf(code string, span lexer.Span, format string, args ...interface{}) {
	c.diags.Add(diag.Newf(diag.Warning, code, &diag.Span{File: span.File, Start: diag.Position(span.Start), End: diag.Position(span.End)}, format, args...))
}

func (c *Checker) strictf(code string, span lexer.Span, minLevel ValidationLevel, format string, args ...interface{}) {
	if c.level < minLevel {
		return
	}
	c.diags.Add(diag.Newf(diag.Warning, code, &diag.Span{File: span.File, Start: diag.Position(span.Start), End: diag.Position(span.End)}, format, args...))
}

package check

import (
	"strings"

	"github.com/shader3d/compiler/ast"
	"github.com/shader3d/compiler/swizzle"
	"github.com/shader3d/compiler/types"
)

func (c *Checker) checkFunction(fn *ast.FunctionDecl) {
	c.pushScope()
	defer c.popScope()

	for _, p := range fn.Params {
		c.declare(p.Name, c.resolveType(p.Type, p.Span))
	}

	var retType types.Ref
	if fn.ReturnType != nil {
		retType = c.resolveType(fn.ReturnType, fn.Span)
	}

	for _, stmt := range fn.Body {
		c.checkStatement(stmt, retType)
	}

	c.checkEntryPoint(fn, retType)
}

func (c *Checker) checkStatement(stmt ast.Statement, retType types.Ref) {
	switch s := stmt.(type) {
	case *ast.VarStmt:
		var t types.Ref
		if s.Init != nil {
			t = c.infer(s.Init)
		}
		if s.Type != nil {
			declared := c.resolveType(s.Type, s.Span)
			if !isUnknown(declared) {
				t = declared
			}
		}
		c.declare(s.Name, t)

	case *ast.ExprStmt:
		c.infer(s.Expr)

	case *ast.ReturnStmt:
		if s.Value == nil {
			return
		}
		got := c.infer(s.Value)
		if isUnknown(retType) || isUnknown(got) {
			return
		}
		if !got.Equal(retType) {
			if isImplicitNumericWiden(got, retType) {
				return
			}
			if isNarrowing(got, retType) {
				c.strictf("S010", s.Span, ValidateOff, "return value narrows %s to %s", types.TypeToString(got), types.TypeToString(retType))
				return
			}
			c.errorf("E005", s.Span, "return type mismatch: function returns %s, got %s", types.TypeToString(retType), types.TypeToString(got))
		}

	case *ast.IfStmt:
		c.infer(s.Cond)
		c.pushScope()
		for _, st := range s.Then {
			c.checkStatement(st, retType)
		}
		c.popScope()
		if s.Else != nil {
			c.pushScope()
			for _, st := range s.Else {
				c.checkStatement(st, retType)
			}
			c.popScope()
		}

	case *ast.ForStmt:
		c.pushScope()
		if s.Init != nil {
			c.checkStatement(s.Init, retType)
		}
		if s.Cond != nil {
			c.infer(s.Cond)
		}
		if s.Post != nil {
			c.checkStatement(s.Post, retType)
		}
		for _, st := range s.Body {
			c.checkStatement(st, retType)
		}
		c.popScope()

	case *ast.WhileStmt:
		c.infer(s.Cond)
		c.pushScope()
		for _, st := range s.Body {
			c.checkStatement(st, retType)
		}
		c.popScope()

	case *ast.BlockStmt:
		c.pushScope()
		for _, st := range s.Body {
			c.checkStatement(st, retType)
		}
		c.popScope()
	}
}

// infer computes (and memoizes in exprTypes) the type of e. Errors leave
// a KindInvalid Ref behind rather than aborting the traversal.
func (c *Checker) infer(e ast.Expression) types.Ref {
	t := c.inferUncached(e)
	c.exprTypes[e] = t
	return t
}

func (c *Checker) inferUncached(e ast.Expression) types.Ref {
	switch n := e.(type) {
	case *ast.LiteralExpr:
		return inferLiteral(n)

	case *ast.IdentExpr:
		if t, ok := c.lookup(n.Name); ok {
			return t
		}
		msg := "unknown identifier " + n.Name
		if suggestion := c.suggestName(n.Name); suggestion != "" {
			c.diags.Add(diagErrorWithSuggestion(n.Span, "E002", msg, suggestion))
		} else {
			c.errorf("E002", n.Span, "%s", msg)
		}
		return types.Ref{}

	case *ast.ParenExpr:
		return c.infer(n.Expr)

	case *ast.UnaryExpr:
		return c.infer(n.Expr)

	case *ast.AssignExpr:
		target := c.infer(n.Target)
		c.infer(n.Value)
		return target

	case *ast.LogicalExpr:
		c.infer(n.Left)
		c.infer(n.Right)
		return types.Prm(types.Bool)

	case *ast.BinaryExpr:
		return c.inferBinary(n)

	case *ast.CallExpr:
		return c.inferCall(n)

	case *ast.MemberExpr:
		return c.inferMember(n)

	case *ast.IndexExpr:
		arr := c.infer(n.Array)
		c.infer(n.Index)
		if arr.Kind == types.KindArray && arr.Elem != nil {
			return *arr.Elem
		}
		if !isUnknown(arr) {
			c.errorf("E006", n.Span, "cannot index non-array type %s", types.TypeToString(arr))
		}
		return types.Ref{}

	case *ast.ArrayLiteralExpr:
		var elem types.Ref
		for _, el := range n.Elements {
			elem = c.infer(el)
		}
		return elem

	default:
		return types.Ref{}
	}
}

func inferLiteral(n *ast.LiteralExpr) types.Ref {
	switch n.Kind {
	case "bool":
		return types.Prm(types.Bool)
	case "string":
		return types.Ref{}
	case "float":
		if strings.HasSuffix(n.Text, "h") {
			return types.Prm(types.F16)
		}
		return types.Prm(types.F32)
	default: // "int"
		switch {
		case strings.HasSuffix(n.Text, "u"):
			return types.Prm(types.U32)
		default:
			return types.Prm(types.I32)
		}
	}
}

func (c *Checker) inferBinary(n *ast.BinaryExpr) types.Ref {
	left := c.infer(n.Left)
	right := c.infer(n.Right)

	switch n.Op {
	case "==", "!=", "<", ">", "<=", ">=", "===", "!==":
		return types.Prm(types.Bool)
	case "*":
		return c.inferMultiply(n, left, right)
	default: // + - / %
		if isUnknown(left) || isUnknown(right) {
			return types.Ref{}
		}
		if left.Equal(right) {
			return left
		}
		if left.Kind == types.KindVector && right.Kind == types.KindPrimitive {
			return left
		}
		if right.Kind == types.KindVector && left.Kind == types.KindPrimitive {
			return right
		}
		c.errorf("E007", n.Span, "incompatible operand types %s and %s for %q", types.TypeToString(left), types.TypeToString(right), n.Op)
		return types.Ref{}
	}
}

func (c *Checker) inferMultiply(n *ast.BinaryExpr, left, right types.Ref) types.Ref {
	if isUnknown(left) || isUnknown(right) {
		return types.Ref{}
	}
	switch {
	case left.Kind == types.KindMatrix && right.Kind == types.KindVector:
		if left.MatCols != right.VecSize {
			c.errorf("E008", n.Span, "matrix %s cannot multiply vector %s: dimension mismatch", types.TypeToString(left), types.TypeToString(right))
			return types.Ref{}
		}
		return types.Vec(left.MatRows, left.Prim)

	case left.Kind == types.KindMatrix && right.Kind == types.KindMatrix:
		if left.MatCols != right.MatRows {
			c.errorf("E008", n.Span, "matrix %s cannot multiply matrix %s: dimension mismatch", types.TypeToString(left), types.TypeToString(right))
			return types.Ref{}
		}
		return types.Mat(right.MatCols, left.MatRows, left.Prim)

	case left.Kind == types.KindVector && right.Kind == types.KindMatrix:
		c.errorf("E009", n.Span, "vector * matrix is not defined; reverse the operands (matrix * vector)")
		return types.Ref{}

	case left.Kind == types.KindVector && right.Kind == types.KindPrimitive:
		return left
	case right.Kind == types.KindVector && left.Kind == types.KindPrimitive:
		return right
	case left.Equal(right):
		return left
	default:
		c.errorf("E007", n.Span, "incompatible operand types %s and %s for \"*\"", types.TypeToString(left), types.TypeToString(right))
		return types.Ref{}
	}
}

var vectorConstructors = map[string]struct {
	size uint8
	elem types.Primitive
}{
	"vec2f": {2, types.F32}, "vec3f": {3, types.F32}, "vec4f": {4, types.F32},
	"vec2i": {2, types.I32}, "vec3i": {3, types.I32}, "vec4i": {4, types.I32},
	"vec2u": {2, types.U32}, "vec3u": {3, types.U32}, "vec4u": {4, types.U32},
	"vec2h": {2, types.F16}, "vec3h": {3, types.F16}, "vec4h": {4, types.F16},
}

func (c *Checker) inferCall(n *ast.CallExpr) types.Ref {
	args := make([]types.Ref, 0, len(n.Args))
	for _, a := range n.Args {
		args = append(args, c.infer(a))
	}

	ident, ok := n.Callee.(*ast.IdentExpr)
	if !ok {
		c.infer(n.Callee)
		return types.Ref{}
	}

	if vc, ok := vectorConstructors[ident.Name]; ok {
		return c.checkVectorConstructor(n, vc.size, vc.elem, args)
	}
	if ref, ok := c.registry.ParseType(ident.Name); ok {
		switch ref.Kind {
		case types.KindVector:
			return ref
		case types.KindMatrix:
			return c.checkMatrixConstructor(n, ref, args)
		}
	}

	if ret, ok := inferBuiltinCall(ident.Name, args); ok {
		return ret
	}

	if fn, ok := c.functions[ident.Name]; ok {
		if fn.ReturnType == nil {
			return types.Ref{}
		}
		return c.resolveType(fn.ReturnType, fn.Span)
	}

	msg := "unknown function " + ident.Name
	if suggestion := c.suggestName(ident.Name); suggestion != "" {
		c.diags.Add(diagErrorWithSuggestion(n.Span, "E003", msg, suggestion))
	} else {
		c.errorf("E003", n.Span, "%s", msg)
	}
	return types.Ref{}
}

func (c *Checker) checkVectorConstructor(n *ast.CallExpr, size uint8, elem types.Primitive, args []types.Ref) types.Ref {
	want := types.Vec(size, elem)
	if len(args) == 1 {
		return want // splat form: exactly 1 scalar
	}
	total := uint8(0)
	for _, a := range args {
		switch a.Kind {
		case types.KindPrimitive:
			total++
		case types.KindVector:
			total += a.VecSize
		}
	}
	if total != size {
		c.errorf("E004", n.Span, "vec%d constructor expects %d components, got %d", size, size, total)
	}
	return want
}

// checkMatrixConstructor enforces spec.md 4.5's "analogous rule" for
// matrix constructors: exactly 1 scalar splats the whole matrix,
// otherwise the argument components (scalars count 1, vectors count
// their VecSize) must sum to cols*rows.
func (c *Checker) checkMatrixConstructor(n *ast.CallExpr, want types.Ref, args []types.Ref) types.Ref {
	if len(args) == 1 {
		return want
	}
	wantTotal := uint16(want.MatCols) * uint16(want.MatRows)
	total := uint16(0)
	for _, a := range args {
		switch a.Kind {
		case types.KindPrimitive:
			total++
		case types.KindVector:
			total += uint16(a.VecSize)
		}
	}
	if total != wantTotal {
		c.errorf("E004", n.Span, "mat%dx%d constructor expects %d components, got %d", want.MatCols, want.MatRows, wantTotal, total)
	}
	return want
}

func (c *Checker) inferMember(n *ast.MemberExpr) types.Ref {
	obj := c.infer(n.Object)
	if isUnknown(obj) {
		return types.Ref{}
	}
	switch obj.Kind {
	case types.KindVector:
		res := swizzle.Evaluate(int(obj.VecSize), n.Name)
		if !res.Valid {
			c.errorf("E011", n.Span, "invalid swizzle %q on %s: %s", n.Name, types.TypeToString(obj), res.Error)
			return types.Ref{}
		}
		if res.Scalar {
			return types.Prm(obj.Prim)
		}
		return types.Vec(uint8(res.ResultSize), obj.Prim)

	case types.KindStruct:
		fields, ok := c.registry.Fields(obj.StructName)
		if !ok {
			return types.Ref{}
		}
		for _, f := range fields {
			if f.Name == n.Name {
				return f.Type
			}
		}
		c.errorf("E012", n.Span, "struct %s has no field %q", obj.StructName, n.Name)
		return types.Ref{}

	default:
		c.errorf("E013", n.Span, "cannot access member %q on type %s", n.Name, types.TypeToString(obj))
		return types.Ref{}
	}
}

func isImplicitNumericWiden(from, to types.Ref) bool {
	if from.Kind != types.KindPrimitive || to.Kind != types.KindPrimitive {
		return false
	}
	return (from.Prim == types.I32 || from.Prim == types.U32) && to.Prim == types.F32
}

func isNarrowing(from, to types.Ref) bool {
	if from.Kind != types.KindPrimitive || to.Kind != types.KindPrimitive {
		return false
	}
	switch {
	case from.Prim == types.F32 && to.Prim == types.I32:
		return true
	case from.Prim == types.F32 && to.Prim == types.F16:
		return true
	case from.Prim == types.I32 && to.Prim == types.U32:
		return true
	default:
		return false
	}
}

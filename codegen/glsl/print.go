package glsl

import (
	"fmt"
	"strings"

	"github.com/shader3d/compiler/ir"
	"github.com/shader3d/compiler/types"
)

func indent(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
}

// writeBlock renders a statement list under stage, rewriting the
// entry point's own return statements per spec.md 4.9: a fragment
// `return v;` becomes `fragColor = v; return;`, a vertex one becomes
// `gl_Position = v; return;`.
func writeBlock(sb *strings.Builder, stmts []ir.Statement, depth int, stage ir.Stage, isEntry bool) {
	for _, s := range stmts {
		writeStmt(sb, s, depth, stage, isEntry)
	}
}

func writeStmt(sb *strings.Builder, s ir.Statement, depth int, stage ir.Stage, isEntry bool) {
	switch n := s.(type) {
	case *ir.VarDecl:
		indent(sb, depth)
		// GLSL locals carry no let/var/const qualifier.
		if n.Init != nil {
			fmt.Fprintf(sb, "%s %s = %s;\n", typeToGLSL(n.Type), n.Name, writeExpr(n.Init))
		} else {
			fmt.Fprintf(sb, "%s %s;\n", typeToGLSL(n.Type), n.Name)
		}
	case *ir.ExprStmt:
		indent(sb, depth)
		fmt.Fprintf(sb, "%s;\n", writeExpr(n.Expr))
	case *ir.ReturnStmt:
		indent(sb, depth)
		if n.Value == nil {
			sb.WriteString("return;\n")
			return
		}
		if isEntry && stage == ir.StageFragment {
			fmt.Fprintf(sb, "fragColor = %s;\n", writeExpr(n.Value))
			indent(sb, depth)
			sb.WriteString("return;\n")
			return
		}
		if isEntry && stage == ir.StageVertex {
			fmt.Fprintf(sb, "gl_Position = %s;\n", writeExpr(n.Value))
			indent(sb, depth)
			sb.WriteString("return;\n")
			return
		}
		fmt.Fprintf(sb, "return %s;\n", writeExpr(n.Value))
	case *ir.IfStmt:
		indent(sb, depth)
		fmt.Fprintf(sb, "if (%s) {\n", writeExpr(n.Cond))
		writeBlock(sb, n.Then, depth+1, stage, isEntry)
		indent(sb, depth)
		if len(n.Else) > 0 {
			sb.WriteString("} else {\n")
			writeBlock(sb, n.Else, depth+1, stage, isEntry)
			indent(sb, depth)
		}
		sb.WriteString("}\n")
	case *ir.ForStmt:
		indent(sb, depth)
		sb.WriteString("for (")
		writeInline(sb, n.Init)
		sb.WriteString("; ")
		if n.Cond != nil {
			sb.WriteString(writeExpr(n.Cond))
		}
		sb.WriteString("; ")
		writeInline(sb, n.Post)
		sb.WriteString(") {\n")
		writeBlock(sb, n.Body, depth+1, stage, isEntry)
		indent(sb, depth)
		sb.WriteString("}\n")
	case *ir.WhileStmt:
		indent(sb, depth)
		fmt.Fprintf(sb, "while (%s) {\n", writeExpr(n.Cond))
		writeBlock(sb, n.Body, depth+1, stage, isEntry)
		indent(sb, depth)
		sb.WriteString("}\n")
	case *ir.BlockStmt:
		indent(sb, depth)
		sb.WriteString("{\n")
		writeBlock(sb, n.Body, depth+1, stage, isEntry)
		indent(sb, depth)
		sb.WriteString("}\n")
	case *ir.DiscardStmt:
		indent(sb, depth)
		sb.WriteString("discard;\n")
	case *ir.BreakStmt:
		indent(sb, depth)
		sb.WriteString("break;\n")
	case *ir.ContinueStmt:
		indent(sb, depth)
		sb.WriteString("continue;\n")
	}
}

func writeInline(sb *strings.Builder, s ir.Statement) {
	switch n := s.(type) {
	case nil:
		return
	case *ir.VarDecl:
		if n.Init != nil {
			fmt.Fprintf(sb, "%s %s = %s", typeToGLSL(n.Type), n.Name, writeExpr(n.Init))
		} else {
			fmt.Fprintf(sb, "%s %s", typeToGLSL(n.Type), n.Name)
		}
	case *ir.ExprStmt:
		sb.WriteString(writeExpr(n.Expr))
	}
}

// writeExpr renders e in GLSL syntax, applying the builtin rewrites
// spec.md 4.9 calls for: vec{n}<T>(...) drops its angle-bracket type
// argument, select(a,b,c) becomes a ternary, arrayLength(&x) becomes
// x.length().
func writeExpr(e ir.Expression) string {
	switch n := e.(type) {
	case *ir.Literal:
		return n.Text
	case *ir.Ident:
		return n.Name
	case *ir.Unary:
		return fmt.Sprintf("%s(%s)", n.Op, writeExpr(n.Expr))
	case *ir.Binary:
		return fmt.Sprintf("(%s %s %s)", writeExpr(n.Left), n.Op, writeExpr(n.Right))
	case *ir.Call:
		if rewritten, ok := rewriteCall(n); ok {
			return rewritten
		}
		return fmt.Sprintf("%s(%s)", n.Callee, writeArgs(n.Args))
	case *ir.VectorConstruct:
		return fmt.Sprintf("%s(%s)", typeToGLSL(n.Type), writeArgs(n.Args))
	case *ir.Member:
		return fmt.Sprintf("%s.%s", writeExpr(n.Object), n.Name)
	case *ir.Index:
		return fmt.Sprintf("%s[%s]", writeExpr(n.Array), writeExpr(n.Idx))
	case *ir.Assign:
		return fmt.Sprintf("%s %s %s", writeExpr(n.Target), n.Op, writeExpr(n.Value))
	default:
		return ""
	}
}

// rewriteCall handles the builtins that change shape (not just name)
// between the modern target and GLSL.
func rewriteCall(n *ir.Call) (string, bool) {
	switch n.Callee {
	case "select":
		if len(n.Args) != 3 {
			return "", false
		}
		// modern: select(falseVal, trueVal, cond) -> GLSL: cond ? trueVal : falseVal
		return fmt.Sprintf("(%s ? %s : %s)", writeExpr(n.Args[2]), writeExpr(n.Args[1]), writeExpr(n.Args[0])), true
	case "arrayLength":
		if len(n.Args) != 1 {
			return "", false
		}
		arg := n.Args[0]
		if u, ok := arg.(*ir.Unary); ok && u.Op == "&" {
			arg = u.Expr
		}
		return fmt.Sprintf("%s.length()", writeExpr(arg)), true
	case "saturate":
		if len(n.Args) != 1 {
			return "", false
		}
		return fmt.Sprintf("clamp(%s, 0.0, 1.0)", writeExpr(n.Args[0])), true
	}
	return "", false
}

func writeArgs(args []ir.Expression) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = writeExpr(a)
	}
	return strings.Join(parts, ", ")
}

func typeToGLSLWithArray(ref types.Ref) string {
	return typeToGLSL(ref) + arraySuffix(ref)
}

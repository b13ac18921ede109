package modern

import (
	"fmt"
	"strings"

	"github.com/shader3d/compiler/ir"
	"github.com/shader3d/compiler/types"
)

func indent(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
}

func writeBlock(sb *strings.Builder, stmts []ir.Statement, depth int) {
	for _, s := range stmts {
		writeStmt(sb, s, depth)
	}
}

func writeStmt(sb *strings.Builder, s ir.Statement, depth int) {
	switch n := s.(type) {
	case *ir.VarDecl:
		indent(sb, depth)
		if n.Init != nil {
			fmt.Fprintf(sb, "let %s: %s = %s;\n", n.Name, types.TypeToString(n.Type), writeExpr(n.Init))
		} else {
			fmt.Fprintf(sb, "var %s: %s;\n", n.Name, types.TypeToString(n.Type))
		}
	case *ir.ExprStmt:
		indent(sb, depth)
		fmt.Fprintf(sb, "%s;\n", writeExpr(n.Expr))
	case *ir.ReturnStmt:
		indent(sb, depth)
		if n.Value == nil {
			sb.WriteString("return;\n")
		} else {
			fmt.Fprintf(sb, "return %s;\n", writeExpr(n.Value))
		}
	case *ir.IfStmt:
		indent(sb, depth)
		fmt.Fprintf(sb, "if (%s) {\n", writeExpr(n.Cond))
		writeBlock(sb, n.Then, depth+1)
		indent(sb, depth)
		if len(n.Else) > 0 {
			sb.WriteString("} else {\n")
			writeBlock(sb, n.Else, depth+1)
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
		writeBlock(sb, n.Body, depth+1)
		indent(sb, depth)
		sb.WriteString("}\n")
	case *ir.WhileStmt:
		indent(sb, depth)
		fmt.Fprintf(sb, "while (%s) {\n", writeExpr(n.Cond))
		writeBlock(sb, n.Body, depth+1)
		indent(sb, depth)
		sb.WriteString("}\n")
	case *ir.BlockStmt:
		indent(sb, depth)
		sb.WriteString("{\n")
		writeBlock(sb, n.Body, depth+1)
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

// writeInline renders a for-loop's init/post clause with no trailing
// newline or indentation, for splicing inline between parens.
func writeInline(sb *strings.Builder, s ir.Statement) {
	switch n := s.(type) {
	case nil:
		return
	case *ir.VarDecl:
		if n.Init != nil {
			fmt.Fprintf(sb, "var %s = %s", n.Name, writeExpr(n.Init))
		} else {
			fmt.Fprintf(sb, "var %s: %s", n.Name, types.TypeToString(n.Type))
		}
	case *ir.ExprStmt:
		sb.WriteString(writeExpr(n.Expr))
	}
}

// writeExpr renders e to text. Sub-binary operands are always fully
// parenthesized rather than reasoning about operator precedence — a
// conservative simplification that keeps output unambiguous and
// guarantees balanced braces/parens (Testable Property 5).
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
		return fmt.Sprintf("%s(%s)", n.Callee, writeArgs(n.Args))
	case *ir.VectorConstruct:
		return fmt.Sprintf("%s(%s)", types.TypeToString(n.Type), writeArgs(n.Args))
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

func writeArgs(args []ir.Expression) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = writeExpr(a)
	}
	return strings.Join(parts, ", ")
}

package optimize

import (
	"strconv"

	"github.com/shader3d/compiler/ir"
	"github.com/shader3d/compiler/types"
)

// litValue parses a Literal's numeric value. ok is false for non-numeric
// literals (bool/string) or unparseable text.
func litValue(l *ir.Literal) (value float64, ok bool) {
	if l.Kind != "int" && l.Kind != "float" {
		return 0, false
	}
	v, err := strconv.ParseFloat(l.Text, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func asLiteral(e ir.Expression) (*ir.Literal, bool) {
	l, ok := e.(*ir.Literal)
	return l, ok
}

// formatNumber renders v back to literal text, matching the kind
// convention (float literals always carry a decimal point, per
// transform's own normalization).
func formatNumber(v float64, kind string, typ types.Ref) *ir.Literal {
	if kind == "int" {
		return &ir.Literal{Type: typ, Kind: "int", Text: strconv.FormatInt(int64(v), 10)}
	}
	text := strconv.FormatFloat(v, 'g', -1, 64)
	if !containsDotOrExp(text) {
		text += ".0"
	}
	return &ir.Literal{Type: typ, Kind: "float", Text: text}
}

func containsDotOrExp(s string) bool {
	for _, r := range s {
		if r == '.' || r == 'e' || r == 'E' {
			return true
		}
	}
	return false
}

// resultKind decides whether a binary op between two literals of kinds
// ka/kb should produce an int or a float literal: float is contagious.
func resultKind(ka, kb string) string {
	if ka == "float" || kb == "float" {
		return "float"
	}
	return "int"
}

// Package modern implements spec.md 4.8's modern-target codegen: one
// WGSL-style text file with struct declarations, one uniform var line
// per detected builtin uniform, then every function with its stage
// decorator and, for compute, @workgroup_size(...).
package modern

import (
	"fmt"
	"strings"

	"github.com/shader3d/compiler/ir"
	"github.com/shader3d/compiler/types"
)

// Generate renders the complete modern-target source text for m.
func Generate(m *ir.Module) string {
	var sb strings.Builder
	for _, s := range m.Structs {
		writeStruct(&sb, s)
	}
	for _, u := range m.Uniforms {
		writeUniform(&sb, u)
	}
	if len(m.Uniforms) > 0 {
		sb.WriteByte('\n')
	}
	for i, f := range m.Functions {
		if i > 0 {
			sb.WriteByte('\n')
		}
		writeFunction(&sb, &f)
	}
	return sb.String()
}

func writeAttr(sb *strings.Builder, a ir.Attribute) {
	if a.Value == "" {
		fmt.Fprintf(sb, "@%s ", a.Name)
		return
	}
	fmt.Fprintf(sb, "@%s(%s) ", a.Name, a.Value)
}

func writeAttrs(sb *strings.Builder, attrs []ir.Attribute) {
	for _, a := range attrs {
		writeAttr(sb, a)
	}
}

func writeStruct(sb *strings.Builder, s ir.Struct) {
	fmt.Fprintf(sb, "struct %s {\n", s.Name)
	for _, f := range s.Fields {
		sb.WriteString("  ")
		writeAttrs(sb, f.Attributes)
		fmt.Fprintf(sb, "%s: %s,\n", f.Name, types.TypeToString(f.Type))
	}
	sb.WriteString("};\n\n")
}

func writeUniform(sb *strings.Builder, u ir.Uniform) {
	fmt.Fprintf(sb, "@group(%d) @binding(%d) var<uniform> %s: %s;\n", u.Group, u.Binding, u.Name, types.TypeToString(u.Type))
}

func stageAttr(f *ir.Function) string {
	switch f.Stage {
	case ir.StageVertex:
		return "@vertex\n"
	case ir.StageFragment:
		return "@fragment\n"
	case ir.StageCompute:
		w := f.WorkgroupSize
		if w == nil {
			w = &ir.WorkgroupSize{X: 1, Y: 1, Z: 1}
		}
		return fmt.Sprintf("@compute @workgroup_size(%d, %d, %d)\n", w.X, w.Y, w.Z)
	default:
		return ""
	}
}

func writeFunction(sb *strings.Builder, f *ir.Function) {
	sb.WriteString(stageAttr(f))
	fmt.Fprintf(sb, "fn %s(", f.Name)
	for i, p := range f.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeAttrs(sb, p.Attributes)
		fmt.Fprintf(sb, "%s: %s", p.Name, types.TypeToString(p.Type))
	}
	sb.WriteString(")")
	if f.ReturnType.Kind != types.KindInvalid {
		sb.WriteString(" -> ")
		writeAttrs(sb, f.ReturnAttrs)
		sb.WriteString(types.TypeToString(f.ReturnType))
	}
	sb.WriteString(" {\n")
	writeBlock(sb, f.Body, 1)
	sb.WriteString("}\n")
}

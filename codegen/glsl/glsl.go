package glsl

import (
	"fmt"
	"strings"

	"github.com/shader3d/compiler/ir"
)

// Pair is the vertex/fragment source pair spec.md 4.9 describes.
// Either field is empty when the module has no entry point of that
// stage.
type Pair struct {
	Vertex   string
	Fragment string
}

// Generate renders m's vertex and fragment entry points into a GLSL
// 300 es pair. A module with more than one entry point per stage emits
// one function per stage text, with the first encountered as the named
// entry (`main`).
func Generate(m *ir.Module) Pair {
	var p Pair
	for i := range m.Functions {
		f := &m.Functions[i]
		switch f.Stage {
		case ir.StageVertex:
			if p.Vertex == "" {
				p.Vertex = generateStage(m, f)
			}
		case ir.StageFragment:
			if p.Fragment == "" {
				p.Fragment = generateStage(m, f)
			}
		}
	}
	return p
}

func generateStage(m *ir.Module, f *ir.Function) string {
	var sb strings.Builder
	sb.WriteString("#version 300 es\n")
	sb.WriteString("precision highp float;\n\n")

	for _, s := range m.Structs {
		writeStructDecl(&sb, s)
	}

	for _, u := range m.Uniforms {
		fmt.Fprintf(&sb, "uniform %s %s;\n", typeToGLSLWithArray(u.Type), u.Name)
	}
	if len(m.Uniforms) > 0 {
		sb.WriteByte('\n')
	}

	for _, p := range f.Params {
		loc, ok := attrValue(p.Attributes, "location")
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "layout(location=%s) in %s %s;\n", loc, typeToGLSLWithArray(p.Type), p.Name)
	}

	if f.Stage == ir.StageFragment {
		loc, ok := attrValue(f.ReturnAttrs, "location")
		if !ok {
			loc = "0"
		}
		fmt.Fprintf(&sb, "layout(location=%s) out vec4 fragColor;\n", loc)
	}
	sb.WriteByte('\n')

	sb.WriteString("void main() {\n")
	writeBlock(&sb, f.Body, 1, f.Stage, true)
	sb.WriteString("}\n")

	return sb.String()
}

func writeStructDecl(sb *strings.Builder, s ir.Struct) {
	fmt.Fprintf(sb, "struct %s {\n", s.Name)
	for _, field := range s.Fields {
		fmt.Fprintf(sb, "  %s %s;\n", typeToGLSLWithArray(field.Type), field.Name)
	}
	sb.WriteString("};\n\n")
}

func attrValue(attrs []ir.Attribute, name string) (string, bool) {
	for _, a := range attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

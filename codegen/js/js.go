// Package js implements spec.md 4.10's JS wrapper codegen: a module
// that exports the modern target as a string constant plus minimal
// metadata. It never executes a shader — it only carries the compiled
// text to downstream runtime code.
package js

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shader3d/compiler/ir"
	"github.com/shader3d/compiler/types"
)

// Metadata is the wrapper's exported descriptor: which functions are
// entry points (by name and stage) and which uniforms the shader
// declares (by name and type spelling).
type Metadata struct {
	EntryPoints []EntryPointInfo `json:"entryPoints"`
	Uniforms    []UniformInfo    `json:"uniforms"`
}

type EntryPointInfo struct {
	Name  string `json:"name"`
	Stage string `json:"stage"`
}

type UniformInfo struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Group   uint32 `json:"group"`
	Binding uint32 `json:"binding"`
}

func buildMetadata(m *ir.Module) Metadata {
	meta := Metadata{}
	for _, f := range m.EntryPointFuncs() {
		meta.EntryPoints = append(meta.EntryPoints, EntryPointInfo{Name: f.Name, Stage: f.Stage.String()})
	}
	for _, u := range m.Uniforms {
		meta.Uniforms = append(meta.Uniforms, UniformInfo{
			Name:    u.Name,
			Type:    types.TypeToString(u.Type),
			Group:   u.Group,
			Binding: u.Binding,
		})
	}
	return meta
}

// Generate renders the JS wrapper module for m, embedding modernSource
// (the already-generated modern-target text) as a template-literal
// string constant plus a JSON metadata export. sourceMapDataURI, when
// non-empty, is appended as a trailing `//# sourceMappingURL=` comment
// per spec.md 4.11.
func Generate(m *ir.Module, modernSource string, sourceMapDataURI string) (string, error) {
	meta := buildMetadata(m)
	metaJSON, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", fmt.Errorf("js: marshal metadata: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("// Generated by the shader3d compiler. Do not edit by hand.\n\n")
	sb.WriteString("export const source = `\n")
	sb.WriteString(escapeTemplateLiteral(modernSource))
	sb.WriteString("`;\n\n")
	fmt.Fprintf(&sb, "export const metadata = %s;\n", metaJSON)
	sb.WriteString("\nexport default source;\n")

	if sourceMapDataURI != "" {
		fmt.Fprintf(&sb, "//# sourceMappingURL=%s\n", sourceMapDataURI)
	}

	return sb.String(), nil
}

// escapeTemplateLiteral guards against the embedded source breaking
// out of a JS template literal via a stray backtick or ${ sequence.
func escapeTemplateLiteral(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "`", "\\`")
	s = strings.ReplaceAll(s, "${", "\\${")
	return s
}

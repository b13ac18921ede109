// Package shader3d is the compiler's public entry point: Compile runs
// source text through the lexer, parser, checker, transformer,
// optimizer, and requested codegens in one synchronous call, per
// spec.md 6.
package shader3d

import (
	"encoding/base64"
	"strings"
	"time"

	"github.com/shader3d/compiler/ast"
	"github.com/shader3d/compiler/check"
	"github.com/shader3d/compiler/codegen/glsl"
	"github.com/shader3d/compiler/codegen/js"
	"github.com/shader3d/compiler/codegen/modern"
	"github.com/shader3d/compiler/diag"
	"github.com/shader3d/compiler/lexer"
	"github.com/shader3d/compiler/optimize"
	"github.com/shader3d/compiler/sourcemap"
	"github.com/shader3d/compiler/transform"
	"github.com/shader3d/compiler/types"
)

// Target names a requested codegen output, per spec.md 6's `targets`
// option.
type Target string

const (
	TargetModern Target = "modern"
	TargetJS     Target = "js"
	TargetGLSL   Target = "glsl"
)

// CompileOptions configures one Compile call.
type CompileOptions struct {
	Validate  check.ValidationLevel
	SourceMap bool
	Optimize  int // 0..3, forwarded to optimize.Options.Level
	Targets   []Target
	Debug     bool // emit origin comments (reserved; see DESIGN.md)
	Minify    bool // trim every output line and drop blank lines; spacing within a line and comments are kept
}

// Stats reports phase timings in milliseconds plus the optimizer's own
// aggregated pass counters (Scenario S4's `stats.constantsFolded` and
// its siblings), surfaced verbatim from optimize.Stats.
type Stats struct {
	ParseMs    float64
	ValidateMs float64
	GenerateMs float64
	TotalMs    float64
	Optimizer  optimize.Stats
}

// DefaultOptions returns the conservative default: basic validation,
// optimization level 1, every target, no source map, no minification.
func DefaultOptions() CompileOptions {
	return CompileOptions{
		Validate: check.ValidateBasic,
		Optimize: 1,
	}
}

// Result is Compile's output. When Errors contains any error-severity
// diagnostic, every text field is empty but AST and Errors remain
// populated, per spec.md 6/7.
type Result struct {
	JS            string
	Modern        string
	GLSLVertex    string
	GLSLFragment  string
	AST           *ast.Program
	Errors        diag.List
	SourceMap     string
	Stats         Stats
}

func wantsTarget(opts CompileOptions, t Target) bool {
	if len(opts.Targets) == 0 {
		return true // no explicit subset requested: emit everything
	}
	for _, want := range opts.Targets {
		if want == t {
			return true
		}
	}
	return false
}

// Compile runs the full pipeline over source text, per spec.md 6.
func Compile(source, filename string, opts CompileOptions) Result {
	start := time.Now()
	var diags diag.List

	parseStart := time.Now()
	toks := lexer.New(source, filename).Tokenize()
	prog := ast.New(filename, toks, &diags).ParseProgram()
	parseMs := msSince(parseStart)

	result := Result{AST: prog}

	validateStart := time.Now()
	registry := types.New()
	c := check.New(registry, &diags, opts.Validate)
	exprTypes := c.Check(prog)
	validateMs := msSince(validateStart)

	result.Errors = diags
	if diags.HasErrors() {
		result.Stats = Stats{ParseMs: parseMs, ValidateMs: validateMs, TotalMs: msSince(start)}
		return result
	}

	mod := transform.Transform(prog, exprTypes, registry)
	optStats := optimize.Run(mod, optimize.Options{Level: opts.Optimize})

	generateStart := time.Now()
	var modernText string
	if wantsTarget(opts, TargetModern) || wantsTarget(opts, TargetJS) {
		modernText = postprocess(modern.Generate(mod), opts)
	}
	if wantsTarget(opts, TargetModern) {
		result.Modern = modernText
	}
	if wantsTarget(opts, TargetGLSL) {
		pair := glsl.Generate(mod)
		result.GLSLVertex = postprocess(pair.Vertex, opts)
		result.GLSLFragment = postprocess(pair.Fragment, opts)
	}

	var sourceMapDataURI string
	if opts.SourceMap {
		result.SourceMap = buildSourceMap(filename, source)
		if result.SourceMap != "" {
			sourceMapDataURI = "data:application/json;charset=utf-8;base64," + base64.StdEncoding.EncodeToString([]byte(result.SourceMap))
		}
	}

	if wantsTarget(opts, TargetJS) {
		wrapper, err := js.Generate(mod, modernText, sourceMapDataURI)
		if err == nil {
			result.JS = wrapper
		} else {
			diags.Errorf("E900", nil, "js codegen failed: %v", err)
			result.Errors = diags
		}
	}
	generateMs := msSince(generateStart)

	result.Stats = Stats{
		ParseMs:    parseMs,
		ValidateMs: validateMs,
		GenerateMs: generateMs,
		TotalMs:    msSince(start),
		Optimizer:  optStats,
	}
	if diags.HasErrors() {
		result.JS, result.Modern, result.GLSLVertex, result.GLSLFragment, result.SourceMap = "", "", "", "", ""
	}
	return result
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t)) / float64(time.Millisecond)
}

// buildSourceMap constructs a minimal single-source V3 map: the whole
// generated output maps back to the start of the original source. Per
// codegen's structured IR not yet carrying per-statement source spans
// forward (see DESIGN.md), this is a file-level mapping rather than a
// fully precise one.
func buildSourceMap(filename, source string) string {
	m := sourcemap.New(filename + ".map")
	srcIdx := m.AddSource(filename, source)
	m.StartLine()
	m.AddSegment(sourcemap.Segment{GeneratedColumn: 0, HasSource: true, SourceIndex: srcIdx, OriginalLine: 0, OriginalColumn: 0})
	encoded, err := m.Encode()
	if err != nil {
		return ""
	}
	return encoded
}

// postprocess applies the minify option: trims leading and trailing
// whitespace from every line and drops blank lines. Whitespace inside
// a line, including around punctuation, is left as it is, and comments
// are not removed. Debug-mode origin comments are not emitted by
// any codegen in this compiler (see DESIGN.md's Open Question note),
// so opts.Debug is currently a no-op here.
func postprocess(text string, opts CompileOptions) string {
	if !opts.Minify {
		return text
	}
	return minifyWhitespace(text)
}

func minifyWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return strings.Join(out, "\n")
}

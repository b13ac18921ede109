// Command shader3dc is a thin demonstration CLI around the shader3d
// compiler: it reads a source file, calls Compile, and writes the
// requested target(s) to disk or stdout. It never becomes part of the
// compiler's pure-function contract — it only calls the root Compile.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	shader3d "github.com/shader3d/compiler"
	"github.com/shader3d/compiler/check"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	app := &cli.App{
		Name:  "shader3dc",
		Usage: "compile shader3d source to modern/GLSL/JS targets",
		Commands: []*cli.Command{
			compileCommand(logger),
			checkCommand(logger),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "shader3dc: %v\n", err)
		os.Exit(1)
	}
}

var validateLevels = map[string]check.ValidationLevel{
	"off":      check.ValidateOff,
	"basic":    check.ValidateBasic,
	"standard": check.ValidateStandard,
	"strict":   check.ValidateStrict,
	"pedantic": check.ValidatePedantic,
}

func sharedFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "validate", Value: "basic", Usage: "off|basic|standard|strict|pedantic"},
		&cli.IntFlag{Name: "optimize", Value: 1, Usage: "optimizer level 0..3"},
		&cli.StringSliceFlag{Name: "target", Usage: "modern, glsl, js (repeatable; default all)"},
		&cli.BoolFlag{Name: "source-map", Usage: "emit a V3 source map"},
		&cli.BoolFlag{Name: "debug", Usage: "emit origin comments (currently a no-op, see DESIGN.md)"},
		&cli.BoolFlag{Name: "minify", Usage: "collapse whitespace in generated output"},
	}
}

func parseOptions(c *cli.Context) (shader3d.CompileOptions, error) {
	opts := shader3d.DefaultOptions()

	levelName := strings.ToLower(c.String("validate"))
	level, ok := validateLevels[levelName]
	if !ok {
		return opts, fmt.Errorf("unknown validate level %q", levelName)
	}
	opts.Validate = level
	opts.Optimize = c.Int("optimize")
	opts.SourceMap = c.Bool("source-map")
	opts.Debug = c.Bool("debug")
	opts.Minify = c.Bool("minify")

	for _, t := range c.StringSlice("target") {
		opts.Targets = append(opts.Targets, shader3d.Target(strings.ToLower(t)))
	}
	return opts, nil
}

func compileCommand(logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:      "compile",
		Usage:     "compile a source file and write the requested targets",
		ArgsUsage: "<input.s3d>",
		Flags: append(sharedFlags(), &cli.StringFlag{
			Name:  "out",
			Usage: "output directory (default: print to stdout)",
		}),
		Action: func(c *cli.Context) error {
			correlationID := uuid.NewString()
			if c.NArg() < 1 {
				return cli.Exit("no input file specified", 1)
			}
			inputPath := c.Args().Get(0)

			source, err := os.ReadFile(inputPath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("reading %s: %v", inputPath, err), 1)
			}

			opts, err := parseOptions(c)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			logger.Info("compile starting", "correlation_id", correlationID, "file", inputPath)
			result := shader3d.Compile(string(source), inputPath, opts)

			if result.Errors.HasErrors() {
				logger.Error("compile failed", "correlation_id", correlationID, "errors", result.Errors.Len())
				fmt.Fprintln(os.Stderr, result.Errors.FormatAll(string(source)))
				return cli.Exit("compilation failed", 1)
			}

			outDir := c.String("out")
			if err := writeOutputs(result, inputPath, outDir); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			logger.Info("compile finished", "correlation_id", correlationID,
				"parse_ms", result.Stats.ParseMs, "total_ms", result.Stats.TotalMs)
			return nil
		},
	}
}

func checkCommand(logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "type-check a source file and print diagnostics, without generating code",
		ArgsUsage: "<input.s3d>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "validate", Value: "basic", Usage: "off|basic|standard|strict|pedantic"},
		},
		Action: func(c *cli.Context) error {
			correlationID := uuid.NewString()
			if c.NArg() < 1 {
				return cli.Exit("no input file specified", 1)
			}
			inputPath := c.Args().Get(0)

			source, err := os.ReadFile(inputPath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("reading %s: %v", inputPath, err), 1)
			}

			levelName := strings.ToLower(c.String("validate"))
			level, ok := validateLevels[levelName]
			if !ok {
				return cli.Exit(fmt.Sprintf("unknown validate level %q", levelName), 1)
			}

			logger.Info("check starting", "correlation_id", correlationID, "file", inputPath)
			// Compile always runs the full pipeline; check only reports
			// diagnostics and discards the generated artifacts.
			result := shader3d.Compile(string(source), inputPath, shader3d.CompileOptions{Validate: level})

			if result.Errors.Len() == 0 {
				fmt.Println("no diagnostics")
				return nil
			}
			fmt.Println(result.Errors.FormatAll(string(source)))
			if result.Errors.HasErrors() {
				return cli.Exit("type errors found", 1)
			}
			return nil
		},
	}
}

func writeOutputs(result shader3d.Result, inputPath, outDir string) error {
	base := strings.TrimSuffix(inputPath, filepathExt(inputPath))

	targets := map[string]string{
		"modern":    result.Modern,
		"glsl.vert": result.GLSLVertex,
		"glsl.frag": result.GLSLFragment,
		"js":        result.JS,
		"map":       result.SourceMap,
	}

	if outDir == "" {
		for name, text := range targets {
			if text == "" {
				continue
			}
			fmt.Printf("// --- %s ---\n%s\n", name, text)
		}
		return nil
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	for name, text := range targets {
		if text == "" {
			continue
		}
		ext := name
		if idx := strings.LastIndex(name, "."); idx >= 0 {
			ext = name[idx+1:]
		}
		path := fmt.Sprintf("%s/%s.%s", outDir, baseName(base), ext)
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}

func filepathExt(path string) string {
	idx := strings.LastIndex(path, ".")
	if idx < 0 {
		return ""
	}
	return path[idx:]
}

func baseName(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return path
	}
	return path[idx+1:]
}

package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/recera/vex/cmd/vexc/internal/config"
	"github.com/recera/vex/pkg/compiler"
	"github.com/recera/vex/pkg/sfc"
	"github.com/recera/vex/pkg/transform"
)

func newBuildCommand() *cobra.Command {
	var mode string
	var out string
	var runtime string

	cmd := &cobra.Command{
		Use:   "build [path...]",
		Short: "Compile .vex components to JavaScript modules",
		Long: `Compiles every .vex file under the given paths (or the configured src
directory) into a JavaScript render module for the selected backend.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(args, mode, out, runtime)
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Backend: dom, vapor or ssr")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output directory (default: next to each source file)")
	cmd.Flags().StringVar(&runtime, "runtime", "", "Module path imported for runtime helpers")

	return cmd
}

func runBuild(args []string, mode, out, runtime string) error {
	cfg, err := loadConfig(mode, out, runtime)
	if err != nil {
		return err
	}
	backend := cfg.BackendMode()

	roots := args
	if len(roots) == 0 {
		roots = []string{cfg.Src}
	}
	files, err := findComponents(roots)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .vex components under %s", strings.Join(roots, ", "))
	}

	log.Printf("🚀 Compiling %d component(s) for %s...", len(files), backend)
	start := time.Now()

	var failed int
	for _, path := range files {
		cb, err := compileComponent(path, cfg, backend)
		if err != nil {
			log.Printf("❌ %s: %v", path, err)
			failed++
			continue
		}
		printDiagnostics(cb)
		if cb.Result.Diagnostics.HasErrors() {
			failed++
			continue
		}
		if err := writeOutputs(cb, cfg.Out, backend); err != nil {
			return err
		}
		log.Printf("  %s → %s", path, outputPath(path, cfg.Out, backend))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d component(s) failed", failed, len(files))
	}
	log.Printf("✅ Compiled %d component(s) in %s", len(files), time.Since(start).Round(time.Millisecond))
	return nil
}

// loadConfig reads vex.yaml from the working directory and layers
// non-empty flag values over it.
func loadConfig(mode, out, runtime string) (*config.Config, error) {
	cfg, err := config.Load(".")
	if err != nil {
		return nil, err
	}
	if mode != "" {
		if _, err := config.ParseMode(mode); err != nil {
			return nil, err
		}
		cfg.Mode = mode
	}
	if out != "" {
		cfg.Out = out
	}
	if runtime != "" {
		cfg.RuntimeModule = runtime
	}
	return cfg, nil
}

// findComponents walks roots collecting .vex files. Roots may also name
// files directly. Hidden directories and node_modules are skipped.
func findComponents(roots []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if !seen[root] {
				seen[root] = true
				files = append(files, root)
			}
			continue
		}
		err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				if path != root && (strings.HasPrefix(info.Name(), ".") || info.Name() == "node_modules") {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) == ".vex" && !seen[path] {
				seen[path] = true
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}

// componentBuild is one compiled component with everything the build
// and watch commands need to report and write it.
type componentBuild struct {
	Path   string
	Source string
	File   *sfc.File
	Result *compiler.Result
}

// Module returns the complete emitted module, preamble then code.
func (cb *componentBuild) Module() string {
	if cb.Result.Preamble == "" {
		return cb.Result.Code
	}
	return cb.Result.Preamble + "\n" + cb.Result.Code
}

// templateBase is the offset of the template block inside the original
// file, for mapping diagnostic spans back to file positions.
func (cb *componentBuild) templateBase() int {
	if cb.File.Template == nil {
		return 0
	}
	return cb.File.Template.Offset
}

// compileComponent reads, splits and compiles one .vex file.
func compileComponent(path string, cfg *config.Config, mode transform.Mode) (*componentBuild, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return compileSource(path, string(data), cfg, mode)
}

// compileSource splits and compiles component source already in hand.
func compileSource(path, source string, cfg *config.Config, mode transform.Mode) (*componentBuild, error) {
	file, err := sfc.Parse(path, source)
	if err != nil {
		return nil, err
	}
	if file.Template == nil {
		return nil, fmt.Errorf("%s has no template block", path)
	}

	res, err := compiler.Compile(file.Template.Content, compiler.Options{
		Mode:            mode,
		IsComponentRoot: true,
		ScopeID:         file.ScopeID(),
		Filename:        path,
		RuntimeModule:   cfg.RuntimeModule,
	})
	if err != nil {
		return nil, err
	}
	return &componentBuild{Path: path, Source: source, File: file, Result: res}, nil
}

// printDiagnostics renders every diagnostic of one build to stderr.
func printDiagnostics(cb *componentBuild) {
	for _, d := range cb.Result.Diagnostics.Items() {
		fmt.Fprintln(os.Stderr, renderDiagnostic(d, cb.Source, cb.Path, cb.templateBase()))
	}
}

// plainDiagnostics renders single-line reports for the reload payload.
func plainDiagnostics(cb *componentBuild) []string {
	items := cb.Result.Diagnostics.Items()
	out := make([]string, len(items))
	for i, d := range items {
		out[i] = plainDiagnostic(d, cb.Source, cb.Path, cb.templateBase())
	}
	return out
}

// outputPath maps Component.vex to its emitted module path. The dom
// backend owns the bare .js name; vapor and ssr modules carry a mode
// suffix so one component can ship all three side by side.
func outputPath(path, outDir string, mode transform.Mode) string {
	suffix := ".js"
	switch mode {
	case transform.ModeVapor:
		suffix = ".vapor.js"
	case transform.ModeSSR:
		suffix = ".ssr.js"
	}
	if outDir != "" {
		path = filepath.Join(outDir, path)
	}
	return path + suffix
}

// stylePath maps Component.vex to the css file its style blocks are
// collected into. Styles are backend-independent.
func stylePath(path, outDir string) string {
	if outDir != "" {
		path = filepath.Join(outDir, path)
	}
	return path + ".css"
}

// writeOutputs writes the compiled module and, when the component has
// style blocks, a sibling .css file with their concatenated contents.
func writeOutputs(cb *componentBuild, outDir string, mode transform.Mode) error {
	jsPath := outputPath(cb.Path, outDir, mode)
	if err := os.MkdirAll(filepath.Dir(jsPath), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(jsPath, []byte(cb.Module()), 0644); err != nil {
		return err
	}
	return writeStyles(cb.File, cb.Path, outDir)
}

// writeStyles collects a component's style blocks into a sibling .css
// file. Components without styles write nothing.
func writeStyles(file *sfc.File, path, outDir string) error {
	if len(file.Styles) == 0 {
		return nil
	}
	parts := make([]string, len(file.Styles))
	for i, st := range file.Styles {
		parts[i] = strings.TrimSpace(st.Content)
	}
	css := strings.Join(parts, "\n\n") + "\n"
	return os.WriteFile(stylePath(path, outDir), []byte(css), 0644)
}

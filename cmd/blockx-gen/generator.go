package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"

	"github.com/hengadev/blockx/internal/codegen"
)

var (
	okColor   = color.New(color.FgGreen)
	skipColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed, color.Bold)
)

// Generator writes registration files for a set of package directories.
type Generator struct {
	config  *Config
	out     io.Writer
	verbose bool
}

// GenerateResult summarises one Generate call.
type GenerateResult struct {
	Written []string
	Skipped []string
	Types   int
}

func NewGenerator(config *Config, out io.Writer, verbose bool) *Generator {
	return &Generator{config: config, out: out, verbose: verbose}
}

// Discover parses every directory concurrently. Directories marked to skip
// are left out; results keep the order of dirs.
func (g *Generator) Discover(ctx context.Context, dirs []string) ([]*codegen.PackageInfo, error) {
	discoveryConfig := &codegen.DiscoveryConfig{
		SkipUnexported: g.config.SkipUnexported,
		OutputFile:     g.config.OutputFile,
	}

	results := make([]*codegen.PackageInfo, len(dirs))
	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))

	for i, dir := range dirs {
		if g.config.Skipped(dir) {
			g.logf(skipColor, "Skipping package %s (marked as skip)\n", dir)
			continue
		}
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			pkg, err := codegen.DiscoverTypes(dir, discoveryConfig)
			if err != nil {
				return fmt.Errorf("failed to discover types in %s: %w", dir, err)
			}
			if errs := codegen.ValidateTypes(pkg); len(errs) > 0 {
				return fmt.Errorf("invalid types in %s: %w", dir, errs[0])
			}
			results[i] = pkg
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	pkgs := make([]*codegen.PackageInfo, 0, len(results))
	for _, pkg := range results {
		if pkg != nil {
			pkgs = append(pkgs, pkg)
		}
	}
	return pkgs, nil
}

// Generate writes one registration file per package with at least one type.
// With dryRun set nothing is written.
func (g *Generator) Generate(ctx context.Context, dirs []string, dryRun bool) (*GenerateResult, error) {
	engine, err := codegen.NewTemplateEngine()
	if err != nil {
		return nil, fmt.Errorf("failed to create template engine: %w", err)
	}

	pkgs, err := g.Discover(ctx, dirs)
	if err != nil {
		return nil, err
	}

	result := &GenerateResult{}
	for _, pkg := range pkgs {
		outputPath := filepath.Join(pkg.Dir, g.config.OutputFile)
		if pkg.Name == "" || len(pkg.Types) == 0 {
			result.Skipped = append(result.Skipped, pkg.Dir)
			g.logf(skipColor, "No types to register in %s\n", pkg.Dir)
			// A stale file would register types that no longer exist.
			if !dryRun {
				if err := os.Remove(outputPath); err != nil && !os.IsNotExist(err) {
					return nil, fmt.Errorf("failed to remove stale %s: %w", outputPath, err)
				}
			}
			continue
		}

		code, err := engine.GenerateCode(codegen.BuildTemplateData(pkg))
		if err != nil {
			return nil, fmt.Errorf("failed to generate code for %s: %w", pkg.Dir, err)
		}

		if dryRun {
			fmt.Fprintf(g.out, "Would generate: %s (%d types)\n", outputPath, len(pkg.Types))
			if g.verbose {
				fmt.Fprintf(g.out, "%s\n", code)
			}
		} else {
			if err := os.WriteFile(outputPath, code, 0644); err != nil {
				return nil, fmt.Errorf("failed to write generated file %s: %w", outputPath, err)
			}
			g.logf(okColor, "Generated: %s (%d types)\n", outputPath, len(pkg.Types))
		}
		result.Written = append(result.Written, outputPath)
		result.Types += len(pkg.Types)
	}

	return result, nil
}

func (g *Generator) logf(c *color.Color, format string, args ...any) {
	if g.verbose {
		c.Fprintf(g.out, format, args...)
	}
}

// expandPatterns turns "dir/..." patterns into every directory below dir
// holding Go files. testdata, vendor and directories starting with "." or "_"
// are never entered, the same directories the go tool ignores.
func expandPatterns(patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	seen := make(map[string]bool)
	var dirs []string
	add := func(dir string) {
		dir = cleanDir(dir)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}

	for _, pattern := range patterns {
		root, recursive := strings.CutSuffix(pattern, "...")
		if !recursive {
			add(pattern)
			continue
		}
		root = strings.TrimSuffix(root, "/")
		if root == "" {
			root = "."
		}

		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			name := d.Name()
			if path != root && (name == "testdata" || name == "vendor" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			hasGo, err := containsGoFiles(path)
			if err != nil {
				return err
			}
			if hasGo {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to expand %s: %w", pattern, err)
		}
	}
	return dirs, nil
}

func containsGoFiles(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".go") && !strings.HasSuffix(e.Name(), "_test.go") {
			return true, nil
		}
	}
	return false, nil
}

func cleanDir(dir string) string {
	return filepath.Clean(filepath.FromSlash(dir))
}

func printError(w io.Writer, err error) {
	errColor.Fprintf(w, "Error: %v\n", err)
}

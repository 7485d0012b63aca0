package codegen

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Module locates a directory inside a Go module.
type Module struct {
	// Root is the absolute directory containing go.mod.
	Root string
	// Path is the module path declared in go.mod.
	Path string
}

// FindModule searches for go.mod starting from startDir and traversing up the
// directory tree.
//
// Example:
//
//	mod, err := FindModule("/home/user/project/internal/geo")
//	if err != nil {
//	    // go.mod not found
//	}
//	// mod.Root might be "/home/user/project"
//	importPath, _ := mod.ImportPath("/home/user/project/internal/geo")
func FindModule(startDir string) (*Module, error) {
	absPath, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	currentDir := absPath
	for {
		goModPath := filepath.Join(currentDir, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			modPath, err := readModulePath(goModPath)
			if err != nil {
				return nil, err
			}
			return &Module{Root: currentDir, Path: modPath}, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return nil, fmt.Errorf("go.mod not found in any parent directory of %s", startDir)
		}
		currentDir = parentDir
	}
}

// ImportPath returns the import path of dir, which must be inside the module.
func (m *Module) ImportPath(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	rel, err := filepath.Rel(m.Root, absDir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside module %s", dir, m.Path)
	}
	if rel == "." {
		return m.Path, nil
	}
	return m.Path + "/" + filepath.ToSlash(rel), nil
}

func readModulePath(goModPath string) (string, error) {
	f, err := os.Open(goModPath)
	if err != nil {
		return "", fmt.Errorf("failed to open go.mod: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if rest, ok := strings.CutPrefix(line, "module"); ok && (rest == "" || rest[0] == ' ' || rest[0] == '\t') {
			path := strings.Trim(strings.TrimSpace(rest), `"`)
			if path == "" {
				break
			}
			return path, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	return "", fmt.Errorf("no module directive in %s", goModPath)
}

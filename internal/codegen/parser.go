package codegen

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultOutputFile is the name of the registration file written in each package.
const DefaultOutputFile = "zz_blockx_universe.go"

// TypeInfo describes a package-level named type that can be registered.
type TypeInfo struct {
	PackageName string
	TypeName    string
	Kind        string
	SourceFile  string
	Exported    bool
	// Embedded lists the type expressions of the anonymous fields of a struct.
	Embedded []string
	// Options holds //blockx:options key=value pairs from the declaration comment.
	Options map[string]string
}

// PackageInfo is the result of discovering one directory.
type PackageInfo struct {
	Dir   string
	Name  string
	Types []TypeInfo
	// Excluded counts declarations that cannot be registered: interfaces,
	// aliases, generic types and types skipped by option or configuration.
	Excluded int
}

// DiscoveryConfig holds configuration for type discovery
type DiscoveryConfig struct {
	SkipUnexported bool
	// OutputFile is ignored while parsing so that regeneration is stable.
	OutputFile string
}

// DiscoverTypes parses the non-test Go files of dir and returns the named
// types declared at package level, sorted by name.
func DiscoverTypes(dir string, config *DiscoveryConfig) (*PackageInfo, error) {
	if config == nil {
		config = &DiscoveryConfig{}
	}
	output := config.OutputFile
	if output == "" {
		output = DefaultOutputFile
	}

	fset := token.NewFileSet()
	pkgs, err := parser.ParseDir(fset, dir, func(fi fs.FileInfo) bool {
		name := fi.Name()
		return !strings.HasSuffix(name, "_test.go") && name != output
	}, parser.ParseComments)
	if err != nil {
		return nil, err
	}

	info := &PackageInfo{Dir: dir}
	for pkgName, pkg := range pkgs {
		if strings.HasSuffix(pkgName, "_test") {
			continue
		}
		if info.Name != "" {
			return nil, fmt.Errorf("multiple packages in %s: %s and %s", dir, info.Name, pkgName)
		}
		info.Name = pkgName

		for fileName, file := range pkg.Files {
			types, excluded, err := discoverTypesInFile(fileName, file, pkgName, config)
			if err != nil {
				return nil, err
			}
			info.Types = append(info.Types, types...)
			info.Excluded += excluded
		}
	}

	slices.SortFunc(info.Types, func(a, b TypeInfo) int {
		return strings.Compare(a.TypeName, b.TypeName)
	})
	return info, nil
}

// discoverTypesInFile walks top-level type declarations only; types local to
// function bodies have no stable identity to register.
func discoverTypesInFile(fileName string, file *ast.File, pkgName string, config *DiscoveryConfig) ([]TypeInfo, int, error) {
	var types []TypeInfo
	excluded := 0

	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts := spec.(*ast.TypeSpec)
			doc := ts.Doc
			if doc == nil && len(gen.Specs) == 1 {
				doc = gen.Doc
			}

			ti, ok := analyzeType(fileName, pkgName, ts, doc)
			if ok {
				if err := validateGenerationOptions(ti.Options); err != nil {
					return nil, 0, fmt.Errorf("%s: type %s: %w", filepath.Base(fileName), ti.TypeName, err)
				}
			}
			if !ok || (config.SkipUnexported && !ti.Exported) || ti.Options["skip"] == "true" {
				excluded++
				continue
			}
			types = append(types, ti)
		}
	}
	return types, excluded, nil
}

// analyzeType reports false for declarations that have no single runtime type.
func analyzeType(fileName, pkgName string, ts *ast.TypeSpec, doc *ast.CommentGroup) (TypeInfo, bool) {
	if ts.Name.Name == "_" || ts.Assign.IsValid() || ts.TypeParams != nil {
		return TypeInfo{}, false
	}
	if _, isInterface := ts.Type.(*ast.InterfaceType); isInterface {
		return TypeInfo{}, false
	}

	ti := TypeInfo{
		PackageName: pkgName,
		TypeName:    ts.Name.Name,
		Kind:        kindOf(ts.Type),
		SourceFile:  filepath.Base(fileName),
		Exported:    ts.Name.IsExported(),
		Options:     parseBlockxOptions(doc),
	}
	if st, ok := ts.Type.(*ast.StructType); ok {
		for _, f := range st.Fields.List {
			if len(f.Names) == 0 {
				ti.Embedded = append(ti.Embedded, getTypeString(f.Type))
			}
		}
	}
	return ti, true
}

func kindOf(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StructType:
		return "struct"
	case *ast.MapType:
		return "map"
	case *ast.ArrayType:
		if t.Len == nil {
			return "slice"
		}
		return "array"
	case *ast.FuncType:
		return "func"
	case *ast.ChanType:
		return "chan"
	case *ast.StarExpr:
		return "pointer"
	case *ast.ParenExpr:
		return kindOf(t.X)
	default:
		return "named"
	}
}

// getTypeString converts an ast.Expr to its string representation
func getTypeString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.ArrayType:
		return "[]" + getTypeString(t.Elt)
	case *ast.StarExpr:
		return "*" + getTypeString(t.X)
	case *ast.SelectorExpr:
		return getTypeString(t.X) + "." + t.Sel.Name
	case *ast.IndexExpr:
		return getTypeString(t.X) + "[" + getTypeString(t.Index) + "]"
	case *ast.MapType:
		return "map[" + getTypeString(t.Key) + "]" + getTypeString(t.Value)
	default:
		return "unknown"
	}
}

// parseBlockxOptions reads "blockx:options k=v,k2=v2" directives. A bare key
// is read as "true", so "//blockx:options skip" excludes a type.
func parseBlockxOptions(doc *ast.CommentGroup) map[string]string {
	options := make(map[string]string)
	if doc == nil {
		return options
	}

	for _, c := range doc.List {
		text := strings.TrimSpace(c.Text)
		text = strings.TrimPrefix(text, "//")
		text = strings.TrimPrefix(text, "/*")
		text = strings.TrimSuffix(text, "*/")
		text = strings.TrimSpace(text)

		if rest, ok := strings.CutPrefix(text, "blockx:options"); ok {
			parseOptionsPairs(rest, options)
		}
	}
	return options
}

func parseOptionsPairs(text string, options map[string]string) {
	for _, pair := range strings.Split(text, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, found := strings.Cut(pair, "=")
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if !found {
			value = "true"
		}
		if key == "" || value == "" {
			continue
		}
		options[key] = value
	}
}

// validateGenerationOptions rejects unknown keys and non-boolean skip values.
func validateGenerationOptions(options map[string]string) error {
	for key, value := range options {
		switch key {
		case "skip":
			if value != "true" && value != "false" {
				return fmt.Errorf("skip option must be true or false, got %q", value)
			}
		default:
			return fmt.Errorf("unknown option %q", key)
		}
	}
	return nil
}

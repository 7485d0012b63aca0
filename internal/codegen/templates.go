package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"text/template"
)

// UniverseImport is the import path of the registry the generated code feeds.
const UniverseImport = "github.com/hengadev/blockx/universe"

const universeTemplate = `// Code generated by blockx-gen. DO NOT EDIT.

package {{.PackageName}}

import (
	"reflect"

	"{{.UniverseImport}}"
)

func init() {
	universe.Register(
{{- range .Types}}
		reflect.TypeFor[{{.}}](),
{{- end}}
	)
}
`

// TemplateData is the input of the registration template.
type TemplateData struct {
	PackageName    string
	UniverseImport string
	Types          []string
}

// TemplateEngine renders registration files.
type TemplateEngine struct {
	tmpl *template.Template
}

func NewTemplateEngine() (*TemplateEngine, error) {
	tmpl, err := template.New("universe").Parse(universeTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return &TemplateEngine{tmpl: tmpl}, nil
}

// BuildTemplateData collects the type names of pkg in declaration-sorted order.
func BuildTemplateData(pkg *PackageInfo) TemplateData {
	data := TemplateData{
		PackageName:    pkg.Name,
		UniverseImport: UniverseImport,
		Types:          make([]string, 0, len(pkg.Types)),
	}
	for _, t := range pkg.Types {
		data.Types = append(data.Types, t.TypeName)
	}
	return data
}

// GenerateCode renders and gofmts the registration file.
func (e *TemplateEngine) GenerateCode(data TemplateData) ([]byte, error) {
	if data.PackageName == "" {
		return nil, fmt.Errorf("package name cannot be empty")
	}
	if len(data.Types) == 0 {
		return nil, fmt.Errorf("package %s has no types to register", data.PackageName)
	}
	if data.UniverseImport == "" {
		data.UniverseImport = UniverseImport
	}

	var buf bytes.Buffer
	if err := e.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}

	code, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to format generated code: %w", err)
	}
	return code, nil
}

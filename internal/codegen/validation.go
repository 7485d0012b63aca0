package codegen

import (
	"fmt"
	"go/token"
	"path/filepath"
	"strings"
)

// ValidateOutputFile checks that name is a plain, non-test Go file name.
func ValidateOutputFile(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("output file cannot be empty")
	case filepath.Base(name) != name:
		return fmt.Errorf("output file %q must not contain a directory", name)
	case !strings.HasSuffix(name, ".go"):
		return fmt.Errorf("output file %q must end in .go", name)
	case strings.HasSuffix(name, "_test.go"):
		return fmt.Errorf("output file %q must not be a test file", name)
	case strings.HasPrefix(name, "_") || strings.HasPrefix(name, "."):
		return fmt.Errorf("output file %q would be ignored by the go tool", name)
	}
	return nil
}

// ValidationError represents a validation error
type ValidationError struct {
	Type    string
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	return fmt.Sprintf("type '%s': %s", ve.Type, ve.Message)
}

// ValidateTypes reports names that cannot appear in a registration file.
func ValidateTypes(pkg *PackageInfo) []ValidationError {
	var errors []ValidationError
	seen := make(map[string]string)

	for _, t := range pkg.Types {
		if !token.IsIdentifier(t.TypeName) {
			errors = append(errors, ValidationError{Type: t.TypeName, Message: "not a valid identifier"})
			continue
		}
		if first, dup := seen[t.TypeName]; dup {
			errors = append(errors, ValidationError{
				Type:    t.TypeName,
				Message: fmt.Sprintf("declared in both %s and %s", first, t.SourceFile),
			})
			continue
		}
		seen[t.TypeName] = t.SourceFile
	}
	return errors
}

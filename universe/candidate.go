package universe

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	// ErrLoadFailed is returned by Candidate.Load when the loader fails or panics.
	ErrLoadFailed = errors.New("type load failed")
	// ErrProviderUnavailable reports that the candidate list could not be read at all.
	ErrProviderUnavailable = errors.New("type universe unavailable")
	// ErrNotFound is returned by Scanner.Resolve for names the universe does not list.
	ErrNotFound = errors.New("type not in universe")
)

// Loader resolves a candidate into its runtime type descriptor.
type Loader func() (reflect.Type, error)

// Candidate is a type known to the universe but not necessarily loaded yet.
type Candidate struct {
	PkgPath string
	Name    string
	load    Loader
}

// NewCandidate builds a candidate backed by the given loader.
func NewCandidate(pkgPath, name string, load Loader) Candidate {
	return Candidate{PkgPath: pkgPath, Name: name, load: load}
}

// QualifiedName returns "pkg/path.Name".
func (c Candidate) QualifiedName() string {
	return QualifiedName(c.PkgPath, c.Name)
}

// InPackage reports whether the candidate lives in prefix or one of its sub-packages.
func (c Candidate) InPackage(prefix string) bool {
	return MatchPrefix(c.PkgPath, prefix)
}

// Load resolves the candidate. A panicking loader is reported as ErrLoadFailed
// so that a single broken candidate never aborts a scan.
func (c Candidate) Load() (t reflect.Type, err error) {
	if c.load == nil {
		return nil, fmt.Errorf("%w: %s has no loader", ErrLoadFailed, c.QualifiedName())
	}
	defer func() {
		if r := recover(); r != nil {
			t = nil
			err = fmt.Errorf("%w: %s: %v", ErrLoadFailed, c.QualifiedName(), r)
		}
	}()
	t, err = c.load()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadFailed, c.QualifiedName(), err)
	}
	if t == nil {
		return nil, fmt.Errorf("%w: %s resolved to nil", ErrLoadFailed, c.QualifiedName())
	}
	return t, nil
}

// QualifiedName joins an import path and a type name.
func QualifiedName(pkgPath, name string) string {
	if pkgPath == "" {
		return name
	}
	return pkgPath + "." + name
}

// SplitQualifiedName is the inverse of QualifiedName. The type name is the
// part after the last dot of the final path segment.
func SplitQualifiedName(qualified string) (pkgPath, name string, ok bool) {
	slash := strings.LastIndexByte(qualified, '/')
	dot := strings.LastIndexByte(qualified, '.')
	if dot <= slash || dot == len(qualified)-1 || dot == 0 {
		return "", "", false
	}
	return qualified[:dot], qualified[dot+1:], true
}

// NormalizePrefix trims surrounding space and trailing slashes.
func NormalizePrefix(prefix string) string {
	return strings.TrimRight(strings.TrimSpace(prefix), "/")
}

// MatchPrefix reports whether pkgPath equals prefix or is nested under it.
// Matching is done on path segments: "a/b" matches "a/b/c" but not "a/bc".
func MatchPrefix(pkgPath, prefix string) bool {
	prefix = NormalizePrefix(prefix)
	if prefix == "" || pkgPath == "" {
		return false
	}
	return pkgPath == prefix || strings.HasPrefix(pkgPath, prefix+"/")
}

package universe

import (
	"reflect"
	"sort"
	"sync"
)

// Provider lists the candidate types of a universe.
type Provider interface {
	Candidates() ([]Candidate, error)
}

// Registry is an in-process Provider. Generated registration files add their
// package's types to Default from init functions.
type Registry struct {
	mu         sync.RWMutex
	candidates map[string]Candidate
}

// Default is the registry populated by blockx-gen generated code.
var Default = NewRegistry()

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{candidates: make(map[string]Candidate)}
}

// Register adds already-resolved types. Unnamed types and nil entries are
// ignored since they cannot be addressed by import path.
//
// For Register and RegisterLoader alike, the first registration of a
// qualified name wins and later ones are no-ops.
func (r *Registry) Register(types ...reflect.Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range types {
		if t == nil || t.Name() == "" {
			continue
		}
		c := NewCandidate(t.PkgPath(), t.Name(), func() (reflect.Type, error) { return t, nil })
		if _, exists := r.candidates[c.QualifiedName()]; exists {
			continue
		}
		r.candidates[c.QualifiedName()] = c
	}
}

// RegisterLoader adds a lazily resolved type.
func (r *Registry) RegisterLoader(pkgPath, name string, load Loader) {
	if name == "" {
		return
	}
	c := NewCandidate(pkgPath, name, load)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.candidates[c.QualifiedName()]; exists {
		return
	}
	r.candidates[c.QualifiedName()] = c
}

// Candidates returns a snapshot sorted by qualified name.
func (r *Registry) Candidates() ([]Candidate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Candidate, 0, len(r.candidates))
	for _, c := range r.candidates {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].QualifiedName() < out[j].QualifiedName()
	})
	return out, nil
}

// Lookup finds a candidate by its qualified name.
func (r *Registry) Lookup(qualified string) (Candidate, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.candidates[qualified]
	return c, ok
}

// Len returns the number of registered candidates.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.candidates)
}

// Register adds types to the Default registry.
func Register(types ...reflect.Type) {
	Default.Register(types...)
}

// RegisterLoader adds a lazily resolved type to the Default registry.
func RegisterLoader(pkgPath, name string, load Loader) {
	Default.RegisterLoader(pkgPath, name, load)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func() ([]Candidate, error)

func (f ProviderFunc) Candidates() ([]Candidate, error) {
	return f()
}

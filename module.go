package blockx

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/hengadev/blockx/serializer"
)

// ModuleName is the name every blocklist module reports to its host.
const ModuleName = "blockx"

// Module is the resolved blocklist: one Hook per blocked type. It is
// immutable once built and safe for concurrent use.
type Module struct {
	id    string
	hooks map[reflect.Type]*Hook
	types []reflect.Type
}

var _ serializer.Module = (*Module)(nil)

func newModule(hooks map[reflect.Type]*Hook) *Module {
	types := make([]reflect.Type, 0, len(hooks))
	for t := range hooks {
		types = append(types, t)
	}
	slices.SortFunc(types, func(a, b reflect.Type) int {
		return strings.Compare(qualifiedName(a), qualifiedName(b))
	})
	return &Module{
		id:    uuid.NewString(),
		hooks: hooks,
		types: types,
	}
}

func (m *Module) Name() string { return ModuleName }

// ID is unique per built module, so hosts can skip repeated installation.
func (m *Module) ID() string { return m.id }

// Len returns the number of blocked types.
func (m *Module) Len() int { return len(m.hooks) }

// Types returns the blocked types sorted by qualified name.
func (m *Module) Types() []reflect.Type {
	return slices.Clone(m.types)
}

// Hook returns the enforcement hook for exactly type t.
func (m *Module) Hook(t reflect.Type) (*Hook, bool) {
	h, ok := m.hooks[t]
	return h, ok
}

// Blocks reports whether values of exactly type t are denied.
func (m *Module) Blocks(t reflect.Type) bool {
	_, ok := m.hooks[t]
	return ok
}

// SetupModule registers one hook per blocked type with r.
func (m *Module) SetupModule(r serializer.Registrar) error {
	if r == nil {
		return fmt.Errorf("%w: registrar is nil", ErrInvalidConfiguration)
	}
	for _, t := range m.types {
		r.AddEncoder(t, m.hooks[t])
	}
	return nil
}

func qualifiedName(t reflect.Type) string {
	if t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

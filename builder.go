package blockx

import (
	"reflect"
	"slices"

	"go.uber.org/zap"

	"github.com/hengadev/blockx/universe"
)

// Builder collects blocklist rules and resolves them into a Module. A Builder
// is single-use and not safe for concurrent use.
//
// Rule methods reject nil types, empty prefixes and nil collections by
// panicking with an error wrapping ErrNilRule, the same way the standard
// library treats nil handlers.
type Builder struct {
	provider universe.Provider
	scanner  *universe.Scanner
	logger   *zap.Logger
	metrics  *metrics

	classes  map[reflect.Type]struct{}
	packages map[string]struct{}
	markers  map[reflect.Type]struct{}

	built bool
}

// NewBuilder snapshots the type universe and returns an empty builder.
// It fails with ErrUniverseUnavailable when the universe cannot be read.
func NewBuilder(opts ...Option) (*Builder, error) {
	b := &Builder{
		provider: universe.Default,
		logger:   zap.NewNop(),
		classes:  make(map[reflect.Type]struct{}),
		packages: make(map[string]struct{}),
		markers:  make(map[reflect.Type]struct{}),
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	scanner, err := universe.NewScanner(b.provider, universe.WithScannerLogger(b.logger))
	if err != nil {
		return nil, NewUniverseError(err)
	}
	b.scanner = scanner
	return b, nil
}

// TypeOf returns the reflect.Type of T, for use with Classes and Markers.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

// Markers blocks every type of the universe carrying one of the given markers.
func (b *Builder) Markers(first reflect.Type, more ...reflect.Type) *Builder {
	return b.MarkerSet(append([]reflect.Type{first}, more...))
}

// MarkerSet is the collection form of Markers.
func (b *Builder) MarkerSet(markers []reflect.Type) *Builder {
	b.addTypes(b.markers, RuleMarker, markers)
	return b
}

// Classes blocks the given types.
func (b *Builder) Classes(first reflect.Type, more ...reflect.Type) *Builder {
	return b.ClassSet(append([]reflect.Type{first}, more...))
}

// ClassSet is the collection form of Classes.
func (b *Builder) ClassSet(classes []reflect.Type) *Builder {
	b.addTypes(b.classes, RuleClass, classes)
	return b
}

// Packages blocks every type of the universe declared in one of the given
// import paths or below it.
func (b *Builder) Packages(first string, more ...string) *Builder {
	return b.PackageSet(append([]string{first}, more...))
}

// PackageSet is the collection form of Packages.
func (b *Builder) PackageSet(prefixes []string) *Builder {
	b.mustBeOpen()
	if prefixes == nil {
		panic(NewNilRuleError(RulePackage, "collection is nil"))
	}
	normalized := make([]string, len(prefixes))
	for i, p := range prefixes {
		normalized[i] = universe.NormalizePrefix(p)
		if normalized[i] == "" {
			panic(NewNilRuleError(RulePackage, "prefix is empty"))
		}
	}
	for _, p := range normalized {
		b.packages[p] = struct{}{}
	}
	return b
}

func (b *Builder) addTypes(set map[reflect.Type]struct{}, kind RuleKind, types []reflect.Type) {
	b.mustBeOpen()
	if types == nil {
		panic(NewNilRuleError(kind, "collection is nil"))
	}
	if slices.Contains(types, nil) {
		panic(NewNilRuleError(kind, "type is nil"))
	}
	for _, t := range types {
		set[t] = struct{}{}
	}
}

func (b *Builder) mustBeOpen() {
	if b.built {
		panic(ErrBuilderConsumed)
	}
}

// Build resolves the rules into a Module.
//
// Explicit classes are inserted first, then the types found under each
// package prefix, then, if any marker was given, the types of the whole
// universe carrying a marker, found in a single scan. A type resolved by
// several rules gets one hook. Categories resolving to nothing are valid.
func (b *Builder) Build() (*Module, error) {
	if b.built {
		return nil, ErrBuilderConsumed
	}
	b.built = true

	hooks := make(map[reflect.Type]*Hook, len(b.classes))
	for t := range b.classes {
		hooks[t] = newHook(t, RuleClass)
	}
	b.logger.Debug("resolved class rules", zap.Int("types", len(hooks)))

	for _, prefix := range sortedKeys(b.packages) {
		added := 0
		for _, t := range b.scanner.ScanPackage(prefix) {
			if _, exists := hooks[t]; exists {
				continue
			}
			hooks[t] = newHook(t, RulePackage)
			added++
		}
		b.logger.Debug("resolved package rule",
			zap.String("prefix", prefix),
			zap.Int("types", added))
	}

	if len(b.markers) > 0 {
		markers := make([]reflect.Type, 0, len(b.markers))
		for m := range b.markers {
			markers = append(markers, m)
		}
		added := 0
		for _, t := range b.scanner.ScanAll() {
			if _, exists := hooks[t]; exists {
				continue
			}
			if universe.HasAnyMarker(t, markers) {
				hooks[t] = newHook(t, RuleMarker)
				added++
			}
		}
		b.logger.Debug("resolved marker rules",
			zap.Int("markers", len(markers)),
			zap.Int("types", added))
	}

	mod := newModule(hooks)
	b.metrics.observe(mod, b.scanner.Skipped())
	b.logger.Info("blocklist module built",
		zap.String("id", mod.ID()),
		zap.Int("blocked_types", mod.Len()),
		zap.Int("skipped_candidates", b.scanner.Skipped()))
	return mod, nil
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

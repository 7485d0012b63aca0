package blockx

import (
	"fmt"
	"reflect"

	"github.com/hengadev/errsx"
	"go.uber.org/zap"

	"github.com/hengadev/blockx/internal/config"
	"github.com/hengadev/blockx/universe"
)

// Config holds blocklist rules by name, as read from a file or the environment.
// Classes and Markers are qualified type names ("pkg/path.Name"); Packages are
// import-path prefixes.
type Config struct {
	Env      string
	LogLevel string
	Packages []string
	Classes  []string
	Markers  []string
}

// LoadConfigFromEnvironment reads rules from environment variables, after
// loading the given dotenv files if any.
//
// Recognised variables:
//   - BLOCKX_PACKAGES: import-path prefixes, separated by commas or spaces
//   - BLOCKX_CLASSES: qualified type names
//   - BLOCKX_MARKERS: qualified marker type names
//   - BLOCKX_LOG_LEVEL: debug, info, warn or error (default: info)
//   - BLOCKX_ENV: dev or prod (default: prod)
//
// Example usage:
//
//	// export BLOCKX_PACKAGES="github.com/acme/internal/secrets"
//	// export BLOCKX_MARKERS="github.com/hengadev/blockx.Disallowed"
//
//	cfg, err := blockx.LoadConfigFromEnvironment()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	b, err := blockx.BuilderFromConfig(cfg)
func LoadConfigFromEnvironment(envFiles ...string) (Config, error) {
	var opts []config.LoadOption
	if len(envFiles) > 0 {
		opts = append(opts, config.WithEnvFiles(envFiles...))
	}
	return loadConfig(opts...)
}

// LoadConfigFile reads rules from a YAML file. Environment variables still
// take precedence over the file.
func LoadConfigFile(path string) (Config, error) {
	return loadConfig(config.WithFile(path))
}

func loadConfig(opts ...config.LoadOption) (Config, error) {
	app, err := config.Load(opts...)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	return Config{
		Env:      app.Env,
		LogLevel: app.LogLevel,
		Packages: app.Packages,
		Classes:  app.Classes,
		Markers:  app.Markers,
	}, nil
}

// Logger builds the zap logger described by Env and LogLevel.
func (c Config) Logger() (*zap.Logger, error) {
	env, level := c.Env, c.LogLevel
	if env == "" {
		env = config.DEFAULT_APP_CONFIG.Env
	}
	if level == "" {
		level = config.DEFAULT_APP_CONFIG.LogLevel
	}
	return config.NewLogger(env, level)
}

// BuilderFromConfig returns a builder with the rules of cfg applied. Class and
// marker names are resolved through the builder's universe; every name that
// cannot be resolved is reported in a single ErrInvalidConfiguration error
// whose cause is an errsx.Map keyed by rule.
//
// Empty rule lists are skipped, so the returned builder may still be
// extended with the typed rule methods before Build.
func BuilderFromConfig(cfg Config, opts ...Option) (*Builder, error) {
	b, err := NewBuilder(opts...)
	if err != nil {
		return nil, err
	}

	var errs errsx.Map
	classes := b.resolveAll(RuleClass, "classes", cfg.Classes, &errs)
	markers := b.resolveAll(RuleMarker, "markers", cfg.Markers, &errs)
	for i, p := range cfg.Packages {
		if universe.NormalizePrefix(p) == "" {
			errs.Set(fmt.Sprintf("packages[%d]", i), NewNilRuleError(RulePackage, "prefix is empty"))
		}
	}
	if !errs.IsEmpty() {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, errs.AsError())
	}

	if len(classes) > 0 {
		b.ClassSet(classes)
	}
	if len(markers) > 0 {
		b.MarkerSet(markers)
	}
	if len(cfg.Packages) > 0 {
		b.PackageSet(cfg.Packages)
	}

	b.logger.Debug("builder configured from names",
		zap.Int("classes", len(classes)),
		zap.Int("packages", len(cfg.Packages)),
		zap.Int("markers", len(markers)))
	return b, nil
}

func (b *Builder) resolveAll(kind RuleKind, key string, names []string, errs *errsx.Map) []reflect.Type {
	types := make([]reflect.Type, 0, len(names))
	for i, name := range names {
		t, err := b.scanner.Resolve(name)
		if err != nil {
			errs.Set(fmt.Sprintf("%s[%d]", key, i), NewUnknownTypeError(kind, name, err))
			continue
		}
		types = append(types, t)
	}
	return types
}

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/hengadev/blockx/universe"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "BLOCKX_"

// AppConfig holds the blocklist rules and logging settings read at startup.
type AppConfig struct {
	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// Packages lists import-path prefixes to block.
	Packages []string `koanf:"packages" validate:"dive,required,import_path"`

	// Classes lists qualified type names ("pkg/path.Name") to block.
	Classes []string `koanf:"classes" validate:"dive,required,qualified_type"`

	// Markers lists qualified marker type names.
	Markers []string `koanf:"markers" validate:"dive,required,qualified_type"`
}

// DEFAULT_APP_CONFIG holds the values used when neither the config file nor
// the environment sets a key. No rules are configured by default.
var DEFAULT_APP_CONFIG = AppConfig{
	Env:      "prod",
	LogLevel: "info",
}

// listKeys are split on commas and whitespace when read from the environment.
var listKeys = map[string]bool{
	"packages": true,
	"classes":  true,
	"markers":  true,
}

// LoadOption customises Load.
type LoadOption func(o *loadOptions) error

type loadOptions struct {
	file     string
	envFiles []string
}

// WithFile reads a YAML file between the defaults and the environment.
func WithFile(path string) LoadOption {
	return func(o *loadOptions) error {
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("config file path cannot be empty")
		}
		o.file = path
		return nil
	}
}

// WithEnvFiles loads dotenv files into the process environment before the
// environment is read. Variables already set are not overridden.
func WithEnvFiles(paths ...string) LoadOption {
	return func(o *loadOptions) error {
		o.envFiles = append(o.envFiles, paths...)
		return nil
	}
}

// defaultLoader loads DEFAULT_APP_CONFIG through the structs provider.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DEFAULT_APP_CONFIG, "koanf"), nil)
}

// fileLoader loads a YAML config file.
var fileLoader = func(k *koanf.Koanf, path string) error {
	return k.Load(file.Provider(path), yaml.Parser())
}

// envLoader loads BLOCKX_ variables, lower-casing keys and splitting list
// values on commas and spaces. It is a variable so tests can replace it.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
			value = strings.TrimSpace(value)

			if listKeys[key] {
				return key, strings.FieldsFunc(value, func(r rune) bool {
					return r == ' ' || r == ','
				})
			}
			return key, value
		},
	}), nil)
}

// registerValidation registers the "import_path" and "qualified_type" rules.
var registerValidation = func(v *validator.Validate) error {
	if err := v.RegisterValidation("import_path", validImportPath); err != nil {
		return err
	}
	return v.RegisterValidation("qualified_type", validQualifiedType)
}

// Load builds an AppConfig from defaults, an optional YAML file and the
// environment, in that order of precedence, and validates it.
func Load(opts ...LoadOption) (*AppConfig, error) {
	var o loadOptions
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}

	if len(o.envFiles) > 0 {
		if err := godotenv.Load(o.envFiles...); err != nil {
			return nil, fmt.Errorf("error loading env files: %w", err)
		}
	}

	k := koanf.New(".")

	if err := defaultLoader(k); err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	if o.file != "" {
		if _, err := os.Stat(o.file); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := fileLoader(k, o.file); err != nil {
			return nil, fmt.Errorf("error loading config file %s: %w", o.file, err)
		}
	}

	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := registerValidation(validate); err != nil {
		return nil, fmt.Errorf("error registering validation: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	cfg.Packages = normalizePrefixes(cfg.Packages)
	return &cfg, nil
}

// validImportPath accepts Go import paths: non-empty, no whitespace, no
// leading slash and no empty segments once a trailing slash is trimmed.
func validImportPath(fl validator.FieldLevel) bool {
	p := universe.NormalizePrefix(fl.Field().String())
	if p == "" || strings.HasPrefix(p, "/") || strings.ContainsAny(p, " \t\n") {
		return false
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return false
		}
	}
	return true
}

// validQualifiedType accepts "pkg/path.Name".
func validQualifiedType(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if strings.ContainsAny(s, " \t\n") {
		return false
	}
	_, _, ok := universe.SplitQualifiedName(s)
	return ok
}

func normalizePrefixes(prefixes []string) []string {
	out := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		out = append(out, universe.NormalizePrefix(p))
	}
	return out
}

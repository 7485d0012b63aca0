package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Packages)
	assert.Empty(t, cfg.Classes)
	assert.Empty(t, cfg.Markers)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BLOCKX_ENV", "dev")
	t.Setenv("BLOCKX_LOG_LEVEL", "debug")
	t.Setenv("BLOCKX_PACKAGES", "github.com/acme/internal/, github.com/acme/secrets")
	t.Setenv("BLOCKX_CLASSES", "github.com/acme/geo.Point")
	t.Setenv("BLOCKX_MARKERS", "github.com/hengadev/blockx.Disallowed github.com/acme/tags.Private")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"github.com/acme/internal", "github.com/acme/secrets"}, cfg.Packages)
	assert.Equal(t, []string{"github.com/acme/geo.Point"}, cfg.Classes)
	assert.Equal(t, []string{"github.com/hengadev/blockx.Disallowed", "github.com/acme/tags.Private"}, cfg.Markers)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad env", "BLOCKX_ENV", "staging"},
		{"bad level", "BLOCKX_LOG_LEVEL", "verbose"},
		{"absolute package", "BLOCKX_PACKAGES", "/abs/path"},
		{"dot segment package", "BLOCKX_PACKAGES", "github.com/acme/../x"},
		{"unqualified class", "BLOCKX_CLASSES", "Point"},
		{"package as marker", "BLOCKX_MARKERS", "github.com/acme/tags"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			require.Error(t, err)

			var verrs validator.ValidationErrors
			assert.ErrorAs(t, err, &verrs)
		})
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blockx.yaml")
	err := os.WriteFile(path, []byte(`env: dev
log_level: warn
packages:
  - github.com/acme/internal
classes:
  - github.com/acme/geo.Point
`), 0644)
	require.NoError(t, err)

	t.Run("file values", func(t *testing.T) {
		cfg, err := Load(WithFile(path))
		require.NoError(t, err)
		assert.Equal(t, "dev", cfg.Env)
		assert.Equal(t, "warn", cfg.LogLevel)
		assert.Equal(t, []string{"github.com/acme/internal"}, cfg.Packages)
		assert.Equal(t, []string{"github.com/acme/geo.Point"}, cfg.Classes)
	})

	t.Run("environment wins over file", func(t *testing.T) {
		t.Setenv("BLOCKX_LOG_LEVEL", "error")
		cfg, err := Load(WithFile(path))
		require.NoError(t, err)
		assert.Equal(t, "error", cfg.LogLevel)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(WithFile(filepath.Join(dir, "missing.yaml")))
		assert.Error(t, err)
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := Load(WithFile(" "))
		assert.Error(t, err)
	})
}

func TestLoad_EnvFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("BLOCKX_CLASSES=github.com/acme/geo.Point,github.com/acme/geo.Line\n"), 0644))

	// Registered with t.Setenv so the variable godotenv sets is restored afterwards.
	t.Setenv("BLOCKX_CLASSES", "")
	require.NoError(t, os.Unsetenv("BLOCKX_CLASSES"))

	cfg, err := Load(WithEnvFiles(path))
	require.NoError(t, err)
	assert.Equal(t, []string{"github.com/acme/geo.Point", "github.com/acme/geo.Line"}, cfg.Classes)

	_, err = Load(WithEnvFiles(filepath.Join(dir, "missing.env")))
	assert.Error(t, err)
}

func TestLoad_LoaderErrors(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name    string
		swap    func() func()
		wantMsg string
	}{
		{
			name: "defaults",
			swap: func() func() {
				orig := defaultLoader
				defaultLoader = func(*koanf.Koanf) error { return boom }
				return func() { defaultLoader = orig }
			},
			wantMsg: "error loading default config",
		},
		{
			name: "env",
			swap: func() func() {
				orig := envLoader
				envLoader = func(*koanf.Koanf) error { return boom }
				return func() { envLoader = orig }
			},
			wantMsg: "error loading env",
		},
		{
			name: "validation registration",
			swap: func() func() {
				orig := registerValidation
				registerValidation = func(*validator.Validate) error { return boom }
				return func() { registerValidation = orig }
			},
			wantMsg: "error registering validation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restore := tt.swap()
			defer restore()

			_, err := Load()
			require.Error(t, err)
			assert.ErrorIs(t, err, boom)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("dev", "debug")
	require.NoError(t, err)
	assert.NotNil(t, logger)

	logger, err = (&AppConfig{Env: "prod", LogLevel: "warn"}).NewLogger()
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(-1))

	_, err = NewLogger("prod", "loud")
	assert.Error(t, err)
}

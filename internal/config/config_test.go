package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromLookup_Defaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.Addr)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
	assert.Equal(t, FormatJSON, cfg.LogFormat)
	assert.Equal(t, BackendNative, cfg.Backend)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	assert.Equal(t, int64(50<<20), cfg.MaxBodyBytes)
	assert.Zero(t, cfg.MaxDimension)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestFromLookup_Overrides(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"IMAGE_ENHANCER_ADDR":             "127.0.0.1:8080",
		"IMAGE_ENHANCER_LOG_LEVEL":        "DEBUG",
		"IMAGE_ENHANCER_LOG_FORMAT":       "console",
		"IMAGE_ENHANCER_BACKEND":          "OpenCV",
		"IMAGE_ENHANCER_WORKERS":          "3",
		"IMAGE_ENHANCER_MAX_BODY_BYTES":   "1024",
		"IMAGE_ENHANCER_MAX_DIMENSION":    "2048",
		"IMAGE_ENHANCER_ALLOWED_ORIGINS":  " https://a.example , ,chrome-extension://abc ",
		"IMAGE_ENHANCER_SHUTDOWN_TIMEOUT": "1m30s",
	}))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.Addr)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
	assert.Equal(t, FormatConsole, cfg.LogFormat)
	assert.Equal(t, BackendOpenCV, cfg.Backend)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, int64(1024), cfg.MaxBodyBytes)
	assert.Equal(t, 2048, cfg.MaxDimension)
	assert.Equal(t, []string{"https://a.example", "chrome-extension://abc"}, cfg.AllowedOrigins)
	assert.Equal(t, 90*time.Second, cfg.ShutdownTimeout)
}

func TestFromLookup_EmptyKeepsDefault(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"IMAGE_ENHANCER_ADDR":    "  ",
		"IMAGE_ENHANCER_WORKERS": "",
	}))
	require.NoError(t, err)

	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
}

func TestFromLookup_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"LOG_LEVEL", "loud"},
		{"LOG_FORMAT", "xml"},
		{"BACKEND", "cuda"},
		{"WORKERS", "0"},
		{"WORKERS", "many"},
		{"MAX_BODY_BYTES", "-1"},
		{"MAX_BODY_BYTES", "50MiB"},
		{"MAX_DIMENSION", "-5"},
		{"ALLOWED_ORIGINS", " , "},
		{"SHUTDOWN_TIMEOUT", "10"},
		{"SHUTDOWN_TIMEOUT", "-1s"},
	}

	for _, tt := range tests {
		t.Run(tt.name+"="+tt.value, func(t *testing.T) {
			_, err := FromLookup(lookupFrom(map[string]string{Prefix + tt.name: tt.value}))
			require.Error(t, err)
			assert.Contains(t, err.Error(), Prefix+tt.name)
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "service.env")
	require.NoError(t, os.WriteFile(path, []byte(
		"# local overrides\nIMAGE_ENHANCER_MAX_DIMENSION=640\nIMAGE_ENHANCER_WORKERS=7\n"), 0o644))

	t.Setenv(Prefix+"ENV_FILE", path)
	// Variables already in the environment take precedence over the file.
	t.Setenv(Prefix+"WORKERS", "2")
	t.Cleanup(func() { os.Unsetenv(Prefix + "MAX_DIMENSION") })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 640, cfg.MaxDimension)
	assert.Equal(t, 2, cfg.Workers)
}

func TestLoad_MissingEnvFile(t *testing.T) {
	t.Setenv(Prefix+"ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendNative, cfg.Backend)
}

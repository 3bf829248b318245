// Package config reads the service configuration from the environment.
//
// Every setting is an environment variable with the IMAGE_ENHANCER_ prefix.
// Variables may also come from a dotenv file (IMAGE_ENHANCER_ENV_FILE,
// default ".env"); values already present in the environment win. A
// missing dotenv file is not an error.
//
// # Variables
//
//   - ADDR: listen address (default ":5000")
//   - LOG_LEVEL: trace, debug, info, warn, error (default "info")
//   - LOG_FORMAT: json or console (default "json")
//   - BACKEND: native or opencv (default "native")
//   - WORKERS: concurrent enhancements (default: number of CPUs)
//   - MAX_BODY_BYTES: request body limit in bytes (default 50 MiB)
//   - MAX_DIMENSION: downscale inputs whose longer side exceeds this; 0
//     disables (default 0)
//   - ALLOWED_ORIGINS: comma-separated CORS origins (default "*")
//   - SHUTDOWN_TIMEOUT: graceful shutdown budget (default "10s")
package config

import (
	"io/fs"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Prefix is prepended to every variable name.
const Prefix = "IMAGE_ENHANCER_"

// Backend names.
const (
	BackendNative = "native"
	BackendOpenCV = "opencv"
)

// Log formats.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Defaults.
const (
	DefaultAddr            = ":5000"
	DefaultEnvFile         = ".env"
	DefaultMaxBodyBytes    = 50 << 20
	DefaultShutdownTimeout = 10 * time.Second
)

// Config is the resolved service configuration.
type Config struct {
	Addr            string
	LogLevel        zerolog.Level
	LogFormat       string
	Backend         string
	Workers         int
	MaxBodyBytes    int64
	MaxDimension    int
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

// Default returns the configuration used when no variable is set.
func Default() *Config {
	return &Config{
		Addr:            DefaultAddr,
		LogLevel:        zerolog.InfoLevel,
		LogFormat:       FormatJSON,
		Backend:         BackendNative,
		Workers:         runtime.NumCPU(),
		MaxBodyBytes:    DefaultMaxBodyBytes,
		AllowedOrigins:  []string{"*"},
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// Load seeds the environment from the dotenv file and then reads the
// configuration from it.
func Load() (*Config, error) {
	envFile := os.Getenv(Prefix + "ENV_FILE")
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrapf(err, "failed to load %s", envFile)
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from lookup, which has the signature of
// os.LookupEnv. Unset and empty variables keep their defaults.
//
// # Errors
//
// Any variable that does not parse or is out of range; the error names the
// variable.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()
	get := func(name string) (string, bool) {
		v, ok := lookup(Prefix + name)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get("ADDR"); ok {
		cfg.Addr = v
	}

	if v, ok := get("LOG_LEVEL"); ok {
		level, err := zerolog.ParseLevel(strings.ToLower(v))
		if err != nil || level == zerolog.NoLevel {
			return nil, invalid("LOG_LEVEL", v, "want trace, debug, info, warn, error, fatal, panic or disabled")
		}
		cfg.LogLevel = level
	}

	if v, ok := get("LOG_FORMAT"); ok {
		switch f := strings.ToLower(v); f {
		case FormatJSON, FormatConsole:
			cfg.LogFormat = f
		default:
			return nil, invalid("LOG_FORMAT", v, "want json or console")
		}
	}

	if v, ok := get("BACKEND"); ok {
		switch b := strings.ToLower(v); b {
		case BackendNative, BackendOpenCV:
			cfg.Backend = b
		default:
			return nil, invalid("BACKEND", v, "want native or opencv")
		}
	}

	if v, ok := get("WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, invalid("WORKERS", v, "want a positive integer")
		}
		cfg.Workers = n
	}

	if v, ok := get("MAX_BODY_BYTES"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 1 {
			return nil, invalid("MAX_BODY_BYTES", v, "want a positive integer")
		}
		cfg.MaxBodyBytes = n
	}

	if v, ok := get("MAX_DIMENSION"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, invalid("MAX_DIMENSION", v, "want 0 or a positive integer")
		}
		cfg.MaxDimension = n
	}

	if v, ok := get("ALLOWED_ORIGINS"); ok {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) == 0 {
			return nil, invalid("ALLOWED_ORIGINS", v, "want at least one origin")
		}
		cfg.AllowedOrigins = origins
	}

	if v, ok := get("SHUTDOWN_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, invalid("SHUTDOWN_TIMEOUT", v, "want a positive duration such as 10s")
		}
		cfg.ShutdownTimeout = d
	}

	return cfg, nil
}

func invalid(name, value, hint string) error {
	return errors.Errorf("invalid %s%s=%q: %s", Prefix, name, value, hint)
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/blang/semver"
	"github.com/pkg/errors"

	"github.com/ironsheep/image-enhancer/internal/config"
	"github.com/ironsheep/image-enhancer/internal/enhance"
	"github.com/ironsheep/image-enhancer/internal/logging"
	"github.com/ironsheep/image-enhancer/internal/opencv"
	"github.com/ironsheep/image-enhancer/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// devVersion is reported when Version is not a semantic version.
var devVersion = semver.MustParse("0.0.0-dev")

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("image-enhancer %s\n", buildVersion())
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			if opencv.Available() {
				fmt.Printf("  OpenCV:     %s\n", opencv.Version())
			}
			return
		case "--help", "-h", "help":
			printHelp()
			return
		default:
			fmt.Fprintf(os.Stderr, "unknown argument %q (try --help)\n", os.Args[1])
			os.Exit(2)
		}
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "image-enhancer: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logging.FromConfig(cfg)

	enhancer, err := newEnhancer(cfg.Backend)
	if err != nil {
		return err
	}

	version := buildVersion()
	log.Info().
		Str("version", version.String()).
		Str("build_time", BuildTime).
		Str("commit", GitCommit).
		Str("backend", enhancer.Backend()).
		Msg("image enhancer starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(enhancer, server.OptionsFromConfig(cfg, version.String()), log)
	if err := srv.Run(ctx); err != nil {
		return err
	}
	log.Info().Msg("stopped")
	return nil
}

// newEnhancer returns the Enhancer for the configured backend.
func newEnhancer(backend string) (*enhance.Enhancer, error) {
	switch backend {
	case config.BackendNative:
		return enhance.New(), nil
	case config.BackendOpenCV:
		e, err := opencv.NewEnhancer()
		if err != nil {
			return nil, errors.Wrap(err, "cannot use the opencv backend")
		}
		return e, nil
	default:
		return nil, errors.Errorf("unknown backend %q", backend)
	}
}

// buildVersion parses Version, accepting a leading "v" and missing minor or
// patch numbers.
func buildVersion() semver.Version {
	v, err := semver.ParseTolerant(Version)
	if err != nil {
		return devVersion
	}
	return v
}

func printHelp() {
	fmt.Println("image-enhancer - HTTP service applying image enhancement filters")
	fmt.Println()
	fmt.Println("Usage: image-enhancer [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Endpoints:")
	fmt.Println("  POST /enhance    {image, method, intensity} -> {status, image}")
	fmt.Println("  GET  /methods    List available methods")
	fmt.Println("  GET  /healthz    Status, version and backend")
	fmt.Println()
	fmt.Println("Environment variables (also read from a .env file):")
	fmt.Println("  IMAGE_ENHANCER_ADDR=:5000              Listen address")
	fmt.Println("  IMAGE_ENHANCER_LOG_LEVEL=info          trace, debug, info, warn, error")
	fmt.Println("  IMAGE_ENHANCER_LOG_FORMAT=json         json or console")
	fmt.Println("  IMAGE_ENHANCER_BACKEND=native          native or opencv (needs -tags opencv)")
	fmt.Println("  IMAGE_ENHANCER_WORKERS=<cpus>          Concurrent enhancements")
	fmt.Println("  IMAGE_ENHANCER_MAX_BODY_BYTES=52428800 Request body limit")
	fmt.Println("  IMAGE_ENHANCER_MAX_DIMENSION=0         Downscale larger inputs (0 = off)")
	fmt.Println("  IMAGE_ENHANCER_ALLOWED_ORIGINS=*       Comma-separated CORS origins")
	fmt.Println("  IMAGE_ENHANCER_SHUTDOWN_TIMEOUT=10s    Graceful shutdown budget")
	fmt.Println("  IMAGE_ENHANCER_ENV_FILE=.env           dotenv file to load")
}

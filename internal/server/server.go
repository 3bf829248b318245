package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"golang.org/x/sync/semaphore"

	"github.com/ironsheep/image-enhancer/internal/config"
	"github.com/ironsheep/image-enhancer/internal/enhance"
)

// Options tunes the HTTP server.
type Options struct {
	// Addr is the listen address used by Run.
	Addr string

	// Workers bounds the number of enhancements running at once. Requests
	// beyond it wait for a slot until their context ends.
	Workers int

	// MaxBodyBytes limits the request body.
	MaxBodyBytes int64

	// MaxDimension, when positive, downscales inputs whose longer side
	// exceeds it before filtering.
	MaxDimension int

	// AllowedOrigins lists CORS origins; "*" allows any.
	AllowedOrigins []string

	// ShutdownTimeout bounds the graceful shutdown when the run context
	// ends.
	ShutdownTimeout time.Duration

	// Version is reported by /healthz.
	Version string
}

// OptionsFromConfig maps the service configuration onto Options.
func OptionsFromConfig(cfg *config.Config, version string) Options {
	return Options{
		Addr:            cfg.Addr,
		Workers:         cfg.Workers,
		MaxBodyBytes:    cfg.MaxBodyBytes,
		MaxDimension:    cfg.MaxDimension,
		AllowedOrigins:  cfg.AllowedOrigins,
		ShutdownTimeout: cfg.ShutdownTimeout,
		Version:         version,
	}
}

// Server exposes an Enhancer over HTTP.
type Server struct {
	enhancer *enhance.Enhancer
	opts     Options
	log      zerolog.Logger
	workers  *semaphore.Weighted
}

// New creates a server dispatching to enhancer. Zero option values fall
// back to the configuration defaults.
func New(enhancer *enhance.Enhancer, opts Options, log zerolog.Logger) *Server {
	def := config.Default()
	if opts.Addr == "" {
		opts.Addr = def.Addr
	}
	if opts.Workers < 1 {
		opts.Workers = def.Workers
	}
	if opts.MaxBodyBytes < 1 {
		opts.MaxBodyBytes = def.MaxBodyBytes
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = def.AllowedOrigins
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = def.ShutdownTimeout
	}
	return &Server{
		enhancer: enhancer,
		opts:     opts,
		log:      log,
		workers:  semaphore.NewWeighted(int64(opts.Workers)),
	}
}

// Handler returns the routed handler with logging and CORS applied.
//
// Routes:
//   - POST /enhance: apply a method to a data-URL image
//   - GET /methods: list the registered methods
//   - GET /healthz: liveness, version and backend
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /enhance", s.handleEnhance)
	mux.HandleFunc("GET /methods", s.handleMethods)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	c := cors.New(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})

	var h http.Handler = c.Handler(mux)
	h = hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	})(h)
	h = hlog.RequestIDHandler("req_id", "X-Request-Id")(h)
	h = hlog.RemoteAddrHandler("remote")(h)
	h = hlog.NewHandler(s.log)(h)
	return h
}

// Run listens on the configured address and serves until ctx ends.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", s.opts.Addr)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx ends, then shuts down gracefully, letting
// in-flight requests finish within the shutdown timeout. It returns nil
// after a clean shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	s.log.Info().
		Str("addr", ln.Addr().String()).
		Str("backend", s.enhancer.Backend()).
		Int("workers", s.opts.Workers).
		Msg("listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "server stopped")
	case <-ctx.Done():
	}

	s.log.Info().Dur("timeout", s.opts.ShutdownTimeout).Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "graceful shutdown failed")
	}
	return nil
}

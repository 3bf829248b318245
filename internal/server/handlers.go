package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/hlog"

	"github.com/ironsheep/image-enhancer/internal/enhance"
	"github.com/ironsheep/image-enhancer/internal/imaging"
)

// Error kinds attached to failed-request log entries.
const (
	kindUnsupportedMethod = "unsupported_method"
	kindUnclassified      = "unclassified"
)

// handleEnhance processes POST /enhance.
//
// Every failure, whatever its cause, is answered with HTTP 500 and
//
//	{"status": "error", "message": "<description>"}
//
// Success returns HTTP 200 with the result as a PNG data URL.
func (s *Server) handleEnhance(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	log := hlog.FromRequest(r)

	req, err := s.decodeEnhanceRequest(w, r)
	if err != nil {
		s.enhanceFailed(w, r, err)
		return
	}

	if !s.enhancer.Supports(req.Method) {
		s.enhanceFailed(w, r, &enhance.UnsupportedMethodError{Method: req.Method})
		return
	}

	result, err := s.runEnhance(r.Context(), req)
	if err != nil {
		s.enhanceFailed(w, r, err)
		return
	}

	log.Debug().
		Str("enhance_method", req.Method).
		Float64("intensity", req.Intensity.Value).
		Dur("elapsed", time.Since(start)).
		Msg("enhanced")
	writeJSON(w, r, http.StatusOK, EnhanceResponse{Status: StatusSuccess, Image: result})
}

// decodeEnhanceRequest reads the body and applies the defaults.
func (s *Server) decodeEnhanceRequest(w http.ResponseWriter, r *http.Request) (*EnhanceRequest, error) {
	body := http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	defer body.Close()

	var req EnhanceRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errors.Errorf("request body exceeds %d bytes", tooLarge.Limit)
		}
		return nil, errors.Wrap(err, "invalid request body")
	}

	if req.Image == "" {
		return nil, errors.New("missing image")
	}
	if req.Method == "" {
		req.Method = string(enhance.DefaultMethod)
	}
	if !req.Intensity.Set {
		req.Intensity = Intensity{Value: enhance.DefaultIntensity, Set: true}
	}
	return &req, nil
}

// runEnhance holds a worker slot for the whole pipeline. A panic anywhere in
// the pipeline is returned as an error after the slot is released.
func (s *Server) runEnhance(ctx context.Context, req *EnhanceRequest) (result string, err error) {
	if err := s.workers.Acquire(ctx, 1); err != nil {
		return "", errors.Wrap(err, "request cancelled while waiting for a worker")
	}
	defer s.workers.Release(1)
	defer func() {
		if r := recover(); r != nil {
			result, err = "", errors.Errorf("enhance pipeline panicked: %v", r)
		}
	}()
	return s.enhance(req)
}

// enhance runs the decode, filter and encode pipeline for one request.
func (s *Server) enhance(req *EnhanceRequest) (string, error) {
	img, err := imaging.DecodeDataURL(req.Image)
	if err != nil {
		return "", err
	}
	img = imaging.FitWithin(img, s.opts.MaxDimension)

	out, err := s.enhancer.Enhance(img, req.Method, req.Intensity.Value)
	if err != nil {
		return "", err
	}
	return imaging.EncodeDataURL(out)
}

func (s *Server) enhanceFailed(w http.ResponseWriter, r *http.Request, err error) {
	kind := kindUnclassified
	if errors.Is(err, enhance.ErrUnsupportedMethod) {
		kind = kindUnsupportedMethod
	}
	hlog.FromRequest(r).Warn().Err(err).Str("kind", kind).Msg("enhance failed")
	writeJSON(w, r, http.StatusInternalServerError, EnhanceResponse{Status: StatusError, Message: err.Error()})
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Backend string `json:"backend"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: s.opts.Version,
		Backend: s.enhancer.Backend(),
	})
}

// writeJSON encodes v as the response body. Encoding failures are only
// logged since the status line has already been sent.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("failed to encode response")
	}
}

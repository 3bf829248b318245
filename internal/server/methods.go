package server

import (
	"net/http"

	"github.com/ironsheep/image-enhancer/internal/enhance"
)

// MethodsResponse is the body of GET /methods.
type MethodsResponse struct {
	// Methods lists every registered method in presentation order.
	Methods []enhance.Info `json:"methods"`

	// DefaultMethod is applied when a request omits the method.
	DefaultMethod enhance.Method `json:"default_method"`

	// DefaultIntensity is applied when a request omits the intensity.
	DefaultIntensity float64 `json:"default_intensity"`
}

// MethodCatalogue describes the methods e supports, in the order of
// enhance.Methods().
func MethodCatalogue(e *enhance.Enhancer) MethodsResponse {
	resp := MethodsResponse{
		Methods:          make([]enhance.Info, 0, len(enhance.Methods())),
		DefaultMethod:    enhance.DefaultMethod,
		DefaultIntensity: enhance.DefaultIntensity,
	}
	for _, m := range enhance.Methods() {
		if !e.Supports(string(m)) {
			continue
		}
		info, ok := enhance.Describe(m)
		if !ok {
			info = enhance.Info{Name: m}
		}
		resp.Methods = append(resp.Methods, info)
	}
	return resp
}

func (s *Server) handleMethods(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, MethodCatalogue(s.enhancer))
}

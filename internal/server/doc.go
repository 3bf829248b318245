// Package server exposes the image enhancer over HTTP.
//
// # Endpoints
//
// POST /enhance takes a JSON body
//
//	{"image": "data:image/png;base64,...", "method": "sepia", "intensity": 50}
//
// and answers with
//
//	{"status": "success", "image": "data:image/png;base64,..."}
//
// method defaults to unsharp_mask and intensity to 50. intensity may be a
// number or a numeric string. Any input format the imaging package decodes
// is accepted; the result is always PNG.
//
// GET /methods lists the registered methods with a short description and
// the meaning of intensity for each. GET /healthz reports status, version
// and the active backend.
//
// # Error Handling
//
// Every failure of POST /enhance is answered with HTTP 500 and
//
//	{"status": "error", "message": "<description>"}
//
// whether the body was malformed, the method unknown, the image
// undecodable or the filter failed. The cause is logged with a kind of
// unsupported_method or unclassified.
//
// # Concurrency
//
// Filtering is CPU bound. At most Options.Workers enhancements run at once;
// further requests wait for a slot and give up when their context ends.
// Decoding happens inside the slot so memory use is bounded too.
//
// # Cross-Origin Requests
//
// CORS is enabled on every route for Options.AllowedOrigins so browser
// extensions and pages on other origins can call the service.
//
// # Usage
//
//	srv := server.New(enhance.New(), server.Options{Addr: ":5000"}, logger)
//	if err := srv.Run(ctx); err != nil {
//	    logger.Fatal().Err(err).Msg("server error")
//	}
package server

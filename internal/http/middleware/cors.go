package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORSConfig controls the CORS middleware.
type CORSConfig struct {
	// AllowedOrigins lists origins allowed to call the API.
	// Empty allows every origin.
	AllowedOrigins []string

	// MaxAge is the preflight cache lifetime in seconds. Default 86400.
	MaxAge int
}

// CORS adds cross-origin headers and answers preflight requests without
// reaching the router. Requests from disallowed origins are still served;
// the browser blocks the response.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = 86400
	}

	return cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         maxAge,
	})
}

package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows the admin SPA, served from another origin, to call the API.
// An empty list or "*" allows any origin.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{"Location", RequestIDHeader},
		MaxAge:         300,
	})
}

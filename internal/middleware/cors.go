package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/cors"
)

// CORS builds CORS middleware for the configured frontend origins.
// frontendURL may hold a comma-separated list.
func CORS(frontendURL string) func(http.Handler) http.Handler {
	var origins []string
	for _, origin := range strings.Split(frontendURL, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           86400,
	})

	return c.Handler
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/cors"
)

// CORSFromEnv builds CORS middleware from FRONTEND_URL, a comma-separated
// list of allowed origins. localhost:3000 is always allowed for local dev.
func CORSFromEnv(frontendURL string) func(http.Handler) http.Handler {
	origins := []string{"http://localhost:3000"}
	for _, origin := range strings.Split(frontendURL, ",") {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		duplicate := false
		for _, existing := range origins {
			if existing == trimmed {
				duplicate = true
				break
			}
		}
		if !duplicate {
			origins = append(origins, trimmed)
		}
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           86400,
	})
	return c.Handler
}

package middleware

import (
	"net/http"
)

const (
	// DefaultMaxRequestSize is the default maximum request body size (64KB).
	// Chat messages and task payloads are small; anything bigger is abuse.
	DefaultMaxRequestSize int64 = 64 << 10
)

// MaxRequestSize limits the size of request bodies
func MaxRequestSize(maxBytes int64) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxRequestSize
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				http.Error(w, "Request Entity Too Large", http.StatusRequestEntityTooLarge)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			defer func() {
				_ = r.Body.Close()
			}()

			next.ServeHTTP(w, r)
		})
	}
}

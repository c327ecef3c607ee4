package middleware

import (
	"log/slog"
	"net/http"
)

// BodyLimit rejects requests larger than limit bytes before they reach next.
// A declared Content-Length over the limit is refused immediately; other bodies are
// wrapped in http.MaxBytesReader so reads fail once the limit is crossed.
func BodyLimit(limit int64, tooLarge http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				slog.WarnContext(r.Context(), "request body too large",
					"content_length", r.ContentLength,
					"limit", limit,
					"path", r.URL.Path,
				)
				// Tell the server not to keep reading a body we refuse
				w.Header().Set("Connection", "close")
				tooLarge(w, r)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

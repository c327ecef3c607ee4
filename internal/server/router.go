package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/OpenNSW/media-upload/internal/config"
	"github.com/OpenNSW/media-upload/internal/middleware"
	"github.com/OpenNSW/media-upload/internal/uploads"
)

// multipartEnvelope is the allowance for multipart boundaries, part headers and small
// form fields on top of the file itself.
const multipartEnvelope = 64 << 10

// Options wires the HTTP surface together
type Options struct {
	Uploads  *uploads.HTTPHandler
	Provider string
	CORS     *config.CORSConfig
	// PublicDir is served at the root, like a static site
	PublicDir string
	// MediaDir, when set, is served under MediaPrefix (local media host)
	MediaDir    string
	MediaPrefix string
	Gatherer    prometheus.Gatherer
}

// NewRouter builds the handler for every route of the service
func NewRouter(opts Options) http.Handler {
	mux := http.NewServeMux()

	maxFile := opts.Uploads.MaxFileBytes
	limit := middleware.BodyLimit(maxFile+multipartEnvelope, func(w http.ResponseWriter, r *http.Request) {
		uploads.WriteTooLarge(w, maxFile)
	})
	mux.Handle("POST /upload", limit(http.HandlerFunc(opts.Uploads.Upload)))

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok", "provider": opts.Provider}); err != nil {
			slog.Error("failed to encode JSON response", "error", err)
		}
	})

	if opts.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	if opts.MediaDir != "" && strings.HasPrefix(opts.MediaPrefix, "/") {
		prefix := strings.TrimSuffix(opts.MediaPrefix, "/") + "/"
		mux.Handle("GET "+prefix, http.StripPrefix(prefix, http.FileServer(http.Dir(opts.MediaDir))))
	}

	if opts.PublicDir != "" {
		mux.Handle("GET /", http.FileServer(http.Dir(opts.PublicDir)))
	}

	chain := []func(http.Handler) http.Handler{
		middleware.RequestID,
		middleware.Logging,
		middleware.Recover,
	}
	if opts.CORS != nil {
		chain = append(chain, middleware.CORS(opts.CORS))
	}
	return middleware.Chain(mux, chain...)
}

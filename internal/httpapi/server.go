package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/klauspost/compress/gzhttp"
	"golang.org/x/sync/singleflight"

	"github.com/ifcproc/ifcproc/internal/appconfig"
	"github.com/ifcproc/ifcproc/internal/applog"
	"github.com/ifcproc/ifcproc/internal/diskcache"
)

// version is the server's reported API version.
const version = "0.1.0"

// Server holds the dependencies every handler needs: configuration, the
// content-addressed cache, and the CPU worker pool jobs are dispatched
// to, grounded on apps/server/src/main.rs's AppState. parseGroup
// collapses concurrent identical uploads (by cache key) onto a single
// in-flight parse, so a burst of requests for the same file only
// reprocesses it once.
type Server struct {
	cfg        *appconfig.Config
	cache      *diskcache.Cache
	pool       *WorkerPool
	parseGroup singleflight.Group
}

// NewServer builds a Server and starts its worker pool.
func NewServer(cfg *appconfig.Config, cache *diskcache.Cache) *Server {
	return &Server{cfg: cfg, cache: cache, pool: NewWorkerPool(cfg.WorkerThreads)}
}

// Router builds the full route table and middleware chain.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(requestIDMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(corsMiddleware(s.cfg.CORSOrigins))
	r.Use(middleware.Timeout(time.Duration(s.cfg.RequestTimeoutSecs) * time.Second))

	r.Get("/", s.handleInfo)
	r.Get("/api/v1/health", s.handleHealth)
	r.Post("/api/v1/parse", s.handleParse)
	r.Post("/api/v1/parse/stream", s.handleParseStream)
	r.Post("/api/v1/parse/metadata", s.handleParseMetadata)
	r.Get("/api/v1/cache/{key}", s.handleCacheGet)

	return gzhttp.GzipHandler(r)
}

// requestIDHeader carries a per-request correlation id through logs,
// generated with google/uuid rather than chi's built-in counter-based
// id so it stays unique across process restarts.
const requestIDHeader = "X-Request-ID"

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDContextKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type requestIDContextKey struct{}

// requestLogger logs one structured line per request through the
// process-wide logrus logger, replacing chi's own text logger so request
// logs share a formatter with the rest of the service.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		applog.WithFields(map[string]any{
			"request_id": r.Context().Value(requestIDContextKey{}),
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start).String(),
		}).Info("request")
	})
}

// corsMiddleware hand-rolls permissive-by-default CORS: no third-party
// CORS middleware exists anywhere in the reference corpus, and the rule
// set here (reflect an allowed Origin, or "*" when origins is empty) is
// a handful of header writes, not a concern worth a dependency.
func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	allowAll := len(origins) == 0
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if allowAll {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else if allowed[origin] {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", strings.Join([]string{"Content-Type"}, ", "))
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

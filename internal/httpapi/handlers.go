package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ifcproc/ifcproc/internal/applog"
	"github.com/ifcproc/ifcproc/internal/httpapi/sse"
	"github.com/ifcproc/ifcproc/internal/ifcerr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err *ifcerr.Error) {
	writeJSON(w, err.Status(), map[string]string{
		"error": err.Error(),
		"code":  string(err.Code),
	})
}

func asAPIError(err error) *ifcerr.Error {
	if ie, ok := err.(*ifcerr.Error); ok {
		return ie
	}
	return ifcerr.Processing(err.Error())
}

// handleInfo serves the one-line API description at GET /.
func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "ifcproc",
		"version": version,
		"info":    "IFC/STEP geometry processing API",
	})
}

// handleHealth serves GET /api/v1/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": version,
		"service": "ifcproc",
	})
}

// handleParse serves POST /api/v1/parse: the full synchronous parse
// path, steps 1-7 of §4.12.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	data, apiErr := extractFile(r, s.cfg.MaxFileSizeMB)
	if apiErr != nil {
		writeError(w, apiErr)
		return
	}
	if apiErr := validateUTF8(data); apiErr != nil {
		writeError(w, apiErr)
		return
	}

	key := fingerprint(data)

	var cached ParseResponse
	if ok, err := s.cache.GetJSON(key, &cached); err != nil {
		applog.WithFields(map[string]any{"cache_key": key, "error": err}).Error("cache read failed")
	} else if ok {
		applog.WithFields(map[string]any{"cache_key": key}).Info("cache hit")
		cached.Stats.FromCache = true
		writeJSON(w, http.StatusOK, cached)
		return
	}

	applog.WithFields(map[string]any{"cache_key": key, "size": len(data)}).Info("cache miss, processing")

	// singleflight collapses concurrent identical uploads onto one
	// in-flight parse, keyed by the same content fingerprint used for
	// the cache, so two requests racing on a cache miss don't both pay
	// the full processing cost.
	content := string(data)
	resultAny, err, _ := s.parseGroup.Do(key, func() (any, error) {
		return s.pool.Submit(r.Context(), func() (any, error) {
			return processGeometry(content)
		})
	})
	if err != nil {
		writeError(w, mapPoolError(err))
		return
	}
	pr := resultAny.(*parseResult)

	response := ParseResponse{CacheKey: key, Meshes: pr.meshes, Metadata: pr.metadata, Stats: pr.stats}

	go func() {
		if err := s.cache.SetJSON(key, response); err != nil {
			applog.WithFields(map[string]any{"cache_key": key, "error": err}).Error("failed to cache result")
		}
	}()

	writeJSON(w, http.StatusOK, response)
}

// handleParseMetadata serves POST /api/v1/parse/metadata: the
// scan-only fast path.
func (s *Server) handleParseMetadata(w http.ResponseWriter, r *http.Request) {
	data, apiErr := extractFile(r, s.cfg.MaxFileSizeMB)
	if apiErr != nil {
		writeError(w, apiErr)
		return
	}
	if apiErr := validateUTF8(data); apiErr != nil {
		writeError(w, apiErr)
		return
	}

	content := string(data)
	fileSize := len(data)
	result, err := s.pool.Submit(r.Context(), func() (any, error) {
		return processMetadata(content, fileSize)
	})
	if err != nil {
		writeError(w, mapPoolError(err))
		return
	}
	writeJSON(w, http.StatusOK, result.(*MetadataResponse))
}

// handleParseStream serves POST /api/v1/parse/stream: progressive SSE
// emission per §4.12's streaming schedule.
func (s *Server) handleParseStream(w http.ResponseWriter, r *http.Request) {
	data, apiErr := extractFile(r, s.cfg.MaxFileSizeMB)
	if apiErr != nil {
		writeError(w, apiErr)
		return
	}
	if apiErr := validateUTF8(data); apiErr != nil {
		writeError(w, apiErr)
		return
	}

	enc, ok := sse.NewEncoder(w)
	if !ok {
		writeError(w, ifcerr.Internal("streaming unsupported by response writer"))
		return
	}

	key := fingerprint(data)

	var cached ParseResponse
	if hit, err := s.cache.GetJSON(key, &cached); err == nil && hit {
		cached.Stats.FromCache = true
		_ = enc.WriteEvent(streamEventStart{Type: "start", TotalEstimate: len(cached.Meshes)})
		_ = enc.WriteEvent(streamEventBatch{Type: "batch", Meshes: cached.Meshes, BatchNumber: 1})
		_ = enc.WriteEvent(streamEventComplete{Type: "complete", Stats: cached.Stats, Metadata: cached.Metadata, CacheKey: key})
		return
	}

	content := string(data)
	ctx := r.Context()
	emit := func(event any) bool {
		if err := enc.WriteEvent(event); err != nil {
			return false
		}
		select {
		case <-ctx.Done():
			return false
		default:
			return true
		}
	}

	resultCh := make(chan any, 1)
	errCh := make(chan error, 1)
	go func() {
		result, err := streamGeometry(ctx, content, s.cfg.InitialBatchSize, s.cfg.MaxBatchSize, emit)
		if err != nil {
			errCh <- err
			return
		}
		resultCh <- result
	}()

	select {
	case result := <-resultCh:
		pr := result.(*parseResult)
		response := ParseResponse{CacheKey: key, Meshes: pr.meshes, Metadata: pr.metadata, Stats: pr.stats}
		_ = enc.WriteEvent(streamEventComplete{Type: "complete", Stats: pr.stats, Metadata: pr.metadata, CacheKey: key})
		go func() {
			if err := s.cache.SetJSON(key, response); err != nil {
				applog.WithFields(map[string]any{"cache_key": key, "error": err}).Error("failed to cache streamed result")
			}
		}()
	case err := <-errCh:
		if err != context.Canceled {
			_ = enc.WriteEvent(streamEventError{Type: "error", Message: err.Error()})
		}
	case <-ctx.Done():
	}
}

// handleCacheGet serves GET /api/v1/cache/{key}.
func (s *Server) handleCacheGet(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	var response ParseResponse
	ok, err := s.cache.GetJSON(key, &response)
	if err != nil {
		writeError(w, ifcerr.Cache(err.Error()))
		return
	}
	if !ok {
		writeError(w, ifcerr.NotFound(key))
		return
	}
	writeJSON(w, http.StatusOK, response)
}

func mapPoolError(err error) *ifcerr.Error {
	if err == context.Canceled || err == context.DeadlineExceeded {
		return ifcerr.Internal("request timed out")
	}
	return asAPIError(err)
}

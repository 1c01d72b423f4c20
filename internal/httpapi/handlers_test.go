package httpapi

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ifcproc/ifcproc/internal/appconfig"
	"github.com/ifcproc/ifcproc/internal/diskcache"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	cache, err := diskcache.New(t.TempDir())
	require.NoError(t, err)
	cfg := &appconfig.Config{
		Port: 8080, MaxFileSizeMB: 500, RequestTimeoutSecs: 30, WorkerThreads: 2,
		InitialBatchSize: 100, MaxBatchSize: 1000, BatchSize: 200, CacheMaxAgeDays: 7,
	}
	return NewServer(cfg, cache)
}

func multipartBody(t *testing.T, fieldName, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	part, err := w.CreateFormFile(fieldName, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func TestHandleInfoAndHealth(t *testing.T) {
	s := testServer(t)
	router := s.Router()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleParseMissingFileReturns400(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse", nil)
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleParseRoundTripAndCacheHit(t *testing.T) {
	s := testServer(t)
	body, contentType := multipartBody(t, "file", "model.ifc", []byte(fixtureIFC))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ParseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.Stats.FromCache)
	require.Len(t, resp.Meshes, 1)

	// Wait for the async cache write, then hit via GET /api/v1/cache/{key}.
	require.Eventually(t, func() bool {
		ok, _ := s.cache.HasJSON(resp.CacheKey)
		return ok
	}, time.Second, 5*time.Millisecond)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/cache/"+resp.CacheKey, nil)
	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var cached ParseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cached))
	require.Equal(t, resp.CacheKey, cached.CacheKey)
}

func TestHandleCacheGetNotFound(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cache/doesnotexist", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleParseMetadataReturnsCounts(t *testing.T) {
	s := testServer(t)
	body, contentType := multipartBody(t, "file", "model.ifc", []byte(fixtureIFC))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse/metadata", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp MetadataResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.GeometryCount)
}

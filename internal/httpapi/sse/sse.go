// Package sse implements the server-sent-event frame encoder used by
// /api/v1/parse/stream, grounded on apps/server/src/routes/parse.rs's
// Sse::new(stream).keep_alive(...) wrapper and, for the underlying
// "flush after each unit of work" discipline, render/dev/implcommon.go's
// progressive partial-render emission.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Encoder writes SSE frames to an http.ResponseWriter, flushing after
// every frame so the client observes each event as it is produced.
type Encoder struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewEncoder prepares w for SSE: sets the required headers and returns
// an Encoder, or ok=false if w does not support flushing (required for
// incremental delivery).
func NewEncoder(w http.ResponseWriter) (*Encoder, bool) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, false
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()
	return &Encoder{w: w, flusher: flusher}, true
}

// WriteEvent serializes payload as JSON and writes one `data: ...\n\n`
// frame, flushing immediately.
func (e *Encoder) WriteEvent(payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(e.w, "data: %s\n\n", data); err != nil {
		return err
	}
	e.flusher.Flush()
	return nil
}

// WriteKeepAlive writes an SSE comment line, which clients and
// intermediate proxies ignore as an event but which keeps the
// connection from being reaped as idle.
func (e *Encoder) WriteKeepAlive() error {
	if _, err := fmt.Fprint(e.w, ": keep-alive\n\n"); err != nil {
		return err
	}
	e.flusher.Flush()
	return nil
}

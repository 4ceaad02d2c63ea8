package stream

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
)

// WriteError wraps a failed write to the response; the consumer is gone and
// the producing job should stop.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string { return fmt.Sprintf("stream write failed: %v", e.Err) }
func (e *WriteError) Unwrap() error { return e.Err }

// Emitter serializes events onto an HTTP response as server-sent events. Safe
// for concurrent use; each Send produces exactly one complete record.
type Emitter struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewEmitter prepares w for event streaming: sets the SSE headers and
// commits the 200 status. Call it only after all validation has passed,
// since no error status can follow. Flushing is best-effort when w does not
// implement http.Flusher.
func NewEmitter(w http.ResponseWriter) *Emitter {
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	return &Emitter{w: w, flusher: flusher}
}

// Send marshals ev and writes it as one "data: <json>\n\n" record, flushing
// immediately so the consumer observes it without buffering delay.
func (e *Emitter) Send(ev any) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal stream event: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := fmt.Fprintf(e.w, "data: %s\n\n", data); err != nil {
		return &WriteError{Err: err}
	}
	if e.flusher != nil {
		e.flusher.Flush()
	}
	return nil
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"git.home.luguber.info/inful/reposcribe/internal/docgen"
	serrors "git.home.luguber.info/inful/reposcribe/internal/errors"
	"git.home.luguber.info/inful/reposcribe/internal/gitfetch"
	"git.home.luguber.info/inful/reposcribe/internal/logfields"
	"git.home.luguber.info/inful/reposcribe/internal/stream"
)

// DocService runs documentation jobs for the stream handlers.
type DocService interface {
	Run(ctx context.Context, repoURL string, sink docgen.Sink) error
	GenerateReadme(ctx context.Context, repoURL string) (string, error)
	GenerateArchitecture(ctx context.Context, repoURL string) (string, error)
}

// StreamHandlers contains the documentation generation HTTP handlers.
type StreamHandlers struct {
	service      DocService
	errorAdapter *serrors.HTTPErrorAdapter
}

// NewStreamHandlers creates a new stream handlers instance.
func NewStreamHandlers(service DocService) *StreamHandlers {
	return &StreamHandlers{
		service:      service,
		errorAdapter: serrors.NewHTTPErrorAdapter(slog.Default()),
	}
}

// generateRequest is the POST body for generation endpoints.
type generateRequest struct {
	RepoURL string `json:"repoUrl"`
	Type    string `json:"type,omitempty"`
}

// HandleStream handles POST /api/repos/stream. Every valid request is
// answered as server-sent events: the default mode streams the full pipeline,
// type=readme or type=architecture streams a single content event followed by
// done. Only pre-stream validation failures get a conventional JSON body.
func (h *StreamHandlers) HandleStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		err := serrors.ValidationError("invalid HTTP method").
			WithContext("method", r.Method).
			WithContext("allowed_method", "POST")
		h.errorAdapter.WriteErrorResponse(w, err)
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorAdapter.WriteErrorResponse(w, serrors.ValidationError("invalid request body"))
		return
	}
	if req.RepoURL == "" {
		h.errorAdapter.WriteErrorResponse(w, serrors.ValidationError("Repository URL is required"))
		return
	}

	switch req.Type {
	case "", "stream":
		h.streamPipeline(w, r, req.RepoURL)
	case "readme":
		h.streamSingle(w, r, req.RepoURL, h.service.GenerateReadme,
			func(content string) any { return stream.NewReadmeEvent(content) })
	case "architecture":
		h.streamSingle(w, r, req.RepoURL, h.service.GenerateArchitecture,
			func(content string) any { return stream.NewArchitectureEvent(content) })
	default:
		err := serrors.ValidationError("unknown generation type").
			WithContext("type", req.Type)
		h.errorAdapter.WriteErrorResponse(w, err)
	}
}

// streamPipeline commits the SSE response and runs the job. After this point
// failures travel inside the stream as error events, never as HTTP statuses.
func (h *StreamHandlers) streamPipeline(w http.ResponseWriter, r *http.Request, repoURL string) {
	em := stream.NewEmitter(w)
	sink := &emitterSink{em: em}

	if err := h.service.Run(r.Context(), repoURL, sink); err != nil {
		var werr *stream.WriteError
		if errors.As(err, &werr) {
			// The consumer is gone; nothing left to tell it.
			return
		}
		if serr := em.Send(stream.NewErrorEvent(errorMessage(err), errorCode(err))); serr != nil {
			slog.Warn("Failed to send terminal error event", logfields.Error(serr))
		}
		return
	}

	if err := em.Send(stream.NewDoneEvent()); err != nil {
		slog.Warn("Failed to send done event", logfields.Error(err))
	}
}

// streamSingle runs one aggregate variant over the same event protocol: the
// stream is committed first, then carries exactly one content event and a
// terminal done, or a terminal error.
func (h *StreamHandlers) streamSingle(w http.ResponseWriter, r *http.Request, repoURL string, gen func(context.Context, string) (string, error), event func(content string) any) {
	em := stream.NewEmitter(w)

	content, err := gen(r.Context(), repoURL)
	if err != nil {
		if serr := em.Send(stream.NewErrorEvent(errorMessage(err), errorCode(err))); serr != nil {
			slog.Warn("Failed to send terminal error event", logfields.Error(serr))
		}
		return
	}

	if err := em.Send(event(content)); err != nil {
		return
	}
	if err := em.Send(stream.NewDoneEvent()); err != nil {
		slog.Warn("Failed to send done event", logfields.Error(err))
	}
}

// emitterSink adapts the pipeline sink contract onto the SSE emitter.
type emitterSink struct {
	em *stream.Emitter
}

func (s *emitterSink) Batch(progress string, docs []docgen.FileDoc) error {
	return s.em.Send(stream.NewBatchEvent(progress, docs))
}

func (s *emitterSink) Readme(content string) error {
	return s.em.Send(stream.NewReadmeEvent(content))
}

func (s *emitterSink) Architecture(content string) error {
	return s.em.Send(stream.NewArchitectureEvent(content))
}

func (s *emitterSink) StepError(step string, err error) error {
	return s.em.Send(stream.NewErrorEvent(step+" generation failed", "GENERATION_FAILED"))
}

// errorCode maps job failures to stable machine-readable codes for stream
// consumers.
func errorCode(err error) string {
	var (
		authErr     *gitfetch.AuthError
		notFoundErr *gitfetch.NotFoundError
		urlErr      *gitfetch.InvalidURLError
		timeoutErr  *gitfetch.NetworkTimeoutError
	)
	switch {
	case errors.As(err, &authErr):
		return "AUTH_REQUIRED"
	case errors.As(err, &notFoundErr):
		return "REPO_NOT_FOUND"
	case errors.As(err, &urlErr):
		return "INVALID_URL"
	case errors.As(err, &timeoutErr):
		return "CLONE_TIMEOUT"
	default:
		return "INTERNAL"
	}
}

func errorMessage(err error) string {
	var (
		authErr     *gitfetch.AuthError
		notFoundErr *gitfetch.NotFoundError
		urlErr      *gitfetch.InvalidURLError
		timeoutErr  *gitfetch.NetworkTimeoutError
	)
	switch {
	case errors.As(err, &authErr):
		return "Repository requires authentication"
	case errors.As(err, &notFoundErr):
		return "Repository not found"
	case errors.As(err, &urlErr):
		return "Repository URL is invalid"
	case errors.As(err, &timeoutErr):
		return "Repository clone timed out"
	default:
		return "Documentation generation failed"
	}
}

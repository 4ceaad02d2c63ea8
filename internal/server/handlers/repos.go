package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	serrors "git.home.luguber.info/inful/reposcribe/internal/errors"
	"git.home.luguber.info/inful/reposcribe/internal/logfields"
	"git.home.luguber.info/inful/reposcribe/internal/server/responses"
	"git.home.luguber.info/inful/reposcribe/internal/store"
)

// RepoHandlers serves stored documentation.
type RepoHandlers struct {
	store        store.Store
	markdown     goldmark.Markdown
	errorAdapter *serrors.HTTPErrorAdapter
}

// NewRepoHandlers creates a new repository handlers instance.
func NewRepoHandlers(st store.Store) *RepoHandlers {
	return &RepoHandlers{
		store: st,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
		errorAdapter: serrors.NewHTTPErrorAdapter(slog.Default()),
	}
}

// HandleRepos handles GET /api/repos. Without a repoUrl query parameter it
// lists all stored repositories newest first; with one it returns that
// repository's documentation. format=html renders the stored README as HTML.
func (h *RepoHandlers) HandleRepos(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		err := serrors.ValidationError("invalid HTTP method").
			WithContext("method", r.Method).
			WithContext("allowed_method", "GET")
		h.errorAdapter.WriteErrorResponse(w, err)
		return
	}
	if h.store == nil {
		h.errorAdapter.WriteErrorResponse(w,
			serrors.New(serrors.CategoryRuntime, serrors.SeverityError, "documentation store is disabled"))
		return
	}

	if repoURL := r.URL.Query().Get("repoUrl"); repoURL != "" {
		h.handleOne(w, r, repoURL)
		return
	}
	h.handleList(w, r)
}

func (h *RepoHandlers) handleList(w http.ResponseWriter, r *http.Request) {
	recs, err := h.store.List(r.Context())
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w,
			serrors.WrapError(err, serrors.CategoryRuntime, "failed to list stored documentation"))
		return
	}

	infos := make([]responses.RepositoryInfo, len(recs))
	for i, rec := range recs {
		infos[i] = responses.RepositoryInfo{
			URL:       rec.RepoURL,
			FileCount: len(rec.Files),
			CreatedAt: rec.CreatedAt,
		}
	}

	resp := responses.RepositoryListResponse{
		Status:       "ok",
		Repositories: infos,
		Timestamp:    time.Now().UTC(),
	}
	if err := writeJSONPretty(w, r, http.StatusOK, resp); err != nil {
		slog.Error("Failed to write repository list", logfields.Error(err))
	}
}

func (h *RepoHandlers) handleOne(w http.ResponseWriter, r *http.Request, repoURL string) {
	rec, err := h.store.Get(r.Context(), repoURL)
	if errors.Is(err, store.ErrNotFound) {
		_ = writeJSON(w, http.StatusNotFound, serrors.HTTPErrorResponse{
			Success: false,
			Message: "no documentation stored for repository",
		})
		return
	}
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w,
			serrors.WrapError(err, serrors.CategoryRuntime, "failed to load stored documentation"))
		return
	}

	var docs responses.DocsPayload
	if rec.Docs != "" {
		if err := json.Unmarshal([]byte(rec.Docs), &docs); err != nil {
			slog.Warn("Stored docs blob is not valid JSON, serving readme as-is",
				logfields.RepoURL(repoURL), logfields.Error(err))
			docs.Readme = rec.Docs
		}
	}

	if r.URL.Query().Get("format") == "html" {
		h.renderHTML(w, repoURL, docs.Readme)
		return
	}

	resp := responses.RepositoryDocsResponse{
		URL:       rec.RepoURL,
		Docs:      docs,
		Files:     rec.Files,
		CreatedAt: rec.CreatedAt,
	}
	if err := writeJSONPretty(w, r, http.StatusOK, resp); err != nil {
		slog.Error("Failed to write repository docs", logfields.Error(err))
	}
}

func (h *RepoHandlers) renderHTML(w http.ResponseWriter, repoURL, markdown string) {
	var buf bytes.Buffer
	if err := h.markdown.Convert([]byte(markdown), &buf); err != nil {
		h.errorAdapter.WriteErrorResponse(w,
			serrors.WrapError(err, serrors.CategoryInternal, "failed to render documentation"))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("Failed to write rendered documentation",
			logfields.RepoURL(repoURL), logfields.Error(err))
	}
}

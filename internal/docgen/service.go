package docgen

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/reposcribe/internal/events"
	"git.home.luguber.info/inful/reposcribe/internal/llm"
	"git.home.luguber.info/inful/reposcribe/internal/logfields"
	"git.home.luguber.info/inful/reposcribe/internal/metrics"
	"git.home.luguber.info/inful/reposcribe/internal/source"
	"git.home.luguber.info/inful/reposcribe/internal/store"
)

// Workspaces allocates and releases per-job clone directories.
type Workspaces interface {
	Allocate(repoURL string) (string, error)
	Release(path string)
}

// RepoFetcher clones a remote repository into a workspace directory.
type RepoFetcher interface {
	Fetch(ctx context.Context, repoURL, dest string) error
}

// FileWalker enumerates the processable files under a workspace root.
type FileWalker interface {
	Walk(root string) ([]source.File, error)
}

// Sink receives pipeline output in production order. A returned error means
// the consumer is gone; the pipeline treats it as cancellation.
type Sink interface {
	Batch(progress string, docs []FileDoc) error
	Readme(content string) error
	Architecture(content string) error
	StepError(step string, err error) error
}

// Aggregate step names used in StepError events.
const (
	StepReadme       = "readme"
	StepAPIReference = "api_reference"
	StepArchitecture = "architecture"
)

// Deps bundles the collaborators a Service needs. Store, Events and Metrics
// are optional; the pipeline runs identically without them.
type Deps struct {
	Workspaces Workspaces
	Fetcher    RepoFetcher
	Walker     FileWalker
	Client     llm.Client
	Processor  *Processor
	Store      store.Store
	Events     *events.Publisher
	Metrics    *metrics.Recorder
}

// Service runs whole-repository documentation jobs.
type Service struct {
	deps        Deps
	callTimeout time.Duration
}

// NewService creates a Service. callTimeout bounds each aggregate generation
// call; zero disables the deadline.
func NewService(deps Deps, callTimeout time.Duration) *Service {
	if deps.Processor == nil {
		deps.Processor = NewProcessor(deps.Client, DefaultBatchSize, callTimeout)
	}
	return &Service{deps: deps, callTimeout: callTimeout}
}

// storedDocs is the aggregate blob persisted per repository.
type storedDocs struct {
	Readme       string `json:"readme,omitempty"`
	APIReference string `json:"apiReference,omitempty"`
	Architecture string `json:"architecture,omitempty"`
}

// Run executes the full streaming pipeline for repoURL: allocate a workspace,
// shallow-clone, enumerate files, process them in batches (each completed
// group forwarded to sink), then run the aggregate steps - README, API
// reference, architecture - and persist the result. The workspace is released
// unconditionally. A returned error is a job-level failure the caller turns
// into a terminal stream event; aggregate-step generation failures are
// reported through sink.StepError and do not fail the job.
func (s *Service) Run(ctx context.Context, repoURL string, sink Sink) error {
	jobID := uuid.NewString()
	start := time.Now()
	log := slog.With(logfields.JobID(jobID), logfields.RepoURL(repoURL))

	s.deps.Events.JobStarted(jobID, repoURL)

	files, dir, err := s.materialize(ctx, repoURL, log)
	if dir != "" {
		defer s.deps.Workspaces.Release(dir)
	}
	if err != nil {
		s.finish(jobID, repoURL, start, 0, err)
		return err
	}

	// A sink write failure marks the consumer gone: cancel remaining work
	// instead of paying for generation calls nobody will see.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var sinkErr error
	emit := func(progress string, docs []FileDoc) {
		if sinkErr != nil {
			return
		}
		if err := sink.Batch(progress, docs); err != nil {
			sinkErr = err
			cancel()
		}
	}

	docs := s.deps.Processor.Process(ctx, files, emit)
	s.deps.Metrics.FilesProcessed(len(files))
	if sinkErr != nil {
		s.finish(jobID, repoURL, start, len(files), sinkErr)
		return fmt.Errorf("stream consumer disconnected: %w", sinkErr)
	}
	if err := ctx.Err(); err != nil {
		s.finish(jobID, repoURL, start, len(files), err)
		return fmt.Errorf("job cancelled: %w", err)
	}

	aggregate, err := marshalAggregate(docs)
	if err != nil {
		s.finish(jobID, repoURL, start, len(files), err)
		return err
	}

	blob := storedDocs{}

	if content, err := s.invokeAggregate(ctx, llm.TemplateReadme, aggregate); err != nil {
		s.reportStepFailure(sink, StepReadme, err, log)
	} else {
		blob.Readme = content
		if err := sink.Readme(content); err != nil {
			s.finish(jobID, repoURL, start, len(files), err)
			return fmt.Errorf("stream consumer disconnected: %w", err)
		}
	}

	// The API reference is persisted for the read API, not streamed: the
	// event protocol only carries batch, readme and architecture payloads.
	if content, err := s.invokeAggregate(ctx, llm.TemplateAPIReference, aggregate); err != nil {
		s.reportStepFailure(sink, StepAPIReference, err, log)
	} else {
		blob.APIReference = content
	}

	if content, err := s.invokeAggregate(ctx, llm.TemplateArchitecture, aggregate); err != nil {
		s.reportStepFailure(sink, StepArchitecture, err, log)
	} else {
		diagram := llm.StripMermaidFence(content)
		blob.Architecture = diagram
		if err := sink.Architecture(diagram); err != nil {
			s.finish(jobID, repoURL, start, len(files), err)
			return fmt.Errorf("stream consumer disconnected: %w", err)
		}
	}

	s.persist(ctx, repoURL, blob, docs, log)
	s.finish(jobID, repoURL, start, len(files), nil)
	return nil
}

// GenerateReadme runs the synchronous single-response variant: clone, walk,
// process all files without streaming, and return only the README text.
func (s *Service) GenerateReadme(ctx context.Context, repoURL string) (string, error) {
	return s.generateAggregate(ctx, repoURL, llm.TemplateReadme)
}

// GenerateArchitecture is the synchronous variant returning the bare
// architecture diagram source.
func (s *Service) GenerateArchitecture(ctx context.Context, repoURL string) (string, error) {
	content, err := s.generateAggregate(ctx, repoURL, llm.TemplateArchitecture)
	if err != nil {
		return "", err
	}
	return llm.StripMermaidFence(content), nil
}

func (s *Service) generateAggregate(ctx context.Context, repoURL string, tmpl llm.Template) (string, error) {
	jobID := uuid.NewString()
	start := time.Now()
	log := slog.With(logfields.JobID(jobID), logfields.RepoURL(repoURL))

	s.deps.Events.JobStarted(jobID, repoURL)

	files, dir, err := s.materialize(ctx, repoURL, log)
	if dir != "" {
		defer s.deps.Workspaces.Release(dir)
	}
	if err != nil {
		s.finish(jobID, repoURL, start, 0, err)
		return "", err
	}

	docs := s.deps.Processor.Process(ctx, files, nil)
	s.deps.Metrics.FilesProcessed(len(files))

	aggregate, err := marshalAggregate(docs)
	if err != nil {
		s.finish(jobID, repoURL, start, len(files), err)
		return "", err
	}

	content, err := s.invokeAggregate(ctx, tmpl, aggregate)
	s.finish(jobID, repoURL, start, len(files), err)
	if err != nil {
		return "", err
	}
	return content, nil
}

// materialize allocates a workspace and fills it with the repository's files.
// The returned dir is non-empty whenever a workspace was allocated, even on
// error, so the caller can always release it.
func (s *Service) materialize(ctx context.Context, repoURL string, log *slog.Logger) ([]source.File, string, error) {
	dir, err := s.deps.Workspaces.Allocate(repoURL)
	if err != nil {
		return nil, "", fmt.Errorf("allocate workspace: %w", err)
	}

	cloneStart := time.Now()
	if err := s.deps.Fetcher.Fetch(ctx, repoURL, dir); err != nil {
		return nil, dir, err
	}
	s.deps.Metrics.CloneFinished(time.Since(cloneStart).Seconds())

	files, err := s.deps.Walker.Walk(dir)
	if err != nil {
		return nil, dir, fmt.Errorf("enumerate repository files: %w", err)
	}
	log.Info("Repository materialized", logfields.Count(len(files)))
	return files, dir, nil
}

func (s *Service) invokeAggregate(ctx context.Context, tmpl llm.Template, aggregate string) (string, error) {
	if s.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.callTimeout)
		defer cancel()
	}
	return s.deps.Client.Invoke(ctx, tmpl, map[string]string{"documentation": aggregate})
}

func (s *Service) reportStepFailure(sink Sink, step string, err error, log *slog.Logger) {
	log.Warn("Aggregate generation step failed, skipping",
		logfields.Stage(step), logfields.Error(err))
	s.deps.Metrics.GenerationFailed(step)
	if serr := sink.StepError(step, err); serr != nil {
		log.Warn("Failed to report step failure to stream", logfields.Error(serr))
	}
}

func (s *Service) persist(ctx context.Context, repoURL string, blob storedDocs, docs []FileDoc, log *slog.Logger) {
	if s.deps.Store == nil {
		return
	}

	data, err := json.Marshal(blob)
	if err != nil {
		log.Warn("Failed to marshal documentation blob", logfields.Error(err))
		return
	}
	files := make(map[string]string, len(docs))
	for _, d := range docs {
		files[d.Path] = d.Documentation
	}

	rec := &store.Record{RepoURL: repoURL, Docs: string(data), Files: files, CreatedAt: time.Now()}
	if err := s.deps.Store.Save(ctx, rec); err != nil {
		// Persistence is a collaborator, never a job outcome.
		log.Warn("Failed to persist documentation", logfields.Error(err))
	}
}

func (s *Service) finish(jobID, repoURL string, start time.Time, files int, err error) {
	seconds := time.Since(start).Seconds()
	if err != nil {
		s.deps.Metrics.JobFinished(metrics.OutcomeFailure, seconds)
		s.deps.Events.JobFailed(jobID, repoURL, err)
		return
	}
	s.deps.Metrics.JobFinished(metrics.OutcomeSuccess, seconds)
	s.deps.Events.JobCompleted(jobID, repoURL, files)
}

// marshalAggregate serializes the per-file documentation as the input corpus
// for the whole-repository generation steps.
func marshalAggregate(docs []FileDoc) (string, error) {
	data, err := json.Marshal(docs)
	if err != nil {
		return "", fmt.Errorf("marshal aggregate documentation: %w", err)
	}
	return string(data), nil
}

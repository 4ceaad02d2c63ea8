// Package docgen runs repository files through the generation provider in
// bounded concurrent batches and orchestrates whole-repository documentation
// jobs.
package docgen

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"sync"
	"time"

	"git.home.luguber.info/inful/reposcribe/internal/llm"
	"git.home.luguber.info/inful/reposcribe/internal/logfields"
	"git.home.luguber.info/inful/reposcribe/internal/source"
)

// FileDoc is the generated documentation for one repository file. Failed
// units are dropped, never emitted as empty records.
type FileDoc struct {
	Path          string `json:"filePath"`
	Documentation string `json:"documentation"`
}

// EmitFunc receives each completed group together with the cumulative
// progress fraction ("<processed>/<total>").
type EmitFunc func(progress string, docs []FileDoc)

// DefaultBatchSize bounds concurrent outbound generation calls. Groups run
// sequentially; only calls within one group overlap, which keeps peak load on
// the provider predictable.
const DefaultBatchSize = 5

// Processor partitions files into fixed-size groups and runs each group's
// generation calls concurrently.
type Processor struct {
	client      llm.Client
	batchSize   int
	callTimeout time.Duration
}

// NewProcessor creates a Processor. batchSize <= 0 falls back to
// DefaultBatchSize; callTimeout <= 0 disables the per-call deadline.
func NewProcessor(client llm.Client, batchSize int, callTimeout time.Duration) *Processor {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Processor{client: client, batchSize: batchSize, callTimeout: callTimeout}
}

// Process runs every file through the per-file analysis template. Calls
// within a group run concurrently; the group is awaited before the next one
// starts. A failing unit is logged and dropped without cancelling its
// siblings. After each group, emit (if non-nil) receives the group's
// successful results in file order. Context cancellation stops before the
// next group; results collected so far are returned.
func (p *Processor) Process(ctx context.Context, files []source.File, emit EmitFunc) []FileDoc {
	total := len(files)
	processed := 0
	var all []FileDoc

	for start := 0; start < total; start += p.batchSize {
		if ctx.Err() != nil {
			slog.Info("Batch processing cancelled", logfields.Progress(fmt.Sprintf("%d/%d", processed, total)))
			break
		}

		end := min(start+p.batchSize, total)
		group := files[start:end]

		// Indexed slots keep file order stable within the group regardless
		// of completion order.
		results := make([]*FileDoc, len(group))
		var wg sync.WaitGroup
		for i, file := range group {
			wg.Add(1)
			go func(i int, file source.File) {
				defer wg.Done()
				doc, err := p.processOne(ctx, file)
				if err != nil {
					slog.Warn("File analysis failed, dropping unit",
						logfields.File(file.Path), logfields.Error(err))
					return
				}
				results[i] = doc
			}(i, file)
		}
		wg.Wait()

		processed += len(group)
		succeeded := make([]FileDoc, 0, len(group))
		for _, r := range results {
			if r != nil {
				succeeded = append(succeeded, *r)
			}
		}
		all = append(all, succeeded...)

		if emit != nil {
			emit(fmt.Sprintf("%d/%d", processed, total), succeeded)
		}
	}

	return all
}

func (p *Processor) processOne(ctx context.Context, file source.File) (*FileDoc, error) {
	if p.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.callTimeout)
		defer cancel()
	}

	out, err := p.client.Invoke(ctx, llm.TemplateFileAnalysis, map[string]string{
		"fileName":    path.Base(file.Path),
		"fileContent": file.Content,
	})
	if err != nil {
		return nil, err
	}
	return &FileDoc{Path: file.Path, Documentation: out}, nil
}

// Package janitor periodically removes abandoned workspace directories left
// behind by crashed jobs or unclean shutdowns.
package janitor

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/reposcribe/internal/logfields"
)

// Sweeper removes workspace entries older than maxAge.
type Sweeper interface {
	Sweep(maxAge time.Duration) error
}

// Janitor wraps a gocron scheduler running the workspace sweep.
type Janitor struct {
	scheduler gocron.Scheduler
	sweeper   Sweeper
	interval  time.Duration
	maxAge    time.Duration
}

// New creates a Janitor sweeping every interval, removing entries older than
// maxAge.
func New(sweeper Sweeper, interval, maxAge time.Duration) (*Janitor, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	return &Janitor{
		scheduler: s,
		sweeper:   sweeper,
		interval:  interval,
		maxAge:    maxAge,
	}, nil
}

// Start registers the sweep job and begins the scheduler.
func (j *Janitor) Start() error {
	_, err := j.scheduler.NewJob(
		gocron.DurationJob(j.interval),
		gocron.NewTask(j.sweep),
		gocron.WithName("workspace-sweep"),
	)
	if err != nil {
		return fmt.Errorf("failed to create sweep job: %w", err)
	}

	slog.Info("Starting workspace janitor",
		logfields.DurationMS(float64(j.interval.Milliseconds())))
	j.scheduler.Start()
	return nil
}

// Stop gracefully shuts down the scheduler.
func (j *Janitor) Stop() error {
	slog.Info("Stopping workspace janitor")
	return j.scheduler.Shutdown()
}

func (j *Janitor) sweep() {
	if err := j.sweeper.Sweep(j.maxAge); err != nil {
		slog.Error("Workspace sweep failed", logfields.Error(err))
	}
}

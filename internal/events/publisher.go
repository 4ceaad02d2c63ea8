// Package events publishes job lifecycle notifications to NATS. Publishing is
// fire-and-forget: a broker outage degrades to log lines, never to job
// failures.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/reposcribe/internal/logfields"
)

// Job lifecycle statuses carried in published events.
const (
	StatusStarted   = "started"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// JobEvent is the JSON payload published per lifecycle transition.
type JobEvent struct {
	JobID          string    `json:"job_id"`
	RepoURL        string    `json:"repo_url"`
	Status         string    `json:"status"`
	FilesProcessed int       `json:"files_processed,omitempty"`
	Error          string    `json:"error,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// Publisher publishes JobEvents to a single subject. A nil Publisher is valid
// and publishes nothing.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// NewPublisher connects to NATS and returns a Publisher for subject.
func NewPublisher(url, subject string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS %s: %w", url, err)
	}
	slog.Info("NATS publisher connected", slog.String("url", url), logfields.Subject(subject))
	return &Publisher{conn: conn, subject: subject}, nil
}

// JobStarted publishes a started event.
func (p *Publisher) JobStarted(jobID, repoURL string) {
	p.publish(JobEvent{JobID: jobID, RepoURL: repoURL, Status: StatusStarted})
}

// JobCompleted publishes a completed event with the processed file count.
func (p *Publisher) JobCompleted(jobID, repoURL string, filesProcessed int) {
	p.publish(JobEvent{JobID: jobID, RepoURL: repoURL, Status: StatusCompleted, FilesProcessed: filesProcessed})
}

// JobFailed publishes a failed event carrying the failure message.
func (p *Publisher) JobFailed(jobID, repoURL string, err error) {
	ev := JobEvent{JobID: jobID, RepoURL: repoURL, Status: StatusFailed}
	if err != nil {
		ev.Error = err.Error()
	}
	p.publish(ev)
}

func (p *Publisher) publish(ev JobEvent) {
	if p == nil || p.conn == nil {
		return
	}
	ev.Timestamp = time.Now().UTC()

	payload, err := json.Marshal(ev)
	if err != nil {
		slog.Warn("Failed to marshal job event", logfields.JobID(ev.JobID), logfields.Error(err))
		return
	}
	if err := p.conn.Publish(p.subject, payload); err != nil {
		slog.Warn("Failed to publish job event",
			logfields.JobID(ev.JobID), logfields.Subject(p.subject), logfields.Error(err))
	}
}

// Close drains and closes the NATS connection.
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		slog.Warn("Failed to drain NATS connection", logfields.Error(err))
	}
}

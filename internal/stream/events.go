// Package stream frames documentation pipeline output as server-sent events.
// Every event is a single JSON object carried in one "data:" record; the type
// field tells the consumer which payload shape to expect.
package stream

import "git.home.luguber.info/inful/reposcribe/internal/docgen"

// Event type tags in the wire protocol.
const (
	TypeBatch        = "batch"
	TypeReadme       = "readme"
	TypeArchitecture = "architecture"
	TypeError        = "error"
	TypeDone         = "done"
)

// BatchEvent carries one completed group of per-file documentation.
type BatchEvent struct {
	Type     string           `json:"type"`
	Progress string           `json:"progress"`
	Batch    []docgen.FileDoc `json:"batch"`
}

// ReadmeEvent carries the whole-repository README markdown.
type ReadmeEvent struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// ArchitectureEvent carries the bare diagram source, fence already removed.
type ArchitectureEvent struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// ErrorEvent reports a failure. As a step error it is informational; as the
// final event of a stream it is terminal and replaces DoneEvent.
type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// DoneEvent terminates a successful stream.
type DoneEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewBatchEvent(progress string, batch []docgen.FileDoc) BatchEvent {
	if batch == nil {
		batch = []docgen.FileDoc{}
	}
	return BatchEvent{Type: TypeBatch, Progress: progress, Batch: batch}
}

func NewReadmeEvent(content string) ReadmeEvent {
	return ReadmeEvent{Type: TypeReadme, Content: content}
}

func NewArchitectureEvent(content string) ArchitectureEvent {
	return ArchitectureEvent{Type: TypeArchitecture, Content: content}
}

func NewErrorEvent(message, code string) ErrorEvent {
	return ErrorEvent{Type: TypeError, Message: message, Code: code}
}

func NewDoneEvent() DoneEvent {
	return DoneEvent{Type: TypeDone, Message: "Documentation generation completed"}
}

// Package audit records one event per pipeline step of a hub build.
package audit

import (
	"time"

	"github.com/big-mon/app-hub/internal/domain"
)

// Category represents the type of step being audited.
type Category string

const (
	CategoryReset Category = "reset"
	CategoryClone Category = "clone"
	CategoryBuild Category = "build"
	CategoryCopy  Category = "copy"
	CategoryIndex Category = "index"
)

// Status represents the outcome of a step.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
	StatusSkipped Status = "skipped"
)

// AuditEvent represents a single auditable step.
type AuditEvent struct {
	EventID string `json:"event_id"`
	RunID   string `json:"run_id"`

	// Step details
	Category  Category `json:"category"`
	Operation string   `json:"operation"`
	Tool      string   `json:"tool,omitempty"`
	Command   string   `json:"command,omitempty"`

	// Result
	Status       Status `json:"status"`
	ExitCode     int    `json:"exit_code,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
	Commit       string `json:"commit,omitempty"`

	// Timing
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt time.Time     `json:"completed_at,omitempty"`
	DurationMs  int64         `json:"duration_ms,omitempty"`
	Duration    time.Duration `json:"-"`
}

// Complete finalizes the event with timing and status.
func (e *AuditEvent) Complete(status Status, err error) {
	e.CompletedAt = time.Now()
	e.Duration = e.CompletedAt.Sub(e.StartedAt)
	e.DurationMs = e.Duration.Milliseconds()
	e.Status = status

	if err != nil {
		e.ErrorMessage = err.Error()
		e.ExitCode = domain.ExitCode(err)
		if status == "" || status == StatusSuccess {
			e.Status = StatusError
		}
	}
}

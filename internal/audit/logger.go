package audit

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Logger provides audit logging capabilities.
type Logger struct {
	mu     sync.Mutex
	runID  string
	output io.Writer
	events []*AuditEvent
}

// LoggerOption configures the logger.
type LoggerOption func(*Logger)

// WithOutput sets where completed events are written as JSON lines.
func WithOutput(w io.Writer) LoggerOption {
	return func(l *Logger) {
		l.output = w
	}
}

// NewLogger creates a new audit logger for one run. Without WithOutput
// events are only kept in memory.
func NewLogger(runID string, opts ...LoggerOption) *Logger {
	l := &Logger{runID: runID}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Start begins tracking a step.
func (l *Logger) Start(category Category, operation, tool string) *AuditEvent {
	return &AuditEvent{
		EventID:   uuid.New().String(),
		RunID:     l.runID,
		Category:  category,
		Operation: operation,
		Tool:      tool,
		StartedAt: time.Now(),
	}
}

// StartWithCommand begins tracking a command step.
func (l *Logger) StartWithCommand(category Category, operation, tool, command string) *AuditEvent {
	event := l.Start(category, operation, tool)
	event.Command = command
	return event
}

// Log records a completed event and writes it to the output.
func (l *Logger) Log(event *AuditEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if event.CompletedAt.IsZero() {
		event.CompletedAt = time.Now()
		event.Duration = event.CompletedAt.Sub(event.StartedAt)
		event.DurationMs = event.Duration.Milliseconds()
	}
	l.events = append(l.events, event)

	if l.output == nil {
		return nil
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	_, err = fmt.Fprintf(l.output, "%s\n", data)
	return err
}

// LogSuccess logs a successful step.
func (l *Logger) LogSuccess(event *AuditEvent) error {
	event.Complete(StatusSuccess, nil)
	return l.Log(event)
}

// LogError logs a failed step.
func (l *Logger) LogError(event *AuditEvent, err error) error {
	event.Complete(StatusError, err)
	return l.Log(event)
}

// LogSkipped logs a step that was deliberately not performed.
func (l *Logger) LogSkipped(event *AuditEvent, reason string) error {
	event.Complete(StatusSkipped, nil)
	event.ErrorMessage = reason
	return l.Log(event)
}

// Events returns the events logged so far, in order.
func (l *Logger) Events() []AuditEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]AuditEvent, len(l.events))
	for i, e := range l.events {
		out[i] = *e
	}
	return out
}

// RunID returns the run this logger belongs to.
func (l *Logger) RunID() string {
	return l.runID
}

// Package logging provides structured JSON logging for hub components.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/big-mon/app-hub/internal/config"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

func (l Level) rank() int {
	switch l {
	case LevelDebug:
		return 0
	case LevelInfo:
		return 1
	case LevelWarn:
		return 2
	case LevelError:
		return 3
	}
	return 2
}

// ParseLevel maps a level name to a Level; unknown names fall back to warn.
func ParseLevel(raw string) Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug", "trace":
		return LevelDebug
	case "info":
		return LevelInfo
	case "error":
		return LevelError
	default:
		return LevelWarn
	}
}

// Event represents a structured log event
type Event struct {
	Timestamp string                 `json:"ts"`
	Level     Level                  `json:"level"`
	Component string                 `json:"component"`
	Event     string                 `json:"event"`
	Run       string                 `json:"run,omitempty"`
	Tool      string                 `json:"tool,omitempty"`
	Duration  int64                  `json:"duration_ms,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Extra     map[string]interface{} `json:"extra,omitempty"`
}

// Logger provides structured logging
type Logger struct {
	component string
	run       string
	tool      string
	min       Level
	out       io.Writer
}

// New creates a new logger for a component
func New(component string) *Logger {
	return &Logger{
		component: component,
		min:       ParseLevel(config.Env().LogLevel),
		out:       os.Stderr,
	}
}

// WithRun sets the run context
func (l *Logger) WithRun(run string) *Logger {
	c := *l
	c.run = run
	return &c
}

// WithTool sets the tool context
func (l *Logger) WithTool(slug string) *Logger {
	c := *l
	c.tool = slug
	return &c
}

// WithLevel sets the minimum level emitted
func (l *Logger) WithLevel(level Level) *Logger {
	c := *l
	c.min = level
	return &c
}

// WithOutput sets the destination
func (l *Logger) WithOutput(w io.Writer) *Logger {
	c := *l
	c.out = w
	return &c
}

// Enabled reports whether events at level are emitted
func (l *Logger) Enabled(level Level) bool {
	return level.rank() >= l.min.rank()
}

// log emits a structured log event
func (l *Logger) log(level Level, event string, extra map[string]interface{}, err error, d time.Duration) {
	if !l.Enabled(level) {
		return
	}
	e := Event{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level,
		Component: l.component,
		Event:     event,
		Run:       l.run,
		Tool:      l.tool,
		Duration:  d.Milliseconds(),
		Extra:     extra,
	}

	if err != nil {
		e.Error = err.Error()
	}

	data, _ := json.Marshal(e)
	fmt.Fprintln(l.out, string(data))
}

// Debug logs a debug event
func (l *Logger) Debug(event string, extra map[string]interface{}) {
	l.log(LevelDebug, event, extra, nil, 0)
}

// Info logs an info event
func (l *Logger) Info(event string, extra map[string]interface{}) {
	l.log(LevelInfo, event, extra, nil, 0)
}

// Warn logs a warning event
func (l *Logger) Warn(event string, extra map[string]interface{}, err error) {
	l.log(LevelWarn, event, extra, err, 0)
}

// Error logs an error event
func (l *Logger) Error(event string, extra map[string]interface{}, err error) {
	l.log(LevelError, event, extra, err, 0)
}

// TimedEvent logs an info event with the time elapsed since start
func (l *Logger) TimedEvent(event string, start time.Time, extra map[string]interface{}) {
	l.log(LevelInfo, event, extra, nil, time.Since(start))
}

// Package orchestrator runs a hub build: reset, then clone and build each
// tool in list order, then write the index.
package orchestrator

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/big-mon/app-hub/internal/audit"
	"github.com/big-mon/app-hub/internal/builder"
	"github.com/big-mon/app-hub/internal/config"
	"github.com/big-mon/app-hub/internal/domain"
	"github.com/big-mon/app-hub/internal/exec"
	"github.com/big-mon/app-hub/internal/index"
	"github.com/big-mon/app-hub/internal/ingest"
	"github.com/big-mon/app-hub/internal/logging"
	"github.com/big-mon/app-hub/internal/workspace"
)

// Reporter receives progress for each tool. Build steps arrive through the
// embedded builder.Observer.
type Reporter interface {
	builder.Observer
	Cloning(tool domain.Tool, dest string)
}

// Options configures an Orchestrator.
type Options struct {
	Layout config.Layout

	// Runner executes git and build commands. Defaults to an OSRunner.
	Runner exec.Runner

	// Git is the git binary; empty means "git" on PATH.
	Git string

	// Reporter may be nil.
	Reporter Reporter

	// Audit may be nil, in which case events are kept in memory only.
	Audit *audit.Logger

	Log *logging.Logger
}

// ToolResult describes one published tool.
type ToolResult struct {
	Slug     string        `json:"slug"`
	Kind     domain.Kind   `json:"kind"`
	Commit   string        `json:"commit,omitempty"`
	Dist     string        `json:"dist"`
	Duration time.Duration `json:"duration"`
}

// Result describes a finished run.
type Result struct {
	RunID    string        `json:"run_id"`
	Tools    []ToolResult  `json:"tools"`
	Index    *index.Result `json:"index"`
	Duration time.Duration `json:"duration"`
}

// Orchestrator wires the pipeline stages together.
type Orchestrator struct {
	layout   config.Layout
	runner   exec.Runner
	reporter Reporter
	audit    *audit.Logger
	log      *logging.Logger
	cloner   *ingest.Cloner
}

// NewRunID returns a sortable identifier for a run.
func NewRunID() string {
	return ulid.Make().String()
}

// New creates an orchestrator.
func New(opts Options) *Orchestrator {
	runner := opts.Runner
	if runner == nil {
		runner = exec.NewOSRunner()
	}
	auditLog := opts.Audit
	if auditLog == nil {
		auditLog = audit.NewLogger(NewRunID())
	}
	log := opts.Log
	if log == nil {
		log = logging.New("orchestrator")
	}
	log = log.WithRun(auditLog.RunID())

	return &Orchestrator{
		layout:   opts.Layout,
		runner:   runner,
		reporter: opts.Reporter,
		audit:    auditLog,
		log:      log,
		cloner:   ingest.NewCloner(runner, opts.Git, log),
	}
}

// Audit returns the run's audit logger.
func (o *Orchestrator) Audit() *audit.Logger {
	return o.audit
}

// Run performs one complete build. The first error aborts the run; whatever
// was already written to the dist tree stays there.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	res := &Result{RunID: o.audit.RunID()}

	tools, err := config.LoadTools(o.layout.ToolsFile)
	if err != nil {
		return nil, err
	}
	o.log.Info("run_started", map[string]interface{}{
		"tools": len(tools),
		"root":  o.layout.Root,
	})

	ws := workspace.NewManager(o.layout)
	event := o.audit.Start(audit.CategoryReset, "reset workspace", "")
	if err := ws.Reset(); err != nil {
		_ = o.audit.LogError(event, err)
		return nil, err
	}
	_ = o.audit.LogSuccess(event)

	b := builder.New(o.runner, o.log, &stepObserver{audit: o.audit, next: o.reporter})
	seen := make(map[string]bool, len(tools))

	for _, tool := range tools {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := CheckTool(tool, seen); err != nil {
			o.log.Error("tool_rejected", map[string]interface{}{"slug": tool.Slug}, err)
			return nil, err
		}

		tr, err := o.publish(ctx, b, ws, tool)
		if err != nil {
			o.log.WithTool(tool.Slug).Error("tool_failed", nil, err)
			return nil, err
		}
		res.Tools = append(res.Tools, *tr)
	}

	gen := index.New(o.layout, o.audit, o.log)
	res.Index, err = gen.Generate(tools)
	if err != nil {
		return nil, err
	}

	res.Duration = time.Since(start)
	o.log.TimedEvent("run_complete", start, map[string]interface{}{"tools": len(res.Tools)})
	return res, nil
}

func (o *Orchestrator) publish(ctx context.Context, b *builder.Builder, ws *workspace.Manager, tool domain.Tool) (*ToolResult, error) {
	start := time.Now()
	dest := ws.ToolDir(tool.Slug)
	dist := ws.DistDir(tool.Slug)

	if o.reporter != nil {
		o.reporter.Cloning(tool, dest)
	}
	event := o.audit.StartWithCommand(audit.CategoryClone, "clone", tool.Slug, tool.Repo)
	clone, err := o.cloner.Clone(ctx, tool.Slug, tool.Repo, dest)
	if err != nil {
		_ = o.audit.LogError(event, err)
		return nil, err
	}
	event.Commit = clone.Commit
	_ = o.audit.LogSuccess(event)

	if err := b.Build(ctx, tool, dest, dist); err != nil {
		return nil, err
	}

	return &ToolResult{
		Slug:     tool.Slug,
		Kind:     tool.Type,
		Commit:   clone.Commit,
		Dist:     dist,
		Duration: time.Since(start),
	}, nil
}

// stepObserver records builder steps in the audit trail and forwards them.
type stepObserver struct {
	audit   *audit.Logger
	next    builder.Observer
	current *audit.AuditEvent
}

func (s *stepObserver) StepStarted(tool domain.Tool, step, detail string) {
	if step == builder.StepBuild {
		s.current = s.audit.StartWithCommand(audit.CategoryBuild, step, tool.Slug, detail)
	} else {
		s.current = s.audit.Start(audit.CategoryCopy, step+" "+detail, tool.Slug)
	}
	if s.next != nil {
		s.next.StepStarted(tool, step, detail)
	}
}

func (s *stepObserver) StepFinished(tool domain.Tool, step string, err error) {
	if s.current != nil {
		if err != nil {
			_ = s.audit.LogError(s.current, err)
		} else {
			_ = s.audit.LogSuccess(s.current)
		}
		s.current = nil
	}
	if s.next != nil {
		s.next.StepFinished(tool, step, err)
	}
}

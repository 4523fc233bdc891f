// Package builder turns a cloned tool into its published directory.
package builder

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"github.com/big-mon/app-hub/internal/domain"
	"github.com/big-mon/app-hub/internal/exec"
	"github.com/big-mon/app-hub/internal/logging"
)

// Step names reported to the Observer.
const (
	StepCopyStatic = "copy-static"
	StepBuild      = "build"
	StepCopyBuild  = "copy-build"
)

// Observer is told about each step as it starts and ends. It may be nil.
type Observer interface {
	StepStarted(tool domain.Tool, step, detail string)
	StepFinished(tool domain.Tool, step string, err error)
}

// Builder dispatches on tool type.
type Builder struct {
	runner   exec.Runner
	log      *logging.Logger
	observer Observer
}

// New creates a builder.
func New(runner exec.Runner, log *logging.Logger, observer Observer) *Builder {
	if log == nil {
		log = logging.New("builder")
	}
	return &Builder{runner: runner, log: log, observer: observer}
}

// Build publishes tool from its workspace into dist, replacing whatever is
// there.
func (b *Builder) Build(ctx context.Context, tool domain.Tool, workspace, dist string) error {
	if err := tool.CheckBuildable(); err != nil {
		return err
	}

	switch tool.Type {
	case domain.KindStatic:
		return b.buildStatic(tool, workspace, dist)
	case domain.KindNode:
		return b.buildNode(ctx, tool, workspace, dist)
	default:
		return domain.NewUnknownTypeError(tool.Slug, string(tool.Type))
	}
}

func (b *Builder) buildStatic(tool domain.Tool, workspace, dist string) error {
	src, err := domain.ResolveWithin(tool.Slug, workspace, tool.SourceDir())
	if err != nil {
		return err
	}
	if err := domain.EnsureContained(tool.Slug, workspace, src); err != nil {
		return err
	}
	return b.copyStep(tool, StepCopyStatic, tool.SourceDir(), src, dist)
}

func (b *Builder) buildNode(ctx context.Context, tool domain.Tool, workspace, dist string) error {
	out, err := domain.ResolveWithin(tool.Slug, workspace, tool.OutDir)
	if err != nil {
		return err
	}

	env := map[string]string{}
	if tool.BasePathEnv != "" {
		env[tool.BasePathEnv] = tool.BasePath()
	}

	b.started(tool, StepBuild, tool.Build)
	start := time.Now()
	err = b.runner.Shell(ctx, workspace, tool.Build, env)
	if err != nil {
		err = domain.NewBuildError(tool.Slug, err)
	}
	b.finished(tool, StepBuild, err)
	if err != nil {
		return err
	}
	b.log.WithTool(tool.Slug).TimedEvent("build_complete", start, map[string]interface{}{"command": tool.Build})

	// The build may have produced outDir as a symlink.
	if err := domain.EnsureContained(tool.Slug, workspace, out); err != nil {
		return err
	}

	return b.copyStep(tool, StepCopyBuild, tool.OutDir, out, dist)
}

func (b *Builder) copyStep(tool domain.Tool, step, rel, src, dist string) error {
	b.started(tool, step, rel)
	err := CopyTree(src, dist, tool.Exclude)
	if err != nil {
		op := "copy " + rel
		if errors.Is(err, fs.ErrNotExist) {
			op = "copy " + rel + ": source missing"
		}
		err = domain.NewCopyError(tool.Slug, op, err)
	}
	b.finished(tool, step, err)
	return err
}

func (b *Builder) started(tool domain.Tool, step, detail string) {
	if b.observer != nil {
		b.observer.StepStarted(tool, step, detail)
	}
}

func (b *Builder) finished(tool domain.Tool, step string, err error) {
	if b.observer != nil {
		b.observer.StepFinished(tool, step, err)
	}
}

package render

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/big-mon/app-hub/internal/builder"
	"github.com/big-mon/app-hub/internal/domain"
)

// Progress prints one "==>" line per pipeline step.
type Progress struct {
	out     io.Writer
	distDir string
	arrow   *color.Color
	fail    *color.Color
}

// NewProgress creates a progress printer. distDir is shown as the copy
// destination.
func NewProgress(w io.Writer, distDir string, colored bool) *Progress {
	p := &Progress{
		out:     w,
		distDir: distDir,
		arrow:   color.New(color.FgCyan, color.Bold),
		fail:    color.New(color.FgRed),
	}
	if colored {
		p.arrow.EnableColor()
		p.fail.EnableColor()
	} else {
		p.arrow.DisableColor()
		p.fail.DisableColor()
	}
	return p
}

// Cloning announces a clone. A blank line separates tools.
func (p *Progress) Cloning(tool domain.Tool, dest string) {
	fmt.Fprintln(p.out)
	p.step("Cloning %s -> %s", tool.Repo, dest)
}

// StepStarted implements builder.Observer.
func (p *Progress) StepStarted(tool domain.Tool, step, detail string) {
	dist := filepath.Join(p.distDir, tool.Slug)
	switch step {
	case builder.StepCopyStatic:
		p.step("Copy static %s -> %s", detail, dist)
	case builder.StepBuild:
		p.step("Build %s", tool.Slug)
	case builder.StepCopyBuild:
		p.step("Copy build %s -> %s", detail, dist)
	default:
		p.step("%s %s", step, tool.Slug)
	}
}

// StepFinished implements builder.Observer.
func (p *Progress) StepFinished(tool domain.Tool, step string, err error) {
	if err != nil {
		fmt.Fprintf(p.out, "    └─ %s\n", p.fail.Sprintf("%s failed", step))
	}
}

func (p *Progress) step(format string, args ...any) {
	fmt.Fprintf(p.out, "%s %s\n", p.arrow.Sprint("==>"), fmt.Sprintf(format, args...))
}

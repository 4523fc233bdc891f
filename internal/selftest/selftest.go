// Package selftest checks that the host can run a hub build.
package selftest

import (
	"context"
	"fmt"
	"os"
	osexec "os/exec"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/term"

	"github.com/big-mon/app-hub/internal/config"
	"github.com/big-mon/app-hub/internal/exec"
	"github.com/big-mon/app-hub/internal/ingest"
	"github.com/big-mon/app-hub/internal/orchestrator"
	"github.com/big-mon/app-hub/internal/render"
)

// Environment describes the runtime environment.
type Environment struct {
	HasTTY        bool
	GitVersion    string
	ShellPath     string
	ConfigPath    string
	ConfigFound   bool
	ToolCount     int
	Issues        int
	TemplateFound bool
	Assets        map[string]bool
	Warnings      []string
	Errors        []string
}

// Options lets tests replace host lookups.
type Options struct {
	Runner   exec.Runner
	Git      string
	Shell    string
	LookPath func(string) (string, error)
}

// Check performs a complete environment validation.
func Check(ctx context.Context, layout config.Layout, opts Options) *Environment {
	if opts.Runner == nil {
		opts.Runner = exec.NewOSRunner()
	}
	if opts.Shell == "" {
		opts.Shell = "/bin/sh"
	}
	if opts.LookPath == nil {
		opts.LookPath = osexec.LookPath
	}

	env := &Environment{
		HasTTY:     term.IsTerminal(int(os.Stdout.Fd())),
		ConfigPath: layout.ToolsFile,
		Assets:     make(map[string]bool),
	}

	env.checkGit(ctx, opts)
	env.checkShell(opts)
	env.checkConfig(layout)
	env.checkHubFiles(layout)

	return env
}

func (e *Environment) checkGit(ctx context.Context, opts Options) {
	git := opts.Git
	if git == "" {
		git = "git"
	}
	if _, err := opts.LookPath(git); err != nil {
		e.Errors = append(e.Errors, "git not found on PATH")
		return
	}
	v, err := ingest.NewCloner(opts.Runner, git, nil).Version(ctx)
	if err != nil {
		e.Errors = append(e.Errors, fmt.Sprintf("git --version failed: %v", err))
		return
	}
	e.GitVersion = v
}

func (e *Environment) checkShell(opts Options) {
	path, err := opts.LookPath(opts.Shell)
	if err != nil {
		e.Errors = append(e.Errors, fmt.Sprintf("shell %s not found", opts.Shell))
		return
	}
	e.ShellPath = path
}

func (e *Environment) checkConfig(layout config.Layout) {
	tools, err := config.LoadTools(layout.ToolsFile)
	if err != nil {
		if _, statErr := os.Stat(layout.ToolsFile); statErr == nil {
			e.ConfigFound = true
		}
		e.Errors = append(e.Errors, err.Error())
		return
	}
	e.ConfigFound = true
	e.ToolCount = len(tools)
	if len(tools) == 0 {
		e.Warnings = append(e.Warnings, "tools list is empty")
	}
	for _, is := range orchestrator.Validate(tools) {
		e.Issues++
		e.Warnings = append(e.Warnings, fmt.Sprintf("tool #%d: %v", is.Position, is.Err))
	}
}

func (e *Environment) checkHubFiles(layout config.Layout) {
	if _, err := os.Stat(layout.Template); err == nil {
		e.TemplateFound = true
	} else {
		e.Warnings = append(e.Warnings, "no index template, the fallback page will be used")
	}
	for _, a := range layout.Assets {
		_, err := os.Stat(filepath.Join(layout.Root, filepath.FromSlash(a)))
		e.Assets[a] = err == nil
		if err != nil {
			e.Warnings = append(e.Warnings, fmt.Sprintf("asset %s not found, it will be skipped", a))
		}
	}
}

// IsHealthy returns true if a build can be attempted.
func (e *Environment) IsHealthy() bool {
	return len(e.Errors) == 0
}

// Summary returns a human-readable summary.
func (e *Environment) Summary() string {
	var sb strings.Builder

	sb.WriteString("APP HUB ENVIRONMENT CHECK\n")
	sb.WriteString(strings.Repeat("─", 40) + "\n")

	tty := "No"
	if e.HasTTY {
		tty = "Yes"
	}
	sb.WriteString(fmt.Sprintf("TTY:          %s\n", tty))

	if e.GitVersion == "" {
		sb.WriteString("Git:          NOT FOUND\n")
	} else {
		sb.WriteString(fmt.Sprintf("Git:          %s\n", e.GitVersion))
	}

	if e.ShellPath == "" {
		sb.WriteString("Shell:        NOT FOUND\n")
	} else {
		sb.WriteString(fmt.Sprintf("Shell:        %s\n", e.ShellPath))
	}

	switch {
	case !e.ConfigFound:
		sb.WriteString(fmt.Sprintf("Config:       MISSING (%s)\n", e.ConfigPath))
	case e.Issues > 0:
		sb.WriteString(fmt.Sprintf("Config:       %d tools, %d with issues\n", e.ToolCount, e.Issues))
	default:
		sb.WriteString(fmt.Sprintf("Config:       %d tools\n", e.ToolCount))
	}

	tmpl := "Missing (fallback page)"
	if e.TemplateFound {
		tmpl = "OK"
	}
	sb.WriteString(fmt.Sprintf("Template:     %s %s\n", render.BoolIcon(e.TemplateFound), tmpl))

	if len(e.Assets) > 0 {
		sb.WriteString("Assets:\n")
		names := make([]string, 0, len(e.Assets))
		for a := range e.Assets {
			names = append(names, a)
		}
		sort.Strings(names)
		for _, a := range names {
			status := "Missing"
			if e.Assets[a] {
				status = "OK"
			}
			sb.WriteString(fmt.Sprintf("  %s %-12s %s\n", render.BoolIcon(e.Assets[a]), a, status))
		}
	}

	if len(e.Warnings) > 0 {
		sb.WriteString("\nWarnings:\n")
		for _, w := range e.Warnings {
			sb.WriteString(fmt.Sprintf("  ⚠ %s\n", w))
		}
	}

	if len(e.Errors) > 0 {
		sb.WriteString("\nErrors:\n")
		for _, err := range e.Errors {
			sb.WriteString(fmt.Sprintf("  ✗ %s\n", err))
		}
	}

	sb.WriteString("\n")
	if e.IsHealthy() {
		sb.WriteString("Status: HEALTHY\n")
	} else {
		sb.WriteString("Status: UNHEALTHY - fix errors above\n")
	}

	return sb.String()
}

// QuickCheck returns a one-line status suitable for non-verbose output.
func (e *Environment) QuickCheck() string {
	if !e.IsHealthy() {
		return fmt.Sprintf("Environment unhealthy: %s", strings.Join(e.Errors, "; "))
	}
	return fmt.Sprintf("git:ok shell:ok tools:%d issues:%d", e.ToolCount, e.Issues)
}

// Package exec provides a testable command execution abstraction.
// Every clone and build goes through a Runner so tests can substitute a
// recorder instead of spawning processes.
package exec

import (
	"context"
	"io"
	"os"
	osexec "os/exec"
	"sort"
	"strings"
)

// Runner defines the interface for executing external commands.
// Inject this instead of calling exec.Command directly.
type Runner interface {
	// Run executes a program with argv in dir, streaming its output.
	Run(ctx context.Context, dir, name string, args ...string) error

	// Shell executes a command line through the shell in dir, with env
	// applied on top of the runner's base environment. Output is streamed.
	Shell(ctx context.Context, dir, line string, env map[string]string) error

	// Output executes a program in dir and returns its stdout.
	Output(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// OSRunner implements Runner using os/exec.
type OSRunner struct {
	// Env is the base environment (nil = inherit from parent)
	Env []string

	// ShellPath is the shell used by Shell (empty = /bin/sh)
	ShellPath string

	// Stdout and Stderr receive streamed output (nil = process stdio)
	Stdout io.Writer
	Stderr io.Writer
}

// NewOSRunner creates a new OS-based command runner.
func NewOSRunner() *OSRunner {
	return &OSRunner{}
}

// Run executes a program and streams its output.
func (r *OSRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	cmd := osexec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Env = r.baseEnv()
	r.attach(cmd)
	return cmd.Run()
}

// Shell executes line via the shell with env overrides.
func (r *OSRunner) Shell(ctx context.Context, dir, line string, env map[string]string) error {
	shell := r.ShellPath
	if shell == "" {
		shell = "/bin/sh"
	}
	cmd := osexec.CommandContext(ctx, shell, "-c", line)
	cmd.Dir = dir
	cmd.Env = MergeEnv(r.baseEnv(), env)
	r.attach(cmd)
	return cmd.Run()
}

// Output executes a program and returns stdout. Stderr is streamed.
func (r *OSRunner) Output(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := osexec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Env = r.baseEnv()
	cmd.Stderr = r.stderr()
	return cmd.Output()
}

func (r *OSRunner) baseEnv() []string {
	if r.Env != nil {
		return r.Env
	}
	return os.Environ()
}

func (r *OSRunner) attach(cmd *osexec.Cmd) {
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	if r.Stdout != nil {
		cmd.Stdout = r.Stdout
	}
	cmd.Stderr = r.stderr()
}

func (r *OSRunner) stderr() io.Writer {
	if r.Stderr != nil {
		return r.Stderr
	}
	return os.Stderr
}

// MergeEnv returns base with overrides applied. Existing keys are replaced
// in place; new keys are appended in sorted order.
func MergeEnv(base []string, overrides map[string]string) []string {
	out := make([]string, 0, len(base)+len(overrides))
	seen := make(map[string]bool, len(overrides))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if v, ok := overrides[key]; ok {
			if !seen[key] {
				out = append(out, key+"="+v)
				seen[key] = true
			}
			continue
		}
		out = append(out, kv)
	}

	var added []string
	for k := range overrides {
		if !seen[k] {
			added = append(added, k)
		}
	}
	sort.Strings(added)
	for _, k := range added {
		out = append(out, k+"="+overrides[k])
	}
	return out
}

// Package ingest fetches tool sources into the workspace.
package ingest

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/big-mon/app-hub/internal/domain"
	"github.com/big-mon/app-hub/internal/exec"
	"github.com/big-mon/app-hub/internal/logging"
)

// Cloner performs shallow clones through a Runner.
type Cloner struct {
	runner exec.Runner
	git    string
	log    *logging.Logger
}

// NewCloner creates a cloner. An empty git defaults to "git" on PATH.
func NewCloner(runner exec.Runner, git string, log *logging.Logger) *Cloner {
	if git == "" {
		git = "git"
	}
	if log == nil {
		log = logging.New("ingest")
	}
	return &Cloner{runner: runner, git: git, log: log}
}

// CloneResult describes a finished clone.
type CloneResult struct {
	Dir    string `json:"dir"`
	Commit string `json:"commit,omitempty"`
}

// Clone shallow-clones repo into dest. The repo string is passed as a
// single argument; nothing is interpreted by a shell.
func (c *Cloner) Clone(ctx context.Context, slug, repo, dest string) (*CloneResult, error) {
	err := c.runner.Run(ctx, filepath.Dir(dest), c.git, "clone", "--depth", "1", "--", repo, dest)
	if err != nil {
		return nil, domain.NewFetchError(slug, repo, err)
	}

	res := &CloneResult{Dir: dest}
	out, err := c.runner.Output(ctx, dest, c.git, "rev-parse", "--short", "HEAD")
	if err != nil {
		c.log.WithTool(slug).Warn("commit_lookup_failed", map[string]interface{}{"dir": dest}, err)
		return res, nil
	}
	res.Commit = strings.TrimSpace(string(out))
	return res, nil
}

// Version returns the git version string, used by diagnostics.
func (c *Cloner) Version(ctx context.Context) (string, error) {
	out, err := c.runner.Output(ctx, "", c.git, "--version")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

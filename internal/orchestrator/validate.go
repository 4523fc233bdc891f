package orchestrator

import (
	"github.com/big-mon/app-hub/internal/domain"
)

// CheckTool runs every check that needs no filesystem access: slug safety,
// required fields, uniqueness against seen, and the per-kind fields. On
// success the slug is added to seen.
func CheckTool(tool domain.Tool, seen map[string]bool) error {
	if err := domain.ValidateSlug(tool); err != nil {
		return err
	}
	if err := tool.CheckRequired(); err != nil {
		return err
	}
	if seen[tool.Slug] {
		return domain.NewConfigError(tool.Slug, "duplicate slug")
	}
	if err := tool.CheckBuildable(); err != nil {
		return err
	}
	if err := checkPaths(tool); err != nil {
		return err
	}
	seen[tool.Slug] = true
	return nil
}

// checkPaths applies the workspace containment rule to src and outDir
// against a placeholder base.
func checkPaths(tool domain.Tool) error {
	const base = "/workspace"
	if _, err := domain.ResolveWithin(tool.Slug, base, tool.SourceDir()); err != nil {
		return err
	}
	if tool.Type == domain.KindNode {
		if _, err := domain.ResolveWithin(tool.Slug, base, tool.OutDir); err != nil {
			return err
		}
	}
	return nil
}

// Issue is one problem found by Validate.
type Issue struct {
	Position int
	Slug     string
	Err      error
}

// Validate checks every tool and reports all problems instead of stopping
// at the first.
func Validate(tools []domain.Tool) []Issue {
	var issues []Issue
	seen := make(map[string]bool, len(tools))
	for i, tool := range tools {
		if err := CheckTool(tool, seen); err != nil {
			issues = append(issues, Issue{Position: i, Slug: tool.Slug, Err: err})
		}
	}
	return issues
}

package domain

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
)

// ValidateSlug rejects slugs that could escape the workspace or dist tree
// once joined into a path.
func ValidateSlug(t Tool) error {
	if t.IsMalformed("slug") || t.Slug == "" {
		return NewValidationError("", "invalid slug: missing or not a string")
	}
	if strings.ContainsAny(t.Slug, `/\`) || strings.Contains(t.Slug, "..") || t.Slug == "." {
		return NewValidationError("", "invalid slug: "+t.Slug)
	}
	return nil
}

// ResolveWithin joins rel onto base and fails when the result leaves base.
func ResolveWithin(slug, base, rel string) (string, error) {
	if filepath.IsAbs(rel) {
		return "", NewValidationError(slug, "path must be relative: "+rel)
	}
	joined := filepath.Join(base, rel)
	r, err := filepath.Rel(base, joined)
	if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return "", NewValidationError(slug, "path escapes tool workspace: "+rel)
	}
	return joined, nil
}

// EnsureContained checks that path, with symlinks resolved, still lies
// inside base. A path that does not exist passes; the caller reports it.
func EnsureContained(slug, base, path string) error {
	realBase, err := filepath.EvalSymlinks(base)
	if err != nil {
		return NewValidationError(slug, "resolve tool workspace: "+err.Error())
	}
	resolved, err := filepath.EvalSymlinks(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return NewValidationError(slug, "resolve "+path+": "+err.Error())
	}
	r, err := filepath.Rel(realBase, resolved)
	if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return NewValidationError(slug, "path escapes tool workspace: "+path)
	}
	return nil
}

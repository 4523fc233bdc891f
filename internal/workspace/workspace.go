// Package workspace owns the clone workspace and the distribution tree.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/big-mon/app-hub/internal/config"
	"github.com/big-mon/app-hub/internal/domain"
)

// Manager resets and hands out per-tool directories.
type Manager struct {
	layout config.Layout
}

// NewManager creates a workspace manager for a layout.
func NewManager(layout config.Layout) *Manager {
	return &Manager{layout: layout}
}

// Reset removes any previous workspace and dist tree, then recreates both
// empty. Absent directories are not an error.
func (m *Manager) Reset() error {
	for _, dir := range []string{m.layout.TmpDir, m.layout.DistDir} {
		if err := m.checkResettable(dir); err != nil {
			return err
		}
	}
	for _, dir := range []string{m.layout.TmpDir, m.layout.DistDir} {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("removing %s: %w", dir, err)
		}
	}
	for _, dir := range []string{m.layout.TmpDir, m.layout.DistDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}

// ToolDir is the clone destination for a slug.
func (m *Manager) ToolDir(slug string) string {
	return m.layout.ToolWorkspace(slug)
}

// DistDir is the publish destination for a slug.
func (m *Manager) DistDir(slug string) string {
	return m.layout.ToolDist(slug)
}

// checkResettable refuses directories whose removal would take the project
// with it.
func (m *Manager) checkResettable(dir string) error {
	clean := filepath.Clean(dir)
	if clean == filepath.Dir(clean) {
		return domain.NewConfigError("", "refusing to reset filesystem root: "+dir)
	}
	root := filepath.Clean(m.layout.Root)
	if root == clean || isAncestor(clean, root) {
		return domain.NewConfigError("", "refusing to reset a directory containing the project root: "+dir)
	}
	return nil
}

func isAncestor(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

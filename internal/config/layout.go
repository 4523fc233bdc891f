package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/big-mon/app-hub/internal/domain"
)

// Default file and directory names, relative to the project root.
const (
	DefaultToolsFile = "tools.json"
	DefaultTemplate  = "index.html"
	DefaultTmpDir    = "_tmp"
	DefaultDistDir   = "dist"
	IndexFile        = "index.html"
	LinksMarker      = "<!-- TOOL_LINKS -->"
)

// DefaultAssets are the hub files copied next to the generated index.
var DefaultAssets = []string{"styles.css"}

// Layout holds every path a run touches, resolved to absolute form once and
// passed explicitly to each stage.
type Layout struct {
	// Root is the project root; assets are read from here.
	Root string

	// ToolsFile is the JSON tool list.
	ToolsFile string

	// Template is the optional index template.
	Template string

	// TmpDir is the clone workspace.
	TmpDir string

	// DistDir is the distribution output.
	DistDir string

	// Assets are file names relative to Root copied into DistDir.
	Assets []string
}

// LayoutOptions are the raw inputs from flags; empty fields fall back to
// the environment and then to the defaults.
type LayoutOptions struct {
	Root      string
	ToolsFile string
	Template  string
	TmpDir    string
	DistDir   string
	Assets    []string
}

// ResolveLayout builds a Layout. Relative paths are taken from the root,
// which itself defaults to the working directory.
func ResolveLayout(opts LayoutOptions) (Layout, error) {
	e := Env()

	root := firstNonEmpty(opts.Root, e.Root)
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Layout{}, domain.WrapConfigError("resolve working directory", err)
		}
		root = wd
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return Layout{}, domain.WrapConfigError("resolve root", err)
	}

	assets := opts.Assets
	if assets == nil {
		assets = append([]string(nil), DefaultAssets...)
	}
	for _, a := range assets {
		if a == "" || filepath.IsAbs(a) || strings.Contains(a, "..") {
			return Layout{}, domain.NewConfigError("", "invalid hub asset: "+a)
		}
	}

	return Layout{
		Root:      root,
		ToolsFile: under(root, firstNonEmpty(opts.ToolsFile, e.ConfigFile, DefaultToolsFile)),
		Template:  under(root, firstNonEmpty(opts.Template, DefaultTemplate)),
		TmpDir:    under(root, firstNonEmpty(opts.TmpDir, e.TmpDir, DefaultTmpDir)),
		DistDir:   under(root, firstNonEmpty(opts.DistDir, e.DistDir, DefaultDistDir)),
		Assets:    assets,
	}, nil
}

// ToolWorkspace is the clone directory for a slug.
func (l Layout) ToolWorkspace(slug string) string {
	return filepath.Join(l.TmpDir, slug)
}

// ToolDist is the published directory for a slug.
func (l Layout) ToolDist(slug string) string {
	return filepath.Join(l.DistDir, slug)
}

// IndexPath is the generated hub page.
func (l Layout) IndexPath() string {
	return filepath.Join(l.DistDir, IndexFile)
}

func under(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

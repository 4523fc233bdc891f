// Package index renders the hub landing page and copies the hub assets next
// to it.
package index

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/big-mon/app-hub/internal/audit"
	"github.com/big-mon/app-hub/internal/builder"
	"github.com/big-mon/app-hub/internal/config"
	"github.com/big-mon/app-hub/internal/domain"
	"github.com/big-mon/app-hub/internal/logging"
)

const fallbackPage = `<!doctype html>
<html lang="en">
  <head>
    <meta charset="UTF-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>App Hub</title>
  </head>
  <body>
    <h1>App Hub</h1>
    <ul>
%s
    </ul>
  </body>
</html>`

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// Escape replaces the five HTML-significant characters and nothing else.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Link renders the list item for one tool.
func Link(tool domain.Tool) string {
	slug := Escape(tool.Slug)
	return fmt.Sprintf(`        <li><a href="/%s/">%s<small>/%s/</small></a></li>`, slug, Escape(tool.Label()), slug)
}

// Links renders every tool in order, one line each.
func Links(tools []domain.Tool) string {
	lines := make([]string, 0, len(tools))
	for _, t := range tools {
		lines = append(lines, Link(t))
	}
	return strings.Join(lines, "\n")
}

// Render substitutes links into template, or builds the fallback page when
// there is no template or it lacks the marker.
func Render(template string, hasTemplate bool, links string) (page string, templated bool) {
	if hasTemplate && strings.Contains(template, config.LinksMarker) {
		return strings.Replace(template, config.LinksMarker, links, 1), true
	}
	return fmt.Sprintf(fallbackPage, links), false
}

// Result describes what Generate wrote.
type Result struct {
	Path      string
	Templated bool
	Assets    []string
	Skipped   []string
}

// Generator writes dist/index.html and the hub assets.
type Generator struct {
	layout config.Layout
	audit  *audit.Logger
	log    *logging.Logger
}

// New creates a generator. auditLog may be nil.
func New(layout config.Layout, auditLog *audit.Logger, log *logging.Logger) *Generator {
	if log == nil {
		log = logging.New("index")
	}
	return &Generator{layout: layout, audit: auditLog, log: log}
}

// Generate writes the index page for tools, then copies the assets.
func (g *Generator) Generate(tools []domain.Tool) (*Result, error) {
	tmpl, hasTemplate, err := readTemplate(g.layout.Template)
	if err != nil {
		return nil, err
	}

	page, templated := Render(tmpl, hasTemplate, Links(tools))
	res := &Result{Path: g.layout.IndexPath(), Templated: templated}

	event := g.start(audit.CategoryIndex, "write "+config.IndexFile)
	err = writePage(res.Path, page)
	g.finish(event, err)
	if err != nil {
		return nil, err
	}
	g.log.Info("index_written", map[string]interface{}{
		"path":      res.Path,
		"tools":     len(tools),
		"templated": templated,
	})

	for _, asset := range g.layout.Assets {
		copied, err := g.copyAsset(asset)
		if err != nil {
			return nil, err
		}
		if copied {
			res.Assets = append(res.Assets, asset)
		} else {
			res.Skipped = append(res.Skipped, asset)
		}
	}
	return res, nil
}

func (g *Generator) copyAsset(name string) (bool, error) {
	src := filepath.Join(g.layout.Root, filepath.FromSlash(name))
	dest := filepath.Join(g.layout.DistDir, filepath.FromSlash(name))
	event := g.start(audit.CategoryCopy, "asset "+name)

	info, err := os.Stat(src)
	if errors.Is(err, fs.ErrNotExist) {
		g.skip(event, "asset not found")
		g.log.Debug("asset_skipped", map[string]interface{}{"asset": name})
		return false, nil
	}
	if err == nil && info.IsDir() {
		err = fmt.Errorf("%s is a directory", src)
	}
	if err == nil {
		err = os.MkdirAll(filepath.Dir(dest), 0755)
	}
	if err == nil {
		err = builder.CopyFile(src, dest, info.Mode().Perm())
	}
	if err != nil {
		err = domain.NewCopyError("", "copy asset "+name, err)
	}
	g.finish(event, err)
	return err == nil, err
}

func readTemplate(path string) (string, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, domain.NewCopyError("", "read template", err)
	}
	return string(data), true, nil
}

func writePage(path, page string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return domain.NewCopyError("", "write index", err)
	}
	if err := os.WriteFile(path, []byte(page), 0644); err != nil {
		return domain.NewCopyError("", "write index", err)
	}
	return nil
}

func (g *Generator) start(cat audit.Category, op string) *audit.AuditEvent {
	if g.audit == nil {
		return nil
	}
	return g.audit.Start(cat, op, "")
}

func (g *Generator) finish(event *audit.AuditEvent, err error) {
	if event == nil {
		return
	}
	if err != nil {
		_ = g.audit.LogError(event, err)
		return
	}
	_ = g.audit.LogSuccess(event)
}

func (g *Generator) skip(event *audit.AuditEvent, reason string) {
	if event != nil {
		_ = g.audit.LogSkipped(event, reason)
	}
}

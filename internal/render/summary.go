package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/big-mon/app-hub/internal/audit"
	"github.com/big-mon/app-hub/internal/domain"
	"github.com/big-mon/app-hub/internal/orchestrator"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FFFF")).
			Bold(true)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#00FF00"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#777777"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

// Summary renders the end-of-run report. Without color it is plain text
// with no box.
func Summary(res *orchestrator.Result, events []audit.AuditEvent, colored bool) string {
	title := fmt.Sprintf("HUB BUILT: %d tools in %s", len(res.Tools), FormatDuration(res.Duration))

	var lines []string
	for _, t := range res.Tools {
		commit := t.Commit
		if commit == "" {
			commit = "-"
		}
		lines = append(lines, fmt.Sprintf("%-16s %-6s %-9s %s", Truncate(t.Slug, 16), t.Kind, commit, FormatDuration(t.Duration)))
	}
	if res.Index != nil {
		lines = append(lines, "index: "+res.Index.Path)
		if len(res.Index.Skipped) > 0 {
			lines = append(lines, "skipped assets: "+strings.Join(res.Index.Skipped, ", "))
		}
	}
	lines = append(lines, "steps: "+StepCounts(events))
	lines = append(lines, "run:   "+res.RunID)

	if !colored {
		var sb strings.Builder
		sb.WriteString(title + "\n")
		sb.WriteString(strings.Repeat("─", 40) + "\n")
		for _, l := range lines {
			sb.WriteString("  " + l + "\n")
		}
		return sb.String()
	}

	body := titleStyle.Render(title) + "\n"
	for i, l := range lines {
		if i < len(res.Tools) {
			body += okStyle.Render("✓ ") + l + "\n"
			continue
		}
		body += dimStyle.Render(l) + "\n"
	}
	return boxStyle.Render(strings.TrimRight(body, "\n")) + "\n"
}

// StepCounts summarizes audit events by status, e.g. "7 ok, 1 skipped".
func StepCounts(events []audit.AuditEvent) string {
	var ok, skipped, failed int
	for _, e := range events {
		switch e.Status {
		case audit.StatusSuccess:
			ok++
		case audit.StatusSkipped:
			skipped++
		case audit.StatusError:
			failed++
		}
	}
	parts := []string{fmt.Sprintf("%d ok", ok)}
	if skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", skipped))
	}
	if failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", failed))
	}
	return strings.Join(parts, ", ")
}

// Tools lists the configured tools with their link.
func (w *Writer) Tools(tools []domain.Tool) {
	if len(tools) == 0 {
		w.Empty("No tools configured")
		return
	}
	w.Header("TOOLS (%d)", len(tools))
	for _, t := range tools {
		w.Item("%-16s %-6s %-24s %s", Truncate(t.Slug, 16), t.Type, Truncate(t.Label(), 24), t.BasePath())
		w.Nested("%s", t.Repo)
	}
}

// Issues lists validation problems.
func (w *Writer) Issues(issues []orchestrator.Issue) {
	if len(issues) == 0 {
		w.Empty("✓ configuration is valid")
		return
	}
	w.Header("CONFIGURATION ISSUES (%d)", len(issues))
	for _, is := range issues {
		slug := is.Slug
		if slug == "" {
			slug = "?"
		}
		w.Item("✗ #%d %s", is.Position, slug)
		w.Nested("%v", is.Err)
	}
}

// Events lists audit events, used after a failed run.
func (w *Writer) Events(events []audit.AuditEvent) {
	if len(events) == 0 {
		w.Empty("No steps recorded")
		return
	}
	w.Header("STEPS (%d)", len(events))
	for _, e := range events {
		target := e.Tool
		if target == "" {
			target = "-"
		}
		w.Item("%s %-6s %-22s %s", StatusIcon(string(e.Status)), e.Category, Truncate(e.Operation, 22), target)
		if e.Status == audit.StatusError && e.ErrorMessage != "" {
			w.Nested("%s", Truncate(e.ErrorMessage, 70))
		}
	}
}

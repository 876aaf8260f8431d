package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rcliao/harbour/internal/domain"
	"github.com/rcliao/harbour/internal/search"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	doneStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Strikethrough(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)

	tierStyles = map[domain.Tier]lipgloss.Style{
		domain.TierHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		domain.TierMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		domain.TierLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	}
)

func renderTasks(w io.Writer, tasks []domain.Task, now time.Time) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No tasks yet. Add one with 'harbour add' or 'harbour import'."))
		return
	}

	for _, t := range tasks {
		check, title := "[ ]", titleStyle.Render(t.Title)
		if t.Completed {
			check, title = "[x]", doneStyle.Render(t.Title)
		}

		line := fmt.Sprintf("%-4s %s %s  importance %d, %sh, due %s (%s)",
			t.ID, check, title, t.Importance, formatHours(t.EstimatedHours),
			orDash(t.DueDate), domain.DeadlineLabel(t.DueDate, now))
		if deps := t.DependencyList(); len(deps) > 0 {
			line += dimStyle.Render("  after " + strings.Join(deps, ", "))
		}
		fmt.Fprintln(w, line)
	}
}

func renderAnalysis(w io.Writer, entries []domain.AnalysisEntry, now time.Time) {
	if len(entries) == 0 {
		fmt.Fprintln(w, dimStyle.Render("The scoring service returned no tasks."))
		return
	}
	for i, e := range entries {
		fmt.Fprintf(w, "%d. ", i+1)
		renderEntry(w, e, now)
	}
}

func renderSuggestion(w io.Writer, s *domain.SuggestedTask, now time.Time) {
	if s == nil {
		fmt.Fprintln(w, dimStyle.Render("No recommendation right now."))
		return
	}
	fmt.Fprint(w, "Next up: ")
	renderEntry(w, *s, now)
}

func renderEntry(w io.Writer, e domain.AnalysisEntry, now time.Time) {
	tier := domain.PriorityTier(e.FinalScore)
	score := tierStyles[tier].Render(fmt.Sprintf("%.2f %s", e.FinalScore, strings.ToUpper(string(tier))))

	title := titleStyle.Render(e.Title)
	if e.Completed {
		title = doneStyle.Render(e.Title)
	}
	fmt.Fprintf(w, "%s %s  %s  %s\n", e.ID, title, score, domain.DeadlineLabel(e.DueDate, now))
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("   urgency %.1f  effort %.1f  dependency %.1f  (%s)",
		e.UrgencyScore, e.EffortScore, e.DependencyScore, e.Strategy)))
	if e.CircularDependency {
		fmt.Fprintln(w, warnStyle.Render("   circular dependency"))
	}
	for _, why := range e.Explanations {
		fmt.Fprintf(w, "   - %s\n", why)
	}
}

func renderSearch(w io.Writer, query string, results []search.Result) {
	if len(results) == 0 {
		fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("No tasks match %q.", query)))
		return
	}
	for _, r := range results {
		fmt.Fprintf(w, "%-4s %s  %s\n", r.Task.ID, emphasize(r.Snippet),
			dimStyle.Render(fmt.Sprintf("%s %.0f", r.MatchType, r.Score)))
	}
}

// emphasize renders the **marked** parts of a search snippet in bold.
func emphasize(snippet string) string {
	parts := strings.Split(snippet, "**")
	var b strings.Builder
	for i, p := range parts {
		if i%2 == 1 {
			b.WriteString(titleStyle.Render(p))
		} else {
			b.WriteString(p)
		}
	}
	return b.String()
}

func renderJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error formatting result: %w", err)
	}
	fmt.Fprintln(w, string(out))
	return nil
}

func formatHours(h float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", h), "0"), ".")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Package render formats resolution results for the terminal.
package render

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/h0rv/linbridge/internal/apperr"
	"github.com/h0rv/linbridge/internal/domain"
	"github.com/h0rv/linbridge/internal/store"
)

// DefaultWidth is used when the terminal width is unknown.
const DefaultWidth = 80

var (
	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")) // Purple

	// InputStyle is used for what the user typed.
	InputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")) // Light gray

	// IDStyle is used for resolved identifiers.
	IDStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("170")). // Light purple
		Bold(true)

	// LabelStyle is used for field names.
	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")) // Light blue

	// ErrorStyle is used for error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")). // Red
			Bold(true)

	// HelpStyle is used for secondary text.
	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")) // Dark gray
)

// Resolution prints one resolved identifier.
func Resolution(w io.Writer, kind, input, id string) {
	fmt.Fprintf(w, "%s %s %s %s\n",
		LabelStyle.Render(kind),
		InputStyle.Render(input),
		HelpStyle.Render("->"),
		IDStyle.Render(id))
}

// Labels prints a resolved label batch. IDs are listed in resolution order,
// which is not necessarily input order.
func Labels(w io.Writer, inputs, ids []string) {
	fmt.Fprintln(w, TitleStyle.Render(fmt.Sprintf("%d labels", len(ids))))
	fmt.Fprintln(w, HelpStyle.Render("input: "+strings.Join(inputs, ", ")))
	for _, id := range ids {
		fmt.Fprintf(w, "  %s\n", IDStyle.Render(id))
	}
}

// Issue prints an issue with its title wrapped to width.
func Issue(w io.Writer, issue *domain.Issue, width int) {
	if width <= 0 {
		width = DefaultWidth
	}

	fmt.Fprintln(w, TitleStyle.Render(issue.Identifier))
	fmt.Fprintln(w, wordwrap.String(issue.Title, width))
	fmt.Fprintf(w, "%s %s\n", LabelStyle.Render("id: "), IDStyle.Render(issue.ID))
	if issue.URL != "" {
		fmt.Fprintf(w, "%s %s\n", LabelStyle.Render("url:"), InputStyle.Render(issue.URL))
	}
}

// Stats prints a cache summary.
func Stats(w io.Writer, stats store.Stats, now time.Time) {
	fmt.Fprintln(w, TitleStyle.Render("Identifier cache"))

	kinds := make([]string, 0, len(stats.Entries))
	for kind := range stats.Entries {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		fmt.Fprintf(w, "  %-8s %d\n", LabelStyle.Render(kind), stats.Entries[store.Kind(kind)])
	}

	refreshed := "never"
	if !stats.LastRefresh.IsZero() {
		refreshed = now.Sub(stats.LastRefresh).Truncate(time.Second).String() + " ago"
	}
	state := "fresh"
	if stats.Stale {
		state = "stale"
	}
	fmt.Fprintln(w, HelpStyle.Render(fmt.Sprintf("last refresh %s, %s (ttl %s)", refreshed, state, stats.TTL)))
}

// Error prints err, including the code and context of application errors.
func Error(w io.Writer, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		fmt.Fprintln(w, ErrorStyle.Render("Error: "+err.Error()))
		return
	}

	fmt.Fprintln(w, ErrorStyle.Render(fmt.Sprintf("Error [%s]: %s", appErr.Code, appErr.Message)))

	keys := make([]string, 0, len(appErr.Context))
	for k := range appErr.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintln(w, HelpStyle.Render(fmt.Sprintf("  %s: %v", k, appErr.Context[k])))
	}
}

// internal/render/render.go
//
// Renders a release snapshot as terminal text: a header with the date and
// contact, an overview table of the selected services, and a per-service
// detail block with descriptions and links. This is the visual export
// surface; it only ever reads an immutable snapshot and has no way to reach
// back into the live document.

package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/renolabs/reno/internal/note"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	labelStyle   = lipgloss.NewStyle().Faint(true)
	sectionStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

// Summary renders the whole snapshot as a multi-line string.
func Summary(r *note.Release) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Release note"))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Date:    "))
	if r.Date.IsZero() {
		b.WriteString("(unset)")
	} else {
		b.WriteString(r.Date.String())
	}
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Contact: "))
	if r.Contact == "" {
		b.WriteString("(none)")
	} else {
		b.WriteString(r.Contact)
	}
	b.WriteString("\n\n")

	if len(r.Services) == 0 {
		b.WriteString("No services selected.\n")
		return b.String()
	}

	b.WriteString(overviewTable(r))
	b.WriteString("\n")

	for _, entry := range r.Services {
		b.WriteString("\n")
		b.WriteString(serviceDetail(entry))
	}
	return b.String()
}

// overviewTable summarizes every selected service in one table, in the
// order the user added them.
func overviewTable(r *note.Release) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Service", "Config only", "Risk", "Benefit", "Version", "Links"})
	for _, entry := range r.Services {
		tw.AppendRow(table.Row{
			entry.Name,
			yesNo(entry.ConfigOnly),
			string(entry.Risk),
			string(entry.Benefit),
			orDash(entry.Version),
			linkCount(entry),
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 6, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render() + "\n"
}

func serviceDetail(entry *note.ServiceEntry) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render(entry.Name))
	b.WriteString("\n")
	if entry.ChangeDescription != "" {
		b.WriteString(fmt.Sprintf("  %s\n", entry.ChangeDescription))
	}
	if entry.KnownIssues != "" {
		b.WriteString(labelStyle.Render("  Known issues: "))
		b.WriteString(entry.KnownIssues)
		b.WriteString("\n")
	}
	for _, category := range note.LinkCategories {
		links, err := entry.Links(category)
		if err != nil || len(links) == 0 {
			continue
		}
		b.WriteString(labelStyle.Render("  " + category.Label() + ":"))
		b.WriteString("\n")
		for _, link := range links {
			b.WriteString("    - ")
			b.WriteString(link)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func linkCount(entry *note.ServiceEntry) int {
	total := 0
	for _, category := range note.LinkCategories {
		links, err := entry.Links(category)
		if err == nil {
			total += len(links)
		}
	}
	return total
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

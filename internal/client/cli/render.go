package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/docreview/internal/client/models"
	"github.com/dmitrijs2005/docreview/internal/client/review"
	"github.com/muesli/reflow/wordwrap"
)

const (
	paneWidth     = 72
	maxLabelWidth = 24
)

// renderDocument draws the document pane: list header, counts, the shown
// document and its fields. Pending edits are marked with '*'.
func renderDocument(st review.State, width int) string {
	var b strings.Builder

	list := st.List
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s · %s", list.Category, tabName(list.Reviewed))))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(fmt.Sprintf("unreviewed %d · reviewed %d", st.Counts.Unreviewed, st.Counts.Reviewed)))
	b.WriteString("\n\n")

	doc, ok := list.Current()
	if !ok || st.Edits == nil {
		b.WriteString(mutedStyle.Render("No documents in this tab."))
		return paneStyle.Width(width).Render(b.String())
	}

	b.WriteString(fmt.Sprintf("Document %d  %s  [%d/%d]\n", doc.ID, doc.FileName, list.Index+1, len(list.Documents)))
	b.WriteString(labelStyle.Render("image: "+doc.ImageURL) + "\n\n")
	b.WriteString(renderFields(st.Edits, width-4))

	return paneStyle.Width(width).Render(b.String())
}

// renderFields lists the fields of t in display order with wrapped values.
func renderFields(t *review.Tracker, width int) string {
	labelWidth := 0
	for _, f := range t.Fields {
		if n := lipgloss.Width(f); n > labelWidth {
			labelWidth = n
		}
	}
	if labelWidth > maxLabelWidth {
		labelWidth = maxLabelWidth
	}

	valueWidth := width - labelWidth - 4
	if valueWidth < 10 {
		valueWidth = 10
	}

	changes := t.Changes()
	var b strings.Builder
	for _, f := range t.Fields {
		marker := " "
		if _, ok := changes[f]; ok {
			marker = changedStyle.Render("*")
		}
		label := labelStyle.Render(fmt.Sprintf("%-*s", labelWidth, f))

		lines := strings.Split(wordwrap.String(t.Value(f), valueWidth), "\n")
		b.WriteString(fmt.Sprintf("%s %s  %s\n", marker, label, lines[0]))
		pad := strings.Repeat(" ", labelWidth+4)
		for _, l := range lines[1:] {
			b.WriteString(pad + l + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderDiff lists pending changes sorted by field name.
func renderDiff(t *review.Tracker) string {
	changes := t.Changes()
	if len(changes) == 0 {
		return "No pending changes."
	}
	names := make([]string, 0, len(changes))
	for k := range changes {
		names = append(names, k)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, k := range names {
		b.WriteString(fmt.Sprintf("%s: %q -> %s\n", k, t.Original[k], changedStyle.Render(fmt.Sprintf("%q", changes[k]))))
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderCategories(cats []models.Category) string {
	if len(cats) == 0 {
		return "No categories."
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Categories") + "\n")
	for i, c := range cats {
		b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, c.Name))
	}
	return strings.TrimRight(b.String(), "\n")
}

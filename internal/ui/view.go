package ui

import (
	"fmt"
	"strings"
)

// View renders the board. Every row is fetched through the controller's
// (section, row) accessors; the model never walks the store itself.
func (m Model) View() string {
	content := &strings.Builder{}
	content.WriteString(m.styles.Title.Render(m.title))
	content.WriteString("\n")

	if m.sectioning() != nil {
		for s := 0; s < m.ctrl.SectionCount(); s++ {
			key, ok := m.ctrl.SectionKey(s)
			if !ok {
				continue
			}
			subset, ok := m.ctrl.ItemsInSection(s)
			if !ok {
				continue
			}
			header := fmt.Sprintf("▸ %v (%d)", key, subset.Len())
			content.WriteString(m.styles.SectionKey.Render(header))
			content.WriteString("\n")
			m.renderRows(content, s, subset.Len())
		}
	} else {
		m.renderRows(content, 0, m.ctrl.Items().Len())
	}

	if m.statusMsg != "" {
		content.WriteString(m.styles.Status.Render(m.statusMsg))
		content.WriteString("\n")
	}
	if m.act.lastErr != nil {
		content.WriteString(m.styles.StatusError.Render(fmt.Sprintf("error: %v", m.act.lastErr)))
		content.WriteString("\n")
	}

	counters := fmt.Sprintf("events: %d initial / %d update / %d error",
		m.act.initials, m.act.updates, m.act.errors)
	content.WriteString(m.styles.Dim.Render(counters))
	content.WriteString("\n")
	content.WriteString(m.help.View(m.keys))

	return m.styles.Main.Render(content.String())
}

func (m Model) renderRows(content *strings.Builder, section, count int) {
	for row := 0; row < count; row++ {
		task, ok := m.ctrl.ItemAt(section, row)
		if !ok {
			continue
		}
		style := m.styles.Row
		if task.Status == "done" {
			style = m.styles.RowDone
		}
		line := fmt.Sprintf("  %s %s",
			m.styles.Priority.Render(fmt.Sprintf("P%d", task.Priority)),
			style.Render(task.Name))
		content.WriteString(line)
		content.WriteString("\n")
	}
}

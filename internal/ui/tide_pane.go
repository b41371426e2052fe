package ui

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/ngmaloney/nz-tides/internal/models"
)

// renderTidePane renders the selected day's tides
func (m Model) renderTidePane(width int) string {
	var content strings.Builder

	content.WriteString(titleStyle.Render(m.port.Name()))
	content.WriteString(" ")
	content.WriteString(mutedStyle.Render(m.date.Format("Monday 2 January 2006")))
	content.WriteString("\n\n")

	if len(m.tides) == 0 {
		content.WriteString(mutedStyle.Render("No tide data available"))
		return paneStyle.Width(width).Render(content.String())
	}

	now := m.now().In(m.loc)
	for i, event := range m.tides {
		typeStr := lowStyle.Width(4).Render(event.Type.String())
		if event.IsHighTide() {
			typeStr = highStyle.Width(4).Render(event.Type.String())
		}

		timeStr := event.Time.Format("15:04")
		if i == m.selected {
			timeStr = selectedStyle.Render(timeStr)
		} else {
			timeStr = valueStyle.Render(timeStr)
		}

		line := fmt.Sprintf("  %s  %s  %.1f m  %s\n",
			timeStr,
			typeStr,
			event.Height,
			mutedStyle.Render(humanize.RelTime(event.Time, now, "ago", "from now")))
		content.WriteString(line)
	}

	if sel, ok := m.selectedTide(); ok {
		content.WriteString("\n")
		content.WriteString(labelStyle.Render("Selected: "))
		content.WriteString(sel.String())
	}

	return paneStyle.Width(width).Render(content.String())
}

func (m Model) selectedTide() (models.TideEvent, bool) {
	if m.selected < 0 || m.selected >= len(m.tides) {
		return models.TideEvent{}, false
	}
	return m.tides[m.selected], true
}

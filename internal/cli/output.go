package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/ngmaloney/nz-tides/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00BFFF")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C757D"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// printDay writes a day's tides as a table
func printDay(w io.Writer, port models.Port, date time.Time, events []models.TideEvent, now time.Time) {
	fmt.Fprintln(w, titleStyle.Render(port.Name())+" "+mutedStyle.Render(date.Format("Monday 2 January 2006")))

	t := newTable("Time", "Tide", "Height", "When")
	for _, e := range events {
		t.Row(
			e.Time.Format("15:04"),
			e.Type.String(),
			fmt.Sprintf("%.1f m", e.Height),
			humanize.RelTime(e.Time, now, "ago", "from now"),
		)
	}
	fmt.Fprintln(w, t.Render())
}

// printTide writes a single tide on one line
func printTide(w io.Writer, e models.TideEvent, now time.Time) {
	fmt.Fprintf(w, "%s tide at %s: %s (%.1f m), %s\n",
		e.Type,
		e.Port.Name(),
		e.Time.Format("Mon 2 Jan 2006 15:04"),
		e.Height,
		humanize.RelTime(e.Time, now, "ago", "from now"),
	)
}

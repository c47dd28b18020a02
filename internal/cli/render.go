package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"budgettracker/internal/app"
	"budgettracker/internal/core"
)

var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
	ColorBlue      = lipgloss.Color("#4385BE")
	ColorYellow    = lipgloss.Color("#D0A215")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// Table is a bordered text table. Cells are plain text; Styles, when set,
// colours whole rows.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Styles  []lipgloss.Style
}

// RenderTitle renders a centered title in a rounded box.
func RenderTitle(title string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders t with box-drawing borders. The last column is
// right-aligned.
func RenderTable(t Table) string {
	numCols := len(t.Headers)
	if numCols == 0 {
		return ""
	}

	widths := make([]int, numCols)
	for i, h := range t.Headers {
		widths[i] = len(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < numCols && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	line := func(left, mid, right string) {
		b.WriteString(dimStyle.Render(left))
		for i, w := range widths {
			b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render(mid))
			}
		}
		b.WriteString(dimStyle.Render(right))
		b.WriteString("\n")
	}

	row := func(cells []string, style lipgloss.Style) {
		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			var padded string
			if i == numCols-1 {
				padded = fmt.Sprintf(" %*s ", widths[i], cell)
			} else {
				padded = fmt.Sprintf(" %-*s ", widths[i], cell)
			}
			b.WriteString(style.Render(padded))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
	}

	line("╭", "┬", "╮")
	row(t.Headers, headerStyle)
	line("├", "┼", "┤")
	for i, cells := range t.Rows {
		style := valueStyle
		if i < len(t.Styles) {
			style = t.Styles[i]
		}
		row(cells, style)
	}
	line("╰", "┴", "╯")

	return b.String()
}

// TierStyle colours the remaining budget.
func TierStyle(tier core.ColorTier) lipgloss.Style {
	switch tier {
	case core.TierRed:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorRed)
	case core.TierYellow:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorYellow)
	default:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorGreen)
	}
}

// StatusStyle colours a reminder row.
func StatusStyle(status core.ReminderStatus) lipgloss.Style {
	switch status {
	case core.StatusOverdue:
		return lipgloss.NewStyle().Foreground(ColorRed)
	case core.StatusDueSoon:
		return lipgloss.NewStyle().Foreground(ColorOrange)
	default:
		return valueStyle
	}
}

// RenderNotification renders a command outcome as a single styled line.
func RenderNotification(n app.Notification) string {
	var style lipgloss.Style
	switch n.Kind {
	case app.NotifySuccess:
		style = lipgloss.NewStyle().Foreground(ColorGreen)
	case app.NotifyError:
		style = lipgloss.NewStyle().Foreground(ColorRed)
	case app.NotifyWarning:
		style = lipgloss.NewStyle().Foreground(ColorOrange)
	default:
		style = lipgloss.NewStyle().Foreground(ColorBlue)
	}
	return "  " + style.Render(n.Message)
}

// TextStyle is the default style of values.
func TextStyle() lipgloss.Style {
	return valueStyle
}

// RenderMuted renders s in the muted text colour.
func RenderMuted(s string) string {
	return mutedStyle.Render(s)
}

// RenderLabelValue renders an indented "label  value" line.
func RenderLabelValue(label, value string, style lipgloss.Style) string {
	return fmt.Sprintf("  %s %s", mutedStyle.Render(fmt.Sprintf("%-11s", label)), style.Render(value))
}

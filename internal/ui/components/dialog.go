package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var dialogStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorBorder).
	Padding(1, 2).
	Width(48)

var (
	dialogTitleStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)
	dialogHintStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)

// ConfirmDialog renders a yes/no confirmation.
func ConfirmDialog(title, message string) string {
	body := dialogHintStyle.Render(message)
	hint := dialogHintStyle.Render("\ny: confirm | n: cancel")
	return dialogStyle.Render(dialogTitleStyle.Render(title) + "\n\n" + body + "\n" + hint)
}

// InputDialog renders a prompt around an already rendered input field
// (typically a bubbles textinput View).
func InputDialog(title, field string) string {
	hint := dialogHintStyle.Render("\nenter: submit | esc: cancel")
	return dialogStyle.Render(dialogTitleStyle.Render(title) + "\n\n" + field + "\n" + hint)
}

// ConfirmPreviewDialog renders a confirmation with summary rows.
func ConfirmPreviewDialog(title string, summary []TableRow, width int) string {
	sections := make([]string, 0, 2)
	if len(summary) > 0 {
		sections = append(sections, Table("Summary", summary, width))
	}
	sections = append(sections, dialogHintStyle.Render("y: confirm | n: cancel"))

	return TitledBox(title, strings.Join(sections, "\n\n"), width)
}

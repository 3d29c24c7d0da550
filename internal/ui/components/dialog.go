package components

import "github.com/charmbracelet/lipgloss"

var dialogStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#2b3a33")).
	Padding(1, 2).
	Width(44)

// ConfirmDialog renders a yes/no confirmation.
func ConfirmDialog(title, message string) string {
	header := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#5a9e7f")).
		Bold(true).
		Render(title)

	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#9aa3a0")).
		Render(message)

	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#9aa3a0")).
		Render("\ny: confirm | n: cancel")

	return dialogStyle.Render(header + "\n\n" + body + hint)
}

// ChoiceDialog renders a prompt with a short list of keyed choices,
// e.g. apply-mode or target selection.
func ChoiceDialog(title string, choices []string) string {
	header := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#5a9e7f")).
		Bold(true).
		Render(title)

	rows := ""
	choiceStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#d8dcd9"))
	for _, choice := range choices {
		rows += "\n" + choiceStyle.Render(choice)
	}

	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#9aa3a0")).
		Render("\n\nesc: cancel")

	return dialogStyle.Render(header + "\n" + rows + hint)
}

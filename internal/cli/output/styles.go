package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used for text output.
type Styles struct {
	Header   lipgloss.Style
	Bold     lipgloss.Style
	Muted    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Category lipgloss.Style
	Action   lipgloss.Style
	Link     lipgloss.Style
	Checked  lipgloss.Style
}

// DefaultStyles returns colored styles for a terminal.
func DefaultStyles() *Styles {
	return &Styles{
		Header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Bold:     lipgloss.NewStyle().Bold(true),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		Category: lipgloss.NewStyle().Foreground(lipgloss.Color("213")),
		Action:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Link:     lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Underline(true),
		Checked:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Strikethrough(true),
	}
}

// PlainStyles returns styles that render text unchanged.
func PlainStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Header:   plain,
		Bold:     plain,
		Muted:    plain,
		Success:  plain,
		Warning:  plain,
		Error:    plain,
		Category: plain,
		Action:   plain,
		Link:     plain,
		Checked:  plain,
	}
}

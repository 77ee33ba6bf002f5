package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the guide's lipgloss styles.
type Styles struct {
	App        lipgloss.Style
	Title      lipgloss.Style
	Crumb      lipgloss.Style
	CrumbSep   lipgloss.Style
	Label      lipgloss.Style
	Muted      lipgloss.Style
	Cursor     lipgloss.Style
	Checked    lipgloss.Style
	Unchecked  lipgloss.Style
	Error      lipgloss.Style
	ErrorBox   lipgloss.Style
	Toast      lipgloss.Style
	ToastError lipgloss.Style
	ListTitle  lipgloss.Style
}

// DefaultStyles returns the guide's styles.
func DefaultStyles() Styles {
	return Styles{
		App:        lipgloss.NewStyle().Padding(1, 2),
		Title:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Crumb:      lipgloss.NewStyle().Foreground(lipgloss.Color("213")),
		CrumbSep:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Label:      lipgloss.NewStyle().Bold(true),
		Muted:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Cursor:     lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		Checked:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Strikethrough(true),
		Unchecked:  lipgloss.NewStyle(),
		Error:      lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		ErrorBox:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("196")).Padding(1, 2),
		Toast:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		ToastError: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		ListTitle:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Padding(0, 1),
	}
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/leapstack-labs/fieldguide/internal/guide"
)

// View renders the current pane.
func (m Model) View() string {
	var b strings.Builder

	switch {
	case m.loading:
		b.WriteString(m.spinner.View())
		b.WriteString(" Loading dataset...")
	case m.err != nil:
		b.WriteString(m.viewError())
	default:
		b.WriteString(m.viewHeader())
		b.WriteString("\n\n")
		b.WriteString(m.viewPane())
	}

	b.WriteString("\n\n")
	if m.toast != "" {
		style := m.styles.Toast
		if m.toastErr {
			style = m.styles.ToastError
		}
		b.WriteString(style.Render(m.toast))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.helpKeys()))

	return m.styles.App.Render(b.String())
}

func (m Model) viewError() string {
	body := m.styles.Error.Render("Could not load the dataset") + "\n\n" + m.err.Error()
	return m.styles.ErrorBox.Render(body)
}

func (m Model) viewHeader() string {
	st := m.session.State()
	crumbs := []string{m.styles.Title.Render("fieldguide")}
	if st.Category != "" {
		crumbs = append(crumbs, m.styles.Crumb.Render(st.Category))
	}
	if st.ActionsVisible() {
		sub := st.SubIssue
		if st.Skipped {
			sub = "all sub-issues"
		}
		crumbs = append(crumbs, m.styles.Crumb.Render(sub))
	}
	if st.MaintenanceVisible() && m.pane == paneChecklist {
		crumbs = append(crumbs, m.styles.Crumb.Render(st.Groups[st.Confirmed].SupportAction))
	}
	return strings.Join(crumbs, m.styles.CrumbSep.Render(" › "))
}

func (m Model) viewPane() string {
	switch m.pane {
	case paneSubIssues:
		return m.subIssues.View()
	case paneActions:
		if len(m.actions.Items()) == 0 {
			return m.styles.Muted.Render("No support actions recorded for this selection.")
		}
		return m.actions.View()
	case paneChecklist:
		if mt, ok := m.session.Maintenance(); ok {
			return m.viewChecklist(mt)
		}
		return ""
	default:
		return m.categories.View()
	}
}

func (m Model) viewChecklist(mt guide.Maintenance) string {
	var b strings.Builder
	label := m.styles.Label.Render

	fmt.Fprintf(&b, "%s %s\n", label("Sub issue:"), mt.SubIssue)
	fmt.Fprintf(&b, "%s %s\n\n", label("Symptom to confirm on site:"), mt.Symptom())
	b.WriteString(label("Actions to do:"))
	b.WriteString("\n")

	for i, it := range mt.Items() {
		if i == len(mt.Actions) {
			b.WriteString("\n")
			b.WriteString(label("Spare parts needed:"))
			b.WriteString("\n")
		}
		b.WriteString(m.checklistLine(i, it))
		b.WriteString("\n")
	}
	if len(mt.Actions) == 0 && mt.SparePart == nil {
		b.WriteString(m.styles.Muted.Render("  (no field actions recorded)"))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) checklistLine(i int, it guide.Item) string {
	cursor := "  "
	if i == m.cursor {
		cursor = m.styles.Cursor.Render("> ")
	}
	box, text := "[ ]", m.styles.Unchecked.Render(it.Text)
	if it.Checked {
		box, text = "[x]", m.styles.Checked.Render(it.Text)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cursor, box, " ", text)
}

func (m Model) helpKeys() paneKeys {
	switch {
	case m.loading:
		return paneKeys{m.keys.Quit}
	case m.err != nil:
		return paneKeys{m.keys.Retry, m.keys.Quit}
	}
	switch m.pane {
	case paneSubIssues:
		return paneKeys{m.keys.Select, m.keys.Skip, m.keys.Filter, m.keys.Back, m.keys.Quit}
	case paneActions:
		keys := paneKeys{m.keys.Select}
		if m.selectedHasHowTo() {
			keys = append(keys, m.keys.HowTo)
		}
		return append(keys, m.keys.Filter, m.keys.Back, m.keys.Quit)
	case paneChecklist:
		return paneKeys{m.keys.Up, m.keys.Down, m.keys.Toggle, m.keys.Copy, m.keys.Restart, m.keys.Back, m.keys.Quit}
	default:
		return paneKeys{m.keys.Select, m.keys.Filter, m.keys.Quit}
	}
}

func (m Model) selectedHasHowTo() bool {
	it, ok := m.actions.SelectedItem().(item)
	if !ok {
		return false
	}
	_, ok = m.session.HowTo(it.index)
	return ok
}

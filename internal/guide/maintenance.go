package guide

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/fieldguide/internal/dataset"
	"github.com/leapstack-labs/fieldguide/internal/schema"
)

// Item is one checkable checklist entry. Check marks live only as long as the
// session.
type Item struct {
	Text    string `json:"text"`
	Checked bool   `json:"checked"`
}

// Maintenance is the checklist for a confirmed group.
type Maintenance struct {
	SubIssue    string `json:"sub_issue"`
	SymptomID   string `json:"symptom_id"`
	SymptomDesc string `json:"symptom_desc"`
	Actions     []Item `json:"actions"`
	// SparePart is nil when the base row has no spare part ("" or "/").
	SparePart *Item `json:"spare_part,omitempty"`
}

// Symptom is the "<id> — <description>" line.
func (m Maintenance) Symptom() string {
	return fmt.Sprintf("%s — %s", m.SymptomID, m.SymptomDesc)
}

// Items returns the actions followed by the spare part, if any. Toggle
// indexes refer to this order.
func (m Maintenance) Items() []Item {
	out := make([]Item, 0, len(m.Actions)+1)
	out = append(out, m.Actions...)
	if m.SparePart != nil {
		out = append(out, *m.SparePart)
	}
	return out
}

// Toggle flips item i and returns the updated copy. Out-of-range indexes
// leave the checklist unchanged.
func (m Maintenance) Toggle(i int) Maintenance {
	out := m
	out.Actions = append([]Item(nil), m.Actions...)
	if m.SparePart != nil {
		sp := *m.SparePart
		out.SparePart = &sp
	}
	switch {
	case i >= 0 && i < len(out.Actions):
		out.Actions[i].Checked = !out.Actions[i].Checked
	case i == len(out.Actions) && out.SparePart != nil:
		out.SparePart.Checked = !out.SparePart.Checked
	}
	return out
}

// Text is the plain-text export copied to the clipboard.
func (m Maintenance) Text() string {
	actions := make([]string, len(m.Actions))
	for i, a := range m.Actions {
		actions[i] = a.Text
	}
	spare := ""
	if m.SparePart != nil {
		spare = "Spare parts needed: " + m.SparePart.Text
	}

	var sb strings.Builder
	sb.WriteString("\nSub issue: " + m.SubIssue + "\n")
	sb.WriteString("Symptom to confirm on site: " + m.Symptom() + "\n")
	sb.WriteString("Actions to do:\n")
	sb.WriteString(strings.Join(actions, "\n") + "\n")
	sb.WriteString(spare + "\n")
	return strings.TrimSpace(sb.String())
}

// Markdown renders the checklist with task-list boxes.
func (m Maintenance) Markdown() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**Sub issue:** %s\n\n", m.SubIssue)
	fmt.Fprintf(&sb, "**Symptom to confirm on site:** %s\n\n", m.Symptom())
	sb.WriteString("**Actions to do:**\n\n")
	for _, a := range m.Actions {
		sb.WriteString(taskLine(a))
	}
	if m.SparePart != nil {
		sb.WriteString("\n**Spare parts needed:**\n\n")
		sb.WriteString(taskLine(*m.SparePart))
	}
	return sb.String()
}

func taskLine(it Item) string {
	box := "[ ]"
	if it.Checked {
		box = "[x]"
	}
	return fmt.Sprintf("- %s %s\n", box, it.Text)
}

// ShowSparePart reports whether a spare part cell names a real part.
func ShowSparePart(spare string) bool {
	v := strings.TrimSpace(spare)
	return v != "" && v != SentinelNotApplicable
}

// Maintenance aggregates a confirmed group. An empty group yields false and
// nothing to show.
func (e *Engine) Maintenance(rows []dataset.Record) (Maintenance, bool) {
	if len(rows) == 0 {
		return Maintenance{}, false
	}
	base := rows[0]

	m := Maintenance{
		SubIssue:    e.value(base, schema.RoleSubIssue),
		SymptomID:   e.value(base, schema.RoleSymptomID),
		SymptomDesc: e.value(base, schema.RoleSymptomDesc),
	}
	for _, r := range rows {
		if a := e.value(r, schema.RoleFieldAction); a != "" {
			m.Actions = append(m.Actions, Item{Text: a})
		}
	}
	if spare := strings.TrimSpace(e.value(base, schema.RoleSparePart)); ShowSparePart(spare) {
		m.SparePart = &Item{Text: spare}
	}
	return m, true
}

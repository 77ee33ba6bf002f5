package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/leapstack-labs/fieldguide/internal/guide"
)

// item is a list entry. index points back into the slice the list was
// built from, so selection survives filtering.
type item struct {
	title string
	desc  string
	index int
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + " " + i.desc }

func stringItems(values []string) []list.Item {
	out := make([]list.Item, len(values))
	for i, v := range values {
		out[i] = item{title: v, index: i}
	}
	return out
}

func groupItems(groups []guide.Group) []list.Item {
	out := make([]list.Item, len(groups))
	for i, g := range groups {
		desc := g.SubIssue
		if n := len(g.Rows); n > 1 {
			desc = fmt.Sprintf("%s · %d records", desc, n)
		}
		if g.ShowHowTo {
			desc += " · how-to available"
		}
		out[i] = item{title: g.SupportAction, desc: desc, index: i}
	}
	return out
}

func newList(title string, styles Styles, showDesc bool) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = showDesc
	if !showDesc {
		delegate.SetSpacing(0)
	}
	l := list.New(nil, delegate, 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()
	l.Styles.Title = styles.ListTitle
	return l
}

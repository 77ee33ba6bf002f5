// Package tui is the full-screen guide: category, sub-issue, action and
// checklist panes driven by a guide.Session.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/leapstack-labs/fieldguide/internal/clipboard"
	"github.com/leapstack-labs/fieldguide/internal/guide"
	"github.com/leapstack-labs/fieldguide/internal/opener"
)

// Loader produces the session once the dataset is read. It runs off the
// update loop.
type Loader func(ctx context.Context) (*guide.Session, error)

// Options configure a Model.
type Options struct {
	Load   Loader
	Copy   func(text string) (clipboard.Method, error)
	Open   opener.Func
	Logger *slog.Logger
}

type pane int

const (
	paneCategories pane = iota
	paneSubIssues
	paneActions
	paneChecklist
)

type loadedMsg struct {
	session *guide.Session
	err     error
}

type toastMsg struct {
	text string
	err  bool
}

// Model is the bubbletea model of the guide.
type Model struct {
	ctx    context.Context
	opts   Options
	keys   keyMap
	styles Styles

	loading bool
	err     error
	spinner spinner.Model
	help    help.Model

	session    *guide.Session
	pane       pane
	categories list.Model
	subIssues  list.Model
	actions    list.Model
	cursor     int

	toast         string
	toastErr      bool
	width, height int
}

// New returns a model that starts loading as soon as it is initialised.
func New(ctx context.Context, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Open == nil {
		opts.Open = opener.Open
	}
	styles := DefaultStyles()
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = styles.Title

	return Model{
		ctx:        ctx,
		opts:       opts,
		keys:       newKeyMap(),
		styles:     styles,
		loading:    true,
		spinner:    sp,
		help:       help.New(),
		categories: newList("Categories", styles, false),
		subIssues:  newList("Sub-issues", styles, false),
		actions:    newList("Actions", styles, true),
	}
}

// Init starts the spinner and the dataset load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m Model) load() tea.Cmd {
	ctx, loadFn := m.ctx, m.opts.Load
	return func() tea.Msg {
		if loadFn == nil {
			return loadedMsg{err: errors.New("no dataset loader configured")}
		}
		sess, err := loadFn(ctx)
		return loadedMsg{session: sess, err: err}
	}
}

// Err returns the load error, if loading failed.
func (m Model) Err() error { return m.err }

// Session returns the active session, or nil while loading.
func (m Model) Session() *guide.Session { return m.session }

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.opts.Logger.Error("dataset load failed", "error", msg.err)
			return m, nil
		}
		m.err = nil
		m.session = msg.session
		m.pane = paneCategories
		m.categories.SetItems(stringItems(m.session.Engine().Categories()))
		return m, nil

	case toastMsg:
		m.toast, m.toastErr = msg.text, msg.err
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateList(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.loading {
		return m, nil
	}
	if m.err != nil {
		switch {
		case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Back):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Retry):
			m.loading = true
			m.err = nil
			return m, tea.Batch(m.spinner.Tick, m.load())
		}
		return m, nil
	}

	// A list in filter mode owns every key.
	if l := m.activeList(); l != nil && l.FilterState() == list.Filtering {
		return m.updateList(msg)
	}

	m.toast = ""
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	switch m.pane {
	case paneCategories:
		if key.Matches(msg, m.keys.Select) {
			return m.chooseCategory()
		}
	case paneSubIssues:
		switch {
		case key.Matches(msg, m.keys.Select):
			return m.chooseSubIssue()
		case key.Matches(msg, m.keys.Skip):
			m.session.Dispatch(guide.SkipSubIssue{})
			return m.showActions()
		case key.Matches(msg, m.keys.Back):
			m.session.Dispatch(guide.SelectCategory{})
			m.pane = paneCategories
			return m, nil
		}
	case paneActions:
		switch {
		case key.Matches(msg, m.keys.Select):
			return m.confirm()
		case key.Matches(msg, m.keys.HowTo):
			return m, m.openHowTo()
		case key.Matches(msg, m.keys.Back):
			m.pane = paneSubIssues
			return m, nil
		}
	case paneChecklist:
		return m.handleChecklistKey(msg)
	}

	return m.updateList(msg)
}

func (m Model) handleChecklistKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	mt, ok := m.session.Maintenance()
	if !ok {
		m.pane = paneActions
		return m, nil
	}
	n := len(mt.Items())
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < n-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		m.session.Dispatch(guide.ToggleItem{Index: m.cursor})
	case key.Matches(msg, m.keys.Copy):
		return m, m.copyChecklist()
	case key.Matches(msg, m.keys.Restart):
		m.session.Dispatch(guide.SelectCategory{})
		m.pane = paneCategories
	case key.Matches(msg, m.keys.Back):
		m.pane = paneActions
	}
	return m, nil
}

func (m Model) chooseCategory() (tea.Model, tea.Cmd) {
	it, ok := m.categories.SelectedItem().(item)
	if !ok {
		return m, nil
	}
	st := m.session.Dispatch(guide.SelectCategory{Category: it.title})
	m.subIssues.ResetFilter()
	m.subIssues.SetItems(stringItems(st.SubIssues))
	m.subIssues.Select(0)
	m.pane = paneSubIssues
	return m, nil
}

func (m Model) chooseSubIssue() (tea.Model, tea.Cmd) {
	it, ok := m.subIssues.SelectedItem().(item)
	if !ok {
		return m, nil
	}
	m.session.Dispatch(guide.SelectSubIssue{SubIssue: it.title})
	return m.showActions()
}

func (m Model) showActions() (tea.Model, tea.Cmd) {
	m.actions.ResetFilter()
	m.actions.SetItems(groupItems(m.session.State().Groups))
	m.actions.Select(0)
	m.pane = paneActions
	return m, nil
}

func (m Model) confirm() (tea.Model, tea.Cmd) {
	it, ok := m.actions.SelectedItem().(item)
	if !ok {
		return m, nil
	}
	st := m.session.Dispatch(guide.ConfirmGroup{Index: it.index})
	if !st.MaintenanceVisible() {
		return m, nil
	}
	m.cursor = 0
	m.pane = paneChecklist
	return m, nil
}

func (m Model) openHowTo() tea.Cmd {
	it, ok := m.actions.SelectedItem().(item)
	if !ok {
		return nil
	}
	link, ok := m.session.HowTo(it.index)
	if !ok {
		return toast("No how-to procedure for this action", true)
	}
	open, logger := m.opts.Open, m.opts.Logger
	return func() tea.Msg {
		if err := open(link); err != nil {
			logger.Warn("open how-to failed", "link", link, "error", err)
			return toastMsg{text: fmt.Sprintf("Could not open %s: %v", link, err), err: true}
		}
		return toastMsg{text: "Opened " + link}
	}
}

func (m Model) copyChecklist() tea.Cmd {
	text, err := m.session.ExportText()
	if err != nil {
		return toast(err.Error(), true)
	}
	if m.opts.Copy == nil {
		return toast("Clipboard is not available", true)
	}
	copyFn, logger := m.opts.Copy, m.opts.Logger
	return func() tea.Msg {
		method, err := copyFn(text)
		if err != nil {
			logger.Warn("copy checklist failed", "error", err)
			return toastMsg{text: "Copy failed: " + err.Error(), err: true}
		}
		return toastMsg{text: fmt.Sprintf("Copied checklist (%s)", method)}
	}
}

func toast(text string, isErr bool) tea.Cmd {
	return func() tea.Msg { return toastMsg{text: text, err: isErr} }
}

func (m Model) activeList() *list.Model {
	switch m.pane {
	case paneCategories:
		return &m.categories
	case paneSubIssues:
		return &m.subIssues
	case paneActions:
		return &m.actions
	}
	return nil
}

func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.loading || m.err != nil {
		return m, nil
	}
	var cmd tea.Cmd
	switch m.pane {
	case paneCategories:
		m.categories, cmd = m.categories.Update(msg)
	case paneSubIssues:
		m.subIssues, cmd = m.subIssues.Update(msg)
	case paneActions:
		m.actions, cmd = m.actions.Update(msg)
	}
	return m, cmd
}

// chrome is the number of rows taken by the header, help and padding.
const chrome = 7

func (m *Model) resize() {
	w := m.width - 4
	h := m.height - chrome
	if w < 20 {
		w = 20
	}
	if h < 5 {
		h = 5
	}
	m.categories.SetSize(w, h)
	m.subIssues.SetSize(w, h)
	m.actions.SetSize(w, h)
	m.help.Width = w
}

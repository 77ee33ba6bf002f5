package guide

import "github.com/leapstack-labs/fieldguide/internal/dataset"

// Phase is the position in the selection flow.
//
// Choosing or skipping a sub-issue goes straight to PhaseActionsShown, and
// confirming a group goes straight to PhaseMaintenanceShown.
type Phase int

// Phases of the selection flow.
const (
	PhaseNoCategory Phase = iota
	PhaseCategoryChosen
	PhaseActionsShown
	PhaseMaintenanceShown
)

func (p Phase) String() string {
	switch p {
	case PhaseNoCategory:
		return "no_category"
	case PhaseCategoryChosen:
		return "category_chosen"
	case PhaseActionsShown:
		return "actions_shown"
	case PhaseMaintenanceShown:
		return "maintenance_shown"
	default:
		return "unknown"
	}
}

// State is the selection state of one session. Reduce never mutates a State
// in place.
type State struct {
	Phase    Phase
	Category string
	// SubIssues are the options offered for Category.
	SubIssues []string
	SubIssue  string
	Skipped   bool
	Groups    []Group
	// Confirmed is the index into Groups of the confirmed group, or -1.
	Confirmed   int
	Maintenance *Maintenance
}

// InitialState is the state before any category is chosen.
func InitialState() State {
	return State{Phase: PhaseNoCategory, Confirmed: -1}
}

// SubIssuesVisible reports whether the sub-issue selector is shown.
func (s State) SubIssuesVisible() bool { return s.Phase >= PhaseCategoryChosen }

// ActionsVisible reports whether the action lines are shown.
func (s State) ActionsVisible() bool { return s.Phase >= PhaseActionsShown }

// MaintenanceVisible reports whether the checklist is shown.
func (s State) MaintenanceVisible() bool {
	return s.Phase == PhaseMaintenanceShown && s.Maintenance != nil
}

// ConfirmedRows returns the records of the confirmed group.
func (s State) ConfirmedRows() []dataset.Record {
	if s.Confirmed < 0 || s.Confirmed >= len(s.Groups) {
		return nil
	}
	return s.Groups[s.Confirmed].Rows
}

// Action is a user step fed to Reduce.
type Action interface {
	action()
}

// SelectCategory picks a category. An empty category clears the selection.
type SelectCategory struct{ Category string }

// SelectSubIssue picks one sub-issue of the current category.
type SelectSubIssue struct{ SubIssue string }

// SkipSubIssue shows actions for every sub-issue of the current category.
type SkipSubIssue struct{}

// ConfirmGroup confirms the observed action at Index of the action list.
type ConfirmGroup struct{ Index int }

// ToggleItem flips a checklist item. Index follows Maintenance.Items.
type ToggleItem struct{ Index int }

func (SelectCategory) action() {}
func (SelectSubIssue) action() {}
func (SkipSubIssue) action()   {}
func (ConfirmGroup) action()   {}
func (ToggleItem) action()     {}

// Reduce returns the state that follows s after a. Steps that do not apply
// to the current phase return s unchanged.
func Reduce(e *Engine, s State, a Action) State {
	switch a := a.(type) {
	case SelectCategory:
		next := InitialState()
		if a.Category == "" {
			return next
		}
		next.Phase = PhaseCategoryChosen
		next.Category = a.Category
		next.SubIssues = e.SubIssues(a.Category)
		return next

	case SelectSubIssue:
		if s.Phase < PhaseCategoryChosen {
			return s
		}
		return showActions(e, s, a.SubIssue, false)

	case SkipSubIssue:
		if s.Phase < PhaseCategoryChosen {
			return s
		}
		return showActions(e, s, "", true)

	case ConfirmGroup:
		if s.Phase < PhaseActionsShown || a.Index < 0 || a.Index >= len(s.Groups) {
			return s
		}
		m, ok := e.Maintenance(s.Groups[a.Index].Rows)
		if !ok {
			return s
		}
		next := s
		next.Confirmed = a.Index
		next.Maintenance = &m
		next.Phase = PhaseMaintenanceShown
		return next

	case ToggleItem:
		if !s.MaintenanceVisible() {
			return s
		}
		m := s.Maintenance.Toggle(a.Index)
		next := s
		next.Maintenance = &m
		return next
	}
	return s
}

func showActions(e *Engine, s State, subIssue string, skip bool) State {
	next := s
	next.SubIssue = subIssue
	next.Skipped = skip
	next.Groups = e.Actions(s.Category, subIssue, skip)
	next.Confirmed = -1
	next.Maintenance = nil
	next.Phase = PhaseActionsShown
	return next
}

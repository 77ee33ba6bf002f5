package guide

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// ErrNoChecklist is returned when an export is requested before a group is
// confirmed.
var ErrNoChecklist = errors.New("no maintenance checklist: confirm an action first")

// Session owns one engine and the current selection state. It is driven from
// a single goroutine (the TUI update loop or the shell loop).
type Session struct {
	ID     string
	engine *Engine
	state  State
	logger *slog.Logger
}

// NewSession starts a session in PhaseNoCategory.
func NewSession(e *Engine, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	id := uuid.NewString()
	return &Session{
		ID:     id,
		engine: e,
		state:  InitialState(),
		logger: logger.With("session", id),
	}
}

// Engine returns the session's query engine.
func (s *Session) Engine() *Engine { return s.engine }

// State returns the current state.
func (s *Session) State() State { return s.state }

// Dispatch applies a to the current state and returns the new state.
func (s *Session) Dispatch(a Action) State {
	prev := s.state.Phase
	s.state = Reduce(s.engine, s.state, a)
	s.logger.Debug("guide step",
		"action", fmt.Sprintf("%T", a),
		"from", prev.String(),
		"to", s.state.Phase.String(),
		"category", s.state.Category,
		"groups", len(s.state.Groups),
	)
	return s.state
}

// HowTo returns the SOP link of action line i, if it has one.
func (s *Session) HowTo(i int) (string, bool) {
	if !s.state.ActionsVisible() || i < 0 || i >= len(s.state.Groups) {
		return "", false
	}
	return s.state.Groups[i].HowToLink()
}

// ExportText returns the plain-text checklist of the confirmed group.
func (s *Session) ExportText() (string, error) {
	if !s.state.MaintenanceVisible() {
		return "", ErrNoChecklist
	}
	return s.state.Maintenance.Text(), nil
}

// Maintenance returns the checklist of the confirmed group, if one is shown.
func (s *Session) Maintenance() (Maintenance, bool) {
	if !s.state.MaintenanceVisible() {
		return Maintenance{}, false
	}
	return *s.state.Maintenance, true
}

package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the guide on the terminal and blocks until the user quits.
// A dataset load failure is returned after the error screen is dismissed.
func Run(ctx context.Context, opts Options, progOpts ...tea.ProgramOption) error {
	progOpts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, progOpts...)
	p := tea.NewProgram(New(ctx, opts), progOpts...)

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("run guide: %w", err)
	}
	if m, ok := final.(Model); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}

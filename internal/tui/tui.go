package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the full-screen UI and blocks until the user quits.
func Run(ctx context.Context, deps Deps) error {
	p := tea.NewProgram(
		NewApp(ctx, deps),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

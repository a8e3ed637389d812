package ui

import (
	"fmt"
	"time"

	"cuebox/logger"

	tea "github.com/charmbracelet/bubbletea"
)

// Run drives s from the terminal until the user quits
func Run(s Controller, history *logger.History, tick time.Duration) error {
	p := tea.NewProgram(NewModel(s, history, tick), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run terminal UI: %w", err)
	}
	return nil
}

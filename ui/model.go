package ui

import (
	"log/slog"
	"time"

	"cuebox/cue"
	"cuebox/logger"
	"cuebox/show"

	tea "github.com/charmbracelet/bubbletea"
)

// Controller is the part of a show the control loop drives
type Controller interface {
	Cues() []cue.Cue
	Status(i int) (cue.State, error)
	Selected() int
	SelectNext()
	SelectPrev()
	ExecuteSelected() error
	Reload()
	StopAll()
	Upkeep()
	Active() []show.ActiveCue
}

var _ Controller = (*show.Show)(nil)

// Model is the bubbletea model of the show control surface
type Model struct {
	show    Controller
	history *logger.History
	tick    time.Duration
	now     time.Time

	width  int
	height int

	quitting bool
}

type tickMsg time.Time

// NewModel creates a model driving s, showing log lines from history
func NewModel(s Controller, history *logger.History, tick time.Duration) Model {
	return Model{
		show:    s,
		history: history,
		tick:    tick,
		now:     time.Now(),
	}
}

// Init starts the upkeep ticker
func (m Model) Init() tea.Cmd {
	return m.tickEvery()
}

func (m Model) tickEvery() tea.Cmd {
	return tea.Tick(m.tick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tickMsg:
		m.now = time.Time(msg)
		m.show.Upkeep()
		return m, m.tickEvery()
	}

	return m, nil
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		slog.Info("Quitting")
		m.quitting = true
		return m, tea.Quit
	case "down", "j":
		m.show.SelectNext()
	case "up", "k":
		m.show.SelectPrev()
	case " ":
		if err := m.show.ExecuteSelected(); err != nil {
			slog.Error("Error executing cue", slog.Any("error", err))
		}
		m.show.SelectNext()
	case "s":
		m.show.StopAll()
	case "r":
		m.show.Reload()
	}

	return m, nil
}

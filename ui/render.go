package ui

import (
	"fmt"
	"strings"

	"cuebox/cue"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	valueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	faintStyle    = lipgloss.NewStyle().Faint(true)
)

var boxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("240")).
	Padding(0, 1)

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	// border and padding take four columns of every box
	inner := max(m.width-4, 10)
	half := max(inner/2-2, 10)

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		m.box("Clock", m.renderClock(), half),
		m.box("Active Cues", m.renderActive(), inner-half-4),
	)

	logLines := max(m.height/5, 3)
	listLines := max(m.height-lipgloss.Height(top)-logLines-7, 3)

	var b strings.Builder
	b.WriteString(top)
	b.WriteString("\n")
	b.WriteString(m.box("Cues", m.renderCues(listLines), inner))
	b.WriteString("\n")
	b.WriteString(m.box("Log", m.renderLog(logLines, inner), inner))
	b.WriteString("\n")
	b.WriteString(faintStyle.Render("space:Go  ↑/↓:Select  s:Stop all  r:Reload  q:Quit"))

	return b.String()
}

func (m Model) box(title, body string, width int) string {
	return boxStyle.Width(width + 2).Render(titleStyle.Render(title) + "\n" + body)
}

func (m Model) renderClock() string {
	return valueStyle.Render(m.now.Format("15:04:05"))
}

func (m Model) renderActive() string {
	active := m.show.Active()
	if len(active) == 0 {
		return faintStyle.Render("Nothing playing")
	}

	lines := make([]string, len(active))
	for i, a := range active {
		lines[i] = labelStyle.Render(fmt.Sprintf("%-10s", a.Label)) + " " + valueStyle.Render(a.Progress())
	}
	return strings.Join(lines, "\n")
}

// renderCues shows a window of at most height cues around the selection,
// followed by the hint of the selected cue
func (m Model) renderCues(height int) string {
	cues := m.show.Cues()
	selected := m.show.Selected()

	start := 0
	if selected >= height {
		start = selected - height + 1
	}
	end := min(start+height, len(cues))

	lines := make([]string, 0, end-start+2)
	for i := start; i < end; i++ {
		c := cues[i]
		state, _ := m.show.Status(i)
		line := fmt.Sprintf("%s %-10s %-8s %s", stateMarker(state), c.Label, kind(c), c.Description)
		if i == selected {
			lines = append(lines, selectedStyle.Render(">> "+line))
		} else {
			lines = append(lines, "   "+valueStyle.Render(line))
		}
	}

	if selected >= 0 && selected < len(cues) {
		if _, err := m.show.Status(selected); err != nil {
			lines = append(lines, "", errorStyle.Render(err.Error()))
		} else if hint := cues[selected].Hint; hint != "" {
			lines = append(lines, "", faintStyle.Render(hint))
		}
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderLog(height, width int) string {
	if m.history == nil {
		return ""
	}

	lines := m.history.Lines(height)
	for i, l := range lines {
		lines[i] = truncate(l, width)
	}
	return valueStyle.Render(strings.Join(lines, "\n"))
}

func stateMarker(s cue.State) string {
	switch s {
	case cue.StateReady:
		return "●"
	case cue.StateError:
		return "✗"
	default:
		return " "
	}
}

func kind(c cue.Cue) string {
	if c.Action == nil {
		return ""
	}
	return c.Action.Kind()
}

func truncate(s string, length int) string {
	r := []rune(s)
	if len(r) <= length || length < 4 {
		return s
	}
	return string(r[:length-3]) + "..."
}

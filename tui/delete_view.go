// ABOUTME: Delete confirmation view for TUI
// ABOUTME: Confirms removal of a meeting and reports the outcome
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/rigboard/meetings"
)

var (
	confirmBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(1, 2).
			Width(60).
			Align(lipgloss.Center)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	confirmButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("9")).
				Padding(0, 2).
				MarginRight(2)

	cancelButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("8")).
				Padding(0, 2)
)

func (m Model) renderConfirmDeleteView() string {
	if m.deleteTarget == nil {
		return ""
	}
	mt := *m.deleteTarget

	title := warningStyle.Render("⚠  DELETE MEETING  ⚠")
	message := "Are you sure you want to delete this meeting?"
	info := fmt.Sprintf("\n%s\n%s %s-%s\n", mt.Title, mt.DateKey(),
		meetings.DisplayTime(mt.StartTime), meetings.DisplayTime(mt.EndTime))

	buttons := lipgloss.JoinHorizontal(
		lipgloss.Left,
		confirmButtonStyle.Render("Yes, Delete (y)"),
		cancelButtonStyle.Render("Cancel (n/esc)"),
	)

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		message,
		info,
		buttons,
	)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		confirmBoxStyle.Render(content),
	)
}

func (m Model) handleConfirmDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if m.deleteTarget == nil {
			m.setView(m.returnTo)
			return m, nil
		}
		return m, m.delete(m.deleteTarget.ID)
	case "n", "N", "esc":
		m.deleteTarget = nil
		m.setView(m.returnTo)
	}
	return m, nil
}

func (m Model) handleDeleted(msg deletedMsg) (tea.Model, tea.Cmd) {
	title := ""
	if m.deleteTarget != nil {
		title = m.deleteTarget.Title
	}
	m.deleteTarget = nil
	if msg.err != nil {
		m.status = ""
	} else {
		m.err = nil
		m.status = "✓ Meeting deleted: " + title
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	}
	if m.viewMode == ViewConfirmDelete {
		m.setView(m.returnTo)
	}
	if m.viewMode == ViewDay {
		m.reloadDay()
	}
	return m, nil
}

// ABOUTME: Agenda and day-detail list views
// ABOUTME: Infinite-scroll agenda over the paginated store and the sorted meetings of one day
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/rigboard/meetings"
	"github.com/harperreed/rigboard/models"
)

// loadMoreThreshold is how close to the end of the agenda the cursor gets
// before the next page is requested.
const loadMoreThreshold = 3

func (m Model) renderAgendaView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("AGENDA  ·  " + m.clientFilterName()))
	s.WriteString("\n")

	items := m.store.Visible()
	s.WriteString(m.renderMeetingTable(items))
	s.WriteString("\n")

	snap := m.store.Snapshot()
	switch {
	case snap.Loading:
		s.WriteString(helpStyle.Render("Loading more…"))
	case snap.HasMore:
		s.WriteString(helpStyle.Render(fmt.Sprintf("Showing %d of %d", len(items), snap.TotalCount)))
	default:
		s.WriteString(helpStyle.Render(fmt.Sprintf("%d meetings", len(items))))
	}
	s.WriteString("\n")

	if status := m.renderStatus(); status != "" {
		s.WriteString(status)
		s.WriteString("\n")
	}
	s.WriteString(m.renderListHelp(m.selectedMeeting(items), "Tab: Calendar"))
	return s.String()
}

func (m Model) renderDayView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(fmt.Sprintf("%s  ·  %d Meetings", m.dayDate, len(m.dayList))))
	s.WriteString("\n")
	s.WriteString(m.renderMeetingTable(m.dayList))
	s.WriteString("\n")

	if status := m.renderStatus(); status != "" {
		s.WriteString(status)
		s.WriteString("\n")
	}
	s.WriteString(m.renderListHelp(m.selectedMeeting(m.dayList), "Esc: Back"))
	return s.String()
}

func (m Model) renderMeetingTable(items []models.Meeting) string {
	columns := []table.Column{
		{Title: "Date", Width: 10},
		{Title: "Time", Width: 11},
		{Title: "Title", Width: 30},
		{Title: "Client", Width: 20},
		{Title: "Status", Width: 11},
	}

	var rows []table.Row
	for _, mt := range items {
		rows = append(rows, table.Row{
			mt.DateKey(),
			meetings.DisplayTime(mt.StartTime) + "-" + meetings.DisplayTime(mt.EndTime),
			mt.Title,
			mt.ClientName,
			mt.Status.String(),
		})
	}

	height := m.height - 10
	if height < 5 {
		height = 5
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	if m.selectedRow < len(rows) {
		t.SetCursor(m.selectedRow)
	}
	return t.View()
}

func (m Model) renderListHelp(selected *models.Meeting, back string) string {
	help := []string{"↑/↓: Navigate", "c: New"}
	if selected != nil {
		help = append(help, meetingHelp(*selected)...)
	}
	help = append(help, "f: Client filter", back, "q: Quit")
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) selectedMeeting(items []models.Meeting) *models.Meeting {
	if m.selectedRow < 0 || m.selectedRow >= len(items) {
		return nil
	}
	mt := items[m.selectedRow]
	return &mt
}

func (m Model) handleAgendaKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.store.Visible()
	switch msg.String() {
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		if m.selectedRow < len(items)-1 {
			m.selectedRow++
		}
		if m.selectedRow >= len(items)-loadMoreThreshold {
			return m, m.loadMore()
		}
	case "tab", "esc":
		m.setView(ViewCalendar)
		return m, m.refresh()
	case "f":
		return m.cycleClient()
	case "c":
		m.status = ""
		return m.openCreate(m.cursorKey())
	default:
		if selected := m.selectedMeeting(items); selected != nil {
			return m.handleMeetingKey(msg.String(), *selected, ViewAgenda)
		}
	}
	return m, nil
}

// openDay shows the start-ordered meetings of date.
func (m Model) openDay(date string) Model {
	m.dayDate = date
	m.selectedRow = 0
	m.reloadDay()
	m.setView(ViewDay)
	return m
}

func (m *Model) reloadDay() {
	m.dayList = meetings.DayDetail(meetings.GroupByDate(m.store.Visible())[m.dayDate])
	if m.selectedRow >= len(m.dayList) {
		m.selectedRow = 0
	}
}

func (m Model) handleDayKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		if m.selectedRow < len(m.dayList)-1 {
			m.selectedRow++
		}
	case "esc":
		m.setView(ViewCalendar)
	case "c":
		m.status = ""
		return m.openCreate(m.dayDate)
	case "enter":
		if selected := m.selectedMeeting(m.dayList); selected != nil && meetings.CanEdit(*selected) {
			m.returnTo = ViewDay
			return m, m.loadForEdit(selected.ID, selected.ClientID)
		}
	default:
		if selected := m.selectedMeeting(m.dayList); selected != nil {
			return m.handleMeetingKey(msg.String(), *selected, ViewDay)
		}
	}
	return m, nil
}

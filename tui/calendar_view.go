// ABOUTME: Month calendar view built from aggregated meeting events
// ABOUTME: Day navigation, event activation, and keyboard drag-to-reschedule
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/rigboard/meetings"
	"github.com/harperreed/rigboard/models"
)

const (
	dateLayout = "2006-01-02"
	cellWidth  = 14
)

var (
	dayHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Width(cellWidth)

	cellStyle = lipgloss.NewStyle().
			Width(cellWidth).
			Height(3)

	cursorCellStyle = cellStyle.
			Background(lipgloss.Color("235"))

	otherMonthStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func (m Model) events() []meetings.Event {
	return meetings.BuildEvents(m.store.Visible())
}

func (m Model) cursorKey() string {
	return m.cursor.Format(dateLayout)
}

// cursorEvents returns the events on the selected day.
func (m Model) cursorEvents() []meetings.Event {
	return meetings.EventsOn(m.events(), m.cursorKey())
}

// cursorMeeting returns the selected day's meeting when exactly one is shown.
func (m Model) cursorMeeting() (models.Meeting, bool) {
	events := m.cursorEvents()
	if len(events) != 1 || events[0].IsMore() {
		return models.Meeting{}, false
	}
	return *events[0].Meeting, true
}

func (m *Model) refreshTooltip() {
	if m.viewMode != ViewCalendar {
		m.tip = nil
		return
	}
	m.tip = newTooltip(m.cursorKey(), m.cursorEvents())
}

func (m *Model) moveCursor(days int) {
	m.cursor = m.cursor.AddDate(0, 0, days)
	m.month = firstOfMonth(m.cursor)
	m.refreshTooltip()
}

func (m Model) renderCalendarView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(fmt.Sprintf("RIGBOARD  %s  ·  %s", m.month.Format("January 2006"), m.clientFilterName())))
	s.WriteString("\n")

	var headers []string
	for _, d := range []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"} {
		headers = append(headers, dayHeaderStyle.Render(d))
	}
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, headers...))
	s.WriteString("\n")

	byDay := make(map[string][]meetings.Event)
	for _, e := range m.events() {
		byDay[e.Date] = append(byDay[e.Date], e)
	}

	offset := (int(m.month.Weekday()) + 6) % 7
	day := m.month.AddDate(0, 0, -offset)
	for week := 0; week < 6; week++ {
		var cells []string
		for i := 0; i < 7; i++ {
			cells = append(cells, m.renderCell(day, byDay[day.Format(dateLayout)]))
			day = day.AddDate(0, 0, 1)
		}
		s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		s.WriteString("\n")
		if day.Month() != m.month.Month() {
			break
		}
	}

	if tip := m.tip.View(); tip != "" {
		s.WriteString(tip)
		s.WriteString("\n")
	}
	if status := m.renderStatus(); status != "" {
		s.WriteString(status)
		s.WriteString("\n")
	}
	s.WriteString(m.renderCalendarHelp())
	return s.String()
}

func (m Model) renderCell(day time.Time, events []meetings.Event) string {
	label := fmt.Sprintf("%2d", day.Day())
	if day.Month() != m.month.Month() {
		label = otherMonthStyle.Render(label)
	}

	lines := []string{label}
	for _, e := range events {
		if e.IsMore() {
			lines = append(lines, moreStyle.Render(e.Title))
			continue
		}
		lines = append(lines, meetingStyle(e.Meeting.Status).Render(truncate(e.Title, cellWidth-1)))
	}

	style := cellStyle
	if day.Equal(m.cursor) {
		style = cursorCellStyle
	}
	return style.Render(strings.Join(lines, "\n"))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func (m Model) renderCalendarHelp() string {
	help := []string{"←/→/↑/↓: Move", "[/]: Month", "Enter: Open", "c: New"}
	if mt, ok := m.cursorMeeting(); ok {
		help = append(help, meetingHelp(mt)...)
	}
	help = append(help, "f: Client filter", "Tab: Agenda", "q: Quit")
	return helpStyle.Render(strings.Join(help, " • "))
}

// meetingHelp lists only the actions permitted for mt.
func meetingHelp(mt models.Meeting) []string {
	var help []string
	if meetings.CanEdit(mt) {
		help = append(help, "e: Edit")
	}
	if meetings.CanReschedule(mt) {
		help = append(help, "r: Reschedule", "</>: Move a day")
	}
	if meetings.CanDelete(mt) {
		help = append(help, "d: Delete")
	}
	return help
}

func (m Model) handleCalendarKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		m.moveCursor(-1)
	case "right", "l":
		m.moveCursor(1)
	case "up", "k":
		m.moveCursor(-7)
	case "down", "j":
		m.moveCursor(7)
	case "[":
		m.cursor = m.month.AddDate(0, -1, 0)
		m.month = m.cursor
		m.refreshTooltip()
	case "]":
		m.cursor = m.month.AddDate(0, 1, 0)
		m.month = m.cursor
		m.refreshTooltip()
	case "tab":
		m.selectedRow = 0
		m.setView(ViewAgenda)
		return m, m.refresh()
	case "f":
		return m.cycleClient()
	case "c":
		m.status = ""
		return m.openCreate(m.cursorKey())
	case "enter":
		return m.activateDay()
	default:
		if mt, ok := m.cursorMeeting(); ok {
			return m.handleMeetingKey(msg.String(), mt, ViewCalendar)
		}
	}
	return m, nil
}

// activateDay resolves the selected day the way a click on its event would.
func (m Model) activateDay() (tea.Model, tea.Cmd) {
	events := m.cursorEvents()
	switch {
	case len(events) == 0:
		return m, nil
	case len(events) == 1:
		switch action := meetings.EventAction(events[0]).(type) {
		case meetings.OpenEdit:
			mt, _ := m.store.Lookup(action.ID)
			if !meetings.CanEdit(mt) {
				return m.openDay(m.cursorKey()), nil
			}
			m.returnTo = ViewCalendar
			return m, m.loadForEdit(action.ID, action.ClientID)
		case meetings.OpenDay:
			return m.openDay(action.Date), nil
		}
	}
	return m.openDay(m.cursorKey()), nil
}

// handleMeetingKey runs the per-meeting actions shared by every view that
// has a selected meeting. Actions that are not permitted are ignored.
func (m Model) handleMeetingKey(key string, mt models.Meeting, from ViewMode) (tea.Model, tea.Cmd) {
	switch key {
	case "e":
		if meetings.CanEdit(mt) {
			m.returnTo = from
			m.status = ""
			return m, m.loadForEdit(mt.ID, mt.ClientID)
		}
	case "r":
		if meetings.CanReschedule(mt) {
			m.returnTo = from
			m.status = ""
			return m.openForm(meetings.NewRescheduleForm(mt)), nil
		}
	case "d":
		if meetings.CanDelete(mt) {
			target := mt
			m.deleteTarget = &target
			m.returnTo = from
			m.setView(ViewConfirmDelete)
		}
	case "<", ">":
		if meetings.CanReschedule(mt) {
			days := 1
			if key == "<" {
				days = -1
			}
			return m.dropByDays(mt, days)
		}
	}
	return m, nil
}

// dropByDays moves mt by whole days keeping its duration, as dragging the
// event to another day cell does.
func (m Model) dropByDays(mt models.Meeting, days int) (tea.Model, tea.Cmd) {
	start, err := meetings.MeetingStart(mt)
	if err != nil {
		m.err = err
		return m, nil
	}
	end, err := meetings.MeetingEnd(mt)
	if err != nil {
		m.err = err
		return m, nil
	}

	event := meetings.Event{ID: mt.ID, Start: start, End: end, Meeting: &mt}
	in, err := meetings.DropReschedule(event, start.AddDate(0, 0, days), time.Time{})
	if err != nil {
		m.err = err
		return m, nil
	}

	if m.viewMode == ViewCalendar {
		m.cursor = m.cursor.AddDate(0, 0, days)
		m.month = firstOfMonth(m.cursor)
	}
	return m, m.submitReschedule(mt.ID, in)
}

// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Month calendar, agenda, day list, meeting form, and delete confirmation views
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/rigboard/meetings"
	"github.com/harperreed/rigboard/models"
	"github.com/harperreed/rigboard/store"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewCalendar ViewMode = iota
	ViewAgenda
	ViewDay
	ViewForm
	ViewConfirmDelete
)

// Model is the main bubbletea model
type Model struct {
	ctx      context.Context
	store    *store.Store
	viewMode ViewMode

	// Calendar view state
	month  time.Time
	cursor time.Time
	tip    *tooltip

	// Agenda and day list state
	selectedRow int
	dayDate     string
	dayList     []models.Meeting

	// Client filter cycling; -1 shows every client.
	clients   []models.Client
	clientIdx int

	// Form view state
	form       *meetings.Form
	formInputs []textinput.Model
	formFields []string
	focusIndex int
	returnTo   ViewMode

	// Delete confirmation state
	deleteTarget *models.Meeting

	status string

	// UI state
	width  int
	height int
	err    error
}

// NewModel creates a new TUI model showing the month containing today.
func NewModel(ctx context.Context, st *store.Store, today time.Time) Model {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return Model{
		ctx:       ctx,
		store:     st,
		viewMode:  ViewCalendar,
		month:     firstOfMonth(day),
		cursor:    day,
		clientIdx: -1,
		width:     100,
		height:    32,
	}
}

// Run starts the full-screen program.
func Run(ctx context.Context, st *store.Store) error {
	p := tea.NewProgram(NewModel(ctx, st, time.Now()), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.loadInitial()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case initialLoadedMsg:
		m.clients = msg.clients
		m.err = msg.err
		m.refreshTooltip()
		return m, nil
	case meetingsLoadedMsg:
		m.err = msg.err
		if m.viewMode == ViewDay {
			m.reloadDay()
		}
		m.refreshTooltip()
		return m, nil
	case editLoadedMsg:
		return m.handleEditLoaded(msg)
	case contactsLoadedMsg:
		return m.handleContactsLoaded(msg)
	case savedMsg:
		return m.handleSaved(msg)
	case deletedMsg:
		return m.handleDeleted(msg)
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewCalendar:
		return m.renderCalendarView()
	case ViewAgenda:
		return m.renderAgendaView()
	case ViewDay:
		return m.renderDayView()
	case ViewForm:
		return m.renderFormView()
	case ViewConfirmDelete:
		return m.renderConfirmDeleteView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.viewMode != ViewForm && msg.String() == "q" {
		return m, tea.Quit
	}

	// Delegate to view-specific handlers
	switch m.viewMode {
	case ViewCalendar:
		return m.handleCalendarKeys(msg)
	case ViewAgenda:
		return m.handleAgendaKeys(msg)
	case ViewDay:
		return m.handleDayKeys(msg)
	case ViewForm:
		return m.handleFormKeys(msg)
	case ViewConfirmDelete:
		return m.handleConfirmDeleteKeys(msg)
	}

	return m, nil
}

// setView is the only way views change, so the tooltip never outlives the
// view it was opened in and the edit detail never outlives the form.
func (m *Model) setView(v ViewMode) {
	if m.viewMode == ViewForm && v != ViewForm {
		m.store.ClearDetail()
	}
	m.tip = nil
	m.viewMode = v
	if v == ViewCalendar {
		m.refreshTooltip()
	}
}

// clientFilter returns the active client id, "" for all.
func (m Model) clientFilter() string {
	if m.clientIdx < 0 || m.clientIdx >= len(m.clients) {
		return ""
	}
	return m.clients[m.clientIdx].ID
}

func (m Model) clientFilterName() string {
	if m.clientIdx < 0 || m.clientIdx >= len(m.clients) {
		return "All clients"
	}
	return m.clients[m.clientIdx].Name
}

// cycleClient moves to the next client filter and reloads from page 1.
func (m Model) cycleClient() (tea.Model, tea.Cmd) {
	m.clientIdx++
	if m.clientIdx >= len(m.clients) {
		m.clientIdx = -1
	}
	m.selectedRow = 0
	m.store.SetClientFilter(m.clientFilter())
	m.setView(m.viewMode)
	return m, m.refresh()
}

// renderStatus shows the store error or the last confirmation.
func (m Model) renderStatus() string {
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if msg := m.store.Snapshot().Error; msg != "" {
		return errorStyle.Render(msg)
	}
	if m.status != "" {
		return statusStyle.Render(m.status)
	}
	return ""
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255")).
			Bold(true)

	classStyles = map[string]lipgloss.Style{
		meetings.ClassInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		meetings.ClassWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		meetings.ClassSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		meetings.ClassDanger:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}

	moreStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("213")).
			Bold(true)
)

// meetingStyle colours by status and strikes out cancelled meetings.
func meetingStyle(status models.MeetingStatus) lipgloss.Style {
	style := classStyles[meetings.StatusClass(status)]
	if meetings.StruckThrough(status) {
		style = style.Strikethrough(true)
	}
	return style
}

// ABOUTME: Meeting form view for create, edit, and reschedule
// ABOUTME: Maps text inputs onto the form state machine and shows field errors and the server banner
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/rigboard/meetings"
	"github.com/harperreed/rigboard/models"
)

var (
	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("9")).
			Padding(0, 1)

	fieldErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			PaddingLeft(4)

	labelStyle = lipgloss.NewStyle().
			Width(20)
)

var fieldLabels = map[string]string{
	meetings.FieldClientID:          "Client ID",
	meetings.FieldTitle:             "Title",
	meetings.FieldDescription:       "Description",
	meetings.FieldLocation:          "Location",
	meetings.FieldDate:              "Date (YYYY-MM-DD)",
	meetings.FieldStartTime:         "Start (HH:mm)",
	meetings.FieldEndTime:           "End (HH:mm)",
	meetings.FieldType:              "Type (1-4)",
	meetings.FieldOrganizer:         "Organizer user ID",
	meetings.FieldUserAttendees:     "Staff attendees",
	meetings.FieldContactAttendees:  "Contact IDs",
	meetings.FieldExternalAttendees: "External emails",
	meetings.FieldNewDate:           "New date",
	meetings.FieldNewStartTime:      "New start",
	meetings.FieldNewEndTime:        "New end",
}

var fieldLimits = map[string]int{
	meetings.FieldTitle:       meetings.MaxTitleLength,
	meetings.FieldDescription: meetings.MaxDescriptionLength,
	meetings.FieldLocation:    meetings.MaxLocationLength,
}

type contactsLoadedMsg struct {
	contacts []models.ClientContact
	err      error
}

// openCreate starts a new meeting on date, preselecting the filtered client.
func (m Model) openCreate(date string) (tea.Model, tea.Cmd) {
	form := meetings.NewCreateForm()
	form.Values.ClientID = m.clientFilter()
	form.Values.Date = date
	m.returnTo = m.viewMode
	m = m.openForm(form)

	st, ctx := m.store, m.ctx
	return m, func() tea.Msg {
		contacts, err := st.Contacts(ctx, "")
		return contactsLoadedMsg{contacts: contacts, err: err}
	}
}

func (m Model) openForm(form *meetings.Form) Model {
	m.form = form
	m.formFields = formFields(form.Mode)
	m.formInputs = make([]textinput.Model, len(m.formFields))
	for i, field := range m.formFields {
		input := textinput.New()
		input.Placeholder = fieldLabels[field]
		input.CharLimit = 1000
		if limit, ok := fieldLimits[field]; ok {
			input.CharLimit = limit + 1
		}
		input.SetValue(fieldValue(form.Values, field))
		m.formInputs[i] = input
	}
	m.focusIndex = 0
	m.updateFormFocus()
	m.setView(ViewForm)
	return m
}

func formFields(mode meetings.Mode) []string {
	switch mode.(type) {
	case meetings.RescheduleMode:
		return []string{meetings.FieldNewDate, meetings.FieldNewStartTime, meetings.FieldNewEndTime}
	case meetings.EditMode:
		return editableFields
	}
	return append([]string{meetings.FieldClientID}, editableFields...)
}

var editableFields = []string{
	meetings.FieldTitle,
	meetings.FieldDescription,
	meetings.FieldLocation,
	meetings.FieldDate,
	meetings.FieldStartTime,
	meetings.FieldEndTime,
	meetings.FieldType,
	meetings.FieldOrganizer,
	meetings.FieldUserAttendees,
	meetings.FieldContactAttendees,
	meetings.FieldExternalAttendees,
}

func fieldValue(v meetings.Values, field string) string {
	switch field {
	case meetings.FieldClientID:
		return v.ClientID
	case meetings.FieldTitle:
		return v.Title
	case meetings.FieldDescription:
		return v.Description
	case meetings.FieldLocation:
		return v.Location
	case meetings.FieldDate:
		return v.Date
	case meetings.FieldStartTime:
		return v.StartTime
	case meetings.FieldEndTime:
		return v.EndTime
	case meetings.FieldType:
		return strconv.Itoa(int(v.Type))
	case meetings.FieldOrganizer:
		return v.OrganizerUserID
	case meetings.FieldUserAttendees:
		return strings.Join(v.AttendeeUserIDs, ",")
	case meetings.FieldContactAttendees:
		ids := make([]string, 0, len(v.AttendeeContactIDs))
		for _, id := range v.AttendeeContactIDs {
			ids = append(ids, strconv.FormatInt(id, 10))
		}
		return strings.Join(ids, ",")
	case meetings.FieldExternalAttendees:
		return v.ExternalAttendees
	case meetings.FieldNewDate:
		return v.NewDate
	case meetings.FieldNewStartTime:
		return v.NewStartTime
	case meetings.FieldNewEndTime:
		return v.NewEndTime
	}
	return ""
}

// syncFormValues copies the inputs into the form values. It reports false
// with a field error when an input cannot be parsed.
func (m *Model) syncFormValues() bool {
	v := &m.form.Values
	parseErrs := meetings.FieldErrors{}
	clientID := v.ClientID

	for i, field := range m.formFields {
		raw := strings.TrimSpace(m.formInputs[i].Value())
		switch field {
		case meetings.FieldClientID:
			clientID = raw
		case meetings.FieldTitle:
			v.Title = m.formInputs[i].Value()
		case meetings.FieldDescription:
			v.Description = m.formInputs[i].Value()
		case meetings.FieldLocation:
			v.Location = m.formInputs[i].Value()
		case meetings.FieldDate:
			v.Date = raw
		case meetings.FieldStartTime:
			v.StartTime = raw
		case meetings.FieldEndTime:
			v.EndTime = raw
		case meetings.FieldType:
			n, _ := strconv.Atoi(raw)
			v.Type = models.MeetingType(n)
		case meetings.FieldOrganizer:
			v.OrganizerUserID = raw
		case meetings.FieldUserAttendees:
			v.AttendeeUserIDs = splitList(raw)
		case meetings.FieldContactAttendees:
			ids, err := parseIDs(raw)
			if err != nil {
				parseErrs[field] = "Contact IDs must be numbers"
			}
			v.AttendeeContactIDs = ids
		case meetings.FieldExternalAttendees:
			v.ExternalAttendees = raw
		case meetings.FieldNewDate:
			v.NewDate = raw
		case meetings.FieldNewStartTime:
			v.NewStartTime = raw
		case meetings.FieldNewEndTime:
			v.NewEndTime = raw
		}
	}

	if _, ok := m.form.Mode.(meetings.CreateMode); ok && clientID != v.ClientID {
		_ = m.form.SetClient(clientID)
		m.setInput(meetings.FieldContactAttendees, fieldValue(*v, meetings.FieldContactAttendees))
	}

	if len(parseErrs) > 0 {
		m.form.Errors = parseErrs
		return false
	}
	return true
}

func (m *Model) setInput(field, value string) {
	for i, f := range m.formFields {
		if f == field {
			m.formInputs[i].SetValue(value)
		}
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range splitList(s) {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return ids, fmt.Errorf("invalid contact id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (m Model) renderFormView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(strings.ToUpper(meetings.ModeName(m.form.Mode))))
	s.WriteString("\n")

	if m.form.Banner != "" {
		s.WriteString(bannerStyle.Render(m.form.Banner + "  (esc to dismiss)"))
		s.WriteString("\n\n")
	}
	if edit, ok := m.form.Mode.(meetings.EditMode); ok {
		s.WriteString(labelStyle.Render("  Client") + edit.ClientID + "\n")
	}

	for i, input := range m.formInputs {
		if i == m.focusIndex {
			s.WriteString("> ")
		} else {
			s.WriteString("  ")
		}
		s.WriteString(labelStyle.Render(fieldLabels[m.formFields[i]]))
		s.WriteString(input.View())
		s.WriteString("\n")
		if msg, ok := m.form.Errors[m.formFields[i]]; ok {
			s.WriteString(fieldErrorStyle.Render(msg))
			s.WriteString("\n")
		}
	}

	if options := m.form.ContactOptions(); len(options) > 0 {
		var names []string
		for _, c := range options {
			names = append(names, fmt.Sprintf("%d %s", c.ID, c.Name))
		}
		s.WriteString(helpStyle.Render("Contacts: " + strings.Join(names, ", ")))
		s.WriteString("\n")
	}

	if m.form.Submitting {
		s.WriteString(helpStyle.Render("Saving…"))
		s.WriteString("\n")
	}
	s.WriteString(m.renderFormHelp())
	return s.String()
}

func (m Model) renderFormHelp() string {
	help := []string{
		"Tab: Next field",
		"Enter: Save",
		"Esc: Cancel",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.form.Banner != "" {
			m.form.DismissBanner()
			m.store.ClearError()
			return m, nil
		}
		m.form = nil
		m.setView(m.returnTo)
		return m, nil
	case "tab", "down":
		m.focusIndex = (m.focusIndex + 1) % len(m.formInputs)
		m.updateFormFocus()
		return m, nil
	case "shift+tab", "up":
		m.focusIndex = (m.focusIndex - 1 + len(m.formInputs)) % len(m.formInputs)
		m.updateFormFocus()
		return m, nil
	case "enter":
		if m.form.Submitting {
			return m, nil
		}
		if !m.syncFormValues() {
			return m, nil
		}
		if !m.form.Validate() {
			return m, nil
		}
		m.form.Submitting = true
		return m, m.submit(m.form)
	}

	// Update current input
	var cmd tea.Cmd
	m.formInputs[m.focusIndex], cmd = m.formInputs[m.focusIndex].Update(msg)
	return m, cmd
}

func (m *Model) updateFormFocus() {
	for i := range m.formInputs {
		if i == m.focusIndex {
			m.formInputs[i].Focus()
		} else {
			m.formInputs[i].Blur()
		}
	}
}

func (m Model) handleEditLoaded(msg editLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.err = msg.err
		return m, nil
	}
	m.err = nil
	form := meetings.NewEditForm(msg.meeting)
	form.SetContacts(msg.contacts)
	return m.openForm(form), nil
}

func (m Model) handleContactsLoaded(msg contactsLoadedMsg) (tea.Model, tea.Cmd) {
	if m.viewMode != ViewForm || m.form == nil {
		return m, nil
	}
	if msg.err != nil {
		m.err = msg.err
		return m, nil
	}
	m.form.SetContacts(msg.contacts)
	return m, nil
}

func (m Model) handleSaved(msg savedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if msg.form != nil && m.viewMode == ViewForm {
			m.form = msg.form
			m.form.Submitting = false
		}
		return m, nil
	}

	// A nil form is a calendar drop.
	verb := "rescheduled"
	if msg.form != nil {
		switch msg.form.Mode.(type) {
		case meetings.CreateMode:
			verb = "created"
		case meetings.EditMode:
			verb = "updated"
		}
	}

	m.err = nil
	m.status = fmt.Sprintf("✓ Meeting %s: %s", verb, msg.meeting.Title)
	if m.viewMode == ViewForm {
		m.form = nil
		m.setView(m.returnTo)
	} else {
		m.refreshTooltip()
	}
	if m.viewMode == ViewDay {
		m.reloadDay()
	}
	return m, m.refresh()
}

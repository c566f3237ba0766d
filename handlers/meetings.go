// ABOUTME: Meeting MCP tool handlers
// ABOUTME: Implements list, get, create, update, reschedule, delete, and calendar_day tools
package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/rigboard/meetings"
	"github.com/harperreed/rigboard/models"
	"github.com/harperreed/rigboard/store"
)

type MeetingHandlers struct {
	store *store.Store
}

func NewMeetingHandlers(st *store.Store) *MeetingHandlers {
	return &MeetingHandlers{store: st}
}

type MeetingOutput struct {
	ID                 string   `json:"id"`
	ClientID           string   `json:"client_id"`
	ClientName         string   `json:"client_name,omitempty"`
	Title              string   `json:"title"`
	Description        string   `json:"description,omitempty"`
	Location           string   `json:"location,omitempty"`
	Date               string   `json:"date"`
	StartTime          string   `json:"start_time"`
	EndTime            string   `json:"end_time"`
	Type               string   `json:"type"`
	Status             string   `json:"status"`
	OrganizerUserID    string   `json:"organizer_user_id"`
	OrganizerName      string   `json:"organizer_name,omitempty"`
	AttendeeUserIDs    []string `json:"attendee_user_ids,omitempty"`
	AttendeeContactIDs []int64  `json:"attendee_contact_ids,omitempty"`
	ExternalAttendees  []string `json:"external_attendees,omitempty"`
	CanEdit            bool     `json:"can_edit"`
	CanReschedule      bool     `json:"can_reschedule"`
	CanDelete          bool     `json:"can_delete"`
}

func meetingToOutput(m models.Meeting) MeetingOutput {
	return MeetingOutput{
		ID:                 m.ID,
		ClientID:           m.ClientID,
		ClientName:         m.ClientName,
		Title:              m.Title,
		Description:        m.Description,
		Location:           m.Location,
		Date:               m.DateKey(),
		StartTime:          meetings.DisplayTime(m.StartTime),
		EndTime:            meetings.DisplayTime(m.EndTime),
		Type:               m.Type.String(),
		Status:             m.Status.String(),
		OrganizerUserID:    m.OrganizerUserID,
		OrganizerName:      m.OrganizerName,
		AttendeeUserIDs:    m.AttendeeUserIDs,
		AttendeeContactIDs: m.AttendeeContactIDs,
		ExternalAttendees:  m.ExternalAttendees,
		CanEdit:            meetings.CanEdit(m),
		CanReschedule:      meetings.CanReschedule(m),
		CanDelete:          meetings.CanDelete(m),
	}
}

func meetingsToOutput(ms []models.Meeting) []MeetingOutput {
	out := make([]MeetingOutput, 0, len(ms))
	for _, m := range ms {
		out = append(out, meetingToOutput(m))
	}
	return out
}

type ListMeetingsInput struct {
	ClientID   string `json:"client_id,omitempty" jsonschema:"Only meetings for this client"`
	PageNumber int    `json:"page_number,omitempty" jsonschema:"Page to fetch, starting at 1 (default 1)"`
	PageSize   int    `json:"page_size,omitempty" jsonschema:"Meetings per page (default from config)"`
}

type ListMeetingsOutput struct {
	Meetings   []MeetingOutput `json:"meetings"`
	PageNumber int             `json:"page_number"`
	TotalCount int             `json:"total_count"`
	HasMore    bool            `json:"has_more"`
}

func (h *MeetingHandlers) ListMeetings(ctx context.Context, _ *mcp.CallToolRequest, input ListMeetingsInput) (*mcp.CallToolResult, ListMeetingsOutput, error) {
	if input.ClientID != h.store.Snapshot().ClientFilter {
		h.store.SetClientFilter(input.ClientID)
	}
	err := h.store.Fetch(ctx, store.FetchParams{
		ClientID:   input.ClientID,
		PageNumber: input.PageNumber,
		PageSize:   input.PageSize,
	})
	if err != nil {
		return nil, ListMeetingsOutput{}, fmt.Errorf("failed to list meetings: %w", err)
	}

	st := h.store.Snapshot()
	return nil, ListMeetingsOutput{
		Meetings:   meetingsToOutput(st.Visible()),
		PageNumber: st.PageNumber,
		TotalCount: st.TotalCount,
		HasMore:    st.HasMore,
	}, nil
}

type GetMeetingInput struct {
	ID       string `json:"id" jsonschema:"Meeting ID (required)"`
	ClientID string `json:"client_id,omitempty" jsonschema:"Client ID; when set the full attendee detail is fetched"`
}

func (h *MeetingHandlers) GetMeeting(ctx context.Context, _ *mcp.CallToolRequest, input GetMeetingInput) (*mcp.CallToolResult, MeetingOutput, error) {
	if input.ID == "" {
		return nil, MeetingOutput{}, fmt.Errorf("id is required")
	}
	defer h.store.ClearDetail()

	var (
		m   models.Meeting
		err error
	)
	if input.ClientID != "" {
		m, err = h.store.FetchForEdit(ctx, input.ID, input.ClientID)
	} else {
		m, err = h.store.FetchDetail(ctx, input.ID)
	}
	if err != nil {
		return nil, MeetingOutput{}, fmt.Errorf("failed to get meeting: %w", err)
	}
	return nil, meetingToOutput(m), nil
}

// meetingFields is the editable part shared by create and update.
type meetingFields struct {
	Title              string
	Description        string
	Location           string
	Date               string
	StartTime          string
	EndTime            string
	Type               int
	OrganizerUserID    string
	AttendeeUserIDs    []string
	AttendeeContactIDs []int64
	ExternalAttendees  string
}

type CreateMeetingInput struct {
	ClientID           string   `json:"client_id" jsonschema:"Client the meeting is for (required)"`
	Title              string   `json:"title" jsonschema:"Meeting title (required, max 200 characters)"`
	Description        string   `json:"description,omitempty" jsonschema:"Description (max 1000 characters)"`
	Location           string   `json:"location,omitempty" jsonschema:"Location (max 500 characters)"`
	Date               string   `json:"date" jsonschema:"Date as YYYY-MM-DD (required)"`
	StartTime          string   `json:"start_time" jsonschema:"Start time as HH:mm (required)"`
	EndTime            string   `json:"end_time" jsonschema:"End time as HH:mm, after start (required)"`
	Type               int      `json:"type,omitempty" jsonschema:"1 in person, 2 virtual, 3 phone, 4 hybrid (default 1)"`
	OrganizerUserID    string   `json:"organizer_user_id" jsonschema:"Organizing staff user ID (required)"`
	AttendeeUserIDs    []string `json:"attendee_user_ids,omitempty" jsonschema:"Internal staff attendees"`
	AttendeeContactIDs []int64  `json:"attendee_contact_ids,omitempty" jsonschema:"Client contact attendees; must belong to the meeting's client"`
	ExternalAttendees  string   `json:"external_attendees,omitempty" jsonschema:"External emails separated by semicolons"`
}

func (in CreateMeetingInput) fields() meetingFields {
	return meetingFields{
		Title: in.Title, Description: in.Description, Location: in.Location,
		Date: in.Date, StartTime: in.StartTime, EndTime: in.EndTime, Type: in.Type,
		OrganizerUserID: in.OrganizerUserID, AttendeeUserIDs: in.AttendeeUserIDs,
		AttendeeContactIDs: in.AttendeeContactIDs, ExternalAttendees: in.ExternalAttendees,
	}
}

func (h *MeetingHandlers) CreateMeeting(ctx context.Context, _ *mcp.CallToolRequest, input CreateMeetingInput) (*mcp.CallToolResult, MeetingOutput, error) {
	form := meetings.NewCreateForm()
	form.Values.ClientID = input.ClientID
	mergeFields(&form.Values, input.fields())
	if err := h.loadContacts(ctx, form, input.ClientID); err != nil {
		return nil, MeetingOutput{}, err
	}

	saved, err := h.submit(ctx, form)
	if err != nil {
		return nil, MeetingOutput{}, fmt.Errorf("failed to create meeting: %w", err)
	}
	return nil, meetingToOutput(saved), nil
}

type UpdateMeetingInput struct {
	ID                 string   `json:"id" jsonschema:"Meeting ID (required)"`
	ClientID           string   `json:"client_id" jsonschema:"Client the meeting belongs to (required)"`
	Title              string   `json:"title,omitempty" jsonschema:"New title"`
	Description        string   `json:"description,omitempty" jsonschema:"New description"`
	Location           string   `json:"location,omitempty" jsonschema:"New location"`
	Date               string   `json:"date,omitempty" jsonschema:"New date as YYYY-MM-DD"`
	StartTime          string   `json:"start_time,omitempty" jsonschema:"New start time as HH:mm"`
	EndTime            string   `json:"end_time,omitempty" jsonschema:"New end time as HH:mm"`
	Type               int      `json:"type,omitempty" jsonschema:"1 in person, 2 virtual, 3 phone, 4 hybrid"`
	OrganizerUserID    string   `json:"organizer_user_id,omitempty" jsonschema:"New organizer user ID"`
	AttendeeUserIDs    []string `json:"attendee_user_ids,omitempty" jsonschema:"Replacement staff attendee list"`
	AttendeeContactIDs []int64  `json:"attendee_contact_ids,omitempty" jsonschema:"Replacement client contact attendee list"`
	ExternalAttendees  string   `json:"external_attendees,omitempty" jsonschema:"Replacement external emails separated by semicolons"`
}

func (in UpdateMeetingInput) fields() meetingFields {
	return meetingFields{
		Title: in.Title, Description: in.Description, Location: in.Location,
		Date: in.Date, StartTime: in.StartTime, EndTime: in.EndTime, Type: in.Type,
		OrganizerUserID: in.OrganizerUserID, AttendeeUserIDs: in.AttendeeUserIDs,
		AttendeeContactIDs: in.AttendeeContactIDs, ExternalAttendees: in.ExternalAttendees,
	}
}

// UpdateMeeting prefills from the edit detail so omitted fields, including
// attendee lists, are resubmitted unchanged.
func (h *MeetingHandlers) UpdateMeeting(ctx context.Context, _ *mcp.CallToolRequest, input UpdateMeetingInput) (*mcp.CallToolResult, MeetingOutput, error) {
	defer h.store.ClearDetail()
	m, err := h.store.FetchForEdit(ctx, input.ID, input.ClientID)
	if err != nil {
		return nil, MeetingOutput{}, fmt.Errorf("failed to load meeting: %w", err)
	}

	form := meetings.NewEditForm(m)
	mergeFields(&form.Values, input.fields())
	if err := h.loadContacts(ctx, form, m.ClientID); err != nil {
		return nil, MeetingOutput{}, err
	}

	saved, err := h.submit(ctx, form)
	if err != nil {
		return nil, MeetingOutput{}, fmt.Errorf("failed to update meeting: %w", err)
	}
	return nil, meetingToOutput(saved), nil
}

// mergeFields overwrites only the fields the caller supplied.
func mergeFields(v *meetings.Values, in meetingFields) {
	if in.Title != "" {
		v.Title = in.Title
	}
	if in.Description != "" {
		v.Description = in.Description
	}
	if in.Location != "" {
		v.Location = in.Location
	}
	if in.Date != "" {
		v.Date = in.Date
	}
	if in.StartTime != "" {
		v.StartTime = in.StartTime
	}
	if in.EndTime != "" {
		v.EndTime = in.EndTime
	}
	if in.Type != 0 {
		v.Type = models.MeetingType(in.Type)
	}
	if in.OrganizerUserID != "" {
		v.OrganizerUserID = in.OrganizerUserID
	}
	if in.AttendeeUserIDs != nil {
		v.AttendeeUserIDs = in.AttendeeUserIDs
	}
	if in.AttendeeContactIDs != nil {
		v.AttendeeContactIDs = in.AttendeeContactIDs
	}
	if in.ExternalAttendees != "" {
		v.ExternalAttendees = in.ExternalAttendees
	}
}

type RescheduleMeetingInput struct {
	ID           string `json:"id" jsonschema:"Meeting ID (required)"`
	NewDate      string `json:"new_date" jsonschema:"New date as YYYY-MM-DD (required)"`
	NewStartTime string `json:"new_start_time" jsonschema:"New start time as HH:mm (required)"`
	NewEndTime   string `json:"new_end_time" jsonschema:"New end time as HH:mm, after start (required)"`
}

func (h *MeetingHandlers) RescheduleMeeting(ctx context.Context, _ *mcp.CallToolRequest, input RescheduleMeetingInput) (*mcp.CallToolResult, MeetingOutput, error) {
	defer h.store.ClearDetail()
	m, err := h.meeting(ctx, input.ID)
	if err != nil {
		return nil, MeetingOutput{}, err
	}

	form := meetings.NewRescheduleForm(m)
	form.Values.NewDate = input.NewDate
	form.Values.NewStartTime = input.NewStartTime
	form.Values.NewEndTime = input.NewEndTime

	saved, err := h.submit(ctx, form)
	if err != nil {
		return nil, MeetingOutput{}, fmt.Errorf("failed to reschedule meeting: %w", err)
	}
	return nil, meetingToOutput(saved), nil
}

type DeleteMeetingInput struct {
	ID string `json:"id" jsonschema:"Meeting ID (required)"`
}

type DeleteMeetingOutput struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

func (h *MeetingHandlers) DeleteMeeting(ctx context.Context, _ *mcp.CallToolRequest, input DeleteMeetingInput) (*mcp.CallToolResult, DeleteMeetingOutput, error) {
	defer h.store.ClearDetail()
	if _, err := h.meeting(ctx, input.ID); err != nil {
		return nil, DeleteMeetingOutput{}, err
	}
	if err := h.store.Delete(ctx, input.ID); err != nil {
		return nil, DeleteMeetingOutput{}, fmt.Errorf("failed to delete meeting: %w", err)
	}
	return nil, DeleteMeetingOutput{ID: input.ID, Deleted: true}, nil
}

type CalendarDayInput struct {
	Date     string `json:"date" jsonschema:"Day as YYYY-MM-DD (required)"`
	ClientID string `json:"client_id,omitempty" jsonschema:"Only meetings for this client"`
}

type CalendarDayOutput struct {
	Date     string          `json:"date"`
	Label    string          `json:"label"`
	Grouped  bool            `json:"grouped"`
	Meetings []MeetingOutput `json:"meetings"`
}

// CalendarDay reports what the calendar shows for one day: individual
// meetings, or a grouped marker with the sorted day list.
func (h *MeetingHandlers) CalendarDay(ctx context.Context, _ *mcp.CallToolRequest, input CalendarDayInput) (*mcp.CallToolResult, CalendarDayOutput, error) {
	if input.Date == "" {
		return nil, CalendarDayOutput{}, fmt.Errorf("date is required")
	}
	if err := h.loadAll(ctx, input.ClientID); err != nil {
		return nil, CalendarDayOutput{}, err
	}

	out := CalendarDayOutput{Date: input.Date, Meetings: []MeetingOutput{}}
	events := meetings.EventsOn(meetings.BuildEvents(h.store.Visible()), input.Date)
	for _, e := range events {
		switch action := meetings.EventAction(e).(type) {
		case meetings.OpenDay:
			out.Grouped = true
			out.Label = e.Title
			out.Meetings = meetingsToOutput(action.Meetings)
		case meetings.OpenEdit:
			out.Meetings = append(out.Meetings, meetingToOutput(*e.Meeting))
		}
	}
	if out.Label == "" {
		out.Label = fmt.Sprintf("%d Meetings", len(out.Meetings))
	}
	return nil, out, nil
}

func (h *MeetingHandlers) loadAll(ctx context.Context, clientID string) error {
	if clientID != h.store.Snapshot().ClientFilter {
		h.store.SetClientFilter(clientID)
	}
	if err := h.store.LoadAll(ctx); err != nil {
		return fmt.Errorf("failed to load meetings: %w", err)
	}
	return nil
}

// meeting loads the current record for id into the detail slot. The server
// outlives any one list fetch, so the cached copy is not trusted here.
func (h *MeetingHandlers) meeting(ctx context.Context, id string) (models.Meeting, error) {
	if id == "" {
		return models.Meeting{}, fmt.Errorf("id is required")
	}
	m, err := h.store.FetchDetail(ctx, id)
	if err != nil {
		return models.Meeting{}, fmt.Errorf("failed to load meeting: %w", err)
	}
	return m, nil
}

func (h *MeetingHandlers) loadContacts(ctx context.Context, form *meetings.Form, clientID string) error {
	if clientID == "" {
		return nil
	}
	contacts, err := h.store.Contacts(ctx, clientID)
	if err != nil {
		return fmt.Errorf("failed to load client contacts: %w", err)
	}
	form.SetContacts(contacts)
	return nil
}

func (h *MeetingHandlers) submit(ctx context.Context, form *meetings.Form) (models.Meeting, error) {
	saved, err := form.Submit(ctx, h.store)
	if errors.Is(err, meetings.ErrValidation) {
		return models.Meeting{}, fmt.Errorf("%w: %s", err, form.Errors.Error())
	}
	return saved, err
}

// ABOUTME: Meeting route handlers for the reference backend
// ABOUTME: Enforces validation, status rules, and client-scoped contacts server side
package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/harperreed/rigboard/api"
	"github.com/harperreed/rigboard/db"
	"github.com/harperreed/rigboard/meetings"
	"github.com/harperreed/rigboard/models"
)

// meetingResponse is the wire shape: externalAttendees travels as one
// semicolon-joined string.
type meetingResponse struct {
	ID                 string                `json:"id"`
	TenantID           string                `json:"tenantId"`
	ClientID           string                `json:"clientId"`
	ClientName         string                `json:"clientName"`
	Title              string                `json:"title"`
	Description        string                `json:"description"`
	Location           string                `json:"location"`
	Date               string                `json:"date"`
	StartTime          string                `json:"startTime"`
	EndTime            string                `json:"endTime"`
	Type               int                   `json:"type"`
	Status             int                   `json:"status"`
	OrganizerUserID    string                `json:"organizerUserId"`
	OrganizerName      string                `json:"organizerName"`
	AttendeeUserIDs    []string              `json:"attendeeUserIds"`
	AttendeeContactIDs []int64               `json:"attendeeContactIds"`
	ExternalAttendees  string                `json:"externalAttendees"`
	Attendees          []models.AttendeeWire `json:"attendees,omitempty"`
	Created            time.Time             `json:"created"`
	Modified           *time.Time            `json:"modified"`
	IsDeleted          bool                  `json:"isDeleted"`
}

func toResponse(m models.Meeting) meetingResponse {
	return meetingResponse{
		ID:                 m.ID,
		TenantID:           m.TenantID,
		ClientID:           m.ClientID,
		ClientName:         m.ClientName,
		Title:              m.Title,
		Description:        m.Description,
		Location:           m.Location,
		Date:               m.Date,
		StartTime:          m.StartTime,
		EndTime:            m.EndTime,
		Type:               int(m.Type),
		Status:             int(m.Status),
		OrganizerUserID:    m.OrganizerUserID,
		OrganizerName:      m.OrganizerName,
		AttendeeUserIDs:    orEmpty(m.AttendeeUserIDs),
		AttendeeContactIDs: orEmptyIDs(m.AttendeeContactIDs),
		ExternalAttendees:  meetings.JoinExternal(m.ExternalAttendees),
		Created:            m.Created,
		Modified:           m.Modified,
		IsDeleted:          m.IsDeleted,
	}
}

// attendeeBreakdown lists every attendee as a tagged row for the edit fetch.
func attendeeBreakdown(m models.Meeting) []models.AttendeeWire {
	out := []models.AttendeeWire{}
	for i := range m.AttendeeUserIDs {
		id := m.AttendeeUserIDs[i]
		out = append(out, models.AttendeeWire{Kind: models.AttendeeUser, UserID: &id})
	}
	for i := range m.AttendeeContactIDs {
		id := m.AttendeeContactIDs[i]
		out = append(out, models.AttendeeWire{Kind: models.AttendeeContact, ContactID: &id})
	}
	for i := range m.ExternalAttendees {
		email := m.ExternalAttendees[i]
		out = append(out, models.AttendeeWire{Kind: models.AttendeeExternal, Email: &email})
	}
	return out
}

func (s *Server) handleListMeetings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := db.ListFilter{ClientID: q.Get("clientId")}
	var err error
	if filter.PageNumber, err = intParam(q.Get("pageNumber"), 1); err != nil {
		writeMessage(w, http.StatusBadRequest, "pageNumber must be a positive integer")
		return
	}
	if filter.PageSize, err = intParam(q.Get("pageSize"), 20); err != nil || filter.PageSize > 200 {
		writeMessage(w, http.StatusBadRequest, "pageSize must be between 1 and 200")
		return
	}

	page, err := db.ListMeetings(s.db, filter)
	if err != nil {
		s.internalError(w, err)
		return
	}

	out := models.Page[meetingResponse]{
		Items:      make([]meetingResponse, 0, len(page.Items)),
		PageNumber: page.PageNumber,
		PageSize:   page.PageSize,
		TotalCount: page.TotalCount,
		TotalPages: page.TotalPages,
	}
	for _, m := range page.Items {
		out.Items = append(out.Items, toResponse(m))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetMeeting(w http.ResponseWriter, r *http.Request) {
	m, ok := s.loadMeeting(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toResponse(*m))
}

func (s *Server) handleGetMeetingForEdit(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("clientId")
	if clientID == "" {
		writeMessage(w, http.StatusBadRequest, "clientId is required")
		return
	}
	m, ok := s.loadMeeting(w, r)
	if !ok {
		return
	}
	if m.ClientID != clientID {
		writeMessage(w, http.StatusNotFound, "Meeting not found")
		return
	}

	resp := toResponse(*m)
	resp.Attendees = attendeeBreakdown(*m)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateMeeting(w http.ResponseWriter, r *http.Request) {
	var in models.MeetingInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if in.ClientID != "" {
		client, err := db.GetClient(s.db, in.ClientID)
		if err != nil {
			s.internalError(w, err)
			return
		}
		if client == nil {
			writeMessage(w, http.StatusBadRequest, "Client not found")
			return
		}
	}

	ok, err := s.validate(w, meetings.CreateMode{}, in.ClientID, valuesFromInput(in))
	if err != nil {
		s.internalError(w, err)
		return
	}
	if !ok {
		return
	}

	m := meetingFromInput(in)
	m.TenantID = r.Header.Get(api.TenantHeader)
	if m.TenantID == "" {
		m.TenantID = s.tenantID
	}
	if err := db.CreateMeeting(s.db, &m); err != nil {
		s.internalError(w, err)
		return
	}

	s.respondMeeting(w, http.StatusCreated, m.ID)
}

func (s *Server) handleUpdateMeeting(w http.ResponseWriter, r *http.Request) {
	existing, ok := s.loadMeeting(w, r)
	if !ok {
		return
	}
	if clientID := r.URL.Query().Get("clientId"); clientID != "" && clientID != existing.ClientID {
		writeMessage(w, http.StatusNotFound, "Meeting not found")
		return
	}
	if !meetings.CanEdit(*existing) {
		writeNotPermitted(w, existing.Status)
		return
	}

	var in models.MeetingInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.ClientID != "" && in.ClientID != existing.ClientID {
		writeMessage(w, http.StatusBadRequest, "Client cannot be changed")
		return
	}

	mode := meetings.EditMode{ID: existing.ID, ClientID: existing.ClientID}
	ok, err := s.validate(w, mode, existing.ClientID, valuesFromInput(in))
	if err != nil {
		s.internalError(w, err)
		return
	}
	if !ok {
		return
	}

	m := meetingFromInput(in)
	m.ID = existing.ID
	if err := db.UpdateMeeting(s.db, &m); err != nil {
		s.dbError(w, err)
		return
	}
	s.respondMeeting(w, http.StatusOK, m.ID)
}

func (s *Server) handleRescheduleMeeting(w http.ResponseWriter, r *http.Request) {
	existing, ok := s.loadMeeting(w, r)
	if !ok {
		return
	}
	if !meetings.CanReschedule(*existing) {
		writeNotPermitted(w, existing.Status)
		return
	}

	var in models.RescheduleInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	values := meetings.Values{
		NewDate:      meetings.DisplayDate(in.NewDate),
		NewStartTime: meetings.DisplayTime(in.NewStartTime),
		NewEndTime:   meetings.DisplayTime(in.NewEndTime),
	}
	if fe := meetings.Validate(meetings.RescheduleMode{ID: existing.ID}, values, nil); len(fe) > 0 {
		writeValidation(w, fe)
		return
	}

	err := db.RescheduleMeeting(s.db, existing.ID,
		meetings.WireDate(values.NewDate), meetings.WireTime(values.NewStartTime), meetings.WireTime(values.NewEndTime))
	if err != nil {
		s.dbError(w, err)
		return
	}
	s.respondMeeting(w, http.StatusOK, existing.ID)
}

type statusInput struct {
	Status models.MeetingStatus `json:"status"`
}

// handleSetStatus moves a meeting along its lifecycle. Terminal meetings stay put.
func (s *Server) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	existing, ok := s.loadMeeting(w, r)
	if !ok {
		return
	}
	if meetings.IsTerminal(existing.Status) {
		writeNotPermitted(w, existing.Status)
		return
	}

	var in statusInput
	if err := decodeJSON(w, r, &in); err != nil || !in.Status.Valid() {
		writeMessage(w, http.StatusBadRequest, "status must be between 1 and 4")
		return
	}
	if err := db.SetMeetingStatus(s.db, existing.ID, in.Status); err != nil {
		s.dbError(w, err)
		return
	}
	s.respondMeeting(w, http.StatusOK, existing.ID)
}

func (s *Server) handleDeleteMeeting(w http.ResponseWriter, r *http.Request) {
	existing, ok := s.loadMeeting(w, r)
	if !ok {
		return
	}
	if !meetings.CanDelete(*existing) {
		writeNotPermitted(w, existing.Status)
		return
	}
	if err := db.DeleteMeeting(s.db, existing.ID); err != nil {
		s.dbError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// validate runs the shared form schema with the client's contacts as the
// allowed attendee set. It writes the 400 itself and reports false.
func (s *Server) validate(w http.ResponseWriter, mode meetings.Mode, clientID string, v meetings.Values) (bool, error) {
	contacts := []models.ClientContact{}
	if clientID != "" {
		var err error
		contacts, err = db.ListClientContacts(s.db, clientID)
		if err != nil {
			return false, err
		}
	}

	fe := meetings.Validate(mode, v, contacts)

	users, err := db.ListUsers(s.db)
	if err != nil {
		return false, err
	}
	known := make(map[string]bool, len(users))
	for _, u := range users {
		known[u.ID] = true
	}
	if v.OrganizerUserID != "" && !known[v.OrganizerUserID] {
		fe[meetings.FieldOrganizer] = "Organizer not found"
	}
	for _, id := range v.AttendeeUserIDs {
		if !known[id] {
			fe[meetings.FieldUserAttendees] = fmt.Sprintf("User %s not found", id)
			break
		}
	}

	if len(fe) > 0 {
		writeValidation(w, fe)
		return false, nil
	}
	return true, nil
}

func (s *Server) loadMeeting(w http.ResponseWriter, r *http.Request) (*models.Meeting, bool) {
	m, err := db.GetMeeting(s.db, chi.URLParam(r, "id"))
	if err != nil {
		s.dbError(w, err)
		return nil, false
	}
	return m, true
}

func (s *Server) respondMeeting(w http.ResponseWriter, status int, id string) {
	m, err := db.GetMeeting(s.db, id)
	if err != nil {
		s.dbError(w, err)
		return
	}
	writeJSON(w, status, toResponse(*m))
}

func (s *Server) dbError(w http.ResponseWriter, err error) {
	if errors.Is(err, db.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, "Meeting not found")
		return
	}
	s.internalError(w, err)
}

func (s *Server) internalError(w http.ResponseWriter, err error) {
	s.logger.Error("request failed", "err", err)
	writeMessage(w, http.StatusInternalServerError, "Internal server error")
}

func writeNotPermitted(w http.ResponseWriter, status models.MeetingStatus) {
	writeMessage(w, http.StatusConflict, fmt.Sprintf("Meeting is %s and cannot be modified", status))
}

func valuesFromInput(in models.MeetingInput) meetings.Values {
	return meetings.Values{
		ClientID:           in.ClientID,
		Title:              in.Title,
		Description:        in.Description,
		Location:           in.Location,
		Date:               meetings.DisplayDate(in.Date),
		StartTime:          meetings.DisplayTime(in.StartTime),
		EndTime:            meetings.DisplayTime(in.EndTime),
		Type:               in.Type,
		OrganizerUserID:    in.OrganizerUserID,
		AttendeeUserIDs:    in.AttendeeUserIDs,
		AttendeeContactIDs: in.AttendeeContactIDs,
		ExternalAttendees:  in.ExternalAttendees,
	}
}

func meetingFromInput(in models.MeetingInput) models.Meeting {
	return models.Meeting{
		ClientID:           in.ClientID,
		Title:              in.Title,
		Description:        in.Description,
		Location:           in.Location,
		Date:               meetings.WireDate(meetings.DisplayDate(in.Date)),
		StartTime:          meetings.WireTime(in.StartTime),
		EndTime:            meetings.WireTime(in.EndTime),
		Type:               in.Type,
		OrganizerUserID:    in.OrganizerUserID,
		AttendeeUserIDs:    in.AttendeeUserIDs,
		AttendeeContactIDs: in.AttendeeContactIDs,
		ExternalAttendees:  meetings.ParseExternal(in.ExternalAttendees),
	}
}

func intParam(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid positive integer %q", raw)
	}
	return n, nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func orEmptyIDs(s []int64) []int64 {
	if s == nil {
		return []int64{}
	}
	return s
}

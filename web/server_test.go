// ABOUTME: Integration tests for the reference backend
// ABOUTME: Drives the chi routes through the REST client and the meeting store
package web

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/rigboard/api"
	"github.com/harperreed/rigboard/db"
	"github.com/harperreed/rigboard/meetings"
	"github.com/harperreed/rigboard/models"
	"github.com/harperreed/rigboard/store"
)

const testToken = "test-token"

type fixture struct {
	db      *sql.DB
	srv     *httptest.Server
	client  *api.Client
	contact models.ClientContact
	foreign models.ClientContact
}

func setup(t *testing.T) *fixture {
	t.Helper()

	database, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	database.SetMaxOpenConns(1)
	require.NoError(t, db.InitSchema(database))
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, db.CreateClient(database, &models.Client{ID: "C1", Name: "Acme Scaffolding"}))
	require.NoError(t, db.CreateClient(database, &models.Client{ID: "C2", Name: "Northwind Rentals"}))
	require.NoError(t, db.CreateUser(database, &models.User{ID: "U1", Name: "Dana"}))
	require.NoError(t, db.CreateUser(database, &models.User{ID: "U2", Name: "Sam"}))

	f := &fixture{db: database}
	f.contact = models.ClientContact{ClientID: "C1", Name: "Ada"}
	f.foreign = models.ClientContact{ClientID: "C2", Name: "Nora"}
	require.NoError(t, db.CreateClientContact(database, &f.contact))
	require.NoError(t, db.CreateClientContact(database, &f.foreign))

	s := NewServer(database, Options{Token: testToken, TenantID: "T1"})
	s.now = func() time.Time { return time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC) }
	f.srv = httptest.NewServer(s.Handler())
	t.Cleanup(f.srv.Close)

	f.client, err = api.New(api.Options{BaseURL: f.srv.URL + "/api", Token: testToken})
	require.NoError(t, err)
	return f
}

func kickoff() models.MeetingInput {
	return models.MeetingInput{
		ClientID:        "C1",
		Title:           "Kickoff",
		Date:            "2025-03-10T00:00:00",
		StartTime:       "09:00:00",
		EndTime:         "10:00:00",
		Type:            models.TypeInPerson,
		OrganizerUserID: "U1",
	}
}

func (f *fixture) create(t *testing.T, in models.MeetingInput) string {
	t.Helper()
	m, err := f.client.CreateMeeting(context.Background(), in)
	require.NoError(t, err)
	require.NotNil(t, m.ID)
	return *m.ID
}

func (f *fixture) setStatus(t *testing.T, id string, status models.MeetingStatus) {
	t.Helper()
	body, _ := json.Marshal(map[string]int{"status": int(status)})
	req, err := http.NewRequest(http.MethodPatch, f.srv.URL+"/api/meetings/"+id+"/status", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+testToken)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateAndFetch(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	in := kickoff()
	in.AttendeeUserIDs = []string{"U2"}
	in.AttendeeContactIDs = []int64{f.contact.ID}
	in.ExternalAttendees = "a@x.com;b@y.com"
	id := f.create(t, in)

	got, err := f.client.GetMeeting(ctx, id)
	require.NoError(t, err)
	m := store.Normalize(got)
	assert.Equal(t, "Kickoff", m.Title)
	assert.Equal(t, "Acme Scaffolding", m.ClientName)
	assert.Equal(t, "T1", m.TenantID)
	assert.Equal(t, models.StatusScheduled, m.Status)
	assert.Equal(t, "a@x.com;b@y.com", *got.ExternalAttendees)
	assert.Equal(t, []string{"a@x.com", "b@y.com"}, m.ExternalAttendees)

	page, err := f.client.ListMeetings(ctx, api.ListParams{PageNumber: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalCount)
}

func TestCreateKeepsSeconds(t *testing.T) {
	f := setup(t)
	in := kickoff()
	in.StartTime = "10:00:00"
	in.EndTime = "10:00:30"
	id := f.create(t, in)

	stored, err := db.GetMeeting(f.db, id)
	require.NoError(t, err)
	assert.Equal(t, "10:00:00", stored.StartTime)
	assert.Equal(t, "10:00:30", stored.EndTime)

	_, err = f.client.RescheduleMeeting(context.Background(), id, models.RescheduleInput{
		NewDate: "2025-03-11T00:00:00", NewStartTime: "11:00:15", NewEndTime: "11:00:45",
	})
	require.NoError(t, err)
	stored, err = db.GetMeeting(f.db, id)
	require.NoError(t, err)
	assert.Equal(t, "11:00:15", stored.StartTime)
	assert.Equal(t, "11:00:45", stored.EndTime)
}

func TestCreateRejectsEndBeforeStart(t *testing.T) {
	f := setup(t)
	in := kickoff()
	in.EndTime = "09:00:00"

	_, err := f.client.CreateMeeting(context.Background(), in)
	require.Error(t, err)

	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "End time must be after start time", apiErr.Message)
}

func TestCreateRejectsForeignContact(t *testing.T) {
	f := setup(t)
	in := kickoff()
	in.AttendeeContactIDs = []int64{f.foreign.ID}

	_, err := f.client.CreateMeeting(context.Background(), in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not belong to the selected client")
}

func TestCreateRejectsUnknownClientAndOrganizer(t *testing.T) {
	f := setup(t)

	in := kickoff()
	in.ClientID = "missing"
	_, err := f.client.CreateMeeting(context.Background(), in)
	assert.EqualError(t, err, "Client not found")

	in = kickoff()
	in.OrganizerUserID = "ghost"
	_, err = f.client.CreateMeeting(context.Background(), in)
	assert.EqualError(t, err, "Organizer not found")
}

func TestEditFetchIsClientScoped(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	in := kickoff()
	in.AttendeeContactIDs = []int64{f.contact.ID}
	in.ExternalAttendees = "guest@x.com"
	id := f.create(t, in)

	w, err := f.client.GetMeetingForEdit(ctx, id, "C1")
	require.NoError(t, err)
	m := store.Normalize(w)
	assert.Equal(t, []int64{f.contact.ID}, m.AttendeeContactIDs)
	assert.Equal(t, []string{"guest@x.com"}, m.ExternalAttendees)

	_, err = f.client.GetMeetingForEdit(ctx, id, "C2")
	assert.ErrorIs(t, err, api.ErrNotFound)
}

func TestTerminalMeetingsConflict(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	id := f.create(t, kickoff())
	f.setStatus(t, id, models.StatusCancelled)

	_, err := f.client.UpdateMeetingForEdit(ctx, id, "C1", kickoff())
	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "Meeting is Cancelled and cannot be modified", apiErr.Message)

	_, err = f.client.RescheduleMeeting(ctx, id, models.RescheduleInput{
		NewDate: "2025-03-11T00:00:00", NewStartTime: "11:00:00", NewEndTime: "12:00:00",
	})
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.Status)

	err = f.client.DeleteMeeting(ctx, id)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.Status)
}

func TestUpdateKeepsClient(t *testing.T) {
	f := setup(t)
	id := f.create(t, kickoff())

	in := kickoff()
	in.ClientID = "C2"
	_, err := f.client.UpdateMeeting(context.Background(), id, in)
	assert.EqualError(t, err, "Client cannot be changed")
}

func TestDeleteHidesMeeting(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	id := f.create(t, kickoff())

	require.NoError(t, f.client.DeleteMeeting(ctx, id))

	_, err := f.client.GetMeeting(ctx, id)
	assert.ErrorIs(t, err, api.ErrNotFound)
}

func TestAuthRequired(t *testing.T) {
	f := setup(t)
	anon, err := api.New(api.Options{BaseURL: f.srv.URL + "/api"})
	require.NoError(t, err)

	_, err = anon.ListClients(context.Background())
	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestLookupRoutes(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	clients, err := f.client.ListClients(ctx)
	require.NoError(t, err)
	assert.Len(t, clients, 2)

	contacts, err := f.client.ListClientContacts(ctx, "C1")
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "Ada", contacts[0].Name)

	users, err := f.client.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestCalendarEventsFeed(t *testing.T) {
	f := setup(t)
	for _, start := range []string{"09:00:00", "11:00:00", "14:00:00"} {
		in := kickoff()
		in.StartTime = start
		in.EndTime = "15:00:00"
		f.create(t, in)
	}
	in := kickoff()
	in.Date = "2025-03-12T00:00:00"
	f.create(t, in)

	req, err := http.NewRequest(http.MethodGet, f.srv.URL+"/api/calendar/events", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+testToken)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var events []struct {
		ID     string `json:"id"`
		Title  string `json:"title"`
		Start  string `json:"start"`
		AllDay bool   `json:"allDay"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&events))
	require.Len(t, events, 2)
	assert.Equal(t, "3 Meetings", events[0].Title)
	assert.True(t, events[0].AllDay)
	assert.Equal(t, "2025-03-10", events[0].Start)
	assert.Equal(t, "2025-03-12T09:00:00", events[1].Start)
}

func TestStoreAgainstBackend(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	s := store.New(f.client, 2)

	form := meetings.NewCreateForm()
	form.Values.ClientID = "C1"
	form.Values.Title = "Kickoff"
	form.Values.Date = "2025-03-10"
	form.Values.StartTime = "09:00"
	form.Values.EndTime = "10:00"
	form.Values.OrganizerUserID = "U1"
	created, err := form.Submit(ctx, s)
	require.NoError(t, err)

	require.NoError(t, s.Refresh(ctx))
	require.Len(t, s.Visible(), 1)

	rs := meetings.NewRescheduleForm(created)
	rs.Values.NewDate = "2025-03-11"
	rs.Values.NewStartTime = "11:00"
	rs.Values.NewEndTime = "12:00"
	_, err = rs.Submit(ctx, s)
	require.NoError(t, err)

	got, ok := s.Lookup(created.ID)
	require.True(t, ok)
	assert.Equal(t, "2025-03-11T00:00:00", got.Date)
	assert.Equal(t, "11:00:00", got.StartTime)
	assert.Equal(t, models.StatusScheduled, got.Status)

	// A server-side rejection surfaces as the form banner.
	bad := meetings.NewCreateForm()
	bad.Values = form.Values
	bad.Values.OrganizerUserID = "ghost"
	_, err = bad.Submit(ctx, s)
	require.Error(t, err)
	assert.Equal(t, "Organizer not found", bad.Banner)
	assert.Equal(t, "Organizer not found", s.Snapshot().Error)
}

// ABOUTME: Tests for the meeting MCP tool handlers
// ABOUTME: Runs the tools against the reference backend through the REST client and store
package handlers

import (
	"context"
	"database/sql"
	"net/http/httptest"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/rigboard/api"
	"github.com/harperreed/rigboard/db"
	"github.com/harperreed/rigboard/models"
	"github.com/harperreed/rigboard/store"
	"github.com/harperreed/rigboard/web"
)

type fixture struct {
	db    *sql.DB
	store *store.Store
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
	require.NoError(t, db.CreateClientContact(database, &models.ClientContact{ClientID: "C1", Name: "Ada"}))
	require.NoError(t, db.CreateClientContact(database, &models.ClientContact{ClientID: "C2", Name: "Nora"}))

	srv := httptest.NewServer(web.NewServer(database, web.Options{Token: "t", TenantID: "T1"}).Handler())
	t.Cleanup(srv.Close)

	client, err := api.New(api.Options{BaseURL: srv.URL + "/api", Token: "t"})
	require.NoError(t, err)

	return &fixture{db: database, store: store.New(client, 2)}
}

func kickoffInput(start, end string) CreateMeetingInput {
	return CreateMeetingInput{
		ClientID:        "C1",
		Title:           "Kickoff " + start,
		Date:            "2025-03-10",
		StartTime:       start,
		EndTime:         end,
		OrganizerUserID: "U1",
	}
}

func TestCreateAndGetMeetingTools(t *testing.T) {
	f := setup(t)
	h := NewMeetingHandlers(f.store)
	ctx := context.Background()

	in := kickoffInput("09:00", "10:00")
	in.ExternalAttendees = "guest@example.com"
	_, created, err := h.CreateMeeting(ctx, nil, in)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Scheduled", created.Status)
	assert.Equal(t, "In Person", created.Type)
	assert.True(t, created.CanEdit)

	_, got, err := h.GetMeeting(ctx, nil, GetMeetingInput{ID: created.ID, ClientID: "C1"})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", got.Date)
	assert.Equal(t, "09:00", got.StartTime)
	assert.Equal(t, []string{"guest@example.com"}, got.ExternalAttendees)
}

func TestCreateMeetingToolValidation(t *testing.T) {
	f := setup(t)
	h := NewMeetingHandlers(f.store)

	_, _, err := h.CreateMeeting(context.Background(), nil, kickoffInput("10:00", "09:00"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "End time must be after start time")
}

func TestCreateMeetingToolRejectsForeignContact(t *testing.T) {
	f := setup(t)
	h := NewMeetingHandlers(f.store)

	contacts, err := db.ListClientContacts(f.db, "C2")
	require.NoError(t, err)
	require.Len(t, contacts, 1)

	in := kickoffInput("09:00", "10:00")
	in.AttendeeContactIDs = []int64{contacts[0].ID}
	_, _, err = h.CreateMeeting(context.Background(), nil, in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not belong to the selected client")
}

func TestUpdateMeetingToolKeepsOmittedFields(t *testing.T) {
	f := setup(t)
	h := NewMeetingHandlers(f.store)
	ctx := context.Background()

	in := kickoffInput("09:00", "10:00")
	in.Location = "Yard 4"
	_, created, err := h.CreateMeeting(ctx, nil, in)
	require.NoError(t, err)

	_, updated, err := h.UpdateMeeting(ctx, nil, UpdateMeetingInput{ID: created.ID, ClientID: "C1", Title: "Site survey"})
	require.NoError(t, err)
	assert.Equal(t, "Site survey", updated.Title)
	assert.Equal(t, "Yard 4", updated.Location)
	assert.Equal(t, "09:00", updated.StartTime)
}

func TestRescheduleMeetingTool(t *testing.T) {
	f := setup(t)
	h := NewMeetingHandlers(f.store)
	ctx := context.Background()

	_, created, err := h.CreateMeeting(ctx, nil, kickoffInput("09:00", "10:00"))
	require.NoError(t, err)

	_, moved, err := h.RescheduleMeeting(ctx, nil, RescheduleMeetingInput{
		ID: created.ID, NewDate: "2025-03-11", NewStartTime: "11:00", NewEndTime: "12:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-11", moved.Date)
	assert.Equal(t, "11:00", moved.StartTime)
	assert.Equal(t, "Scheduled", moved.Status)
}

func TestTerminalMeetingCannotBeRescheduled(t *testing.T) {
	f := setup(t)
	h := NewMeetingHandlers(f.store)
	ctx := context.Background()

	_, created, err := h.CreateMeeting(ctx, nil, kickoffInput("09:00", "10:00"))
	require.NoError(t, err)
	require.NoError(t, db.SetMeetingStatus(f.db, created.ID, models.StatusCancelled))

	_, _, err = h.RescheduleMeeting(ctx, nil, RescheduleMeetingInput{
		ID: created.ID, NewDate: "2025-03-11", NewStartTime: "11:00", NewEndTime: "12:00",
	})
	assert.Error(t, err)

	stored, err := db.GetMeeting(f.db, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "09:00:00", stored.StartTime)
}

func TestDeleteAndListMeetingTools(t *testing.T) {
	f := setup(t)
	h := NewMeetingHandlers(f.store)
	ctx := context.Background()

	_, first, err := h.CreateMeeting(ctx, nil, kickoffInput("09:00", "10:00"))
	require.NoError(t, err)
	_, _, err = h.CreateMeeting(ctx, nil, kickoffInput("11:00", "12:00"))
	require.NoError(t, err)

	_, out, err := h.DeleteMeeting(ctx, nil, DeleteMeetingInput{ID: first.ID})
	require.NoError(t, err)
	assert.True(t, out.Deleted)

	_, list, err := h.ListMeetings(ctx, nil, ListMeetingsInput{ClientID: "C1"})
	require.NoError(t, err)
	require.Len(t, list.Meetings, 1)
	assert.Equal(t, "Kickoff 11:00", list.Meetings[0].Title)
	assert.Equal(t, 1, list.TotalCount)
	assert.False(t, list.HasMore)
}

func TestCalendarDayTool(t *testing.T) {
	f := setup(t)
	h := NewMeetingHandlers(f.store)
	ctx := context.Background()

	for _, slot := range [][2]string{{"13:00", "14:00"}, {"09:00", "10:00"}} {
		_, _, err := h.CreateMeeting(ctx, nil, kickoffInput(slot[0], slot[1]))
		require.NoError(t, err)
	}

	_, day, err := h.CalendarDay(ctx, nil, CalendarDayInput{Date: "2025-03-10"})
	require.NoError(t, err)
	assert.False(t, day.Grouped)
	assert.Len(t, day.Meetings, 2)

	_, _, err = h.CreateMeeting(ctx, nil, kickoffInput("11:00", "12:00"))
	require.NoError(t, err)

	_, day, err = h.CalendarDay(ctx, nil, CalendarDayInput{Date: "2025-03-10"})
	require.NoError(t, err)
	assert.True(t, day.Grouped)
	assert.Equal(t, "3 Meetings", day.Label)
	require.Len(t, day.Meetings, 3)
	assert.Equal(t, "09:00", day.Meetings[0].StartTime)
	assert.Equal(t, "11:00", day.Meetings[1].StartTime)
	assert.Equal(t, "13:00", day.Meetings[2].StartTime)

	_, empty, err := h.CalendarDay(ctx, nil, CalendarDayInput{Date: "2025-03-11"})
	require.NoError(t, err)
	assert.Empty(t, empty.Meetings)
}

func TestToolsDoNotKeepStaleDetail(t *testing.T) {
	f := setup(t)
	h := NewMeetingHandlers(f.store)
	ctx := context.Background()

	_, created, err := h.CreateMeeting(ctx, nil, kickoffInput("09:00", "10:00"))
	require.NoError(t, err)
	_, _, err = h.GetMeeting(ctx, nil, GetMeetingInput{ID: created.ID})
	require.NoError(t, err)
	assert.Nil(t, f.store.Snapshot().Detail)

	require.NoError(t, db.SetMeetingStatus(f.db, created.ID, models.StatusCancelled))
	_, list, err := h.ListMeetings(ctx, nil, ListMeetingsInput{ClientID: "C1"})
	require.NoError(t, err)
	require.Len(t, list.Meetings, 1)
	assert.Equal(t, "Cancelled", list.Meetings[0].Status)

	_, _, err = h.RescheduleMeeting(ctx, nil, RescheduleMeetingInput{
		ID: created.ID, NewDate: "2025-03-11", NewStartTime: "11:00", NewEndTime: "12:00",
	})
	assert.ErrorIs(t, err, store.ErrNotPermitted)
	assert.Nil(t, f.store.Snapshot().Detail)
}

// ABOUTME: Tests for the meetings REST client
// ABOUTME: Uses httptest servers to verify routes, headers, payloads, and error parsing
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/rigboard/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Options{BaseURL: srv.URL + "/api", Token: "secret", TenantID: "T1"})
	require.NoError(t, err)
	return c
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)

	_, err = New(Options{BaseURL: "ftp://example.com"})
	assert.Error(t, err)
}

func TestListMeetingsSendsQueryAndHeaders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/meetings", r.URL.Path)
		assert.Equal(t, "C1", r.URL.Query().Get("clientId"))
		assert.Equal(t, "2", r.URL.Query().Get("pageNumber"))
		assert.Equal(t, "25", r.URL.Query().Get("pageSize"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "T1", r.Header.Get(TenantHeader))
		assert.Len(t, r.Header.Get(RequestIDHeader), 26)

		_, _ = io.WriteString(w, `{"items":[{"id":"m1","title":"Kickoff"}],"pageNumber":2,"pageSize":25,"totalCount":26,"totalPages":2}`)
	})

	page, err := c.ListMeetings(context.Background(), ListParams{ClientID: "C1", PageNumber: 2, PageSize: 25})
	require.NoError(t, err)

	require.Len(t, page.Items, 1)
	assert.Equal(t, "m1", *page.Items[0].ID)
	assert.Equal(t, 26, page.TotalCount)
	assert.False(t, page.HasMore())
}

func TestGetMeetingForEditIsClientScoped(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/meetings/m1/edit", r.URL.Path)
		assert.Equal(t, "C1", r.URL.Query().Get("clientId"))
		_, _ = io.WriteString(w, `{"id":"m1","clientId":"C1","attendees":[{"attendeeType":2,"clientContactId":4}]}`)
	})

	m, err := c.GetMeetingForEdit(context.Background(), "m1", "C1")
	require.NoError(t, err)
	require.Len(t, m.Attendees, 1)
	assert.Equal(t, models.AttendeeContact, m.Attendees[0].Kind)
}

func TestGetMeetingForEditRequiresClient(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := c.GetMeetingForEdit(context.Background(), "m1", "")
	assert.Error(t, err)
	assert.False(t, called)
}

func TestCreateMeetingPostsPayload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in models.MeetingInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "Kickoff", in.Title)
		assert.Equal(t, "a@x.com;b@y.com", in.ExternalAttendees)

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"m9","title":"Kickoff","status":1}`)
	})

	m, err := c.CreateMeeting(context.Background(), models.MeetingInput{
		Title:             "Kickoff",
		ExternalAttendees: "a@x.com;b@y.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "m9", *m.ID)
}

func TestRescheduleAndDeleteRoutes(t *testing.T) {
	var seen []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		var in models.RescheduleInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "11:00:00", in.NewStartTime)
		_, _ = io.WriteString(w, `{"id":"m1"}`)
	})

	_, err := c.RescheduleMeeting(context.Background(), "m1", models.RescheduleInput{
		NewDate: "2025-03-11T00:00:00", NewStartTime: "11:00:00", NewEndTime: "12:00:00",
	})
	require.NoError(t, err)
	require.NoError(t, c.DeleteMeeting(context.Background(), "m1"))

	assert.Equal(t, []string{"PATCH /api/meetings/m1/reschedule", "DELETE /api/meetings/m1"}, seen)
}

func TestMeetingIDEscapedOnce(t *testing.T) {
	var seen []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.URL.EscapedPath())
		_, _ = io.WriteString(w, `{"id":"a/b%c"}`)
	})

	m, err := c.GetMeeting(context.Background(), "a/b%c")
	require.NoError(t, err)
	assert.Equal(t, "a/b%c", *m.ID)
	_, err = c.RescheduleMeeting(context.Background(), "a/b%c", models.RescheduleInput{})
	require.NoError(t, err)

	assert.Equal(t, []string{"/api/meetings/a%2Fb%25c", "/api/meetings/a%2Fb%25c/reschedule"}, seen)
}

func TestUpdateForEditCarriesClient(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "C1", r.URL.Query().Get("clientId"))
		_, _ = io.WriteString(w, `{"id":"m1"}`)
	})

	_, err := c.UpdateMeetingForEdit(context.Background(), "m1", "C1", models.MeetingInput{Title: "x"})
	require.NoError(t, err)
}

func TestErrorParsing(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"message", http.StatusBadRequest, `{"message":"Client is inactive"}`, "Client is inactive"},
		{"error", http.StatusConflict, `{"error":"meeting is cancelled"}`, "meeting is cancelled"},
		{"problem", http.StatusBadRequest, `{"title":"Bad Request","detail":"End time must be after start time"}`, "End time must be after start time"},
		{"validation", http.StatusBadRequest, `{"title":"One or more validation errors occurred.","errors":{"Title":["Title is required"]}}`, "Title is required"},
		{"plain", http.StatusBadGateway, `upstream down`, "upstream down"},
		{"empty", http.StatusInternalServerError, ``, "request failed with status 500"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			})

			_, err := c.GetMeeting(context.Background(), "m1")
			require.Error(t, err)

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tc.status, apiErr.Status)
			assert.Equal(t, tc.want, err.Error())
		})
	}
}

func TestNotFoundIsSentinel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message":"Meeting not found"}`)
	})

	_, err := c.GetMeeting(context.Background(), "gone")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Meeting not found", Reason(err))
}

func TestLookups(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/clients":
			_, _ = io.WriteString(w, `[{"id":"C1","name":"Acme Scaffolding"}]`)
		case "/api/users":
			_, _ = io.WriteString(w, `[{"id":"U1","name":"Dana"}]`)
		case "/api/client-contacts":
			assert.Equal(t, "C1", r.URL.Query().Get("clientId"))
			_, _ = io.WriteString(w, `[{"id":1,"clientId":"C1","name":"Ada"}]`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	clients, err := c.ListClients(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Acme Scaffolding", clients[0].Name)

	users, err := c.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "U1", users[0].ID)

	contacts, err := c.ListClientContacts(context.Background(), "C1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), contacts[0].ID)
}

// ABOUTME: Lookup and calendar feed handlers for the reference backend
// ABOUTME: Serves clients, users, client contacts, and aggregated calendar events
package web

import (
	"net/http"
	"time"

	"github.com/harperreed/rigboard/db"
	"github.com/harperreed/rigboard/meetings"
)

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := db.ListClients(s.db)
	if err != nil {
		s.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clients)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := db.ListUsers(s.db)
	if err != nil {
		s.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleListClientContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := db.ListClientContacts(s.db, r.URL.Query().Get("clientId"))
	if err != nil {
		s.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contacts)
}

// handleCalendarEvents serves the aggregated events between from and to
// (YYYY-MM-DD, inclusive). Both default to the current month.
func (s *Server) handleCalendarEvents(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	from := first.Format("2006-01-02")
	to := first.AddDate(0, 1, -1).Format("2006-01-02")

	q := r.URL.Query()
	if v := q.Get("from"); v != "" {
		from = v
	}
	if v := q.Get("to"); v != "" {
		to = v
	}
	for _, d := range []string{from, to} {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			writeMessage(w, http.StatusBadRequest, "from and to must be YYYY-MM-DD")
			return
		}
	}

	ms, err := db.ListMeetingsBetween(s.db, from, to)
	if err != nil {
		s.internalError(w, err)
		return
	}
	events := meetings.BuildEvents(ms)
	if events == nil {
		events = []meetings.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

// ABOUTME: State and actions for the meeting record store
// ABOUTME: Every change to State goes through an Action applied by Reduce
package store

import (
	"github.com/harperreed/rigboard/meetings"
	"github.com/harperreed/rigboard/models"
)

// State is the client-held cache of server-owned meetings. PageNumber is the
// last page merged into Items; zero means the next fetch is page 1.
type State struct {
	Items        []models.Meeting
	ClientFilter string
	PageNumber   int
	PageSize     int
	TotalCount   int
	TotalPages   int
	HasMore      bool
	Loading      bool

	// Generation changes whenever the client filter does; list responses
	// tagged with an older generation are dropped.
	Generation uint64

	Detail        *models.Meeting
	DetailLoading bool
	NotFound      bool

	Saving bool
	Error  string
}

// Initial is the empty store state.
func Initial() State {
	return State{HasMore: true}
}

// Visible returns the list items that are not soft-deleted.
func (s State) Visible() []models.Meeting {
	out := make([]models.Meeting, 0, len(s.Items))
	for _, m := range s.Items {
		if !m.IsDeleted {
			out = append(out, m)
		}
	}
	return out
}

// Lookup finds a meeting by id, preferring the detail slot over the list copy.
func (s State) Lookup(id string) (models.Meeting, bool) {
	if s.Detail != nil && s.Detail.ID == id {
		return *s.Detail, true
	}
	for _, m := range s.Items {
		if m.ID == id {
			return m, true
		}
	}
	return models.Meeting{}, false
}

// Terminal reports whether any cached copy of id is in a terminal status.
// Terminal statuses are never left, so one terminal copy outranks the rest.
func (s State) Terminal(id string) bool {
	if s.Detail != nil && s.Detail.ID == id && meetings.IsTerminal(s.Detail.Status) {
		return true
	}
	for _, m := range s.Items {
		if m.ID == id && meetings.IsTerminal(m.Status) {
			return true
		}
	}
	return false
}

// Action is anything Reduce knows how to apply.
type Action interface {
	isAction()
}

type FetchPending struct {
	PageNumber int
}

type FetchFulfilled struct {
	Generation uint64
	Page       models.Page[models.Meeting]
}

type FetchRejected struct {
	Generation uint64
	Message    string
}

type ClientFilterSet struct {
	ClientID string
}

type DetailPending struct{}

type DetailFulfilled struct {
	Meeting models.Meeting
}

type DetailRejected struct {
	Message  string
	NotFound bool
}

type DetailCleared struct{}

type SavePending struct{}

type SaveRejected struct {
	Message string
}

type MeetingCreated struct {
	Meeting models.Meeting
}

type MeetingUpdated struct {
	Meeting models.Meeting
}

type MeetingDeleted struct {
	ID string
}

type ErrorCleared struct{}

func (FetchPending) isAction()    {}
func (FetchFulfilled) isAction()  {}
func (FetchRejected) isAction()   {}
func (ClientFilterSet) isAction() {}
func (DetailPending) isAction()   {}
func (DetailFulfilled) isAction() {}
func (DetailRejected) isAction()  {}
func (DetailCleared) isAction()   {}
func (SavePending) isAction()     {}
func (SaveRejected) isAction()    {}
func (MeetingCreated) isAction()  {}
func (MeetingUpdated) isAction()  {}
func (MeetingDeleted) isAction()  {}
func (ErrorCleared) isAction()    {}

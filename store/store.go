// ABOUTME: Meeting record store with async thunks over the REST client
// ABOUTME: Serializes dispatch with a mutex and guards list responses by generation
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/harperreed/rigboard/api"
	"github.com/harperreed/rigboard/meetings"
	"github.com/harperreed/rigboard/models"
)

const DefaultPageSize = 20

var (
	// ErrNotPermitted is returned for mutations of a cached terminal-status meeting.
	ErrNotPermitted = meetings.ErrNotPermitted
	// ErrMissingClientID blocks the client-scoped edit fetch and update.
	ErrMissingClientID = errors.New("client id is required")
)

// API is the subset of the REST client the store calls.
type API interface {
	ListMeetings(ctx context.Context, p api.ListParams) (models.Page[models.MeetingWire], error)
	GetMeeting(ctx context.Context, id string) (models.MeetingWire, error)
	GetMeetingForEdit(ctx context.Context, id, clientID string) (models.MeetingWire, error)
	CreateMeeting(ctx context.Context, in models.MeetingInput) (models.MeetingWire, error)
	UpdateMeeting(ctx context.Context, id string, in models.MeetingInput) (models.MeetingWire, error)
	UpdateMeetingForEdit(ctx context.Context, id, clientID string, in models.MeetingInput) (models.MeetingWire, error)
	RescheduleMeeting(ctx context.Context, id string, in models.RescheduleInput) (models.MeetingWire, error)
	SetMeetingStatus(ctx context.Context, id string, status models.MeetingStatus) (models.MeetingWire, error)
	DeleteMeeting(ctx context.Context, id string) error

	ListClients(ctx context.Context) ([]models.Client, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	ListClientContacts(ctx context.Context, clientID string) ([]models.ClientContact, error)
}

var _ meetings.Submitter = (*Store)(nil)

// FetchParams selects one list page. Zero values take the store defaults.
type FetchParams struct {
	ClientID   string
	PageNumber int
	PageSize   int
}

// ActionError carries the human-readable message shown to the user and the
// underlying cause.
type ActionError struct {
	Message string
	Err     error
}

func (e *ActionError) Error() string { return e.Message }
func (e *ActionError) Unwrap() error { return e.Err }

// Store holds the meeting cache. It is safe for concurrent use.
type Store struct {
	api      API
	pageSize int

	mu    sync.Mutex
	state State
}

// New creates a store over client. pageSize <= 0 uses DefaultPageSize.
func New(client API, pageSize int) *Store {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Store{api: client, pageSize: pageSize, state: Initial()}
}

// Dispatch applies a and returns the resulting state.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, a)
	return s.state
}

// Snapshot returns the current state. Reduce never mutates in place, so the
// returned value is safe to read while the store keeps changing.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) Visible() []models.Meeting {
	return s.Snapshot().Visible()
}

func (s *Store) Lookup(id string) (models.Meeting, bool) {
	return s.Snapshot().Lookup(id)
}

func (s *Store) PageSize() int {
	return s.pageSize
}

// Fetch loads one page. Page 1 replaces the cache and later pages append.
func (s *Store) Fetch(ctx context.Context, p FetchParams) error {
	if p.PageNumber <= 0 {
		p.PageNumber = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = s.pageSize
	}
	gen := s.Dispatch(FetchPending{PageNumber: p.PageNumber}).Generation
	return s.runFetch(ctx, p, gen)
}

// Refresh reloads page 1 for the current client filter.
func (s *Store) Refresh(ctx context.Context) error {
	return s.Fetch(ctx, FetchParams{ClientID: s.Snapshot().ClientFilter})
}

// LoadMore fetches the next page when one exists and no fetch is in flight.
// It reports whether a request was issued.
func (s *Store) LoadMore(ctx context.Context) (bool, error) {
	s.mu.Lock()
	st := s.state
	if !st.HasMore || st.Loading {
		s.mu.Unlock()
		return false, nil
	}
	p := FetchParams{ClientID: st.ClientFilter, PageNumber: st.PageNumber + 1, PageSize: s.pageSize}
	s.state = Reduce(st, FetchPending{PageNumber: p.PageNumber})
	gen := s.state.Generation
	s.mu.Unlock()

	return true, s.runFetch(ctx, p, gen)
}

// LoadAll reloads page 1 and keeps fetching until no page remains, so
// callers that group by day see every meeting.
func (s *Store) LoadAll(ctx context.Context) error {
	if err := s.Refresh(ctx); err != nil {
		return err
	}
	for {
		issued, err := s.LoadMore(ctx)
		if err != nil {
			return err
		}
		if !issued {
			return nil
		}
	}
}

// SetClientFilter switches the list to one client ("" for all) and resets
// pagination. Pages still in flight for the previous filter are discarded.
func (s *Store) SetClientFilter(clientID string) {
	st := s.Dispatch(ClientFilterSet{ClientID: clientID})
	log.Debug("client filter set", "client_id", clientID, "generation", st.Generation)
}

func (s *Store) runFetch(ctx context.Context, p FetchParams, gen uint64) error {
	page, err := s.api.ListMeetings(ctx, api.ListParams{
		ClientID:   p.ClientID,
		PageNumber: p.PageNumber,
		PageSize:   p.PageSize,
	})
	if err != nil {
		msg := message(err, "Failed to load meetings")
		s.Dispatch(FetchRejected{Generation: gen, Message: msg})
		return &ActionError{Message: msg, Err: err}
	}

	st := s.Dispatch(FetchFulfilled{Generation: gen, Page: NormalizePage(page)})
	if st.Generation != gen {
		log.Debug("dropped stale page", "page", p.PageNumber, "client_id", p.ClientID)
	}
	return nil
}

// FetchDetail loads the list-level record for id into the detail slot.
func (s *Store) FetchDetail(ctx context.Context, id string) (models.Meeting, error) {
	s.Dispatch(DetailPending{})
	w, err := s.api.GetMeeting(ctx, id)
	return s.finishDetail(w, err)
}

// FetchForEdit loads the richer client-scoped record the edit form needs.
func (s *Store) FetchForEdit(ctx context.Context, id, clientID string) (models.Meeting, error) {
	if clientID == "" {
		return models.Meeting{}, ErrMissingClientID
	}
	s.Dispatch(DetailPending{})
	w, err := s.api.GetMeetingForEdit(ctx, id, clientID)
	return s.finishDetail(w, err)
}

func (s *Store) finishDetail(w models.MeetingWire, err error) (models.Meeting, error) {
	if err != nil {
		msg := message(err, "Failed to load meeting")
		s.Dispatch(DetailRejected{Message: msg, NotFound: errors.Is(err, api.ErrNotFound)})
		return models.Meeting{}, &ActionError{Message: msg, Err: err}
	}
	m := Normalize(w)
	s.Dispatch(DetailFulfilled{Meeting: m})
	return m, nil
}

// ClearDetail empties the detail slot once the view that fetched it closes.
func (s *Store) ClearDetail() {
	s.Dispatch(DetailCleared{})
}

// ClearError dismisses the current error message.
func (s *Store) ClearError() {
	s.Dispatch(ErrorCleared{})
}

func (s *Store) Create(ctx context.Context, in models.MeetingInput) (models.Meeting, error) {
	s.Dispatch(SavePending{})
	w, err := s.api.CreateMeeting(ctx, in)
	if err != nil {
		return models.Meeting{}, s.reject(err, "Failed to create meeting")
	}
	m := Normalize(w)
	s.Dispatch(MeetingCreated{Meeting: m})
	log.Info("meeting created", "id", m.ID, "client_id", m.ClientID)
	return m, nil
}

func (s *Store) Update(ctx context.Context, id string, in models.MeetingInput) (models.Meeting, error) {
	if err := s.permitted(id); err != nil {
		return models.Meeting{}, err
	}
	s.Dispatch(SavePending{})
	w, err := s.api.UpdateMeeting(ctx, id, in)
	if err != nil {
		return models.Meeting{}, s.reject(err, "Failed to update meeting")
	}
	return s.updated(w), nil
}

// UpdateForEdit submits the complete edit payload to the client-scoped endpoint.
func (s *Store) UpdateForEdit(ctx context.Context, id, clientID string, in models.MeetingInput) (models.Meeting, error) {
	if clientID == "" {
		return models.Meeting{}, ErrMissingClientID
	}
	if err := s.permitted(id); err != nil {
		return models.Meeting{}, err
	}
	s.Dispatch(SavePending{})
	w, err := s.api.UpdateMeetingForEdit(ctx, id, clientID, in)
	if err != nil {
		return models.Meeting{}, s.reject(err, "Failed to update meeting")
	}
	return s.updated(w), nil
}

func (s *Store) Reschedule(ctx context.Context, id string, in models.RescheduleInput) (models.Meeting, error) {
	if err := s.permitted(id); err != nil {
		return models.Meeting{}, err
	}
	s.Dispatch(SavePending{})
	w, err := s.api.RescheduleMeeting(ctx, id, in)
	if err != nil {
		return models.Meeting{}, s.reject(err, "Failed to reschedule meeting")
	}
	m := s.updated(w)
	log.Info("meeting rescheduled", "id", id, "date", in.NewDate, "start", in.NewStartTime)
	return m, nil
}

// SetStatus transitions a meeting to status. Terminal meetings stay put.
func (s *Store) SetStatus(ctx context.Context, id string, status models.MeetingStatus) (models.Meeting, error) {
	if err := s.permitted(id); err != nil {
		return models.Meeting{}, err
	}
	s.Dispatch(SavePending{})
	w, err := s.api.SetMeetingStatus(ctx, id, status)
	if err != nil {
		return models.Meeting{}, s.reject(err, "Failed to update meeting")
	}
	m := s.updated(w)
	log.Info("meeting status changed", "id", id, "status", status)
	return m, nil
}

// Delete removes the meeting from the list immediately on success.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.permitted(id); err != nil {
		return err
	}
	s.Dispatch(SavePending{})
	if err := s.api.DeleteMeeting(ctx, id); err != nil {
		return s.reject(err, "Failed to delete meeting")
	}
	s.Dispatch(MeetingDeleted{ID: id})
	log.Info("meeting deleted", "id", id)
	return nil
}

func (s *Store) Clients(ctx context.Context) ([]models.Client, error) {
	return s.api.ListClients(ctx)
}

func (s *Store) Users(ctx context.Context) ([]models.User, error) {
	return s.api.ListUsers(ctx)
}

func (s *Store) Contacts(ctx context.Context, clientID string) ([]models.ClientContact, error) {
	return s.api.ListClientContacts(ctx, clientID)
}

// permitted refuses mutations of a cached meeting in a terminal status.
// Meetings not in the cache are left for the backend to judge.
func (s *Store) permitted(id string) error {
	if s.Snapshot().Terminal(id) {
		return ErrNotPermitted
	}
	return nil
}

func (s *Store) updated(w models.MeetingWire) models.Meeting {
	m := Normalize(w)
	s.Dispatch(MeetingUpdated{Meeting: m})
	return m
}

func (s *Store) reject(err error, fallback string) error {
	msg := message(err, fallback)
	s.Dispatch(SaveRejected{Message: msg})
	log.Warn("meeting action failed", "message", msg, "err", err)
	return &ActionError{Message: msg, Err: err}
}

// message prefers the server-provided reason over the per-action fallback.
func message(err error, fallback string) string {
	if reason := api.Reason(err); reason != "" {
		return reason
	}
	return fallback
}

// ABOUTME: In-memory API fake for store tests
// ABOUTME: Records calls and serves pages from a fixed meeting list
package store

import (
	"context"
	"sync"

	"github.com/harperreed/rigboard/api"
	"github.com/harperreed/rigboard/models"
)

type fakeAPI struct {
	mu       sync.Mutex
	meetings []models.MeetingWire
	calls    []string
	err      error

	// When set, ListMeetings signals entered and then waits on block.
	entered chan struct{}
	block   chan struct{}
}

func sp(s string) *string { return &s }
func ip(i int) *int       { return &i }

func wire(id, date, start, end string, status models.MeetingStatus) models.MeetingWire {
	st := int(status)
	return models.MeetingWire{
		ID:        sp(id),
		ClientID:  sp("C1"),
		Title:     sp("Meeting " + id),
		Date:      sp(date),
		StartTime: sp(start),
		EndTime:   sp(end),
		Type:      ip(1),
		Status:    &st,
	}
}

func (f *fakeAPI) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) ListMeetings(ctx context.Context, p api.ListParams) (models.Page[models.MeetingWire], error) {
	if f.block != nil {
		f.entered <- struct{}{}
		<-f.block
	}
	if err := f.record("list"); err != nil {
		return models.Page[models.MeetingWire]{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var filtered []models.MeetingWire
	for _, m := range f.meetings {
		if p.ClientID == "" || str(m.ClientID) == p.ClientID {
			filtered = append(filtered, m)
		}
	}
	size := p.PageSize
	start := (p.PageNumber - 1) * size
	end := start + size
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}
	pages := (len(filtered) + size - 1) / size
	return models.Page[models.MeetingWire]{
		Items:      filtered[start:end],
		PageNumber: p.PageNumber,
		PageSize:   size,
		TotalCount: len(filtered),
		TotalPages: pages,
	}, nil
}

func (f *fakeAPI) find(id string) (models.MeetingWire, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.meetings {
		if str(m.ID) == id {
			return m, true
		}
	}
	return models.MeetingWire{}, false
}

func (f *fakeAPI) GetMeeting(ctx context.Context, id string) (models.MeetingWire, error) {
	if err := f.record("get " + id); err != nil {
		return models.MeetingWire{}, err
	}
	if m, ok := f.find(id); ok {
		return m, nil
	}
	return models.MeetingWire{}, &api.Error{Status: 404, Message: "Meeting not found"}
}

func (f *fakeAPI) GetMeetingForEdit(ctx context.Context, id, clientID string) (models.MeetingWire, error) {
	if err := f.record("edit " + id + " " + clientID); err != nil {
		return models.MeetingWire{}, err
	}
	m, ok := f.find(id)
	if !ok {
		return models.MeetingWire{}, &api.Error{Status: 404, Message: "Meeting not found"}
	}
	m.Attendees = []models.AttendeeWire{
		{Kind: models.AttendeeUser, UserID: sp("U2")},
		{Kind: models.AttendeeExternal, Email: sp("guest@x.com")},
	}
	return m, nil
}

func (f *fakeAPI) CreateMeeting(ctx context.Context, in models.MeetingInput) (models.MeetingWire, error) {
	if err := f.record("create"); err != nil {
		return models.MeetingWire{}, err
	}
	w := models.MeetingWire{
		ID:                sp("new-1"),
		ClientID:          sp(in.ClientID),
		Title:             sp(in.Title),
		Date:              sp(in.Date),
		StartTime:         sp(in.StartTime),
		EndTime:           sp(in.EndTime),
		Type:              ip(int(in.Type)),
		OrganizerUserID:   sp(in.OrganizerUserID),
		ExternalAttendees: sp(in.ExternalAttendees),
	}
	f.mu.Lock()
	f.meetings = append([]models.MeetingWire{w}, f.meetings...)
	f.mu.Unlock()
	return w, nil
}

func (f *fakeAPI) update(id string, fn func(*models.MeetingWire)) (models.MeetingWire, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.meetings {
		if str(f.meetings[i].ID) == id {
			fn(&f.meetings[i])
			return f.meetings[i], nil
		}
	}
	return models.MeetingWire{}, &api.Error{Status: 404, Message: "Meeting not found"}
}

func (f *fakeAPI) UpdateMeeting(ctx context.Context, id string, in models.MeetingInput) (models.MeetingWire, error) {
	if err := f.record("update " + id); err != nil {
		return models.MeetingWire{}, err
	}
	return f.update(id, func(m *models.MeetingWire) { m.Title = sp(in.Title) })
}

func (f *fakeAPI) UpdateMeetingForEdit(ctx context.Context, id, clientID string, in models.MeetingInput) (models.MeetingWire, error) {
	if err := f.record("update-edit " + id + " " + clientID); err != nil {
		return models.MeetingWire{}, err
	}
	return f.update(id, func(m *models.MeetingWire) { m.Title = sp(in.Title) })
}

func (f *fakeAPI) RescheduleMeeting(ctx context.Context, id string, in models.RescheduleInput) (models.MeetingWire, error) {
	if err := f.record("reschedule " + id); err != nil {
		return models.MeetingWire{}, err
	}
	return f.update(id, func(m *models.MeetingWire) {
		m.Date = sp(in.NewDate)
		m.StartTime = sp(in.NewStartTime)
		m.EndTime = sp(in.NewEndTime)
	})
}

func (f *fakeAPI) SetMeetingStatus(ctx context.Context, id string, status models.MeetingStatus) (models.MeetingWire, error) {
	if err := f.record("status " + id); err != nil {
		return models.MeetingWire{}, err
	}
	return f.update(id, func(m *models.MeetingWire) {
		st := int(status)
		m.Status = &st
	})
}

func (f *fakeAPI) DeleteMeeting(ctx context.Context, id string) error {
	return f.record("delete " + id)
}

func (f *fakeAPI) ListClients(ctx context.Context) ([]models.Client, error) {
	return []models.Client{{ID: "C1", Name: "Acme Scaffolding"}}, f.record("clients")
}

func (f *fakeAPI) ListUsers(ctx context.Context) ([]models.User, error) {
	return []models.User{{ID: "U1", Name: "Dana"}}, f.record("users")
}

func (f *fakeAPI) ListClientContacts(ctx context.Context, clientID string) ([]models.ClientContact, error) {
	return []models.ClientContact{{ID: 1, ClientID: clientID, Name: "Ada"}}, f.record("contacts")
}

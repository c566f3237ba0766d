// ABOUTME: Meeting form state machine for create, edit, and reschedule flows
// ABOUTME: Selects the validation schema and submit payload from an explicit mode
package meetings

import (
	"context"
	"errors"

	"github.com/harperreed/rigboard/models"
)

var (
	ErrValidation      = errors.New("form has invalid fields")
	ErrNotPermitted    = errors.New("meeting cannot be modified in its current status")
	ErrClientImmutable = errors.New("client cannot be changed after a meeting is created")
)

// Mode is the tagged variant choosing which flow the form runs.
type Mode interface {
	isMode()
}

type CreateMode struct{}

type EditMode struct {
	ID       string
	ClientID string
}

type RescheduleMode struct {
	ID string
}

func (CreateMode) isMode()     {}
func (EditMode) isMode()       {}
func (RescheduleMode) isMode() {}

// ModeName is a human label for m.
func ModeName(m Mode) string {
	switch m.(type) {
	case CreateMode:
		return "New Meeting"
	case EditMode:
		return "Edit Meeting"
	case RescheduleMode:
		return "Reschedule Meeting"
	}
	return ""
}

// Values holds what the user has entered. Dates are YYYY-MM-DD and times HH:mm.
type Values struct {
	ClientID           string
	Title              string
	Description        string
	Location           string
	Date               string
	StartTime          string
	EndTime            string
	Type               models.MeetingType
	OrganizerUserID    string
	AttendeeUserIDs    []string
	AttendeeContactIDs []int64
	ExternalAttendees  string

	NewDate      string
	NewStartTime string
	NewEndTime   string
}

// Submitter performs the mutating call for each mode. store.Store implements it.
type Submitter interface {
	Create(ctx context.Context, in models.MeetingInput) (models.Meeting, error)
	UpdateForEdit(ctx context.Context, id, clientID string, in models.MeetingInput) (models.Meeting, error)
	Reschedule(ctx context.Context, id string, in models.RescheduleInput) (models.Meeting, error)
}

// Form is the state of one meeting form.
type Form struct {
	Mode       Mode
	Values     Values
	Errors     FieldErrors
	Banner     string
	Submitting bool

	// Status of the meeting being edited or rescheduled.
	Status models.MeetingStatus

	contacts []models.ClientContact
}

func NewCreateForm() *Form {
	return &Form{
		Mode:   CreateMode{},
		Values: Values{Type: models.TypeInPerson},
		Status: models.StatusScheduled,
	}
}

// NewEditForm prefills every editable field from the detail record.
func NewEditForm(m models.Meeting) *Form {
	return &Form{
		Mode: EditMode{ID: m.ID, ClientID: m.ClientID},
		Values: Values{
			ClientID:           m.ClientID,
			Title:              m.Title,
			Description:        m.Description,
			Location:           m.Location,
			Date:               DisplayDate(m.Date),
			StartTime:          DisplayTime(m.StartTime),
			EndTime:            DisplayTime(m.EndTime),
			Type:               m.Type,
			OrganizerUserID:    m.OrganizerUserID,
			AttendeeUserIDs:    append([]string(nil), m.AttendeeUserIDs...),
			AttendeeContactIDs: append([]int64(nil), m.AttendeeContactIDs...),
			ExternalAttendees:  JoinExternal(m.ExternalAttendees),
		},
		Status: m.Status,
	}
}

func NewRescheduleForm(m models.Meeting) *Form {
	return &Form{
		Mode: RescheduleMode{ID: m.ID},
		Values: Values{
			NewDate:      DisplayDate(m.Date),
			NewStartTime: DisplayTime(m.StartTime),
			NewEndTime:   DisplayTime(m.EndTime),
		},
		Status: m.Status,
	}
}

// ContactOptions returns the contacts selectable for a meeting of clientID.
func ContactOptions(contacts []models.ClientContact, clientID string) []models.ClientContact {
	var out []models.ClientContact
	for _, c := range contacts {
		if c.ClientID == clientID {
			out = append(out, c)
		}
	}
	return out
}

// SetContacts supplies the contact list that attendee selections are checked against.
func (f *Form) SetContacts(contacts []models.ClientContact) {
	f.contacts = contacts
}

// ContactOptions returns the selectable contacts for the form's client.
func (f *Form) ContactOptions() []models.ClientContact {
	return ContactOptions(f.contacts, f.clientID())
}

func (f *Form) clientID() string {
	if m, ok := f.Mode.(EditMode); ok {
		return m.ClientID
	}
	return f.Values.ClientID
}

// SetClient changes the selected client in Create mode and drops contact
// attendees that belong to another client.
func (f *Form) SetClient(clientID string) error {
	switch f.Mode.(type) {
	case CreateMode:
	case EditMode, RescheduleMode:
		return ErrClientImmutable
	}

	f.Values.ClientID = clientID
	if f.contacts == nil {
		f.Values.AttendeeContactIDs = nil
		return nil
	}

	allowed := make(map[int64]bool)
	for _, c := range ContactOptions(f.contacts, clientID) {
		allowed[c.ID] = true
	}
	var kept []int64
	for _, id := range f.Values.AttendeeContactIDs {
		if allowed[id] {
			kept = append(kept, id)
		}
	}
	f.Values.AttendeeContactIDs = kept
	return nil
}

// ToggleContact selects or deselects a contact attendee.
func (f *Form) ToggleContact(id int64) {
	for i, existing := range f.Values.AttendeeContactIDs {
		if existing == id {
			f.Values.AttendeeContactIDs = append(f.Values.AttendeeContactIDs[:i], f.Values.AttendeeContactIDs[i+1:]...)
			return
		}
	}
	f.Values.AttendeeContactIDs = append(f.Values.AttendeeContactIDs, id)
}

// Validate runs the mode's schema and stores the per-field errors.
func (f *Form) Validate() bool {
	var options []models.ClientContact
	if f.contacts != nil {
		options = f.ContactOptions()
		if options == nil {
			options = []models.ClientContact{}
		}
	}
	f.Errors = Validate(f.Mode, f.Values, options)
	return len(f.Errors) == 0
}

// Editable reports whether the mode may mutate the meeting at all.
func (f *Form) Editable() bool {
	switch f.Mode.(type) {
	case CreateMode:
		return true
	case EditMode, RescheduleMode:
		return !IsTerminal(f.Status)
	}
	return false
}

// DismissBanner clears the server failure message.
func (f *Form) DismissBanner() {
	f.Banner = ""
}

// MeetingInput builds the full create/update payload.
func (f *Form) MeetingInput() models.MeetingInput {
	v := f.Values
	return models.MeetingInput{
		ClientID:           f.clientID(),
		Title:              v.Title,
		Description:        v.Description,
		Location:           v.Location,
		Date:               WireDate(v.Date),
		StartTime:          WireTime(v.StartTime),
		EndTime:            WireTime(v.EndTime),
		Type:               v.Type,
		OrganizerUserID:    v.OrganizerUserID,
		AttendeeUserIDs:    nonNil(v.AttendeeUserIDs),
		AttendeeContactIDs: nonNilIDs(v.AttendeeContactIDs),
		ExternalAttendees:  JoinExternal(ParseExternal(v.ExternalAttendees)),
	}
}

// RescheduleInput builds the date/time-only payload.
func (f *Form) RescheduleInput() models.RescheduleInput {
	return models.RescheduleInput{
		NewDate:      WireDate(f.Values.NewDate),
		NewStartTime: WireTime(f.Values.NewStartTime),
		NewEndTime:   WireTime(f.Values.NewEndTime),
	}
}

// Submit validates and dispatches the mode's mutating call. Entered values
// are kept on every failure path.
func (f *Form) Submit(ctx context.Context, s Submitter) (models.Meeting, error) {
	if !f.Editable() {
		return models.Meeting{}, ErrNotPermitted
	}
	if !f.Validate() {
		return models.Meeting{}, ErrValidation
	}

	f.Submitting = true
	defer func() { f.Submitting = false }()

	var (
		saved models.Meeting
		err   error
	)
	switch mode := f.Mode.(type) {
	case CreateMode:
		saved, err = s.Create(ctx, f.MeetingInput())
	case EditMode:
		saved, err = s.UpdateForEdit(ctx, mode.ID, mode.ClientID, f.MeetingInput())
	case RescheduleMode:
		saved, err = s.Reschedule(ctx, mode.ID, f.RescheduleInput())
	default:
		return models.Meeting{}, errors.New("unknown form mode")
	}

	if err != nil {
		f.Banner = err.Error()
		return models.Meeting{}, err
	}

	f.Banner = ""
	return saved, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilIDs(s []int64) []int64 {
	if s == nil {
		return []int64{}
	}
	return s
}

// ABOUTME: Calendar aggregation of meetings by date
// ABOUTME: Groups meetings per day and collapses busy days into a single "more" event
package meetings

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/harperreed/rigboard/models"
)

// MaxEventsPerDay is the largest day-group rendered as individual events.
const MaxEventsPerDay = 2

const (
	dateLayout     = "2006-01-02"
	clockLayout    = "15:04:05"
	dateTimeLayout = "2006-01-02T15:04:05"
)

// Style classes derived from meeting status.
const (
	ClassInfo    = "info"
	ClassWarning = "warning"
	ClassSuccess = "success"
	ClassDanger  = "danger"
)

// StatusClass maps a status onto its calendar style class.
func StatusClass(status models.MeetingStatus) string {
	switch status {
	case models.StatusInProgress:
		return ClassWarning
	case models.StatusCompleted:
		return ClassSuccess
	case models.StatusCancelled:
		return ClassDanger
	}
	return ClassInfo
}

// StruckThrough reports whether detailed rendering should strike the meeting out.
func StruckThrough(status models.MeetingStatus) bool {
	return status == models.StatusCancelled
}

// Event is one calendar entry: either a single meeting or a "more" marker
// standing in for a whole day-group.
type Event struct {
	ID        string
	Date      string
	Title     string
	Start     time.Time
	End       time.Time
	AllDay    bool
	ClassName string
	Meeting   *models.Meeting
	Meetings  []models.Meeting
}

// IsMore reports whether e is the synthetic marker for a busy day.
func (e Event) IsMore() bool {
	return e.Meeting == nil
}

type eventProps struct {
	Meeting  *models.Meeting  `json:"meeting,omitempty"`
	Meetings []models.Meeting `json:"meetings,omitempty"`
}

type eventJSON struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Start         string     `json:"start"`
	End           string     `json:"end,omitempty"`
	AllDay        bool       `json:"allDay"`
	ClassName     string     `json:"className,omitempty"`
	ExtendedProps eventProps `json:"extendedProps"`
}

// MarshalJSON emits the shape calendar widgets consume: local date-times
// without zone and the records under extendedProps.
func (e Event) MarshalJSON() ([]byte, error) {
	out := eventJSON{
		ID:        e.ID,
		Title:     e.Title,
		AllDay:    e.AllDay,
		ClassName: e.ClassName,
		ExtendedProps: eventProps{
			Meeting:  e.Meeting,
			Meetings: e.Meetings,
		},
	}
	if e.AllDay {
		out.Start = e.Date
	} else {
		out.Start = e.Start.Format(dateTimeLayout)
		out.End = e.End.Format(dateTimeLayout)
	}
	return json.Marshal(out)
}

// GroupByDate buckets meetings by calendar date. Deleted records and records
// without a date or start time are skipped.
func GroupByDate(ms []models.Meeting) map[string][]models.Meeting {
	groups := make(map[string][]models.Meeting)
	for _, m := range ms {
		if m.IsDeleted || m.StartTime == "" {
			continue
		}
		key := m.DateKey()
		if key == "" {
			continue
		}
		groups[key] = append(groups[key], m)
	}
	return groups
}

// DayDetail returns the group ordered by start time, earliest first.
func DayDetail(group []models.Meeting) []models.Meeting {
	out := make([]models.Meeting, len(group))
	copy(out, group)
	sort.SliceStable(out, func(i, j int) bool {
		return normalizeClock(out[i].StartTime) < normalizeClock(out[j].StartTime)
	})
	return out
}

// BuildEvents turns meetings into calendar events ordered by date and start.
func BuildEvents(ms []models.Meeting) []Event {
	groups := GroupByDate(ms)

	dates := make([]string, 0, len(groups))
	for d := range groups {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	var events []Event
	for _, d := range dates {
		group := DayDetail(groups[d])
		if len(group) > MaxEventsPerDay {
			day, _ := time.Parse(dateLayout, d)
			events = append(events, Event{
				ID:       "more-" + d,
				Date:     d,
				Title:    fmt.Sprintf("%d Meetings", len(group)),
				Start:    day,
				AllDay:   true,
				Meetings: group,
			})
			continue
		}
		for i := range group {
			m := group[i]
			start, err := MeetingStart(m)
			if err != nil {
				continue
			}
			end, err := MeetingEnd(m)
			if err != nil {
				end = start
			}
			events = append(events, Event{
				ID:        m.ID,
				Date:      d,
				Title:     m.Title,
				Start:     start,
				End:       end,
				ClassName: StatusClass(m.Status),
				Meeting:   &m,
			})
		}
	}
	return events
}

// EventsOn returns the events whose date is key.
func EventsOn(events []Event, key string) []Event {
	var out []Event
	for _, e := range events {
		if e.Date == key {
			out = append(out, e)
		}
	}
	return out
}

// MeetingStart assembles the meeting's start from its date and time-of-day.
func MeetingStart(m models.Meeting) (time.Time, error) {
	return combine(m.DateKey(), m.StartTime)
}

// MeetingEnd assembles the meeting's end from its date and time-of-day.
func MeetingEnd(m models.Meeting) (time.Time, error) {
	return combine(m.DateKey(), m.EndTime)
}

func combine(date, clock string) (time.Time, error) {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	tod, err := time.Parse(clockLayout, normalizeClock(clock))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", clock, err)
	}
	return day.Add(time.Duration(tod.Hour())*time.Hour +
		time.Duration(tod.Minute())*time.Minute +
		time.Duration(tod.Second())*time.Second), nil
}

// normalizeClock widens HH:mm to HH:mm:ss; other input is returned as is.
func normalizeClock(s string) string {
	if len(s) == 5 {
		return s + ":00"
	}
	return s
}

// Action is what activating a calendar event opens.
type Action interface {
	isAction()
}

// OpenEdit opens the edit flow for one meeting.
type OpenEdit struct {
	ID       string
	ClientID string
}

// OpenDay opens the day-detail list for a "more" event.
type OpenDay struct {
	Date     string
	Meetings []models.Meeting
}

func (OpenEdit) isAction() {}
func (OpenDay) isAction()  {}

// EventAction resolves a click on e.
func EventAction(e Event) Action {
	if e.IsMore() {
		return OpenDay{Date: e.Date, Meetings: DayDetail(e.Meetings)}
	}
	return OpenEdit{ID: e.Meeting.ID, ClientID: e.Meeting.ClientID}
}

// DropReschedule computes the reschedule payload for dropping e at newStart.
// A zero newEnd keeps the event's original duration.
func DropReschedule(e Event, newStart, newEnd time.Time) (models.RescheduleInput, error) {
	if e.IsMore() {
		return models.RescheduleInput{}, fmt.Errorf("cannot reschedule a grouped day")
	}
	if newEnd.IsZero() {
		newEnd = newStart.Add(e.End.Sub(e.Start))
	}
	if !newEnd.After(newStart) {
		return models.RescheduleInput{}, fmt.Errorf("end time must be after start time")
	}
	// Times are wall-clock within one date, so the end has to land on the same day.
	if newEnd.Format(dateLayout) != newStart.Format(dateLayout) {
		return models.RescheduleInput{}, fmt.Errorf("meeting cannot span midnight")
	}

	return models.RescheduleInput{
		NewDate:      WireDate(newStart.Format(dateLayout)),
		NewStartTime: newStart.Format(clockLayout),
		NewEndTime:   newEnd.Format(clockLayout),
	}, nil
}

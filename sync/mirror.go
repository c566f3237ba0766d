// ABOUTME: One-way mirror of meetings into a Google Calendar
// ABOUTME: Upserts events keyed by a private extended property and removes cancelled ones
package sync

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"google.golang.org/api/calendar/v3"

	"github.com/harperreed/rigboard/meetings"
	"github.com/harperreed/rigboard/models"
)

// MeetingIDProperty is the private extended property holding the meeting id.
const MeetingIDProperty = "rigboardMeetingId"

// Google Calendar event colour ids per status class.
var statusColors = map[string]string{
	meetings.ClassInfo:    "9",
	meetings.ClassWarning: "5",
	meetings.ClassSuccess: "10",
	meetings.ClassDanger:  "11",
}

// MeetingToEvent converts m into a calendar event in loc. Meeting times are
// wall-clock, so they are pinned to loc rather than converted.
func MeetingToEvent(m models.Meeting, loc *time.Location) (*calendar.Event, error) {
	start, err := meetings.MeetingStart(m)
	if err != nil {
		return nil, err
	}
	end, err := meetings.MeetingEnd(m)
	if err != nil {
		return nil, err
	}

	event := &calendar.Event{
		Summary:     m.Title,
		Description: eventDescription(m),
		Location:    m.Location,
		Start:       eventTime(start, loc),
		End:         eventTime(end, loc),
		ColorId:     statusColors[meetings.StatusClass(m.Status)],
		Status:      "confirmed",
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{MeetingIDProperty: m.ID},
		},
	}
	if m.Status == models.StatusCancelled {
		event.Status = "cancelled"
	}
	for _, email := range m.ExternalAttendees {
		event.Attendees = append(event.Attendees, &calendar.EventAttendee{Email: email})
	}
	return event, nil
}

func eventTime(t time.Time, loc *time.Location) *calendar.EventDateTime {
	local := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
	return &calendar.EventDateTime{
		DateTime: local.Format(time.RFC3339),
		TimeZone: loc.String(),
	}
}

func eventDescription(m models.Meeting) string {
	var b strings.Builder
	if m.Description != "" {
		b.WriteString(m.Description)
		b.WriteString("\n\n")
	}
	if m.ClientName != "" {
		fmt.Fprintf(&b, "Client: %s\n", m.ClientName)
	}
	fmt.Fprintf(&b, "Type: %s\n", m.Type)
	fmt.Fprintf(&b, "Status: %s\n", m.Status)
	if m.OrganizerName != "" {
		fmt.Fprintf(&b, "Organizer: %s\n", m.OrganizerName)
	}
	return strings.TrimRight(b.String(), "\n")
}

// PushResult counts what a Push changed.
type PushResult struct {
	Created int
	Updated int
	Deleted int
	Skipped int
}

// Mirror pushes meetings into one calendar.
type Mirror struct {
	service    *calendar.Service
	calendarID string
	loc        *time.Location
}

func NewMirror(service *calendar.Service, calendarID string, loc *time.Location) *Mirror {
	if calendarID == "" {
		calendarID = "primary"
	}
	if loc == nil {
		loc = time.Local
	}
	return &Mirror{service: service, calendarID: calendarID, loc: loc}
}

// Push upserts one event per meeting. Cancelled or deleted meetings have
// their mirrored events removed instead.
func (mr *Mirror) Push(ctx context.Context, ms []models.Meeting) (PushResult, error) {
	var result PushResult
	for _, m := range ms {
		existing, err := mr.find(ctx, m.ID)
		if err != nil {
			return result, err
		}

		if m.IsDeleted || m.Status == models.StatusCancelled {
			for _, e := range existing {
				if err := mr.service.Events.Delete(mr.calendarID, e.Id).Context(ctx).Do(); err != nil {
					return result, fmt.Errorf("failed to delete event for meeting %s: %w", m.ID, err)
				}
				result.Deleted++
			}
			if len(existing) == 0 {
				result.Skipped++
			}
			continue
		}

		event, err := MeetingToEvent(m, mr.loc)
		if err != nil {
			log.Warn("skipping meeting with invalid schedule", "id", m.ID, "err", err)
			result.Skipped++
			continue
		}

		if len(existing) > 0 {
			if _, err := mr.service.Events.Update(mr.calendarID, existing[0].Id, event).Context(ctx).Do(); err != nil {
				return result, fmt.Errorf("failed to update event for meeting %s: %w", m.ID, err)
			}
			result.Updated++
			continue
		}

		if _, err := mr.service.Events.Insert(mr.calendarID, event).Context(ctx).Do(); err != nil {
			return result, fmt.Errorf("failed to insert event for meeting %s: %w", m.ID, err)
		}
		result.Created++
	}

	log.Debug("calendar push finished", "calendar", mr.calendarID,
		"created", result.Created, "updated", result.Updated, "deleted", result.Deleted)
	return result, nil
}

// find returns the events previously mirrored for meetingID.
func (mr *Mirror) find(ctx context.Context, meetingID string) ([]*calendar.Event, error) {
	events, err := mr.service.Events.List(mr.calendarID).
		PrivateExtendedProperty(MeetingIDProperty + "=" + meetingID).
		ShowDeleted(false).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to look up event for meeting %s: %w", meetingID, err)
	}
	return events.Items, nil
}

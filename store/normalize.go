// ABOUTME: Converts loosely-typed wire meetings into normalized records
// ABOUTME: The one place that tolerates missing or null fields from the backend
package store

import (
	"github.com/harperreed/rigboard/meetings"
	"github.com/harperreed/rigboard/models"
)

// Normalize fills defaults for absent fields and widens short date/time forms.
// When the edit fetch carries an attendee breakdown it replaces the flat id lists.
func Normalize(w models.MeetingWire) models.Meeting {
	m := models.Meeting{
		ID:              str(w.ID),
		TenantID:        str(w.TenantID),
		ClientID:        str(w.ClientID),
		ClientName:      str(w.ClientName),
		Title:           str(w.Title),
		Description:     str(w.Description),
		Location:        str(w.Location),
		Date:            meetings.WireDate(str(w.Date)),
		StartTime:       meetings.WireTime(str(w.StartTime)),
		EndTime:         meetings.WireTime(str(w.EndTime)),
		OrganizerUserID: str(w.OrganizerUserID),
		OrganizerName:   str(w.OrganizerName),
		Status:          models.StatusScheduled,
		Modified:        w.Modified,
	}

	if w.Type != nil {
		m.Type = models.MeetingType(*w.Type)
	}
	if w.Status != nil && *w.Status != 0 {
		m.Status = models.MeetingStatus(*w.Status)
	}
	if w.Created != nil {
		m.Created = *w.Created
	}
	if w.IsDeleted != nil {
		m.IsDeleted = *w.IsDeleted
	}

	if len(w.Attendees) > 0 {
		for _, a := range w.Attendees {
			switch a.Kind {
			case models.AttendeeUser:
				if a.UserID != nil {
					m.AttendeeUserIDs = append(m.AttendeeUserIDs, *a.UserID)
				}
			case models.AttendeeContact:
				if a.ContactID != nil {
					m.AttendeeContactIDs = append(m.AttendeeContactIDs, *a.ContactID)
				}
			case models.AttendeeExternal:
				if a.Email != nil && *a.Email != "" {
					m.ExternalAttendees = append(m.ExternalAttendees, *a.Email)
				}
			}
		}
		return m
	}

	m.AttendeeUserIDs = append([]string(nil), w.AttendeeUserIDs...)
	m.AttendeeContactIDs = append([]int64(nil), w.AttendeeContactIDs...)
	m.ExternalAttendees = meetings.ParseExternal(str(w.ExternalAttendees))
	return m
}

// NormalizePage normalizes every item of a wire page.
func NormalizePage(p models.Page[models.MeetingWire]) models.Page[models.Meeting] {
	out := models.Page[models.Meeting]{
		Items:      make([]models.Meeting, 0, len(p.Items)),
		PageNumber: p.PageNumber,
		PageSize:   p.PageSize,
		TotalCount: p.TotalCount,
		TotalPages: p.TotalPages,
	}
	for _, w := range p.Items {
		out.Items = append(out.Items, Normalize(w))
	}
	return out
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

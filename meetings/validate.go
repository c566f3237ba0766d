// ABOUTME: Field validation schemas for the meeting form
// ABOUTME: Length limits, required fields, time ordering, and attendee checks
package meetings

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/harperreed/rigboard/models"
)

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 1000
	MaxLocationLength    = 500
)

// Field names, matching the wire payload keys.
const (
	FieldClientID          = "clientId"
	FieldTitle             = "title"
	FieldDescription       = "description"
	FieldLocation          = "location"
	FieldDate              = "date"
	FieldStartTime         = "startTime"
	FieldEndTime           = "endTime"
	FieldType              = "type"
	FieldOrganizer         = "organizerUserId"
	FieldUserAttendees     = "attendeeUserIds"
	FieldContactAttendees  = "attendeeContactIds"
	FieldExternalAttendees = "externalAttendees"
	FieldNewDate           = "newDate"
	FieldNewStartTime      = "newStartTime"
	FieldNewEndTime        = "newEndTime"
)

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9](:[0-5][0-9])?$`)

// FieldErrors maps a field name to its message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, fe[f]))
	}
	return strings.Join(parts, "; ")
}

// Validate checks v against the schema for mode. contactOptions, when
// non-nil, is the client-scoped list contact attendees must come from.
func Validate(mode Mode, v Values, contactOptions []models.ClientContact) FieldErrors {
	errs := FieldErrors{}

	switch mode.(type) {
	case CreateMode:
		required(errs, FieldClientID, v.ClientID, "Client is required")
		validateBase(errs, v, contactOptions)
	case EditMode:
		validateBase(errs, v, contactOptions)
	case RescheduleMode:
		validateSchedule(errs, FieldNewDate, FieldNewStartTime, FieldNewEndTime, v.NewDate, v.NewStartTime, v.NewEndTime)
	default:
		errs["mode"] = "Unknown form mode"
	}

	return errs
}

func validateBase(errs FieldErrors, v Values, contactOptions []models.ClientContact) {
	title := strings.TrimSpace(v.Title)
	required(errs, FieldTitle, title, "Title is required")
	maxLength(errs, FieldTitle, v.Title, MaxTitleLength)
	maxLength(errs, FieldDescription, v.Description, MaxDescriptionLength)
	maxLength(errs, FieldLocation, v.Location, MaxLocationLength)

	validateSchedule(errs, FieldDate, FieldStartTime, FieldEndTime, v.Date, v.StartTime, v.EndTime)

	if !v.Type.Valid() {
		errs[FieldType] = "Meeting type is required"
	}
	required(errs, FieldOrganizer, v.OrganizerUserID, "Organizer is required")

	if err := ValidateExternal(v.ExternalAttendees); err != nil {
		errs[FieldExternalAttendees] = err.Error()
	}

	if contactOptions != nil {
		allowed := make(map[int64]bool, len(contactOptions))
		for _, c := range contactOptions {
			allowed[c.ID] = true
		}
		for _, id := range v.AttendeeContactIDs {
			if !allowed[id] {
				errs[FieldContactAttendees] = fmt.Sprintf("Contact %d does not belong to the selected client", id)
				break
			}
		}
	}
}

// validateSchedule checks the date and the start/end pair. Both times are
// widened to zero-padded HH:mm:ss, so lexical order is temporal order.
func validateSchedule(errs FieldErrors, dateField, startField, endField, date, start, end string) {
	if date == "" {
		errs[dateField] = "Date is required"
	} else if _, err := time.Parse(dateLayout, DisplayDate(date)); err != nil {
		errs[dateField] = "Date must be YYYY-MM-DD"
	}

	startOK := checkClock(errs, startField, start, "Start time")
	endOK := checkClock(errs, endField, end, "End time")
	if startOK && endOK && WireTime(end) <= WireTime(start) {
		errs[endField] = "End time must be after start time"
	}
}

func checkClock(errs FieldErrors, field, value, label string) bool {
	if value == "" {
		errs[field] = label + " is required"
		return false
	}
	if !clockPattern.MatchString(value) {
		errs[field] = label + " must be HH:mm"
		return false
	}
	return true
}

func required(errs FieldErrors, field, value, msg string) {
	if strings.TrimSpace(value) == "" {
		errs[field] = msg
	}
}

func maxLength(errs FieldErrors, field, value string, limit int) {
	if utf8.RuneCountInString(value) > limit {
		errs[field] = fmt.Sprintf("Must be %d characters or fewer", limit)
	}
}

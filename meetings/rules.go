// ABOUTME: Status-driven permission rules for meetings
// ABOUTME: Single source of truth for whether edit, reschedule, or delete is allowed
package meetings

import "github.com/harperreed/rigboard/models"

// IsTerminal reports whether no further mutation is permitted from status.
func IsTerminal(status models.MeetingStatus) bool {
	return status == models.StatusCompleted || status == models.StatusCancelled
}

// CanEdit reports whether the edit action may be offered for m.
func CanEdit(m models.Meeting) bool {
	return !IsTerminal(m.Status)
}

// CanReschedule follows the same rule as CanEdit.
func CanReschedule(m models.Meeting) bool {
	return !IsTerminal(m.Status)
}

// CanDelete follows the same rule as CanEdit.
func CanDelete(m models.Meeting) bool {
	return !IsTerminal(m.Status)
}

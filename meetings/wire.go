// ABOUTME: Conversions between form input and wire date/time strings
// ABOUTME: Dates travel as ISO date-times, times as HH:mm:ss
package meetings

import "strings"

// WireDate widens a YYYY-MM-DD date to the ISO date-time the backend expects.
func WireDate(d string) string {
	if len(d) == len(dateLayout) {
		return d + "T00:00:00"
	}
	return d
}

// WireTime widens HH:mm to HH:mm:ss.
func WireTime(t string) string {
	return normalizeClock(t)
}

// DisplayTime trims HH:mm:00 to the HH:mm the form edits. Non-zero seconds
// are kept so an edit resubmits the stored time unchanged.
func DisplayTime(t string) string {
	if len(t) == len(clockLayout) && t[5:] == ":00" {
		return t[:5]
	}
	return t
}

// DisplayDate returns the YYYY-MM-DD part of an ISO date or date-time.
func DisplayDate(d string) string {
	key, _, _ := strings.Cut(d, "T")
	return key
}

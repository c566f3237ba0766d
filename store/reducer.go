// ABOUTME: Pure reducer for the meeting record store
// ABOUTME: Implements page replace/append, detail reconciliation, and mutation phases
package store

import "github.com/harperreed/rigboard/models"

// Reduce applies a to s and returns the new state. It never writes through
// the slices or pointers of s, so earlier snapshots stay valid.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case FetchPending:
		s.Loading = true
		s.Error = ""

	case FetchFulfilled:
		if a.Generation != s.Generation {
			return s
		}
		page := a.Page
		if page.PageNumber <= 1 {
			s.Items = append([]models.Meeting(nil), page.Items...)
		} else {
			s.Items = appendUnique(s.Items, page.Items)
		}
		s.PageNumber = page.PageNumber
		s.PageSize = page.PageSize
		s.TotalCount = page.TotalCount
		s.TotalPages = page.TotalPages
		s.HasMore = page.HasMore()
		s.Loading = false
		s.Detail = reconcileDetail(s.Detail, page.Items)

	case FetchRejected:
		if a.Generation != s.Generation {
			return s
		}
		s.Loading = false
		s.Error = a.Message

	case ClientFilterSet:
		s.ClientFilter = a.ClientID
		s.Generation++
		s.Items = nil
		s.PageNumber = 0
		s.TotalCount = 0
		s.TotalPages = 0
		s.HasMore = true
		s.Loading = false
		s.Error = ""

	case DetailPending:
		s.DetailLoading = true
		s.NotFound = false
		s.Error = ""

	case DetailFulfilled:
		m := a.Meeting
		s.Detail = &m
		s.DetailLoading = false

	case DetailRejected:
		s.DetailLoading = false
		s.NotFound = a.NotFound
		s.Error = a.Message
		if a.NotFound {
			s.Detail = nil
		}

	case DetailCleared:
		s.Detail = nil
		s.NotFound = false

	case SavePending:
		s.Saving = true
		s.Error = ""

	case SaveRejected:
		s.Saving = false
		s.Error = a.Message

	case MeetingCreated:
		items := make([]models.Meeting, 0, len(s.Items)+1)
		items = append(items, a.Meeting)
		for _, m := range s.Items {
			if m.ID != a.Meeting.ID {
				items = append(items, m)
			}
		}
		s.Items = items
		s.TotalCount++
		s.Saving = false

	case MeetingUpdated:
		items := make([]models.Meeting, len(s.Items))
		copy(items, s.Items)
		for i := range items {
			if items[i].ID == a.Meeting.ID {
				items[i] = a.Meeting
			}
		}
		s.Items = items
		if s.Detail != nil && s.Detail.ID == a.Meeting.ID {
			m := a.Meeting
			s.Detail = &m
		}
		s.Saving = false

	case MeetingDeleted:
		items := make([]models.Meeting, 0, len(s.Items))
		for _, m := range s.Items {
			if m.ID != a.ID {
				items = append(items, m)
			}
		}
		if len(items) < len(s.Items) && s.TotalCount > 0 {
			s.TotalCount--
		}
		s.Items = items
		if s.Detail != nil && s.Detail.ID == a.ID {
			s.Detail = nil
		}
		s.Saving = false

	case ErrorCleared:
		s.Error = ""
	}
	return s
}

// reconcileDetail refreshes the server-derived fields of the detail record
// from a newer list copy. Attendee lists only come with the detail, so the
// rest of the record is kept.
func reconcileDetail(detail *models.Meeting, items []models.Meeting) *models.Meeting {
	if detail == nil {
		return nil
	}
	for _, m := range items {
		if m.ID != detail.ID {
			continue
		}
		d := *detail
		d.Status = m.Status
		d.IsDeleted = m.IsDeleted
		d.Date = m.Date
		d.StartTime = m.StartTime
		d.EndTime = m.EndTime
		return &d
	}
	return detail
}

// appendUnique appends the incoming records whose id is not already cached.
func appendUnique(existing, incoming []models.Meeting) []models.Meeting {
	seen := make(map[string]bool, len(existing)+len(incoming))
	out := make([]models.Meeting, 0, len(existing)+len(incoming))
	for _, m := range existing {
		seen[m.ID] = true
		out = append(out, m)
	}
	for _, m := range incoming {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		out = append(out, m)
	}
	return out
}

// ABOUTME: Tests for the pure store reducer
// ABOUTME: Covers page replace/append, generation guard, and mutation phases
package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/rigboard/models"
)

func meeting(id string) models.Meeting {
	return models.Meeting{ID: id, ClientID: "C1", Status: models.StatusScheduled}
}

func page(number, totalPages int, ids ...string) models.Page[models.Meeting] {
	p := models.Page[models.Meeting]{PageNumber: number, PageSize: 2, TotalPages: totalPages, TotalCount: totalPages * 2}
	for _, id := range ids {
		p.Items = append(p.Items, meeting(id))
	}
	return p
}

func ids(ms []models.Meeting) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.ID)
	}
	return out
}

func TestPageOneReplaces(t *testing.T) {
	s := Initial()
	s = Reduce(s, FetchFulfilled{Page: page(1, 2, "a", "b")})
	s = Reduce(s, FetchFulfilled{Page: page(1, 2, "c")})

	assert.Equal(t, []string{"c"}, ids(s.Items))
	assert.True(t, s.HasMore)
}

func TestLaterPagesAppendWithoutDuplicates(t *testing.T) {
	s := Initial()
	s = Reduce(s, FetchFulfilled{Page: page(1, 2, "a", "b")})
	s = Reduce(s, FetchFulfilled{Page: page(2, 2, "b", "c")})

	assert.Equal(t, []string{"a", "b", "c"}, ids(s.Items))
	assert.Equal(t, 2, s.PageNumber)
	assert.False(t, s.HasMore)
	assert.False(t, s.Loading)
}

func TestStaleGenerationDropped(t *testing.T) {
	s := Initial()
	s = Reduce(s, FetchFulfilled{Page: page(1, 3, "a", "b")})
	s = Reduce(s, FetchPending{PageNumber: 2})
	old := s.Generation

	s = Reduce(s, ClientFilterSet{ClientID: "C2"})
	assert.Empty(t, s.Items)
	assert.True(t, s.HasMore)
	assert.Equal(t, 0, s.PageNumber)

	s = Reduce(s, FetchFulfilled{Generation: old, Page: page(2, 3, "x")})
	assert.Empty(t, s.Items)

	s = Reduce(s, FetchRejected{Generation: old, Message: "boom"})
	assert.Empty(t, s.Error)
}

func TestCreatePrependsAndCounts(t *testing.T) {
	s := Reduce(Initial(), FetchFulfilled{Page: page(1, 1, "a")})
	s = Reduce(s, SavePending{})
	assert.True(t, s.Saving)

	s = Reduce(s, MeetingCreated{Meeting: meeting("n")})
	assert.Equal(t, []string{"n", "a"}, ids(s.Items))
	assert.Equal(t, 3, s.TotalCount)
	assert.False(t, s.Saving)
}

func TestUpdateReconcilesListAndDetail(t *testing.T) {
	s := Reduce(Initial(), FetchFulfilled{Page: page(1, 1, "a", "b")})
	s = Reduce(s, DetailFulfilled{Meeting: meeting("a")})

	updated := meeting("a")
	updated.Title = "Renamed"
	s = Reduce(s, MeetingUpdated{Meeting: updated})

	assert.Equal(t, "Renamed", s.Items[0].Title)
	require.NotNil(t, s.Detail)
	assert.Equal(t, "Renamed", s.Detail.Title)
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	before := Reduce(Initial(), FetchFulfilled{Page: page(1, 1, "a")})
	updated := meeting("a")
	updated.Title = "Changed"

	_ = Reduce(before, MeetingUpdated{Meeting: updated})
	assert.Empty(t, before.Items[0].Title)
}

func TestDeleteRemovesImmediately(t *testing.T) {
	s := Reduce(Initial(), FetchFulfilled{Page: page(1, 1, "a", "b")})
	s = Reduce(s, DetailFulfilled{Meeting: meeting("a")})

	s = Reduce(s, MeetingDeleted{ID: "a"})
	assert.Equal(t, []string{"b"}, ids(s.Items))
	assert.Equal(t, 1, s.TotalCount)
	assert.Nil(t, s.Detail)
}

func TestRejectedKeepsData(t *testing.T) {
	s := Reduce(Initial(), FetchFulfilled{Page: page(1, 1, "a")})
	s = Reduce(s, SavePending{})
	s = Reduce(s, SaveRejected{Message: "Failed to update meeting"})

	assert.Equal(t, []string{"a"}, ids(s.Items))
	assert.Equal(t, "Failed to update meeting", s.Error)
	assert.False(t, s.Saving)

	s = Reduce(s, ErrorCleared{})
	assert.Empty(t, s.Error)
}

func TestLookupPrefersDetail(t *testing.T) {
	s := Reduce(Initial(), FetchFulfilled{Page: page(1, 1, "a")})
	rich := meeting("a")
	rich.AttendeeUserIDs = []string{"U2"}
	s = Reduce(s, DetailFulfilled{Meeting: rich})

	m, ok := s.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, []string{"U2"}, m.AttendeeUserIDs)

	_, ok = s.Lookup("missing")
	assert.False(t, ok)
}

func TestVisibleHidesSoftDeleted(t *testing.T) {
	p := page(1, 1, "a", "b")
	p.Items[1].IsDeleted = true
	s := Reduce(Initial(), FetchFulfilled{Page: p})

	assert.Equal(t, []string{"a"}, ids(s.Visible()))
	assert.Len(t, s.Items, 2)
}

func TestDetailNotFoundClearsSlot(t *testing.T) {
	s := Reduce(Initial(), DetailFulfilled{Meeting: meeting("a")})
	s = Reduce(s, DetailPending{})
	s = Reduce(s, DetailRejected{Message: "Meeting not found", NotFound: true})

	assert.True(t, s.NotFound)
	assert.Nil(t, s.Detail)
	assert.False(t, s.DetailLoading)
}

func TestListRefetchUpdatesDetailStatus(t *testing.T) {
	rich := meeting("a")
	rich.AttendeeUserIDs = []string{"U2"}
	s := Reduce(Initial(), DetailFulfilled{Meeting: rich})

	p := page(1, 1, "a")
	p.Items[0].Status = models.StatusCancelled
	p.Items[0].StartTime = "11:00:00"
	s = Reduce(s, FetchFulfilled{Page: p})

	m, ok := s.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, models.StatusCancelled, m.Status)
	assert.Equal(t, "11:00:00", m.StartTime)
	assert.Equal(t, []string{"U2"}, m.AttendeeUserIDs)
}

func TestTerminalChecksEveryCopy(t *testing.T) {
	cancelled := page(1, 1, "a")
	cancelled.Items[0].Status = models.StatusCancelled
	s := Reduce(Initial(), FetchFulfilled{Page: cancelled})
	s.Detail = &models.Meeting{ID: "a", Status: models.StatusScheduled}

	assert.True(t, s.Terminal("a"))
	assert.False(t, s.Terminal("b"))
}

func TestErrorCleared(t *testing.T) {
	s := Reduce(Initial(), SaveRejected{Message: "Organizer not found"})
	s = Reduce(s, ErrorCleared{})
	assert.Empty(t, s.Error)
}

// ABOUTME: Meeting endpoints of the REST client
// ABOUTME: List, detail, edit-detail, create, update, reschedule, status, and delete
package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/harperreed/rigboard/models"
)

// ListParams selects one page of meetings, optionally for one client.
type ListParams struct {
	ClientID   string
	PageNumber int
	PageSize   int
}

func (p ListParams) query() url.Values {
	q := url.Values{}
	if p.ClientID != "" {
		q.Set("clientId", p.ClientID)
	}
	if p.PageNumber > 0 {
		q.Set("pageNumber", strconv.Itoa(p.PageNumber))
	}
	if p.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(p.PageSize))
	}
	return q
}

func meetingPath(id string) string {
	return "/meetings/" + url.PathEscape(id)
}

func (c *Client) ListMeetings(ctx context.Context, p ListParams) (models.Page[models.MeetingWire], error) {
	var page models.Page[models.MeetingWire]
	err := c.do(ctx, http.MethodGet, "/meetings", p.query(), nil, &page)
	return page, err
}

func (c *Client) GetMeeting(ctx context.Context, id string) (models.MeetingWire, error) {
	var m models.MeetingWire
	err := c.do(ctx, http.MethodGet, meetingPath(id), nil, nil, &m)
	return m, err
}

// GetMeetingForEdit fetches the richer record with the attendee breakdown.
// The endpoint is client-scoped, so clientID is required.
func (c *Client) GetMeetingForEdit(ctx context.Context, id, clientID string) (models.MeetingWire, error) {
	if clientID == "" {
		return models.MeetingWire{}, fmt.Errorf("client id is required for the edit fetch")
	}
	var m models.MeetingWire
	q := url.Values{"clientId": {clientID}}
	err := c.do(ctx, http.MethodGet, meetingPath(id)+"/edit", q, nil, &m)
	return m, err
}

func (c *Client) CreateMeeting(ctx context.Context, in models.MeetingInput) (models.MeetingWire, error) {
	var m models.MeetingWire
	err := c.do(ctx, http.MethodPost, "/meetings", nil, in, &m)
	return m, err
}

func (c *Client) UpdateMeeting(ctx context.Context, id string, in models.MeetingInput) (models.MeetingWire, error) {
	var m models.MeetingWire
	err := c.do(ctx, http.MethodPut, meetingPath(id), nil, in, &m)
	return m, err
}

// UpdateMeetingForEdit is the client-scoped update the edit form submits.
func (c *Client) UpdateMeetingForEdit(ctx context.Context, id, clientID string, in models.MeetingInput) (models.MeetingWire, error) {
	var m models.MeetingWire
	q := url.Values{"clientId": {clientID}}
	err := c.do(ctx, http.MethodPut, meetingPath(id), q, in, &m)
	return m, err
}

func (c *Client) RescheduleMeeting(ctx context.Context, id string, in models.RescheduleInput) (models.MeetingWire, error) {
	var m models.MeetingWire
	err := c.do(ctx, http.MethodPatch, meetingPath(id)+"/reschedule", nil, in, &m)
	return m, err
}

// SetMeetingStatus moves a meeting along its lifecycle.
func (c *Client) SetMeetingStatus(ctx context.Context, id string, status models.MeetingStatus) (models.MeetingWire, error) {
	var m models.MeetingWire
	body := struct {
		Status models.MeetingStatus `json:"status"`
	}{status}
	err := c.do(ctx, http.MethodPatch, meetingPath(id)+"/status", nil, body, &m)
	return m, err
}

func (c *Client) DeleteMeeting(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, meetingPath(id), nil, nil, nil)
}

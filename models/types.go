// ABOUTME: Data models for the meeting scheduling client
// ABOUTME: Defines Meeting, its wire shape, lookup records, and request payloads
package models

import (
	"strings"
	"time"
)

// MeetingType classifies how a meeting is held.
type MeetingType int

const (
	TypeInPerson MeetingType = 1
	TypeVirtual  MeetingType = 2
	TypePhone    MeetingType = 3
	TypeHybrid   MeetingType = 4
)

// Valid reports whether t is one of the enumerated meeting types.
func (t MeetingType) Valid() bool {
	return t >= TypeInPerson && t <= TypeHybrid
}

func (t MeetingType) String() string {
	switch t {
	case TypeInPerson:
		return "In Person"
	case TypeVirtual:
		return "Virtual"
	case TypePhone:
		return "Phone"
	case TypeHybrid:
		return "Hybrid"
	}
	return "Unknown"
}

// MeetingStatus is the lifecycle state of a meeting.
type MeetingStatus int

const (
	StatusScheduled  MeetingStatus = 1
	StatusInProgress MeetingStatus = 2
	StatusCompleted  MeetingStatus = 3
	StatusCancelled  MeetingStatus = 4
)

func (s MeetingStatus) Valid() bool {
	return s >= StatusScheduled && s <= StatusCancelled
}

func (s MeetingStatus) String() string {
	switch s {
	case StatusScheduled:
		return "Scheduled"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	case StatusCancelled:
		return "Cancelled"
	}
	return "Unknown"
}

// AttendeeKind tags an entry in the edit-fetch attendee breakdown.
type AttendeeKind int

const (
	AttendeeUser     AttendeeKind = 1
	AttendeeContact  AttendeeKind = 2
	AttendeeExternal AttendeeKind = 3
)

// Meeting is the normalized meeting record held by the store.
type Meeting struct {
	ID                 string        `json:"id"`
	TenantID           string        `json:"tenantId"`
	ClientID           string        `json:"clientId"`
	ClientName         string        `json:"clientName,omitempty"`
	Title              string        `json:"title"`
	Description        string        `json:"description,omitempty"`
	Location           string        `json:"location,omitempty"`
	Date               string        `json:"date"`
	StartTime          string        `json:"startTime"`
	EndTime            string        `json:"endTime"`
	Type               MeetingType   `json:"type"`
	Status             MeetingStatus `json:"status"`
	OrganizerUserID    string        `json:"organizerUserId"`
	OrganizerName      string        `json:"organizerName,omitempty"`
	AttendeeUserIDs    []string      `json:"attendeeUserIds,omitempty"`
	AttendeeContactIDs []int64       `json:"attendeeContactIds,omitempty"`
	ExternalAttendees  []string      `json:"externalAttendees,omitempty"`
	Created            time.Time     `json:"created"`
	Modified           *time.Time    `json:"modified,omitempty"`
	IsDeleted          bool          `json:"isDeleted"`
}

// DateKey returns the calendar date (YYYY-MM-DD) portion of Date.
func (m Meeting) DateKey() string {
	key, _, _ := strings.Cut(m.Date, "T")
	return key
}

// MeetingWire is the meeting shape as the backend sends it. Every field the
// backend may omit or null is a pointer; store.Normalize turns it into a Meeting.
type MeetingWire struct {
	ID                 *string        `json:"id"`
	TenantID           *string        `json:"tenantId"`
	ClientID           *string        `json:"clientId"`
	ClientName         *string        `json:"clientName"`
	Title              *string        `json:"title"`
	Description        *string        `json:"description"`
	Location           *string        `json:"location"`
	Date               *string        `json:"date"`
	StartTime          *string        `json:"startTime"`
	EndTime            *string        `json:"endTime"`
	Type               *int           `json:"type"`
	Status             *int           `json:"status"`
	OrganizerUserID    *string        `json:"organizerUserId"`
	OrganizerName      *string        `json:"organizerName"`
	AttendeeUserIDs    []string       `json:"attendeeUserIds"`
	AttendeeContactIDs []int64        `json:"attendeeContactIds"`
	ExternalAttendees  *string        `json:"externalAttendees"`
	Attendees          []AttendeeWire `json:"attendees"`
	Created            *time.Time     `json:"created"`
	Modified           *time.Time     `json:"modified"`
	IsDeleted          *bool          `json:"isDeleted"`
}

// AttendeeWire is one row of the attendee breakdown returned by the edit fetch.
type AttendeeWire struct {
	Kind        AttendeeKind `json:"attendeeType"`
	UserID      *string      `json:"userId,omitempty"`
	ContactID   *int64       `json:"clientContactId,omitempty"`
	Email       *string      `json:"email,omitempty"`
	DisplayName *string      `json:"displayName,omitempty"`
}

// Page is the paginated list envelope.
type Page[T any] struct {
	Items      []T `json:"items"`
	PageNumber int `json:"pageNumber"`
	PageSize   int `json:"pageSize"`
	TotalCount int `json:"totalCount"`
	TotalPages int `json:"totalPages"`
}

// HasMore reports whether pages remain after this one.
func (p Page[T]) HasMore() bool {
	return p.PageNumber < p.TotalPages
}

// MeetingInput is the create and update payload.
type MeetingInput struct {
	ClientID           string      `json:"clientId"`
	Title              string      `json:"title"`
	Description        string      `json:"description,omitempty"`
	Location           string      `json:"location,omitempty"`
	Date               string      `json:"date"`
	StartTime          string      `json:"startTime"`
	EndTime            string      `json:"endTime"`
	Type               MeetingType `json:"type"`
	OrganizerUserID    string      `json:"organizerUserId"`
	AttendeeUserIDs    []string    `json:"attendeeUserIds"`
	AttendeeContactIDs []int64     `json:"attendeeContactIds"`
	ExternalAttendees  string      `json:"externalAttendees"`
}

// RescheduleInput is the date/time-only partial update.
type RescheduleInput struct {
	NewDate      string `json:"newDate"`
	NewStartTime string `json:"newStartTime"`
	NewEndTime   string `json:"newEndTime"`
}

type Client struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type ClientContact struct {
	ID       int64  `json:"id"`
	ClientID string `json:"clientId"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
}

// ABOUTME: Meeting database operations for the reference backend
// ABOUTME: CRUD with soft delete, paginated listing, and attendee rows
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/rigboard/models"
)

const meetingColumns = `
	m.id, m.tenant_id, m.client_id, c.name, m.title, m.description, m.location,
	m.date, m.start_time, m.end_time, m.type, m.status,
	m.organizer_user_id, u.name, m.external_attendees,
	m.created_at, m.modified_at, m.is_deleted
`

const meetingFrom = `
	FROM meetings m
	LEFT JOIN clients c ON c.id = m.client_id
	LEFT JOIN users u ON u.id = m.organizer_user_id
`

// ListFilter selects one page of non-deleted meetings.
type ListFilter struct {
	ClientID   string
	PageNumber int
	PageSize   int
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanMeeting(row scanner) (models.Meeting, error) {
	var m models.Meeting
	var clientName, organizerName sql.NullString
	var external string
	var modified sql.NullTime

	err := row.Scan(
		&m.ID, &m.TenantID, &m.ClientID, &clientName, &m.Title, &m.Description, &m.Location,
		&m.Date, &m.StartTime, &m.EndTime, &m.Type, &m.Status,
		&m.OrganizerUserID, &organizerName, &external,
		&m.Created, &modified, &m.IsDeleted,
	)
	if err != nil {
		return m, err
	}

	m.ClientName = clientName.String
	m.OrganizerName = organizerName.String
	if external != "" {
		m.ExternalAttendees = strings.Split(external, ";")
	}
	if modified.Valid {
		t := modified.Time
		m.Modified = &t
	}
	return m, nil
}

// CreateMeeting inserts m with a fresh id and its attendee rows.
func CreateMeeting(db *sql.DB, m *models.Meeting) error {
	m.ID = uuid.New().String()
	m.Created = time.Now().UTC()
	m.Modified = nil
	m.IsDeleted = false
	if m.Status == 0 {
		m.Status = models.StatusScheduled
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`
		INSERT INTO meetings (
			id, tenant_id, client_id, title, description, location,
			date, start_time, end_time, type, status,
			organizer_user_id, external_attendees, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.TenantID, m.ClientID, m.Title, m.Description, m.Location,
		m.Date, m.StartTime, m.EndTime, m.Type, m.Status,
		m.OrganizerUserID, strings.Join(m.ExternalAttendees, ";"), m.Created)
	if err != nil {
		return fmt.Errorf("failed to insert meeting: %w", err)
	}

	if err := insertAttendees(tx, m); err != nil {
		return err
	}
	return tx.Commit()
}

// GetMeeting returns a non-deleted meeting with its attendee ids, or ErrNotFound.
func GetMeeting(db *sql.DB, id string) (*models.Meeting, error) {
	row := db.QueryRow(`SELECT `+meetingColumns+meetingFrom+` WHERE m.id = ? AND m.is_deleted = 0`, id)
	m, err := scanMeeting(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := loadAttendees(db, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMeetings returns one page ordered by date and start time.
func ListMeetings(db *sql.DB, f ListFilter) (models.Page[models.Meeting], error) {
	if f.PageNumber <= 0 {
		f.PageNumber = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 20
	}

	where := ` WHERE m.is_deleted = 0`
	var args []interface{}
	if f.ClientID != "" {
		where += ` AND m.client_id = ?`
		args = append(args, f.ClientID)
	}

	page := models.Page[models.Meeting]{PageNumber: f.PageNumber, PageSize: f.PageSize}
	if err := db.QueryRow(`SELECT COUNT(*) FROM meetings m`+where, args...).Scan(&page.TotalCount); err != nil {
		return page, fmt.Errorf("failed to count meetings: %w", err)
	}
	page.TotalPages = (page.TotalCount + f.PageSize - 1) / f.PageSize

	query := `SELECT ` + meetingColumns + meetingFrom + where +
		` ORDER BY m.date, m.start_time, m.id LIMIT ? OFFSET ?`
	args = append(args, f.PageSize, (f.PageNumber-1)*f.PageSize)

	items, err := queryMeetings(db, query, args...)
	if err != nil {
		return page, err
	}
	page.Items = items
	return page, nil
}

// ListMeetingsBetween returns non-deleted meetings whose date key falls in
// [from, to], both YYYY-MM-DD.
func ListMeetingsBetween(db *sql.DB, from, to string) ([]models.Meeting, error) {
	query := `SELECT ` + meetingColumns + meetingFrom +
		` WHERE m.is_deleted = 0 AND substr(m.date, 1, 10) BETWEEN ? AND ?
		ORDER BY m.date, m.start_time, m.id`
	return queryMeetings(db, query, from, to)
}

// queryMeetings drains the rows before loading attendees; the pool has a
// single connection.
func queryMeetings(db *sql.DB, query string, args ...interface{}) ([]models.Meeting, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query meetings: %w", err)
	}

	meetings := []models.Meeting{}
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan meeting: %w", err)
		}
		meetings = append(meetings, m)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	for i := range meetings {
		if err := loadAttendees(db, &meetings[i]); err != nil {
			return nil, err
		}
	}
	return meetings, nil
}

// UpdateMeeting replaces every editable field and the attendee set of an
// existing meeting. The client is never changed.
func UpdateMeeting(db *sql.DB, m *models.Meeting) error {
	now := time.Now().UTC()

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`
		UPDATE meetings
		SET title = ?, description = ?, location = ?, date = ?, start_time = ?, end_time = ?,
			type = ?, organizer_user_id = ?, external_attendees = ?, modified_at = ?
		WHERE id = ? AND is_deleted = 0
	`, m.Title, m.Description, m.Location, m.Date, m.StartTime, m.EndTime,
		m.Type, m.OrganizerUserID, strings.Join(m.ExternalAttendees, ";"), now, m.ID)
	if err != nil {
		return fmt.Errorf("failed to update meeting: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(`DELETE FROM meeting_attendees WHERE meeting_id = ?`, m.ID); err != nil {
		return fmt.Errorf("failed to clear attendees: %w", err)
	}
	if err := insertAttendees(tx, m); err != nil {
		return err
	}
	return tx.Commit()
}

// RescheduleMeeting changes only the date and times.
func RescheduleMeeting(db *sql.DB, id, date, start, end string) error {
	return execOne(db, `
		UPDATE meetings SET date = ?, start_time = ?, end_time = ?, modified_at = ?
		WHERE id = ? AND is_deleted = 0
	`, date, start, end, time.Now().UTC(), id)
}

// SetMeetingStatus moves a meeting to status.
func SetMeetingStatus(db *sql.DB, id string, status models.MeetingStatus) error {
	return execOne(db, `
		UPDATE meetings SET status = ?, modified_at = ?
		WHERE id = ? AND is_deleted = 0
	`, status, time.Now().UTC(), id)
}

// DeleteMeeting soft-deletes a meeting.
func DeleteMeeting(db *sql.DB, id string) error {
	return execOne(db, `
		UPDATE meetings SET is_deleted = 1, modified_at = ?
		WHERE id = ? AND is_deleted = 0
	`, time.Now().UTC(), id)
}

func execOne(db *sql.DB, query string, args ...interface{}) error {
	res, err := db.Exec(query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func insertAttendees(tx *sql.Tx, m *models.Meeting) error {
	for _, userID := range m.AttendeeUserIDs {
		if _, err := tx.Exec(`
			INSERT INTO meeting_attendees (meeting_id, attendee_type, user_id) VALUES (?, ?, ?)
		`, m.ID, models.AttendeeUser, userID); err != nil {
			return fmt.Errorf("failed to add user attendee: %w", err)
		}
	}
	for _, contactID := range m.AttendeeContactIDs {
		if _, err := tx.Exec(`
			INSERT INTO meeting_attendees (meeting_id, attendee_type, client_contact_id) VALUES (?, ?, ?)
		`, m.ID, models.AttendeeContact, contactID); err != nil {
			return fmt.Errorf("failed to add contact attendee: %w", err)
		}
	}
	return nil
}

func loadAttendees(db *sql.DB, m *models.Meeting) error {
	rows, err := db.Query(`
		SELECT attendee_type, user_id, client_contact_id
		FROM meeting_attendees WHERE meeting_id = ?
		ORDER BY rowid
	`, m.ID)
	if err != nil {
		return fmt.Errorf("failed to load attendees: %w", err)
	}
	defer func() { _ = rows.Close() }()

	m.AttendeeUserIDs = nil
	m.AttendeeContactIDs = nil
	for rows.Next() {
		var kind models.AttendeeKind
		var userID sql.NullString
		var contactID sql.NullInt64
		if err := rows.Scan(&kind, &userID, &contactID); err != nil {
			return err
		}
		switch kind {
		case models.AttendeeUser:
			m.AttendeeUserIDs = append(m.AttendeeUserIDs, userID.String)
		case models.AttendeeContact:
			m.AttendeeContactIDs = append(m.AttendeeContactIDs, contactID.Int64)
		}
	}
	return rows.Err()
}

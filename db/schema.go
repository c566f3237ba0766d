// ABOUTME: Database schema for clients, users, contacts, and meetings
// ABOUTME: Handles SQLite table creation and initialization
package db

import (
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS clients (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT
);

CREATE TABLE IF NOT EXISTS client_contacts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	client_id TEXT NOT NULL,
	name TEXT NOT NULL,
	email TEXT,
	FOREIGN KEY (client_id) REFERENCES clients(id)
);

CREATE INDEX IF NOT EXISTS idx_client_contacts_client ON client_contacts(client_id);

CREATE TABLE IF NOT EXISTS meetings (
	id TEXT PRIMARY KEY,
	tenant_id TEXT NOT NULL DEFAULT '',
	client_id TEXT NOT NULL,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	date TEXT NOT NULL,
	start_time TEXT NOT NULL,
	end_time TEXT NOT NULL,
	type INTEGER NOT NULL CHECK(type BETWEEN 1 AND 4),
	status INTEGER NOT NULL DEFAULT 1 CHECK(status BETWEEN 1 AND 4),
	organizer_user_id TEXT NOT NULL,
	external_attendees TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	modified_at DATETIME,
	is_deleted INTEGER NOT NULL DEFAULT 0,
	FOREIGN KEY (client_id) REFERENCES clients(id),
	FOREIGN KEY (organizer_user_id) REFERENCES users(id)
);

CREATE INDEX IF NOT EXISTS idx_meetings_client ON meetings(client_id);
CREATE INDEX IF NOT EXISTS idx_meetings_date ON meetings(date, start_time);

CREATE TABLE IF NOT EXISTS meeting_attendees (
	meeting_id TEXT NOT NULL,
	attendee_type INTEGER NOT NULL CHECK(attendee_type IN (1, 2)),
	user_id TEXT,
	client_contact_id INTEGER,
	FOREIGN KEY (meeting_id) REFERENCES meetings(id) ON DELETE CASCADE,
	FOREIGN KEY (user_id) REFERENCES users(id),
	FOREIGN KEY (client_contact_id) REFERENCES client_contacts(id)
);

CREATE INDEX IF NOT EXISTS idx_meeting_attendees_meeting ON meeting_attendees(meeting_id);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}

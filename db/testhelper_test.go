// ABOUTME: Shared helpers for database tests
// ABOUTME: Provides an in-memory database with schema and lookup rows
package db

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/harperreed/rigboard/models"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	database.SetMaxOpenConns(1)
	if err := InitSchema(database); err != nil {
		t.Fatalf("Failed to initialize schema: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	if err := CreateClient(database, &models.Client{ID: "C1", Name: "Acme Scaffolding"}); err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}
	if err := CreateClient(database, &models.Client{ID: "C2", Name: "Northwind Rentals"}); err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}
	if err := CreateUser(database, &models.User{ID: "U1", Name: "Dana"}); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if err := CreateUser(database, &models.User{ID: "U2", Name: "Sam"}); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return database
}

func newMeeting(date, start string) *models.Meeting {
	return &models.Meeting{
		ClientID:        "C1",
		Title:           "Meeting at " + start,
		Date:            date + "T00:00:00",
		StartTime:       start,
		EndTime:         "23:00:00",
		Type:            models.TypeInPerson,
		OrganizerUserID: "U1",
	}
}

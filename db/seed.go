// ABOUTME: Demo data for the reference backend
// ABOUTME: Seeds clients, staff, contacts, and a month of meetings around a given day
package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/harperreed/rigboard/models"
)

// SeedDemo fills an empty database with sample data centered on day.
// It does nothing when clients already exist.
func SeedDemo(db *sql.DB, day time.Time) error {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM clients`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	clients := []models.Client{
		{ID: "acme", Name: "Acme Scaffolding"},
		{ID: "northwind", Name: "Northwind Rentals"},
	}
	for i := range clients {
		if err := CreateClient(db, &clients[i]); err != nil {
			return fmt.Errorf("failed to seed client: %w", err)
		}
	}

	users := []models.User{
		{ID: "dana", Name: "Dana Ortiz", Email: "dana@rigboard.dev"},
		{ID: "sam", Name: "Sam Lee", Email: "sam@rigboard.dev"},
	}
	for i := range users {
		if err := CreateUser(db, &users[i]); err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}
	}

	contacts := []models.ClientContact{
		{ClientID: "acme", Name: "Ada Brooks", Email: "ada@acme.example"},
		{ClientID: "acme", Name: "Ben Hale", Email: "ben@acme.example"},
		{ClientID: "northwind", Name: "Nora Wynn", Email: "nora@northwind.example"},
	}
	for i := range contacts {
		if err := CreateClientContact(db, &contacts[i]); err != nil {
			return fmt.Errorf("failed to seed contact: %w", err)
		}
	}

	date := func(offset int) string {
		return day.AddDate(0, 0, offset).Format("2006-01-02") + "T00:00:00"
	}
	seeds := []models.Meeting{
		{ClientID: "acme", Title: "Site survey", Date: date(0), StartTime: "09:00:00", EndTime: "10:00:00",
			Type: models.TypeInPerson, OrganizerUserID: "dana", AttendeeContactIDs: []int64{contacts[0].ID}},
		{ClientID: "acme", Title: "Load calculation review", Date: date(0), StartTime: "11:00:00", EndTime: "11:30:00",
			Type: models.TypeVirtual, OrganizerUserID: "sam", AttendeeUserIDs: []string{"dana"}},
		{ClientID: "northwind", Title: "Equipment handover", Date: date(0), StartTime: "14:00:00", EndTime: "15:00:00",
			Type: models.TypeHybrid, OrganizerUserID: "dana", ExternalAttendees: []string{"ops@northwind.example"}},
		{ClientID: "northwind", Title: "Rental renewal call", Date: date(2), StartTime: "10:00:00", EndTime: "10:30:00",
			Type: models.TypePhone, OrganizerUserID: "sam"},
		{ClientID: "acme", Title: "Safety inspection", Date: date(-3), StartTime: "08:00:00", EndTime: "09:30:00",
			Type: models.TypeInPerson, OrganizerUserID: "dana", Status: models.StatusCompleted},
		{ClientID: "acme", Title: "Tower dismantle planning", Date: date(5), StartTime: "13:00:00", EndTime: "14:00:00",
			Type: models.TypeInPerson, OrganizerUserID: "sam", Status: models.StatusCancelled},
	}
	for i := range seeds {
		if err := CreateMeeting(db, &seeds[i]); err != nil {
			return fmt.Errorf("failed to seed meeting: %w", err)
		}
	}
	return nil
}

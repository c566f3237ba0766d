// ABOUTME: Client, user, and client contact database operations
// ABOUTME: Lookup records the meeting form needs for its option lists
package db

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/harperreed/rigboard/models"
)

func CreateClient(db *sql.DB, client *models.Client) error {
	if client.ID == "" {
		client.ID = uuid.New().String()
	}
	_, err := db.Exec(`INSERT INTO clients (id, name) VALUES (?, ?)`, client.ID, client.Name)
	return err
}

func GetClient(db *sql.DB, id string) (*models.Client, error) {
	client := &models.Client{}
	err := db.QueryRow(`SELECT id, name FROM clients WHERE id = ?`, id).Scan(&client.ID, &client.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return client, err
}

func ListClients(db *sql.DB) ([]models.Client, error) {
	rows, err := db.Query(`SELECT id, name FROM clients ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	clients := []models.Client{}
	for rows.Next() {
		var c models.Client
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func CreateUser(db *sql.DB, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	_, err := db.Exec(`INSERT INTO users (id, name, email) VALUES (?, ?, ?)`, user.ID, user.Name, user.Email)
	return err
}

func ListUsers(db *sql.DB) ([]models.User, error) {
	rows, err := db.Query(`SELECT id, name, email FROM users ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		var email sql.NullString
		if err := rows.Scan(&u.ID, &u.Name, &email); err != nil {
			return nil, err
		}
		u.Email = email.String
		users = append(users, u)
	}
	return users, rows.Err()
}

func CreateClientContact(db *sql.DB, contact *models.ClientContact) error {
	res, err := db.Exec(`INSERT INTO client_contacts (client_id, name, email) VALUES (?, ?, ?)`,
		contact.ClientID, contact.Name, contact.Email)
	if err != nil {
		return err
	}
	contact.ID, err = res.LastInsertId()
	return err
}

// ListClientContacts returns contacts for one client, or every contact when
// clientID is empty.
func ListClientContacts(db *sql.DB, clientID string) ([]models.ClientContact, error) {
	query := `SELECT id, client_id, name, email FROM client_contacts`
	var args []interface{}
	if clientID != "" {
		query += ` WHERE client_id = ?`
		args = append(args, clientID)
	}
	query += ` ORDER BY name`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	contacts := []models.ClientContact{}
	for rows.Next() {
		var c models.ClientContact
		var email sql.NullString
		if err := rows.Scan(&c.ID, &c.ClientID, &c.Name, &email); err != nil {
			return nil, err
		}
		c.Email = email.String
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

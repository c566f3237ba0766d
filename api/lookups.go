// ABOUTME: Lookup endpoints used to fill meeting form options
// ABOUTME: Clients, tenant users, and client contacts
package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/harperreed/rigboard/models"
)

func (c *Client) ListClients(ctx context.Context) ([]models.Client, error) {
	var out []models.Client
	err := c.do(ctx, http.MethodGet, "/clients", nil, nil, &out)
	return out, err
}

func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var out []models.User
	err := c.do(ctx, http.MethodGet, "/users", nil, nil, &out)
	return out, err
}

// ListClientContacts returns contacts, limited to clientID when it is set.
func (c *Client) ListClientContacts(ctx context.Context, clientID string) ([]models.ClientContact, error) {
	q := url.Values{}
	if clientID != "" {
		q.Set("clientId", clientID)
	}
	var out []models.ClientContact
	err := c.do(ctx, http.MethodGet, "/client-contacts", q, nil, &out)
	return out, err
}

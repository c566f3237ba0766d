// ABOUTME: Calendar API client setup for the Google Calendar mirror
// ABOUTME: Creates an authenticated Calendar service from an OAuth token
package sync

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// NewCalendarClient creates a Google Calendar API service from an OAuth token.
// The token refreshes automatically through config.
func NewCalendarClient(ctx context.Context, config *oauth2.Config, token *oauth2.Token) (*calendar.Service, error) {
	if token == nil {
		return nil, fmt.Errorf("token cannot be nil")
	}
	return NewCalendarService(ctx, config.Client(ctx, token), "")
}

// NewCalendarService builds the service over an already-authenticated client.
// A non-empty endpoint overrides the Google API base URL.
func NewCalendarService(ctx context.Context, client *http.Client, endpoint string) (*calendar.Service, error) {
	opts := []option.ClientOption{option.WithHTTPClient(client)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}

	service, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return service, nil
}

// ABOUTME: Tests for Google OAuth configuration and token storage
// ABOUTME: Verifies scopes, XDG token path, and token persistence
package sync

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
)

func TestOAuthConfigCreation(t *testing.T) {
	config := NewOAuthConfig()

	assert.Equal(t, []string{calendar.CalendarEventsScope}, config.Scopes)
	assert.Equal(t, RedirectURL, config.RedirectURL)
}

func TestOAuthConfigRequiresCredentials(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "")
	t.Setenv("GOOGLE_CLIENT_SECRET", "")

	_, err := OAuthConfig()
	assert.Error(t, err)

	t.Setenv("GOOGLE_CLIENT_ID", "id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "secret")

	config, err := OAuthConfig()
	require.NoError(t, err)
	assert.Equal(t, "id", config.ClientID)
}

func TestTokenPathXDG(t *testing.T) {
	path := TokenPath()

	assert.True(t, strings.HasPrefix(path, filepath.Join(xdg.DataHome, "rigboard")))
	assert.Equal(t, "google-credentials.json", filepath.Base(path))
}

func TestSaveAndLoadToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	token := &oauth2.Token{
		AccessToken:  "access",
		TokenType:    "Bearer",
		RefreshToken: "refresh",
		Expiry:       time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	}

	require.NoError(t, SaveToken(path, token))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, "refresh", loaded.RefreshToken)
	assert.True(t, token.Expiry.Equal(loaded.Expiry))

	_, err = LoadToken(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestNewCalendarClient(t *testing.T) {
	ctx := context.Background()

	service, err := NewCalendarClient(ctx, NewOAuthConfig(), &oauth2.Token{
		AccessToken: "test-access-token",
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	assert.NotNil(t, service)

	service, err = NewCalendarClient(ctx, NewOAuthConfig(), nil)
	assert.Error(t, err)
	assert.Nil(t, service)
}

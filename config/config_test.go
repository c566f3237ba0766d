// ABOUTME: Tests for layered configuration loading
// ABOUTME: Verifies defaults, TOML file values, and environment overrides
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	assert.Equal(t, DefaultPageSize, cfg.PageSize)
	assert.Equal(t, DefaultTimeout, cfg.Timeout.Duration)
	assert.Equal(t, "primary", cfg.GoogleCalendarID)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
api_base_url = "https://admin.example.com/api"
tenant_id = "acme"
page_size = 50
timeout = "5s"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	t.Setenv("RIGBOARD_TENANT_ID", "override")
	t.Setenv("RIGBOARD_API_TOKEN", "tok")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://admin.example.com/api", cfg.APIBaseURL)
	assert.Equal(t, "override", cfg.TenantID)
	assert.Equal(t, "tok", cfg.APIToken)
	assert.Equal(t, 50, cfg.PageSize)
	assert.Equal(t, 5*time.Second, cfg.Timeout.Duration)
}

func TestLoadRejectsBadEnv(t *testing.T) {
	t.Setenv("RIGBOARD_PAGE_SIZE", "many")

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("page_size = ["), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PageSize = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.APIBaseURL = ""
	assert.Error(t, cfg.Validate())
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := DefaultConfig()
	cfg.TenantID = "acme"
	cfg.Timeout = Duration{90 * time.Second}
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "acme", loaded.TenantID)
	assert.Equal(t, 90*time.Second, loaded.Timeout.Duration)
}

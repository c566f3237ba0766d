// ABOUTME: Tests for external attendee parsing
// ABOUTME: Covers trimming, empty segments, round-trips, and email validation
package meetings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExternalTrimsAndDropsEmpty(t *testing.T) {
	got := ParseExternal(" a@x.com ; b@y.com; ")
	assert.Equal(t, []string{"a@x.com", "b@y.com"}, got)
}

func TestParseExternalEmpty(t *testing.T) {
	assert.Empty(t, ParseExternal(""))
	assert.Empty(t, ParseExternal(" ; ;"))
}

func TestExternalRoundTrip(t *testing.T) {
	parsed := ParseExternal(" a@x.com ; b@y.com; ")
	joined := JoinExternal(parsed)

	assert.Equal(t, "a@x.com;b@y.com", joined)
	assert.Equal(t, parsed, ParseExternal(joined))
}

func TestJoinExternalDropsBlankEntries(t *testing.T) {
	assert.Equal(t, "a@x.com", JoinExternal([]string{"", " a@x.com ", "  "}))
}

func TestValidateExternal(t *testing.T) {
	require.NoError(t, ValidateExternal(""))
	require.NoError(t, ValidateExternal("a@x.com; b@y.co.uk"))

	err := ValidateExternal("a@x.com; not-an-email")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not-an-email")
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("ops@scaffold.example"))
	assert.False(t, ValidEmail("ops@scaffold"))
	assert.False(t, ValidEmail("ops scaffold@example.com"))
	assert.False(t, ValidEmail("@example.com"))
}

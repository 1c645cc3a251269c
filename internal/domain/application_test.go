package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApplication(t *testing.T) {
	app := NewApplication("app-1", "Jane", "j@x.com", "ig", "tech")

	assert.Equal(t, ApplicationStatusNew, app.Status)
	assert.False(t, app.CreatedAt.IsZero())
	assert.Equal(t, "ig", app.Instagram)
	assert.Equal(t, "tech", app.Niche)
}

func TestParseApplicationStatus(t *testing.T) {
	for _, s := range ApplicationStatuses {
		got, err := ParseApplicationStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	for _, bad := range []string{"", "archived", "NEW"} {
		_, err := ParseApplicationStatus(bad)
		assert.Error(t, err, bad)
	}
}

func TestApplicationStatus_OrDefault(t *testing.T) {
	assert.Equal(t, ApplicationStatusNew, ApplicationStatus("").OrDefault())
	assert.Equal(t, ApplicationStatusRejected, ApplicationStatusRejected.OrDefault())
}

func TestCountByStatus(t *testing.T) {
	apps := []*Application{
		{Status: ApplicationStatusNew},
		{Status: ""},
		{Status: ApplicationStatusApproved},
	}

	counts := CountByStatus(apps)

	assert.Equal(t, 2, counts[ApplicationStatusNew])
	assert.Equal(t, 1, counts[ApplicationStatusApproved])
	assert.Equal(t, 0, counts[ApplicationStatusRejected])
}

func TestSession_IsExpired(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	s := &Session{ExpiresAt: now.Add(time.Minute)}
	assert.False(t, s.IsExpired(now))
	assert.True(t, s.IsExpired(now.Add(time.Minute)))

	r := &PasswordReset{ExpiresAt: now}
	assert.True(t, r.IsExpired(now))
}

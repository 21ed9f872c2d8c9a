package attempt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInitialRemainingClampsToWindow(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	// 60-minute exam, but the absolute window closes in 10 minutes.
	end := now.Add(10 * time.Minute)

	assert.Equal(t, 10*time.Minute, InitialRemaining(60, end, now))
}

func TestInitialRemainingNominalWhenWindowIsWide(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	end := now.Add(3 * time.Hour)

	assert.Equal(t, 45*time.Minute, InitialRemaining(45, end, now))
}

func TestInitialRemainingZeroWhenWindowClosed(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	end := now.Add(-time.Minute)

	assert.Zero(t, InitialRemaining(60, end, now))
}

func TestFormatClock(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00"},
		{9 * time.Second, "00:09"},
		{60 * time.Second, "01:00"},
		{5*time.Minute + 7*time.Second, "05:07"},
		{90 * time.Minute, "90:00"},
		{-time.Second, "00:00"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FormatClock(c.in), "FormatClock(%v)", c.in)
	}
}

func TestUrgentBelowFiveMinutes(t *testing.T) {
	assert.False(t, Urgent(5*time.Minute))
	assert.True(t, Urgent(5*time.Minute-time.Second))
	assert.True(t, Urgent(0))
}

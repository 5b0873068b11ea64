package ratelimit_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/solemar/concierge/ratelimit"
	"github.com/stretchr/testify/assert"
)

func TestCheck_CeilingWithinWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := ratelimit.NewWithClock(5, time.Hour, func() time.Time { return now })

	for i := 1; i <= 5; i++ {
		res := l.Check("203.0.113.7")
		assert.True(t, res.Allowed, "request %d should be allowed", i)
		assert.Equal(t, 5-i, res.Remaining)
	}

	res := l.Check("203.0.113.7")
	assert.False(t, res.Allowed, "6th request in the window must be rejected")
	assert.Equal(t, 0, res.Remaining)
	assert.Equal(t, time.Hour, res.RetryAfter)
}

func TestCheck_RejectionDoesNotConsumeQuota(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := ratelimit.NewWithClock(2, time.Hour, func() time.Time { return now })

	l.Check("k")
	l.Check("k")

	// Hammering past the ceiling must not extend or inflate the counter.
	for i := 0; i < 10; i++ {
		res := l.Check("k")
		assert.False(t, res.Allowed)
	}
}

func TestCheck_WindowExpiryResetsCounter(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := ratelimit.NewWithClock(5, time.Hour, func() time.Time { return now })

	for i := 0; i < 6; i++ {
		l.Check("k")
	}

	now = now.Add(time.Hour + time.Second)

	res := l.Check("k")
	assert.True(t, res.Allowed, "a new window should start after expiry")
	assert.Equal(t, 4, res.Remaining)

	for i := 0; i < 4; i++ {
		res = l.Check("k")
		assert.True(t, res.Allowed)
	}
	res = l.Check("k")
	assert.False(t, res.Allowed, "the new window has the same ceiling")
}

func TestCheck_KeysAreIndependent(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := ratelimit.NewWithClock(1, time.Hour, func() time.Time { return now })

	assert.True(t, l.Check("a").Allowed)
	assert.False(t, l.Check("a").Allowed)
	assert.True(t, l.Check("b").Allowed)
}

func TestClientKey(t *testing.T) {
	h := http.Header{}
	h.Set("X-Forwarded-For", "198.51.100.4, 10.0.0.1")
	assert.Equal(t, "198.51.100.4", ratelimit.ClientKey(h))

	h = http.Header{}
	h.Set("X-Real-IP", "198.51.100.9")
	assert.Equal(t, "198.51.100.9", ratelimit.ClientKey(h))

	assert.Equal(t, "unknown", ratelimit.ClientKey(http.Header{}))
}

package promotion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRedeemable(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	p := &Promotion{
		IsActive: true,
		StartsAt: now.Add(-time.Hour),
		EndsAt:   now.Add(time.Hour),
	}
	assert.True(t, p.Redeemable(now))

	inactive := *p
	inactive.IsActive = false
	assert.False(t, inactive.Redeemable(now))

	expired := *p
	expired.EndsAt = now.Add(-time.Minute)
	assert.False(t, expired.Redeemable(now))

	notYet := *p
	notYet.StartsAt = now.Add(time.Minute)
	assert.False(t, notYet.Redeemable(now))

	// Window bounds are inclusive.
	atStart := *p
	atStart.StartsAt = now
	assert.True(t, atStart.Redeemable(now))
	atEnd := *p
	atEnd.EndsAt = now
	assert.True(t, atEnd.Redeemable(now))
}

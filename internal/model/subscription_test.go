package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSubscriptionQuotaRemaining(t *testing.T) {
	sub := UserSubscription{EmailQuota: 50, EmailsSent: 20}
	assert.Equal(t, 30, sub.QuotaRemaining())

	sub.EmailsSent = 50
	assert.Equal(t, 0, sub.QuotaRemaining())

	// Over-counts never go negative
	sub.EmailsSent = 60
	assert.Equal(t, 0, sub.QuotaRemaining())
}

func TestSubscriptionIsActive(t *testing.T) {
	sub := UserSubscription{
		Status:           SubscriptionActive,
		CurrentPeriodEnd: time.Now().Add(24 * time.Hour),
	}
	assert.True(t, sub.IsActive())

	sub.Status = SubscriptionCancelled
	assert.False(t, sub.IsActive())

	sub.Status = SubscriptionActive
	sub.CurrentPeriodEnd = time.Now().Add(-time.Hour)
	assert.False(t, sub.IsActive())
}

func TestUserIsLocked(t *testing.T) {
	u := User{Status: UserStatusActive}
	assert.False(t, u.IsLocked())
	assert.True(t, u.IsActive())

	until := time.Now().Add(time.Hour)
	u.LockedUntil = &until
	assert.True(t, u.IsLocked())

	past := time.Now().Add(-time.Hour)
	u.LockedUntil = &past
	assert.False(t, u.IsLocked())

	u.LockedUntil = nil
	u.Status = UserStatusLocked
	assert.True(t, u.IsLocked())
}

func TestContactFullName(t *testing.T) {
	c := Contact{FirstName: "Ada", LastName: "Lovelace"}
	assert.Equal(t, "Ada Lovelace", c.FullName())
}

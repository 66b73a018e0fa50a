package model

import (
	"time"
)

// SubscriptionPlan represents a billing plan
type SubscriptionPlan string

const (
	PlanFree    SubscriptionPlan = "free"
	PlanPremium SubscriptionPlan = "premium"
)

// SubscriptionStatus represents the state of a subscription
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// Default monthly email quotas per plan.
const (
	FreePlanQuota    = 50
	PremiumPlanQuota = 2000
)

// UserSubscription represents a user's billing plan and sending quota
type UserSubscription struct {
	ID               string             `json:"id"`
	UserID           string             `json:"userId"`
	Plan             SubscriptionPlan   `json:"plan"`
	Status           SubscriptionStatus `json:"status"`
	EmailQuota       int                `json:"emailQuota"`
	EmailsSent       int                `json:"emailsSent"`
	CurrentPeriodEnd time.Time          `json:"currentPeriodEnd"`
	CreatedAt        time.Time          `json:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt"`
}

// QuotaRemaining returns how many emails the user may still send this period
func (s *UserSubscription) QuotaRemaining() int {
	remaining := s.EmailQuota - s.EmailsSent
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsActive reports whether the subscription is active and inside its
// current billing period.
func (s *UserSubscription) IsActive() bool {
	return s.Status == SubscriptionActive && time.Now().Before(s.CurrentPeriodEnd)
}

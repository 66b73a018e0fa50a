package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sourcery-io/sourcery/internal/database"
	"github.com/sourcery-io/sourcery/internal/model"
)

// SubscriptionRepository handles subscription persistence
type SubscriptionRepository struct {
	db *database.Postgres
}

// NewSubscriptionRepository creates a new SubscriptionRepository
func NewSubscriptionRepository(db *database.Postgres) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Create inserts a new subscription
func (r *SubscriptionRepository) Create(ctx context.Context, s *model.UserSubscription) error {
	query := `
		INSERT INTO user_subscriptions (id, user_id, plan, status, email_quota, emails_sent, current_period_end, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.UserID, s.Plan, s.Status, s.EmailQuota, s.EmailsSent, s.CurrentPeriodEnd, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	return nil
}

// GetByUser retrieves the subscription for a user
func (r *SubscriptionRepository) GetByUser(ctx context.Context, userID string) (*model.UserSubscription, error) {
	query := `
		SELECT id, user_id, plan, status, email_quota, emails_sent, current_period_end, created_at, updated_at
		FROM user_subscriptions
		WHERE user_id = $1
	`
	var s model.UserSubscription
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&s.ID, &s.UserID, &s.Plan, &s.Status, &s.EmailQuota, &s.EmailsSent, &s.CurrentPeriodEnd, &s.CreatedAt, &s.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return &s, nil
}

// ConsumeQuota atomically reserves n sends against the user's quota.
// Returns the remaining quota, or ErrQuotaExceeded when there is not
// enough left.
func (r *SubscriptionRepository) ConsumeQuota(ctx context.Context, userID string, n int) (int, error) {
	query := `
		UPDATE user_subscriptions
		SET emails_sent = emails_sent + $1, updated_at = $2
		WHERE user_id = $3 AND emails_sent + $1 <= email_quota
		RETURNING email_quota - emails_sent
	`
	var remaining int
	err := r.db.QueryRowContext(ctx, query, n, time.Now(), userID).Scan(&remaining)
	if err == sql.ErrNoRows {
		return 0, ErrQuotaExceeded
	}
	if err != nil {
		return 0, fmt.Errorf("failed to consume quota: %w", err)
	}
	return remaining, nil
}

// ReleaseQuota returns n sends to the user's quota after failed deliveries
func (r *SubscriptionRepository) ReleaseQuota(ctx context.Context, userID string, n int) error {
	query := `
		UPDATE user_subscriptions
		SET emails_sent = GREATEST(emails_sent - $1, 0), updated_at = $2
		WHERE user_id = $3
	`
	_, err := r.db.ExecContext(ctx, query, n, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to release quota: %w", err)
	}
	return nil
}

// UpdatePlan changes the user's plan and quota
func (r *SubscriptionRepository) UpdatePlan(ctx context.Context, userID string, plan model.SubscriptionPlan, quota int) error {
	query := `UPDATE user_subscriptions SET plan = $1, email_quota = $2, updated_at = $3 WHERE user_id = $4`
	result, err := r.db.ExecContext(ctx, query, plan, quota, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ResetPeriod starts a new billing period with a fresh quota
func (r *SubscriptionRepository) ResetPeriod(ctx context.Context, userID string, periodEnd time.Time) error {
	query := `UPDATE user_subscriptions SET emails_sent = 0, current_period_end = $1, updated_at = $2 WHERE user_id = $3`
	_, err := r.db.ExecContext(ctx, query, periodEnd, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to reset subscription period: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sourcery-io/sourcery/internal/database"
	"github.com/sourcery-io/sourcery/internal/model"
)

// PasswordResetRepository persists one-shot password reset tokens.
type PasswordResetRepository struct {
	db *database.Postgres
}

// NewPasswordResetRepository creates a new PasswordResetRepository
func NewPasswordResetRepository(db *database.Postgres) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

// Create stores a new password reset token
func (r *PasswordResetRepository) Create(ctx context.Context, token *model.PasswordResetToken) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO password_reset_tokens (id, user_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		token.ID, token.UserID, token.TokenHash, token.ExpiresAt, token.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create password reset token: %w", err)
	}
	return nil
}

// GetByTokenHash retrieves a password reset token by its hash
func (r *PasswordResetRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*model.PasswordResetToken, error) {
	var token model.PasswordResetToken
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, token_hash, expires_at, used_at, created_at
		FROM password_reset_tokens
		WHERE token_hash = $1`,
		tokenHash,
	).Scan(&token.ID, &token.UserID, &token.TokenHash, &token.ExpiresAt, &token.UsedAt, &token.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get password reset token: %w", err)
	}
	return &token, nil
}

// MarkUsed marks a password reset token as consumed
func (r *PasswordResetRepository) MarkUsed(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE password_reset_tokens SET used_at = $1 WHERE id = $2`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to mark password reset token as used: %w", err)
	}
	return nil
}

// InvalidateAllForUser burns every outstanding reset token for a user, so a
// completed reset or a new request leaves only one live token at a time.
func (r *PasswordResetRepository) InvalidateAllForUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE password_reset_tokens SET used_at = $1 WHERE user_id = $2 AND used_at IS NULL`,
		time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to invalidate password reset tokens: %w", err)
	}
	return nil
}

// CleanupExpired deletes expired reset tokens.
func (r *PasswordResetRepository) CleanupExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM password_reset_tokens WHERE expires_at < $1`, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup expired password reset tokens: %w", err)
	}
	return result.RowsAffected()
}

// CountRecentByUserID counts reset tokens created since the given time,
// limiting how often reset mail goes out per user.
func (r *PasswordResetRepository) CountRecentByUserID(ctx context.Context, userID string, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM password_reset_tokens WHERE user_id = $1 AND created_at > $2`,
		userID, since,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count recent password reset tokens: %w", err)
	}
	return count, nil
}

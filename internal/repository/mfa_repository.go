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

const mfaMethodColumns = `id, user_id, method, secret, last_used, created_at`

// MFARepository persists enrolled MFA methods and backup codes.
type MFARepository struct {
	db *database.Postgres
}

// NewMFARepository creates a new MFARepository
func NewMFARepository(db *database.Postgres) *MFARepository {
	return &MFARepository{db: db}
}

// CreateMethod inserts a new MFA method for a user
func (r *MFARepository) CreateMethod(ctx context.Context, method *model.MFAMethod) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO mfa_methods (id, user_id, method, secret, last_used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		method.ID, method.UserID, method.Method, method.Secret, method.LastUsed, method.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create MFA method: %w", err)
	}
	return nil
}

// GetMethodByUserAndType retrieves a specific MFA method for a user
func (r *MFARepository) GetMethodByUserAndType(ctx context.Context, userID string, method model.MFAMethodType) (*model.MFAMethod, error) {
	var m model.MFAMethod
	err := r.db.QueryRowContext(ctx,
		`SELECT `+mfaMethodColumns+` FROM mfa_methods WHERE user_id = $1 AND method = $2`,
		userID, method,
	).Scan(&m.ID, &m.UserID, &m.Method, &m.Secret, &m.LastUsed, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get MFA method: %w", err)
	}
	return &m, nil
}

// GetMethodsByUser retrieves all MFA methods for a user
func (r *MFARepository) GetMethodsByUser(ctx context.Context, userID string) ([]*model.MFAMethod, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+mfaMethodColumns+` FROM mfa_methods WHERE user_id = $1 ORDER BY created_at ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query MFA methods: %w", err)
	}
	defer rows.Close()

	var methods []*model.MFAMethod
	for rows.Next() {
		var m model.MFAMethod
		if err := rows.Scan(&m.ID, &m.UserID, &m.Method, &m.Secret, &m.LastUsed, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan MFA method: %w", err)
		}
		methods = append(methods, &m)
	}
	return methods, rows.Err()
}

// UpdateMethodLastUsed stamps the method after a successful verification
func (r *MFARepository) UpdateMethodLastUsed(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE mfa_methods SET last_used = $1 WHERE id = $2`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update MFA method last_used: %w", err)
	}
	return nil
}

// DeleteMethod removes an MFA method
func (r *MFARepository) DeleteMethod(ctx context.Context, userID string, method model.MFAMethodType) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM mfa_methods WHERE user_id = $1 AND method = $2`, userID, method)
	if err != nil {
		return fmt.Errorf("failed to delete MFA method: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// HasAnyMethod checks if a user has any MFA method enrolled
func (r *MFARepository) HasAnyMethod(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM mfa_methods WHERE user_id = $1)`, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check MFA methods: %w", err)
	}
	return exists, nil
}

// CreateBackupCodes inserts a batch of backup codes in one transaction so a
// partial batch never persists.
func (r *MFARepository) CreateBackupCodes(ctx context.Context, codes []*model.BackupCode) error {
	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	const insert = `INSERT INTO backup_codes (id, user_id, code_hash, created_at) VALUES ($1, $2, $3, $4)`
	for _, code := range codes {
		if _, err := tx.ExecContext(ctx, insert, code.ID, code.UserID, code.CodeHash, code.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert backup code: %w", err)
		}
	}

	return tx.Commit()
}

// GetUnusedBackupCodes retrieves all unused backup codes for a user
func (r *MFARepository) GetUnusedBackupCodes(ctx context.Context, userID string) ([]*model.BackupCode, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, code_hash, used_at, created_at
		FROM backup_codes
		WHERE user_id = $1 AND used_at IS NULL
		ORDER BY created_at ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query backup codes: %w", err)
	}
	defer rows.Close()

	var codes []*model.BackupCode
	for rows.Next() {
		var c model.BackupCode
		if err := rows.Scan(&c.ID, &c.UserID, &c.CodeHash, &c.UsedAt, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan backup code: %w", err)
		}
		codes = append(codes, &c)
	}
	return codes, rows.Err()
}

// CountUnusedBackupCodes returns how many backup codes remain
func (r *MFARepository) CountUnusedBackupCodes(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM backup_codes WHERE user_id = $1 AND used_at IS NULL`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count backup codes: %w", err)
	}
	return count, nil
}

// MarkBackupCodeUsed burns a backup code
func (r *MFARepository) MarkBackupCodeUsed(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE backup_codes SET used_at = $1 WHERE id = $2`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to mark backup code as used: %w", err)
	}
	return nil
}

// DeleteAllBackupCodes clears a user's codes ahead of regeneration
func (r *MFARepository) DeleteAllBackupCodes(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM backup_codes WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete backup codes: %w", err)
	}
	return nil
}

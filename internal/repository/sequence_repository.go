package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/sourcery-io/sourcery/internal/database"
	"github.com/sourcery-io/sourcery/internal/model"
)

// SequenceRepository handles email sequence persistence
type SequenceRepository struct {
	db *database.Postgres
}

// NewSequenceRepository creates a new SequenceRepository
func NewSequenceRepository(db *database.Postgres) *SequenceRepository {
	return &SequenceRepository{db: db}
}

// Create inserts a new email sequence
func (r *SequenceRepository) Create(ctx context.Context, s *model.EmailSequence) error {
	query := `
		INSERT INTO email_sequences (
			id, user_id, template_id, status, interval_days, max_followups,
			batch_size, stagger_delay_minutes, time_window_start, time_window_end,
			days_active, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.UserID, s.TemplateID, s.Status, s.IntervalDays, s.MaxFollowups,
		s.BatchSize, s.StaggerDelayMinutes, s.TimeWindowStart, s.TimeWindowEnd,
		pq.Array(s.DaysActive), s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create sequence: %w", err)
	}
	return nil
}

// GetByID retrieves a sequence scoped to its owner
func (r *SequenceRepository) GetByID(ctx context.Context, userID, id string) (*model.EmailSequence, error) {
	query := `
		SELECT id, user_id, template_id, status, interval_days, max_followups,
		       batch_size, stagger_delay_minutes, time_window_start, time_window_end,
		       days_active, created_at, updated_at
		FROM email_sequences
		WHERE id = $1 AND user_id = $2
	`
	var s model.EmailSequence
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&s.ID, &s.UserID, &s.TemplateID, &s.Status, &s.IntervalDays, &s.MaxFollowups,
		&s.BatchSize, &s.StaggerDelayMinutes, &s.TimeWindowStart, &s.TimeWindowEnd,
		pq.Array(&s.DaysActive), &s.CreatedAt, &s.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sequence: %w", err)
	}
	return &s, nil
}

// ListByUser retrieves all sequences for a user joined with template display
// fields, newest first
func (r *SequenceRepository) ListByUser(ctx context.Context, userID string) ([]*model.SequenceWithTemplate, error) {
	query := `
		SELECT s.id, s.user_id, s.template_id, s.status, s.interval_days, s.max_followups,
		       s.batch_size, s.stagger_delay_minutes, s.time_window_start, s.time_window_end,
		       s.days_active, s.created_at, s.updated_at,
		       t.name, t.subject
		FROM email_sequences s
		JOIN email_templates t ON t.id = s.template_id
		WHERE s.user_id = $1
		ORDER BY s.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sequences: %w", err)
	}
	defer rows.Close()

	var sequences []*model.SequenceWithTemplate
	for rows.Next() {
		var s model.SequenceWithTemplate
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.TemplateID, &s.Status, &s.IntervalDays, &s.MaxFollowups,
			&s.BatchSize, &s.StaggerDelayMinutes, &s.TimeWindowStart, &s.TimeWindowEnd,
			pq.Array(&s.DaysActive), &s.CreatedAt, &s.UpdatedAt,
			&s.TemplateName, &s.TemplateSubject,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sequence: %w", err)
		}
		sequences = append(sequences, &s)
	}
	return sequences, rows.Err()
}

// CountByUser returns the number of sequences a user has
func (r *SequenceRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM email_sequences WHERE user_id = $1`
	var count int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count sequences: %w", err)
	}
	return count, nil
}

// Update updates a sequence's mutable fields
func (r *SequenceRepository) Update(ctx context.Context, s *model.EmailSequence) error {
	query := `
		UPDATE email_sequences
		SET template_id = $1, interval_days = $2, max_followups = $3,
		    batch_size = $4, stagger_delay_minutes = $5,
		    time_window_start = $6, time_window_end = $7, days_active = $8,
		    updated_at = $9
		WHERE id = $10 AND user_id = $11
	`
	result, err := r.db.ExecContext(ctx, query,
		s.TemplateID, s.IntervalDays, s.MaxFollowups,
		s.BatchSize, s.StaggerDelayMinutes,
		s.TimeWindowStart, s.TimeWindowEnd, pq.Array(s.DaysActive),
		time.Now(), s.ID, s.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update sequence: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateStatus transitions a sequence to a new status
func (r *SequenceRepository) UpdateStatus(ctx context.Context, userID, id string, status model.SequenceStatus) error {
	query := `UPDATE email_sequences SET status = $1, updated_at = $2 WHERE id = $3 AND user_id = $4`
	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id, userID)
	if err != nil {
		return fmt.Errorf("failed to update sequence status: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a sequence scoped to its owner
func (r *SequenceRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM email_sequences WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete sequence: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

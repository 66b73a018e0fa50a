package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sourcery-io/sourcery/internal/database"
	"github.com/sourcery-io/sourcery/internal/model"
)

// TemplateRepository handles email template persistence
type TemplateRepository struct {
	db *database.Postgres
}

// NewTemplateRepository creates a new TemplateRepository
func NewTemplateRepository(db *database.Postgres) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// Create inserts a new email template
func (r *TemplateRepository) Create(ctx context.Context, t *model.EmailTemplate) error {
	query := `
		INSERT INTO email_templates (id, user_id, name, subject, content, category, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.UserID, t.Name, t.Subject, t.Content, t.Category, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}
	return nil
}

// GetByID retrieves a template scoped to its owner
func (r *TemplateRepository) GetByID(ctx context.Context, userID, id string) (*model.EmailTemplate, error) {
	query := `
		SELECT id, user_id, name, subject, content, category, created_at, updated_at
		FROM email_templates
		WHERE id = $1 AND user_id = $2
	`
	return r.scanTemplate(r.db.QueryRowContext(ctx, query, id, userID))
}

// ListByUser retrieves all templates for a user, newest first
func (r *TemplateRepository) ListByUser(ctx context.Context, userID string) ([]*model.EmailTemplate, error) {
	query := `
		SELECT id, user_id, name, subject, content, category, created_at, updated_at
		FROM email_templates
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}
	defer rows.Close()

	var templates []*model.EmailTemplate
	for rows.Next() {
		var t model.EmailTemplate
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.Name, &t.Subject, &t.Content, &t.Category, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, &t)
	}
	return templates, rows.Err()
}

// CountByUser returns the number of templates a user has
func (r *TemplateRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM email_templates WHERE user_id = $1`
	var count int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count templates: %w", err)
	}
	return count, nil
}

// Update updates a template's mutable fields
func (r *TemplateRepository) Update(ctx context.Context, t *model.EmailTemplate) error {
	query := `
		UPDATE email_templates
		SET name = $1, subject = $2, content = $3, category = $4, updated_at = $5
		WHERE id = $6 AND user_id = $7
	`
	result, err := r.db.ExecContext(ctx, query,
		t.Name, t.Subject, t.Content, t.Category, time.Now(), t.ID, t.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update template: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a template scoped to its owner
func (r *TemplateRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM email_templates WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TemplateRepository) scanTemplate(row *sql.Row) (*model.EmailTemplate, error) {
	var t model.EmailTemplate
	err := row.Scan(
		&t.ID, &t.UserID, &t.Name, &t.Subject, &t.Content, &t.Category, &t.CreatedAt, &t.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan template: %w", err)
	}
	return &t, nil
}

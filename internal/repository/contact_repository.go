package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sourcery-io/sourcery/internal/database"
	"github.com/sourcery-io/sourcery/internal/model"
)

// ContactRepository handles contact data persistence
type ContactRepository struct {
	db *database.Postgres
}

// NewContactRepository creates a new ContactRepository
func NewContactRepository(db *database.Postgres) *ContactRepository {
	return &ContactRepository{db: db}
}

// Create inserts a new contact
func (r *ContactRepository) Create(ctx context.Context, contact *model.Contact) error {
	query := `
		INSERT INTO contacts (id, user_id, first_name, last_name, email, company, title, industry, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		contact.ID,
		contact.UserID,
		contact.FirstName,
		contact.LastName,
		contact.Email,
		contact.Company,
		contact.Title,
		contact.Industry,
		contact.CreatedAt,
		contact.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

// CreateBatch inserts multiple contacts in one transaction.
// Rows that collide on (user_id, email) are skipped.
func (r *ContactRepository) CreateBatch(ctx context.Context, contacts []*model.Contact) (int, error) {
	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO contacts (id, user_id, first_name, last_name, email, company, title, industry, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, email) DO NOTHING
	`
	inserted := 0
	for _, c := range contacts {
		result, err := tx.ExecContext(ctx, query,
			c.ID, c.UserID, c.FirstName, c.LastName, c.Email,
			c.Company, c.Title, c.Industry, c.CreatedAt, c.UpdatedAt,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert contact: %w", err)
		}
		if n, _ := result.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit contact batch: %w", err)
	}
	return inserted, nil
}

// GetByID retrieves a contact scoped to its owner
func (r *ContactRepository) GetByID(ctx context.Context, userID, id string) (*model.Contact, error) {
	query := `
		SELECT id, user_id, first_name, last_name, email, company, title, industry, created_at, updated_at
		FROM contacts
		WHERE id = $1 AND user_id = $2
	`
	return r.scanContact(r.db.QueryRowContext(ctx, query, id, userID))
}

// ListByUser retrieves all contacts for a user, newest first
func (r *ContactRepository) ListByUser(ctx context.Context, userID string) ([]*model.Contact, error) {
	query := `
		SELECT id, user_id, first_name, last_name, email, company, title, industry, created_at, updated_at
		FROM contacts
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*model.Contact
	for rows.Next() {
		var c model.Contact
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.FirstName, &c.LastName, &c.Email,
			&c.Company, &c.Title, &c.Industry, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, &c)
	}
	return contacts, rows.Err()
}

// CountByUser returns the number of contacts a user has
func (r *ContactRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM contacts WHERE user_id = $1`
	var count int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count contacts: %w", err)
	}
	return count, nil
}

// Update updates a contact's mutable fields
func (r *ContactRepository) Update(ctx context.Context, contact *model.Contact) error {
	query := `
		UPDATE contacts
		SET first_name = $1, last_name = $2, email = $3, company = $4, title = $5, industry = $6, updated_at = $7
		WHERE id = $8 AND user_id = $9
	`
	result, err := r.db.ExecContext(ctx, query,
		contact.FirstName, contact.LastName, contact.Email,
		contact.Company, contact.Title, contact.Industry,
		time.Now(), contact.ID, contact.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a contact scoped to its owner
func (r *ContactRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM contacts WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ContactRepository) scanContact(row *sql.Row) (*model.Contact, error) {
	var c model.Contact
	err := row.Scan(
		&c.ID, &c.UserID, &c.FirstName, &c.LastName, &c.Email,
		&c.Company, &c.Title, &c.Industry, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan contact: %w", err)
	}
	return &c, nil
}

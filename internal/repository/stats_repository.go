package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/sourcery-io/sourcery/internal/database"
	"github.com/sourcery-io/sourcery/internal/model"
)

// StatsRepository handles email event persistence and aggregation
type StatsRepository struct {
	db *database.Postgres
}

// NewStatsRepository creates a new StatsRepository
func NewStatsRepository(db *database.Postgres) *StatsRepository {
	return &StatsRepository{db: db}
}

// Record inserts a new email event
func (r *StatsRepository) Record(ctx context.Context, stat *model.EmailStat) error {
	query := `
		INSERT INTO email_stats (id, user_id, sequence_id, contact_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		stat.ID, stat.UserID, stat.SequenceID, stat.ContactID, stat.Status, stat.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record email stat: %w", err)
	}
	return nil
}

// Summary aggregates a user's email events by outcome
func (r *StatsRepository) Summary(ctx context.Context, userID string) (*model.EmailStatsSummary, error) {
	query := `
		SELECT status, COUNT(*)
		FROM email_stats
		WHERE user_id = $1
		GROUP BY status
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query email stats: %w", err)
	}
	defer rows.Close()

	var summary model.EmailStatsSummary
	for rows.Next() {
		var status model.EmailEvent
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan email stat: %w", err)
		}
		switch status {
		case model.EmailEventSent:
			summary.Sent = count
		case model.EmailEventBounced:
			summary.Bounced = count
		case model.EmailEventOpened:
			summary.Opened = count
		case model.EmailEventResponded:
			summary.Responded = count
		}
	}
	return &summary, rows.Err()
}

// Daily aggregates the user's events per day over the trailing window
func (r *StatsRepository) Daily(ctx context.Context, userID string, since time.Time) ([]*model.DailyStat, error) {
	query := `
		SELECT DATE(created_at) AS day,
		       COUNT(*) FILTER (WHERE status = 'sent'),
		       COUNT(*) FILTER (WHERE status = 'opened'),
		       COUNT(*) FILTER (WHERE status = 'responded')
		FROM email_stats
		WHERE user_id = $1 AND created_at >= $2
		GROUP BY day
		ORDER BY day ASC
	`
	rows, err := r.db.QueryContext(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily stats: %w", err)
	}
	defer rows.Close()

	var daily []*model.DailyStat
	for rows.Next() {
		var day time.Time
		var s model.DailyStat
		if err := rows.Scan(&day, &s.Sent, &s.Opened, &s.Responded); err != nil {
			return nil, fmt.Errorf("failed to scan daily stat: %w", err)
		}
		s.Date = day.Format("Jan 02")
		daily = append(daily, &s)
	}
	return daily, rows.Err()
}

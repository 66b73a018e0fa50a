package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sourcery-io/sourcery/internal/catalog"
	"github.com/sourcery-io/sourcery/internal/email"
	"github.com/sourcery-io/sourcery/internal/logger"
	"github.com/sourcery-io/sourcery/internal/model"
	"github.com/sourcery-io/sourcery/internal/repository"
)

// Sequence service errors
var (
	ErrSequenceNotActive = errors.New("sequence is not active")
	ErrQuotaExceeded     = errors.New("email quota exceeded")
	ErrNoContacts        = errors.New("no contacts to send to")
)

// SequenceService handles email sequence business logic
type SequenceService struct {
	sequenceRepo     *repository.SequenceRepository
	templateRepo     *repository.TemplateRepository
	contactRepo      *repository.ContactRepository
	subscriptionRepo *repository.SubscriptionRepository
	statsRepo        *repository.StatsRepository
	sender           email.Sender
	log              *logger.Logger
}

// NewSequenceService creates a new SequenceService
func NewSequenceService(
	sequenceRepo *repository.SequenceRepository,
	templateRepo *repository.TemplateRepository,
	contactRepo *repository.ContactRepository,
	subscriptionRepo *repository.SubscriptionRepository,
	statsRepo *repository.StatsRepository,
	sender email.Sender,
	log *logger.Logger,
) *SequenceService {
	return &SequenceService{
		sequenceRepo:     sequenceRepo,
		templateRepo:     templateRepo,
		contactRepo:      contactRepo,
		subscriptionRepo: subscriptionRepo,
		statsRepo:        statsRepo,
		sender:           sender,
		log:              log.WithComponent("sequence_service"),
	}
}

// SequenceInput is the payload for creating or updating a sequence
type SequenceInput struct {
	TemplateID          string   `json:"templateId"`
	IntervalDays        int      `json:"intervalDays"`
	MaxFollowups        int      `json:"maxFollowups"`
	BatchSize           int      `json:"batchSize"`
	StaggerDelayMinutes int      `json:"staggerDelayMinutes"`
	TimeWindowStart     string   `json:"timeWindowStart"`
	TimeWindowEnd       string   `json:"timeWindowEnd"`
	DaysActive          []string `json:"daysActive"`
}

func (in *SequenceInput) applyDefaults() {
	if in.IntervalDays <= 0 {
		in.IntervalDays = 1
	}
	if in.MaxFollowups <= 0 {
		in.MaxFollowups = 3
	}
	if in.BatchSize <= 0 {
		in.BatchSize = 50
	}
	if in.StaggerDelayMinutes <= 0 {
		in.StaggerDelayMinutes = 5
	}
	if in.TimeWindowStart == "" {
		in.TimeWindowStart = "09:00"
	}
	if in.TimeWindowEnd == "" {
		in.TimeWindowEnd = "17:00"
	}
	if len(in.DaysActive) == 0 {
		in.DaysActive = []string{"monday", "tuesday", "wednesday", "thursday", "friday"}
	}
}

// Create sets up a new draft sequence backed by one of the user's templates
func (s *SequenceService) Create(ctx context.Context, userID string, in SequenceInput) (*model.EmailSequence, error) {
	// The template must exist and belong to the user
	if _, err := s.templateRepo.GetByID(ctx, userID, in.TemplateID); err != nil {
		return nil, fmt.Errorf("template lookup failed: %w", err)
	}

	in.applyDefaults()

	now := time.Now()
	seq := &model.EmailSequence{
		ID:                  generateID("seq"),
		UserID:              userID,
		TemplateID:          in.TemplateID,
		Status:              model.SequenceStatusDraft,
		IntervalDays:        in.IntervalDays,
		MaxFollowups:        in.MaxFollowups,
		BatchSize:           in.BatchSize,
		StaggerDelayMinutes: in.StaggerDelayMinutes,
		TimeWindowStart:     in.TimeWindowStart,
		TimeWindowEnd:       in.TimeWindowEnd,
		DaysActive:          in.DaysActive,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.sequenceRepo.Create(ctx, seq); err != nil {
		return nil, err
	}
	return seq, nil
}

// List returns the user's sequences with template display fields
func (s *SequenceService) List(ctx context.Context, userID string) ([]*model.SequenceWithTemplate, error) {
	return s.sequenceRepo.ListByUser(ctx, userID)
}

// Get returns a single sequence
func (s *SequenceService) Get(ctx context.Context, userID, id string) (*model.EmailSequence, error) {
	return s.sequenceRepo.GetByID(ctx, userID, id)
}

// Update modifies a sequence's configuration
func (s *SequenceService) Update(ctx context.Context, userID, id string, in SequenceInput) (*model.EmailSequence, error) {
	seq, err := s.sequenceRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.templateRepo.GetByID(ctx, userID, in.TemplateID); err != nil {
		return nil, fmt.Errorf("template lookup failed: %w", err)
	}

	in.applyDefaults()

	seq.TemplateID = in.TemplateID
	seq.IntervalDays = in.IntervalDays
	seq.MaxFollowups = in.MaxFollowups
	seq.BatchSize = in.BatchSize
	seq.StaggerDelayMinutes = in.StaggerDelayMinutes
	seq.TimeWindowStart = in.TimeWindowStart
	seq.TimeWindowEnd = in.TimeWindowEnd
	seq.DaysActive = in.DaysActive

	if err := s.sequenceRepo.Update(ctx, seq); err != nil {
		return nil, err
	}
	seq.UpdatedAt = time.Now()
	return seq, nil
}

// SetStatus transitions a sequence between draft/active/paused/completed
func (s *SequenceService) SetStatus(ctx context.Context, userID, id string, status model.SequenceStatus) error {
	switch status {
	case model.SequenceStatusDraft, model.SequenceStatusActive, model.SequenceStatusPaused, model.SequenceStatusCompleted:
	default:
		return fmt.Errorf("%w: unknown status %q", repository.ErrInvalidInput, status)
	}
	return s.sequenceRepo.UpdateStatus(ctx, userID, id, status)
}

// Delete removes a sequence
func (s *SequenceService) Delete(ctx context.Context, userID, id string) error {
	return s.sequenceRepo.Delete(ctx, userID, id)
}

// Send runs one explicitly-triggered batch of an active sequence: it renders
// the template per contact, reserves quota for the batch, sends, and records
// an email event per delivery. Failed deliveries release their quota.
func (s *SequenceService) Send(ctx context.Context, userID, sequenceID string) (*model.SequenceSendResult, error) {
	seq, err := s.sequenceRepo.GetByID(ctx, userID, sequenceID)
	if err != nil {
		return nil, err
	}
	if seq.Status != model.SequenceStatusActive {
		return nil, ErrSequenceNotActive
	}

	tpl, err := s.templateRepo.GetByID(ctx, userID, seq.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("template lookup failed: %w", err)
	}

	contacts, err := s.contactRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("contact lookup failed: %w", err)
	}
	if len(contacts) == 0 {
		return nil, ErrNoContacts
	}

	// One batch per trigger
	if len(contacts) > seq.BatchSize {
		contacts = contacts[:seq.BatchSize]
	}

	// Reserve quota up front so concurrent sends cannot overshoot
	remaining, err := s.subscriptionRepo.ConsumeQuota(ctx, userID, len(contacts))
	if err != nil {
		if errors.Is(err, repository.ErrQuotaExceeded) {
			return nil, ErrQuotaExceeded
		}
		return nil, fmt.Errorf("quota check failed: %w", err)
	}

	result := &model.SequenceSendResult{SequenceID: seq.ID}
	for _, contact := range contacts {
		fields := catalog.Fields{
			FirstName: contact.FirstName,
			LastName:  contact.LastName,
			Email:     contact.Email,
			Company:   contact.Company,
			Industry:  contact.Industry,
		}
		msg := email.Message{
			To:       contact.Email,
			Subject:  catalog.Substitute(tpl.Subject, fields),
			TextBody: catalog.Substitute(tpl.Content, fields),
		}

		event := model.EmailEventSent
		if err := s.sender.Send(ctx, msg); err != nil {
			s.log.Error().Err(err).
				Str("sequence_id", seq.ID).
				Str("contact_id", contact.ID).
				Msg("sequence email send failed")
			event = model.EmailEventBounced
			result.Failed++
		} else {
			result.Sent++
		}

		contactID := contact.ID
		sequenceID := seq.ID
		stat := &model.EmailStat{
			ID:         generateID("stat"),
			UserID:     userID,
			SequenceID: &sequenceID,
			ContactID:  &contactID,
			Status:     event,
			CreatedAt:  time.Now(),
		}
		if err := s.statsRepo.Record(ctx, stat); err != nil {
			s.log.Error().Err(err).Str("sequence_id", seq.ID).Msg("failed to record email stat")
		}
	}

	// Give back quota reserved for failed sends
	if result.Failed > 0 {
		if err := s.subscriptionRepo.ReleaseQuota(ctx, userID, result.Failed); err != nil {
			s.log.Error().Err(err).Str("user_id", userID).Msg("failed to release quota")
		} else {
			remaining += result.Failed
		}
	}
	result.QuotaRemaining = remaining

	s.log.Info().
		Str("sequence_id", seq.ID).
		Int("sent", result.Sent).
		Int("failed", result.Failed).
		Int("quota_remaining", result.QuotaRemaining).
		Msg("sequence batch sent")

	return result, nil
}

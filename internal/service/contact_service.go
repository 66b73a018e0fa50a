package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sourcery-io/sourcery/internal/logger"
	"github.com/sourcery-io/sourcery/internal/model"
	"github.com/sourcery-io/sourcery/internal/repository"
)

// Contact service errors
var (
	ErrContactMissingFields = errors.New("first name, last name and email are required")
)

// ContactService handles contact list business logic
type ContactService struct {
	contactRepo *repository.ContactRepository
	log         *logger.Logger
}

// NewContactService creates a new ContactService
func NewContactService(contactRepo *repository.ContactRepository, log *logger.Logger) *ContactService {
	return &ContactService{
		contactRepo: contactRepo,
		log:         log.WithComponent("contact_service"),
	}
}

// ContactInput is the payload for creating or updating a contact
type ContactInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Company   string `json:"company"`
	Title     string `json:"title"`
	Industry  string `json:"industry"`
}

func (in ContactInput) validate() error {
	if strings.TrimSpace(in.FirstName) == "" ||
		strings.TrimSpace(in.LastName) == "" ||
		strings.TrimSpace(in.Email) == "" {
		return ErrContactMissingFields
	}
	if !isValidEmail(strings.TrimSpace(in.Email)) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// Create adds a single contact to the user's list
func (s *ContactService) Create(ctx context.Context, userID string, in ContactInput) (*model.Contact, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	contact := &model.Contact{
		ID:        generateID("cnt"),
		UserID:    userID,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Company:   strings.TrimSpace(in.Company),
		Title:     strings.TrimSpace(in.Title),
		Industry:  strings.TrimSpace(in.Industry),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.contactRepo.Create(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

// Import bulk-creates contacts from a parsed spreadsheet. Rows missing a
// required field are skipped and reported, not fatal.
func (s *ContactService) Import(ctx context.Context, userID string, rows []ContactInput) (*model.ContactImportResult, error) {
	now := time.Now()
	result := &model.ContactImportResult{}
	valid := make([]*model.Contact, 0, len(rows))

	for i, row := range rows {
		if err := row.validate(); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %s", i+1, err.Error()))
			continue
		}
		valid = append(valid, &model.Contact{
			ID:        generateID("cnt"),
			UserID:    userID,
			FirstName: strings.TrimSpace(row.FirstName),
			LastName:  strings.TrimSpace(row.LastName),
			Email:     strings.ToLower(strings.TrimSpace(row.Email)),
			Company:   strings.TrimSpace(row.Company),
			Title:     strings.TrimSpace(row.Title),
			Industry:  strings.TrimSpace(row.Industry),
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if len(valid) > 0 {
		inserted, err := s.contactRepo.CreateBatch(ctx, valid)
		if err != nil {
			return nil, fmt.Errorf("failed to import contacts: %w", err)
		}
		result.Imported = inserted
		result.Skipped += len(valid) - inserted
	}

	s.log.Info().
		Str("user_id", userID).
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Msg("contacts imported")

	return result, nil
}

// List returns the user's contacts
func (s *ContactService) List(ctx context.Context, userID string) ([]*model.Contact, error) {
	return s.contactRepo.ListByUser(ctx, userID)
}

// Get returns a single contact
func (s *ContactService) Get(ctx context.Context, userID, id string) (*model.Contact, error) {
	return s.contactRepo.GetByID(ctx, userID, id)
}

// Update modifies an existing contact
func (s *ContactService) Update(ctx context.Context, userID, id string, in ContactInput) (*model.Contact, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	contact, err := s.contactRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	contact.FirstName = strings.TrimSpace(in.FirstName)
	contact.LastName = strings.TrimSpace(in.LastName)
	contact.Email = strings.ToLower(strings.TrimSpace(in.Email))
	contact.Company = strings.TrimSpace(in.Company)
	contact.Title = strings.TrimSpace(in.Title)
	contact.Industry = strings.TrimSpace(in.Industry)

	if err := s.contactRepo.Update(ctx, contact); err != nil {
		return nil, err
	}
	contact.UpdatedAt = time.Now()
	return contact, nil
}

// Delete removes a contact
func (s *ContactService) Delete(ctx context.Context, userID, id string) error {
	return s.contactRepo.Delete(ctx, userID, id)
}

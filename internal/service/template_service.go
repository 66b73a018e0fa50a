package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sourcery-io/sourcery/internal/catalog"
	"github.com/sourcery-io/sourcery/internal/logger"
	"github.com/sourcery-io/sourcery/internal/model"
	"github.com/sourcery-io/sourcery/internal/repository"
)

// Template service errors
var (
	ErrTemplateMissingFields = errors.New("name, subject and content are required")
)

// TemplateService handles saved email template business logic
type TemplateService struct {
	templateRepo *repository.TemplateRepository
	contactRepo  *repository.ContactRepository
	log          *logger.Logger
}

// NewTemplateService creates a new TemplateService
func NewTemplateService(
	templateRepo *repository.TemplateRepository,
	contactRepo *repository.ContactRepository,
	log *logger.Logger,
) *TemplateService {
	return &TemplateService{
		templateRepo: templateRepo,
		contactRepo:  contactRepo,
		log:          log.WithComponent("template_service"),
	}
}

// TemplateInput is the payload for creating or updating a template
type TemplateInput struct {
	Name     string `json:"name"`
	Subject  string `json:"subject"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

func (in TemplateInput) validate() error {
	if strings.TrimSpace(in.Name) == "" ||
		strings.TrimSpace(in.Subject) == "" ||
		strings.TrimSpace(in.Content) == "" {
		return ErrTemplateMissingFields
	}
	return nil
}

// Create saves a new template
func (s *TemplateService) Create(ctx context.Context, userID string, in TemplateInput) (*model.EmailTemplate, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	t := &model.EmailTemplate{
		ID:        generateID("tpl"),
		UserID:    userID,
		Name:      strings.TrimSpace(in.Name),
		Subject:   in.Subject,
		Content:   in.Content,
		Category:  in.Category,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.templateRepo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// List returns the user's templates
func (s *TemplateService) List(ctx context.Context, userID string) ([]*model.EmailTemplate, error) {
	return s.templateRepo.ListByUser(ctx, userID)
}

// Get returns a single template
func (s *TemplateService) Get(ctx context.Context, userID, id string) (*model.EmailTemplate, error) {
	return s.templateRepo.GetByID(ctx, userID, id)
}

// Update modifies an existing template
func (s *TemplateService) Update(ctx context.Context, userID, id string, in TemplateInput) (*model.EmailTemplate, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	t, err := s.templateRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	t.Name = strings.TrimSpace(in.Name)
	t.Subject = in.Subject
	t.Content = in.Content
	t.Category = in.Category

	if err := s.templateRepo.Update(ctx, t); err != nil {
		return nil, err
	}
	t.UpdatedAt = time.Now()
	return t, nil
}

// Delete removes a template
func (s *TemplateService) Delete(ctx context.Context, userID, id string) error {
	return s.templateRepo.Delete(ctx, userID, id)
}

// TemplatePreview is a template rendered against one contact
type TemplatePreview struct {
	ContactID string `json:"contactId"`
	Subject   string `json:"subject"`
	Content   string `json:"content"`
}

// Preview renders a template's merge fields against one of the user's
// contacts.
func (s *TemplateService) Preview(ctx context.Context, userID, templateID, contactID string) (*TemplatePreview, error) {
	t, err := s.templateRepo.GetByID(ctx, userID, templateID)
	if err != nil {
		return nil, err
	}
	contact, err := s.contactRepo.GetByID(ctx, userID, contactID)
	if err != nil {
		return nil, err
	}

	fields := catalog.Fields{
		FirstName: contact.FirstName,
		LastName:  contact.LastName,
		Email:     contact.Email,
		Company:   contact.Company,
		Industry:  contact.Industry,
	}

	return &TemplatePreview{
		ContactID: contact.ID,
		Subject:   catalog.Substitute(t.Subject, fields),
		Content:   catalog.Substitute(t.Content, fields),
	}, nil
}

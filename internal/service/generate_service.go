package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sourcery-io/sourcery/internal/catalog"
	"github.com/sourcery-io/sourcery/internal/database"
	"github.com/sourcery-io/sourcery/internal/generator"
	"github.com/sourcery-io/sourcery/internal/logger"
	"github.com/sourcery-io/sourcery/internal/model"
)

// Generate service errors
var (
	ErrEmptyPrompt = errors.New("prompt is required")
)

// GenerateService resolves free-text prompts into signed email templates
type GenerateService struct {
	resolver *generator.Resolver
	rdb      *database.Redis
	log      *logger.Logger
}

// NewGenerateService creates a new GenerateService. rdb may be nil; the
// per-category generation counter is then skipped.
func NewGenerateService(rdb *database.Redis, log *logger.Logger) *GenerateService {
	return &GenerateService{
		resolver: generator.NewResolver(),
		rdb:      rdb,
		log:      log.WithComponent("generate_service"),
	}
}

// Generate classifies the prompt into a category and picks a variant not in
// the excluded set. Exhausting a category's variants wraps to the first one.
func (s *GenerateService) Generate(ctx context.Context, req model.GenerateTemplateRequest) (*model.GeneratedTemplate, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	category := generator.Classify(prompt)
	res := s.resolver.Resolve(category, req.Exclude)

	s.log.Debug().
		Str("category", string(category)).
		Int("template_index", res.Index).
		Bool("has_more", res.HasMore).
		Msg("template generated")

	if s.rdb != nil {
		if _, err := s.rdb.Incr(ctx, "generate:count:"+string(category)); err != nil {
			s.log.Warn().Err(err).Msg("generation counter increment failed")
		}
	}

	return &model.GeneratedTemplate{
		Subject:       res.Template.Subject,
		Content:       res.Template.Content,
		TemplateIndex: res.Index,
		HasMore:       res.HasMore,
	}, nil
}

// QuickPicks returns the fixed starter templates shown in the extension popup
func (s *GenerateService) QuickPicks() []catalog.QuickPick {
	return catalog.QuickPicks()
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sourcery-io/sourcery/internal/catalog"
	"github.com/sourcery-io/sourcery/internal/logger"
	"github.com/sourcery-io/sourcery/internal/model"
)

func newTestGenerateService() *GenerateService {
	return NewGenerateService(nil, logger.New("error", "text"))
}

func TestGenerateRejectsEmptyPrompt(t *testing.T) {
	svc := newTestGenerateService()

	_, err := svc.Generate(context.Background(), model.GenerateTemplateRequest{Prompt: "   "})
	assert.ErrorIs(t, err, ErrEmptyPrompt)
}

func TestGenerateSalesPrompt(t *testing.T) {
	svc := newTestGenerateService()

	got, err := svc.Generate(context.Background(), model.GenerateTemplateRequest{
		Prompt: "Sales outreach to tech companies",
	})
	require.NoError(t, err)

	variants := catalog.Variants(catalog.CategorySales)
	require.GreaterOrEqual(t, got.TemplateIndex, 0)
	require.Less(t, got.TemplateIndex, len(variants))
	assert.Equal(t, variants[got.TemplateIndex].Subject, got.Subject)
	assert.Equal(t, variants[got.TemplateIndex].Content, got.Content)
	assert.True(t, got.HasMore)
}

func TestGenerateExclusionProgression(t *testing.T) {
	svc := newTestGenerateService()
	ctx := context.Background()

	variantCount := len(catalog.Variants(catalog.CategoryFollowup))
	exclude := []int{}
	seen := make(map[int]bool)

	for i := 0; i < variantCount; i++ {
		got, err := svc.Generate(ctx, model.GenerateTemplateRequest{
			Prompt:  "follow up on my last email",
			Exclude: exclude,
		})
		require.NoError(t, err)
		assert.False(t, seen[got.TemplateIndex], "variant %d repeated", got.TemplateIndex)
		seen[got.TemplateIndex] = true
		exclude = append(exclude, got.TemplateIndex)
	}

	// All variants excluded: wraps to the first and signals a fresh cycle
	got, err := svc.Generate(ctx, model.GenerateTemplateRequest{
		Prompt:  "follow up on my last email",
		Exclude: exclude,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, got.TemplateIndex)
	assert.True(t, got.HasMore)
}

func TestQuickPicksExposed(t *testing.T) {
	svc := newTestGenerateService()
	assert.Equal(t, catalog.QuickPicks(), svc.QuickPicks())
}

package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sourcery-io/sourcery/internal/catalog"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		want   catalog.Category
	}{
		{"followup keyword", "Let's follow up next week", catalog.CategoryFollowup},
		{"reminder keyword", "send them a Reminder about the demo", catalog.CategoryFollowup},
		{"sales keyword", "boost our revenue", catalog.CategorySales},
		{"sales outreach", "Sales outreach to tech companies", catalog.CategorySales},
		{"marketing keyword", "improve brand awareness", catalog.CategoryMarketing},
		{"partnership keyword", "propose a collaboration", catalog.CategoryPartnership},
		{"default fallback", "random unrelated text", catalog.CategoryIntroduction},
		{"empty prompt", "", catalog.CategoryIntroduction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.prompt))
		})
	}
}

func TestClassifyPriorityOrder(t *testing.T) {
	// "follow" outranks "sales" when both appear; each earlier list wins
	// over every later one.
	assert.Equal(t, catalog.CategoryFollowup, Classify("follow up on the sales call"))
	assert.Equal(t, catalog.CategorySales, Classify("sales and marketing alignment"))
	assert.Equal(t, catalog.CategoryMarketing, Classify("co-marketing with a partner"))
}

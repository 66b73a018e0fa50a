package generator

import (
	"strings"

	"github.com/sourcery-io/sourcery/internal/catalog"
)

// Keyword lists probed against the lower-cased prompt. Order matters:
// the first list with a hit wins, and anything unmatched lands in the
// introduction bucket.
var keywordPriority = []struct {
	category catalog.Category
	keywords []string
}{
	{catalog.CategoryFollowup, []string{"follow", "reminder"}},
	{catalog.CategorySales, []string{"sales", "revenue"}},
	{catalog.CategoryMarketing, []string{"market", "brand"}},
	{catalog.CategoryPartnership, []string{"partner", "collaboration"}},
}

// Classify maps a free-text prompt to a template category. It is total:
// every prompt classifies, with introduction as the fallback.
func Classify(prompt string) catalog.Category {
	p := strings.ToLower(prompt)
	for _, entry := range keywordPriority {
		for _, kw := range entry.keywords {
			if strings.Contains(p, kw) {
				return entry.category
			}
		}
	}
	return catalog.CategoryIntroduction
}

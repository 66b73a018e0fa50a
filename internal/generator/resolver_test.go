package generator

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sourcery-io/sourcery/internal/catalog"
)

func newTestResolver(seed int64) *Resolver {
	return NewResolverWithSource(rand.NewSource(seed))
}

func TestResolveExhaustsVariantsWithoutRepeat(t *testing.T) {
	for _, category := range catalog.Categories {
		t.Run(string(category), func(t *testing.T) {
			r := newTestResolver(1)
			variants := catalog.Variants(category)

			var excluded []int
			seen := make(map[int]bool)
			for i := 0; i < len(variants); i++ {
				res := r.Resolve(category, excluded)
				assert.False(t, seen[res.Index], "variant %d repeated within one cycle", res.Index)
				seen[res.Index] = true
				excluded = append(excluded, res.Index)

				wantMore := i < len(variants)-1
				assert.Equal(t, wantMore, res.HasMore, "hasMore after %d draws", i+1)
			}
			assert.Len(t, seen, len(variants))
		})
	}
}

func TestResolveWrapsAroundWhenAllExcluded(t *testing.T) {
	r := newTestResolver(7)
	variants := catalog.Variants(catalog.CategorySales)

	all := make([]int, len(variants))
	for i := range all {
		all[i] = i
	}

	res := r.Resolve(catalog.CategorySales, all)
	assert.Equal(t, 0, res.Index)
	assert.True(t, res.HasMore, "wrap-around signals the caller to reset")
	assert.Equal(t, variants[0].Subject, res.Template.Subject)
}

func TestResolveSignatureSubstitution(t *testing.T) {
	r := newTestResolver(42)

	// Pin the draw to a single variant so content is comparable across
	// resolutions.
	exclude := []int{1, 2}
	first := r.Resolve(catalog.CategoryFollowup, exclude)
	second := r.Resolve(catalog.CategoryFollowup, exclude)

	for _, res := range []Resolution{first, second} {
		require.Equal(t, 0, res.Index)
		assert.NotContains(t, res.Template.Content, catalog.SignatureSlot)

		var name string
		for _, n := range catalog.SenderNames {
			if strings.HasSuffix(res.Template.Content, n) {
				name = n
				break
			}
		}
		require.NotEmpty(t, name, "signature must be one of the known sender names")

		// Apart from the signature, the content is byte-identical to the
		// catalog variant.
		original := catalog.Variants(catalog.CategoryFollowup)[0].Content
		restored := strings.TrimSuffix(res.Template.Content, name) + catalog.SignatureSlot
		assert.Equal(t, original, restored)
	}

	// Placeholder tokens survive resolution untouched.
	assert.Contains(t, first.Template.Content, "{{first_name}}")
	assert.Contains(t, first.Template.Content, "{{company}}")
}

func TestResolveNeverPicksExcludedIndex(t *testing.T) {
	r := newTestResolver(99)
	for i := 0; i < 200; i++ {
		res := r.Resolve(catalog.CategoryMarketing, []int{1})
		assert.NotEqual(t, 1, res.Index)
	}
}

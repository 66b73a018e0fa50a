package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariantsShapeAndTokens(t *testing.T) {
	for _, c := range Categories {
		v := Variants(c)
		require.Len(t, v, 3, "category %s", c)
		for i, tpl := range v {
			assert.NotEmpty(t, tpl.Subject, "%s[%d] subject", c, i)
			assert.Contains(t, tpl.Content, "{{first_name}}", "%s[%d]", c, i)
			assert.Contains(t, tpl.Content, SignatureSlot, "%s[%d]", c, i)
		}
	}
}

func TestVariantsUnknownCategoryFallsBack(t *testing.T) {
	assert.Equal(t, Variants(CategoryIntroduction), Variants(Category("bogus")))
}

func TestSubstitute(t *testing.T) {
	f := Fields{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Company:   "Acme",
		Industry:  "fintech",
	}

	got := Substitute("Hi {{first_name}} {{last_name}} of {{company}} ({{industry}}), {{email}}", f)
	assert.Equal(t, "Hi Ada Lovelace of Acme (fintech), ada@example.com", got)

	// Signature slot and unknown tokens are not the substituter's business.
	got = Substitute("{{unknown}} "+SignatureSlot, f)
	assert.Equal(t, "{{unknown}} "+SignatureSlot, got)
}

func TestQuickPicks(t *testing.T) {
	picks := QuickPicks()
	require.Len(t, picks, 3)

	slugs := make([]string, 0, len(picks))
	for _, qp := range picks {
		slugs = append(slugs, qp.Slug)
		assert.NotEmpty(t, qp.Title)
		assert.True(t, strings.Contains(qp.Template.Content, SignatureSlot))
	}
	assert.Equal(t, []string{"cold-outreach", "follow-up", "introduction"}, slugs)

	qp, ok := QuickPickBySlug("follow-up")
	require.True(t, ok)
	assert.Equal(t, "Follow-up", qp.Title)

	_, ok = QuickPickBySlug("nope")
	assert.False(t, ok)
}

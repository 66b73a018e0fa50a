package generator

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/sourcery-io/sourcery/internal/catalog"
)

// Resolution is the outcome of picking a template variant for a category.
type Resolution struct {
	Template catalog.Template
	// Index identifies the chosen variant within the category's ordered
	// list, so the caller can extend its exclusion set.
	Index int
	// HasMore reports whether another resolution can still yield an unseen
	// variant. It is also true on wrap-around, signalling the caller to
	// reset its exclusion set and start a fresh cycle.
	HasMore bool
}

// Resolver picks template variants at random while honouring an exclusion
// set of already-shown indices.
type Resolver struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewResolver creates a Resolver seeded from the current time.
func NewResolver() *Resolver {
	return NewResolverWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewResolverWithSource creates a Resolver with an explicit randomness
// source. Tests use this to make draws reproducible.
func NewResolverWithSource(src rand.Source) *Resolver {
	return &Resolver{rng: rand.New(src)}
}

// Resolve picks one variant of the category, avoiding indices in excluded.
// When every index is excluded it wraps around to index 0 with HasMore=true
// rather than failing; the caller is expected to reset its exclusion set.
// The chosen variant's first "[Your name]" occurrence is replaced with a
// uniformly random sender name; nothing else in the content is altered.
func (r *Resolver) Resolve(category catalog.Category, excluded []int) Resolution {
	variants := catalog.Variants(category)

	skip := make(map[int]bool, len(excluded))
	for _, i := range excluded {
		skip[i] = true
	}

	available := make([]int, 0, len(variants))
	for i := range variants {
		if !skip[i] {
			available = append(available, i)
		}
	}

	if len(available) == 0 {
		// Every variant has been shown: start the cycle over.
		return Resolution{
			Template: r.sign(variants[0]),
			Index:    0,
			HasMore:  true,
		}
	}

	idx := available[r.intn(len(available))]
	return Resolution{
		Template: r.sign(variants[idx]),
		Index:    idx,
		HasMore:  len(skip)+1 < len(variants),
	}
}

func (r *Resolver) sign(t catalog.Template) catalog.Template {
	name := catalog.SenderNames[r.intn(len(catalog.SenderNames))]
	t.Content = strings.Replace(t.Content, catalog.SignatureSlot, name, 1)
	return t
}

func (r *Resolver) intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(n)
}

package services

import (
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/soaringjerry/Flourish/internal/catalog"
	"github.com/soaringjerry/Flourish/internal/models"
)

const (
	// DefaultResourceLimit is the list size the report shows.
	DefaultResourceLimit = 4
	// FoundationThreshold adds an introductory resource when the lowest
	// domain average falls below it.
	FoundationThreshold = 2.5
	// matchedSlots is how many of the lowest domains get a dedicated pick.
	matchedSlots = 3
)

// Picker chooses an index in [0, n). n is always positive.
type Picker func(n int) int

// RandomPicker is the default Picker. The top-level math/rand/v2 source is
// safe for concurrent use and never blocks.
func RandomPicker(n int) int { return rand.IntN(n) }

const (
	foundationReason  = "With several domains needing attention, this foundational resource will help you understand the flourishing framework."
	inspirationReason = "Inspirational journey from a NIRMAN alumni who overcame similar challenges. See what's possible!"
)

var reasonTemplates = struct {
	veryLow, low, medium, pattern, student, professional []string
}{
	veryLow: []string{
		"Your {domain} needs attention. This resource provides a gentle starting point.",
		"Start with understanding before action in {domain}. This will help build awareness.",
		"This resource is perfect for beginning your {domain} journey.",
	},
	low: []string{
		"This resource offers practical next steps to build momentum in {domain}.",
		"Your {domain} shows room for growth. This will help you move toward flourishing.",
		"This resource addresses the specific challenges at your current {domain} level.",
	},
	medium: []string{
		"You're progressing in {domain}. This resource will help you break through to flourishing.",
		"You're on the cusp in {domain}. This resource contains strategies for the final push.",
		"This will help strengthen your growing {domain} abilities.",
	},
	pattern: []string{
		"Your strength in {highDomain} can help develop {lowDomain}. This resource shows how.",
		"This connects your strong {highDomain} to your growing {lowDomain}.",
	},
	student: []string{
		"As a student, this resource is especially relevant for building {domain} early in your journey.",
		"Perfect for students: addresses {domain} challenges specific to your life stage.",
	},
	professional: []string{
		"As a working professional, this resource applies to your current career context.",
		"Relevant for professionals seeking to grow {domain} while managing work demands.",
	},
}

// ResourceMatcher selects personalized links from a read-only resource
// catalog. It holds no per-request state.
type ResourceMatcher struct {
	resources catalog.Resources
	pick      Picker
}

func NewResourceMatcher(resources catalog.Resources) *ResourceMatcher {
	return &ResourceMatcher{resources: resources, pick: RandomPicker}
}

// WithPicker returns a copy that uses p for template and story selection.
func (m *ResourceMatcher) WithPicker(p Picker) *ResourceMatcher {
	cp := *m
	if p == nil {
		p = RandomPicker
	}
	cp.pick = p
	return &cp
}

// Match returns at most limit resources with unique urls. The three lowest
// domains come first (lowest first), then the optional foundation entry, then
// one inspirational story. When the list overflows, matched and foundation
// entries are cut before the story.
func (m *ResourceMatcher) Match(results []models.DomainResult, isStudent bool, limit int) ([]models.RecommendedResource, error) {
	if limit <= 0 {
		limit = DefaultResourceLimit
	}
	stories := m.storiesFor(isStudent)
	if len(stories) == 0 {
		return nil, ErrEmptyStoryPool
	}

	sorted := make([]models.DomainResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].AverageScore < sorted[j].AverageScore })

	recs := make([]models.RecommendedResource, 0, matchedSlots+2)
	if len(sorted) > 0 {
		highest := sorted[len(sorted)-1]
		for slot := 0; slot < matchedSlots && slot < len(sorted); slot++ {
			d := sorted[slot]
			r, ok := m.selectFromPool(d, isStudent)
			if !ok {
				continue
			}
			// Only the second slot is framed against the strongest domain.
			pair := ""
			if slot == 1 && highest.DomainID != d.DomainID {
				pair = highest.DomainName
			}
			recs = append(recs, models.RecommendedResource{
				Title:  r.Title,
				URL:    r.URL,
				Type:   r.Type,
				Reason: m.reason(r, d, isStudent, pair),
				Domain: d.DomainName,
			})
		}
		if sorted[0].AverageScore < FoundationThreshold {
			if r, ok := m.foundation(isStudent); ok {
				recs = append(recs, models.RecommendedResource{
					Title:  r.Title,
					URL:    r.URL,
					Type:   r.Type,
					Reason: foundationReason,
					Domain: models.DomainFoundation,
				})
			}
		}
	}

	story := stories[m.pick(len(stories))]
	recs = append(recs, models.RecommendedResource{
		Title:  story.Title,
		URL:    story.URL,
		Type:   story.Type,
		Reason: inspirationReason,
		Domain: models.DomainInspiration,
	})

	return truncate(dedupeByURL(recs), limit), nil
}

// truncate cuts recs to limit. The trailing inspiration entry keeps its slot
// whenever limit leaves room for it next to the lowest domain.
func truncate(recs []models.RecommendedResource, limit int) []models.RecommendedResource {
	if len(recs) <= limit {
		return recs
	}
	last := recs[len(recs)-1]
	if limit < 2 || last.Domain != models.DomainInspiration {
		return recs[:limit]
	}
	return append(recs[:limit-1], last)
}

// selectFromPool walks the fallback cascade: bucket and audience, then
// audience only, then the whole pool. Within a pool catalog order wins.
func (m *ResourceMatcher) selectFromPool(d models.DomainResult, isStudent bool) (catalog.Resource, bool) {
	pool := m.resources.Pool(d.DomainID)
	if len(pool) == 0 {
		return catalog.Resource{}, false
	}
	bucket := catalog.BucketFor(d.AverageScore)
	for _, r := range pool {
		if r.MatchesBucket(bucket) && r.EligibleFor(isStudent) {
			return r, true
		}
	}
	for _, r := range pool {
		if r.EligibleFor(isStudent) {
			return r, true
		}
	}
	return pool[0], true
}

func (m *ResourceMatcher) foundation(isStudent bool) (catalog.Resource, bool) {
	core := m.resources.Core
	if len(core) == 0 {
		return catalog.Resource{}, false
	}
	if isStudent {
		for _, r := range core {
			if r.StudentTagged() {
				return r, true
			}
		}
	}
	return core[0], true
}

func (m *ResourceMatcher) storiesFor(isStudent bool) []catalog.Resource {
	if !isStudent {
		return m.resources.Stories
	}
	out := make([]catalog.Resource, 0, len(m.resources.Stories))
	for _, s := range m.resources.Stories {
		if s.EligibleFor(true) {
			out = append(out, s)
		}
	}
	return out
}

func (m *ResourceMatcher) reason(r catalog.Resource, d models.DomainResult, isStudent bool, pairedDomain string) string {
	var templates []string
	switch {
	case pairedDomain != "" && r.HasTagContaining("leverage", "connection"):
		templates = reasonTemplates.pattern
	case isStudent && r.StudentTagged():
		templates = reasonTemplates.student
	case !isStudent && r.ProfessionalTagged():
		templates = reasonTemplates.professional
	default:
		switch catalog.BucketFor(d.AverageScore) {
		case catalog.BucketVeryLow:
			templates = reasonTemplates.veryLow
		case catalog.BucketLow:
			templates = reasonTemplates.low
		default:
			templates = reasonTemplates.medium
		}
	}
	tpl := templates[m.pick(len(templates))]
	return strings.NewReplacer(
		"{domain}", d.DomainName,
		"{lowDomain}", d.DomainName,
		"{highDomain}", pairedDomain,
	).Replace(tpl)
}

// ResourcesForDomain lists up to limit resources for a single domain,
// preferring the score bucket. When the bucket cannot fill the list the head
// of the whole pool is returned instead.
func (m *ResourceMatcher) ResourcesForDomain(id catalog.DomainID, score float64, limit int) []catalog.Resource {
	pool := m.resources.Pool(id)
	if limit <= 0 {
		limit = matchedSlots
	}
	bucket := catalog.BucketFor(score)
	matching := make([]catalog.Resource, 0, len(pool))
	for _, r := range pool {
		if r.MatchesBucket(bucket) {
			matching = append(matching, r)
		}
	}
	if len(matching) >= limit {
		return matching[:limit]
	}
	if len(pool) > limit {
		pool = pool[:limit]
	}
	return append([]catalog.Resource(nil), pool...)
}

func dedupeByURL(recs []models.RecommendedResource) []models.RecommendedResource {
	seen := make(map[string]struct{}, len(recs))
	out := recs[:0]
	for _, r := range recs {
		if _, dup := seen[r.URL]; dup {
			continue
		}
		seen[r.URL] = struct{}{}
		out = append(out, r)
	}
	return out
}

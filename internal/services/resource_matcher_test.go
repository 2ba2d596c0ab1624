package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soaringjerry/Flourish/internal/catalog"
	"github.com/soaringjerry/Flourish/internal/models"
)

func boolPtr(b bool) *bool { return &b }

func firstPick(int) int { return 0 }

func res(url string, bucket catalog.ScoreBucket) catalog.Resource {
	return catalog.Resource{Title: url, URL: url, Type: catalog.TypeArticle, ScoreRange: bucket}
}

func result(id catalog.DomainID, name string, avg float64) models.DomainResult {
	return models.DomainResult{DomainID: id, DomainName: name, AverageScore: avg}
}

func defaultResults(cat *catalog.Catalog, avgs ...float64) []models.DomainResult {
	out := make([]models.DomainResult, len(cat.Domains))
	for i, d := range cat.Domains {
		out[i] = result(d.ID, d.Name, avgs[i])
	}
	return out
}

func urls(recs []models.RecommendedResource) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.URL
	}
	return out
}

func countDomain(recs []models.RecommendedResource, domain string) int {
	n := 0
	for _, r := range recs {
		if r.Domain == domain {
			n++
		}
	}
	return n
}

func TestMatchDefaultCatalogProperties(t *testing.T) {
	cat := catalog.MustDefault()
	m := NewResourceMatcher(cat.Resources)
	profiles := [][]float64{
		{1, 1, 1, 1, 1, 1, 1},
		{6, 6, 6, 6, 6, 6, 6},
		{2.4, 5, 3.2, 1.8, 4.6, 3, 5.5},
		{4.5, 4.5, 2, 2, 6, 1.2, 3.9},
	}
	for _, avgs := range profiles {
		for _, student := range []bool{true, false} {
			for _, limit := range []int{2, 3, 4, 10} {
				results := defaultResults(cat, avgs...)
				recs, err := m.Match(results, student, limit)
				require.NoError(t, err)

				assert.LessOrEqual(t, len(recs), limit)
				seen := map[string]bool{}
				for _, u := range urls(recs) {
					assert.False(t, seen[u], "duplicate url %s", u)
					seen[u] = true
				}

				lowest := results[0]
				for _, r := range results[1:] {
					if r.AverageScore < lowest.AverageScore {
						lowest = r
					}
				}
				assert.Equal(t, lowest.DomainName, recs[0].Domain)
				assert.Equal(t, 1, countDomain(recs, models.DomainInspiration))
			}
		}
	}
}

func TestMatchDefaultLimit(t *testing.T) {
	cat := catalog.MustDefault()
	recs, err := NewResourceMatcher(cat.Resources).Match(defaultResults(cat, 1, 1, 1, 1, 1, 1, 1), false, 0)
	require.NoError(t, err)
	assert.Len(t, recs, DefaultResourceLimit)
}

func TestMatchPrefersBucketThenAudience(t *testing.T) {
	pool := catalog.Resources{
		Domains: map[catalog.DomainID][]catalog.Resource{
			catalog.PhysicalHealth: {
				res("high", catalog.BucketHigh),
				func() catalog.Resource {
					r := res("low-not-students", catalog.BucketLow)
					r.ForStudents = boolPtr(false)
					return r
				}(),
				res("low-open", catalog.BucketLow),
			},
		},
		Stories: []catalog.Resource{res("story", catalog.BucketAll)},
	}
	m := NewResourceMatcher(pool).WithPicker(firstPick)
	results := []models.DomainResult{result(catalog.PhysicalHealth, "Physical Health", 2.5)}

	recs, err := m.Match(results, false, 10)
	require.NoError(t, err)
	assert.Equal(t, "low-not-students", recs[0].URL)

	recs, err = m.Match(results, true, 10)
	require.NoError(t, err)
	assert.Equal(t, "low-open", recs[0].URL)
}

func TestMatchCascade(t *testing.T) {
	onlyHigh := res("only-high", catalog.BucketHigh)
	studentsExcluded := res("students-excluded", catalog.BucketVeryLow)
	studentsExcluded.ForStudents = boolPtr(false)
	pool := catalog.Resources{
		Domains: map[catalog.DomainID][]catalog.Resource{
			catalog.PhysicalHealth:       {onlyHigh},
			catalog.LifeSkills:           {studentsExcluded},
			catalog.SocialContribution:   nil,
			catalog.CharacterDevelopment: {res("char", catalog.BucketAll)},
		},
		Stories: []catalog.Resource{res("story", catalog.BucketAll)},
	}
	m := NewResourceMatcher(pool).WithPicker(firstPick)

	t.Run("bucket mismatch falls back to the pool", func(t *testing.T) {
		recs, err := m.Match([]models.DomainResult{result(catalog.PhysicalHealth, "Physical Health", 3)}, false, 10)
		require.NoError(t, err)
		assert.Equal(t, "only-high", recs[0].URL)
		assert.Equal(t, "Physical Health", recs[0].Domain)
	})

	t.Run("audience mismatch falls back to the full pool", func(t *testing.T) {
		recs, err := m.Match([]models.DomainResult{result(catalog.LifeSkills, "Life Skills", 1)}, true, 10)
		require.NoError(t, err)
		assert.Equal(t, "students-excluded", recs[0].URL)
	})

	t.Run("empty pool skips the slot", func(t *testing.T) {
		recs, err := m.Match([]models.DomainResult{
			result(catalog.SocialContribution, "Social Contribution", 3),
			result(catalog.CharacterDevelopment, "Character Development", 4),
		}, false, 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"char", "story"}, urls(recs))
	})
}

func TestMatchReasonsAreDeterministicWithPicker(t *testing.T) {
	connection := res("social", catalog.BucketAll)
	connection.Tags = []string{"connection-building"}
	professional := res("life", catalog.BucketAll)
	professional.ForProfessionals = boolPtr(true)
	student := res("life-student", catalog.BucketAll)
	student.ForStudents = boolPtr(true)

	pool := catalog.Resources{
		Core: []catalog.Resource{res("core-0", catalog.BucketAll), student},
		Domains: map[catalog.DomainID][]catalog.Resource{
			catalog.PhysicalHealth:       {res("phys", catalog.BucketAll)},
			catalog.SocialRelationships:  {connection},
			catalog.LifeSkills:           {professional},
			catalog.CharacterDevelopment: {res("char", catalog.BucketAll)},
		},
		Stories: []catalog.Resource{res("story", catalog.BucketAll)},
	}
	m := NewResourceMatcher(pool).WithPicker(firstPick)
	results := []models.DomainResult{
		result(catalog.CharacterDevelopment, "Character Development", 5.5),
		result(catalog.LifeSkills, "Life Skills", 3),
		result(catalog.SocialRelationships, "Social Relationships", 2.5),
		result(catalog.PhysicalHealth, "Physical Health", 1.5),
	}

	recs, err := m.Match(results, false, 10)
	require.NoError(t, err)
	require.Len(t, recs, 5)

	assert.Equal(t, models.RecommendedResource{
		Title: "phys", URL: "phys", Type: catalog.TypeArticle, Domain: "Physical Health",
		Reason: "Your Physical Health needs attention. This resource provides a gentle starting point.",
	}, recs[0])
	assert.Equal(t, "Your strength in Character Development can help develop Social Relationships. This resource shows how.", recs[1].Reason)
	assert.Equal(t, "As a working professional, this resource applies to your current career context.", recs[2].Reason)
	assert.Equal(t, models.DomainFoundation, recs[3].Domain)
	assert.Equal(t, "core-0", recs[3].URL)
	assert.Equal(t, foundationReason, recs[3].Reason)
	assert.Equal(t, models.DomainInspiration, recs[4].Domain)
	assert.Equal(t, inspirationReason, recs[4].Reason)

	// The student sees bucket wording for the professional-tagged item and the
	// student-tagged foundation entry.
	recs, err = m.Match(results, true, 10)
	require.NoError(t, err)
	assert.Equal(t, "You're progressing in Life Skills. This resource will help you break through to flourishing.", recs[2].Reason)
	assert.Equal(t, "life-student", recs[3].URL)
}

func TestMatchPatternReasonOnlyOnSecondSlot(t *testing.T) {
	connection := res("phys", catalog.BucketAll)
	connection.Tags = []string{"leverage"}
	pool := catalog.Resources{
		Domains: map[catalog.DomainID][]catalog.Resource{
			catalog.PhysicalHealth: {connection},
		},
		Stories: []catalog.Resource{res("story", catalog.BucketAll)},
	}
	m := NewResourceMatcher(pool).WithPicker(firstPick)
	recs, err := m.Match([]models.DomainResult{
		result(catalog.PhysicalHealth, "Physical Health", 3.2),
		result(catalog.LifeSkills, "Life Skills", 5),
	}, false, 10)
	require.NoError(t, err)
	assert.Equal(t, "You're progressing in Physical Health. This resource will help you break through to flourishing.", recs[0].Reason)
}

func TestMatchFoundationThreshold(t *testing.T) {
	pool := catalog.Resources{
		Core:    []catalog.Resource{res("core-0", catalog.BucketAll)},
		Domains: map[catalog.DomainID][]catalog.Resource{catalog.PhysicalHealth: {res("phys", catalog.BucketAll)}},
		Stories: []catalog.Resource{res("story", catalog.BucketAll)},
	}
	m := NewResourceMatcher(pool).WithPicker(firstPick)

	recs, err := m.Match([]models.DomainResult{result(catalog.PhysicalHealth, "Physical Health", 2.49)}, false, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, countDomain(recs, models.DomainFoundation))

	recs, err = m.Match([]models.DomainResult{result(catalog.PhysicalHealth, "Physical Health", 2.5)}, false, 10)
	require.NoError(t, err)
	assert.Zero(t, countDomain(recs, models.DomainFoundation))
}

func TestMatchInspirationFiltersStudents(t *testing.T) {
	adultsOnly := res("adults-only", catalog.BucketAll)
	adultsOnly.ForStudents = boolPtr(false)
	pool := catalog.Resources{Stories: []catalog.Resource{adultsOnly, res("open", catalog.BucketAll)}}
	m := NewResourceMatcher(pool).WithPicker(firstPick)

	recs, err := m.Match(nil, true, 4)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "open", recs[0].URL)

	recs, err = m.Match(nil, false, 4)
	require.NoError(t, err)
	assert.Equal(t, "adults-only", recs[0].URL)
}

func TestMatchEmptyStoryPool(t *testing.T) {
	adultsOnly := res("adults-only", catalog.BucketAll)
	adultsOnly.ForStudents = boolPtr(false)
	m := NewResourceMatcher(catalog.Resources{Stories: []catalog.Resource{adultsOnly}})

	_, err := m.Match(nil, true, 4)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyStoryPool))

	_, err = NewResourceMatcher(catalog.Resources{}).Match(nil, false, 4)
	assert.True(t, errors.Is(err, ErrEmptyStoryPool))
}

func TestMatchDedupesAndKeepsStoryOnOverflow(t *testing.T) {
	shared := res("shared", catalog.BucketAll)
	pool := catalog.Resources{
		Core: []catalog.Resource{res("core-0", catalog.BucketAll)},
		Domains: map[catalog.DomainID][]catalog.Resource{
			catalog.PhysicalHealth:         {shared},
			catalog.PsychologicalWellbeing: {shared},
			catalog.LifeSkills:             {res("life", catalog.BucketAll)},
		},
		Stories: []catalog.Resource{res("story", catalog.BucketAll)},
	}
	m := NewResourceMatcher(pool).WithPicker(firstPick)
	results := []models.DomainResult{
		result(catalog.PhysicalHealth, "Physical Health", 1),
		result(catalog.PsychologicalWellbeing, "Psychological Well-being", 1.5),
		result(catalog.LifeSkills, "Life Skills", 2),
	}

	recs, err := m.Match(results, false, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"shared", "life", "core-0", "story"}, urls(recs))
	assert.Equal(t, "Physical Health", recs[0].Domain)

	recs, err = m.Match(results, false, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"shared", "life", "story"}, urls(recs))

	recs, err = m.Match(results, false, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"shared"}, urls(recs))
}

func TestMatchTiesKeepInputOrder(t *testing.T) {
	pool := catalog.Resources{
		Domains: map[catalog.DomainID][]catalog.Resource{
			catalog.SocialContribution: {res("contrib", catalog.BucketAll)},
			catalog.LifeSkills:         {res("life", catalog.BucketAll)},
		},
		Stories: []catalog.Resource{res("story", catalog.BucketAll)},
	}
	recs, err := NewResourceMatcher(pool).WithPicker(firstPick).Match([]models.DomainResult{
		result(catalog.SocialContribution, "Social Contribution", 3),
		result(catalog.LifeSkills, "Life Skills", 3),
	}, false, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"contrib", "life", "story"}, urls(recs))
}

func TestMatchDoesNotReorderInput(t *testing.T) {
	cat := catalog.MustDefault()
	results := defaultResults(cat, 6, 5, 4, 3, 2, 1, 3.5)
	_, err := NewResourceMatcher(cat.Resources).Match(results, false, 4)
	require.NoError(t, err)
	assert.Equal(t, catalog.PhysicalHealth, results[0].DomainID)
}

func TestResourcesForDomain(t *testing.T) {
	pool := catalog.Resources{
		Domains: map[catalog.DomainID][]catalog.Resource{
			catalog.LifeSkills: {
				res("a-high", catalog.BucketHigh),
				res("b-low", catalog.BucketLow),
				res("c-all", catalog.BucketAll),
				res("d-low", catalog.BucketLow),
			},
		},
	}
	m := NewResourceMatcher(pool)

	got := m.ResourcesForDomain(catalog.LifeSkills, 2.2, 3)
	assert.Equal(t, []string{"b-low", "c-all", "d-low"}, resourceURLs(got))

	got = m.ResourcesForDomain(catalog.LifeSkills, 5, 2)
	assert.Equal(t, []string{"a-high", "c-all"}, resourceURLs(got))

	got = m.ResourcesForDomain(catalog.LifeSkills, 5, 0)
	assert.Equal(t, []string{"a-high", "b-low", "c-all"}, resourceURLs(got))

	assert.Empty(t, m.ResourcesForDomain(catalog.PhysicalHealth, 1, 3))
}

func resourceURLs(rs []catalog.Resource) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.URL
	}
	return out
}

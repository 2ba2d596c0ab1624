package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soaringjerry/Flourish/internal/catalog"
	"github.com/soaringjerry/Flourish/internal/models"
)

// sixQuestionDomain is a physical-health variant with six items and a
// threshold of four agreements.
func sixQuestionDomain() catalog.Domain {
	d := catalog.Domain{ID: catalog.PhysicalHealth, Name: "Physical Health", FlourishingThreshold: 4}
	for id := 1; id <= 6; id++ {
		d.Questions = append(d.Questions, catalog.Question{ID: id, Domain: catalog.PhysicalHealth})
	}
	return d
}

func answers(values ...int) models.ResponseSet {
	set := models.ResponseSet{}
	for i, v := range values {
		set[i+1] = v
	}
	return set
}

func TestRound2(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{4.333333, 4.33},
		{4.336, 4.34},
		{3.5, 3.5},
		{0, 0},
		{5.999, 6},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, Round2(c.in), 1e-9, "Round2(%v)", c.in)
	}
}

func TestScoreDomainClassification(t *testing.T) {
	domain := sixQuestionDomain()
	cases := []struct {
		name        string
		responses   models.ResponseSet
		avg         float64
		agree       int
		flourishing bool
		answered    int
	}{
		{"four agreements meet the threshold", answers(6, 6, 6, 6, 1, 1), 4.33, 4, true, 6},
		{"three agreements fall short", answers(6, 6, 6, 1, 1, 1), 3.5, 3, false, 6},
		{"value five counts as agree", answers(5, 5, 5, 5, 4, 4), 4.67, 4, true, 6},
		{"value four does not", answers(4, 4, 4, 4, 4, 4), 4, 0, false, 6},
		{"partial answers", answers(6, 6), 6, 2, false, 2},
		{"nothing answered", models.ResponseSet{}, 0, 0, false, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			res := ScoreDomain(domain, c.responses)
			assert.InDelta(t, c.avg, res.AverageScore, 1e-9)
			assert.Equal(t, c.agree, res.AgreeCount)
			assert.Equal(t, c.flourishing, res.IsFlourishing)
			assert.Len(t, res.Responses, c.answered)
			assert.Equal(t, 6, res.TotalQuestions)
			assert.Equal(t, 4, res.FlourishingThreshold)
		})
	}
}

func TestScoreDomainIgnoresForeignQuestions(t *testing.T) {
	set := answers(6, 6, 6, 6, 6, 6)
	set[99] = 1
	set[0] = 1
	res := ScoreDomain(sixQuestionDomain(), set)
	assert.Equal(t, 6.0, res.AverageScore)
	for _, r := range res.Responses {
		assert.NotEqual(t, 99, r.QuestionID)
	}
}

func TestScoreDomainResponsesFollowQuestionOrder(t *testing.T) {
	res := ScoreDomain(sixQuestionDomain(), models.NewResponseSet([]models.Response{
		{QuestionID: 3, Value: 2},
		{QuestionID: 1, Value: 4},
		{QuestionID: 3, Value: 5},
	}))
	require.Len(t, res.Responses, 2)
	assert.Equal(t, models.Response{QuestionID: 1, Value: 4}, res.Responses[0])
	assert.Equal(t, models.Response{QuestionID: 3, Value: 5}, res.Responses[1])
}

func TestScoreDomainByID(t *testing.T) {
	cat := catalog.MustDefault()

	res, err := ScoreDomainByID(cat, catalog.LifeSkills, models.ResponseSet{})
	require.NoError(t, err)
	assert.Equal(t, catalog.LifeSkills, res.DomainID)

	_, err = ScoreDomainByID(cat, catalog.DomainID("career"), models.ResponseSet{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDomainNotFound))
	se, ok := AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, ErrorNotFound, se.Code)
	assert.Contains(t, se.Message, "career")
}

func TestScoreAllKeepsCatalogOrder(t *testing.T) {
	cat := catalog.MustDefault()
	results := ScoreAll(cat, models.ResponseSet{})
	require.Len(t, results, len(catalog.DomainIDs))
	for i, id := range catalog.DomainIDs {
		assert.Equal(t, id, results[i].DomainID)
		assert.Zero(t, results[i].AverageScore)
		assert.False(t, results[i].IsFlourishing)
	}
}

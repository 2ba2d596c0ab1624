package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/soaringjerry/Flourish/internal/catalog"
	"github.com/soaringjerry/Flourish/internal/models"
)

func contextAnswers(values ...int) models.ResponseSet {
	ids := []int{0, -1, -2, -3}
	set := models.ResponseSet{}
	for i, v := range values {
		set[ids[i]] = v
	}
	return set
}

func TestDeriveContext(t *testing.T) {
	cat := catalog.MustDefault()
	cases := []struct {
		name   string
		set    models.ResponseSet
		stress models.StressLevel
		met    bool
	}{
		{"all strongly agree", contextAnswers(6, 6, 6, 6), models.StressStable, true},
		{"all strongly disagree", contextAnswers(1, 1, 1, 1), models.StressSurvival, false},
		{"no context answers", models.ResponseSet{}, models.StressStable, true},
		{"mean exactly 4.5", contextAnswers(5, 4, 5, 4), models.StressStable, true},
		{"mean 4 is moderate but met", contextAnswers(4, 4, 4, 4), models.StressModerate, true},
		{"mean 3 is moderate and unmet", contextAnswers(3, 3, 3, 3), models.StressModerate, false},
		{"mean under 3", contextAnswers(2, 3, 3, 3), models.StressSurvival, false},
		{"partial block averages what is present", contextAnswers(2, 2), models.StressSurvival, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := DeriveContext(cat, c.set, models.UserInfo{})
			assert.Equal(t, c.stress, got.SurvivalStressLevel)
			assert.Equal(t, c.met, got.BasicNeedsMet)
		})
	}
}

func TestDeriveContextIgnoresDomainAnswers(t *testing.T) {
	cat := catalog.MustDefault()
	set := contextAnswers(6, 6, 6, 6)
	for id := 1; id <= 41; id++ {
		set[id] = 1
	}
	got := DeriveContext(cat, set, models.UserInfo{})
	assert.Equal(t, models.StressStable, got.SurvivalStressLevel)
}

func TestDeriveContextCopiesFlags(t *testing.T) {
	user := models.UserInfo{IsStudent: true, IsEmployed: false, IsBusinessOwner: true, IsUnemployed: true}
	got := DeriveContext(catalog.MustDefault(), models.ResponseSet{}, user)
	assert.True(t, got.IsStudent)
	assert.False(t, got.IsEmployed)
	assert.True(t, got.IsBusinessOwner)
	assert.True(t, got.IsUnemployed)
}

func TestStressLevelBoundaries(t *testing.T) {
	assert.Equal(t, models.StressStable, StressLevelFor(4.5))
	assert.Equal(t, models.StressModerate, StressLevelFor(4.49))
	assert.Equal(t, models.StressModerate, StressLevelFor(3))
	assert.Equal(t, models.StressSurvival, StressLevelFor(2.99))
}

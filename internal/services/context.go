package services

import (
	"github.com/soaringjerry/Flourish/internal/catalog"
	"github.com/soaringjerry/Flourish/internal/models"
)

// Basic-needs thresholds. BasicNeedsThreshold and StableThreshold answer
// different questions and must stay separate constants.
const (
	StableThreshold     = 4.5
	ModerateThreshold   = 3.0
	BasicNeedsThreshold = 4.0
)

// DeriveContext reads the basic-needs block and passes the profile flags
// through. With no context answers the mean defaults to the top of the scale:
// silence is not read as hardship.
func DeriveContext(cat *catalog.Catalog, responses models.ResponseSet, user models.UserInfo) models.ContextualFactors {
	mean := float64(models.MaxValue)
	sum, n := 0, 0
	for _, q := range cat.Context {
		if v, ok := responses[q.ID]; ok {
			sum += v
			n++
		}
	}
	if n > 0 {
		mean = float64(sum) / float64(n)
	}
	return models.ContextualFactors{
		IsStudent:           user.IsStudent,
		IsEmployed:          user.IsEmployed,
		IsBusinessOwner:     user.IsBusinessOwner,
		IsUnemployed:        user.IsUnemployed,
		BasicNeedsMet:       mean >= BasicNeedsThreshold,
		SurvivalStressLevel: StressLevelFor(mean),
	}
}

// StressLevelFor classifies a basic-needs mean.
func StressLevelFor(mean float64) models.StressLevel {
	switch {
	case mean >= StableThreshold:
		return models.StressStable
	case mean >= ModerateThreshold:
		return models.StressModerate
	default:
		return models.StressSurvival
	}
}

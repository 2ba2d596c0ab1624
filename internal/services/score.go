package services

import (
	"fmt"
	"math"

	"github.com/soaringjerry/Flourish/internal/catalog"
	"github.com/soaringjerry/Flourish/internal/models"
)

// Round2 rounds half away from zero at the third decimal. Scores are never
// negative, so this is round-half-up for every value the scorer produces.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ScoreDomain filters responses to the domain's questions and classifies it.
// Missing answers lower the evidence but never fail the call.
func ScoreDomain(domain catalog.Domain, responses models.ResponseSet) models.DomainResult {
	res := models.DomainResult{
		DomainID:             domain.ID,
		DomainName:           domain.Name,
		TotalQuestions:       len(domain.Questions),
		FlourishingThreshold: domain.FlourishingThreshold,
		Responses:            []models.Response{},
	}
	sum := 0
	for _, q := range domain.Questions {
		v, ok := responses[q.ID]
		if !ok {
			continue
		}
		res.Responses = append(res.Responses, models.Response{QuestionID: q.ID, Value: v})
		sum += v
		if v >= models.AgreeValue {
			res.AgreeCount++
		}
	}
	if n := len(res.Responses); n > 0 {
		res.AverageScore = Round2(float64(sum) / float64(n))
	}
	res.IsFlourishing = res.AgreeCount >= domain.FlourishingThreshold
	return res
}

// ScoreDomainByID looks the domain up in cat before scoring.
func ScoreDomainByID(cat *catalog.Catalog, id catalog.DomainID, responses models.ResponseSet) (models.DomainResult, error) {
	domain, ok := cat.Domain(id)
	if !ok {
		return models.DomainResult{}, &ServiceError{Code: ErrorNotFound, Message: fmt.Sprintf("domain not found: %s", id)}
	}
	return ScoreDomain(domain, responses), nil
}

// ScoreAll scores every domain in catalog order.
func ScoreAll(cat *catalog.Catalog, responses models.ResponseSet) []models.DomainResult {
	out := make([]models.DomainResult, 0, len(cat.Domains))
	for _, d := range cat.Domains {
		out = append(out, ScoreDomain(d, responses))
	}
	return out
}

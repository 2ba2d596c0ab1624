package services

import "github.com/soaringjerry/Flourish/internal/models"

// Aggregate is the report-level summary of the domain results.
type Aggregate struct {
	OverallScore       float64 `json:"overall_score"`
	FlourishingDomains int     `json:"flourishing_domains"`
	LanguishingDomains int     `json:"languishing_domains"`
}

// AggregateResults rescales the mean domain average from 1..6 onto 0..100
// and counts the flourishing split. Empty input yields a zero score.
func AggregateResults(results []models.DomainResult) Aggregate {
	var agg Aggregate
	if len(results) == 0 {
		return agg
	}
	var total float64
	for _, r := range results {
		total += r.AverageScore
		if r.IsFlourishing {
			agg.FlourishingDomains++
		} else {
			agg.LanguishingDomains++
		}
	}
	mean := total / float64(len(results))
	agg.OverallScore = Round2((mean - models.MinValue) / (models.MaxValue - models.MinValue) * 100)
	return agg
}

package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/soaringjerry/Flourish/internal/models"
	"github.com/soaringjerry/Flourish/internal/utils"
)

// ResponseLabel names a Likert value in locale. Out-of-range values render as
// the bare number.
func ResponseLabel(locale string, value int) string {
	if value < models.MinValue || value > models.MaxValue {
		return strconv.Itoa(value)
	}
	return utils.T(locale, "response."+strconv.Itoa(value))
}

type ScoreTier string

const (
	TierStrong     ScoreTier = "strong"
	TierGood       ScoreTier = "good"
	TierDeveloping ScoreTier = "developing"
	TierAttention  ScoreTier = "attention"
)

func ScoreTierFor(score float64) ScoreTier {
	switch {
	case score >= 5:
		return TierStrong
	case score >= 4:
		return TierGood
	case score >= 3:
		return TierDeveloping
	default:
		return TierAttention
	}
}

// Label is the localized tier name.
func (t ScoreTier) Label(locale string) string {
	return utils.T(locale, "tier."+string(t))
}

// FormatScore renders a domain average as "4.5/6".
func FormatScore(score float64) string {
	return fmt.Sprintf("%.1f/%d", score, models.MaxValue)
}

// FormatPercentage renders the overall score as "50.0%".
func FormatPercentage(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// FormatRecommendation flattens a structured recommendation into one line.
func FormatRecommendation(r models.StructuredRecommendation) string {
	opts := "N/A"
	if len(r.Options) > 0 {
		opts = strings.Join(r.Options, ", ")
	}
	return strings.TrimSpace(fmt.Sprintf("%s Options: %s. %s", r.Text, opts, r.ActionStep))
}

// FormatRecommendations flattens an insight block's recommendation list.
func FormatRecommendations(in models.AIInsights) []string {
	out := make([]string, 0, len(in.Recommendations))
	for _, r := range in.Recommendations {
		out = append(out, FormatRecommendation(r))
	}
	return out
}

// GrowthProjection is the six-month target shown next to the lowest domain.
func GrowthProjection(score float64) float64 {
	return math.Min(models.MaxValue, score+1.5)
}

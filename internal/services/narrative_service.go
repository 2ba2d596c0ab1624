package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/soaringjerry/Flourish/internal/models"
)

// NarrativeService produces the insight block for a scored report. A nil
// generator means every report gets the fallback text.
type NarrativeService struct {
	gen     Generator
	logger  zerolog.Logger
	timeout time.Duration
}

func NewNarrativeService(gen Generator, logger zerolog.Logger, timeout time.Duration) *NarrativeService {
	return &NarrativeService{gen: gen, logger: logger, timeout: timeout}
}

// Insights never fails. Generator errors and malformed output are logged and
// replaced with FallbackInsights.
func (s *NarrativeService) Insights(ctx context.Context, report models.ReportData) models.AIInsights {
	if s == nil || s.gen == nil {
		return FallbackInsights(report)
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	raw, err := s.gen.Generate(ctx, narrativeSystemPrompt, BuildPrompt(BuildNarrativeRequest(report)))
	if err != nil {
		s.logger.Warn().Err(err).Str("report_id", report.ID).Msg("narrative generation failed, using fallback")
		return FallbackInsights(report)
	}
	insights, err := ParseInsights(raw)
	if err != nil {
		s.logger.Warn().Err(err).Str("report_id", report.ID).Msg("narrative output rejected, using fallback")
		return FallbackInsights(report)
	}
	return insights
}

package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/soaringjerry/Flourish/internal/catalog"
	"github.com/soaringjerry/Flourish/internal/models"
)

// Submission is one respondent's profile and answers.
type Submission struct {
	UserInfo  models.UserInfo   `json:"user_info"`
	Responses []models.Response `json:"responses"`
}

// ValidateProfile requires a named respondent with a positive age and
// rejects an unrecognised gender.
func ValidateProfile(u models.UserInfo) error {
	if strings.TrimSpace(u.Name) == "" {
		return NewInvalidError("user name is required")
	}
	if u.Age <= 0 {
		return NewInvalidError("user age must be positive")
	}
	if u.Gender != "" && !u.Gender.Valid() {
		return NewInvalidError(fmt.Sprintf("unknown gender %q", u.Gender))
	}
	return nil
}

// ValidateSubmission checks the profile, then rejects unknown question ids and
// out-of-range values. Missing answers are fine.
func ValidateSubmission(cat *catalog.Catalog, sub Submission) error {
	if err := ValidateProfile(sub.UserInfo); err != nil {
		return err
	}
	for _, r := range sub.Responses {
		if _, ok := cat.Question(r.QuestionID); !ok {
			return NewInvalidError(fmt.Sprintf("unknown question %d", r.QuestionID))
		}
		if r.Value < models.MinValue || r.Value > models.MaxValue {
			return NewInvalidError(fmt.Sprintf("question %d: value %d out of range", r.QuestionID, r.Value))
		}
	}
	return nil
}

// ReportService turns a submission into a report. It keeps no state between
// calls and is safe for concurrent use.
type ReportService struct {
	catalog       *catalog.Catalog
	matcher       *ResourceMatcher
	narrative     *NarrativeService
	logger        zerolog.Logger
	resourceLimit int
	now           func() time.Time
	idGenerator   func() string
}

func NewReportService(cat *catalog.Catalog, narrative *NarrativeService, logger zerolog.Logger, resourceLimit int) *ReportService {
	if resourceLimit <= 0 {
		resourceLimit = DefaultResourceLimit
	}
	return &ReportService{
		catalog:       cat,
		matcher:       NewResourceMatcher(cat.Resources),
		narrative:     narrative,
		logger:        logger,
		resourceLimit: resourceLimit,
		now:           func() time.Time { return time.Now().UTC() },
		idGenerator:   uuid.NewString,
	}
}

func (s *ReportService) Catalog() *catalog.Catalog { return s.catalog }

func (s *ReportService) Matcher() *ResourceMatcher { return s.matcher }

// Generate scores the submission. Insights and Resources stay empty.
func (s *ReportService) Generate(ctx context.Context, sub Submission) (*models.ReportData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateSubmission(s.catalog, sub); err != nil {
		return nil, err
	}
	set := models.NewResponseSet(sub.Responses)
	results := ScoreAll(s.catalog, set)
	agg := AggregateResults(results)
	report := &models.ReportData{
		ID:                 s.idGenerator(),
		UserInfo:           sub.UserInfo,
		ContextualFactors:  DeriveContext(s.catalog, set, sub.UserInfo),
		DomainResults:      results,
		OverallScore:       agg.OverallScore,
		FlourishingDomains: agg.FlourishingDomains,
		LanguishingDomains: agg.LanguishingDomains,
		GeneratedAt:        s.now(),
		CatalogVersion:     s.catalog.Version,
	}
	s.logger.Info().
		Str("report_id", report.ID).
		Int("answered", len(set)).
		Float64("overall_score", report.OverallScore).
		Int("flourishing", report.FlourishingDomains).
		Str("stress", string(report.ContextualFactors.SurvivalStressLevel)).
		Msg("report scored")
	return report, nil
}

// GenerateFull scores the submission and attaches insights and resources.
func (s *ReportService) GenerateFull(ctx context.Context, sub Submission) (*models.ReportData, error) {
	report, err := s.Generate(ctx, sub)
	if err != nil {
		return nil, err
	}
	if err := s.Enrich(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// Enrich fills Insights and Resources on an already scored report. The
// narrative and the matcher run concurrently; only a resource catalog
// problem is returned, narrative trouble degrades to the fallback text.
func (s *ReportService) Enrich(ctx context.Context, report *models.ReportData) error {
	var (
		insights  models.AIInsights
		resources []models.RecommendedResource
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		insights = s.narrative.Insights(gctx, *report)
		return nil
	})
	g.Go(func() error {
		var err error
		resources, err = s.matcher.Match(report.DomainResults, report.ContextualFactors.IsStudent, s.resourceLimit)
		if err != nil {
			return fmt.Errorf("match resources: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Str("report_id", report.ID).Msg("report enrichment failed")
		return err
	}
	report.Insights = &insights
	report.Resources = resources
	s.logger.Info().
		Str("report_id", report.ID).
		Str("insights", string(insights.Source)).
		Int("resources", len(resources)).
		Msg("report enriched")
	return nil
}

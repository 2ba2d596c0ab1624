package mcptool

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"

	"github.com/soaringjerry/Flourish/internal/models"
	"github.com/soaringjerry/Flourish/internal/services"
)

// scoreFailedMessage is the only failure text a caller sees once the input
// has been decoded; the cause goes to the log.
const scoreFailedMessage = "unable to generate report"

// ScoreTool handles the flourish_score MCP tool.
type ScoreTool struct {
	reports *services.ReportService
	logger  zerolog.Logger
}

func NewScoreTool(reports *services.ReportService, logger zerolog.Logger) *ScoreTool {
	return &ScoreTool{reports: reports, logger: logger}
}

// Definition returns the MCP tool definition for flourish_score.
func (t *ScoreTool) Definition() mcp.Tool {
	return mcp.NewTool("flourish_score",
		mcp.WithDescription(
			"Score a flourishing self-assessment. Returns per-domain averages, the overall score, "+
				"a narrative summary and a short list of recommended resources.",
		),
		mcp.WithString("responses",
			mcp.Required(),
			mcp.Description(`JSON object mapping question id to a 1-6 answer, e.g. {"1": 5, "2": 6, "0": 4}`),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Respondent first name, used in the personal note"),
		),
		mcp.WithNumber("age",
			mcp.Required(),
			mcp.Description("Respondent age in years"),
		),
		mcp.WithBoolean("is_student",
			mcp.Description("Respondent is currently studying"),
		),
		mcp.WithBoolean("is_employed",
			mcp.Description("Respondent is currently employed"),
		),
	)
}

type domainLine struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Score       float64 `json:"score"`
	Display     string  `json:"display"`
	Flourishing bool    `json:"flourishing"`
}

type scoreSummary struct {
	ReportID           string                       `json:"report_id"`
	OverallScore       float64                      `json:"overall_score"`
	FlourishingDomains int                          `json:"flourishing_domains"`
	LanguishingDomains int                          `json:"languishing_domains"`
	StressLevel        models.StressLevel           `json:"stress_level"`
	BasicNeedsMet      bool                         `json:"basic_needs_met"`
	Domains            []domainLine                 `json:"domains"`
	Summary            string                       `json:"summary"`
	Recommendations    []string                     `json:"recommendations"`
	Resources          []models.RecommendedResource `json:"resources"`
}

// Handle processes the flourish_score tool call.
func (t *ScoreTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw := req.GetString("responses", "")
	if raw == "" {
		return mcp.NewToolResultError("'responses' is required"), nil
	}
	responses, err := parseResponses(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sub := services.Submission{
		UserInfo: models.UserInfo{
			Name:       req.GetString("name", ""),
			Age:        intArg(req, "age", 0),
			IsStudent:  boolArg(req, "is_student", false),
			IsEmployed: boolArg(req, "is_employed", false),
		},
		Responses: responses,
	}
	report, err := t.reports.GenerateFull(ctx, sub)
	if err != nil {
		t.logger.Warn().Err(err).Msg("flourish_score rejected")
		return mcp.NewToolResultError(scoreFailedMessage), nil
	}

	out := scoreSummary{
		ReportID:           report.ID,
		OverallScore:       report.OverallScore,
		FlourishingDomains: report.FlourishingDomains,
		LanguishingDomains: report.LanguishingDomains,
		StressLevel:        report.ContextualFactors.SurvivalStressLevel,
		BasicNeedsMet:      report.ContextualFactors.BasicNeedsMet,
		Resources:          report.Resources,
	}
	for _, d := range report.DomainResults {
		out.Domains = append(out.Domains, domainLine{
			ID:          d.DomainID.String(),
			Name:        d.DomainName,
			Score:       d.AverageScore,
			Display:     services.FormatScore(d.AverageScore),
			Flourishing: d.IsFlourishing,
		})
	}
	if report.Insights != nil {
		out.Summary = report.Insights.Summary
		out.Recommendations = services.FormatRecommendations(*report.Insights)
	}
	return jsonResult(out)
}

// parseResponses decodes {"<id>": value} into responses ordered by id.
func parseResponses(raw string) ([]models.Response, error) {
	var byID map[string]int
	if err := json.Unmarshal([]byte(raw), &byID); err != nil {
		return nil, fmt.Errorf("'responses' must be a JSON object of integer answers: %v", err)
	}
	out := make([]models.Response, 0, len(byID))
	for key, value := range byID {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("question id %q is not an integer", key)
		}
		out = append(out, models.Response{QuestionID: id, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionID < out[j].QuestionID })
	return out, nil
}

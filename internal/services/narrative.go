package services

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/soaringjerry/Flourish/internal/catalog"
	"github.com/soaringjerry/Flourish/internal/models"
)

// LifeStage is the plain-language reading of the student and employment flags.
type LifeStage string

const (
	LifeStageFullTimeStudent LifeStage = "full-time-student"
	LifeStageWorkingStudent  LifeStage = "working-student"
	LifeStageProfessional    LifeStage = "working-professional"
	LifeStageTransitioning   LifeStage = "transitioning"
)

func LifeStageFor(isStudent, isEmployed bool) LifeStage {
	switch {
	case isStudent && !isEmployed:
		return LifeStageFullTimeStudent
	case isStudent && isEmployed:
		return LifeStageWorkingStudent
	case isEmployed:
		return LifeStageProfessional
	default:
		return LifeStageTransitioning
	}
}

// Label is the sentence the prompt carries for the stage.
func (s LifeStage) Label() string {
	switch s {
	case LifeStageFullTimeStudent:
		return "FULL-TIME STUDENT - Professional and financial scores should be interpreted with developmental leniency."
	case LifeStageWorkingStudent:
		return "WORKING STUDENT - Balancing education and work. Acknowledge time constraints."
	case LifeStageProfessional:
		return "WORKING PROFESSIONAL - Career and financial domains are relevant benchmarks."
	default:
		return "TRANSITIONING - Focus on potential and transferable strengths."
	}
}

const (
	survivalFirstLabel  = "SURVIVAL-FIRST: User has unmet basic needs. Only recommend FREE, micro-commitment activities."
	moderateStressLabel = "MODERATE STRESS: Balance encouragement with realistic recommendations."
)

// SurvivalContextLabel is empty when basic needs are stable.
func SurvivalContextLabel(cf models.ContextualFactors) string {
	switch {
	case !cf.BasicNeedsMet || cf.SurvivalStressLevel == models.StressSurvival:
		return survivalFirstLabel
	case cf.SurvivalStressLevel == models.StressModerate:
		return moderateStressLabel
	}
	return ""
}

// DomainSnapshot is the per-domain slice of a report the narrative needs.
type DomainSnapshot struct {
	ID            catalog.DomainID `json:"id"`
	Name          string           `json:"name"`
	Score         float64          `json:"score"`
	IsFlourishing bool             `json:"is_flourishing"`
}

// NarrativeRequest is everything the text generator is told about a respondent.
type NarrativeRequest struct {
	Name               string           `json:"name"`
	Age                int              `json:"age"`
	Gender             models.Gender    `json:"gender"`
	IsStudent          bool             `json:"is_student"`
	IsEmployed         bool             `json:"is_employed"`
	IsBusinessOwner    bool             `json:"is_business_owner"`
	IsUnemployed       bool             `json:"is_unemployed"`
	LifeStage          LifeStage        `json:"life_stage"`
	SurvivalContext    string           `json:"survival_context,omitempty"`
	OverallScore       float64          `json:"overall_score"`
	FlourishingDomains int              `json:"flourishing_domains"`
	LanguishingDomains int              `json:"languishing_domains"`
	TotalDomains       int              `json:"total_domains"`
	Domains            []DomainSnapshot `json:"domains"`
	DomainSummary      []string         `json:"domain_summary"`
	Flourishing        []string         `json:"flourishing"`
	Languishing        []string         `json:"languishing"`
	Lowest             DomainSnapshot   `json:"lowest"`
	SecondLowest       DomainSnapshot   `json:"second_lowest"`
	Highest            DomainSnapshot   `json:"highest"`
	Patterns           []string         `json:"patterns,omitempty"`
}

// BuildNarrativeRequest serializes a scored report for the generator.
func BuildNarrativeRequest(report models.ReportData) NarrativeRequest {
	u, cf := report.UserInfo, report.ContextualFactors
	req := NarrativeRequest{
		Name:               u.Name,
		Age:                u.Age,
		Gender:             u.Gender,
		IsStudent:          cf.IsStudent,
		IsEmployed:         cf.IsEmployed,
		IsBusinessOwner:    cf.IsBusinessOwner,
		IsUnemployed:       cf.IsUnemployed,
		LifeStage:          LifeStageFor(cf.IsStudent, cf.IsEmployed),
		SurvivalContext:    SurvivalContextLabel(cf),
		OverallScore:       report.OverallScore,
		FlourishingDomains: report.FlourishingDomains,
		LanguishingDomains: report.LanguishingDomains,
		TotalDomains:       len(report.DomainResults),
		Domains:            make([]DomainSnapshot, 0, len(report.DomainResults)),
		DomainSummary:      make([]string, 0, len(report.DomainResults)),
		Flourishing:        []string{},
		Languishing:        []string{},
	}
	for _, d := range report.DomainResults {
		snap := snapshot(d)
		req.Domains = append(req.Domains, snap)
		req.DomainSummary = append(req.DomainSummary, DomainSummaryLine(d))
		if d.IsFlourishing {
			req.Flourishing = append(req.Flourishing, d.DomainName)
		} else {
			req.Languishing = append(req.Languishing, d.DomainName)
		}
	}
	if sorted := sortedByScore(report.DomainResults); len(sorted) > 0 {
		req.Lowest = snapshot(sorted[0])
		req.SecondLowest = req.Lowest
		if len(sorted) > 1 {
			req.SecondLowest = snapshot(sorted[1])
		}
		req.Highest = snapshot(sorted[len(sorted)-1])
	}
	req.Patterns = DetectPatterns(report.DomainResults)
	return req
}

func snapshot(d models.DomainResult) DomainSnapshot {
	return DomainSnapshot{ID: d.DomainID, Name: d.DomainName, Score: d.AverageScore, IsFlourishing: d.IsFlourishing}
}

func sortedByScore(results []models.DomainResult) []models.DomainResult {
	sorted := make([]models.DomainResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].AverageScore < sorted[j].AverageScore })
	return sorted
}

// DomainSummaryLine renders "Name: 4.3/6 (Flourishing)".
func DomainSummaryLine(d models.DomainResult) string {
	state := "Languishing"
	if d.IsFlourishing {
		state = "Flourishing"
	}
	return fmt.Sprintf("%s: %.1f/6 (%s)", d.DomainName, d.AverageScore, state)
}

// DetectPatterns applies the fixed cross-domain rules. A domain missing from
// results reads as 0.
func DetectPatterns(results []models.DomainResult) []string {
	score := make(map[catalog.DomainID]float64, len(results))
	for _, r := range results {
		score[r.DomainID] = r.AverageScore
	}
	psych := score[catalog.PsychologicalWellbeing]
	prof := score[catalog.ProfessionalDevelopment]
	char := score[catalog.CharacterDevelopment]
	life := score[catalog.LifeSkills]
	phys := score[catalog.PhysicalHealth]
	social := score[catalog.SocialRelationships]
	contrib := score[catalog.SocialContribution]

	var out []string
	if psych >= 4 && prof < 3.5 {
		out = append(out, fmt.Sprintf("Your Psychological Well-being (%.1f/6) shows resilience that can support Professional Development (%.1f/6).", psych, prof))
	}
	if (char >= 4 || life >= 4) && (prof < 3.5 || contrib < 3.5) {
		out = append(out, fmt.Sprintf("Your strong Character/Life Skills (%.1f/6) act as stabilizers for growth in weaker areas.", max(char, life)))
	}
	if phys < 3 && psych < 3.5 {
		out = append(out, fmt.Sprintf("Physical Health (%.1f/6) and Psychological Well-being (%.1f/6) may be interconnected.", phys, psych))
	}
	if social >= 4 && char >= 4 {
		out = append(out, fmt.Sprintf("Strong Social Relationships (%.1f/6) + Character (%.1f/6) create a powerful growth foundation.", social, char))
	}
	return out
}

const narrativeSystemPrompt = "You are an empathetic flourishing coach. You respond ONLY in valid JSON format."

// BuildPrompt renders the user message. Recommendations are requested with
// three small options each so the respondent only has to pick one.
func BuildPrompt(req NarrativeRequest) string {
	var b strings.Builder
	b.WriteString("You are a compassionate, insightful flourishing coach analyzing a youth's well-being assessment.\n\n")

	b.WriteString("## USER IDENTITY & CONTEXT\n")
	fmt.Fprintf(&b, "- Name: %s\n- Age: %d\n- Gender: %s\n- Life Stage: %s\n", req.Name, req.Age, req.Gender, req.LifeStage.Label())
	if req.SurvivalContext != "" {
		fmt.Fprintf(&b, "- Note: %s\n", req.SurvivalContext)
	}

	b.WriteString("\n## ASSESSMENT RESULTS\n")
	fmt.Fprintf(&b, "- Overall Score: %.1f%%\n", req.OverallScore)
	fmt.Fprintf(&b, "- Flourishing: %d/%d domains\n", req.FlourishingDomains, req.TotalDomains)
	fmt.Fprintf(&b, "- Needs Attention: %d/%d domains\n", req.LanguishingDomains, req.TotalDomains)
	fmt.Fprintf(&b, "- Lowest Domain: %s (%.1f/6)\n", req.Lowest.Name, req.Lowest.Score)
	fmt.Fprintf(&b, "- Highest Domain: %s (%.1f/6)\n", req.Highest.Name, req.Highest.Score)

	b.WriteString("\n### Domain Breakdown:\n")
	b.WriteString(strings.Join(req.DomainSummary, "\n"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "### Flourishing Areas: %s\n", joinOrNone(req.Flourishing))
	fmt.Fprintf(&b, "### Areas Needing Attention: %s\n", joinOrNone(req.Languishing))
	if len(req.Patterns) > 0 {
		fmt.Fprintf(&b, "\n### Pattern Observed: %s\n", strings.Join(req.Patterns, " "))
	}

	b.WriteString(`
## CRITICAL INSTRUCTION: CHOICE ARCHITECTURE
For recommendations, you MUST provide "Choice Architecture" - give users 3 distinct, small options to choose from.
This reduces cognitive load and increases likelihood of action.

For very low scores (< 3.0), start with AWARENESS (reading/learning), not action.
For flourishing domains, suggest MAINTENANCE or MENTORING, not improvement.

## OUTPUT FORMAT
Generate valid JSON matching this schema EXACTLY:

`)
	b.WriteString(promptSchema(req))
	b.WriteString(`

IMPORTANT:
- Options must be SPECIFIC and ACTIONABLE (e.g., "Watch a TED talk on resilience", not just "Learn more")
- For students with low Professional Development, suggest internship exploration, skill courses, or networking
- For low Social Contribution, suggest causes: Education, Environment, Elderly Care, or Local Community
- Reference domain names but DO NOT include numeric scores like 'X/6' or 'X.X/6' in your output - use qualitative descriptions instead (e.g., 'strong', 'developing', 'emerging')`)
	return b.String()
}

func promptSchema(req NarrativeRequest) string {
	low, second, high := req.Lowest, req.SecondLowest, req.Highest
	lead, action := "Build momentum in this area:", "Try one small action this week"
	if low.Score < 3 {
		lead, action = "Start by exploring this area:", "This week, read ONE article about your choice"
	}
	schema := map[string]any{
		"summary": fmt.Sprintf("3-4 sentences: acknowledge %s's life stage, celebrate their strength in %s, and mention one inter-domain connection.", req.Name, high.Name),
		"strengths": []string{
			fmt.Sprintf("Reference %s as a strength (WITHOUT numeric scores like X/6)", high.Name),
			"A pattern or combination strength observed from the data",
		},
		"growthAreas": []string{
			fmt.Sprintf("Primary: %s with contextual framing (if student, add 'This is expected for your stage')", low.Name),
			fmt.Sprintf("Secondary: %s with encouraging reframe", second.Name),
		},
		"recommendations": []models.StructuredRecommendation{
			{ID: 1, Category: low.Name, Score: round1(low.Score), Text: lead, Options: placeholderOptions(), ActionStep: action},
			{
				ID: 2, Category: second.Name, Score: round1(second.Score),
				Text:       fmt.Sprintf("Leverage your strength in %s to build this area:", high.Name),
				Options:    placeholderOptions(),
				ActionStep: "One micro-action connecting your strength to this growth area",
			},
		},
		"interDomainInsight": fmt.Sprintf("One specific sentence connecting %s to %s. How can the strength help the weakness? Do NOT include numeric scores.", high.Name, low.Name),
		"personalNote":       fmt.Sprintf("1-2 sentences speaking directly to %s. Reference their life stage and offer specific hope.", req.Name),
		"growthTrajectory":   fmt.Sprintf("Your %s has room to grow significantly in 6 months with focused effort.", low.Name),
	}
	out, _ := json.MarshalIndent(schema, "", "  ")
	return string(out)
}

func placeholderOptions() []string {
	return []string{"Specific option A", "Specific option B", "Specific option C"}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func joinOrNone(names []string) string {
	if len(names) == 0 {
		return "None"
	}
	return strings.Join(names, ", ")
}

// insightStatements is how many strengths and growth areas a model
// narrative carries. Extra statements are dropped.
const insightStatements = 2

// ParseInsights decodes generator output and checks the shape the report
// relies on. Markdown code fences around the JSON are tolerated.
func ParseInsights(raw string) (models.AIInsights, error) {
	var in models.AIInsights
	if err := json.Unmarshal([]byte(extractJSON(raw)), &in); err != nil {
		return models.AIInsights{}, fmt.Errorf("decode narrative: %v: %w", err, ErrMalformedNarrative)
	}
	switch {
	case strings.TrimSpace(in.Summary) == "":
		return models.AIInsights{}, fmt.Errorf("narrative summary is empty: %w", ErrMalformedNarrative)
	case len(in.Strengths) < insightStatements:
		return models.AIInsights{}, fmt.Errorf("narrative has %d strengths: %w", len(in.Strengths), ErrMalformedNarrative)
	case len(in.GrowthAreas) < insightStatements:
		return models.AIInsights{}, fmt.Errorf("narrative has %d growth areas: %w", len(in.GrowthAreas), ErrMalformedNarrative)
	case len(in.Recommendations) == 0:
		return models.AIInsights{}, fmt.Errorf("narrative has no recommendations: %w", ErrMalformedNarrative)
	}
	for i, r := range in.Recommendations {
		if len(r.Options) != 3 {
			return models.AIInsights{}, fmt.Errorf("recommendation %d has %d options: %w", i+1, len(r.Options), ErrMalformedNarrative)
		}
		if strings.TrimSpace(r.ActionStep) == "" {
			return models.AIInsights{}, fmt.Errorf("recommendation %d has no action step: %w", i+1, ErrMalformedNarrative)
		}
	}
	in.Strengths = firstN(in.Strengths, insightStatements)
	in.GrowthAreas = firstN(in.GrowthAreas, insightStatements)
	in.Source = models.InsightsFromModel
	return in, nil
}

func firstN(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// extractJSON strips a ```json fence if the model wrapped its answer in one.
func extractJSON(text string) string {
	start := 0
	if idx := strings.Index(text, "```json"); idx != -1 {
		start = idx + len("```json")
	} else if idx := strings.Index(text, "```"); idx != -1 {
		start = idx + len("```")
	}
	end := len(text)
	if idx := strings.LastIndex(text, "```"); idx > start {
		end = idx
	}
	return strings.TrimSpace(text[start:end])
}

var fallbackOptions = []string{"Read an article", "Watch a video", "Talk to a mentor"}

// FallbackInsights writes the narrative from the scored domains alone.
func FallbackInsights(report models.ReportData) models.AIInsights {
	results := report.DomainResults
	out := models.AIInsights{
		Summary: fmt.Sprintf("Based on your responses, you have an overall flourishing score of %s. You're flourishing in %d out of %d life domains.",
			FormatPercentage(report.OverallScore), report.FlourishingDomains, len(results)),
		Strengths:       []string{},
		GrowthAreas:     []string{},
		Recommendations: []models.StructuredRecommendation{},
		PersonalNote:    personalNote(report.UserInfo.Name),
		Source:          models.InsightsFromFallback,
	}
	if len(results) == 0 {
		return out
	}

	sorted := sortedByScore(results)
	lowest, highest := sorted[0], sorted[len(sorted)-1]
	for _, d := range results {
		if d.IsFlourishing && len(out.Strengths) < 2 {
			out.Strengths = append(out.Strengths, "Strong performance in "+d.DomainName)
		}
		if !d.IsFlourishing && len(out.GrowthAreas) < 2 {
			out.GrowthAreas = append(out.GrowthAreas, "Opportunity for growth in "+d.DomainName)
		}
	}
	if len(out.Strengths) == 0 {
		out.Strengths = append(out.Strengths, "Your highest area is "+highest.DomainName)
	}
	if len(out.GrowthAreas) == 0 {
		out.GrowthAreas = append(out.GrowthAreas, "Keep nurturing "+lowest.DomainName)
	}

	out.Recommendations = append(out.Recommendations, models.StructuredRecommendation{
		ID:         1,
		Category:   lowest.DomainName,
		Score:      lowest.AverageScore,
		Text:       "Start by exploring this area:",
		Options:    append([]string(nil), fallbackOptions...),
		ActionStep: "Pick one option and spend 15 minutes on it this week",
	})
	out.InterDomainInsight = fmt.Sprintf("Your strength in %s can support growth in %s.", highest.DomainName, lowest.DomainName)
	out.GrowthTrajectory = fmt.Sprintf("Your %s could improve from %s toward %s over the next 6 months.",
		lowest.DomainName, FormatScore(lowest.AverageScore), FormatScore(GrowthProjection(lowest.AverageScore)))
	return out
}

func personalNote(name string) string {
	if strings.TrimSpace(name) == "" {
		return "Flourishing is a journey. Take it one step at a time."
	}
	return name + ", flourishing is a journey. Take it one step at a time."
}

package models

import (
	"time"

	"github.com/soaringjerry/Flourish/internal/catalog"
)

// Gender values accepted on the profile form.
type Gender string

const (
	GenderMale           Gender = "male"
	GenderFemale         Gender = "female"
	GenderOther          Gender = "other"
	GenderPreferNotToSay Gender = "prefer-not-to-say"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther, GenderPreferNotToSay:
		return true
	}
	return false
}

// UserInfo is the respondent profile. PII stays in memory for one request.
type UserInfo struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Age             int    `json:"age"`
	Gender          Gender `json:"gender"`
	Location        string `json:"location"`
	IsStudent       bool   `json:"is_student"`
	IsEmployed      bool   `json:"is_employed"`
	IsBusinessOwner bool   `json:"is_business_owner"`
	IsUnemployed    bool   `json:"is_unemployed"`
}

// Likert scale bounds.
const (
	MinValue = 1
	MaxValue = 6
	// AgreeValue is the lowest "agree"-tier answer.
	AgreeValue = 5
)

// Response is one answered question.
type Response struct {
	QuestionID int `json:"question_id"`
	Value      int `json:"value"`
}

// ResponseSet holds at most one value per question id.
type ResponseSet map[int]int

// NewResponseSet applies responses in order; a revised answer overwrites the
// earlier one.
func NewResponseSet(rs []Response) ResponseSet {
	set := make(ResponseSet, len(rs))
	for _, r := range rs {
		set[r.QuestionID] = r.Value
	}
	return set
}

// DomainResult is derived fresh from a domain and the matching responses.
type DomainResult struct {
	DomainID             catalog.DomainID `json:"domain_id"`
	DomainName           string           `json:"domain_name"`
	AverageScore         float64          `json:"average_score"`
	TotalQuestions       int              `json:"total_questions"`
	AgreeCount           int              `json:"agree_count"`
	FlourishingThreshold int              `json:"flourishing_threshold"`
	IsFlourishing        bool             `json:"is_flourishing"`
	Responses            []Response       `json:"responses"`
}

type StressLevel string

const (
	StressStable   StressLevel = "stable"
	StressModerate StressLevel = "moderate"
	StressSurvival StressLevel = "survival"
)

// ContextualFactors carries the life-stage flags and the basic-needs reading.
type ContextualFactors struct {
	IsStudent           bool        `json:"is_student"`
	IsEmployed          bool        `json:"is_employed"`
	IsBusinessOwner     bool        `json:"is_business_owner"`
	IsUnemployed        bool        `json:"is_unemployed"`
	BasicNeedsMet       bool        `json:"basic_needs_met"`
	SurvivalStressLevel StressLevel `json:"survival_stress_level"`
}

// Sentinel domain labels for resources not tied to a scored domain.
const (
	DomainFoundation  = "Foundation"
	DomainInspiration = "Inspiration"
)

// RecommendedResource is a selected link plus the reason it was picked.
type RecommendedResource struct {
	Title  string               `json:"title"`
	URL    string               `json:"url"`
	Type   catalog.ResourceType `json:"type"`
	Reason string               `json:"reason"`
	Domain string               `json:"domain"`
}

// StructuredRecommendation presents exactly three options and one action.
// Its json tags follow the generator's output schema, see AIInsights.
type StructuredRecommendation struct {
	ID         int      `json:"id"`
	Category   string   `json:"category"`
	Score      float64  `json:"score"`
	Text       string   `json:"text"`
	Options    []string `json:"options"`
	ActionStep string   `json:"actionStep"`
}

type InsightSource string

const (
	InsightsFromModel    InsightSource = "ai"
	InsightsFromFallback InsightSource = "fallback"
)

// AIInsights is the narrative block. Recommendations are kept only in
// structured form; flattened text is produced when rendering.
//
// The camelCase json tags are the keys the text generator is asked to emit
// and services.ParseInsights decodes with them. Do not rename them to
// snake_case.
type AIInsights struct {
	Summary            string                     `json:"summary"`
	Strengths          []string                   `json:"strengths"`
	GrowthAreas        []string                   `json:"growthAreas"`
	Recommendations    []StructuredRecommendation `json:"recommendations"`
	InterDomainInsight string                     `json:"interDomainInsight"`
	PersonalNote       string                     `json:"personalNote"`
	GrowthTrajectory   string                     `json:"growthTrajectory"`
	Source             InsightSource              `json:"source,omitempty"`
}

// ReportData is the per-request aggregate handed to presentation layers.
type ReportData struct {
	ID                 string                `json:"id"`
	UserInfo           UserInfo              `json:"user_info"`
	ContextualFactors  ContextualFactors     `json:"contextual_factors"`
	DomainResults      []DomainResult        `json:"domain_results"`
	OverallScore       float64               `json:"overall_score"`
	FlourishingDomains int                   `json:"flourishing_domains"`
	LanguishingDomains int                   `json:"languishing_domains"`
	GeneratedAt        time.Time             `json:"generated_at"`
	CatalogVersion     string                `json:"catalog_version,omitempty"`
	Insights           *AIInsights           `json:"insights,omitempty"`
	Resources          []RecommendedResource `json:"resources,omitempty"`
}

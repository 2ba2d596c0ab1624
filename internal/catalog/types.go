package catalog

import (
	"fmt"
	"strings"
)

// DomainID is the canonical identifier of a scored life domain. Values are
// fixed at catalog-definition time; there is no runtime normalization.
type DomainID string

const (
	PhysicalHealth          DomainID = "physical-health"
	PsychologicalWellbeing  DomainID = "psychological-wellbeing"
	SocialRelationships     DomainID = "social-relationships"
	ProfessionalDevelopment DomainID = "professional-development"
	SocialContribution      DomainID = "social-contribution"
	LifeSkills              DomainID = "life-skills"
	CharacterDevelopment    DomainID = "character-development"
)

// DomainIDs lists every domain in questionnaire order.
var DomainIDs = []DomainID{
	PhysicalHealth,
	PsychologicalWellbeing,
	SocialRelationships,
	ProfessionalDevelopment,
	SocialContribution,
	LifeSkills,
	CharacterDevelopment,
}

// ParseDomainID accepts only the exact canonical spelling.
func ParseDomainID(s string) (DomainID, error) {
	for _, id := range DomainIDs {
		if string(id) == s {
			return id, nil
		}
	}
	return "", fmt.Errorf("catalog: unknown domain id %q", s)
}

func (id DomainID) String() string { return string(id) }

// Question is a single questionnaire statement answered on the 6-point scale.
type Question struct {
	ID          int      `json:"id"`
	Text        string   `json:"text"`
	Domain      DomainID `json:"domain_id,omitempty"`
	Group       string   `json:"group,omitempty"`
	Gender      string   `json:"gender_specific,omitempty"`
	ContextNote string   `json:"context_note,omitempty"`
}

// Domain is an immutable scored section of the questionnaire.
type Domain struct {
	ID                   DomainID   `json:"id"`
	Name                 string     `json:"name"`
	Description          string     `json:"description"`
	Icon                 string     `json:"icon,omitempty"`
	Color                string     `json:"color,omitempty"`
	Questions            []Question `json:"questions"`
	FlourishingThreshold int        `json:"flourishing_threshold"`
}

// HasQuestion reports whether questionID belongs to the domain.
func (d Domain) HasQuestion(questionID int) bool {
	for _, q := range d.Questions {
		if q.ID == questionID {
			return true
		}
	}
	return false
}

type ResourceType string

const (
	TypeArticle ResourceType = "article"
	TypeVideo   ResourceType = "video"
	TypePDF     ResourceType = "pdf"
	TypeBook    ResourceType = "book"
	TypeStory   ResourceType = "story"
)

func (t ResourceType) valid() bool {
	switch t {
	case TypeArticle, TypeVideo, TypePDF, TypeBook, TypeStory:
		return true
	}
	return false
}

// ScoreBucket is the coarse severity band a resource is written for.
type ScoreBucket string

const (
	BucketVeryLow ScoreBucket = "very-low"
	BucketLow     ScoreBucket = "low"
	BucketMedium  ScoreBucket = "medium"
	BucketHigh    ScoreBucket = "high"
	BucketAll     ScoreBucket = "all"
)

func (b ScoreBucket) valid() bool {
	switch b {
	case BucketVeryLow, BucketLow, BucketMedium, BucketHigh, BucketAll:
		return true
	}
	return false
}

// BucketFor maps a domain average onto a score bucket.
func BucketFor(score float64) ScoreBucket {
	switch {
	case score < 2:
		return BucketVeryLow
	case score < 3:
		return BucketLow
	case score < 4.5:
		return BucketMedium
	default:
		return BucketHigh
	}
}

// Resource is a curated link. Description and Tags exist for curation;
// runtime matching only looks at ScoreRange and the audience flags.
type Resource struct {
	Title            string       `yaml:"title" json:"title"`
	URL              string       `yaml:"url" json:"url"`
	Type             ResourceType `yaml:"type" json:"type"`
	Language         string       `yaml:"language" json:"language,omitempty"`
	Description      string       `yaml:"description" json:"description,omitempty"`
	Tags             []string     `yaml:"tags" json:"tags,omitempty"`
	ScoreRange       ScoreBucket  `yaml:"score_range" json:"score_range"`
	ForStudents      *bool        `yaml:"for_students,omitempty" json:"for_students,omitempty"`
	ForProfessionals *bool        `yaml:"for_professionals,omitempty" json:"for_professionals,omitempty"`
}

// EligibleFor applies the audience restriction. An unset flag means eligible.
func (r Resource) EligibleFor(isStudent bool) bool {
	if isStudent {
		return r.ForStudents == nil || *r.ForStudents
	}
	return r.ForProfessionals == nil || *r.ForProfessionals
}

// StudentTagged reports an explicit for_students: true.
func (r Resource) StudentTagged() bool { return r.ForStudents != nil && *r.ForStudents }

// ProfessionalTagged reports an explicit for_professionals: true.
func (r Resource) ProfessionalTagged() bool {
	return r.ForProfessionals != nil && *r.ForProfessionals
}

// MatchesBucket is true for the exact bucket or the universal one.
func (r Resource) MatchesBucket(b ScoreBucket) bool {
	return r.ScoreRange == b || r.ScoreRange == BucketAll
}

// HasTagContaining reports whether any tag contains one of the fragments.
func (r Resource) HasTagContaining(fragments ...string) bool {
	for _, t := range r.Tags {
		for _, f := range fragments {
			if strings.Contains(t, f) {
				return true
			}
		}
	}
	return false
}

// Resources groups the three resource pools.
type Resources struct {
	Core    []Resource              `json:"core"`
	Domains map[DomainID][]Resource `json:"domains"`
	Stories []Resource              `json:"stories"`
}

// Pool returns the domain's curated list in declaration order.
func (r Resources) Pool(id DomainID) []Resource {
	return r.Domains[id]
}

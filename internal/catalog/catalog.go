// Package catalog holds the versioned questionnaire and resource catalogs.
//
// Both catalogs are decoded from YAML once, validated, and then treated as
// read-only process-wide state. Nothing in this package mutates a Catalog
// after Load returns, so it can be shared across goroutines freely.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed domains.yaml
var embeddedDomains []byte

//go:embed resources.yaml
var embeddedResources []byte

const (
	// ContextQuestionCount is the size of the basic-needs block.
	ContextQuestionCount = 4
	domainFile           = "domains.yaml"
	resourceFile         = "resources.yaml"
)

// Catalog is the loaded questionnaire plus its resource pools.
type Catalog struct {
	Version       string     `json:"version"`
	Context       []Question `json:"context"`
	Domains       []Domain   `json:"domains"`
	Supplementary []Question `json:"supplementary,omitempty"`
	Resources     Resources  `json:"-"`

	questions map[int]Question
	domains   map[DomainID]int
	context   map[int]struct{}
}

type questionYAML struct {
	ID          int    `yaml:"id"`
	Text        string `yaml:"text"`
	Group       string `yaml:"group"`
	Gender      string `yaml:"gender"`
	ContextNote string `yaml:"context_note"`
}

type domainYAML struct {
	ID                   string         `yaml:"id"`
	Name                 string         `yaml:"name"`
	Description          string         `yaml:"description"`
	Icon                 string         `yaml:"icon"`
	Color                string         `yaml:"color"`
	FlourishingThreshold int            `yaml:"flourishing_threshold"`
	Questions            []questionYAML `yaml:"questions"`
}

type domainsFile struct {
	Version       string         `yaml:"version"`
	Context       []questionYAML `yaml:"context"`
	Domains       []domainYAML   `yaml:"domains"`
	Supplementary []questionYAML `yaml:"supplementary"`
}

type resourcesFile struct {
	Core    []Resource            `yaml:"core"`
	Domains map[string][]Resource `yaml:"domains"`
	Stories []Resource            `yaml:"stories"`
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the embedded catalog, loading it on first use.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCat, defaultErr = Load(embeddedDomains, embeddedResources)
	})
	return defaultCat, defaultErr
}

// MustDefault is Default for callers that treat a broken embedded catalog as
// a build defect.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// LoadDir reads domains.yaml and resources.yaml from dir. A file missing from
// dir falls back to the embedded copy, so an override directory may replace
// just the resource list.
func LoadDir(dir string) (*Catalog, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return Default()
	}
	domains, err := readOverride(filepath.Join(trimmed, domainFile), embeddedDomains)
	if err != nil {
		return nil, err
	}
	resources, err := readOverride(filepath.Join(trimmed, resourceFile), embeddedResources)
	if err != nil {
		return nil, err
	}
	return Load(domains, resources)
}

func readOverride(path string, fallback []byte) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fallback, nil
		}
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return data, nil
}

// Load decodes and validates both catalog payloads.
func Load(domainsYAML, resourcesYAML []byte) (*Catalog, error) {
	if len(bytes.TrimSpace(domainsYAML)) == 0 {
		return nil, fmt.Errorf("catalog: domain payload is empty")
	}
	var df domainsFile
	if err := yaml.Unmarshal(domainsYAML, &df); err != nil {
		return nil, fmt.Errorf("catalog: decode domains: %w", err)
	}
	var rf resourcesFile
	if err := yaml.Unmarshal(resourcesYAML, &rf); err != nil {
		return nil, fmt.Errorf("catalog: decode resources: %w", err)
	}

	c := &Catalog{
		Version:   strings.TrimSpace(df.Version),
		questions: make(map[int]Question),
		domains:   make(map[DomainID]int),
		context:   make(map[int]struct{}),
	}
	if c.Version == "" {
		return nil, fmt.Errorf("catalog: version is required")
	}

	for _, q := range df.Context {
		question, err := c.addQuestion(q, "")
		if err != nil {
			return nil, err
		}
		c.Context = append(c.Context, question)
		c.context[question.ID] = struct{}{}
	}
	if len(c.Context) != ContextQuestionCount {
		return nil, fmt.Errorf("catalog: expected %d context questions, got %d", ContextQuestionCount, len(c.Context))
	}

	for _, d := range df.Domains {
		domain, err := c.buildDomain(d)
		if err != nil {
			return nil, err
		}
		c.domains[domain.ID] = len(c.Domains)
		c.Domains = append(c.Domains, domain)
	}
	if len(c.Domains) != len(DomainIDs) {
		return nil, fmt.Errorf("catalog: expected %d domains, got %d", len(DomainIDs), len(c.Domains))
	}

	for _, q := range df.Supplementary {
		question, err := c.addQuestion(q, "")
		if err != nil {
			return nil, err
		}
		c.Supplementary = append(c.Supplementary, question)
	}

	res, err := buildResources(rf)
	if err != nil {
		return nil, err
	}
	c.Resources = res
	return c, nil
}

func (c *Catalog) buildDomain(d domainYAML) (Domain, error) {
	id, err := ParseDomainID(strings.TrimSpace(d.ID))
	if err != nil {
		return Domain{}, err
	}
	if _, dup := c.domains[id]; dup {
		return Domain{}, fmt.Errorf("catalog: duplicate domain %q", id)
	}
	if strings.TrimSpace(d.Name) == "" {
		return Domain{}, fmt.Errorf("catalog: domain %q has no name", id)
	}
	domain := Domain{
		ID:                   id,
		Name:                 strings.TrimSpace(d.Name),
		Description:          strings.TrimSpace(d.Description),
		Icon:                 d.Icon,
		Color:                d.Color,
		FlourishingThreshold: d.FlourishingThreshold,
	}
	for _, q := range d.Questions {
		question, err := c.addQuestion(q, id)
		if err != nil {
			return Domain{}, err
		}
		domain.Questions = append(domain.Questions, question)
	}
	if len(domain.Questions) == 0 {
		return Domain{}, fmt.Errorf("catalog: domain %q has no questions", id)
	}
	if domain.FlourishingThreshold < 1 || domain.FlourishingThreshold > len(domain.Questions) {
		return Domain{}, fmt.Errorf("catalog: domain %q threshold %d outside 1..%d",
			id, domain.FlourishingThreshold, len(domain.Questions))
	}
	return domain, nil
}

func (c *Catalog) addQuestion(q questionYAML, domain DomainID) (Question, error) {
	if _, dup := c.questions[q.ID]; dup {
		return Question{}, fmt.Errorf("catalog: duplicate question id %d", q.ID)
	}
	if strings.TrimSpace(q.Text) == "" {
		return Question{}, fmt.Errorf("catalog: question %d has no text", q.ID)
	}
	switch q.Gender {
	case "", "male", "female":
	default:
		return Question{}, fmt.Errorf("catalog: question %d has invalid gender tag %q", q.ID, q.Gender)
	}
	question := Question{
		ID:          q.ID,
		Text:        strings.TrimSpace(q.Text),
		Domain:      domain,
		Group:       q.Group,
		Gender:      q.Gender,
		ContextNote: q.ContextNote,
	}
	c.questions[q.ID] = question
	return question, nil
}

func buildResources(rf resourcesFile) (Resources, error) {
	out := Resources{Domains: make(map[DomainID][]Resource, len(rf.Domains))}
	var err error
	if out.Core, err = validatePool("core", rf.Core); err != nil {
		return Resources{}, err
	}
	if out.Stories, err = validatePool("stories", rf.Stories); err != nil {
		return Resources{}, err
	}
	if len(out.Stories) == 0 {
		return Resources{}, fmt.Errorf("catalog: story pool is empty")
	}
	for key, pool := range rf.Domains {
		id, err := ParseDomainID(key)
		if err != nil {
			return Resources{}, err
		}
		validated, err := validatePool(key, pool)
		if err != nil {
			return Resources{}, err
		}
		out.Domains[id] = validated
	}
	return out, nil
}

func validatePool(name string, pool []Resource) ([]Resource, error) {
	seen := make(map[string]struct{}, len(pool))
	for i, r := range pool {
		if strings.TrimSpace(r.Title) == "" || strings.TrimSpace(r.URL) == "" {
			return nil, fmt.Errorf("catalog: %s[%d]: title and url required", name, i)
		}
		if _, dup := seen[r.URL]; dup {
			return nil, fmt.Errorf("catalog: %s: duplicate url %s", name, r.URL)
		}
		seen[r.URL] = struct{}{}
		if !r.Type.valid() {
			return nil, fmt.Errorf("catalog: %s[%d]: unknown type %q", name, i, r.Type)
		}
		if r.ScoreRange == "" {
			pool[i].ScoreRange = BucketAll
		} else if !r.ScoreRange.valid() {
			return nil, fmt.Errorf("catalog: %s[%d]: unknown score_range %q", name, i, r.ScoreRange)
		}
	}
	return pool, nil
}

// Domain looks a domain up by id.
func (c *Catalog) Domain(id DomainID) (Domain, bool) {
	idx, ok := c.domains[id]
	if !ok {
		return Domain{}, false
	}
	return c.Domains[idx], true
}

// Question looks a question up by id across context, domain, and
// supplementary items.
func (c *Catalog) Question(id int) (Question, bool) {
	q, ok := c.questions[id]
	return q, ok
}

// IsContextQuestion reports whether id is one of the basic-needs items.
func (c *Catalog) IsContextQuestion(id int) bool {
	_, ok := c.context[id]
	return ok
}

// QuestionCount counts the scored domain questions.
func (c *Catalog) QuestionCount() int {
	n := 0
	for _, d := range c.Domains {
		n += len(d.Questions)
	}
	return n
}

package mcptool

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/soaringjerry/Flourish/internal/catalog"
)

// CatalogTool handles the flourish_catalog MCP tool.
type CatalogTool struct {
	cat *catalog.Catalog
}

func NewCatalogTool(cat *catalog.Catalog) *CatalogTool {
	return &CatalogTool{cat: cat}
}

// Definition returns the MCP tool definition for flourish_catalog.
func (t *CatalogTool) Definition() mcp.Tool {
	return mcp.NewTool("flourish_catalog",
		mcp.WithDescription(
			"List the assessment domains and their question ids. Pass 'domain' to get the question "+
				"texts of a single domain. Answers use a 1-6 scale from Strongly Disagree to Strongly Agree.",
		),
		mcp.WithString("domain",
			mcp.Description("Optional domain id, e.g. physical-health"),
		),
	)
}

type domainEntry struct {
	ID          catalog.DomainID `json:"id"`
	Name        string           `json:"name"`
	Threshold   int              `json:"flourishing_threshold"`
	QuestionIDs []int            `json:"question_ids"`
}

// Handle processes the flourish_catalog tool call.
func (t *CatalogTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if raw := req.GetString("domain", ""); raw != "" {
		id, err := catalog.ParseDomainID(raw)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("unknown domain %q", raw)), nil
		}
		d, _ := t.cat.Domain(id)
		return jsonResult(d)
	}

	contextIDs := make([]int, 0, len(t.cat.Context))
	for _, q := range t.cat.Context {
		contextIDs = append(contextIDs, q.ID)
	}
	domains := make([]domainEntry, 0, len(t.cat.Domains))
	for _, d := range t.cat.Domains {
		e := domainEntry{ID: d.ID, Name: d.Name, Threshold: d.FlourishingThreshold}
		for _, q := range d.Questions {
			e.QuestionIDs = append(e.QuestionIDs, q.ID)
		}
		domains = append(domains, e)
	}
	return jsonResult(map[string]any{
		"version":              t.cat.Version,
		"context_question_ids": contextIDs,
		"domains":              domains,
	})
}

package mcptool

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/soaringjerry/Flourish/internal/services"
)

const serverInstructions = "Flourish scores a seven-domain youth flourishing questionnaire. " +
	"Call flourish_catalog first to learn the question ids, then flourish_score with the answers."

// NewServer registers every Flourish tool on a fresh MCP server.
func NewServer(reports *services.ReportService, version string, logger zerolog.Logger) *server.MCPServer {
	s := server.NewMCPServer(
		"flourish",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions),
	)

	catalogTool := NewCatalogTool(reports.Catalog())
	s.AddTool(catalogTool.Definition(), catalogTool.Handle)

	scoreTool := NewScoreTool(reports, logger)
	s.AddTool(scoreTool.Definition(), scoreTool.Handle)

	return s
}

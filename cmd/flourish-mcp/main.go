// flourish-mcp serves the Flourish scoring tools over MCP stdio.
//
// Usage:
//
//	flourish-mcp serve      # start the MCP server on stdin/stdout
//	flourish-mcp version    # print the build commit
//
// Logs go to stderr, or to FLOURISH_LOG_PATH when set, so they never mix
// with the protocol stream on stdout.
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/soaringjerry/Flourish/internal/catalog"
	"github.com/soaringjerry/Flourish/internal/config"
	"github.com/soaringjerry/Flourish/internal/logging"
	"github.com/soaringjerry/Flourish/internal/mcptool"
	"github.com/soaringjerry/Flourish/internal/services"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "--version", "-v", "version":
		fmt.Printf("flourish-mcp %s\n", version(config.Load()))
	case "--help", "-h", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	lb := logging.New().WithLevel(cfg.LogLevel)
	if cfg.LogPath != "" {
		lb = lb.FromPath(cfg.LogPath)
	}
	log, err := lb.Make()
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer log.Close()
	logger := log.Logger.With().Str("component", "mcp").Logger()

	cat, err := catalog.LoadDir(cfg.CatalogDir)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	var gen services.Generator
	if cfg.NarrativeEnabled() {
		gen = services.NewOpenAIGenerator(&http.Client{Timeout: cfg.NarrativeTimeout}, cfg.OpenAIBase, cfg.OpenAIKey, cfg.OpenAIModel)
	}
	reports := services.NewReportService(cat, services.NewNarrativeService(gen, logger, cfg.NarrativeTimeout), logger, cfg.ResourceLimit)

	logger.Info().Str("catalog_version", cat.Version).Bool("narrative", gen != nil).Msg("serving MCP on stdio")
	return server.ServeStdio(mcptool.NewServer(reports, version(cfg), logger))
}

func version(cfg config.Config) string {
	if cfg.Commit == "" {
		return "dev"
	}
	return cfg.Commit
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `flourish-mcp: Flourish assessment scoring over MCP

Usage:
  flourish-mcp serve     Start the MCP server (stdio transport)
  flourish-mcp version   Print version information
  flourish-mcp help      Show this help
`)
}

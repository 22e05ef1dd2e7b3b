package main

import (
	"os"

	"github.com/spf13/cobra"

	"cqb/internal/logging"
	"cqb/internal/mcp"
	"cqb/internal/version"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for content query tools",
	Long: `Start the Model Context Protocol (MCP) server.

The MCP server lets Claude Code and other MCP clients query the content
repository. It communicates via stdio using JSON-RPC 2.0; logs go to
stderr because stdout carries the protocol stream.

The server exposes tools for story listing, full-text and deep search,
component usage analysis, schema validation, and story lifecycle
(create, update, publish, delete).

Example usage:
  cqb mcp --stdio

This command is typically invoked by MCP clients and not directly by
users.`,
	RunE: runMCP,
}

var (
	mcpStdio bool
)

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().BoolVar(&mcpStdio, "stdio", true, "Use stdio for communication (default)")
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// stdout carries the protocol stream, so logs must go to stderr
	logger := logging.NewLogger(logging.Config{
		Format: logging.Format(cfg.Logging.Format),
		Level:  logging.Level(cfg.Logging.Level),
		Output: os.Stderr,
	})

	logger.Info("Starting MCP server", map[string]interface{}{
		"version": version.Version,
		"space":   cfg.SpaceID,
	})

	engine := buildEngine(cfg, logger)
	server := mcp.NewServer(version.Version, engine, logger)

	if err := server.Start(); err != nil {
		logger.Error("MCP server error", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}
	return nil
}

package main

import (
	"time"

	"github.com/spf13/cobra"

	"cqb/internal/client"
	"cqb/internal/config"
	"cqb/internal/logging"
	"cqb/internal/query"
	"cqb/internal/version"
)

var (
	// configFlag is the CLI --config flag value
	configFlag string
)

var rootCmd = &cobra.Command{
	Use:   "cqb",
	Short: "CQB - Content Query Backend",
	Long: `CQB (Content Query Backend) is a multi-version aggregation and recursive
content-query layer over a headless content repository. It merges draft and
published story views, scans nested component trees, validates content against
component schemas, and exposes everything as MCP tools.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("CQB version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "",
		"Path to config file (default: ./cqb.yaml, overlaid with CQB_* env vars)")
}

// loadConfig resolves the effective configuration from the --config flag.
func loadConfig() (*config.Config, error) {
	return config.Load(configFlag)
}

// buildEngine assembles the repository client and query engine from
// configuration.
func buildEngine(cfg *config.Config, logger *logging.Logger) *query.Engine {
	repo := client.New(client.Config{
		BaseURL: cfg.Endpoint,
		SpaceID: cfg.SpaceID,
		Token:   cfg.Token,
		Timeout: time.Duration(cfg.Query.TimeoutMs) * time.Millisecond,
	}, logger)

	return query.NewEngine(repo, logger, query.Options{
		Space:    cfg.SpaceID,
		PerPage:  cfg.Query.PerPage,
		MaxPages: cfg.Query.MaxPages,
	})
}

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"cqb/internal/errors"
	"cqb/internal/logging"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose CQB configuration and connectivity issues",
	Long: `Check the effective configuration and verify that the content repository
is reachable with the configured credentials.

Exits non-zero when a check fails.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	fmt.Println("CQB doctor")
	fmt.Println()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("  [FAIL] configuration: %v\n", err)
		for _, fix := range errors.SuggestedFixes(errors.CodeOf(err)) {
			if fix.Command != "" {
				fmt.Printf("         fix: %s (%s)\n", fix.Description, fix.Command)
			} else {
				fmt.Printf("         fix: %s\n", fix.Description)
			}
		}
		os.Exit(1)
	}
	fmt.Printf("  [OK]   configuration (space %s, endpoint %s)\n", cfg.SpaceID, cfg.Endpoint)

	logger := logging.NewLogger(logging.Config{
		Format: logging.HumanFormat,
		Level:  logging.WarnLevel,
	})
	engine := buildEngine(cfg, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	status := engine.Status(ctx)
	if !status.Healthy {
		fmt.Printf("  [FAIL] space reachability: %s\n", status.Detail)
		os.Exit(1)
	}
	fmt.Println("  [OK]   space reachable, credentials accepted")

	fmt.Println("\nAll checks passed.")
	return nil
}

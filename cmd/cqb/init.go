package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cqb/internal/config"
)

var (
	initForce bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize CQB configuration",
	Long:  "Writes a commented cqb.yaml starter config to the current directory",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	path := configFlag
	if path == "" {
		path = "cqb.yaml"
	}

	if initForce {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	if err := config.WriteStarter(path); err != nil {
		return err
	}

	fmt.Printf("Wrote starter configuration to %s\n", path)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Set spaceId in the file (or export CQB_SPACEID)")
	fmt.Println("  2. Export CQB_TOKEN with a management API token")
	fmt.Println("  3. Run 'cqb doctor' to verify connectivity")
	return nil
}

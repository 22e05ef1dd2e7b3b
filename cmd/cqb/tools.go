package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"cqb/internal/mcp"
)

var (
	toolsJSONFlag bool
)

var toolsCmd = &cobra.Command{
	Use:   "tools [name]",
	Short: "List available MCP tools",
	Long: `List the MCP tools this server exposes.

Without arguments, shows a summary table.
With a tool name, shows that tool's input schema.

Examples:
  cqb tools                # Show all tools
  cqb tools fetchStories   # Show details for fetchStories
  cqb tools --json         # Output as JSON`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTools,
}

func init() {
	toolsCmd.Flags().BoolVar(&toolsJSONFlag, "json", false, "Output as JSON")
	rootCmd.AddCommand(toolsCmd)
}

func runTools(cmd *cobra.Command, args []string) error {
	server := mcp.NewServerForCLI()
	allTools := server.GetToolDefinitions()

	if len(args) == 1 {
		return showTool(allTools, args[0])
	}

	if toolsJSONFlag {
		return printJSON(allTools)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TOOL\tDESCRIPTION")
	for _, tool := range allTools {
		fmt.Fprintf(w, "%s\t%s\n", tool.Name, tool.Description)
	}
	return w.Flush()
}

func showTool(allTools []mcp.Tool, name string) error {
	for _, tool := range allTools {
		if tool.Name == name {
			if toolsJSONFlag {
				return printJSON(tool)
			}
			fmt.Printf("%s\n  %s\n\nInput schema:\n", tool.Name, tool.Description)
			return printJSON(tool.InputSchema)
		}
	}
	return fmt.Errorf("unknown tool %q (run 'cqb tools' for the list)", name)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

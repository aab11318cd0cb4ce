// Package cmd provides the unity-mcp-go command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "unity-mcp-go",
	Short: "MCP server for the Unity editor",
	Long: `unity-mcp-go exposes the Unity editor to MCP clients.

Tool calls are normalized and forwarded to the editor bridge listening
inside Unity (localhost:6400 by default).

Commands:
  serve     Start the MCP server (default)
  ping      Check that the Unity editor bridge answers
  version   Print version information`,
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $MCP_CONFIG_PATH, ./config/mcp_config.json or ~/.unity-mcp/config/mcp_config.json)")
	rootCmd.Flags().AddFlagSet(serveFlags())
}

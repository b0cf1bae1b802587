package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the release version, also reported to MCP clients.
const Version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "workitems v%s\n", Version)
	},
}

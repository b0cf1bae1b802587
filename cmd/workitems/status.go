package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/joshcarp/workitems-mcp/pkg/config"
	"github.com/joshcarp/workitems-mcp/pkg/logging"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the resolved configuration",
	Long: `Show the configuration the server would run with.

The access token itself is never printed, only where it comes from.

Example:
  workitems status`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, source, err := loadConfig()
	if err != nil {
		return err
	}
	printStatus(cmd.OutOrStdout(), cfg, source)
	return nil
}

func printStatus(w io.Writer, cfg config.Config, source tokenSource) {
	orDash := func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	}

	fmt.Fprintf(w, "Config file: %s\n", configPath)
	fmt.Fprintf(w, "Organization: %s\n", orDash(cfg.Organization))
	fmt.Fprintf(w, "Project: %s\n", orDash(cfg.Project))
	fmt.Fprintf(w, "Base URL: %s\n", cfg.BaseURL())
	fmt.Fprintf(w, "API version: %s\n", cfg.APIVersion)
	fmt.Fprintf(w, "Timeout: %s\n", cfg.Timeout)
	fmt.Fprintf(w, "Planned date field: %s\n", cfg.PlannedDateField)
	fmt.Fprintf(w, "Real effort field: %s\n", cfg.RealEffortField)
	fmt.Fprintf(w, "Access token: %s\n", source)
	if dir, err := config.Dir(); err == nil {
		fmt.Fprintf(w, "Log file: %s\n", filepath.Join(dir, logging.FileName))
	}

	switch {
	case source == tokenMissing:
		fmt.Fprintln(w, "\nUse 'workitems login' or set AZURE_DEVOPS_ACCESS_TOKEN to authenticate")
	case cfg.Organization == "" || cfg.Project == "":
		fmt.Fprintln(w, "\nSet AZURE_DEVOPS_ORGANIZATION and AZURE_DEVOPS_PROJECT, or add them to the config file")
	}
}

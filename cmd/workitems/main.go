package main

import (
	"fmt"
	"os"

	"github.com/effective-security/xlog"
	"github.com/joshcarp/workitems-mcp/pkg/config"
	"github.com/joshcarp/workitems-mcp/pkg/credential"
	"github.com/joshcarp/workitems-mcp/pkg/devops"
	"github.com/joshcarp/workitems-mcp/pkg/tools"
	"github.com/joshcarp/workitems-mcp/pkg/workitems"
	"github.com/spf13/cobra"
)

var logger = xlog.NewPackageLogger("github.com/joshcarp/workitems-mcp", "cmd")

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "workitems",
	Short: "Azure DevOps work items as MCP tools",
	Long: `workitems: query and update Azure DevOps work items from an AI agent.

Configuration is read from ~/.workitems/config.yaml and AZURE_DEVOPS_*
environment variables (AZURE_DEVOPS_ORGANIZATION, AZURE_DEVOPS_PROJECT,
AZURE_DEVOPS_ACCESS_TOKEN, ...). When no token is configured the one saved
with 'workitems login' is used.

Usage:
  workitems serve                    Run the MCP server on stdin/stdout
  workitems tools                    List the available tools
  workitems call <tool> [key=value]  Run one tool and print its result
  workitems login                    Save a personal access token in the OS keyring
  workitems status                   Show the resolved configuration`,
	SilenceUsage: true,
}

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "path to the YAML config file")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(callCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(statusCmd)
}

// tokenSource says where the access token came from.
type tokenSource string

const (
	tokenFromConfig  tokenSource = "config"
	tokenFromKeyring tokenSource = "keyring"
	tokenMissing     tokenSource = "missing"
)

// loadConfig reads the configuration and falls back to the keyring for the
// token. A missing token is not an error; requests will fail with 401.
func loadConfig() (config.Config, tokenSource, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, tokenMissing, err
	}
	if cfg.AccessToken != "" {
		return cfg, tokenFromConfig, nil
	}

	store, err := credential.Open("")
	if err != nil {
		logger.KV(xlog.WARNING, "status", "keyring_unavailable", "err", err.Error())
		return cfg, tokenMissing, nil
	}
	resolved, err := store.ResolveToken(cfg)
	if err != nil {
		logger.KV(xlog.NOTICE, "status", "no_access_token", "organization", cfg.Organization, "err", err.Error())
		return cfg, tokenMissing, nil
	}
	return resolved, tokenFromKeyring, nil
}

func newRegistry(cfg config.Config) *tools.Registry {
	svc := workitems.NewService(devops.NewClient(cfg), cfg)
	return tools.WorkItemTools(svc)
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/joshcarp/workitems-mcp/pkg/config"
	"github.com/joshcarp/workitems-mcp/pkg/tools"
	"github.com/spf13/cobra"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the available tools",
	Long: `List every tool the MCP server exposes with its parameters.

Examples:
  workitems tools           List as a table
  workitems tools --json    Output as JSON`,
	RunE: runTools,
}

var toolsJSON bool

func init() {
	toolsCmd.Flags().BoolVar(&toolsJSON, "json", false, "Output as JSON")
}

type toolInfo struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Params      []paramInfo `json:"params,omitempty"`
}

type paramInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func runTools(cmd *cobra.Command, args []string) error {
	// The catalogue does not depend on credentials.
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	return printTools(cmd.OutOrStdout(), newRegistry(cfg), toolsJSON)
}

func printTools(w io.Writer, r *tools.Registry, asJSON bool) error {
	list := r.List()

	if asJSON {
		infos := make([]toolInfo, 0, len(list))
		for _, t := range list {
			info := toolInfo{Name: t.Name, Description: t.Description}
			for _, p := range t.Params {
				info.Params = append(info.Params, paramInfo{Name: p.Name, Description: p.Description})
			}
			infos = append(infos, info)
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPARAMS\tDESCRIPTION")
	fmt.Fprintln(tw, "----\t------\t-----------")
	for _, t := range list {
		names := make([]string, 0, len(t.Params))
		for _, p := range t.Params {
			names = append(names, p.Name)
		}
		params := strings.Join(names, ",")
		if params == "" {
			params = "-"
		}
		desc := t.Description
		if len(desc) > 60 {
			desc = desc[:57] + "..."
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Name, params, desc)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nTotal: %d tools\n", len(list))
	return nil
}

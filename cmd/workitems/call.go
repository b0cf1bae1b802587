package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/joshcarp/workitems-mcp/pkg/logging"
	"github.com/joshcarp/workitems-mcp/pkg/tools"
	"github.com/spf13/cobra"
)

var callCmd = &cobra.Command{
	Use:   "call <tool> [key=value ...]",
	Short: "Run one tool and print its result",
	Long: `Run a single tool against Azure DevOps without an MCP client.

Arguments are passed as key=value pairs using the tool's parameter names
(see 'workitems tools').

Examples:
  workitems call get_workitems_ids_assigned_to_user
  workitems call get_workitem_type_by_name name=Task
  workitems call update_workitem_state workitem_id=1234 workitem_state_name=Done`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCall,
}

func runCall(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := logging.Setup("", cfg.LogLevel); err != nil {
		return err
	}

	toolArgs, err := parseToolArgs(args[1:])
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	out, err := newRegistry(cfg).Call(ctx, args[0], toolArgs)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

// parseToolArgs turns "key=value" pairs into tool arguments. Only the first
// '=' splits, so values may contain '='.
func parseToolArgs(pairs []string) (tools.Args, error) {
	args := make(tools.Args, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errors.Newf("invalid argument %q, expected key=value", pair)
		}
		args[key] = value
	}
	return args, nil
}

//go:build wasip1

// Command workitems-plugin is the work item MCP server built for wasip1, so
// a WASM host such as mcper can run it sandboxed. It is configured from the
// environment only.
package main

import (
	"context"
	"os"

	_ "github.com/breml/rootcerts"
	"github.com/effective-security/xlog"
	"github.com/joshcarp/workitems-mcp/pkg/config"
	"github.com/joshcarp/workitems-mcp/pkg/devops"
	"github.com/joshcarp/workitems-mcp/pkg/logging"
	"github.com/joshcarp/workitems-mcp/pkg/tools"
	"github.com/joshcarp/workitems-mcp/pkg/workitems"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "github.com/stealthrocket/net/http"
	_ "github.com/stealthrocket/net/wasip1"
)

// Version is reported to MCP clients.
const Version = "0.1.0"

var logger = xlog.NewPackageLogger("github.com/joshcarp/workitems-mcp", "plugin")

func main() {
	cfg, err := config.Load("")
	if err != nil {
		logger.KV(xlog.CRITICAL, "status", "failed_to_load_config", "err", err.Error())
		os.Exit(1)
	}
	if _, err := logging.Setup("", cfg.LogLevel); err != nil {
		logger.KV(xlog.WARNING, "status", "failed_to_setup_logging", "err", err.Error())
	}

	svc := workitems.NewService(devops.NewClient(cfg), cfg)
	server := mcp.NewServer("workitems", Version, nil)
	tools.AddToServer(server, tools.WorkItemTools(svc))

	logger.KV(xlog.INFO, "status", "starting", "base_url", cfg.BaseURL())
	if err := server.Run(context.Background(), mcp.NewStdioTransport()); err != nil {
		logger.KV(xlog.CRITICAL, "status", "failed_to_run_server", "err", err.Error())
		os.Exit(1)
	}
}

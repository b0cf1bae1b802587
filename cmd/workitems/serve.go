package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/effective-security/xlog"
	"github.com/joshcarp/workitems-mcp/pkg/config"
	"github.com/joshcarp/workitems-mcp/pkg/logging"
	"github.com/joshcarp/workitems-mcp/pkg/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server",
	Long: `Run an MCP server exposing the work item tools.

The server communicates over stdin/stdout using the MCP protocol. Logs go to
stderr and ~/.workitems/workitems.log.

Examples:
  workitems serve
  AZURE_DEVOPS_ORGANIZATION=contoso AZURE_DEVOPS_PROJECT=web workitems serve`,
	RunE: runServe,
}

var serveNoLogFile bool

func init() {
	serveCmd.Flags().BoolVar(&serveNoLogFile, "no-log-file", false, "log to stderr only")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, source, err := loadConfig()
	if err != nil {
		return err
	}

	logDir := ""
	if !serveNoLogFile {
		if dir, err := config.Dir(); err == nil {
			logDir = dir
		}
	}
	logFile, err := logging.Setup(logDir, cfg.LogLevel)
	if err != nil {
		logger.KV(xlog.WARNING, "status", "file_logging_disabled", "err", err.Error())
	} else if logFile != nil {
		defer logFile.Close()
	}

	logger.KV(xlog.INFO,
		"status", "starting",
		"version", Version,
		"os", runtime.GOOS,
		"arch", runtime.GOARCH,
		"go", runtime.Version(),
		"pid", os.Getpid(),
	)
	logger.KV(xlog.INFO,
		"base_url", cfg.BaseURL(),
		"api_version", cfg.APIVersion,
		"token", string(source),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	registry := newRegistry(cfg)
	server := mcp.NewServer("workitems", Version, nil)
	tools.AddToServer(server, registry)
	logger.KV(xlog.INFO, "status", "serving", "tools", len(registry.List()))

	return server.Run(ctx, mcp.NewIOTransport(stdinoutRWC{}))
}

// stdinoutRWC wraps stdin/stdout as an io.ReadWriteCloser
type stdinoutRWC struct{}

func (stdinoutRWC) Read(p []byte) (n int, err error) {
	return os.Stdin.Read(p)
}

func (stdinoutRWC) Write(p []byte) (n int, err error) {
	return os.Stdout.Write(p)
}

func (stdinoutRWC) Close() error {
	return nil
}

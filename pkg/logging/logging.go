// Package logging wires xlog to stderr and a log file. Stdout is never used:
// it carries the MCP stream when serving.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
)

// FileName is the log file created inside the workitems directory
const FileName = "workitems.log"

// ParseLevel maps a config value to an xlog level, defaulting to INFO.
func ParseLevel(s string) xlog.LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return xlog.TRACE
	case "DEBUG":
		return xlog.DEBUG
	case "NOTICE":
		return xlog.NOTICE
	case "WARN", "WARNING":
		return xlog.WARNING
	case "ERROR":
		return xlog.ERROR
	case "CRITICAL":
		return xlog.CRITICAL
	default:
		return xlog.INFO
	}
}

// Setup sends xlog output to stderr and, when dir is not empty, to
// dir/workitems.log as well. The returned file must be closed by the caller.
func Setup(dir, level string) (*os.File, error) {
	xlog.SetGlobalLogLevel(ParseLevel(level))

	if dir == "" {
		xlog.SetFormatter(xlog.NewStringFormatter(os.Stderr))
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		xlog.SetFormatter(xlog.NewStringFormatter(os.Stderr))
		return nil, errors.Wrapf(err, "failed to create log directory %s", dir)
	}

	logPath := filepath.Join(dir, FileName)
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		xlog.SetFormatter(xlog.NewStringFormatter(os.Stderr))
		return nil, errors.Wrapf(err, "failed to open log file %s", logPath)
	}

	xlog.SetFormatter(xlog.NewStringFormatter(io.MultiWriter(os.Stderr, logFile)))
	return logFile, nil
}

package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"mcp-agent/internal/di"
	"mcp-agent/internal/infrastructure/env"
)

var (
	flagLogLevel  string
	flagLogFormat string
	flagHeadful   bool
)

var rootCmd = &cobra.Command{
	Use:   "agent",
	Short: "Browser automation agent with an MCP-style HTTP API",
	Long: `agent drives a headless Chromium to navigate, search and snapshot web pages,
and runs an LLM tool-calling loop over those browser tools.

Examples:
  agent serve                                   # Start the HTTP API
  agent navigate https://github.com -q "go-rod" # Navigate and search
  agent snapshot github.com                     # Accessibility snapshot
  agent run "Find the latest go-rod release"    # One agent task`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Override LOG_LEVEL (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Override LOG_FORMAT (json, console)")
	rootCmd.PersistentFlags().BoolVar(&flagHeadful, "headful", false, "Show the browser window")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(navigateCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(runCmd)
}

// Execute runs the root command. Cancelling ctx stops the running command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// loadRuntime reads the environment and applies command line overrides.
func loadRuntime() env.Runtime {
	cfg := env.NewEnvService().LoadConfig()
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if flagLogFormat != "" {
		cfg.LogFormat = flagLogFormat
	}
	if flagHeadful {
		cfg.BrowserHeadless = false
	}
	return cfg
}

func newContainer(ctx context.Context) (*di.Container, error) {
	return di.NewContainer(ctx, loadRuntime())
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

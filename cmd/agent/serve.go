package main

import (
	"time"

	"github.com/spf13/cobra"

	"mcp-agent/internal/di"
)

var flagShutdownTimeout time.Duration

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API on HOST:PORT (default 0.0.0.0:8000).

Configuration comes from the environment and from .env / .env.<APP_ENV>.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := loadRuntime()
		container, err := di.NewContainer(ctx, cfg)
		if err != nil {
			return err
		}
		defer container.Close()

		container.Logger.Info("Starting MCP agent",
			"addr", cfg.Addr(),
			"llmProvider", cfg.LLMProvider,
			"model", cfg.LLMModel,
			"policyEnforcement", cfg.PolicyEnforcement,
		)
		return container.Server.ListenAndServe(ctx, cfg.Addr(), flagShutdownTimeout)
	},
}

func init() {
	serveCmd.Flags().DurationVar(&flagShutdownTimeout, "shutdown-timeout", 10*time.Second, "Grace period for in-flight requests")
}

package input

import (
	"context"

	"mcp-agent/internal/application/port/output"
)

type ExecuteResult struct {
	FinalAnswer string
	Iterations  int
}

type ExecuteOptions struct {
	// SystemPrompt replaces the default system prompt when set.
	SystemPrompt string
	// Observer, when set, is told about each iteration and tool call.
	Observer output.ExecutionObserver
}

type TaskExecutor interface {
	Execute(ctx context.Context, task string, opts ExecuteOptions) (*ExecuteResult, error)
}

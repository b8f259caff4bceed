package executor

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"mcp-agent/internal/application/port/input"
	"mcp-agent/internal/application/port/output"
	"mcp-agent/internal/domain/entity"
)

var _ input.TaskExecutor = (*UseCase)(nil)

var ErrMaxIterations = errors.New("agent stopped after reaching the iteration limit")

type Config struct {
	MaxIterations     int
	MaxExecutionTime  time.Duration
	ToolTimeout       time.Duration
	MaxObservationLen int
	Temperature       float32
}

func DefaultConfig() Config {
	return Config{
		MaxIterations:     100,
		MaxExecutionTime:  180 * time.Second,
		ToolTimeout:       60 * time.Second,
		MaxObservationLen: 20000,
	}
}

type UseCase struct {
	llm          output.LLMPort
	tools        output.ToolProvider
	logger       output.LoggerPort
	systemPrompt string
	cfg          Config
}

func New(
	llm output.LLMPort,
	tools output.ToolProvider,
	logger output.LoggerPort,
	systemPrompt string,
	cfg Config,
) *UseCase {
	return &UseCase{
		llm:          llm,
		tools:        tools,
		logger:       logger,
		systemPrompt: systemPrompt,
		cfg:          cfg,
	}
}

// Execute runs the tool-calling loop until the model answers without tool
// calls. opts.SystemPrompt replaces the default prompt for this call only.
func (uc *UseCase) Execute(ctx context.Context, task string, opts input.ExecuteOptions) (*input.ExecuteResult, error) {
	if uc.cfg.MaxExecutionTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.cfg.MaxExecutionTime)
		defer cancel()
	}

	tools := uc.tools.Open()
	defer func() {
		if err := tools.Close(); err != nil {
			uc.logger.Warn("Failed to release tool resources", "error", err)
		}
	}()

	systemPrompt := uc.systemPrompt
	if opts.SystemPrompt != "" {
		systemPrompt = opts.SystemPrompt
	}
	messages := []entity.Message{
		{Role: entity.RoleSystem, Content: systemPrompt},
		{Role: entity.RoleUser, Content: task},
	}
	toolDefs := tools.Definitions()

	for iteration := 1; iteration <= uc.cfg.MaxIterations; iteration++ {
		uc.logger.Debug("Starting iteration", "iteration", iteration)
		if opts.Observer != nil {
			opts.Observer.OnIteration(iteration, uc.cfg.MaxIterations)
		}

		resp, err := uc.llm.Chat(ctx, output.ChatRequest{
			Messages:    messages,
			Tools:       toolDefs,
			Temperature: uc.cfg.Temperature,
		})
		if err != nil {
			return nil, fmt.Errorf("llm request failed: %w", err)
		}

		messages = append(messages, resp.Message)

		if len(resp.Message.ToolCalls) == 0 {
			return &input.ExecuteResult{
				FinalAnswer: resp.Message.Content,
				Iterations:  iteration,
			}, nil
		}

		for _, tc := range resp.Message.ToolCalls {
			messages = append(messages, entity.Message{
				Role:       entity.RoleTool,
				ToolCallID: tc.ID,
				Name:       tc.Name,
				Content:    uc.executeTool(ctx, tools, tc, opts.Observer),
			})
		}
	}

	return nil, fmt.Errorf("%w (%d)", ErrMaxIterations, uc.cfg.MaxIterations)
}

func (uc *UseCase) executeTool(ctx context.Context, tools output.ToolRegistry, tc entity.ToolCall, obs output.ExecutionObserver) string {
	if obs != nil {
		obs.OnToolStart(tc.Name, tc.Arguments)
	}
	result, err := uc.runTool(ctx, tools, tc)
	if err != nil {
		result = "Error: " + err.Error()
	}
	if obs != nil {
		obs.OnToolResult(tc.Name, result, err != nil)
	}
	return result
}

func (uc *UseCase) runTool(ctx context.Context, tools output.ToolRegistry, tc entity.ToolCall) (string, error) {
	tool, ok := tools.Get(entity.ToolName(tc.Name))
	if !ok {
		uc.logger.Warn("Unknown tool called", "name", tc.Name)
		return "", fmt.Errorf("unknown tool '%s'", tc.Name)
	}

	uc.logger.Info("Executing tool", "name", tc.Name, "argsLen", len(tc.Arguments))

	if uc.cfg.ToolTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.cfg.ToolTimeout)
		defer cancel()
	}

	result, err := tool.Execute(ctx, tc.Arguments)
	if err != nil {
		uc.logger.Error("Tool execution failed", "name", tc.Name, "error", err)
		return "", err
	}

	if uc.cfg.MaxObservationLen > 0 && len(result) > uc.cfg.MaxObservationLen {
		result = truncateObservation(result, uc.cfg.MaxObservationLen)
	}

	uc.logger.Debug("Tool completed", "name", tc.Name, "resultLen", len(result))
	return result, nil
}

// truncateObservation cuts s to at most n bytes without splitting a rune.
func truncateObservation(s string, n int) string {
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "\n... (truncated)"
}

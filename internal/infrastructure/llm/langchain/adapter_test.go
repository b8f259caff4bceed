package langchain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"mcp-agent/internal/application/port/output"
	"mcp-agent/internal/domain/entity"
	"mcp-agent/internal/infrastructure/logger"
)

type fakeModel struct {
	resp     *llms.ContentResponse
	err      error
	messages []llms.MessageContent
	opts     llms.CallOptions
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.messages = messages
	for _, o := range options {
		o(&f.opts)
	}
	return f.resp, f.err
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return "", errors.New("not used")
}

func TestChat_ToolCalls(t *testing.T) {
	model := &fakeModel{resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{{
		ToolCalls: []llms.ToolCall{{
			ID:           "call_1",
			Type:         "function",
			FunctionCall: &llms.FunctionCall{Name: "browser_navigate", Arguments: `{"url":"https://a.com"}`},
		}},
	}}}}
	a := NewAdapter(model, logger.NewNop())

	resp, err := a.Chat(context.Background(), output.ChatRequest{
		Messages: []entity.Message{
			{Role: entity.RoleSystem, Content: "sys"},
			{Role: entity.RoleUser, Content: "go"},
			{Role: entity.RoleAssistant, ToolCalls: []entity.ToolCall{{ID: "c0", Name: "browser_snapshot", Arguments: "{}"}}},
			{Role: entity.RoleTool, ToolCallID: "c0", Name: "browser_snapshot", Content: "tree"},
		},
		Tools: []entity.ToolDefinition{{Name: "browser_navigate"}},
	})
	require.NoError(t, err)

	require.Len(t, resp.Message.ToolCalls, 1)
	assert.Equal(t, "browser_navigate", resp.Message.ToolCalls[0].Name)
	assert.Equal(t, entity.RoleAssistant, resp.Message.Role)

	require.Len(t, model.messages, 4)
	assert.Equal(t, llms.ChatMessageTypeSystem, model.messages[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, model.messages[1].Role)
	assert.Equal(t, llms.ChatMessageTypeAI, model.messages[2].Role)
	assert.IsType(t, llms.ToolCall{}, model.messages[2].Parts[0])
	assert.Equal(t, llms.ChatMessageTypeTool, model.messages[3].Role)
	require.Len(t, model.opts.Tools, 1)
	assert.Equal(t, "browser_navigate", model.opts.Tools[0].Function.Name)
}

func TestChat_Errors(t *testing.T) {
	a := NewAdapter(&fakeModel{err: errors.New("quota")}, logger.NewNop())
	_, err := a.Chat(context.Background(), output.ChatRequest{})
	assert.ErrorContains(t, err, "quota")

	a = NewAdapter(&fakeModel{resp: &llms.ContentResponse{}}, logger.NewNop())
	_, err = a.Chat(context.Background(), output.ChatRequest{})
	assert.ErrorIs(t, err, ErrNoChoices)
}

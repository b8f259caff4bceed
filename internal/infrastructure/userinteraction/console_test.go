package userinteraction

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func newPresenter(t *testing.T) (*ConsolePresenter, *bytes.Buffer) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	var buf bytes.Buffer
	return NewConsolePresenter(&buf), &buf
}

func TestConsolePresenter_Iteration(t *testing.T) {
	p, buf := newPresenter(t)
	p.OnIteration(2, 100)
	assert.Contains(t, buf.String(), "Iteration 2/100")
}

func TestConsolePresenter_ToolStart(t *testing.T) {
	p, buf := newPresenter(t)
	p.OnToolStart("browser_navigate", `{"url":"https://example.com","search_query":"shoes"}`)

	out := buf.String()
	assert.Contains(t, out, "Navigate")
	assert.Contains(t, out, "URL: https://example.com | Search: shoes")
}

func TestConsolePresenter_ToolResult(t *testing.T) {
	tests := []struct {
		name    string
		tool    string
		result  string
		isError bool
		want    string
	}{
		{
			name:   "navigation summary",
			tool:   "browser_navigate",
			result: `{"success":true,"url":"https://shop.test/?q=x","search_performed":true,"warnings":["slow"]}`,
			want:   "✓ https://shop.test/?q=x | search performed | 1 warning(s)",
		},
		{name: "snapshot lines", tool: "browser_snapshot", result: "a\nb\nc", want: "✓ 3 lines"},
		{name: "screenshot", tool: "browser_screenshot", result: "data:image/jpeg;base64,AA", want: "✓ Screenshot taken"},
		{name: "extract length", tool: "browser_extract", result: "hello", want: "✓ 5 characters"},
		{name: "error", tool: "browser_snapshot", result: "Error: no page", isError: true, want: "❌ Error: no page"},
		{name: "unknown tool", tool: "custom", result: "raw", want: "✓ raw"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, buf := newPresenter(t)
			p.OnToolResult(tt.tool, tt.result, tt.isError)
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdef", 2))
	assert.Equal(t, "日...", truncate("日本語", 4))
}

package userinteraction

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"mcp-agent/internal/application/port/output"
	"mcp-agent/internal/domain/entity"
)

var _ output.ExecutionObserver = (*ConsolePresenter)(nil)

// ConsolePresenter prints agent progress for interactive `run` sessions.
type ConsolePresenter struct {
	out io.Writer
}

func NewConsolePresenter(out io.Writer) *ConsolePresenter {
	if out == nil {
		out = os.Stderr
	}
	return &ConsolePresenter{out: out}
}

func (p *ConsolePresenter) OnIteration(iteration, maxIterations int) {
	color.New(color.FgCyan, color.Bold).Fprintf(p.out, "\n━━━ Iteration %d/%d ━━━\n", iteration, maxIterations)
}

func (p *ConsolePresenter) OnToolStart(toolName, arguments string) {
	icon, name := toolDisplay(toolName)
	color.New(color.FgYellow, color.Bold).Fprintf(p.out, "\n%s %s\n", icon, name)

	if summary := formatToolArguments(toolName, arguments); summary != "" {
		color.New(color.Faint).Fprintf(p.out, "   %s\n", summary)
	}
}

func (p *ConsolePresenter) OnToolResult(toolName, result string, isError bool) {
	if isError {
		color.New(color.FgRed).Fprint(p.out, "❌ ")
		color.New(color.Faint).Fprintln(p.out, truncate(result, 300))
		return
	}
	color.New(color.FgGreen).Fprintf(p.out, "✓ %s\n", formatToolResult(toolName, result))
}

// ShowAnswer prints the final answer of a run.
func (p *ConsolePresenter) ShowAnswer(answer string, iterations int) {
	color.New(color.FgGreen, color.Bold).Fprintf(p.out, "\n━━━ Answer (%d iterations) ━━━\n", iterations)
	fmt.Fprintln(p.out, answer)
}

func toolDisplay(toolName string) (string, string) {
	displays := map[entity.ToolName][2]string{
		entity.ToolBrowserNavigate:   {"🌐", "Navigate"},
		entity.ToolBrowserSnapshot:   {"👁️", "Snapshot"},
		entity.ToolBrowserScreenshot: {"📸", "Screenshot"},
		entity.ToolBrowserExtract:    {"🔍", "Extract"},
		entity.ToolAgentExecutor:     {"🤖", "Agent"},
	}

	if display, ok := displays[entity.ToolName(toolName)]; ok {
		return display[0], display[1]
	}
	return "🔧", toolName
}

func formatToolArguments(toolName, arguments string) string {
	var args map[string]interface{}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return ""
	}

	switch entity.ToolName(toolName) {
	case entity.ToolBrowserNavigate:
		u, _ := args["url"].(string)
		if query, ok := args["search_query"].(string); ok && query != "" {
			return fmt.Sprintf("URL: %s | Search: %s", u, truncate(query, 50))
		}
		if u != "" {
			return "URL: " + u
		}

	case entity.ToolBrowserExtract:
		if format, ok := args["format"].(string); ok {
			return "Format: " + format
		}
	}

	return ""
}

func formatToolResult(toolName, result string) string {
	switch entity.ToolName(toolName) {
	case entity.ToolBrowserNavigate:
		var res entity.NavigationResult
		if err := json.Unmarshal([]byte(result), &res); err != nil {
			return truncate(result, 100)
		}
		summary := res.URL
		if res.SearchPerformed {
			summary += " | search performed"
		}
		if n := len(res.Warnings); n > 0 {
			summary += fmt.Sprintf(" | %d warning(s)", n)
		}
		return summary

	case entity.ToolBrowserSnapshot:
		return fmt.Sprintf("%d lines", strings.Count(result, "\n")+1)

	case entity.ToolBrowserScreenshot:
		return "Screenshot taken"

	case entity.ToolBrowserExtract:
		return fmt.Sprintf("%d characters", len(result))
	}

	return truncate(result, 100)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	for maxLen > 0 && !utf8.RuneStart(s[maxLen]) {
		maxLen--
	}
	return s[:maxLen] + "..."
}

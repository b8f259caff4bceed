package tool

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"mcp-agent/internal/application/port/input"
	"mcp-agent/internal/application/port/output"
	"mcp-agent/internal/domain/entity"
	"mcp-agent/internal/infrastructure/browser/htmlclean"
	"mcp-agent/internal/usecase/snapshot"
)

var (
	_ output.ToolPort = (*NavigateTool)(nil)
	_ output.ToolPort = (*SnapshotTool)(nil)
	_ output.ToolPort = (*ScreenshotTool)(nil)
	_ output.ToolPort = (*ExtractTool)(nil)
)

var ErrNoPage = errors.New("no page loaded, call browser_navigate first")

func decodeArgs(args string, v any) error {
	if strings.TrimSpace(args) == "" {
		args = "{}"
	}
	if err := json.Unmarshal([]byte(args), v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func emptyParameters() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
		"required":   []string{},
	}
}

type NavigateTool struct {
	navigator input.Navigator
	session   *Session
	logger    output.LoggerPort
}

func NewNavigateTool(navigator input.Navigator, session *Session, logger output.LoggerPort) *NavigateTool {
	return &NavigateTool{navigator: navigator, session: session, logger: logger}
}

func (t *NavigateTool) Name() entity.ToolName { return entity.ToolBrowserNavigate }
func (t *NavigateTool) Description() string {
	return "Navigate to a URL and optionally search it. The search box is found automatically " +
		"unless a selector is given. Returns the page's accessibility snapshot with warnings and errors."
}
func (t *NavigateTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"url": map[string]interface{}{
				"type":        "string",
				"description": "URL to navigate to",
			},
			"search_query": map[string]interface{}{
				"type":        "string",
				"description": "Text to search for after the page loads",
			},
			"auto_search": map[string]interface{}{
				"type":        "boolean",
				"description": "Detect and submit the search box when search_query is set (default true)",
			},
			"search_box_selector": map[string]interface{}{
				"type":        "string",
				"description": "CSS selector of the search input, tried first",
			},
			"search_button_selector": map[string]interface{}{
				"type":        "string",
				"description": "CSS selector of the search button, tried first",
			},
			"wait_for_results": map[string]interface{}{
				"type":        "boolean",
				"description": "Wait for the network to go idle after searching (default true)",
			},
			"wait_timeout": map[string]interface{}{
				"type":        "integer",
				"description": "Milliseconds to wait for results (default 10000)",
			},
		},
		"required": []string{"url"},
	}
}

func (t *NavigateTool) Execute(ctx context.Context, args string) (string, error) {
	var req entity.NavigationRequest
	if err := decodeArgs(args, &req); err != nil {
		return "", err
	}
	if strings.TrimSpace(req.URL) == "" {
		return "", errors.New("url is required")
	}

	var result *entity.NavigationResult
	err := t.session.With(ctx, func(page output.Page) error {
		result = t.navigator.Navigate(ctx, req, input.Resources{Page: page})
		return nil
	})
	if err != nil {
		t.logger.Error("Browser setup failed", "url", req.URL, "error", err)
		result = entity.FailedNavigation(req, []string{fmt.Sprintf("Error in browser_navigate: %v", err)})
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

type SnapshotTool struct {
	snapshots *snapshot.Snapshotter
	session   *Session
	logger    output.LoggerPort
}

func NewSnapshotTool(snapshots *snapshot.Snapshotter, session *Session, logger output.LoggerPort) *SnapshotTool {
	return &SnapshotTool{snapshots: snapshots, session: session, logger: logger}
}

func (t *SnapshotTool) Name() entity.ToolName { return entity.ToolBrowserSnapshot }
func (t *SnapshotTool) Description() string {
	return "Accessibility snapshot of the current page as an indented role/name outline"
}
func (t *SnapshotTool) Parameters() map[string]interface{} { return emptyParameters() }

func (t *SnapshotTool) Execute(ctx context.Context, args string) (string, error) {
	if !t.session.Opened() {
		return "", ErrNoPage
	}
	var text string
	err := t.session.With(ctx, func(page output.Page) error {
		text = t.snapshots.Take(ctx, page)
		return nil
	})
	return text, err
}

type ScreenshotTool struct {
	session *Session
	logger  output.LoggerPort
}

func NewScreenshotTool(session *Session, logger output.LoggerPort) *ScreenshotTool {
	return &ScreenshotTool{session: session, logger: logger}
}

func (t *ScreenshotTool) Name() entity.ToolName              { return entity.ToolBrowserScreenshot }
func (t *ScreenshotTool) Description() string                { return "Takes a JPEG screenshot of the current page" }
func (t *ScreenshotTool) Parameters() map[string]interface{} { return emptyParameters() }

func (t *ScreenshotTool) Execute(ctx context.Context, args string) (string, error) {
	if !t.session.Opened() {
		return "", ErrNoPage
	}
	var shot *entity.Screenshot
	err := t.session.With(ctx, func(page output.Page) error {
		var err error
		shot, err = page.Screenshot(ctx)
		return err
	})
	if err != nil {
		return "", err
	}
	b64 := base64.StdEncoding.EncodeToString(shot.Data)
	return fmt.Sprintf("data:image/%s;base64,%s", shot.Format, b64), nil
}

type ExtractTool struct {
	session *Session
	cfg     htmlclean.Config
	logger  output.LoggerPort
}

func NewExtractTool(session *Session, cfg htmlclean.Config, logger output.LoggerPort) *ExtractTool {
	return &ExtractTool{session: session, cfg: cfg, logger: logger}
}

func (t *ExtractTool) Name() entity.ToolName { return entity.ToolBrowserExtract }
func (t *ExtractTool) Description() string {
	return "Extracts the current page as visible text (default) or as cleaned HTML"
}
func (t *ExtractTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"format": map[string]interface{}{
				"type":        "string",
				"enum":        []string{"text", "html"},
				"description": "Output format",
			},
		},
		"required": []string{},
	}
}

func (t *ExtractTool) Execute(ctx context.Context, args string) (string, error) {
	var in struct {
		Format string `json:"format"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}
	if !t.session.Opened() {
		return "", ErrNoPage
	}

	var content *entity.PageContent
	err := t.session.With(ctx, func(page output.Page) error {
		var err error
		content, err = page.Content(ctx)
		return err
	})
	if err != nil {
		return "", err
	}

	if in.Format == "html" {
		return htmlclean.Clean(content.HTML, t.cfg)
	}
	return htmlclean.Text(content.HTML, t.cfg.MaxOutputSize)
}

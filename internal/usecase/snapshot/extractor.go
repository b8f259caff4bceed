package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"mcp-agent/internal/application/port/output"
	"mcp-agent/internal/domain/entity"
)

// ErrNoAccessibilityAPI is returned by NativeExtractor when the page does not
// expose a native accessibility tree.
var ErrNoAccessibilityAPI = errors.New("native accessibility tree not supported")

// Extractor captures the accessibility tree of a live page. A nil node with a
// nil error means the page had nothing to describe.
type Extractor interface {
	Extract(ctx context.Context, page output.Page) (*entity.AccessibilityNode, error)
}

// domWalkerScript walks document.body depth-first over element children.
const domWalkerScript = `() => {
	function describe(element) {
		if (!element) return null;
		const tag = element.tagName ? element.tagName.toLowerCase() : 'unknown';
		const role = element.getAttribute('role') || tag;
		const name = element.getAttribute('aria-label') ||
			element.getAttribute('alt') ||
			(element.textContent ? element.textContent.trim().substring(0, 100) : '') || '';
		const description = element.getAttribute('aria-description') || '';
		const value = element.value || element.getAttribute('value') || '';
		const checked = element.checked !== undefined ? element.checked : null;
		const selected = element.selected !== undefined ? element.selected : null;

		const info = { role: role, name: name, description: description, tag: tag };
		if (value) info.value = String(value);
		if (checked !== null) info.checked = checked;
		if (selected !== null) info.selected = selected;

		const children = [];
		for (const child of element.children || []) {
			const childInfo = describe(child);
			if (childInfo) children.push(childInfo);
		}
		if (children.length > 0) info.children = children;
		return info;
	}
	return describe(document.body);
}`

// ScriptExtractor reads the tree by evaluating a DOM walker in the page.
type ScriptExtractor struct{}

func (ScriptExtractor) Extract(ctx context.Context, page output.Page) (*entity.AccessibilityNode, error) {
	raw, err := page.Evaluate(ctx, domWalkerScript)
	if err != nil {
		return nil, fmt.Errorf("evaluate dom walker: %w", err)
	}
	return decodeTree(raw)
}

func decodeTree(raw json.RawMessage) (*entity.AccessibilityNode, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	var node entity.AccessibilityNode
	if err := json.Unmarshal(trimmed, &node); err != nil {
		return nil, fmt.Errorf("decode accessibility tree: %w", err)
	}
	return &node, nil
}

// NativeExtractor uses the browser's own accessibility tree when the page
// provides one.
type NativeExtractor struct{}

func (NativeExtractor) Extract(ctx context.Context, page output.Page) (*entity.AccessibilityNode, error) {
	provider, ok := page.(output.AccessibilityTreeProvider)
	if !ok {
		return nil, ErrNoAccessibilityAPI
	}
	return provider.AccessibilityTree(ctx)
}

// ChainExtractor tries each extractor in order and returns the first tree
// produced without error. An empty tree from one path falls through as well.
type ChainExtractor struct {
	Extractors []Extractor
	Logger     output.LoggerPort
}

func NewDefaultExtractor(logger output.LoggerPort) *ChainExtractor {
	return &ChainExtractor{
		Extractors: []Extractor{NativeExtractor{}, ScriptExtractor{}},
		Logger:     logger,
	}
}

func (c *ChainExtractor) Extract(ctx context.Context, page output.Page) (*entity.AccessibilityNode, error) {
	var errs []error
	for i, ex := range c.Extractors {
		node, err := ex.Extract(ctx, page)
		if err != nil {
			if c.Logger != nil && !errors.Is(err, ErrNoAccessibilityAPI) {
				c.Logger.Warn("Accessibility extraction failed", "extractor", i, "error", err)
			}
			errs = append(errs, err)
			continue
		}
		if node != nil {
			return node, nil
		}
	}
	if len(errs) == len(c.Extractors) && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return nil, nil
}

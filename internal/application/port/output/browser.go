package output

import (
	"context"
	"encoding/json"
	"time"

	"mcp-agent/internal/domain/entity"
)

// WaitUntil names the page lifecycle event a navigation waits for.
type WaitUntil string

const (
	WaitLoad        WaitUntil = "load"
	WaitNetworkIdle WaitUntil = "networkidle"
)

type Viewport struct {
	Width  int
	Height int
}

type LaunchOptions struct {
	Headless bool
	Bin      string
	Args     map[string]string
}

// ContextOptions pins the fingerprint of an isolated browser context. They are
// applied to every page opened in that context.
type ContextOptions struct {
	Viewport    Viewport
	UserAgent   string
	Locale      string
	TimezoneID  string
	InitScripts []string
}

type Launcher interface {
	Launch(ctx context.Context, opts LaunchOptions) (Browser, error)
}

type Browser interface {
	NewContext(ctx context.Context, opts ContextOptions) (BrowserContext, error)
	Close() error
}

type BrowserContext interface {
	NewPage(ctx context.Context) (Page, error)
	Close() error
}

// Page is a handle on one browser tab. Operations on a single Page must be
// sequenced by the caller.
type Page interface {
	Navigate(ctx context.Context, url string, waitUntil WaitUntil, timeout time.Duration) error
	WaitForTimeout(ctx context.Context, d time.Duration) error
	WaitForNetworkIdle(ctx context.Context, timeout time.Duration) error

	// Evaluate runs a function expression in the page and returns its JSON result.
	Evaluate(ctx context.Context, script string) (json.RawMessage, error)

	// Query returns the first element matching selector, or nil when none does.
	Query(ctx context.Context, selector string) (Element, error)
	QueryAll(ctx context.Context, selector string) ([]Element, error)
	// QueryByRole returns elements with the given ARIA role whose accessible
	// name contains name, case-insensitively. An empty name matches any.
	QueryByRole(ctx context.Context, role, name string) ([]Element, error)

	URL() string
	Content(ctx context.Context) (*entity.PageContent, error)
	Screenshot(ctx context.Context) (*entity.Screenshot, error)
	Close() error
}

// AccessibilityTreeProvider is implemented by pages that can read the
// browser's native accessibility tree.
type AccessibilityTreeProvider interface {
	AccessibilityTree(ctx context.Context) (*entity.AccessibilityNode, error)
}

// Element is a weak reference into the live DOM. It may go stale after the
// page mutates or navigates; resolve again instead of caching it.
type Element interface {
	Visible(ctx context.Context) (bool, error)
	TagName(ctx context.Context) (string, error)
	Attribute(ctx context.Context, name string) (string, bool, error)
	Text(ctx context.Context) (string, error)

	Fill(ctx context.Context, text string) error
	Click(ctx context.Context) error
	Press(ctx context.Context, key string) error

	// Closest returns the nearest ancestor matching selector, or nil.
	Closest(ctx context.Context, selector string) (Element, error)
	Query(ctx context.Context, selector string) (Element, error)
}

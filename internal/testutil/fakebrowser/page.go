package fakebrowser

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"mcp-agent/internal/application/port/output"
	"mcp-agent/internal/domain/entity"
)

var _ output.Page = (*Page)(nil)

// Page is a scripted tab. Selectors resolve through the Selectors table only;
// no CSS matching is performed.
type Page struct {
	mu sync.Mutex

	Selectors map[string][]*Element
	QueryErrs map[string]error
	Buttons   []*Element // QueryByRole("button", ...) candidates

	NavigateErr    error
	NetworkIdleErr error
	WaitErr        error
	CloseErr       error

	// Eval produces the Evaluate result; nil yields JSON null.
	Eval func() (json.RawMessage, error)

	// HTML is served by Content; empty yields an empty body.
	HTML string
	Shot *entity.Screenshot

	CurrentURL  string
	Navigations []string
	Waits       []time.Duration
	IdleWaits   []time.Duration
	Closes      int
}

func NewPage() *Page {
	return &Page{
		Selectors: make(map[string][]*Element),
		QueryErrs: make(map[string]error),
	}
}

// On registers elements returned for selector.
func (p *Page) On(selector string, els ...*Element) *Page {
	p.Selectors[selector] = append(p.Selectors[selector], els...)
	return p
}

// WithTree makes Evaluate return tree as the DOM walker would.
func (p *Page) WithTree(tree func() *entity.AccessibilityNode) *Page {
	p.Eval = func() (json.RawMessage, error) {
		return json.Marshal(tree())
	}
	return p
}

func (p *Page) Navigate(ctx context.Context, url string, waitUntil output.WaitUntil, timeout time.Duration) error {
	p.mu.Lock()
	p.Navigations = append(p.Navigations, url)
	p.CurrentURL = url
	p.mu.Unlock()
	return p.NavigateErr
}

func (p *Page) WaitForTimeout(ctx context.Context, d time.Duration) error {
	p.mu.Lock()
	p.Waits = append(p.Waits, d)
	p.mu.Unlock()
	return p.WaitErr
}

func (p *Page) WaitForNetworkIdle(ctx context.Context, timeout time.Duration) error {
	p.mu.Lock()
	p.IdleWaits = append(p.IdleWaits, timeout)
	p.mu.Unlock()
	return p.NetworkIdleErr
}

func (p *Page) Evaluate(ctx context.Context, script string) (json.RawMessage, error) {
	if p.Eval == nil {
		return json.RawMessage("null"), nil
	}
	return p.Eval()
}

func (p *Page) Query(ctx context.Context, selector string) (output.Element, error) {
	if err := p.QueryErrs[selector]; err != nil {
		return nil, err
	}
	els := p.Selectors[selector]
	if len(els) == 0 {
		return nil, nil
	}
	return els[0], nil
}

func (p *Page) QueryAll(ctx context.Context, selector string) ([]output.Element, error) {
	if err := p.QueryErrs[selector]; err != nil {
		return nil, err
	}
	out := make([]output.Element, 0, len(p.Selectors[selector]))
	for _, el := range p.Selectors[selector] {
		out = append(out, el)
	}
	return out, nil
}

func (p *Page) QueryByRole(ctx context.Context, role, name string) ([]output.Element, error) {
	if role != "button" {
		return nil, nil
	}
	var out []output.Element
	for _, b := range p.Buttons {
		if name == "" || strings.Contains(strings.ToLower(b.AccessibleName()), strings.ToLower(name)) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (p *Page) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.CurrentURL
}

func (p *Page) Content(ctx context.Context) (*entity.PageContent, error) {
	html := p.HTML
	if html == "" {
		html = "<body></body>"
	}
	return &entity.PageContent{URL: p.URL(), HTML: html}, nil
}

func (p *Page) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	if p.Shot == nil {
		return nil, errors.New("screenshots not supported by fake page")
	}
	return p.Shot, nil
}

func (p *Page) Close() error {
	p.mu.Lock()
	p.Closes++
	p.mu.Unlock()
	return p.CloseErr
}

func (p *Page) CloseCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Closes
}

// NativePage adds a native accessibility tree to Page.
type NativePage struct {
	*Page
	Tree    *entity.AccessibilityNode
	TreeErr error
	Calls   int
}

var _ output.AccessibilityTreeProvider = (*NativePage)(nil)

func (p *NativePage) AccessibilityTree(ctx context.Context) (*entity.AccessibilityNode, error) {
	p.Calls++
	return p.Tree, p.TreeErr
}

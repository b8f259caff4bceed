package fakebrowser

import (
	"context"
	"sync"

	"mcp-agent/internal/application/port/output"
)

var (
	_ output.Launcher       = (*Launcher)(nil)
	_ output.Browser        = (*Browser)(nil)
	_ output.BrowserContext = (*Context)(nil)
)

type Launcher struct {
	Browser  *Browser
	Err      error
	Launches int
	Options  []output.LaunchOptions
}

func (l *Launcher) Launch(ctx context.Context, opts output.LaunchOptions) (output.Browser, error) {
	l.Launches++
	l.Options = append(l.Options, opts)
	if l.Err != nil {
		return nil, l.Err
	}
	return l.Browser, nil
}

type Browser struct {
	mu sync.Mutex

	Context       *Context
	NewContextErr error
	ContextOpts   []output.ContextOptions
	Closes        int
}

func (b *Browser) NewContext(ctx context.Context, opts output.ContextOptions) (output.BrowserContext, error) {
	b.mu.Lock()
	b.ContextOpts = append(b.ContextOpts, opts)
	b.mu.Unlock()
	if b.NewContextErr != nil {
		return nil, b.NewContextErr
	}
	return b.Context, nil
}

func (b *Browser) Close() error {
	b.mu.Lock()
	b.Closes++
	b.mu.Unlock()
	return nil
}

type Context struct {
	mu sync.Mutex

	Page       output.Page
	NewPageErr error
	Pages      int
	Closes     int
}

func (c *Context) NewPage(ctx context.Context) (output.Page, error) {
	c.mu.Lock()
	c.Pages++
	c.mu.Unlock()
	if c.NewPageErr != nil {
		return nil, c.NewPageErr
	}
	return c.Page, nil
}

func (c *Context) Close() error {
	c.mu.Lock()
	c.Closes++
	c.mu.Unlock()
	return nil
}

// Stack wires a launcher → browser → context → page chain around page.
func Stack(page output.Page) (*Launcher, *Browser, *Context) {
	ctx := &Context{Page: page}
	browser := &Browser{Context: ctx}
	return &Launcher{Browser: browser}, browser, ctx
}

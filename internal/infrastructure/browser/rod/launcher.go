package rod

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"

	"mcp-agent/internal/application/port/output"
)

var (
	_ output.Launcher       = (*Launcher)(nil)
	_ output.Browser        = (*Browser)(nil)
	_ output.BrowserContext = (*Context)(nil)
)

type Launcher struct {
	logger output.LoggerPort
}

func NewLauncher(logger output.LoggerPort) *Launcher {
	return &Launcher{logger: logger}
}

// Launch starts a local Chromium and connects to it over CDP.
func (l *Launcher) Launch(ctx context.Context, opts output.LaunchOptions) (output.Browser, error) {
	lc := launcher.New().
		Headless(opts.Headless).
		Delete("use-mock-keychain")
	if opts.Bin != "" {
		lc = lc.Bin(opts.Bin)
	}
	for name, val := range opts.Args {
		if name == "no-sandbox" {
			lc = lc.NoSandbox(true)
			continue
		}
		if val == "" {
			lc = lc.Set(flags.Flag(name))
		} else {
			lc = lc.Set(flags.Flag(name), val)
		}
	}

	url, err := lc.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	b := rod.New().ControlURL(url)
	if err := b.Connect(); err != nil {
		lc.Kill()
		lc.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	l.logger.Debug("Browser launched", "headless", opts.Headless)
	return &Browser{browser: b, launcher: lc, logger: l.logger}, nil
}

type Browser struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	logger   output.LoggerPort
}

// NewContext opens an incognito browser context so cookies and storage do not
// leak between callers.
func (b *Browser) NewContext(ctx context.Context, opts output.ContextOptions) (output.BrowserContext, error) {
	incognito, err := b.browser.Incognito()
	if err != nil {
		return nil, fmt.Errorf("incognito context: %w", err)
	}
	return &Context{browser: incognito, opts: opts, logger: b.logger}, nil
}

// Close shuts the browser down and kills the process.
func (b *Browser) Close() error {
	var err error
	if b.browser != nil {
		err = b.browser.Close()
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher.Cleanup()
	}
	return err
}

type Context struct {
	browser *rod.Browser
	opts    output.ContextOptions
	logger  output.LoggerPort
}

func (c *Context) NewPage(ctx context.Context) (output.Page, error) {
	p, err := c.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	if err := applyContextOptions(p, c.opts); err != nil {
		_ = p.Close()
		return nil, err
	}
	return &Page{page: p, logger: c.logger}, nil
}

// Close disposes the incognito context together with its pages.
func (c *Context) Close() error {
	return c.browser.Close()
}

func applyContextOptions(p *rod.Page, opts output.ContextOptions) error {
	if opts.Viewport.Width > 0 && opts.Viewport.Height > 0 {
		err := p.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:             opts.Viewport.Width,
			Height:            opts.Viewport.Height,
			DeviceScaleFactor: 1,
		})
		if err != nil {
			return fmt.Errorf("set viewport: %w", err)
		}
	}
	if opts.UserAgent != "" {
		err := p.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent:      opts.UserAgent,
			AcceptLanguage: opts.Locale,
		})
		if err != nil {
			return fmt.Errorf("set user agent: %w", err)
		}
	}
	if opts.Locale != "" {
		if err := (proto.EmulationSetLocaleOverride{Locale: opts.Locale}).Call(p); err != nil {
			return fmt.Errorf("set locale: %w", err)
		}
	}
	if opts.TimezoneID != "" {
		if err := (proto.EmulationSetTimezoneOverride{TimezoneID: opts.TimezoneID}).Call(p); err != nil {
			return fmt.Errorf("set timezone: %w", err)
		}
	}
	for _, js := range opts.InitScripts {
		if _, err := p.EvalOnNewDocument(js); err != nil {
			return fmt.Errorf("add init script: %w", err)
		}
	}
	return nil
}

package tool

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"mcp-agent/internal/application/port/output"
)

// Session lazily opens one browser page shared by the tools of a single agent
// run. Calls are serialized so tools never drive the page concurrently.
type Session struct {
	launcher output.Launcher
	launch   output.LaunchOptions
	context  output.ContextOptions
	logger   output.LoggerPort

	mu      sync.Mutex
	browser output.Browser
	bctx    output.BrowserContext
	page    output.Page
}

func NewSession(launcher output.Launcher, launch output.LaunchOptions, contextOpts output.ContextOptions, logger output.LoggerPort) *Session {
	return &Session{
		launcher: launcher,
		launch:   launch,
		context:  contextOpts,
		logger:   logger,
	}
}

// With runs fn with the session page, opening it on first use.
func (s *Session) With(ctx context.Context, fn func(output.Page) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.page == nil {
		if err := s.open(ctx); err != nil {
			return err
		}
	}
	return fn(s.page)
}

func (s *Session) open(ctx context.Context) error {
	browser, err := s.launcher.Launch(ctx, s.launch)
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}
	bctx, err := browser.NewContext(ctx, s.context)
	if err != nil {
		_ = browser.Close()
		return fmt.Errorf("create browser context: %w", err)
	}
	page, err := bctx.NewPage(ctx)
	if err != nil {
		_ = bctx.Close()
		_ = browser.Close()
		return fmt.Errorf("open page: %w", err)
	}

	s.browser, s.bctx, s.page = browser, bctx, page
	s.logger.Debug("Tool session opened")
	return nil
}

// Opened reports whether a page has been created.
func (s *Session) Opened() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page != nil
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if s.page != nil {
		errs = append(errs, s.page.Close())
	}
	if s.bctx != nil {
		errs = append(errs, s.bctx.Close())
	}
	if s.browser != nil {
		errs = append(errs, s.browser.Close())
	}
	s.browser, s.bctx, s.page = nil, nil, nil
	return errors.Join(errs...)
}

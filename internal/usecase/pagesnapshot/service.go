package pagesnapshot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"mcp-agent/internal/application/port/input"
	"mcp-agent/internal/application/port/output"
	"mcp-agent/internal/domain/entity"
	"mcp-agent/internal/usecase/navigate"
	"mcp-agent/internal/usecase/snapshot"
)

var _ input.PageSnapshotter = (*Service)(nil)

var ErrURLRequired = errors.New("URL is required")

// Error is a snapshot failure with a message fit for API clients.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	return "Failed to generate snapshot: " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

type Config struct {
	Launch            output.LaunchOptions
	Context           output.ContextOptions
	NavigationTimeout time.Duration
	// RenderTimeout bounds a shared render, which outlives any single caller.
	RenderTimeout time.Duration
	// PopularSites are URL substrings whose snapshots may be cached.
	PopularSites []string
}

func DefaultConfig() Config {
	nav := navigate.DefaultConfig()
	return Config{
		Launch:            nav.Launch,
		Context:           nav.Context,
		NavigationTimeout: 30 * time.Second,
		RenderTimeout:     60 * time.Second,
		PopularSites:      []string{"amazon.com", "github.com", "google.com", "stackoverflow.com"},
	}
}

// Service renders a detailed snapshot of a URL in a fresh browser.
type Service struct {
	launcher  output.Launcher
	extractor snapshot.Extractor
	cache     output.SnapshotCache
	tokens    output.TokenCounter
	metrics   output.MetricsPort
	logger    output.LoggerPort
	cfg       Config

	group singleflight.Group
}

func New(
	launcher output.Launcher,
	cache output.SnapshotCache,
	tokens output.TokenCounter,
	metrics output.MetricsPort,
	logger output.LoggerPort,
	cfg Config,
) *Service {
	if metrics == nil {
		metrics = output.NopMetrics{}
	}
	return &Service{
		launcher:  launcher,
		extractor: snapshot.ScriptExtractor{},
		cache:     cache,
		tokens:    tokens,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
	}
}

func NormalizeURL(raw string) (string, error) {
	u := strings.TrimSpace(raw)
	if u == "" {
		return "", ErrURLRequired
	}
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = "https://" + u
	}
	return u, nil
}

func cacheKey(url string) string {
	return strings.ToLower(url)
}

func (s *Service) isPopular(url string) bool {
	lower := strings.ToLower(url)
	for _, site := range s.cfg.PopularSites {
		if strings.Contains(lower, site) {
			return true
		}
	}
	return false
}

// Snapshot returns the page at rawURL as detailed snapshot text. Popular sites
// are served from and stored in the cache when useCache is set. Concurrent
// requests for the same URL share one browser run.
func (s *Service) Snapshot(ctx context.Context, rawURL string, useCache bool) (*entity.SnapshotResult, error) {
	url, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}
	key := cacheKey(url)
	cacheable := useCache && s.cache != nil && s.isPopular(url)

	if cacheable {
		if hit, ok := s.cache.Get(key); ok {
			s.logger.Info("Returning cached snapshot", "url", url)
			s.metrics.ObserveSnapshot(true)
			hit.Cached = true
			return &hit, nil
		}
	}

	ch := s.group.DoChan(key, func() (any, error) {
		rctx, cancel := s.renderContext(ctx)
		defer cancel()
		text, err := s.render(rctx, url)
		if err != nil {
			return nil, err
		}
		return entity.SnapshotResult{
			Snapshot:   text,
			URL:        url,
			TokenCount: s.tokens.CountTokens(text),
		}, nil
	})

	var r singleflight.Result
	select {
	case r = <-ch:
	case <-ctx.Done():
		s.logger.Warn("Snapshot request abandoned", "url", url, "error", ctx.Err())
		return nil, classify(ctx.Err())
	}
	if r.Err != nil {
		s.logger.Error("Error generating page snapshot", "url", url, "error", r.Err)
		return nil, classify(r.Err)
	}

	res := r.Val.(entity.SnapshotResult)
	if cacheable {
		s.cache.Put(key, res)
	}
	s.metrics.ObserveSnapshot(false)
	return &res, nil
}

// renderContext detaches the render from the caller that started it. Every
// waiter on the URL shares the result.
func (s *Service) renderContext(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if s.cfg.RenderTimeout <= 0 {
		return context.WithCancel(detached)
	}
	return context.WithTimeout(detached, s.cfg.RenderTimeout)
}

type launchError struct{ err error }

func (e launchError) Error() string { return e.err.Error() }
func (e launchError) Unwrap() error { return e.err }

func (s *Service) render(ctx context.Context, url string) (text string, err error) {
	browser, err := s.launcher.Launch(ctx, s.cfg.Launch)
	if err != nil {
		return "", launchError{err}
	}
	defer func() {
		if cerr := browser.Close(); cerr != nil {
			s.logger.Warn("Failed to close browser", "error", cerr)
		}
	}()

	bctx, err := browser.NewContext(ctx, s.cfg.Context)
	if err != nil {
		return "", fmt.Errorf("create context: %w", err)
	}
	page, err := bctx.NewPage(ctx)
	if err != nil {
		return "", fmt.Errorf("open page: %w", err)
	}

	if err := page.Navigate(ctx, url, output.WaitNetworkIdle, s.cfg.NavigationTimeout); err != nil {
		return "", err
	}
	node, err := s.extractor.Extract(ctx, page)
	if err != nil {
		return "", err
	}
	if node == nil {
		return snapshot.NoTreeText, nil
	}
	return snapshot.FormatDetailed(node), nil
}

func classify(err error) *Error {
	msg := err.Error()
	lower := strings.ToLower(msg)

	var le launchError
	switch {
	case errors.As(err, &le):
		msg = "Chromium browser not installed. Set BROWSER_BIN or allow the browser download"
	case errors.Is(err, context.DeadlineExceeded) || strings.Contains(lower, "timeout"):
		msg = "Request timed out after 30 seconds. The website may be slow or unreachable: " + msg
	case strings.Contains(lower, "net::") || strings.Contains(lower, "dns") || strings.Contains(msg, "ERR_"):
		msg = "Network error accessing the website: " + msg
	case msg == "":
		msg = fmt.Sprintf("%T: check server logs for details", err)
	}
	return &Error{Message: msg, Err: err}
}

package pagesnapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcp-agent/internal/application/port/output"
	"mcp-agent/internal/domain/entity"
	"mcp-agent/internal/infrastructure/cache"
	"mcp-agent/internal/infrastructure/logger"
	"mcp-agent/internal/infrastructure/tokenizer"
	"mcp-agent/internal/testutil/fakebrowser"
)

type countingMetrics struct {
	mu     sync.Mutex
	hits   int
	misses int
}

func (m *countingMetrics) ObserveNavigation(bool, bool, int, time.Duration) {}
func (m *countingMetrics) ObserveInvoke(string, string)                     {}

func (m *countingMetrics) ObserveSnapshot(cached bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cached {
		m.hits++
	} else {
		m.misses++
	}
}

func loginTree() *entity.AccessibilityNode {
	return &entity.AccessibilityNode{
		Role: "body",
		Children: []*entity.AccessibilityNode{
			{Role: "button", Name: "Sign in"},
		},
	}
}

func newService(page *fakebrowser.Page) (*Service, *fakebrowser.Launcher, *cache.FIFO, *countingMetrics) {
	l, _, _ := fakebrowser.Stack(page)
	c := cache.NewFIFO(cache.DefaultCapacity)
	m := &countingMetrics{}
	return New(l, c, tokenizer.Estimator{}, m, logger.NewNop(), DefaultConfig()), l, c, m
}

func TestNormalizeURL(t *testing.T) {
	u, err := NormalizeURL("  example.com ")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", u)

	u, err = NormalizeURL("http://x.org")
	require.NoError(t, err)
	assert.Equal(t, "http://x.org", u)

	_, err = NormalizeURL("   ")
	assert.ErrorIs(t, err, ErrURLRequired)
}

func TestSnapshot_Renders(t *testing.T) {
	page := fakebrowser.NewPage().WithTree(loginTree)
	svc, l, _, m := newService(page)

	res, err := svc.Snapshot(context.Background(), "example.com", true)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com", res.URL)
	assert.False(t, res.Cached)
	assert.Contains(t, res.Snapshot, "[button]")
	assert.Contains(t, res.Snapshot, "Name: Sign in")
	assert.Equal(t, len(res.Snapshot)/4, res.TokenCount)
	assert.Equal(t, []string{"https://example.com"}, page.Navigations)
	assert.Equal(t, 1, l.Browser.Closes)
	assert.Equal(t, 1, m.misses)
}

func TestSnapshot_CachesPopularSites(t *testing.T) {
	page := fakebrowser.NewPage().WithTree(loginTree)
	svc, l, c, m := newService(page)
	ctx := context.Background()

	first, err := svc.Snapshot(ctx, "https://GitHub.com/login", true)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, 1, c.Len())

	second, err := svc.Snapshot(ctx, "https://github.com/LOGIN", true)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Snapshot, second.Snapshot)
	assert.Equal(t, "https://GitHub.com/login", second.URL)
	assert.Equal(t, 1, l.Launches)
	assert.Equal(t, 1, m.hits)

	_, err = svc.Snapshot(ctx, "https://github.com/login", false)
	require.NoError(t, err)
	assert.Equal(t, 2, l.Launches)
}

func TestSnapshot_SkipsCacheForOtherSites(t *testing.T) {
	page := fakebrowser.NewPage().WithTree(loginTree)
	svc, l, c, _ := newService(page)

	for range 2 {
		_, err := svc.Snapshot(context.Background(), "example.org", true)
		require.NoError(t, err)
	}
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 2, l.Launches)
}

func TestSnapshot_EmptyTree(t *testing.T) {
	svc, _, _, _ := newService(fakebrowser.NewPage())

	res, err := svc.Snapshot(context.Background(), "example.org", false)
	require.NoError(t, err)
	assert.Equal(t, "No accessibility tree available", res.Snapshot)
}

func TestSnapshot_URLRequired(t *testing.T) {
	svc, l, _, _ := newService(fakebrowser.NewPage())

	_, err := svc.Snapshot(context.Background(), "", false)
	assert.ErrorIs(t, err, ErrURLRequired)
	assert.Zero(t, l.Launches)
}

func TestSnapshot_ErrorClassification(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*fakebrowser.Page, *fakebrowser.Launcher)
		want  string
	}{
		{
			name:  "launch failure",
			setup: func(_ *fakebrowser.Page, l *fakebrowser.Launcher) { l.Err = errors.New("exec: no such file") },
			want:  "Failed to generate snapshot: Chromium browser not installed",
		},
		{
			name:  "deadline",
			setup: func(p *fakebrowser.Page, _ *fakebrowser.Launcher) { p.NavigateErr = fmt.Errorf("navigate: %w", context.DeadlineExceeded) },
			want:  "Failed to generate snapshot: Request timed out after 30 seconds",
		},
		{
			name:  "dns",
			setup: func(p *fakebrowser.Page, _ *fakebrowser.Launcher) { p.NavigateErr = errors.New("net::ERR_NAME_NOT_RESOLVED") },
			want:  "Failed to generate snapshot: Network error accessing the website: net::ERR_NAME_NOT_RESOLVED",
		},
		{
			name: "script",
			setup: func(p *fakebrowser.Page, _ *fakebrowser.Launcher) {
				p.Eval = func() (json.RawMessage, error) { return nil, errors.New("boom") }
			},
			want: "Failed to generate snapshot: evaluate dom walker: boom",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := fakebrowser.NewPage()
			svc, l, _, _ := newService(page)
			tt.setup(page, l)

			_, err := svc.Snapshot(context.Background(), "example.org", false)

			var snapErr *Error
			require.ErrorAs(t, err, &snapErr)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

// gatedPage blocks Evaluate until release is closed and reports the render
// context's state at that point.
type gatedPage struct {
	*fakebrowser.Page
	started chan struct{}
	release chan struct{}
	ctxErrs chan error
}

func (p *gatedPage) Evaluate(ctx context.Context, script string) (json.RawMessage, error) {
	p.started <- struct{}{}
	<-p.release
	p.ctxErrs <- ctx.Err()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return json.Marshal(loginTree())
}

func TestSnapshot_CallerCancelDoesNotAbortSharedRender(t *testing.T) {
	page := &gatedPage{
		Page:    fakebrowser.NewPage(),
		started: make(chan struct{}, 4),
		release: make(chan struct{}),
		ctxErrs: make(chan error, 4),
	}
	var p output.Page = page
	l, _, _ := fakebrowser.Stack(p)
	svc := New(l, nil, tokenizer.Estimator{}, nil, logger.NewNop(), DefaultConfig())

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.Snapshot(first, "example.com", false)
		firstErr <- err
	}()
	<-page.started

	type outcome struct {
		res *entity.SnapshotResult
		err error
	}
	second := make(chan outcome, 1)
	go func() {
		res, err := svc.Snapshot(context.Background(), "example.com", false)
		second <- outcome{res, err}
	}()

	cancel()
	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("cancelled caller did not return")
	}

	close(page.release)
	select {
	case got := <-second:
		require.NoError(t, got.err)
		assert.Contains(t, got.res.Snapshot, "Name: Sign in")
	case <-time.After(5 * time.Second):
		t.Fatal("second caller did not return")
	}
	assert.NoError(t, <-page.ctxErrs, "render must not inherit the caller's cancellation")
}

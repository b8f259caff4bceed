package rod

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcp-agent/internal/application/port/output"
	"mcp-agent/internal/infrastructure/logger"
)

func newShopServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, searchFormHTML)
	})
	mux.HandleFunc("/results", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, resultsHTML)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// openPage launches a headless browser, skipping when none is available.
func openPage(t *testing.T) output.Page {
	if testing.Short() {
		t.Skip("browser tests are skipped in -short mode")
	}
	ctx := context.Background()
	b, err := NewLauncher(logger.NewNop()).Launch(ctx, output.LaunchOptions{
		Headless: true,
		Args:     map[string]string{"no-sandbox": "", "disable-dev-shm-usage": ""},
	})
	if err != nil {
		t.Skipf("no browser available: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })

	bctx, err := b.NewContext(ctx, output.ContextOptions{
		Viewport:    output.Viewport{Width: 1280, Height: 720},
		UserAgent:   "test-agent",
		Locale:      "en-US",
		TimezoneID:  "America/New_York",
		InitScripts: []string{`window.__marker = 42;`},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = bctx.Close() })

	page, err := bctx.NewPage(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = page.Close() })
	return page
}

func TestPage_NavigateAndContextOptions(t *testing.T) {
	page := openPage(t)
	srv := newShopServer(t)
	ctx := context.Background()

	require.NoError(t, page.Navigate(ctx, srv.URL, output.WaitLoad, 10*time.Second))
	assert.Equal(t, srv.URL+"/", page.URL())

	raw, err := page.Evaluate(ctx, `() => [navigator.userAgent, window.__marker, window.innerWidth]`)
	require.NoError(t, err)
	assert.JSONEq(t, `["test-agent", 42, 1280]`, string(raw))

	content, err := page.Content(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Search Shop", content.Title)
	assert.Contains(t, content.HTML, `id="q"`)
}

func TestPage_Navigate_Unreachable(t *testing.T) {
	page := openPage(t)

	err := page.Navigate(context.Background(), "http://127.0.0.1:1/", output.WaitLoad, 5*time.Second)

	assert.Error(t, err)
}

func TestPage_QueryAndElements(t *testing.T) {
	page := openPage(t)
	srv := newShopServer(t)
	ctx := context.Background()
	require.NoError(t, page.Navigate(ctx, srv.URL, output.WaitLoad, 10*time.Second))

	missing, err := page.Query(ctx, "#nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	box, err := page.Query(ctx, `input[type="search"]`)
	require.NoError(t, err)
	require.NotNil(t, box)

	tag, err := box.TagName(ctx)
	require.NoError(t, err)
	assert.Equal(t, "INPUT", tag)

	placeholder, ok, err := box.Attribute(ctx, "placeholder")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Search products", placeholder)

	form, err := box.Closest(ctx, "form")
	require.NoError(t, err)
	require.NotNil(t, form)
	submit, err := form.Query(ctx, `button[type="submit"], input[type="submit"]`)
	require.NoError(t, err)
	require.NotNil(t, submit)

	buttons, err := page.QueryByRole(ctx, "button", "sea")
	require.NoError(t, err)
	assert.Len(t, buttons, 1)

	require.NoError(t, box.Fill(ctx, "running shoes"))
	raw, err := page.Evaluate(ctx, `() => document.getElementById('q').value`)
	require.NoError(t, err)
	assert.JSONEq(t, `"running shoes"`, string(raw))

	require.NoError(t, box.Press(ctx, "Enter"))
	require.NoError(t, page.WaitForNetworkIdle(ctx, 10*time.Second))
	assert.Eventually(t, func() bool {
		return page.URL() == srv.URL+"/results?q=running+shoes"
	}, 5*time.Second, 100*time.Millisecond)
}

func TestPage_AccessibilityTree(t *testing.T) {
	page := openPage(t)
	srv := newShopServer(t)
	ctx := context.Background()
	require.NoError(t, page.Navigate(ctx, srv.URL, output.WaitLoad, 10*time.Second))

	provider, ok := page.(output.AccessibilityTreeProvider)
	require.True(t, ok)

	tree, err := provider.AccessibilityTree(ctx)
	require.NoError(t, err)
	require.NotNil(t, tree)
	assert.Equal(t, "RootWebArea", tree.Role)
	assert.Equal(t, "Search Shop", tree.Name)
	assert.Greater(t, tree.Count(), 3)
}

func TestPage_Screenshot(t *testing.T) {
	page := openPage(t)
	srv := newShopServer(t)
	ctx := context.Background()
	require.NoError(t, page.Navigate(ctx, srv.URL, output.WaitLoad, 10*time.Second))

	shot, err := page.Screenshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", shot.Format)
	assert.LessOrEqual(t, shot.Width, maxScreenshotWidth)
	assert.NotEmpty(t, shot.Data)
}

func TestPage_WaitForTimeout_Cancelled(t *testing.T) {
	pg := &Page{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := pg.WaitForTimeout(ctx, time.Hour)

	assert.ErrorIs(t, err, context.Canceled)
}

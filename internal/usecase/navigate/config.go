package navigate

import (
	"time"

	"mcp-agent/internal/application/port/output"
)

const (
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// hideWebdriverScript runs before any page script in every document.
	hideWebdriverScript = `Object.defineProperty(navigator, 'webdriver', { get: () => undefined });`
)

type Config struct {
	Launch  output.LaunchOptions
	Context output.ContextOptions

	NavigationTimeout   time.Duration
	PostNavigationDelay time.Duration
	FillSettleDelay     time.Duration
	ResultsFallback     time.Duration
}

func DefaultConfig() Config {
	return Config{
		Launch: output.LaunchOptions{
			Headless: true,
			Args: map[string]string{
				"disable-blink-features": "AutomationControlled",
				"disable-dev-shm-usage":  "",
				"no-sandbox":             "",
			},
		},
		Context:             DefaultContextOptions(),
		NavigationTimeout:   30 * time.Second,
		PostNavigationDelay: 2 * time.Second,
		FillSettleDelay:     500 * time.Millisecond,
		ResultsFallback:     3 * time.Second,
	}
}

func DefaultContextOptions() output.ContextOptions {
	return output.ContextOptions{
		Viewport:    output.Viewport{Width: 1280, Height: 720},
		UserAgent:   defaultUserAgent,
		Locale:      "en-US",
		TimezoneID:  "America/New_York",
		InitScripts: []string{hideWebdriverScript},
	}
}

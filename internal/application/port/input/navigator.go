package input

import (
	"context"

	"mcp-agent/internal/application/port/output"
	"mcp-agent/internal/domain/entity"
)

// Resources are browser handles owned by the caller. Any subset may be set;
// the navigator creates the missing pieces and never closes these.
type Resources struct {
	Browser output.Browser
	Context output.BrowserContext
	Page    output.Page
}

type Navigator interface {
	Navigate(ctx context.Context, req entity.NavigationRequest, res Resources) *entity.NavigationResult
}

type PageSnapshotter interface {
	Snapshot(ctx context.Context, url string, useCache bool) (*entity.SnapshotResult, error)
}

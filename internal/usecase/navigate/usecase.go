package navigate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mcp-agent/internal/application/port/input"
	"mcp-agent/internal/application/port/output"
	"mcp-agent/internal/domain/entity"
	"mcp-agent/internal/usecase/search"
	"mcp-agent/internal/usecase/snapshot"
)

var _ input.Navigator = (*UseCase)(nil)

const SearchButtonNotFound = "Search button not found - search may not have been triggered"

var ErrNoLauncher = errors.New("no browser launcher configured")

type phase int

const (
	phaseInit phase = iota
	phaseResourceAcquired
	phaseNavigated
	phasePreSnapshotTaken
	phaseSearchAttempted
	phaseSettled
	phaseDone
)

var phaseNames = [...]string{"init", "resource_acquired", "navigated", "pre_snapshot_taken", "search_attempted", "settled", "done"}

func (p phase) String() string {
	return phaseNames[p]
}

type UseCase struct {
	launcher  output.Launcher
	snapshots *snapshot.Snapshotter
	detector  *search.Detector
	trigger   *search.Trigger
	metrics   output.MetricsPort
	logger    output.LoggerPort
	cfg       Config
}

func New(
	launcher output.Launcher,
	snapshots *snapshot.Snapshotter,
	metrics output.MetricsPort,
	logger output.LoggerPort,
	cfg Config,
) *UseCase {
	if metrics == nil {
		metrics = output.NopMetrics{}
	}
	return &UseCase{
		launcher:  launcher,
		snapshots: snapshots,
		detector:  search.NewDetector(logger),
		trigger:   search.NewTrigger(logger),
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
	}
}

// run is the per-call state. Nothing in it outlives one Navigate call.
type run struct {
	req      entity.NavigationRequest
	phase    phase
	warnings *search.Warnings
	errors   []string
	logger   output.LoggerPort
}

func (r *run) enter(p phase) {
	r.phase = p
	r.logger.Debug("Navigation phase", "phase", p.String())
}

// Navigate never returns nil and never panics past this boundary. Success is
// false only when no page could be obtained.
func (uc *UseCase) Navigate(ctx context.Context, req entity.NavigationRequest, res input.Resources) (result *entity.NavigationResult) {
	start := time.Now()
	r := &run{
		req:      req,
		warnings: &search.Warnings{},
		logger:   uc.logger.WithField("url", req.URL),
	}
	var query *string
	if req.ShouldSearch() {
		q := req.SearchQuery
		query = &q
	}

	sc := &scope{logger: uc.logger}
	defer sc.release()

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("Navigation panicked", "panic", rec, "phase", r.phase.String())
			r.errors = append(r.errors, fmt.Sprintf("Error in browser_navigate: %v", rec))
			result = &entity.NavigationResult{
				Success:     r.phase >= phaseResourceAcquired,
				URL:         req.URL,
				SearchQuery: query,
				Warnings:    r.warnings.List(),
				Errors:      r.errors,
			}
		}
		r.enter(phaseDone)
		uc.metrics.ObserveNavigation(result.Success, result.SearchPerformed, len(result.Warnings), time.Since(start))
	}()

	page, err := uc.acquire(ctx, res, sc)
	if err != nil {
		msg := fmt.Sprintf("Error in browser_navigate: %v", err)
		r.logger.Error("Browser setup failed", "error", err)
		r.errors = append(r.errors, msg)
		return entity.FailedNavigation(req, r.errors)
	}
	r.enter(phaseResourceAcquired)

	performed, text := uc.execute(ctx, page, r)
	return &entity.NavigationResult{
		Success:         true,
		URL:             req.URL,
		SearchPerformed: performed,
		SearchQuery:     query,
		Snapshot:        text,
		Warnings:        r.warnings.List(),
		Errors:          nonNil(r.errors),
	}
}

// acquire returns a page, composing whatever the caller did not supply.
// Everything created here is registered on sc.
func (uc *UseCase) acquire(ctx context.Context, res input.Resources, sc *scope) (output.Page, error) {
	if res.Page != nil {
		return res.Page, nil
	}

	bctx := res.Context
	if bctx == nil {
		browser := res.Browser
		if browser == nil {
			if uc.launcher == nil {
				return nil, ErrNoLauncher
			}
			b, err := uc.launcher.Launch(ctx, uc.cfg.Launch)
			if err != nil {
				return nil, fmt.Errorf("launch browser: %w", err)
			}
			sc.own("browser", b.Close)
			browser = b
		}
		c, err := browser.NewContext(ctx, uc.cfg.Context)
		if err != nil {
			return nil, fmt.Errorf("create browser context: %w", err)
		}
		sc.own("context", c.Close)
		bctx = c
	}

	page, err := bctx.NewPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	sc.own("page", page.Close)
	return page, nil
}

func (uc *UseCase) execute(ctx context.Context, page output.Page, r *run) (bool, string) {
	req := r.req
	r.logger.Info("Navigating", "search", req.ShouldSearch())

	if err := page.Navigate(ctx, req.URL, output.WaitLoad, uc.cfg.NavigationTimeout); err != nil {
		r.logger.Warn("Navigation error", "error", err)
		r.errors = append(r.errors, fmt.Sprintf("Navigation error: %v", err))
	} else if err := page.WaitForTimeout(ctx, uc.cfg.PostNavigationDelay); err != nil {
		r.logger.Debug("Post-navigation wait interrupted", "error", err)
	}
	r.enter(phaseNavigated)

	text := ""
	performed := false
	if req.ShouldSearch() {
		text = uc.snapshots.Take(ctx, page)
		r.enter(phasePreSnapshotTaken)

		performed = uc.search(ctx, page, r)
	}

	if text == "" || performed {
		text = uc.snapshots.Take(ctx, page)
	}
	return performed, text
}

func (uc *UseCase) search(ctx context.Context, page output.Page, r *run) bool {
	req := r.req
	box := uc.detector.Detect(ctx, page, req.SearchBoxSelector, r.warnings)
	if box == nil {
		r.logger.Warn(search.SearchBoxNotFound)
		return false
	}

	r.logger.Info("Filling search box", "query", req.SearchQuery)
	if err := box.Fill(ctx, req.SearchQuery); err != nil {
		msg := fmt.Sprintf("Error performing search: %v", err)
		r.logger.Warn(msg)
		r.warnings.Add(msg)
		return false
	}
	_ = page.WaitForTimeout(ctx, uc.cfg.FillSettleDelay)

	triggered := uc.trigger.Fire(ctx, page, box, req.SearchButtonSelector, r.warnings)
	r.enter(phaseSearchAttempted)
	if !triggered && req.SearchButtonSelector != "" {
		r.warnings.Add(SearchButtonNotFound)
		return false
	}

	uc.settle(ctx, page, r)
	r.enter(phaseSettled)
	r.logger.Info("Search performed")
	return true
}

// settle waits for the results page. An idle wait that times out degrades to
// a fixed delay instead of failing the flow.
func (uc *UseCase) settle(ctx context.Context, page output.Page, r *run) {
	if r.req.WaitsForResults() {
		timeout := time.Duration(r.req.WaitTimeout()) * time.Millisecond
		err := page.WaitForNetworkIdle(ctx, timeout)
		if err == nil {
			return
		}
		r.logger.Debug("Network idle wait failed, using fixed delay", "error", err)
	}
	_ = page.WaitForTimeout(ctx, uc.cfg.ResultsFallback)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

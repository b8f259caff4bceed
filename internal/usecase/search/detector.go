package search

import (
	"context"
	"fmt"
	"strings"

	"mcp-agent/internal/application/port/output"
)

const SearchBoxNotFound = "Search box not found - cannot perform automatic search"

var (
	commonInputSelectors = []string{
		`input[type="search"]`,
		`input[placeholder*="search" i]`,
		`input[name*="search" i]`,
		`input[id*="search" i]`,
		`input[aria-label*="search" i]`,
		`textarea[placeholder*="search" i]`,
		`textarea[aria-label*="search" i]`,
	}

	contextualInputSelectors = []string{
		`input[placeholder*="Search events" i]`,
		`input[placeholder*="Find tickets" i]`,
		`input[placeholder*="Search artists" i]`,
		`input[placeholder*="Search for" i]`,
		`input[name*="q" i]`,
		`input[id*="q" i]`,
	}
)

type detectStrategy struct {
	name string
	find func(ctx context.Context, d *detection) output.Element
}

type detection struct {
	page     output.Page
	explicit string
	warnings *Warnings
	logger   output.LoggerPort
}

// Detector locates the input to type a search query into.
type Detector struct {
	strategies []detectStrategy
	logger     output.LoggerPort
}

func NewDetector(logger output.LoggerPort) *Detector {
	return &Detector{
		strategies: []detectStrategy{
			{name: "explicit", find: findExplicitBox},
			{name: "role", find: findSearchboxRole},
			{name: "common", find: findFirstInput(commonInputSelectors)},
			{name: "contextual", find: findFirstInput(contextualInputSelectors)},
		},
		logger: logger,
	}
}

// Detect walks the strategy cascade and returns the first visible match. It
// never fails: when nothing matches it records SearchBoxNotFound and returns nil.
func (d *Detector) Detect(ctx context.Context, page output.Page, explicitSelector string, warnings *Warnings) output.Element {
	state := &detection{
		page:     page,
		explicit: explicitSelector,
		warnings: warnings,
		logger:   d.logger,
	}
	for _, s := range d.strategies {
		if ctx.Err() != nil {
			break
		}
		if el := s.find(ctx, state); el != nil {
			d.logger.Info("Search box detected", "strategy", s.name)
			return el
		}
	}
	warnings.Add(SearchBoxNotFound)
	return nil
}

func findExplicitBox(ctx context.Context, d *detection) output.Element {
	if d.explicit == "" {
		return nil
	}
	el, err := firstVisible(ctx, d.page, d.explicit)
	if err != nil {
		d.warnings.Add(fmt.Sprintf("Explicit selector '%s' not found: %v", d.explicit, err))
		return nil
	}
	if el == nil {
		d.warnings.Add(fmt.Sprintf("Explicit selector '%s' not found: no visible match", d.explicit))
		return nil
	}
	return el
}

func findSearchboxRole(ctx context.Context, d *detection) output.Element {
	el, err := firstVisible(ctx, d.page, `[role="searchbox"]`)
	if err != nil {
		d.logger.Debug("Searchbox role query failed", "error", err)
		return nil
	}
	return el
}

func findFirstInput(selectors []string) func(context.Context, *detection) output.Element {
	return func(ctx context.Context, d *detection) output.Element {
		for _, sel := range selectors {
			el, err := firstVisible(ctx, d.page, sel)
			if err != nil {
				d.logger.Debug("Search box lookup failed", "selector", sel, "error", err)
				continue
			}
			if el == nil {
				continue
			}
			if isTextInput(ctx, el) {
				return el
			}
		}
		return nil
	}
}

// firstVisible resolves the first match of selector and reports it only when
// it is currently visible.
func firstVisible(ctx context.Context, page output.Page, selector string) (output.Element, error) {
	el, err := page.Query(ctx, selector)
	if err != nil || el == nil {
		return nil, err
	}
	visible, err := el.Visible(ctx)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, nil
	}
	return el, nil
}

func isTextInput(ctx context.Context, el output.Element) bool {
	tag, err := el.TagName(ctx)
	if err != nil {
		return false
	}
	switch strings.ToUpper(tag) {
	case "INPUT", "TEXTAREA":
		return true
	}
	return false
}

package search

import (
	"context"
	"fmt"
	"strings"

	"mcp-agent/internal/application/port/output"
)

const (
	formSubmitSelector = `button[type="submit"], input[type="submit"]`
	ariaButtonSelector = `button[aria-label*="search" i], button[aria-label*="submit" i]`
	maxTextScan        = 10
)

var buttonKeywords = []string{"Search", "Go", "Submit", "Find"}

type triggerStrategy struct {
	name string
	fire func(ctx context.Context, t *triggering) bool
}

type triggering struct {
	page      output.Page
	searchBox output.Element
	explicit  string
	warnings  *Warnings
	logger    output.LoggerPort
}

// Trigger submits a filled search box.
type Trigger struct {
	strategies []triggerStrategy
	logger     output.LoggerPort
}

func NewTrigger(logger output.LoggerPort) *Trigger {
	return &Trigger{
		strategies: []triggerStrategy{
			{name: "explicit", fire: clickExplicitButton},
			{name: "form", fire: clickFormSubmit},
			{name: "aria", fire: clickAriaButton},
			{name: "text", fire: clickKeywordButton},
		},
		logger: logger,
	}
}

// Fire runs the button cascade and falls back to pressing Enter in the search
// box. It returns false only when that last resort fails.
func (tr *Trigger) Fire(ctx context.Context, page output.Page, searchBox output.Element, explicitButton string, warnings *Warnings) bool {
	state := &triggering{
		page:      page,
		searchBox: searchBox,
		explicit:  explicitButton,
		warnings:  warnings,
		logger:    tr.logger,
	}
	for _, s := range tr.strategies {
		if ctx.Err() != nil {
			break
		}
		if s.fire(ctx, state) {
			tr.logger.Info("Search triggered", "strategy", s.name)
			return true
		}
	}

	if err := searchBox.Press(ctx, "Enter"); err != nil {
		warnings.Add(fmt.Sprintf("Failed to press Enter in search box: %v", err))
		return false
	}
	tr.logger.Info("Search triggered", "strategy", "enter")
	return true
}

func clickExplicitButton(ctx context.Context, t *triggering) bool {
	if t.explicit == "" {
		return false
	}
	el, err := firstVisible(ctx, t.page, t.explicit)
	if err == nil && el == nil {
		err = fmt.Errorf("no visible match")
	}
	if err == nil {
		err = el.Click(ctx)
	}
	if err != nil {
		t.warnings.Add(fmt.Sprintf("Explicit button selector '%s' not found: %v", t.explicit, err))
		return false
	}
	return true
}

func clickFormSubmit(ctx context.Context, t *triggering) bool {
	form, err := t.searchBox.Closest(ctx, "form")
	if err != nil || form == nil {
		return false
	}
	submit, err := form.Query(ctx, formSubmitSelector)
	if err != nil || submit == nil {
		return false
	}
	return clickIfVisible(ctx, submit, t.logger)
}

func clickAriaButton(ctx context.Context, t *triggering) bool {
	el, err := firstVisible(ctx, t.page, ariaButtonSelector)
	if err != nil || el == nil {
		return false
	}
	return el.Click(ctx) == nil
}

func clickKeywordButton(ctx context.Context, t *triggering) bool {
	for _, kw := range buttonKeywords {
		buttons, err := t.page.QueryByRole(ctx, "button", kw)
		if err != nil {
			t.logger.Debug("Button role lookup failed", "keyword", kw, "error", err)
			continue
		}
		for _, b := range buttons {
			if clickIfVisible(ctx, b, t.logger) {
				return true
			}
		}
	}

	buttons, err := t.page.QueryAll(ctx, "button")
	if err != nil {
		return false
	}
	if len(buttons) > maxTextScan {
		buttons = buttons[:maxTextScan]
	}
	for _, b := range buttons {
		text, err := b.Text(ctx)
		if err != nil || !matchesKeyword(text) {
			continue
		}
		if clickIfVisible(ctx, b, t.logger) {
			return true
		}
	}
	return false
}

func clickIfVisible(ctx context.Context, el output.Element, logger output.LoggerPort) bool {
	visible, err := el.Visible(ctx)
	if err != nil || !visible {
		return false
	}
	if err := el.Click(ctx); err != nil {
		logger.Debug("Click failed", "error", err)
		return false
	}
	return true
}

func matchesKeyword(text string) bool {
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return false
	}
	for _, kw := range buttonKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcp-agent/internal/infrastructure/logger"
	"mcp-agent/internal/testutil/fakebrowser"
)

func detect(page *fakebrowser.Page, explicit string) (any, *Warnings) {
	w := &Warnings{}
	el := NewDetector(logger.NewNop()).Detect(context.Background(), page, explicit, w)
	if el == nil {
		return nil, w
	}
	return el, w
}

func TestDetector_Priority(t *testing.T) {
	explicit := &fakebrowser.Element{Tag: "INPUT"}
	role := &fakebrowser.Element{Tag: "DIV"}
	common := &fakebrowser.Element{Tag: "INPUT"}
	contextual := &fakebrowser.Element{Tag: "INPUT"}

	page := fakebrowser.NewPage().
		On("#box", explicit).
		On(`[role="searchbox"]`, role).
		On(`input[name*="search" i]`, common).
		On(`input[name*="q" i]`, contextual)

	got, w := detect(page, "#box")
	assert.Same(t, explicit, got)
	assert.Zero(t, w.Len())

	got, _ = detect(page, "")
	assert.Same(t, role, got, "role match skips the input-type check")

	delete(page.Selectors, `[role="searchbox"]`)
	got, _ = detect(page, "")
	assert.Same(t, common, got)

	delete(page.Selectors, `input[name*="search" i]`)
	got, _ = detect(page, "")
	assert.Same(t, contextual, got)
}

func TestDetector_ExplicitMissFallsThrough(t *testing.T) {
	fallback := &fakebrowser.Element{Tag: "input"}
	page := fakebrowser.NewPage().On(`input[type="search"]`, fallback)

	got, w := detect(page, "#missing")

	assert.Same(t, fallback, got)
	assert.Equal(t, []string{"Explicit selector '#missing' not found: no visible match"}, w.List())
}

func TestDetector_ExplicitQueryError(t *testing.T) {
	page := fakebrowser.NewPage()
	page.QueryErrs["::bad"] = errors.New("invalid selector")

	got, w := detect(page, "::bad")

	assert.Nil(t, got)
	assert.Equal(t, []string{
		"Explicit selector '::bad' not found: invalid selector",
		SearchBoxNotFound,
	}, w.List())
}

func TestDetector_SkipsHiddenAndNonText(t *testing.T) {
	hidden := &fakebrowser.Element{Tag: "INPUT", Hidden: true}
	button := &fakebrowser.Element{Tag: "BUTTON"}
	stale := &fakebrowser.Element{Tag: "INPUT", VisibleErr: fakebrowser.ErrDetached}
	textarea := &fakebrowser.Element{Tag: "TEXTAREA"}

	page := fakebrowser.NewPage().
		On(`input[type="search"]`, hidden).
		On(`input[placeholder*="search" i]`, button).
		On(`input[name*="search" i]`, stale).
		On(`textarea[placeholder*="search" i]`, textarea)

	got, w := detect(page, "")

	assert.Same(t, textarea, got)
	assert.Zero(t, w.Len())
}

func TestDetector_NotFoundWarnsOnce(t *testing.T) {
	page := fakebrowser.NewPage().On(`input[id*="q" i]`, &fakebrowser.Element{Tag: "SELECT"})

	got, w := detect(page, "")

	assert.Nil(t, got)
	require.Equal(t, 1, w.Len())
	assert.Equal(t, SearchBoxNotFound, w.List()[0])
}

func TestDetector_CancelledContext(t *testing.T) {
	page := fakebrowser.NewPage().On(`input[type="search"]`, &fakebrowser.Element{Tag: "INPUT"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := &Warnings{}
	got := NewDetector(logger.NewNop()).Detect(ctx, page, "", w)

	assert.Nil(t, got)
	assert.Equal(t, []string{SearchBoxNotFound}, w.List())
}

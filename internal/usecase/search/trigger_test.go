package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"mcp-agent/internal/infrastructure/logger"
	"mcp-agent/internal/testutil/fakebrowser"
)

func fire(page *fakebrowser.Page, box *fakebrowser.Element, explicit string) (bool, *Warnings) {
	w := &Warnings{}
	ok := NewTrigger(logger.NewNop()).Fire(context.Background(), page, box, explicit, w)
	return ok, w
}

func TestTrigger_ExplicitButton(t *testing.T) {
	btn := &fakebrowser.Element{Tag: "BUTTON"}
	box := &fakebrowser.Element{Tag: "INPUT"}
	page := fakebrowser.NewPage().On("#go", btn)

	ok, w := fire(page, box, "#go")

	assert.True(t, ok)
	assert.Equal(t, 1, btn.ClickCount())
	assert.Empty(t, box.Presses)
	assert.Zero(t, w.Len())
}

func TestTrigger_ExplicitButtonClickFails(t *testing.T) {
	btn := &fakebrowser.Element{Tag: "BUTTON", ClickErr: fakebrowser.ErrDetached}
	box := &fakebrowser.Element{Tag: "INPUT"}
	page := fakebrowser.NewPage().On("#go", btn)

	ok, w := fire(page, box, "#go")

	assert.True(t, ok, "Enter fallback")
	assert.Equal(t, []string{"Enter"}, box.Presses)
	assert.Equal(t, []string{"Explicit button selector '#go' not found: " + fakebrowser.ErrDetached.Error()}, w.List())
}

func TestTrigger_FormSubmit(t *testing.T) {
	submit := &fakebrowser.Element{Tag: "BUTTON"}
	form := &fakebrowser.Element{Tag: "FORM", Inner: map[string]*fakebrowser.Element{formSubmitSelector: submit}}
	box := &fakebrowser.Element{Tag: "INPUT", Form: form}
	aria := &fakebrowser.Element{Tag: "BUTTON"}
	page := fakebrowser.NewPage().On(ariaButtonSelector, aria)

	ok, _ := fire(page, box, "")

	assert.True(t, ok)
	assert.Equal(t, 1, submit.ClickCount())
	assert.Zero(t, aria.ClickCount())
}

func TestTrigger_HiddenFormSubmitFallsToAria(t *testing.T) {
	submit := &fakebrowser.Element{Tag: "BUTTON", Hidden: true}
	form := &fakebrowser.Element{Tag: "FORM", Inner: map[string]*fakebrowser.Element{formSubmitSelector: submit}}
	box := &fakebrowser.Element{Tag: "INPUT", Form: form}
	aria := &fakebrowser.Element{Tag: "BUTTON", Attrs: map[string]string{"aria-label": "Search"}}
	page := fakebrowser.NewPage().On(ariaButtonSelector, aria)

	ok, _ := fire(page, box, "")

	assert.True(t, ok)
	assert.Zero(t, submit.ClickCount())
	assert.Equal(t, 1, aria.ClickCount())
}

func TestTrigger_RoleKeywordButton(t *testing.T) {
	find := &fakebrowser.Element{Tag: "BUTTON", InnerText: "Find tickets"}
	box := &fakebrowser.Element{Tag: "INPUT"}
	page := fakebrowser.NewPage()
	page.Buttons = []*fakebrowser.Element{find}

	ok, _ := fire(page, box, "")

	assert.True(t, ok)
	assert.Equal(t, 1, find.ClickCount())
}

func TestTrigger_TextScanLimitedToFirstButtons(t *testing.T) {
	page := fakebrowser.NewPage()
	for i := 0; i < maxTextScan; i++ {
		page.On("button", &fakebrowser.Element{Tag: "BUTTON", InnerText: "Menu"})
	}
	late := &fakebrowser.Element{Tag: "BUTTON", InnerText: "Search"}
	page.On("button", late)
	box := &fakebrowser.Element{Tag: "INPUT"}

	ok, _ := fire(page, box, "")

	assert.True(t, ok)
	assert.Zero(t, late.ClickCount())
	assert.Equal(t, []string{"Enter"}, box.Presses)
}

func TestTrigger_TextScanMatch(t *testing.T) {
	page := fakebrowser.NewPage()
	submit := &fakebrowser.Element{Tag: "BUTTON", InnerText: "  submit query "}
	page.On("button", &fakebrowser.Element{Tag: "BUTTON", InnerText: ""}, submit)

	ok, _ := fire(page, &fakebrowser.Element{Tag: "INPUT"}, "")

	assert.True(t, ok)
	assert.Equal(t, 1, submit.ClickCount())
}

func TestTrigger_EnterFails(t *testing.T) {
	box := &fakebrowser.Element{Tag: "INPUT", PressErr: fakebrowser.ErrDetached}

	ok, w := fire(fakebrowser.NewPage(), box, "")

	assert.False(t, ok)
	assert.Equal(t, []string{"Failed to press Enter in search box: " + fakebrowser.ErrDetached.Error()}, w.List())
}

func TestMatchesKeyword(t *testing.T) {
	assert.True(t, matchesKeyword("GO"))
	assert.True(t, matchesKeyword("Find"))
	assert.False(t, matchesKeyword("   "))
	assert.False(t, matchesKeyword("Menu"))
}

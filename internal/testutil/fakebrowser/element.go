package fakebrowser

import (
	"context"
	"errors"
	"sync"

	"mcp-agent/internal/application/port/output"
)

var _ output.Element = (*Element)(nil)

// ErrDetached mimics an action on a node that left the DOM.
var ErrDetached = errors.New("element detached from document")

// Element is a scripted DOM node. Zero value is a visible <div>.
type Element struct {
	mu sync.Mutex

	Tag        string
	Hidden     bool
	VisibleErr error
	TagErr     error
	Attrs      map[string]string
	InnerText  string

	// Form is returned by Closest("form").
	Form *Element
	// Inner maps selectors to descendants for Query.
	Inner map[string]*Element

	FillErr  error
	ClickErr error
	PressErr error

	OnClick func()
	OnPress func(key string)

	Filled  []string
	Clicks  int
	Presses []string
}

func (e *Element) Visible(ctx context.Context) (bool, error) {
	if e.VisibleErr != nil {
		return false, e.VisibleErr
	}
	return !e.Hidden, nil
}

func (e *Element) TagName(ctx context.Context) (string, error) {
	if e.TagErr != nil {
		return "", e.TagErr
	}
	if e.Tag == "" {
		return "DIV", nil
	}
	return e.Tag, nil
}

func (e *Element) Attribute(ctx context.Context, name string) (string, bool, error) {
	v, ok := e.Attrs[name]
	return v, ok, nil
}

func (e *Element) Text(ctx context.Context) (string, error) {
	return e.InnerText, nil
}

func (e *Element) Fill(ctx context.Context, text string) error {
	if e.FillErr != nil {
		return e.FillErr
	}
	e.mu.Lock()
	e.Filled = append(e.Filled, text)
	e.mu.Unlock()
	return nil
}

func (e *Element) Click(ctx context.Context) error {
	if e.ClickErr != nil {
		return e.ClickErr
	}
	e.mu.Lock()
	e.Clicks++
	e.mu.Unlock()
	if e.OnClick != nil {
		e.OnClick()
	}
	return nil
}

func (e *Element) Press(ctx context.Context, key string) error {
	if e.PressErr != nil {
		return e.PressErr
	}
	e.mu.Lock()
	e.Presses = append(e.Presses, key)
	e.mu.Unlock()
	if e.OnPress != nil {
		e.OnPress(key)
	}
	return nil
}

func (e *Element) Closest(ctx context.Context, selector string) (output.Element, error) {
	if selector == "form" && e.Form != nil {
		return e.Form, nil
	}
	return nil, nil
}

func (e *Element) Query(ctx context.Context, selector string) (output.Element, error) {
	if el, ok := e.Inner[selector]; ok {
		return el, nil
	}
	return nil, nil
}

func (e *Element) ClickCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Clicks
}

// AccessibleName follows the order the browser uses for buttons: aria-label
// first, then text content.
func (e *Element) AccessibleName() string {
	if v := e.Attrs["aria-label"]; v != "" {
		return v
	}
	return e.InnerText
}

package rod

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"

	"mcp-agent/internal/application/port/output"
)

var _ output.Element = (*Element)(nil)

var namedKeys = map[string]input.Key{
	"Enter":     input.Enter,
	"Tab":       input.Tab,
	"Escape":    input.Escape,
	"Backspace": input.Backspace,
	"ArrowDown": input.ArrowDown,
	"ArrowUp":   input.ArrowUp,
}

type Element struct {
	el   *rod.Element
	page *Page
}

func (e *Element) Visible(ctx context.Context) (bool, error) {
	return e.el.Context(ctx).Visible()
}

func (e *Element) TagName(ctx context.Context) (string, error) {
	obj, err := e.el.Context(ctx).Eval(`() => this.tagName`)
	if err != nil {
		return "", err
	}
	return obj.Value.Str(), nil
}

func (e *Element) Attribute(ctx context.Context, name string) (string, bool, error) {
	v, err := e.el.Context(ctx).Attribute(name)
	if err != nil {
		return "", false, err
	}
	if v == nil {
		return "", false, nil
	}
	return *v, true, nil
}

func (e *Element) Text(ctx context.Context) (string, error) {
	return e.el.Context(ctx).Text()
}

// Fill replaces the current value with text.
func (e *Element) Fill(ctx context.Context, text string) error {
	el := e.el.Context(ctx)
	if err := el.SelectAllText(); err != nil {
		e.page.logger.Debug("Select all before fill failed", "error", err)
	}
	if err := el.Input(text); err != nil {
		return fmt.Errorf("input failed: %w", err)
	}
	return nil
}

func (e *Element) Click(ctx context.Context) error {
	if err := e.el.Context(ctx).Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

func (e *Element) Press(ctx context.Context, key string) error {
	k, ok := namedKeys[key]
	if !ok {
		runes := []rune(key)
		if len(runes) != 1 {
			return fmt.Errorf("unsupported key %q", key)
		}
		k = input.Key(runes[0])
	}
	if err := e.el.Context(ctx).Focus(); err != nil {
		return fmt.Errorf("focus failed: %w", err)
	}
	if err := e.page.page.Context(ctx).Keyboard.Press(k); err != nil {
		return fmt.Errorf("failed to press %s: %w", key, err)
	}
	return nil
}

func (e *Element) Closest(ctx context.Context, selector string) (output.Element, error) {
	parents, err := e.el.Context(ctx).Parents(selector)
	if err != nil {
		return nil, err
	}
	if len(parents) == 0 {
		return nil, nil
	}
	return &Element{el: parents.First(), page: e.page}, nil
}

func (e *Element) Query(ctx context.Context, selector string) (output.Element, error) {
	els, err := e.el.Context(ctx).Elements(selector)
	if err != nil {
		return nil, err
	}
	if els.Empty() {
		return nil, nil
	}
	return &Element{el: els.First(), page: e.page}, nil
}

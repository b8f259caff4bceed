package rod

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"

	"mcp-agent/internal/application/port/output"
	"mcp-agent/internal/domain/entity"
)

var (
	_ output.Page                      = (*Page)(nil)
	_ output.AccessibilityTreeProvider = (*Page)(nil)
)

const (
	// requestQuietPeriod is how long the network must stay silent to count as idle.
	requestQuietPeriod = 500 * time.Millisecond
	maxScreenshotWidth = 1024
)

type Page struct {
	page   *rod.Page
	logger output.LoggerPort
}

// NewPage wraps an existing rod page, e.g. one opened by a caller that keeps
// ownership of it.
func NewPage(p *rod.Page, logger output.LoggerPort) *Page {
	return &Page{page: p, logger: logger}
}

func (pg *Page) Navigate(ctx context.Context, url string, waitUntil output.WaitUntil, timeout time.Duration) error {
	p := pg.page.Context(ctx).Timeout(timeout)
	defer p.CancelTimeout()

	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	if waitUntil == output.WaitNetworkIdle {
		p.WaitRequestIdle(requestQuietPeriod, nil, nil, nil)()
		return p.GetContext().Err()
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("wait load: %w", err)
	}
	return nil
}

func (pg *Page) WaitForTimeout(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WaitForNetworkIdle returns an error when the page is still busy after timeout.
func (pg *Page) WaitForNetworkIdle(ctx context.Context, timeout time.Duration) error {
	wctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pg.page.Context(wctx).WaitRequestIdle(requestQuietPeriod, nil, nil, nil)()
	if err := wctx.Err(); err != nil {
		return fmt.Errorf("network not idle after %s: %w", timeout, err)
	}
	return nil
}

func (pg *Page) Evaluate(ctx context.Context, script string) (json.RawMessage, error) {
	obj, err := pg.page.Context(ctx).Eval(script)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(obj.Value.JSON("", "")), nil
}

func (pg *Page) Query(ctx context.Context, selector string) (output.Element, error) {
	has, el, err := pg.page.Context(ctx).Has(selector)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, nil
	}
	return &Element{el: el, page: pg}, nil
}

func (pg *Page) QueryAll(ctx context.Context, selector string) ([]output.Element, error) {
	els, err := pg.page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, err
	}
	out := make([]output.Element, 0, len(els))
	for _, el := range els {
		out = append(out, &Element{el: el, page: pg})
	}
	return out, nil
}

// QueryByRole resolves elements through the browser's accessibility tree, so
// names come from the same computation assistive technology sees.
func (pg *Page) QueryByRole(ctx context.Context, role, name string) ([]output.Element, error) {
	p := pg.page.Context(ctx)
	zero := 0
	doc, err := proto.DOMGetDocument{Depth: &zero}.Call(p)
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	res, err := proto.AccessibilityQueryAXTree{
		BackendNodeID: doc.Root.BackendNodeID,
		Role:          role,
	}.Call(p)
	if err != nil {
		return nil, fmt.Errorf("accessibility query failed: %w", err)
	}

	needle := strings.ToLower(name)
	var out []output.Element
	for _, n := range res.Nodes {
		if n.Ignored || n.BackendDOMNodeID == 0 {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(axValueStr(n.Name)), needle) {
			continue
		}
		el, err := p.ElementFromNode(&proto.DOMNode{BackendNodeID: n.BackendDOMNodeID})
		if err != nil {
			pg.logger.Debug("Failed to resolve accessibility node", "error", err)
			continue
		}
		out = append(out, &Element{el: el, page: pg})
	}
	return out, nil
}

func (pg *Page) URL() string {
	info, err := pg.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func (pg *Page) Content(ctx context.Context) (*entity.PageContent, error) {
	p := pg.page.Context(ctx)
	info, err := p.Info()
	if err != nil {
		return nil, fmt.Errorf("page info: %w", err)
	}
	html, err := p.HTML()
	if err != nil {
		return nil, fmt.Errorf("failed to get HTML: %w", err)
	}
	return &entity.PageContent{
		URL:   info.URL,
		Title: info.Title,
		HTML:  html,
	}, nil
}

func (pg *Page) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	imgBytes, err := pg.page.Context(ctx).Screenshot(true, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(80),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}

	if img.Bounds().Dx() > maxScreenshotWidth {
		img = imaging.Resize(img, maxScreenshotWidth, 0, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 75}); err != nil {
		return nil, fmt.Errorf("jpeg encode failed: %w", err)
	}

	return &entity.Screenshot{
		Data:   buf.Bytes(),
		Format: "jpeg",
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}

func (pg *Page) AccessibilityTree(ctx context.Context) (*entity.AccessibilityNode, error) {
	res, err := proto.AccessibilityGetFullAXTree{}.Call(pg.page.Context(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to get accessibility tree: %w", err)
	}
	return convertAXTree(res.Nodes), nil
}

func (pg *Page) Close() error {
	return pg.page.Close()
}

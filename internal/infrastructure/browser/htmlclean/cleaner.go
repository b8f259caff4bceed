// Package htmlclean reduces page HTML to what a language model needs to read it.
package htmlclean

import (
	"errors"
	"strings"

	"golang.org/x/net/html"
)

const truncationNotice = "\n<!-- truncated -->"

var ErrNoBody = errors.New("document has no <body>")

type Config struct {
	TagsToRemove  []string
	AttrsToRemove []string
	// MaxOutputSize caps the rendered output in bytes. Zero means unlimited.
	MaxOutputSize int
	KeepAria      bool
}

func DefaultConfig() Config {
	return Config{
		TagsToRemove: []string{
			"script", "style", "noscript", "svg", "iframe",
			"link", "meta", "head", "title", "template",
		},
		AttrsToRemove: []string{
			"style", "srcset", "sizes", "loading", "decoding", "fetchpriority", "tabindex",
		},
		MaxOutputSize: 130_000,
		KeepAria:      true,
	}
}

// Clean returns the <body> subtree with noise tags, comments and presentational
// attributes removed.
func Clean(rawHTML string, cfg Config) (string, error) {
	body, err := parseBody(rawHTML)
	if err != nil {
		return "", err
	}

	cleanNode(body, cfg)

	var sb strings.Builder
	if err := html.Render(&sb, body); err != nil {
		return "", err
	}
	return truncate(sb.String(), cfg.MaxOutputSize), nil
}

// Text returns the visible text of the body, one block per line.
func Text(rawHTML string, maxSize int) (string, error) {
	body, err := parseBody(rawHTML)
	if err != nil {
		return "", err
	}

	cleanNode(body, DefaultConfig())

	var lines []string
	var cur strings.Builder
	flush := func() {
		if s := strings.Join(strings.Fields(cur.String()), " "); s != "" {
			lines = append(lines, s)
		}
		cur.Reset()
	}
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			cur.WriteString(n.Data)
			cur.WriteByte(' ')
		case html.ElementNode:
			block := isBlock(n.Data)
			if block {
				flush()
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c)
			}
			if block {
				flush()
			}
		}
	}
	walk(body)
	flush()

	return truncate(strings.Join(lines, "\n"), maxSize), nil
}

func parseBody(rawHTML string) (*html.Node, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, err
	}
	body := findElement(doc, "body")
	if body == nil {
		return nil, ErrNoBody
	}
	return body, nil
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findElement(c, tag); b != nil {
			return b
		}
	}
	return nil
}

func cleanNode(n *html.Node, cfg Config) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch {
		case c.Type == html.CommentNode:
			n.RemoveChild(c)
		case c.Type == html.ElementNode && isOneOf(c.Data, cfg.TagsToRemove):
			n.RemoveChild(c)
		case c.Type == html.ElementNode:
			c.Attr = filterAttributes(c.Attr, cfg)
			cleanNode(c, cfg)
		}
		c = next
	}
}

func filterAttributes(attrs []html.Attribute, cfg Config) []html.Attribute {
	var kept []html.Attribute
	for _, attr := range attrs {
		if !shouldRemoveAttr(attr.Key, cfg) {
			kept = append(kept, attr)
		}
	}
	return kept
}

func shouldRemoveAttr(key string, cfg Config) bool {
	if isOneOf(key, cfg.AttrsToRemove) {
		return true
	}
	if strings.HasPrefix(key, "aria-") {
		return !cfg.KeepAria
	}
	return strings.HasPrefix(key, "data-") || strings.HasPrefix(key, "on")
}

func truncate(s string, maxSize int) string {
	if maxSize <= 0 || len(s) <= maxSize {
		return s
	}
	return s[:maxSize] + truncationNotice
}

func isBlock(tag string) bool {
	switch tag {
	case "p", "div", "section", "article", "header", "footer", "nav", "main", "aside",
		"li", "ul", "ol", "table", "tr", "h1", "h2", "h3", "h4", "h5", "h6",
		"form", "br", "hr", "label", "button":
		return true
	}
	return false
}

func isOneOf(s string, candidates []string) bool {
	for _, c := range candidates {
		if s == c {
			return true
		}
	}
	return false
}

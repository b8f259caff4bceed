package snapshot

import (
	"context"

	"mcp-agent/internal/application/port/output"
	"mcp-agent/internal/domain/entity"
)

const (
	NoTreeText = "No accessibility tree available"
	ErrorText  = "Error generating snapshot"
)

type Formatter func(*entity.AccessibilityNode) string

// Snapshotter turns a live page into snapshot text. It never fails: extraction
// problems are logged and rendered as placeholder text.
type Snapshotter struct {
	extractor Extractor
	format    Formatter
	logger    output.LoggerPort
}

func NewSnapshotter(extractor Extractor, format Formatter, logger output.LoggerPort) *Snapshotter {
	if format == nil {
		format = FormatOutline
	}
	return &Snapshotter{
		extractor: extractor,
		format:    format,
		logger:    logger,
	}
}

func (s *Snapshotter) Take(ctx context.Context, page output.Page) string {
	text, _ := s.TakeWithTree(ctx, page)
	return text
}

// TakeWithTree also returns the extracted tree, nil when nothing was captured.
func (s *Snapshotter) TakeWithTree(ctx context.Context, page output.Page) (string, *entity.AccessibilityNode) {
	node, err := s.extractor.Extract(ctx, page)
	if err != nil {
		s.logger.Warn("Error generating accessibility snapshot", "error", err)
		return ErrorText, nil
	}
	if node == nil {
		return NoTreeText, nil
	}
	return s.format(node), node
}

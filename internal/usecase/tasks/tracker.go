package tasks

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"mcp-agent/internal/application/port/output"
	"mcp-agent/internal/domain/entity"
)

const (
	QueryPreviewChars  = 500
	OutputPreviewChars = 1000

	DefaultListLimit = 50
	MaxListLimit     = 200

	previewEllipsis = "…"
)

var ErrTaskNotFound = errors.New("task not found")

type Config struct {
	TTL       time.Duration
	RecentMax int
}

func DefaultConfig() Config {
	return Config{TTL: 24 * time.Hour, RecentMax: 200}
}

// Tracker records the lifecycle of agent invocations. Writes are best effort:
// store failures are logged and never surface to the caller.
type Tracker struct {
	store  output.StateStore
	cfg    Config
	logger output.LoggerPort
	now    func() time.Time
}

func NewTracker(store output.StateStore, cfg Config, logger output.LoggerPort) *Tracker {
	return &Tracker{store: store, cfg: cfg, logger: logger, now: time.Now}
}

func timestamp(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

// Start marks taskID as running. A repeated id keeps its creation time and
// bumps the attempt counter.
func (t *Tracker) Start(ctx context.Context, taskID, query string) *entity.TaskRecord {
	now := timestamp(t.now())
	rec := &entity.TaskRecord{
		TaskID:       taskID,
		CreatedAt:    now,
		UpdatedAt:    now,
		Status:       entity.TaskStatusRunning,
		Attempts:     1,
		QueryPreview: Preview(query, QueryPreviewChars),
		QuerySHA256:  Digest(query),
	}

	existing, err := t.store.GetTask(ctx, taskID)
	if err != nil {
		t.logger.Warn("Failed to read task state", "task_id", taskID, "error", err)
	}
	if existing != nil {
		rec.CreatedAt = existing.CreatedAt
		rec.Attempts = existing.Attempts + 1
	}

	t.put(ctx, rec)
	if err := t.store.AddRecent(ctx, taskID, t.cfg.RecentMax); err != nil {
		t.logger.Warn("Failed to index recent task", "task_id", taskID, "error", err)
	}
	return rec
}

func (t *Tracker) Succeed(ctx context.Context, rec *entity.TaskRecord, finalAnswer string) {
	preview := Preview(finalAnswer, OutputPreviewChars)
	rec.UpdatedAt = timestamp(t.now())
	rec.Status = entity.TaskStatusSucceeded
	rec.LastOutputPreview = &preview
	rec.LastError = nil
	t.put(ctx, rec)
}

// Fail reloads the stored record and marks it failed. Nothing is written when
// the record is gone.
func (t *Tracker) Fail(ctx context.Context, taskID string, cause error) {
	rec, err := t.store.GetTask(ctx, taskID)
	if err != nil {
		t.logger.Warn("Failed to read task state", "task_id", taskID, "error", err)
		return
	}
	if rec == nil {
		return
	}
	msg := Preview(cause.Error(), OutputPreviewChars)
	rec.UpdatedAt = timestamp(t.now())
	rec.Status = entity.TaskStatusFailed
	rec.LastError = &msg
	t.put(ctx, rec)
}

func (t *Tracker) put(ctx context.Context, rec *entity.TaskRecord) {
	if err := t.store.PutTask(ctx, rec, t.cfg.TTL); err != nil {
		t.logger.Warn("Failed to persist task state", "task_id", rec.TaskID, "error", err)
	}
}

func (t *Tracker) Get(ctx context.Context, taskID string) (*entity.TaskRecord, error) {
	rec, err := t.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrTaskNotFound
	}
	return rec, nil
}

// Recent returns the newest records first. Ids whose record expired are
// skipped.
func (t *Tracker) Recent(ctx context.Context, limit int) ([]*entity.TaskRecord, error) {
	ids, err := t.store.ListRecent(ctx, ClampLimit(limit))
	if err != nil {
		return nil, err
	}
	out := make([]*entity.TaskRecord, 0, len(ids))
	for _, id := range ids {
		rec, err := t.store.GetTask(ctx, id)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			out = append(out, rec)
		}
	}
	return out, nil
}

func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return 1
	case limit > MaxListLimit:
		return MaxListLimit
	}
	return limit
}

// Preview cuts s to limit characters and marks the cut.
func Preview(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + previewEllipsis
}

func Digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

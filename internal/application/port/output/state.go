package output

import (
	"context"
	"time"

	"mcp-agent/internal/domain/entity"
)

type StateStore interface {
	GetTask(ctx context.Context, taskID string) (*entity.TaskRecord, error)
	PutTask(ctx context.Context, record *entity.TaskRecord, ttl time.Duration) error
	AddRecent(ctx context.Context, taskID string, maxItems int) error
	ListRecent(ctx context.Context, limit int) ([]string, error)
	Close() error
}

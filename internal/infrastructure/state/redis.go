package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"mcp-agent/internal/application/port/output"
	"mcp-agent/internal/domain/entity"
)

var _ output.StateStore = (*RedisStore)(nil)

const recentTasksKey = "recent_tasks"

type RedisStore struct {
	client *redis.Client
	logger output.LoggerPort
}

// NewRedisStore connects using a redis:// URL and verifies the connection.
func NewRedisStore(ctx context.Context, url string, logger output.LoggerPort) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &RedisStore{client: client, logger: logger}, nil
}

func taskKey(taskID string) string {
	return "task:" + taskID
}

// GetTask treats an undecodable record as absent.
func (s *RedisStore) GetTask(ctx context.Context, taskID string) (*entity.TaskRecord, error) {
	raw, err := s.client.Get(ctx, taskKey(taskID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	var rec entity.TaskRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		s.logger.Warn("Dropping undecodable task record", "task_id", taskID, "error", err)
		return nil, nil
	}
	return &rec, nil
}

func (s *RedisStore) PutTask(ctx context.Context, record *entity.TaskRecord, ttl time.Duration) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}
	if err := s.client.Set(ctx, taskKey(record.TaskID), data, ttl).Err(); err != nil {
		return fmt.Errorf("put task: %w", err)
	}
	return nil
}

func (s *RedisStore) AddRecent(ctx context.Context, taskID string, maxItems int) error {
	pipe := s.client.TxPipeline()
	pipe.LRem(ctx, recentTasksKey, 0, taskID)
	pipe.LPush(ctx, recentTasksKey, taskID)
	pipe.LTrim(ctx, recentTasksKey, 0, int64(maxItems-1))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("add recent task: %w", err)
	}
	return nil
}

func (s *RedisStore) ListRecent(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		return []string{}, nil
	}
	ids, err := s.client.LRange(ctx, recentTasksKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("list recent tasks: %w", err)
	}
	return ids, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

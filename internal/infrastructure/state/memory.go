package state

import (
	"context"
	"slices"
	"sync"
	"time"

	"mcp-agent/internal/application/port/output"
	"mcp-agent/internal/domain/entity"
)

var _ output.StateStore = (*MemoryStore)(nil)

// MemoryStore keeps task summaries in process. TTLs are not enforced.
type MemoryStore struct {
	mu     sync.RWMutex
	tasks  map[string]entity.TaskRecord
	recent []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tasks: make(map[string]entity.TaskRecord)}
}

func (s *MemoryStore) GetTask(ctx context.Context, taskID string) (*entity.TaskRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.tasks[taskID]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *MemoryStore) PutTask(ctx context.Context, record *entity.TaskRecord, ttl time.Duration) error {
	s.mu.Lock()
	s.tasks[record.TaskID] = *record
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) AddRecent(ctx context.Context, taskID string, maxItems int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recent = slices.DeleteFunc(s.recent, func(id string) bool { return id == taskID })
	s.recent = slices.Insert(s.recent, 0, taskID)
	if maxItems >= 0 && len(s.recent) > maxItems {
		s.recent = s.recent[:maxItems]
	}
	return nil
}

func (s *MemoryStore) ListRecent(ctx context.Context, limit int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := min(max(limit, 0), len(s.recent))
	return slices.Clone(s.recent[:n]), nil
}

func (s *MemoryStore) Close() error {
	return nil
}

package tasks

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcp-agent/internal/domain/entity"
	"mcp-agent/internal/infrastructure/logger"
	"mcp-agent/internal/infrastructure/state"
)

type failingStore struct {
	*state.MemoryStore
	err error
}

func (s failingStore) GetTask(ctx context.Context, id string) (*entity.TaskRecord, error) {
	return nil, s.err
}

func (s failingStore) PutTask(ctx context.Context, rec *entity.TaskRecord, ttl time.Duration) error {
	return s.err
}

func (s failingStore) AddRecent(ctx context.Context, id string, max int) error {
	return s.err
}

func newTracker(t *testing.T) (*Tracker, *state.MemoryStore, *time.Time) {
	t.Helper()
	store := state.NewMemoryStore()
	tr := NewTracker(store, DefaultConfig(), logger.NewNop())
	clock := time.Unix(1_700_000_000, 0)
	tr.now = func() time.Time { return clock }
	return tr, store, &clock
}

func TestTracker_Lifecycle(t *testing.T) {
	ctx := context.Background()
	tr, store, clock := newTracker(t)

	rec := tr.Start(ctx, "t1", "find shoes")
	assert.Equal(t, entity.TaskStatusRunning, rec.Status)
	assert.Equal(t, 1, rec.Attempts)
	assert.Equal(t, "find shoes", rec.QueryPreview)
	assert.Equal(t, Digest("find shoes"), rec.QuerySHA256)
	assert.Len(t, rec.QuerySHA256, 64)

	*clock = clock.Add(5 * time.Second)
	tr.Succeed(ctx, rec, "done")

	got, err := store.GetTask(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, got.LastOutputPreview)
	assert.Equal(t, entity.TaskStatusSucceeded, got.Status)
	assert.Equal(t, "done", *got.LastOutputPreview)
	assert.Nil(t, got.LastError)
	assert.InDelta(t, 5.0, got.UpdatedAt-got.CreatedAt, 0.001)
}

func TestTracker_RetryKeepsCreationTime(t *testing.T) {
	ctx := context.Background()
	tr, _, clock := newTracker(t)

	first := tr.Start(ctx, "t1", "q")
	*clock = clock.Add(time.Minute)
	second := tr.Start(ctx, "t1", "q")

	assert.Equal(t, 2, second.Attempts)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Greater(t, second.UpdatedAt, first.UpdatedAt)
}

func TestTracker_Fail(t *testing.T) {
	ctx := context.Background()
	tr, store, _ := newTracker(t)

	tr.Start(ctx, "t1", "q")
	tr.Fail(ctx, "t1", errors.New(strings.Repeat("e", 1200)))

	got, err := store.GetTask(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, got.LastError)
	assert.Equal(t, entity.TaskStatusFailed, got.Status)
	assert.Equal(t, strings.Repeat("e", 1000)+"…", *got.LastError)

	tr.Fail(ctx, "missing", errors.New("boom"))
	missing, err := store.GetTask(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTracker_StoreFailuresAreSwallowed(t *testing.T) {
	ctx := context.Background()
	tr := NewTracker(failingStore{state.NewMemoryStore(), errors.New("down")}, DefaultConfig(), logger.NewNop())

	rec := tr.Start(ctx, "t1", "q")
	assert.Equal(t, 1, rec.Attempts)

	assert.NotPanics(t, func() {
		tr.Succeed(ctx, rec, "ok")
		tr.Fail(ctx, "t1", errors.New("x"))
	})
}

func TestTracker_GetAndRecent(t *testing.T) {
	ctx := context.Background()
	tr, store, _ := newTracker(t)

	_, err := tr.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrTaskNotFound)

	tr.Start(ctx, "a", "q")
	tr.Start(ctx, "b", "q")
	require.NoError(t, store.AddRecent(ctx, "expired", 10))

	recs, err := tr.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "b", recs[0].TaskID)
	assert.Equal(t, "a", recs[1].TaskID)

	rec, err := tr.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", rec.TaskID)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 1, ClampLimit(0))
	assert.Equal(t, 1, ClampLimit(-4))
	assert.Equal(t, 50, ClampLimit(50))
	assert.Equal(t, MaxListLimit, ClampLimit(1000))
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "abc", Preview("abc", 3))
	assert.Equal(t, "ab…", Preview("abc", 2))
	assert.Equal(t, "héé…", Preview("hééllo", 3))
	assert.Equal(t, "", Preview("", 5))
}

package cache

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-api/internal/domain/entity"
	"todo-api/internal/domain/model"
	"todo-api/pkg/redis"
)

type stubTaskGateway struct {
	tasks     []entity.Task
	findCalls int
	updated   *entity.Task
	err       error
}

func (s *stubTaskGateway) FindAll(context.Context) ([]entity.Task, error) {
	s.findCalls++
	if s.err != nil {
		return nil, s.err
	}
	return append([]entity.Task(nil), s.tasks...), nil
}

func (s *stubTaskGateway) Create(_ context.Context, task entity.Task) (*entity.Task, error) {
	if s.err != nil {
		return nil, s.err
	}
	task.ID = strconv.Itoa(len(s.tasks) + 1)
	s.tasks = append(s.tasks, task)
	return &task, nil
}

func (s *stubTaskGateway) UpdateByID(context.Context, string, model.TaskChanges) (*entity.Task, error) {
	return s.updated, s.err
}

func (s *stubTaskGateway) DeleteByID(context.Context, string) error {
	if s.err != nil {
		return s.err
	}
	s.tasks = nil
	return nil
}

type failingStore struct{}

func (failingStore) Get(context.Context, string, any) (bool, error) {
	return false, errors.New("connection refused")
}

func (failingStore) Set(context.Context, string, any) error {
	return errors.New("connection refused")
}

func (failingStore) Incr(context.Context, string) (int64, error) {
	return 0, errors.New("connection refused")
}

func newTestCache(t *testing.T) (*miniredis.Miniredis, *redis.Cache) {
	t.Helper()

	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	client, err := redis.NewClient(redis.NewRedisConfig().WithHost(mr.Host()).WithPort(port))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return mr, redis.NewCache(client, "tasks", time.Minute)
}

func TestTaskCacheGatewayFindAllIsCached(t *testing.T) {
	mr, store := newTestCache(t)
	next := &stubTaskGateway{tasks: []entity.Task{{ID: "1", Title: "Buy milk", Priority: entity.PriorityLow}}}
	gateway := NewTaskCacheGateway(next, store)
	ctx := context.Background()

	first, err := gateway.FindAll(ctx)
	require.NoError(t, err)
	second, err := gateway.FindAll(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, next.findCalls)
	assert.Equal(t, first, second)
	assert.True(t, mr.Exists("tasks::all:0"))
}

func TestTaskCacheGatewayWritesInvalidate(t *testing.T) {
	_, store := newTestCache(t)
	next := &stubTaskGateway{}
	gateway := NewTaskCacheGateway(next, store)
	ctx := context.Background()

	tasks, err := gateway.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	_, err = gateway.Create(ctx, entity.Task{Title: "Buy milk"})
	require.NoError(t, err)

	tasks, err = gateway.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, 2, next.findCalls)

	next.updated = &entity.Task{ID: "1", Title: "Buy oat milk"}
	_, err = gateway.UpdateByID(ctx, "1", model.TaskChanges{})
	require.NoError(t, err)
	_, err = gateway.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, next.findCalls)

	require.NoError(t, gateway.DeleteByID(ctx, "1"))
	tasks, err = gateway.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.Equal(t, 4, next.findCalls)
}

func TestTaskCacheGatewayUpdateMissingKeepsCache(t *testing.T) {
	_, store := newTestCache(t)
	next := &stubTaskGateway{}
	gateway := NewTaskCacheGateway(next, store)
	ctx := context.Background()

	_, err := gateway.FindAll(ctx)
	require.NoError(t, err)

	updated, err := gateway.UpdateByID(ctx, "missing", model.TaskChanges{})
	require.NoError(t, err)
	assert.Nil(t, updated)

	_, err = gateway.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, next.findCalls)
}

func TestTaskCacheGatewayFailedWriteKeepsCache(t *testing.T) {
	_, store := newTestCache(t)
	next := &stubTaskGateway{}
	gateway := NewTaskCacheGateway(next, store)
	ctx := context.Background()

	_, err := gateway.FindAll(ctx)
	require.NoError(t, err)

	next.err = errors.New("store down")
	_, err = gateway.Create(ctx, entity.Task{Title: "Buy milk"})
	assert.Error(t, err)

	next.err = nil
	_, err = gateway.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, next.findCalls)
}

func TestTaskCacheGatewayFallsThroughOnCacheFailure(t *testing.T) {
	next := &stubTaskGateway{tasks: []entity.Task{{ID: "1", Title: "Buy milk"}}}
	gateway := NewTaskCacheGateway(next, failingStore{})
	ctx := context.Background()

	tasks, err := gateway.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)

	created, err := gateway.Create(ctx, entity.Task{Title: "Walk the dog"})
	require.NoError(t, err)
	assert.Equal(t, "Walk the dog", created.Title)

	tasks, err = gateway.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestHealthCacheGateways(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	client, err := redis.NewClient(redis.NewRedisConfig().WithHost(mr.Host()).WithPort(port))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	health := NewRedisHealthCacheGateway(client).Health(context.Background())
	assert.Equal(t, model.StatusUp, health.Status)

	disabled := DisabledHealthCacheGateway{}.Health(context.Background())
	assert.Equal(t, model.StatusUnknown, disabled.Status)
}

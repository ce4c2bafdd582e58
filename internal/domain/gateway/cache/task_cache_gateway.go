package cache

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"todo-api/internal/domain/entity"
	"todo-api/internal/domain/gateway/db"
	"todo-api/internal/domain/model"
	"todo-api/pkg/log"
	"todo-api/pkg/msg"
)

const (
	generationKey  = "generation"
	allTasksPrefix = "all:"
)

// Store is the key-value cache backing TaskCacheGateway
type Store interface {
	Get(ctx context.Context, key string, dest any) (found bool, err error)
	Set(ctx context.Context, key string, value any) error
	Incr(ctx context.Context, key string) (int64, error)
}

// TaskCacheGateway serves FindAll from a cache and delegates every other
// operation to the wrapped gateway. Each write bumps a generation counter,
// so a list cached before the write is never returned after it.
type TaskCacheGateway struct {
	next  db.TaskGateway
	store Store
}

var _ db.TaskGateway = (*TaskCacheGateway)(nil)

func NewTaskCacheGateway(next db.TaskGateway, store Store) *TaskCacheGateway {
	return &TaskCacheGateway{next: next, store: store}
}

func (gateway *TaskCacheGateway) FindAll(ctx context.Context) ([]entity.Task, error) {
	key, cacheable := gateway.currentKey(ctx)
	if cacheable {
		var cached []entity.Task
		found, err := gateway.store.Get(ctx, key, &cached)
		if err != nil {
			log.Warn(msg.GetMessage("task.cache.read-failed", err), zap.String("key", key))
		} else if found {
			return cached, nil
		}
	}

	tasks, err := gateway.next.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := gateway.store.Set(ctx, key, tasks); err != nil {
			log.Warn(msg.GetMessage("task.cache.write-failed", err), zap.String("key", key))
		}
	}
	return tasks, nil
}

func (gateway *TaskCacheGateway) Create(ctx context.Context, task entity.Task) (*entity.Task, error) {
	created, err := gateway.next.Create(ctx, task)
	if err != nil {
		return nil, err
	}
	gateway.evict(ctx)
	return created, nil
}

func (gateway *TaskCacheGateway) UpdateByID(ctx context.Context, id string, changes model.TaskChanges) (*entity.Task, error) {
	updated, err := gateway.next.UpdateByID(ctx, id, changes)
	if err != nil {
		return nil, err
	}
	if updated != nil {
		gateway.evict(ctx)
	}
	return updated, nil
}

func (gateway *TaskCacheGateway) DeleteByID(ctx context.Context, id string) error {
	if err := gateway.next.DeleteByID(ctx, id); err != nil {
		return err
	}
	gateway.evict(ctx)
	return nil
}

// currentKey returns the list key of the current generation. When the
// generation cannot be read the cache is bypassed for this call.
func (gateway *TaskCacheGateway) currentKey(ctx context.Context) (string, bool) {
	var generation int64
	if _, err := gateway.store.Get(ctx, generationKey, &generation); err != nil {
		log.Warn(msg.GetMessage("task.cache.read-failed", err), zap.String("key", generationKey))
		return "", false
	}
	return allTasksPrefix + strconv.FormatInt(generation, 10), true
}

func (gateway *TaskCacheGateway) evict(ctx context.Context) {
	if _, err := gateway.store.Incr(ctx, generationKey); err != nil {
		log.Error(msg.GetMessage("task.cache.evict-failed", err), zap.String("key", generationKey))
	}
}

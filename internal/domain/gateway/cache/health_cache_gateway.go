package cache

import (
	"context"

	"todo-api/internal/domain/model"
	"todo-api/pkg/redis"
)

type HealthCacheGateway interface {
	Health(ctx context.Context) model.ComponentHealthStatus
}

type RedisHealthCacheGateway struct {
	checker *redis.HealthChecker
}

var _ HealthCacheGateway = (*RedisHealthCacheGateway)(nil)

func NewRedisHealthCacheGateway(client *redis.Client) *RedisHealthCacheGateway {
	return &RedisHealthCacheGateway{checker: redis.NewHealthChecker(client)}
}

func (gateway *RedisHealthCacheGateway) Health(ctx context.Context) model.ComponentHealthStatus {
	check := gateway.checker.HealthCheck(ctx)

	status := model.StatusDown
	if check.Status == redis.StatusUp {
		status = model.StatusUp
	}
	return model.ComponentHealthStatus{Status: status, Details: check.Details}
}

// DisabledHealthCacheGateway reports UNKNOWN when no cache is configured
type DisabledHealthCacheGateway struct{}

var _ HealthCacheGateway = DisabledHealthCacheGateway{}

func (DisabledHealthCacheGateway) Health(context.Context) model.ComponentHealthStatus {
	return model.ComponentHealthStatus{
		Status:  model.StatusUnknown,
		Details: map[string]string{"message": "cache disabled"},
	}
}

package health

import (
	"context"

	"todo-api/internal/domain/gateway/cache"
	"todo-api/internal/domain/gateway/db"
	"todo-api/internal/domain/model"
)

type healthUseCase struct {
	dbGateway    db.HealthDBGateway
	cacheGateway cache.HealthCacheGateway
}

func NewHealthUseCase(dbGateway db.HealthDBGateway, cacheGateway cache.HealthCacheGateway) UseCase {
	if cacheGateway == nil {
		cacheGateway = cache.DisabledHealthCacheGateway{}
	}
	return &healthUseCase{
		dbGateway:    dbGateway,
		cacheGateway: cacheGateway,
	}
}

// CheckHealth is DOWN when any configured dependency is down. A disabled
// cache reports UNKNOWN and does not affect the overall status.
func (useCase *healthUseCase) CheckHealth(ctx context.Context) model.HealthResponse {
	dbHealth := useCase.dbGateway.Health(ctx)
	cacheHealth := useCase.cacheGateway.Health(ctx)

	overallStatus := model.StatusUp
	if dbHealth.Status != model.StatusUp || cacheHealth.Status == model.StatusDown {
		overallStatus = model.StatusDown
	}

	return model.HealthResponse{
		Status:   overallStatus,
		Database: dbHealth,
		Cache:    cacheHealth,
	}
}

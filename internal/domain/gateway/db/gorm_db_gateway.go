package db

import (
	"context"

	"gorm.io/gorm"

	"todo-api/internal/domain/model"
)

type GormHealthDBGateway struct {
	DB *gorm.DB
}

var _ HealthDBGateway = (*GormHealthDBGateway)(nil)

func NewGormHealthDBGateway(db *gorm.DB) *GormHealthDBGateway {
	return &GormHealthDBGateway{DB: db}
}

func (gateway *GormHealthDBGateway) Health(ctx context.Context) model.ComponentHealthStatus {
	sqlDB, err := gateway.DB.DB()
	if err != nil {
		return healthFromPing("gorm", err)
	}

	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	return healthFromPing("gorm", sqlDB.PingContext(ctx))
}

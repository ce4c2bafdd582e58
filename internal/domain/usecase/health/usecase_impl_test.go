package health

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"todo-api/internal/domain/model"
)

type stubHealth struct {
	status model.HealthStatus
}

func (s stubHealth) Health(context.Context) model.ComponentHealthStatus {
	return model.ComponentHealthStatus{Status: s.status, Details: map[string]string{}}
}

func TestCheckHealth(t *testing.T) {
	tests := []struct {
		name     string
		database model.HealthStatus
		cache    model.HealthStatus
		expected model.HealthStatus
	}{
		{name: "all up", database: model.StatusUp, cache: model.StatusUp, expected: model.StatusUp},
		{name: "cache disabled", database: model.StatusUp, cache: model.StatusUnknown, expected: model.StatusUp},
		{name: "database down", database: model.StatusDown, cache: model.StatusUp, expected: model.StatusDown},
		{name: "cache down", database: model.StatusUp, cache: model.StatusDown, expected: model.StatusDown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useCase := NewHealthUseCase(stubHealth{status: tt.database}, stubHealth{status: tt.cache})

			response := useCase.CheckHealth(context.Background())
			assert.Equal(t, tt.expected, response.Status)
			assert.Equal(t, tt.database, response.Database.Status)
			assert.Equal(t, tt.cache, response.Cache.Status)
		})
	}
}

func TestCheckHealthWithoutCacheGateway(t *testing.T) {
	response := NewHealthUseCase(stubHealth{status: model.StatusUp}, nil).CheckHealth(context.Background())
	assert.Equal(t, model.StatusUp, response.Status)
	assert.Equal(t, model.StatusUnknown, response.Cache.Status)
}

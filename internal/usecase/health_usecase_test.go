package usecase_test

import (
	"context"
	"errors"
	"testing"

	"cvchef-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func TestHealthUsecase_Check(t *testing.T) {
	up := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	t.Run("All up", func(t *testing.T) {
		uc := usecase.NewHealthUsecase(
			map[string]usecase.HealthCheck{"database": up},
			map[string]usecase.HealthCheck{"redis": up},
		)
		status, ok := uc.Check(context.Background())
		assert.True(t, ok)
		assert.Equal(t, map[string]string{"status": "ok", "database": "up", "redis": "up"}, status)
	})

	t.Run("Optional failure degrades", func(t *testing.T) {
		uc := usecase.NewHealthUsecase(
			map[string]usecase.HealthCheck{"database": up},
			map[string]usecase.HealthCheck{"redis": down},
		)
		status, ok := uc.Check(context.Background())
		assert.True(t, ok)
		assert.Equal(t, "degraded", status["redis"])
		assert.Equal(t, "ok", status["status"])
	})

	t.Run("Required failure", func(t *testing.T) {
		uc := usecase.NewHealthUsecase(
			map[string]usecase.HealthCheck{"database": down},
			nil,
		)
		status, ok := uc.Check(context.Background())
		assert.False(t, ok)
		assert.Equal(t, "down", status["database"])
		assert.Equal(t, "unavailable", status["status"])
	})
}

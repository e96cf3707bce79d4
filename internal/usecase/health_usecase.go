package usecase

import (
	"context"
	"sort"
	"time"
)

// HealthCheck pings one dependency.
type HealthCheck func(ctx context.Context) error

type HealthUsecase interface {
	Check(ctx context.Context) (map[string]string, bool)
}

type healthUsecase struct {
	required map[string]HealthCheck
	optional map[string]HealthCheck
}

// NewHealthUsecase reports unhealthy only when a required check fails.
// Optional dependencies are listed as degraded.
func NewHealthUsecase(required, optional map[string]HealthCheck) HealthUsecase {
	return &healthUsecase{required: required, optional: optional}
}

func (u *healthUsecase) Check(ctx context.Context) (map[string]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := map[string]string{"status": "ok"}
	healthy := true

	for _, name := range sortedKeys(u.required) {
		if err := u.required[name](ctx); err != nil {
			status[name] = "down"
			healthy = false
			continue
		}
		status[name] = "up"
	}
	for _, name := range sortedKeys(u.optional) {
		if err := u.optional[name](ctx); err != nil {
			status[name] = "degraded"
			continue
		}
		status[name] = "up"
	}

	if !healthy {
		status["status"] = "unavailable"
	}
	return status, healthy
}

func sortedKeys(m map[string]HealthCheck) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package usecase

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"go-jobboard-backend/internal/domain"
)

const healthTimeout = 3 * time.Second

type healthUsecase struct {
	deps map[string]domain.Pinger
}

// NewHealthUsecase checks each named dependency. Nil pingers are skipped.
func NewHealthUsecase(deps map[string]domain.Pinger) domain.HealthUsecase {
	clean := make(map[string]domain.Pinger, len(deps))
	for name, p := range deps {
		if p != nil {
			clean[name] = p
		}
	}
	return &healthUsecase{deps: clean}
}

func (u *healthUsecase) Check(ctx context.Context) (map[string]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	names := make([]string, 0, len(u.deps))
	for name := range u.deps {
		names = append(names, name)
	}
	results := make([]string, len(names))

	var g errgroup.Group
	for i, name := range names {
		i, p := i, u.deps[name]
		g.Go(func() error {
			if err := p.Ping(ctx); err != nil {
				results[i] = "down"
			} else {
				results[i] = "up"
			}
			return nil
		})
	}
	_ = g.Wait()

	status := map[string]string{"status": "ok"}
	healthy := true
	for i, name := range names {
		status[name] = results[i]
		if results[i] != "up" {
			healthy = false
		}
	}
	if !healthy {
		status["status"] = "degraded"
	}
	return status, healthy
}

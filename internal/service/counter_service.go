package service

import (
	"context"
	"log/slog"

	"athlos/internal/middleware"
	"athlos/internal/observability"
	"athlos/internal/repository"
)

// CounterService reconciles the denormalized per-post counters against their
// child tables. Normal operation keeps the counters exact (every mutation is
// transactional), so a repair run is expected to touch zero rows; non-zero
// results indicate drift from manual data surgery or a historical bug and are
// logged per counter.
type CounterService struct {
	postRepo repository.PostRepository
}

// CounterRepairResult reports one repair run.
type CounterRepairResult struct {
	RowsRepaired map[string]int64 `json:"rows_repaired"`
	Total        int64            `json:"total"`
}

// NewCounterService creates a new counter service.
func NewCounterService(postRepo repository.PostRepository) *CounterService {
	return &CounterService{postRepo: postRepo}
}

// RepairPostCounters recomputes every counter from its child table and
// overwrites drifted rows. The operation is idempotent: a second run
// immediately after repairs nothing.
func (s *CounterService) RepairPostCounters(ctx context.Context) (*CounterRepairResult, error) {
	result := &CounterRepairResult{RowsRepaired: make(map[string]int64, len(repository.PostCounters))}

	for _, counter := range repository.PostCounters {
		fixed, err := s.postRepo.RepairCounter(ctx, counter)
		if err != nil {
			return nil, err
		}

		observability.CounterRepairs.WithLabelValues(string(counter)).Inc()
		observability.CounterRowsRepaired.WithLabelValues(string(counter)).Add(float64(fixed))
		result.RowsRepaired[string(counter)] = fixed
		result.Total += fixed

		if fixed > 0 {
			middleware.Logger.WarnContext(ctx, "Counter drift repaired",
				slog.String("counter", string(counter)),
				slog.Int64("rows", fixed),
			)
		} else {
			middleware.Logger.InfoContext(ctx, "Counter verified, no drift",
				slog.String("counter", string(counter)),
			)
		}
	}

	return result, nil
}

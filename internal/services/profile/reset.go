package profile

import (
	"context"
	"fmt"
	"log/slog"
)

// CounterResetter обнуляет месячные счётчики договоров в хранилище.
type CounterResetter interface {
	ResetMonthlyCounters(ctx context.Context) (int64, error)
}

// CacheFlusher сбрасывает все закэшированные профили.
type CacheFlusher interface {
	InvalidateProfiles(ctx context.Context) (int64, error)
}

// ResetMonthlyCounters обнуляет счётчики и удаляет профили из кэша, чтобы квота
// освободилась сразу. Повторный запуск безопасен.
func ResetMonthlyCounters(ctx context.Context, repo CounterResetter, cache CacheFlusher, log *slog.Logger) (int64, error) {
	const op = "profile.ResetMonthlyCounters"
	n, err := repo.ResetMonthlyCounters(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	flushed, err := cache.InvalidateProfiles(ctx)
	if err != nil {
		return n, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("monthly counters reset", slog.Int64("profiles", n), slog.Int64("cache_entries", flushed))
	return n, nil
}

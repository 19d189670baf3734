// Команда quota-reset обнуляет месячные счётчики договоров и сбрасывает кэш профилей.
// Запускается по cron в начале месяца.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/contrato-facil/internal/cache"
	"github.com/magabrotheeeer/contrato-facil/internal/config"
	"github.com/magabrotheeeer/contrato-facil/internal/lib/logger"
	"github.com/magabrotheeeer/contrato-facil/internal/lib/sl"
	"github.com/magabrotheeeer/contrato-facil/internal/services/profile"
	"github.com/magabrotheeeer/contrato-facil/internal/storage/repository"
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("quota reset failed", sl.Err(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close storage", sl.Err(err))
		}
	}()

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return err
	}
	defer func() {
		if err := cacheRedis.Close(); err != nil {
			log.Error("failed to close cache", sl.Err(err))
		}
	}()

	_, err = profile.ResetMonthlyCounters(ctx, db, cacheRedis, log)
	return err
}

package contratofacil

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/contrato-facil/internal/cache"
	"github.com/magabrotheeeer/contrato-facil/internal/catalog"
	"github.com/magabrotheeeer/contrato-facil/internal/config"
	"github.com/magabrotheeeer/contrato-facil/internal/editor"
	"github.com/magabrotheeeer/contrato-facil/internal/export"
	"github.com/magabrotheeeer/contrato-facil/internal/lib/jwt"
	"github.com/magabrotheeeer/contrato-facil/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/contrato-facil/internal/lib/sl"
	"github.com/magabrotheeeer/contrato-facil/internal/migrations"
	"github.com/magabrotheeeer/contrato-facil/internal/services/auth"
	"github.com/magabrotheeeer/contrato-facil/internal/services/billing"
	"github.com/magabrotheeeer/contrato-facil/internal/services/contract"
	"github.com/magabrotheeeer/contrato-facil/internal/services/document"
	"github.com/magabrotheeeer/contrato-facil/internal/services/profile"
	"github.com/magabrotheeeer/contrato-facil/internal/services/quota"
	"github.com/magabrotheeeer/contrato-facil/internal/session"
	"github.com/magabrotheeeer/contrato-facil/internal/storage/objectstore"
	"github.com/magabrotheeeer/contrato-facil/internal/storage/repository"
)

// App HTTP-сервис генерации договоров.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New поднимает хранилища, сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	a := &App{
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}

	proofs, err := newProofStore(ctx, cfg.ObjectStorage, logger)
	if err != nil {
		a.close()
		return nil, err
	}

	var publisher auth.Publisher = discardPublisher{log: logger}
	if cfg.RabbitMQURL != "" {
		a.conn, err = rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
		if err != nil {
			a.close()
			return nil, err
		}
		a.ch, err = rabbitmq.SetupChannel(a.conn, rabbitmq.GetNotificationQueues())
		if err != nil {
			a.close()
			return nil, err
		}
		publisher = rabbitmq.NewPublisher(a.ch)
	} else if cfg.RequireEmailConfirmation {
		logger.Warn("email confirmation required but rabbitmq is not configured, confirmation emails will be dropped")
	}

	cat := catalog.MustLoad()
	profiles := profile.NewService(db, cacheRedis, logger)

	events := session.NewHolder()
	events.Subscribe(session.SignedIn, session.EnsureProfile(profiles))
	events.Subscribe(session.SignedOut, session.RevokeToken(cacheRedis, time.Now))
	events.Subscribe(session.SignedOut, session.DropProfile(profiles))

	tokens := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := auth.NewService(db, profiles, tokens, cacheRedis, publisher, events,
		auth.Options{RequireEmailConfirmation: cfg.RequireEmailConfirmation}, logger)

	gate := quota.NewGate(cat)
	renderer := editor.NewRenderer(time.Now)
	pdfExporter := export.NewPDFExporter("")

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg.HTTPServer, cfg.MaxProofSize, Services{
		Catalog:   cat,
		Auth:      authService,
		Documents: document.NewService(cat, profiles, gate, renderer, pdfExporter, logger),
		Contracts: contract.NewService(db, cat, profiles, gate, renderer, pdfExporter, time.Now, logger),
		Billing: billing.NewService(cat, profiles, db, proofs, billing.Options{
			PaidPlansEnabled: cfg.PaidPlansEnabled,
			MaxProofSize:     cfg.MaxProofSize,
		}, logger),
		Health: db,
	})

	a.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return a, nil
}

// Run обслуживает запросы до отмены ctx, затем корректно останавливает сервер.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.ch != nil {
		if err := a.ch.Close(); err != nil {
			a.logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if a.conn != nil {
		if err := a.conn.Close(); err != nil {
			a.logger.Error("failed to close connection", sl.Err(err))
		}
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close cache", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
}

// newProofStore подключает MinIO или, без endpoint, заглушку в памяти.
func newProofStore(ctx context.Context, cfg config.ObjectStorage, logger *slog.Logger) (billing.ProofStore, error) {
	if cfg.Endpoint == "" {
		logger.Warn("object storage endpoint is empty, payment proofs kept in memory")
		return objectstore.NewStub(), nil
	}
	store, err := objectstore.NewMinio(cfg)
	if err != nil {
		return nil, err
	}
	if err = store.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// discardPublisher заменяет брокер, когда RabbitMQ не настроен.
type discardPublisher struct {
	log *slog.Logger
}

func (p discardPublisher) Publish(_ context.Context, routingKey string, _ any) error {
	p.log.Debug("notification dropped", slog.String("routing_key", routingKey))
	return nil
}

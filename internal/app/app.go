package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/catalog-admin/internal/cfg"
	v1Grpc "github.com/DRSN-tech/catalog-admin/internal/delivery/v1/grpc"
	v1Http "github.com/DRSN-tech/catalog-admin/internal/delivery/v1/http"
	catalog_api "github.com/DRSN-tech/catalog-admin/internal/infrastructure/catalog-api"
	"github.com/DRSN-tech/catalog-admin/internal/infrastructure/kafka"
	"github.com/DRSN-tech/catalog-admin/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/catalog-admin/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/catalog-admin/internal/repository/redis"
	redisConv "github.com/DRSN-tech/catalog-admin/internal/repository/redis/converter"
	"github.com/DRSN-tech/catalog-admin/internal/usecase"
	"github.com/DRSN-tech/catalog-admin/pkg/closer"
	"github.com/DRSN-tech/catalog-admin/pkg/clients"
	"github.com/DRSN-tech/catalog-admin/pkg/e"
	"github.com/DRSN-tech/catalog-admin/pkg/jitter"
	"github.com/DRSN-tech/catalog-admin/pkg/logger"
	"github.com/DRSN-tech/catalog-admin/pkg/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	shutdownTimeout    = 10 * time.Second
	forcedCloseTimeout = 5 * time.Second
	topicTimeout       = 10 * time.Second
)

type App struct {
	cfg        *config.Config
	logger     logger.Logger
	closer     *closer.Closer
	categories *usecase.CategoryQuery
	httpSrv    *v1Http.Server
	grpcSrv    *v1Grpc.GRPCServer
	worker     *kafka.OutboxWorker // nil, если журнал отправок выключен
}

// NewApp подключает внешние зависимости и собирает граф компонентов.
func NewApp(cfg *config.Config, logger logger.Logger) (*App, error) {
	a := &App{
		cfg:    cfg,
		logger: logger,
		closer: closer.NewCloser(forcedCloseTimeout),
	}

	redisClient := clients.NewRedisClient(cfg.Redis)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx); err != nil {
		logger.Errorf(err, "failed to connect to redis")
		_ = redisClient.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.Add("redis", func(context.Context) error { return redisClient.Close() })

	endpoints := usecase.NewEndpoints(cfg.Backend.AccountID)
	backend := catalog_api.NewCatalogAPI(cfg.Backend.BaseURL, cfg.Backend.Timeout, logger)
	categoryCache := redis.NewCategoryCacheRepo(redisClient, redisConv.NewCategoryConverter(), cfg.Redis, cfg.Backend.AccountID, logger)
	sessions := redis.NewSessionRepo(redisClient, redisConv.NewSessionConverter(), logger)

	a.categories = usecase.NewCategoryQuery(
		backend,
		categoryCache,
		endpoints,
		cfg.Backend.FetchRetries,
		jitter.Backoff{Base: cfg.Backend.RetryBase, Max: cfg.Backend.RetryMax, Factor: jitter.DefaultJitter},
		logger,
	)

	var journal usecase.SubmissionJournal
	if cfg.EventsEnabled() {
		j, err := a.initJournal()
		if err != nil {
			_ = a.closer.Close(context.Background())
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		journal = j
	}

	submitter := usecase.NewSubmissionUC(backend, journal, logger)
	pageUC := usecase.NewAddPageUC(a.categories, submitter, sessions, endpoints, cfg.Page.AlertDuration, cfg.Page.SessionTTL, logger)

	a.grpcSrv = v1Grpc.NewGRPCServer(cfg.Grpc, logger)
	a.grpcSrv.RegisterServices()
	a.categories.OnStatusChange(a.grpcSrv.OnCategoryStatus)

	renderer, err := v1Http.NewRenderer()
	if err != nil {
		_ = a.closer.Close(context.Background())
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, logger)
	router.Init(v1Http.RouterDeps{
		PageUC:       pageUC,
		Categories:   a.categories,
		Renderer:     renderer,
		PublicURL:    cfg.Http.PublicURL,
		SessionTTL:   cfg.Page.SessionTTL,
		CookieSecure: cfg.Page.CookieSecure,
		RefetchWait:  cfg.Backend.Timeout,
	})

	a.httpSrv = v1Http.NewServer(r, cfg.Http)

	return a, nil
}

// initJournal поднимает Postgres outbox, Kafka producer и воркер публикации.
func (a *App) initJournal() (*usecase.OutboxJournal, error) {
	db, err := initPGDB(a.logger, a.cfg)
	if err != nil {
		return nil, err
	}
	a.closer.AddFunc("postgres", db.Close)

	producer := kafka.NewProducer(a.logger, a.cfg.Kafka)
	a.closer.Add("kafka producer", func(context.Context) error { return producer.Close() })

	if err := producer.EnsureTopic(topicTimeout); err != nil {
		a.logger.Errorf(err, "failed to ensure kafka topic")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, pgdbConv.NewOutboxEventConverter())
	a.worker = kafka.NewOutboxWorker(outboxRepo, a.logger, producer, a.cfg.Kafka.BatchSize, db.Dsn)

	a.logger.Infof("submission journal enabled, topic %s", a.cfg.Kafka.Topic)

	return usecase.NewOutboxJournal(outboxRepo, db.Pool, kafka.NewPayloadEncoder(), a.logger), nil
}

// Run запускает загрузку категорий, воркер и серверы и ждёт сигнала остановки.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	a.closer.AddFunc("background tasks", cancel)

	a.categories.Start(ctx)

	if a.worker != nil {
		a.worker.Start(ctx)
		a.closer.AddFunc("outbox worker", a.worker.Stop)
	}

	grpcErrCh := make(chan error, 1)
	go func() {
		a.logger.Infof("gRPC server starting on %s:%s", a.cfg.Grpc.NetworkMode, a.cfg.Grpc.Port)
		if err := a.grpcSrv.Start(); err != nil {
			a.logger.Errorf(err, "gRPC server failed")
			grpcErrCh <- err
		}
	}()
	a.closer.Add("grpc server", a.grpcSrv.Stop)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Errorf(err, "HTTP server failed: %v", err)
			errCh <- err
		}
	}()
	a.closer.Add("http server", a.httpSrv.Stop)

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case appErr = <-grpcErrCh:
		a.logger.Errorf(appErr, "gRPC server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	// === Graceful shutdown ===
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Warnf("shutdown finished with errors: %v", err)
	}

	a.logger.Infof("Application shutdown complete")
	return appErr
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		db.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}

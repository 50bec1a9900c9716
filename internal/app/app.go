package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/order-backoffice/internal/cfg"
	v1Grpc "github.com/DRSN-tech/order-backoffice/internal/delivery/v1/grpc"
	v1Http "github.com/DRSN-tech/order-backoffice/internal/delivery/v1/http"
	"github.com/DRSN-tech/order-backoffice/internal/infrastructure/kafka"
	minioInfra "github.com/DRSN-tech/order-backoffice/internal/infrastructure/minio"
	s3Repo "github.com/DRSN-tech/order-backoffice/internal/repository/minio"
	"github.com/DRSN-tech/order-backoffice/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/order-backoffice/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/order-backoffice/internal/repository/redis"
	redisConv "github.com/DRSN-tech/order-backoffice/internal/repository/redis/converter"
	"github.com/DRSN-tech/order-backoffice/internal/usecase"
	"github.com/DRSN-tech/order-backoffice/pkg/clients"
	"github.com/DRSN-tech/order-backoffice/pkg/closer"
	"github.com/DRSN-tech/order-backoffice/pkg/e"
	"github.com/DRSN-tech/order-backoffice/pkg/logger"
	"github.com/DRSN-tech/order-backoffice/pkg/postgres"
	"github.com/DRSN-tech/order-backoffice/pkg/tr"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	startupTimeout  = 10 * time.Second
	shutdownTimeout = 15 * time.Second
	topicTimeout    = 10 * time.Second
)

type App struct {
	cfg    *config.Config
	logger logger.Logger
	closer *closer.Closer

	httpSrv *v1Http.Server
	grpcSrv *v1Grpc.GRPCServer
	worker  *kafka.OutboxWorker

	// bgCtx живёт до остановки приложения, на нём работают фоновые задачи.
	bgCtx    context.Context
	bgCancel context.CancelFunc
}

// NewApp поднимает зависимости. Каждый открытый ресурс сразу регистрируется
// в closer, поэтому при ошибке на полпути уже открытое закрывается.
func NewApp(cfg *config.Config, logger logger.Logger) (*App, error) {
	bgCtx, bgCancel := context.WithCancel(context.Background())
	a := &App{
		cfg:      cfg,
		logger:   logger,
		closer:   closer.NewCloser(5*time.Second, logger),
		bgCtx:    bgCtx,
		bgCancel: bgCancel,
	}

	if err := a.init(); err != nil {
		bgCancel()
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if closeErr := a.closer.Close(ctx); closeErr != nil {
			logger.Errorf(closeErr, "failed to release resources after init error")
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return a, nil
}

func (a *App) init() error {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	// === PostgreSQL ===
	db, err := initPGDB(ctx, a.logger, a.cfg)
	if err != nil {
		return err
	}
	a.closer.Add("postgres", db.Close)
	trm := tr.NewManager(db.Pool, a.logger)

	categoryRepo := pgdb.NewCategoryRepo(db.Pool, pgdbConv.CategoryConv{})
	productRepo := pgdb.NewProductRepo(db.Pool, pgdbConv.ProductConv{})
	customerRepo := pgdb.NewCustomerRepo(db.Pool, pgdbConv.CustomerConv{})
	stockRepo := pgdb.NewStockRepo(db.Pool, pgdbConv.StockConv{})
	orderRepo := pgdb.NewOrderRepo(db.Pool, pgdbConv.OrderConv{})
	lineItemRepo := pgdb.NewLineItemRepo(db.Pool, pgdbConv.OrderConv{})
	paymentRepo := pgdb.NewPaymentRepo(db.Pool, pgdbConv.OrderConv{})
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, pgdbConv.OutboxEventConv{})

	// === Redis ===
	redisClient := clients.NewRedisClient(&a.cfg.Redis)
	if err := redisClient.Ping(ctx); err != nil {
		a.logger.Errorf(err, "failed to connect to redis")
		return e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.Add("redis", redisClient.Close)

	cacheRepo := redis.NewCacheRepo(redisClient, redisConv.ProductInfoConv{}, &a.cfg.Redis, a.logger)
	idempotencyRepo := redis.NewIdempotencyRepo(redisClient, &a.cfg.Redis)

	// === MinIO ===
	minioClient, err := clients.NewMinIOClient(&a.cfg.Minio)
	if err != nil {
		a.logger.Errorf(err, "failed to initialize minio client")
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if err := clients.EnsureBucket(ctx, minioClient, a.cfg.Minio.BucketName); err != nil {
		a.logger.Errorf(err, "failed to initialize MinIO bucket")
		return e.Wrap(whereami.WhereAmI(), err)
	}

	imageRepo := s3Repo.NewImageRepo(minioClient, &a.cfg.Minio)
	imagesInfra := minioInfra.NewMinioInfrastructure(imageRepo, &a.cfg.Minio, a.logger, a.bgCtx)
	a.closer.Add("minio cleanup", imagesInfra.WaitForCleanup)

	// === Kafka ===
	producer := kafka.NewProducer(a.logger, &a.cfg.Kafka)
	a.closer.Add("kafka producer", producer.Close)
	if err := producer.EnsureTopic(topicTimeout); err != nil {
		a.logger.Errorf(err, "failed to ensure kafka topic")
		return e.Wrap(whereami.WhereAmI(), err)
	}

	a.worker = kafka.NewOutboxWorker(outboxRepo, a.logger, producer, a.cfg.Kafka.OutboxBatchSize, a.cfg.Db.DSN())
	a.closer.Add("outbox worker", a.worker.Stop)

	// === Use cases ===
	ledger := usecase.NewStockLedger(stockRepo, trm, a.logger)
	settlement := usecase.NewSettlementUC(orderRepo, outboxRepo, ledger, trm, a.logger)
	catalogUC := usecase.NewCatalogUC(categoryRepo, productRepo, cacheRepo, imagesInfra, trm, a.logger, a.cfg.Minio.MaxImageSize)
	customerUC := usecase.NewCustomerUC(customerRepo, a.logger)
	orderUC := usecase.NewOrderUC(orderRepo, lineItemRepo, customerRepo, productRepo, ledger, settlement, trm, a.logger)
	paymentUC := usecase.NewPaymentUC(orderRepo, paymentRepo, idempotencyRepo, settlement, trm, a.logger)
	searchUC := usecase.NewSearchUC(categoryRepo, customerRepo, productRepo)

	// === Delivery ===
	a.grpcSrv = v1Grpc.NewGRPCServer(&a.cfg.Grpc, a.logger)
	a.grpcSrv.RegisterServices(orderUC, catalogUC)
	a.closer.Add("grpc server", a.grpcSrv.Stop)

	r := chi.NewRouter()
	v1Http.NewRouter(r, a.logger).Init(v1Http.UseCases{
		Catalog:  catalogUC,
		Customer: customerUC,
		Stock:    ledger,
		Order:    orderUC,
		Payment:  paymentUC,
		Search:   searchUC,
	}, a.cfg.Http.SwaggerHost, a.cfg.Minio.MaxImageSize)

	a.httpSrv = v1Http.NewServer(r, &a.cfg.Http)
	a.closer.Add("http server", a.httpSrv.Stop)

	return nil
}

// Run запускает серверы и outbox worker и блокируется до сигнала или фатальной ошибки.
func (a *App) Run() error {
	a.worker.Start(a.bgCtx)

	errCh := make(chan error, 2)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- e.Wrap("http server", err)
		}
	}()

	go func() {
		a.logger.Infof("gRPC server starting on %s:%s", a.cfg.Grpc.NetworkMode, a.cfg.Grpc.Port)
		if err := a.grpcSrv.Start(); err != nil {
			errCh <- e.Wrap("grpc server", err)
		}
	}()

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "server fatal error")
	case sig := <-shutdown:
		a.logger.Infof("received %s, stopping gracefully", sig)
	}

	// === Graceful shutdown ===
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.closer.Close(ctx); err != nil {
		a.logger.Errorf(err, "shutdown finished with errors")
		appErr = errors.Join(appErr, err)
	}
	// фоновые задачи, не уложившиеся в таймаут, прерываются только здесь
	a.bgCancel()

	a.logger.Infof("Application shutdown complete")
	return appErr
}

func initPGDB(ctx context.Context, logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(ctx, &cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		_ = db.Close(ctx)
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}

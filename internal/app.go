package internal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"minidrive-api/config"
	"minidrive-api/internal/application/ports"
	"minidrive-api/internal/application/services"
	"minidrive-api/internal/infrastructure/db/postgres"
	fileDB "minidrive-api/internal/infrastructure/db/postgres/file"
	userDB "minidrive-api/internal/infrastructure/db/postgres/user"
	"minidrive-api/internal/infrastructure/jwt"
	"minidrive-api/internal/infrastructure/metrics"
	"minidrive-api/internal/infrastructure/mq"
	"minidrive-api/internal/infrastructure/storage/local"
	s3storage "minidrive-api/internal/infrastructure/storage/s3"
	"minidrive-api/internal/interface/api/rest"
	"minidrive-api/internal/interface/api/rest/middleware"
	"minidrive-api/pkg/rmqconsumer"
)

type App struct {
	logger     *zap.Logger
	cfg        config.Config
	db         *pgxpool.Pool
	storage    ports.Storage
	httpSrv    *http.Server
	router     *gin.Engine
	mCounter   *prometheus.CounterVec
	publisher  ports.EventPublisher
	mq         ports.RabbitMQ
	mqConsumer ports.RMQConsumer
}

func NewApp(ctx context.Context) (*App, error) {
	// logger
	var (
		logger *zap.Logger
		err    error
	)
	if os.Getenv("SERVICE_ENV") == "dev" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("cannot initialize zap logger: %v", err)
	}
	defer logger.Sync()

	// config
	if err = godotenv.Load(".env"); err != nil {
		logger.Info("no .env file, using process environment", zap.Error(err))
	}
	cfg := config.Load()
	if err = config.Validate(cfg); err != nil {
		return nil, err
	}

	// metrics
	mCounter := metrics.NewCounter()

	// router
	switch cfg.App.Env {
	case gin.ReleaseMode, "prod", "production":
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()
	r.Use(ginzap.RecoveryWithZap(logger, true))
	r.Use(middleware.RequestID())
	r.Use(middleware.SecureHeaders())
	r.Use(middleware.RequestLogGin(logger, mCounter))
	if cfg.App.RateLimitPerMinute > 0 {
		r.Use(middleware.NewRateLimiter(cfg.App.RateLimitPerMinute).Middleware())
	}

	// httpServer
	httpSrv := &http.Server{
		Addr:              cfg.App.Host + ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// db
	dbDsn, err := cfg.DBDSN()
	if err != nil {
		return nil, fmt.Errorf("db config: %w", err)
	}
	dbPool, err := postgres.New(ctx, logger, dbDsn)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err = postgres.Migrate(ctx, logger, dbDsn); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	// storage
	var storage ports.Storage
	switch cfg.Storage.Driver {
	case config.StorageDriverS3:
		storage, err = s3storage.New(ctx, logger, cfg.S3)
	default:
		storage, err = local.New(logger, cfg.Storage.Root)
	}
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("init %s storage: %w", cfg.Storage.Driver, err)
	}

	app := &App{
		logger:    logger,
		cfg:       cfg,
		db:        dbPool,
		storage:   storage,
		httpSrv:   httpSrv,
		router:    r,
		mCounter:  mCounter,
		publisher: mq.NopPublisher{},
	}

	if !cfg.MQ.Enabled {
		logger.Info("rabbitMQ disabled, file events are not published")
		return app, nil
	}

	// rabbitMQ
	rabbitDsn, err := cfg.AMQPDSN()
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("rabbitMQ config: %w", err)
	}
	rbMQ := mq.New(cfg.MQ, logger, func() {
		mCounter.WithLabelValues(metrics.EventPublishDropped).Inc()
	})
	if err = rbMQ.Connect(ctx, rabbitDsn); err != nil {
		app.Close()
		return nil, fmt.Errorf("connect to rabbitMQ: %w", err)
	}
	app.mq = rbMQ
	app.publisher = rbMQ
	if err = rbMQ.Init(); err != nil {
		app.Close()
		return nil, fmt.Errorf("init rabbitMQ: %w", err)
	}

	// rmqConsumer
	rmqConsumer := rmqconsumer.New(cfg.MQ, logger, rbMQ.GetConn())
	if err = rmqConsumer.Connect(rabbitDsn); err != nil {
		app.Close()
		return nil, fmt.Errorf("connect rabbitMQ consumer: %w", err)
	}
	if err = rmqConsumer.Init(); err != nil {
		app.Close()
		return nil, fmt.Errorf("init rabbitMQ consumer: %w", err)
	}
	app.mqConsumer = rmqConsumer

	return app, nil
}

func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.mq != nil && a.mq.GetConn() != nil {
		a.mq.GetConn().Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// Run starts the http server and the event workers under one context and
// shuts them down on SIGINT/SIGTERM.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGUSR1)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("starting "+a.cfg.App.Name, zap.String("addr", a.httpSrv.Addr))
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server "+a.cfg.App.Name+" error: %w", err)
		}

		return nil
	})

	if a.mq != nil {
		g.Go(func() error {
			a.mq.PublisherWorker(ctx)
			return nil
		})
	}

	if a.mqConsumer != nil {
		g.Go(func() error {
			a.mqConsumer.DeliveryWorker(ctx)
			return nil
		})
	}

	<-ctx.Done()

	a.logger.Info("shutting down " + a.cfg.App.Name + " gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if a.httpSrv != nil {
		if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("http server shutdown "+a.cfg.App.Name+" error", zap.Error(err))
			return err
		}
	}

	if err := g.Wait(); err != nil {
		a.logger.Error(a.cfg.App.Name+" returning an error", zap.Error(err))
		return err
	}

	a.logger.Info(a.cfg.App.Name + " gracefully stopped")

	return nil
}

func (a *App) InitControllers() {
	// repos
	userRepo := userDB.NewRepository(a.db)
	fileRepo := fileDB.NewRepository(a.db)

	// services
	jwtService := jwt.New(a.cfg.App.JWTSecret)
	authService := services.NewAuthService(userRepo, jwtService, a.mCounter, a.cfg.App.TokenTTL, bcrypt.DefaultCost)
	userService := services.NewUserService(userRepo)
	fileService := services.NewFileService(
		a.storage,
		fileRepo,
		userRepo,
		a.publisher,
		a.mCounter,
		a.logger,
		a.cfg.Storage.MaxUploadBytes,
		rest.RouteFileContent,
	)

	authMiddleware := middleware.AuthMiddleware(authService, a.cfg.App.AdminEmail)

	// controllers
	rest.NewAuthController(a.router, a.logger, authService, a.cfg.App.TokenTTL, a.cfg.App.CookieSecure, a.cfg.App.AdminEmail)
	rest.NewUserController(a.router, userService, a.logger, authMiddleware)
	rest.NewFileController(a.router, fileService, a.logger, authMiddleware, a.cfg.Storage.MaxUploadBytes)

	// ops
	a.router.GET(rest.RouteHealth, func(c *gin.Context) {
		if err := a.db.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	a.router.GET(rest.RouteMetrics, gin.WrapH(promhttp.Handler()))
}

func (a *App) Logger() *zap.Logger { return a.logger }

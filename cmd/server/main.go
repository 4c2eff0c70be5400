package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"prepcoach/internal/config"
	"prepcoach/internal/events"
	"prepcoach/internal/gateway"
	"prepcoach/internal/handlers"
	"prepcoach/internal/interview"
	"prepcoach/internal/jobs"
	"prepcoach/internal/kv"
	"prepcoach/internal/llm"
	_ "prepcoach/internal/llm/gemini"
	_ "prepcoach/internal/llm/openai"
	"prepcoach/internal/metrics"
	appmw "prepcoach/internal/middleware"
	"prepcoach/internal/models"
	"prepcoach/internal/prompts"
	"prepcoach/internal/ranking"
	"prepcoach/internal/repositories"
	"prepcoach/internal/routers"
	"prepcoach/internal/storage"
	"prepcoach/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type appHandlers struct {
	auth      *handlers.AuthHandler
	users     *handlers.UserHandler
	interview *handlers.InterviewHandler
	stream    *handlers.StreamHandler
	results   *handlers.ResultsHandler
	dashboard *handlers.DashboardHandler
	health    *handlers.HealthHandler
}

func registerRoutes(router *chi.Mux, h appHandlers, secret string) {
	routers.HealthRoutes(router, h.health)
	routers.AuthRoutes(router, h.auth)
	routers.UserRoutes(router, h.users, secret)
	routers.InterviewRoutes(router, h.interview, h.stream, secret)
	routers.ResultsRoutes(router, h.results, h.dashboard, secret)
}

// openUserDB opens the account database and migrates the user schema.
func openUserDB(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.UserDB {
	case "postgres":
		dialector = postgres.Open(cfg.Postgres.DSN())
	default:
		dialector = sqlite.Open(cfg.SQLitePath)
	}
	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.UserDB, err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// newKVStore builds the persistence port for snapshots, results and
// histories. The returned func releases any connection it opened.
func newKVStore(ctx context.Context, cfg *config.Config, userDB *gorm.DB, rdb *redis.Client) (kv.Store, func(), error) {
	noop := func() {}
	switch cfg.KVBackend {
	case "redis":
		return kv.NewRedisStore(rdb, "prepcoach"), noop, nil
	case "postgres":
		db := userDB
		if cfg.UserDB != "postgres" {
			var err error
			db, err = gorm.Open(postgres.Open(cfg.Postgres.DSN()), &gorm.Config{})
			if err != nil {
				return nil, noop, fmt.Errorf("failed to connect to postgres: %w", err)
			}
		}
		store, err := kv.NewGormStore(db)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil
	case "mongo":
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, noop, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		col := client.Database(cfg.MongoDB).Collection("kv_entries")
		return kv.NewMongoStore(col), func() { _ = client.Disconnect(context.Background()) }, nil
	default:
		return kv.NewMemoryStore(), noop, nil
	}
}

func newResumeStore(ctx context.Context, cfg *config.Config) (storage.ResumeStore, error) {
	if cfg.ResumeStorage != "s3" {
		return storage.NewMemoryStore(), nil
	}
	s3Store, err := storage.NewS3Store(ctx, storage.S3Config{
		Region:    cfg.AWSRegion,
		AccessKey: cfg.AWSAccessKeyID,
		SecretKey: cfg.AWSSecretAccessKey,
		Bucket:    cfg.ResumeBucket,
		Endpoint:  cfg.S3Endpoint,
	})
	if err != nil {
		return nil, err
	}
	return s3Store, nil
}

// newPublisher also publishes to redis whenever a client exists, so the
// stats subscriber sees every completion.
func newPublisher(cfg *config.Config, rdb *redis.Client, logger *zap.Logger) events.Publisher {
	var pubs events.Multi
	if rdb != nil && cfg.EventsBackend != "none" {
		pubs = append(pubs, events.NewRedisPublisher(rdb))
	}
	if cfg.EventsBackend == "rabbitmq" {
		pubs = append(pubs, events.NewRabbitPublisher(events.RabbitConfig{URL: cfg.RabbitMQURL, Queue: cfg.EventsQueue}, logger))
	}
	if len(pubs) == 0 {
		return events.NopPublisher{}
	}
	return pubs
}

func kvProbe(store kv.Store) handlers.Probe {
	return func(ctx context.Context) error {
		if _, err := store.Get(ctx, "healthcheck"); err != nil && !errors.Is(err, kv.ErrNotFound) {
			return err
		}
		return nil
	}
}

func dbProbe(db *gorm.DB) handlers.Probe {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}
	utils.InitLogger(cfg.Env)
	logger = utils.GetLogger()

	logger.Info("Configuration loaded",
		zap.String("provider", cfg.Provider),
		zap.String("kv_backend", cfg.KVBackend),
		zap.String("user_db", cfg.UserDB),
		zap.String("events_backend", cfg.EventsBackend))

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	promptManager, err := prompts.NewPromptManager()
	if err != nil {
		logger.Fatal("Failed to initialize prompt manager", zap.Error(err))
	}
	aiProvider, err := llm.NewProvider(cfg.Provider)
	if err != nil {
		logger.Fatal("Failed to initialize AI provider", zap.Error(err))
	}
	gw := gateway.New(aiProvider, promptManager, gateway.Config{
		Timeout:     cfg.GatewayTimeout,
		MaxAttempts: cfg.GatewayMaxAttempts,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    4 * time.Second,
		CacheTTL:    cfg.AnalysisCacheTTL,
	}, logger)

	db, err := openUserDB(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	userRepo := repositories.NewUserRepository(db, repositories.HasherFor(cfg.PasswordScheme))
	if cfg.SeedDemoUsers {
		created, err := userRepo.SeedDemoUsers()
		if err != nil {
			logger.Error("Failed to seed demo users", zap.Error(err))
		} else {
			logger.Info("Demo users seeded", zap.Int("created", created))
		}
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
	}

	store, closeStore, err := newKVStore(ctx, cfg, db, rdb)
	if err != nil {
		logger.Fatal("Failed to initialize session store", zap.Error(err))
	}
	defer closeStore()
	snapshots := repositories.NewSnapshotStore(store, logger)

	resumes, err := newResumeStore(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize resume storage", zap.Error(err))
	}

	registry := interview.NewRegistry(interview.Deps{
		Gateway:     gw,
		Results:     snapshots,
		ResumeStore: resumes,
		Publisher:   newPublisher(cfg, rdb, logger),
		Logger:      logger,
	}, func(ownerID string) interview.SnapshotStore {
		return snapshots.ForProfile(ownerID)
	})
	defer registry.Close()

	if rdb != nil && cfg.EventsBackend != "none" {
		subscriber := events.NewCompletionSubscriber(rdb, userRepo, logger)
		go func() {
			if err := subscriber.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Completion subscriber stopped", zap.Error(err))
			}
		}()
	}

	cleanupJob := jobs.NewSnapshotCleanupJob(snapshots, &jobs.CleanupConfig{
		Schedule: cfg.SnapshotCleanupSchedule,
		TTL:      cfg.SnapshotTTL,
		Enabled:  true,

		Sessions:    registry,
		SessionIdle: cfg.SessionIdleTTL,
	}, logger)
	if err := cleanupJob.Start(); err != nil {
		logger.Error("Failed to start snapshot cleanup job", zap.Error(err))
	}

	aggregator := ranking.NewAggregator(snapshots, logger)
	h := appHandlers{
		auth:      handlers.NewAuthHandler(userRepo, cfg.JWTSecret, cfg.JWTTTL, logger),
		users:     handlers.NewUserHandler(userRepo, registry, logger),
		interview: handlers.NewInterviewHandler(registry, logger),
		stream:    handlers.NewStreamHandler(registry, logger),
		results:   handlers.NewResultsHandler(aggregator, snapshots),
		dashboard: handlers.NewDashboardHandler(aggregator),
		health: handlers.NewHealthHandler(aiProvider, promptManager, map[string]handlers.Probe{
			"user_db":  dbProbe(db),
			"kv_store": kvProbe(store),
		}),
	}

	// an answer on the last question evaluates, summarizes and personalizes
	requestTimeout := 3*cfg.GatewayTimeout + 15*time.Second

	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	router.Use(middleware.RequestID, middleware.RealIP, appmw.RequestLogger(logger), middleware.Recoverer)
	router.Use(metrics.Middleware("prepcoach"))
	router.Use(appmw.RequestTimeout(requestTimeout))

	registerRoutes(router, h, cfg.JWTSecret)

	serverAddr := ":" + cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: requestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("prepcoach starting", zap.String("addr", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("prepcoach shutting down...")
	cleanupJob.Stop()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}
	logger.Info("prepcoach exited")
}

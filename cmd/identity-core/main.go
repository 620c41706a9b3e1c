package main

// @title           Identity Core API
// @version         1.0
// @description     User management and authentication API. Identity Core provides account registration, token-based login and role-gated administration with a full audit trail.

// @contact.name   Custodia OSS
// @contact.url    https://github.com/custodia-labs/identity-core/issues

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Format: "Bearer {token}"

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/identity-core/internal/adapters/driven/auth"
	"github.com/custodia-labs/identity-core/internal/adapters/driven/postgres"
	redisqueue "github.com/custodia-labs/identity-core/internal/adapters/driven/queue/redis"
	redisadapter "github.com/custodia-labs/identity-core/internal/adapters/driven/redis"
	httpserver "github.com/custodia-labs/identity-core/internal/adapters/driving/http"
	"github.com/custodia-labs/identity-core/internal/config"
	"github.com/custodia-labs/identity-core/internal/core/ports/driven"
	"github.com/custodia-labs/identity-core/internal/core/ports/driving"
	"github.com/custodia-labs/identity-core/internal/core/services"
	"github.com/custodia-labs/identity-core/internal/worker"
	"github.com/redis/go-redis/v9"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Command line arg overrides RUN_MODE
	mode := cfg.RunMode
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	log.Printf("identity-core %s starting in %s mode", version, mode)

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutdown signal received, stopping...")
		cancel()
	}()

	// ===== Initialize PostgreSQL =====
	log.Println("Connecting to PostgreSQL...")
	db, err := postgres.Connect(ctx, postgres.Config{
		URL:             cfg.DB.URL,
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.DB.ConnMaxIdleTime,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize schema (idempotent)
	if err := db.InitSchema(ctx); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}
	log.Println("PostgreSQL connected and schema initialized")

	// ===== Initialize Redis (optional) =====
	var redisClient *redis.Client
	if cfg.RedisEnabled() {
		log.Println("Connecting to Redis...")
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		log.Println("Redis connected")
	}

	// ===== Driven adapters (infrastructure) =====
	authAdapter, err := auth.NewAdapterWithCost(cfg.TokenSecret, cfg.TokenTTL, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("Failed to create auth adapter: %v", err)
	}

	// ===== PostgreSQL Stores =====
	userStore := postgres.NewUserStore(db)
	auditStore := postgres.NewAuditStore(db)

	// ===== Task Queue and Distributed Lock (Redis only) =====
	// Without Redis, audit events from the auth flow are skipped and
	// the retention sweep does not run.
	var taskQueue driven.TaskQueue
	var distributedLock driven.DistributedLock
	var userCache driven.UserCache
	var redisPinger httpserver.Pinger
	if redisClient != nil {
		taskQueue, err = redisqueue.NewQueue(redisClient, fmt.Sprintf("worker-%d", os.Getpid()))
		if err != nil {
			log.Fatalf("Failed to create task queue: %v", err)
		}
		distributedLock = redisadapter.NewLock(redisClient)
		cache := redisadapter.NewUserCache(redisClient, cfg.Redis.CacheTTL)
		userCache = cache
		redisPinger = cache
		log.Println("Using Redis task queue, lock and user cache")
	}

	// ===== Services (core business logic) =====
	authService := services.NewAuthService(userStore, authAdapter, taskQueue, logger)
	userService := services.NewUserService(userStore, auditStore)
	if userCache != nil {
		userService = services.NewCachedUserService(userService, userCache, logger)
	}

	switch mode {
	case "api":
		runAPI(cfg, authService, userService, db, redisPinger)

	case "worker":
		if taskQueue == nil {
			log.Fatal("Worker mode requires REDIS_URL to be set")
		}
		runWorkerMode(ctx, cfg, taskQueue, auditStore, distributedLock, logger)

	case "all":
		// Combined mode: worker in background, API in foreground
		if taskQueue != nil {
			go runWorkerMode(ctx, cfg, taskQueue, auditStore, distributedLock, logger)
		} else {
			log.Println("Redis not configured, running without audit worker")
		}
		runAPI(cfg, authService, userService, db, redisPinger)

	default:
		log.Fatalf("Unknown mode: %s (use: api, worker, or all)", mode)
	}
}

func runAPI(
	cfg config.Config,
	authService driving.AuthService,
	userService driving.UserService,
	db httpserver.Pinger,
	redisPinger httpserver.Pinger,
) {
	serverCfg := httpserver.Config{
		Host:           cfg.HTTP.Host,
		Port:           cfg.HTTP.Port,
		Version:        version,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
	}

	server := httpserver.NewServer(serverCfg, authService, userService, db, redisPinger)

	log.Printf("API server starting on :%d", cfg.HTTP.Port)
	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// runWorkerMode starts the audit worker.
// It drains the task queue and periodically purges expired audit entries.
func runWorkerMode(
	ctx context.Context,
	cfg config.Config,
	taskQueue driven.TaskQueue,
	auditStore driven.AuditStore,
	lock driven.DistributedLock,
	logger *slog.Logger,
) {
	log.Println("Starting worker mode...")

	w := worker.New(worker.Config{
		TaskQueue:      taskQueue,
		AuditStore:     auditStore,
		Lock:           lock,
		Logger:         logger,
		Concurrency:    cfg.Worker.Concurrency,
		DequeueTimeout: cfg.Worker.DequeueTimeout,
		Retention:      cfg.Worker.AuditRetention,
		SweepInterval:  cfg.Worker.SweepInterval,
	})

	if err := w.Start(ctx); err != nil {
		log.Fatalf("Failed to start worker: %v", err)
	}

	log.Println("Worker started, processing audit tasks...")

	// Wait for context cancellation
	<-ctx.Done()

	log.Println("Stopping worker...")
	w.Stop()
	w.Wait()
	log.Println("Worker stopped")
}

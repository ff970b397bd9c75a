package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"story-engine/internal/authutils"
	"story-engine/internal/clients"
	"story-engine/internal/config"
	"story-engine/internal/database"
	"story-engine/internal/handler"
	applogger "story-engine/internal/logger"
	"story-engine/internal/messaging"
	"story-engine/internal/middleware"
	"story-engine/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	redis "github.com/redis/go-redis/v9"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"
)

func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Setup ---
	logger, err := applogger.New(applogger.Config{
		Level:    cfg.LogLevel,
		Encoding: "json",
	})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	zap.ReplaceGlobals(logger)
	zap.L().Info("Logger initialized", zap.String("logLevel", cfg.LogLevel))

	// --- External Connections ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pgPool, err := setupPostgres(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer pgPool.Close()
	zap.L().Info("Connected to PostgreSQL")

	if err := database.ApplyMigrations(pgPool); err != nil {
		zap.L().Fatal("Failed to apply database migrations", zap.Error(err))
	}
	zap.L().Info("Database migrations applied")

	redisClient, err := setupRedis(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	zap.L().Info("Connected to Redis")

	mqConn, err := connectRabbitMQ(cfg.RabbitMQURL, logger)
	if err != nil {
		zap.L().Fatal("Failed to connect to RabbitMQ", zap.Error(err))
	}
	defer mqConn.Close()
	zap.L().Info("Connected to RabbitMQ")

	// --- Dependency Injection ---
	graphClient := clients.NewHTTPGraphStoreClient(cfg.GraphAPIBaseURL, cfg.GraphAPIKey, cfg.GraphAPITimeout, logger)

	sessionRepo := database.NewPgPlaySessionRepository(pgPool, logger.Named("PgPlaySessionRepo"))
	playRepo := database.NewPgPlayRepository(pgPool, logger.Named("PgPlayRepo"))
	markerRepo := database.NewPgEndingMarkerRepository(pgPool, logger.Named("PgEndingMarkerRepo"))
	ownershipRepo := database.NewPgStoryOwnershipRepository(pgPool, logger.Named("PgStoryOwnershipRepo"))
	readerSessionRepo := database.NewRedisReaderSessionRepository(redisClient, cfg.SessionTTL, logger.Named("RedisReaderSessionRepo"))

	playPublisher, err := messaging.NewRabbitMQPlayEventPublisher(mqConn, cfg.PlayEventsQueue, logger)
	if err != nil {
		zap.L().Fatal("Failed to create play event publisher", zap.Error(err))
	}

	recorder := service.NewPlayRecorder(playRepo, playPublisher, logger)
	guard := service.NewOwnershipGuard(ownershipRepo, logger)
	traversalSvc := service.NewTraversalService(graphClient, sessionRepo, markerRepo, recorder, cfg.EndingClearsSession, logger)
	builderSvc := service.NewBuilderService(graphClient, guard, ownershipRepo, sessionRepo, markerRepo, logger)
	statsSvc := service.NewStatsService(playRepo, logger)
	browsingSvc := service.NewStoryBrowsingService(graphClient, logger)

	verifier, err := authutils.NewJWTVerifier(cfg.JWTSecret, logger.Named("JWTVerifier"))
	if err != nil {
		zap.L().Fatal("Failed to create JWT verifier", zap.Error(err))
	}

	engineHandler := handler.NewHandler(
		browsingSvc,
		traversalSvc,
		builderSvc,
		statsSvc,
		verifier,
		readerSessionRepo,
		cfg.SessionCookieName,
		int(cfg.SessionTTL.Seconds()),
		logger,
	)

	// --- HTTP Server Setup (Gin) ---
	gin.SetMode(gin.ReleaseMode)
	if cfg.Env == "development" {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.RedirectTrailingSlash = true
	router.Use(middleware.GinZapLogger(logger))
	router.Use(gin.Recovery())

	p := ginprometheus.NewPrometheus("gin")

	corsConfig := cors.DefaultConfig()
	allowedOrigins := cfg.GetAllowedOrigins()
	if len(allowedOrigins) > 0 {
		corsConfig.AllowOrigins = allowedOrigins
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
		zap.L().Info("CORSAllowedOrigins not set, allowing default", zap.String("origin", "http://localhost:3000"))
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowCredentials = true
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	engineHandler.RegisterRoutes(router)

	// Prometheus middleware goes last so route names are known.
	p.Use(router)

	// --- Start HTTP Server ---
	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	zap.L().Info("Starting HTTP server", zap.String("port", cfg.ServerPort))

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("HTTP Server listen error", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("HTTP Server forced to shutdown", zap.Error(err))
	}

	zap.L().Info("Server exiting")
}

// setupPostgres initializes the PostgreSQL connection pool with retry logic.
func setupPostgres(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	var lastErr error
	maxRetries := 10
	retryDelay := 3 * time.Second

	for i := 0; i < maxRetries; i++ {
		attempt := i + 1
		connectCtx, connectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		p, err := database.NewPgxPool(connectCtx, cfg.GetDSN(), cfg.DBMaxConns)
		connectCancel()
		if err == nil {
			pool = p
			lastErr = nil
			break
		}
		lastErr = fmt.Errorf("postgres connection failed (attempt %d/%d): %w", attempt, maxRetries, err)
		zap.L().Warn("Postgres connection failed, retrying...",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", maxRetries),
			zap.Error(err),
		)
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return pool, nil
}

// setupRedis initializes the Redis client used for the reader-session registry.
func setupRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// connectRabbitMQ dials RabbitMQ with retries so the engine survives broker
// startup races in compose environments.
func connectRabbitMQ(url string, logger *zap.Logger) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error
	maxRetries := 10
	retryDelay := 3 * time.Second

	for i := 0; i < maxRetries; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			return conn, nil
		}
		logger.Warn("RabbitMQ connection failed, retrying...",
			zap.Int("attempt", i+1),
			zap.Int("max_retries", maxRetries),
			zap.Error(err),
		)
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}
	return nil, fmt.Errorf("rabbitmq connection failed after %d attempts: %w", maxRetries, err)
}

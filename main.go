package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/catalog"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/config"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/handler"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/middleware"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/repository"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/services"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/usecase"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := utils.NewLogger(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	err = run(cfg, logger)
	if err != nil {
		logger.Error("server exited", "error", err)
	}
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *utils.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := utils.InitTracing(ctx, logger, cfg)
	if err != nil {
		return err
	}

	cat, err := catalog.Load()
	if err != nil {
		return err
	}
	logger.Info("catalog loaded", "version", cat.Version, "days", len(cat.Days), "tasks", cat.TotalTasks())

	mongoClient, err := utils.NewMongoClient(ctx, cfg.Database)
	if err != nil {
		return err
	}
	db := mongoClient.Database(cfg.Database.DatabaseName)
	if err := repository.SetupIndexes(ctx, db, cfg.Database); err != nil {
		return err
	}

	redisClient := connectRedis(ctx, cfg, logger)

	if err := utils.InitValidator(); err != nil {
		return err
	}

	svc := buildServices(cfg, logger, cat, mongoClient, db, redisClient)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := setupRouter(cfg, logger, svc)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", "error", err)
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close failed", "error", err)
		}
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		logger.Warn("mongo disconnect failed", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("tracer shutdown failed", "error", err)
	}
	logger.Info("server shutdown complete")
	return nil
}

// connectRedis returns nil when REDIS_URL is unset or unreachable. The
// service then runs without revocation and caching.
func connectRedis(ctx context.Context, cfg *config.Config, logger *utils.Logger) *redis.Client {
	if cfg.RedisURL == "" {
		logger.Warn("REDIS_URL not set, token revocation and caching disabled")
		return nil
	}
	client, err := services.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.Warn("redis unavailable, token revocation and caching disabled", "error", err)
		return nil
	}
	return client
}

func buildServices(cfg *config.Config, logger *utils.Logger, cat *catalog.Catalog, mongoClient *mongo.Client, db *mongo.Database, redisClient *redis.Client) handler.Services {
	var (
		sessionCache repository.SessionCache
		revoker      usecase.TokenRevoker
		boardCache   usecase.LeaderboardCache
	)
	checks := map[string]handler.Check{
		"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
	}
	if redisClient != nil {
		blacklist := services.NewTokenBlacklist(redisClient)
		revoker = blacklist
		sessionCache = services.NewSessionCache(redisClient, cfg.Auth.SessionDuration)
		boardCache = services.NewLeaderboardCache(redisClient, cfg.LeaderboardCacheTTL)
		checks["redis"] = blacklist.Ping
	}

	users := repository.NewUserRepo(db, cfg.Database)
	profiles := repository.NewProfileRepo(db, cfg.Database)
	sessions := repository.NewSessionRepo(db, cfg.Database, sessionCache, logger)

	auth := usecase.NewAuthService(usecase.AuthDeps{
		Users:    users,
		Profiles: profiles,
		Sessions: sessions,
		Tokens:   services.NewTokenService(cfg.Auth),
		Revoker:  revoker,
		Catalog:  cat,
		Config:   cfg.Auth,
		Log:      logger,
	})
	board := usecase.NewLeaderboardService(profiles, boardCache, cat, cfg.LeaderboardMaxLimit, logger)
	progress := usecase.NewProgressService(profiles, users, cat, board, logger)

	return handler.Services{
		Auth:        auth,
		Progress:    progress,
		Leaderboard: board,
		Catalog:     cat,
		Checks:      checks,
		Log:         logger,
	}
}

func setupRouter(cfg *config.Config, logger *utils.Logger, svc handler.Services) *gin.Engine {
	router := gin.New()

	router.Use(
		otelgin.Middleware(cfg.ServiceName),
		middleware.EnhancedRecoveryMiddleware(logger),
		middleware.RequestTracingMiddleware(),
		middleware.RequestLogger(logger),
		middleware.MetricsMiddleware(),
		middleware.SecurityHeaders(),
		middleware.RequestSizeLimiter(cfg.MaxBodySize),
		middleware.CORS(cfg.CORSOrigins),
	)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handler.RegisterRoutes(router, svc)

	return router
}

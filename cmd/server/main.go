package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"movie-discovery-api/internal/auth"
	"movie-discovery-api/internal/config"
	"movie-discovery-api/internal/database"
	"movie-discovery-api/internal/handler"
	"movie-discovery-api/internal/logging"
	"movie-discovery-api/internal/middleware"
	"movie-discovery-api/internal/repository"
	"movie-discovery-api/internal/service"
	"movie-discovery-api/internal/tmdb"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Structured logging
	slog.SetDefault(logging.NewLogger(cfg.Log))

	// Token issuer
	issuer, err := auth.NewTokenIssuer(cfg.JWT)
	if err != nil {
		slog.Error("invalid token configuration", "error", err)
		os.Exit(1)
	}

	// Connect to PostgreSQL
	db, err := database.NewPostgres(cfg.DB)
	if err != nil {
		slog.Error("failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Connect to Redis (non-fatal if unavailable)
	var rdb *redis.Client
	if client, err := database.NewRedis(cfg.Redis); err != nil {
		slog.Warn("Redis unavailable, rate limiting per instance", "error", err)
	} else {
		rdb = client
		defer rdb.Close()
	}

	// Initialize layers
	tmdbClient := tmdb.NewClient(cfg.TMDB)
	commentRepo := repository.NewCommentRepository(db)
	userRepo := repository.NewUserRepository(db)

	movieSvc := service.NewMovieService(tmdbClient, commentRepo, cfg.TMDB.ImageBaseURL)
	commentSvc := service.NewCommentService(commentRepo)
	userSvc := service.NewUserService(userRepo, issuer)

	authLimiter := middleware.NewRateLimiter(rdb, "auth", cfg.RateLimit.Max, cfg.RateLimit.WindowSeconds)

	// Create Fiber app
	app := handler.NewApp()

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
	}))
	app.Use(middleware.Metrics())

	// Swagger docs
	swaggerYAML, err := os.ReadFile("docs/swagger.yaml")
	if err != nil {
		slog.Warn("swagger.yaml not found, swagger UI will be unavailable", "error", err)
	} else {
		handler.RegisterSwagger(app, swaggerYAML)
	}

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// API routes
	handler.Routes{
		Movies:      handler.NewMovieHandler(movieSvc),
		Comments:    handler.NewCommentHandler(commentSvc),
		Auth:        handler.NewAuthHandler(userSvc),
		RequireAuth: middleware.RequireAuth(issuer),
		AuthLimit:   authLimiter.Handler(),
	}.Register(app)

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		addr := ":" + cfg.Port
		slog.Info("starting movie discovery api", "addr", addr)
		if err := app.Listen(addr); err != nil {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down movie discovery api...")

	if err := app.Shutdown(); err != nil {
		slog.Error("error shutting down HTTP server", "error", err)
	}
	slog.Info("shutdown complete")
}

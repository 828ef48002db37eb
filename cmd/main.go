package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"golang.org/x/sync/errgroup"

	"github.com/maplecrest/rinkside/config"
	"github.com/maplecrest/rinkside/db"
	"github.com/maplecrest/rinkside/handlers"
	"github.com/maplecrest/rinkside/middleware"
	"github.com/maplecrest/rinkside/notify"
	"github.com/maplecrest/rinkside/repositories"
	"github.com/maplecrest/rinkside/routes"
	"github.com/maplecrest/rinkside/services"
	"github.com/maplecrest/rinkside/sessions"
	"github.com/maplecrest/rinkside/storage"
	"github.com/maplecrest/rinkside/views"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("application failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	database, err := db.Connect(cfg.DatabaseURL, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()
	logger.Info("database connection established")

	schemaCtx, cancelSchema := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelSchema()
	if err := db.EnsureSchema(schemaCtx, database); err != nil {
		return fmt.Errorf("failed to ensure database schema: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer redisClient.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	logger.Info("redis connection established")

	sessionManager := sessions.NewManager(sessions.NewRedisStore(redisClient))

	var uploader storage.FileUploader
	if cfg.StorageConfigured() {
		uploader, err = storage.NewS3Uploader(storage.S3UploaderConfig{
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			BucketName:      cfg.S3Bucket,
			PublicBaseURL:   cfg.S3PublicBaseURL,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize file storage: %w", err)
		}
		logger.Info("file storage initialized", slog.String("bucket", cfg.S3Bucket))
	} else {
		logger.Warn("file storage not configured, uploads disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)

	var notifier services.TeamNotifier
	if cfg.DiscordWebhookURL != "" {
		discord := notify.NewDiscordNotifier(cfg.DiscordWebhookURL, logger)
		notifier = discord
		group.Go(func() error {
			return discord.Run(groupCtx)
		})
		logger.Info("discord notifier started")
	}

	userRepo := repositories.NewPostgresUserRepository(database)
	teamRepo := repositories.NewPostgresTeamRepository(database)
	characterRepo := repositories.NewPostgresCharacterRepository(database)
	connectionRepo := repositories.NewPostgresConnectionRepository(database)

	authService := services.NewAuthService(userRepo)
	teamService := services.NewTeamService(teamRepo, characterRepo, notifier, uploader)
	characterService := services.NewCharacterService(characterRepo, connectionRepo, uploader)
	connectionService := services.NewConnectionService(connectionRepo)

	renderer, err := views.New(logger)
	if err != nil {
		return fmt.Errorf("failed to initialize templates: %w", err)
	}

	base := handlers.NewBase(renderer, sessionManager, authService, logger)
	homeHandler := handlers.NewHomeHandler(base, teamService)
	authHandler := handlers.NewAuthHandler(base, authService)
	dashboardHandler := handlers.NewDashboardHandler(base, characterService)
	teamHandler := handlers.NewTeamHandler(base, teamService)
	characterHandler := handlers.NewCharacterHandler(base, characterService, teamService)
	connectionHandler := handlers.NewConnectionHandler(base, connectionService, characterService)

	router := chi.NewRouter()
	routes.SetupRoutes(
		router,
		middleware.NewAuth(sessionManager),
		homeHandler,
		authHandler,
		dashboardHandler,
		teamHandler,
		characterHandler,
		connectionHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	group.Go(func() error {
		logger.Info("starting server", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		return err
	}
	logger.Info("application exited")
	return nil
}

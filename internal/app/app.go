package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpController "community-board/internal/controller/http"
	"community-board/internal/repo/persistent"
	"community-board/internal/usecase"
	"community-board/pkg/cache"
	"community-board/pkg/config"
	"community-board/pkg/database"
	"community-board/pkg/jwt"
	"community-board/pkg/logger"
	"community-board/pkg/queue"
	"community-board/pkg/s3"
	"community-board/pkg/session"
	"community-board/pkg/storage"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *gorm.DB
	redisClient *redis.Client
	queueClient *queue.Client
	store       storage.Storage
	localRoot   string
	httpServer  *http.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.NewWithOptions(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := database.NewPostgresDB(cfg, log)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	if cfg.DBAutoMigrate {
		if err := persistent.Migrate(db); err != nil {
			log.Error("Failed to auto-migrate: %v", err)
			return nil, err
		}
		log.Info("Database schema migrated")
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		if cfg.AuthMode == config.AuthModeSession {
			log.Error("Failed to connect to redis: %v", err)
			return nil, fmt.Errorf("session mode requires redis: %w", err)
		}
		// Rate limiting is skipped without Redis in token mode.
		log.Warn("Failed to connect to redis: %v (continuing without rate limiting)", err)
		redisClient = nil
	}

	a := &App{
		cfg:         cfg,
		log:         log,
		db:          db,
		redisClient: redisClient,
	}

	switch cfg.StorageDriver {
	case config.StorageS3:
		s3Client, err := s3.NewClient(cfg)
		if err != nil {
			log.Error("Failed to create S3 client: %v", err)
			return nil, err
		}
		a.store = s3Client
	default:
		local, err := storage.NewLocal(cfg.UploadDir, cfg.PublicURLPrefix)
		if err != nil {
			log.Error("Failed to prepare upload dir: %v", err)
			return nil, err
		}
		a.store = local
		a.localRoot = local.Root()
	}

	if cfg.RabbitMQEnabled() {
		queueClient, err := queue.NewRabbitMQClient(cfg, log)
		if err != nil {
			log.Warn("Failed to connect to RabbitMQ: %v (continuing without activity events)", err)
		} else {
			a.queueClient = queueClient
		}
	}

	return a, nil
}

func (a *App) credentials() usecase.Credentials {
	if a.cfg.AuthMode == config.AuthModeSession {
		return usecase.NewSessionCredentials(session.NewStore(a.redisClient, a.cfg.SessionMaxAge))
	}
	return usecase.NewTokenCredentials(jwt.NewService(a.cfg.JWTSecret, a.cfg.JWTTTL))
}

func (a *App) publisher() usecase.ActivityPublisher {
	if a.queueClient == nil {
		return nil
	}
	return a.queueClient
}

// Handler builds the use cases and the router on top of the connections opened by NewApp.
func (a *App) Handler() http.Handler {
	userRepo := persistent.NewUserRepository(a.db)
	postRepo := persistent.NewPostRepository(a.db)
	commentRepo := persistent.NewCommentRepository(a.db)

	upload := usecase.UploadPolicy{
		MaxBytes:     a.cfg.MaxUploadBytes,
		SniffContent: a.cfg.SniffUploadContent,
	}

	authUseCase := usecase.NewAuthUseCase(userRepo, a.credentials(), a.cfg.DefaultProfileImageURL, a.log)
	userUseCase := usecase.NewUserUseCase(userRepo, a.store, usecase.UserOptions{
		RequireCurrentPassword: a.cfg.RequireCurrentPassword,
		Upload:                 upload,
	}, a.log)
	postUseCase := usecase.NewPostUseCase(postRepo, a.store, a.publisher(), usecase.PostOptions{
		MaxPageSize: a.cfg.MaxPageSize,
		Upload:      upload,
	}, a.log)
	commentUseCase := usecase.NewCommentUseCase(postRepo, commentRepo, a.publisher(), a.log)

	deps := httpController.RouterDeps{
		Auth:     authUseCase,
		Users:    userUseCase,
		Posts:    postUseCase,
		Comments: commentUseCase,
		Transport: httpController.CredentialTransport{
			Mode:         a.cfg.AuthMode,
			CookieName:   a.cfg.SessionCookieName,
			CookieMaxAge: a.cfg.SessionMaxAge,
			SecureCookie: a.cfg.SessionCookieSecure,
		},
		AllowedOrigins: a.cfg.CORSAllowedOrigins,
		MaxUploadBytes: a.cfg.MaxUploadBytes,
		Redis:          a.redisClient,
		RateLimit:      a.cfg.RateLimitPerMinute,
		Logger:         a.log,
	}
	if a.localRoot != "" {
		deps.StaticRoot = a.localRoot
		deps.StaticPrefix = a.cfg.PublicURLPrefix
	}

	return httpController.NewRouter(deps)
}

func (a *App) Run() error {
	gin.SetMode(gin.ReleaseMode)

	a.httpServer = &http.Server{
		Addr:              ":" + a.cfg.ServerPort,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		a.log.Info("Community board starting on port %s (auth mode %s, storage %s)", a.cfg.ServerPort, a.cfg.AuthMode, a.cfg.StorageDriver)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	return nil
}

func (a *App) Wait() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down community board...")
}

func (a *App) Shutdown() error {
	// In-flight requests get 5 seconds to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var shutdownErr error
	if a.httpServer != nil {
		if err := a.httpServer.Shutdown(ctx); err != nil {
			a.log.Error("Server forced to shutdown: %v", err)
			shutdownErr = err
		}
	}

	if a.queueClient != nil {
		if err := a.queueClient.Close(); err != nil {
			a.log.Error("Error closing RabbitMQ: %v", err)
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Error("Error closing Redis: %v", err)
		}
	}

	if sqlDB, err := a.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			a.log.Error("Error closing database: %v", err)
		}
	}

	a.log.Info("Community board exited")
	return shutdownErr
}

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

	"go.uber.org/zap"

	"go-jobboard-backend/config"
	"go-jobboard-backend/docs"
	v1 "go-jobboard-backend/internal/delivery/http/v1"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/internal/repository/memory"
	"go-jobboard-backend/internal/repository/mongodb"
	"go-jobboard-backend/internal/repository/postgres"
	"go-jobboard-backend/internal/usecase"
	"go-jobboard-backend/pkg/auth"
	"go-jobboard-backend/pkg/database"
	"go-jobboard-backend/pkg/email"
	"go-jobboard-backend/pkg/logger"
	"go-jobboard-backend/pkg/redis"
	"go-jobboard-backend/pkg/security"
	"go-jobboard-backend/pkg/storage"
	"go-jobboard-backend/pkg/validation"
)

// repositories is the store selected by STORE_DRIVER.
type repositories struct {
	users        domain.UserRepository
	jobs         domain.JobRepository
	applications domain.ApplicationRepository
	pinger       domain.Pinger
	close        func()
}

// @title           Job Board API
// @version         1.0.0
// @description     Recruiters post jobs, applicants apply, both track application status.
// @BasePath        /api/v1.0.0
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init(cfg.IsDev())
	defer func() { _ = logger.Log.Sync() }()
	logger.Log.Info("Starting job board backend",
		zap.String("port", cfg.Port),
		zap.String("store", cfg.StoreDriver),
		zap.String("prefix", cfg.APIPrefix()),
	)
	docs.SwaggerInfo.BasePath = cfg.APIPrefix()
	docs.SwaggerInfo.Version = cfg.AppVersion

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Setup Store
	repos, err := openStore(ctx, cfg)
	if err != nil {
		logger.Log.Error("Failed to open store", zap.Error(err))
		os.Exit(1)
	}
	defer repos.close()

	// 4. Optional Redis (rate limits, login blocks, upload quota)
	redisClient, err := redis.NewClient(ctx, redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword})
	if err != nil {
		if !errors.Is(err, redis.ErrNotConfigured) {
			logger.Log.Warn("Redis unavailable, using in-memory counters", zap.Error(err))
		}
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	// 5. File storage
	fileStore, uploadDir, storePinger, err := openFileStore(ctx, cfg)
	if err != nil {
		logger.Log.Error("Failed to set up file storage", zap.Error(err))
		os.Exit(1)
	}

	// 6. Setup Email Service
	emailService := email.NewEmailService(cfg)
	if !emailService.IsConfigured() {
		logger.Log.Warn("Email service not configured - status notifications disabled")
	}

	// 7. Security
	secLogger := security.NewSecurityLogger(logger.Log, "go-jobboard-backend", cfg.Mode)
	loginTracker := security.NewLoginTracker(security.DefaultLoginTrackerConfig(), redisClient, secLogger)
	uploadLimiter := security.NewUploadLimiter(50, redisClient)

	var accessLogger *zap.Logger
	if cfg.AccessLogPath != "" {
		accessLogger, err = logger.NewAccessLogger(cfg.AccessLogPath)
		if err != nil {
			logger.Log.Warn("Access log disabled", zap.Error(err))
		} else {
			defer func() { _ = accessLogger.Sync() }()
		}
	}

	// 8. Setup UseCases
	validate := validation.New()
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	authUC := usecase.NewAuthUsecase(repos.users, tokens, validate)
	profileUC := usecase.NewProfileUsecase(repos.users, validate)
	uploadUC := usecase.NewUploadUsecase(repos.users, fileStore)
	jobUC := usecase.NewJobUsecase(repos.jobs, repos.applications, repos.users, validate)
	applicationUC := usecase.NewApplicationUsecase(repos.applications, repos.jobs, repos.users, emailService, validate)

	pingers := map[string]domain.Pinger{"store": repos.pinger, "storage": storePinger}
	if redisClient != nil {
		pingers["redis"] = redis.Pinger{Client: redisClient}
	}
	healthUC := usecase.NewHealthUsecase(pingers)

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:        authUC,
		JobUC:         jobUC,
		ApplicationUC: applicationUC,
		ProfileUC:     profileUC,
		UploadUC:      uploadUC,
		HealthUC:      healthUC,
		Tokens:        tokens,
		Redis:         redisClient,
		SecLogger:     secLogger,
		AccessLogger:  accessLogger,
		LoginTracker:  loginTracker,
		UploadLimiter: uploadLimiter,
		UploadDir:     uploadDir,
		Config:        cfg,
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", zap.Error(err))
			stop()
		}
	}()

	// Graceful Shutdown
	<-ctx.Done()
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Log.Info("Server exiting")
}

func openStore(ctx context.Context, cfg *config.Config) (*repositories, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		db, err := database.NewMongoConnection(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			_ = db.Client().Disconnect(context.Background())
			return nil, err
		}
		return &repositories{
			users:        mongodb.NewUserRepository(db),
			jobs:         mongodb.NewJobRepository(db),
			applications: mongodb.NewApplicationRepository(db),
			pinger:       mongodb.NewPinger(db),
			close: func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = db.Client().Disconnect(shutdownCtx)
			},
		}, nil

	case config.StorePostgres:
		pool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
		if err != nil {
			return nil, err
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &repositories{
			users:        postgres.NewUserRepository(pool),
			jobs:         postgres.NewJobRepository(pool),
			applications: postgres.NewApplicationRepository(pool),
			pinger:       postgres.NewPinger(pool),
			close:        pool.Close,
		}, nil

	default:
		logger.Log.Warn("Using in-memory store; data is lost on restart")
		store := memory.NewStore()
		return &repositories{
			users:        memory.NewUserRepository(store),
			jobs:         memory.NewJobRepository(store),
			applications: memory.NewApplicationRepository(store),
			pinger:       store,
			close:        func() {},
		}, nil
	}
}

// openFileStore prefers S3 when a bucket is configured. The returned
// directory is non-empty only for local storage and is served at /uploads.
func openFileStore(ctx context.Context, cfg *config.Config) (storage.Store, string, domain.Pinger, error) {
	if cfg.S3Bucket != "" {
		s3Store, err := storage.NewS3Store(ctx, storage.S3Config{
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			Endpoint:        cfg.S3Endpoint,
			PublicURL:       cfg.S3PublicURL,
		})
		if err != nil {
			return nil, "", nil, err
		}
		return s3Store, "", s3Store, nil
	}

	local, err := storage.NewLocalStore(cfg.UploadDir, "/uploads")
	if err != nil {
		return nil, "", nil, err
	}
	return local, local.Root(), nil, nil
}

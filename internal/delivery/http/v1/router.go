package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"go-jobboard-backend/config"
	"go-jobboard-backend/internal/delivery/http/middleware"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/security"
)

type RouterDeps struct {
	AuthUC        domain.AuthUsecase
	JobUC         domain.JobUsecase
	ApplicationUC domain.ApplicationUsecase
	ProfileUC     domain.ProfileUsecase
	UploadUC      domain.UploadUsecase
	HealthUC      domain.HealthUsecase
	Tokens        middleware.TokenVerifier
	Redis         *goredis.Client // optional; nil keeps counters in memory
	SecLogger     *security.SecurityLogger
	AccessLogger  *zap.Logger // optional
	LoginTracker  *security.LoginTracker
	UploadLimiter *security.UploadLimiter
	// UploadDir is served at /uploads when files are stored locally
	UploadDir string
	Config    *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second
	limiter := middleware.NewRateLimiter(deps.Redis, deps.SecLogger)

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins)) // CORS must be first!
	r.Use(middleware.Recovery(cfg.IsDev()))
	r.Use(middleware.RequestID())
	if deps.AccessLogger != nil {
		r.Use(middleware.AccessLog(deps.AccessLogger))
	}
	r.Use(middleware.SecurityHeadersMiddleware(!cfg.IsDev()))
	r.Use(limiter.Middleware(middleware.GlobalRateLimitConfig(cfg.RateLimitGlobalThreshold, window)))
	r.Use(middleware.ErrorHandler(cfg.IsDev(), deps.SecLogger))

	if deps.UploadDir != "" {
		r.Static("/uploads", deps.UploadDir)
	}

	api := r.Group(cfg.APIPrefix())

	// Health Check
	api.GET("/health", healthHandler(deps.HealthUC))

	// Swagger
	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	optional := api.Group("")
	optional.Use(middleware.IdentifyCaller(deps.Tokens, cfg.CookieName))

	protected := api.Group("")
	protected.Use(middleware.Authenticate(deps.Tokens, cfg.CookieName))

	recruiter := protected.Group("")
	recruiter.Use(middleware.RequireRole(domain.RoleRecruiter))

	applicant := protected.Group("")
	applicant.Use(middleware.RequireRole(domain.RoleApplicant))

	signinLimit := limiter.Middleware(middleware.LoginRateLimitConfig(cfg.RateLimitLoginThreshold, window))

	NewAuthHandler(api, protected, signinLimit, deps.AuthUC, deps.LoginTracker, deps.SecLogger, cfg)
	NewJobHandler(optional, recruiter, applicant, deps.JobUC, deps.ApplicationUC)
	NewApplicationHandler(recruiter, applicant, deps.ApplicationUC)
	NewProfileHandler(protected, recruiter, applicant, deps.ProfileUC, deps.AuthUC, deps.UploadUC, deps.UploadLimiter, deps.SecLogger)

	return r
}

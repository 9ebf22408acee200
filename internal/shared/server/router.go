package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cameo-backend/internal/account"
	googleauth "cameo-backend/internal/auth"
	"cameo-backend/internal/brandguidelines"
	"cameo-backend/internal/campaigns"
	"cameo-backend/internal/generations"
	"cameo-backend/internal/performance"
	"cameo-backend/internal/prompts"
	"cameo-backend/internal/shared/config"
	"cameo-backend/internal/shared/metrics"
	"cameo-backend/internal/shared/server/middleware"
	"cameo-backend/internal/shared/server/respond"
	"cameo-backend/internal/stylepresets"
	"cameo-backend/internal/usage"
	"cameo-backend/internal/users"
)

// RouterDeps carries the handlers mounted under /api/v1. Nil handlers are skipped.
type RouterDeps struct {
	Config                config.Config
	PromptHandler         *prompts.Handler
	GenerationHandler     *generations.Handler
	CampaignHandler       *campaigns.Handler
	BrandGuidelineHandler *brandguidelines.Handler
	StylePresetHandler    *stylepresets.Handler
	PerformanceHandler    *performance.Handler
	UsageHandler          *usage.Handler
	UserHandler           *users.Handler
	AccountHandler        *account.Handler
	GoogleAuth            *googleauth.GoogleService
	RateLimiter           *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Auth(cfg.Env),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules:        middleware.DefaultRateLimitRules(),
			DefaultGroup: middleware.RateLimitGroupDefault,
			GroupFor:     middleware.GroupForRoute,
			Limiter:      deps.RateLimiter,
		}),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(api)
	}
	if deps.AccountHandler != nil {
		deps.AccountHandler.RegisterRoutes(api)
	}
	if deps.PromptHandler != nil {
		deps.PromptHandler.RegisterRoutes(api)
	}
	if deps.GenerationHandler != nil {
		deps.GenerationHandler.RegisterRoutes(api)
	}
	if deps.CampaignHandler != nil {
		deps.CampaignHandler.RegisterRoutes(api)
	}
	if deps.BrandGuidelineHandler != nil {
		deps.BrandGuidelineHandler.RegisterRoutes(api)
	}
	if deps.StylePresetHandler != nil {
		deps.StylePresetHandler.RegisterRoutes(api)
	}
	if deps.PerformanceHandler != nil {
		deps.PerformanceHandler.RegisterRoutes(api)
	}
	if deps.UsageHandler != nil {
		deps.UsageHandler.RegisterRoutes(api)
		if cfg.Env == "dev" {
			deps.UsageHandler.RegisterDevRoutes(api.Group("/dev"))
		}
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}

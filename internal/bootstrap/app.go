// Package bootstrap builds the shared dependency graph used by every binary.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"cameo-backend/internal/account"
	googleauth "cameo-backend/internal/auth"
	"cameo-backend/internal/brandguidelines"
	"cameo-backend/internal/campaigns"
	"cameo-backend/internal/generations"
	"cameo-backend/internal/llm"
	"cameo-backend/internal/llm/openai"
	"cameo-backend/internal/performance"
	"cameo-backend/internal/prompts"
	"cameo-backend/internal/queue"
	"cameo-backend/internal/shared/config"
	"cameo-backend/internal/shared/server"
	"cameo-backend/internal/shared/storage/db"
	"cameo-backend/internal/shared/storage/kv"
	"cameo-backend/internal/shared/telemetry"
	"cameo-backend/internal/stylepresets"
	"cameo-backend/internal/usage"
	"cameo-backend/internal/users"
	"cameo-backend/internal/videogen"
	"cameo-backend/internal/videogen/gemini"
	"cameo-backend/internal/workerproc"
)

const memoryQueueSize = 256

// App holds shared dependencies.
type App struct {
	Config   config.Config
	Router   *gin.Engine
	DB       *sql.DB
	Queue    queue.Client
	Consumer queue.Consumer

	UsageService          *usage.Service
	UsersService          *users.Service
	BrandGuidelineService *brandguidelines.Service
	StylePresetService    *stylepresets.Service
	CampaignService       *campaigns.Service
	PerformanceService    *performance.Service
	GenerationService     *generations.Service
	AccountService        *account.Service
	// GenerationProcessor is what workers call; tests may override it.
	GenerationProcessor workerproc.Processor

	Video        videogen.Client
	Scriptwriter llm.Scriptwriter
	GoogleAuth   *googleauth.GoogleService
}

// Build prepares shared dependencies and the HTTP router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	telemetry.Init(cfg.LogLevel)

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	producer, consumer, err := buildQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}

	video, err := buildVideo(ctx, cfg)
	if err != nil {
		return nil, err
	}

	writer, err := buildScriptwriter(cfg)
	if err != nil {
		return nil, err
	}

	states, err := buildAuthStates(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:       cfg,
		DB:           sqlDB,
		Queue:        producer,
		Consumer:     consumer,
		Video:        video,
		Scriptwriter: writer,
	}
	buildServices(app)
	app.GoogleAuth.States = states
	app.GoogleAuth.Claimer = app.AccountService

	app.Router = server.NewRouter(server.RouterDeps{
		Config:                app.Config,
		PromptHandler:         prompts.NewHandler(app.BrandGuidelineService, app.Scriptwriter),
		GenerationHandler:     generations.NewHandler(app.GenerationService),
		CampaignHandler:       campaigns.NewHandler(app.CampaignService),
		BrandGuidelineHandler: brandguidelines.NewHandler(app.BrandGuidelineService),
		StylePresetHandler:    stylepresets.NewHandler(app.StylePresetService),
		PerformanceHandler:    performance.NewHandler(app.PerformanceService),
		UsageHandler:          usage.NewHandler(app.UsageService),
		UserHandler:           users.NewHandler(app.UsersService),
		AccountHandler:        account.NewHandler(app.AccountService),
		GoogleAuth:            app.GoogleAuth,
	})

	return app, nil
}

func buildAuthStates(cfg config.Config) (googleauth.StateStore, error) {
	if cfg.AuthStateBackend != "redis" {
		return googleauth.NewMemoryStateStore(), nil
	}
	rdb, err := kv.NewRedisClient(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("auth state store: %w", err)
	}
	return googleauth.NewRedisStateStore(rdb), nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		opts := db.OptionsFromEnv(db.DefaultLambdaOptions())
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, opts)
	} else {
		opts := db.OptionsFromEnv(db.DefaultServerOptions())
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, opts)
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "database connect failed", "error": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

// buildQueue returns a nil producer when generations should render in-process.
func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, queue.Consumer, error) {
	switch cfg.QueueBackend {
	case "sqs":
		q, err := queue.NewSQSClient(ctx, cfg.SQSQueueURL, cfg.AWSRegion)
		if err != nil {
			return nil, nil, err
		}
		return q, q, nil
	case "redis":
		q, err := queue.NewRedisQueue(cfg.RedisURL, cfg.RedisQueueKey)
		if err != nil {
			return nil, nil, err
		}
		return q, q, nil
	case "memory":
		q := queue.NewMemoryQueue(memoryQueueSize)
		return q, q, nil
	default:
		return nil, nil, nil
	}
}

func buildVideo(ctx context.Context, cfg config.Config) (videogen.Client, error) {
	if cfg.VideoProvider != "gemini" {
		return videogen.PlaceholderClient{}, nil
	}
	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.video_placeholder", map[string]any{"reason": "GEMINI_API_KEY empty"})
			return videogen.PlaceholderClient{}, nil
		}
		return nil, fmt.Errorf("GEMINI_API_KEY is required when VIDEO_PROVIDER=gemini")
	}
	client, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.VideoModel)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func buildScriptwriter(cfg config.Config) (llm.Scriptwriter, error) {
	if cfg.LLMProvider != "openai" {
		return llm.PlaceholderScriptwriter{}, nil
	}
	if strings.TrimSpace(cfg.OpenAIAPIKey) == "" {
		telemetry.Warn("bootstrap.llm_placeholder", map[string]any{"reason": "OPENAI_API_KEY empty"})
		return llm.PlaceholderScriptwriter{}, nil
	}
	writer, err := openai.NewScriptwriter(cfg.OpenAIAPIKey, cfg.LLMModel)
	if err != nil {
		return nil, err
	}
	return writer, nil
}

func buildServices(app *App) {
	var (
		userRepo       users.Repo
		guidelineRepo  brandguidelines.Repo
		presetRepo     stylepresets.Repo
		campaignRepo   campaigns.Repo
		perfRepo       performance.Repo
		generationRepo generations.Repo
		usageSvc       *usage.Service
		claimers       account.Claimers
	)
	policy := usage.DefaultPolicy().WithLimit(app.Config.UsageLimit)

	if app.DB != nil {
		userRepo = &users.PGRepo{DB: app.DB}
		guidelineRepo = &brandguidelines.PGRepo{DB: app.DB}
		presetRepo = &stylepresets.PGRepo{DB: app.DB}
		campaignRepo = &campaigns.PGRepo{DB: app.DB}
		perfRepo = &performance.PGRepo{DB: app.DB}
		generationRepo = &generations.PGRepo{DB: app.DB}
		usageSvc = usage.NewPostgresService(usage.NewPGStore(app.DB, policy))
	} else {
		memGuidelines := brandguidelines.NewMemoryRepo()
		memPresets := stylepresets.NewMemoryRepo()
		memCampaigns := campaigns.NewMemoryRepo()
		memMetrics := performance.NewMemoryRepo()
		memGenerations := generations.NewMemoryRepo()
		claimers = account.Claimers{
			Generations:     memGenerations,
			Campaigns:       memCampaigns,
			BrandGuidelines: memGuidelines,
			StylePresets:    memPresets,
			Metrics:         memMetrics,
		}

		userRepo = users.NewMemoryRepo()
		guidelineRepo = memGuidelines
		presetRepo = memPresets
		campaignRepo = memCampaigns
		perfRepo = memMetrics
		generationRepo = memGenerations
		usageSvc = usage.NewService(policy)
	}

	guidelineSvc := brandguidelines.NewService(guidelineRepo)
	presetSvc := stylepresets.NewService(presetRepo)
	campaignSvc := campaigns.NewService(campaignRepo, guidelineSvc)
	userSvc := users.NewService(userRepo)

	generationSvc := generations.NewService(generationRepo, app.Video)
	generationSvc.Presets = presetSvc
	generationSvc.Campaigns = campaignSvc
	generationSvc.Usage = usageSvc
	generationSvc.Queue = app.Queue
	if app.Config.GenerationCreditCost > 0 {
		generationSvc.CreditCost = app.Config.GenerationCreditCost
	}

	app.UsageService = usageSvc
	app.UsersService = userSvc
	app.BrandGuidelineService = guidelineSvc
	app.StylePresetService = presetSvc
	app.CampaignService = campaignSvc
	app.PerformanceService = performance.NewService(perfRepo)
	app.GenerationService = generationSvc
	app.GenerationProcessor = generationSvc
	app.AccountService = account.NewService(app.DB, claimers)
	app.GoogleAuth = googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		userSvc,
	)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

// @title                       Website Builder API
// @version                     1.0
// @description                 Multi-tenant website content API with role-based access and AI content generation.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/sitecraft/website-builder/internal/api"
	"github.com/sitecraft/website-builder/internal/api/handler"
	"github.com/sitecraft/website-builder/internal/api/metrics"
	"github.com/sitecraft/website-builder/internal/core/authz"
	"github.com/sitecraft/website-builder/internal/core/ports"
	"github.com/sitecraft/website-builder/internal/core/service"
	"github.com/sitecraft/website-builder/internal/infrastructure/cache"
	"github.com/sitecraft/website-builder/internal/infrastructure/config"
	"github.com/sitecraft/website-builder/internal/infrastructure/db/mongo"
	"github.com/sitecraft/website-builder/internal/infrastructure/db/redis"
	"github.com/sitecraft/website-builder/internal/infrastructure/generator"
	"github.com/sitecraft/website-builder/pkg/logger"
)

func main() {
	_ = godotenv.Load("config.env")

	cfg := config.Load(zerolog.New(os.Stderr).With().Timestamp().Logger())
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "website-builder",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		AppName:     "website-builder",
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect failed")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongo connected")

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connect failed")
	}
	defer func() { _ = rdb.Close() }()

	userRepo := mongo.NewUserRepository(db)
	roleRepo := mongo.NewRoleRepository(db)
	websiteRepo := mongo.NewWebsiteRepository(db)

	if err := mongo.EnsureIndexes(ctx, log, userRepo, roleRepo, websiteRepo); err != nil {
		log.Fatal().Err(err).Msg("mongo indexes")
	}
	if err := roleRepo.SeedDefaults(ctx, log); err != nil {
		log.Fatal().Err(err).Msg("seed default roles")
	}

	proxies, err := cfg.RateLimit.ProxyRanges()
	if err != nil {
		log.Fatal().Err(err).Msg("trusted proxies")
	}

	// --- Core ---
	roles := cache.NewRoleCache(roleRepo, cfg.Websites.RoleCacheTTL)
	engine := authz.NewEngine(roles, logger.Component("authz"))
	sessions := service.NewTokenService(userRepo, roles, cfg.JWTSecret, cfg.TokenTTL)

	model, closeModel, err := newTextModel(ctx, cfg.Generator, logger.Component("llm"))
	if err != nil {
		log.Fatal().Err(err).Msg("content generator")
	}
	defer closeModel()

	websites := service.NewWebsiteService(
		websiteRepo,
		userRepo,
		engine,
		service.NewContentGenerator(model, metrics.Recorder{}, logger.Component("generator")),
		metrics.Recorder{},
		cfg.Websites.UpdateFields,
		log,
	)

	e := api.NewRouter(api.Dependencies{
		Log:        log,
		Sessions:   sessions,
		Authorizer: engine,
		Limiter:    redis.NewRateLimiter(rdb, cfg.RateLimit.Requests, cfg.RateLimit.Window),
		Auth:       service.NewAuthService(userRepo, roles, sessions, log),
		Roles:      service.NewRoleService(roles, userRepo, engine, log),
		Websites:   websites,
		Readiness: []handler.DependencyCheck{
			{Name: "mongodb", Ping: mongo.Ping(client)},
			{Name: "redis", Ping: redis.Ping(rdb)},
		},
		TrustedProxies: proxies,
		PreviewPublic:  cfg.Websites.PreviewPublic,
	})
	if cfg.Websites.PreviewPublic {
		log.Warn().Msg("preview is public: /preview serves any website without authentication")
	}

	// --- HTTP server ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
		// Generation calls can take tens of seconds.
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("api starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("api start failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("api stopped gracefully")
}

// newTextModel builds the configured upstream model and its cleanup.
func newTextModel(ctx context.Context, cfg config.GeneratorConfig, log zerolog.Logger) (ports.TextModel, func(), error) {
	switch cfg.Provider {
	case "gemini":
		g, err := generator.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModels, log)
		if err != nil {
			return nil, nil, err
		}
		return g, func() { _ = g.Close() }, nil
	case "openai":
		o, err := generator.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, log)
		if err != nil {
			return nil, nil, err
		}
		return o, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown generator provider %q", cfg.Provider)
	}
}

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"

	"charity-web/internal/cache"
	"charity-web/internal/charity"
	"charity-web/internal/config"
	"charity-web/internal/donate"
	"charity-web/internal/i18n"
	"charity-web/internal/location"
	"charity-web/internal/ratelimit"
	"charity-web/internal/session"
	"charity-web/internal/web"
)

// App encapsulates application dependencies
type App struct {
	router          *gin.Engine
	logger          *slog.Logger
	cfg             *config.Config
	cache           cache.RawCache
	sessions        *session.Store
	bundle          *i18n.Bundle
	limiter         *ratelimit.KeyedLimiter
	locationService location.Service
	donateService   donate.Service
}

// deps are the collaborators NewApp builds from configuration
type deps struct {
	cache     cache.RawCache
	locations location.Service
	charities charity.Service
	bundle    *i18n.Bundle
	renderer  *web.Renderer
}

// NewApp creates a new application with injected dependencies
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	store, err := newCache(cfg)
	if err != nil {
		return nil, err
	}

	locationSvc, err := location.NewLocationService(cfg, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	charitySvc, err := charity.NewCharityService(cfg, store, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	bundle, err := i18n.NewBundle(cfg.App.DefaultLanguage)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to load translations: %w", err)
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	return newApp(cfg, logger, deps{
		cache:     store,
		locations: locationSvc,
		charities: charitySvc,
		bundle:    bundle,
		renderer:  renderer,
	})
}

func newCache(cfg *config.Config) (cache.RawCache, error) {
	if cfg.Session.Backend == config.SessionBackendRedis {
		return cache.NewRedisCache(context.Background(), cache.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	return cache.NewMemoryCache(), nil
}

func newApp(cfg *config.Config, logger *slog.Logger, d deps) (*App, error) {
	// Set Gin mode from configuration
	gin.SetMode(cfg.Server.GinMode)

	router := gin.New()
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	router.HTMLRender = d.renderer

	app := &App{
		router:          router,
		logger:          logger,
		cfg:             cfg,
		cache:           d.cache,
		sessions:        session.NewStore(d.cache, cfg.Session.TTL, cfg.Session.CookieName, cfg.Session.Secure),
		bundle:          d.bundle,
		locationService: d.locations,
		donateService:   donate.NewDonateService(d.charities, cfg.App.LoadTimeout, logger),
		limiter: ratelimit.NewKeyedLimiter(ratelimit.Config{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}),
	}

	// Add middleware
	router.Use(gin.Recovery(), requestLogger(logger), app.languageMiddleware())

	// Register routes
	app.registerRoutes()

	logger.Info("application initialized",
		"session_backend", cfg.Session.Backend,
		"languages", d.bundle.Supported(),
	)

	return app, nil
}

// Run starts the HTTP server
func (app *App) Run(addr string) error {
	return app.router.Run(addr)
}

// Close releases the limiter and the cache backend
func (app *App) Close() error {
	_ = app.limiter.Close()
	return app.cache.Close()
}

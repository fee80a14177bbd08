package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/bilgisen/titan/internal/api"
	"github.com/bilgisen/titan/internal/cache"
	"github.com/bilgisen/titan/internal/config"
	"github.com/bilgisen/titan/internal/feed"
	"github.com/bilgisen/titan/internal/logger"
	"github.com/bilgisen/titan/internal/middleware"
	"github.com/bilgisen/titan/internal/site"
	"github.com/bilgisen/titan/internal/storage"
)

func main() {
	// Load and validate configuration
	cfg := config.Load()

	if err := logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: cfg.LogOutput(),
		Pretty: cfg.LogPretty,
	}); err != nil {
		panic(err)
	}

	log := logger.Get()
	log.Info().Str("env", cfg.Env).Msg("Starting application...")

	siteCfg, err := site.Load(cfg.SiteConfig)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.SiteConfig).Msg("Failed to load site config")
	}
	log.Info().
		Str("site", siteCfg.Name).
		Str("render_mode", siteCfg.RenderMode).
		Bool("demo", siteCfg.Demo).
		Bool("portfolio", siteCfg.Portfolio.URL != "").
		Bool("blog", siteCfg.Blog.URL != "").
		Msg("Loaded site config")

	// Page cache: Redis when configured, in-memory otherwise
	var redisClient cache.RedisInterface
	if cfg.RedisURL != "" {
		redisClient, err = cache.NewRedisClient(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize Redis client")
		}
	} else {
		log.Warn().Msg("REDIS_URL not set, using in-memory page cache")
		redisClient = cache.NewMockRedisClient()
	}
	defer func() {
		log.Info().Msg("Closing cache client...")
		if err := redisClient.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing cache client")
		}
	}()

	pages, err := newPageStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize page storage")
	}

	handlers, err := api.NewHandlers(cfg, siteCfg, redisClient, pages, feed.NewProcessor(feed.NewFetcher()))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize handlers")
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
		IdleTimeout:  120 * time.Second,
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger())

	api.SetupRoutes(app, handlers)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

// newPageStore layers the configured stores: R2 when credentials are set,
// then the local directory, then the embedded default shells.
func newPageStore(cfg *config.Config) (storage.PageStore, error) {
	files, err := storage.NewFileStore(cfg.StoragePath)
	if err != nil {
		return nil, err
	}

	r2cfg := storage.R2Config{
		Endpoint:  cfg.R2Endpoint,
		AccountID: cfg.R2AccountID,
		AccessKey: cfg.R2AccessKey,
		SecretKey: cfg.R2SecretKey,
		Bucket:    cfg.R2Bucket,
		Prefix:    cfg.R2Prefix,
	}
	if !r2cfg.Enabled() {
		return storage.NewChain(files, storage.NewEmbeddedStore()), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	r2, err := storage.NewR2Store(ctx, r2cfg)
	if err != nil {
		return nil, err
	}
	logger.Get().Info().Str("bucket", cfg.R2Bucket).Msg("Using R2 page storage")
	return storage.NewChain(r2, files, storage.NewEmbeddedStore()), nil
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketplace/internal/config"
	"marketplace/internal/handler"
	"marketplace/internal/history"
	"marketplace/internal/kvstore"
	"marketplace/internal/logger"
	"marketplace/internal/middleware"
	"marketplace/internal/repository"
	"marketplace/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("marketplace", "info", "json")
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New("marketplace", cfg.Logging.Level, cfg.Logging.Format)
	log.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Str("storage_backend", cfg.Storage.Backend).
		Bool("rate_limit", cfg.RateLimit.Enabled).
		Str("timezone", cfg.Availability.Timezone).
		Int("granularity_minutes", cfg.Availability.GranularityMinutes).
		Msg("configuration loaded")

	gin.SetMode(cfg.GinMode)

	ctx := context.Background()

	// Initialize database connection
	repo, err := repository.NewPostgresRepository(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer repo.Close()

	if cfg.PostgreSQL.EnsureSchema {
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to ensure database schema")
		}
	}
	log.Info().Msg("connected to PostgreSQL")

	// Session storage for filters and history
	kv, err := kvstore.Open(ctx, cfg.KVOptions())
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Storage.Backend).Msg("failed to open session storage")
	}
	defer kv.Close()

	var redisClient *redis.Client
	if cfg.RateLimit.Enabled {
		if shared, ok := kv.(*kvstore.Redis); ok {
			redisClient = shared.Client()
		} else {
			opt, err := redis.ParseURL(cfg.Redis.URL)
			if err != nil {
				log.Fatal().Err(err).Msg("invalid REDIS_URL")
			}
			redisClient = redis.NewClient(opt)
			defer redisClient.Close()
		}
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load time zone")
	}

	// Initialize services
	generations := service.NewGenerations(cfg.Search.GenerationTTL)
	historyService := history.NewService(kv, log,
		history.WithPopularSource(history.NewCachedPopular(
			history.Fallback{Primary: repo, Secondary: history.DefaultPopular},
			cfg.Search.PopularTTL,
		)),
		history.WithHistoryCap(cfg.Search.HistoryCap),
		history.WithSuggestionLimit(cfg.Search.SuggestionLimit),
	)
	filterService := service.NewFilterService(kv, generations, log)
	searchService := service.NewSearchService(
		repo,
		filterService,
		historyService,
		repo,
		generations,
		service.SearchConfig{
			DefaultLimit:   cfg.Search.DefaultLimit,
			MaxLimit:       cfg.Search.MaxLimit,
			CandidateBatch: cfg.Search.CandidateBatch,
		},
		log,
	)
	availabilityService := service.NewAvailabilityService(repo, loc, cfg.Granularity(), log)

	// Setup Gin router
	router := gin.New()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestLogger(log))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	corsConfig.AllowMethods = cfg.CORS.AllowedMethods
	corsConfig.AllowHeaders = cfg.CORS.AllowedHeaders
	corsConfig.ExposeHeaders = []string{middleware.SessionHeader}
	router.Use(cors.New(corsConfig))

	router.Use(middleware.Session(cfg.Server.SecureCookies))
	if redisClient != nil {
		router.Use(middleware.RateLimiter(redisClient, cfg.RateLimit.Requests, cfg.RateLimit.Window, log))
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := repo.Ping(pingCtx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "marketplace-search",
			"version": Version,
		})
	})

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	handler.RegisterRoutes(
		router,
		handler.NewFilterHandler(filterService),
		handler.NewSearchHandler(searchService, historyService),
		handler.NewHistoryHandler(historyService),
		handler.NewAvailabilityHandler(availabilityService),
	)

	srv := &http.Server{
		Addr:    cfg.GetServerAddr(),
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shut down")
	}
	log.Info().Msg("server stopped")
}

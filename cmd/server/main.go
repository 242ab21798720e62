package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"

	"github.com/Skufu/GoSummit/internal/assessment"
	"github.com/Skufu/GoSummit/internal/guideline"
	"github.com/Skufu/GoSummit/internal/logging"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Config struct {
	Port      string `envconfig:"PORT" default:"8080"`
	GinMode   string `envconfig:"GIN_MODE" default:"release"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	DatabaseURL string `envconfig:"DATABASE_URL"`
	EnableDB    bool   `envconfig:"ENABLE_DB" default:"false"`

	// GuidelineFile replaces the compiled-in guideline when set.
	GuidelineFile      string `envconfig:"GUIDELINE_FILE"`
	GuidelineVersion   string `envconfig:"GUIDELINE_VERSION"`
	GuidelineCacheSize int    `envconfig:"GUIDELINE_CACHE_SIZE" default:"16"`
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	gin.SetMode(cfg.GinMode)

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, "gosummit")
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()
	var (
		db      HealthChecker
		querier guideline.Querier
	)
	if cfg.EnableDB {
		pool, err := connectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("database connection failed", zap.Error(err))
		}
		defer pool.Close()
		db, querier = pool, pool
	}

	base, err := loadBaseGuideline(cfg)
	if err != nil {
		logger.Fatal("guideline error", zap.Error(err))
	}
	store, err := guideline.NewStore(querier, base, cfg.GuidelineCacheSize, logger)
	if err != nil {
		logger.Fatal("guideline store error", zap.Error(err))
	}
	if cfg.GuidelineVersion != "" {
		if _, err := store.Get(ctx, cfg.GuidelineVersion); err != nil {
			logger.Fatal("default guideline unavailable", zap.String("version", cfg.GuidelineVersion), zap.Error(err))
		}
	}

	router := setupRouter(routerDeps{
		DB:             db,
		Guidelines:     store,
		DefaultVersion: cfg.GuidelineVersion,
		Logger:         logger,
	})
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	logger.Info("server listening",
		zap.String("port", cfg.Port),
		zap.String("guideline", base.Version),
		zap.Bool("db", cfg.EnableDB))
	waitForShutdown(server, logger)
}

func loadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}

	if cfg.EnableDB && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required when ENABLE_DB=true")
	}

	return cfg, nil
}

func loadBaseGuideline(cfg *Config) (assessment.Guideline, error) {
	if cfg.GuidelineFile == "" {
		return assessment.DefaultGuideline(), nil
	}
	return guideline.LoadFile(cfg.GuidelineFile)
}

func connectDB(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse db url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return pool, nil
}

func waitForShutdown(server *http.Server, logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

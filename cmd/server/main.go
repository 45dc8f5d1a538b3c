// Server entry point: config, logger, Postgres, Redis, migrations, router,
// graceful shutdown.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/thejas-c/E-Waste-Facility-Locator/internal/ai"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/auth"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/config"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/infra"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/migrations"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/notify"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/router"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/security"
)

func main() {
	config.LoadDotEnvUp(6)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := newLogger()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	inf, err := infra.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("infra", zap.Error(err))
	}
	defer inf.Close()

	if err := migrations.NewRunner(inf.PG).Up(ctx); err != nil {
		logger.Fatal("migrations", zap.Error(err))
	}

	jwtm := security.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.JWTTTL)
	aiClient := ai.NewClient(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model, cfg.AI.Timeout)
	if cfg.AI.APIKey == "" {
		logger.Warn("GEMINI_API_KEY is not set; AI features degrade to fallbacks")
	}

	r := router.New(router.Dependencies{
		Pool:      inf.PG,
		Redis:     inf.Redis,
		AI:        aiClient,
		Hub:       notify.NewHub(logger),
		JWT:       jwtm,
		Validator: auth.NewJWTValidator(jwtm),
		Logger:    logger,
		Config:    cfg,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() (*zap.Logger, error) {
	if os.Getenv("APP_ENV") == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

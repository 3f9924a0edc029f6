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

	"github.com/gin-gonic/gin"
	"github.com/sachpatra/internal/config"
	"github.com/sachpatra/internal/db"
	"github.com/sachpatra/internal/handler"
	"github.com/sachpatra/internal/jobs"
	"github.com/sachpatra/internal/logging"
	"github.com/sachpatra/internal/router"
	"github.com/sachpatra/internal/storage"
	"github.com/sachpatra/internal/translate"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zl, err := logging.New(cfg.Development())
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync()

	gin.SetMode(cfg.GinMode)

	dbLevel := logger.Warn
	if cfg.Development() {
		dbLevel = logger.Info
	}
	gdb, err := db.Open(db.Options{Driver: cfg.DBDriver, DSN: cfg.DatabaseTarget(), LogLevel: dbLevel})
	if err != nil {
		zl.Fatal("failed to initialize database", zap.Error(err))
	}

	ctx := context.Background()
	store, err := storage.New(ctx, cfg)
	if err != nil {
		zl.Fatal("failed to initialize object storage", zap.Error(err))
	}

	layer, err := translate.NewLayer(translate.NewService(translationProvider(cfg), zl), cfg.TranslationCacheSize, zl)
	if err != nil {
		zl.Fatal("failed to initialize translation cache", zap.Error(err))
	}
	// title, excerpt and content each get one provider call
	layer.SetTimeout(3 * cfg.TranslateTimeout)

	api := handler.NewAPI(handler.Deps{
		DB:         gdb,
		Config:     cfg,
		Logger:     zl,
		Translator: layer,
		Store:      store,
	})
	if err := api.EnsureSuperRoot(ctx); err != nil {
		zl.Fatal("failed to bootstrap admin account", zap.Error(err))
	}

	scheduler, err := jobs.New(jobs.Schedule{
		Tabs:     cfg.CronTabsSchedule,
		Backfill: cfg.CronBackfillSchedule,
	}, api.Articles(), api.Tabs(), zl)
	if err != nil {
		zl.Fatal("failed to schedule jobs", zap.Error(err))
	}
	scheduler.Start()

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router.Setup(api, cfg, zl),
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		zl.Info("server listening", zap.String("addr", cfg.ListenAddr), zap.String("db", cfg.DBDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zl.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	scheduler.Stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("server forced to shutdown", zap.Error(err))
	}
	if sqlDB, err := gdb.DB(); err == nil {
		sqlDB.Close()
	}
	zl.Info("server exited")
}

func translationProvider(cfg config.AppConfig) translate.Provider {
	switch cfg.TranslateProvider {
	case "openai":
		return translate.NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	case "google":
		return translate.NewGoogleProvider(cfg.TranslateBaseURL, cfg.TranslateTimeout)
	default:
		return nil
	}
}

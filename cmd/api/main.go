package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/zaiko-app/zaikogo/internal/config"
	"github.com/zaiko-app/zaikogo/internal/database"
	"github.com/zaiko-app/zaikogo/internal/handlers"
	"github.com/zaiko-app/zaikogo/internal/logger"
	"github.com/zaiko-app/zaikogo/internal/models"
	"github.com/zaiko-app/zaikogo/internal/services/csvimport"
	"github.com/zaiko-app/zaikogo/internal/services/forecast"
	"github.com/zaiko-app/zaikogo/internal/services/report"
	"github.com/zaiko-app/zaikogo/internal/store"
)

func main() {
	log := logger.Get()
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&models.Product{},
		&models.OrderHistory{},
		&models.ImportLog{},
	); err != nil {
		log.Warn("schema migration warning", zap.Error(err))
	} else {
		log.Info("schema synchronized")
	}

	for _, dir := range []string{cfg.ModelDir, cfg.ReportDir, cfg.UploadDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatal("failed to create working directory", zap.String("dir", dir), zap.Error(err))
		}
	}

	st := store.New(db.DB)
	imports := csvimport.NewService(st, cfg.ReportDir)
	fc := forecast.NewService(st, cfg.ModelDir)
	reports := report.NewService(st, cfg.ReportDir)

	router := handlers.NewRouter(st, imports, fc, reports, cfg.UploadDir)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		log.Info("server starting", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	sig := <-shutdown
	log.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Warn("HTTP server shutdown error", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		log.Warn("database close error", zap.Error(err))
	}
	log.Info("shutdown complete")
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"projectboard/internal/config"
	"projectboard/internal/handler"
	"projectboard/internal/httpserver"
	"projectboard/internal/mq"
	"projectboard/internal/repository"
	"projectboard/pkg/db"
	"projectboard/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	log := logger.NewLogger()
	defer log.Sync()

	cfg, err := config.Load("")
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}

	log.Info("Starting projectboard server...",
		zap.String("port", cfg.Server.Port),
		zap.Bool("mq_enabled", cfg.MQ.URL != ""),
	)

	// DB
	dbConn, err := db.NewConnection(cfg.Supabase.URL, log)
	if err != nil {
		log.Fatal("Failed to init DB", zap.Error(err))
	}
	defer dbConn.Close()

	// Optional lifecycle event publisher
	var publisher *mq.Publisher
	if cfg.MQ.URL != "" {
		publisher, err = mq.NewPublisher(cfg.MQ.URL)
		if err != nil {
			log.Fatal("Failed to init publisher", zap.Error(err))
		}
		defer publisher.Close()
		log.Info("Lifecycle event publisher initialized")
	}

	projectRepo := repository.NewProjectRepository(dbConn, log)
	taskRepo := repository.NewTaskRepository(dbConn, log)

	// A nil interface keeps events disabled when no broker is configured.
	var events handler.EventPublisher
	if publisher != nil {
		events = publisher
	}

	projectHandler := handler.NewProjectHandler(projectRepo, events, log)
	taskHandler := handler.NewTaskHandler(taskRepo, events, log)

	router := httpserver.NewRouter(projectHandler, taskHandler, log, dbConn)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 优雅退出处理
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}

	log.Info("Server shutdown complete")
}

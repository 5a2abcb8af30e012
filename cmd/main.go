package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"reminder-service/internal/config"
	"reminder-service/internal/server"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	srv, reminderWorker := server.NewServer(cfg, logger)

	if err := reminderWorker.Start(); err != nil {
		// A bad cron spec shouldn't take the API down; the run endpoint
		// still works.
		logger.Warn("reminder scheduler disabled", zap.Error(err))
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Reminder service HTTP server starting on %s", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Println("Reminder service shutting down gracefully...")
		reminderWorker.Stop()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Reminder service shutdown error: %v", err)
		}
	case err := <-errCh:
		log.Fatalf("Reminder service failed: %v", err)
	}
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"project-planner/internal/config"
	"project-planner/internal/notify"
	"project-planner/internal/repository"
	"project-planner/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("db", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	digestSvc := service.NewDigestService(db)

	if cfg.TelegramToken == "" {
		logger.Info("no telegram token configured, digest delivery disabled")
		<-ctx.Done()
		logger.Info("shutdown complete")
		return
	}

	notifier, err := notify.NewTelegramNotifier(cfg.TelegramToken, userRepo, digestSvc, cfg.DigestWindow, logger)
	if err != nil {
		logger.Fatal("notifier", zap.Error(err))
	}

	scheduler := service.NewScheduler(time.Local)
	if _, err := scheduler.ScheduleDaily(cfg.DigestTime, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := notifier.SendDigests(jobCtx, time.Now()); err != nil {
			logger.Error("digest run", zap.Error(err))
		}
	}); err != nil {
		logger.Fatal("schedule digests", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	logger.Info("project planner started", zap.String("digest_time", cfg.DigestTime))
	<-ctx.Done()
	logger.Info("shutdown complete")
}

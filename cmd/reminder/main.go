package main // Entry point for the daily reminder run, invoked by cron

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/rovenna/vessel-audit/internal/config"
	"github.com/rovenna/vessel-audit/internal/database"
	"github.com/rovenna/vessel-audit/internal/notify"
	"github.com/rovenna/vessel-audit/internal/reminder"
	"github.com/rovenna/vessel-audit/internal/repository"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	logger = logger.Named("reminder")

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.Fatal("database open failed", zap.Error(err))
	}
	defer db.Close()

	pub, err := notify.NewPublisher(notify.BrokerURL(), logger)
	if err != nil {
		logger.Fatal("broker connect failed", zap.Error(err))
	}
	defer pub.Close()

	rdb := config.NewRedisClient() // nil disables the run lock and dedup

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	job := &reminder.Job{
		Cfg:      cfg,
		Findings: repository.NewFindingRepo(db),
		Audits:   repository.NewAuditRepo(db),
		Rdb:      rdb,
		Pub:      pub,
		Log:      logger,
	}
	if err := job.Run(ctx); err != nil {
		logger.Fatal("reminder run failed", zap.Error(err))
	}
	logger.Info("reminder run finished")
}

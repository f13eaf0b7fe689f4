package main // Entry point for the API server

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/rovenna/vessel-audit/internal/config"
	"github.com/rovenna/vessel-audit/internal/database"
	"github.com/rovenna/vessel-audit/internal/handler"
	"github.com/rovenna/vessel-audit/internal/mailer"
	appmw "github.com/rovenna/vessel-audit/internal/middleware"
	"github.com/rovenna/vessel-audit/internal/model"
	"github.com/rovenna/vessel-audit/internal/notify"
	"github.com/rovenna/vessel-audit/internal/queue"
	"github.com/rovenna/vessel-audit/internal/repository"
	"github.com/rovenna/vessel-audit/internal/router"
	"github.com/rovenna/vessel-audit/internal/utils"
)

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.Fatal("database open failed", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName, "migrations"); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	rdb := config.NewRedisClient() // nil when redis is unreachable

	// Repositories.
	users := repository.NewUserRepo(db)
	roles := repository.NewRoleRepo(db)
	vessels := repository.NewVesselRepo(db)
	auditTypes := repository.NewAuditTypeRepo(db)
	auditParties := repository.NewAuditPartyRepo(db)
	auditCompanies := repository.NewAuditCompanyRepo(db)
	auditors := repository.NewAuditorRepo(db)
	auditResults := repository.NewAuditResultRepo(db)
	audits := repository.NewAuditRepo(db)
	findings := repository.NewFindingRepo(db)
	evidence := repository.NewFindingAttachmentRepo(db)
	reports := repository.NewAuditAttachmentRepo(db)
	settings := repository.NewSettingsRepo(db)
	dashboard := repository.NewDashboardRepo(db)

	if err := seedAdmin(cfg, users, roles, logger); err != nil {
		logger.Fatal("admin bootstrap failed", zap.Error(err))
	}

	// Background consumer: drains the notification queue into email.
	go func() {
		sender := mailer.New(cfg, logger.Named("mailer"))
		if err := queue.StartNotificationConsumer(notify.BrokerURL(), sender, logger.Named("consumer")); err != nil {
			logger.Error("notification consumer stopped", zap.Error(err))
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	var cacheMW echo.MiddlewareFunc
	if cacheCfg := config.LoadCacheConfig(); cacheCfg.Enabled && rdb != nil {
		cacheMW = appmw.NewRedisCache(cacheCfg, rdb)
	}

	router.Register(e, router.Deps{
		Cfg:         &cfg,
		Auth:        handler.NewAuthHandler(cfg, users),
		Vessels:     handler.NewVesselHandler(vessels),
		Lookups:     handler.NewLookupHandler(auditTypes, auditParties, auditCompanies, auditors, auditResults),
		Audits:      handler.NewAuditHandler(audits),
		Findings:    handler.NewFindingHandler(findings, audits),
		Attachments: handler.NewAttachmentHandler(&cfg, findings, audits, evidence, reports),
		Users:       handler.NewUserHandler(&cfg, users),
		Roles:       handler.NewRoleHandler(roles),
		Settings:    handler.NewSettingsHandler(settings),
		Dashboard:   handler.NewDashboardHandler(&cfg, dashboard),
		Grants:      roles,
		Cache:       cacheMW,
	})

	addr := ":" + cfg.Port
	logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := e.Start(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// seedAdmin creates the first Admin account on an empty users table so a
// fresh install can log in. Credentials come from ADMIN_EMAIL and
// ADMIN_PASSWORD; the password should be rotated after first login.
func seedAdmin(cfg config.Config, users *repository.UserRepo, roles *repository.RoleRepo, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, total, err := users.List(ctx, 1, 0, true)
	if err != nil {
		return err
	}
	if total > 0 {
		return nil
	}

	all, err := roles.ListRoles(ctx)
	if err != nil {
		return err
	}
	var adminRoleID uint64
	for _, r := range all {
		if r.Name == model.RoleAdmin {
			adminRoleID = r.ID
			break
		}
	}
	if adminRoleID == 0 {
		return errors.New("admin role not seeded")
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "ChangeMe123!"
		logger.Warn("ADMIN_PASSWORD not set, using the default; change it immediately")
	}
	hash, err := utils.HashPassword(password, cfg.BcryptCost)
	if err != nil {
		return err
	}
	u := &model.User{
		Name:         "Administrator",
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		RoleID:       adminRoleID,
		IsActive:     true,
	}
	if err := users.Create(ctx, u); err != nil {
		return err
	}
	logger.Info("seeded initial admin account", zap.String("email", u.Email))
	return nil
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "prod" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

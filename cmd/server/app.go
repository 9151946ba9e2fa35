package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sitecms/internal/config"
	"github.com/sitecms/internal/db"
	"github.com/sitecms/internal/logging"
	sitemail "github.com/sitecms/internal/mail"
	"github.com/sitecms/internal/newsfeed"
	"github.com/sitecms/internal/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// app holds everything the commands share once configuration is loaded.
type app struct {
	cfg      config.AppConfig
	logger   *zap.Logger
	gdb      *gorm.DB
	repos    *service.Repositories
	services *service.Services
	// memory serves the in-memory copies used while the database is unavailable.
	memory *service.Services
	news   *newsfeed.Client
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}
	a.gdb = a.openDatabase()
	a.repos = service.NewRepositories(a.gdb, logger)

	opts := service.Options{
		Assets: service.AssetConfig{
			Dir:      cfg.UploadDir,
			URLPath:  cfg.UploadURLPath,
			MaxBytes: cfg.UploadMaxBytes,
		},
		Mailer:           a.newMailer(),
		ContactRecipient: cfg.SMTP.ContactRecipient,
		Logger:           logger,
	}
	a.services = service.NewServices(a.repos, opts)
	a.memory = service.NewServices(a.repos.Memory(), opts)

	a.news = newsfeed.NewClient(newsfeed.ClientConfig{
		BaseURL:  cfg.News.BaseURL,
		APIKey:   cfg.News.APIKey,
		Language: cfg.News.Language,
		PageSize: cfg.News.PageSize,
	})
	return a, nil
}

// openDatabase returns nil when the store should run from memory only.
func (a *app) openDatabase() *gorm.DB {
	if a.cfg.DatabaseDriver == config.DriverMemory {
		a.logger.Warn("database disabled, serving from memory")
		return nil
	}

	level := gormlogger.Silent
	if strings.EqualFold(a.cfg.LogLevel, "debug") {
		level = gormlogger.Info
	}
	gdb, err := db.Open(db.Options{
		Driver:   a.cfg.DatabaseDriver,
		Path:     a.cfg.DatabasePath,
		URL:      a.cfg.DatabaseURL,
		LogLevel: level,
	})
	if err != nil {
		a.logger.Warn("database unavailable, serving from memory",
			zap.String("driver", a.cfg.DatabaseDriver), zap.Error(err))
		return nil
	}
	a.logger.Info("database connected", zap.String("driver", a.cfg.DatabaseDriver))
	return gdb
}

func (a *app) newMailer() sitemail.Mailer {
	if !a.cfg.SMTP.Enabled() {
		a.logger.Info("smtp not configured, contact mail will only be logged")
		return sitemail.NewLogMailer(a.logger)
	}
	mailer, err := sitemail.NewSMTPMailer(sitemail.SMTPConfig{
		Host:     a.cfg.SMTP.Host,
		Port:     a.cfg.SMTP.Port,
		Username: a.cfg.SMTP.Username,
		Password: a.cfg.SMTP.Password,
		From:     a.cfg.SMTP.From,
	})
	if err != nil {
		a.logger.Warn("invalid smtp settings, contact mail will only be logged", zap.Error(err))
		return sitemail.NewLogMailer(a.logger)
	}
	return mailer
}

func (a *app) newIngestor() *newsfeed.Ingestor {
	return newsfeed.NewIngestor(a.news, a.services.News, a.services.Settings, a.cfg.News.Queries, a.logger)
}

// ensureAdmin 在数据库与内存中都准备好超级管理员账号。
func (a *app) ensureAdmin(ctx context.Context) error {
	user, pass := a.cfg.SuperRootUserName, a.cfg.SuperRootPassword
	if user == "" || pass == "" {
		a.logger.Warn("SUPER_ROOT_USER_NAME or SUPER_ROOT_PASSWORD not set, skipping admin bootstrap")
		return nil
	}

	targets := []*service.Services{a.memory}
	if a.gdb != nil {
		targets = append(targets, a.services)
	}
	for _, svcs := range targets {
		created, err := svcs.Admins.EnsureAdmin(ctx, user, pass)
		if err != nil {
			return fmt.Errorf("ensure admin: %w", err)
		}
		if created {
			a.logger.Info("admin account created", zap.String("username", user), zap.String("storage", svcs.StorageMode()))
		}
	}
	return nil
}

func (a *app) close() {
	if err := db.Close(a.gdb); err != nil {
		a.logger.Warn("close database", zap.Error(err))
	}
	_ = a.logger.Sync()
}

const shutdownTimeout = 10 * time.Second

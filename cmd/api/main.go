package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"orgdesk/internal/core/auth"
	"orgdesk/internal/core/cache"
	"orgdesk/internal/core/config"
	"orgdesk/internal/core/database"
	"orgdesk/internal/core/logger"
	"orgdesk/internal/core/mail"
	"orgdesk/internal/core/server"
	"orgdesk/internal/core/storage"
	"orgdesk/internal/domain"
	"orgdesk/internal/repo"
	"orgdesk/internal/service"
	"orgdesk/internal/transport/http/handler"
	"orgdesk/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))

	log, cleanup := newLogger(cfg)
	defer cleanup()

	// 数据库（失败会直接 Fatal）
	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	// 自动迁移
	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(
			&domain.User{},
			&domain.ResetToken{},
			&domain.Employee{},
			&domain.Project{},
			&domain.ProjectAssignment{},
			&domain.Expense{},
		); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	// Redis（可选）
	var rc *cache.Cache
	if cfg.Redis.Enable {
		rc = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		log.Info("redis cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	// JWT
	jwter := &auth.JWTer{
		Secret:      []byte(cfg.JWT.Secret),
		Issuer:      cfg.JWT.Issuer,
		TTL:         time.Duration(cfg.JWT.AccessTokenTTLHour) * time.Hour,
		RememberTTL: time.Duration(cfg.JWT.RememberTokenTTLDay) * 24 * time.Hour,
		ResetTTL:    time.Duration(cfg.JWT.ResetTokenTTLMin) * time.Minute,
	}

	// 邮件 + 本地上传目录
	mailer := mail.New(mail.Options{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		BaseURL:  cfg.SMTP.BaseURL,
	})
	store, err := storage.NewLocal(cfg.Upload.Dir)
	if err != nil {
		log.Fatal("upload dir", zap.Error(err))
	}

	// 仓储 / 服务 / handler
	users := repo.NewUserRepo(db)
	emps := repo.NewEmployeeRepo(db)
	tokens := repo.NewTokenRepo(db)
	projects := repo.NewProjectRepo(db)
	expenses := repo.NewExpenseRepo(db)

	h := router.Handlers{
		Auth:     handler.NewAuthHandler(service.NewAuthService(users, emps, tokens, jwter, mailer, log), store, int64(cfg.Upload.MaxSizeMB)),
		User:     handler.NewUserHandler(service.NewUserService(users)),
		Employee: handler.NewEmployeeHandler(service.NewEmployeeService(emps, rc)),
		Project:  handler.NewProjectHandler(service.NewProjectService(projects, emps)),
		Expense:  handler.NewExpenseHandler(service.NewExpenseService(expenses, emps)),
	}

	r := router.NewAPIEngine(log, jwter, h, store.Dir(), cfg.Upload.PublicPath)

	// HTTP Server
	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	// 启动日志
	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("orgdesk api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/api/v1"),
	)

	// 异步启动
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("orgdesk api start FAILED", zap.Error(err))
		}
	}()
	log.Info("orgdesk api started SUCCESS")

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("orgdesk api stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, func()) {
	if cfg.Log.File == "" {
		return logger.New(cfg.Log.Level, cfg.Log.JSON)
	}
	return logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON, logger.FileRotate{
		Enable:     true,
		Filename:   cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}

// @title           Blog Admin API
// @version         1.0
// @description     博客后台管理接口：文章状态、文章、评论、权限。
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/blog-admin/config"
	"github.com/d60-Lab/blog-admin/internal/api"
	"github.com/d60-Lab/blog-admin/internal/api/handler"
	"github.com/d60-Lab/blog-admin/internal/api/middleware"
	"github.com/d60-Lab/blog-admin/internal/auth"
	"github.com/d60-Lab/blog-admin/internal/model"
	"github.com/d60-Lab/blog-admin/internal/repository"
	"github.com/d60-Lab/blog-admin/internal/service"
	"github.com/d60-Lab/blog-admin/pkg/cache"
	"github.com/d60-Lab/blog-admin/pkg/database"
	"github.com/d60-Lab/blog-admin/pkg/logger"
	"github.com/d60-Lab/blog-admin/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()
	shutdownTracing, err := tracing.Init(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to init tracing", zap.Error(err))
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}
	if err := database.SeedAuthorities(db, model.RoleAdmin, model.RoleUser); err != nil {
		logger.Fatal("failed to seed authorities", zap.Error(err))
	}

	entityCache, err := cache.New(cfg.Redis)
	if err != nil {
		logger.Fatal("failed to init cache", zap.Error(err))
	}

	// 依赖装配
	statusRepo := repository.NewPostStatusRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	authorityRepo := repository.NewAuthorityRepository(db)

	statusSv := service.NewPostStatusService(statusRepo, entityCache)
	postSv := service.NewPostService(postRepo, statusRepo, statusSv, entityCache)
	commentSv := service.NewCommentService(commentRepo, postRepo, postSv, entityCache)
	authoritySv := service.NewAuthorityService(authorityRepo)
	exportSv := service.NewExportService(postRepo)

	authenticator := auth.NewAuthenticator(cfg.JWT, cfg.Users)
	h := handler.New(statusSv, postSv, commentSv, authoritySv, exportSv, authenticator)

	router := api.NewRouter(api.Deps{
		Config:  cfg,
		Handler: h,
		Auth:    authenticator,
		Metrics: middleware.NewMetrics(),
		DB:      db,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr), zap.String("db", cfg.Database.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	if c, ok := entityCache.(io.Closer); ok {
		if err := c.Close(); err != nil {
			logger.Warn("close cache", zap.Error(err))
		}
	}
	if err := database.Close(db); err != nil {
		logger.Warn("close database", zap.Error(err))
	}
	if err := shutdownTracing(ctx); err != nil {
		logger.Warn("shutdown tracing", zap.Error(err))
	}
	logger.Info("server exited")
}

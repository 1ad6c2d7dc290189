// Command server runs the blog platform HTTP API.
//
// @title                      Blog Platform API
// @version                    1.0
// @description                多用户博客平台：文章、标签分类、评论、点赞收藏、关注与统计
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
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

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/blog-platform/config"
	"github.com/d60-Lab/blog-platform/internal/api"
	"github.com/d60-Lab/blog-platform/internal/api/handler"
	"github.com/d60-Lab/blog-platform/internal/auth"
	"github.com/d60-Lab/blog-platform/internal/cache"
	"github.com/d60-Lab/blog-platform/internal/llm"
	"github.com/d60-Lab/blog-platform/internal/repository"
	"github.com/d60-Lab/blog-platform/internal/service"
	"github.com/d60-Lab/blog-platform/internal/storage"
	"github.com/d60-Lab/blog-platform/pkg/database"
	"github.com/d60-Lab/blog-platform/pkg/logger"
	"github.com/d60-Lab/blog-platform/pkg/ratelimit"
	"github.com/d60-Lab/blog-platform/pkg/tracing"
	"github.com/d60-Lab/blog-platform/pkg/validation"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	if err := validation.Register(); err != nil {
		return err
	}

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			Environment:      cfg.Sentry.Environment,
			SampleRate:       cfg.Sentry.SampleRate,
			AttachStacktrace: true,
		}); err != nil {
			return fmt.Errorf("init sentry: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	shutdownTracing, err := tracing.Init(context.Background(), cfg.Tracing)
	if err != nil {
		return err
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Warn("close database", zap.Error(err))
		}
	}()
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			return err
		}
	}

	// Redis 可选，不可用时直接读库
	rdb, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logger.Warn("redis unavailable, caching disabled", zap.Error(err))
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}
	postCache := cache.NewPostCache(rdb, cfg.Redis.TTL)

	store, err := storage.New(cfg.Storage)
	if err != nil {
		return err
	}
	logger.Info("media storage ready", zap.String("driver", cfg.Storage.Driver))

	app := wire(cfg, db, postCache, store)
	stopViews := app.views.Start(cfg.Views.Workers)

	authLimiter := ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst, 10*time.Minute)
	defer authLimiter.Stop()

	var cachePinger handler.Pinger
	if postCache.Enabled() {
		cachePinger = postCache
	}
	h := handler.New(app.services, cfg, handler.PingFunc(func(ctx context.Context) error {
		return database.Ping(ctx, db)
	}), cachePinger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      api.NewRouter(api.Options{Config: cfg, Handler: h, Tokens: app.tokens, AuthLimiter: authLimiter}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.Error("HTTP server error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown", zap.Error(err))
	}
	// 先停 HTTP，再把剩余浏览量写完
	if err := stopViews(ctx); err != nil {
		logger.Warn("view recorder did not drain", zap.Error(err))
	}
	if err := shutdownTracing(ctx); err != nil {
		logger.Warn("tracer shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
	return nil
}

type application struct {
	services handler.Services
	tokens   *auth.TokenManager
	views    *service.ViewRecorder
}

func wire(cfg *config.Config, db *gorm.DB, postCache *cache.PostCache, store storage.Store) *application {
	users := repository.NewUserRepository(db)
	posts := repository.NewPostRepository(db)
	tags := repository.NewTagRepository(db)
	categories := repository.NewCategoryRepository(db)
	comments := repository.NewCommentRepository(db)
	likes := repository.NewLikeRepository(db)
	bookmarks := repository.NewBookmarkRepository(db)
	follows := repository.NewFollowRepository(db)

	tokens := auth.NewTokenManager(cfg.JWT, cfg.Session)
	views := service.NewViewRecorder(posts, cfg.Views.QueueSize)
	blog := service.NewBlogService(posts, likes, bookmarks, comments, postCache, views)

	var completer service.Completer
	if cfg.LLM.Enabled() {
		completer = llm.NewClient(cfg.LLM)
	}

	return &application{
		tokens: tokens,
		views:  views,
		services: handler.Services{
			Auth:         service.NewAuthService(users, tokens),
			Post:         service.NewPostService(posts, tags, categories, postCache, store),
			Blog:         blog,
			Taxonomy:     service.NewTaxonomyService(tags, categories, postCache),
			Comment:      service.NewCommentService(comments, posts, blog),
			Interaction:  service.NewInteractionService(likes, bookmarks, posts, blog),
			Relationship: service.NewRelationshipService(follows, users),
			Profile:      service.NewProfileService(users, follows, posts, postCache),
			Analytics:    service.NewAnalyticsService(repository.NewStatsRepository(db)),
			Media:        service.NewMediaService(store, cfg.Storage.MaxUploadBytes, cfg.Storage.MaxImagePixels),
			Topic:        service.NewTopicService(completer),
			User:         service.NewUserService(users),
		},
	}
}

package api

import (
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/d60-Lab/blog-platform/config"
	_ "github.com/d60-Lab/blog-platform/docs" // swagger 文档
	"github.com/d60-Lab/blog-platform/internal/api/handler"
	"github.com/d60-Lab/blog-platform/internal/api/middleware"
	"github.com/d60-Lab/blog-platform/internal/model"
	"github.com/d60-Lab/blog-platform/pkg/logger"
	"github.com/d60-Lab/blog-platform/pkg/ratelimit"
)

// Options 路由依赖
type Options struct {
	Config      *config.Config
	Handler     *handler.Handler
	Tokens      middleware.TokenParser
	AuthLimiter *ratelimit.KeyedLimiter
}

// NewRouter 注册全部路由
func NewRouter(opts Options) *gin.Engine {
	cfg := opts.Config
	h := opts.Handler

	r := gin.New()
	// 只有受信代理的 X-Forwarded-For 才参与 ClientIP，否则限流可被伪造绕过
	if err := r.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		logger.Warn("invalid trusted proxies, trusting none", zap.Strings("proxies", cfg.Server.TrustedProxies), zap.Error(err))
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery())
	if cfg.Sentry.DSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	r.Use(middleware.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/uploads", "/api/v1/admin/media"})))

	r.GET("/health", h.Health)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if (cfg.Storage.Driver == "" || cfg.Storage.Driver == "local") && cfg.Storage.UploadDir != "" {
		r.Static("/uploads", cfg.Storage.UploadDir)
	}

	requireAuth := middleware.Auth(opts.Tokens)
	optionalAuth := middleware.OptionalAuth(opts.Tokens)

	v1 := r.Group("/api/v1")

	authGroup := v1.Group("/auth")
	if opts.AuthLimiter != nil {
		authGroup.Use(middleware.RateLimit(opts.AuthLimiter))
	}
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.Refresh)
		authGroup.POST("/logout", requireAuth, h.Logout)
		authGroup.GET("/me", requireAuth, h.Me)
	}

	// 读者端
	web := v1.Group("/web")
	{
		web.GET("/posts", h.ListPosts)
		web.GET("/posts/feed", requireAuth, h.Feed)
		web.GET("/posts/:slug", optionalAuth, h.GetPost)
		web.GET("/posts/:slug/related", h.RelatedPosts)
		web.GET("/posts/:slug/comments", h.ListComments)
		web.POST("/posts/:slug/comments", requireAuth, h.CreateComment)
		web.POST("/posts/:slug/like", requireAuth, h.ToggleLike)
		web.POST("/posts/:slug/bookmark", requireAuth, h.ToggleBookmark)

		web.PUT("/comments/:id", requireAuth, h.UpdateComment)
		web.DELETE("/comments/:id", requireAuth, h.DeleteComment)

		web.GET("/bookmarks", requireAuth, h.ListBookmarks)
		web.GET("/tags", h.PublicTags)
		web.GET("/categories", h.PublicCategories)

		web.POST("/users/:id/follow", requireAuth, h.ToggleFollow)
		web.GET("/users/:id/followers", h.ListFollowers)
		web.GET("/users/:id/following", h.ListFollowing)

		web.PUT("/profile", requireAuth, h.UpdateProfile)
		web.PUT("/profile/password", requireAuth, h.ChangePassword)
		web.GET("/profile/:username", optionalAuth, h.GetProfile)
	}

	// 后台：作者与管理员
	admin := v1.Group("/admin", requireAuth, middleware.RequireRole(model.RoleAuthor, model.RoleAdmin))
	{
		admin.GET("/posts", h.AdminListPosts)
		admin.POST("/posts", h.CreatePost)
		admin.GET("/posts/:id", h.AdminGetPost)
		admin.PUT("/posts/:id", h.UpdatePost)
		admin.PATCH("/posts/:id/status", h.UpdatePostStatus)
		admin.DELETE("/posts/:id", h.DeletePost)

		admin.GET("/analytics/overview", h.AnalyticsOverview)
		admin.GET("/analytics/posts-per-month", h.PostsPerMonth)
		admin.GET("/analytics/top-posts", h.TopPosts)

		admin.POST("/media", h.UploadImage)
		admin.POST("/topics/suggest", h.SuggestTopics)
	}

	// 标签分类和用户角色只有管理员可以改
	adminOnly := v1.Group("/admin", requireAuth, middleware.RequireRole(model.RoleAdmin))
	{
		adminOnly.GET("/tags", h.ListTags)
		adminOnly.POST("/tags", h.CreateTag)
		adminOnly.PUT("/tags/:id", h.UpdateTag)
		adminOnly.DELETE("/tags/:id", h.DeleteTag)

		adminOnly.GET("/categories", h.ListCategories)
		adminOnly.POST("/categories", h.CreateCategory)
		adminOnly.PUT("/categories/:id", h.UpdateCategory)
		adminOnly.DELETE("/categories/:id", h.DeleteCategory)

		adminOnly.GET("/users", h.ListUsers)
		adminOnly.PATCH("/users/:id/role", h.UpdateUserRole)
	}

	return r
}

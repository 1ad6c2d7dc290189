package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/blog-platform/config"
	"github.com/d60-Lab/blog-platform/internal/api/middleware"
	"github.com/d60-Lab/blog-platform/internal/service"
	"github.com/d60-Lab/blog-platform/pkg/response"
	"github.com/d60-Lab/blog-platform/pkg/validation"
)

// Pinger 健康检查依赖
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Services 处理器依赖的全部服务
type Services struct {
	Auth         service.AuthService
	Post         service.PostService
	Blog         service.BlogService
	Taxonomy     service.TaxonomyService
	Comment      service.CommentService
	Interaction  service.InteractionService
	Relationship service.RelationshipService
	Profile      service.ProfileService
	Analytics    service.AnalyticsService
	Media        service.MediaService
	Topic        service.TopicService
	User         service.UserService
}

// Handler 所有 HTTP 接口
type Handler struct {
	authService        service.AuthService
	postService        service.PostService
	blogService        service.BlogService
	taxonomyService    service.TaxonomyService
	commentService     service.CommentService
	interactionService service.InteractionService
	relService         service.RelationshipService
	profileService     service.ProfileService
	analyticsService   service.AnalyticsService
	mediaService       service.MediaService
	topicService       service.TopicService
	userService        service.UserService

	cookies        config.ServerConfig
	maxUploadBytes int64
	db             Pinger
	cache          Pinger
}

func New(s Services, cfg *config.Config, db, cache Pinger) *Handler {
	return &Handler{
		authService:        s.Auth,
		postService:        s.Post,
		blogService:        s.Blog,
		taxonomyService:    s.Taxonomy,
		commentService:     s.Comment,
		interactionService: s.Interaction,
		relService:         s.Relationship,
		profileService:     s.Profile,
		analyticsService:   s.Analytics,
		mediaService:       s.Media,
		topicService:       s.Topic,
		userService:        s.User,
		cookies:            cfg.Server,
		maxUploadBytes:     cfg.Storage.MaxUploadBytes,
		db:                 db,
		cache:              cache,
	}
}

// actor 当前登录用户
func actor(c *gin.Context) service.Actor {
	return service.Actor{UserID: middleware.CurrentUserID(c), Role: middleware.CurrentRole(c)}
}

// bindJSON 绑定失败时直接写 400
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.BadRequest(c, validation.Message(err))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, dst any) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return false
	}
	return true
}

type slugURI struct {
	Slug string `uri:"slug" binding:"required,slug"`
}

// postSlug 读取路径里的文章 slug；格式不对的 slug 不可能存在，直接 404
func postSlug(c *gin.Context) (string, bool) {
	var u slugURI
	if err := c.ShouldBindUri(&u); err != nil {
		response.NotFound(c, service.ErrPostNotFound.Message)
		return "", false
	}
	return u.Slug, true
}

// pageParams 读取 page/limit，非法值交给 NormalizePage 兜底
func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(service.DefaultPageSize)))
	return service.NormalizePage(page, limit)
}

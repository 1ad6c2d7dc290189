package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/d60-Lab/blog-platform/internal/cache"
	"github.com/d60-Lab/blog-platform/internal/model"
	"github.com/d60-Lab/blog-platform/internal/repository"
	"github.com/d60-Lab/blog-platform/internal/storage"
	"github.com/d60-Lab/blog-platform/pkg/apperr"
	"github.com/d60-Lab/blog-platform/pkg/logger"
)

var ErrNotPostOwner = apperr.Forbidden("you can only manage your own posts")

// Actor 当前操作者
type Actor struct {
	UserID string
	Role   model.Role
}

func (a Actor) IsAdmin() bool { return a.Role == model.RoleAdmin }

// CreatePostInput 新建文章
type CreatePostInput struct {
	Title         string           `json:"title" binding:"required,max=255"`
	Content       string           `json:"content"`
	Excerpt       string           `json:"excerpt" binding:"max=500"`
	CoverImage    string           `json:"cover_image" binding:"max=512"`
	CoverBlurhash string           `json:"cover_blurhash" binding:"max=64"`
	Status        model.PostStatus `json:"status" binding:"omitempty,post_status"`
	TagIDs        []string         `json:"tag_ids"`
	CategoryIDs   []string         `json:"category_ids"`
}

// UpdatePostInput 部分更新；nil 字段保持不变，tag_ids/category_ids 传入即整体替换
type UpdatePostInput struct {
	Title         *string           `json:"title" binding:"omitempty,min=1,max=255"`
	Content       *string           `json:"content"`
	Excerpt       *string           `json:"excerpt" binding:"omitempty,max=500"`
	CoverImage    *string           `json:"cover_image" binding:"omitempty,max=512"`
	CoverBlurhash *string           `json:"cover_blurhash" binding:"omitempty,max=64"`
	Status        *model.PostStatus `json:"status" binding:"omitempty,post_status"`
	TagIDs        []string          `json:"tag_ids"`
	CategoryIDs   []string          `json:"category_ids"`
}

// AdminListQuery 后台列表查询
type AdminListQuery struct {
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
	Search   string `form:"search"`
	Status   string `form:"status"`
	Sort     string `form:"sort"`
	Tag      string `form:"tag"`
	Category string `form:"category"`
	From     string `form:"from"`
	To       string `form:"to"`
	Window   string `form:"window"`
}

// PostService 后台文章管理
type PostService interface {
	List(ctx context.Context, actor Actor, q AdminListQuery) (*PageResult[*model.Post], error)
	Get(ctx context.Context, actor Actor, id string) (*model.Post, error)
	Create(ctx context.Context, actor Actor, in CreatePostInput) (*model.Post, error)
	Update(ctx context.Context, actor Actor, id string, in UpdatePostInput) (*model.Post, error)
	UpdateStatus(ctx context.Context, actor Actor, id string, status model.PostStatus) (*model.Post, error)
	Delete(ctx context.Context, actor Actor, id string) error
}

type postService struct {
	posts      repository.PostRepository
	tags       repository.TagRepository
	categories repository.CategoryRepository
	slugs      *SlugGenerator
	cache      *cache.PostCache
	store      storage.Store
	now        func() time.Time
}

// NewPostService store 可为 nil，此时替换或删除封面不清理旧文件
func NewPostService(
	posts repository.PostRepository,
	tags repository.TagRepository,
	categories repository.CategoryRepository,
	postCache *cache.PostCache,
	store storage.Store,
) PostService {
	return &postService{
		posts:      posts,
		tags:       tags,
		categories: categories,
		slugs:      NewSlugGenerator(posts),
		cache:      postCache,
		store:      store,
		now:        time.Now,
	}
}

func (s *postService) List(ctx context.Context, actor Actor, q AdminListQuery) (*PageResult[*model.Post], error) {
	page, limit := NormalizePage(q.Page, q.Limit)
	from, to, err := ParseTimeRange(q.Window, q.From, q.To, s.now())
	if err != nil {
		return nil, err
	}
	f := repository.PostFilter{
		Search:       strings.TrimSpace(q.Search),
		TagSlug:      q.Tag,
		CategorySlug: q.Category,
		From:         from,
		To:           to,
		TimeColumn:   "created_at",
		Sort:         q.Sort,
		Page:         toRepoPage(page, limit),
	}
	if q.Status != "" {
		st := model.PostStatus(strings.ToUpper(q.Status))
		if !st.Valid() {
			return nil, apperr.Validation("status must be DRAFT, PUBLISHED or ARCHIVED")
		}
		f.Statuses = []model.PostStatus{st}
	}
	if !actor.IsAdmin() {
		f.AuthorID = actor.UserID
	}
	posts, total, err := s.posts.List(ctx, f)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &PageResult[*model.Post]{Items: posts, Pagination: newPagination(page, limit, total)}, nil
}

// owned 读取文章并校验操作权限
func (s *postService) owned(ctx context.Context, actor Actor, id string) (*model.Post, error) {
	p, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrPostNotFound)
	}
	if !actor.IsAdmin() && p.AuthorID != actor.UserID {
		return nil, ErrNotPostOwner
	}
	return p, nil
}

func (s *postService) Get(ctx context.Context, actor Actor, id string) (*model.Post, error) {
	return s.owned(ctx, actor, id)
}

func (s *postService) Create(ctx context.Context, actor Actor, in CreatePostInput) (*model.Post, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperr.Validation("title is required")
	}
	tagIDs, catIDs, err := s.checkTaxonomy(ctx, in.TagIDs, in.CategoryIDs)
	if err != nil {
		return nil, err
	}
	slug, err := s.slugs.Generate(ctx, title, "")
	if err != nil {
		return nil, apperr.Internal(err)
	}

	status := in.Status
	if status == "" {
		status = model.PostStatusDraft
	}
	excerpt := strings.TrimSpace(in.Excerpt)
	if excerpt == "" {
		excerpt = Excerpt(in.Content)
	}
	p := &model.Post{
		ID:            uuid.New().String(),
		AuthorID:      actor.UserID,
		Title:         title,
		Slug:          slug,
		Excerpt:       excerpt,
		Content:       in.Content,
		CoverImage:    strings.TrimSpace(in.CoverImage),
		CoverBlurhash: strings.TrimSpace(in.CoverBlurhash),
		Status:        status,
		ReadingMins:   ReadingMinutes(in.Content),
	}
	if status == model.PostStatusPublished {
		now := s.now().UTC()
		p.PublishedAt = &now
	}
	err = s.posts.Create(ctx, p, tagIDs, catIDs)
	if repository.IsDuplicate(err) {
		// 并发创建同名文章时另一方先占用了 slug，重新生成一次
		if p.Slug, err = s.slugs.Generate(ctx, title, ""); err != nil {
			return nil, apperr.Internal(err)
		}
		err = s.posts.Create(ctx, p, tagIDs, catIDs)
	}
	if err != nil {
		if repository.IsDuplicate(err) {
			return nil, apperr.Conflict("slug was taken concurrently, please retry")
		}
		return nil, apperr.Internal(err)
	}
	s.cache.InvalidateLists(ctx)
	logger.Info("post created", zap.String("post_id", p.ID), zap.String("slug", p.Slug), zap.String("status", string(p.Status)))
	return s.reload(ctx, p.ID)
}

func (s *postService) Update(ctx context.Context, actor Actor, id string, in UpdatePostInput) (*model.Post, error) {
	p, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	tagIDs, catIDs, err := s.checkTaxonomy(ctx, in.TagIDs, in.CategoryIDs)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, apperr.Validation("title is required")
		}
		if title != p.Title {
			slug, err := s.slugs.Generate(ctx, title, p.ID)
			if err != nil {
				return nil, apperr.Internal(err)
			}
			fields["title"] = title
			fields["slug"] = slug
		}
	}
	if in.Content != nil {
		fields["content"] = *in.Content
		fields["reading_mins"] = ReadingMinutes(*in.Content)
		if in.Excerpt == nil {
			fields["excerpt"] = Excerpt(*in.Content)
		}
	}
	if in.Excerpt != nil {
		excerpt := strings.TrimSpace(*in.Excerpt)
		if excerpt == "" {
			content := p.Content
			if in.Content != nil {
				content = *in.Content
			}
			excerpt = Excerpt(content)
		}
		fields["excerpt"] = excerpt
	}
	if in.CoverImage != nil {
		fields["cover_image"] = strings.TrimSpace(*in.CoverImage)
	}
	if in.CoverBlurhash != nil {
		fields["cover_blurhash"] = strings.TrimSpace(*in.CoverBlurhash)
	}
	if in.Status != nil {
		s.applyStatus(p, *in.Status, fields)
	}

	err = s.posts.Update(ctx, p.ID, fields, tagIDs, catIDs)
	if _, slugChanged := fields["slug"]; slugChanged && repository.IsDuplicate(err) {
		if fields["slug"], err = s.slugs.Generate(ctx, fields["title"].(string), p.ID); err != nil {
			return nil, apperr.Internal(err)
		}
		err = s.posts.Update(ctx, p.ID, fields, tagIDs, catIDs)
	}
	if err != nil {
		if repository.IsDuplicate(err) {
			return nil, apperr.Conflict("slug was taken concurrently, please retry")
		}
		return nil, notFoundAs(err, ErrPostNotFound)
	}
	newSlug, _ := fields["slug"].(string)
	s.cache.InvalidatePost(ctx, p.Slug, newSlug)
	if cover, ok := fields["cover_image"].(string); ok && cover != p.CoverImage {
		s.dropCover(ctx, p.CoverImage)
	}
	return s.reload(ctx, p.ID)
}

// applyStatus 首次发布时写入 published_at，之后不再改变
func (s *postService) applyStatus(p *model.Post, status model.PostStatus, fields map[string]any) {
	if status == p.Status {
		return
	}
	fields["status"] = status
	if status == model.PostStatusPublished && p.PublishedAt == nil {
		fields["published_at"] = s.now().UTC()
	}
}

func (s *postService) UpdateStatus(ctx context.Context, actor Actor, id string, status model.PostStatus) (*model.Post, error) {
	if !status.Valid() {
		return nil, apperr.Validation("status must be DRAFT, PUBLISHED or ARCHIVED")
	}
	p, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{}
	s.applyStatus(p, status, fields)
	if len(fields) == 0 {
		return p, nil
	}
	if err := s.posts.Update(ctx, p.ID, fields, nil, nil); err != nil {
		return nil, notFoundAs(err, ErrPostNotFound)
	}
	s.cache.InvalidatePost(ctx, p.Slug)
	logger.Info("post status changed", zap.String("post_id", p.ID), zap.String("from", string(p.Status)), zap.String("to", string(status)))
	return s.reload(ctx, p.ID)
}

func (s *postService) Delete(ctx context.Context, actor Actor, id string) error {
	p, err := s.owned(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, p.ID); err != nil {
		return notFoundAs(err, ErrPostNotFound)
	}
	s.cache.InvalidatePost(ctx, p.Slug)
	s.dropCover(ctx, p.CoverImage)
	logger.Info("post deleted", zap.String("post_id", p.ID), zap.String("actor", actor.UserID))
	return nil
}

// dropCover 删除不再被任何文章引用的封面文件，失败只记日志
func (s *postService) dropCover(ctx context.Context, url string) {
	if s.store == nil || url == "" {
		return
	}
	inUse, err := s.posts.CoverInUse(ctx, url)
	if err != nil {
		logger.Warn("check cover usage", zap.String("url", url), zap.Error(err))
		return
	}
	if inUse {
		return
	}
	if err := s.store.Delete(ctx, url); err != nil {
		logger.Warn("delete old cover", zap.String("url", url), zap.Error(err))
	}
}

func (s *postService) reload(ctx context.Context, id string) (*model.Post, error) {
	p, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrPostNotFound)
	}
	return p, nil
}

// checkTaxonomy 去重并确认标签、分类都存在；nil 原样返回
func (s *postService) checkTaxonomy(ctx context.Context, tagIDs, catIDs []string) ([]string, []string, error) {
	if tagIDs != nil {
		tagIDs = uniqueIDs(tagIDs)
		found, err := s.tags.FindByIDs(ctx, tagIDs)
		if err != nil {
			return nil, nil, apperr.Internal(err)
		}
		if len(found) != len(tagIDs) {
			return nil, nil, apperr.Validation("unknown tag id")
		}
	}
	if catIDs != nil {
		catIDs = uniqueIDs(catIDs)
		found, err := s.categories.FindByIDs(ctx, catIDs)
		if err != nil {
			return nil, nil, apperr.Internal(err)
		}
		if len(found) != len(catIDs) {
			return nil, nil, apperr.Validation("unknown category id")
		}
	}
	return tagIDs, catIDs, nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// ParseTimeRange 解析 window（day|week|month|year）或 from/to；window 优先。
// 日期可以是 RFC3339 或 YYYY-MM-DD，纯日期的 to 包含当天。
func ParseTimeRange(window, from, to string, now time.Time) (*time.Time, *time.Time, error) {
	if window != "" {
		var start time.Time
		switch strings.ToLower(window) {
		case "day":
			start = now.AddDate(0, 0, -1)
		case "week":
			start = now.AddDate(0, 0, -7)
		case "month":
			start = now.AddDate(0, -1, 0)
		case "year":
			start = now.AddDate(-1, 0, 0)
		default:
			return nil, nil, apperr.Validation("window must be one of day, week, month, year")
		}
		start = start.UTC()
		return &start, nil, nil
	}

	var fromT, toT *time.Time
	if from != "" {
		t, _, err := parseDate(from)
		if err != nil {
			return nil, nil, apperr.Validation("from must be RFC3339 or YYYY-MM-DD")
		}
		fromT = &t
	}
	if to != "" {
		t, dateOnly, err := parseDate(to)
		if err != nil {
			return nil, nil, apperr.Validation("to must be RFC3339 or YYYY-MM-DD")
		}
		if dateOnly {
			t = t.AddDate(0, 0, 1)
		}
		toT = &t
	}
	if fromT != nil && toT != nil && !fromT.Before(*toT) {
		return nil, nil, apperr.Validation("from must be before to")
	}
	return fromT, toT, nil
}

func parseDate(s string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), false, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, false, errors.New("invalid date")
	}
	return t.UTC(), true, nil
}

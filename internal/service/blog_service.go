package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/d60-Lab/blog-platform/internal/cache"
	"github.com/d60-Lab/blog-platform/internal/model"
	"github.com/d60-Lab/blog-platform/internal/repository"
	"github.com/d60-Lab/blog-platform/pkg/apperr"
)

const relatedLimit = 4

// PublicListQuery 公开列表查询
type PublicListQuery struct {
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
	Search   string `form:"search"`
	Tag      string `form:"tag"`
	Category string `form:"category"`
	Author   string `form:"author"`
	Window   string `form:"window"`
	From     string `form:"from"`
	To       string `form:"to"`
	Sort     string `form:"sort"`
}

// PostItem 列表项
type PostItem struct {
	*model.Post
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
}

// PostDetail 文章详情
type PostDetail struct {
	*model.Post
	Likes      int64 `json:"likes"`
	Comments   int64 `json:"comments"`
	Bookmarks  int64 `json:"bookmarks"`
	Liked      bool  `json:"liked"`
	Bookmarked bool  `json:"bookmarked"`
}

// BlogService 面向读者的文章接口
type BlogService interface {
	List(ctx context.Context, q PublicListQuery) (*PageResult[PostItem], error)
	Get(ctx context.Context, slug, viewerID string) (*PostDetail, error)
	Feed(ctx context.Context, userID string, page, limit int) (*PageResult[PostItem], error)
	Related(ctx context.Context, slug string) ([]PostItem, error)
	// Published 按 slug 读取已发布文章（走缓存）
	Published(ctx context.Context, slug string) (*model.Post, error)
}

type blogService struct {
	posts     repository.PostRepository
	likes     repository.ReactionRepository
	bookmarks repository.ReactionRepository
	comments  repository.CommentRepository
	cache     *cache.PostCache
	views     *ViewRecorder
	now       func() time.Time
}

func NewBlogService(
	posts repository.PostRepository,
	likes repository.ReactionRepository,
	bookmarks repository.ReactionRepository,
	comments repository.CommentRepository,
	postCache *cache.PostCache,
	views *ViewRecorder,
) BlogService {
	return &blogService{
		posts:     posts,
		likes:     likes,
		bookmarks: bookmarks,
		comments:  comments,
		cache:     postCache,
		views:     views,
		now:       time.Now,
	}
}

var publishedOnly = []model.PostStatus{model.PostStatusPublished}

func normalizeSort(s string) string {
	switch s {
	case repository.SortOldest, repository.SortPopular, repository.SortTitle:
		return s
	default:
		return repository.SortLatest
	}
}

// cacheKey 规范化后的查询串，参数顺序固定
func (q PublicListQuery) cacheKey(page, limit int) string {
	v := url.Values{}
	v.Set("page", fmt.Sprint(page))
	v.Set("limit", fmt.Sprint(limit))
	v.Set("sort", normalizeSort(q.Sort))
	for k, val := range map[string]string{
		"search":   strings.ToLower(strings.TrimSpace(q.Search)),
		"tag":      q.Tag,
		"category": q.Category,
		"author":   q.Author,
		"window":   strings.ToLower(q.Window),
		"from":     q.From,
		"to":       q.To,
	} {
		if val != "" {
			v.Set(k, val)
		}
	}
	return v.Encode()
}

func (s *blogService) List(ctx context.Context, q PublicListQuery) (*PageResult[PostItem], error) {
	page, limit := NormalizePage(q.Page, q.Limit)
	// 相对时间窗口随时间变化，不缓存
	cacheable := q.Window == ""
	key := q.cacheKey(page, limit)
	if cacheable {
		var cached PageResult[PostItem]
		if s.cache.GetList(ctx, key, &cached) {
			return &cached, nil
		}
	}

	from, to, err := ParseTimeRange(q.Window, q.From, q.To, s.now())
	if err != nil {
		return nil, err
	}
	f := repository.PostFilter{
		Statuses:       publishedOnly,
		Search:         strings.TrimSpace(q.Search),
		TagSlug:        q.Tag,
		CategorySlug:   q.Category,
		AuthorUsername: q.Author,
		From:           from,
		To:             to,
		TimeColumn:     "published_at",
		Sort:           normalizeSort(q.Sort),
		Page:           toRepoPage(page, limit),
	}
	res, err := s.list(ctx, f, page, limit)
	if err != nil {
		return nil, err
	}
	if cacheable {
		s.cache.SetList(ctx, key, res)
	}
	return res, nil
}

func (s *blogService) Feed(ctx context.Context, userID string, page, limit int) (*PageResult[PostItem], error) {
	page, limit = NormalizePage(page, limit)
	f := repository.PostFilter{
		Statuses:   publishedOnly,
		FollowedBy: userID,
		TimeColumn: "published_at",
		Sort:       repository.SortLatest,
		Page:       toRepoPage(page, limit),
	}
	return s.list(ctx, f, page, limit)
}

func (s *blogService) list(ctx context.Context, f repository.PostFilter, page, limit int) (*PageResult[PostItem], error) {
	posts, total, err := s.posts.List(ctx, f)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	items, err := s.items(ctx, posts)
	if err != nil {
		return nil, err
	}
	return &PageResult[PostItem]{Items: items, Pagination: newPagination(page, limit, total)}, nil
}

// items 批量补充点赞数与评论数
func (s *blogService) items(ctx context.Context, posts []*model.Post) ([]PostItem, error) {
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	likes, err := s.likes.CountByPosts(ctx, ids)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	comments, err := s.comments.CountByPosts(ctx, ids)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	items := make([]PostItem, len(posts))
	for i, p := range posts {
		p.Author = p.Author.Public()
		items[i] = PostItem{Post: p, Likes: likes[p.ID], Comments: comments[p.ID]}
	}
	return items, nil
}

func (s *blogService) Published(ctx context.Context, slug string) (*model.Post, error) {
	var cached model.Post
	if s.cache.GetPost(ctx, slug, &cached) {
		return &cached, nil
	}
	p, err := s.posts.FindBySlug(ctx, slug)
	if err != nil {
		return nil, notFoundAs(err, ErrPostNotFound)
	}
	if p.Status != model.PostStatusPublished {
		return nil, ErrPostNotFound
	}
	p.Author = p.Author.Public()
	s.cache.SetPost(ctx, slug, p)
	return p, nil
}

func (s *blogService) Get(ctx context.Context, slug, viewerID string) (*PostDetail, error) {
	p, err := s.Published(ctx, slug)
	if err != nil {
		return nil, err
	}
	d := &PostDetail{Post: p}
	if d.Likes, err = s.likes.Count(ctx, p.ID); err != nil {
		return nil, apperr.Internal(err)
	}
	if d.Bookmarks, err = s.bookmarks.Count(ctx, p.ID); err != nil {
		return nil, apperr.Internal(err)
	}
	counts, err := s.comments.CountByPosts(ctx, []string{p.ID})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	d.Comments = counts[p.ID]
	if viewerID != "" {
		if d.Liked, err = s.likes.Exists(ctx, viewerID, p.ID); err != nil {
			return nil, apperr.Internal(err)
		}
		if d.Bookmarked, err = s.bookmarks.Exists(ctx, viewerID, p.ID); err != nil {
			return nil, apperr.Internal(err)
		}
	}
	s.views.Enqueue(p.ID)
	return d, nil
}

func (s *blogService) Related(ctx context.Context, slug string) ([]PostItem, error) {
	p, err := s.Published(ctx, slug)
	if err != nil {
		return nil, err
	}
	related, err := s.posts.Related(ctx, p, relatedLimit)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return s.items(ctx, related)
}

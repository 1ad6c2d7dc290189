package service

import (
	"context"

	"github.com/d60-Lab/blog-platform/internal/model"
	"github.com/d60-Lab/blog-platform/internal/repository"
	"github.com/d60-Lab/blog-platform/pkg/apperr"
)

// LikeState 点赞切换结果
type LikeState struct {
	Liked bool  `json:"liked"`
	Count int64 `json:"count"`
}

// BookmarkState 收藏切换结果
type BookmarkState struct {
	Bookmarked bool  `json:"bookmarked"`
	Count      int64 `json:"count"`
}

type InteractionService interface {
	ToggleLike(ctx context.Context, userID, postSlug string) (*LikeState, error)
	ToggleBookmark(ctx context.Context, userID, postSlug string) (*BookmarkState, error)
	ListBookmarks(ctx context.Context, userID string, page, limit int) (*PageResult[*model.Post], error)
}

type interactionService struct {
	likes     repository.ReactionRepository
	bookmarks repository.ReactionRepository
	posts     repository.PostRepository
	blog      BlogService
}

func NewInteractionService(likes, bookmarks repository.ReactionRepository, posts repository.PostRepository, blog BlogService) InteractionService {
	return &interactionService{likes: likes, bookmarks: bookmarks, posts: posts, blog: blog}
}

func (s *interactionService) ToggleLike(ctx context.Context, userID, postSlug string) (*LikeState, error) {
	p, err := s.blog.Published(ctx, postSlug)
	if err != nil {
		return nil, err
	}
	liked, count, err := s.likes.Toggle(ctx, userID, p.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &LikeState{Liked: liked, Count: count}, nil
}

func (s *interactionService) ToggleBookmark(ctx context.Context, userID, postSlug string) (*BookmarkState, error) {
	p, err := s.blog.Published(ctx, postSlug)
	if err != nil {
		return nil, err
	}
	bookmarked, count, err := s.bookmarks.Toggle(ctx, userID, p.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &BookmarkState{Bookmarked: bookmarked, Count: count}, nil
}

// ListBookmarks 最近收藏在前；已下线的文章不返回
func (s *interactionService) ListBookmarks(ctx context.Context, userID string, page, limit int) (*PageResult[*model.Post], error) {
	page, limit = NormalizePage(page, limit)
	ids, total, err := s.bookmarks.ListPostIDs(ctx, userID, toRepoPage(page, limit))
	if err != nil {
		return nil, apperr.Internal(err)
	}
	posts, err := s.posts.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	items := make([]*model.Post, 0, len(posts))
	for _, p := range posts {
		if p.Status != model.PostStatusPublished {
			continue
		}
		p.Author = p.Author.Public()
		items = append(items, p)
	}
	return &PageResult[*model.Post]{Items: items, Pagination: newPagination(page, limit, total)}, nil
}

package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/d60-Lab/blog-platform/internal/model"
	"github.com/d60-Lab/blog-platform/internal/repository"
	"github.com/d60-Lab/blog-platform/pkg/apperr"
	"github.com/d60-Lab/blog-platform/pkg/logger"
)

const maxCommentLength = 5000

var (
	ErrInvalidParent   = apperr.Validation("parent comment must be a top-level comment on the same post")
	ErrNotCommentOwner = apperr.Forbidden("you can only edit your own comments")
	ErrCannotModerate  = apperr.Forbidden("you cannot delete this comment")
	ErrEmptyComment    = apperr.Validation("content is required")
	ErrCommentTooLong  = apperr.Validationf("content must be at most %d characters", maxCommentLength)
)

// CommentInput 发表评论
type CommentInput struct {
	Content  string  `json:"content" binding:"required,max=5000"`
	ParentID *string `json:"parent_id"`
}

type CommentService interface {
	List(ctx context.Context, postSlug string, page, limit int) (*PageResult[*model.Comment], error)
	Create(ctx context.Context, actor Actor, postSlug string, in CommentInput) (*model.Comment, error)
	Update(ctx context.Context, actor Actor, id, content string) (*model.Comment, error)
	Delete(ctx context.Context, actor Actor, id string) error
}

type commentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
	blog     BlogService
}

func NewCommentService(comments repository.CommentRepository, posts repository.PostRepository, blog BlogService) CommentService {
	return &commentService{comments: comments, posts: posts, blog: blog}
}

func (s *commentService) List(ctx context.Context, postSlug string, page, limit int) (*PageResult[*model.Comment], error) {
	p, err := s.blog.Published(ctx, postSlug)
	if err != nil {
		return nil, err
	}
	page, limit = NormalizePage(page, limit)
	comments, total, err := s.comments.ListByPost(ctx, p.ID, toRepoPage(page, limit))
	if err != nil {
		return nil, apperr.Internal(err)
	}
	for _, c := range comments {
		c.Author = c.Author.Public()
		for i := range c.Replies {
			c.Replies[i].Author = c.Replies[i].Author.Public()
		}
	}
	return &PageResult[*model.Comment]{Items: comments, Pagination: newPagination(page, limit, total)}, nil
}

func checkContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrEmptyComment
	}
	if len([]rune(content)) > maxCommentLength {
		return "", ErrCommentTooLong
	}
	return content, nil
}

func (s *commentService) Create(ctx context.Context, actor Actor, postSlug string, in CommentInput) (*model.Comment, error) {
	content, err := checkContent(in.Content)
	if err != nil {
		return nil, err
	}
	p, err := s.blog.Published(ctx, postSlug)
	if err != nil {
		return nil, err
	}

	var parentID *string
	if in.ParentID != nil && *in.ParentID != "" {
		parent, err := s.comments.FindByID(ctx, *in.ParentID)
		if err != nil {
			return nil, notFoundAs(err, ErrCommentNotFound)
		}
		// 只支持一级回复
		if parent.PostID != p.ID || parent.ParentID != nil {
			return nil, ErrInvalidParent
		}
		parentID = &parent.ID
	}

	c := &model.Comment{
		ID:       uuid.New().String(),
		PostID:   p.ID,
		AuthorID: actor.UserID,
		ParentID: parentID,
		Content:  content,
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, apperr.Internal(err)
	}
	return s.reload(ctx, c.ID)
}

func (s *commentService) Update(ctx context.Context, actor Actor, id, content string) (*model.Comment, error) {
	content, err := checkContent(content)
	if err != nil {
		return nil, err
	}
	c, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrCommentNotFound)
	}
	if c.AuthorID != actor.UserID {
		return nil, ErrNotCommentOwner
	}
	if err := s.comments.UpdateContent(ctx, id, content); err != nil {
		return nil, notFoundAs(err, ErrCommentNotFound)
	}
	return s.reload(ctx, id)
}

// Delete 评论作者、文章作者或管理员可以删除
func (s *commentService) Delete(ctx context.Context, actor Actor, id string) error {
	c, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return notFoundAs(err, ErrCommentNotFound)
	}
	allowed := actor.IsAdmin() || c.AuthorID == actor.UserID
	if !allowed {
		p, err := s.posts.FindByID(ctx, c.PostID)
		if err != nil {
			return notFoundAs(err, ErrPostNotFound)
		}
		allowed = p.AuthorID == actor.UserID
	}
	if !allowed {
		return ErrCannotModerate
	}
	if err := s.comments.Delete(ctx, id); err != nil {
		return notFoundAs(err, ErrCommentNotFound)
	}
	if c.AuthorID != actor.UserID {
		logger.Info("comment moderated", zap.String("comment_id", id), zap.String("actor", actor.UserID))
	}
	return nil
}

func (s *commentService) reload(ctx context.Context, id string) (*model.Comment, error) {
	c, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrCommentNotFound)
	}
	c.Author = c.Author.Public()
	return c, nil
}

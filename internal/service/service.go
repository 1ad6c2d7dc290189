package service

import (
	"errors"

	"github.com/d60-Lab/blog-platform/internal/repository"
	"github.com/d60-Lab/blog-platform/pkg/apperr"
)

var (
	ErrFollowSelf       = apperr.Validation("cannot follow yourself")
	ErrUserNotFound     = apperr.NotFound("User not found")
	ErrPostNotFound     = apperr.NotFound("Post not found")
	ErrCommentNotFound  = apperr.NotFound("Comment not found")
	ErrTagNotFound      = apperr.NotFound("Tag not found")
	ErrCategoryNotFound = apperr.NotFound("Category not found")
)

const (
	DefaultPageSize = 12
	MaxPageSize     = 50
)

// Pagination 列表分页信息
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// PageResult 分页结果
type PageResult[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// NormalizePage 规范化页码与每页数量
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

func toRepoPage(page, limit int) repository.Page {
	return repository.Page{Offset: (page - 1) * limit, Limit: limit}
}

func newPagination(page, limit int, total int64) Pagination {
	pages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: pages,
		HasNext:    page < pages,
	}
}

// notFoundAs 把记录不存在转换为指定的业务错误，其余错误视为内部错误
func notFoundAs(err error, target *apperr.Error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return target
	}
	return apperr.Internal(err)
}

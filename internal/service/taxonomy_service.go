package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/d60-Lab/blog-platform/internal/cache"
	"github.com/d60-Lab/blog-platform/internal/model"
	"github.com/d60-Lab/blog-platform/internal/repository"
	"github.com/d60-Lab/blog-platform/pkg/apperr"
	"github.com/d60-Lab/blog-platform/pkg/slug"
)

var (
	ErrTagExists      = apperr.AlreadyExists("Tag already exists")
	ErrCategoryExists = apperr.AlreadyExists("Category already exists")
)

// TaxonomyInput 标签/分类的新建与更新参数
type TaxonomyInput struct {
	Name        string `json:"name" binding:"required,max=64"`
	Description string `json:"description" binding:"max=500"`
}

type TaxonomyService interface {
	ListTags(ctx context.Context) ([]model.Tag, error)
	PublicTags(ctx context.Context) ([]model.TaxonomyCount, error)
	CreateTag(ctx context.Context, in TaxonomyInput) (*model.Tag, error)
	UpdateTag(ctx context.Context, id string, in TaxonomyInput) (*model.Tag, error)
	DeleteTag(ctx context.Context, id string) error

	ListCategories(ctx context.Context) ([]model.Category, error)
	PublicCategories(ctx context.Context) ([]model.TaxonomyCount, error)
	CreateCategory(ctx context.Context, in TaxonomyInput) (*model.Category, error)
	UpdateCategory(ctx context.Context, id string, in TaxonomyInput) (*model.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

type taxonomyService struct {
	tags       repository.TagRepository
	categories repository.CategoryRepository
	cache      *cache.PostCache
}

func NewTaxonomyService(tags repository.TagRepository, categories repository.CategoryRepository, postCache *cache.PostCache) TaxonomyService {
	return &taxonomyService{tags: tags, categories: categories, cache: postCache}
}

// uniqueTaxonomySlug 名称转 slug，冲突时追加序号
func uniqueTaxonomySlug(ctx context.Context, name, excludeID string, taken func(context.Context, string, string) (bool, error)) (string, error) {
	base := slug.Truncate(slug.Make(name), maxSlugLength)
	if base == "" {
		base = "untitled"
	}
	candidate := base
	for i := 2; ; i++ {
		t, err := taken(ctx, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !t {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(i)
	}
}

func (s *taxonomyService) ListTags(ctx context.Context) ([]model.Tag, error) {
	tags, err := s.tags.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return tags, nil
}

func (s *taxonomyService) PublicTags(ctx context.Context) ([]model.TaxonomyCount, error) {
	rows, err := s.tags.ListWithCounts(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return rows, nil
}

func (s *taxonomyService) CreateTag(ctx context.Context, in TaxonomyInput) (*model.Tag, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	taken, err := s.tags.NameTaken(ctx, name, "")
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if taken {
		return nil, ErrTagExists
	}
	sl, err := uniqueTaxonomySlug(ctx, name, "", s.tags.SlugTaken)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	tag := &model.Tag{ID: uuid.New().String(), Name: name, Slug: sl}
	if err := s.tags.Create(ctx, tag); err != nil {
		return nil, apperr.Internal(err)
	}
	return tag, nil
}

func (s *taxonomyService) UpdateTag(ctx context.Context, id string, in TaxonomyInput) (*model.Tag, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	if _, err := s.tags.FindByID(ctx, id); err != nil {
		return nil, notFoundAs(err, ErrTagNotFound)
	}
	taken, err := s.tags.NameTaken(ctx, name, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if taken {
		return nil, ErrTagExists
	}
	sl, err := uniqueTaxonomySlug(ctx, name, id, s.tags.SlugTaken)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if err := s.tags.Update(ctx, id, map[string]any{"name": name, "slug": sl}); err != nil {
		return nil, notFoundAs(err, ErrTagNotFound)
	}
	s.cache.InvalidateLists(ctx)
	tag, err := s.tags.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrTagNotFound)
	}
	return tag, nil
}

func (s *taxonomyService) DeleteTag(ctx context.Context, id string) error {
	if err := s.tags.Delete(ctx, id); err != nil {
		return notFoundAs(err, ErrTagNotFound)
	}
	s.cache.InvalidateLists(ctx)
	return nil
}

func (s *taxonomyService) ListCategories(ctx context.Context) ([]model.Category, error) {
	cats, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return cats, nil
}

func (s *taxonomyService) PublicCategories(ctx context.Context) ([]model.TaxonomyCount, error) {
	rows, err := s.categories.ListWithCounts(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return rows, nil
}

func (s *taxonomyService) CreateCategory(ctx context.Context, in TaxonomyInput) (*model.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	taken, err := s.categories.NameTaken(ctx, name, "")
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if taken {
		return nil, ErrCategoryExists
	}
	sl, err := uniqueTaxonomySlug(ctx, name, "", s.categories.SlugTaken)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	cat := &model.Category{ID: uuid.New().String(), Name: name, Slug: sl, Description: strings.TrimSpace(in.Description)}
	if err := s.categories.Create(ctx, cat); err != nil {
		return nil, apperr.Internal(err)
	}
	return cat, nil
}

func (s *taxonomyService) UpdateCategory(ctx context.Context, id string, in TaxonomyInput) (*model.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		return nil, notFoundAs(err, ErrCategoryNotFound)
	}
	taken, err := s.categories.NameTaken(ctx, name, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if taken {
		return nil, ErrCategoryExists
	}
	sl, err := uniqueTaxonomySlug(ctx, name, id, s.categories.SlugTaken)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	fields := map[string]any{"name": name, "slug": sl, "description": strings.TrimSpace(in.Description)}
	if err := s.categories.Update(ctx, id, fields); err != nil {
		return nil, notFoundAs(err, ErrCategoryNotFound)
	}
	s.cache.InvalidateLists(ctx)
	cat, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrCategoryNotFound)
	}
	return cat, nil
}

func (s *taxonomyService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return notFoundAs(err, ErrCategoryNotFound)
	}
	s.cache.InvalidateLists(ctx)
	return nil
}

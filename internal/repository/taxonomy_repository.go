package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/blog-platform/internal/model"
)

// taxonomy 标签与分类共用的表信息
type taxonomy struct {
	table     string // tags / categories
	joinTable string // post_tags / post_categories
	joinCol   string // tag_id / category_id
}

var (
	tagTaxonomy      = taxonomy{table: "tags", joinTable: "post_tags", joinCol: "tag_id"}
	categoryTaxonomy = taxonomy{table: "categories", joinTable: "post_categories", joinCol: "category_id"}
)

// withCounts 带已发布文章数的列表，按名称排序
func (t taxonomy) withCounts(ctx context.Context, db *gorm.DB) ([]model.TaxonomyCount, error) {
	rows := make([]model.TaxonomyCount, 0)
	err := db.WithContext(ctx).
		Table(t.table+" t").
		Select("t.id, t.name, t.slug, COUNT(p.id) AS post_count").
		Joins("LEFT JOIN "+t.joinTable+" j ON j."+t.joinCol+" = t.id").
		Joins("LEFT JOIN posts p ON p.id = j.post_id AND p.status = ?", model.PostStatusPublished).
		Group("t.id, t.name, t.slug").
		Order("t.name").
		Scan(&rows).Error
	return rows, err
}

// nameTaken 名称是否已被除 excludeID 外的记录占用
func (t taxonomy) nameTaken(ctx context.Context, db *gorm.DB, name, excludeID string) (bool, error) {
	q := db.WithContext(ctx).Table(t.table).Where("LOWER(name) = LOWER(?)", name)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var cnt int64
	if err := q.Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (t taxonomy) slugTaken(ctx context.Context, db *gorm.DB, slug, excludeID string) (bool, error) {
	q := db.WithContext(ctx).Table(t.table).Where("slug = ?", slug)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var cnt int64
	if err := q.Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// delete 先清理关联再删除记录
func (t taxonomy) delete(ctx context.Context, db *gorm.DB, id string, row any) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM "+t.joinTable+" WHERE "+t.joinCol+" = ?", id).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(row)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (t taxonomy) update(ctx context.Context, db *gorm.DB, id string, row any, fields map[string]any) error {
	res := db.WithContext(ctx).Model(row).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type TagRepository interface {
	Create(ctx context.Context, tag *model.Tag) error
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*model.Tag, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.Tag, error)
	List(ctx context.Context) ([]model.Tag, error)
	ListWithCounts(ctx context.Context) ([]model.TaxonomyCount, error)
	NameTaken(ctx context.Context, name, excludeID string) (bool, error)
	SlugTaken(ctx context.Context, slug, excludeID string) (bool, error)
}

type tagRepository struct{ db *gorm.DB }

func NewTagRepository(db *gorm.DB) TagRepository { return &tagRepository{db: db} }

func (r *tagRepository) Create(ctx context.Context, tag *model.Tag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}

func (r *tagRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	return tagTaxonomy.update(ctx, r.db, id, &model.Tag{}, fields)
}

func (r *tagRepository) Delete(ctx context.Context, id string) error {
	return tagTaxonomy.delete(ctx, r.db, id, &model.Tag{})
}

func (r *tagRepository) FindByID(ctx context.Context, id string) (*model.Tag, error) {
	var t model.Tag
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tagRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Tag, error) {
	rows := make([]model.Tag, 0, len(ids))
	if len(ids) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error
	return rows, err
}

func (r *tagRepository) List(ctx context.Context) ([]model.Tag, error) {
	rows := make([]model.Tag, 0)
	err := r.db.WithContext(ctx).Order("name").Find(&rows).Error
	return rows, err
}

func (r *tagRepository) ListWithCounts(ctx context.Context) ([]model.TaxonomyCount, error) {
	return tagTaxonomy.withCounts(ctx, r.db)
}

func (r *tagRepository) NameTaken(ctx context.Context, name, excludeID string) (bool, error) {
	return tagTaxonomy.nameTaken(ctx, r.db, name, excludeID)
}

func (r *tagRepository) SlugTaken(ctx context.Context, slug, excludeID string) (bool, error) {
	return tagTaxonomy.slugTaken(ctx, r.db, slug, excludeID)
}

type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*model.Category, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
	ListWithCounts(ctx context.Context) ([]model.TaxonomyCount, error)
	NameTaken(ctx context.Context, name, excludeID string) (bool, error)
	SlugTaken(ctx context.Context, slug, excludeID string) (bool, error)
}

type categoryRepository struct{ db *gorm.DB }

func NewCategoryRepository(db *gorm.DB) CategoryRepository { return &categoryRepository{db: db} }

func (r *categoryRepository) Create(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	return categoryTaxonomy.update(ctx, r.db, id, &model.Category{}, fields)
}

func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	return categoryTaxonomy.delete(ctx, r.db, id, &model.Category{})
}

func (r *categoryRepository) FindByID(ctx context.Context, id string) (*model.Category, error) {
	var c model.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Category, error) {
	rows := make([]model.Category, 0, len(ids))
	if len(ids) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error
	return rows, err
}

func (r *categoryRepository) List(ctx context.Context) ([]model.Category, error) {
	rows := make([]model.Category, 0)
	err := r.db.WithContext(ctx).Order("name").Find(&rows).Error
	return rows, err
}

func (r *categoryRepository) ListWithCounts(ctx context.Context) ([]model.TaxonomyCount, error) {
	return categoryTaxonomy.withCounts(ctx, r.db)
}

func (r *categoryRepository) NameTaken(ctx context.Context, name, excludeID string) (bool, error) {
	return categoryTaxonomy.nameTaken(ctx, r.db, name, excludeID)
}

func (r *categoryRepository) SlugTaken(ctx context.Context, slug, excludeID string) (bool, error) {
	return categoryTaxonomy.slugTaken(ctx, r.db, slug, excludeID)
}

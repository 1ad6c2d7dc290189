package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/blog-platform/internal/model"
)

// 排序方式
const (
	SortLatest  = "latest"
	SortOldest  = "oldest"
	SortPopular = "popular"
	SortTitle   = "title"
)

// PostFilter 列表查询条件，零值字段不参与过滤
type PostFilter struct {
	Statuses       []model.PostStatus
	AuthorID       string
	AuthorUsername string
	FollowedBy     string // 只看 FollowedBy 关注的作者
	Search         string
	TagSlug        string
	CategorySlug   string
	From           *time.Time
	To             *time.Time
	// TimeColumn 时间窗口与 latest/oldest 排序使用的列，默认 created_at
	TimeColumn string
	Sort       string
	Page
}

type PostRepository interface {
	// Create 在同一事务内写入文章与标签/分类关联
	Create(ctx context.Context, post *model.Post, tagIDs, categoryIDs []string) error
	// Update 更新字段；tagIDs/categoryIDs 为 nil 时保持原关联
	Update(ctx context.Context, id string, fields map[string]any, tagIDs, categoryIDs []string) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*model.Post, error)
	FindBySlug(ctx context.Context, slug string) (*model.Post, error)
	SlugTaken(ctx context.Context, slug, excludeID string) (bool, error)
	// CoverInUse reports whether any post still references the cover image url.
	CoverInUse(ctx context.Context, url string) (bool, error)
	List(ctx context.Context, f PostFilter) ([]*model.Post, int64, error)
	FindByIDs(ctx context.Context, ids []string) ([]*model.Post, error)
	Related(ctx context.Context, post *model.Post, limit int) ([]*model.Post, error)
	IncrementViews(ctx context.Context, id string, n int64) error
}

type postRepository struct{ db *gorm.DB }

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) Create(ctx context.Context, post *model.Post, tagIDs, categoryIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(post).Error; err != nil {
			return err
		}
		if err := replaceTags(tx, post.ID, tagIDs); err != nil {
			return err
		}
		return replaceCategories(tx, post.ID, categoryIDs)
	})
}

func (r *postRepository) Update(ctx context.Context, id string, fields map[string]any, tagIDs, categoryIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(fields) > 0 {
			res := tx.Model(&model.Post{}).Where("id = ?", id).Updates(fields)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrNotFound
			}
		}
		if tagIDs != nil {
			if err := tx.Where("post_id = ?", id).Delete(&model.PostTag{}).Error; err != nil {
				return err
			}
			if err := replaceTags(tx, id, tagIDs); err != nil {
				return err
			}
		}
		if categoryIDs != nil {
			if err := tx.Where("post_id = ?", id).Delete(&model.PostCategory{}).Error; err != nil {
				return err
			}
			if err := replaceCategories(tx, id, categoryIDs); err != nil {
				return err
			}
		}
		return nil
	})
}

func replaceTags(tx *gorm.DB, postID string, tagIDs []string) error {
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]model.PostTag, 0, len(tagIDs))
	for _, id := range dedupe(tagIDs) {
		rows = append(rows, model.PostTag{PostID: postID, TagID: id})
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func replaceCategories(tx *gorm.DB, postID string, categoryIDs []string) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	rows := make([]model.PostCategory, 0, len(categoryIDs))
	for _, id := range dedupe(categoryIDs) {
		rows = append(rows, model.PostCategory{PostID: postID, CategoryID: id})
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Delete 删除文章及其关联数据
func (r *postRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{&model.PostTag{}, &model.PostCategory{}, &model.Like{}, &model.Bookmark{}} {
			if err := tx.Where("post_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		// 先删回复再删顶层评论
		if err := tx.Where("post_id = ? AND parent_id IS NOT NULL", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Post{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *postRepository) withAssociations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name") }).
		Preload("Categories", func(db *gorm.DB) *gorm.DB { return db.Order("categories.name") })
}

func (r *postRepository) FindByID(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post
	if err := r.withAssociations(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postRepository) FindBySlug(ctx context.Context, slug string) (*model.Post, error) {
	var p model.Post
	if err := r.withAssociations(ctx).Where("slug = ?", slug).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postRepository) SlugTaken(ctx context.Context, slug, excludeID string) (bool, error) {
	q := r.db.WithContext(ctx).Model(&model.Post{}).Where("slug = ?", slug)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var cnt int64
	if err := q.Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *postRepository) CoverInUse(ctx context.Context, url string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&model.Post{}).Where("cover_image = ?", url).Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// filtered 构造带过滤条件的基础查询；Count 与 Find 各自调用一次避免语句复用
func (r *postRepository) filtered(ctx context.Context, f PostFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Post{})
	if len(f.Statuses) > 0 {
		q = q.Where("posts.status IN ?", f.Statuses)
	}
	if f.AuthorID != "" {
		q = q.Where("posts.author_id = ?", f.AuthorID)
	}
	if f.AuthorUsername != "" {
		q = q.Where("posts.author_id IN (?)",
			r.db.Model(&model.User{}).Select("id").Where("username = ?", f.AuthorUsername))
	}
	if f.FollowedBy != "" {
		q = q.Where("posts.author_id IN (?)",
			r.db.Model(&model.UserFollower{}).Select("following_id").Where("follower_id = ?", f.FollowedBy))
	}
	if f.Search != "" {
		pat := likePattern(f.Search)
		q = q.Where(`(LOWER(posts.title) LIKE ? ESCAPE '\' OR LOWER(posts.excerpt) LIKE ? ESCAPE '\')`, pat, pat)
	}
	if f.TagSlug != "" {
		q = q.Where("posts.id IN (?)",
			r.db.Table("post_tags").Select("post_tags.post_id").
				Joins("JOIN tags ON tags.id = post_tags.tag_id").
				Where("tags.slug = ?", f.TagSlug))
	}
	if f.CategorySlug != "" {
		q = q.Where("posts.id IN (?)",
			r.db.Table("post_categories").Select("post_categories.post_id").
				Joins("JOIN categories ON categories.id = post_categories.category_id").
				Where("categories.slug = ?", f.CategorySlug))
	}
	col := "posts." + timeColumn(f.TimeColumn)
	if f.From != nil {
		q = q.Where(col+" >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where(col+" < ?", *f.To)
	}
	return q
}

func timeColumn(c string) string {
	switch c {
	case "published_at", "updated_at":
		return c
	default:
		return "created_at"
	}
}

func orderClause(sort, timeCol string) string {
	col := "posts." + timeColumn(timeCol)
	switch sort {
	case SortOldest:
		return col + " ASC, posts.id ASC"
	case SortPopular:
		return "posts.view_count DESC, " + col + " DESC, posts.id DESC"
	case SortTitle:
		return "posts.title ASC, posts.id ASC"
	default:
		return col + " DESC, posts.id DESC"
	}
}

// List 分页列表，不返回正文
func (r *postRepository) List(ctx context.Context, f PostFilter) ([]*model.Post, int64, error) {
	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	posts := make([]*model.Post, 0)
	if total == 0 || int64(f.Offset) >= total {
		return posts, total, nil
	}
	err := r.filtered(ctx, f).
		Omit("content").
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name") }).
		Preload("Categories", func(db *gorm.DB) *gorm.DB { return db.Order("categories.name") }).
		Order(orderClause(f.Sort, f.TimeColumn)).
		Offset(f.Offset).
		Limit(f.Limit).
		Find(&posts).Error
	return posts, total, err
}

// FindByIDs 按给定顺序返回文章（不含正文）
func (r *postRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.Post, error) {
	if len(ids) == 0 {
		return []*model.Post{}, nil
	}
	var rows []*model.Post
	err := r.db.WithContext(ctx).
		Omit("content").
		Preload("Author").
		Preload("Tags").
		Preload("Categories").
		Where("id IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*model.Post, len(rows))
	for _, p := range rows {
		byID[p.ID] = p
	}
	out := make([]*model.Post, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// Related 与 post 共享标签或分类的其他已发布文章
func (r *postRepository) Related(ctx context.Context, post *model.Post, limit int) ([]*model.Post, error) {
	tagIDs := make([]string, 0, len(post.Tags))
	for _, t := range post.Tags {
		tagIDs = append(tagIDs, t.ID)
	}
	catIDs := make([]string, 0, len(post.Categories))
	for _, c := range post.Categories {
		catIDs = append(catIDs, c.ID)
	}
	posts := make([]*model.Post, 0)
	if len(tagIDs) == 0 && len(catIDs) == 0 {
		return posts, nil
	}

	sub := r.db.Where("1 = 0")
	if len(tagIDs) > 0 {
		sub = sub.Or("posts.id IN (?)", r.db.Model(&model.PostTag{}).Select("post_id").Where("tag_id IN ?", tagIDs))
	}
	if len(catIDs) > 0 {
		sub = sub.Or("posts.id IN (?)", r.db.Model(&model.PostCategory{}).Select("post_id").Where("category_id IN ?", catIDs))
	}
	err := r.db.WithContext(ctx).
		Omit("content").
		Preload("Author").
		Where("posts.status = ?", model.PostStatusPublished).
		Where("posts.id <> ?", post.ID).
		Where(sub).
		Order("posts.published_at DESC, posts.id DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) IncrementViews(ctx context.Context, id string, n int64) error {
	return r.db.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", n)).Error
}

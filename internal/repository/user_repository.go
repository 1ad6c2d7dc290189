package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/d60-Lab/blog-platform/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	// Taken 分别返回用户名、邮箱是否已被占用
	Taken(ctx context.Context, username, email string) (usernameTaken, emailTaken bool, err error)
	// ClaimFirstAdmin 仅当 id 是最早注册的用户且尚无管理员时把它升为管理员
	ClaimFirstAdmin(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, f UserFilter) ([]*model.User, int64, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	SetRefreshHash(ctx context.Context, id, hash string) error
}

// UserFilter 后台用户列表过滤
type UserFilter struct {
	Search string // 用户名、邮箱或名字包含
	Role   model.Role
	Page   Page
}

type userRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepository{db: db} }

func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.first(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *userRepository) first(ctx context.Context, query string, args ...any) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where(query, args...).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Taken(ctx context.Context, username, email string) (bool, bool, error) {
	var rows []model.User
	err := r.db.WithContext(ctx).
		Select("username", "email").
		Where("username = ? OR email = ?", username, strings.ToLower(email)).
		Find(&rows).Error
	if err != nil {
		return false, false, err
	}
	var uTaken, eTaken bool
	for _, row := range rows {
		uTaken = uTaken || row.Username == username
		eTaken = eTaken || row.Email == strings.ToLower(email)
	}
	return uTaken, eTaken, nil
}

func (r *userRepository) ClaimFirstAdmin(ctx context.Context, id string) (bool, error) {
	var claimed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// postgres 下串行化认领，后来者能看到已提交的管理员
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec("LOCK TABLE users IN SHARE ROW EXCLUSIVE MODE").Error; err != nil {
				return err
			}
		}
		first := tx.Model(&model.User{}).Select("id").Order("created_at, id").Limit(1)
		admins := tx.Model(&model.User{}).Select("1").Where("role = ?", model.RoleAdmin)
		res := tx.Model(&model.User{}).
			Where("id = ? AND id = (?) AND NOT EXISTS (?)", id, first, admins).
			Update("role", model.RoleAdmin)
		if res.Error != nil {
			return res.Error
		}
		claimed = res.RowsAffected == 1
		return nil
	})
	return claimed, err
}

func (r *userRepository) List(ctx context.Context, f UserFilter) ([]*model.User, int64, error) {
	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []*model.User
	err := r.filtered(ctx, f).
		Order("created_at ASC, id ASC").
		Offset(f.Page.Offset).Limit(f.Page.Limit).
		Find(&users).Error
	return users, total, err
}

func (r *userRepository) filtered(ctx context.Context, f UserFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.User{})
	if f.Search != "" {
		pat := likePattern(f.Search)
		q = q.Where(`(LOWER(username) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\' OR LOWER(name) LIKE ? ESCAPE '\')`, pat, pat, pat)
	}
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	return q
}

func (r *userRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) SetRefreshHash(ctx context.Context, id, hash string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		Update("refresh_token_hash", hash).Error
}

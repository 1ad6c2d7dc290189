package model

// All 需要迁移的全部模型，顺序即建表顺序
func All() []any {
	return []any{
		&User{},
		&Tag{},
		&Category{},
		&Post{},
		&PostTag{},
		&PostCategory{},
		&Comment{},
		&Like{},
		&Bookmark{},
		&UserFollower{},
	}
}

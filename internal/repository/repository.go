package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrNotFound 记录不存在
var ErrNotFound = gorm.ErrRecordNotFound

// IsDuplicate reports whether err is a unique constraint violation.
// 需要 gorm.Config.TranslateError；消息匹配兜底未翻译的驱动错误
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

// Page 偏移分页参数
type Page struct {
	Offset int
	Limit  int
}

// likePattern 生成大小写不敏感的包含匹配模式，转义 LIKE 通配符
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + strings.ToLower(r.Replace(s)) + "%"
}

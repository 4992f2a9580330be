package repo

import "strings"

// 驱动差异大（pgx / sqlite3 各有错误类型），统一按报错文本识别，
// 不依赖 gorm.ErrDuplicatedKey，避免版本差异导致 undefined

// IsDuplicate 唯一键冲突（title / email / (user_id, course_id)）
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "constraint failed: unique")
}

// IsFKViolation 引用的 user/course 不存在
func IsFKViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "foreign key")
}

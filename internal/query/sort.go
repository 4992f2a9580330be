package query

import "strings"

// Sort 排序白名单：用户令牌只能落在封闭集合里，永不直接进 SQL
type Sort struct {
	Default string            // 兜底列
	Allowed map[string]string // 小写令牌 → 列名
}

// Resolve 令牌大小写不敏感；未识别回退默认列。只升序。
func (s Sort) Resolve(token string) string {
	if col, ok := s.Allowed[strings.ToLower(strings.TrimSpace(token))]; ok {
		return col
	}
	return s.Default
}

package query

import (
	"errors"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100 // 限制单页上限，约束查询成本
)

var (
	ErrBadPage  = errors.New("page must be a positive integer")
	ErrBadLimit = errors.New("limit must be a positive integer")
)

type Page struct {
	Page  int
	Limit int
}

func (p Page) Offset() int { return (p.Page - 1) * p.Limit }

// ParsePage 严格解析分页参数：缺省用默认值，非数字/零/负数一律拒绝，
// limit 超上限收敛到 MaxLimit。
func ParsePage(pageStr, limitStr string) (Page, error) {
	p := Page{Page: DefaultPage, Limit: DefaultLimit}

	if pageStr != "" {
		n, err := strconv.Atoi(pageStr)
		if err != nil || n <= 0 {
			return Page{}, ErrBadPage
		}
		p.Page = n
	}
	if limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n <= 0 {
			return Page{}, ErrBadLimit
		}
		if n > MaxLimit {
			n = MaxLimit
		}
		p.Limit = n
	}
	return p, nil
}

// TotalPages 空集返回 0 而不是 1
func TotalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

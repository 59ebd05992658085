package handlers

import (
	"gorm.io/gorm"
	"strconv"
)

const defaultPageLimit = 100

// pagination 是解析后的分页参数， page=0&limit=0 表示不分页
type pagination struct {
	All   bool
	Page  int // 从 0 开始
	Limit int
}

func parsePagination(pageStr string, limitStr string) pagination {
	page, pageErr := strconv.Atoi(pageStr)
	limit, limitErr := strconv.Atoi(limitStr)

	if pageErr == nil && limitErr == nil && page == 0 && limit == 0 {
		return pagination{All: true, Page: -1, Limit: -1}
	}

	p := pagination{Limit: defaultPageLimit}
	if pageErr == nil && page > 1 {
		p.Page = page - 1
	}
	if limitErr == nil && limit > 0 {
		p.Limit = limit
	}
	return p
}

// Scope 用于 db.Scopes
func (p pagination) Scope(db *gorm.DB) *gorm.DB {
	if p.All {
		return db
	}
	return db.Limit(p.Limit).Offset(p.Page * p.Limit)
}

func (p pagination) MaxPage(count int64) int64 {
	if p.All {
		return 1
	}
	return (count + int64(p.Limit) - 1) / int64(p.Limit)
}

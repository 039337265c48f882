package repository

import "gorm.io/gorm"

// applyPagination 应用分页参数；pageSize <= 0 表示不分页。
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if page < 1 {
		page = 1
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}

// countAndFind 统计总数后按分页读取数据，Count 与 Find 共用同一过滤条件。
// scopes 仅作用于 Find（如 Preload），不参与计数。
func countAndFind[T any](query *gorm.DB, page, pageSize int, order string, dest *[]T, scopes ...func(*gorm.DB) *gorm.DB) (int64, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, err
	}
	if total == 0 {
		*dest = []T{}
		return 0, nil
	}
	if order != "" {
		query = query.Order(order)
	}
	if len(scopes) > 0 {
		query = query.Scopes(scopes...)
	}
	if err := applyPagination(query, page, pageSize).Find(dest).Error; err != nil {
		return 0, err
	}
	return total, nil
}

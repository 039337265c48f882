package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// CrudRepository 通用增删改查仓库
// 品牌、分类、材质、颜色、尺码共享同一套行为，仅表结构不同。
type CrudRepository[T any] interface {
	Create(entity *T) error
	GetByID(id uint) (*T, error)
	FindBy(column string, value interface{}) (*T, error)
	ExistsBy(column string, value interface{}, excludeID uint) (bool, error)
	List(filter AttributeListFilter) ([]T, int64, error)
	ListByIDs(ids []uint) ([]T, error)
	Update(id uint, updates map[string]interface{}) (int64, error)
	Delete(id uint) (int64, error)
}

// GormCrudRepository GORM 实现
type GormCrudRepository[T any] struct {
	db           *gorm.DB
	searchColumn string
}

// NewCrudRepository 创建通用仓库；searchColumn 为模糊搜索列（为空不支持搜索）
func NewCrudRepository[T any](db *gorm.DB, searchColumn string) *GormCrudRepository[T] {
	return &GormCrudRepository[T]{db: db, searchColumn: searchColumn}
}

// WithTx 绑定事务
func (r *GormCrudRepository[T]) WithTx(tx *gorm.DB) *GormCrudRepository[T] {
	if tx == nil {
		return r
	}
	return &GormCrudRepository[T]{db: tx, searchColumn: r.searchColumn}
}

// Create 创建记录
func (r *GormCrudRepository[T]) Create(entity *T) error {
	return r.db.Create(entity).Error
}

// GetByID 根据 ID 获取记录
func (r *GormCrudRepository[T]) GetByID(id uint) (*T, error) {
	var entity T
	if err := r.db.First(&entity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entity, nil
}

// FindBy 根据列精确匹配获取记录
func (r *GormCrudRepository[T]) FindBy(column string, value interface{}) (*T, error) {
	var entity T
	if err := r.db.Where(column+" = ?", value).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entity, nil
}

// ExistsBy 判断列值是否已被占用（可排除自身）
func (r *GormCrudRepository[T]) ExistsBy(column string, value interface{}, excludeID uint) (bool, error) {
	var count int64
	query := r.db.Model(new(T)).Where(column+" = ?", value)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List 列表查询（按创建时间倒序）
func (r *GormCrudRepository[T]) List(filter AttributeListFilter) ([]T, int64, error) {
	query := r.db.Model(new(T))
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" && r.searchColumn != "" {
		cond, args := buildLikeCondition(r.db, search, r.searchColumn)
		query = query.Where(cond, args...)
	}
	var rows []T
	total, err := countAndFind(query, filter.Page, filter.PageSize, "created_at DESC, id DESC", &rows)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListByIDs 批量获取
func (r *GormCrudRepository[T]) ListByIDs(ids []uint) ([]T, error) {
	var rows []T
	if len(ids) == 0 {
		return rows, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update 按 ID 更新字段，返回受影响行数
func (r *GormCrudRepository[T]) Update(id uint, updates map[string]interface{}) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}
	result := r.db.Model(new(T)).Where("id = ?", id).Updates(updates)
	return result.RowsAffected, result.Error
}

// Delete 按 ID 删除，返回受影响行数
func (r *GormCrudRepository[T]) Delete(id uint) (int64, error) {
	result := r.db.Where("id = ?", id).Delete(new(T))
	return result.RowsAffected, result.Error
}

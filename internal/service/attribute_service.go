package service

import (
	"strings"

	"github.com/shopdesk/internal/constants"
	"github.com/shopdesk/internal/models"
	"github.com/shopdesk/internal/repository"

	"github.com/shopspring/decimal"
)

// AttributeInput 商品属性输入（品牌/分类/材质只用 Name，颜色另需 Code，尺码只用 Value）
type AttributeInput struct {
	Name   *string
	Code   *string
	Value  *decimal.Decimal
	Status *string
}

// attributeKind 描述一种属性表的字段规则
type attributeKind[T any] struct {
	notFound error
	// unique 需要唯一的列
	unique []string
	// fields 校验输入并返回待写入的列；partial 为 true 时缺省字段不报错
	fields func(in AttributeInput, issues *ValidationError, partial bool) map[string]interface{}
	build  func(values map[string]interface{}) *T
}

// AttributeService 通用属性服务
type AttributeService[T any] struct {
	repo repository.CrudRepository[T]
	kind attributeKind[T]
}

// Create 创建属性，唯一列冲突返回 ErrAttributeDuplicate
func (s *AttributeService[T]) Create(in AttributeInput) (*T, error) {
	issues := &ValidationError{}
	values := s.kind.fields(in, issues, false)
	if _, ok := values["status"]; !ok {
		values["status"] = constants.StatusActive
	}
	if err := issues.OrNil(); err != nil {
		return nil, err
	}
	if err := s.ensureUnique(values, 0); err != nil {
		return nil, err
	}
	entity := s.kind.build(values)
	if err := s.repo.Create(entity); err != nil {
		if repository.IsDuplicateError(err) {
			return nil, ErrAttributeDuplicate
		}
		return nil, err
	}
	return entity, nil
}

// List 列表
func (s *AttributeService[T]) List(filter repository.AttributeListFilter) ([]T, int64, error) {
	filter.Status = strings.ToUpper(strings.TrimSpace(filter.Status))
	return s.repo.List(filter)
}

// Get 详情
func (s *AttributeService[T]) Get(id uint) (*T, error) {
	entity, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, s.kind.notFound
	}
	return entity, nil
}

// FindByName 按名称精确查找（未找到返回 nil, nil）
func (s *AttributeService[T]) FindByName(name string) (*T, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	return s.repo.FindBy("name", name)
}

// Update 更新属性
func (s *AttributeService[T]) Update(id uint, in AttributeInput) (*T, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}
	issues := &ValidationError{}
	values := s.kind.fields(in, issues, true)
	if err := issues.OrNil(); err != nil {
		return nil, err
	}
	if err := s.ensureUnique(values, id); err != nil {
		return nil, err
	}
	if _, err := s.repo.Update(id, values); err != nil {
		if repository.IsDuplicateError(err) {
			return nil, ErrAttributeDuplicate
		}
		return nil, err
	}
	return s.Get(id)
}

// Delete 删除属性，被商品引用时返回 ErrAttributeInUse
func (s *AttributeService[T]) Delete(id uint) error {
	affected, err := s.repo.Delete(id)
	if err != nil {
		if repository.IsForeignKeyError(err) {
			return ErrAttributeInUse
		}
		return err
	}
	if affected == 0 {
		return s.kind.notFound
	}
	return nil
}

func (s *AttributeService[T]) ensureUnique(values map[string]interface{}, excludeID uint) error {
	for _, column := range s.kind.unique {
		value, ok := values[column]
		if !ok {
			continue
		}
		exists, err := s.repo.ExistsBy(column, value, excludeID)
		if err != nil {
			return err
		}
		if exists {
			return withDetails(ErrAttributeDuplicate, column)
		}
	}
	return nil
}

func statusField(in AttributeInput, issues *ValidationError, values map[string]interface{}) {
	if in.Status == nil {
		return
	}
	values["status"] = checkOneOf(issues, "status", *in.Status, constants.StatusActive, constants.StatusInactive)
}

func nameField(in AttributeInput, issues *ValidationError, partial bool) map[string]interface{} {
	values := map[string]interface{}{}
	if in.Name != nil || !partial {
		var name string
		if in.Name != nil {
			name = *in.Name
		}
		values["name"] = requireText(issues, "name", name)
	}
	statusField(in, issues, values)
	return values
}

func stringValue(values map[string]interface{}, key string) string {
	if v, ok := values[key].(string); ok {
		return v
	}
	return ""
}

// NewBrandService 品牌服务
func NewBrandService(repo repository.CrudRepository[models.Brand]) *AttributeService[models.Brand] {
	return &AttributeService[models.Brand]{repo: repo, kind: attributeKind[models.Brand]{
		notFound: ErrBrandNotFound,
		unique:   []string{"name"},
		fields:   nameField,
		build: func(v map[string]interface{}) *models.Brand {
			return &models.Brand{Name: stringValue(v, "name"), Status: stringValue(v, "status")}
		},
	}}
}

// NewCategoryService 分类服务
func NewCategoryService(repo repository.CrudRepository[models.Category]) *AttributeService[models.Category] {
	return &AttributeService[models.Category]{repo: repo, kind: attributeKind[models.Category]{
		notFound: ErrCategoryNotFound,
		unique:   []string{"name"},
		fields:   nameField,
		build: func(v map[string]interface{}) *models.Category {
			return &models.Category{Name: stringValue(v, "name"), Status: stringValue(v, "status")}
		},
	}}
}

// NewMaterialService 材质服务
func NewMaterialService(repo repository.CrudRepository[models.Material]) *AttributeService[models.Material] {
	return &AttributeService[models.Material]{repo: repo, kind: attributeKind[models.Material]{
		notFound: ErrMaterialNotFound,
		unique:   []string{"name"},
		fields:   nameField,
		build: func(v map[string]interface{}) *models.Material {
			return &models.Material{Name: stringValue(v, "name"), Status: stringValue(v, "status")}
		},
	}}
}

// NewColorService 颜色服务（名称与色值编码均唯一）
func NewColorService(repo repository.CrudRepository[models.Color]) *AttributeService[models.Color] {
	return &AttributeService[models.Color]{repo: repo, kind: attributeKind[models.Color]{
		notFound: ErrColorNotFound,
		unique:   []string{"name", "code"},
		fields: func(in AttributeInput, issues *ValidationError, partial bool) map[string]interface{} {
			values := nameField(in, issues, partial)
			if in.Code != nil || !partial {
				var code string
				if in.Code != nil {
					code = *in.Code
				}
				values["code"] = strings.ToUpper(requireText(issues, "code", code))
			}
			return values
		},
		build: func(v map[string]interface{}) *models.Color {
			return &models.Color{Name: stringValue(v, "name"), Code: stringValue(v, "code"), Status: stringValue(v, "status")}
		},
	}}
}

// NewSizeService 尺码服务（尺码值必须大于 0）
func NewSizeService(repo repository.CrudRepository[models.Size]) *AttributeService[models.Size] {
	return &AttributeService[models.Size]{repo: repo, kind: attributeKind[models.Size]{
		notFound: ErrSizeNotFound,
		unique:   []string{"value"},
		fields: func(in AttributeInput, issues *ValidationError, partial bool) map[string]interface{} {
			values := map[string]interface{}{}
			switch {
			case in.Value != nil:
				checkPositiveMoney(issues, "value", *in.Value)
				values["value"] = in.Value.Round(1)
			case !partial:
				issues.Add("value", "required")
			}
			statusField(in, issues, values)
			return values
		},
		build: func(v map[string]interface{}) *models.Size {
			size := &models.Size{Status: stringValue(v, "status")}
			if value, ok := v["value"].(decimal.Decimal); ok {
				size.Value = value
			}
			return size
		},
	}}
}

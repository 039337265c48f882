package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID          uint            `gorm:"primarykey" json:"id"`                                           // 主键
	Code        string          `gorm:"type:varchar(20);uniqueIndex;not null" json:"code"`              // 商品编码（PRD000001）
	Name        string          `gorm:"type:varchar(255);not null;index" json:"name"`                   // 商品名称
	BrandID     uint            `gorm:"index;not null" json:"brandId"`                                  // 品牌ID
	CategoryID  uint            `gorm:"index;not null" json:"categoryId"`                               // 分类ID
	MaterialID  uint            `gorm:"index;not null" json:"materialId"`                               // 材质ID
	Description string          `gorm:"type:text" json:"description"`                                   // 描述
	Weight      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"weight"`            // 重量（克）
	Status      string          `gorm:"type:varchar(20);not null;default:'ACTIVE';index" json:"status"` // 状态
	CreatedAt   time.Time       `gorm:"index" json:"createdAt"`                                         // 创建时间
	UpdatedAt   time.Time       `json:"updatedAt"`                                                      // 更新时间
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`                                                 // 软删除时间（历史订单仍可引用）

	Brand      *Brand           `gorm:"foreignKey:BrandID" json:"brand,omitempty"`       // 品牌
	Category   *Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 分类
	Material   *Material        `gorm:"foreignKey:MaterialID" json:"material,omitempty"` // 材质
	Variants   []ProductVariant `gorm:"foreignKey:ProductID" json:"variants,omitempty"`  // 规格
	Promotions []Promotion      `gorm:"-" json:"promotions,omitempty"`                   // 生效中的促销（仅结构，不写入数据库）
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// ProductVariant 商品规格（商品 × 颜色 × 尺码），库存的唯一真实来源
type ProductVariant struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                               // 主键
	ProductID uint      `gorm:"not null;uniqueIndex:idx_variant_attrs" json:"productId"`            // 商品ID
	ColorID   uint      `gorm:"not null;uniqueIndex:idx_variant_attrs" json:"colorId"`              // 颜色ID
	SizeID    uint      `gorm:"not null;uniqueIndex:idx_variant_attrs" json:"sizeId"`               // 尺码ID
	Price     Money     `gorm:"type:decimal(12,2);not null" json:"price"`                           // 售价
	Stock     int       `gorm:"not null;default:0;check:chk_variant_stock,stock >= 0" json:"stock"` // 库存（不可为负）
	CreatedAt time.Time `json:"createdAt"`                                                          // 创建时间
	UpdatedAt time.Time `json:"updatedAt"`                                                          // 更新时间

	Product *Product              `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 商品
	Color   *Color                `gorm:"foreignKey:ColorID" json:"color,omitempty"`     // 颜色
	Size    *Size                 `gorm:"foreignKey:SizeID" json:"size,omitempty"`       // 尺码
	Images  []ProductVariantImage `gorm:"foreignKey:VariantID" json:"images,omitempty"`  // 图片
}

// TableName 指定表名
func (ProductVariant) TableName() string {
	return "product_variants"
}

// ProductVariantImage 规格图片
type ProductVariantImage struct {
	ID        uint      `gorm:"primarykey" json:"id"`                       // 主键
	VariantID uint      `gorm:"index;not null" json:"variantId"`            // 规格ID
	ImageURL  string    `gorm:"type:varchar(500);not null" json:"imageUrl"` // 图片地址
	CreatedAt time.Time `json:"createdAt"`                                  // 创建时间
}

// TableName 指定表名
func (ProductVariantImage) TableName() string {
	return "product_variant_images"
}

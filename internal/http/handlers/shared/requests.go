package shared

import (
	"strings"

	"github.com/shopdesk/internal/service"

	"github.com/shopspring/decimal"
)

// OrderItemRequest 下单行；productVariantId 与 variant.{colorId,sizeId} 为兼容旧客户端的别名
type OrderItemRequest struct {
	VariantID        uint                 `json:"variantId"`
	ProductVariantID uint                 `json:"productVariantId"`
	ProductID        uint                 `json:"productId"`
	ColorID          uint                 `json:"colorId"`
	SizeID           uint                 `json:"sizeId"`
	Variant          *OrderItemVariantRef `json:"variant"`
	Quantity         int                  `json:"quantity" binding:"gt=0"`
}

// OrderItemVariantRef 嵌套的颜色尺码引用
type OrderItemVariantRef struct {
	ID      uint `json:"id"`
	ColorID uint `json:"colorId"`
	SizeID  uint `json:"sizeId"`
}

// ToServiceLine 归一化为服务层下单行
func (r OrderItemRequest) ToServiceLine() service.OrderLineInput {
	line := service.OrderLineInput{
		VariantID: r.VariantID,
		ProductID: r.ProductID,
		ColorID:   r.ColorID,
		SizeID:    r.SizeID,
		Quantity:  r.Quantity,
	}
	if line.VariantID == 0 {
		line.VariantID = r.ProductVariantID
	}
	if r.Variant != nil {
		if line.VariantID == 0 {
			line.VariantID = r.Variant.ID
		}
		if line.ColorID == 0 {
			line.ColorID = r.Variant.ColorID
		}
		if line.SizeID == 0 {
			line.SizeID = r.Variant.SizeID
		}
	}
	return line
}

// ToServiceLines 批量归一化
func ToServiceLines(items []OrderItemRequest) []service.OrderLineInput {
	lines := make([]service.OrderLineInput, 0, len(items))
	for _, item := range items {
		lines = append(lines, item.ToServiceLine())
	}
	return lines
}

// ShippingRequest 收货信息
type ShippingRequest struct {
	Name            string `json:"name"`
	PhoneNumber     string `json:"phoneNumber"`
	ProvinceID      string `json:"provinceId"`
	DistrictID      string `json:"districtId"`
	WardID          string `json:"wardId"`
	SpecificAddress string `json:"specificAddress"`
}

// ToService 转换为服务层收货信息
func (r *ShippingRequest) ToService() *service.ShippingInput {
	if r == nil {
		return nil
	}
	return &service.ShippingInput{
		Name:            strings.TrimSpace(r.Name),
		PhoneNumber:     strings.TrimSpace(r.PhoneNumber),
		ProvinceID:      strings.TrimSpace(r.ProvinceID),
		DistrictID:      strings.TrimSpace(r.DistrictID),
		WardID:          strings.TrimSpace(r.WardID),
		SpecificAddress: strings.TrimSpace(r.SpecificAddress),
	}
}

// CreateOrderRequest 创建订单请求
type CreateOrderRequest struct {
	CustomerID      uint               `json:"customerId"`
	Items           []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	SubTotal        *decimal.Decimal   `json:"subTotal"`
	Total           *decimal.Decimal   `json:"total"`
	PaymentMethod   string             `json:"paymentMethod"`
	VoucherCode     string             `json:"voucherCode"`
	AddressID       uint               `json:"addressId"`
	ShippingAddress *ShippingRequest   `json:"shippingAddress"`
	Note            string             `json:"note"`
}

// ToService 转换为服务层下单输入
func (r CreateOrderRequest) ToService() service.CreateOrderInput {
	return service.CreateOrderInput{
		CustomerID:    r.CustomerID,
		Items:         ToServiceLines(r.Items),
		SubTotal:      r.SubTotal,
		Total:         r.Total,
		PaymentMethod: strings.TrimSpace(r.PaymentMethod),
		VoucherCode:   strings.TrimSpace(r.VoucherCode),
		AddressID:     r.AddressID,
		Shipping:      r.ShippingAddress.ToService(),
		Note:          strings.TrimSpace(r.Note),
	}
}

// ReturnItemRequest 退货行，按 orderItemId / variantId / productId+colorId+sizeId 定位
type ReturnItemRequest struct {
	OrderItemID uint   `json:"orderItemId"`
	VariantID   uint   `json:"variantId"`
	ProductID   uint   `json:"productId"`
	ColorID     uint   `json:"colorId"`
	SizeID      uint   `json:"sizeId"`
	Quantity    int    `json:"quantity" binding:"gt=0"`
	Reason      string `json:"reason"`
}

// ToServiceReturnItems 转换退货行
func ToServiceReturnItems(items []ReturnItemRequest) []service.ReturnItemInput {
	result := make([]service.ReturnItemInput, 0, len(items))
	for _, item := range items {
		result = append(result, service.ReturnItemInput{
			OrderItemID: item.OrderItemID,
			VariantID:   item.VariantID,
			ProductID:   item.ProductID,
			ColorID:     item.ColorID,
			SizeID:      item.SizeID,
			Quantity:    item.Quantity,
			Reason:      strings.TrimSpace(item.Reason),
		})
	}
	return result
}

// CreateReturnRequest 创建退货请求
type CreateReturnRequest struct {
	OrderID uint                `json:"orderId" binding:"required"`
	Reason  string              `json:"reason" binding:"required"`
	Note    string              `json:"note"`
	Items   []ReturnItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ToService 转换为服务层退货输入
func (r CreateReturnRequest) ToService() service.CreateReturnInput {
	return service.CreateReturnInput{
		OrderID: r.OrderID,
		Reason:  strings.TrimSpace(r.Reason),
		Note:    strings.TrimSpace(r.Note),
		Items:   ToServiceReturnItems(r.Items),
	}
}

// AddressRequest 收货地址请求
type AddressRequest struct {
	Name            string `json:"name" binding:"required"`
	PhoneNumber     string `json:"phoneNumber" binding:"required"`
	ProvinceID      string `json:"provinceId" binding:"required"`
	DistrictID      string `json:"districtId" binding:"required"`
	WardID          string `json:"wardId" binding:"required"`
	SpecificAddress string `json:"specificAddress" binding:"required"`
	Type            bool   `json:"type"`
	IsDefault       bool   `json:"isDefault"`
}

// ToService 转换为服务层地址输入
func (r AddressRequest) ToService() service.AddressInput {
	return service.AddressInput{
		Name:            strings.TrimSpace(r.Name),
		PhoneNumber:     strings.TrimSpace(r.PhoneNumber),
		ProvinceID:      strings.TrimSpace(r.ProvinceID),
		DistrictID:      strings.TrimSpace(r.DistrictID),
		WardID:          strings.TrimSpace(r.WardID),
		SpecificAddress: strings.TrimSpace(r.SpecificAddress),
		Type:            r.Type,
		IsDefault:       r.IsDefault,
	}
}

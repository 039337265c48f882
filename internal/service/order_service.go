package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopdesk/internal/cache"
	"github.com/shopdesk/internal/constants"
	"github.com/shopdesk/internal/logger"
	"github.com/shopdesk/internal/models"
	"github.com/shopdesk/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService 订单服务
type OrderService struct {
	orderRepo     repository.OrderRepository
	variantRepo   repository.VariantRepository
	voucherRepo   repository.VoucherRepository
	paymentRepo   repository.PaymentRepository
	accountRepo   repository.AccountRepository
	addressRepo   repository.AddressRepository
	notifications *NotificationService
}

// OrderServiceDeps 订单服务依赖
type OrderServiceDeps struct {
	OrderRepo     repository.OrderRepository
	VariantRepo   repository.VariantRepository
	VoucherRepo   repository.VoucherRepository
	PaymentRepo   repository.PaymentRepository
	AccountRepo   repository.AccountRepository
	AddressRepo   repository.AddressRepository
	Notifications *NotificationService
}

// NewOrderService 创建订单服务
func NewOrderService(deps OrderServiceDeps) *OrderService {
	return &OrderService{
		orderRepo:     deps.OrderRepo,
		variantRepo:   deps.VariantRepo,
		voucherRepo:   deps.VoucherRepo,
		paymentRepo:   deps.PaymentRepo,
		accountRepo:   deps.AccountRepo,
		addressRepo:   deps.AddressRepo,
		notifications: deps.Notifications,
	}
}

// OrderLineInput 下单行；按 VariantID，否则按 ProductID + ColorID + SizeID 定位规格
type OrderLineInput struct {
	VariantID uint
	ProductID uint
	ColorID   uint
	SizeID    uint
	Quantity  int
}

// ShippingInput 收货信息
type ShippingInput struct {
	Name            string
	PhoneNumber     string
	ProvinceID      string
	DistrictID      string
	WardID          string
	SpecificAddress string
}

// CreateOrderInput 创建订单输入
type CreateOrderInput struct {
	CustomerID    uint
	StaffID       *uint
	Items         []OrderLineInput
	SubTotal      *decimal.Decimal
	Total         *decimal.Decimal
	PaymentMethod string
	VoucherCode   string
	AddressID     uint
	Shipping      *ShippingInput
	Note          string
	// RequireShipping 客户自助下单必须提供收货地址
	RequireShipping bool
}

// CreatePOSOrderInput 门店下单输入
type CreatePOSOrderInput struct {
	StaffID       uint
	CustomerID    *uint
	Items         []OrderLineInput
	PaymentMethod string
	VoucherCode   string
	Note          string
}

// OrderUpdateInput 订单更新输入
type OrderUpdateInput struct {
	Shipping      *ShippingInput
	Note          *string
	OrderStatus   *string
	PaymentStatus *string
}

// resolvedLine 已定位规格的下单行
type resolvedLine struct {
	variant  *models.ProductVariant
	quantity int
}

// orderDraft 事务内计算出的订单草稿
type orderDraft struct {
	lines    []resolvedLine
	subTotal decimal.Decimal
	discount decimal.Decimal
	voucher  *models.Voucher
}

// CreateOrder 创建订单：定位规格、校验库存与优惠券、写订单、扣库存在同一事务内完成
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	issues := &ValidationError{}
	if input.CustomerID == 0 {
		issues.Add("customerId", "required")
	}
	method := checkOneOf(issues, "paymentMethod", input.PaymentMethod, paymentMethods...)
	validateOrderLines(issues, input.Items)
	if input.SubTotal != nil && input.SubTotal.IsNegative() {
		issues.Add("subTotal", "gte", "0")
	}
	if input.Total != nil && input.Total.IsNegative() {
		issues.Add("total", "gte", "0")
	}
	if input.Shipping != nil {
		validateShipping(issues, input.Shipping)
	} else if input.RequireShipping && input.AddressID == 0 {
		issues.Add("shippingAddress", "required")
	}
	if err := issues.OrNil(); err != nil {
		return nil, err
	}

	customer, err := s.accountRepo.GetByID(input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}
	shipping := input.Shipping
	if shipping == nil && input.AddressID != 0 {
		address, err := s.addressRepo.GetByIDAndAccount(input.AddressID, input.CustomerID)
		if err != nil {
			return nil, err
		}
		if address == nil {
			return nil, ErrAddressNotFound
		}
		shipping = &ShippingInput{
			Name:            address.Name,
			PhoneNumber:     address.PhoneNumber,
			ProvinceID:      address.ProvinceID,
			DistrictID:      address.DistrictID,
			WardID:          address.WardID,
			SpecificAddress: address.SpecificAddress,
		}
	}

	customerID := input.CustomerID
	order := &models.Order{
		CustomerID:    &customerID,
		StaffID:       input.StaffID,
		PaymentMethod: method,
		PaymentStatus: constants.OrderPaymentPending,
		OrderStatus:   constants.OrderStatusPendingConfirm,
		Note:          strings.TrimSpace(input.Note),
	}
	applyShipping(order, shipping)

	now := time.Now()
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		draft, err := s.buildDraft(tx, input.Items, input.VoucherCode, now)
		if err != nil {
			return err
		}
		if err := draft.checkClientTotals(input.SubTotal, input.Total); err != nil {
			return err
		}
		return s.persist(tx, order, draft, now, nil)
	})
	if err != nil {
		logOrderFailure("order_create_failed", err, "customer_id", input.CustomerID)
		return nil, err
	}

	logger.Infow("order_created", "order_id", order.ID, "code", order.Code, "total", order.Total.String())
	invalidateStatistics(ctx)
	s.notifications.NotifyOrderStatus(ctx, order.ID, order.OrderStatus)
	return s.GetOrder(order.ID)
}

// CreatePOSOrder 门店下单：直接完成并记一笔已完成的付款
func (s *OrderService) CreatePOSOrder(ctx context.Context, input CreatePOSOrderInput) (*models.Order, error) {
	issues := &ValidationError{}
	if input.StaffID == 0 {
		issues.Add("staffId", "required")
	}
	method := checkOneOf(issues, "paymentMethod", input.PaymentMethod, paymentMethods...)
	validateOrderLines(issues, input.Items)
	if err := issues.OrNil(); err != nil {
		return nil, err
	}
	if input.CustomerID != nil && *input.CustomerID != 0 {
		customer, err := s.accountRepo.GetByID(*input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, ErrCustomerNotFound
		}
	} else {
		input.CustomerID = nil
	}

	now := time.Now()
	staffID := input.StaffID
	order := &models.Order{
		CustomerID:    input.CustomerID,
		StaffID:       &staffID,
		PaymentMethod: method,
		PaymentStatus: constants.OrderPaymentPaid,
		OrderStatus:   constants.OrderStatusCompleted,
		Note:          strings.TrimSpace(input.Note),
		CompletedAt:   &now,
	}
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		draft, err := s.buildDraft(tx, input.Items, input.VoucherCode, now)
		if err != nil {
			return err
		}
		return s.persist(tx, order, draft, now, &staffID)
	})
	if err != nil {
		logOrderFailure("order_pos_create_failed", err, "staff_id", input.StaffID)
		return nil, err
	}

	logger.Infow("order_pos_created", "order_id", order.ID, "code", order.Code, "staff_id", input.StaffID)
	invalidateStatistics(ctx)
	return s.GetOrder(order.ID)
}

// buildDraft 定位规格、合并重复行、校验库存并计算金额与优惠
func (s *OrderService) buildDraft(tx *gorm.DB, items []OrderLineInput, voucherCode string, now time.Time) (*orderDraft, error) {
	variantRepo := s.variantRepo.WithTx(tx)
	draft := &orderDraft{subTotal: decimal.Zero, discount: decimal.Zero}
	index := map[uint]int{}
	for _, item := range items {
		variant, err := resolveLineVariant(variantRepo, item)
		if err != nil {
			return nil, err
		}
		if pos, ok := index[variant.ID]; ok {
			draft.lines[pos].quantity += item.Quantity
			continue
		}
		index[variant.ID] = len(draft.lines)
		draft.lines = append(draft.lines, resolvedLine{variant: variant, quantity: item.Quantity})
	}
	for _, line := range draft.lines {
		if line.variant.Stock < line.quantity {
			return nil, withDetails(ErrInsufficientStock, strconv.FormatUint(uint64(line.variant.ID), 10))
		}
		draft.subTotal = draft.subTotal.Add(line.variant.Price.MulInt(line.quantity).Decimal)
	}

	if code := strings.TrimSpace(voucherCode); code != "" {
		voucher, err := s.voucherRepo.WithTx(tx).GetByCode(code)
		if err != nil {
			return nil, err
		}
		if voucher == nil {
			return nil, ErrVoucherNotFound
		}
		if err := checkVoucherUsable(voucher, draft.subTotal, now); err != nil {
			return nil, err
		}
		draft.voucher = voucher
		draft.discount = decimal.Min(voucherDiscount(voucher, draft.subTotal).Decimal, draft.subTotal)
	}
	return draft, nil
}

// paidOnCreate 门店单在创建时即全额收款
func paidOnCreate(order *models.Order, posStaffID *uint) decimal.Decimal {
	if posStaffID != nil {
		return order.Total.Decimal
	}
	return decimal.Zero
}

func (d *orderDraft) total() decimal.Decimal {
	return d.subTotal.Sub(d.discount)
}

// checkClientTotals 客户端提交的金额必须与服务端计算一致
func (d *orderDraft) checkClientTotals(subTotal, total *decimal.Decimal) error {
	if subTotal != nil && !subTotal.Round(2).Equal(d.subTotal.Round(2)) {
		return withDetails(ErrOrderTotalMismatch, "subTotal", d.subTotal.StringFixed(2))
	}
	if total != nil && !total.Round(2).Equal(d.total().Round(2)) {
		return withDetails(ErrOrderTotalMismatch, "total", d.total().StringFixed(2))
	}
	return nil
}

// persist 生成编码、写入订单与明细、条件扣减库存与优惠券次数；staffID 非空时同时写入门店收款记录
func (s *OrderService) persist(tx *gorm.DB, order *models.Order, draft *orderDraft, now time.Time, posStaffID *uint) error {
	orderRepo := s.orderRepo.WithTx(tx)
	variantRepo := s.variantRepo.WithTx(tx)

	order.SubTotal = models.NewMoneyFromDecimal(draft.subTotal)
	order.Discount = models.NewMoneyFromDecimal(draft.discount)
	order.Total = models.NewMoneyFromDecimal(draft.total())
	order.PaymentStatus = PaymentStatusFor(paidOnCreate(order, posStaffID), order.Total.Decimal)
	if draft.voucher != nil {
		voucherID := draft.voucher.ID
		order.VoucherID = &voucherID
	}
	order.Items = make([]models.OrderItem, 0, len(draft.lines))
	for _, line := range draft.lines {
		order.Items = append(order.Items, models.OrderItem{
			VariantID: line.variant.ID,
			Quantity:  line.quantity,
			Price:     line.variant.Price,
		})
	}
	if posStaffID != nil && order.Total.IsPositive() {
		paidAt := now
		order.Payments = []models.Payment{{
			Amount:    order.Total,
			Method:    order.PaymentMethod,
			Status:    constants.PaymentStatusCompleted,
			Note:      "POS",
			CreatedBy: posStaffID,
			PaidAt:    &paidAt,
		}}
	}

	start, end := monthRange(now)
	code, err := generateUniqueCode(
		func() (int64, error) {
			count, err := orderRepo.CountCreatedBetween(start, end)
			return count + 1, err
		},
		func(seq int64) string { return formatMonthlyCode(constants.OrderCodePrefix, seq, now) },
		orderRepo.ExistsCode,
	)
	if err != nil {
		return err
	}
	order.Code = code
	if err := orderRepo.Create(order); err != nil {
		return err
	}

	for _, line := range draft.lines {
		affected, err := variantRepo.DecrementStock(line.variant.ID, line.quantity)
		if err != nil {
			return err
		}
		if affected == 0 {
			return withDetails(ErrInsufficientStock, strconv.FormatUint(uint64(line.variant.ID), 10))
		}
	}
	if draft.voucher != nil {
		affected, err := s.voucherRepo.WithTx(tx).IncrementUsedCount(draft.voucher.ID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrVoucherExhausted
		}
	}
	return nil
}

// resolveLineVariant 下单行定位规格：显式 variantId 优先（同时给出 productId 时必须一致），否则按商品 + 颜色 + 尺码
func resolveLineVariant(repo repository.VariantRepository, item OrderLineInput) (*models.ProductVariant, error) {
	var (
		variant *models.ProductVariant
		err     error
	)
	if item.VariantID != 0 {
		variant, err = repo.GetByID(item.VariantID)
		if err != nil {
			return nil, err
		}
		if variant == nil {
			return nil, withDetails(ErrVariantNotFound, strconv.FormatUint(uint64(item.VariantID), 10))
		}
		if item.ProductID != 0 && variant.ProductID != item.ProductID {
			return nil, withDetails(ErrVariantNotInProduct, strconv.FormatUint(uint64(item.VariantID), 10))
		}
	} else {
		variant, err = repo.FindByAttributes(item.ProductID, item.ColorID, item.SizeID)
		if err != nil {
			return nil, err
		}
		if variant == nil {
			return nil, withDetails(ErrVariantNotFound, fmt.Sprintf("%d/%d/%d", item.ProductID, item.ColorID, item.SizeID))
		}
	}
	if variant.Product == nil {
		return nil, withDetails(ErrProductNotFound, strconv.FormatUint(uint64(variant.ProductID), 10))
	}
	return variant, nil
}

func validateOrderLines(issues *ValidationError, items []OrderLineInput) {
	if len(items) == 0 {
		issues.Add("items", "min", "1")
		return
	}
	for i, item := range items {
		prefix := fmt.Sprintf("items[%d]", i)
		if item.VariantID == 0 {
			if item.ProductID == 0 {
				issues.Add(prefix+".productId", "required")
			}
			if item.ColorID == 0 {
				issues.Add(prefix+".colorId", "required")
			}
			if item.SizeID == 0 {
				issues.Add(prefix+".sizeId", "required")
			}
		}
		if item.Quantity <= 0 {
			issues.Add(prefix+".quantity", "gt", "0")
		}
	}
}

func validateShipping(issues *ValidationError, in *ShippingInput) {
	in.Name = requireText(issues, "shippingName", in.Name)
	in.PhoneNumber = checkPhone(issues, "shippingPhoneNumber", in.PhoneNumber, true)
	in.ProvinceID = requireText(issues, "shippingProvinceId", in.ProvinceID)
	in.DistrictID = requireText(issues, "shippingDistrictId", in.DistrictID)
	in.WardID = requireText(issues, "shippingWardId", in.WardID)
	in.SpecificAddress = requireText(issues, "shippingSpecificAddress", in.SpecificAddress)
}

func applyShipping(order *models.Order, shipping *ShippingInput) {
	if shipping == nil {
		return
	}
	order.ShippingName = shipping.Name
	order.ShippingPhoneNumber = shipping.PhoneNumber
	order.ShippingProvinceID = shipping.ProvinceID
	order.ShippingDistrictID = shipping.DistrictID
	order.ShippingWardID = shipping.WardID
	order.ShippingSpecificAddress = shipping.SpecificAddress
}

// UpdateOrder 修改收货信息与备注；订单状态走状态流转，支付状态只由付款记录汇总
func (s *OrderService) UpdateOrder(ctx context.Context, id uint, input OrderUpdateInput) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	issues := &ValidationError{}
	updates := map[string]interface{}{}
	if input.Shipping != nil {
		validateShipping(issues, input.Shipping)
		updates["shipping_name"] = input.Shipping.Name
		updates["shipping_phone_number"] = input.Shipping.PhoneNumber
		updates["shipping_province_id"] = input.Shipping.ProvinceID
		updates["shipping_district_id"] = input.Shipping.DistrictID
		updates["shipping_ward_id"] = input.Shipping.WardID
		updates["shipping_specific_address"] = input.Shipping.SpecificAddress
	}
	if input.Note != nil {
		updates["note"] = strings.TrimSpace(*input.Note)
	}
	if input.PaymentStatus != nil && strings.ToUpper(strings.TrimSpace(*input.PaymentStatus)) != order.PaymentStatus {
		issues.Add("paymentStatus", "derived")
	}
	if err := issues.OrNil(); err != nil {
		return nil, err
	}
	if len(updates) > 0 {
		if isOrderTerminal(order.OrderStatus) && input.Shipping != nil {
			return nil, ErrOrderStatusInvalid
		}
		if _, err := s.orderRepo.Update(id, updates); err != nil {
			return nil, err
		}
	}
	if input.OrderStatus != nil && strings.ToUpper(strings.TrimSpace(*input.OrderStatus)) != order.OrderStatus {
		return s.UpdateOrderStatus(ctx, id, *input.OrderStatus)
	}
	return s.GetOrder(id)
}

// UpdateOrderStatus 按流转表变更订单状态；取消走取消流程以回补库存
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id uint, target string) (*models.Order, error) {
	issues := &ValidationError{}
	target = checkOneOf(issues, "orderStatus", target, orderStatuses...)
	if err := issues.OrNil(); err != nil {
		return nil, err
	}
	if target == constants.OrderStatusCanceled {
		return s.CancelOrder(ctx, id, 0)
	}
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !isTransitionAllowed(order.OrderStatus, target) {
		return nil, withDetails(ErrOrderStatusInvalid, order.OrderStatus+"->"+target)
	}
	extra := map[string]interface{}{}
	if target == constants.OrderStatusCompleted {
		extra["completed_at"] = time.Now()
	}
	affected, err := s.orderRepo.UpdateStatus(id, order.OrderStatus, target, extra)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrOrderStatusConflict
	}
	logger.Infow("order_status_updated", "order_id", id, "from", order.OrderStatus, "to", target)
	invalidateStatistics(ctx)
	s.notifications.NotifyOrderStatus(ctx, id, target)
	return s.GetOrder(id)
}

// CancelOrder 取消订单并回补库存与优惠券次数；customerID 非 0 时只能取消自己待确认的订单
func (s *OrderService) CancelOrder(ctx context.Context, id uint, customerID uint) (*models.Order, error) {
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		order, err := orderRepo.LockByID(id)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if customerID != 0 && (order.CustomerID == nil || *order.CustomerID != customerID) {
			return ErrForbidden
		}
		switch order.OrderStatus {
		case constants.OrderStatusCanceled:
			return ErrOrderAlreadyCanceled
		case constants.OrderStatusCompleted:
			return ErrOrderCannotCancel
		}
		if customerID != 0 && order.OrderStatus != constants.OrderStatusPendingConfirm {
			return withDetails(ErrOrderCannotCancel, order.OrderStatus)
		}

		affected, err := orderRepo.UpdateStatus(id, order.OrderStatus, constants.OrderStatusCanceled, map[string]interface{}{
			"canceled_at": time.Now(),
		})
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrOrderStatusConflict
		}

		items, err := orderRepo.ListItems(id)
		if err != nil {
			return err
		}
		variantRepo := s.variantRepo.WithTx(tx)
		for _, item := range items {
			if _, err := variantRepo.IncrementStock(item.VariantID, item.Quantity); err != nil {
				return err
			}
		}
		if order.VoucherID != nil {
			if _, err := s.voucherRepo.WithTx(tx).DecrementUsedCount(*order.VoucherID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logOrderFailure("order_cancel_failed", err, "order_id", id)
		return nil, err
	}
	logger.Infow("order_canceled", "order_id", id, "by_customer", customerID != 0)
	invalidateStatistics(ctx)
	s.notifications.NotifyOrderStatus(ctx, id, constants.OrderStatusCanceled)
	return s.GetOrder(id)
}

// logOrderFailure 业务拒绝记 Warn，其它错误记 Error
func logOrderFailure(event string, err error, kv ...interface{}) {
	kv = append(kv, "error", err)
	if IsBusinessError(err) {
		logger.Warnw(event, kv...)
		return
	}
	logger.Errorw(event, kv...)
}

// invalidateStatistics 订单/支付变更后清理统计缓存
func invalidateStatistics(ctx context.Context) {
	if err := cache.DelByPrefix(ctx, cache.StatisticsKeyPrefix); err != nil {
		logger.Warnw("statistics_cache_invalidate_failed", "error", err)
	}
}

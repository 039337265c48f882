package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopdesk/internal/config"
	"github.com/shopdesk/internal/constants"
	"github.com/shopdesk/internal/logger"
	"github.com/shopdesk/internal/models"
	"github.com/shopdesk/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReturnService 退货服务
type ReturnService struct {
	cfg         *config.Config
	returnRepo  repository.ReturnRepository
	orderRepo   repository.OrderRepository
	variantRepo repository.VariantRepository
}

// NewReturnService 创建退货服务
func NewReturnService(cfg *config.Config, returnRepo repository.ReturnRepository, orderRepo repository.OrderRepository, variantRepo repository.VariantRepository) *ReturnService {
	return &ReturnService{
		cfg:         cfg,
		returnRepo:  returnRepo,
		orderRepo:   orderRepo,
		variantRepo: variantRepo,
	}
}

// ReturnItemInput 退货明细输入；按 OrderItemID、VariantID 或 ProductID + ColorID + SizeID 匹配订单项
type ReturnItemInput struct {
	OrderItemID uint
	VariantID   uint
	ProductID   uint
	ColorID     uint
	SizeID      uint
	Quantity    int
	Reason      string
}

// CreateReturnInput 创建退货单输入
type CreateReturnInput struct {
	OrderID    uint
	CustomerID uint
	StaffID    *uint
	Reason     string
	Note       string
	Items      []ReturnItemInput
}

// UpdateReturnInput 更新退货单输入（仅待处理状态）
type UpdateReturnInput struct {
	Reason *string
	Note   *string
	Items  *[]ReturnItemInput
}

// returnTransitions 退货单状态流转
var returnTransitions = map[string]map[string]bool{
	constants.ReturnStatusPending: {
		constants.ReturnStatusApproved: true,
		constants.ReturnStatusRejected: true,
		constants.ReturnStatusCanceled: true,
	},
	constants.ReturnStatusApproved: {
		constants.ReturnStatusCompleted: true,
	},
}

func (s *ReturnService) windowDays() int {
	if s.cfg == nil || s.cfg.Order.ReturnWindowDays <= 0 {
		return 30
	}
	return s.cfg.Order.ReturnWindowDays
}

// withinReturnWindow 退货窗口自完成时间起算，缺失时退化为最后更新时间
func withinReturnWindow(order *models.Order, days int, now time.Time) bool {
	anchor := order.UpdatedAt
	if order.CompletedAt != nil {
		anchor = *order.CompletedAt
	}
	return !now.After(anchor.AddDate(0, 0, days))
}

// CreateReturn 后台登记退货单
func (s *ReturnService) CreateReturn(input CreateReturnInput) (*models.Return, error) {
	return s.createReturn(input, false)
}

// CreateReturnRequest 客户发起退货申请：须为本人订单且在退货窗口内
func (s *ReturnService) CreateReturnRequest(customerID uint, input CreateReturnInput) (*models.Return, error) {
	input.CustomerID = customerID
	input.StaffID = nil
	return s.createReturn(input, true)
}

func (s *ReturnService) createReturn(input CreateReturnInput, byCustomer bool) (*models.Return, error) {
	issues := &ValidationError{}
	if input.OrderID == 0 {
		issues.Add("orderId", "required")
	}
	validateReturnItems(issues, input.Items)
	if err := issues.OrNil(); err != nil {
		return nil, err
	}

	now := time.Now()
	ret := &models.Return{
		OrderID: input.OrderID,
		StaffID: input.StaffID,
		Reason:  strings.TrimSpace(input.Reason),
		Note:    strings.TrimSpace(input.Note),
		Status:  constants.ReturnStatusPending,
	}
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.WithTx(tx).LockByID(input.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if byCustomer && (order.CustomerID == nil || *order.CustomerID != input.CustomerID) {
			return ErrForbidden
		}
		if order.OrderStatus != constants.OrderStatusCompleted {
			return withDetails(ErrReturnOrderNotCompleted, order.OrderStatus)
		}
		if byCustomer && !withinReturnWindow(order, s.windowDays(), now) {
			return ErrReturnWindowExpired
		}
		ret.CustomerID = order.CustomerID

		returnRepo := s.returnRepo.WithTx(tx)
		items, refund, err := s.buildReturnItems(tx, order.ID, 0, input.Items)
		if err != nil {
			return err
		}
		ret.Items = items
		ret.TotalRefund = models.NewMoneyFromDecimal(refund)

		start, end := monthRange(now)
		code, err := generateUniqueCode(
			func() (int64, error) {
				count, err := returnRepo.CountCreatedBetween(start, end)
				return count + 1, err
			},
			func(seq int64) string { return formatMonthlyCode(constants.ReturnCodePrefix, seq, now) },
			returnRepo.ExistsCode,
		)
		if err != nil {
			return err
		}
		ret.Code = code
		return returnRepo.Create(ret)
	})
	if err != nil {
		logOrderFailure("return_create_failed", err, "order_id", input.OrderID, "by_customer", byCustomer)
		return nil, err
	}
	logger.Infow("return_created", "return_id", ret.ID, "code", ret.Code, "order_id", ret.OrderID, "total_refund", ret.TotalRefund.String())
	return s.GetReturn(ret.ID)
}

// buildReturnItems 将输入匹配到订单项，校验可退数量并按成交价计算退款
func (s *ReturnService) buildReturnItems(tx *gorm.DB, orderID, excludeReturnID uint, inputs []ReturnItemInput) ([]models.ReturnItem, decimal.Decimal, error) {
	orderItems, err := s.orderRepo.WithTx(tx).ListItems(orderID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	returned, err := s.returnRepo.WithTx(tx).SumReturnedQuantity(orderID, excludeReturnID)
	if err != nil {
		return nil, decimal.Zero, err
	}

	var variantRepo repository.VariantRepository
	requested := map[uint]int{}
	items := make([]models.ReturnItem, 0, len(inputs))
	refund := decimal.Zero
	for i, in := range inputs {
		variantID := in.VariantID
		if in.OrderItemID == 0 && variantID == 0 {
			if variantRepo == nil {
				variantRepo = s.variantRepo.WithTx(tx)
			}
			variant, err := variantRepo.FindByAttributes(in.ProductID, in.ColorID, in.SizeID)
			if err != nil {
				return nil, decimal.Zero, err
			}
			if variant == nil {
				return nil, decimal.Zero, withDetails(ErrReturnItemInvalid, fmt.Sprintf("items[%d]", i))
			}
			variantID = variant.ID
		}
		orderItem := matchOrderItem(orderItems, in.OrderItemID, variantID)
		if orderItem == nil {
			return nil, decimal.Zero, withDetails(ErrReturnItemInvalid, fmt.Sprintf("items[%d]", i))
		}
		requested[orderItem.ID] += in.Quantity
		if requested[orderItem.ID]+returned[orderItem.ID] > orderItem.Quantity {
			remaining := orderItem.Quantity - returned[orderItem.ID]
			return nil, decimal.Zero, withDetails(ErrReturnQuantityExceeded, strconv.FormatUint(uint64(orderItem.ID), 10), strconv.Itoa(remaining))
		}
		items = append(items, models.ReturnItem{
			OrderItemID: orderItem.ID,
			VariantID:   orderItem.VariantID,
			Quantity:    in.Quantity,
			Price:       orderItem.Price,
			Reason:      strings.TrimSpace(in.Reason),
		})
		refund = refund.Add(orderItem.Price.MulInt(in.Quantity).Decimal)
	}
	return items, refund, nil
}

func matchOrderItem(items []models.OrderItem, orderItemID, variantID uint) *models.OrderItem {
	for i := range items {
		if orderItemID != 0 && items[i].ID == orderItemID {
			return &items[i]
		}
		if orderItemID == 0 && variantID != 0 && items[i].VariantID == variantID {
			return &items[i]
		}
	}
	return nil
}

func validateReturnItems(issues *ValidationError, items []ReturnItemInput) {
	if len(items) == 0 {
		issues.Add("items", "min", "1")
		return
	}
	for i, item := range items {
		prefix := fmt.Sprintf("items[%d]", i)
		if item.OrderItemID == 0 && item.VariantID == 0 && (item.ProductID == 0 || item.ColorID == 0 || item.SizeID == 0) {
			issues.Add(prefix+".orderItemId", "required")
		}
		if item.Quantity <= 0 {
			issues.Add(prefix+".quantity", "gt", "0")
		}
	}
}

// ListReturns 后台退货单列表
func (s *ReturnService) ListReturns(filter repository.ReturnListFilter) ([]models.Return, int64, error) {
	filter.Status = strings.ToUpper(strings.TrimSpace(filter.Status))
	return s.returnRepo.List(filter)
}

// SearchReturns 按退货编码或原订单编码搜索
func (s *ReturnService) SearchReturns(keyword string, filter repository.ReturnListFilter) ([]models.Return, int64, error) {
	filter.Keyword = strings.TrimSpace(keyword)
	if filter.Keyword == "" {
		issues := &ValidationError{}
		issues.Add("keyword", "required")
		return nil, 0, issues
	}
	return s.ListReturns(filter)
}

// GetReturn 退货单详情
func (s *ReturnService) GetReturn(id uint) (*models.Return, error) {
	ret, err := s.returnRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, ErrReturnNotFound
	}
	return ret, nil
}

// UpdateReturn 修改待处理退货单的原因、备注或明细
func (s *ReturnService) UpdateReturn(id uint, input UpdateReturnInput) (*models.Return, error) {
	if input.Items != nil {
		issues := &ValidationError{}
		validateReturnItems(issues, *input.Items)
		if err := issues.OrNil(); err != nil {
			return nil, err
		}
	}
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		returnRepo := s.returnRepo.WithTx(tx)
		ret, err := returnRepo.GetByID(id)
		if err != nil {
			return err
		}
		if ret == nil {
			return ErrReturnNotFound
		}
		if ret.Status != constants.ReturnStatusPending {
			return withDetails(ErrReturnNotEditable, ret.Status)
		}
		updates := map[string]interface{}{"updated_at": time.Now()}
		if input.Reason != nil {
			updates["reason"] = strings.TrimSpace(*input.Reason)
		}
		if input.Note != nil {
			updates["note"] = strings.TrimSpace(*input.Note)
		}
		if input.Items != nil {
			items, refund, err := s.buildReturnItems(tx, ret.OrderID, ret.ID, *input.Items)
			if err != nil {
				return err
			}
			if err := returnRepo.ReplaceItems(ret.ID, items); err != nil {
				return err
			}
			updates["total_refund"] = models.NewMoneyFromDecimal(refund)
		}
		_, err = returnRepo.Update(ret.ID, updates)
		return err
	})
	if err != nil {
		logOrderFailure("return_update_failed", err, "return_id", id)
		return nil, err
	}
	return s.GetReturn(id)
}

// UpdateReturnStatus 变更退货单状态；完成时在同一事务内回补库存
func (s *ReturnService) UpdateReturnStatus(ctx context.Context, id uint, target string, staffID *uint, note string) (*models.Return, error) {
	issues := &ValidationError{}
	target = checkOneOf(issues, "status", target,
		constants.ReturnStatusPending,
		constants.ReturnStatusApproved,
		constants.ReturnStatusRejected,
		constants.ReturnStatusCompleted,
		constants.ReturnStatusCanceled,
	)
	if err := issues.OrNil(); err != nil {
		return nil, err
	}
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		returnRepo := s.returnRepo.WithTx(tx)
		ret, err := returnRepo.GetByID(id)
		if err != nil {
			return err
		}
		if ret == nil {
			return ErrReturnNotFound
		}
		return s.transition(tx, ret, target, staffID, note)
	})
	if err != nil {
		logOrderFailure("return_status_update_failed", err, "return_id", id, "status", target)
		return nil, err
	}
	logger.Infow("return_status_updated", "return_id", id, "status", target)
	if target == constants.ReturnStatusCompleted {
		invalidateStatistics(ctx)
	}
	return s.GetReturn(id)
}

func (s *ReturnService) transition(tx *gorm.DB, ret *models.Return, target string, staffID *uint, note string) error {
	if !returnTransitions[ret.Status][target] {
		return withDetails(ErrReturnStatusInvalid, ret.Status+"->"+target)
	}
	extra := map[string]interface{}{}
	if staffID != nil {
		extra["staff_id"] = *staffID
	}
	if note = strings.TrimSpace(note); note != "" {
		extra["note"] = note
	}
	if target != constants.ReturnStatusCanceled {
		extra["processed_at"] = time.Now()
	}
	affected, err := s.returnRepo.WithTx(tx).UpdateStatus(ret.ID, ret.Status, target, extra)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrReturnStatusInvalid
	}
	if target != constants.ReturnStatusCompleted {
		return nil
	}
	variantRepo := s.variantRepo.WithTx(tx)
	for _, item := range ret.Items {
		if _, err := variantRepo.IncrementStock(item.VariantID, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// DeleteReturn 删除退货单（已完成的不可删除）
func (s *ReturnService) DeleteReturn(id uint) error {
	ret, err := s.GetReturn(id)
	if err != nil {
		return err
	}
	if ret.Status == constants.ReturnStatusCompleted {
		return ErrReturnDeleteCompleted
	}
	return models.DB.Transaction(func(tx *gorm.DB) error {
		affected, err := s.returnRepo.WithTx(tx).Delete(id)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrReturnNotFound
		}
		return nil
	})
}

// GetReturnStats 退货统计
func (s *ReturnService) GetReturnStats(from, to *time.Time) (*repository.ReturnStats, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, ErrInvalidDateRange
	}
	return s.returnRepo.Stats(from, to)
}

// ListReturnableOrders 客户仍在退货窗口内的已完成订单
func (s *ReturnService) ListReturnableOrders(customerID uint) ([]models.Order, error) {
	since := time.Now().AddDate(0, 0, -s.windowDays())
	return s.orderRepo.ListReturnable(customerID, since)
}

// ListMyReturns 客户自己的退货单
func (s *ReturnService) ListMyReturns(customerID uint, filter repository.ReturnListFilter) ([]models.Return, int64, error) {
	filter.CustomerID = customerID
	return s.ListReturns(filter)
}

// GetMyReturn 客户退货单详情
func (s *ReturnService) GetMyReturn(id, customerID uint) (*models.Return, error) {
	ret, err := s.returnRepo.GetByIDAndCustomer(id, customerID)
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, ErrReturnNotFound
	}
	return ret, nil
}

// CancelMyReturn 客户取消待处理的退货申请
func (s *ReturnService) CancelMyReturn(id, customerID uint) (*models.Return, error) {
	ret, err := s.GetMyReturn(id, customerID)
	if err != nil {
		return nil, err
	}
	if ret.Status != constants.ReturnStatusPending {
		return nil, withDetails(ErrReturnStatusInvalid, ret.Status)
	}
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		return s.transition(tx, ret, constants.ReturnStatusCanceled, nil, "")
	})
	if err != nil {
		return nil, err
	}
	logger.Infow("return_canceled_by_customer", "return_id", id, "customer_id", customerID)
	return s.GetMyReturn(id, customerID)
}

package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopdesk/internal/constants"
	"github.com/shopdesk/internal/logger"
	"github.com/shopdesk/internal/models"
	"github.com/shopdesk/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentService 支付记录服务
// 订单支付状态始终由已完成支付汇总得出，每次写入支付记录后在同一事务内重算。
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	orderRepo   repository.OrderRepository
}

// NewPaymentService 创建支付服务
func NewPaymentService(paymentRepo repository.PaymentRepository, orderRepo repository.OrderRepository) *PaymentService {
	return &PaymentService{paymentRepo: paymentRepo, orderRepo: orderRepo}
}

// CreatePaymentInput 创建支付输入
type CreatePaymentInput struct {
	OrderID        uint
	Amount         decimal.Decimal
	Method         string
	TransactionRef string
	Note           string
	StaffID        *uint
}

// CreateCODPaymentInput 货到付款收款输入；Amount 为空时收取剩余应付
type CreateCODPaymentInput struct {
	OrderID uint
	Amount  *decimal.Decimal
	Note    string
	StaffID *uint
}

// PaymentStatusFor 根据已付金额与应付总额得出订单支付状态
// 应付为 0 的订单（如满额抵扣券）直接视为已付清
func PaymentStatusFor(totalPaid, total decimal.Decimal) string {
	if totalPaid.GreaterThanOrEqual(total) {
		return constants.OrderPaymentPaid
	}
	if totalPaid.IsPositive() {
		return constants.OrderPaymentPartialPaid
	}
	return constants.OrderPaymentPending
}

// initialPaymentStatus 转账需人工确认到账，其余方式录入即完成
func initialPaymentStatus(method string) string {
	if method == constants.PaymentMethodBankTransfer {
		return constants.PaymentStatusPending
	}
	return constants.PaymentStatusCompleted
}

// CreatePayment 为未完结订单登记一笔支付
func (s *PaymentService) CreatePayment(ctx context.Context, input CreatePaymentInput) (*models.Payment, error) {
	issues := &ValidationError{}
	if input.OrderID == 0 {
		issues.Add("orderId", "required")
	}
	checkPositiveMoney(issues, "amount", input.Amount)
	method := checkOneOf(issues, "method", input.Method, paymentMethods...)
	if err := issues.OrNil(); err != nil {
		return nil, err
	}

	payment := &models.Payment{
		OrderID:        input.OrderID,
		Amount:         models.NewMoneyFromDecimal(input.Amount),
		Method:         method,
		Status:         initialPaymentStatus(method),
		TransactionRef: strings.TrimSpace(input.TransactionRef),
		Note:           strings.TrimSpace(input.Note),
		CreatedBy:      input.StaffID,
	}
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.WithTx(tx).LockByID(input.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if isOrderTerminal(order.OrderStatus) {
			return withDetails(ErrPaymentOrderClosed, order.OrderStatus)
		}
		if payment.Status == constants.PaymentStatusCompleted {
			now := time.Now()
			payment.PaidAt = &now
		}
		if err := s.paymentRepo.WithTx(tx).Create(payment); err != nil {
			return err
		}
		return s.recompute(tx, order)
	})
	if err != nil {
		logOrderFailure("payment_create_failed", err, "order_id", input.OrderID)
		return nil, err
	}
	logger.Infow("payment_created", "payment_id", payment.ID, "order_id", payment.OrderID, "method", method, "status", payment.Status)
	invalidateStatistics(ctx)
	return payment, nil
}

// CreateCODPayment 货到付款收款：订单需已送达或已完成
func (s *PaymentService) CreateCODPayment(ctx context.Context, input CreateCODPaymentInput) (*models.Payment, error) {
	issues := &ValidationError{}
	if input.OrderID == 0 {
		issues.Add("orderId", "required")
	}
	if input.Amount != nil {
		checkPositiveMoney(issues, "amount", *input.Amount)
	}
	if err := issues.OrNil(); err != nil {
		return nil, err
	}

	var payment *models.Payment
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.WithTx(tx).LockByID(input.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if order.OrderStatus != constants.OrderStatusDelivered && order.OrderStatus != constants.OrderStatusCompleted {
			return withDetails(ErrPaymentOrderNotDelivered, order.OrderStatus)
		}
		paid, err := s.paymentRepo.WithTx(tx).SumCompletedByOrder(order.ID)
		if err != nil {
			return err
		}
		amount := order.Total.Decimal.Sub(paid)
		if input.Amount != nil {
			amount = *input.Amount
		}
		if !amount.IsPositive() {
			return ErrPaymentNothingDue
		}
		now := time.Now()
		payment = &models.Payment{
			OrderID:   order.ID,
			Amount:    models.NewMoneyFromDecimal(amount),
			Method:    constants.PaymentMethodCOD,
			Status:    constants.PaymentStatusCompleted,
			Note:      strings.TrimSpace(input.Note),
			CreatedBy: input.StaffID,
			PaidAt:    &now,
		}
		if err := s.paymentRepo.WithTx(tx).Create(payment); err != nil {
			return err
		}
		return s.recompute(tx, order)
	})
	if err != nil {
		logOrderFailure("payment_cod_create_failed", err, "order_id", input.OrderID)
		return nil, err
	}
	logger.Infow("payment_cod_created", "payment_id", payment.ID, "order_id", payment.OrderID, "amount", payment.Amount.String())
	invalidateStatistics(ctx)
	return payment, nil
}

// paymentTransitions 支付记录状态流转
var paymentTransitions = map[string]map[string]bool{
	constants.PaymentStatusPending: {
		constants.PaymentStatusCompleted: true,
		constants.PaymentStatusFailed:    true,
	},
	constants.PaymentStatusCompleted: {
		constants.PaymentStatusRefunded: true,
	},
}

// UpdatePaymentStatus 变更支付记录状态并重算订单支付状态
func (s *PaymentService) UpdatePaymentStatus(ctx context.Context, id uint, target string) (*models.Payment, error) {
	issues := &ValidationError{}
	target = checkOneOf(issues, "status", target,
		constants.PaymentStatusPending,
		constants.PaymentStatusCompleted,
		constants.PaymentStatusFailed,
		constants.PaymentStatusRefunded,
	)
	if err := issues.OrNil(); err != nil {
		return nil, err
	}

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		paymentRepo := s.paymentRepo.WithTx(tx)
		payment, err := paymentRepo.GetByID(id)
		if err != nil {
			return err
		}
		if payment == nil {
			return ErrPaymentNotFound
		}
		if !paymentTransitions[payment.Status][target] {
			return withDetails(ErrPaymentStatusInvalid, payment.Status+"->"+target)
		}
		order, err := s.orderRepo.WithTx(tx).LockByID(payment.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		extra := map[string]interface{}{"updated_at": time.Now()}
		if target == constants.PaymentStatusCompleted {
			extra["paid_at"] = time.Now()
		}
		affected, err := paymentRepo.UpdateStatus(id, payment.Status, target, extra)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrPaymentStatusInvalid
		}
		return s.recompute(tx, order)
	})
	if err != nil {
		logOrderFailure("payment_status_update_failed", err, "payment_id", id)
		return nil, err
	}
	logger.Infow("payment_status_updated", "payment_id", id, "status", target)
	invalidateStatistics(ctx)
	return s.paymentRepo.GetByID(id)
}

// DeletePayment 删除未完成的支付记录
func (s *PaymentService) DeletePayment(ctx context.Context, id uint) error {
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		paymentRepo := s.paymentRepo.WithTx(tx)
		payment, err := paymentRepo.GetByID(id)
		if err != nil {
			return err
		}
		if payment == nil {
			return ErrPaymentNotFound
		}
		if payment.Status == constants.PaymentStatusCompleted {
			return ErrPaymentDeleteCompleted
		}
		order, err := s.orderRepo.WithTx(tx).LockByID(payment.OrderID)
		if err != nil {
			return err
		}
		if _, err := paymentRepo.Delete(id); err != nil {
			return err
		}
		if order == nil {
			return nil
		}
		return s.recompute(tx, order)
	})
	if err != nil {
		logOrderFailure("payment_delete_failed", err, "payment_id", id)
		return err
	}
	logger.Infow("payment_deleted", "payment_id", id)
	invalidateStatistics(ctx)
	return nil
}

// ListPayments 支付记录列表
func (s *PaymentService) ListPayments(filter repository.PaymentListFilter) ([]models.Payment, int64, error) {
	filter.Status = strings.ToUpper(strings.TrimSpace(filter.Status))
	filter.Method = strings.ToUpper(strings.TrimSpace(filter.Method))
	if filter.CreatedFrom != nil && filter.CreatedTo != nil && filter.CreatedTo.Before(*filter.CreatedFrom) {
		return nil, 0, ErrInvalidDateRange
	}
	return s.paymentRepo.List(filter)
}

// GetPaymentsByOrder 订单的全部支付记录
func (s *PaymentService) GetPaymentsByOrder(orderID uint) ([]models.Payment, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return s.paymentRepo.ListByOrder(orderID)
}

// recompute 汇总已完成支付并回写订单支付状态（调用方已锁定订单行）
func (s *PaymentService) recompute(tx *gorm.DB, order *models.Order) error {
	paid, err := s.paymentRepo.WithTx(tx).SumCompletedByOrder(order.ID)
	if err != nil {
		logger.Errorw("payment_recompute_failed", "order_id", order.ID, "error", err)
		return err
	}
	status := PaymentStatusFor(paid, order.Total.Decimal)
	if status == order.PaymentStatus {
		return nil
	}
	if _, err := s.orderRepo.WithTx(tx).Update(order.ID, map[string]interface{}{
		"payment_status": status,
		"updated_at":     time.Now(),
	}); err != nil {
		logger.Errorw("payment_recompute_failed", "order_id", order.ID, "error", err)
		return err
	}
	order.PaymentStatus = status
	return nil
}

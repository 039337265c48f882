package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopdesk/internal/constants"
	"github.com/shopdesk/internal/logger"
	"github.com/shopdesk/internal/models"
	"github.com/shopdesk/internal/repository"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// VoucherService 优惠券服务
type VoucherService struct {
	repo          repository.VoucherRepository
	notifications *NotificationService
}

// NewVoucherService 创建优惠券服务
func NewVoucherService(repo repository.VoucherRepository, notifications *NotificationService) *VoucherService {
	return &VoucherService{repo: repo, notifications: notifications}
}

// VoucherInput 创建优惠券输入
type VoucherInput struct {
	Code          string
	Name          string
	Description   string
	Type          string
	Value         decimal.Decimal
	Quantity      int
	StartDate     time.Time
	EndDate       time.Time
	MinOrderValue decimal.Decimal
	MaxDiscount   decimal.Decimal
	Status        string
}

// VoucherUpdateInput 更新优惠券输入（nil 表示不修改）
type VoucherUpdateInput struct {
	Code          *string
	Name          *string
	Description   *string
	Type          *string
	Value         *decimal.Decimal
	Quantity      *int
	StartDate     *time.Time
	EndDate       *time.Time
	MinOrderValue *decimal.Decimal
	MaxDiscount   *decimal.Decimal
	Status        *string
}

// VoucherQuote 优惠券校验结果
type VoucherQuote struct {
	Voucher        *models.Voucher `json:"voucher"`
	DiscountAmount models.Money    `json:"discountAmount"`
}

// VoucherNotifyResult 优惠券推送结果
type VoucherNotifyResult struct {
	VoucherCode       string `json:"voucherCode"`
	NotificationsSent int64  `json:"notificationsSent"`
}

// Create 创建优惠券（券码统一大写）
func (s *VoucherService) Create(input VoucherInput) (*models.Voucher, error) {
	issues := &ValidationError{}
	voucher := &models.Voucher{
		Code:          strings.ToUpper(requireText(issues, "code", input.Code)),
		Name:          requireText(issues, "name", input.Name),
		Description:   strings.TrimSpace(input.Description),
		Type:          checkOneOf(issues, "type", input.Type, constants.VoucherTypePercentage, constants.VoucherTypeFixedAmount),
		Value:         models.NewMoneyFromDecimal(input.Value),
		Quantity:      input.Quantity,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		MinOrderValue: models.NewMoneyFromDecimal(input.MinOrderValue),
		MaxDiscount:   models.NewMoneyFromDecimal(input.MaxDiscount),
		Status:        checkOneOf(issues, "status", normalizeStatus(input.Status, constants.StatusActive), constants.StatusActive, constants.StatusInactive),
	}
	validateVoucherRules(issues, voucher)
	if err := issues.OrNil(); err != nil {
		return nil, err
	}
	exists, err := s.repo.ExistsCode(voucher.Code, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrVoucherCodeExists
	}
	if err := s.repo.Create(voucher); err != nil {
		if repository.IsDuplicateError(err) {
			return nil, ErrVoucherCodeExists
		}
		return nil, err
	}
	return voucher, nil
}

// validateVoucherRules 类型相关的数值规则
func validateVoucherRules(issues *ValidationError, v *models.Voucher) {
	switch v.Type {
	case constants.VoucherTypePercentage:
		if v.Value.LessThan(decimal.NewFromInt(1)) || v.Value.GreaterThan(hundred) {
			issues.Add("value", "between", "1-100")
		}
	case constants.VoucherTypeFixedAmount:
		checkPositiveMoney(issues, "value", v.Value.Decimal)
	}
	if v.Quantity < 1 {
		issues.Add("quantity", "gte", "1")
	}
	if v.MinOrderValue.IsNegative() {
		issues.Add("minOrderValue", "gte", "0")
	}
	if v.MaxDiscount.IsNegative() {
		issues.Add("maxDiscount", "gte", "0")
	}
	checkDateRange(issues, v.StartDate, v.EndDate)
}

// List 优惠券列表
func (s *VoucherService) List(filter repository.VoucherListFilter) ([]models.Voucher, int64, error) {
	filter.Status = strings.ToUpper(strings.TrimSpace(filter.Status))
	return s.repo.List(filter)
}

// Get 优惠券详情
func (s *VoucherService) Get(id uint) (*models.Voucher, error) {
	voucher, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if voucher == nil {
		return nil, ErrVoucherNotFound
	}
	return voucher, nil
}

// Update 更新优惠券，合并后整体复核规则
func (s *VoucherService) Update(id uint, input VoucherUpdateInput) (*models.Voucher, error) {
	current, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	merged := *current
	issues := &ValidationError{}
	if input.Code != nil {
		merged.Code = strings.ToUpper(requireText(issues, "code", *input.Code))
	}
	if input.Name != nil {
		merged.Name = requireText(issues, "name", *input.Name)
	}
	if input.Description != nil {
		merged.Description = strings.TrimSpace(*input.Description)
	}
	if input.Type != nil {
		merged.Type = checkOneOf(issues, "type", *input.Type, constants.VoucherTypePercentage, constants.VoucherTypeFixedAmount)
	}
	if input.Value != nil {
		merged.Value = models.NewMoneyFromDecimal(*input.Value)
	}
	if input.Quantity != nil {
		merged.Quantity = *input.Quantity
	}
	if input.StartDate != nil {
		merged.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		merged.EndDate = *input.EndDate
	}
	if input.MinOrderValue != nil {
		merged.MinOrderValue = models.NewMoneyFromDecimal(*input.MinOrderValue)
	}
	if input.MaxDiscount != nil {
		merged.MaxDiscount = models.NewMoneyFromDecimal(*input.MaxDiscount)
	}
	if input.Status != nil {
		merged.Status = checkOneOf(issues, "status", *input.Status, constants.StatusActive, constants.StatusInactive)
	}
	validateVoucherRules(issues, &merged)
	if merged.Quantity < current.UsedCount {
		issues.Add("quantity", "gte", fmt.Sprint(current.UsedCount))
	}
	if err := issues.OrNil(); err != nil {
		return nil, err
	}
	if merged.Code != current.Code {
		exists, err := s.repo.ExistsCode(merged.Code, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrVoucherCodeExists
		}
	}
	_, err = s.repo.Update(id, map[string]interface{}{
		"code":            merged.Code,
		"name":            merged.Name,
		"description":     merged.Description,
		"type":            merged.Type,
		"value":           merged.Value,
		"quantity":        merged.Quantity,
		"start_date":      merged.StartDate,
		"end_date":        merged.EndDate,
		"min_order_value": merged.MinOrderValue,
		"max_discount":    merged.MaxDiscount,
		"status":          merged.Status,
	})
	if err != nil {
		if repository.IsDuplicateError(err) {
			return nil, ErrVoucherCodeExists
		}
		return nil, err
	}
	return s.Get(id)
}

// Delete 删除优惠券，已被使用的券不可删除
func (s *VoucherService) Delete(id uint) error {
	voucher, err := s.Get(id)
	if err != nil {
		return err
	}
	if voucher.UsedCount > 0 {
		return ErrVoucherInUse
	}
	affected, err := s.repo.Delete(id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrVoucherInUse
	}
	return nil
}

// Validate 校验券码并计算优惠金额
func (s *VoucherService) Validate(code string, orderValue decimal.Decimal, now time.Time) (*VoucherQuote, error) {
	issues := &ValidationError{}
	code = requireText(issues, "code", code)
	if orderValue.IsNegative() {
		issues.Add("orderValue", "gte", "0")
	}
	if err := issues.OrNil(); err != nil {
		return nil, err
	}
	voucher, err := s.repo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if voucher == nil {
		return nil, ErrVoucherNotFound
	}
	if err := checkVoucherUsable(voucher, orderValue, now); err != nil {
		return nil, err
	}
	return &VoucherQuote{Voucher: voucher, DiscountAmount: voucherDiscount(voucher, orderValue)}, nil
}

// IncrementUsage 使用次数 +1（条件更新，用完返回 ErrVoucherExhausted）
func (s *VoucherService) IncrementUsage(id uint) (*models.Voucher, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}
	affected, err := s.repo.IncrementUsedCount(id)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrVoucherExhausted
	}
	return s.Get(id)
}

// ListAvailable 当前订单金额可用的优惠券及各自优惠金额
func (s *VoucherService) ListAvailable(orderValue decimal.Decimal, now time.Time) ([]VoucherQuote, error) {
	value, _ := orderValue.Float64()
	vouchers, err := s.repo.ListAvailable(value, now)
	if err != nil {
		return nil, err
	}
	quotes := make([]VoucherQuote, 0, len(vouchers))
	for i := range vouchers {
		v := &vouchers[i]
		quotes = append(quotes, VoucherQuote{Voucher: v, DiscountAmount: voucherDiscount(v, orderValue)})
	}
	return quotes, nil
}

// NotifyCustomers 向全部客户推送优惠券通知
func (s *VoucherService) NotifyCustomers(ctx context.Context, id uint) (*VoucherNotifyResult, error) {
	voucher, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	title := fmt.Sprintf("Mã giảm giá mới: %s", voucher.Code)
	message := fmt.Sprintf("%s - %s. Hạn dùng đến %s.", voucher.Name, describeVoucherValue(voucher), voucher.EndDate.Format("02/01/2006"))
	sent, err := s.notifications.SendToAllCustomers(ctx, constants.NotificationTypeVoucher, title, message)
	if err != nil {
		return nil, err
	}
	return &VoucherNotifyResult{VoucherCode: voucher.Code, NotificationsSent: sent}, nil
}

// ExpireEnded 停用已过期的优惠券
func (s *VoucherService) ExpireEnded(now time.Time) (int64, error) {
	affected, err := s.repo.ExpireEnded(now)
	if err != nil {
		return 0, err
	}
	if affected > 0 {
		logger.Infow("voucher_expire_sweep", "expired", affected)
	}
	return affected, nil
}

// checkVoucherUsable 状态、有效期、余量与最低金额校验
func checkVoucherUsable(v *models.Voucher, orderValue decimal.Decimal, now time.Time) error {
	switch {
	case v.Status != constants.StatusActive:
		return ErrVoucherInactive
	case now.Before(v.StartDate):
		return ErrVoucherNotStarted
	case now.After(v.EndDate):
		return ErrVoucherExpired
	case v.UsedCount >= v.Quantity:
		return ErrVoucherExhausted
	case orderValue.LessThan(v.MinOrderValue.Decimal):
		return ErrVoucherMinOrderValue
	}
	return nil
}

// voucherDiscount 百分比券按 maxDiscount 封顶（0 表示不封顶），固定金额券返回面值；抵扣订单时再按小计截断
func voucherDiscount(v *models.Voucher, orderValue decimal.Decimal) models.Money {
	var discount decimal.Decimal
	switch v.Type {
	case constants.VoucherTypePercentage:
		discount = orderValue.Mul(v.Value.Decimal).Div(hundred)
		if v.MaxDiscount.IsPositive() && discount.GreaterThan(v.MaxDiscount.Decimal) {
			discount = v.MaxDiscount.Decimal
		}
	default:
		discount = v.Value.Decimal
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	return models.NewMoneyFromDecimal(discount)
}

func describeVoucherValue(v *models.Voucher) string {
	if v.Type == constants.VoucherTypePercentage {
		return fmt.Sprintf("Giảm %s%%", v.Value.Decimal.String())
	}
	return fmt.Sprintf("Giảm %sđ", v.Value.Decimal.StringFixed(0))
}

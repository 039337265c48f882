package admin

import (
	"strings"
	"time"

	handlershared "github.com/shopdesk/internal/http/handlers/shared"
	"github.com/shopdesk/internal/http/response"
	"github.com/shopdesk/internal/repository"
	"github.com/shopdesk/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateAccountRequest 后台创建账户请求
type CreateAccountRequest struct {
	FullName    string     `json:"fullName" binding:"required"`
	Email       string     `json:"email" binding:"required,email"`
	PhoneNumber string     `json:"phoneNumber" binding:"required"`
	Password    string     `json:"password" binding:"required"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	Birthday    *time.Time `json:"birthday"`
	Gender      *bool      `json:"gender"`
	Avatar      string     `json:"avatar"`
	CitizenID   string     `json:"citizenId"`
}

// UpdateAccountRequest 后台更新账户请求
type UpdateAccountRequest struct {
	FullName    *string    `json:"fullName"`
	Email       *string    `json:"email"`
	PhoneNumber *string    `json:"phoneNumber"`
	Password    *string    `json:"password"`
	Role        *string    `json:"role"`
	Birthday    *time.Time `json:"birthday"`
	Gender      *bool      `json:"gender"`
	Avatar      *string    `json:"avatar"`
	CitizenID   *string    `json:"citizenId"`
}

// StatusRequest 状态变更请求
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListAccounts 账户列表
func (h *Handler) ListAccounts(c *gin.Context) {
	page, limit := handlershared.PageQuery(c)
	accounts, total, err := h.AccountService.List(repository.AccountListFilter{
		Page:     page,
		PageSize: limit,
		Role:     c.Query("role"),
		Status:   c.Query("status"),
		Search:   strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, msg(c, "message.success"), "accounts", accounts, response.NewPagination(total, page, limit))
}

// GetAccount 账户详情
func (h *Handler) GetAccount(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	account, err := h.AccountService.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.success"), account)
}

// CreateAccount 创建账户
func (h *Handler) CreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	account, err := h.AccountService.Create(service.CreateAccountInput{
		FullName:    req.FullName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
		Role:        req.Role,
		Status:      req.Status,
		Birthday:    req.Birthday,
		Gender:      req.Gender,
		Avatar:      req.Avatar,
		CitizenID:   req.CitizenID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, msg(c, "message.created"), account)
}

// UpdateAccount 更新账户
func (h *Handler) UpdateAccount(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateAccountRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	account, err := h.AccountService.Update(id, service.UpdateAccountInput{
		FullName:    req.FullName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
		Role:        req.Role,
		Birthday:    req.Birthday,
		Gender:      req.Gender,
		Avatar:      req.Avatar,
		CitizenID:   req.CitizenID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.updated"), account)
}

// UpdateAccountStatus 启用/停用账户
func (h *Handler) UpdateAccountStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req StatusRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	account, err := h.AccountService.UpdateStatus(id, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	requestLog(c).Infow("admin_account_status_updated", "operator_id", currentAdminID(c), "account_id", id, "status", account.Status)
	response.Success(c, msg(c, "message.updated"), account)
}

// DeleteAccount 删除账户
func (h *Handler) DeleteAccount(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.AccountService.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.deleted"), nil)
}

// ListAccountOrders 某客户的订单
func (h *Handler) ListAccountOrders(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	filter, ok := handlershared.OrderFilterFromQuery(c)
	if !ok {
		return
	}
	orders, total, err := h.OrderService.ListOrdersByCustomer(id, filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, msg(c, "message.success"), "orders", orders, response.NewPagination(total, filter.Page, filter.PageSize))
}

// ListAccountAddresses 账户收货地址
func (h *Handler) ListAccountAddresses(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	addresses, err := h.AddressService.List(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.success"), addresses)
}

// CreateAccountAddress 为账户新增地址
func (h *Handler) CreateAccountAddress(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req handlershared.AddressRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	address, err := h.AddressService.Create(id, req.ToService())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, msg(c, "message.created"), address)
}

// UpdateAccountAddress 更新账户地址
func (h *Handler) UpdateAccountAddress(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	addressID, ok := handlershared.ParseIDParam(c, "addressId")
	if !ok {
		return
	}
	var req handlershared.AddressRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	address, err := h.AddressService.Update(id, addressID, req.ToService())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.updated"), address)
}

// DeleteAccountAddress 删除账户地址
func (h *Handler) DeleteAccountAddress(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	addressID, ok := handlershared.ParseIDParam(c, "addressId")
	if !ok {
		return
	}
	if err := h.AddressService.Delete(id, addressID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.deleted"), nil)
}

// SetAccountDefaultAddress 设为账户默认地址
func (h *Handler) SetAccountDefaultAddress(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	addressID, ok := handlershared.ParseIDParam(c, "addressId")
	if !ok {
		return
	}
	address, err := h.AddressService.SetDefault(id, addressID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.updated"), address)
}

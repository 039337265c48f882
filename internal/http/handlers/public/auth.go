package public

import (
	"time"

	handlershared "github.com/shopdesk/internal/http/handlers/shared"
	"github.com/shopdesk/internal/http/response"
	"github.com/shopdesk/internal/service"

	"github.com/gin-gonic/gin"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	CaptchaID   string `json:"captchaId"`
	CaptchaCode string `json:"captchaCode"`
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	FullName    string     `json:"fullName" binding:"required"`
	Email       string     `json:"email" binding:"required,email"`
	PhoneNumber string     `json:"phoneNumber" binding:"required"`
	Password    string     `json:"password" binding:"required"`
	Birthday    *time.Time `json:"birthday"`
	Gender      *bool      `json:"gender"`
	Avatar      string     `json:"avatar"`
	CitizenID   string     `json:"citizenId"`
}

// UpdateProfileRequest 更新个人资料请求
type UpdateProfileRequest struct {
	FullName    *string    `json:"fullName"`
	PhoneNumber *string    `json:"phoneNumber"`
	Birthday    *time.Time `json:"birthday"`
	Gender      *bool      `json:"gender"`
	Avatar      *string    `json:"avatar"`
	CitizenID   *string    `json:"citizenId"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// Login 邮箱密码登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	result, err := h.AuthService.Login(service.LoginInput{
		Email:       req.Email,
		Password:    req.Password,
		CaptchaID:   req.CaptchaID,
		CaptchaCode: req.CaptchaCode,
	}, service.LoginMeta{
		ClientIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		RequestID: c.GetString("request_id"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.login_success"), result)
}

// Register 客户注册
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	result, err := h.AuthService.Register(service.CreateAccountInput{
		FullName:    req.FullName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
		Birthday:    req.Birthday,
		Gender:      req.Gender,
		Avatar:      req.Avatar,
		CitizenID:   req.CitizenID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, msg(c, "message.register_success"), result)
}

// GetCaptcha 获取图片验证码
func (h *Handler) GetCaptcha(c *gin.Context) {
	challenge, err := h.CaptchaService.Generate()
	if err != nil {
		respondError(c, response.CodeInternal, "error.captcha_generate_failed", err)
		return
	}
	response.Success(c, msg(c, "message.success"), challenge)
}

// Me 当前账户
func (h *Handler) Me(c *gin.Context) {
	accountID, ok := getAccountID(c)
	if !ok {
		return
	}
	account, err := h.AuthService.Me(accountID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.success"), account)
}

// UpdateProfile 更新个人资料
func (h *Handler) UpdateProfile(c *gin.Context) {
	accountID, ok := getAccountID(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	account, err := h.AuthService.UpdateProfile(accountID, service.ProfileInput{
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
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

// ChangePassword 修改密码
func (h *Handler) ChangePassword(c *gin.Context) {
	accountID, ok := getAccountID(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	if err := h.AuthService.ChangePassword(accountID, req.CurrentPassword, req.NewPassword); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.password_changed"), nil)
}

// Logout 注销，旧 Token 失效
func (h *Handler) Logout(c *gin.Context) {
	accountID, ok := getAccountID(c)
	if !ok {
		return
	}
	if err := h.AuthService.Logout(accountID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.logout_success"), nil)
}

// ListMyAddresses 我的收货地址
func (h *Handler) ListMyAddresses(c *gin.Context) {
	accountID, ok := getAccountID(c)
	if !ok {
		return
	}
	addresses, err := h.AddressService.List(accountID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.success"), addresses)
}

// CreateMyAddress 新增收货地址
func (h *Handler) CreateMyAddress(c *gin.Context) {
	accountID, ok := getAccountID(c)
	if !ok {
		return
	}
	var req handlershared.AddressRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	address, err := h.AddressService.Create(accountID, req.ToService())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, msg(c, "message.created"), address)
}

// UpdateMyAddress 更新收货地址
func (h *Handler) UpdateMyAddress(c *gin.Context) {
	accountID, ok := getAccountID(c)
	if !ok {
		return
	}
	addressID, ok := parseID(c)
	if !ok {
		return
	}
	var req handlershared.AddressRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	address, err := h.AddressService.Update(accountID, addressID, req.ToService())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.updated"), address)
}

// DeleteMyAddress 删除收货地址
func (h *Handler) DeleteMyAddress(c *gin.Context) {
	accountID, ok := getAccountID(c)
	if !ok {
		return
	}
	addressID, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.AddressService.Delete(accountID, addressID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.deleted"), nil)
}

// SetMyDefaultAddress 设为默认地址
func (h *Handler) SetMyDefaultAddress(c *gin.Context) {
	accountID, ok := getAccountID(c)
	if !ok {
		return
	}
	addressID, ok := parseID(c)
	if !ok {
		return
	}
	address, err := h.AddressService.SetDefault(accountID, addressID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.updated"), address)
}

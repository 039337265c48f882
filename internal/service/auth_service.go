package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopdesk/internal/cache"
	"github.com/shopdesk/internal/config"
	"github.com/shopdesk/internal/constants"
	"github.com/shopdesk/internal/logger"
	"github.com/shopdesk/internal/models"
	"github.com/shopdesk/internal/repository"

	"github.com/golang-jwt/jwt/v5"
)

// AuthService 账户认证服务（客户与管理员共用）
type AuthService struct {
	cfg         *config.Config
	accountRepo repository.AccountRepository
	loginLogs   *LoginLogService
	captcha     *CaptchaService
}

// NewAuthService 创建认证服务实例
func NewAuthService(cfg *config.Config, accountRepo repository.AccountRepository, loginLogs *LoginLogService, captcha *CaptchaService) *AuthService {
	return &AuthService{
		cfg:         cfg,
		accountRepo: accountRepo,
		loginLogs:   loginLogs,
		captcha:     captcha,
	}
}

// JWTClaims JWT 声明
type JWTClaims struct {
	AccountID    uint   `json:"account_id"`
	Role         string `json:"role"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// AuthResult 登录/注册结果
type AuthResult struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Account   *models.Account `json:"account"`
}

// LoginInput 登录输入
type LoginInput struct {
	Email       string
	Password    string
	CaptchaID   string
	CaptchaCode string
}

// ProfileInput 个人资料更新输入（nil 表示不修改）
type ProfileInput struct {
	FullName    *string
	PhoneNumber *string
	Birthday    *time.Time
	Gender      *bool
	Avatar      *string
	CitizenID   *string
}

// GenerateJWT 生成 JWT Token
func (s *AuthService) GenerateJWT(account *models.Account) (string, time.Time, error) {
	hours := s.cfg.JWT.ExpireHours
	if hours <= 0 {
		hours = 24
	}
	now := time.Now()
	expiresAt := now.Add(time.Duration(hours) * time.Hour)

	claims := JWTClaims{
		AccountID:    account.ID,
		Role:         account.Role,
		TokenVersion: account.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseJWT 解析 JWT Token
func (s *AuthService) ParseJWT(tokenString string) (*JWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid && claims.AccountID != 0 {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

// VerifyTokenState 校验 Token 版本与账户状态，优先读缓存，未命中回源数据库
func (s *AuthService) VerifyTokenState(ctx context.Context, claims *JWTClaims) (*cache.AccountAuthState, error) {
	if claims == nil {
		return nil, ErrInvalidToken
	}
	state, hit, err := cache.GetAccountAuthState(ctx, claims.AccountID)
	if err != nil {
		logger.Warnw("auth_state_cache_read_failed", "account_id", claims.AccountID, "error", err)
	}
	if !hit || state == nil {
		account, err := s.accountRepo.GetByID(claims.AccountID)
		if err != nil {
			return nil, err
		}
		if account == nil {
			return nil, ErrInvalidToken
		}
		state = cache.BuildAccountAuthState(account)
		_ = cache.SetAccountAuthState(ctx, state)
	}
	if state.Status != constants.StatusActive {
		return nil, ErrAccountDisabled
	}
	if state.TokenVersion != claims.TokenVersion || state.Role != claims.Role {
		return nil, ErrTokenRevoked
	}
	return state, nil
}

// Login 邮箱密码登录
func (s *AuthService) Login(input LoginInput, meta LoginMeta) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	record := func(accountID uint, status, reason string) {
		if err := s.loginLogs.Record(RecordLoginInput{
			AccountID:  accountID,
			Email:      email,
			Status:     status,
			FailReason: reason,
			Meta:       meta,
		}); err != nil {
			logger.Warnw("login_log_record_failed", "email", email, "error", err)
		}
	}

	if err := s.captcha.VerifyScene(constants.CaptchaSceneLogin, input.CaptchaID, input.CaptchaCode); err != nil {
		reason := constants.LoginLogFailReasonCaptchaInvalid
		if errors.Is(err, ErrCaptchaRequired) {
			reason = constants.LoginLogFailReasonCaptchaRequired
		}
		record(0, constants.LoginLogStatusFailed, reason)
		return nil, err
	}

	account, err := s.accountRepo.GetByEmail(email)
	if err != nil {
		record(0, constants.LoginLogStatusFailed, constants.LoginLogFailReasonInternalError)
		return nil, err
	}
	if account == nil {
		record(0, constants.LoginLogStatusFailed, constants.LoginLogFailReasonAccountNotFound)
		return nil, ErrAccountNotFound
	}
	if account.Status != constants.StatusActive {
		record(account.ID, constants.LoginLogStatusFailed, constants.LoginLogFailReasonAccountDisabled)
		return nil, ErrAccountDisabled
	}
	if !verifyPassword(account.PasswordHash, input.Password) {
		record(account.ID, constants.LoginLogStatusFailed, constants.LoginLogFailReasonInvalidCredentials)
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.GenerateJWT(account)
	if err != nil {
		record(account.ID, constants.LoginLogStatusFailed, constants.LoginLogFailReasonInternalError)
		return nil, err
	}
	now := time.Now()
	if err := s.accountRepo.Update(account.ID, map[string]interface{}{"last_login_at": now}); err != nil {
		logger.Warnw("account_last_login_update_failed", "account_id", account.ID, "error", err)
	}
	account.LastLoginAt = &now
	_ = cache.SetAccountAuthState(context.Background(), cache.BuildAccountAuthState(account))
	record(account.ID, constants.LoginLogStatusSuccess, "")

	return &AuthResult{Token: token, ExpiresAt: expiresAt, Account: account}, nil
}

// Register 客户注册
func (s *AuthService) Register(input CreateAccountInput) (*AuthResult, error) {
	input.Role = constants.RoleCustomer
	input.Status = constants.StatusActive
	account, err := createAccount(s.cfg, s.accountRepo, input)
	if err != nil {
		return nil, err
	}
	token, expiresAt, err := s.GenerateJWT(account)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, Account: account}, nil
}

// Me 当前账户（含地址）
func (s *AuthService) Me(accountID uint) (*models.Account, error) {
	account, err := s.accountRepo.GetByIDWithAddresses(accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

// UpdateProfile 更新个人资料
func (s *AuthService) UpdateProfile(accountID uint, input ProfileInput) (*models.Account, error) {
	issues := &ValidationError{}
	updates := map[string]interface{}{}
	var phone string
	if input.FullName != nil {
		updates["full_name"] = requireText(issues, "fullName", *input.FullName)
	}
	if input.PhoneNumber != nil {
		phone = checkPhone(issues, "phoneNumber", *input.PhoneNumber, true)
		updates["phone_number"] = phone
	}
	if input.Birthday != nil {
		updates["birthday"] = *input.Birthday
	}
	if input.Gender != nil {
		updates["gender"] = *input.Gender
	}
	if input.Avatar != nil {
		updates["avatar"] = strings.TrimSpace(*input.Avatar)
	}
	if input.CitizenID != nil {
		updates["citizen_id"] = strings.TrimSpace(*input.CitizenID)
	}
	if err := issues.OrNil(); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.GetByID(accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	if phone != "" {
		if err := ensureAccountUnique(s.accountRepo, "", phone, accountID); err != nil {
			return nil, err
		}
	}
	if err := s.accountRepo.Update(accountID, updates); err != nil {
		if repository.IsDuplicateError(err) {
			return nil, ErrPhoneExists
		}
		return nil, err
	}
	return s.Me(accountID)
}

// ChangePassword 修改密码，成功后旧 Token 全部失效
func (s *AuthService) ChangePassword(accountID uint, currentPassword, newPassword string) error {
	account, err := s.accountRepo.GetByID(accountID)
	if err != nil {
		return err
	}
	if account == nil {
		return ErrAccountNotFound
	}
	if !verifyPassword(account.PasswordHash, currentPassword) {
		return ErrInvalidPassword
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, newPassword); err != nil {
		return err
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.accountRepo.Update(accountID, map[string]interface{}{"password_hash": hash}); err != nil {
		return err
	}
	return s.revokeTokens(accountID)
}

// Logout 注销：递增 Token 版本
func (s *AuthService) Logout(accountID uint) error {
	return s.revokeTokens(accountID)
}

func (s *AuthService) revokeTokens(accountID uint) error {
	if err := s.accountRepo.IncrementTokenVersion(accountID); err != nil {
		return err
	}
	if err := cache.DelAccountAuthState(context.Background(), accountID); err != nil {
		logger.Warnw("auth_state_cache_delete_failed", "account_id", accountID, "error", err)
	}
	return nil
}

package service

import (
	"strings"
	"time"

	"github.com/shopdesk/internal/constants"
	"github.com/shopdesk/internal/models"
	"github.com/shopdesk/internal/repository"
)

// LoginLogService 账户登录日志服务
type LoginLogService struct {
	repo repository.AccountLoginLogRepository
}

// NewLoginLogService 创建登录日志服务
func NewLoginLogService(repo repository.AccountLoginLogRepository) *LoginLogService {
	return &LoginLogService{repo: repo}
}

// LoginMeta 登录请求上下文
type LoginMeta struct {
	ClientIP  string
	UserAgent string
	RequestID string
}

// RecordLoginInput 登录日志记录输入
type RecordLoginInput struct {
	AccountID  uint
	Email      string
	Status     string
	FailReason string
	Meta       LoginMeta
}

// Record 记录登录行为
func (s *LoginLogService) Record(input RecordLoginInput) error {
	if s == nil || s.repo == nil {
		return nil
	}

	status := strings.ToLower(strings.TrimSpace(input.Status))
	if status != constants.LoginLogStatusSuccess {
		status = constants.LoginLogStatusFailed
	}
	failReason := strings.ToLower(strings.TrimSpace(input.FailReason))
	if status == constants.LoginLogStatusSuccess {
		failReason = ""
	} else if failReason == "" {
		failReason = constants.LoginLogFailReasonInternalError
	}

	return s.repo.Create(&models.AccountLoginLog{
		AccountID:  input.AccountID,
		Email:      strings.ToLower(strings.TrimSpace(input.Email)),
		Status:     status,
		FailReason: failReason,
		ClientIP:   strings.TrimSpace(input.Meta.ClientIP),
		UserAgent:  strings.TrimSpace(input.Meta.UserAgent),
		RequestID:  strings.TrimSpace(input.Meta.RequestID),
		CreatedAt:  time.Now(),
	})
}

// List 管理端查询登录日志
func (s *LoginLogService) List(filter repository.LoginLogListFilter) ([]models.AccountLoginLog, int64, error) {
	if s == nil || s.repo == nil {
		return []models.AccountLoginLog{}, 0, nil
	}
	filter.Email = strings.ToLower(strings.TrimSpace(filter.Email))
	filter.Status = strings.ToLower(strings.TrimSpace(filter.Status))
	return s.repo.List(filter)
}

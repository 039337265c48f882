package service

import (
	"strings"
	"time"

	"github.com/shopdesk/internal/models"
	"github.com/shopdesk/internal/repository"
)

// AuthzAuditRecordInput 权限审计记录输入
type AuthzAuditRecordInput struct {
	OperatorAccountID uint
	TargetAccountID   *uint
	Action            string
	Role              string
	RequestID         string
	Detail            models.JSON
}

// AuthzAuditService 权限审计服务
type AuthzAuditService struct {
	repo repository.AuthzAuditLogRepository
}

// NewAuthzAuditService 创建权限审计服务
func NewAuthzAuditService(repo repository.AuthzAuditLogRepository) *AuthzAuditService {
	return &AuthzAuditService{repo: repo}
}

// Record 记录权限审计日志，操作人或动作为空时忽略
func (s *AuthzAuditService) Record(input AuthzAuditRecordInput) error {
	if s == nil || s.repo == nil {
		return nil
	}
	if input.OperatorAccountID == 0 || strings.TrimSpace(input.Action) == "" {
		return nil
	}
	return s.repo.Create(&models.AuthzAuditLog{
		OperatorAccountID: input.OperatorAccountID,
		TargetAccountID:   input.TargetAccountID,
		Action:            strings.TrimSpace(input.Action),
		Role:              strings.TrimSpace(input.Role),
		RequestID:         strings.TrimSpace(input.RequestID),
		DetailJSON:        input.Detail,
		CreatedAt:         time.Now(),
	})
}

// List 查询审计日志
func (s *AuthzAuditService) List(filter repository.AuthzAuditLogListFilter) ([]models.AuthzAuditLog, int64, error) {
	if s == nil || s.repo == nil {
		return []models.AuthzAuditLog{}, 0, nil
	}
	filter.Action = strings.TrimSpace(filter.Action)
	return s.repo.List(filter)
}

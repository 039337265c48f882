package admin

import (
	"net/url"
	"strings"

	"github.com/shopdesk/internal/authz"
	"github.com/shopdesk/internal/constants"
	handlershared "github.com/shopdesk/internal/http/handlers/shared"
	"github.com/shopdesk/internal/http/response"
	"github.com/shopdesk/internal/logger"
	"github.com/shopdesk/internal/models"
	"github.com/shopdesk/internal/repository"
	"github.com/shopdesk/internal/service"

	"github.com/gin-gonic/gin"
)

type authzPolicyItem struct {
	Object string `json:"object" binding:"required"`
	Action string `json:"action" binding:"required"`
}

type authzSetPoliciesPayload struct {
	Policies []authzPolicyItem `json:"policies" binding:"dive"`
}

type authzSetAccountRolesPayload struct {
	Roles []string `json:"roles"`
}

// GetAuthzMe 当前管理员权限快照
func (h *Handler) GetAuthzMe(c *gin.Context) {
	accountID, ok := getAdminID(c)
	if !ok {
		return
	}
	roles, err := h.AuthzService.GetAccountRoles(accountID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	policies, err := h.AuthzService.GetAccountPolicies(accountID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, msg(c, "message.success"), gin.H{
		"accountId": accountID,
		"isSuper":   len(roles) == 0,
		"roles":     roles,
		"policies":  policies,
	})
}

// ListAuthzRoles 角色列表
func (h *Handler) ListAuthzRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, msg(c, "message.success"), roles)
}

// GetAuthzRolePolicies 角色策略
func (h *Handler) GetAuthzRolePolicies(c *gin.Context) {
	role := decodeRoleParam(c.Param("role"))
	policies, err := h.AuthzService.GetRolePolicies(role)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.authz_role_invalid", err)
		return
	}
	response.Success(c, msg(c, "message.success"), policies)
}

// SetAuthzRolePolicies 覆盖设置角色策略
func (h *Handler) SetAuthzRolePolicies(c *gin.Context) {
	role := decodeRoleParam(c.Param("role"))
	var req authzSetPoliciesPayload
	if !handlershared.BindJSON(c, &req) {
		return
	}
	policies := make([]authz.Policy, 0, len(req.Policies))
	for _, item := range req.Policies {
		policies = append(policies, authz.Policy{Object: item.Object, Action: item.Action})
	}
	if err := h.AuthzService.SetRolePolicies(role, policies); err != nil {
		respondError(c, response.CodeBadRequest, "error.authz_role_invalid", err)
		return
	}
	normalized, _ := authz.NormalizeRole(role)
	h.recordAuthzAudit(c, service.AuthzAuditRecordInput{
		OperatorAccountID: currentAdminID(c),
		Action:            constants.AuthzAuditActionRolePoliciesSet,
		Role:              normalized,
		RequestID:         currentRequestID(c),
		Detail: models.JSON{
			"role":     normalized,
			"policies": policies,
		},
	})
	logger.Infow("admin_authz_role_policies_set",
		"operator_account_id", currentAdminID(c),
		"role", normalized,
		"policies", len(policies),
	)

	current, err := h.AuthzService.GetRolePolicies(normalized)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, msg(c, "message.updated"), current)
}

// GrantAuthzRolePolicy 为角色追加单条策略
func (h *Handler) GrantAuthzRolePolicy(c *gin.Context) {
	role := decodeRoleParam(c.Param("role"))
	var req authzPolicyItem
	if !handlershared.BindJSON(c, &req) {
		return
	}
	granted, err := h.AuthzService.GrantPolicy(role, authz.Policy{Object: req.Object, Action: req.Action})
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.authz_role_invalid", err)
		return
	}
	h.recordAuthzAudit(c, service.AuthzAuditRecordInput{
		OperatorAccountID: currentAdminID(c),
		Action:            constants.AuthzAuditActionRolePolicyGrant,
		Role:              granted.Subject,
		RequestID:         currentRequestID(c),
		Detail:            models.JSON{"policy": granted},
	})
	logger.Infow("admin_authz_role_policy_granted",
		"operator_account_id", currentAdminID(c),
		"role", granted.Subject,
		"object", granted.Object,
		"action", granted.Action,
	)
	response.Created(c, msg(c, "message.created"), granted)
}

// RevokeAuthzRolePolicy 撤销角色的单条策略
func (h *Handler) RevokeAuthzRolePolicy(c *gin.Context) {
	role := decodeRoleParam(c.Param("role"))
	var req authzPolicyItem
	if !handlershared.BindJSON(c, &req) {
		return
	}
	policy := authz.Policy{Object: authz.NormalizeObject(req.Object), Action: authz.NormalizeAction(req.Action)}
	removed, err := h.AuthzService.RevokePolicy(role, policy)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.authz_role_invalid", err)
		return
	}
	if !removed {
		respondError(c, response.CodeNotFound, "error.authz_policy_not_found", nil)
		return
	}
	normalized, _ := authz.NormalizeRole(role)
	h.recordAuthzAudit(c, service.AuthzAuditRecordInput{
		OperatorAccountID: currentAdminID(c),
		Action:            constants.AuthzAuditActionRolePolicyRevoke,
		Role:              normalized,
		RequestID:         currentRequestID(c),
		Detail:            models.JSON{"policy": authz.Policy{Subject: normalized, Object: policy.Object, Action: policy.Action}},
	})
	logger.Infow("admin_authz_role_policy_revoked",
		"operator_account_id", currentAdminID(c),
		"role", normalized,
		"object", policy.Object,
		"action", policy.Action,
	)
	response.Success(c, msg(c, "message.deleted"), nil)
}

// DeleteAuthzRole 删除角色
func (h *Handler) DeleteAuthzRole(c *gin.Context) {
	role := decodeRoleParam(c.Param("role"))
	if err := h.AuthzService.DeleteRole(role); err != nil {
		respondError(c, response.CodeBadRequest, "error.authz_role_invalid", err)
		return
	}
	h.recordAuthzAudit(c, service.AuthzAuditRecordInput{
		OperatorAccountID: currentAdminID(c),
		Action:            constants.AuthzAuditActionRoleDelete,
		Role:              role,
		RequestID:         currentRequestID(c),
		Detail:            models.JSON{"role": role},
	})
	logger.Infow("admin_authz_role_deleted", "operator_account_id", currentAdminID(c), "role", role)
	response.Success(c, msg(c, "message.deleted"), nil)
}

// GetAuthzAccountRoles 管理员的子角色
func (h *Handler) GetAuthzAccountRoles(c *gin.Context) {
	account, ok := h.loadAdminAccount(c)
	if !ok {
		return
	}
	roles, err := h.AuthzService.GetAccountRoles(account.ID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, msg(c, "message.success"), roles)
}

// SetAuthzAccountRoles 覆盖设置管理员子角色；空列表恢复为超级管理员
func (h *Handler) SetAuthzAccountRoles(c *gin.Context) {
	account, ok := h.loadAdminAccount(c)
	if !ok {
		return
	}
	var req authzSetAccountRolesPayload
	if !handlershared.BindJSON(c, &req) {
		return
	}
	if err := h.AuthzService.SetAccountRoles(account.ID, req.Roles); err != nil {
		respondError(c, response.CodeBadRequest, "error.authz_role_invalid", err)
		return
	}
	targetID := account.ID
	h.recordAuthzAudit(c, service.AuthzAuditRecordInput{
		OperatorAccountID: currentAdminID(c),
		TargetAccountID:   &targetID,
		Action:            constants.AuthzAuditActionAccountRolesSet,
		RequestID:         currentRequestID(c),
		Detail: models.JSON{
			"target_account_id": targetID,
			"target_email":      account.Email,
			"roles":             req.Roles,
		},
	})
	logger.Infow("admin_authz_account_roles_updated",
		"operator_account_id", currentAdminID(c),
		"target_account_id", targetID,
		"roles", req.Roles,
	)

	roles, err := h.AuthzService.GetAccountRoles(targetID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, msg(c, "message.updated"), roles)
}

// ListAuthzAuditLogs 权限审计日志
func (h *Handler) ListAuthzAuditLogs(c *gin.Context) {
	page, limit := handlershared.PageQuery(c)
	from, to, ok := handlershared.QueryDateRange(c, "fromDate", "toDate")
	if !ok {
		return
	}
	logs, total, err := h.AuthzAuditService.List(repository.AuthzAuditLogListFilter{
		Page:              page,
		PageSize:          limit,
		OperatorAccountID: handlershared.QueryUint(c, "operatorAccountId"),
		TargetAccountID:   handlershared.QueryUint(c, "targetAccountId"),
		Action:            c.Query("action"),
		CreatedFrom:       from,
		CreatedTo:         to,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, msg(c, "message.success"), "logs", logs, response.NewPagination(total, page, limit))
}

// ListLoginLogs 登录日志
func (h *Handler) ListLoginLogs(c *gin.Context) {
	page, limit := handlershared.PageQuery(c)
	from, to, ok := handlershared.QueryDateRange(c, "fromDate", "toDate")
	if !ok {
		return
	}
	logs, total, err := h.LoginLogService.List(repository.LoginLogListFilter{
		Page:        page,
		PageSize:    limit,
		AccountID:   handlershared.QueryUint(c, "accountId"),
		Email:       strings.TrimSpace(c.Query("email")),
		Status:      c.Query("status"),
		CreatedFrom: from,
		CreatedTo:   to,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, msg(c, "message.success"), "logs", logs, response.NewPagination(total, page, limit))
}

func (h *Handler) loadAdminAccount(c *gin.Context) (*models.Account, bool) {
	id, ok := parseID(c)
	if !ok {
		return nil, false
	}
	account, err := h.AccountRepo.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return nil, false
	}
	if account == nil {
		respondServiceError(c, service.ErrAccountNotFound)
		return nil, false
	}
	if account.Role != constants.RoleAdmin {
		respondError(c, response.CodeBadRequest, "error.authz_role_invalid", nil)
		return nil, false
	}
	return account, true
}

func (h *Handler) recordAuthzAudit(c *gin.Context, input service.AuthzAuditRecordInput) {
	if h == nil || h.AuthzAuditService == nil {
		return
	}
	if err := h.AuthzAuditService.Record(input); err != nil {
		requestLog(c).Warnw("admin_authz_audit_record_failed",
			"error", err,
			"action", input.Action,
			"operator_account_id", input.OperatorAccountID,
		)
	}
}

func decodeRoleParam(value string) string {
	decoded, err := url.QueryUnescape(value)
	if err != nil {
		return strings.TrimSpace(value)
	}
	return strings.TrimSpace(decoded)
}

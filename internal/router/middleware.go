package router

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/shopdesk/internal/authz"
	"github.com/shopdesk/internal/cache"
	"github.com/shopdesk/internal/config"
	handlershared "github.com/shopdesk/internal/http/handlers/shared"
	"github.com/shopdesk/internal/http/response"
	"github.com/shopdesk/internal/i18n"
	"github.com/shopdesk/internal/logger"
	"github.com/shopdesk/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = "request_id"
const requestIDHeader = "X-Request-ID"
const adminIsSuperContextKey = "admin_is_super"

// TokenVerifier 解析并校验访问令牌
type TokenVerifier interface {
	ParseJWT(tokenString string) (*service.JWTClaims, error)
	VerifyTokenState(ctx context.Context, claims *service.JWTClaims) (*cache.AccountAuthState, error)
}

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"Accept-Language",
			"Authorization",
			"Cache-Control",
			"X-Requested-With",
			"X-Request-ID",
			"X-Locale",
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials)
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		c.Writer.Header().Set("Access-Control-Expose-Headers", requestIDHeader)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.L()
	}
	sugar := log.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := sugar.With(
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if accountID, ok := c.Get(handlershared.ContextAccountID); ok {
			entry = entry.With("account_id", accountID)
		}
		if len(c.Errors) > 0 {
			entry.Errorw("request", "errors", c.Errors.String())
			return
		}
		if c.Writer.Status() >= 500 {
			entry.Errorw("request")
			return
		}
		entry.Infow("request")
	}
}

// RecoveryMiddleware panic 恢复，返回统一 500 响应
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Errorw("http_panic_recovered",
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"panic", recovered,
		)
		response.AbortWithError(c, response.CodeInternal, i18n.T(i18n.ResolveLocale(c), "error.internal"))
	})
}

func getRequestID(c *gin.Context) string {
	value, ok := c.Get(requestIDKey)
	if !ok {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return requestID
	}
	return ""
}

// JWTAuthMiddleware JWT 鉴权中间件（客户与管理员共用）
func JWTAuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		locale := i18n.ResolveLocale(c)
		if verifier == nil {
			response.AbortWithError(c, response.CodeUnauthorized, i18n.T(locale, "error.unauthorized"))
			return
		}
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			response.AbortWithError(c, response.CodeUnauthorized, i18n.T(locale, "error.unauthorized"))
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			response.AbortWithError(c, response.CodeUnauthorized, i18n.T(locale, "error.invalid_token"))
			return
		}

		claims, err := verifier.ParseJWT(strings.TrimSpace(parts[1]))
		if err != nil {
			response.AbortWithError(c, response.CodeUnauthorized, i18n.T(locale, "error.invalid_token"))
			return
		}
		state, err := verifier.VerifyTokenState(c.Request.Context(), claims)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrAccountDisabled):
				response.AbortWithError(c, response.CodeForbidden, i18n.T(locale, "error.account_disabled"))
			case errors.Is(err, service.ErrTokenRevoked):
				response.AbortWithError(c, response.CodeUnauthorized, i18n.T(locale, "error.token_revoked"))
			case errors.Is(err, service.ErrInvalidToken):
				response.AbortWithError(c, response.CodeUnauthorized, i18n.T(locale, "error.invalid_token"))
			default:
				logger.Errorw("auth_verify_token_state_failed", "account_id", claims.AccountID, "error", err)
				response.AbortWithError(c, response.CodeInternal, i18n.T(locale, "error.internal"))
			}
			return
		}

		c.Set(handlershared.ContextAccountID, state.AccountID)
		c.Set(handlershared.ContextRole, state.Role)
		c.Next()
	}
}

// RequireRole 限定账户角色
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[strings.ToUpper(strings.TrimSpace(role))] = struct{}{}
	}
	return func(c *gin.Context) {
		role := strings.ToUpper(strings.TrimSpace(c.GetString(handlershared.ContextRole)))
		if _, ok := allowed[role]; !ok {
			logger.Warnw("http_role_forbidden",
				"request_id", getRequestID(c),
				"role", role,
				"path", c.Request.URL.Path,
			)
			response.AbortWithError(c, response.CodeForbidden, i18n.T(i18n.ResolveLocale(c), "error.forbidden"))
			return
		}
		c.Next()
	}
}

// AdminRBACMiddleware 管理端 RBAC 鉴权中间件
// 说明：未分配子角色的管理员视为超级管理员。
func AdminRBACMiddleware(authzService *authz.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		locale := i18n.ResolveLocale(c)
		if authzService == nil {
			logger.Errorw("admin_rbac_service_unavailable")
			response.AbortWithError(c, response.CodeForbidden, i18n.T(locale, "error.forbidden"))
			return
		}

		value, _ := c.Get(handlershared.ContextAccountID)
		accountID, _ := value.(uint)
		if accountID == 0 {
			response.AbortWithError(c, response.CodeUnauthorized, i18n.T(locale, "error.unauthorized"))
			return
		}

		roles, err := authzService.GetAccountRoles(accountID)
		if err != nil {
			logger.Errorw("admin_rbac_roles_failed", "account_id", accountID, "error", err)
			response.AbortWithError(c, response.CodeInternal, i18n.T(locale, "error.internal"))
			return
		}
		if len(roles) == 0 {
			c.Set(adminIsSuperContextKey, true)
			c.Next()
			return
		}

		resource := c.FullPath()
		if strings.TrimSpace(resource) == "" {
			resource = c.Request.URL.Path
		}
		allowed, err := authzService.EnforceAccount(accountID, resource, c.Request.Method)
		if err != nil {
			logger.Errorw("admin_rbac_enforce_failed",
				"account_id", accountID,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			response.AbortWithError(c, response.CodeInternal, i18n.T(locale, "error.internal"))
			return
		}
		if !allowed {
			logger.Warnw("admin_rbac_permission_denied",
				"account_id", accountID,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"resource", authz.NormalizeObject(resource),
			)
			response.AbortWithError(c, response.CodeForbidden, i18n.T(locale, "error.forbidden"))
			return
		}
		c.Set(adminIsSuperContextKey, false)
		c.Next()
	}
}

package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopdesk/internal/authz"
	"github.com/shopdesk/internal/cache"
	"github.com/shopdesk/internal/config"
	"github.com/shopdesk/internal/constants"
	adminhandlers "github.com/shopdesk/internal/http/handlers/admin"
	publichandlers "github.com/shopdesk/internal/http/handlers/public"
	handlershared "github.com/shopdesk/internal/http/handlers/shared"
	"github.com/shopdesk/internal/http/response"
	"github.com/shopdesk/internal/i18n"
	"github.com/shopdesk/internal/logger"
	"github.com/shopdesk/internal/models"
	"github.com/shopdesk/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "shopdesk"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.login_rate_limited",
	}
	registerRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:register", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		MessageKey:    "error.too_many_requests",
	}

	// 中间件
	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	r.NoRoute(func(ctx *gin.Context) {
		response.Error(ctx, response.CodeNotFound, i18n.T(i18n.ResolveLocale(ctx), "error.route_not_found"))
	})

	authRequired := JWTAuthMiddleware(c.AuthService)

	apiV1 := r.Group("/api/v1")
	{
		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.Login)
			auth.POST("/register", RateLimitMiddleware(redisClient, registerRule, KeyByIP), publicHandler.Register)
			auth.GET("/captcha", publicHandler.GetCaptcha)

			me := auth.Group("", authRequired)
			me.GET("/me", publicHandler.Me)
			me.PUT("/profile", publicHandler.UpdateProfile)
			me.PUT("/change-password", publicHandler.ChangePassword)
			me.POST("/logout", publicHandler.Logout)
			me.GET("/addresses", publicHandler.ListMyAddresses)
			me.POST("/addresses", publicHandler.CreateMyAddress)
			me.PUT("/addresses/:id", publicHandler.UpdateMyAddress)
			me.DELETE("/addresses/:id", publicHandler.DeleteMyAddress)
			me.PATCH("/addresses/:id/default", publicHandler.SetMyDefaultAddress)
		}

		// 商品目录（公开）
		apiV1.GET("/products", publicHandler.ListProducts)
		apiV1.GET("/products/search", publicHandler.ListProducts)
		apiV1.GET("/products/filters", publicHandler.GetProductFilters)
		apiV1.GET("/products/:id", publicHandler.GetProduct)
		apiV1.GET("/products/:id/promotions", publicHandler.GetProductPromotions)
		registerAttributeRoutes(apiV1, "/brands", publicHandler.Brands(), false)
		registerAttributeRoutes(apiV1, "/categories", publicHandler.Categories(), false)
		registerAttributeRoutes(apiV1, "/materials", publicHandler.Materials(), false)
		registerAttributeRoutes(apiV1, "/colors", publicHandler.Colors(), false)
		registerAttributeRoutes(apiV1, "/sizes", publicHandler.Sizes(), false)
		apiV1.GET("/promotions/active", publicHandler.ListActivePromotions)

		// 客户接口（需登录）
		customer := apiV1.Group("", authRequired)
		{
			customer.POST("/vouchers/validate", publicHandler.ValidateVoucher)
			customer.GET("/vouchers/available", publicHandler.ListAvailableVouchers)

			customer.GET("/notifications/my", publicHandler.ListMyNotifications)
			customer.PATCH("/notifications/my/read-all", publicHandler.MarkAllNotificationsRead)
			customer.PATCH("/notifications/my/:id/read", publicHandler.MarkNotificationRead)

			shopper := customer.Group("", RequireRole(constants.RoleCustomer))
			shopper.POST("/orders", publicHandler.CreateOrder)
			shopper.GET("/orders/my", publicHandler.ListMyOrders)
			shopper.GET("/orders/my/:id", publicHandler.GetMyOrder)
			shopper.POST("/orders/my/:id/cancel", publicHandler.CancelMyOrder)

			shopper.GET("/returns/returnable-orders", publicHandler.ListReturnableOrders)
			shopper.POST("/returns/request", publicHandler.CreateReturnRequest)
			shopper.GET("/returns/my", publicHandler.ListMyReturns)
			shopper.GET("/returns/my/:id", publicHandler.GetMyReturn)
			shopper.PUT("/returns/my/:id/cancel", publicHandler.CancelMyReturn)
		}

		// 后台接口
		admin := apiV1.Group("/admin", authRequired, RequireRole(constants.RoleAdmin), AdminRBACMiddleware(c.AuthzService))
		{
			admin.GET("/accounts", adminHandler.ListAccounts)
			admin.POST("/accounts", adminHandler.CreateAccount)
			admin.GET("/accounts/:id", adminHandler.GetAccount)
			admin.PUT("/accounts/:id", adminHandler.UpdateAccount)
			admin.PATCH("/accounts/:id/status", adminHandler.UpdateAccountStatus)
			admin.DELETE("/accounts/:id", adminHandler.DeleteAccount)
			admin.GET("/accounts/:id/orders", adminHandler.ListAccountOrders)
			admin.GET("/accounts/:id/addresses", adminHandler.ListAccountAddresses)
			admin.POST("/accounts/:id/addresses", adminHandler.CreateAccountAddress)
			admin.PUT("/accounts/:id/addresses/:addressId", adminHandler.UpdateAccountAddress)
			admin.DELETE("/accounts/:id/addresses/:addressId", adminHandler.DeleteAccountAddress)
			admin.PATCH("/accounts/:id/addresses/:addressId/default", adminHandler.SetAccountDefaultAddress)

			registerAttributeRoutes(admin, "/brands", adminHandler.Brands(), true)
			registerAttributeRoutes(admin, "/categories", adminHandler.Categories(), true)
			registerAttributeRoutes(admin, "/materials", adminHandler.Materials(), true)
			registerAttributeRoutes(admin, "/colors", adminHandler.Colors(), true)
			registerAttributeRoutes(admin, "/sizes", adminHandler.Sizes(), true)

			admin.GET("/products", adminHandler.ListProducts)
			admin.POST("/products", adminHandler.CreateProduct)
			admin.GET("/products/:id", adminHandler.GetProduct)
			admin.PUT("/products/:id", adminHandler.UpdateProduct)
			admin.DELETE("/products/:id", adminHandler.DeleteProduct)
			admin.PATCH("/products/:id/status", adminHandler.UpdateProductStatus)
			admin.PATCH("/products/:id/stock", adminHandler.UpdateProductStock)
			admin.PUT("/products/:id/variants/:variantId/images", adminHandler.UpdateVariantImages)

			admin.GET("/orders", adminHandler.ListOrders)
			admin.POST("/orders", adminHandler.CreateOrder)
			admin.POST("/orders/pos", adminHandler.CreatePOSOrder)
			admin.GET("/orders/:id", adminHandler.GetOrder)
			admin.PUT("/orders/:id", adminHandler.UpdateOrder)
			admin.PATCH("/orders/:id/status", adminHandler.UpdateOrderStatus)
			admin.DELETE("/orders/:id", adminHandler.CancelOrder)

			admin.GET("/payments", adminHandler.ListPayments)
			admin.GET("/payments/order/:orderId", adminHandler.GetPaymentsByOrder)
			admin.POST("/payments", adminHandler.CreatePayment)
			admin.POST("/payments/cod", adminHandler.CreateCODPayment)
			admin.PATCH("/payments/:id/status", adminHandler.UpdatePaymentStatus)
			admin.DELETE("/payments/:id", adminHandler.DeletePayment)

			admin.POST("/returns", adminHandler.CreateReturn)
			admin.GET("/returns", adminHandler.ListReturns)
			admin.GET("/returns/search", adminHandler.SearchReturns)
			admin.GET("/returns/stats", adminHandler.GetReturnStats)
			admin.GET("/returns/:id", adminHandler.GetReturn)
			admin.PUT("/returns/:id", adminHandler.UpdateReturn)
			admin.PUT("/returns/:id/status", adminHandler.UpdateReturnStatus)
			admin.DELETE("/returns/:id", adminHandler.DeleteReturn)

			admin.GET("/vouchers", adminHandler.ListVouchers)
			admin.POST("/vouchers", adminHandler.CreateVoucher)
			admin.GET("/vouchers/:id", adminHandler.GetVoucher)
			admin.PUT("/vouchers/:id", adminHandler.UpdateVoucher)
			admin.DELETE("/vouchers/:id", adminHandler.DeleteVoucher)
			admin.POST("/vouchers/:id/notify", adminHandler.NotifyVoucher)
			admin.POST("/vouchers/:id/use", adminHandler.UseVoucher)

			admin.GET("/promotions", adminHandler.ListPromotions)
			admin.POST("/promotions", adminHandler.CreatePromotion)
			admin.GET("/promotions/:id", adminHandler.GetPromotion)
			admin.PUT("/promotions/:id", adminHandler.UpdatePromotion)
			admin.DELETE("/promotions/:id", adminHandler.DeletePromotion)
			admin.POST("/promotions/:id/notify", adminHandler.NotifyPromotion)

			admin.GET("/notifications", adminHandler.ListNotifications)
			admin.POST("/notifications", adminHandler.CreateNotification)
			admin.POST("/notifications/broadcast", adminHandler.BroadcastNotification)
			admin.GET("/notifications/:id", adminHandler.GetNotification)
			admin.PUT("/notifications/:id", adminHandler.UpdateNotification)
			admin.DELETE("/notifications/:id", adminHandler.DeleteNotification)

			admin.GET("/statistics", adminHandler.GetStatistics)
			admin.GET("/statistics/revenue", adminHandler.GetRevenueReport)
			admin.GET("/statistics/top-products", adminHandler.GetTopProducts)
			admin.GET("/statistics/analytics", adminHandler.GetAnalytics)
			admin.GET("/statistics/dashboard", adminHandler.GetDashboard)
			admin.GET("/statistics/daily", adminHandler.ListDailyStatistics)
			admin.POST("/statistics/daily/generate", adminHandler.GenerateDailyStatistics)

			admin.GET("/authz/me", adminHandler.GetAuthzMe)
			admin.GET("/authz/roles", adminHandler.ListAuthzRoles)
			admin.GET("/authz/roles/:role/policies", adminHandler.GetAuthzRolePolicies)
			admin.PUT("/authz/roles/:role/policies", adminHandler.SetAuthzRolePolicies)
			admin.POST("/authz/roles/:role/policies", adminHandler.GrantAuthzRolePolicy)
			admin.DELETE("/authz/roles/:role/policies", adminHandler.RevokeAuthzRolePolicy)
			admin.DELETE("/authz/roles/:role", adminHandler.DeleteAuthzRole)
			admin.GET("/authz/accounts/:id/roles", adminHandler.GetAuthzAccountRoles)
			admin.PUT("/authz/accounts/:id/roles", adminHandler.SetAuthzAccountRoles)
			admin.GET("/authz/audit-logs", adminHandler.ListAuthzAuditLogs)
			admin.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
				response.Success(ctx, i18n.T(i18n.ResolveLocale(ctx), "message.success"), buildAdminPermissionCatalog(r))
			})
			admin.GET("/login-logs", adminHandler.ListLoginLogs)
		}
	}

	// 健康检查
	r.GET("/health", func(ctx *gin.Context) {
		status := "ok"
		if models.DB != nil {
			if sqlDB, err := models.DB.DB(); err != nil || sqlDB.PingContext(ctx.Request.Context()) != nil {
				status = "degraded"
			}
		}
		response.Success(ctx, i18n.T(i18n.ResolveLocale(ctx), "message.health_ok"), gin.H{"status": status})
	})

	return r
}

// registerAttributeRoutes 注册属性路由；writable 为 false 时只注册查询
func registerAttributeRoutes(group *gin.RouterGroup, path string, handlers handlershared.AttributeHandlers, writable bool) {
	group.GET(path, handlers.List)
	group.GET(path+"/:id", handlers.Get)
	if !writable {
		return
	}
	group.POST(path, handlers.Create)
	group.PUT(path+"/:id", handlers.Update)
	group.DELETE(path+"/:id", handlers.Delete)
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	return segments[1]
}

package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopdesk/internal/config"
	"github.com/shopdesk/internal/constants"
	"github.com/shopdesk/internal/models"
	"github.com/shopdesk/internal/provider"
	"github.com/shopdesk/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
}

func setupRouterTest(t *testing.T) (*gin.Engine, *provider.Container) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.SetupJoinTable(&models.Promotion{}, "Products", &models.PromotionProduct{}))
	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	models.DB = db

	cfg := &config.Config{}
	cfg.App.DefaultLocale = constants.DefaultLocale
	cfg.Server.Mode = "test"
	cfg.JWT.SecretKey = "router-test-secret"
	cfg.JWT.ExpireHours = 1
	container := provider.NewContainer(cfg)
	t.Cleanup(container.Close)
	return SetupRouter(cfg, container), container
}

func issueToken(t *testing.T, c *provider.Container, role, email, phone string) string {
	t.Helper()
	account, err := c.AccountService.Create(service.CreateAccountInput{
		FullName:    "Router " + role,
		Email:       email,
		PhoneNumber: phone,
		Password:    "Secret123!",
		Role:        role,
	})
	require.NoError(t, err)
	token, _, err := c.AuthService.GenerateJWT(account)
	require.NoError(t, err)
	return token
}

func doJSON(r http.Handler, method, path, token, body string) (*httptest.ResponseRecorder, envelope) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept-Language", "en")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestHealthAndNoRoute(t *testing.T) {
	r, _ := setupRouterTest(t)

	w, env := doJSON(r, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, env.Success)
	require.Contains(t, string(env.Data), `"status":"ok"`)

	w, env = doJSON(r, http.MethodGet, "/api/v1/unknown", "", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.False(t, env.Success)
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	r, c := setupRouterTest(t)
	adminToken := issueToken(t, c, constants.RoleAdmin, "router-admin@example.com", "0911000001")
	customerToken := issueToken(t, c, constants.RoleCustomer, "router-customer@example.com", "0911000002")

	w, _ := doJSON(r, http.MethodGet, "/api/v1/admin/accounts", "", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = doJSON(r, http.MethodGet, "/api/v1/admin/accounts", customerToken, "")
	require.Equal(t, http.StatusForbidden, w.Code)

	w, env := doJSON(r, http.MethodGet, "/api/v1/admin/accounts?limit=500", adminToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Accounts   []models.Account `json:"accounts"`
		Pagination struct {
			TotalItems int64 `json:"totalItems"`
			Limit      int   `json:"limit"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Accounts, 2)
	require.EqualValues(t, 2, page.Pagination.TotalItems)
	require.Equal(t, 100, page.Pagination.Limit)
}

func TestRegisterLoginAndProfile(t *testing.T) {
	r, _ := setupRouterTest(t)

	w, env := doJSON(r, http.MethodPost, "/api/v1/auth/register", "", `{"fullName":"Lan","email":"not-an-email","phoneNumber":"0911000003","password":"Secret123!"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, env.Errors, "email must be a valid email")

	w, _ = doJSON(r, http.MethodPost, "/api/v1/auth/register", "", `{"fullName":"Lan","email":"lan@example.com","phoneNumber":"0911000003","password":"Secret123!"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w, env = doJSON(r, http.MethodPost, "/api/v1/auth/login", "", `{"email":"lan@example.com","password":"Secret123!"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	require.NotEmpty(t, login.Token)

	w, env = doJSON(r, http.MethodGet, "/api/v1/auth/me", login.Token, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, string(env.Data), `"email":"lan@example.com"`)

	w, _ = doJSON(r, http.MethodPost, "/api/v1/auth/logout", login.Token, "")
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(r, http.MethodGet, "/api/v1/auth/me", login.Token, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAttributeRoutes(t *testing.T) {
	r, c := setupRouterTest(t)
	adminToken := issueToken(t, c, constants.RoleAdmin, "attr-admin@example.com", "0911000004")

	w, _ := doJSON(r, http.MethodPost, "/api/v1/admin/brands", adminToken, `{"name":"Biti's"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	w, _ = doJSON(r, http.MethodPost, "/api/v1/admin/brands", adminToken, `{"name":"Ananas","status":"INACTIVE"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := doJSON(r, http.MethodGet, "/api/v1/brands", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, string(env.Data), "Biti's")
	require.NotContains(t, string(env.Data), "Ananas")

	w, env = doJSON(r, http.MethodGet, "/api/v1/admin/brands", adminToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, string(env.Data), "Ananas")

	// 公开接口不提供写操作
	w, _ = doJSON(r, http.MethodPost, "/api/v1/brands", adminToken, `{"name":"X"}`)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestPermissionCatalog(t *testing.T) {
	r, c := setupRouterTest(t)
	adminToken := issueToken(t, c, constants.RoleAdmin, "catalog-admin@example.com", "0911000005")

	w, env := doJSON(r, http.MethodGet, "/api/v1/admin/authz/permissions/catalog", adminToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	var items []adminPermissionCatalogItem
	require.NoError(t, json.Unmarshal(env.Data, &items))
	permissions := make(map[string]string, len(items))
	for _, item := range items {
		permissions[item.Permission] = item.Module
	}
	require.Equal(t, "orders", permissions["POST:/admin/orders/pos"])
	require.Equal(t, "authz", permissions["PUT:/admin/authz/roles/:role/policies"])
	require.Equal(t, "statistics", permissions["POST:/admin/statistics/daily/generate"])
}

func seedRouterVariant(t *testing.T, price int64, stock int) *models.ProductVariant {
	t.Helper()
	brand := &models.Brand{Name: "Nike", Status: constants.StatusActive}
	category := &models.Category{Name: "Running", Status: constants.StatusActive}
	material := &models.Material{Name: "Mesh", Status: constants.StatusActive}
	color := &models.Color{Name: "Black", Code: "#000000", Status: constants.StatusActive}
	size := &models.Size{Value: decimal.NewFromInt(42), Status: constants.StatusActive}
	for _, row := range []interface{}{brand, category, material, color, size} {
		require.NoError(t, models.DB.Create(row).Error)
	}
	product := &models.Product{
		Code:       "PRD000001",
		Name:       "Air Runner",
		BrandID:    brand.ID,
		CategoryID: category.ID,
		MaterialID: material.ID,
		Status:     constants.StatusActive,
		Variants: []models.ProductVariant{{
			ColorID: color.ID,
			SizeID:  size.ID,
			Price:   models.NewMoneyFromInt(price),
			Stock:   stock,
		}},
	}
	require.NoError(t, models.DB.Create(product).Error)
	return &product.Variants[0]
}

func variantStock(t *testing.T, id uint) int {
	t.Helper()
	var variant models.ProductVariant
	require.NoError(t, models.DB.First(&variant, id).Error)
	return variant.Stock
}

type orderView struct {
	ID            uint   `json:"id"`
	Code          string `json:"code"`
	SubTotal      string `json:"subTotal"`
	Discount      string `json:"discount"`
	Total         string `json:"total"`
	OrderStatus   string `json:"orderStatus"`
	PaymentStatus string `json:"paymentStatus"`
}

func TestOrderLifecycleThroughRoutes(t *testing.T) {
	r, c := setupRouterTest(t)
	adminToken := issueToken(t, c, constants.RoleAdmin, "orders-admin@example.com", "0912000001")
	customerToken := issueToken(t, c, constants.RoleCustomer, "orders-customer@example.com", "0912000002")
	variant := seedRouterVariant(t, 150000, 5)

	_, err := c.VoucherService.Create(service.VoucherInput{
		Code:          "SALE10",
		Name:          "Giảm 10%",
		Type:          constants.VoucherTypePercentage,
		Value:         decimal.NewFromInt(10),
		Quantity:      5,
		StartDate:     time.Now().Add(-time.Hour),
		EndDate:       time.Now().Add(24 * time.Hour),
		MinOrderValue: decimal.NewFromInt(100000),
		MaxDiscount:   decimal.NewFromInt(20000),
	})
	require.NoError(t, err)

	w, env := doJSON(r, http.MethodPost, "/api/v1/vouchers/validate", customerToken, `{"code":"sale10","orderValue":300000}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, env.Success)
	require.Equal(t, "Voucher is valid", env.Message)
	require.Contains(t, string(env.Data), `"discountAmount":"20000.00"`)

	w, env = doJSON(r, http.MethodPost, "/api/v1/vouchers/validate", customerToken, `{"code":"NOPE","orderValue":300000}`)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.False(t, env.Success)

	shipping := `"shippingAddress":{"name":"Nguyễn Văn A","phoneNumber":"0901234567","provinceId":"79","districtId":"760","wardId":"26734","specificAddress":"12 Nguyễn Huệ"}`
	w, _ = doJSON(r, http.MethodPost, "/api/v1/orders", adminToken,
		fmt.Sprintf(`{"items":[{"variantId":%d,"quantity":1}],"paymentMethod":"COD",%s}`, variant.ID, shipping))
	require.Equal(t, http.StatusForbidden, w.Code)

	w, env = doJSON(r, http.MethodPost, "/api/v1/orders", customerToken,
		fmt.Sprintf(`{"items":[{"productVariantId":%d,"quantity":9}],"paymentMethod":"COD",%s}`, variant.ID, shipping))
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.False(t, env.Success)
	require.Equal(t, 5, variantStock(t, variant.ID))

	w, env = doJSON(r, http.MethodPost, "/api/v1/orders", customerToken,
		fmt.Sprintf(`{"items":[{"productVariantId":%d,"quantity":2}],"paymentMethod":"COD","voucherCode":"SALE10","total":280000,%s}`, variant.ID, shipping))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.True(t, env.Success)
	var order orderView
	require.NoError(t, json.Unmarshal(env.Data, &order))
	require.Equal(t, "300000.00", order.SubTotal)
	require.Equal(t, "20000.00", order.Discount)
	require.Equal(t, "280000.00", order.Total)
	require.Equal(t, constants.OrderStatusPendingConfirm, order.OrderStatus)
	require.Equal(t, constants.OrderPaymentPending, order.PaymentStatus)
	require.Equal(t, 3, variantStock(t, variant.ID))

	for _, status := range []string{constants.OrderStatusAwaitShipment, constants.OrderStatusShipping} {
		w, _ = doJSON(r, http.MethodPatch, fmt.Sprintf("/api/v1/admin/orders/%d/status", order.ID), adminToken,
			fmt.Sprintf(`{"orderStatus":%q}`, status))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w, _ = doJSON(r, http.MethodDelete, fmt.Sprintf("/api/v1/admin/orders/%d", order.ID), customerToken, "")
	require.Equal(t, http.StatusForbidden, w.Code)

	w, env = doJSON(r, http.MethodDelete, fmt.Sprintf("/api/v1/admin/orders/%d", order.ID), adminToken, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, "Order canceled successfully", env.Message)
	require.NoError(t, json.Unmarshal(env.Data, &order))
	require.Equal(t, constants.OrderStatusCanceled, order.OrderStatus)
	require.Equal(t, 5, variantStock(t, variant.ID))

	w, env = doJSON(r, http.MethodDelete, fmt.Sprintf("/api/v1/admin/orders/%d", order.ID), adminToken, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.False(t, env.Success)
}

func TestAuthzRolePolicyGrantAndRevoke(t *testing.T) {
	r, c := setupRouterTest(t)
	superToken := issueToken(t, c, constants.RoleAdmin, "authz-super@example.com", "0913000001")
	limitedToken := issueToken(t, c, constants.RoleAdmin, "authz-limited@example.com", "0913000002")
	var limited models.Account
	require.NoError(t, models.DB.Where("email = ?", "authz-limited@example.com").First(&limited).Error)

	w, env := doJSON(r, http.MethodPost, "/api/v1/admin/authz/roles/packer/policies", superToken,
		`{"object":"/api/v1/admin/authz/roles","action":"get"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, string(env.Data), `"subject":"role:packer"`)
	require.Contains(t, string(env.Data), `"object":"/admin/authz/roles"`)
	require.Contains(t, string(env.Data), `"action":"GET"`)

	require.NoError(t, c.AuthzService.SetAccountRoles(limited.ID, []string{"packer"}))
	w, _ = doJSON(r, http.MethodGet, "/api/v1/admin/authz/roles", limitedToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = doJSON(r, http.MethodGet, "/api/v1/admin/authz/audit-logs", limitedToken, "")
	require.Equal(t, http.StatusForbidden, w.Code)

	// 缺少 action 时拒绝
	w, _ = doJSON(r, http.MethodPost, "/api/v1/admin/authz/roles/packer/policies", superToken, `{"object":"/admin/orders"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(r, http.MethodDelete, "/api/v1/admin/authz/roles/packer/policies", superToken,
		`{"object":"/admin/authz/roles","action":"GET"}`)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = doJSON(r, http.MethodGet, "/api/v1/admin/authz/roles", limitedToken, "")
	require.Equal(t, http.StatusForbidden, w.Code)

	w, env = doJSON(r, http.MethodDelete, "/api/v1/admin/authz/roles/packer/policies", superToken,
		`{"object":"/admin/authz/roles","action":"GET"}`)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "Authorization policy not found", env.Message)

	var audits int64
	require.NoError(t, models.DB.Model(&models.AuthzAuditLog{}).
		Where("action IN ?", []string{constants.AuthzAuditActionRolePolicyGrant, constants.AuthzAuditActionRolePolicyRevoke}).
		Count(&audits).Error)
	require.Equal(t, int64(2), audits)
}

func TestGenerateDailyStatisticsRoute(t *testing.T) {
	r, c := setupRouterTest(t)
	adminToken := issueToken(t, c, constants.RoleAdmin, "stats-admin@example.com", "0914000001")

	// 未启用队列时同步生成并返回快照
	w, env := doJSON(r, http.MethodPost, "/api/v1/admin/statistics/daily/generate", adminToken, `{"date":"2026-01-15"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Daily statistics generated", env.Message)
	require.Contains(t, string(env.Data), `"2026-01-15"`)

	w, _ = doJSON(r, http.MethodPost, "/api/v1/admin/statistics/daily/generate", adminToken, `{"date":"15/01/2026"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

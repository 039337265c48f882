package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopdesk/internal/http/response"
	"github.com/shopdesk/internal/i18n"
	"github.com/shopdesk/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestServiceErrorKeysExist(t *testing.T) {
	for _, item := range serviceErrorTable {
		key := errorKey(item.target)
		require.Truef(t, i18n.Has(key), "missing i18n key %s for %v", key, item.target)
	}
}

func serveError(t *testing.T, err error) (int, response.Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		c.Set("request_id", "req-1")
		RespondServiceError(c, err)
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x?lang=en", nil)
	r.ServeHTTP(w, req)
	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestRespondServiceError(t *testing.T) {
	code, resp := serveError(t, fmt.Errorf("load: %w", service.ErrOrderNotFound))
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, "Order not found", resp.Message)
	require.False(t, resp.Success)

	code, resp = serveError(t, &service.DetailError{Err: service.ErrPromotionProductsNotFound, Details: []string{"9", "10"}})
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, "9, 10", resp.Error)

	issues := &service.ValidationError{}
	issues.Add("email", "required")
	issues.Add("status", "oneof", "ACTIVE INACTIVE")
	code, resp = serveError(t, issues)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, []string{"email is required", "status must be one of: ACTIVE INACTIVE"}, resp.Errors)

	code, resp = serveError(t, errors.New("dial tcp: connection refused"))
	require.Equal(t, http.StatusInternalServerError, code)
	require.NotContains(t, resp.Message, "connection refused")
	require.Equal(t, "req-1", resp.RequestID)

	code, _ = serveError(t, service.ErrInvalidCredentials)
	require.Equal(t, http.StatusUnauthorized, code)
	code, _ = serveError(t, service.ErrAccountDisabled)
	require.Equal(t, http.StatusForbidden, code)
}

type bindProbe struct {
	Email string `json:"email" binding:"required,email"`
	Items []struct {
		Quantity int `json:"quantity" binding:"gt=0"`
	} `json:"items" binding:"required,dive"`
}

func TestBindJSONTranslatesValidatorErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/x", func(c *gin.Context) {
		var req bindProbe
		if !BindJSON(c, &req) {
			return
		}
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/x?lang=en", strings.NewReader(`{"email":"nope","items":[{"quantity":0}]}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, []string{"email must be a valid email", "items[0].quantity must be greater than 0"}, resp.Errors)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{bad`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNormalizePagination(t *testing.T) {
	page, size := NormalizePagination(0, 0)
	require.Equal(t, 1, page)
	require.Equal(t, 10, size)
	_, size = NormalizePagination(2, 500)
	require.Equal(t, 100, size)
}

func TestParseTime(t *testing.T) {
	got, err := ParseTime("")
	require.NoError(t, err)
	require.Nil(t, got)

	got, err = ParseTime("2026-03-01")
	require.NoError(t, err)
	require.Equal(t, 2026, got.Year())

	_, err = ParseTime("01/03/2026")
	require.Error(t, err)
}

package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestNewPagination(t *testing.T) {
	p := NewPagination(21, 2, 10)
	if p.TotalPages != 3 || p.TotalItems != 21 || p.CurrentPage != 2 || p.Limit != 10 {
		t.Fatalf("unexpected pagination: %+v", p)
	}
	if NewPagination(0, 1, 10).TotalPages != 0 {
		t.Fatalf("empty result should have zero pages")
	}
}

func TestSuccessWithPageEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	SuccessWithPage(c, "ok", "orders", []int{1, 2}, NewPagination(2, 1, 10))

	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", w.Code)
	}
	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Orders     []int      `json:"orders"`
			Pagination Pagination `json:"pagination"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body failed: %v", err)
	}
	if !body.Success || len(body.Data.Orders) != 2 || body.Data.Pagination.TotalItems != 2 {
		t.Fatalf("unexpected envelope: %s", w.Body.String())
	}
}

func TestValidationErrorCarriesErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-1")

	ValidationError(c, "invalid", []string{"name is required"})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", w.Code)
	}
	var body Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body failed: %v", err)
	}
	if body.Success || len(body.Errors) != 1 || body.RequestID != "req-1" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestAcceptedHasNoData(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Accepted(c, "queued")

	if w.Code != http.StatusAccepted {
		t.Fatalf("unexpected status: %d", w.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body failed: %v", err)
	}
	if body["success"] != true || body["message"] != "queued" {
		t.Fatalf("unexpected body: %v", body)
	}
	if _, ok := body["data"]; ok {
		t.Fatalf("accepted response should omit data: %v", body)
	}
}

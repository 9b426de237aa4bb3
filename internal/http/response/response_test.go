package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body failed: %v", err)
	}
	return body
}

func TestErrorAttachesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-1")

	Conflict(c, "email em uso", "/api/v1/auth/register")

	if w.Code != http.StatusOK {
		t.Fatalf("http status want 200 got %d", w.Code)
	}
	body := decodeBody(t, w)
	if int(body["status_code"].(float64)) != CodeConflict {
		t.Fatalf("status_code want %d got %v", CodeConflict, body["status_code"])
	}
	data := body["data"].(map[string]interface{})
	if data["redirect"] != "/api/v1/auth/register" || data["request_id"] != "req-1" {
		t.Fatalf("unexpected data: %v", data)
	}
}

func TestSuccessEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	SuccessWithMsg(c, "ok", gin.H{"total": "19.00"})

	body := decodeBody(t, w)
	if body["status_code"].(float64) != 0 || body["msg"] != "ok" {
		t.Fatalf("unexpected envelope: %v", body)
	}
}

func TestFoundRedirects(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/admin/cupcakes", nil)

	Found(c, "/api/v1/auth/login")

	if w.Code != http.StatusFound || w.Header().Get("Location") != "/api/v1/auth/login" {
		t.Fatalf("want 302 to login got %d %q", w.Code, w.Header().Get("Location"))
	}
	if RedirectData("") != nil {
		t.Fatalf("empty redirect should produce nil data")
	}
}

func TestNewPagination(t *testing.T) {
	cases := []struct {
		total    int64
		pageSize int
		want     int64
	}{
		{total: 41, pageSize: 20, want: 3},
		{total: 40, pageSize: 20, want: 2},
		{total: 0, pageSize: 20, want: 0},
		{total: 5, pageSize: 0, want: 0},
	}
	for _, tc := range cases {
		if got := NewPagination(1, tc.pageSize, tc.total).TotalPage; got != tc.want {
			t.Fatalf("total=%d size=%d want %d got %d", tc.total, tc.pageSize, tc.want, got)
		}
	}
}

func TestSuccessWithPageIncludesPagination(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	SuccessWithPage(c, []int{1, 2}, NewPagination(2, 2, 3))

	body := decodeBody(t, w)
	pagination, ok := body["pagination"].(map[string]interface{})
	if !ok {
		t.Fatalf("pagination missing: %v", body)
	}
	if pagination["total_page"].(float64) != 2 || pagination["page"].(float64) != 2 {
		t.Fatalf("unexpected pagination: %v", pagination)
	}

	w2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(w2)
	Success(c2, nil)
	if _, ok := decodeBody(t, w2)["pagination"]; ok {
		t.Fatalf("plain success should omit pagination")
	}
}

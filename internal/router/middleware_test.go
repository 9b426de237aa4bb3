package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dujiao-next/cupcake/internal/authz"
	"github.com/dujiao-next/cupcake/internal/config"
	"github.com/dujiao-next/cupcake/internal/constants"
	handlershared "github.com/dujiao-next/cupcake/internal/http/handlers/shared"
	"github.com/dujiao-next/cupcake/internal/service"
	"github.com/dujiao-next/cupcake/internal/session"

	"github.com/gin-gonic/gin"
)

func TestResolveAllowedOrigin(t *testing.T) {
	got := resolveAllowedOrigin("https://example.com", []string{"*"}, false)
	if got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %s", got)
	}

	got = resolveAllowedOrigin("https://example.com", []string{"*"}, true)
	if got != "https://example.com" {
		t.Fatalf("wildcard with credentials should echo origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://a.example.com", []string{"https://a.example.com", "https://b.example.com"}, false)
	if got != "https://a.example.com" {
		t.Fatalf("allow-list should return matched origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://x.example.com", []string{"https://a.example.com"}, false)
	if got != "" {
		t.Fatalf("unmatched origin should be empty, got %s", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	generated := w2.Header().Get(requestIDHeader)
	if generated == "" {
		t.Fatalf("generated request id should not be empty")
	}
	if resp := strings.TrimSpace(generated); resp == "" {
		t.Fatalf("generated request id should not be blank")
	}
}

func TestSessionMiddlewareSavesBeforeBody(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := config.Default().Session
	cfg.Secret = "middleware-test-secret"
	manager := session.NewManager(session.NewCookieStore(cfg), cfg.Name)

	r := gin.New()
	r.Use(SessionMiddleware(manager))
	r.POST("/login", func(c *gin.Context) {
		handlershared.SessionContext(c).SetIdentity(session.Identity{UserID: 7, Name: "Ana"})
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/whoami", func(c *gin.Context) {
		identity := handlershared.CurrentIdentity(c)
		c.JSON(http.StatusOK, gin.H{"user_id": identity.UserID, "name": identity.Name})
	})
	r.POST("/logout", func(c *gin.Context) {
		handlershared.SessionContext(c).Clear()
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != cfg.Name {
		t.Fatalf("login should set session cookie %s, got %+v", cfg.Name, cookies)
	}

	w2 := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(cookies[0])
	r.ServeHTTP(w2, req)
	var resp struct {
		UserID uint   `json:"user_id"`
		Name   string `json:"name"`
	}
	if err := json.Unmarshal(w2.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.UserID != 7 || resp.Name != "Ana" {
		t.Fatalf("identity want 7/Ana got %d/%s", resp.UserID, resp.Name)
	}
	if len(w2.Result().Cookies()) != 0 {
		t.Fatalf("read-only request should not rewrite the cookie")
	}

	w3 := httptest.NewRecorder()
	req3 := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req3.AddCookie(cookies[0])
	r.ServeHTTP(w3, req3)
	expired := w3.Result().Cookies()
	if len(expired) != 1 || expired[0].MaxAge >= 0 {
		t.Fatalf("logout should expire the cookie, got %+v", expired)
	}
}

func TestAdminGuard(t *testing.T) {
	gin.SetMode(gin.TestMode)

	authzService := newRouterTestAuthz(t)
	cases := []struct {
		name     string
		identity session.Identity
		wantCode int
	}{
		{name: "anonymous", identity: session.Identity{}, wantCode: http.StatusFound},
		{name: "customer", identity: session.Identity{UserID: 2, Name: "Bia"}, wantCode: http.StatusFound},
		{name: "admin", identity: session.Identity{UserID: 1, Name: "Admin", IsAdmin: true}, wantCode: http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.Use(withIdentity(tc.identity))
			r.Use(AdminGuard(authzService, "/api/v1/auth/login"))
			r.GET("/api/v1/admin/cupcakes", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"ok": true})
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/cupcakes", nil))
			if w.Code != tc.wantCode {
				t.Fatalf("status want %d got %d", tc.wantCode, w.Code)
			}
			if tc.wantCode == http.StatusFound && w.Header().Get("Location") != "/api/v1/auth/login" {
				t.Fatalf("location want /api/v1/auth/login got %s", w.Header().Get("Location"))
			}
		})
	}
}

func TestCustomerGuard(t *testing.T) {
	gin.SetMode(gin.TestMode)

	authzService := newRouterTestAuthz(t)
	cases := []struct {
		name     string
		identity session.Identity
		wantCode int
	}{
		{name: "anonymous", identity: session.Identity{}, wantCode: 401},
		{name: "customer", identity: session.Identity{UserID: 2, Name: "Bia"}, wantCode: 0},
		{name: "admin", identity: session.Identity{UserID: 1, Name: "Admin", IsAdmin: true}, wantCode: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.Use(withIdentity(tc.identity))
			r.Use(CustomerGuard(authzService))
			r.GET("/api/v1/orders/:order_no", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"status_code": 0})
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/orders/20240305170709123", nil))
			if got := decodeStatusCode(t, w); got != tc.wantCode {
				t.Fatalf("status_code want %d got %d", tc.wantCode, got)
			}
		})
	}
}

func TestBearerIdentityMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.JWT.SecretKey = "bearer-test-secret"
	accounts := service.NewAccountService(cfg, nil, nil)
	token, _, err := accounts.IssueToken(session.Identity{UserID: 9, Name: "Caio"})
	if err != nil {
		t.Fatalf("issue token failed: %v", err)
	}

	r := gin.New()
	r.Use(withIdentity(session.Identity{}))
	r.Use(BearerIdentityMiddleware(accounts))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status_code": 0, "user_id": handlershared.CurrentIdentity(c).UserID})
	})

	cases := []struct {
		name     string
		header   string
		wantCode int
		wantUser uint
	}{
		{name: "no header", header: "", wantCode: 0, wantUser: 0},
		{name: "valid", header: "Bearer " + token, wantCode: 0, wantUser: 9},
		{name: "bad scheme", header: "Basic abc", wantCode: 401},
		{name: "bad token", header: "Bearer nope", wantCode: 401},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)

			var resp struct {
				StatusCode int  `json:"status_code"`
				UserID     uint `json:"user_id"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal response failed: %v", err)
			}
			if resp.StatusCode != tc.wantCode {
				t.Fatalf("status_code want %d got %d", tc.wantCode, resp.StatusCode)
			}
			if resp.UserID != tc.wantUser {
				t.Fatalf("user id want %d got %d", tc.wantUser, resp.UserID)
			}
		})
	}
}

func withIdentity(identity session.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := session.NewContext(session.State{Identity: identity})
		c.Set(constants.SessionContextKey, ctx)
		c.Next()
	}
}

func newRouterTestAuthz(t *testing.T) *authz.Service {
	t.Helper()
	svc, err := authz.NewService(openRouterTestDB(t))
	if err != nil {
		t.Fatalf("create authz service failed: %v", err)
	}
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap roles failed: %v", err)
	}
	return svc
}

func decodeStatusCode(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	var resp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v body=%s", err, w.Body.String())
	}
	return resp.StatusCode
}

package router

import (
	"strconv"
	"strings"
	"time"

	"github.com/dujiao-next/cupcake/internal/authz"
	"github.com/dujiao-next/cupcake/internal/config"
	"github.com/dujiao-next/cupcake/internal/constants"
	handlershared "github.com/dujiao-next/cupcake/internal/http/handlers/shared"
	"github.com/dujiao-next/cupcake/internal/http/response"
	"github.com/dujiao-next/cupcake/internal/logger"
	"github.com/dujiao-next/cupcake/internal/service"
	"github.com/dujiao-next/cupcake/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = "request_id"
const requestIDHeader = "X-Request-ID"

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"Authorization",
			"X-Requested-With",
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
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	sugar := logger.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := sugar.With(
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if len(c.Errors) > 0 {
			log.Errorw("request", "errors", c.Errors.String())
			return
		}
		log.Infow("request")
	}
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

// SessionMiddleware 加载请求级会话上下文，并在响应写出前按需写回
func SessionMiddleware(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if manager == nil {
			c.Next()
			return
		}
		ctx, err := manager.Load(c.Request)
		if err != nil {
			logger.Warnw("session_load_failed", "path", c.Request.URL.Path, "error", err)
			ctx = session.NewContext(session.State{})
		}
		c.Set(constants.SessionContextKey, ctx)

		writer := &sessionWriter{ResponseWriter: c.Writer}
		writer.save = func() {
			if writer.saved {
				return
			}
			writer.saved = true
			if err := manager.Save(c.Request, writer.ResponseWriter, ctx); err != nil {
				handlershared.RequestLog(c).Errorw("session_save_failed", "path", c.Request.URL.Path, "error", err)
			}
		}
		c.Writer = writer
		c.Next()
		// 处理器未写出响应体时（例如 POST 跳转）在这里补写
		writer.save()
	}
}

// sessionWriter 在首次写出前保存会话，保证 Set-Cookie 进入响应头
type sessionWriter struct {
	gin.ResponseWriter
	save  func()
	saved bool
}

func (w *sessionWriter) WriteHeaderNow() {
	w.save()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *sessionWriter) Write(data []byte) (int, error) {
	w.save()
	return w.ResponseWriter.Write(data)
}

func (w *sessionWriter) WriteString(s string) (int, error) {
	w.save()
	return w.ResponseWriter.WriteString(s)
}

// BearerIdentityMiddleware 解析 Authorization: Bearer 令牌，作为本次请求的身份
// 无令牌时沿用会话身份，令牌无效时直接返回 401
func BearerIdentityMiddleware(accounts *service.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" || accounts == nil {
			c.Next()
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			handlershared.RespondError(c, response.CodeUnauthorized, "error.token_invalid", nil)
			c.Abort()
			return
		}
		identity, err := accounts.ParseToken(strings.TrimSpace(parts[1]))
		if err != nil {
			handlershared.RespondError(c, response.CodeUnauthorized, "error.token_invalid", nil)
			c.Abort()
			return
		}
		handlershared.SessionContext(c).UseBearerIdentity(identity)
		c.Next()
	}
}

// AdminGuard 管理端守卫，未登录或无权限时跳转登录页
func AdminGuard(authzService *authz.Service, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := handlershared.CurrentIdentity(c)
		if !identity.IsAuthenticated() {
			response.Found(c, loginPath)
			c.Abort()
			return
		}
		if authzService == nil {
			logger.Errorw("admin_guard_authz_unavailable")
			response.Found(c, loginPath)
			c.Abort()
			return
		}

		resource := requestResource(c)
		allowed, err := authzService.EnforceIdentity(identity, resource, c.Request.Method)
		if err != nil {
			logger.Errorw("admin_guard_enforce_failed",
				"user_id", identity.UserID,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
		}
		if err != nil || !allowed {
			logger.Warnw("admin_guard_permission_denied",
				"user_id", identity.UserID,
				"role", identity.Role(),
				"method", c.Request.Method,
				"resource", authz.NormalizeObject(resource),
			)
			response.Found(c, loginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CustomerGuard 顾客接口守卫，返回 401/403 信封
func CustomerGuard(authzService *authz.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := handlershared.CurrentIdentity(c)
		if !identity.IsAuthenticated() {
			handlershared.RespondError(c, response.CodeUnauthorized, "error.login_required", nil)
			c.Abort()
			return
		}
		if authzService == nil {
			handlershared.RespondError(c, response.CodeInternal, "error.internal", nil)
			c.Abort()
			return
		}
		allowed, err := authzService.EnforceIdentity(identity, requestResource(c), c.Request.Method)
		if err != nil {
			handlershared.RespondError(c, response.CodeInternal, "error.internal", err)
			c.Abort()
			return
		}
		if !allowed {
			handlershared.RespondError(c, response.CodeForbidden, "error.forbidden", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

func requestResource(c *gin.Context) string {
	resource := c.FullPath()
	if strings.TrimSpace(resource) == "" {
		resource = c.Request.URL.Path
	}
	return resource
}

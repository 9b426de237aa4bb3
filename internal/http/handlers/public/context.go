package public

import (
	handlershared "github.com/dujiao-next/cupcake/internal/http/handlers/shared"
	"github.com/dujiao-next/cupcake/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 前台路由，错误响应中的 redirect 指向这些地址
const (
	pathRegister = "/api/v1/auth/register"
	pathCatalog  = "/api/v1/cupcakes"
	pathCart     = "/api/v1/cart"
	pathOrders   = "/api/v1/orders"
	pathAdmin    = "/api/v1/admin/cupcakes"
)

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func sessionContext(c *gin.Context) *session.Context {
	return handlershared.SessionContext(c)
}

func currentIdentity(c *gin.Context) session.Identity {
	return handlershared.CurrentIdentity(c)
}

func (h *Handler) loginPath() string {
	if h.Config != nil && h.Config.Session.LoginPath != "" {
		return h.Config.Session.LoginPath
	}
	return "/api/v1/auth/login"
}

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

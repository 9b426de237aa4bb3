package admin

import (
	"errors"

	handlershared "github.com/dujiao-next/cupcake/internal/http/handlers/shared"
	"github.com/dujiao-next/cupcake/internal/http/response"
	"github.com/dujiao-next/cupcake/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const pathAdminCupcakes = "/api/v1/admin/cupcakes"

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

// respondAdminError 鉴权失败统一跳转登录页，其余按错误类别响应
func (h *Handler) respondAdminError(c *gin.Context, err error, redirect, fallbackKey string) {
	if errors.Is(err, service.ErrAuth) {
		requestLog(c).Warnw("admin_auth_redirect", "path", c.Request.URL.Path, "error", err)
		response.Found(c, h.Config.Session.LoginPath)
		return
	}
	handlershared.RespondServiceError(c, err, redirect, fallbackKey)
}

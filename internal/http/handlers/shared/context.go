package shared

import (
	"strconv"
	"strings"

	"github.com/dujiao-next/cupcake/internal/constants"
	"github.com/dujiao-next/cupcake/internal/http/response"
	"github.com/dujiao-next/cupcake/internal/session"

	"github.com/gin-gonic/gin"
)

// SessionContext 取出请求级会话上下文，中间件未加载时返回一个不会被保存的空上下文。
func SessionContext(c *gin.Context) *session.Context {
	if value, ok := c.Get(constants.SessionContextKey); ok {
		if ctx, ok := value.(*session.Context); ok && ctx != nil {
			return ctx
		}
	}
	ctx := session.NewContext(session.State{})
	c.Set(constants.SessionContextKey, ctx)
	return ctx
}

// CurrentIdentity 当前请求的身份快照
func CurrentIdentity(c *gin.Context) session.Identity {
	return SessionContext(c).Identity()
}

// ParseIDParam 解析路径中的正整数 ID，失败时直接返回错误响应。
func ParseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		RespondError(c, response.CodeBadRequest, "error.id_invalid", nil)
		return 0, false
	}
	return uint(id), true
}

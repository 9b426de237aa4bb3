package shared

import (
	"errors"

	"github.com/dujiao-next/cupcake/internal/http/response"
	"github.com/dujiao-next/cupcake/internal/i18n"
	"github.com/dujiao-next/cupcake/internal/logger"
	"github.com/dujiao-next/cupcake/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// keyedError 携带 i18n key 的业务错误
type keyedError interface {
	Key() string
}

// argsError 携带格式化参数的业务错误
type argsError interface {
	Args() []interface{}
}

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回国际化错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	RespondErrorWithData(c, code, key, err, nil)
}

// RespondErrorWithData 返回国际化错误响应并附带 data。
func RespondErrorWithData(c *gin.Context, code int, key string, err error, data interface{}, args ...interface{}) {
	locale := i18n.ResolveLocale(c)
	msg := i18n.T(locale, key)
	if len(args) > 0 {
		msg = i18n.Sprintf(locale, key, args...)
	}
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", code,
			"message", msg,
			"error", err,
		)
	}
	response.ErrorWithData(c, code, msg, data)
}

// ServiceErrorCode 按错误类别映射响应码，未归类的错误返回 false
func ServiceErrorCode(err error) (int, bool) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		return response.CodeForbidden, true
	case errors.Is(err, service.ErrAuth):
		return response.CodeUnauthorized, true
	case errors.Is(err, service.ErrNotFound):
		return response.CodeNotFound, true
	case errors.Is(err, service.ErrConflict):
		return response.CodeConflict, true
	case errors.Is(err, service.ErrValidation):
		return response.CodeBadRequest, true
	default:
		return 0, false
	}
}

// RespondServiceError 按错误类别返回响应；校验与冲突错误附带 redirect 指回原表单。
// 未归类的错误按 fallbackKey 返回 500 并记录原始错误。
func RespondServiceError(c *gin.Context, err error, redirect, fallbackKey string) {
	code, ok := ServiceErrorCode(err)
	if !ok {
		RespondError(c, response.CodeInternal, fallbackKey, err)
		return
	}

	key := fallbackKey
	var keyed keyedError
	if errors.As(err, &keyed) {
		key = keyed.Key()
	}
	var args []interface{}
	var withArgs argsError
	if errors.As(err, &withArgs) {
		args = withArgs.Args()
	}

	var data interface{}
	if code == response.CodeBadRequest || code == response.CodeConflict {
		data = response.RedirectData(redirect)
	}
	RequestLog(c).Debugw("handler_service_error", "code", code, "key", key, "error", err)
	RespondErrorWithData(c, code, key, nil, data, args...)
}

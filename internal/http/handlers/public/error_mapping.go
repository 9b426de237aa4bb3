package public

import (
	"errors"

	handlershared "github.com/dujiao-next/cupcake/internal/http/handlers/shared"
	"github.com/dujiao-next/cupcake/internal/http/response"
	"github.com/dujiao-next/cupcake/internal/i18n"
	"github.com/dujiao-next/cupcake/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义不属于错误类别的业务错误到接口响应的映射关系。
type mappedHandlerError struct {
	target   error
	code     int
	key      string
	redirect string
}

var checkoutErrorRules = []mappedHandlerError{
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, key: "error.cart_empty", redirect: pathCatalog},
}

var captchaErrorRules = []mappedHandlerError{
	{target: service.ErrCaptchaUnavailable, code: response.CodeInternal, key: "error.captcha_unavailable"},
}

// respondWithMappedError 先匹配专用规则，再按错误类别响应
func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, redirect, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			msg := i18n.T(i18n.ResolveLocale(c), rule.key)
			response.ErrorWithData(c, rule.code, msg, response.RedirectData(rule.redirect))
			return
		}
	}
	handlershared.RespondServiceError(c, err, redirect, fallbackKey)
}

func respondServiceError(c *gin.Context, err error, redirect, fallbackKey string) {
	respondWithMappedError(c, err, nil, redirect, fallbackKey)
}

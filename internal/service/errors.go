package service

import "errors"

// 错误类别，handler 按类别决定响应方式
var (
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrAuth       = errors.New("authentication failed")
	ErrNotFound   = errors.New("not found")
)

// kindError 携带类别与 i18n key 的业务错误
type kindError struct {
	kind error
	key  string
	msg  string
}

func newKindError(kind error, key, msg string) *kindError {
	return &kindError{kind: kind, key: key, msg: msg}
}

func (e *kindError) Error() string {
	return e.msg
}

// Is 匹配所属类别，哨兵自身由 errors.Is 的相等比较覆盖
func (e *kindError) Is(target error) bool {
	return target == e.kind
}

// Key 返回 i18n key
func (e *kindError) Key() string {
	return e.key
}

// 账户
var (
	ErrFieldsRequired      = newKindError(ErrValidation, "error.fields_required", "all fields are required")
	ErrInvalidEmail        = newKindError(ErrValidation, "error.email_invalid", "invalid email")
	ErrWeakPassword        = newKindError(ErrValidation, "error.password_too_short", "password too short")
	ErrEmailExists         = newKindError(ErrConflict, "error.email_exists", "email already registered")
	ErrLoginFieldsRequired = newKindError(ErrAuth, "error.login_fields_required", "email and password are required")
	ErrInvalidCredentials  = newKindError(ErrAuth, "error.invalid_credentials", "invalid email or password")
	ErrNotAuthenticated    = newKindError(ErrAuth, "error.login_required", "login required")
	ErrForbidden           = newKindError(ErrAuth, "error.forbidden", "admin only")
	ErrInvalidToken        = newKindError(ErrAuth, "error.token_invalid", "invalid token")
	ErrCaptchaInvalid      = newKindError(ErrValidation, "error.captcha_invalid", "invalid captcha")
)

// 商品与图片
var (
	ErrCupcakeNotFound     = newKindError(ErrNotFound, "error.cupcake_not_found", "cupcake not found")
	ErrFlavorRequired      = newKindError(ErrValidation, "error.flavor_required", "flavor is required")
	ErrInvalidPrice        = newKindError(ErrValidation, "error.price_invalid", "price must be positive")
	ErrImageInvalid        = newKindError(ErrValidation, "error.image_invalid", "invalid image")
	ErrImageNameInvalid    = newKindError(ErrValidation, "error.image_name_invalid", "invalid image file name")
	ErrImageTooLarge       = newKindError(ErrValidation, "error.image_too_large", "image too large")
	ErrImageTypeNotAllowed = newKindError(ErrValidation, "error.image_type_not_allowed", "image type not allowed")
)

// 订单
var (
	ErrOrderNotFound = newKindError(ErrNotFound, "error.order_not_found", "order not found")
	// ErrCartEmpty 空购物袋结算，按跳转处理而非失败
	ErrCartEmpty = errors.New("cart is empty")
)

// ErrCaptchaUnavailable 验证码生成失败
var ErrCaptchaUnavailable = errors.New("captcha unavailable")

package public

import (
	"errors"
	"time"

	"github.com/dujiao-next/cupcake/internal/http/response"
	"github.com/dujiao-next/cupcake/internal/i18n"
	"github.com/dujiao-next/cupcake/internal/models"
	"github.com/dujiao-next/cupcake/internal/service"
	"github.com/dujiao-next/cupcake/internal/session"

	"github.com/gin-gonic/gin"
)

// AccountResponse 账户摘要
type AccountResponse struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	IsAdmin bool   `json:"is_admin"`
}

// SessionResponse 当前会话快照
type SessionResponse struct {
	Authenticated bool             `json:"authenticated"`
	User          *AccountResponse `json:"user,omitempty"`
	CartCount     int              `json:"cart_count"`
	CartTotal     string           `json:"cart_total"`
}

func toAccountResponse(user *models.User, identity session.Identity) *AccountResponse {
	resp := &AccountResponse{ID: identity.UserID, Name: identity.Name, IsAdmin: identity.IsAdmin}
	if user != nil {
		resp.Email = user.Email
	}
	return resp
}

// Register 顾客注册，成功后直接登录
func (h *Handler) Register(c *gin.Context) {
	var input service.RegisterInput
	if err := c.ShouldBind(&input); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	user, identity, err := h.AccountService.Register(input)
	if err != nil {
		// 邮箱已注册时引导去登录
		redirect := pathRegister
		if errors.Is(err, service.ErrEmailExists) {
			redirect = h.loginPath()
		}
		respondServiceError(c, err, redirect, "error.internal")
		return
	}
	sessionContext(c).SetIdentity(identity)

	msg := i18n.T(i18n.ResolveLocale(c), "message.registered")
	response.SuccessWithMsg(c, msg, gin.H{
		"user":     toAccountResponse(user, identity),
		"redirect": pathCatalog,
	})
}

// Login 登录，建立会话并签发 API 令牌
func (h *Handler) Login(c *gin.Context) {
	var input service.LoginInput
	if err := c.ShouldBind(&input); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	user, identity, err := h.AccountService.Authenticate(input)
	if err != nil {
		respondServiceError(c, err, h.loginPath(), "error.internal")
		return
	}
	sessionContext(c).SetIdentity(identity)

	data := gin.H{
		"user":     toAccountResponse(user, identity),
		"redirect": pathCatalog,
	}
	if identity.IsAdmin {
		data["redirect"] = pathAdmin
	}
	token, expiresAt, err := h.AccountService.IssueToken(identity)
	if err != nil {
		requestLog(c).Warnw("auth_issue_token_failed", "user_id", identity.UserID, "error", err)
	} else {
		data["token"] = token
		data["expires_at"] = expiresAt.UTC().Format(time.RFC3339)
	}

	requestLog(c).Infow("auth_login_success", "user_id", identity.UserID, "is_admin", identity.IsAdmin)
	msg := i18n.Sprintf(i18n.ResolveLocale(c), "message.welcome", identity.Name)
	response.SuccessWithMsg(c, msg, data)
}

// Logout 清空会话（身份与购物袋）
func (h *Handler) Logout(c *gin.Context) {
	sessionContext(c).Clear()
	msg := i18n.T(i18n.ResolveLocale(c), "message.logged_out")
	response.SuccessWithMsg(c, msg, gin.H{"redirect": h.loginPath()})
}

// Me 当前会话快照
func (h *Handler) Me(c *gin.Context) {
	ctx := sessionContext(c)
	identity := ctx.Identity()
	cart := ctx.Cart()

	resp := SessionResponse{
		Authenticated: identity.IsAuthenticated(),
		CartCount:     cart.Count(),
		CartTotal:     h.CartService.Total(cart).StringFixed(2),
	}
	if identity.IsAuthenticated() {
		resp.User = toAccountResponse(nil, identity)
	}
	response.Success(c, resp)
}

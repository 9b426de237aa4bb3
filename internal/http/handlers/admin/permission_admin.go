package admin

import (
	"errors"

	"github.com/dujiao-next/cupcake/internal/authz"
	"github.com/dujiao-next/cupcake/internal/http/response"
	"github.com/dujiao-next/cupcake/internal/i18n"

	"github.com/gin-gonic/gin"
)

const pathAdminRoles = "/api/v1/admin/permissions/roles"

// RolePolicyRequest 授予或撤销角色策略
type RolePolicyRequest struct {
	Role   string `json:"role" form:"role" binding:"required"`
	Object string `json:"object" form:"object" binding:"required"`
	Action string `json:"action" form:"action" binding:"required"`
}

// ListRoles 角色矩阵：角色、继承关系与策略
func (h *Handler) ListRoles(c *gin.Context) {
	views, err := h.AuthzService.RoleMatrix()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, views)
}

// GrantRolePolicy 为角色追加策略，角色不存在时自动创建
func (h *Handler) GrantRolePolicy(c *gin.Context) {
	var req RolePolicyRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.policy_invalid", nil)
		return
	}
	if err := h.AuthzService.GrantRolePolicy(req.Role, req.Object, req.Action); err != nil {
		respondError(c, response.CodeBadRequest, "error.policy_invalid", err)
		return
	}
	requestLog(c).Infow("admin_policy_granted",
		"operator_id", currentIdentity(c).UserID,
		"role", req.Role,
		"object", authz.NormalizeObject(req.Object),
		"action", authz.NormalizeAction(req.Action),
	)
	h.respondRoleMatrix(c, "message.policy_granted")
}

// RevokeRolePolicy 撤销角色策略
func (h *Handler) RevokeRolePolicy(c *gin.Context) {
	var req RolePolicyRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.policy_invalid", nil)
		return
	}
	if err := h.AuthzService.RevokeRolePolicy(req.Role, req.Object, req.Action); err != nil {
		if errors.Is(err, authz.ErrProtectedPolicy) {
			respondError(c, response.CodeForbidden, "error.policy_protected", nil)
			return
		}
		respondError(c, response.CodeBadRequest, "error.policy_invalid", err)
		return
	}
	requestLog(c).Infow("admin_policy_revoked",
		"operator_id", currentIdentity(c).UserID,
		"role", req.Role,
		"object", authz.NormalizeObject(req.Object),
		"action", authz.NormalizeAction(req.Action),
	)
	h.respondRoleMatrix(c, "message.policy_revoked")
}

func (h *Handler) respondRoleMatrix(c *gin.Context, msgKey string) {
	views, err := h.AuthzService.RoleMatrix()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	msg := i18n.T(i18n.ResolveLocale(c), msgKey)
	response.SuccessWithMsg(c, msg, gin.H{"roles": views, "redirect": pathAdminRoles})
}

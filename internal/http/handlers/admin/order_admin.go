package admin

import (
	"strconv"
	"strings"

	handlershared "github.com/dujiao-next/cupcake/internal/http/handlers/shared"
	"github.com/dujiao-next/cupcake/internal/http/handlers/public"
	"github.com/dujiao-next/cupcake/internal/http/response"
	"github.com/dujiao-next/cupcake/internal/i18n"
	"github.com/dujiao-next/cupcake/internal/repository"

	"github.com/gin-gonic/gin"
)

// AdminOrderResponse 管理端订单视图
type AdminOrderResponse struct {
	public.OrderResponse
	UserID *uint `json:"user_id"`
}

// ListOrders 管理端订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)
	userID, _ := strconv.ParseUint(strings.TrimSpace(c.Query("user_id")), 10, 64)

	filter := repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uint(userID),
		OrderNo:  strings.TrimSpace(c.Query("order_no")),
	}
	orders, total, err := h.CheckoutService.ListAllOrders(currentIdentity(c), filter)
	if err != nil {
		h.respondAdminError(c, err, "", "error.internal")
		return
	}

	items := make([]AdminOrderResponse, 0, len(orders))
	for _, order := range orders {
		items = append(items, AdminOrderResponse{
			OrderResponse: public.ToOrderResponse(order),
			UserID:        order.UserID,
		})
	}
	response.SuccessWithPage(c, items, response.NewPagination(page, pageSize, total))
}

// DeleteOrder 删除订单及其订单项
func (h *Handler) DeleteOrder(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.CheckoutService.DeleteOrder(currentIdentity(c), id); err != nil {
		h.respondAdminError(c, err, "", "error.internal")
		return
	}
	msg := i18n.T(i18n.ResolveLocale(c), "message.order_deleted")
	response.SuccessWithMsg(c, msg, nil)
}

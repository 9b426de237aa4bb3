package public

import (
	"strings"
	"time"

	"github.com/dujiao-next/cupcake/internal/http/response"
	"github.com/dujiao-next/cupcake/internal/i18n"
	"github.com/dujiao-next/cupcake/internal/models"
	"github.com/dujiao-next/cupcake/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderItemResponse 订单项
type OrderItemResponse struct {
	CupcakeID uint         `json:"cupcake_id"`
	Flavor    string       `json:"flavor"`
	Quantity  int          `json:"quantity"`
	UnitPrice models.Money `json:"unit_price"`
	Subtotal  models.Money `json:"subtotal"`
}

// OrderResponse 订单
type OrderResponse struct {
	ID        uint                `json:"id"`
	OrderNo   string              `json:"order_no"`
	Total     models.Money        `json:"total"`
	CreatedAt string              `json:"created_at"`
	Items     []OrderItemResponse `json:"items"`
}

// ToOrderResponse 转换为接口响应
func ToOrderResponse(order models.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			CupcakeID: item.CupcakeID,
			Flavor:    item.Flavor,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal(),
		})
	}
	return OrderResponse{
		ID:        order.ID,
		OrderNo:   order.OrderNo,
		Total:     order.Total,
		CreatedAt: order.CreatedAt.UTC().Format(time.RFC3339),
		Items:     items,
	}
}

// Checkout 结算购物袋，游客也可下单
func (h *Handler) Checkout(c *gin.Context) {
	ctx := sessionContext(c)
	input := service.CheckoutInput{Cart: ctx.Cart()}
	if identity := ctx.Identity(); identity.IsAuthenticated() {
		userID := identity.UserID
		input.UserID = &userID
	}

	order, cart, err := h.CheckoutService.Checkout(input)
	if err != nil {
		respondWithMappedError(c, err, checkoutErrorRules, pathCart, "error.internal")
		return
	}
	ctx.SetCart(cart)

	msg := i18n.Sprintf(i18n.ResolveLocale(c), "message.order_placed", order.OrderNo)
	response.SuccessWithMsg(c, msg, gin.H{
		"order":    ToOrderResponse(*order),
		"redirect": pathOrders + "/" + order.OrderNo,
	})
}

// ListOrders 当前用户订单，最新在前
func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.CheckoutService.ListOrders(currentIdentity(c).UserID)
	if err != nil {
		respondServiceError(c, err, h.loginPath(), "error.internal")
		return
	}
	items := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		items = append(items, ToOrderResponse(order))
	}
	response.Success(c, items)
}

// GetOrder 按订单号查看订单
func (h *Handler) GetOrder(c *gin.Context) {
	orderNo := strings.TrimSpace(c.Param("order_no"))
	order, err := h.CheckoutService.GetOrder(currentIdentity(c).UserID, orderNo)
	if err != nil {
		respondServiceError(c, err, h.loginPath(), "error.internal")
		return
	}
	response.Success(c, ToOrderResponse(*order))
}

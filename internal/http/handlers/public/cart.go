package public

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	handlershared "github.com/dujiao-next/cupcake/internal/http/handlers/shared"
	"github.com/dujiao-next/cupcake/internal/http/response"
	"github.com/dujiao-next/cupcake/internal/i18n"
	"github.com/dujiao-next/cupcake/internal/models"
	"github.com/dujiao-next/cupcake/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// quantityFieldPrefix 表单字段 quantidade_<id>
const quantityFieldPrefix = "quantidade_"

// CartLineResponse 购物袋条目
type CartLineResponse struct {
	CupcakeID uint         `json:"cupcake_id"`
	Flavor    string       `json:"flavor"`
	Price     models.Money `json:"price"`
	Quantity  int          `json:"quantity"`
	Subtotal  models.Money `json:"subtotal"`
}

// CartResponse 购物袋
type CartResponse struct {
	Items []CartLineResponse `json:"items"`
	Count int                `json:"count"`
	Total models.Money       `json:"total"`
}

func (h *Handler) toCartResponse(cart models.Cart) CartResponse {
	items := make([]CartLineResponse, 0, len(cart))
	for _, line := range cart {
		items = append(items, CartLineResponse{
			CupcakeID: line.CupcakeID,
			Flavor:    line.Flavor,
			Price:     line.Price,
			Quantity:  line.Quantity,
			Subtotal:  line.Subtotal(),
		})
	}
	return CartResponse{
		Items: items,
		Count: cart.Count(),
		Total: h.CartService.Total(cart),
	}
}

// GetCart 查看购物袋
func (h *Handler) GetCart(c *gin.Context) {
	response.Success(c, h.toCartResponse(sessionContext(c).Cart()))
}

// AddCartItem 加入一个商品
func (h *Handler) AddCartItem(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	ctx := sessionContext(c)
	cart, err := h.CartService.Add(ctx.Cart(), id)
	if err != nil {
		respondServiceError(c, err, pathCatalog, "error.internal")
		return
	}
	ctx.SetCart(cart)

	msg := i18n.T(i18n.ResolveLocale(c), "message.cart_added")
	response.SuccessWithMsg(c, msg, h.toCartResponse(cart))
}

// UpdateCartQuantities 批量修改数量
func (h *Handler) UpdateCartQuantities(c *gin.Context) {
	input, err := bindQuantities(c)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	ctx := sessionContext(c)
	cart := h.CartService.UpdateQuantities(ctx.Cart(), input)
	ctx.SetCart(cart)

	msg := i18n.T(i18n.ResolveLocale(c), "message.cart_updated")
	response.SuccessWithMsg(c, msg, h.toCartResponse(cart))
}

// RemoveCartItem 移除条目
func (h *Handler) RemoveCartItem(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	ctx := sessionContext(c)
	cart := h.CartService.Remove(ctx.Cart(), id)
	ctx.SetCart(cart)

	msg := i18n.T(i18n.ResolveLocale(c), "message.cart_removed")
	response.SuccessWithMsg(c, msg, h.toCartResponse(cart))
}

// bindQuantities 读取 JSON {"quantities":{id:value}} 或 quantidade_<id> 表单，
// 取值统一转成原始字符串，是否合法由 CartService 判断
func bindQuantities(c *gin.Context) (service.UpdateQuantitiesInput, error) {
	input := service.UpdateQuantitiesInput{Quantities: map[uint]string{}}

	switch c.ContentType() {
	case binding.MIMEJSON:
		var body struct {
			Quantities map[string]json.RawMessage `json:"quantities"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			return input, err
		}
		for key, raw := range body.Quantities {
			if id, ok := parseLineID(key); ok {
				input.Quantities[id] = rawQuantity(raw)
			}
		}
		return input, nil
	case binding.MIMEMultipartPOSTForm:
		if err := c.Request.ParseMultipartForm(1 << 20); err != nil {
			return input, err
		}
	default:
		if err := c.Request.ParseForm(); err != nil {
			return input, err
		}
	}

	for key, values := range c.Request.PostForm {
		if !strings.HasPrefix(key, quantityFieldPrefix) || len(values) == 0 {
			continue
		}
		if id, ok := parseLineID(strings.TrimPrefix(key, quantityFieldPrefix)); ok {
			input.Quantities[id] = values[0]
		}
	}
	return input, nil
}

func parseLineID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// rawQuantity JSON 字符串去引号，数字等其余取值保留字面量
func rawQuantity(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err == nil {
			return text
		}
		return ""
	}
	return string(trimmed)
}

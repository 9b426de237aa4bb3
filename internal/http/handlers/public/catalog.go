package public

import (
	"net/http"
	"strings"

	handlershared "github.com/dujiao-next/cupcake/internal/http/handlers/shared"
	"github.com/dujiao-next/cupcake/internal/http/response"
	"github.com/dujiao-next/cupcake/internal/models"
	"github.com/dujiao-next/cupcake/internal/service"

	"github.com/gin-gonic/gin"
)

// CupcakeResponse 商品详情
type CupcakeResponse struct {
	ID          uint         `json:"id"`
	Flavor      string       `json:"flavor"`
	Description string       `json:"description"`
	Details     string       `json:"details"`
	Price       models.Money `json:"price"`
	ImageURL    string       `json:"image_url"`
}

// ToCupcakeResponse 转换为接口响应
func ToCupcakeResponse(cupcake models.Cupcake, defaultImage string) CupcakeResponse {
	return CupcakeResponse{
		ID:          cupcake.ID,
		Flavor:      cupcake.Flavor,
		Description: cupcake.Description,
		Details:     cupcake.Details,
		Price:       cupcake.Price,
		ImageURL:    service.PublicURL(cupcake.Image, defaultImage),
	}
}

// bindListInput 读取 search/sort，兼容旧参数 busca/ordenar
func bindListInput(c *gin.Context) service.ListCupcakesInput {
	var input service.ListCupcakesInput
	_ = c.ShouldBindQuery(&input)
	if strings.TrimSpace(input.Search) == "" {
		input.Search = c.Query("busca")
	}
	if strings.TrimSpace(input.Sort) == "" {
		input.Sort = c.Query("ordenar")
	}
	return input
}

// ListCupcakes 商品列表
func (h *Handler) ListCupcakes(c *gin.Context) {
	input := bindListInput(c)
	cupcakes, err := h.CatalogService.List(input)
	if err != nil {
		respondServiceError(c, err, "", "error.internal")
		return
	}

	items := make([]CupcakeResponse, 0, len(cupcakes))
	for _, cupcake := range cupcakes {
		items = append(items, ToCupcakeResponse(cupcake, h.Config.Catalog.DefaultImage))
	}
	response.Success(c, gin.H{
		"items":  items,
		"search": strings.TrimSpace(input.Search),
		"sort":   service.NormalizeSort(input.Sort),
	})
}

// GetCupcake 商品详情
func (h *Handler) GetCupcake(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	cupcake, err := h.CatalogService.Get(id)
	if err != nil {
		respondServiceError(c, err, "", "error.internal")
		return
	}
	response.Success(c, ToCupcakeResponse(*cupcake, h.Config.Catalog.DefaultImage))
}

// CatalogFeed 目录 JSON，直接返回数组
func (h *Handler) CatalogFeed(c *gin.Context) {
	items, err := h.CatalogService.Feed(c.Request.Context(), bindListInput(c))
	if err != nil {
		requestLog(c).Errorw("catalog_feed_failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, items)
}

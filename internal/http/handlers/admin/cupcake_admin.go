package admin

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	handlershared "github.com/dujiao-next/cupcake/internal/http/handlers/shared"
	"github.com/dujiao-next/cupcake/internal/http/handlers/public"
	"github.com/dujiao-next/cupcake/internal/http/response"
	"github.com/dujiao-next/cupcake/internal/i18n"
	"github.com/dujiao-next/cupcake/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminCupcakeResponse 管理端商品视图，额外返回图片文件名
type AdminCupcakeResponse struct {
	public.CupcakeResponse
	Image string `json:"image"`
}

// ListCupcakes 管理端商品列表
func (h *Handler) ListCupcakes(c *gin.Context) {
	var input service.ListCupcakesInput
	_ = c.ShouldBindQuery(&input)
	cupcakes, err := h.CatalogService.List(input)
	if err != nil {
		h.respondAdminError(c, err, "", "error.internal")
		return
	}
	items := make([]AdminCupcakeResponse, 0, len(cupcakes))
	for _, cupcake := range cupcakes {
		items = append(items, AdminCupcakeResponse{
			CupcakeResponse: public.ToCupcakeResponse(cupcake, h.Config.Catalog.DefaultImage),
			Image:           cupcake.Image,
		})
	}
	response.Success(c, items)
}

// GetCupcake 管理端商品详情（编辑表单）
func (h *Handler) GetCupcake(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	cupcake, err := h.CatalogService.Get(id)
	if err != nil {
		h.respondAdminError(c, err, "", "error.internal")
		return
	}
	response.Success(c, AdminCupcakeResponse{
		CupcakeResponse: public.ToCupcakeResponse(*cupcake, h.Config.Catalog.DefaultImage),
		Image:           cupcake.Image,
	})
}

// CreateCupcake 新建商品，multipart 表单，image 可选
func (h *Handler) CreateCupcake(c *gin.Context) {
	var input service.CupcakeInput
	if err := c.ShouldBind(&input); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	image, ok := optionalImage(c)
	if !ok {
		return
	}

	cupcake, err := h.CatalogService.Create(currentIdentity(c), input, image)
	if err != nil {
		h.respondAdminError(c, err, pathAdminCupcakes, "error.internal")
		return
	}
	msg := i18n.T(i18n.ResolveLocale(c), "message.cupcake_created")
	response.SuccessWithMsg(c, msg, AdminCupcakeResponse{
		CupcakeResponse: public.ToCupcakeResponse(*cupcake, h.Config.Catalog.DefaultImage),
		Image:           cupcake.Image,
	})
}

// UpdateCupcake 编辑商品，未上传新图片时保留原图
func (h *Handler) UpdateCupcake(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var input service.CupcakeInput
	if err := c.ShouldBind(&input); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	image, ok := optionalImage(c)
	if !ok {
		return
	}

	cupcake, err := h.CatalogService.Update(currentIdentity(c), id, input, image)
	if err != nil {
		h.respondAdminError(c, err, fmt.Sprintf("%s/%d", pathAdminCupcakes, id), "error.internal")
		return
	}
	msg := i18n.T(i18n.ResolveLocale(c), "message.cupcake_updated")
	response.SuccessWithMsg(c, msg, AdminCupcakeResponse{
		CupcakeResponse: public.ToCupcakeResponse(*cupcake, h.Config.Catalog.DefaultImage),
		Image:           cupcake.Image,
	})
}

// DeleteCupcake 删除商品，图片文件删除失败不影响结果
func (h *Handler) DeleteCupcake(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.CatalogService.Delete(currentIdentity(c), id); err != nil {
		h.respondAdminError(c, err, pathAdminCupcakes, "error.internal")
		return
	}
	msg := i18n.T(i18n.ResolveLocale(c), "message.cupcake_deleted")
	response.SuccessWithMsg(c, msg, gin.H{"redirect": pathAdminCupcakes})
}

// optionalImage 读取可选的 image 文件字段
func optionalImage(c *gin.Context) (*multipart.FileHeader, bool) {
	file, err := c.FormFile("image")
	if err == nil {
		return file, true
	}
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, true
	}
	respondError(c, response.CodeBadRequest, "error.image_invalid", err)
	return nil, false
}

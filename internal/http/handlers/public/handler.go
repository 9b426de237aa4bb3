package public

import "github.com/dujiao-next/cupcake/internal/provider"

// Handler 前台/公开接口处理器入口
// 说明：该处理器用于顾客、游客与目录接口。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

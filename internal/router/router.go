package router

import (
	"net/http"
	"sort"
	"strings"

	"github.com/dujiao-next/cupcake/internal/authz"
	"github.com/dujiao-next/cupcake/internal/cache"
	"github.com/dujiao-next/cupcake/internal/config"
	"github.com/dujiao-next/cupcake/internal/constants"
	adminhandlers "github.com/dujiao-next/cupcake/internal/http/handlers/admin"
	publichandlers "github.com/dujiao-next/cupcake/internal/http/handlers/public"
	"github.com/dujiao-next/cupcake/internal/http/response"
	"github.com/dujiao-next/cupcake/internal/logger"
	"github.com/dujiao-next/cupcake/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	loginRule := RateLimitRule{
		Prefix:        cache.Key("rate:login"),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		MessageKey:    "error.login_too_many",
	}
	registerRule := loginRule
	registerRule.Prefix = cache.Key("rate:register")
	registerRule.MessageKey = "error.rate_limited"
	loginPath := strings.TrimSpace(cfg.Session.LoginPath)
	if loginPath == "" {
		loginPath = "/api/v1/auth/login"
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// 上传图片静态目录，不经过会话
	r.Static(constants.UploadURLPrefix, cfg.Upload.Dir)

	r.GET("/", func(ctx *gin.Context) {
		ctx.Redirect(http.StatusFound, loginPath)
	})

	// 商品 JSON 源
	r.GET("/api/cupcakes", publicHandler.CatalogFeed)

	apiV1 := r.Group("/api/v1")
	apiV1.Use(SessionMiddleware(c.SessionManager))
	apiV1.Use(BearerIdentityMiddleware(c.AccountService))
	{
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", RateLimitMiddleware(cache.Client(), registerRule, KeyByIP), publicHandler.Register)
			auth.POST("/login", RateLimitMiddleware(cache.Client(), loginRule, KeyByIPAndField("email")), publicHandler.Login)
			auth.GET("/logout", publicHandler.Logout)
			auth.POST("/logout", publicHandler.Logout)
			auth.GET("/me", publicHandler.Me)
		}

		apiV1.GET("/captcha/image", publicHandler.GetImageCaptcha)

		// 商品目录
		apiV1.GET("/cupcakes", publicHandler.ListCupcakes)
		apiV1.GET("/cupcakes/:id", publicHandler.GetCupcake)

		// 购物袋（游客可用）
		cart := apiV1.Group("/cart")
		{
			cart.GET("", publicHandler.GetCart)
			cart.POST("/items/:id", publicHandler.AddCartItem)
			cart.DELETE("/items/:id", publicHandler.RemoveCartItem)
			cart.POST("/quantities", publicHandler.UpdateCartQuantities)
		}
		apiV1.POST("/checkout", publicHandler.Checkout)

		// 顾客订单（需登录）
		orders := apiV1.Group("/orders")
		orders.Use(CustomerGuard(c.AuthzService))
		{
			orders.GET("", publicHandler.ListOrders)
			orders.GET("/:order_no", publicHandler.GetOrder)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		admin.Use(AdminGuard(c.AuthzService, loginPath))
		{
			admin.GET("/cupcakes", adminHandler.ListCupcakes)
			admin.POST("/cupcakes", adminHandler.CreateCupcake)
			admin.GET("/cupcakes/:id", adminHandler.GetCupcake)
			admin.PUT("/cupcakes/:id", adminHandler.UpdateCupcake)
			admin.DELETE("/cupcakes/:id", adminHandler.DeleteCupcake)

			admin.GET("/orders", adminHandler.ListOrders)
			admin.DELETE("/orders/:id", adminHandler.DeleteOrder)

			admin.GET("/permissions/catalog", func(ctx *gin.Context) {
				response.Success(ctx, buildAdminPermissionCatalog(r))
			})
			admin.GET("/permissions/roles", adminHandler.ListRoles)
			admin.POST("/permissions/roles/policies", adminHandler.GrantRolePolicy)
			admin.DELETE("/permissions/roles/policies", adminHandler.RevokeRolePolicy)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

// buildAdminPermissionCatalog 根据已注册路由生成管理端权限清单
func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	return segments[1]
}

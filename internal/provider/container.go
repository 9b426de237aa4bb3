package provider

import (
	"github.com/dujiao-next/cupcake/internal/authz"
	"github.com/dujiao-next/cupcake/internal/cache"
	"github.com/dujiao-next/cupcake/internal/config"
	"github.com/dujiao-next/cupcake/internal/logger"
	"github.com/dujiao-next/cupcake/internal/models"
	"github.com/dujiao-next/cupcake/internal/queue"
	"github.com/dujiao-next/cupcake/internal/repository"
	"github.com/dujiao-next/cupcake/internal/service"
	"github.com/dujiao-next/cupcake/internal/session"

	"github.com/gorilla/sessions"
	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config         *config.Config
	QueueClient    *queue.Client
	SessionManager *session.Manager

	// Repositories
	UserRepo    repository.UserRepository
	CupcakeRepo repository.CupcakeRepository
	OrderRepo   repository.OrderRepository

	// Services
	AuthzService    *authz.Service
	AccountService  *service.AccountService
	CaptchaService  *service.CaptchaService
	ImageStore      *service.ImageStore
	CatalogService  *service.CatalogService
	CartService     *service.CartService
	CheckoutService *service.CheckoutService
}

// NewContainer 初始化容器，使用全局数据库连接
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := NewContainerWithDB(cfg, models.DB, queueClient)
	logger.Infow("provider_container_ready",
		"redis_enabled", cache.Enabled(),
		"queue_enabled", queueClient.Enabled(),
		"captcha_enabled", c.CaptchaService.Enabled(),
	)
	return c
}

// NewContainerWithDB 使用指定数据库组装容器，queueClient 可为 nil
func NewContainerWithDB(cfg *config.Config, db *gorm.DB, queueClient *queue.Client) *Container {
	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories(db)

	// 2. 初始化 Services
	c.initServices(db)

	// 3. 会话存储
	c.SessionManager = session.NewManager(c.sessionStore(), cfg.Session.Name)

	return c
}

func (c *Container) initRepositories(db *gorm.DB) {
	c.UserRepo = repository.NewUserRepository(db)
	c.CupcakeRepo = repository.NewCupcakeRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
}

func (c *Container) initServices(db *gorm.DB) {
	authzService, err := authz.NewService(db)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.AccountService = service.NewAccountService(c.Config, c.UserRepo, c.CaptchaService)
	c.ImageStore = service.NewImageStore(c.Config.Upload)
	c.CatalogService = service.NewCatalogService(c.Config, c.CupcakeRepo, c.ImageStore)
	c.CartService = service.NewCartService(c.CupcakeRepo)
	// 队列未启用时不挂通知器，避免 nil 指针装进接口
	var notifier service.OrderNotifier
	if c.QueueClient.Enabled() {
		notifier = c.QueueClient
	}
	c.CheckoutService = service.NewCheckoutService(c.OrderRepo, notifier)
}

// sessionStore Redis 启用时会话数据落在 Redis，否则整体写入签名 Cookie
func (c *Container) sessionStore() sessions.Store {
	if client := cache.Client(); client != nil {
		backend := session.NewRedisBackend(client, cache.Key("session:"))
		return session.NewKVStore(backend, c.Config.Session)
	}
	return session.NewCookieStore(c.Config.Session)
}
